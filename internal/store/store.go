// Package store is the persistence gateway for the game catalog.
package store

import (
	"context"
	"errors"

	"gamecatalog/backend/internal/models"
)

var (
	// ErrNotFound is returned when a game, genre or platform does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConcurrencyConflict is returned when a write matched no row. The caller
	// decides whether the row was deleted or the conflict is fatal.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// Preload selects which relations a game read loads eagerly.
type Preload struct {
	Genre     bool
	Platforms bool
}

// Store is the persistence gateway used by the game handlers.
type Store interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	FindGame(ctx context.Context, id uint, preload Preload) (*models.Game, error)
	GameExists(ctx context.Context, id uint) (bool, error)
	CreateGame(ctx context.Context, game *models.Game) error
	UpdateGame(ctx context.Context, game *models.Game) error
	DeleteGame(ctx context.Context, id uint) error

	ListGenres(ctx context.Context) ([]models.Genre, error)
	FindGenre(ctx context.Context, id uint) (*models.Genre, error)
	ListPlatforms(ctx context.Context) ([]models.Platform, error)
	FindPlatform(ctx context.Context, id uint) (*models.Platform, error)

	LinkPlatform(ctx context.Context, game *models.Game, platform *models.Platform) error
	UnlinkPlatform(ctx context.Context, game *models.Game, platform *models.Platform) error
}
