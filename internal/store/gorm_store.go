package store

import (
	"context"
	"errors"
	"fmt"

	"gamecatalog/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on gorm.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func notFound(err error, kind string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("find %s %d: %w", kind, id, err)
}

// ListGames returns every game with genre and platforms, in primary-key order.
func (s *GormStore) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	err := s.db.WithContext(ctx).
		Preload("Genre").
		Preload("Platforms", orderByID).
		Order("id").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// FindGame loads one game and the relations requested by preload.
func (s *GormStore) FindGame(ctx context.Context, id uint, preload Preload) (*models.Game, error) {
	query := s.db.WithContext(ctx)
	if preload.Genre {
		query = query.Preload("Genre")
	}
	if preload.Platforms {
		query = query.Preload("Platforms", orderByID)
	}

	var game models.Game
	if err := query.First(&game, id).Error; err != nil {
		return nil, notFound(err, "game", id)
	}
	return &game, nil
}

// GameExists reports whether a game row with the id is present.
func (s *GormStore) GameExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check game %d: %w", id, err)
	}
	return count > 0, nil
}

// CreateGame inserts the game's own columns; associations are managed separately.
func (s *GormStore) CreateGame(ctx context.Context, game *models.Game) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(game).Error; err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

// UpdateGame writes the scalar columns of an existing game. An update that
// matches no row returns ErrConcurrencyConflict.
func (s *GormStore) UpdateGame(ctx context.Context, game *models.Game) error {
	result := s.db.WithContext(ctx).
		Model(&models.Game{}).
		Where("id = ?", game.ID).
		Updates(map[string]interface{}{
			"name":         game.Name,
			"image":        game.Image,
			"release_year": game.ReleaseYear,
			"genre_id":     game.GenreID,
		})
	if result.Error != nil {
		return fmt.Errorf("update game %d: %w", game.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update game %d: %w", game.ID, ErrConcurrencyConflict)
	}
	return nil
}

// DeleteGame removes the game and its platform links. Deleting a missing game
// is not an error.
func (s *GormStore) DeleteGame(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Select("Platforms").Delete(&models.Game{ID: id}).Error; err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}
	return nil
}

// ListGenres returns the genre catalog in primary-key order.
func (s *GormStore) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := s.db.WithContext(ctx).Order("id").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// FindGenre loads a genre by id.
func (s *GormStore) FindGenre(ctx context.Context, id uint) (*models.Genre, error) {
	var genre models.Genre
	if err := s.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		return nil, notFound(err, "genre", id)
	}
	return &genre, nil
}

// ListPlatforms returns the platform catalog in primary-key order.
func (s *GormStore) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	var platforms []models.Platform
	if err := s.db.WithContext(ctx).Order("id").Find(&platforms).Error; err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	return platforms, nil
}

// FindPlatform loads a platform by id.
func (s *GormStore) FindPlatform(ctx context.Context, id uint) (*models.Platform, error) {
	var platform models.Platform
	if err := s.db.WithContext(ctx).First(&platform, id).Error; err != nil {
		return nil, notFound(err, "platform", id)
	}
	return &platform, nil
}

// LinkPlatform adds platform to the game's platform set. Linking an already
// linked platform leaves the set unchanged.
func (s *GormStore) LinkPlatform(ctx context.Context, game *models.Game, platform *models.Platform) error {
	linked, err := s.isLinked(ctx, game.ID, platform.ID)
	if err != nil {
		return err
	}
	if linked {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(game).Association("Platforms").Append(platform); err != nil {
		return fmt.Errorf("link platform %d to game %d: %w", platform.ID, game.ID, err)
	}
	return nil
}

// UnlinkPlatform removes platform from the game's platform set; a platform
// that is not linked is ignored.
func (s *GormStore) UnlinkPlatform(ctx context.Context, game *models.Game, platform *models.Platform) error {
	if err := s.db.WithContext(ctx).Model(game).Association("Platforms").Delete(platform); err != nil {
		return fmt.Errorf("unlink platform %d from game %d: %w", platform.ID, game.ID, err)
	}
	return nil
}

func (s *GormStore) isLinked(ctx context.Context, gameID, platformID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table("game_platforms").
		Where("game_id = ? AND platform_id = ?", gameID, platformID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check platform link: %w", err)
	}
	return count > 0, nil
}
