package store_test

import (
	"context"
	"testing"

	"gamecatalog/backend/internal/models"
	"gamecatalog/backend/internal/store"
	"gamecatalog/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStore(t *testing.T) (*store.GormStore, *gorm.DB) {
	db := testutil.NewDB(t)
	return store.NewGormStore(db), db
}

func createGame(t *testing.T, s *store.GormStore, name string, genreID uint) *models.Game {
	t.Helper()
	game := &models.Game{Name: name, Image: "/img/" + name + ".png", ReleaseYear: 1995, GenreID: &genreID}
	require.NoError(t, s.CreateGame(context.Background(), game))
	require.NotZero(t, game.ID)
	return game
}

func linkCount(db *gorm.DB, gameID uint) int64 {
	var n int64
	db.Table("game_platforms").Where("game_id = ?", gameID).Count(&n)
	return n
}

func TestCreateAndListGames(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	first := createGame(t, s, "Chrono", 3)
	second := createGame(t, s, "Tetris", 7)
	assert.NotEqual(t, first.ID, second.ID)

	games, err := s.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Chrono", games[0].Name)
	assert.Equal(t, "Tetris", games[1].Name)
	require.NotNil(t, games[0].Genre)
	assert.Equal(t, "RPG", games[0].Genre.Name)
	assert.Empty(t, games[0].Platforms)
}

func TestFindGamePreloads(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	game := createGame(t, s, "Chrono", 3)

	platform, err := s.FindPlatform(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, s.LinkPlatform(ctx, game, platform))

	bare, err := s.FindGame(ctx, game.ID, store.Preload{})
	require.NoError(t, err)
	assert.Nil(t, bare.Genre)
	assert.Nil(t, bare.Platforms)

	full, err := s.FindGame(ctx, game.ID, store.Preload{Genre: true, Platforms: true})
	require.NoError(t, err)
	require.NotNil(t, full.Genre)
	assert.Equal(t, uint(3), full.Genre.ID)
	require.Len(t, full.Platforms, 1)
	assert.Equal(t, uint(7), full.Platforms[0].ID)
}

func TestFindMissingRecords(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.FindGame(ctx, 404, store.Preload{Genre: true})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.FindGenre(ctx, 404)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.FindPlatform(ctx, 404)
	assert.ErrorIs(t, err, store.ErrNotFound)

	exists, err := s.GameExists(ctx, 404)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateGame(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	game := createGame(t, s, "Chrono", 3)

	genreID := uint(1)
	err := s.UpdateGame(ctx, &models.Game{ID: game.ID, Name: "Chrono Trigger", ReleaseYear: 1995, GenreID: &genreID})
	require.NoError(t, err)

	updated, err := s.FindGame(ctx, game.ID, store.Preload{Genre: true})
	require.NoError(t, err)
	assert.Equal(t, "Chrono Trigger", updated.Name)
	assert.Equal(t, "Action", updated.Genre.Name)
	assert.Empty(t, updated.Image)
}

func TestUpdateUnchangedGameIsNotAConflict(t *testing.T) {
	s, _ := newStore(t)
	game := createGame(t, s, "Chrono", 3)

	assert.NoError(t, s.UpdateGame(context.Background(), game))
}

func TestUpdateMissingGameIsAConflict(t *testing.T) {
	s, _ := newStore(t)

	genreID := uint(1)
	err := s.UpdateGame(context.Background(), &models.Game{ID: 99, Name: "Ghost", ReleaseYear: 2000, GenreID: &genreID})
	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)
}

func TestLinkPlatformIsIdempotent(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	game := createGame(t, s, "Chrono", 3)
	platform, err := s.FindPlatform(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, s.LinkPlatform(ctx, game, platform))
	require.NoError(t, s.LinkPlatform(ctx, game, platform))

	assert.EqualValues(t, 1, linkCount(db, game.ID))
}

func TestUnlinkPlatform(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	game := createGame(t, s, "Chrono", 3)
	linked, err := s.FindPlatform(ctx, 7)
	require.NoError(t, err)
	other, err := s.FindPlatform(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, s.LinkPlatform(ctx, game, linked))

	// Not linked: no-op.
	require.NoError(t, s.UnlinkPlatform(ctx, game, other))
	assert.EqualValues(t, 1, linkCount(db, game.ID))

	require.NoError(t, s.UnlinkPlatform(ctx, game, linked))
	assert.Zero(t, linkCount(db, game.ID))

	// The platform itself is reference data and stays.
	_, err = s.FindPlatform(ctx, 7)
	assert.NoError(t, err)
}

func TestDeleteGameRemovesLinksAndIsIdempotent(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	game := createGame(t, s, "Chrono", 3)
	keep := createGame(t, s, "Tetris", 7)
	for _, id := range []uint{1, 7} {
		platform, err := s.FindPlatform(ctx, id)
		require.NoError(t, err)
		require.NoError(t, s.LinkPlatform(ctx, game, platform))
		require.NoError(t, s.LinkPlatform(ctx, keep, platform))
	}

	require.NoError(t, s.DeleteGame(ctx, game.ID))
	require.NoError(t, s.DeleteGame(ctx, game.ID))

	exists, err := s.GameExists(ctx, game.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Zero(t, linkCount(db, game.ID))
	assert.EqualValues(t, 2, linkCount(db, keep.ID))
}

func TestReferenceCatalogs(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	genres, err := s.ListGenres(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, genres)
	assert.Equal(t, uint(1), genres[0].ID)

	platforms, err := s.ListPlatforms(ctx)
	require.NoError(t, err)
	require.Len(t, platforms, 9)
	assert.Equal(t, "Nintendo Switch", platforms[6].Name)
}
