package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGamePlatformIDs(t *testing.T) {
	game := Game{Platforms: []*Platform{{ID: 2}, nil, {ID: 7}, {ID: 2}}}

	ids := game.PlatformIDs()
	assert.Len(t, ids, 2)
	assert.True(t, game.HasPlatform(7))
	assert.False(t, game.HasPlatform(3))
}

func TestGameWithoutPlatforms(t *testing.T) {
	var game Game
	assert.Empty(t, game.PlatformIDs())
	assert.False(t, game.HasPlatform(1))
}
