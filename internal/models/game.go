package models

import "time"

// Game represents a catalog entry with its genre and the platforms it runs on.
type Game struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Image       string `gorm:"size:512"`
	ReleaseYear int    `gorm:"not null"`
	GenreID     *uint  `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Genre     *Genre      `gorm:"foreignKey:GenreID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Platforms []*Platform `gorm:"many2many:game_platforms;constraint:OnDelete:CASCADE;"`
}

// PlatformIDs returns the set of platform ids currently linked to the game.
// Membership is keyed by id only.
func (g *Game) PlatformIDs() map[uint]struct{} {
	ids := make(map[uint]struct{}, len(g.Platforms))
	for _, p := range g.Platforms {
		if p != nil {
			ids[p.ID] = struct{}{}
		}
	}
	return ids
}

// HasPlatform reports whether the platform with the given id is linked.
func (g *Game) HasPlatform(platformID uint) bool {
	_, ok := g.PlatformIDs()[platformID]
	return ok
}
