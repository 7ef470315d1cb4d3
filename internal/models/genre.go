package models

import "time"

// Genre is read-only reference data used to categorize a game (e.g., "RPG", "Puzzle").
type Genre struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;unique;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
