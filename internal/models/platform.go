package models

import "time"

// Platform is read-only reference data; games link to many platforms.
type Platform struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;unique;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
