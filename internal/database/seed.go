package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"gamecatalog/backend/internal/models"

	"gorm.io/gorm"
)

//go:embed seed.json
var seedJSON []byte

// ReferenceData is the genre and platform catalog a fresh database starts with.
type ReferenceData struct {
	Genres    []string `json:"genres"`
	Platforms []string `json:"platforms"`
}

// DefaultReferenceData returns the embedded catalog.
func DefaultReferenceData() (ReferenceData, error) {
	var data ReferenceData
	if err := json.Unmarshal(seedJSON, &data); err != nil {
		return ReferenceData{}, fmt.Errorf("decode seed data: %w", err)
	}
	return data, nil
}

// Seed inserts the reference catalog into empty genre and platform tables.
// Tables that already hold rows are left alone.
func Seed(ctx context.Context, db *gorm.DB, data ReferenceData) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Genre{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 && len(data.Genres) > 0 {
			genres := make([]models.Genre, 0, len(data.Genres))
			for _, name := range data.Genres {
				genres = append(genres, models.Genre{Name: name})
			}
			if err := tx.Create(&genres).Error; err != nil {
				return fmt.Errorf("seed genres: %w", err)
			}
		}

		if err := tx.Model(&models.Platform{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 && len(data.Platforms) > 0 {
			platforms := make([]models.Platform, 0, len(data.Platforms))
			for _, name := range data.Platforms {
				platforms = append(platforms, models.Platform{Name: name})
			}
			if err := tx.Create(&platforms).Error; err != nil {
				return fmt.Errorf("seed platforms: %w", err)
			}
		}
		return nil
	})
}
