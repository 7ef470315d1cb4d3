package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gamecatalog/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// region --- DTOs ---

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"Game not found"`
}

// GameInput is the bound form of a game. It binds from JSON or from an
// url-encoded HTML form.
type GameInput struct {
	ID          uint   `json:"id" form:"id" example:"1"`
	Name        string `json:"name" form:"name" binding:"required,max=255" example:"Chrono"`
	Image       string `json:"image" form:"image" binding:"max=512" example:"/img/chrono.png"`
	ReleaseYear int    `json:"release_year" form:"release_year" binding:"required,gte=1" example:"1995"`
	GenreID     uint   `json:"genre_id" form:"genre_id" binding:"required" example:"3"`
}

// PlatformInput carries the platform picked in the add/remove platform forms.
type PlatformInput struct {
	PlatformID uint `json:"platform_id" form:"platform_id" example:"7"`
}

type GenreResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type PlatformResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type GameResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Image       string             `json:"image"`
	ReleaseYear int                `json:"release_year"`
	GenreID     *uint              `json:"genre_id"`
	Genre       *GenreResponse     `json:"genre,omitempty"`
	Platforms   []PlatformResponse `json:"platforms,omitempty"`
}

// OptionResponse is one entry of a selection list.
type OptionResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// GameFormResponse backs the create and edit forms. On a failed submit it
// echoes the input together with the validation errors.
type GameFormResponse struct {
	Game            *GameInput        `json:"game,omitempty"`
	GenreOptions    []OptionResponse  `json:"genre_options"`
	PlatformOptions []OptionResponse  `json:"platform_options,omitempty"`
	Errors          map[string]string `json:"errors,omitempty"`
}

// PlatformFormResponse backs the add and remove platform forms.
type PlatformFormResponse struct {
	Game            GameResponse     `json:"game"`
	PlatformOptions []OptionResponse `json:"platform_options"`
}

// endregion

func newGenreResponse(genre models.Genre) GenreResponse {
	return GenreResponse{ID: genre.ID, Name: genre.Name}
}

func newPlatformResponse(platform models.Platform) PlatformResponse {
	return PlatformResponse{ID: platform.ID, Name: platform.Name}
}

func newGameResponse(game models.Game) GameResponse {
	resp := GameResponse{
		ID:          game.ID,
		Name:        game.Name,
		Image:       game.Image,
		ReleaseYear: game.ReleaseYear,
		GenreID:     game.GenreID,
	}
	if game.Genre != nil {
		genre := newGenreResponse(*game.Genre)
		resp.Genre = &genre
	}
	for _, platform := range game.Platforms {
		if platform != nil {
			resp.Platforms = append(resp.Platforms, newPlatformResponse(*platform))
		}
	}
	return resp
}

func newGameInput(game models.Game) *GameInput {
	input := &GameInput{
		ID:          game.ID,
		Name:        game.Name,
		Image:       game.Image,
		ReleaseYear: game.ReleaseYear,
	}
	if game.GenreID != nil {
		input.GenreID = *game.GenreID
	}
	return input
}

func (in GameInput) toModel() *models.Game {
	genreID := in.GenreID
	return &models.Game{
		ID:          in.ID,
		Name:        in.Name,
		Image:       in.Image,
		ReleaseYear: in.ReleaseYear,
		GenreID:     &genreID,
	}
}

// validationErrors turns a binding error into field -> message pairs.
func validationErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[jsonFieldName(fe.Field())] = fieldMessage(fe)
		}
		return fields
	}
	fields["_"] = err.Error()
	return fields
}

var fieldNames = map[string]string{
	"ID":          "id",
	"Name":        "name",
	"Image":       "image",
	"ReleaseYear": "release_year",
	"GenreID":     "genre_id",
}

func jsonFieldName(field string) string {
	if name, ok := fieldNames[field]; ok {
		return name
	}
	return strings.ToLower(field)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: message})
}
