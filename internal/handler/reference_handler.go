package handler

import (
	"net/http"

	"gamecatalog/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// ReferenceHandler exposes the read-only genre and platform catalogs.
type ReferenceHandler struct {
	store store.Store
}

func NewReferenceHandler(s store.Store) *ReferenceHandler {
	return &ReferenceHandler{store: s}
}

// Register mounts the lookup routes on rg.
func (h *ReferenceHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/genres", h.GetGenres)
	rg.GET("/platforms", h.GetPlatforms)
}

// GetGenres godoc
// @Summary      Get all genres
// @Description  Retrieves the genre catalog.
// @Tags         reference
// @Produce      json
// @Success      200  {array}   GenreResponse
// @Router       /genres [get]
func (h *ReferenceHandler) GetGenres(c *gin.Context) {
	genres, err := h.store.ListGenres(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := make([]GenreResponse, 0, len(genres))
	for _, genre := range genres {
		response = append(response, newGenreResponse(genre))
	}
	c.JSON(http.StatusOK, response)
}

// GetPlatforms godoc
// @Summary      Get all platforms
// @Description  Retrieves the platform catalog.
// @Tags         reference
// @Produce      json
// @Success      200  {array}   PlatformResponse
// @Router       /platforms [get]
func (h *ReferenceHandler) GetPlatforms(c *gin.Context) {
	platforms, err := h.store.ListPlatforms(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := make([]PlatformResponse, 0, len(platforms))
	for _, platform := range platforms {
		response = append(response, newPlatformResponse(platform))
	}
	c.JSON(http.StatusOK, response)
}
