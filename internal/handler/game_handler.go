package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"gamecatalog/backend/internal/logging"
	"gamecatalog/backend/internal/models"
	"gamecatalog/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// Eager loading per read path. Detail is configurable, see Options.
var (
	editPreload         = store.Preload{Platforms: true}
	deletePreload       = store.Preload{Genre: true}
	platformFormPreload = store.Preload{Platforms: true}
)

// Options tunes the game handler.
type Options struct {
	// DetailIncludesPlatforms makes the detail view load the game's platforms
	// in addition to its genre.
	DetailIncludesPlatforms bool
}

// GameHandler serves CRUD and platform-link operations on games.
type GameHandler struct {
	store         store.Store
	logger        *slog.Logger
	detailPreload store.Preload
	listPath      string
}

// NewGameHandler wires a handler to its persistence gateway.
func NewGameHandler(s store.Store, logger *slog.Logger, opts Options) *GameHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &GameHandler{
		store:         s,
		logger:        logger,
		detailPreload: store.Preload{Genre: true, Platforms: opts.DetailIncludesPlatforms},
		listPath:      "/games",
	}
}

// Register mounts the game routes on rg. Successful writes redirect to the
// list route of this group.
func (h *GameHandler) Register(rg *gin.RouterGroup) {
	games := rg.Group("/games")
	h.listPath = games.BasePath()

	games.GET("", h.ListGames)
	games.GET("/new", h.GetCreateForm)
	games.POST("", h.CreateGame)
	games.GET("/:id", h.GetGame)
	games.GET("/:id/edit", h.GetEditForm)
	games.POST("/:id/edit", h.EditGame)
	games.PUT("/:id", h.EditGame)
	games.GET("/:id/delete", h.GetDeleteConfirm)
	games.POST("/:id/delete", h.DeleteGame)
	games.DELETE("/:id", h.DeleteGame)
	games.GET("/:id/platforms/add", h.GetAddPlatformForm)
	games.POST("/:id/platforms/add", h.AddPlatform)
	games.GET("/:id/platforms/remove", h.GetRemovePlatformForm)
	games.POST("/:id/platforms/remove", h.RemovePlatform)
}

// region --- Read Handlers ---

// ListGames godoc
// @Summary      List games
// @Description  Retrieves every game with its genre and platforms, in creation order.
// @Tags         games
// @Produce      json
// @Success      200  {array}   GameResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /games [get]
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.store.ListGames(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}
	c.JSON(http.StatusOK, response)
}

// GetGame godoc
// @Summary      Get a single game by ID
// @Description  Retrieves one game with its genre (and platforms when enabled).
// @Tags         games
// @Produce      json
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  GameResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func (h *GameHandler) GetGame(c *gin.Context) {
	game, ok := h.loadGame(c, h.detailPreload)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game))
}

// GetCreateForm godoc
// @Summary      Create form
// @Description  Returns the genre options for a new game.
// @Tags         games
// @Produce      json
// @Success      200  {object}  GameFormResponse
// @Router       /games/new [get]
func (h *GameHandler) GetCreateForm(c *gin.Context) {
	options, err := h.genreOptions(c.Request.Context(), 0)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, GameFormResponse{GenreOptions: options})
}

// GetEditForm godoc
// @Summary      Edit form
// @Description  Returns the game with genre and platform options, current values preselected.
// @Tags         games
// @Produce      json
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  GameFormResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/edit [get]
func (h *GameHandler) GetEditForm(c *gin.Context) {
	game, ok := h.loadGame(c, editPreload)
	if !ok {
		return
	}

	input := newGameInput(*game)
	form, err := h.gameForm(c.Request.Context(), input, game.PlatformIDs())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// GetDeleteConfirm godoc
// @Summary      Delete confirmation
// @Description  Returns the game about to be deleted, with its genre.
// @Tags         games
// @Produce      json
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  GameResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/delete [get]
func (h *GameHandler) GetDeleteConfirm(c *gin.Context) {
	game, ok := h.loadGame(c, deletePreload)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game))
}

// GetAddPlatformForm godoc
// @Summary      Add platform form
// @Description  Lists the platforms not yet linked to the game.
// @Tags         game-platforms
// @Produce      json
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  PlatformFormResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/platforms/add [get]
func (h *GameHandler) GetAddPlatformForm(c *gin.Context) {
	game, ok := h.loadGame(c, platformFormPreload)
	if !ok {
		return
	}

	platforms, err := h.store.ListPlatforms(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	linked := game.PlatformIDs()
	options := make([]OptionResponse, 0, len(platforms))
	for _, platform := range platforms {
		if _, ok := linked[platform.ID]; ok {
			continue
		}
		options = append(options, OptionResponse{ID: platform.ID, Name: platform.Name})
	}
	c.JSON(http.StatusOK, PlatformFormResponse{Game: newGameResponse(*game), PlatformOptions: options})
}

// GetRemovePlatformForm godoc
// @Summary      Remove platform form
// @Description  Lists the platforms currently linked to the game.
// @Tags         game-platforms
// @Produce      json
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  PlatformFormResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/platforms/remove [get]
func (h *GameHandler) GetRemovePlatformForm(c *gin.Context) {
	game, ok := h.loadGame(c, platformFormPreload)
	if !ok {
		return
	}

	options := make([]OptionResponse, 0, len(game.Platforms))
	for _, platform := range game.Platforms {
		if platform != nil {
			options = append(options, OptionResponse{ID: platform.ID, Name: platform.Name})
		}
	}
	c.JSON(http.StatusOK, PlatformFormResponse{Game: newGameResponse(*game), PlatformOptions: options})
}

// endregion

// region --- Write Handlers ---

// CreateGame godoc
// @Summary      Create a new game
// @Description  Inserts a game and redirects to the list. Invalid input is echoed back with the genre options.
// @Tags         games
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        input body GameInput true "Game Info"
// @Success      303
// @Failure      422  {object}  GameFormResponse
// @Router       /games [post]
func (h *GameHandler) CreateGame(c *gin.Context) {
	ctx := c.Request.Context()

	var input GameInput
	if err := c.ShouldBind(&input); err != nil {
		h.redisplay(c, &input, nil, validationErrors(err))
		return
	}
	fields, err := h.checkGenre(ctx, input.GenreID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(fields) > 0 {
		h.redisplay(c, &input, nil, fields)
		return
	}

	input.ID = 0 // generated by the database
	game := input.toModel()
	if err := h.store.CreateGame(ctx, game); err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Info("game created", "game_id", game.ID, "name", game.Name)
	h.redirectToList(c)
}

// EditGame godoc
// @Summary      Update a game
// @Description  Updates a game's fields. The route id must match the body id.
// @Tags         games
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path      int       true  "Game ID"
// @Param        input body      GameInput true  "New Game Info"
// @Success      303
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Failure      422   {object}  GameFormResponse
// @Failure      500   {object}  ErrorResponse "Unresolved concurrency conflict"
// @Router       /games/{id}/edit [post]
// @Router       /games/{id} [put]
func (h *GameHandler) EditGame(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c.Param("id"))
	if !ok {
		respondNotFound(c, "Game not found")
		return
	}

	var input GameInput
	bindErr := c.ShouldBind(&input)
	if input.ID != id {
		respondNotFound(c, "Game not found")
		return
	}

	var fields map[string]string
	if bindErr != nil {
		fields = validationErrors(bindErr)
	} else {
		var err error
		if fields, err = h.checkGenre(ctx, input.GenreID); err != nil {
			_ = c.Error(err)
			return
		}
		// An unknown genre never reaches the update; a deleted game is still a 404.
		if len(fields) > 0 {
			exists, err := h.store.GameExists(ctx, id)
			if err != nil {
				_ = c.Error(err)
				return
			}
			if !exists {
				respondNotFound(c, "Game not found")
				return
			}
		}
	}
	if len(fields) > 0 {
		linked, err := h.linkedPlatforms(ctx, id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		h.redisplay(c, &input, linked, fields)
		return
	}

	err := h.store.UpdateGame(ctx, input.toModel())
	if errors.Is(err, store.ErrConcurrencyConflict) {
		exists, existsErr := h.store.GameExists(ctx, id)
		if existsErr != nil {
			_ = c.Error(existsErr)
			return
		}
		if !exists {
			respondNotFound(c, "Game not found")
			return
		}
		h.logger.Error("unresolved concurrency conflict", "game_id", id, "error", err)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Info("game updated", "game_id", id)
	h.redirectToList(c)
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Deletes a game and its platform links. Deleting a missing game still redirects.
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      303
// @Router       /games/{id}/delete [post]
// @Router       /games/{id} [delete]
func (h *GameHandler) DeleteGame(c *gin.Context) {
	if id, ok := parseID(c.Param("id")); ok {
		if err := h.store.DeleteGame(c.Request.Context(), id); err != nil {
			_ = c.Error(err)
			return
		}
		h.logger.Info("game deleted", "game_id", id)
	}
	h.redirectToList(c)
}

// AddPlatform godoc
// @Summary      Link a platform
// @Description  Adds a platform to the game's platform set. Linking twice has no further effect.
// @Tags         game-platforms
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path int           true "Game ID"
// @Param        input body PlatformInput true "Platform"
// @Success      303
// @Failure      404 {object} ErrorResponse "Game or platform not found"
// @Router       /games/{id}/platforms/add [post]
func (h *GameHandler) AddPlatform(c *gin.Context) {
	game, platform, ok := h.loadGameAndPlatform(c)
	if !ok {
		return
	}
	if err := h.store.LinkPlatform(c.Request.Context(), game, platform); err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Info("platform linked", "game_id", game.ID, "platform_id", platform.ID)
	h.redirectToList(c)
}

// RemovePlatform godoc
// @Summary      Unlink a platform
// @Description  Removes a platform from the game's platform set. Unlinking a platform that is not linked is a no-op.
// @Tags         game-platforms
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path int           true "Game ID"
// @Param        input body PlatformInput true "Platform"
// @Success      303
// @Failure      404 {object} ErrorResponse "Game or platform not found"
// @Router       /games/{id}/platforms/remove [post]
func (h *GameHandler) RemovePlatform(c *gin.Context) {
	game, platform, ok := h.loadGameAndPlatform(c)
	if !ok {
		return
	}
	if err := h.store.UnlinkPlatform(c.Request.Context(), game, platform); err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Info("platform unlinked", "game_id", game.ID, "platform_id", platform.ID)
	h.redirectToList(c)
}

// endregion

// region --- Helpers ---

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// loadGame resolves the :id route parameter. It writes the 404 or records the
// error itself and reports false in that case.
func (h *GameHandler) loadGame(c *gin.Context, preload store.Preload) (*models.Game, bool) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		respondNotFound(c, "Game not found")
		return nil, false
	}

	game, err := h.store.FindGame(c.Request.Context(), id, preload)
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "Game not found")
		return nil, false
	}
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return game, true
}

func (h *GameHandler) loadGameAndPlatform(c *gin.Context) (*models.Game, *models.Platform, bool) {
	game, ok := h.loadGame(c, platformFormPreload)
	if !ok {
		return nil, nil, false
	}

	var input PlatformInput
	if err := c.ShouldBind(&input); err != nil || input.PlatformID == 0 {
		respondNotFound(c, "Platform not found")
		return nil, nil, false
	}

	platform, err := h.store.FindPlatform(c.Request.Context(), input.PlatformID)
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "Platform not found")
		return nil, nil, false
	}
	if err != nil {
		_ = c.Error(err)
		return nil, nil, false
	}
	return game, platform, true
}

// checkGenre reports a field error when the genre does not exist.
func (h *GameHandler) checkGenre(ctx context.Context, genreID uint) (map[string]string, error) {
	_, err := h.store.FindGenre(ctx, genreID)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]string{"genre_id": "unknown genre"}, nil
	}
	return nil, err
}

// linkedPlatforms returns the stored platform set of a game, empty when the
// game does not exist.
func (h *GameHandler) linkedPlatforms(ctx context.Context, id uint) (map[uint]struct{}, error) {
	game, err := h.store.FindGame(ctx, id, editPreload)
	if errors.Is(err, store.ErrNotFound) {
		return map[uint]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	return game.PlatformIDs(), nil
}

// genreOptions lists all genres, marking selected.
func (h *GameHandler) genreOptions(ctx context.Context, selected uint) ([]OptionResponse, error) {
	genres, err := h.store.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]OptionResponse, 0, len(genres))
	for _, genre := range genres {
		options = append(options, OptionResponse{ID: genre.ID, Name: genre.Name, Selected: genre.ID == selected})
	}
	return options, nil
}

// platformOptions lists all platforms, marking those in selected.
func (h *GameHandler) platformOptions(ctx context.Context, selected map[uint]struct{}) ([]OptionResponse, error) {
	platforms, err := h.store.ListPlatforms(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]OptionResponse, 0, len(platforms))
	for _, platform := range platforms {
		_, isSelected := selected[platform.ID]
		options = append(options, OptionResponse{ID: platform.ID, Name: platform.Name, Selected: isSelected})
	}
	return options, nil
}

// gameForm builds the create/edit form. Platform options are only included
// when linked is non-nil, i.e. for an existing game.
func (h *GameHandler) gameForm(ctx context.Context, input *GameInput, linked map[uint]struct{}) (GameFormResponse, error) {
	genres, err := h.genreOptions(ctx, input.GenreID)
	if err != nil {
		return GameFormResponse{}, err
	}
	form := GameFormResponse{Game: input, GenreOptions: genres}
	if linked != nil {
		if form.PlatformOptions, err = h.platformOptions(ctx, linked); err != nil {
			return GameFormResponse{}, err
		}
	}
	return form, nil
}

func (h *GameHandler) redisplay(c *gin.Context, input *GameInput, linked map[uint]struct{}, fields map[string]string) {
	form, err := h.gameForm(c.Request.Context(), input, linked)
	if err != nil {
		_ = c.Error(err)
		return
	}
	form.Errors = fields
	c.JSON(http.StatusUnprocessableEntity, form)
}

func (h *GameHandler) redirectToList(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, h.listPath)
}

// endregion
