package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-idea-board/internal/services"
)

// UpdatePreferencesRequest is the JSON payload for changing preferences.
type UpdatePreferencesRequest struct {
	Theme string `json:"theme" binding:"required" example:"dark"`
}

// GetPreferences godoc
// @ID          getPreferences
// @Summary     Get presentation preferences
// @Tags        Preferences
// @Produce     json
// @Success     200  {object}  services.AppState
// @Router      /preferences [get]
func (h *Handlers) GetPreferences(c *gin.Context) {
	ok(c, http.StatusOK, h.prefSvc.Get())
}

// UpdatePreferences godoc
// @ID          updatePreferences
// @Summary     Set the theme
// @Tags        Preferences
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.UpdatePreferencesRequest  true  "Preferences"
//
// @Success     200  {object}  services.AppState
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /preferences [put]
func (h *Handlers) UpdatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "theme required (light or dark)")
		return
	}
	t, err := services.ParseTheme(req.Theme)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "theme must be light or dark")
		return
	}
	st, err := h.prefSvc.SetTheme(c.Request.Context(), t)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStorage, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}

// ToggleTheme godoc
// @ID          toggleTheme
// @Summary     Toggle between light and dark
// @Tags        Preferences
// @Produce     json
// @Success     200  {object}  services.AppState
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /preferences/theme/toggle [post]
func (h *Handlers) ToggleTheme(c *gin.Context) {
	st, err := h.prefSvc.ToggleTheme(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStorage, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}
