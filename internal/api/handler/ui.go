package handler

import (
	_ "embed"
	"net/http"

	"github.com/albapepper/nba-stats-bot/internal/api/respond"
)

//go:embed ui.html
var uiPage []byte

// UI serves a minimal page that posts questions to /chat.
// @Summary Test page
// @Tags chat
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /ui [get]
func (h *Handler) UI(w http.ResponseWriter, r *http.Request) {
	respond.WriteHTML(w, http.StatusOK, uiPage)
}
