package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/albapepper/nba-stats-bot/internal/api/respond"
)

// maxChatBody bounds the /chat request body.
const maxChatBody = 64 << 10

// ChatRequest is the /chat request body.
type ChatRequest struct {
	Question string `json:"question" example:"Average points for the Lakers in 2024"`
}

// ChatResponse is the /chat success body.
type ChatResponse struct {
	Answer string `json:"answer" example:"Los Angeles Lakers averaged 115.0 PPG in 2024."`
}

// Chat answers a free-text question.
// @Summary Ask a question
// @Description Answers average-points and last-game questions about NBA teams. Unrecognised questions, unknown teams and missing data are still 200 answers.
// @Tags chat
// @Accept json
// @Produce json
// @Param body body ChatRequest true "Question"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 413 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /chat [post]
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	question, status, msg := decodeQuestion(w, r)
	if status != 0 {
		respond.WriteError(w, status, msg)
		return
	}

	reply, err := h.svc.Answer(r.Context(), question)
	h.metrics.RecordAnswer(string(reply.Intent), string(reply.Outcome))
	if err != nil {
		h.logger.Error("Chat request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"intent", reply.Intent,
			"error", err)
		respond.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.logger.Debug("Chat answered",
		"request_id", middleware.GetReqID(r.Context()),
		"intent", reply.Intent,
		"outcome", reply.Outcome,
		"team", reply.Team)
	respond.WriteJSONObject(w, http.StatusOK, ChatResponse{Answer: reply.Text})
}

// decodeQuestion reads the question field. A non-zero status reports a
// client error with msg.
func decodeQuestion(w http.ResponseWriter, r *http.Request) (question string, status int, msg string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBody)

	var body struct {
		Question json.RawMessage `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", http.StatusRequestEntityTooLarge, "Request body too large"
		}
		return "", http.StatusBadRequest, "Invalid JSON body"
	}
	if len(body.Question) == 0 {
		return "", http.StatusBadRequest, "Missing 'question' field"
	}
	if err := json.Unmarshal(body.Question, &question); err != nil {
		return "", http.StatusBadRequest, "'question' must be a string"
	}
	if strings.TrimSpace(question) == "" {
		return "", http.StatusBadRequest, "'question' must not be empty"
	}
	return question, 0, ""
}
