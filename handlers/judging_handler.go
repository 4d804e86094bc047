package handlers

import (
	"net/http"

	"github.com/Dosada05/aswat-contest/middleware"
	"github.com/Dosada05/aswat-contest/services"
	"github.com/go-chi/chi/v5"
)

type JudgingHandler struct {
	participantService services.ParticipantService
	ratingService      services.RatingService
}

func NewJudgingHandler(participantService services.ParticipantService, ratingService services.RatingService) *JudgingHandler {
	return &JudgingHandler{
		participantService: participantService,
		ratingService:      ratingService,
	}
}

// Queue lists what the calling judge can score, with their own scores.
func (h *JudgingHandler) Queue(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	queue := h.participantService.JudgingQueue(user.ID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"queue": queue}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *JudgingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input struct {
		Score int `json:"score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.ratingService.SubmitRating(r.Context(), chi.URLParam(r, "id"), user, input.Score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
