package handlers

import (
	"net/http"

	"github.com/Dosada05/aswat-contest/services"
)

type ResultsHandler struct {
	resultsService services.ResultsService
}

func NewResultsHandler(resultsService services.ResultsService) *ResultsHandler {
	return &ResultsHandler{resultsService: resultsService}
}

func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": h.resultsService.View()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
