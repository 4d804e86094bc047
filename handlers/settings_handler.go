package handlers

import (
	"net/http"
	"time"

	"github.com/Dosada05/aswat-contest/services"
)

var timeNow = time.Now

type SettingsHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get is public: the site needs the deadline for its countdown and the flag
// to decide which board to show.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	current := h.settingsService.Current()
	response := jsonResponse{
		"settings":          current,
		"registration_open": h.settingsService.RegistrationOpen(timeNow()),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateSettingsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.settingsService.Update(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"settings": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
