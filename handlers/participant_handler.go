package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/services"
	"github.com/go-chi/chi/v5"
)

const (
	maxMediaBytes  = 100 << 20
	maxImportBytes = 32 << 20
)

type ParticipantHandler struct {
	participantService services.ParticipantService
	backupService      services.BackupService
}

func NewParticipantHandler(participantService services.ParticipantService, backupService services.BackupService) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: participantService,
		backupService:      backupService,
	}
}

// Register handles the public multipart registration form. The recording
// arrives in the "file" part.
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMediaBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	age, err := strconv.Atoi(strings.TrimSpace(r.FormValue("age")))
	if err != nil {
		failedValidationResponse(w, r, map[string]string{"Age": "must be a whole number"})
		return
	}
	pType, _ := models.ParseParticipationType(r.FormValue("type"))
	agreed, _ := strconv.ParseBool(r.FormValue("agreed"))

	input := services.RegisterInput{
		FullName: r.FormValue("full_name"),
		Age:      age,
		District: r.FormValue("district"),
		WhatsApp: r.FormValue("whatsapp"),
		Email:    r.FormValue("email"),
		Type:     pType,
		Agreed:   agreed,
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxMediaBytes+1))
		if err != nil {
			badRequestResponse(w, r, fmt.Errorf("failed to read media file: %w", err))
			return
		}
		if len(data) > maxMediaBytes {
			badRequestResponse(w, r, fmt.Errorf("media file must not be larger than %d bytes", maxMediaBytes))
			return
		}
		input.Media = &services.MediaInput{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	case errors.Is(err, http.ErrMissingFile):
		// left nil; validation reports it
	default:
		badRequestResponse(w, r, fmt.Errorf("failed to get media file from form: %w", err))
		return
	}

	participant, err := h.participantService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/admin/participants/"+participant.ID)
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	participants := h.participantService.List(r.URL.Query().Get("search"))
	response := jsonResponse{
		"participants": participants,
		"count":        len(participants),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.participantService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ParticipantHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input struct {
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	status, ok := models.ParseParticipantStatus(input.Status)
	if !ok {
		badRequestResponse(w, r, fmt.Errorf("%w: %q", services.ErrInvalidStatus, input.Status))
		return
	}

	participant, err := h.participantService.SetStatus(r.Context(), id, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Import merges a JSON array of participants into the registry.
func (h *ParticipantHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := readRawBody(w, r, maxImportBytes)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.backupService.ImportParticipants(r.Context(), body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"import": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
