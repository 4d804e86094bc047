package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/aswat-contest/services"
)

type BackupHandler struct {
	backupService services.BackupService
}

func NewBackupHandler(backupService services.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// Export serves the backup as a JSON download.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.backupService.Export(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="aswat-backup-%s.json"`, doc.ExportDate.Format("2006-01-02")))
	if err := writeJSON(w, http.StatusOK, doc, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Import accepts a backup document or a bare participant array.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := readRawBody(w, r, maxImportBytes)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.backupService.Import(r.Context(), body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"import": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
