package handlers

import (
	"net/http"

	"github.com/Dosada05/aswat-contest/services"
)

type SyncHandler struct {
	syncService services.SyncService
}

func NewSyncHandler(syncService services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Trigger runs a remote sync now. Remote failures are reported in the
// events, not as an error status.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	events := h.syncService.RunOnce(r.Context())
	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
