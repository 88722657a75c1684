package handler

import (
	"net/http"

	"github.com/paceboard/platform/internal/infra"
)

// SyncHandler exposes the manual sync trigger.
type SyncHandler struct {
	syncTask *infra.PeriodicTask
}

// NewSyncHandler creates a SyncHandler over the running sync task.
func NewSyncHandler(syncTask *infra.PeriodicTask) *SyncHandler {
	return &SyncHandler{syncTask: syncTask}
}

// Run handles POST /sync/run. The trigger shares the periodic task's overlap
// guard: a request while a sync is in flight is acknowledged but skipped.
func (h *SyncHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.syncTask.TryRun(r.Context()) {
		RespondJSON(w, http.StatusOK, map[string]string{"status": "completed"})
		return
	}
	RespondJSON(w, http.StatusAccepted, map[string]string{"status": "already_running"})
}
