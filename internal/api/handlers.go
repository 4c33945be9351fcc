package api

import (
	"net/http"
	"time"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// GenerateDashboardLinkHandler mints a short-lived presigned URL an
// already-authenticated administrator can hand to a browser session.
func (h *Handlers) GenerateDashboardLinkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := h.deps.Services.URLSigner.GeneratePresignedURL("admin", 15*time.Minute)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to generate token")
			return
		}

		data := map[string]interface{}{
			"url":        r.Host + "/admin/login?token=" + token,
			"expires_in": 900,
		}
		respondWithSuccess(w, http.StatusOK, &data)
	}
}
