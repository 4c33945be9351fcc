package api

import (
	"net/http"
	"time"
)

// AdminLoginHandler exchanges a presigned dashboard token for a session
// cookie. The token is single use; a replay answers 401.
func (h *Handlers) AdminLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			respondWithError(w, http.StatusBadRequest, "Missing token")
			return
		}

		signed, err := h.deps.Services.URLSigner.ValidateToken(r.Context(), token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		sessionID, err := h.deps.Services.Session.CreateSession(r.Context(), signed.UserID, signed.UserID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to create session")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "admin_session",
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(12 * time.Hour),
		})

		data := map[string]interface{}{"logged_in": true}
		respondWithSuccess(w, http.StatusOK, &data)
	}
}

// AdminLogoutHandler deletes the session and clears the cookie.
func (h *Handlers) AdminLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("admin_session"); err == nil && cookie.Value != "" {
			_ = h.deps.Services.Session.DeleteSession(r.Context(), cookie.Value)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "admin_session",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})

		data := map[string]interface{}{"logged_in": false}
		respondWithSuccess(w, http.StatusOK, &data)
	}
}
