package http

import (
	"net/http"

	"printdesk-backend/internal/authz"
)

// Permissions exposes the role/operation table so frontends can hide
// controls the caller is not allowed to use.
func Permissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"role":        actorFrom(r).Role,
		"permissions": authz.Table(),
	})
}
