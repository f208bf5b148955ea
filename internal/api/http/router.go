package http

import (
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"printdesk-backend/internal/storage"
)

// Handlers collects everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Account      *AccountHandler
	Request      *RequestHandler
	Notification *NotificationHandler
	WS           *WSHandler
	AuthMW       *AuthMiddleware

	// LocalStore, when set, mounts the unauthenticated file endpoint
	// that local-disk download URLs point at. Production deployments on
	// GCS leave it nil and hand out signed URLs instead.
	LocalStore storage.StorageInterface
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public surface.
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)

	// The websocket endpoint authenticates itself from the token query
	// parameter, so it stays outside the bearer middleware.
	api.HandleFunc("/ws", h.WS.Subscribe).Methods(http.MethodGet)

	if h.LocalStore != nil {
		api.HandleFunc("/files/{key:.+}", localFileHandler(h.LocalStore)).Methods(http.MethodGet)
	}

	// Everything below requires a live access token.
	authed := api.NewRoute().Subrouter()
	authed.Use(h.AuthMW.Handler)

	authed.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)
	authed.HandleFunc("/permissions", Permissions).Methods(http.MethodGet)

	authed.HandleFunc("/requests", h.Request.Create).Methods(http.MethodPost)
	authed.HandleFunc("/requests", h.Request.List).Methods(http.MethodGet)
	authed.HandleFunc("/requests/{id:[0-9]+}", h.Request.Get).Methods(http.MethodGet)
	authed.HandleFunc("/requests/{id:[0-9]+}", h.Request.Delete).Methods(http.MethodDelete)
	authed.HandleFunc("/requests/{id:[0-9]+}/status", h.Request.Transition).Methods(http.MethodPost)
	authed.HandleFunc("/requests/{id:[0-9]+}/file", h.Request.DownloadFile).Methods(http.MethodGet)
	authed.HandleFunc("/requests/{id:[0-9]+}/file-url", h.Request.FileURL).Methods(http.MethodGet)

	authed.HandleFunc("/users", h.Account.Create).Methods(http.MethodPost)
	authed.HandleFunc("/users", h.Account.List).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id:[0-9]+}/status", h.Account.SetActive).Methods(http.MethodPatch)
	authed.HandleFunc("/users/{id:[0-9]+}/terminate-sessions", h.Account.TerminateSessions).Methods(http.MethodPost)

	authed.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	return r
}

// localFileHandler streams files from the local store. Keys are opaque
// UUID-based names, which is the only access control this development
// endpoint has.
func localFileHandler(store storage.StorageInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := url.PathUnescape(mux.Vars(r)["key"])
		if err != nil {
			http.Error(w, "bad key", http.StatusBadRequest)
			return
		}

		rc, err := store.Open(r.Context(), key)
		if err != nil {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Cache-Control", "private, max-age=0")
		io.Copy(w, rc)
	}
}
