package http

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/logger"
	"printdesk-backend/internal/repository"
	"printdesk-backend/internal/service"
)

const downloadURLTTL = 15 * time.Minute

type RequestHandler struct {
	requestSvc   service.RequestService
	maxFileBytes int64
	allowedTypes map[string]bool
}

func NewRequestHandler(requestSvc service.RequestService, maxFileSizeMB int64, allowedTypes []string) *RequestHandler {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = true
	}
	return &RequestHandler{
		requestSvc:   requestSvc,
		maxFileBytes: maxFileSizeMB * 1024 * 1024,
		allowedTypes: allowed,
	}
}

// Create accepts a multipart form: a "file" part plus the request
// fields. The upload is streamed to storage, never buffered whole.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileBytes+1024*1024)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, domain.Validation("file", "upload too large or malformed"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, domain.Validation("file", "missing file part"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if len(h.allowedTypes) > 0 && !h.allowedTypes[contentType] {
		writeError(w, domain.Validation("file", "unsupported content type"))
		return
	}
	if header.Size > h.maxFileBytes {
		writeError(w, domain.Validation("file", "file exceeds the size limit"))
		return
	}

	copies, _ := strconv.ParseInt(r.FormValue("copies"), 10, 32)

	pr, err := h.requestSvc.Create(r.Context(), actorFrom(r), service.CreateRequestInput{
		Title:          r.FormValue("title"),
		Copies:         int32(copies),
		Format:         domain.PrintFormat(r.FormValue("format")),
		DeliveryMethod: domain.DeliveryMethod(r.FormValue("delivery_method")),
		DeliveryRoom:   r.FormValue("delivery_room"),
		DueDate:        r.FormValue("due_date"),
		FileName:       header.Filename,
		ContentType:    contentType,
		FileContents:   file,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, pr)
}

type listResponse struct {
	Requests []domain.PrintRequest `json:"requests"`
	Total    int32                 `json:"total"`
	Page     int32                 `json:"page"`
	PageSize int32                 `json:"page_size"`
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.RequestFilter{
		Status:   domain.RequestStatus(r.URL.Query().Get("status")),
		Page:     queryInt32(r, "page", 1),
		PageSize: queryInt32(r, "page_size", 20),
	}
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		writeError(w, domain.Validation("status", "unknown status value"))
		return
	}

	requests, total, err := h.requestSvc.List(r.Context(), actorFrom(r), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Requests: requests,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	pr, err := h.requestSvc.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pr)
}

type transitionRequest struct {
	Status string `json:"status"`
}

// Transition moves a request along its lifecycle. The target status is
// the only input; which edges exist and who may walk them is decided in
// the service layer.
func (h *RequestHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pr, err := h.requestSvc.Transition(r.Context(), actorFrom(r), id, domain.RequestStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pr)
}

func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.requestSvc.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadFile streams the stored document back to the caller.
func (h *RequestHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rc, ref, err := h.requestSvc.OpenFile(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", ref.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+ref.OriginalName+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		logger.Debug("File stream interrupted", "request_id", id, "error", err)
	}
}

type fileURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileURL hands out a short-lived download link, signed when the
// backing store supports it.
func (h *RequestHandler) FileURL(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	url, err := h.requestSvc.FileURL(r.Context(), actorFrom(r), id, downloadURLTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fileURLResponse{URL: url, ExpiresAt: time.Now().Add(downloadURLTTL)})
}

func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		return 0, domain.Validation("id", "must be a positive integer")
	}
	return int32(id), nil
}

func queryInt32(r *http.Request, name string, def int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return def
	}
	return int32(v)
}
