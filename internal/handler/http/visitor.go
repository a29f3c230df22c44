package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/visitor"
	"github.com/cmlabs-hris/vms-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/vms-backend-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

const (
	// multipart overhead allowed on top of the photo itself
	maxFormOverhead = 1 << 20
	maxJSONBody     = 1 << 20
)

type VisitorHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type visitorHandlerImpl struct {
	visitorService visitor.VisitorService
	fileService    file.FileService
	hub            *sse.Hub
	metrics        *metrics.Metrics
	keepalive      time.Duration
}

func NewVisitorHandler(visitorService visitor.VisitorService, fileService file.FileService, hub *sse.Hub, m *metrics.Metrics) VisitorHandler {
	return &visitorHandlerImpl{
		visitorService: visitorService,
		fileService:    fileService,
		hub:            hub,
		metrics:        m,
		keepalive:      30 * time.Second,
	}
}

func principalFromRequest(r *http.Request) (auth.Principal, bool) {
	return auth.PrincipalFromContext(r.Context())
}

func optionalFormValue(r *http.Request, key string) *string {
	if _, ok := r.MultipartForm.Value[key]; !ok {
		return nil
	}
	value := r.FormValue(key)
	return &value
}

// Create registers a visitor. Accepts multipart form data with an optional
// "photo" file, or a plain JSON body without a photo.
func (h *visitorHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req visitor.CreateVisitorRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				response.BadRequest(w, "Request body too large", nil)
				return
			}
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
		h.create(w, r, req, nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, file.MaxPhotoSize+maxFormOverhead)
	if err := r.ParseMultipartForm(file.MaxPhotoSize + maxFormOverhead); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.HandleError(w, file.ErrFileTooLarge)
			return
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req = visitor.CreateVisitorRequest{
		FullName:     r.FormValue("full_name"),
		Contact:      r.FormValue("contact"),
		Purpose:      r.FormValue("purpose"),
		HostEmployee: r.FormValue("host_employee"),
		Company:      optionalFormValue(r, "company"),
		TimeSlot:     optionalFormValue(r, "time_slot"),
	}

	photo, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.create(w, r, req, nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer photo.Close()

	uploaded, err := h.fileService.UploadVisitorPhoto(r.Context(), photo, header.Filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.Photo = &uploaded.URL

	h.create(w, r, req, &uploaded)
}

func (h *visitorHandlerImpl) create(w http.ResponseWriter, r *http.Request, req visitor.CreateVisitorRequest, uploaded *file.UploadedFile) {
	created, err := h.visitorService.CreateVisitor(r.Context(), req)
	if err != nil {
		if uploaded != nil {
			// The visitor was not stored, so the photo would be orphaned
			if delErr := h.fileService.DeleteFile(context.WithoutCancel(r.Context()), uploaded.Path); delErr != nil {
				slog.Error("Failed to remove orphaned photo", "path", uploaded.Path, "error", delErr)
			}
		}
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Visitor registered successfully", created)
}

// List returns the caller's visitors, or every visitor for admins
func (h *visitorHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(r)
	if !ok {
		response.HandleError(w, auth.ErrMissingToken)
		return
	}

	visitors, err := h.visitorService.ListVisitorsForHost(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, visitors)
}

// ListPending returns visitors awaiting approval
func (h *visitorHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	visitors, err := h.visitorService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, visitors)
}

// Get returns a single visitor
func (h *visitorHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(r)
	if !ok {
		response.HandleError(w, auth.ErrMissingToken)
		return
	}

	v, err := h.visitorService.GetVisitor(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, v)
}

// UpdateStatus moves a visitor to the requested status
func (h *visitorHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req visitor.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	updated, err := h.visitorService.TransitionStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Status updated successfully", updated)
}

// Stream pushes visitor events over SSE
func (h *visitorHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe()
	defer cleanup()
	h.metrics.StreamSubscribers.Inc()
	defer h.metrics.StreamSubscribers.Dec()

	// Send initial connection event
	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode stream event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", strings.ReplaceAll(event.Event, "\n", ""), data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
