package talent

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"jobmate/directory-service/internal/httpx"
	"jobmate/directory-service/pkg/logging"
)

// multipartOverhead is the allowance for the text fields of the form on top
// of the resume itself.
const multipartOverhead = 1 << 20

// Handler holds shared dependencies.
type Handler struct {
	svc        *Service
	adminToken string
	log        *logging.Logger
}

// NewHandler returns a configured Handler. An empty adminToken disables the
// admin routes.
func NewHandler(svc *Service, adminToken string, log *logging.Logger) *Handler {
	return &Handler{svc: svc, adminToken: adminToken, log: log.With("component", "talent_http")}
}

// RegisterRoutes mounts the talent routes on r. limit wraps the sign-up
// endpoint and may be nil.
func (h *Handler) RegisterRoutes(r *mux.Router, limit func(http.Handler) http.Handler) {
	var join http.Handler = http.HandlerFunc(h.join)
	if limit != nil {
		join = limit(join)
	}
	r.Handle("/api/talent/join", join).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin/talent").Subrouter()
	admin.Use(h.requireAdmin)
	admin.HandleFunc("", h.listProfiles).Methods(http.MethodGet)
	admin.HandleFunc("/resumes/{path}", h.downloadResume).Methods(http.MethodGet)
}

// ─── Sign-up ──────────────────────────────────────────────────────────────────

func (h *Handler) join(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.svc.MaxResumeBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			httpx.JSONError(w, MsgResumeTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		httpx.JSONError(w, "Invalid form submission.", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	req, err := DecodeJoinRequest(r.MultipartForm.Value)
	if req.IsSpam() {
		h.log.Info("honeypot triggered, submission dropped")
		httpx.JSONOK(w, map[string]bool{"success": true})
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	resume, err := h.readResume(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := h.svc.Join(r.Context(), req, resume); err != nil {
		h.writeError(w, err)
		return
	}
	httpx.JSONOK(w, map[string]bool{"success": true})
}

// readResume returns the uploaded resume, or nil when none was sent.
func (h *Handler) readResume(r *http.Request) ([]byte, error) {
	files := r.MultipartForm.File["resume"]
	if len(files) == 0 || files[0].Size == 0 {
		return nil, nil
	}
	fh := files[0]
	if fh.Size > h.svc.MaxResumeBytes() {
		return nil, &ValidationError{Msg: MsgResumeTooLarge}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, h.svc.MaxResumeBytes()+1))
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	return content, nil
}

// ─── Admin ────────────────────────────────────────────────────────────────────

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.adminToken == "" {
			httpx.JSONError(w, "admin access disabled", http.StatusForbidden)
			return
		}
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			httpx.JSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.JSONOK(w, profiles)
}

func (h *Handler) downloadResume(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Resume(r.Context(), mux.Vars(r)["path"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", res.Path))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Content)
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// writeError maps service errors to HTTP responses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, "not found", http.StatusNotFound)
	default:
		h.log.Error("talent request failed", "err", err)
		httpx.JSONError(w, "An unexpected error occurred.", http.StatusInternalServerError)
	}
}
