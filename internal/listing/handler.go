package listing

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"jobmate/directory-service/internal/httpx"
	"jobmate/directory-service/pkg/logging"
)

// Routes:
//
//	GET /jobs            → server-rendered listing page
//	GET /api/jobs        → one ResultPage for the query string
//	GET /api/jobs/seed   → Seed (filter, first page, company options)
//	GET /api/companies   → company filter options

// JobsPath is the route of the listing page; generated links point here.
const JobsPath = "/jobs"

// PageResponse is the JSON shape of GET /api/jobs.
type PageResponse struct {
	Items      []Posting `json:"items"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
}

// NewPageResponse wraps r for f.
func NewPageResponse(f FilterState, r ResultPage) PageResponse {
	items := r.Items
	if items == nil {
		items = []Posting{}
	}
	return PageResponse{
		Items:      items,
		TotalCount: r.TotalCount,
		TotalPages: r.TotalPages(),
		Page:       f.Page,
		PageSize:   PageSize,
	}
}

// Result drops the derived fields.
func (p PageResponse) Result() ResultPage {
	return ResultPage{Items: p.Items, TotalCount: p.TotalCount}
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler serves the listing over HTTP.
type Handler struct {
	loader    *Loader
	exec      Executor
	companies CompanySource
	log       *logging.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(loader *Loader, exec Executor, companies CompanySource, log *logging.Logger) *Handler {
	return &Handler{loader: loader, exec: exec, companies: companies, log: log.With("component", "listing_http")}
}

// RegisterRoutes mounts the listing routes on r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc(JobsPath, h.page).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs", h.search).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/seed", h.seed).Methods(http.MethodGet)
	r.HandleFunc("/api/companies", h.listCompanies).Methods(http.MethodGet)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	seed, err := h.loader.Load(r.Context(), r.URL.Query())

	v := BuildView(JobsPath, seed.Filter, seed.Result, false, seed.Companies)
	var lerr *LoadError
	if errors.As(err, &lerr) {
		v = v.WithLoadError(lerr)
	}

	var buf bytes.Buffer
	if rerr := RenderHTML(&buf, v); rerr != nil {
		h.log.Error("render listing page", "err", rerr)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	f, verr := ParseQuery(r.URL.Query())
	if verr != nil {
		h.log.Debug("listing parameters replaced by defaults", "err", verr)
	}

	res, err := h.exec.Execute(r.Context(), f)
	if err != nil {
		h.log.Error("listing query failed", "err", err)
		httpx.JSONError(w, "listing query failed", http.StatusBadGateway)
		return
	}
	httpx.JSONOK(w, NewPageResponse(f, res))
}

func (h *Handler) seed(w http.ResponseWriter, r *http.Request) {
	seed, err := h.loader.Load(r.Context(), r.URL.Query())
	if err != nil {
		var lerr *LoadError
		msg := "listing unavailable"
		if errors.As(err, &lerr) {
			msg = lerr.Message()
		}
		httpx.JSONError(w, msg, http.StatusServiceUnavailable)
		return
	}
	if seed.Companies == nil {
		seed.Companies = []CompanyOption{}
	}
	httpx.JSONOK(w, seed)
}

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	opts, err := h.companies.CompanyOptions(r.Context())
	if err != nil {
		h.log.Error("company options failed", "err", err)
		httpx.JSONError(w, "company options unavailable", http.StatusBadGateway)
		return
	}
	if opts == nil {
		opts = []CompanyOption{}
	}
	httpx.JSONOK(w, opts)
}
