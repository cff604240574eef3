package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JKrag/punnett-simulator/internal/cross"
	"github.com/JKrag/punnett-simulator/internal/genetics"
	"github.com/JKrag/punnett-simulator/internal/model"
	"github.com/JKrag/punnett-simulator/internal/platform/logger"
	"github.com/JKrag/punnett-simulator/internal/platform/metrics"
	"github.com/JKrag/punnett-simulator/pkg/punnett"
)

// Service is the subset of the punnett client the API serves.
type Service interface {
	Cross(ctx context.Context, req punnett.ParentsRequest) (cross.Result, error)
	Square(ctx context.Context, req punnett.ParentsRequest) (cross.Grid, error)
	Gametes(g genetics.Genotype) ([]cross.Gamete, error)
	Phenotype(g genetics.Genotype) (genetics.Phenotype, error)
	SavePairing(ctx context.Context, req punnett.SavePairingRequest) (model.Pairing, error)
	Pairings(ctx context.Context, req punnett.PairingsRequest) ([]model.Pairing, error)
	Pairing(ctx context.Context, id string) (model.Pairing, error)
	DeletePairing(ctx context.Context, id string) error
}

type Handler struct {
	svc     Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(svc Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{svc: svc, logger: log, metrics: m}
}

// Routes builds the router for the JSON API, health check and metrics.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.observe)

	r.Get("/healthz", h.handleHealth)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/crosses", h.handleCross)
		r.Post("/squares", h.handleSquare)
		r.Post("/gametes", h.handleGametes)
		r.Post("/phenotypes", h.handlePhenotype)

		r.Get("/pairings", h.handleListPairings)
		r.Post("/pairings", h.handleSavePairing)
		r.Get("/pairings/{id}", h.handleGetPairing)
		r.Delete("/pairings/{id}", h.handleDeletePairing)
	})
	return r
}

// observe logs each request and records its latency by route pattern.
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		h.metrics.ObserveRequest(route, r.Method, strconv.Itoa(status), elapsed)
		h.logger.DebugContext(r.Context(), "request served",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
		)
	})
}

type crossResponse struct {
	Parent1Gametes []cross.Gamete        `json:"parent1_gametes"`
	Parent2Gametes []cross.Gamete        `json:"parent2_gametes"`
	TotalCount     int                   `json:"total_count"`
	Genotypes      []cross.GenotypeCount `json:"genotypes"`
	Phenotypes     []cross.PhenotypeStat `json:"phenotypes"`
	Ratio          []int                 `json:"ratio"`
}

type gametesResponse struct {
	Genotype genetics.Genotype `json:"genotype"`
	Gametes  []cross.Gamete    `json:"gametes"`
}

type pairingsResponse struct {
	Pairings []model.Pairing `json:"pairings"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCross(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeParents(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Cross(r.Context(), req)
	if err != nil {
		h.fail(w, r, "cross failed", err)
		return
	}
	writeJSON(w, http.StatusOK, crossResponse{
		Parent1Gametes: res.Parent1Gametes,
		Parent2Gametes: res.Parent2Gametes,
		TotalCount:     res.TotalCount,
		Genotypes:      res.SortedGenotypes(),
		Phenotypes:     res.SortedPhenotypes(),
		Ratio:          res.Ratio(),
	})
}

func (h *Handler) handleSquare(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeParents(w, r)
	if !ok {
		return
	}
	grid, err := h.svc.Square(r.Context(), req)
	if err != nil {
		h.fail(w, r, "square failed", err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

func (h *Handler) handleGametes(w http.ResponseWriter, r *http.Request) {
	g, ok := h.decodeGenotype(w, r)
	if !ok {
		return
	}
	gametes, err := h.svc.Gametes(g)
	if err != nil {
		h.fail(w, r, "gametes failed", err)
		return
	}
	writeJSON(w, http.StatusOK, gametesResponse{Genotype: g, Gametes: gametes})
}

func (h *Handler) handlePhenotype(w http.ResponseWriter, r *http.Request) {
	g, ok := h.decodeGenotype(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Phenotype(g)
	if err != nil {
		h.fail(w, r, "phenotype failed", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleListPairings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	pairings, err := h.svc.Pairings(r.Context(), punnett.PairingsRequest{Limit: limit})
	if err != nil {
		h.fail(w, r, "list pairings failed", err)
		return
	}
	if pairings == nil {
		pairings = []model.Pairing{}
	}
	writeJSON(w, http.StatusOK, pairingsResponse{Pairings: pairings})
}

func (h *Handler) handleSavePairing(w http.ResponseWriter, r *http.Request) {
	var body savePairingRequest
	if err := decodeRequest(w, r, &body); err != nil {
		h.reject(w, r, err)
		return
	}
	req, err := body.toService()
	if err != nil {
		h.fail(w, r, "invalid pairing", err)
		return
	}
	pairing, err := h.svc.SavePairing(r.Context(), req)
	if err != nil {
		h.fail(w, r, "save pairing failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, pairing)
}

func (h *Handler) handleGetPairing(w http.ResponseWriter, r *http.Request) {
	pairing, err := h.svc.Pairing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get pairing failed", err)
		return
	}
	writeJSON(w, http.StatusOK, pairing)
}

func (h *Handler) handleDeletePairing(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePairing(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete pairing failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeParents(w http.ResponseWriter, r *http.Request) (punnett.ParentsRequest, bool) {
	var body parentsRequest
	if err := decodeRequest(w, r, &body); err != nil {
		h.reject(w, r, err)
		return punnett.ParentsRequest{}, false
	}
	req, err := body.toService()
	if err != nil {
		h.fail(w, r, "invalid parents", err)
		return punnett.ParentsRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeGenotype(w http.ResponseWriter, r *http.Request) (genetics.Genotype, bool) {
	var body genotypeRequest
	if err := decodeRequest(w, r, &body); err != nil {
		h.reject(w, r, err)
		return genetics.Genotype{}, false
	}
	g, err := genetics.ParseGenotype(body.Genotype)
	if err != nil {
		h.fail(w, r, "invalid genotype", err)
		return genetics.Genotype{}, false
	}
	return g, true
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WarnContext(r.Context(), "invalid request",
		"request_id", middleware.GetReqID(r.Context()),
		"error", err.Error(),
	)
	writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	level := slog.LevelWarn
	if isInternal(err) {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, msg,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err.Error(),
	)
	writeServiceError(w, err)
}
