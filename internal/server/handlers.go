package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/immorechner/property-calculator/internal/output"
	"github.com/immorechner/property-calculator/internal/service"
	"github.com/immorechner/property-calculator/internal/store"
	"go.uber.org/zap"
)

type handlers struct {
	svc     *service.SimulationService
	schemas requestSchemas
	maxBody int64
	logger  *zap.SugaredLogger
}

type simulationRequest struct {
	Household    domain.HouseholdTaxContext `json:"household"`
	HorizonYears int                        `json:"horizon_years"`
	Property     domain.PropertyInputs      `json:"property"`
}

type portfolioRequest struct {
	Household    domain.HouseholdTaxContext `json:"household"`
	HorizonYears int                        `json:"horizon_years"`
	Properties   []domain.PropertyInputs    `json:"properties"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) simulate(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if !h.decode(w, r, "simulation.json", &req) {
		return
	}
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	run, err := h.svc.SimulateProperty(r.Context(), req.Property, req.Household, req.HorizonYears)
	if err != nil {
		h.fail(w, r, http.StatusServiceUnavailable, err)
		return
	}
	h.respondRun(w, r, http.StatusCreated, run, format)
}

func (h *handlers) portfolio(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if !h.decode(w, r, "portfolio.json", &req) {
		return
	}
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	run, err := h.svc.SimulatePortfolio(r.Context(), req.Properties, req.Household, req.HorizonYears)
	if err != nil {
		h.fail(w, r, http.StatusServiceUnavailable, err)
		return
	}
	h.respondRun(w, r, http.StatusCreated, run, format)
}

func (h *handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, errors.New("invalid property id"))
		return
	}
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	run, err := h.svc.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.fail(w, r, http.StatusNotFound, err)
		return
	case errors.Is(err, service.ErrNoStore):
		h.fail(w, r, http.StatusNotImplemented, err)
		return
	case err != nil:
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	h.respondRun(w, r, http.StatusOK, run, format)
}

// decode reads the limited body, validates it against schema and decodes it into dst.
// It writes the error response itself and reports whether the handler may continue.
func (h *handlers) decode(w http.ResponseWriter, r *http.Request, schema string, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
			return false
		}
		h.fail(w, r, http.StatusBadRequest, err)
		return false
	}
	if err := h.schemas.validate(schema, body); err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return false
	}
	return true
}

// format resolves the ?format= query parameter; empty means the JSON run envelope.
func (h *handlers) format(w http.ResponseWriter, r *http.Request) (output.Formatter, bool) {
	name := r.URL.Query().Get("format")
	if name == "" {
		return nil, true
	}
	f := output.GetFormatterByName(name)
	if f == nil {
		h.fail(w, r, http.StatusBadRequest, output.ErrUnsupportedFormat)
		return nil, false
	}
	return f, true
}

func (h *handlers) respondRun(w http.ResponseWriter, r *http.Request, status int, run *service.Run, f output.Formatter) {
	if f == nil {
		respondJSON(w, status, run)
		return
	}
	data, err := f.Format(run.Report)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", contentType(f.Extension()))
	w.Header().Set("X-Simulation-ID", run.ID.String())
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	reqID := middleware.GetReqID(r.Context())
	if status >= http.StatusInternalServerError {
		h.logger.Errorw("request failed", "request_id", reqID, "status", status, "error", err)
	} else {
		h.logger.Debugw("request rejected", "request_id", reqID, "status", status, "error", err)
	}
	respondJSON(w, status, errorResponse{Error: err.Error(), RequestID: reqID})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func contentType(ext string) string {
	switch ext {
	case "json":
		return "application/json"
	case "csv":
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
