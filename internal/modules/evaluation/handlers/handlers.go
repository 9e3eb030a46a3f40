// Package handlers provides HTTP handlers for buy-write evaluation.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/buywrite/internal/domain"
	"github.com/aristath/buywrite/internal/modules/evaluation"
	"github.com/aristath/buywrite/internal/report"
	"github.com/aristath/buywrite/pkg/formulas"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Evaluator runs one buy-write evaluation.
type Evaluator interface {
	Evaluate(ctx context.Context, req evaluation.Request) (*evaluation.Result, error)
}

// Observer receives the outcome of every evaluation served.
type Observer interface {
	ObserveEvaluation(outcome string, elapsed time.Duration, skipped int)
}

// Outcomes reported to the Observer.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalid      = "invalid"
	OutcomeInsufficient = "insufficient_data"
	OutcomeError        = "error"
)

// evaluationQuery is the validated query string of an evaluation request.
type evaluationQuery struct {
	Symbol       string `json:"symbol" validate:"required,max=20,printascii"`
	Shares       int    `json:"shares" validate:"required,gt=0,lte=10000000"`
	PurchaseDate string `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	Diagnostics  bool   `json:"diagnostics"`
	Best         bool   `json:"best"`
}

// Handler handles evaluation HTTP requests
type Handler struct {
	service  Evaluator
	observer Observer
	validate *validator.Validate
	now      func() time.Time
	log      zerolog.Logger
}

// NewHandler creates a new evaluation handler. observer may be nil.
func NewHandler(service Evaluator, observer Observer, log zerolog.Logger) *Handler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})

	return &Handler{
		service:  service,
		observer: observer,
		validate: validate,
		now:      time.Now,
		log:      log.With().Str("handler", "evaluation").Logger(),
	}
}

// HandleEvaluate handles GET /api/evaluations
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	result, ok := h.evaluate(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleExportCSV handles GET /api/evaluations/export.csv
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	best, _ := strconv.ParseBool(r.URL.Query().Get("best"))

	result, ok := h.evaluate(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	var err error
	suffix := "buywrite"
	if best {
		suffix = "best"
		err = report.WriteBestCSV(&buf, result)
	} else {
		err = report.WriteCSV(&buf, result.Rows)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render CSV export")
		h.writeError(w, http.StatusInternalServerError, "Failed to render CSV: "+err.Error())
		return
	}

	filename := fmt.Sprintf("%s_%s_%s.csv", result.Symbol, result.PurchaseDate.Format("2006-01-02"), suffix)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Error().Err(err).Msg("Failed to write CSV response")
	}
}

// evaluate parses the query, runs the evaluation and writes any error
// response itself. It reports false when the caller must stop.
func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) (*evaluation.Result, bool) {
	start := time.Now()

	req, err := h.parseQuery(r)
	if err != nil {
		h.observe(OutcomeInvalid, start, 0)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	result, err := h.service.Evaluate(r.Context(), req)
	if err != nil {
		var inputErr *evaluation.InputDataError
		if errors.As(err, &inputErr) {
			status, outcome := http.StatusUnprocessableEntity, OutcomeInsufficient
			if inputErr.Reason == evaluation.ReasonInvalidRequest {
				status, outcome = http.StatusBadRequest, OutcomeInvalid
			}
			h.observe(outcome, start, len(inputErr.Warnings))
			h.writeJSON(w, status, map[string]interface{}{
				"error":    err.Error(),
				"reason":   inputErr.Reason,
				"warnings": inputErr.Warnings,
			})
			return nil, false
		}

		h.observe(OutcomeError, start, 0)
		h.log.Error().Err(err).Str("symbol", req.Symbol).Msg("Evaluation failed")
		h.writeError(w, http.StatusInternalServerError, "Evaluation failed: "+err.Error())
		return nil, false
	}

	h.observe(OutcomeSuccess, start, len(result.Warnings))
	h.log.Info().
		Str("symbol", result.Symbol).
		Int("rows", len(result.Rows)).
		Dur("elapsed", time.Since(start)).
		Msg("Evaluation served")
	return result, true
}

func (h *Handler) parseQuery(r *http.Request) (evaluation.Request, error) {
	q := r.URL.Query()

	query := evaluationQuery{
		Symbol:       strings.ToUpper(strings.TrimSpace(q.Get("symbol"))),
		PurchaseDate: q.Get("purchase_date"),
	}

	if s := q.Get("shares"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return evaluation.Request{}, fmt.Errorf("shares must be an integer, got %q", s)
		}
		query.Shares = n
	}
	if s := q.Get("diagnostics"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return evaluation.Request{}, fmt.Errorf("diagnostics must be a boolean, got %q", s)
		}
		query.Diagnostics = b
	}

	if err := h.validate.Struct(query); err != nil {
		return evaluation.Request{}, validationMessage(err)
	}

	loc := domain.ExchangeLocation()
	purchase := formulas.StartOfDay(h.now(), loc)
	if query.PurchaseDate != "" {
		d, err := time.ParseInLocation("2006-01-02", query.PurchaseDate, loc)
		if err != nil {
			return evaluation.Request{}, fmt.Errorf("invalid purchase_date: %w", err)
		}
		purchase = d
	}

	return evaluation.Request{
		Symbol:             query.Symbol,
		Shares:             query.Shares,
		PurchaseDate:       purchase,
		IncludeDiagnostics: query.Diagnostics,
	}, nil
}

func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s fails %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid query: %s", strings.Join(problems, "; "))
}

func (h *Handler) observe(outcome string, start time.Time, skipped int) {
	if h.observer != nil {
		h.observer.ObserveEvaluation(outcome, time.Since(start), skipped)
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
