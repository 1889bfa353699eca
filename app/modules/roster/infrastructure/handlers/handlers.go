package rosterhandlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	rosterservice "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/application"
	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	"github.com/Black-And-White-Club/league-score-manager/app/observability"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// maxBodyBytes caps request bodies; a player record is well under 1 KiB.
const maxBodyBytes = 64 << 10

// RosterHandlers implements the Handlers interface over HTTP/JSON.
type RosterHandlers struct {
	service        rosterservice.Service
	logger         *slog.Logger
	tracer         trace.Tracer
	exportFilename string
}

// NewRosterHandlers creates a new RosterHandlers instance.
func NewRosterHandlers(
	service rosterservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	exportFilename string,
) Handlers {
	if exportFilename == "" {
		exportFilename = rosterservice.DefaultExportFilename
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("rosterhandlers")
	}
	return &RosterHandlers{
		service:        service,
		logger:         logger,
		tracer:         tracer,
		exportFilename: exportFilename,
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type warningResponse struct {
	Warning string `json:"warning"`
}

func (h *RosterHandlers) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "ListPlayers")
	defer span.End()

	roster, err := h.service.ListPlayers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (h *RosterHandlers) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "GetPlayer")
	defer span.End()

	name, err := playerName(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	player, err := h.service.GetPlayer(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

// HandleAddPlayer appends a record. Fields missing from the body take the entry form defaults.
func (h *RosterHandlers) HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "AddPlayer")
	defer span.End()

	player := rosterdomain.NewPlayer("")
	if err := decodeBody(w, r, &player); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	created, err := h.service.AddPlayer(r.Context(), player)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RosterHandlers) HandleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "UpdatePlayer")
	defer span.End()

	name, err := playerName(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var patch rosterdomain.PlayerPatch
	if err := decodeBody(w, r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if patch.IsEmpty() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no fields to update"})
		return
	}

	updated, err := h.service.UpdatePlayer(r.Context(), name, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RosterHandlers) HandleComputeScores(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "ComputeScores")
	defer span.End()

	roster, err := h.service.ComputeScores(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (h *RosterHandlers) HandleApplyAwards(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "ApplyAwards")
	defer span.End()

	roster, err := h.service.ApplyAwards(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (h *RosterHandlers) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "Breakdown")
	defer span.End()

	parts, err := h.service.Breakdown(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

// HandleExport serves the roster workbook as a download. The workbook is buffered so a
// failure can still be reported with a proper status.
func (h *RosterHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "Export")
	defer span.End()

	var buf bytes.Buffer
	if err := h.service.ExportSpreadsheet(r.Context(), &buf); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", rosterservice.SpreadsheetContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exportFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *RosterHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "Chart")
	defer span.End()

	var buf bytes.Buffer
	if err := h.service.RenderChart(r.Context(), &buf); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *RosterHandlers) HandlePenalties(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "Penalties")
	defer span.End()

	writeJSON(w, http.StatusOK, rosterdomain.PenaltyTable())
}

// startSpan opens a span for one request and returns the request carrying it.
func (h *RosterHandlers) startSpan(r *http.Request, operation string) (*http.Request, trace.Span) {
	ctx, span := h.tracer.Start(r.Context(), "RosterHandlers."+operation, trace.WithAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("http.route", r.URL.Path),
	))
	return r.WithContext(ctx), span
}

// playerName returns the decoded {name} path segment. chi matches on the raw path when
// the request carries escaped characters such as %2F, so the segment may still be escaped.
func playerName(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return "", fmt.Errorf("invalid player name in path: %w", err)
	}
	return decoded, nil
}

// writeError maps service errors to HTTP responses. An empty roster is a warning, not a failure.
func (h *RosterHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var ve *rosterdomain.ValidationError
	switch {
	case errors.Is(err, rosterdomain.ErrEmptyRoster):
		writeJSON(w, http.StatusOK, warningResponse{Warning: err.Error()})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid player record", Fields: validationFields(err)})
	case errors.Is(err, rosterservice.ErrPlayerNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.ErrorContext(ctx, "Roster request failed",
			observability.CorrelationID(ctx),
			slog.String("path", r.URL.Path),
			observability.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func validationFields(err error) map[string]string {
	fields := map[string]string{}
	var walk func(error)
	walk = func(e error) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		var ve *rosterdomain.ValidationError
		if errors.As(e, &ve) {
			fields[ve.Field] = ve.Reason
		}
	}
	walk(err)
	return fields
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
