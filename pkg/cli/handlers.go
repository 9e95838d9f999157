package cli

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/freightguard/carriervet/pkg/fmcsa"
	"github.com/freightguard/carriervet/pkg/scoring"
)

func newRouter(client *fmcsa.Client) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthzHandler)
	r.Get("/v1/model", modelHandler)
	r.Get("/v1/check", checkAPIHandler(client))
	r.Post("/v1/check", checkAPIHandler(client))

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
}

// modelHandler exposes the scoring model metadata so consumers can
// introspect the formula they are being scored against.
func modelHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"model_version": scoring.ModelVersion,
		"categories":    scoring.Categories(),
	})
}

// checkRequest is the POST body. Both identifier field names are
// accepted; signals are optional.
type checkRequest struct {
	USDOTNumber string         `json:"usdot_number"`
	MCNumber    string         `json:"mc_number"`
	Signals     *fmcsa.Signals `json:"signals"`
}

func checkAPIHandler(client *fmcsa.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkRequest
		switch r.Method {
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		default:
			q := r.URL.Query()
			req.USDOTNumber = firstOf(q.Get("usdot"), q.Get("usdot_number"))
			req.MCNumber = firstOf(q.Get("mc"), q.Get("mc_number"))
		}

		id, err := fmcsa.ParseIdentifier(req.USDOTNumber, req.MCNumber)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := vetCarrier(r.Context(), client, id, req.Signals)
		if err != nil {
			slog.Error("carrier vetting failed", "id", id.String(), "error", err)
			writeJSON(w, http.StatusInternalServerError, degradedResponse(id, err))
			return
		}

		slog.Info("carrier vetted", "id", id.String(),
			"score", res.TotalScore, "grade", res.Grade, "auto_reject", res.AutoReject)
		writeJSON(w, http.StatusOK, res)
	}
}

// degradedResponse is the worst-case payload returned on upstream
// failure so downstream consumers always have a safe default to act on.
func degradedResponse(id fmcsa.Identifier, err error) *checkResponse {
	res := &checkResponse{
		CheckID:        uuid.NewString(),
		TotalScore:     0,
		Grade:          "F",
		Recommendation: scoring.RecommendReject,
		RiskLevel:      scoring.RiskHigh,
		AutoReject:     true,
		ModelVersion:   scoring.ModelVersion,
		CheckedAt:      time.Now().UTC(),
	}
	if errors.Is(err, fmcsa.ErrUpstream) {
		res.Error = err.Error()
	} else {
		res.Error = "carrier data unavailable"
	}
	switch id.Kind {
	case fmcsa.IdentifierMC:
		res.MCNumber = id.Value
	default:
		res.USDOTNumber = id.Value
	}
	return res
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
