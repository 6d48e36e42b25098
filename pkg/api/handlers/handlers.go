package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cbodonnell/twentyone/pkg/api/middleware"
	"github.com/cbodonnell/twentyone/pkg/diagnostics"
	"github.com/cbodonnell/twentyone/pkg/game"
	"github.com/cbodonnell/twentyone/pkg/game/types"
	"github.com/cbodonnell/twentyone/pkg/log"
	"github.com/cbodonnell/twentyone/pkg/version"
	"github.com/gorilla/mux"
)

// maxActionBody bounds the JSON payload of one action request
const maxActionBody = 64 * 1024

// ActionHandler runs participant requests against the table.
type ActionHandler interface {
	Submit(ctx context.Context, participantID, action string, payload []byte) (game.Outcome, error)
	State(ctx context.Context) (*types.GameState, error)
	Authority() string
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type DiagnosticsResponse struct {
	Revision int64               `json:"revision"`
	Issues   []diagnostics.Issue `json:"issues"`
}

type ActionResponse struct {
	Revision int64            `json:"revision"`
	Code     string           `json:"code,omitempty"`
	Error    string           `json:"error,omitempty"`
	State    *types.GameState `json:"state,omitempty"`
}

func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, &HealthResponse{Status: "ok", Version: version.Get()})
	}
}

// HandleGetState returns the current state as the caller may see it.
func HandleGetState(actions ActionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, ok := middleware.ParticipantFromContext(r.Context())
		if !ok {
			log.Error("failed to get participant from context")
			http.Error(w, "Failed to get participant from context", http.StatusInternalServerError)
			return
		}
		gameState, err := actions.State(r.Context())
		if err != nil {
			log.Error("failed to get game state: %v", err)
			http.Error(w, "Failed to get game state", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, game.View(gameState, participantID, actions.Authority()))
	}
}

// HandleDiagnostics validates the current state. Only the authority may run it
// since the report describes hidden information.
func HandleDiagnostics(actions ActionHandler, limits diagnostics.Limits) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, _ := middleware.ParticipantFromContext(r.Context())
		if participantID != actions.Authority() {
			http.Error(w, "Only the table authority may run diagnostics", http.StatusForbidden)
			return
		}
		gameState, err := actions.State(r.Context())
		if err != nil {
			log.Error("failed to get game state: %v", err)
			http.Error(w, "Failed to get game state", http.StatusInternalServerError)
			return
		}
		issues := diagnostics.Validate(gameState, limits)
		if issues == nil {
			issues = []diagnostics.Issue{}
		}
		writeJSON(w, http.StatusOK, &DiagnosticsResponse{Revision: gameState.Revision, Issues: issues})
	}
}

// HandlePostAction runs the action named in the path with the request body as
// its payload. Rule violations answer 409 with the rule code.
func HandlePostAction(actions ActionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, ok := middleware.ParticipantFromContext(r.Context())
		if !ok {
			log.Error("failed to get participant from context")
			http.Error(w, "Failed to get participant from context", http.StatusInternalServerError)
			return
		}
		action := mux.Vars(r)["action"]

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxActionBody))
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		out, err := actions.Submit(r.Context(), participantID, action, payload)
		if err != nil {
			log.Error("failed to handle %s from %s: %v", action, participantID, err)
			http.Error(w, "Failed to handle action", http.StatusInternalServerError)
			return
		}

		resp := &ActionResponse{State: game.View(out.State, participantID, actions.Authority())}
		if out.State != nil {
			resp.Revision = out.State.Revision
		}
		status := http.StatusOK
		if out.Rejection != nil {
			resp.Code = out.Rejection.Code
			resp.Error = out.Rejection.Message
			status = http.StatusConflict
		}
		writeJSON(w, status, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
