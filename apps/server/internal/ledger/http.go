package ledger

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"blackjack-lite/apps/server/internal/auth"
)

// HTTPHandler exposes the audit ledger over REST. All routes require a
// bearer session token issued by the auth service.
type HTTPHandler struct {
	auth   auth.Service
	ledger Service
}

func NewHTTPHandler(authService auth.Service, ledgerService Service) *HTTPHandler {
	return &HTTPHandler{auth: authService, ledger: ledgerService}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/audit/live/recent", h.handleRecent(SourceLive))
	mux.HandleFunc("/api/audit/replay/recent", h.handleRecent(SourceReplay))
	mux.HandleFunc("/api/audit/live/rounds/", h.handleRounds(SourceLive))
	mux.HandleFunc("/api/audit/replay/rounds/", h.handleRounds(SourceReplay))
}

func (h *HTTPHandler) handleRecent(source Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeAuditError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		accountID, ok := h.resolveAccountID(w, r)
		if !ok {
			return
		}
		limit := parseLimit(r.URL.Query().Get("limit"))
		items, err := h.ledger.ListRecent(r.Context(), accountID, source, limit)
		if err != nil {
			log.Printf("[Ledger] list recent failed: account=%d source=%s err=%v", accountID, source, err)
			writeAuditError(w, http.StatusInternalServerError, "failed to list history")
			return
		}
		writeAuditJSON(w, http.StatusOK, map[string]any{
			"source": source,
			"items":  items,
		})
	}
}

type replayUploadRequest struct {
	Events  []EventItem    `json:"events"`
	Summary map[string]any `json:"summary"`
}

func (h *HTTPHandler) handleRounds(source Source) http.HandlerFunc {
	prefix := "/api/audit/" + string(source) + "/rounds/"
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := h.resolveAccountID(w, r)
		if !ok {
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, prefix)
		roundID := rest
		wantSave := false
		if strings.HasSuffix(rest, "/save") {
			roundID = strings.TrimSuffix(rest, "/save")
			wantSave = true
		}
		roundID = strings.Trim(roundID, "/")
		if roundID == "" || strings.Contains(roundID, "/") {
			writeAuditError(w, http.StatusBadRequest, "invalid round id")
			return
		}

		if wantSave {
			h.handleSave(w, r, accountID, source, roundID)
			return
		}

		switch r.Method {
		case http.MethodGet:
			events, err := h.ledger.GetRoundEvents(r.Context(), accountID, source, roundID)
			if errors.Is(err, ErrNotFound) {
				writeAuditError(w, http.StatusNotFound, "round not found")
				return
			}
			if err != nil {
				log.Printf("[Ledger] get round events failed: account=%d source=%s round=%s err=%v", accountID, source, roundID, err)
				writeAuditError(w, http.StatusInternalServerError, "failed to load round")
				return
			}
			writeAuditJSON(w, http.StatusOK, map[string]any{
				"round_id": roundID,
				"source":   source,
				"events":   events,
			})
		case http.MethodPost:
			if source != SourceReplay {
				writeAuditError(w, http.StatusMethodNotAllowed, "uploads are replay-only")
				return
			}
			var req replayUploadRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeAuditError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if len(req.Events) == 0 {
				writeAuditError(w, http.StatusBadRequest, "events is required")
				return
			}
			if err := h.ledger.UpsertReplayRound(r.Context(), accountID, roundID, req.Events, req.Summary); err != nil {
				log.Printf("[Ledger] upsert replay round failed: account=%d round=%s err=%v", accountID, roundID, err)
				writeAuditError(w, http.StatusInternalServerError, "failed to store round")
				return
			}
			writeAuditJSON(w, http.StatusOK, map[string]any{
				"round_id": roundID,
				"stored":   len(req.Events),
			})
		default:
			writeAuditError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

func (h *HTTPHandler) handleSave(w http.ResponseWriter, r *http.Request, accountID uint64, source Source, roundID string) {
	var saved bool
	switch r.Method {
	case http.MethodPost:
		saved = true
	case http.MethodDelete:
		saved = false
	default:
		writeAuditError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	err := h.ledger.SetSaved(r.Context(), accountID, source, roundID, saved)
	if errors.Is(err, ErrNotFound) {
		writeAuditError(w, http.StatusNotFound, "round not found")
		return
	}
	if errors.Is(err, ErrSavedLimitReach) {
		writeAuditError(w, http.StatusConflict, "saved round limit reached")
		return
	}
	if err != nil {
		log.Printf("[Ledger] set saved failed: account=%d source=%s round=%s err=%v", accountID, source, roundID, err)
		writeAuditError(w, http.StatusInternalServerError, "failed to update round")
		return
	}
	writeAuditJSON(w, http.StatusOK, map[string]any{
		"round_id": roundID,
		"is_saved": saved,
	})
}

func (h *HTTPHandler) resolveAccountID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	token := bearerToken(r)
	if token == "" {
		writeAuditError(w, http.StatusUnauthorized, "missing session token")
		return 0, false
	}
	accountID, _, ok := h.auth.ResolveSession(token)
	if !ok {
		writeAuditError(w, http.StatusUnauthorized, "invalid session token")
		return 0, false
	}
	return accountID, true
}

func parseLimit(raw string) int {
	if raw == "" {
		return 20
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 20
	}
	if n > 100 {
		return 100
	}
	return n
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func writeAuditJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAuditError(w http.ResponseWriter, status int, message string) {
	writeAuditJSON(w, status, map[string]string{"error": message})
}
