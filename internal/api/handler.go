// Package api exposes the personalization service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GeorgeMakridis/humaine-chatbot/internal/llm"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/metrics"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/persist"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/profile"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/prompt"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

const defaultInteractionLimit = 20

// AppDeps bundles the service dependencies the handlers need.
type AppDeps struct {
	Profiles *profile.Store
	Updater  *profile.Updater
	Learner  profile.InsightAnalyzer
	Prompts  *prompt.Manager
	LLM      llm.Generator
	Metrics  *metrics.Collector
	DB       *storage.Store
	Saver    *persist.Saver
	Token    string
	Model    string
}

// NewHandler returns the REST API. Everything except /health requires the
// bearer token.
func NewHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Post("/interact", handleInteract(deps))
		r.Post("/feedback", handleFeedback(deps))
		r.Post("/session", handleSession(deps))

		r.Get("/profile/{user_id}", handleGetProfile(deps))
		r.Delete("/profile/{user_id}", handleDeleteProfile(deps))
		r.Get("/profiles/stats", handleProfileStats(deps))
		r.Post("/profiles/save", handleProfileSave(deps))
		r.Get("/profiles/insights/{user_id}", handleInsights(deps))

		r.Get("/metrics/engagement/{user_id}", handleEngagement(deps))
		r.Get("/metrics/behavior/{user_id}", handleBehavior(deps))
		r.Get("/metrics/overview", handleOverview(deps))

		r.Get("/interactions", handleInteractions(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleInteract(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req interactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.UserID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "user_id is required")
			return
		}
		if req.Message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "input_text is required and must not be empty")
			return
		}

		updated := deps.Updater.ApplyMessage(profile.MessageEvent{
			UserID:         req.UserID,
			SessionID:      req.SessionID,
			Text:           req.Message,
			InputStartTime: req.InputStartTime,
			InputEndTime:   req.InputEndTime,
			InputSentTime:  req.InputSentTime,
			Metadata:       req.Extra,
		})
		deps.Metrics.RecordMessage(req.UserID, req.SessionID, utf8.RuneCountInString(req.Message))

		params := updated.Params()
		if req.Domain != "" {
			params.Domain = req.Domain
		}
		enriched := deps.Prompts.Enrich(req.Message, params)
		modelParams := llm.DeriveModelParams(params)

		status := "completed"
		response, err := deps.LLM.Generate(r.Context(), enriched, modelParams)
		if err != nil {
			slog.Warn("generation failed, returning fallback response",
				"user_id", req.UserID, "error", err)
			response = llm.Apology
			status = "fallback"
		} else {
			deps.Metrics.RecordResponse(req.UserID)
		}

		interaction := storage.Interaction{
			ID:             uuid.NewString(),
			CreatedAt:      time.Now(),
			UserID:         req.UserID,
			SessionID:      req.SessionID,
			UserMessage:    req.Message,
			EnrichedPrompt: enriched,
			Model:          deps.Model,
			Response:       response,
			Status:         status,
		}
		if err := deps.DB.SaveInteraction(interaction); err != nil {
			// The response still goes out; only the audit log entry is lost.
			slog.Warn("recording interaction", "user_id", req.UserID, "error", err)
		}

		writeJSON(w, http.StatusOK, interactResponse{
			ID:              interaction.ID,
			UserID:          req.UserID,
			SessionID:       req.SessionID,
			Response:        response,
			Model:           deps.Model,
			Status:          status,
			Personalization: params,
			ModelParams:     modelParams,
		})
	}
}

func handleFeedback(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req feedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.UserID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "user_id is required")
			return
		}
		if req.FeedbackType == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "feedback_type is required")
			return
		}

		deps.Updater.ApplyFeedback(profile.FeedbackEvent{
			UserID:           req.UserID,
			SessionID:        req.SessionID,
			FeedbackType:     req.FeedbackType,
			ResponseText:     req.ResponseText,
			ResponseDuration: req.ResponseDuration,
			DelayDuration:    req.DelayDuration,
			Metadata:         req.Extra,
		})
		deps.Metrics.RecordFeedback(req.UserID, req.FeedbackType)

		writeJSON(w, http.StatusOK, statusResponse{Status: "recorded"})
	}
}

func handleSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req sessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.UserID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "user_id is required")
			return
		}

		updated := deps.Updater.ApplySession(profile.SessionEvent{
			UserID:         req.UserID,
			SessionID:      req.SessionID,
			Start:          req.Start,
			End:            req.End,
			Duration:       req.Duration,
			EndType:        req.EndType,
			EngagementTime: req.EngagementTime,
			Metadata:       req.Extra,
		})
		deps.Metrics.RecordSessionEnd(req.UserID, req.SessionID)

		writeJSON(w, http.StatusOK, map[string]any{
			"status":         "recorded",
			"total_sessions": updated.TotalSessions,
		})
	}
}

func handleGetProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "user_id")
		p := deps.Profiles.GetOrCreate(userID)
		writeJSON(w, http.StatusOK, p)
	}
}

func handleDeleteProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "user_id")

		existed := deps.Profiles.Delete(userID)
		deps.Saver.Forget(userID)
		deps.Metrics.Forget(userID)

		err := deps.DB.DeleteProfile(userID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusInternalServerError, "api_error", "deleting stored profile: %v", err)
			return
		}
		if !existed && errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found_error", "no profile for user %s", userID)
			return
		}

		writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
	}
}

func handleProfileStats(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stored, err := deps.DB.Stats()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "reading profile stats: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"loaded_profiles": deps.Profiles.Count(),
			"stored_profiles": stored.Count,
			"storage_bytes":   stored.TotalBytes,
		})
	}
}

func handleProfileSave(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, id := range deps.Profiles.UserIDs() {
			deps.Saver.MarkDirty(id)
		}
		saved, err := deps.Saver.Flush()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "saving profiles: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"saved": saved})
	}
}

func handleInsights(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "user_id")
		p, ok := deps.Profiles.Get(userID)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found_error", "no profile for user %s", userID)
			return
		}
		writeJSON(w, http.StatusOK, deps.Learner.Analyze(&p))
	}
}

func handleEngagement(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "user_id")
		s, ok := deps.Metrics.Engagement(userID)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found_error", "no activity recorded for user %s", userID)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func handleBehavior(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "user_id")
		s, ok := deps.Metrics.Behavior(userID)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found_error", "no activity recorded for user %s", userID)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func handleOverview(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Metrics.Overview())
	}
}

func handleInteractions(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultInteractionLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "limit must be a positive integer")
				return
			}
			limit = n
		}

		var (
			items []storage.Interaction
			err   error
		)
		if userID := r.URL.Query().Get("user_id"); userID != "" {
			items, err = deps.DB.UserInteractions(userID, limit)
		} else {
			items, err = deps.DB.RecentInteractions(limit)
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "reading interactions: %v", err)
			return
		}
		if items == nil {
			items = []storage.Interaction{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"interactions": items})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
