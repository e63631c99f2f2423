package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GeorgeMakridis/humaine-chatbot/internal/insight"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/llm"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/metrics"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/persist"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/profile"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/prompt"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/storage"
)

const testToken = "test-token"

func newTestHandler(t *testing.T) (http.Handler, AppDeps) {
	t.Helper()

	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	profiles := profile.NewStore()
	learner := insight.NewLearner()
	updater, err := profile.NewUpdater(profiles, learner)
	if err != nil {
		t.Fatalf("creating updater: %v", err)
	}

	deps := AppDeps{
		Profiles: profiles,
		Updater:  updater,
		Learner:  learner,
		Prompts:  prompt.NewManager(),
		LLM:      llm.NewMock(),
		Metrics:  metrics.NewCollector(),
		DB:       db,
		Saver:    persist.NewSaver(profiles, db, 0),
		Token:    testToken,
		Model:    "mock",
	}
	return NewHandler(deps), deps
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthIsUnauthenticated(t *testing.T) {
	h, _ := newTestHandler(t)
	w := doRequest(t, h, http.MethodGet, "/health", nil, false)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestMissingTokenRejected(t *testing.T) {
	h, _ := newTestHandler(t)
	w := doRequest(t, h, http.MethodGet, "/profile/alice", nil, false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var body struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Type != "authentication_error" {
		t.Errorf("error type = %q", body.Error.Type)
	}
}

func TestInteract(t *testing.T) {
	h, deps := newTestHandler(t)

	w := doRequest(t, h, http.MethodPost, "/interact", map[string]any{
		"user_id":    "alice",
		"session_id": "s1",
		"input_text": "Could you explain how mortgage interest compounds over time?",
	}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}

	var resp interactResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID == "" {
		t.Error("interaction id should be set")
	}
	if resp.Response == "" {
		t.Error("response should not be empty")
	}
	if resp.Status != "completed" {
		t.Errorf("status = %q, want completed", resp.Status)
	}
	if resp.ModelParams.MaxTokens == 0 {
		t.Error("model params should be populated")
	}

	// The interaction is persisted.
	stored, err := deps.DB.UserInteractions("alice", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored interactions = %d, want 1", len(stored))
	}
	if stored[0].EnrichedPrompt == stored[0].UserMessage {
		t.Error("stored prompt should be enriched, not the raw message")
	}

	// The profile was created and updated.
	if _, ok := deps.Profiles.Get("alice"); !ok {
		t.Error("profile should exist after interact")
	}
}

func TestInteractValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doRequest(t, h, http.MethodPost, "/interact", map[string]any{"input_text": "hi"}, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing user_id: status = %d, want 400", w.Code)
	}

	w = doRequest(t, h, http.MethodPost, "/interact", map[string]any{"user_id": "alice"}, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing message: status = %d, want 400", w.Code)
	}
}

func TestInteractPreservesUnknownFields(t *testing.T) {
	data := []byte(`{"user_id":"u","input_text":"hi","client_version":"2.1.0","locale":"el-GR"}`)

	var req interactRequest
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatal(err)
	}
	if len(req.Extra) != 2 {
		t.Fatalf("Extra = %v, want 2 entries", req.Extra)
	}
	if string(req.Extra["client_version"]) != `"2.1.0"` {
		t.Errorf("client_version = %s", req.Extra["client_version"])
	}
	if _, ok := req.Extra["user_id"]; ok {
		t.Error("known fields must not leak into Extra")
	}
}

func TestEventWireFieldNames(t *testing.T) {
	var ir interactRequest
	if err := json.Unmarshal([]byte(`{"user_id":"u","input_text":"hello"}`), &ir); err != nil {
		t.Fatal(err)
	}
	if ir.Message != "hello" {
		t.Errorf("input_text decoded as %q, want hello", ir.Message)
	}

	// The pre-rename alias still works and does not leak into Extra.
	ir = interactRequest{}
	if err := json.Unmarshal([]byte(`{"user_id":"u","message":"hi"}`), &ir); err != nil {
		t.Fatal(err)
	}
	if ir.Message != "hi" {
		t.Errorf("message alias decoded as %q, want hi", ir.Message)
	}
	if len(ir.Extra) != 0 {
		t.Errorf("Extra = %v, want empty", ir.Extra)
	}

	var fr feedbackRequest
	if err := json.Unmarshal([]byte(`{"user_id":"u","feedback_type":"positive","feedback_delay_duration":1200}`), &fr); err != nil {
		t.Fatal(err)
	}
	if fr.DelayDuration != 1200 {
		t.Errorf("feedback_delay_duration decoded as %d, want 1200", fr.DelayDuration)
	}
	fr = feedbackRequest{}
	if err := json.Unmarshal([]byte(`{"user_id":"u","delay_duration":800}`), &fr); err != nil {
		t.Fatal(err)
	}
	if fr.DelayDuration != 800 || len(fr.Extra) != 0 {
		t.Errorf("delay_duration alias: delay = %d, Extra = %v", fr.DelayDuration, fr.Extra)
	}

	var sr sessionRequest
	if err := json.Unmarshal([]byte(`{"user_id":"u","session_end_type":"completed"}`), &sr); err != nil {
		t.Fatal(err)
	}
	if sr.EndType != "completed" {
		t.Errorf("session_end_type decoded as %q, want completed", sr.EndType)
	}
	sr = sessionRequest{}
	if err := json.Unmarshal([]byte(`{"user_id":"u","end_type":"abandoned"}`), &sr); err != nil {
		t.Fatal(err)
	}
	if sr.EndType != "abandoned" || len(sr.Extra) != 0 {
		t.Errorf("end_type alias: end type = %q, Extra = %v", sr.EndType, sr.Extra)
	}
}

func TestFeedbackAndSession(t *testing.T) {
	h, deps := newTestHandler(t)

	w := doRequest(t, h, http.MethodPost, "/feedback", map[string]any{
		"user_id":       "bob",
		"feedback_type": "positive",
	}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("feedback status = %d, body = %s", w.Code, w.Body)
	}

	w = doRequest(t, h, http.MethodPost, "/session", map[string]any{
		"user_id":          "bob",
		"session_id":       "s1",
		"session_start":    int64(1000),
		"session_end":      int64(61000),
		"session_end_type": "completed",
		"engagement_time":  int64(45000),
	}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("session status = %d, body = %s", w.Code, w.Body)
	}

	p, ok := deps.Profiles.Get("bob")
	if !ok {
		t.Fatal("profile should exist")
	}
	if p.TotalSessions != 1 {
		t.Errorf("TotalSessions = %d, want 1", p.TotalSessions)
	}
	if len(p.FeedbackHistory) != 1 {
		t.Errorf("FeedbackHistory = %d, want 1", len(p.FeedbackHistory))
	}
	if p.AverageSessionDuration != 60000 {
		t.Errorf("AverageSessionDuration = %v, want 60000", p.AverageSessionDuration)
	}
}

func TestGetProfileCreatesDefault(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doRequest(t, h, http.MethodGet, "/profile/newuser", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var p profile.Profile
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.UserID != "newuser" {
		t.Errorf("UserID = %q", p.UserID)
	}
	if p.PreferredDetailLevel != profile.DetailMedium {
		t.Errorf("PreferredDetailLevel = %q, want medium", p.PreferredDetailLevel)
	}
}

func TestDeleteProfile(t *testing.T) {
	h, _ := newTestHandler(t)

	doRequest(t, h, http.MethodGet, "/profile/temp", nil, true)

	w := doRequest(t, h, http.MethodDelete, "/profile/temp", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = doRequest(t, h, http.MethodDelete, "/profile/temp", nil, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestProfileSaveAndStats(t *testing.T) {
	h, _ := newTestHandler(t)

	doRequest(t, h, http.MethodGet, "/profile/alice", nil, true)
	doRequest(t, h, http.MethodGet, "/profile/bob", nil, true)

	w := doRequest(t, h, http.MethodPost, "/profiles/save", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", w.Code, w.Body)
	}
	var saveResp struct {
		Saved int `json:"saved"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &saveResp); err != nil {
		t.Fatal(err)
	}
	if saveResp.Saved != 2 {
		t.Errorf("saved = %d, want 2", saveResp.Saved)
	}

	w = doRequest(t, h, http.MethodGet, "/profiles/stats", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	var stats struct {
		Loaded int `json:"loaded_profiles"`
		Stored int `json:"stored_profiles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Loaded != 2 || stats.Stored != 2 {
		t.Errorf("stats = %+v, want 2 loaded and 2 stored", stats)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doRequest(t, h, http.MethodGet, "/profiles/insights/ghost", nil, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want 404", w.Code)
	}

	doRequest(t, h, http.MethodPost, "/interact", map[string]any{
		"user_id":    "carol",
		"input_text": "Tell me more about index funds please.",
	}, true)

	w = doRequest(t, h, http.MethodGet, "/profiles/insights/carol", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var ins profile.Insights
	if err := json.Unmarshal(w.Body.Bytes(), &ins); err != nil {
		t.Fatal(err)
	}
	if ins.LastUpdated.IsZero() {
		t.Error("insights LastUpdated should be set")
	}
}

func TestMetricsEndpoints(t *testing.T) {
	h, _ := newTestHandler(t)

	doRequest(t, h, http.MethodPost, "/interact", map[string]any{
		"user_id": "dave", "session_id": "s1", "input_text": "hello there",
	}, true)

	w := doRequest(t, h, http.MethodGet, "/metrics/engagement/dave", nil, true)
	if w.Code != http.StatusOK {
		t.Errorf("engagement status = %d", w.Code)
	}
	w = doRequest(t, h, http.MethodGet, "/metrics/behavior/dave", nil, true)
	if w.Code != http.StatusOK {
		t.Errorf("behavior status = %d", w.Code)
	}
	w = doRequest(t, h, http.MethodGet, "/metrics/behavior/ghost", nil, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown user behavior status = %d, want 404", w.Code)
	}

	w = doRequest(t, h, http.MethodGet, "/metrics/overview", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("overview status = %d", w.Code)
	}
	var o metrics.Overview
	if err := json.Unmarshal(w.Body.Bytes(), &o); err != nil {
		t.Fatal(err)
	}
	if o.Users != 1 {
		t.Errorf("Users = %d, want 1", o.Users)
	}
}

func TestInteractionsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	doRequest(t, h, http.MethodPost, "/interact", map[string]any{
		"user_id": "erin", "input_text": "first message here",
	}, true)
	doRequest(t, h, http.MethodPost, "/interact", map[string]any{
		"user_id": "frank", "input_text": "second message here",
	}, true)

	w := doRequest(t, h, http.MethodGet, "/interactions?user_id=erin", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Interactions []storage.Interaction `json:"interactions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Interactions) != 1 || body.Interactions[0].UserID != "erin" {
		t.Errorf("interactions = %+v", body.Interactions)
	}

	w = doRequest(t, h, http.MethodGet, "/interactions?limit=abc", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", w.Code)
	}
}
