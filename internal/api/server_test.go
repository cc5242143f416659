package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bombardier/internal/analysis"
	"bombardier/internal/model"
	"bombardier/internal/store/sqlite"
)

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	svc := analysis.New(analysis.Options{TargetInterests: []string{"ai"}})
	ts := httptest.NewServer(NewRouter(svc, opts))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, response) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	ts := newServer(t, Options{})
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, Version, body["version"])
	assert.Equal(t, true, body["models_loaded"])
}

type failingStore struct{}

func (failingStore) SaveAnalysis(context.Context, time.Time, string, string, model.ProfileAnalysis) (string, error) {
	return "", errors.New("disk on fire")
}

func (failingStore) LoadAnalysis(context.Context, string) (sqlite.AnalysisRecord, error) {
	return sqlite.AnalysisRecord{}, errors.New("disk on fire")
}

func (failingStore) LatestAnalysis(context.Context, string, string) (sqlite.AnalysisRecord, error) {
	return sqlite.AnalysisRecord{}, errors.New("disk on fire")
}

func openStore(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, response) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestAnalyzeProfileStoresAndReadsBack(t *testing.T) {
	ts := newServer(t, Options{Store: openStore(t)})
	resp, out := post(t, ts, "/analyze/profile", `{
		"platform": "twitter",
		"username": "anna",
		"bio": "Building #ai tools",
		"metadata": {"followers": 1000, "following": 200, "posts_count": 500},
		"posts": [{"content": "Love shipping!", "timestamp": "2025-03-01T09:10:00Z"}]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	id := resp.Header.Get("X-Analysis-Id")
	require.NotEmpty(t, id)

	var a model.ProfileAnalysis
	require.NoError(t, json.Unmarshal(out.Data, &a))
	assert.Contains(t, a.Interests, "ai")
	assert.Len(t, a.PostingHours, 24)
	require.NotNil(t, a.PeakPostingHour)
	assert.Equal(t, 9, *a.PeakPostingHour)
	assert.NotEmpty(t, a.QualityScore.Tier)

	resp, out = get(t, ts, "/analysis/"+id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec sqlite.AnalysisRecord
	require.NoError(t, json.Unmarshal(out.Data, &rec))
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "anna", rec.Username)
	assert.Equal(t, a.QualityScore.Overall, rec.Analysis.QualityScore.Overall)

	resp, out = get(t, ts, "/analysis/twitter/anna")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(out.Data, &rec))
	assert.Equal(t, id, rec.ID)

	resp, out = get(t, ts, "/analysis/missing-id")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, out.Success)
	resp, _ = get(t, ts, "/analysis/twitter/nobody")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalysisLookupNeedsStore(t *testing.T) {
	ts := newServer(t, Options{})
	resp, _ := get(t, ts, "/analysis/some-id")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyzeProfileErrors(t *testing.T) {
	ts := newServer(t, Options{})

	resp, out := post(t, ts, "/analyze/profile", `{"username": "anna"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "platform")

	resp, out = post(t, ts, "/analyze/profile", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, out.Success)

}

func TestBodyLimit(t *testing.T) {
	h := NewRouter(analysis.New(analysis.Options{}), Options{})
	big := `{"platform":"twitter","username":"a","bio":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze/profile", strings.NewReader(big)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestStoreFailureIsHidden(t *testing.T) {
	ts := newServer(t, Options{Store: failingStore{}})
	resp, out := post(t, ts, "/analyze/profile", `{"platform":"twitter","username":"anna"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal error", out.Error)

	resp, out = get(t, ts, "/analysis/twitter/anna")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, out.Error, "disk")
}

func TestDetectBot(t *testing.T) {
	ts := newServer(t, Options{})
	resp, out := post(t, ts, "/detect/bot", `{"platform":"twitter","username":"user12345678"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var b model.BotResult
	require.NoError(t, json.Unmarshal(out.Data, &b))
	assert.Len(t, b.ComponentScores, 5)
	assert.NotEmpty(t, b.Flags)
}

func TestAnalyzeSentiment(t *testing.T) {
	ts := newServer(t, Options{})
	resp, out := post(t, ts, "/analyze/sentiment", `{"text":"This is awesome, love it!"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var s model.SentimentResult
	require.NoError(t, json.Unmarshal(out.Data, &s))
	assert.Equal(t, "positive", s.Label)

	resp, out = post(t, ts, "/analyze/sentiment", `{"context":"reply"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "text is required", out.Error)
}

func TestExtractInterests(t *testing.T) {
	ts := newServer(t, Options{})
	resp, out := post(t, ts, "/extract/interests", `{"bio":"python developer","posts":["#rustlang all day"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res model.InterestResult
	require.NoError(t, json.Unmarshal(out.Data, &res))
	assert.Contains(t, res.Interests, "python")
	assert.Contains(t, res.Interests, "rustlang")
}

func TestMessageContext(t *testing.T) {
	ts := newServer(t, Options{})
	resp, out := post(t, ts, "/generate/message-context", `{
		"profile": {"platform":"twitter","username":"anna","bio":"All about #ai"},
		"tone": "formal"
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mc model.MessageContext
	require.NoError(t, json.Unmarshal(out.Data, &mc))
	assert.Equal(t, []string{"ai"}, mc.CommonInterests)
	assert.Equal(t, "formal", mc.RequestedTone)

	resp, _ = post(t, ts, "/generate/message-context", `{"profile":{"platform":"twitter","username":"a"},"tone":"rude"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRankProfiles(t *testing.T) {
	ts := newServer(t, Options{})
	body := `{"profiles": [
		{"username":"low","bot_score":95},
		{"username":"high","bot_score":5,"interests":["ai"],
		 "metadata":{"followers":5000,"following":500,"posts_count":2000}}
	]}`

	resp, out := post(t, ts, "/rank/profiles?min_score=0&max_count=1", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res struct {
		Profiles []struct {
			Username string `json:"username"`
		} `json:"profiles"`
		Total    int `json:"total"`
		Returned int `json:"returned"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &res))
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Returned)
	assert.Equal(t, "high", res.Profiles[0].Username)

	resp, _ = post(t, ts, "/rank/profiles?max_count=abc", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = post(t, ts, "/rank/profiles?max_count=-1", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	ts := newServer(t, Options{RatePerSecond: 0.001, Burst: 1})
	resp, _ := post(t, ts, "/detect/bot", `{"platform":"twitter","username":"a"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, out := post(t, ts, "/detect/bot", `{"platform":"twitter","username":"a"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.False(t, out.Success)
}

func TestOptionsAndNotFound(t *testing.T) {
	ts := newServer(t, Options{})
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/analyze/profile", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)

	resp, out := post(t, ts, "/nope", `{}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, out.Success)
}

func TestRecovererReturnsEnvelope(t *testing.T) {
	h := recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
}
