package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bombardier/internal/model"
	"bombardier/internal/recommend"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.ExecuteContext(context.Background()))
	return out.String()
}

func TestInitWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "bombardier.yaml")
	out := run(t, "init", "--path", path)
	assert.Contains(t, out, "Config written to:")
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSentimentCommand(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "missing.yaml")
	out := run(t, "--config", cfg, "sentiment", "--text", "I love this, it is amazing")
	var res model.SentimentResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "positive", res.Label)
}

func TestAnalyzeFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "anna.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"platform":"twitter","username":"anna","bio":"Building #ai tools"}`), 0o644))

	out := run(t, "--config", filepath.Join(dir, "none.yaml"), "analyze", "--file", file, "--no-store")
	var res model.ProfileAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Contains(t, res.Interests, "ai")
}

func TestCampaignPlansAndRecords(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BOMBARDIER_DB", filepath.Join(dir, "campaign.db"))
	cfg := filepath.Join(dir, "bombardier.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("campaign:\n  minScore: 0\n  maxCount: 10\n  action: dm\nengagement:\n  maxPerHour: 0\n  maxPerDay: 0\n  quietHours: []\n"), 0o644))

	file := filepath.Join(dir, "profiles.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"platform":"twitter","username":"anna","bio":"Founder building #ai tools",
		 "metadata":{"followers":3000,"following":400,"posts_count":900}},
		{"platform":"twitter","username":"bob","bio":"coffee"}
	]`), 0o644))

	out := run(t, "--config", cfg, "campaign", "--file", file)
	var plan recommend.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	require.Len(t, plan.Targets, 2)
	assert.Equal(t, "anna", plan.Targets[0].Profile.Username)

	hist := run(t, "--config", cfg, "history")
	assert.Contains(t, hist, "twitter/@anna")
	assert.Contains(t, hist, "twitter/@bob")

	// a second run is blocked by the contact cooldown
	out = run(t, "--config", cfg, "campaign", "--file", file)
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Empty(t, plan.Targets)
	assert.Len(t, plan.Skipped, 2)
}
