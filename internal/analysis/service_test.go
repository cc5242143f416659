package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bombardier/internal/bot"
	"bombardier/internal/cache"
	"bombardier/internal/model"
	"bombardier/internal/quality"
	"bombardier/internal/sentiment"
	"bombardier/internal/suggest"
)

func anna() ProfileRequest {
	return ProfileRequest{ProfileSnapshot: model.ProfileSnapshot{
		Platform: "twitter",
		Username: "anna_builds",
		Bio:      "Founder building developer tools. Love open source and #ai",
		Metadata: &model.Metadata{Followers: 4200, Following: 600, PostsCount: 1800},
		Posts: []model.Post{
			{Content: "Shipped a new release of our startup's CLI today!", Timestamp: "2025-03-01T09:10:00Z"},
			{Content: "Great discussion about machine learning at the meetup", Timestamp: "2025-03-02T14:30:00Z"},
		},
	}}
}

func TestAnalyzeProfileComposesAnalyzers(t *testing.T) {
	svc := New(Options{TargetInterests: []string{"ai", "startup"}})
	req := anna()

	res, err := svc.AnalyzeProfile(context.Background(), req)
	require.NoError(t, err)

	text := req.CombinedText()
	assert.Equal(t, bot.NewDetector().Analyze(req.ProfileSnapshot), res.BotDetection)
	assert.Equal(t, sentiment.NewAnalyzer().Analyze(text), res.Sentiment)
	assert.Contains(t, res.Interests, "ai")
	assert.Len(t, res.PostingHours, 24)
	assert.Equal(t, 1, res.PostingHours[9])
	require.NotNil(t, res.PeakPostingHour)
	assert.Equal(t, 9, *res.PeakPostingHour)
	assert.Equal(t, "occasional", res.ActivityPattern)

	want := quality.NewScorer().Score(ScoreInput(ProfileRequest{
		ProfileSnapshot: req.ProfileSnapshot,
		TargetInterests: []string{"ai", "startup"},
	}, res))
	assert.Equal(t, want, res.QualityScore)
}

func TestAnalyzeProfileRequestTargetsOverrideDefaults(t *testing.T) {
	svc := New(Options{TargetInterests: []string{"gardening"}})
	req := anna()

	base, err := svc.AnalyzeProfile(context.Background(), req)
	require.NoError(t, err)
	req.TargetInterests = []string{"ai"}
	tuned, err := svc.AnalyzeProfile(context.Background(), req)
	require.NoError(t, err)

	assert.Greater(t,
		tuned.QualityScore.Components[quality.ComponentRelevance],
		base.QualityScore.Components[quality.ComponentRelevance])
}

func TestAnalyzeProfileValidation(t *testing.T) {
	svc := New(Options{})
	ctx := context.Background()

	_, err := svc.AnalyzeProfile(ctx, ProfileRequest{ProfileSnapshot: model.ProfileSnapshot{Username: "x"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AnalyzeProfile(ctx, ProfileRequest{ProfileSnapshot: model.ProfileSnapshot{Platform: "twitter"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AnalyzeProfile(ctx, ProfileRequest{ProfileSnapshot: model.ProfileSnapshot{
		Platform: "twitter", Username: "x", Metadata: &model.Metadata{Followers: -1},
	}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnalyzeProfileUsesCache(t *testing.T) {
	mem := cache.NewMemory(10)
	svc := New(Options{Cache: mem, CacheTTL: time.Minute})
	req := anna()

	first, err := svc.AnalyzeProfile(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, mem.Len())

	second, err := svc.AnalyzeProfile(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, mem.Len())

	req.Bio = "different bio"
	_, err = svc.AnalyzeProfile(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, mem.Len())
}

func TestDetectBot(t *testing.T) {
	svc := New(Options{})
	snap := model.ProfileSnapshot{
		Platform: "twitter",
		Username: "crypto_bot_12345678",
		Bio:      "Follow back! DM for promo. Click link",
		Metadata: &model.Metadata{Followers: 12, Following: 4800},
	}
	res, err := svc.DetectBot(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, bot.NewDetector().Analyze(snap), res)
	assert.Contains(t, res.Flags, "suspicious_follower_ratio")
	assert.Contains(t, res.Flags, "suspicious_username_pattern:trailing_digits")

	_, err = svc.DetectBot(context.Background(), model.ProfileSnapshot{Username: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	res, err = svc.DetectBot(context.Background(), model.ProfileSnapshot{Platform: "twitter"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.ComponentScores[bot.ComponentUsername])
}

func TestAnalyzeSentiment(t *testing.T) {
	svc := New(Options{})
	res, err := svc.AnalyzeSentiment(context.Background(), "I love this, it is amazing!", "reply")
	require.NoError(t, err)
	assert.Equal(t, sentiment.LabelPositive, res.Label)

	res, err = svc.AnalyzeSentiment(context.Background(), "   ", "")
	require.NoError(t, err)
	assert.Equal(t, sentiment.LabelNeutral, res.Label)
	assert.Zero(t, res.Confidence)
}

func TestExtractInterests(t *testing.T) {
	svc := New(Options{})
	res, err := svc.ExtractInterests(context.Background(), "Python developer", []string{"", "shipping #kubernetes"})
	require.NoError(t, err)
	assert.Contains(t, res.Interests, "python")
	assert.Contains(t, res.Interests, "kubernetes")
	assert.NotNil(t, res.Categorized)
	for cat, items := range res.Categorized {
		assert.NotEmpty(t, cat)
		assert.NotEmpty(t, items)
	}

	empty, err := svc.ExtractInterests(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Interests)
	assert.NotNil(t, empty.Interests)
}

func TestMessageContext(t *testing.T) {
	svc := New(Options{TargetInterests: []string{"ai"}})
	req := suggest.Request{Profile: anna().ProfileSnapshot}

	mc, err := svc.MessageContext(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai"}, mc.CommonInterests)
	assert.Equal(t, "balanced", mc.RequestedTone)

	req.Tone = "sarcastic"
	_, err = svc.MessageContext(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRankProfiles(t *testing.T) {
	svc := New(Options{TargetInterests: []string{"ai"}})
	low, high := 90.0, 5.0
	inputs := []quality.Input{
		{Username: "spammy", BotScore: &low},
		{Username: "solid", BotScore: &high, Interests: []string{"ai"},
			Metadata: model.Metadata{Followers: 5000, Following: 500, PostsCount: 2000}},
	}

	ranked, err := svc.RankProfiles(context.Background(), inputs, 0, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "solid", ranked[0].Username)
	assert.Equal(t, []string{"ai"}, ranked[0].TargetInterests)

	_, err = svc.RankProfiles(context.Background(), inputs, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRankProfilesRejectsBotScoreOutOfRange(t *testing.T) {
	svc := New(Options{})
	for _, b := range []float64{-40, 100.5} {
		score := b
		_, err := svc.RankProfiles(context.Background(), []quality.Input{{Username: "x", BotScore: &score}}, 0, 10)
		assert.ErrorIs(t, err, ErrInvalidInput, "bot_score %v", b)
	}

	edge := 0.0
	ranked, err := svc.RankProfiles(context.Background(), []quality.Input{{Username: "x", BotScore: &edge}}, 0, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, 100.0, ranked[0].QualityScore.Components[quality.ComponentAuthenticity])
}

func TestAnalyzeBatchPreservesOrder(t *testing.T) {
	svc := New(Options{Workers: 3})
	var reqs []ProfileRequest
	for _, name := range []string{"alpha", "news_bot", "carol", "dave_1234567", "eve"} {
		reqs = append(reqs, ProfileRequest{ProfileSnapshot: model.ProfileSnapshot{Platform: "twitter", Username: name}})
	}

	out, err := svc.AnalyzeBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, out, len(reqs))
	assert.Nil(t, out[0].PeakPostingHour)
	for i, req := range reqs {
		single, err := svc.AnalyzeProfile(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, single, out[i], req.Username)
	}
}

func TestAnalyzeBatchFailsAsAWhole(t *testing.T) {
	svc := New(Options{Workers: 2})
	reqs := []ProfileRequest{
		{ProfileSnapshot: model.ProfileSnapshot{Platform: "twitter", Username: "ok"}},
		{ProfileSnapshot: model.ProfileSnapshot{Platform: "twitter"}},
	}
	out, err := svc.AnalyzeBatch(context.Background(), reqs)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
