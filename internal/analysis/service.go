// Package analysis composes the analyzers into the operations the API and
// CLI expose: full profile analysis, single-analyzer calls, message
// context, ranking and batch analysis.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bombardier/internal/analytics"
	"bombardier/internal/bot"
	"bombardier/internal/cache"
	"bombardier/internal/interest"
	"bombardier/internal/logging"
	"bombardier/internal/metrics"
	"bombardier/internal/model"
	"bombardier/internal/quality"
	"bombardier/internal/sentiment"
	"bombardier/internal/suggest"
)

// ErrInvalidInput marks requests rejected before any analyzer runs.
var ErrInvalidInput = errors.New("invalid input")

// Operation names used in metrics and logs.
const (
	OpProfile   = "profile"
	OpBot       = "bot"
	OpSentiment = "sentiment"
	OpInterests = "interests"
	OpContext   = "message_context"
	OpRank      = "rank"
)

// ProfileRequest is a snapshot plus the interests it is scored against.
// Empty TargetInterests fall back to the service defaults.
type ProfileRequest struct {
	model.ProfileSnapshot
	TargetInterests []string `json:"target_interests,omitempty"`
}

// Options configure a Service.
type Options struct {
	// Cache backs AnalyzeProfile; nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration
	// TargetInterests are the campaign interests used for relevance scoring.
	TargetInterests []string
	// Workers bounds AnalyzeBatch concurrency; < 1 means 1.
	Workers int
}

// Service is safe for concurrent use.
type Service struct {
	bot       *bot.Detector
	sentiment *sentiment.Analyzer
	interests *interest.Extractor
	scorer    *quality.Scorer

	loader  *cache.Loader
	targets []string
	workers int
}

func New(opts Options) *Service {
	s := &Service{
		bot:       bot.NewDetector(),
		sentiment: sentiment.NewAnalyzer(),
		interests: interest.NewExtractor(),
		scorer:    quality.NewScorer(),
		targets:   append([]string(nil), opts.TargetInterests...),
		workers:   max(opts.Workers, 1),
	}
	if opts.Cache != nil {
		s.loader = cache.NewLoader(opts.Cache, opts.CacheTTL)
	}
	return s
}

// AnalyzeProfile runs every analyzer on one profile and composes the verdict.
func (s *Service) AnalyzeProfile(ctx context.Context, req ProfileRequest) (res model.ProfileAnalysis, err error) {
	defer observe(OpProfile, time.Now(), &err)

	if err := validateSnapshot(req.ProfileSnapshot, true); err != nil {
		return res, err
	}
	if len(req.TargetInterests) == 0 {
		req.TargetInterests = s.targets
	}
	if s.loader == nil {
		return s.analyze(req), nil
	}

	key, err := cache.Key(OpProfile, req)
	if err != nil {
		return res, fmt.Errorf("cache key: %w", err)
	}
	b, err := s.loader.Fetch(ctx, key, func(context.Context) ([]byte, error) {
		return json.Marshal(s.analyze(req))
	})
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return res, fmt.Errorf("decode cached analysis: %w", err)
	}
	return res, nil
}

func (s *Service) analyze(req ProfileRequest) model.ProfileAnalysis {
	snap := req.ProfileSnapshot
	text := snap.CombinedText()

	br := s.bot.Analyze(snap)
	sent := s.sentiment.Analyze(text)
	interests := s.interests.Extract(text)
	topics := s.interests.ExtractTopics(text)

	q := s.scorer.Score(quality.Input{
		Username:        snap.Username,
		Platform:        snap.Platform,
		BotScore:        &br.Score,
		Metadata:        snap.MetadataOrZero(),
		Interests:       interests,
		TargetInterests: req.TargetInterests,
		Sentiment:       sent,
	})

	hours := analytics.PostingHours(snap.Posts)
	var peak *int
	if h, ok := analytics.PeakHour(hours); ok {
		peak = &h
	}

	return model.ProfileAnalysis{
		BotDetection:       br,
		Sentiment:          sent,
		Interests:          interests,
		Topics:             topics,
		QualityScore:       q,
		CommunicationStyle: analytics.CommunicationStyle(text),
		ActivityPattern:    analytics.ActivityPattern(len(snap.Posts)),
		PostingHours:       hours,
		PeakPostingHour:    peak,
	}
}

// DetectBot scores bot likelihood only. An empty username is allowed and
// scored as neutral evidence.
func (s *Service) DetectBot(ctx context.Context, snap model.ProfileSnapshot) (res model.BotResult, err error) {
	defer observe(OpBot, time.Now(), &err)
	if err := validateSnapshot(snap, false); err != nil {
		return res, err
	}
	return s.bot.Analyze(snap), nil
}

// AnalyzeSentiment scores text. hint is caller-supplied context; it is
// logged but does not change the score.
func (s *Service) AnalyzeSentiment(ctx context.Context, text, hint string) (res model.SentimentResult, err error) {
	defer observe(OpSentiment, time.Now(), &err)
	if hint != "" {
		logging.Debug("sentiment_context", logging.Fields{"context": hint})
	}
	return s.sentiment.Analyze(text), nil
}

// ExtractInterests extracts interests and topics from a bio and post texts.
func (s *Service) ExtractInterests(ctx context.Context, bio string, posts []string) (res model.InterestResult, err error) {
	defer observe(OpInterests, time.Now(), &err)

	parts := make([]string, 0, len(posts)+1)
	if bio != "" {
		parts = append(parts, bio)
	}
	for _, p := range posts {
		if p != "" {
			parts = append(parts, p)
		}
	}
	text := strings.Join(parts, " ")
	interests := s.interests.Extract(text)
	return model.InterestResult{
		Interests:   interests,
		Topics:      s.interests.ExtractTopics(text),
		Categorized: s.interests.CategorizeInterests(interests),
	}, nil
}

// MessageContext prepares personalization context for outreach to one profile.
func (s *Service) MessageContext(ctx context.Context, req suggest.Request) (res model.MessageContext, err error) {
	defer observe(OpContext, time.Now(), &err)
	if err := validateSnapshot(req.Profile, false); err != nil {
		return res, err
	}
	if !suggest.ValidTone(req.Tone) {
		return res, fmt.Errorf("%w: unknown tone %q", ErrInvalidInput, req.Tone)
	}
	if len(req.CampaignInterests) == 0 {
		req.CampaignInterests = s.targets
	}
	return suggest.BuildContext(s.interests, req), nil
}

// RankProfiles scores inputs and keeps up to maxCount at or above minScore,
// best first.
func (s *Service) RankProfiles(ctx context.Context, inputs []quality.Input, minScore float64, maxCount int) (res []quality.RankedProfile, err error) {
	defer observe(OpRank, time.Now(), &err)
	if maxCount < 0 {
		return nil, fmt.Errorf("%w: max_count must not be negative", ErrInvalidInput)
	}
	for i := range inputs {
		if err := validateMetadata(inputs[i].Metadata); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
		if b := inputs[i].BotScore; b != nil && (*b < 0 || *b > 100) {
			return nil, fmt.Errorf("profile %d: %w: bot_score %v outside [0, 100]", i, ErrInvalidInput, *b)
		}
		if len(inputs[i].TargetInterests) == 0 {
			inputs[i].TargetInterests = s.targets
		}
	}
	return s.scorer.FilterProfiles(inputs, minScore, maxCount), nil
}

// AnalyzeBatch analyzes profiles concurrently and returns results in input
// order. The first failure cancels the rest and no partial results are
// returned.
func (s *Service) AnalyzeBatch(ctx context.Context, reqs []ProfileRequest) ([]model.ProfileAnalysis, error) {
	out := make([]model.ProfileAnalysis, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.AnalyzeProfile(gctx, req)
			if err != nil {
				return fmt.Errorf("profile %d (%s): %w", i, req.Username, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ScoreInput turns a finished analysis back into ranking input.
func ScoreInput(req ProfileRequest, a model.ProfileAnalysis) quality.Input {
	score := a.BotDetection.Score
	return quality.Input{
		Username:        req.Username,
		Platform:        req.Platform,
		BotScore:        &score,
		Metadata:        req.MetadataOrZero(),
		Interests:       a.Interests,
		TargetInterests: req.TargetInterests,
		Sentiment:       a.Sentiment,
	}
}

func validateSnapshot(p model.ProfileSnapshot, requireUsername bool) error {
	if strings.TrimSpace(p.Platform) == "" {
		return fmt.Errorf("%w: platform is required", ErrInvalidInput)
	}
	if requireUsername && strings.TrimSpace(p.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	return validateMetadata(p.MetadataOrZero())
}

func validateMetadata(m model.Metadata) error {
	if m.Followers < 0 || m.Following < 0 || m.PostsCount < 0 {
		return fmt.Errorf("%w: metadata counts must not be negative", ErrInvalidInput)
	}
	return nil
}

func observe(op string, start time.Time, err *error) {
	metrics.ObserveAnalysis(op, start, *err)
	if *err != nil && !errors.Is(*err, ErrInvalidInput) {
		logging.Error("analysis_error", logging.Fields{"op": op, "error": (*err).Error()})
	}
}
