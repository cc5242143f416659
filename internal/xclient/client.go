// Package xclient is a small rate-limited, retrying X API v2 client that
// fetches what the analyzers need about one account.
package xclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"bombardier/internal/logging"
	"bombardier/internal/metrics"
	"bombardier/internal/model"
)

// ErrNotFound is returned when the API reports no such user.
var ErrNotFound = errors.New("x user not found")

// Client defines the X API calls we use.
type Client interface {
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserTweets(ctx context.Context, userID string, limit int) ([]model.Tweet, error)
}

// HTTPClient is a simple bearer-token client for X API v2.
type HTTPClient struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseBackoff time.Duration
}

func NewHTTPClient(bearerToken string) *HTTPClient {
	return &HTTPClient{
		baseURL:     "https://api.twitter.com/2",
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     newDefaultLimiter(),
		maxAttempts: getEnvInt("X_API_MAX_ATTEMPTS", 5),
		baseBackoff: time.Duration(getEnvInt("X_API_BASE_BACKOFF_MS", 500)) * time.Millisecond,
	}
}

const userFields = "public_metrics,created_at,verified,description,url"

type apiUser struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	CreatedAt     time.Time `json:"created_at"`
	Verified      bool      `json:"verified"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
	PublicMetrics struct {
		FollowersCount int `json:"followers_count"`
		FollowingCount int `json:"following_count"`
		TweetCount     int `json:"tweet_count"`
		ListedCount    int `json:"listed_count"`
	} `json:"public_metrics"`
}

type apiTweet struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Lang      string    `json:"lang"`
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (c *HTTPClient) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var out model.User
	if username == "" {
		return out, errors.New("empty username")
	}
	u := fmt.Sprintf("%s/users/by/username/%s?user.fields=%s", c.baseURL, url.PathEscape(username), userFields)
	var raw struct {
		Data   apiUser    `json:"data"`
		Errors []apiError `json:"errors"`
	}
	if err := c.getJSON(ctx, "users/by/username", u, &raw); err != nil {
		return out, err
	}
	if raw.Data.ID == "" {
		if len(raw.Errors) > 0 {
			return out, fmt.Errorf("%w: %s: %s", ErrNotFound, username, raw.Errors[0].Detail)
		}
		return out, fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	d := raw.Data
	return model.User{
		ID:             d.ID,
		Username:       d.Username,
		Name:           d.Name,
		Description:    d.Description,
		CreatedAt:      d.CreatedAt,
		FollowersCount: d.PublicMetrics.FollowersCount,
		FollowingCount: d.PublicMetrics.FollowingCount,
		TweetCount:     d.PublicMetrics.TweetCount,
		ListedCount:    d.PublicMetrics.ListedCount,
		Verified:       d.Verified,
		URL:            d.URL,
	}, nil
}

// GetUserTweets returns recent original tweets for a user.
func (c *HTTPClient) GetUserTweets(ctx context.Context, userID string, limit int) ([]model.Tweet, error) {
	u := fmt.Sprintf("%s/users/%s/tweets?max_results=%d&tweet.fields=created_at,lang&exclude=retweets,replies",
		c.baseURL, url.PathEscape(userID), clamp(limit, 5, 100))
	var raw struct {
		Data []apiTweet `json:"data"`
	}
	if err := c.getJSON(ctx, "users/tweets", u, &raw); err != nil {
		return nil, err
	}
	out := make([]model.Tweet, 0, len(raw.Data))
	for _, d := range raw.Data {
		out = append(out, model.Tweet{
			ID:        d.ID,
			AuthorID:  userID,
			Text:      d.Text,
			CreatedAt: d.CreatedAt,
			Language:  d.Lang,
		})
	}
	return out, nil
}

// FetchSnapshot looks up username and up to limit recent tweets and
// assembles them into a profile snapshot.
func FetchSnapshot(ctx context.Context, c Client, username string, limit int) (model.ProfileSnapshot, error) {
	u, err := c.GetUserByUsername(ctx, username)
	if err != nil {
		return model.ProfileSnapshot{}, fmt.Errorf("lookup %s: %w", username, err)
	}
	var tweets []model.Tweet
	if limit > 0 {
		tweets, err = c.GetUserTweets(ctx, u.ID, limit)
		if err != nil {
			return model.ProfileSnapshot{}, fmt.Errorf("tweets for %s: %w", username, err)
		}
		if len(tweets) > limit {
			tweets = tweets[:limit]
		}
	}
	return model.SnapshotFromX(u, tweets), nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.doWithRetry(ctx, endpoint, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("x api %s: status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("x api %s: decode: %w", endpoint, err)
	}
	return nil
}

func clamp(v, lo, hi int) int { return min(max(v, lo), hi) }

// doWithRetry retries transport errors, 429 and 5xx with exponential
// backoff, honoring Retry-After and adding +/-20% jitter. Every attempt
// takes a limiter token.
func (c *HTTPClient) doWithRetry(ctx context.Context, endpoint string, req *http.Request) (*http.Response, error) {
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			metrics.IncAPIRetry(endpoint)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req.Clone(ctx))
		wait := backoff
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			if d, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
				wait = d
			}
			_ = resp.Body.Close()
		default:
			return resp, nil
		}
		if attempt == c.maxAttempts {
			break
		}
		wait = jitter(wait)
		logging.Warn("x_api_retry", logging.Fields{
			"endpoint": endpoint, "attempt": attempt, "wait_ms": wait.Milliseconds(), "error": lastErr.Error(),
		})
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("x api %s: request failed after %d attempts: %w", endpoint, c.maxAttempts, lastErr)
}

func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

func jitter(wait time.Duration) time.Duration {
	j := time.Duration(float64(wait) * 0.2)
	if j <= 0 {
		return wait
	}
	return wait - j + time.Duration(time.Now().UnixNano()%int64(2*j))
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil && i > 0 {
		return i
	}
	return def
}
