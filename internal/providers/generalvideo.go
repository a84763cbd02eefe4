package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/trackresolve/core/internal/model"
	"github.com/trackresolve/core/internal/ratelimit"
)

// GeneralVideoAdapter queries a general video site's search endpoint.
// spotify.go's manual "try once, refresh on 401, try again" loop is
// generalized here into hashicorp/go-retryablehttp's bounded,
// exponential-backoff retry policy, matching §5's "three attempts,
// exponential backoff, transient 5xx/429 whitelist" contract.
type GeneralVideoAdapter struct {
	client  *retryablehttp.Client
	baseURL string
	host    string
	apiKey  string
	limiter *ratelimit.HostLimiter
}

// NewGeneralVideoAdapter builds an adapter with a 3-attempt retry budget
// and a 10s per-call timeout, per §5. Every outgoing request is
// throttled through limiter, the one shared per-host token bucket §5
// mandates for every external call.
func NewGeneralVideoAdapter(apiKey string, log *slog.Logger, limiter *ratelimit.HostLimiter) *GeneralVideoAdapter {
	client := retryablehttp.NewClient()
	client.RetryMax = 2 // retries after the first attempt: 3 attempts in all
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil
	if log != nil {
		client.Logger = slogAdapter{log}
	}
	const baseURL = "https://videosite.example/api/v1"
	host := baseURL
	if parsed, err := url.Parse(baseURL); err == nil {
		host = parsed.Host
	}
	return &GeneralVideoAdapter{
		client:  client,
		baseURL: baseURL,
		host:    host,
		apiKey:  apiKey,
		limiter: limiter,
	}
}

func (a *GeneralVideoAdapter) Name() string           { return "general_video" }
func (a *GeneralVideoAdapter) SourceModifier() float64 { return 0.9 }

type generalVideoSearchResponse struct {
	Items []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		ChannelName string `json:"channel_name"`
		DurationSec int64  `json:"duration_sec"`
		URL         string `json:"url"`
		Official    bool   `json:"official"`
	} `json:"items"`
}

func (a *GeneralVideoAdapter) Search(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&limit=%d&key=%s", a.baseURL, url.QueryEscape(query), limit, url.QueryEscape(a.apiKey))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("generalvideo: building request: %w", err)
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, a.host); err != nil {
			return nil, fmt.Errorf("generalvideo: rate limit wait: %w", err)
		}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generalvideo: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generalvideo: search returned status %d", resp.StatusCode)
	}

	var parsed generalVideoSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("generalvideo: decoding response: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		candidates = append(candidates, model.Candidate{
			CandidateID:    item.ID,
			Source:         a.Name(),
			URL:            item.URL,
			Title:          item.Title,
			Uploader:       item.ChannelName,
			DurationSec:    item.DurationSec,
			Official:       item.Official,
			SourceModifier: a.SourceModifier(),
		})
	}
	return candidates, nil
}

// slogAdapter bridges retryablehttp's key/value-style LeveledLogger
// interface to log/slog, the way the teacher's services route all
// output through a single *log.Logger.
type slogAdapter struct{ log *slog.Logger }

func (l slogAdapter) Error(msg string, kv ...interface{}) { l.log.Error(msg, kv...) }
func (l slogAdapter) Info(msg string, kv ...interface{})  { l.log.Info(msg, kv...) }
func (l slogAdapter) Debug(msg string, kv ...interface{}) { l.log.Debug(msg, kv...) }
func (l slogAdapter) Warn(msg string, kv ...interface{})  { l.log.Warn(msg, kv...) }
