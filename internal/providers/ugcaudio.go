package providers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/trackresolve/core/internal/model"
	"github.com/trackresolve/core/internal/ratelimit"
)

// UGCAudioAdapter queries a user-generated-content audio site's track
// search API with a resty client, the lowest-trust source in the
// default priority order (source_modifier 0.8).
type UGCAudioAdapter struct {
	client  *resty.Client
	apiKey  string
	baseURL string
	host    string
	limiter *ratelimit.HostLimiter
}

// NewUGCAudioAdapter builds an adapter whose outgoing requests are
// throttled through limiter, the one shared per-host token bucket §5
// mandates for every external call.
func NewUGCAudioAdapter(apiKey string, limiter *ratelimit.HostLimiter) *UGCAudioAdapter {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond)
	const baseURL = "https://ugcaudio.example/api"
	host := baseURL
	if parsed, err := url.Parse(baseURL); err == nil {
		host = parsed.Host
	}
	return &UGCAudioAdapter{
		client:  client,
		apiKey:  apiKey,
		baseURL: baseURL,
		host:    host,
		limiter: limiter,
	}
}

func (a *UGCAudioAdapter) Name() string           { return "ugc_audio" }
func (a *UGCAudioAdapter) SourceModifier() float64 { return 0.8 }

type ugcAudioSearchResult struct {
	Tracks []struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		UploaderName string `json:"uploader_name"`
		DurationSec  int64  `json:"duration_sec"`
		URL          string `json:"permalink_url"`
		ArtistGuess  string `json:"artist_guess"`
	} `json:"tracks"`
}

func (a *UGCAudioAdapter) Search(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, a.host); err != nil {
			return nil, fmt.Errorf("ugcaudio: rate limit wait: %w", err)
		}
	}

	var result ugcAudioSearchResult
	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(a.apiKey).
		SetQueryParams(map[string]string{
			"q":     query,
			"limit": fmt.Sprintf("%d", limit),
		}).
		SetResult(&result).
		Get(a.baseURL + "/tracks/search")
	if err != nil {
		return nil, fmt.Errorf("ugcaudio: request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ugcaudio: search returned status %d", resp.StatusCode())
	}

	candidates := make([]model.Candidate, 0, len(result.Tracks))
	for _, tr := range result.Tracks {
		candidates = append(candidates, model.Candidate{
			CandidateID:    tr.ID,
			Source:         a.Name(),
			URL:            tr.URL,
			Title:          tr.Title,
			Uploader:       tr.UploaderName,
			DurationSec:    tr.DurationSec,
			ArtistDetected: tr.ArtistGuess,
			SourceModifier: a.SourceModifier(),
		})
	}
	return candidates, nil
}
