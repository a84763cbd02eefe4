package providers

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/trackresolve/core/internal/model"
	"github.com/trackresolve/core/internal/ratelimit"
	"github.com/trackresolve/core/util/jwtgen"
)

// TopicChannelAdapter queries a topic-channel-rich catalog (official
// artist "Topic" channels, high source_modifier) authenticated with a
// short-lived ES256 developer token, the way applemusic.go authenticates
// against Apple's catalog API. Key loading is grounded on
// util/jwtgen.go's GetPrivateKey helper, repurposed from ATProto DPoP
// key generation to provider developer-token signing.
type TopicChannelAdapter struct {
	teamID     string
	keyID      string
	privateKey *ecdsa.PrivateKey
	httpClient *http.Client
	baseURL    string
	host       string
	limiter    *ratelimit.HostLimiter

	mu           sync.RWMutex
	cachedToken  string
	cachedExpiry time.Time
}

// NewTopicChannelAdapter loads an ES256 private key from PEM bytes and
// returns an adapter ready to sign developer tokens on demand. Every
// outgoing request is throttled through limiter, the one shared
// per-host token bucket §5 mandates for every external call.
func NewTopicChannelAdapter(teamID, keyID string, pemKey []byte, limiter *ratelimit.HostLimiter) (*TopicChannelAdapter, error) {
	key, err := jwk.ParseKey(pemKey, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("topicchannel: parsing private key: %w", err)
	}
	raw, err := jwtgen.GetPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("topicchannel: key is not ECDSA: %w", err)
	}
	const baseURL = "https://api.music.example/v1"
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("topicchannel: parsing base URL: %w", err)
	}
	return &TopicChannelAdapter{
		teamID:     teamID,
		keyID:      keyID,
		privateKey: raw,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		host:       parsed.Host,
		limiter:    limiter,
	}, nil
}

func (a *TopicChannelAdapter) Name() string           { return "topic_channel" }
func (a *TopicChannelAdapter) SourceModifier() float64 { return 1.0 }

func (a *TopicChannelAdapter) developerToken() (string, error) {
	a.mu.RLock()
	if a.cachedToken != "" && time.Now().Before(a.cachedExpiry) {
		tok := a.cachedToken
		a.mu.RUnlock()
		return tok, nil
	}
	a.mu.RUnlock()

	now := time.Now()
	expiry := now.Add(12 * time.Hour)
	claims := jwt.MapClaims{
		"iss": a.teamID,
		"iat": now.Unix(),
		"exp": expiry.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = a.keyID

	signed, err := token.SignedString(a.privateKey)
	if err != nil {
		return "", fmt.Errorf("topicchannel: signing developer token: %w", err)
	}

	a.mu.Lock()
	a.cachedToken = signed
	a.cachedExpiry = expiry
	a.mu.Unlock()

	return signed, nil
}

type topicChannelSearchResponse struct {
	Results struct {
		Songs struct {
			Data []struct {
				ID         string `json:"id"`
				Attributes struct {
					Name       string `json:"name"`
					ArtistName string `json:"artistName"`
					AlbumName  string `json:"albumName"`
					DurationMs int64  `json:"durationInMillis"`
					ISRC       string `json:"isrc"`
					URL        string `json:"url"`
				} `json:"attributes"`
			} `json:"data"`
		} `json:"songs"`
	} `json:"results"`
}

// Search queries the catalog's song search endpoint and maps results to
// Candidates. Every result is marked Official since this source only
// indexes label-distributed catalog entries, never UGC uploads.
func (a *TopicChannelAdapter) Search(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	token, err := a.developerToken()
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/catalog/us/search?term=%s&types=songs&limit=%d", a.baseURL, url.QueryEscape(query), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("topicchannel: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, a.host); err != nil {
			return nil, fmt.Errorf("topicchannel: rate limit wait: %w", err)
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("topicchannel: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("topicchannel: search returned status %d", resp.StatusCode)
	}

	var parsed topicChannelSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("topicchannel: decoding response: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(parsed.Results.Songs.Data))
	for _, song := range parsed.Results.Songs.Data {
		candidates = append(candidates, model.Candidate{
			CandidateID:    song.ID,
			Source:         a.Name(),
			URL:            song.Attributes.URL,
			Title:          song.Attributes.Name,
			Uploader:       strings.TrimSpace(song.Attributes.ArtistName) + " - Topic",
			DurationSec:    song.Attributes.DurationMs / 1000,
			ArtistDetected: song.Attributes.ArtistName,
			TrackDetected:  song.Attributes.Name,
			AlbumDetected:  song.Attributes.AlbumName,
			Official:       true,
			ISRC:           song.Attributes.ISRC,
			SourceModifier: a.SourceModifier(),
		})
	}
	return candidates, nil
}
