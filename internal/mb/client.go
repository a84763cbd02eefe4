package mb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/trackresolve/core/internal/model"
)

// SearchParams is the Stage 1 recording-search query, built from a
// normalized intent.
type SearchParams struct {
	Track   string
	Artist  string
	Album   string
	ISRC    string
	Limit   int
}

// searchCacheEntry mirrors the teacher's map+mutex TTL cache, kept as-is
// for the search-result cache (a handful of entries, short TTL, no need
// for LRU eviction). The release-by-id cache below uses an LRU instead
// since it can grow much larger over a long resolver run.
type searchCacheEntry struct {
	recordings []model.Recording
	expiresAt  time.Time
}

// Client wraps the MusicBrainz /ws/2 HTTP API with the rate limit,
// search-result cache, and release-by-id cache the binding engine and
// release enrichment depend on.
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	baseURL      string
	userAgent    string
	log          *slog.Logger

	searchMu    sync.RWMutex
	searchCache map[string]searchCacheEntry
	searchTTL   time.Duration

	releaseCache *lru.LRU[string, model.Release]
}

// NewClient builds a Client with MusicBrainz's documented 1 req/s limit,
// a 1-hour search cache, and a 500-entry 30-minute release-by-id cache.
func NewClient(log *slog.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		limiter:      rate.NewLimiter(rate.Every(time.Second), 1),
		baseURL:      "https://musicbrainz.org/ws/2",
		userAgent:    "trackresolve/0.1.0 ( https://github.com/trackresolve/core )",
		log:          log,
		searchCache:  make(map[string]searchCacheEntry),
		searchTTL:    1 * time.Hour,
		releaseCache: lru.NewLRU[string, model.Release](500, nil, 30*time.Minute),
	}
}

func searchCacheKey(p SearchParams) string {
	return fmt.Sprintf("track=%s&artist=%s&album=%s&isrc=%s",
		url.QueryEscape(p.Track), url.QueryEscape(p.Artist), url.QueryEscape(p.Album), url.QueryEscape(p.ISRC))
}

func buildSearchQuery(p SearchParams) string {
	var parts []string
	if p.ISRC != "" {
		parts = append(parts, fmt.Sprintf(`isrc:"%s"`, p.ISRC))
	}
	if p.Track != "" {
		parts = append(parts, fmt.Sprintf(`recording:"%s"`, p.Track))
	}
	if p.Artist != "" {
		parts = append(parts, fmt.Sprintf(`artist:"%s"`, p.Artist))
	}
	if p.Album != "" {
		parts = append(parts, fmt.Sprintf(`release:"%s"`, p.Album))
	}
	return strings.Join(parts, " AND ")
}

// SearchRecordings performs Stage 1's recording search, returning up to
// Limit (default 10) recordings ordered by the catalog's own ext_score.
func (c *Client) SearchRecordings(ctx context.Context, p SearchParams) ([]model.Recording, error) {
	if p.Track == "" && p.Artist == "" && p.Album == "" && p.ISRC == "" {
		return nil, fmt.Errorf("mb: search requires at least one of track/artist/album/isrc")
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}

	key := searchCacheKey(p)
	c.searchMu.RLock()
	if entry, ok := c.searchCache[key]; ok && time.Now().Before(entry.expiresAt) {
		c.searchMu.RUnlock()
		return entry.recordings, nil
	}
	c.searchMu.RUnlock()

	endpoint := fmt.Sprintf("%s/recording?query=%s&limit=%d&fmt=json&inc=artists+releases+isrcs+aliases",
		c.baseURL, url.QueryEscape(buildSearchQuery(p)), p.Limit)

	var wire wireSearchResponse
	if err := c.get(ctx, endpoint, &wire); err != nil {
		return nil, err
	}

	recordings := make([]model.Recording, len(wire.Recordings))
	for i, r := range wire.Recordings {
		recordings[i] = recordingFromWire(r)
	}

	c.searchMu.Lock()
	c.searchCache[key] = searchCacheEntry{recordings: recordings, expiresAt: time.Now().Add(c.searchTTL)}
	c.searchMu.Unlock()

	return recordings, nil
}

// GetRelease fetches a single release by id, read-through the LRU cache.
func (c *Client) GetRelease(ctx context.Context, releaseID string) (model.Release, error) {
	if r, ok := c.releaseCache.Get(releaseID); ok {
		return r, nil
	}

	endpoint := fmt.Sprintf("%s/release/%s?fmt=json&inc=recordings+media+release-groups+labels", c.baseURL, url.PathEscape(releaseID))
	var wire wireRelease
	if err := c.get(ctx, endpoint, &wire); err != nil {
		return model.Release{}, err
	}

	release := releaseFromWire(wire)
	c.releaseCache.Add(releaseID, release)
	return release, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("mb: rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("mb: building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mb: request to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mb: %s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mb: decoding response from %s: %w", endpoint, err)
	}
	return nil
}

func recordingFromWire(r wireRecording) model.Recording {
	credits := make([]model.ArtistCredit, len(r.ArtistCredit))
	for i, ac := range r.ArtistCredit {
		credits[i] = model.ArtistCredit{
			ArtistID:   ac.Artist.ID,
			Name:       ac.Name,
			SortName:   ac.Artist.SortName,
			JoinPhrase: ac.JoinPhrase,
		}
	}
	refs := make([]string, 0, len(r.Releases))
	for _, rel := range r.Releases {
		refs = append(refs, rel.ID)
	}
	aliases := make([]string, 0, len(r.Aliases))
	for _, a := range r.Aliases {
		aliases = append(aliases, a.Name)
	}
	return model.Recording{
		RecordingID:    r.ID,
		Title:          r.Title,
		ArtistCredit:   credits,
		LengthMs:       int64(r.Length),
		ISRCs:          r.ISRCs,
		ExtScore:       r.Score,
		ReleaseRefs:    refs,
		Disambiguation: r.Disambiguation,
		Aliases:        aliases,
	}
}

func releaseFromWire(r wireRelease) model.Release {
	media := make([]model.Medium, len(r.Media))
	for i, m := range r.Media {
		tracks := make([]model.Track, len(m.Tracks))
		for j, t := range m.Tracks {
			tracks[j] = model.Track{
				Position:    t.Position,
				RecordingID: t.Recording.ID,
				LengthMs:    int64(t.Length),
				Title:       t.Title,
			}
		}
		media[i] = model.Medium{Position: m.Position, Tracks: tracks}
	}

	var label string
	if len(r.LabelInfo) > 0 {
		label = r.LabelInfo[0].Label.Name
	}

	return model.Release{
		ReleaseID: r.ID,
		Title:     r.Title,
		Status:    r.Status,
		Country:   r.Country,
		Date:      r.Date,
		ReleaseGroup: model.ReleaseGroup{
			ID:             r.ReleaseGroup.ID,
			PrimaryType:    r.ReleaseGroup.PrimaryType,
			SecondaryTypes: r.ReleaseGroup.SecondaryTypes,
		},
		MediumList: media,
		Barcode:    r.Barcode,
		LabelInfo:  label,
	}
}
