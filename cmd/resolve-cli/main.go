// Command resolve-cli resolves a single track intent end to end and
// prints the pipeline outcome (status, decision edge, path) as JSON,
// grounded on the teacher's
// cmd/musicbrainz-cli flag-and-encode pattern.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/trackresolve/core/internal/config"
	"github.com/trackresolve/core/internal/external"
	"github.com/trackresolve/core/internal/ledger"
	"github.com/trackresolve/core/internal/mb"
	"github.com/trackresolve/core/internal/model"
	"github.com/trackresolve/core/internal/pipeline"
	"github.com/trackresolve/core/internal/providers"
	"github.com/trackresolve/core/internal/ratelimit"
)

func main() {
	var (
		artist     = flag.String("artist", "", "Artist name")
		track      = flag.String("track", "", "Track title")
		album      = flag.String("album", "", "Album title (optional)")
		durationMs = flag.Int64("duration-ms", 0, "Duration hint in milliseconds (optional)")
		playlistID = flag.String("playlist-id", "adhoc", "Playlist id for ledger idempotency")
		ext        = flag.String("ext", "mp3", "Output file extension")

		topicTeamID  = flag.String("topic-team-id", "", "Topic-channel catalog developer team id (optional)")
		topicKeyID   = flag.String("topic-key-id", "", "Topic-channel catalog developer key id (optional)")
		topicKeyPath = flag.String("topic-key-path", "", "Path to the topic-channel catalog ES256 PEM private key (optional)")
		videoAPIKey  = flag.String("video-api-key", "", "General video site API key (optional)")
		ugcAPIKey    = flag.String("ugc-api-key", "", "UGC audio site API key (optional)")
	)
	flag.Parse()

	if *artist == "" || *track == "" {
		log.Fatal("resolve-cli: -artist and -track are required")
	}

	log_ := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("resolve-cli: loading config: %v", err)
	}

	led, err := ledger.Open(cfg.LedgerPath, log_)
	if err != nil {
		log.Fatalf("resolve-cli: opening ledger: %v", err)
	}
	defer led.Close()

	intent := model.Intent{
		Artist:            *artist,
		Track:             *track,
		Album:             *album,
		DurationHintMs:    *durationMs,
		MediaIntent:       model.MediaIntentTrack,
		CountryPreference: cfg.CountryPreference,
		AllowVariants:     map[model.VariantTag]bool{},
		Thresholds:        cfg.Thresholds(*album != ""),
		SourcePriority:    cfg.SourcePriority,
	}

	limiter := ratelimit.New(2, 4)
	adapters := buildAdapters(log_, limiter, *topicTeamID, *topicKeyID, *topicKeyPath, *videoAPIKey, *ugcAPIKey)

	deps := pipeline.Dependencies{
		MB:            mb.NewClient(log_),
		Adapters:      adapters,
		Downloader:    noopDownloader{},
		Tagger:        noopTagger{},
		DurationProbe: noopProbe{},
		Ledger:        led,
		Ext:           *ext,
		Log:           log_,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out := pipeline.Process(ctx, deps, *playlistID, intent)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "\t")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("resolve-cli: encoding result: %v", err)
	}
	if out.Err != nil {
		os.Exit(1)
	}
}

// buildAdapters wires up whichever provider adapters have credentials
// supplied on the command line, each sharing the same HostLimiter so
// every external host is throttled through the one §5-mandated token
// bucket regardless of which adapter is calling it.
func buildAdapters(log_ *slog.Logger, limiter *ratelimit.HostLimiter, topicTeamID, topicKeyID, topicKeyPath, videoAPIKey, ugcAPIKey string) []providers.Adapter {
	var adapters []providers.Adapter

	if topicTeamID != "" && topicKeyID != "" && topicKeyPath != "" {
		pemKey, err := os.ReadFile(topicKeyPath)
		if err != nil {
			log_.Warn("skipping topic_channel adapter: reading key", "error", err)
		} else {
			adapter, err := providers.NewTopicChannelAdapter(topicTeamID, topicKeyID, pemKey, limiter)
			if err != nil {
				log_.Warn("skipping topic_channel adapter: building client", "error", err)
			} else {
				adapters = append(adapters, adapter)
			}
		}
	}

	if videoAPIKey != "" {
		adapters = append(adapters, providers.NewGeneralVideoAdapter(videoAPIKey, log_, limiter))
	}

	if ugcAPIKey != "" {
		adapters = append(adapters, providers.NewUGCAudioAdapter(ugcAPIKey, limiter))
	}

	return adapters
}

// noopDownloader/noopTagger/noopProbe let resolve-cli exercise the
// binding and resolver stages without a real media pipeline wired in;
// a production deployment supplies real implementations of
// internal/external's interfaces.
type noopDownloader struct{}

func (noopDownloader) Download(ctx context.Context, mediaURL string) (string, error) {
	return mediaURL, nil
}

type noopTagger struct{}

func (noopTagger) Tag(ctx context.Context, path string, meta external.TagMetadata) error {
	return nil
}

type noopProbe struct{}

func (noopProbe) ProbeDurationMs(ctx context.Context, path string) (int64, error) {
	return 0, nil
}
