// Package providers implements §6's provider adapter contract against
// three concrete media sources, generalizing the teacher's
// service/applemusic, service/spotify, and service/lastfm clients: a
// topic-channel-rich provider (JWT-signed developer token, modeled on
// applemusic.go), a general video site (go-retryablehttp client,
// modeled on spotify.go's retry loop), and a UGC audio site (resty client, modeled
// on lastfm.go, a different repo in the retrieved pack).
package providers

import (
	"context"

	"github.com/trackresolve/core/internal/model"
)

// Adapter is one media source the resolver queries in source_priority
// order.
type Adapter interface {
	// Name is this adapter's source_priority key.
	Name() string
	// SourceModifier is the per-source constant folded into final_score.
	SourceModifier() float64
	// Search returns up to limit raw candidates for query. An adapter
	// returning an error is treated as source_unavailable by the caller;
	// it never panics and never blocks past its own HTTP timeout.
	Search(ctx context.Context, query string, limit int) ([]model.Candidate, error)
}
