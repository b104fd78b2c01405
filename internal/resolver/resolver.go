// Package resolver turns symbolic adapter references into locally loadable
// artifacts: cache lookup, fetch from the remote content source, and optional
// chat-template enrichment from the base model's snapshot.
package resolver

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"vllmd/internal/common/fsutil"
	"vllmd/pkg/types"
)

// Config holds resolver construction parameters.
type Config struct {
	// CacheRoot is the directory tree shared with the base-model download
	// mechanism. Adapter directories are created directly under it.
	CacheRoot string
	// Hub pulls adapter repositories; required.
	Hub HubClient
	// CopyChatTemplate enables metadata enrichment from the base model.
	CopyChatTemplate bool
	// FetchTimeout bounds one fetch; zero disables the deadline.
	FetchTimeout time.Duration
	// Logger defaults to a disabled logger.
	Logger *zerolog.Logger
	// Publisher receives lifecycle events; defaults to a no-op.
	Publisher EventPublisher
}

// Resolver implements adapter resolution against a local cache directory.
// Concurrent resolutions of the same reference share a single in-flight
// fetch; resolutions of distinct references are fully independent.
type Resolver struct {
	cacheRoot        string
	hub              HubClient
	copyChatTemplate bool
	fetchTimeout     time.Duration
	log              zerolog.Logger
	publisher        EventPublisher
	group            singleflight.Group
}

// New constructs a Resolver and creates the cache root if needed.
func New(cfg Config) (*Resolver, error) {
	if err := os.MkdirAll(cfg.CacheRoot, 0o755); err != nil {
		return nil, err
	}
	r := &Resolver{
		cacheRoot:        cfg.CacheRoot,
		hub:              cfg.Hub,
		copyChatTemplate: cfg.CopyChatTemplate,
		fetchTimeout:     cfg.FetchTimeout,
		log:              zerolog.Nop(),
		publisher:        noopPublisher{},
	}
	if cfg.Logger != nil {
		r.log = *cfg.Logger
	}
	if cfg.Publisher != nil {
		r.publisher = cfg.Publisher
	}
	return r, nil
}

// hasLocalArtifact reports whether the adapter's directory exists with at
// least one entry. Fetches rename a fully transferred temp directory into
// place, so presence implies completeness.
func (r *Resolver) hasLocalArtifact(adapterRef string) bool {
	return fsutil.DirNonEmpty(AdapterDir(r.cacheRoot, adapterRef))
}

// Resolve returns the local path and stable identifier for adapterRef,
// fetching the adapter from the hub when it is not cached yet. Only transfer
// failures abort; enrichment faults degrade to warnings.
func (r *Resolver) Resolve(ctx context.Context, baseModelRef, adapterRef string) (types.Resolution, error) {
	dir := AdapterDir(r.cacheRoot, adapterRef)

	if r.hasLocalArtifact(adapterRef) {
		cacheHitsTotal.Inc()
		r.publisher.Publish(Event{Name: "cache_hit", Adapter: adapterRef})
		r.log.Debug().Str("adapter", adapterRef).Str("path", dir).Msg("using cached adapter")
	} else {
		// Single flight per reference: concurrent callers for the same
		// never-before-seen adapter await one fetch instead of duplicating it.
		_, err, _ := r.group.Do(adapterRef, func() (any, error) {
			if r.hasLocalArtifact(adapterRef) {
				return nil, nil
			}
			return nil, r.fetch(ctx, adapterRef, dir)
		})
		if err != nil {
			return types.Resolution{}, err
		}
	}

	r.copyChatTemplateIfNeeded(baseModelRef, adapterRef)

	return types.Resolution{
		Name:      adapterRef,
		LocalPath: dir,
		ID:        AdapterID(adapterRef),
	}, nil
}

// fetch pulls the adapter into a temp sibling directory and renames it into
// place on full success, so a partial transfer never looks like a cache hit.
func (r *Resolver) fetch(ctx context.Context, adapterRef, dir string) error {
	if r.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.fetchTimeout)
		defer cancel()
	}

	fetchesTotal.Inc()
	r.publisher.Publish(Event{Name: "fetch_start", Adapter: adapterRef})
	r.log.Info().Str("adapter", adapterRef).Msg("downloading adapter from hub")
	start := time.Now()

	tmp := dir + "-partial"
	if err := os.RemoveAll(tmp); err != nil {
		return ErrTransfer(adapterRef, err)
	}
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return ErrTransfer(adapterRef, err)
	}

	if err := r.hub.Download(ctx, adapterRef, tmp); err != nil {
		_ = os.RemoveAll(tmp)
		fetchErrorsTotal.Inc()
		r.publisher.Publish(Event{Name: "fetch_error", Adapter: adapterRef, Fields: map[string]any{"error": err.Error()}})
		return ErrTransfer(adapterRef, err)
	}

	// the target may exist empty from an interrupted older version
	_ = os.Remove(dir)
	if err := os.Rename(tmp, dir); err != nil {
		_ = os.RemoveAll(tmp)
		fetchErrorsTotal.Inc()
		return ErrTransfer(adapterRef, err)
	}

	fetchDuration.Observe(time.Since(start).Seconds())
	r.publisher.Publish(Event{Name: "fetch_done", Adapter: adapterRef, Fields: map[string]any{"dur_ms": int(time.Since(start) / time.Millisecond)}})
	r.log.Info().Str("adapter", adapterRef).Str("path", dir).Dur("dur", time.Since(start)).Msg("adapter downloaded")
	return nil
}
