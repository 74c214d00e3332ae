// Package sprite resolves entry artwork and turns it into small thumbnails
// a terminal can draw.
//
// A load tries the primary template, then the secondary, and settles on
// StateNoImage when both fail. It never blocks past its context.
package sprite

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/abelbrown/pokedeck/internal/otel"
)

const (
	maxSpriteBytes     = 2 << 20
	defaultThumbSize   = 24
	maxConcurrentLoads = 4
)

// State is the outcome of a load.
type State int

const (
	StateLoaded State = iota
	StateNoImage
)

func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "no-image"
}

// Result is a resolved sprite.
type Result struct {
	ID       int
	State    State
	Source   string      // URL the image came from; Placeholder when none
	Fallback bool        // true when the secondary template served it
	Thumb    image.Image // nil unless State is StateLoaded
}

// Loader fetches and thumbnails sprites. Results are kept in memory by id;
// failures are not, so a later Load retries.
type Loader struct {
	client    *http.Client
	limiter   *rate.Limiter
	primary   Template
	secondary Template
	size      int
	logger    *otel.Logger

	mu    sync.Mutex
	cache map[int]Result
}

// Option configures a Loader.
type Option func(*Loader)

// WithTemplates overrides the primary and secondary sources.
func WithTemplates(primary, secondary Template) Option {
	return func(l *Loader) {
		l.primary = primary
		l.secondary = secondary
	}
}

// WithThumbSize sets the thumbnail edge in pixels.
func WithThumbSize(px int) Option {
	return func(l *Loader) {
		if px > 0 {
			l.size = px
		}
	}
}

// WithLimiter replaces the request pacing.
func WithLimiter(lim *rate.Limiter) Option {
	return func(l *Loader) { l.limiter = lim }
}

// WithLogger attaches an event logger.
func WithLogger(logger *otel.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader using home sprites with official artwork as
// the fallback.
func NewLoader(timeout time.Duration, opts ...Option) *Loader {
	l := &Loader{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(100*time.Millisecond), 2),
		primary:   Home,
		secondary: OfficialArtwork,
		size:      defaultThumbSize,
		cache:     make(map[int]Result),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Cached returns a previously loaded sprite.
func (l *Loader) Cached(id int) (Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.cache[id]
	return r, ok
}

// Load resolves the sprite for id.
func (l *Loader) Load(ctx context.Context, id int) Result {
	if r, ok := l.Cached(id); ok {
		return r
	}
	if id <= 0 {
		return l.missing(id, fmt.Errorf("invalid id %d", id))
	}

	start := time.Now()
	src := l.primary(id)
	thumb, err := l.fetch(ctx, src)
	if err == nil {
		return l.loaded(Result{ID: id, State: StateLoaded, Source: src, Thumb: thumb}, start)
	}
	primaryErr := err

	src = l.secondary(id)
	thumb, err = l.fetch(ctx, src)
	if err == nil {
		l.logger.Emit(otel.Event{
			Level: otel.LevelWarn,
			Kind:  otel.KindSpriteFallback,
			Comp:  "sprite",
			Extra: map[string]any{"id": id},
			Err:   primaryErr.Error(),
		})
		return l.loaded(Result{ID: id, State: StateLoaded, Source: src, Fallback: true, Thumb: thumb}, start)
	}
	return l.missing(id, err)
}

// Prefetch loads sprites for ids concurrently and returns them in the same
// order. A missing sprite is a result, not an error; only ctx
// cancellation stops the batch early.
func (l *Loader) Prefetch(ctx context.Context, ids []int) ([]Result, error) {
	out := make([]Result, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = l.Load(gctx, id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, fmt.Errorf("prefetch sprites: %w", err)
	}
	return out, nil
}

func (l *Loader) loaded(r Result, start time.Time) Result {
	l.mu.Lock()
	l.cache[r.ID] = r
	l.mu.Unlock()

	l.logger.Emit(otel.Event{
		Level:  otel.LevelDebug,
		Kind:   otel.KindSpriteLoaded,
		Comp:   "sprite",
		Extra:  map[string]any{"id": r.ID},
		Source: r.Source,
		Dur:    time.Since(start),
	})
	return r
}

func (l *Loader) missing(id int, err error) Result {
	l.logger.Emit(otel.Event{
		Level: otel.LevelWarn,
		Kind:  otel.KindSpriteMissing,
		Comp:  "sprite",
		Extra: map[string]any{"id": id},
		Err:   err.Error(),
	})
	return Result{ID: id, State: StateNoImage, Source: Placeholder}
}

// fetch downloads src and reduces it to a thumbnail.
func (l *Loader) fetch(ctx context.Context, src string) (image.Image, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", src, resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxSpriteBytes))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	return Thumbnail(img, l.size), nil
}

// Thumbnail trims transparent margins and fits img into a size x size box.
func Thumbnail(img image.Image, size int) image.Image {
	if r := opaqueBounds(img); !r.Empty() {
		img = imaging.Crop(img, r)
	}
	return imaging.Fit(img, size, size, imaging.Lanczos)
}

// opaqueBounds is the smallest rectangle containing every pixel that is
// not fully transparent.
func opaqueBounds(img image.Image) image.Rectangle {
	b := img.Bounds()
	var r image.Rectangle
	first := true
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				continue
			}
			p := image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+1, y+1)}
			if first {
				r, first = p, false
			} else {
				r = r.Union(p)
			}
		}
	}
	return r
}
