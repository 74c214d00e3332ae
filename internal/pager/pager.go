// Package pager keeps the current catalog page and the selected entry.
//
// The list and the selection are independent: each has its own mutex,
// loading flag, error slot and request generation. Network calls run with
// no lock held. A completion whose generation is no longer current (a newer
// request of the same kind started, or the pager was closed) is dropped and
// reported as ErrStale or ErrClosed.
//
// Nothing is cached. Loading the same page twice fetches it twice.
package pager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abelbrown/pokedeck/internal/catalog"
	"github.com/abelbrown/pokedeck/internal/notify"
	"github.com/abelbrown/pokedeck/internal/otel"
)

var (
	// ErrStale is returned when a newer request superseded this one.
	ErrStale = errors.New("pager: superseded by a newer request")
	// ErrClosed is returned for requests completing after Close.
	ErrClosed = errors.New("pager: closed")
)

// Source is the catalog the pager reads from. *catalog.Client satisfies it.
type Source interface {
	ListPage(ctx context.Context, limit, offset int) (catalog.Page, error)
	PageByToken(ctx context.Context, token string) (catalog.Page, error)
	Detail(ctx context.Context, name string) (*catalog.Detail, error)
}

// Recorder keeps a history of opened details. *store.Store satisfies it.
type Recorder interface {
	Record(d *catalog.Detail) error
}

// FirstLoadHook runs once, after the first successful load that lands on
// page 1 with a non-empty list while nothing is selected.
type FirstLoadHook func(ctx context.Context, first catalog.SummaryItem)

// Option configures a Pager.
type Option func(*Pager)

// WithoutAutoSelect disables the first-load hook.
func WithoutAutoSelect() Option {
	return func(p *Pager) { p.hook = nil }
}

// WithFirstLoadHook replaces the default first-load behavior, which selects
// the first item and waits for its detail.
func WithFirstLoadHook(fn FirstLoadHook) Option {
	return func(p *Pager) { p.hook = fn }
}

// WithLogger attaches an event logger.
func WithLogger(l *otel.Logger) Option {
	return func(p *Pager) { p.logger = l }
}

// WithNotices publishes every failure on bus.
func WithNotices(bus *notify.Bus) Option {
	return func(p *Pager) { p.bus = bus }
}

// WithSightings records each successfully loaded detail.
func WithSightings(r Recorder) Option {
	return func(p *Pager) { p.sightings = r }
}

type listSlot struct {
	mu      sync.Mutex
	gen     uint64
	items   []catalog.SummaryItem
	count   int
	page    int
	tokens  Tokens
	loading bool
	err     error
	loaded  bool // a load has succeeded
}

type detailSlot struct {
	mu       sync.Mutex
	gen      uint64
	selected *catalog.Detail
	loading  bool
	err      error
}

// Pager fetches catalog pages and entry details on demand.
type Pager struct {
	src      Source
	pageSize int

	hook      FirstLoadHook
	logger    *otel.Logger
	bus       *notify.Bus
	sightings Recorder

	closeMu sync.RWMutex
	closed  bool

	list   listSlot
	detail detailSlot
}

// New creates a Pager over src. pageSize below 1 is treated as 1.
func New(src Source, pageSize int, opts ...Option) *Pager {
	p := &Pager{
		src:      src,
		pageSize: max(pageSize, 1),
	}
	p.hook = p.selectFirst
	p.list.page = 1
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start performs the initial load of page 1.
func (p *Pager) Start(ctx context.Context) error {
	_, err := p.LoadPage(ctx, PageNumber(1))
	return err
}

// Snapshot returns the current state.
func (p *Pager) Snapshot() State {
	s := State{PageSize: p.pageSize}

	p.list.mu.Lock()
	s.Items = append([]catalog.SummaryItem(nil), p.list.items...)
	s.CurrentPage = p.list.page
	s.TotalCount = p.list.count
	s.Tokens = p.list.tokens
	s.Loading = p.list.loading
	s.ListErr = p.list.err
	p.list.mu.Unlock()

	p.detail.mu.Lock()
	s.Selected = p.detail.selected
	s.LoadingDetail = p.detail.loading
	s.DetailErr = p.detail.err
	p.detail.mu.Unlock()

	return s
}

// LoadPage fetches the page ref points at and, on success, replaces the
// items, total count and current page together. On failure the previous
// page stays and the error is kept in the list error slot.
func (p *Pager) LoadPage(ctx context.Context, ref PageRef) (Tokens, error) {
	if p.isClosed() {
		return Tokens{}, ErrClosed
	}
	if !ref.IsToken() && ref.number < 1 {
		return Tokens{}, fmt.Errorf("load page: invalid page number %d", ref.number)
	}

	offset := (ref.number - 1) * p.pageSize
	if ref.IsToken() {
		offset = catalog.OffsetFromToken(ref.token)
	}

	p.list.mu.Lock()
	p.list.gen++
	gen := p.list.gen
	p.list.loading = true
	p.list.mu.Unlock()

	p.logger.Emit(otel.Event{
		Kind:   otel.KindPageStart,
		Comp:   "pager",
		Gen:    gen,
		Page:   ref.number,
		Offset: offset,
	})

	start := time.Now()
	var page catalog.Page
	var err error
	if ref.IsToken() {
		page, err = p.src.PageByToken(ctx, ref.token)
	} else {
		page, err = p.src.ListPage(ctx, p.pageSize, offset)
	}

	p.list.mu.Lock()
	if dropErr := p.dropList(gen); dropErr != nil {
		p.list.mu.Unlock()
		p.logger.Emit(otel.Event{Kind: otel.KindPageStale, Comp: "pager", Gen: gen, Msg: dropErr.Error()})
		return Tokens{}, dropErr
	}
	p.list.loading = false

	if err != nil {
		p.list.err = err
		p.list.mu.Unlock()
		p.fail(otel.KindPageError, gen, time.Since(start), err)
		return Tokens{}, err
	}

	wasEmpty := len(p.list.items) == 0
	firstSuccess := !p.list.loaded
	current := currentPage(page, p.pageSize)
	tokens := Tokens{Next: page.Next, Previous: page.Previous}

	p.list.items = page.Items
	p.list.count = page.Count
	p.list.page = current
	p.list.tokens = tokens
	p.list.err = nil
	p.list.loaded = true
	p.list.mu.Unlock()

	p.logger.Emit(otel.Event{
		Kind:  otel.KindPageComplete,
		Comp:  "pager",
		Gen:   gen,
		Dur:   time.Since(start),
		Page:  current,
		Count: len(page.Items),
	})

	if firstSuccess && wasEmpty && current == 1 && len(page.Items) > 0 && p.hook != nil && !p.hasSelection() {
		p.hook(ctx, page.Items[0])
	}

	return tokens, nil
}

// dropList returns why a list completion for gen must be discarded, or nil.
// Caller holds p.list.mu.
func (p *Pager) dropList(gen uint64) error {
	if p.isClosed() {
		return ErrClosed
	}
	if gen != p.list.gen {
		return ErrStale
	}
	return nil
}

// SelectAndLoadDetail fetches the detail for item and makes it the
// selection. The list is neither locked nor touched. On failure the
// previous selection stays and the error is kept in the detail error slot.
func (p *Pager) SelectAndLoadDetail(ctx context.Context, item catalog.SummaryItem) error {
	if p.isClosed() {
		return ErrClosed
	}

	p.detail.mu.Lock()
	p.detail.gen++
	gen := p.detail.gen
	p.detail.loading = true
	p.detail.mu.Unlock()

	p.logger.Emit(otel.Event{Kind: otel.KindDetailStart, Comp: "pager", Gen: gen, Name: item.Name})

	start := time.Now()
	d, err := p.src.Detail(ctx, item.Name)

	p.detail.mu.Lock()
	dropErr := ErrStale
	switch {
	case p.isClosed():
		dropErr = ErrClosed
	case gen == p.detail.gen:
		dropErr = nil
	}
	if dropErr != nil {
		p.detail.mu.Unlock()
		p.logger.Emit(otel.Event{Kind: otel.KindDetailStale, Comp: "pager", Gen: gen, Name: item.Name, Msg: dropErr.Error()})
		return dropErr
	}
	p.detail.loading = false

	if err != nil {
		p.detail.err = err
		p.detail.mu.Unlock()
		p.fail(otel.KindDetailError, gen, time.Since(start), err)
		return err
	}

	p.detail.selected = d
	p.detail.err = nil
	p.detail.mu.Unlock()

	p.logger.Emit(otel.Event{
		Kind: otel.KindDetailComplete,
		Comp: "pager",
		Gen:  gen,
		Dur:  time.Since(start),
		Name: d.Name,
	})

	if p.sightings != nil {
		if err := p.sightings.Record(d); err != nil {
			p.logger.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindStoreError, Comp: "pager", Name: d.Name, Err: err.Error()})
		}
	}
	return nil
}

// GoToNextPage loads the page after the current one by number, then
// re-resolves it through the server's next token of the page being left,
// so the final state always matches server-declared pagination. No-op on
// the last page.
func (p *Pager) GoToNextPage(ctx context.Context) error {
	p.list.mu.Lock()
	current := p.list.page
	token := p.list.tokens.Next
	last := State{PageSize: p.pageSize, TotalCount: p.list.count}.TotalPages()
	p.list.mu.Unlock()

	if current >= last {
		return nil
	}
	if _, err := p.LoadPage(ctx, PageNumber(current+1)); err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	_, err := p.LoadPage(ctx, PageToken(token))
	return err
}

// GoToPreviousPage loads the page before the current one. No-op on page 1.
func (p *Pager) GoToPreviousPage(ctx context.Context) error {
	p.list.mu.Lock()
	current := p.list.page
	p.list.mu.Unlock()

	if current <= 1 {
		return nil
	}
	_, err := p.LoadPage(ctx, PageNumber(current-1))
	return err
}

// GoToPage loads page n. No-op when n is outside [1, TotalPages].
// Calling it with the current page fetches again.
func (p *Pager) GoToPage(ctx context.Context, n int) error {
	if n < 1 || n > p.Snapshot().TotalPages() {
		return nil
	}
	_, err := p.LoadPage(ctx, PageNumber(n))
	return err
}

// Reload fetches the current page again.
func (p *Pager) Reload(ctx context.Context) error {
	p.list.mu.Lock()
	current := p.list.page
	p.list.mu.Unlock()
	_, err := p.LoadPage(ctx, PageNumber(max(current, 1)))
	return err
}

// Close makes every in-flight and later request complete with ErrClosed
// without touching state. Safe to call more than once.
func (p *Pager) Close() {
	p.closeMu.Lock()
	p.closed = true
	p.closeMu.Unlock()

	p.list.mu.Lock()
	p.list.loading = false
	p.list.mu.Unlock()

	p.detail.mu.Lock()
	p.detail.loading = false
	p.detail.mu.Unlock()
}

func (p *Pager) isClosed() bool {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	return p.closed
}

func (p *Pager) hasSelection() bool {
	p.detail.mu.Lock()
	defer p.detail.mu.Unlock()
	return p.detail.selected != nil
}

// selectFirst is the default first-load hook.
func (p *Pager) selectFirst(ctx context.Context, first catalog.SummaryItem) {
	_ = p.SelectAndLoadDetail(ctx, first) // failure is already in the detail slot
}

// fail logs err and publishes it as a notice.
func (p *Pager) fail(kind otel.EventKind, gen uint64, dur time.Duration, err error) {
	msg := catalog.Message(err)
	p.logger.Emit(otel.Event{
		Level: otel.LevelError,
		Kind:  kind,
		Comp:  "pager",
		Gen:   gen,
		Dur:   dur,
		Err:   err.Error(),
		Msg:   msg,
	})
	if p.bus != nil {
		p.bus.Error(msg)
	}
}
