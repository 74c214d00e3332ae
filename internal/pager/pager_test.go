package pager_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abelbrown/pokedeck/internal/catalog"
	"github.com/abelbrown/pokedeck/internal/catalog/catalogtest"
	"github.com/abelbrown/pokedeck/internal/notify"
	"github.com/abelbrown/pokedeck/internal/otel"
	"github.com/abelbrown/pokedeck/internal/pager"
)

func setup(t *testing.T, total int, opts ...pager.Option) (*catalogtest.Server, *pager.Pager) {
	t.Helper()
	srv := catalogtest.NewServer(total)
	t.Cleanup(srv.Close)
	client := catalog.NewClient(srv.BaseURL(), 2*time.Second, catalog.WithRateLimit(0))
	p := pager.New(client, 10, opts...)
	t.Cleanup(p.Close)
	return srv, p
}

func start(t *testing.T, p *pager.Pager) {
	t.Helper()
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

func names(items []catalog.SummaryItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func listRequests(srv *catalogtest.Server) []string {
	var out []string
	for _, r := range srv.Requests() {
		if strings.HasPrefix(r, "/api/v2/pokemon?") {
			out = append(out, r)
		}
	}
	return out
}

func detailRequests(srv *catalogtest.Server) []string {
	var out []string
	for _, r := range srv.Requests() {
		if strings.HasPrefix(r, "/api/v2/pokemon/") {
			out = append(out, r)
		}
	}
	return out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartLoadsFirstPageAndSelectsFirstItem(t *testing.T) {
	_, p := setup(t, 25)
	start(t, p)

	s := p.Snapshot()
	if s.CurrentPage != 1 || s.TotalCount != 25 || s.TotalPages() != 3 {
		t.Errorf("page=%d count=%d pages=%d", s.CurrentPage, s.TotalCount, s.TotalPages())
	}
	if len(s.Items) != 10 || s.Items[0].Name != "mon-1" || s.Items[0].ID != 1 {
		t.Errorf("items = %v", names(s.Items))
	}
	if s.Selected == nil || s.Selected.Name != "mon-1" {
		t.Fatalf("Selected = %+v, want mon-1", s.Selected)
	}
	if s.Loading || s.LoadingDetail {
		t.Errorf("loading flags left set: %v %v", s.Loading, s.LoadingDetail)
	}
	if s.ListErr != nil || s.DetailErr != nil {
		t.Errorf("errors: %v %v", s.ListErr, s.DetailErr)
	}
}

func TestGoToPageOutOfRangeIsNoop(t *testing.T) {
	srv, p := setup(t, 25)
	start(t, p)
	before := p.Snapshot()
	reqs := len(srv.Requests())

	for _, n := range []int{0, -1, 4} {
		if err := p.GoToPage(context.Background(), n); err != nil {
			t.Errorf("GoToPage(%d): %v", n, err)
		}
	}

	after := p.Snapshot()
	if after.CurrentPage != before.CurrentPage || strings.Join(names(after.Items), ",") != strings.Join(names(before.Items), ",") {
		t.Errorf("state changed: page %d -> %d", before.CurrentPage, after.CurrentPage)
	}
	if got := len(srv.Requests()); got != reqs {
		t.Errorf("out of range navigation issued %d requests", got-reqs)
	}
}

func TestGoToPreviousPageOnFirstPageIsNoop(t *testing.T) {
	srv, p := setup(t, 25)
	start(t, p)
	reqs := len(srv.Requests())

	if err := p.GoToPreviousPage(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.Snapshot().CurrentPage != 1 || len(srv.Requests()) != reqs {
		t.Error("GoToPreviousPage on page 1 was not a no-op")
	}
}

func TestGoToNextPageOnLastPageIsNoop(t *testing.T) {
	srv, p := setup(t, 25)
	start(t, p)
	ctx := context.Background()

	if err := p.GoToPage(ctx, 3); err != nil {
		t.Fatal(err)
	}
	before := p.Snapshot()
	reqs := len(srv.Requests())

	if err := p.GoToNextPage(ctx); err != nil {
		t.Fatal(err)
	}
	after := p.Snapshot()
	if after.CurrentPage != 3 || len(after.Items) != len(before.Items) {
		t.Errorf("GoToNextPage on the last page changed the list: page %d -> %d, %d -> %d items",
			before.CurrentPage, after.CurrentPage, len(before.Items), len(after.Items))
	}
	if got := len(srv.Requests()); got != reqs {
		t.Errorf("GoToNextPage on the last page issued %d requests", got-reqs)
	}
}

func TestGoToNextPageBeforeFirstLoadIsNoop(t *testing.T) {
	srv, p := setup(t, 25)
	if err := p.GoToNextPage(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("GoToNextPage with nothing loaded issued %d requests", n)
	}
}

func TestNextThenPreviousRefetches(t *testing.T) {
	srv, p := setup(t, 25)
	start(t, p)
	ctx := context.Background()

	if err := p.GoToNextPage(ctx); err != nil {
		t.Fatalf("GoToNextPage: %v", err)
	}
	s := p.Snapshot()
	if s.CurrentPage != 2 || s.Items[0].Name != "mon-11" {
		t.Fatalf("after next: page=%d first=%v", s.CurrentPage, names(s.Items))
	}
	lists := listRequests(srv)
	if len(lists) != 3 {
		t.Fatalf("list requests = %v, want initial plus two hops", lists)
	}
	for _, r := range lists[1:] {
		if !strings.Contains(r, "offset=10") {
			t.Errorf("hop %q should target offset 10", r)
		}
	}

	srv.RenamePage(0, "changed")
	if err := p.GoToPreviousPage(ctx); err != nil {
		t.Fatalf("GoToPreviousPage: %v", err)
	}
	s = p.Snapshot()
	if s.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want 1", s.CurrentPage)
	}
	if s.Items[0].Name != "changed-1" {
		t.Errorf("page 1 was not refetched: %v", names(s.Items))
	}
}

func TestGoToPageLastPartialPage(t *testing.T) {
	_, p := setup(t, 25)
	start(t, p)

	if err := p.GoToPage(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	s := p.Snapshot()
	if s.CurrentPage != 3 || len(s.Items) != 5 {
		t.Errorf("page=%d items=%d", s.CurrentPage, len(s.Items))
	}
	if s.HasNext() || !s.HasPrevious() {
		t.Errorf("HasNext=%v HasPrevious=%v", s.HasNext(), s.HasPrevious())
	}
	if s.Tokens.Next != "" || s.Tokens.Previous == "" {
		t.Errorf("tokens = %+v", s.Tokens)
	}
}

func TestGoToCurrentPageFetchesAgain(t *testing.T) {
	srv, p := setup(t, 25)
	start(t, p)
	before := len(listRequests(srv))

	p.GoToPage(context.Background(), 1)
	p.GoToPage(context.Background(), 1)
	if got := len(listRequests(srv)) - before; got != 2 {
		t.Errorf("repeated GoToPage issued %d requests, want 2", got)
	}
}

func TestLoadPageByToken(t *testing.T) {
	_, p := setup(t, 25)
	start(t, p)

	tokens, err := p.LoadPage(context.Background(), pager.PageToken(p.Snapshot().Tokens.Next))
	if err != nil {
		t.Fatal(err)
	}
	if p.Snapshot().CurrentPage != 2 {
		t.Errorf("CurrentPage = %d", p.Snapshot().CurrentPage)
	}
	if catalog.OffsetFromToken(tokens.Next) != 20 || catalog.OffsetFromToken(tokens.Previous) != 0 {
		t.Errorf("tokens = %+v", tokens)
	}
}

func TestLoadPageInvalidNumber(t *testing.T) {
	_, p := setup(t, 25)
	if _, err := p.LoadPage(context.Background(), pager.PageNumber(0)); err == nil {
		t.Error("expected error for page 0")
	}
}

func TestFailedPageKeepsPreviousPage(t *testing.T) {
	srv, p := setup(t, 25)
	start(t, p)
	srv.FailList(true)

	err := p.GoToNextPage(context.Background())
	if !errors.Is(err, catalog.ErrNetwork) {
		t.Fatalf("err = %v, want network error", err)
	}
	s := p.Snapshot()
	if s.CurrentPage != 1 || s.Items[0].Name != "mon-1" || s.TotalCount != 25 {
		t.Errorf("previous page not kept: page=%d items=%v", s.CurrentPage, names(s.Items))
	}
	if !errors.Is(s.ListErr, catalog.ErrNetwork) {
		t.Errorf("ListErr = %v", s.ListErr)
	}
	if s.Selected == nil || s.DetailErr != nil {
		t.Error("list failure touched the detail slot")
	}

	srv.FailList(false)
	if err := p.GoToNextPage(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.Snapshot().ListErr != nil {
		t.Error("ListErr not cleared by a successful load")
	}
}

func TestFailedDetailKeepsPreviousSelection(t *testing.T) {
	srv, p := setup(t, 25)
	start(t, p)
	srv.FailDetail("mon-2", 500)

	items := p.Snapshot().Items
	err := p.SelectAndLoadDetail(context.Background(), items[1])
	if !errors.Is(err, catalog.ErrNetwork) {
		t.Fatalf("err = %v, want network error", err)
	}
	s := p.Snapshot()
	if s.Selected == nil || s.Selected.Name != "mon-1" {
		t.Errorf("selection was not retained: %+v", s.Selected)
	}
	if !errors.Is(s.DetailErr, catalog.ErrNetwork) {
		t.Errorf("DetailErr = %v", s.DetailErr)
	}
	if s.ListErr != nil || len(s.Items) != 10 {
		t.Error("detail failure touched the list slot")
	}
}

func TestDetailNotFound(t *testing.T) {
	_, p := setup(t, 25, pager.WithoutAutoSelect())
	err := p.SelectAndLoadDetail(context.Background(), catalog.SummaryItem{Name: "mon-999"})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
	if p.Snapshot().Selected != nil {
		t.Error("nothing should be selected")
	}
}

func TestWithoutAutoSelect(t *testing.T) {
	srv, p := setup(t, 25, pager.WithoutAutoSelect())
	start(t, p)

	if p.Snapshot().Selected != nil {
		t.Error("first item was selected")
	}
	if reqs := detailRequests(srv); len(reqs) != 0 {
		t.Errorf("detail requests: %v", reqs)
	}
}

func TestFirstLoadHookRunsOnce(t *testing.T) {
	var calls []string
	_, p := setup(t, 25, pager.WithFirstLoadHook(func(_ context.Context, it catalog.SummaryItem) {
		calls = append(calls, it.Name)
	}))
	ctx := context.Background()
	start(t, p)
	p.GoToNextPage(ctx)
	p.GoToPreviousPage(ctx)
	p.Reload(ctx)

	if len(calls) != 1 || calls[0] != "mon-1" {
		t.Errorf("hook calls = %v, want [mon-1]", calls)
	}
}

func TestFirstLoadHookSkippedOffFirstPage(t *testing.T) {
	calls := 0
	_, p := setup(t, 25, pager.WithFirstLoadHook(func(context.Context, catalog.SummaryItem) { calls++ }))
	ctx := context.Background()

	if _, err := p.LoadPage(ctx, pager.PageNumber(2)); err != nil {
		t.Fatal(err)
	}
	if _, err := p.LoadPage(ctx, pager.PageNumber(1)); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Errorf("hook ran %d times", calls)
	}
}

func TestFirstLoadHookSkippedForEmptyCatalog(t *testing.T) {
	calls := 0
	_, p := setup(t, 0, pager.WithFirstLoadHook(func(context.Context, catalog.SummaryItem) { calls++ }))
	start(t, p)
	if calls != 0 {
		t.Errorf("hook ran on an empty catalog")
	}
	if s := p.Snapshot(); s.CurrentPage != 1 || s.TotalPages() != 0 {
		t.Errorf("page=%d pages=%d", s.CurrentPage, s.TotalPages())
	}
}

func TestFirstLoadHookWaitsForFailedFirstLoad(t *testing.T) {
	calls := 0
	srv, p := setup(t, 25, pager.WithFirstLoadHook(func(context.Context, catalog.SummaryItem) { calls++ }))
	srv.FailList(true)
	if err := p.Start(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	srv.FailList(false)
	start(t, p)
	if calls != 1 {
		t.Errorf("hook calls = %d, want 1 after the first success", calls)
	}
}

func TestDetailLoadDoesNotBlockPaging(t *testing.T) {
	srv, p := setup(t, 25, pager.WithoutAutoSelect())
	start(t, p)
	release := srv.GateDetails()
	defer release()

	done := make(chan error, 1)
	go func() { done <- p.SelectAndLoadDetail(context.Background(), p.Snapshot().Items[3]) }()
	waitFor(t, "detail request", func() bool { return len(detailRequests(srv)) == 1 })

	if !p.Snapshot().LoadingDetail {
		t.Error("LoadingDetail not set while pending")
	}
	if err := p.GoToNextPage(context.Background()); err != nil {
		t.Fatalf("paging blocked or failed during detail load: %v", err)
	}
	s := p.Snapshot()
	if s.CurrentPage != 2 || s.Loading {
		t.Errorf("page=%d loading=%v", s.CurrentPage, s.Loading)
	}
	if !s.LoadingDetail {
		t.Error("paging cleared the detail loading flag")
	}

	release()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if s := p.Snapshot(); s.Selected == nil || s.Selected.Name != "mon-4" || s.LoadingDetail {
		t.Errorf("selected=%+v loading=%v", s.Selected, s.LoadingDetail)
	}
}

func TestSupersededDetailIsDiscarded(t *testing.T) {
	srv, p := setup(t, 25, pager.WithoutAutoSelect())
	start(t, p)
	items := p.Snapshot().Items
	release := srv.GateDetails()
	defer release()

	var wg sync.WaitGroup
	var errA, errB error
	wg.Add(2)
	go func() { defer wg.Done(); errA = p.SelectAndLoadDetail(context.Background(), items[0]) }()
	waitFor(t, "first detail request", func() bool { return len(detailRequests(srv)) == 1 })
	go func() { defer wg.Done(); errB = p.SelectAndLoadDetail(context.Background(), items[1]) }()
	waitFor(t, "second detail request", func() bool { return len(detailRequests(srv)) == 2 })

	release()
	wg.Wait()

	if !errors.Is(errA, pager.ErrStale) {
		t.Errorf("first request err = %v, want ErrStale", errA)
	}
	if errB != nil {
		t.Errorf("second request err = %v", errB)
	}
	if s := p.Snapshot(); s.Selected == nil || s.Selected.Name != "mon-2" || s.LoadingDetail {
		t.Errorf("selected=%+v loading=%v", s.Selected, s.LoadingDetail)
	}
}

func TestCloseDiscardsPendingDetail(t *testing.T) {
	srv, p := setup(t, 25, pager.WithoutAutoSelect())
	start(t, p)
	release := srv.GateDetails()
	defer release()

	done := make(chan error, 1)
	go func() { done <- p.SelectAndLoadDetail(context.Background(), p.Snapshot().Items[0]) }()
	waitFor(t, "detail request", func() bool { return len(detailRequests(srv)) == 1 })

	p.Close()
	release()

	if err := <-done; !errors.Is(err, pager.ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
	if p.Snapshot().Selected != nil {
		t.Error("completion after Close changed the selection")
	}
}

func TestRequestsAfterClose(t *testing.T) {
	srv, p := setup(t, 25)
	p.Close()
	p.Close()

	if _, err := p.LoadPage(context.Background(), pager.PageNumber(1)); !errors.Is(err, pager.ErrClosed) {
		t.Errorf("LoadPage err = %v", err)
	}
	if err := p.SelectAndLoadDetail(context.Background(), catalog.SummaryItem{Name: "mon-1"}); !errors.Is(err, pager.ErrClosed) {
		t.Errorf("SelectAndLoadDetail err = %v", err)
	}
	if len(srv.Requests()) != 0 {
		t.Errorf("closed pager made requests: %v", srv.Requests())
	}
}

func TestFailuresArePublished(t *testing.T) {
	bus := notify.NewBus()
	var mu sync.Mutex
	var got []notify.Notice
	bus.Subscribe(func(n notify.Notice) {
		mu.Lock()
		got = append(got, n)
		mu.Unlock()
	})

	srv, p := setup(t, 25, pager.WithNotices(bus), pager.WithoutAutoSelect())
	srv.FailList(true)
	p.Start(context.Background())
	p.SelectAndLoadDetail(context.Background(), catalog.SummaryItem{Name: "mon-404"})

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("notices = %+v", got)
	}
	if got[0].Kind != notify.KindError || got[0].Message != "catalog request failed (HTTP 500)" {
		t.Errorf("list notice = %+v", got[0])
	}
	if got[1].Message != "mon-404 was not found" {
		t.Errorf("detail notice = %+v", got[1])
	}
	if got[1].ID <= got[0].ID {
		t.Error("notice ids did not increase")
	}
}

type fakeRecorder struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (f *fakeRecorder) Record(d *catalog.Detail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, d.Name)
	return f.err
}

func TestSightingsRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	_, p := setup(t, 25, pager.WithSightings(rec))
	start(t, p)
	p.SelectAndLoadDetail(context.Background(), p.Snapshot().Items[2])

	if strings.Join(rec.names, ",") != "mon-1,mon-3" {
		t.Errorf("recorded = %v", rec.names)
	}
}

func TestSightingsFailureDoesNotFailSelection(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	_, p := setup(t, 25, pager.WithSightings(rec), pager.WithoutAutoSelect())
	if err := p.SelectAndLoadDetail(context.Background(), catalog.SummaryItem{Name: "mon-5"}); err != nil {
		t.Fatalf("err = %v", err)
	}
	if p.Snapshot().Selected == nil {
		t.Error("selection not applied")
	}
}

func TestEventsEmitted(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	logger := otel.NewNullLogger()
	logger.SetRingBuffer(ring)

	srv, p := setup(t, 25, pager.WithLogger(logger))
	start(t, p)
	srv.FailList(true)
	p.GoToNextPage(context.Background())
	logger.Close()

	stats := ring.Stats()
	for kind, want := range map[otel.EventKind]int{
		otel.KindPageStart:      2,
		otel.KindPageComplete:   1,
		otel.KindPageError:      1,
		otel.KindDetailStart:    1,
		otel.KindDetailComplete: 1,
	} {
		if stats[kind] != want {
			t.Errorf("%s: %d events, want %d", kind, stats[kind], want)
		}
	}
}
