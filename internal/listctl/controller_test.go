package listctl

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type item struct{ n int }

func page(from, count int) []item {
	out := make([]item, count)
	for i := range out {
		out[i] = item{n: from + i}
	}
	return out
}

// mustIssue unwraps a command result that is expected to carry a request.
func mustIssue(t *testing.T) func(Request, bool) Request {
	t.Helper()
	return func(req Request, issued bool) Request {
		t.Helper()
		if !issued {
			t.Fatalf("expected a request to be issued")
		}
		return req
	}
}

func respond(req Request, total int) Response[item] {
	start := (req.Query.Page-1)*req.Query.Size + 1
	n := max(0, min(req.Query.Size, total-start+1))
	return Response[item]{Seq: req.Seq, Result: Result[item]{Items: page(start, n), Total: total}}
}

// loaded returns a controller that has applied one successful fetch for page.
func loaded(t *testing.T, p, total int) *Controller[item] {
	t.Helper()
	c := New[item](WithPage(p))
	req := mustIssue(t)(c.Start())
	if next, again := c.Apply(respond(req, total)); again {
		t.Fatalf("unexpected corrective request %+v", next)
	}
	return c
}

func TestNew_Defaults(t *testing.T) {
	c := New[item]()
	st := c.State()
	if st.Page != 1 || st.Size != 20 || st.CommittedFilter != "" || st.PendingFilter != "" || st.Status != StatusIdle {
		t.Fatalf("unexpected initial state %+v", st)
	}
	if c.Seq() != 0 {
		t.Fatalf("Seq() = %d, want 0", c.Seq())
	}
	if c.MaxVisible() != DefaultMaxVisible {
		t.Fatalf("MaxVisible() = %d, want %d", c.MaxVisible(), DefaultMaxVisible)
	}
}

func TestNew_IgnoresInvalidOptions(t *testing.T) {
	c := New[item](WithPage(-3), WithSize(7), WithMaxVisible(0), WithFilter("  mouse "))
	st := c.State()
	if st.Page != 1 || st.Size != DefaultPageSize {
		t.Fatalf("state = %+v, want page 1 size %d", st, DefaultPageSize)
	}
	if st.CommittedFilter != "mouse" {
		t.Fatalf("CommittedFilter = %q, want %q", st.CommittedFilter, "mouse")
	}
	if c.MaxVisible() != DefaultMaxVisible {
		t.Fatalf("MaxVisible() = %d", c.MaxVisible())
	}
}

func TestStart_IssuesQueryAndLoads(t *testing.T) {
	c := New[item](WithSize(50), WithFilter("desk"))
	req := mustIssue(t)(c.Start())
	want := Query{Page: 1, Size: 50, Filter: "desk"}
	if req.Query != want {
		t.Fatalf("query = %+v, want %+v", req.Query, want)
	}
	if c.State().Status != StatusLoading {
		t.Fatalf("Status = %v, want loading", c.State().Status)
	}
	c.Apply(respond(req, 120))
	st := c.State()
	if st.Status != StatusIdle || st.Total != 120 || len(st.Items) != 50 {
		t.Fatalf("unexpected state %+v", st)
	}
	if c.TotalPages() != 3 {
		t.Fatalf("TotalPages() = %d, want 3", c.TotalPages())
	}
}

func TestSetPage_ClampsAndSkipsCurrent(t *testing.T) {
	c := loaded(t, 2, 100)

	if _, issued := c.SetPage(2); issued {
		t.Fatalf("SetPage(current) issued a request")
	}

	req := mustIssue(t)(c.SetPage(99))
	if req.Query.Page != 5 || c.State().Page != 5 {
		t.Fatalf("SetPage(99) -> page %d, want 5", req.Query.Page)
	}
	c.Apply(respond(req, 100))

	req = mustIssue(t)(c.SetPage(-4))
	if req.Query.Page != 1 {
		t.Fatalf("SetPage(-4) -> page %d, want 1", req.Query.Page)
	}
	c.Apply(respond(req, 100))

	if _, issued := c.PrevPage(); issued {
		t.Fatalf("PrevPage on page 1 issued a request")
	}
	if req := mustIssue(t)(c.NextPage()); req.Query.Page != 2 {
		t.Fatalf("NextPage -> %d, want 2", req.Query.Page)
	}
}

func TestSetPage_BeforeFirstLoadStaysOnOne(t *testing.T) {
	c := New[item]()
	if _, issued := c.SetPage(3); issued {
		t.Fatalf("SetPage with no known total issued a request")
	}
	if c.State().Page != 1 {
		t.Fatalf("Page = %d, want 1", c.State().Page)
	}
}

func TestFirstLastPage(t *testing.T) {
	c := loaded(t, 3, 500)
	req := mustIssue(t)(c.LastPage())
	if req.Query.Page != 25 {
		t.Fatalf("LastPage -> %d, want 25", req.Query.Page)
	}
	c.Apply(respond(req, 500))
	req = mustIssue(t)(c.FirstPage())
	if req.Query.Page != 1 {
		t.Fatalf("FirstPage -> %d, want 1", req.Query.Page)
	}
}

func TestSetSize_ResetsPage(t *testing.T) {
	c := loaded(t, 4, 500)
	req, issued, err := c.SetSize(50)
	if err != nil || !issued {
		t.Fatalf("SetSize(50) = %v, %v", issued, err)
	}
	if req.Query.Page != 1 || req.Query.Size != 50 {
		t.Fatalf("query = %+v, want page 1 size 50", req.Query)
	}
	if st := c.State(); st.Page != 1 || st.Size != 50 {
		t.Fatalf("state = %+v", st)
	}
}

func TestSetSize_RejectsUnknownSize(t *testing.T) {
	c := loaded(t, 4, 500)
	seq := c.Seq()
	_, issued, err := c.SetSize(25)
	if !errors.Is(err, ErrInvalidPageSize) {
		t.Fatalf("err = %v, want ErrInvalidPageSize", err)
	}
	if issued || c.Seq() != seq {
		t.Fatalf("invalid size issued a request")
	}
	if st := c.State(); st.Page != 4 || st.Size != 20 {
		t.Fatalf("state changed: %+v", st)
	}
}

func TestCycleSize_Wraps(t *testing.T) {
	c := New[item](WithSize(100))
	req := mustIssue(t)(c.CycleSize(1))
	if req.Query.Size != 10 {
		t.Fatalf("CycleSize(1) from 100 -> %d, want 10", req.Query.Size)
	}
	req = mustIssue(t)(c.CycleSize(-1))
	if req.Query.Size != 100 {
		t.Fatalf("CycleSize(-1) from 10 -> %d, want 100", req.Query.Size)
	}
}

func TestFilter_PendingDoesNotCommit(t *testing.T) {
	c := loaded(t, 3, 500)
	seq := c.Seq()
	c.SetPendingFilter("lam")
	st := c.State()
	if st.PendingFilter != "lam" || st.CommittedFilter != "" {
		t.Fatalf("state = %+v", st)
	}
	if c.Seq() != seq || st.Page != 3 {
		t.Fatalf("keystroke changed page or issued a request")
	}
}

func TestSubmitFilter_TrimsResetsAndAlwaysFetches(t *testing.T) {
	c := loaded(t, 3, 500)
	req := mustIssue(t)(c.SubmitFilter("  lamp  "))
	if req.Query != (Query{Page: 1, Size: 20, Filter: "lamp"}) {
		t.Fatalf("query = %+v", req.Query)
	}
	c.Apply(respond(req, 500))

	again := mustIssue(t)(c.SubmitFilter("lamp"))
	if again.Seq <= req.Seq {
		t.Fatalf("resubmitting the same filter did not issue a new request")
	}
}

func TestClearFilter(t *testing.T) {
	c := New[item](WithFilter("usb"))
	c.Apply(respond(mustIssue(t)(c.Start()), 200))
	c.Apply(respond(mustIssue(t)(c.SetPage(3)), 200))
	c.SetPendingFilter("usb-c")

	req := mustIssue(t)(c.ClearFilter())
	st := c.State()
	if st.PendingFilter != "" || st.CommittedFilter != "" || st.Page != 1 {
		t.Fatalf("state = %+v", st)
	}
	if req.Query.Filter != "" {
		t.Fatalf("query filter = %q, want empty", req.Query.Filter)
	}
}

// A filter submitted on page 4 of 5 that yields a single page resets to
// page 1 and suppresses pagination.
func TestScenario_FilterShrinksToOnePage(t *testing.T) {
	c := loaded(t, 4, 100)
	req := mustIssue(t)(c.SubmitFilter("keyboard"))
	if next, again := c.Apply(respond(req, 5)); again {
		t.Fatalf("unexpected corrective request %+v", next)
	}
	st := c.State()
	if st.Page != 1 || st.Total != 5 || len(st.Items) != 5 {
		t.Fatalf("state = %+v", st)
	}
	if !c.Window().Suppressed() {
		t.Fatalf("pagination not suppressed: %+v", c.Window())
	}
}

// Two quick page changes whose responses arrive out of order: only the
// later request's data is applied.
func TestScenario_StaleResponseDiscarded(t *testing.T) {
	c := loaded(t, 1, 100)
	req2 := mustIssue(t)(c.SetPage(2))
	req3 := mustIssue(t)(c.SetPage(3))

	c.Apply(respond(req3, 100))
	if _, again := c.Apply(respond(req2, 100)); again {
		t.Fatalf("stale response issued a request")
	}

	st := c.State()
	if st.Page != 3 || st.Items[0].n != 41 {
		t.Fatalf("state = page %d first item %d, want page 3 item 41", st.Page, st.Items[0].n)
	}
	if st.Status != StatusIdle {
		t.Fatalf("Status = %v, want idle", st.Status)
	}
}

func TestScenario_StaleErrorDiscarded(t *testing.T) {
	c := loaded(t, 1, 100)
	req2 := mustIssue(t)(c.SetPage(2))
	req3 := mustIssue(t)(c.SetPage(3))
	c.Apply(respond(req3, 100))
	c.Apply(Response[item]{Seq: req2.Seq, Err: errors.New("timeout")})
	if st := c.State(); st.Status != StatusIdle || st.Err != "" {
		t.Fatalf("stale error surfaced: %+v", st)
	}
}

// A failed fetch keeps the previously displayed page.
func TestScenario_ErrorKeepsPreviousData(t *testing.T) {
	c := loaded(t, 2, 100)
	before := c.State()

	req := mustIssue(t)(c.Reload())
	c.Apply(Response[item]{Seq: req.Seq, Err: errors.New("connection refused")})

	st := c.State()
	if st.Status != StatusError || st.Err != "connection refused" {
		t.Fatalf("status = %v err = %q", st.Status, st.Err)
	}
	if st.Page != 2 || st.Size != 20 || st.Total != 100 || !reflect.DeepEqual(st.Items, before.Items) {
		t.Fatalf("data changed after failure: %+v", st)
	}

	// Any later navigation retries.
	req = mustIssue(t)(c.NextPage())
	if c.State().Status != StatusLoading || c.State().Err != "" {
		t.Fatalf("state after retry = %+v", c.State())
	}
	c.Apply(respond(req, 100))
	if c.State().Status != StatusIdle {
		t.Fatalf("Status = %v, want idle", c.State().Status)
	}
}

func TestApply_ReclampsOutOfRangePage(t *testing.T) {
	c := loaded(t, 5, 100)
	req := mustIssue(t)(c.Reload())

	// The collection shrank to two pages while page 5 was requested.
	fix, again := c.Apply(respond(req, 30))
	if !again {
		t.Fatalf("expected corrective request")
	}
	if fix.Query.Page != 2 || c.State().Page != 2 {
		t.Fatalf("corrected page = %d, want 2", fix.Query.Page)
	}
	if c.State().Status != StatusLoading {
		t.Fatalf("Status = %v, want loading", c.State().Status)
	}
	if _, again := c.Apply(respond(fix, 30)); again {
		t.Fatalf("second corrective request issued")
	}
	if st := c.State(); st.Page != 2 || len(st.Items) != 10 {
		t.Fatalf("state = %+v", st)
	}
}

func TestApply_EmptyResultDoesNotLoop(t *testing.T) {
	c := loaded(t, 3, 100)
	req := mustIssue(t)(c.Reload())
	fix, again := c.Apply(respond(req, 0))
	if !again || fix.Query.Page != 1 {
		t.Fatalf("expected one corrective request to page 1, got %+v %v", fix, again)
	}
	if _, again := c.Apply(respond(fix, 0)); again {
		t.Fatalf("empty result kept issuing requests")
	}
	st := c.State()
	if st.Page != 1 || st.Total != 0 || st.Status != StatusIdle {
		t.Fatalf("state = %+v", st)
	}
}

func TestClose_StopsEverything(t *testing.T) {
	c := loaded(t, 1, 100)
	req := mustIssue(t)(c.SetPage(2))
	c.Close()

	if _, again := c.Apply(respond(req, 100)); again {
		t.Fatalf("Apply after Close issued a request")
	}
	if st := c.State(); len(st.Items) != 20 || st.Items[0].n != 1 {
		t.Fatalf("Apply after Close mutated items")
	}
	if _, issued := c.NextPage(); issued {
		t.Fatalf("NextPage after Close issued a request")
	}
	if _, issued := c.SubmitFilter("x"); issued {
		t.Fatalf("SubmitFilter after Close issued a request")
	}
	if _, issued := c.Start(); issued {
		t.Fatalf("Start after Close issued a request")
	}
	if !c.Closed() {
		t.Fatalf("Closed() = false")
	}
}

func TestRun_TagsResponse(t *testing.T) {
	var got Query
	src := DataSourceFunc[item](func(_ context.Context, q Query) (Result[item], error) {
		got = q
		return Result[item]{Items: page(1, 2), Total: 2}, nil
	})
	req := Request{Seq: 7, Query: Query{Page: 1, Size: 10, Filter: "hub"}}
	resp := Run(context.Background(), req, src)
	if resp.Seq != 7 || resp.Err != nil || resp.Result.Total != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if got != req.Query {
		t.Fatalf("source got %+v, want %+v", got, req.Query)
	}
}

// Driving the controller to completion the way the CLI does.
func TestLoop_SettlesOnLastValidPage(t *testing.T) {
	src := DataSourceFunc[item](func(_ context.Context, q Query) (Result[item], error) {
		return respond(Request{Query: q}, 45).Result, nil
	})
	c := New[item](WithPage(9), WithSize(10))
	fetches := 0
	for req, more := c.Start(); more; req, more = c.Apply(Run(context.Background(), req, src)) {
		fetches++
	}
	if fetches != 2 {
		t.Fatalf("fetches = %d, want 2", fetches)
	}
	if st := c.State(); st.Page != 5 || len(st.Items) != 5 {
		t.Fatalf("state = %+v", st)
	}
}
