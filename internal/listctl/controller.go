// Package listctl holds the page, size and filter state of a paginated list
// and sequences the fetches that keep it current.
package listctl

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/five82/stoq/internal/pagewindow"
)

// PageSizes is the closed set of page sizes a controller accepts.
var PageSizes = []int{10, 20, 50, 100}

const (
	DefaultPageSize   = 20
	DefaultMaxVisible = 5
)

// ErrInvalidPageSize is returned by SetSize for sizes outside PageSizes.
var ErrInvalidPageSize = errors.New("invalid page size")

// Status is the fetch lifecycle of a controller.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Query is what a data source is asked for.
type Query struct {
	Page   int
	Size   int
	Filter string
}

// Result is one page of items plus the total matching count.
type Result[T any] struct {
	Items []T
	Total int
}

// DataSource fetches one page of records.
type DataSource[T any] interface {
	Fetch(ctx context.Context, q Query) (Result[T], error)
}

// DataSourceFunc adapts a function to DataSource.
type DataSourceFunc[T any] func(ctx context.Context, q Query) (Result[T], error)

// Fetch calls f.
func (f DataSourceFunc[T]) Fetch(ctx context.Context, q Query) (Result[T], error) {
	return f(ctx, q)
}

// Request is a fetch the caller must run. Seq identifies it when the
// response comes back through Apply.
type Request struct {
	Seq   uint64
	Query Query
}

// Response carries the outcome of a Request back to the controller.
type Response[T any] struct {
	Seq    uint64
	Result Result[T]
	Err    error
}

// Run executes the request against src and tags the outcome with r.Seq.
func Run[T any](ctx context.Context, r Request, src DataSource[T]) Response[T] {
	res, err := src.Fetch(ctx, r.Query)
	return Response[T]{Seq: r.Seq, Result: res, Err: err}
}

// State is a snapshot of the list. Items is shared with the controller and
// must not be modified.
type State[T any] struct {
	Page            int
	Size            int
	CommittedFilter string
	PendingFilter   string
	Items           []T
	Total           int
	Status          Status
	Err             string
}

// Controller owns the page, size and filter of a list and decides when it
// must be refetched. Every command that needs data returns a Request; the
// caller runs it and hands the Response to Apply. Only the response to the
// most recently issued request is applied.
//
// A Controller is not safe for concurrent use.
type Controller[T any] struct {
	state      State[T]
	maxVisible int
	seq        uint64
	closed     bool
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	page       int
	size       int
	filter     string
	maxVisible int
}

// WithPage sets the initial page.
func WithPage(page int) Option {
	return func(o *options) { o.page = page }
}

// WithSize sets the initial page size. Sizes outside PageSizes are ignored.
func WithSize(size int) Option {
	return func(o *options) { o.size = size }
}

// WithFilter sets the initial committed filter.
func WithFilter(filter string) Option {
	return func(o *options) { o.filter = filter }
}

// WithMaxVisible sets how many page numbers the window shows around the current page.
func WithMaxVisible(n int) Option {
	return func(o *options) { o.maxVisible = n }
}

// New returns a controller in its initial idle state.
func New[T any](opts ...Option) *Controller[T] {
	o := options{page: 1, size: DefaultPageSize, maxVisible: DefaultMaxVisible}
	for _, opt := range opts {
		opt(&o)
	}
	if o.page < 1 {
		o.page = 1
	}
	if !ValidSize(o.size) {
		o.size = DefaultPageSize
	}
	if o.maxVisible < 1 {
		o.maxVisible = DefaultMaxVisible
	}
	filter := strings.TrimSpace(o.filter)
	return &Controller[T]{
		state: State[T]{
			Page:            o.page,
			Size:            o.size,
			CommittedFilter: filter,
			PendingFilter:   filter,
			Status:          StatusIdle,
		},
		maxVisible: o.maxVisible,
	}
}

// ValidSize reports whether size is one of PageSizes.
func ValidSize(size int) bool {
	return slices.Contains(PageSizes, size)
}

// State returns a snapshot of the current state.
func (c *Controller[T]) State() State[T] {
	return c.state
}

// Seq returns the sequence number of the most recently issued request.
func (c *Controller[T]) Seq() uint64 {
	return c.seq
}

// MaxVisible returns the configured window width.
func (c *Controller[T]) MaxVisible() int {
	return c.maxVisible
}

// Closed reports whether Close has been called.
func (c *Controller[T]) Closed() bool {
	return c.closed
}

// TotalPages is derived from the last successful total and the current size.
func (c *Controller[T]) TotalPages() int {
	return pagewindow.TotalPages(c.state.Total, c.state.Size)
}

// Window computes the pagination labels for the current state.
func (c *Controller[T]) Window() pagewindow.Window {
	return pagewindow.Compute(c.state.Total, c.state.Size, c.state.Page, c.maxVisible)
}

// Start issues the initial fetch.
func (c *Controller[T]) Start() (Request, bool) {
	if c.closed {
		return Request{}, false
	}
	return c.refetch(), true
}

// Reload refetches the current query.
func (c *Controller[T]) Reload() (Request, bool) {
	return c.Start()
}

// SetPage moves to target, clamped to the known page range. It issues no
// request when the clamped page is already current.
func (c *Controller[T]) SetPage(target int) (Request, bool) {
	if c.closed {
		return Request{}, false
	}
	target = min(max(1, target), max(1, c.TotalPages()))
	if target == c.state.Page {
		return Request{}, false
	}
	c.state.Page = target
	return c.refetch(), true
}

func (c *Controller[T]) NextPage() (Request, bool)  { return c.SetPage(c.state.Page + 1) }
func (c *Controller[T]) PrevPage() (Request, bool)  { return c.SetPage(c.state.Page - 1) }
func (c *Controller[T]) FirstPage() (Request, bool) { return c.SetPage(1) }
func (c *Controller[T]) LastPage() (Request, bool)  { return c.SetPage(c.TotalPages()) }

// SetSize changes the page size and returns to page 1.
func (c *Controller[T]) SetSize(size int) (Request, bool, error) {
	if !ValidSize(size) {
		return Request{}, false, fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	if c.closed {
		return Request{}, false, nil
	}
	c.state.Size = size
	c.state.Page = 1
	return c.refetch(), true, nil
}

// CycleSize steps delta positions through PageSizes, wrapping around.
func (c *Controller[T]) CycleSize(delta int) (Request, bool) {
	i := slices.Index(PageSizes, c.state.Size)
	n := len(PageSizes)
	next := PageSizes[((i+delta)%n+n)%n]
	req, ok, _ := c.SetSize(next)
	return req, ok
}

// SetPendingFilter records search box text without committing it.
func (c *Controller[T]) SetPendingFilter(text string) {
	if c.closed {
		return
	}
	c.state.PendingFilter = text
}

// SubmitFilter commits the trimmed text and returns to page 1. It always
// refetches, even when the filter is unchanged.
func (c *Controller[T]) SubmitFilter(text string) (Request, bool) {
	if c.closed {
		return Request{}, false
	}
	c.state.PendingFilter = text
	c.state.CommittedFilter = strings.TrimSpace(text)
	c.state.Page = 1
	return c.refetch(), true
}

// ClearFilter empties both filters and returns to page 1.
func (c *Controller[T]) ClearFilter() (Request, bool) {
	if c.closed {
		return Request{}, false
	}
	c.state.PendingFilter = ""
	c.state.CommittedFilter = ""
	c.state.Page = 1
	return c.refetch(), true
}

// Apply folds a response into the state. Responses other than the latest
// issued are dropped. A successful response whose total leaves the current
// page out of range yields a corrective request for the last valid page.
func (c *Controller[T]) Apply(resp Response[T]) (Request, bool) {
	if c.closed || resp.Seq != c.seq {
		return Request{}, false
	}
	if resp.Err != nil {
		c.state.Status = StatusError
		c.state.Err = resp.Err.Error()
		return Request{}, false
	}

	c.state.Items = resp.Result.Items
	c.state.Total = max(0, resp.Result.Total)
	c.state.Status = StatusIdle
	c.state.Err = ""

	if last := max(1, c.TotalPages()); c.state.Page > last {
		c.state.Page = last
		return c.refetch(), true
	}
	return Request{}, false
}

// Close stops the controller. Later commands and responses are ignored.
func (c *Controller[T]) Close() {
	c.closed = true
}

func (c *Controller[T]) refetch() Request {
	c.seq++
	c.state.Status = StatusLoading
	c.state.Err = ""
	return Request{
		Seq: c.seq,
		Query: Query{
			Page:   c.state.Page,
			Size:   c.state.Size,
			Filter: c.state.CommittedFilter,
		},
	}
}
