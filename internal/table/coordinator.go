package table

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// DefaultSearchDebounce is the quiet period before a search edit applies.
const DefaultSearchDebounce = 120 * time.Millisecond

// EventKind identifies a change signal.
type EventKind int

const (
	SearchEdited EventKind = iota
	CategoryChanged
	PageSizeChanged
	PageControlActivated
)

func (k EventKind) String() string {
	switch k {
	case SearchEdited:
		return "search"
	case CategoryChanged:
		return "category"
	case PageSizeChanged:
		return "page_size"
	case PageControlActivated:
		return "page"
	default:
		return "unknown"
	}
}

// Origin tells whether an event came from the user or from code setting a
// value.
type Origin int

const (
	OriginUser Origin = iota
	OriginProgrammatic
)

// Event is one change signal. Only the field matching Kind is read.
type Event struct {
	Kind     EventKind
	Origin   Origin
	Term     string
	Category string
	PageSize int
	Page     int
}

// UserOnly is the default genuineness predicate.
func UserOnly(ev Event) bool {
	return ev.Origin == OriginUser
}

// State is the coordinator state.
type State int

const (
	Idle State = iota
	PendingSearch
)

// generations is shared by all coordinators so a debounce armed by one
// coordinator can never match the generation of another.
var generations atomic.Uint64

// SearchFiredMsg is delivered when a search debounce elapses. Only the
// message carrying the latest generation is applied.
type SearchFiredMsg struct {
	Term       string
	Generation uint64
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDebounce sets the search debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithGenuine sets the predicate consulted for category and page-size
// events.
func WithGenuine(fn func(Event) bool) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.isGenuine = fn
		}
	}
}

// WithState sets the initial filter and page state.
func WithState(f FilterState, ps PageState) Option {
	return func(c *Coordinator) {
		c.filter = f
		c.pages = ps.Normalize()
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.log = l
	}
}

// Coordinator owns the filter and page state and runs the navigator on
// every change.
type Coordinator struct {
	nav       Navigator
	filter    FilterState
	pages     PageState
	state     State
	debounce  time.Duration
	isGenuine func(Event) bool
	log       zerolog.Logger

	generation uint64
	runs       int
	last       Result
}

// NewCoordinator returns an idle coordinator with the default state. Call
// Start to render the first pass.
func NewCoordinator(nav Navigator, opts ...Option) *Coordinator {
	c := &Coordinator{
		nav:       nav,
		pages:     PageState{PageSize: DefaultPageSize, CurrentPage: 1},
		debounce:  DefaultSearchDebounce,
		isGenuine: UserOnly,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start runs the pipeline once with the initial state.
func (c *Coordinator) Start() Result {
	return c.run()
}

// Handle processes one event. Search edits return the debounce command;
// every other event runs the pipeline before returning nil.
func (c *Coordinator) Handle(ev Event) tea.Cmd {
	switch ev.Kind {
	case SearchEdited:
		c.generation = generations.Add(1)
		c.state = PendingSearch
		gen, term := c.generation, ev.Term
		return tea.Tick(c.debounce, func(time.Time) tea.Msg {
			return SearchFiredMsg{Term: term, Generation: gen}
		})

	case CategoryChanged:
		if !c.genuine(ev) {
			return nil
		}
		c.filter.Category = ev.Category
		c.pages.CurrentPage = 1
		c.run()

	case PageSizeChanged:
		if !c.genuine(ev) {
			return nil
		}
		c.pages.PageSize = ev.PageSize
		c.pages = c.pages.Normalize()
		c.pages.CurrentPage = 1
		c.run()

	case PageControlActivated:
		c.pages.CurrentPage = ev.Page
		c.run()
	}
	return nil
}

// Fire applies a debounced search. It returns false for stale messages.
func (c *Coordinator) Fire(msg SearchFiredMsg) bool {
	if msg.Generation != c.generation || c.state != PendingSearch {
		return false
	}
	c.state = Idle
	c.filter.SearchTerm = msg.Term
	c.pages.CurrentPage = 1
	c.run()
	return true
}

// Cancel drops any pending search without applying it.
func (c *Coordinator) Cancel() {
	c.generation = generations.Add(1)
	c.state = Idle
}

func (c *Coordinator) genuine(ev Event) bool {
	if c.isGenuine(ev) {
		return true
	}
	c.log.Debug().Str("event", ev.Kind.String()).Msg("ignoring non-user event")
	return false
}

func (c *Coordinator) run() Result {
	c.pages = c.pages.Normalize()
	res := c.nav.Navigate(c.filter, c.pages)
	c.runs++
	if !res.Reloading {
		c.pages.CurrentPage = res.Page.Page
	}
	c.last = res
	c.log.Debug().
		Str("search", c.filter.SearchTerm).
		Str("category", c.filter.Category).
		Int("page", c.pages.CurrentPage).
		Int("size", c.pages.PageSize).
		Int("matched", res.Filtered).
		Bool("reloading", res.Reloading).
		Msg("table pipeline run")
	return res
}

// Filter returns the current filter state.
func (c *Coordinator) Filter() FilterState { return c.filter }

// Pages returns the current page state.
func (c *Coordinator) Pages() PageState { return c.pages }

// State returns whether a search is pending.
func (c *Coordinator) State() State { return c.state }

// Runs returns how many pipeline runs have happened.
func (c *Coordinator) Runs() int { return c.runs }

// Last returns the most recent pipeline result.
func (c *Coordinator) Last() Result { return c.last }
