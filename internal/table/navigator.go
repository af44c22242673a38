package table

import (
	"net/url"
	"strconv"
	"strings"
)

// Navigator turns filter and page state into a rendered view. The two
// implementations share Run, so filtering and pagination live in one place.
type Navigator interface {
	Navigate(f FilterState, ps PageState) Result
}

// LocalNavigator filters and paginates the snapshot in memory.
type LocalNavigator struct {
	rows       []Row
	view       View
	windowSize int
}

// NewLocalNavigator returns a navigator over snap rendering into v.
func NewLocalNavigator(snap *Snapshot, v View, windowSize int) *LocalNavigator {
	return &LocalNavigator{rows: snap.Rows(), view: v, windowSize: windowSize}
}

// Navigate runs the pipeline and applies it to the view.
func (n *LocalNavigator) Navigate(f FilterState, ps PageState) Result {
	res := Run(n.rows, f, ps, n.windowSize)
	Apply(n.view, n.rows, res)
	return res
}

// Query parameter names used by QueryNavigator. Pages are zero-based on the
// wire.
const (
	ParamSection  = "section"
	ParamCategory = "category"
	ParamSize     = "size"
	ParamPage     = "page"

	sectionProducts = "products"
)

// Reloader receives the query a QueryNavigator wants loaded.
type Reloader interface {
	Reload(q url.Values)
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func(q url.Values)

// Reload calls f(q).
func (f ReloaderFunc) Reload(q url.Values) { f(q) }

// QueryNavigator delegates category, size and page changes to the host by
// encoding them as a query and asking for a reload. The rows it holds are a
// single page already selected by the host; search narrows only those.
type QueryNavigator struct {
	rows       []Row
	total      int
	view       View
	windowSize int
	reloader   Reloader
	last       string
}

// NewQueryNavigator wraps one loaded page. total is the number of rows
// matching the category across all pages, and current is the query that
// produced the page.
func NewQueryNavigator(page *Snapshot, total int, current url.Values, v View, windowSize int, r Reloader) *QueryNavigator {
	return &QueryNavigator{
		rows:       page.Rows(),
		total:      total,
		view:       v,
		windowSize: windowSize,
		reloader:   r,
		last:       current.Encode(),
	}
}

// Navigate reloads when the encoded query differs from the loaded one, and
// otherwise applies the search locally to the loaded page.
func (n *QueryNavigator) Navigate(f FilterState, ps PageState) Result {
	ps = ps.Normalize()
	q := EncodeQuery(f, ps)
	if enc := q.Encode(); enc != n.last {
		n.last = enc
		n.reloader.Reload(q)
		return Result{Filter: f, Reloading: true}
	}

	totalPages := TotalPages(n.total, ps.PageSize)
	current := ClampPage(ps.CurrentPage, totalPages)

	// The loaded page is the whole local universe: paginate it as one page.
	res := Run(n.rows, FilterState{SearchTerm: f.SearchTerm}, PageState{PageSize: max(1, len(n.rows)), CurrentPage: 1}, n.windowSize)
	res.Filter = f
	res.Page.Page = current
	res.Page.TotalPages = totalPages
	res.Controls = BuildWindow(totalPages, current, n.windowSize)
	Apply(n.view, n.rows, res)
	return res
}

// EncodeQuery encodes the server-side part of the state. The search term
// stays local and is not encoded.
func EncodeQuery(f FilterState, ps PageState) url.Values {
	ps = ps.Normalize()
	q := url.Values{}
	q.Set(ParamSection, sectionProducts)
	if f.HasCategory() {
		q.Set(ParamCategory, strings.ToUpper(strings.TrimSpace(f.Category)))
	}
	q.Set(ParamSize, strconv.Itoa(ps.PageSize))
	q.Set(ParamPage, strconv.Itoa(ps.CurrentPage-1))
	return q
}

// ParseQuery decodes a query produced by EncodeQuery. Missing or invalid
// values fall back to defaults.
func ParseQuery(q url.Values) (FilterState, PageState) {
	f := FilterState{Category: strings.TrimSpace(q.Get(ParamCategory))}
	ps := PageState{}
	if n, err := strconv.Atoi(q.Get(ParamSize)); err == nil {
		ps.PageSize = n
	}
	if n, err := strconv.Atoi(q.Get(ParamPage)); err == nil {
		ps.CurrentPage = n + 1
	}
	return f, ps.Normalize()
}
