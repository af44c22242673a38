package table

// Defaults used when the host supplies nothing usable.
const (
	DefaultPageSize   = 10
	DefaultWindowSize = 5
)

// PageState holds the page size and the 1-based current page.
type PageState struct {
	PageSize    int
	CurrentPage int
}

// Normalize replaces a non-positive page size with DefaultPageSize and a
// page below 1 with 1. The paginator never sees a non-positive size.
func (p PageState) Normalize() PageState {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	return p
}

// Page is the paginator output.
type Page struct {
	Page       int
	TotalPages int
	Rows       []Row
}

// TotalPages returns max(1, ceil(count/size)). size must be positive.
func TotalPages(count, size int) int {
	if count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// ClampPage bounds page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		page = 1
	}
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page
}

// Paginate slices filtered into the requested page, clamping the page into
// range. An empty input yields page 1 of 1 with no rows.
func Paginate(filtered []Row, ps PageState) Page {
	ps = ps.Normalize()
	total := TotalPages(len(filtered), ps.PageSize)
	page := ClampPage(ps.CurrentPage, total)

	start := (page - 1) * ps.PageSize
	end := min(start+ps.PageSize, len(filtered))
	rows := make([]Row, 0, end-start)
	rows = append(rows, filtered[start:end]...)

	return Page{Page: page, TotalPages: total, Rows: rows}
}
