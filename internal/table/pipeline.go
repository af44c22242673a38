package table

// View is the host side of the pipeline. Every run calls SetRowVisible once
// for every snapshot row, then SetEmpty and SetControls.
type View interface {
	SetRowVisible(index int, visible bool)
	SetEmpty(empty bool)
	SetControls(controls []Control)
}

// Result describes one pipeline run.
type Result struct {
	Filter   FilterState
	Page     Page
	Filtered int
	Controls []Control

	// Reloading is set when the navigator handed the request to the host
	// instead of rendering it. Page and Controls are zero in that case.
	Reloading bool
}

// Empty reports whether the run produced no matching rows.
func (r Result) Empty() bool {
	return !r.Reloading && r.Filtered == 0
}

// Run evaluates the filter, paginates and builds the pager window.
func Run(rows []Row, f FilterState, ps PageState, windowSize int) Result {
	filtered := Evaluate(rows, f)
	page := Paginate(filtered, ps)
	return Result{
		Filter:   f,
		Page:     page,
		Filtered: len(filtered),
		Controls: BuildWindow(page.TotalPages, page.Page, windowSize),
	}
}

// Apply pushes a result to the view. Visibility is recomputed for every row
// from the result alone, never patched from the previous pass.
func Apply(v View, rows []Row, r Result) {
	visible := make(map[int]bool, len(r.Page.Rows))
	for _, row := range r.Page.Rows {
		visible[row.Index] = true
	}
	for _, row := range rows {
		v.SetRowVisible(row.Index, visible[row.Index])
	}
	v.SetEmpty(r.Empty())
	v.SetControls(r.Controls)
}
