package table

import "strconv"

// ControlKind identifies a pager control.
type ControlKind int

const (
	ControlPrev ControlKind = iota
	ControlFirst
	ControlEllipsis
	ControlPage
	ControlLast
	ControlNext
)

// Control is one pager control. Page is the page the control navigates to;
// it is zero for ellipses.
type Control struct {
	Kind     ControlKind
	Page     int
	Active   bool
	Disabled bool
}

// Label returns the text shown for the control.
func (c Control) Label() string {
	switch c.Kind {
	case ControlPrev:
		return "‹"
	case ControlNext:
		return "›"
	case ControlEllipsis:
		return "…"
	default:
		return strconv.Itoa(c.Page)
	}
}

// Clickable reports whether activating the control should navigate.
func (c Control) Clickable() bool {
	return c.Kind != ControlEllipsis && !c.Disabled && !c.Active
}

// BuildWindow returns the pager controls for totalPages around currentPage.
// A single page needs no pager, so the result is empty when totalPages <= 1.
// windowSize <= 0 selects DefaultWindowSize.
func BuildWindow(totalPages, currentPage, windowSize int) []Control {
	if totalPages <= 1 {
		return nil
	}
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	currentPage = ClampPage(currentPage, totalPages)

	start := max(1, currentPage-windowSize/2)
	end := min(totalPages, start+windowSize-1)
	if end-start+1 < windowSize {
		start = max(1, end-windowSize+1)
	}

	controls := make([]Control, 0, windowSize+6)
	controls = append(controls, Control{
		Kind:     ControlPrev,
		Page:     currentPage - 1,
		Disabled: currentPage == 1,
	})

	if start > 1 {
		controls = append(controls, Control{Kind: ControlFirst, Page: 1})
		if start > 2 {
			controls = append(controls, Control{Kind: ControlEllipsis})
		}
	}

	for p := start; p <= end; p++ {
		controls = append(controls, Control{Kind: ControlPage, Page: p, Active: p == currentPage})
	}

	if end < totalPages {
		if end < totalPages-1 {
			controls = append(controls, Control{Kind: ControlEllipsis})
		}
		controls = append(controls, Control{Kind: ControlLast, Page: totalPages})
	}

	controls = append(controls, Control{
		Kind:     ControlNext,
		Page:     currentPage + 1,
		Disabled: currentPage == totalPages,
	})
	return controls
}
