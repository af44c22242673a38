package table

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

// countingNavigator wraps a navigator and records every call.
type countingNavigator struct {
	inner Navigator
	calls []FilterState
}

func (n *countingNavigator) Navigate(f FilterState, ps PageState) Result {
	n.calls = append(n.calls, f)
	return n.inner.Navigate(f, ps)
}

func newLocal(snap *Snapshot, opts ...Option) (*Coordinator, *recordingView, *countingNavigator) {
	view := newRecordingView()
	nav := &countingNavigator{inner: NewLocalNavigator(snap, view, DefaultWindowSize)}
	c := NewCoordinator(nav, opts...)
	c.Start()
	return c, view, nav
}

func fire(t *testing.T, cmd tea.Cmd) SearchFiredMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected debounce command, got nil")
	}
	raw := cmd()
	msg, ok := raw.(SearchFiredMsg)
	if !ok {
		t.Fatalf("debounce command produced %T, want SearchFiredMsg", raw)
	}
	return msg
}

func TestCoordinatorStartsWithDefaults(t *testing.T) {
	c, view, _ := newLocal(catalog(12, "A", "B", "C"))

	if c.Filter() != (FilterState{}) {
		t.Errorf("initial filter = %+v, want zero", c.Filter())
	}
	if got := c.Pages(); got.CurrentPage != 1 || got.PageSize != DefaultPageSize {
		t.Errorf("initial pages = %+v", got)
	}
	if view.calls != 12 {
		t.Errorf("SetRowVisible called %d times, want once per row", view.calls)
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle", c.State())
	}
}

func TestCoordinatorCategoryResetsPage(t *testing.T) {
	records := make([]map[string]string, 0, 30)
	for i := 0; i < 28; i++ {
		records = append(records, map[string]string{FieldName: "wide", FieldCategory: "A"})
	}
	records = append(records,
		map[string]string{FieldName: "narrow", FieldCategory: "B"},
		map[string]string{FieldName: "narrow", FieldCategory: "B"},
	)

	tests := []struct {
		name     string
		category string
	}{
		{name: "narrows to one page", category: "B"},
		{name: "still many pages", category: "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newLocal(NewSnapshot(records), WithState(FilterState{}, PageState{PageSize: 2, CurrentPage: 1}))
			c.Handle(Event{Kind: PageControlActivated, Page: 5})
			if got := c.Pages().CurrentPage; got != 5 {
				t.Fatalf("page after activation = %d, want 5", got)
			}

			c.Handle(Event{Kind: CategoryChanged, Category: tt.category})
			if got := c.Pages().CurrentPage; got != 1 {
				t.Errorf("page after category change = %d, want 1", got)
			}
		})
	}
}

func TestCoordinatorPageSizeResetsPage(t *testing.T) {
	c, _, _ := newLocal(catalog(40, "A"), WithState(FilterState{}, PageState{PageSize: 5, CurrentPage: 1}))
	c.Handle(Event{Kind: PageControlActivated, Page: 4})
	c.Handle(Event{Kind: PageSizeChanged, PageSize: 10})

	if got := c.Pages(); got.CurrentPage != 1 || got.PageSize != 10 {
		t.Errorf("pages = %+v, want size 10 page 1", got)
	}
}

func TestCoordinatorPageSizeRejectsNonPositive(t *testing.T) {
	c, _, _ := newLocal(catalog(40, "A"))
	c.Handle(Event{Kind: PageSizeChanged, PageSize: 0})
	if got := c.Pages().PageSize; got != DefaultPageSize {
		t.Errorf("page size = %d, want default %d", got, DefaultPageSize)
	}
	c.Handle(Event{Kind: PageSizeChanged, PageSize: -7})
	if got := c.Pages().PageSize; got != DefaultPageSize {
		t.Errorf("page size = %d, want default %d", got, DefaultPageSize)
	}
}

func TestCoordinatorPageActivationClamps(t *testing.T) {
	c, _, _ := newLocal(catalog(12, "A"), WithState(FilterState{}, PageState{PageSize: 5}))
	c.Handle(Event{Kind: PageControlActivated, Page: 99})
	if got := c.Pages().CurrentPage; got != 3 {
		t.Errorf("page = %d, want clamped 3", got)
	}
	c.Handle(Event{Kind: PageControlActivated, Page: -1})
	if got := c.Pages().CurrentPage; got != 1 {
		t.Errorf("page = %d, want clamped 1", got)
	}
}

func TestCoordinatorPageActivationKeepsFilter(t *testing.T) {
	c, _, _ := newLocal(catalog(30, "A", "B"), WithState(FilterState{Category: "A"}, PageState{PageSize: 5}))
	c.Handle(Event{Kind: PageControlActivated, Page: 2})
	if got := c.Filter().Category; got != "A" {
		t.Errorf("category = %q, want A", got)
	}
	if got := c.Pages().CurrentPage; got != 2 {
		t.Errorf("page = %d, want 2", got)
	}
}

func TestCoordinatorIgnoresProgrammaticEvents(t *testing.T) {
	c, _, nav := newLocal(catalog(12, "A", "B"))
	runs := len(nav.calls)

	c.Handle(Event{Kind: CategoryChanged, Category: "A", Origin: OriginProgrammatic})
	c.Handle(Event{Kind: PageSizeChanged, PageSize: 3, Origin: OriginProgrammatic})

	if len(nav.calls) != runs {
		t.Errorf("programmatic events ran the pipeline %d times", len(nav.calls)-runs)
	}
	if c.Filter().Category != "" || c.Pages().PageSize != DefaultPageSize {
		t.Errorf("state changed by programmatic events: %+v %+v", c.Filter(), c.Pages())
	}
}

func TestCoordinatorCustomGenuinePredicate(t *testing.T) {
	c, _, _ := newLocal(catalog(12, "A", "B"), WithGenuine(func(Event) bool { return true }))
	c.Handle(Event{Kind: CategoryChanged, Category: "B", Origin: OriginProgrammatic})
	if got := c.Filter().Category; got != "B" {
		t.Errorf("category = %q, want B", got)
	}
}

func TestCoordinatorDebounceCollapse(t *testing.T) {
	c, _, nav := newLocal(catalog(12, "Alpha", "Beta", "Gamma"), WithDebounce(time.Millisecond))
	runs := len(nav.calls)

	cmds := []tea.Cmd{
		c.Handle(Event{Kind: SearchEdited, Term: "a"}),
		c.Handle(Event{Kind: SearchEdited, Term: "al"}),
		c.Handle(Event{Kind: SearchEdited, Term: "alp"}),
	}
	if c.State() != PendingSearch {
		t.Fatalf("state = %v, want PendingSearch", c.State())
	}
	if len(nav.calls) != runs {
		t.Fatal("search edit ran the pipeline before the debounce elapsed")
	}

	applied := 0
	for _, cmd := range cmds {
		if c.Fire(fire(t, cmd)) {
			applied++
		}
	}

	if applied != 1 {
		t.Errorf("applied %d debounced searches, want 1", applied)
	}
	if got := len(nav.calls) - runs; got != 1 {
		t.Fatalf("pipeline ran %d times, want 1", got)
	}
	if got := nav.calls[len(nav.calls)-1].SearchTerm; got != "alp" {
		t.Errorf("search term = %q, want last edit %q", got, "alp")
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle", c.State())
	}
}

func TestCoordinatorSearchResetsPage(t *testing.T) {
	c, _, _ := newLocal(catalog(30, "A"), WithState(FilterState{}, PageState{PageSize: 5}), WithDebounce(time.Millisecond))
	c.Handle(Event{Kind: PageControlActivated, Page: 4})

	c.Fire(fire(t, c.Handle(Event{Kind: SearchEdited, Term: "product"})))
	if got := c.Pages().CurrentPage; got != 1 {
		t.Errorf("page after search = %d, want 1", got)
	}
}

func TestCoordinatorCancelDropsPendingSearch(t *testing.T) {
	c, _, _ := newLocal(catalog(5, "A"), WithDebounce(time.Millisecond))
	cmd := c.Handle(Event{Kind: SearchEdited, Term: "x"})
	c.Cancel()
	if c.Fire(fire(t, cmd)) {
		t.Error("cancelled search was applied")
	}
	if c.Filter().SearchTerm != "" {
		t.Errorf("search term = %q, want empty", c.Filter().SearchTerm)
	}
}

func TestCoordinatorIgnoresSearchArmedByAnotherCoordinator(t *testing.T) {
	old, _, _ := newLocal(catalog(5, "A"), WithDebounce(time.Millisecond))
	stale := fire(t, old.Handle(Event{Kind: SearchEdited, Term: "stale"}))

	c, _, _ := newLocal(catalog(5, "A"), WithDebounce(time.Millisecond))
	current := c.Handle(Event{Kind: SearchEdited, Term: "fresh"})

	if c.Fire(stale) {
		t.Fatal("search armed by a replaced coordinator was applied")
	}
	if !c.Fire(fire(t, current)) {
		t.Fatal("current search was dropped")
	}
	if got := c.Filter().SearchTerm; got != "fresh" {
		t.Errorf("search term = %q, want fresh", got)
	}
}

func TestEndToEnd(t *testing.T) {
	records := make([]map[string]string, 0, 12)
	categories := []string{"ROUPAS", "ROUPAS", "ROUPAS", "ROUPAS", "ROUPAS", "CALCADOS", "CALCADOS",
		"ACESSORIOS", "ACESSORIOS", "ACESSORIOS", "ACESSORIOS", "ACESSORIOS"}
	for _, cat := range categories {
		records = append(records, map[string]string{FieldName: "item", FieldCategory: cat})
	}
	snap := NewSnapshot(records)
	c, view, _ := newLocal(snap, WithState(FilterState{SearchTerm: "", Category: AllCategories}, PageState{PageSize: 5}))

	if got := c.Last().Page.TotalPages; got != 3 {
		t.Fatalf("total pages = %d, want 3", got)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, view.visibleIndexes()); diff != "" {
		t.Errorf("visible rows mismatch (-want +got):\n%s", diff)
	}
	if len(view.controls) == 0 {
		t.Error("expected pager controls for 3 pages")
	}

	c.Handle(Event{Kind: CategoryChanged, Category: "calcados"})
	res := c.Last()
	if res.Page.TotalPages != 1 || c.Pages().CurrentPage != 1 {
		t.Errorf("after 2-row category: page %d/%d, want 1/1", c.Pages().CurrentPage, res.Page.TotalPages)
	}
	if len(res.Page.Rows) != 2 {
		t.Errorf("visible slice = %d rows, want 2", len(res.Page.Rows))
	}
	if diff := cmp.Diff([]int{5, 6}, view.visibleIndexes()); diff != "" {
		t.Errorf("visible rows mismatch (-want +got):\n%s", diff)
	}
	if view.empty {
		t.Error("empty-state indicator shown for non-empty result")
	}
	if len(view.controls) != 0 {
		t.Errorf("single page should hide pager, got %v", labels(view.controls))
	}

	c.Handle(Event{Kind: CategoryChanged, Category: "ELETRONICOS"})
	res = c.Last()
	if res.Page.TotalPages != 1 || c.Pages().CurrentPage != 1 {
		t.Errorf("after empty category: page %d/%d, want 1/1", c.Pages().CurrentPage, res.Page.TotalPages)
	}
	if len(res.Page.Rows) != 0 {
		t.Errorf("visible slice = %d rows, want 0", len(res.Page.Rows))
	}
	if !view.empty {
		t.Error("empty-state indicator hidden for empty result")
	}
	if got := view.visibleIndexes(); len(got) != 0 {
		t.Errorf("rows still visible: %v", got)
	}
}
