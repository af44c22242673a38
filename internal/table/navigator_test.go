package table

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordingReloader struct {
	queries []url.Values
}

func (r *recordingReloader) Reload(q url.Values) {
	r.queries = append(r.queries, q)
}

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter FilterState
		pages  PageState
		want   url.Values
	}{
		{
			name:   "no category",
			filter: FilterState{SearchTerm: "ignored"},
			pages:  PageState{PageSize: 20, CurrentPage: 1},
			want:   url.Values{"section": {"products"}, "size": {"20"}, "page": {"0"}},
		},
		{
			name:   "category upper-cased and trimmed",
			filter: FilterState{Category: " roupas "},
			pages:  PageState{PageSize: 5, CurrentPage: 3},
			want:   url.Values{"section": {"products"}, "category": {"ROUPAS"}, "size": {"5"}, "page": {"2"}},
		},
		{
			name:   "all sentinel dropped",
			filter: FilterState{Category: "ALL"},
			pages:  PageState{},
			want:   url.Values{"section": {"products"}, "size": {"10"}, "page": {"0"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, EncodeQuery(tt.filter, tt.pages)); diff != "" {
				t.Errorf("EncodeQuery mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseQuery(t *testing.T) {
	f, ps := ParseQuery(url.Values{"category": {"CALCADOS"}, "size": {"20"}, "page": {"2"}})
	if f.Category != "CALCADOS" || ps != (PageState{PageSize: 20, CurrentPage: 3}) {
		t.Errorf("ParseQuery = %+v %+v", f, ps)
	}

	f, ps = ParseQuery(url.Values{"size": {"nope"}, "page": {"-5"}})
	if f.HasCategory() || ps != (PageState{PageSize: DefaultPageSize, CurrentPage: 1}) {
		t.Errorf("ParseQuery with junk = %+v %+v", f, ps)
	}
}

func TestQueryNavigatorSearchStaysLocal(t *testing.T) {
	page := NewSnapshot([]map[string]string{
		{FieldName: "Camiseta", FieldCategory: "ROUPAS"},
		{FieldName: "Tênis", FieldCategory: "CALCADOS"},
		{FieldName: "Calça", FieldCategory: "ROUPAS"},
	})
	current := EncodeQuery(FilterState{}, PageState{PageSize: 3, CurrentPage: 2})
	view := newRecordingView()
	reloader := &recordingReloader{}
	nav := NewQueryNavigator(page, 10, current, view, 5, reloader)

	c := NewCoordinator(nav, WithState(ParseQuery(current)))
	res := c.Start()

	if len(reloader.queries) != 0 {
		t.Fatalf("initial render reloaded: %v", reloader.queries)
	}
	if res.Page.Page != 2 || res.Page.TotalPages != 4 {
		t.Errorf("page = %d/%d, want 2/4", res.Page.Page, res.Page.TotalPages)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, view.visibleIndexes()); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, pageNumbers(view.controls)); diff != "" {
		t.Errorf("pager mismatch (-want +got):\n%s", diff)
	}

	// Only the search term differs from the loaded query.
	c.filter.SearchTerm = "roupas"
	c.pages.CurrentPage = 2
	res = nav.Navigate(c.filter, c.pages)
	if res.Reloading {
		t.Fatal("search on the loaded page should not reload")
	}
	if diff := cmp.Diff([]int{0, 2}, view.visibleIndexes()); diff != "" {
		t.Errorf("visible after search mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryNavigatorReloadsOnCategoryAndPage(t *testing.T) {
	page := catalog(5, "A")
	current := EncodeQuery(FilterState{}, PageState{PageSize: 5, CurrentPage: 1})
	view := newRecordingView()
	reloader := &recordingReloader{}
	nav := NewQueryNavigator(page, 20, current, view, 5, reloader)
	c := NewCoordinator(nav, WithState(ParseQuery(current)))
	c.Start()

	c.Handle(Event{Kind: PageControlActivated, Page: 3})
	if len(reloader.queries) != 1 {
		t.Fatalf("reloads = %d, want 1", len(reloader.queries))
	}
	if got := reloader.queries[0].Get(ParamPage); got != "2" {
		t.Errorf("page param = %q, want 2", got)
	}
	if !c.Last().Reloading {
		t.Error("result should be marked reloading")
	}

	c.Handle(Event{Kind: CategoryChanged, Category: "a"})
	if len(reloader.queries) != 2 {
		t.Fatalf("reloads = %d, want 2", len(reloader.queries))
	}
	want := url.Values{"section": {"products"}, "category": {"A"}, "size": {"5"}, "page": {"0"}}
	if diff := cmp.Diff(want, reloader.queries[1]); diff != "" {
		t.Errorf("reload query mismatch (-want +got):\n%s", diff)
	}

	// Same query again is not a navigation.
	c.Handle(Event{Kind: CategoryChanged, Category: "A"})
	if len(reloader.queries) != 2 {
		t.Errorf("redundant category change reloaded (%d reloads)", len(reloader.queries))
	}
}
