package table

import "fmt"

// recordingView captures what the pipeline pushed to the host.
type recordingView struct {
	visible  map[int]bool
	calls    int
	empty    bool
	controls []Control
}

func newRecordingView() *recordingView {
	return &recordingView{visible: make(map[int]bool)}
}

func (v *recordingView) SetRowVisible(index int, visible bool) {
	v.visible[index] = visible
	v.calls++
}

func (v *recordingView) SetEmpty(empty bool) { v.empty = empty }

func (v *recordingView) SetControls(controls []Control) { v.controls = controls }

func (v *recordingView) visibleIndexes() []int {
	var out []int
	for i := 0; i < len(v.visible); i++ {
		if v.visible[i] {
			out = append(out, i)
		}
	}
	return out
}

// catalog builds n rows cycling through categories.
func catalog(n int, categories ...string) *Snapshot {
	records := make([]map[string]string, n)
	for i := range records {
		records[i] = map[string]string{
			FieldName:     fmt.Sprintf("Product %02d", i+1),
			FieldCategory: categories[i%len(categories)],
		}
	}
	return NewSnapshot(records)
}

func indexes(rows []Row) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Index)
	}
	return out
}

func pageNumbers(controls []Control) []int {
	var out []int
	for _, c := range controls {
		if c.Kind == ControlPage {
			out = append(out, c.Page)
		}
	}
	return out
}

func labels(controls []Control) []string {
	out := make([]string, 0, len(controls))
	for _, c := range controls {
		out = append(out, c.Label())
	}
	return out
}
