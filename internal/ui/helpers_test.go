package ui

import (
	"fmt"
	"testing"
	"time"

	"shelf/internal/model"
	"shelf/internal/table"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

var testCategories = []string{"ACESSORIOS", "CALCADOS", "ROUPAS"}

// testCatalog returns 12 products, newest first: 5 ROUPAS, 5 CALCADOS and
// 2 ACESSORIOS.
func testCatalog() []model.Product {
	var out []model.Product
	add := func(category string, n int) {
		for i := 1; i <= n; i++ {
			out = append(out, model.Product{
				ID:         int64(100 - len(out)),
				Name:       fmt.Sprintf("%s item %d", category, i),
				Category:   category,
				PriceCents: int64(1000 * (len(out) + 1)),
				State:      model.StateActive,
			})
		}
	}
	add("ROUPAS", 5)
	add("CALCADOS", 5)
	add("ACESSORIOS", 2)
	return out
}

func testOptions() Options {
	return Options{
		Table: ProductsOptions{
			PageSize:   5,
			PageSizes:  []int{5, 10},
			WindowSize: 5,
			Debounce:   time.Millisecond,
		},
	}
}

// loadedModel returns a root model with the test catalog loaded.
func loadedModel(t *testing.T) Model {
	t.Helper()
	m := New(nil, testOptions(), zerolog.Nop())
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, model.ProductsLoadedMsg{Products: testCatalog(), Categories: testCategories})
	if m.products == nil {
		t.Fatal("products screen not created")
	}
	m.products.search.Cursor.SetMode(cursor.CursorStatic)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// drain runs cmd and every command it batches, returning the messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func searchFired(msgs []tea.Msg) []table.SearchFiredMsg {
	var out []table.SearchFiredMsg
	for _, msg := range msgs {
		if fired, ok := msg.(table.SearchFiredMsg); ok {
			out = append(out, fired)
		}
	}
	return out
}

func visibleNames(p *ProductsModel) []string {
	var out []string
	for _, prod := range p.VisibleProducts() {
		out = append(out, prod.Name)
	}
	return out
}

func controlLabels(controls []table.Control) []string {
	var out []string
	for _, c := range controls {
		out = append(out, c.Label())
	}
	return out
}
