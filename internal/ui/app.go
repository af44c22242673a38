package ui

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shelf/internal/db"
	"shelf/internal/model"
	"shelf/internal/table"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Options configures the root model.
type Options struct {
	// QueryMode loads one page at a time from the database instead of the
	// whole catalog.
	QueryMode bool
	Table     ProductsOptions
}

// Model is the root Bubble Tea model.
type Model struct {
	db   *sql.DB
	opts Options
	log  zerolog.Logger
	mode model.Mode

	width  int
	height int

	error       string
	info        string
	showingHelp bool
	pageJump    bool
	pageDigits  string

	products *ProductsModel

	keys       KeyMap
	searchKeys SearchKeyMap
}

// New creates a new root model.
func New(database *sql.DB, opts Options, logger zerolog.Logger) Model {
	opts.Table.Logger = logger
	return Model{
		db:         database,
		opts:       opts,
		log:        logger,
		mode:       model.ModeNav,
		keys:       DefaultKeyMap(),
		searchKeys: DefaultSearchKeyMap(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	if m.opts.QueryMode {
		f := table.FilterState{Category: m.opts.Table.Category}
		ps := table.PageState{PageSize: m.opts.Table.PageSize, CurrentPage: 1}
		var req uint64
		if m.products != nil {
			f = m.products.coord.Filter()
			ps = m.products.coord.Pages()
			req = m.products.nextRequest()
		}
		return loadProductPageCmd(m.db, table.EncodeQuery(f, ps.Normalize()), req)
	}
	return loadProductsCmd(m.db)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.mode == model.ModeSearch {
			return m.handleSearchMode(msg)
		}

		if m.pageJump {
			return m.handlePageJump(msg)
		}

		// Handle help toggle
		if key.Matches(msg, m.keys.Help) {
			m.showingHelp = !m.showingHelp
			return m, nil
		}

		if m.showingHelp {
			if msg.String() == "esc" {
				m.showingHelp = false
			}
			return m, nil
		}

		return m.handleNavMode(msg)

	case model.ErrorMsg:
		m.error = msg.Err.Error()
		m.log.Error().Err(msg.Err).Msg("load failed")
		if m.products != nil {
			m.products.loading = false
		}
		return m, nil

	case model.ProductsLoadedMsg:
		m.products = NewProductsModel(msg.Products, msg.Categories, m.tableOptions())
		m.error = ""
		m.log.Info().Int("products", len(msg.Products)).Msg("catalog loaded")
		return m, m.products.ResumeSearch(m.mode == model.ModeSearch)

	case model.ProductPageLoadedMsg:
		if m.products != nil && !m.products.Answers(msg) {
			m.log.Debug().
				Uint64("request", msg.Request).
				Str("query", msg.Query.Encode()).
				Msg("stale page dropped")
			return m, nil
		}
		database := m.db
		m.products = NewProductsPageModel(msg, m.tableOptions(), func(q url.Values, req uint64) tea.Cmd {
			return loadProductPageCmd(database, q, req)
		})
		m.error = ""
		m.log.Info().
			Int("products", len(msg.Products)).
			Int("total", msg.Total).
			Str("query", msg.Query.Encode()).
			Msg("page loaded")
		return m, m.products.ResumeSearch(m.mode == model.ModeSearch)

	case table.SearchFiredMsg:
		if m.products == nil {
			return m, nil
		}
		return m, m.products.ApplySearch(msg)
	}

	if m.mode == model.ModeSearch && m.products != nil {
		return m, m.products.UpdateSearch(msg)
	}
	return m, nil
}

// tableOptions carries the live search box and selectors over a reload.
func (m Model) tableOptions() ProductsOptions {
	opts := m.opts.Table
	if m.products != nil {
		opts.SearchTerm = m.products.SearchTerm()
		opts.Category = m.products.Category()
		opts.PageSize = m.products.PageSize()
		input := m.products.search
		opts.input = &input
	}
	return opts
}

func (m Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.products == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	switch {
	case key.Matches(msg, m.searchKeys.Accept):
		m.products.StopSearch()
		m.mode = model.ModeNav
		return m, nil
	case key.Matches(msg, m.searchKeys.Cancel):
		m.mode = model.ModeNav
		m.info = "Search cleared"
		return m, m.products.CancelSearch()
	}
	return m, m.products.UpdateSearch(msg)
}

func (m Model) handlePageJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pageJump = false
		m.pageDigits = ""
		m.info = ""
		return m, nil
	case "backspace":
		if m.pageDigits != "" {
			m.pageDigits = m.pageDigits[:len(m.pageDigits)-1]
		}
		m.info = "Go to page: " + m.pageDigits
		return m, nil
	case "enter":
		m.pageJump = false
		n, err := strconv.Atoi(m.pageDigits)
		m.pageDigits = ""
		if err != nil {
			m.info = ""
			return m, nil
		}
		return m.jumpToPage(n)
	}
	if s := msg.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		m.pageDigits += s
		m.info = "Go to page: " + m.pageDigits
	}
	return m, nil
}

func (m Model) jumpToPage(n int) (tea.Model, tea.Cmd) {
	if m.products.JumpToPage(n) {
		m.info = fmt.Sprintf("Page %d", m.products.CurrentPage())
	} else if n == m.products.CurrentPage() {
		m.info = fmt.Sprintf("Already on page %d", n)
	} else {
		m.info = fmt.Sprintf("Page %d unavailable", n)
	}
	return m, m.products.TakeCmd()
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Reload) {
		m.info = "Reloading…"
		return m, m.loadCmd()
	}

	t := m.currentTable()
	if t == nil {
		return m, nil
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return m.jumpToPage(int(s[0] - '0'))
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		t.MoveUp()
	case key.Matches(msg, m.keys.Down):
		t.MoveDown()
	case key.Matches(msg, m.keys.Search):
		m.mode = model.ModeSearch
		m.info = ""
		return m, m.products.StartSearch()
	case key.Matches(msg, m.keys.NextCategory):
		m.info = t.CycleCategory(1)
	case key.Matches(msg, m.keys.PrevCategory):
		m.info = t.CycleCategory(-1)
	case key.Matches(msg, m.keys.NextPageSize):
		m.info = t.CyclePageSize(1)
	case key.Matches(msg, m.keys.PrevPageSize):
		m.info = t.CyclePageSize(-1)
	case key.Matches(msg, m.keys.PrevPage):
		if !t.PrevPage() {
			m.info = "Already on the first page"
		}
	case key.Matches(msg, m.keys.NextPage):
		if !t.NextPage() {
			m.info = "Already on the last page"
		}
	case key.Matches(msg, m.keys.FirstPage):
		t.FirstPage()
	case key.Matches(msg, m.keys.LastPage):
		t.LastPage()
	case key.Matches(msg, m.keys.PageJump):
		m.pageJump = true
		m.pageDigits = ""
		m.info = "Go to page: (digits, enter to confirm, esc to cancel)"
		return m, nil
	case key.Matches(msg, m.keys.ClearFilters):
		if t.ClearFilters() {
			m.info = "Filters cleared"
		} else {
			m.info = "No filters to clear"
		}
	}
	return m, m.products.TakeCmd()
}

func (m *Model) currentTable() tableController {
	if m.products != nil {
		return m.products
	}
	return nil
}

// View renders the model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	breadcrumbParts := []string{"Products"}
	if m.products != nil && m.products.Category() != table.AllCategories {
		breadcrumbParts = append(breadcrumbParts, categoryLabel(m.products.Category()))
	}

	// Header: 1 line, Footer: 1 line, plus borders
	contentHeight := m.height - 4
	var banners []string
	if m.error != "" {
		banners = append(banners, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		banners = append(banners, SuccessStyle.Width(m.width).Render(m.info))
	}
	contentHeight -= len(banners)

	var content string
	if m.products != nil {
		content = m.products.View(m.width, contentHeight)
	} else {
		content = EmptyStateStyle.Render("Loading products…")
	}

	header := renderHeader(breadcrumbParts, m.width)
	footer := RenderHelp(m.mode, m.pageJump, m.width)

	// Ensure content fills the available height to anchor footer at bottom
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(max(0, contentHeight)).
		Render(content)

	parts := append([]string{header}, banners...)
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderHeader(breadcrumbParts []string, width int) string {
	// Left side: app name + breadcrumb
	title := HeaderStyle.Render("shelf")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	right := BreadcrumbStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}

func loadProductsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		products, err := db.ListProducts(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		categories, err := db.ListCategories(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ProductsLoadedMsg{Products: products, Categories: categories}
	}
}

// loadProductPageCmd loads the page q asks for. The page is clamped to the
// category's page count, and the returned query reflects what was loaded.
// req is echoed back so the caller can drop answers it no longer wants.
func loadProductPageCmd(database *sql.DB, q url.Values, req uint64) tea.Cmd {
	return func() tea.Msg {
		f, ps := table.ParseQuery(q)
		category := f.Category
		if !f.HasCategory() {
			category = ""
		}
		total, err := db.CountProducts(database, category)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		ps.CurrentPage = table.ClampPage(ps.CurrentPage, table.TotalPages(total, ps.PageSize))
		products, err := db.ListProductsPage(database, category, ps.CurrentPage, ps.PageSize)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		categories, err := db.ListCategories(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ProductPageLoadedMsg{
			Products:   products,
			Categories: categories,
			Total:      total,
			Query:      table.EncodeQuery(f, ps),
			Request:    req,
		}
	}
}
