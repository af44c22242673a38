package ui

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"shelf/internal/model"
	"shelf/internal/table"
	"shelf/internal/util"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const fieldPrice = "price"
const fieldState = "state"

type productColumn struct {
	key   string
	label string
	width int
}

// ProductsOptions configures a products screen.
type ProductsOptions struct {
	PageSize   int
	PageSizes  []int
	WindowSize int
	Debounce   time.Duration
	Logger     zerolog.Logger

	// Initial filter, applied without going through the event guard.
	SearchTerm string
	Category   string

	// input carries the search box over a rebuild, including text not yet
	// applied and its focus.
	input *textinput.Model
}

// ProductsModel represents the products table screen. It is the host view
// for the table coordinator: the coordinator decides which rows are visible
// and which pager controls exist, this model only draws them.
type ProductsModel struct {
	products []model.Product
	snapshot *table.Snapshot
	coord    *table.Coordinator
	log      zerolog.Logger

	visible  []bool
	empty    bool
	controls []table.Control

	categories  []string
	categoryIdx int
	pageSizes   []int
	pageSizeIdx int

	cursor int
	search textinput.Model
	queued []tea.Cmd

	// Query mode only.
	total         int
	reload        func(q url.Values, request uint64) tea.Cmd
	pendingReload url.Values
	loading       bool
	lastRequest   uint64

	columns []productColumn
}

func newProductsModel(products []model.Product, categories []string, opts ProductsOptions) *ProductsModel {
	records := make([]map[string]string, len(products))
	for i, p := range products {
		records[i] = map[string]string{
			table.FieldName:     p.Name,
			table.FieldCategory: p.Category,
			fieldPrice:          util.FormatPrice(p.PriceCents),
			fieldState:          p.State,
		}
	}
	snap := table.NewSnapshot(records)
	if len(categories) == 0 {
		categories = snap.Categories()
	}

	var ti textinput.Model
	if opts.input != nil {
		ti = *opts.input
	} else {
		ti = textinput.New()
		ti.Placeholder = "name or category"
		ti.Prompt = "/ "
		ti.CharLimit = 80
		ti.SetValue(opts.SearchTerm)
	}

	m := &ProductsModel{
		products:   append([]model.Product(nil), products...),
		snapshot:   snap,
		log:        opts.Logger,
		visible:    make([]bool, snap.Len()),
		categories: append([]string{table.AllCategories}, categories...),
		search:     ti,
		columns: []productColumn{
			{key: table.FieldName, label: "name", width: 28},
			{key: table.FieldCategory, label: "category", width: 14},
			{key: fieldPrice, label: "price", width: 14},
			{key: fieldState, label: "state", width: 10},
		},
	}
	m.pageSizes, m.pageSizeIdx = pageSizeOptions(opts.PageSizes, opts.PageSize)
	m.categoryIdx = m.categoryIndex(opts.Category)
	if m.categoryIdx == 0 && (table.FilterState{Category: opts.Category}).HasCategory() {
		// Keep a selected category that has no products left.
		m.categories = append(m.categories, strings.ToUpper(strings.TrimSpace(opts.Category)))
		m.categoryIdx = len(m.categories) - 1
	}
	return m
}

// NewProductsModel creates a products screen that filters and paginates the
// whole snapshot in memory.
func NewProductsModel(products []model.Product, categories []string, opts ProductsOptions) *ProductsModel {
	m := newProductsModel(products, categories, opts)
	nav := table.NewLocalNavigator(m.snapshot, m, opts.WindowSize)
	m.coord = table.NewCoordinator(nav, m.coordinatorOptions(opts, 1)...)
	m.coord.Start()
	m.clampCursor()
	return m
}

// NewProductsPageModel creates a products screen over one page loaded for
// msg.Query. Category, page size and page changes ask reload for a new page.
func NewProductsPageModel(msg model.ProductPageLoadedMsg, opts ProductsOptions, reload func(q url.Values, request uint64) tea.Cmd) *ProductsModel {
	f, ps := table.ParseQuery(msg.Query)
	opts.Category = f.Category
	opts.PageSize = ps.PageSize

	m := newProductsModel(msg.Products, msg.Categories, opts)
	m.total = msg.Total
	m.reload = reload
	m.lastRequest = msg.Request
	nav := table.NewQueryNavigator(m.snapshot, msg.Total, msg.Query, m, opts.WindowSize, m)
	m.coord = table.NewCoordinator(nav, m.coordinatorOptions(opts, ps.CurrentPage)...)
	m.coord.Start()
	m.clampCursor()

	// The selector now shows the loaded category. Echo it the way a
	// programmatic value change would; the coordinator ignores it.
	m.selectCategory(m.categoryIdx, table.OriginProgrammatic)
	return m
}

func (m *ProductsModel) coordinatorOptions(opts ProductsOptions, page int) []table.Option {
	category := m.categories[m.categoryIdx]
	return []table.Option{
		table.WithDebounce(opts.Debounce),
		table.WithLogger(opts.Logger),
		table.WithState(
			table.FilterState{SearchTerm: opts.SearchTerm, Category: category},
			table.PageState{PageSize: m.pageSizes[m.pageSizeIdx], CurrentPage: page},
		),
	}
}

// pageSizeOptions returns the sorted selectable sizes, always including
// current, and the index of current.
func pageSizeOptions(sizes []int, current int) ([]int, int) {
	if current <= 0 {
		current = table.DefaultPageSize
	}
	out := make([]int, 0, len(sizes)+1)
	seen := make(map[int]bool)
	for _, s := range append(append([]int(nil), sizes...), current) {
		if s > 0 && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Ints(out)
	return out, sort.SearchInts(out, current)
}

func (m *ProductsModel) categoryIndex(category string) int {
	category = strings.TrimSpace(category)
	for i, c := range m.categories {
		if strings.EqualFold(c, category) {
			return i
		}
	}
	return 0
}

// SetRowVisible implements table.View.
func (m *ProductsModel) SetRowVisible(index int, visible bool) {
	m.visible[index] = visible
}

// SetEmpty implements table.View.
func (m *ProductsModel) SetEmpty(empty bool) {
	m.empty = empty
}

// SetControls implements table.View.
func (m *ProductsModel) SetControls(controls []table.Control) {
	m.controls = controls
}

// Reload implements table.Reloader. The load runs as a command once the
// current event has been handled.
func (m *ProductsModel) Reload(q url.Values) {
	m.pendingReload = q
	m.loading = true
	m.log.Info().Str("query", q.Encode()).Msg("reloading products page")
}

func (m *ProductsModel) takeReload() tea.Cmd {
	if m.pendingReload == nil || m.reload == nil {
		return nil
	}
	q := m.pendingReload
	m.pendingReload = nil
	return m.reload(q, m.nextRequest())
}

// nextRequest numbers a new page request. Pages answering older requests
// are dropped.
func (m *ProductsModel) nextRequest() uint64 {
	m.lastRequest++
	return m.lastRequest
}

// Answers reports whether msg is the page for the latest request.
func (m *ProductsModel) Answers(msg model.ProductPageLoadedMsg) bool {
	return m.reload == nil || msg.Request == m.lastRequest
}

// ResumeSearch restores search mode after a rebuild: the carried box keeps
// focus, and text that was typed but not yet applied is debounced again.
func (m *ProductsModel) ResumeSearch(searching bool) tea.Cmd {
	var cmds []tea.Cmd
	if searching && !m.search.Focused() {
		cmds = append(cmds, m.StartSearch())
	}
	if v := m.search.Value(); v != m.SearchTerm() {
		cmds = append(cmds, m.handle(table.Event{Kind: table.SearchEdited, Term: v}))
	}
	return tea.Batch(cmds...)
}

func (m *ProductsModel) handle(ev table.Event) tea.Cmd {
	cmd := m.coord.Handle(ev)
	m.clampCursor()
	return tea.Batch(cmd, m.takeReload())
}

// ApplySearch applies a debounced search message.
func (m *ProductsModel) ApplySearch(msg table.SearchFiredMsg) tea.Cmd {
	if !m.coord.Fire(msg) {
		return nil
	}
	m.log.Debug().Str("search", msg.Term).Int("runs", m.coord.Runs()).Msg("search applied")
	m.cursor = 0
	m.clampCursor()
	return m.takeReload()
}

// StartSearch focuses the search box.
func (m *ProductsModel) StartSearch() tea.Cmd {
	return m.search.Focus()
}

// StopSearch leaves the search box, keeping its value.
func (m *ProductsModel) StopSearch() {
	m.search.Blur()
}

// CancelSearch clears the search box and schedules the empty search.
func (m *ProductsModel) CancelSearch() tea.Cmd {
	m.search.Blur()
	if m.search.Value() == "" && m.coord.Filter().SearchTerm == "" {
		m.coord.Cancel()
		return nil
	}
	m.search.SetValue("")
	return m.handle(table.Event{Kind: table.SearchEdited, Term: ""})
}

// UpdateSearch forwards a key to the search box and debounces the edit.
func (m *ProductsModel) UpdateSearch(msg tea.Msg) tea.Cmd {
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.handle(table.Event{Kind: table.SearchEdited, Term: m.search.Value()}))
}

func (m *ProductsModel) selectCategory(idx int, origin table.Origin) tea.Cmd {
	m.categoryIdx = idx
	return m.handle(table.Event{
		Kind:     table.CategoryChanged,
		Origin:   origin,
		Category: m.categories[idx],
	})
}

// CycleCategory moves the category selector by step and applies it.
func (m *ProductsModel) CycleCategory(step int) string {
	n := len(m.categories)
	idx := ((m.categoryIdx+step)%n + n) % n
	m.pendingCmd(m.selectCategory(idx, table.OriginUser))
	return "Category: " + categoryLabel(m.categories[idx])
}

// CyclePageSize moves the page-size selector by step and applies it.
func (m *ProductsModel) CyclePageSize(step int) string {
	n := len(m.pageSizes)
	m.pageSizeIdx = ((m.pageSizeIdx+step)%n + n) % n
	size := m.pageSizes[m.pageSizeIdx]
	m.pendingCmd(m.handle(table.Event{Kind: table.PageSizeChanged, PageSize: size}))
	return fmt.Sprintf("Page size: %d", size)
}

// ActivateControl navigates to the page a pager control points at.
func (m *ProductsModel) ActivateControl(c table.Control) bool {
	if m.loading || !c.Clickable() {
		return false
	}
	m.pendingCmd(m.handle(table.Event{Kind: table.PageControlActivated, Page: c.Page}))
	m.cursor = 0
	return true
}

// PrevPage activates the pager's previous control.
func (m *ProductsModel) PrevPage() bool {
	if len(m.controls) == 0 {
		return false
	}
	return m.ActivateControl(m.controls[0])
}

// NextPage activates the pager's next control.
func (m *ProductsModel) NextPage() bool {
	if len(m.controls) == 0 {
		return false
	}
	return m.ActivateControl(m.controls[len(m.controls)-1])
}

// FirstPage jumps to page 1.
func (m *ProductsModel) FirstPage() bool {
	return m.JumpToPage(1)
}

// LastPage jumps to the last page.
func (m *ProductsModel) LastPage() bool {
	return m.JumpToPage(m.TotalPages())
}

// JumpToPage activates page n if it exists and is not already current.
func (m *ProductsModel) JumpToPage(n int) bool {
	if n < 1 || n > m.TotalPages() || n == m.CurrentPage() {
		return false
	}
	return m.ActivateControl(table.Control{Kind: table.ControlPage, Page: n})
}

// ClearFilters resets search and category.
func (m *ProductsModel) ClearFilters() bool {
	f := m.coord.Filter()
	if f.SearchTerm == "" && !f.HasCategory() && m.search.Value() == "" {
		return false
	}
	m.coord.Cancel()
	m.search.SetValue("")
	if m.coord.Filter().SearchTerm != "" {
		m.pendingCmd(m.handle(table.Event{Kind: table.SearchEdited, Term: ""}))
	}
	if f.HasCategory() {
		m.pendingCmd(m.selectCategory(0, table.OriginUser))
	}
	return true
}

// pendingCmd stores a command produced by a key action so the root model
// can return it; tableController methods only report status.
func (m *ProductsModel) pendingCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	m.queued = append(m.queued, cmd)
}

// TakeCmd returns the commands queued by the last actions.
func (m *ProductsModel) TakeCmd() tea.Cmd {
	cmds := m.queued
	m.queued = nil
	return tea.Batch(cmds...)
}

// CurrentPage returns the 1-based current page.
func (m *ProductsModel) CurrentPage() int {
	return m.coord.Pages().CurrentPage
}

// TotalPages returns the number of pages for the current filter.
func (m *ProductsModel) TotalPages() int {
	if last := m.coord.Last(); !last.Reloading && last.Page.TotalPages > 0 {
		return last.Page.TotalPages
	}
	return 1
}

// VisibleProducts returns the products drawn on the current page.
func (m *ProductsModel) VisibleProducts() []model.Product {
	var out []model.Product
	for i, v := range m.visible {
		if v {
			out = append(out, m.products[i])
		}
	}
	return out
}

// Empty reports whether the empty-state indicator is shown.
func (m *ProductsModel) Empty() bool {
	return m.empty
}

// Controls returns the current pager controls.
func (m *ProductsModel) Controls() []table.Control {
	return m.controls
}

// SearchTerm returns the applied search term.
func (m *ProductsModel) SearchTerm() string {
	return m.coord.Filter().SearchTerm
}

// Category returns the selected category, or AllCategories.
func (m *ProductsModel) Category() string {
	return m.categories[m.categoryIdx]
}

// PageSize returns the selected page size.
func (m *ProductsModel) PageSize() int {
	return m.coord.Pages().PageSize
}

func (m *ProductsModel) clampCursor() {
	n := 0
	for _, v := range m.visible {
		if v {
			n++
		}
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// MoveDown moves the cursor down within the page.
func (m *ProductsModel) MoveDown() {
	m.cursor++
	m.clampCursor()
}

// MoveUp moves the cursor up within the page.
func (m *ProductsModel) MoveUp() {
	m.cursor--
	m.clampCursor()
}

// TableMeta summarizes the active filters for the status bar.
func (m *ProductsModel) TableMeta() string {
	parts := []string{fmt.Sprintf("page %d/%d", m.CurrentPage(), m.TotalPages())}
	parts = append(parts, "category "+categoryLabel(m.Category()))
	parts = append(parts, fmt.Sprintf("size %d", m.PageSize()))
	if term := m.SearchTerm(); term != "" {
		parts = append(parts, fmt.Sprintf("search %q", term))
	}
	if m.coord.State() == table.PendingSearch {
		parts = append(parts, "searching…")
	}
	if m.loading {
		parts = append(parts, "loading…")
	}
	return strings.Join(parts, "  ·  ")
}

func categoryLabel(c string) string {
	if strings.EqualFold(c, table.AllCategories) || c == "" {
		return "all"
	}
	return util.TitleCase(c)
}

// View renders the products screen.
func (m *ProductsModel) View(width, height int) string {
	var top []string
	if m.search.Focused() || m.search.Value() != "" {
		top = append(top, InputStyle.Width(max(0, width-2)).Render(m.search.View()))
	}

	status := StatusBarStyle.Render(m.statusLine())

	if m.snapshot.Len() == 0 && m.reload == nil {
		empty := EmptyStateStyle.Width(width).Render("    No products yet.\n    Run  shelf seed  to add demo products.")
		return lipgloss.JoinVertical(lipgloss.Left, append(top, empty, status)...)
	}
	if m.empty {
		empty := EmptyStateStyle.Width(width).Render("    No products match the current filters.\n    Press  x  to clear them.")
		return lipgloss.JoinVertical(lipgloss.Left, append(top, empty, status)...)
	}

	widths, headers := m.layout(width)
	header := renderTableRow(headers, widths, TableHeaderStyle)
	divider := renderTableDivider(widths)

	var rows []string
	shown := 0
	for i, v := range m.visible {
		if !v {
			continue
		}
		row := m.snapshot.Row(i)
		style := NormalRowStyle
		if shown == m.cursor {
			style = SelectedRowStyle
		}
		state := row.Field(fieldState)
		stateCell := lipgloss.NewStyle().Foreground(ColorGreen).Render(state)
		if state != model.StateActive {
			stateCell = lipgloss.NewStyle().Foreground(ColorMuted).Render(state)
		}
		cells := []string{
			util.TruncateString(row.Name(), widths[0]-2),
			util.TruncateString(util.TitleCase(row.Category()), widths[1]-2),
			row.Field(fieldPrice),
			stateCell,
		}
		rows = append(rows, renderTableRow(cells, widths, style))
		shown++
	}

	content := lipgloss.JoinVertical(lipgloss.Left, append(top, header, divider, strings.Join(rows, "\n"))...)
	pager := renderPager(m.controls, width)

	footerHeight := lipgloss.Height(status)
	if pager != "" {
		footerHeight += lipgloss.Height(pager)
	}
	spacer := lipgloss.NewStyle().Height(max(0, height-lipgloss.Height(content)-footerHeight)).Render("")

	parts := []string{content, spacer}
	if pager != "" {
		parts = append(parts, pager)
	}
	parts = append(parts, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *ProductsModel) layout(width int) ([]int, []string) {
	widths := make([]int, 0, len(m.columns))
	headers := make([]string, 0, len(m.columns))
	total := 0
	for _, col := range m.columns {
		label := formatHeaderLabel(col.label)
		w := max(col.width+2, lipgloss.Width(label)+4)
		total += w
		widths = append(widths, w)
		headers = append(headers, label)
	}
	if extra := width - total - 2; extra > 0 {
		widths[0] += extra
	}
	return widths, headers
}

func (m *ProductsModel) statusLine() string {
	matched := 0
	if last := m.coord.Last(); !last.Reloading {
		matched = last.Filtered
	}
	count := fmt.Sprintf("%d products", matched)
	if m.reload != nil {
		count = fmt.Sprintf("%d products (%d on this page)", m.total, matched)
	} else if matched != m.snapshot.Len() {
		count = fmt.Sprintf("%d/%d products", matched, m.snapshot.Len())
	}
	return count + "  ·  " + m.TableMeta()
}
