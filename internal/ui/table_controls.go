package ui

// tableController is the set of table actions the root model routes keys
// to.
type tableController interface {
	MoveUp()
	MoveDown()
	CycleCategory(step int) string
	CyclePageSize(step int) string
	PrevPage() bool
	NextPage() bool
	FirstPage() bool
	LastPage() bool
	JumpToPage(n int) bool
	ClearFilters() bool
	TableMeta() string
}
