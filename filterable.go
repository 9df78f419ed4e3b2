package fidata

// ColumnType is the type of a record field as seen by generic filters.
type ColumnType int

const (
	ColumnTypeString ColumnType = iota
	ColumnTypeNumerical
	ColumnTypeArray
	ColumnTypeUnknown
)

// Sort is a sort direction.
type Sort string

const (
	SortAscending  Sort = "asc"
	SortDescending Sort = "desc"
)
