// Package filter applies generic, user-supplied filters to in-memory records.
package filter

import (
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/fwojciec/fidata"
)

// LinkOperator determines how to chain multiple filters together, 'AND' and 'OR'
// are supported.
type LinkOperator string

const (
	LinkOperatorAnd LinkOperator = "and"
	LinkOperatorOr  LinkOperator = "or"
)

// Operator defines an operator used for filter items such as equals, contains, etc,
// as well as the arithmetic operators like ==, !=, >, etc.
type Operator string

const (
	OperatorContains   Operator = "contains"
	OperatorEquals     Operator = "equals"
	OperatorStartsWith Operator = "starts with"
	OperatorEndsWith   Operator = "ends with"
	OperatorIsEmpty    Operator = "is empty"
	OperatorIsNotEmpty Operator = "is not empty"

	OperatorArithmeticEquals              Operator = "="
	OperatorArithmeticNotEquals           Operator = "!="
	OperatorArithmeticGreaterThan         Operator = ">"
	OperatorArithmeticGreaterThanOrEquals Operator = ">="
	OperatorArithmeticLessThan            Operator = "<"
	OperatorArithmeticLessThanOrEquals    Operator = "<="
)

// Filter is a collection of Item, with a link operator. It is used to chain
// filters together, for example: where name contains lldp and platform_count > 3.
type Filter struct {
	Items        []Item       `json:"items"`
	LinkOperator LinkOperator `json:"linkOperator"`
}

// Item is an individual filter consisting of a field, operator,
// value and a not boolean that negates the operator. For example:
// technology contains stacking, or technology not contains stacking.
type Item struct {
	Field    string   `json:"columnField"`
	Not      bool     `json:"not"`
	Operator Operator `json:"operatorValue"`
	Value    string   `json:"value"`
}

// Filterable is anything that can be filtered; it exposes the type and
// value of its fields.
type Filterable interface {
	GetFieldType(field string) fidata.ColumnType
	GetStringValue(field string) (string, error)
	GetNumericalValue(field string) (float64, error)
	GetArrayValue(field string) ([]string, error)
}

// Options holds a filter plus sorting and paging parameters.
type Options struct {
	Filter    *Filter
	SortField string
	Sort      fidata.Sort
	Limit     int
	Offset    int
}

// OptionsFromQuery reads filter, sortField, sort, limit and offset query
// parameters. The filter parameter holds a JSON encoded Filter.
func OptionsFromQuery(q url.Values, defaultSortField string, defaultSort fidata.Sort) (*Options, error) {
	opts := &Options{Filter: &Filter{}}
	if raw := q.Get("filter"); raw != "" {
		if err := json.Unmarshal([]byte(raw), opts.Filter); err != nil {
			return opts, fidata.Errorf(fidata.EINVALID, "could not parse filter: %v", err)
		}
	}

	var err error
	if opts.Limit, err = intParam(q, "limit"); err != nil {
		return opts, err
	}
	if opts.Offset, err = intParam(q, "offset"); err != nil {
		return opts, err
	}

	opts.SortField = q.Get("sortField")
	if opts.SortField == "" {
		opts.SortField = defaultSortField
	}
	opts.Sort = fidata.Sort(q.Get("sort"))
	if opts.Sort == "" {
		opts.Sort = defaultSort
	}
	if opts.Sort != fidata.SortAscending && opts.Sort != fidata.SortDescending {
		return opts, fidata.Errorf(fidata.EINVALID, "sort must be %q or %q", fidata.SortAscending, fidata.SortDescending)
	}
	return opts, nil
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fidata.Errorf(fidata.EINVALID, "error parsing %s param: %q", name, v)
	}
	return n, nil
}

// Apply filters, sorts and pages items according to opts.
func Apply[T Filterable](items []T, opts *Options) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if opts.Filter != nil {
			ok, err := opts.Filter.Filter(item)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, item)
	}

	if opts.SortField != "" {
		slices.SortStableFunc(out, func(a, b T) int {
			c := Compare(a, b, opts.SortField)
			if opts.Sort == fidata.SortDescending {
				return -c
			}
			return c
		})
	}

	return Page(out, opts.Offset, opts.Limit), nil
}

// Page returns the slice window selected by offset and limit.
// A limit of zero means no limit.
func Page[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Filter applies the selected filters to a filterable item.
func (filters Filter) Filter(item Filterable) (bool, error) {
	if len(filters.Items) == 0 {
		return true, nil
	}

	matches := make([]bool, 0, len(filters.Items))

	for _, filter := range filters.Items {
		var result bool
		var err error

		switch item.GetFieldType(filter.Field) {
		case fidata.ColumnTypeString:
			result, err = filterString(filter, item)
		case fidata.ColumnTypeNumerical:
			result, err = filterNumerical(filter, item)
		case fidata.ColumnTypeArray:
			result, err = filterArray(filter, item)
		default:
			return false, fidata.Errorf(fidata.EINVALID, "%s: unknown field or field type", filter.Field)
		}
		if err != nil {
			return false, err
		}

		if filter.Not {
			matches = append(matches, !result)
		} else {
			matches = append(matches, result)
		}
	}

	if filters.LinkOperator == LinkOperatorOr {
		return slices.Contains(matches, true), nil
	}

	// LinkOperator as "and" is the default:
	return !slices.Contains(matches, false), nil
}

func filterString(filter Item, item Filterable) (bool, error) {
	value, err := item.GetStringValue(filter.Field)
	if err != nil {
		return false, err
	}

	// Extracted text keeps the vendor's capitalization; match case-insensitively.
	value = strings.ToLower(value)
	comparison := strings.ToLower(filter.Value)

	switch filter.Operator {
	case OperatorContains:
		return strings.Contains(value, comparison), nil
	case OperatorEquals:
		return strings.TrimSpace(value) == comparison, nil
	case OperatorStartsWith:
		return strings.HasPrefix(value, comparison), nil
	case OperatorEndsWith:
		return strings.HasSuffix(value, comparison), nil
	case OperatorIsEmpty:
		return value == "", nil
	case OperatorIsNotEmpty:
		return value != "", nil
	default:
		return false, fidata.Errorf(fidata.EINVALID, "unknown string field operator %s", filter.Operator)
	}
}

func filterNumerical(filter Item, item Filterable) (bool, error) {
	if filter.Value == "" && filter.Operator != OperatorIsEmpty && filter.Operator != OperatorIsNotEmpty {
		return true, nil
	}

	value, err := item.GetNumericalValue(filter.Field)
	if err != nil {
		return false, err
	}

	var comparison float64
	if filter.Value != "" {
		comparison, err = strconv.ParseFloat(filter.Value, 64)
		if err != nil {
			return false, fidata.Errorf(fidata.EINVALID, "%s: %q is not a number", filter.Field, filter.Value)
		}
	}

	switch filter.Operator {
	case OperatorArithmeticEquals, OperatorEquals:
		return value == comparison, nil
	case OperatorArithmeticNotEquals:
		return value != comparison, nil
	case OperatorArithmeticGreaterThan:
		return value > comparison, nil
	case OperatorArithmeticLessThan:
		return value < comparison, nil
	case OperatorArithmeticGreaterThanOrEquals:
		return value >= comparison, nil
	case OperatorArithmeticLessThanOrEquals:
		return value <= comparison, nil
	case OperatorIsEmpty:
		return value == 0, nil
	case OperatorIsNotEmpty:
		return value != 0, nil
	default:
		return false, fidata.Errorf(fidata.EINVALID, "unknown numeric field operator %s", filter.Operator)
	}
}

func filterArray(filter Item, item Filterable) (bool, error) {
	list, err := item.GetArrayValue(filter.Field)
	if err != nil {
		return false, err
	}

	switch filter.Operator {
	case OperatorIsEmpty:
		return len(list) == 0, nil
	case OperatorIsNotEmpty:
		return len(list) > 0, nil
	case OperatorEquals:
		return slices.ContainsFunc(list, func(v string) bool { return strings.EqualFold(v, filter.Value) }), nil
	}

	comparison := strings.ToLower(filter.Value)
	for _, value := range list {
		if strings.Contains(strings.ToLower(value), comparison) {
			return true, nil
		}
	}

	return false, nil
}

// Compare orders a and b by sortField. Fields named version or ending in
// _version are ordered as FastIron versions.
func Compare(a, b Filterable, sortField string) int {
	switch a.GetFieldType(sortField) {
	case fidata.ColumnTypeNumerical:
		val1, _ := a.GetNumericalValue(sortField)
		val2, _ := b.GetNumericalValue(sortField)
		switch {
		case val1 < val2:
			return -1
		case val1 > val2:
			return 1
		}
		return 0
	case fidata.ColumnTypeString:
		val1, _ := a.GetStringValue(sortField)
		val2, _ := b.GetStringValue(sortField)
		if isVersionField(sortField) {
			return fidata.CompareVersions(val1, val2)
		}
		return strings.Compare(val1, val2)
	}
	return 0
}

func isVersionField(field string) bool {
	return field == "version" || field == "fixed_in" || strings.HasSuffix(field, "_version") || strings.HasPrefix(field, "platform.")
}

// String renders a filter for log output.
func (filters Filter) String() string {
	parts := make([]string, 0, len(filters.Items))
	for _, f := range filters.Items {
		not := ""
		if f.Not {
			not = "not "
		}
		parts = append(parts, fmt.Sprintf("%s %s%s %q", f.Field, not, f.Operator, f.Value))
	}
	op := string(filters.LinkOperator)
	if op == "" {
		op = string(LinkOperatorAnd)
	}
	return strings.Join(parts, " "+op+" ")
}
