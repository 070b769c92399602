// Package browse filters and sorts race results for display.
package browse

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"ironman-results/lib/ironman"
)

// Missing is the filter value that matches results without a value.
const Missing = "none"

type Column struct {
	Name    string
	Header  string
	Numeric bool
	// ok is false when the result has no value for the column
	value func(r ironman.RaceResult) (text string, num int64, ok bool)
}

func (c Column) Text(r ironman.RaceResult) string {
	text, _, ok := c.value(r)
	if !ok {
		return ""
	}
	return text
}

func textValue(get func(r ironman.RaceResult) string) func(ironman.RaceResult) (string, int64, bool) {
	return func(r ironman.RaceResult) (string, int64, bool) {
		v := get(r)
		return v, 0, v != ""
	}
}

func durationValue(get func(r ironman.RaceResult) ironman.Duration) func(ironman.RaceResult) (string, int64, bool) {
	return func(r ironman.RaceResult) (string, int64, bool) {
		d := get(r)
		return d.String(), int64(d.Value / time.Second), d.Valid
	}
}

func rankValue(get func(r ironman.RaceResult) int) func(ironman.RaceResult) (string, int64, bool) {
	return func(r ironman.RaceResult) (string, int64, bool) {
		rank := get(r)
		return strconv.Itoa(rank), int64(rank), rank != ironman.NoRank
	}
}

var Columns = []Column{
	{Name: "name", Header: "Name", value: textValue(func(r ironman.RaceResult) string { return r.Name })},
	{Name: "age_group", Header: "Age Group", value: textValue(func(r ironman.RaceResult) string { return r.AgeGroup })},
	{Name: "country", Header: "Country", value: textValue(func(r ironman.RaceResult) string { return r.Country })},
	{
		Name: "status", Header: "Status",
		value: func(r ironman.RaceResult) (string, int64, bool) {
			return r.Status.String(), int64(r.Status), r.Status != ironman.StatusUnknown
		},
	},
	{
		Name: "finisher", Header: "Finisher",
		value: func(r ironman.RaceResult) (string, int64, bool) {
			return strconv.FormatBool(r.Status == ironman.StatusFinished), 0, r.Status != ironman.StatusUnknown
		},
	},
	{Name: "overall_time", Header: "Time", Numeric: true, value: durationValue(func(r ironman.RaceResult) ironman.Duration { return r.FinishTime })},
	{Name: "age_group_rank", Header: "AG Rank", Numeric: true, value: rankValue(func(r ironman.RaceResult) int { return r.AgeGroupRank })},
	{Name: "overall_rank", Header: "Overall", Numeric: true, value: rankValue(func(r ironman.RaceResult) int { return r.OverallRank })},
	{Name: "swim_time", Header: "Swim", Numeric: true, value: durationValue(func(r ironman.RaceResult) ironman.Duration { return r.Splits.Swim })},
	{Name: "t1_time", Header: "T1", Numeric: true, value: durationValue(func(r ironman.RaceResult) ironman.Duration { return r.Splits.T1 })},
	{Name: "bike_time", Header: "Bike", Numeric: true, value: durationValue(func(r ironman.RaceResult) ironman.Duration { return r.Splits.Bike })},
	{Name: "t2_time", Header: "T2", Numeric: true, value: durationValue(func(r ironman.RaceResult) ironman.Duration { return r.Splits.T2 })},
	{Name: "run_time", Header: "Run", Numeric: true, value: durationValue(func(r ironman.RaceResult) ironman.Duration { return r.Splits.Run })},
}

func ColumnNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}
	return names
}

func LookupColumn(name string) (Column, error) {
	for _, c := range Columns {
		if c.Name == name {
			return c, nil
		}
	}
	return Column{}, fmt.Errorf("unknown column %q (expected one of %s)", name, strings.Join(ColumnNames(), ", "))
}

// Filter keeps the results whose column equals Value, ignoring case.
type Filter struct {
	Column Column
	Value  string
}

// ParseFilter parses "column=value", a value of "none" matches results that
// have no value in the column.
func ParseFilter(expr string) (Filter, error) {
	name, value, ok := strings.Cut(expr, "=")
	if !ok {
		return Filter{}, fmt.Errorf("filter %q is not of the form column=value", expr)
	}
	column, err := LookupColumn(strings.TrimSpace(name))
	if err != nil {
		return Filter{}, err
	}
	return Filter{Column: column, Value: strings.TrimSpace(value)}, nil
}

func (f Filter) Match(r ironman.RaceResult) bool {
	text, _, ok := f.Column.value(r)
	if strings.EqualFold(f.Value, Missing) {
		return !ok
	}
	return ok && strings.EqualFold(text, f.Value)
}

type Query struct {
	Filters []Filter
	// empty keeps the file order
	Sort           string
	Descending     bool
	OnlyQualifiers bool
}

type Row struct {
	Result    ironman.RaceResult
	Qualifier bool
}

// Apply filters (all filters must match) then sorts the results. Results
// without a value in the sort column always come last.
func Apply(results []ironman.RaceResult, q Query, isQualifier func(ironman.RaceResult) bool) ([]Row, error) {
	var rows []Row
	for _, r := range results {
		qualifier := isQualifier != nil && isQualifier(r)
		if q.OnlyQualifiers && !qualifier {
			continue
		}
		matched := true
		for _, f := range q.Filters {
			if !f.Match(r) {
				matched = false
				break
			}
		}
		if matched {
			rows = append(rows, Row{Result: r, Qualifier: qualifier})
		}
	}

	if q.Sort == "" {
		return rows, nil
	}
	column, err := LookupColumn(q.Sort)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		textA, numA, okA := column.value(a.Result)
		textB, numB, okB := column.value(b.Result)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		var c int
		if column.Numeric {
			c = cmpInt(numA, numB)
		} else {
			c = strings.Compare(strings.ToLower(textA), strings.ToLower(textB))
		}
		if q.Descending {
			return -c
		}
		return c
	})
	return rows, nil
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
