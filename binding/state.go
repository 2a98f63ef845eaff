package binding

import (
	"sort"
	"strings"
)

type (
	//State captures the runtime selection a user made against a bound table.
	//The zero value is the default view: first page, no search, no sort
	//override, no filters.
	State struct {
		Page          int
		Search        string
		SortColumn    string
		SortDirection string
		FilterValues  map[string]Value
	}

	//ActiveFilter pairs a column with its active runtime value
	ActiveFilter struct {
		Column string
		Value  Value
	}
)

//SetFilter records a runtime value for a column, inactive values are kept so
//a control can round trip, they are skipped at compile time.
func (s *State) SetFilter(column string, value Value) {
	if s.FilterValues == nil {
		s.FilterValues = map[string]Value{}
	}
	s.FilterValues[column] = value
}

//ClearFilter removes a column value
func (s *State) ClearFilter(column string) {
	delete(s.FilterValues, column)
}

//ActiveFilters returns active values ordered by column so output is stable
func (s *State) ActiveFilters() []ActiveFilter {
	if len(s.FilterValues) == 0 {
		return nil
	}
	var result []ActiveFilter
	for column, value := range s.FilterValues {
		if value == nil || !value.Active() {
			continue
		}
		result = append(result, ActiveFilter{Column: column, Value: value})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Column < result[j].Column
	})
	return result
}

//FilterFingerprint serializes active filters into a canonical string,
//excludeColumn drops one column so a filter can fingerprint its siblings.
func (s *State) FilterFingerprint(excludeColumn string) string {
	filters := s.ActiveFilters()
	if len(filters) == 0 {
		return ""
	}
	builder := strings.Builder{}
	for _, filter := range filters {
		if excludeColumn != "" && filter.Column == excludeColumn {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteByte('|')
		}
		builder.WriteString(filter.Column)
		builder.WriteByte('=')
		builder.WriteString(filter.Value.fingerprint())
	}
	return builder.String()
}

//Clone returns a shallow copy with its own filter map
func (s *State) Clone() *State {
	result := *s
	if len(s.FilterValues) > 0 {
		result.FilterValues = make(map[string]Value, len(s.FilterValues))
		for column, value := range s.FilterValues {
			result.FilterValues[column] = value
		}
	}
	return &result
}
