package binding

import (
	"strings"

	"github.com/pkg/errors"
)

//TableBinding represents a persisted, protocol agnostic description of the data a table shows.
//It is authored once by the page builder and read many times at render; this package never mutates
//a binding beyond Init derived indexes.
type (
	TableBinding struct {
		TableName       string                     `json:"tableName,omitempty" yaml:"tableName,omitempty"`
		ColumnOrder     []string                   `json:"columnOrder,omitempty" yaml:"columnOrder,omitempty"`
		ColumnOverrides map[string]*ColumnOverride `json:"columnOverrides,omitempty" yaml:"columnOverrides,omitempty"`
		Pagination      Pagination                 `json:"pagination,omitempty" yaml:"pagination,omitempty"`
		Sorting         Sorting                    `json:"sorting,omitempty" yaml:"sorting,omitempty"`
		Filtering       Filtering                  `json:"filtering,omitempty" yaml:"filtering,omitempty"`
		FrontendFilters []*FilterConfig            `json:"frontendFilters,omitempty" yaml:"frontendFilters,omitempty"`
		DataRequest     *DataRequest               `json:"dataRequest,omitempty" yaml:"dataRequest,omitempty"`

		initialized     bool
		_filterByColumn map[string]*FilterConfig
		_filterByID     map[string]*FilterConfig
	}

	//ColumnOverride customizes column presentation, it never affects a query
	ColumnOverride struct {
		DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
		Visible     *bool  `json:"visible,omitempty" yaml:"visible,omitempty"`
		DisplayType string `json:"displayType,omitempty" yaml:"displayType,omitempty"`
	}

	Pagination struct {
		Enabled  bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
		PageSize int  `json:"pageSize,omitempty" yaml:"pageSize,omitempty"`
		Page     int  `json:"page,omitempty" yaml:"page,omitempty"`
	}

	Sorting struct {
		Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
		Column    string `json:"column,omitempty" yaml:"column,omitempty"`
		Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`
	}

	Filtering struct {
		SearchEnabled bool `json:"searchEnabled,omitempty" yaml:"searchEnabled,omitempty"`
	}
)

const (
	//DefaultPageSize applies when a binding does not specify a page size
	DefaultPageSize = 20

	Asc  = "asc"
	Desc = "desc"
)

//Init validates the binding, builds filter lookup indexes and normalizes
//defaults; subsequent calls are no-ops
func (b *TableBinding) Init() error {
	if b.initialized {
		return nil
	}

	if b.Sorting.Column != "" && b.Sorting.Direction == "" {
		b.Sorting.Direction = Asc
	}

	b._filterByColumn = make(map[string]*FilterConfig)
	b._filterByID = make(map[string]*FilterConfig)
	for _, filter := range b.FrontendFilters {
		if filter == nil {
			continue
		}
		if filter.FilterType == "" {
			filter.FilterType = FilterText
		}
		if filter.HasDynamicOptions() && filter.ID == "" {
			return errors.Errorf("filter on column %v has dynamic options but no id", filter.Column)
		}
		if _, ok := b._filterByColumn[filter.Column]; !ok {
			b._filterByColumn[filter.Column] = filter
		}
		if filter.ID != "" {
			if _, ok := b._filterByID[filter.ID]; ok {
				return errors.Errorf("duplicate filter id: %v", filter.ID)
			}
			b._filterByID[filter.ID] = filter
		}
	}
	b.initialized = true
	return nil
}

//PageSize returns the configured page size or DefaultPageSize
func (b *TableBinding) PageSize() int {
	if b.Pagination.PageSize > 0 {
		return b.Pagination.PageSize
	}
	return DefaultPageSize
}

//FilterByColumn returns the first filter configured for a column
func (b *TableBinding) FilterByColumn(column string) *FilterConfig {
	_ = b.Init()
	return b._filterByColumn[column]
}

//FilterByID returns the filter with given id
func (b *TableBinding) FilterByID(id string) *FilterConfig {
	_ = b.Init()
	return b._filterByID[id]
}

//IsColumnVisible returns false only when an override hides the column
func (b *TableBinding) IsColumnVisible(column string) bool {
	override, ok := b.ColumnOverrides[column]
	if !ok || override == nil || override.Visible == nil {
		return true
	}
	return *override.Visible
}

//VisibleColumns returns ordered columns not hidden by an override
func (b *TableBinding) VisibleColumns() []string {
	var result = make([]string, 0, len(b.ColumnOrder))
	for _, column := range b.ColumnOrder {
		if b.IsColumnVisible(column) {
			result = append(result, column)
		}
	}
	return result
}

//SearchableColumns returns visible columns a free text search can match.
//Relation columns (keys holding a '.') are excluded, the query grammar cannot
//ilike across a join.
func (b *TableBinding) SearchableColumns() []string {
	var result = make([]string, 0, len(b.ColumnOrder))
	for _, column := range b.VisibleColumns() {
		if strings.Contains(column, ".") {
			continue
		}
		result = append(result, column)
	}
	return result
}
