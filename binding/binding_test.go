package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableBinding_Init(t *testing.T) {
	var useCases = []struct {
		description     string
		binding         *TableBinding
		expectDirection string
		expectPageSize  int
	}{
		{
			description: "sorting direction and page size defaults",
			binding: &TableBinding{
				TableName: "products",
				Sorting:   Sorting{Enabled: true, Column: "name"},
			},
			expectDirection: Asc,
			expectPageSize:  DefaultPageSize,
		},
		{
			description: "explicit page size and direction preserved",
			binding: &TableBinding{
				TableName:  "products",
				Pagination: Pagination{Enabled: true, PageSize: 50},
				Sorting:    Sorting{Enabled: true, Column: "price", Direction: Desc},
			},
			expectDirection: Desc,
			expectPageSize:  50,
		},
		{
			description: "negative page size falls back to default",
			binding: &TableBinding{
				TableName:  "products",
				Pagination: Pagination{Enabled: true, PageSize: -10},
			},
			expectDirection: "",
			expectPageSize:  DefaultPageSize,
		},
	}

	for _, useCase := range useCases {
		err := useCase.binding.Init()
		if !assert.Nil(t, err, useCase.description) {
			continue
		}
		assert.EqualValues(t, useCase.expectDirection, useCase.binding.Sorting.Direction, useCase.description)
		assert.EqualValues(t, useCase.expectPageSize, useCase.binding.PageSize(), useCase.description)
	}
}

func TestTableBinding_FilterIndexes(t *testing.T) {
	aBinding := &TableBinding{
		TableName: "orders",
		FrontendFilters: []*FilterConfig{
			{ID: "f1", Column: "status"},
			{ID: "f2", Column: "status", FilterType: FilterDropdown},
			{ID: "f3", Column: "region", FilterType: FilterMultiselect},
		},
	}
	err := aBinding.Init()
	if !assert.Nil(t, err) {
		return
	}

	assert.EqualValues(t, FilterText, aBinding.FrontendFilters[0].FilterType, "missing filter type defaults to text")

	byColumn := aBinding.FilterByColumn("status")
	if assert.NotNil(t, byColumn) {
		assert.EqualValues(t, "f1", byColumn.ID, "first filter per column wins")
	}
	assert.Nil(t, aBinding.FilterByColumn("unknown"))

	byID := aBinding.FilterByID("f2")
	if assert.NotNil(t, byID) {
		assert.EqualValues(t, "status", byID.Column)
	}
	assert.Nil(t, aBinding.FilterByID("missing"))
}

func TestTableBinding_Columns(t *testing.T) {
	visible := true
	hidden := false
	var useCases = []struct {
		description      string
		binding          *TableBinding
		expectVisible    []string
		expectSearchable []string
	}{
		{
			description: "no overrides keeps order",
			binding: &TableBinding{
				TableName:   "products",
				ColumnOrder: []string{"id", "name", "price"},
			},
			expectVisible:    []string{"id", "name", "price"},
			expectSearchable: []string{"id", "name", "price"},
		},
		{
			description: "hidden column excluded, nil visibility visible",
			binding: &TableBinding{
				TableName:   "products",
				ColumnOrder: []string{"id", "name", "price"},
				ColumnOverrides: map[string]*ColumnOverride{
					"id":    {Visible: &hidden},
					"name":  {DisplayName: "Product"},
					"price": {Visible: &visible},
				},
			},
			expectVisible:    []string{"name", "price"},
			expectSearchable: []string{"name", "price"},
		},
		{
			description: "relation columns stay visible but are not searchable",
			binding: &TableBinding{
				TableName:   "orders",
				ColumnOrder: []string{"id", "customer.name", "total"},
			},
			expectVisible:    []string{"id", "customer.name", "total"},
			expectSearchable: []string{"id", "total"},
		},
	}

	for _, useCase := range useCases {
		err := useCase.binding.Init()
		if !assert.Nil(t, err, useCase.description) {
			continue
		}
		assert.EqualValues(t, useCase.expectVisible, useCase.binding.VisibleColumns(), useCase.description)
		assert.EqualValues(t, useCase.expectSearchable, useCase.binding.SearchableColumns(), useCase.description)
	}
}

func TestState_ActiveFilters(t *testing.T) {
	state := &State{}
	state.SetFilter("status", Dropdown("open"))
	state.SetFilter("name", Text(""))
	state.SetFilter("region", Multiselect{"west", "east"})
	state.SetFilter("archived", Boolean(false))

	actives := state.ActiveFilters()
	if !assert.EqualValues(t, 3, len(actives), "inactive text value excluded") {
		return
	}
	assert.EqualValues(t, "archived", actives[0].Column, "ordered by column")
	assert.EqualValues(t, "region", actives[1].Column)
	assert.EqualValues(t, "status", actives[2].Column)
}

func TestState_FilterFingerprint(t *testing.T) {
	first := &State{}
	first.SetFilter("status", Dropdown("open"))
	first.SetFilter("region", Multiselect{"west"})

	second := &State{}
	second.SetFilter("region", Multiselect{"west"})
	second.SetFilter("status", Dropdown("open"))

	assert.EqualValues(t, first.FilterFingerprint(""), second.FilterFingerprint(""), "insertion order does not matter")
	assert.EqualValues(t, "region=m:west", first.FilterFingerprint("status"), "excluded column dropped")

	var empty State
	assert.EqualValues(t, "", empty.FilterFingerprint(""))
}
