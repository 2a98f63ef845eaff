package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	var useCases = []struct {
		description string
		filterType  FilterType
		text        string
		expectRaw   interface{}
		active      bool
		hasError    bool
	}{
		{
			description: "text value",
			filterType:  FilterText,
			text:        "widget",
			expectRaw:   "widget",
			active:      true,
		},
		{
			description: "empty text is inactive",
			filterType:  FilterText,
			text:        "",
			expectRaw:   "",
		},
		{
			description: "dropdown value",
			filterType:  FilterDropdown,
			text:        "open",
			expectRaw:   "open",
			active:      true,
		},
		{
			description: "multiselect splits on comma",
			filterType:  FilterMultiselect,
			text:        "west,east",
			expectRaw:   []string{"west", "east"},
			active:      true,
		},
		{
			description: "empty multiselect is inactive",
			filterType:  FilterMultiselect,
			text:        "",
			expectRaw:   []string(nil),
		},
		{
			description: "scalar number",
			filterType:  FilterNumber,
			text:        "42",
			expectRaw:   42.0,
			active:      true,
		},
		{
			description: "number range",
			filterType:  FilterNumber,
			text:        "10..99.5",
			expectRaw:   map[string]interface{}{"min": 10.0, "max": 99.5},
			active:      true,
		},
		{
			description: "open ended number range",
			filterType:  FilterNumber,
			text:        "10..",
			expectRaw:   map[string]interface{}{"min": 10.0},
			active:      true,
		},
		{
			description: "invalid number",
			filterType:  FilterNumber,
			text:        "abc",
			hasError:    true,
		},
		{
			description: "boolean false is still active",
			filterType:  FilterBoolean,
			text:        "false",
			expectRaw:   false,
			active:      true,
		},
		{
			description: "invalid boolean",
			filterType:  FilterBoolean,
			text:        "maybe",
			hasError:    true,
		},
		{
			description: "date range days",
			filterType:  FilterDateRange,
			text:        "30",
			expectRaw:   map[string]interface{}{"lastDays": 30},
			active:      true,
		},
		{
			description: "zero days is inactive",
			filterType:  FilterDateRange,
			text:        "0",
			expectRaw:   map[string]interface{}{"lastDays": 0},
		},
	}

	for _, useCase := range useCases {
		value, err := ParseValue(useCase.filterType, useCase.text)
		if useCase.hasError {
			assert.NotNil(t, err, useCase.description)
			continue
		}
		if !assert.Nil(t, err, useCase.description) {
			continue
		}
		assert.EqualValues(t, useCase.expectRaw, value.Raw(), useCase.description)
		assert.EqualValues(t, useCase.active, value.Active(), useCase.description)
	}
}

func TestNumberRange_IsScalar(t *testing.T) {
	min, max := 10.0, 20.0
	assert.True(t, Number(42).IsScalar())
	assert.False(t, Between(&min, &max).IsScalar())
	assert.False(t, Between(&min, nil).IsScalar())
	assert.False(t, NumberRange{}.IsScalar())
	assert.False(t, NumberRange{}.Active())
}

func TestFilterConfig_HasDynamicOptions(t *testing.T) {
	request := &DataRequest{URL: "https://api.example.com/api/data/execute"}
	assert.True(t, (&FilterConfig{FilterType: FilterDropdown, OptionsDataRequest: request}).HasDynamicOptions())
	assert.True(t, (&FilterConfig{FilterType: FilterMultiselect, OptionsDataRequest: request}).HasDynamicOptions())
	assert.False(t, (&FilterConfig{FilterType: FilterText, OptionsDataRequest: request}).HasDynamicOptions())
	assert.False(t, (&FilterConfig{FilterType: FilterDropdown}).HasDynamicOptions())
}
