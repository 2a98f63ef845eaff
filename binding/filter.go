package binding

import (
	"fmt"
	"strconv"
	"strings"
)

//FilterType discriminates a filter control and its value shape
type FilterType string

const (
	FilterText        FilterType = "text"
	FilterDropdown    FilterType = "dropdown"
	FilterMultiselect FilterType = "multiselect"
	FilterNumber      FilterType = "number"
	FilterBoolean     FilterType = "boolean"
	FilterDateRange   FilterType = "dateRange"
)

type (
	//FilterConfig represents one user facing filter control
	FilterConfig struct {
		ID                 string       `json:"id,omitempty" yaml:"id,omitempty"`
		Column             string       `json:"column,omitempty" yaml:"column,omitempty"`
		FilterType         FilterType   `json:"filterType,omitempty" yaml:"filterType,omitempty"`
		Options            []*Option    `json:"options,omitempty" yaml:"options,omitempty"`
		OptionsDataRequest *DataRequest `json:"optionsDataRequest,omitempty" yaml:"optionsDataRequest,omitempty"`
	}

	//Option represents a selectable filter option
	Option struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}
)

//HasDynamicOptions returns true when options are fetched rather than authored
func (f *FilterConfig) HasDynamicOptions() bool {
	return f != nil && f.OptionsDataRequest != nil &&
		(f.FilterType == FilterDropdown || f.FilterType == FilterMultiselect)
}

//Value is a runtime filter value. Variants mirror FilterType so the compiler
//match is exhaustive; an inactive value never reaches the wire.
type Value interface {
	//Active reports whether the value constrains the query at all
	Active() bool
	//Raw returns the wire form of the value
	Raw() interface{}
	fingerprint() string
}

type Text string

func (v Text) Active() bool        { return v != "" }
func (v Text) Raw() interface{}    { return string(v) }
func (v Text) fingerprint() string { return "t:" + string(v) }

type Dropdown string

func (v Dropdown) Active() bool        { return v != "" }
func (v Dropdown) Raw() interface{}    { return string(v) }
func (v Dropdown) fingerprint() string { return "d:" + string(v) }

type Multiselect []string

func (v Multiselect) Active() bool        { return len(v) > 0 }
func (v Multiselect) Raw() interface{}    { return []string(v) }
func (v Multiselect) fingerprint() string { return "m:" + strings.Join(v, ",") }

//NumberRange bounds a numeric column, a scalar comparison sets both bounds to
//the same value.
type NumberRange struct {
	Min *float64
	Max *float64
}

func (v NumberRange) Active() bool {
	return v.Min != nil || v.Max != nil
}

//IsScalar reports whether both bounds collapse to a single value
func (v NumberRange) IsScalar() bool {
	return v.Min != nil && v.Max != nil && *v.Min == *v.Max
}

func (v NumberRange) Raw() interface{} {
	if v.IsScalar() {
		return *v.Min
	}
	raw := map[string]interface{}{}
	if v.Min != nil {
		raw["min"] = *v.Min
	}
	if v.Max != nil {
		raw["max"] = *v.Max
	}
	return raw
}

func (v NumberRange) fingerprint() string {
	min, max := "", ""
	if v.Min != nil {
		min = formatNumber(*v.Min)
	}
	if v.Max != nil {
		max = formatNumber(*v.Max)
	}
	return "n:" + min + ".." + max
}

type Boolean bool

func (v Boolean) Active() bool        { return true }
func (v Boolean) Raw() interface{}    { return bool(v) }
func (v Boolean) fingerprint() string { return "b:" + strconv.FormatBool(bool(v)) }

//DateRange keeps rows whose date column falls within the trailing LastDays window
type DateRange struct {
	LastDays int
}

func (v DateRange) Active() bool { return v.LastDays > 0 }

func (v DateRange) Raw() interface{} {
	return map[string]interface{}{"lastDays": v.LastDays}
}

func (v DateRange) fingerprint() string { return "r:" + strconv.Itoa(v.LastDays) }

//Number returns a scalar numeric value
func Number(value float64) NumberRange {
	return NumberRange{Min: &value, Max: &value}
}

//Between returns a bounded numeric range, either bound may be nil
func Between(min, max *float64) NumberRange {
	return NumberRange{Min: min, Max: max}
}

//ParseValue converts a textual value into the variant matching filterType,
//used by the command line tool and tests.
func ParseValue(filterType FilterType, text string) (Value, error) {
	switch filterType {
	case FilterDropdown:
		return Dropdown(text), nil
	case FilterMultiselect:
		if text == "" {
			return Multiselect(nil), nil
		}
		return Multiselect(strings.Split(text, ",")), nil
	case FilterNumber:
		if min, max, ok := strings.Cut(text, ".."); ok {
			var bounds NumberRange
			if min != "" {
				value, err := strconv.ParseFloat(min, 64)
				if err != nil {
					return nil, fmt.Errorf("invalid number range min %q", min)
				}
				bounds.Min = &value
			}
			if max != "" {
				value, err := strconv.ParseFloat(max, 64)
				if err != nil {
					return nil, fmt.Errorf("invalid number range max %q", max)
				}
				bounds.Max = &value
			}
			return bounds, nil
		}
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", text)
		}
		return Number(value), nil
	case FilterBoolean:
		value, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", text)
		}
		return Boolean(value), nil
	case FilterDateRange:
		days, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("invalid date range days %q", text)
		}
		return DateRange{LastDays: days}, nil
	default:
		return Text(text), nil
	}
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
