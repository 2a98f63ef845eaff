package resolver

import "strings"

//CellValue extracts a column value from a row of unknown shape. The same
//logical column arrives differently depending on the backend: flat under the
//full key, nested under an embedded relation, or flattened to the bare column
//name. Lookup order: direct key, dotted path walk, last path segment.
func CellValue(row Row, columnKey string) interface{} {
	if len(row) == 0 || columnKey == "" {
		return nil
	}
	if value, ok := row[columnKey]; ok {
		return value
	}
	if !strings.Contains(columnKey, ".") {
		return nil
	}
	segments := strings.Split(columnKey, ".")
	if value, ok := walkPath(row, segments); ok {
		return value
	}
	if value, ok := row[segments[len(segments)-1]]; ok {
		return value
	}
	return nil
}

func walkPath(row Row, segments []string) (interface{}, bool) {
	var current interface{} = map[string]interface{}(row)
	for _, segment := range segments {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		value, ok := node[segment]
		if !ok || value == nil {
			return nil, false
		}
		current = value
	}
	return current, true
}
