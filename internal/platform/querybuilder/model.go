package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// InsertModels builds one multi-row insert from a slice of db-tagged
// structs. Every element must expose the same column set.
func InsertModels(table string, models any, suffix string) (string, []any, error) {
	value := reflect.ValueOf(models)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("models cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Slice {
		return "", nil, fmt.Errorf("models must be a slice")
	}
	if value.Len() == 0 {
		return "", nil, fmt.Errorf("models slice is empty")
	}

	builder := InsertInto(table).Suffix(suffix)
	var cols []string
	for i := 0; i < value.Len(); i++ {
		rowCols, rowVals, err := columnsAndValuesFromModel(value.Index(i).Interface())
		if err != nil {
			return "", nil, fmt.Errorf("model at index %d: %w", i, err)
		}
		if cols == nil {
			cols = rowCols
			builder.Columns(cols...)
		} else if len(rowCols) != len(cols) {
			return "", nil, fmt.Errorf("model at index %d has %d columns, expected %d", i, len(rowCols), len(cols))
		}
		builder.Values(rowVals...)
	}

	return builder.ToSQL()
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		tag := strings.TrimSpace(field.Tag.Get("db"))
		if tag == "" || tag == "-" {
			continue
		}
		col := strings.TrimSpace(strings.Split(tag, ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
