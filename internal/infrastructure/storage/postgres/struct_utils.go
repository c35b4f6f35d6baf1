package postgres

import (
	"reflect"
	"slices"
	"sync"
)

// ExtractDBColumns returns the column names from a struct's "db" tags in
// field order. Embedded structs are walked recursively.
//
// Usage:
//
//	columns := ExtractDBColumns[catalog.Warehouse]()
//	// ["id", "farm_id", "name", "type"]
func ExtractDBColumns[T any]() []string {
	var zero T
	meta := typeMetadataFor(reflect.TypeOf(zero))
	return slices.Clone(meta.columns)
}

type fieldInfo struct {
	index []int
	dbTag string
}

type typeMetadata struct {
	fields  []fieldInfo
	columns []string
}

// typeCache maps reflect.Type to *typeMetadata.
var typeCache sync.Map

func typeMetadataFor(t reflect.Type) *typeMetadata {
	if t == nil {
		return &typeMetadata{}
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() == reflect.Struct {
		collectFields(t, nil, meta)
	}

	actual, _ := typeCache.LoadOrStore(t, meta)
	return actual.(*typeMetadata)
}

func collectFields(t reflect.Type, prefix []int, meta *typeMetadata) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(slices.Clone(prefix), i)

		if field.Anonymous {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, index, meta)
			}
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		meta.fields = append(meta.fields, fieldInfo{index: index, dbTag: tag})
		meta.columns = append(meta.columns, tag)
	}
}

// StructToMap converts a struct to a column->value map using "db" tags.
// Columns listed in omit are left out. Non-struct values yield nil.
func StructToMap(v any, omit ...string) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := typeMetadataFor(rv.Type())
	res := make(map[string]any, len(meta.fields))
	for _, fi := range meta.fields {
		if slices.Contains(omit, fi.dbTag) {
			continue
		}
		fv, err := rv.FieldByIndexErr(fi.index)
		if err != nil {
			// nil embedded pointer
			continue
		}
		res[fi.dbTag] = fv.Interface()
	}
	return res
}
