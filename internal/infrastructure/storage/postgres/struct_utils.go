package postgres

import (
	"reflect"
	"sync"
)

// ExtractDBColumns collects column names from the struct's "db" tags,
// descending into embedded structs (entity.BaseCatalog, entity.BaseDocument).
// Called once per repository at construction, so reflection cost is paid once.
//
// Usage:
//
//	columns := ExtractDBColumns[currency.Currency]()
//	// ["id", "deletion_mark", "version", "code", "name", ...]
func ExtractDBColumns[T any]() []string {
	var zero T
	return columnsOf(reflect.TypeOf(zero))
}

func columnsOf(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			cols = append(cols, columnsOf(field.Type)...)
			continue
		}
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}
	return cols
}

// structMeta is cached per type so repeated StructToMap calls skip the
// tag scan and only read field values.
type structMeta struct {
	tagged   []taggedField
	embedded []int
}

type taggedField struct {
	index int
	name  string
}

var metaCache sync.Map // map[reflect.Type]*structMeta

func metaFor(t reflect.Type) *structMeta {
	if cached, ok := metaCache.Load(t); ok {
		return cached.(*structMeta)
	}

	meta := &structMeta{}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous {
				meta.embedded = append(meta.embedded, i)
				continue
			}
			tag := field.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			meta.tagged = append(meta.tagged, taggedField{index: i, name: tag})
		}
	}

	metaCache.Store(t, meta)
	return meta
}

// StructToMap converts a struct to a column→value map using "db" tags.
// Fields without a tag (or tagged "-") are skipped; embedded structs
// are flattened into the same map.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := metaFor(rv.Type())
	res := make(map[string]any, len(meta.tagged))

	for _, f := range meta.tagged {
		res[f.name] = rv.Field(f.index).Interface()
	}
	for _, i := range meta.embedded {
		for k, v := range StructToMap(rv.Field(i).Interface()) {
			res[k] = v
		}
	}
	return res
}
