package gen

import (
	"strings"

	"github.com/syssam/autocolumn/compiler/load"
)

// Recognized annotation keys.
const (
	keyTableName  = "table_name"
	keyPrimaryKey = "primary_key"
	keyType       = "type"
	keyNullable   = "nullable"
)

// FieldOverrides are the recognized annotations of a field.
type FieldOverrides struct {
	// Type is the literal of an explicit column type, such as "String(255)".
	Type *string
	// PrimaryKey and Nullable are presence-only flags.
	PrimaryKey bool
	Nullable   bool
	// Skipped holds the malformed annotations that were ignored.
	Skipped []*AnnotationError
}

// RecordOverrides are the recognized annotations of a record.
type RecordOverrides struct {
	TableName *string
	// PrimaryKeys lists the key fields of the module shape, as written.
	PrimaryKeys []string
	Skipped     []*AnnotationError
}

// ParseField scans the annotations of a field. The scan is lenient:
// malformed annotations are skipped and recorded in Skipped. Annotations of
// other namespaces are ignored. Several annotations of the same key are
// folded in order: the last value wins and flags are OR'd.
func ParseField(r *load.Record, f *load.Field) *FieldOverrides {
	o := &FieldOverrides{}
	skip := func(a *load.Annotation, msg string) {
		o.Skipped = append(o.Skipped, &AnnotationError{Record: r.Name, Field: f.Name, Key: a.Key, Message: msg})
	}
	for _, a := range f.Annotations {
		if a.Namespace != load.Namespace {
			continue
		}
		switch a.Key {
		case keyType:
			s, ok := stringValue(a)
			if !ok {
				skip(a, "expect a string literal naming a column type")
				continue
			}
			o.Type = &s
		case keyPrimaryKey:
			if !a.Flag() {
				skip(a, "primary_key is a flag and takes no value")
				continue
			}
			o.PrimaryKey = true
		case keyNullable:
			if !a.Flag() {
				skip(a, "nullable is a flag and takes no value")
				continue
			}
			o.Nullable = true
		default:
			skip(a, "unknown field annotation")
		}
	}
	return o
}

// ParseRecord scans the record annotations read by the augment shape:
// an optional table_name. Like ParseField, the scan is lenient.
func ParseRecord(r *load.Record) *RecordOverrides {
	o := &RecordOverrides{}
	for _, a := range r.Annotations {
		if a.Namespace != load.Namespace {
			continue
		}
		switch a.Key {
		case keyTableName:
			s, ok := stringValue(a)
			if !ok || s == "" {
				o.Skipped = append(o.Skipped, &AnnotationError{Record: r.Name, Key: a.Key, Message: "expect a non-empty string literal"})
				continue
			}
			o.TableName = &s
		default:
			o.Skipped = append(o.Skipped, &AnnotationError{Record: r.Name, Key: a.Key, Message: "unknown record annotation"})
		}
	}
	return o
}

// ParseModuleRecord scans the record annotations of the module shape. Both
// table_name and primary_key are required, and a malformed value of either
// is an error. The primary key is a list of field identifiers, given as a
// list literal or as a comma separated string, optionally bracketed:
//
//	//autocolumn:table table_name:users; primary_key:[id, tenant_id]
func ParseModuleRecord(r *load.Record) (*RecordOverrides, error) {
	o := &RecordOverrides{}
	var seenTable, seenKeys bool
	for _, a := range r.Annotations {
		if a.Namespace != load.Namespace {
			continue
		}
		switch a.Key {
		case keyTableName:
			s, ok := stringValue(a)
			if !ok || s == "" {
				return nil, &AnnotationError{Record: r.Name, Key: a.Key, Message: "expect a non-empty string literal"}
			}
			o.TableName, seenTable = &s, true
		case keyPrimaryKey:
			keys, err := keyList(a)
			if err != nil {
				err.Record = r.Name
				return nil, err
			}
			o.PrimaryKeys, seenKeys = keys, true
		default:
			o.Skipped = append(o.Skipped, &AnnotationError{Record: r.Name, Key: a.Key, Message: "unknown record annotation"})
		}
	}
	switch {
	case !seenTable:
		return nil, &AnnotationError{Record: r.Name, Key: keyTableName, Missing: true, Message: "module records require a table name"}
	case !seenKeys:
		return nil, &AnnotationError{Record: r.Name, Key: keyPrimaryKey, Missing: true, Message: "module records require a primary key list"}
	}
	return o, nil
}

// stringValue returns the value of a string annotation.
func stringValue(a *load.Annotation) (string, bool) {
	if a.Flag() || a.Value.Kind != load.LitString {
		return "", false
	}
	return a.Value.Value, true
}

func keyList(a *load.Annotation) ([]string, *AnnotationError) {
	var items []string
	switch {
	case a.Flag():
		return nil, &AnnotationError{Key: a.Key, Message: "expect a list of field identifiers"}
	case a.Value.Kind == load.LitList:
		items = a.Value.List
	case a.Value.Kind == load.LitString:
		s := strings.TrimSpace(a.Value.Value)
		s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		items = strings.Split(s, ",")
	default:
		return nil, &AnnotationError{Key: a.Key, Message: "expect a list of field identifiers, got " + a.Value.Kind.String()}
	}
	keys := make([]string, 0, len(items))
	for _, k := range items {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, &AnnotationError{Key: a.Key, Message: "primary key list is empty"}
	}
	return keys, nil
}
