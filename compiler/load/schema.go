// Package load reads record definitions from Go source, Go packages and YAML
// schema files into the structured form consumed by the generator.
//
// The loader does not interpret annotations. It reports every annotation
// found on a record or field, recognized or not, together with the literal
// kind of its value, and leaves precedence and validation to the generator.
package load

import (
	"fmt"
	"strings"
)

// Namespace is the annotation namespace read by the generator.
const Namespace = "autocolumn"

// Shape selects the emission entry point of a record.
type Shape uint8

// Emission shapes.
const (
	// ShapeAugment supplements a record the caller already defines.
	ShapeAugment Shape = iota + 1
	// ShapeModule generates a self-contained package from a bare field list.
	ShapeModule
)

// String implements the fmt.Stringer interface.
func (s Shape) String() string {
	switch s {
	case ShapeAugment:
		return "augment"
	case ShapeModule:
		return "module"
	default:
		return fmt.Sprintf("Shape(%d)", s)
	}
}

// ParseShape parses the shape names used in directives and schema files.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "augment", "derive":
		return ShapeAugment, nil
	case "module", "table":
		return ShapeModule, nil
	default:
		return 0, fmt.Errorf("load: unknown shape %q", s)
	}
}

// Record is a record definition: a struct-like type with ordered fields.
// Records are owned by the caller and never modified by the generator.
// Dir is the absolute directory of the source file, if the record was loaded
// from one.
type Record struct {
	Name        string            `json:"name"`
	Pos         string            `json:"pos,omitempty"`
	Shape       Shape             `json:"shape"`
	Package     string            `json:"package,omitempty"`
	Dir         string            `json:"dir,omitempty"`
	Imports     map[string]string `json:"imports,omitempty"`
	Fields      []*Field          `json:"fields,omitempty"`
	Annotations []*Annotation     `json:"annotations,omitempty"`
}

// Field is a single field of a record.
type Field struct {
	Name string `json:"name"`
	// Type is the declared type expression as written, for example
	// "*string" or "sql.Null[time.Time]".
	Type        string        `json:"type"`
	Pos         string        `json:"pos,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

// Annotation is a raw key/value pair attached to a record or a field.
// A nil Value marks a presence-only flag.
type Annotation struct {
	Namespace string   `json:"namespace"`
	Key       string   `json:"key"`
	Value     *Literal `json:"value,omitempty"`
}

// Flag reports if the annotation carries no value.
func (a *Annotation) Flag() bool { return a.Value == nil }

// String formats the annotation as it would appear in a directive.
func (a *Annotation) String() string {
	key := a.Key
	if a.Namespace != Namespace {
		key = a.Namespace + "." + a.Key
	}
	if a.Value == nil {
		return key
	}
	return key + ":" + a.Value.String()
}

// LitKind is the kind of an annotation value.
type LitKind uint8

// Literal kinds.
const (
	LitString LitKind = iota + 1
	LitInt
	LitFloat
	LitBool
	LitList
	LitOther
)

// String implements the fmt.Stringer interface.
func (k LitKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitBool:
		return "bool"
	case LitList:
		return "list"
	default:
		return "other"
	}
}

// Literal is an annotation value. Value holds the scalar text, List the
// items of a LitList.
type Literal struct {
	Kind  LitKind  `json:"kind"`
	Value string   `json:"value,omitempty"`
	List  []string `json:"list,omitempty"`
}

// String implements the fmt.Stringer interface.
func (l *Literal) String() string {
	if l.Kind == LitList {
		return "[" + strings.Join(l.List, ",") + "]"
	}
	return l.Value
}

// StringLit returns a string literal.
func StringLit(s string) *Literal { return &Literal{Kind: LitString, Value: s} }

// ListLit returns a list literal.
func ListLit(items ...string) *Literal { return &Literal{Kind: LitList, List: items} }

// newAnnotation splits a possibly namespaced key ("sql.size") into its
// namespace and key. Keys without a namespace belong to Namespace.
func newAnnotation(key string, v *Literal) *Annotation {
	key = strings.TrimSpace(key)
	ns := Namespace
	if i := strings.LastIndexByte(key, '.'); i > 0 {
		ns, key = key[:i], key[i+1:]
	}
	return &Annotation{Namespace: ns, Key: key, Value: v}
}
