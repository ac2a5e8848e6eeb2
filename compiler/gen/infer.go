package gen

import (
	"database/sql"
	"math/big"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/syssam/autocolumn/schema/field"
)

// ColumnType is the column type of a column: either Inferred from the
// declared field type, or Explicit from a type annotation.
type ColumnType interface {
	// ColumnType returns the resolved column type.
	ColumnType() field.ColumnType
	String() string
	columnType()
}

// Inferred is a column type looked up in the inference table.
type Inferred struct {
	Type field.Type
}

// ColumnType implements the ColumnType interface.
func (i Inferred) ColumnType() field.ColumnType { return field.ColumnType{Type: i.Type} }

// String implements the fmt.Stringer interface.
func (i Inferred) String() string { return i.ColumnType().String() }

func (Inferred) columnType() {}

// Explicit is a column type given by a type annotation. Literal is kept as
// written; Resolved is its parsed form.
type Explicit struct {
	Literal  string
	Resolved field.ColumnType
}

// ColumnType implements the ColumnType interface.
func (e Explicit) ColumnType() field.ColumnType { return e.Resolved }

// String implements the fmt.Stringer interface.
func (e Explicit) String() string { return e.Literal }

func (Explicit) columnType() {}

// Primitive is a Go type with a built-in column mapping.
type Primitive uint8

// Inferable primitives.
const (
	PrimitiveInvalid Primitive = iota
	PrimitiveString
	PrimitiveInt8
	PrimitiveInt16
	PrimitiveInt32
	PrimitiveInt64
	PrimitiveInt128
	PrimitiveFloat32
	PrimitiveFloat64
	PrimitiveBool
	PrimitiveDate
	PrimitiveTime
	PrimitiveDateTime
	PrimitiveUUID
	numPrimitives
)

var primitiveNames = [numPrimitives]string{
	PrimitiveInvalid:  "invalid",
	PrimitiveString:   "string",
	PrimitiveInt8:     "int8",
	PrimitiveInt16:    "int16",
	PrimitiveInt32:    "int32",
	PrimitiveInt64:    "int64",
	PrimitiveInt128:   "int128",
	PrimitiveFloat32:  "float32",
	PrimitiveFloat64:  "float64",
	PrimitiveBool:     "bool",
	PrimitiveDate:     "date",
	PrimitiveTime:     "time",
	PrimitiveDateTime: "datetime",
	PrimitiveUUID:     "uuid",
}

// String implements the fmt.Stringer interface.
func (p Primitive) String() string {
	if p < numPrimitives {
		return primitiveNames[p]
	}
	return primitiveNames[PrimitiveInvalid]
}

// columnTypes maps every primitive to its column kind.
var columnTypes = [numPrimitives]field.Type{
	PrimitiveString:   field.TypeString,
	PrimitiveInt8:     field.TypeTinyInteger,
	PrimitiveInt16:    field.TypeSmallInteger,
	PrimitiveInt32:    field.TypeInteger,
	PrimitiveInt64:    field.TypeInteger,
	PrimitiveInt128:   field.TypeBigInteger,
	PrimitiveFloat32:  field.TypeFloat,
	PrimitiveFloat64:  field.TypeDouble,
	PrimitiveBool:     field.TypeBoolean,
	PrimitiveDate:     field.TypeDate,
	PrimitiveTime:     field.TypeTime,
	PrimitiveDateTime: field.TypeDateTime,
	PrimitiveUUID:     field.TypeUUID,
}

// Type returns the column kind of the primitive.
func (p Primitive) Type() field.Type {
	if p < numPrimitives {
		return columnTypes[p]
	}
	return field.TypeInvalid
}

// PrimitiveOf classifies a Go type expression. The match is exact and
// case-sensitive; qualified types are expected under their canonical
// package name (see canonical).
func PrimitiveOf(typ string) Primitive {
	switch typ {
	case "string":
		return PrimitiveString
	case "int8", "uint8", "byte":
		return PrimitiveInt8
	case "int16", "uint16":
		return PrimitiveInt16
	case "int32", "uint32", "rune":
		return PrimitiveInt32
	case "int64", "uint64", "int", "uint":
		return PrimitiveInt64
	case "big.Int":
		return PrimitiveInt128
	case "float32":
		return PrimitiveFloat32
	case "float64":
		return PrimitiveFloat64
	case "bool":
		return PrimitiveBool
	case "civil.Date":
		return PrimitiveDate
	case "civil.Time":
		return PrimitiveTime
	case "time.Time", "civil.DateTime":
		return PrimitiveDateTime
	case "uuid.UUID":
		return PrimitiveUUID
	default:
		return PrimitiveInvalid
	}
}

// Infer resolves the column type and the nullability of a field declared
// with the given type expression:
//
//  1. An explicit type override is used as written. The field is nullable
//     only if it carries the nullable flag.
//  2. Otherwise, an optional wrapper (*T, or a generic wrapper such as
//     sql.Null[T]) makes the field nullable, and T is inferred.
//  3. The effective type is looked up in the inference table. A type that
//     is not in the table is an *UnsupportedTypeError.
//
// The returned errors do not name the record and field; the assembler adds
// them.
func Infer(typeExpr string, o *FieldOverrides, wrappers []string) (ColumnType, bool, error) {
	if o != nil && o.Type != nil {
		ct, err := field.ParseColumnType(*o.Type)
		if err != nil {
			return nil, false, &AnnotationError{Key: keyType, Message: "invalid column type", Cause: err}
		}
		return Explicit{Literal: *o.Type, Resolved: ct}, o.Nullable, nil
	}
	typ := stripSpace(typeExpr)
	inner, nullable := unwrap(typ, wrappers)
	p := PrimitiveOf(inner)
	if p == PrimitiveInvalid {
		return nil, false, &UnsupportedTypeError{Type: inner}
	}
	return Inferred{Type: p.Type()}, nullable, nil
}

// unwrap strips one level of optional wrapper from typ.
func unwrap(typ string, wrappers []string) (string, bool) {
	if inner, ok := strings.CutPrefix(typ, "*"); ok {
		return inner, true
	}
	for _, w := range wrappers {
		if rest, ok := strings.CutPrefix(typ, w+"["); ok && strings.HasSuffix(rest, "]") {
			return rest[:len(rest)-1], true
		}
	}
	return typ, false
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// knownPackages holds the canonical names of the packages referenced by the
// inference table and the default wrappers.
var knownPackages = map[string]string{
	pkgPath[sql.NullString](): "sql",
	pkgPath[big.Int]():        "big",
	pkgPath[time.Time]():      "time",
	pkgPath[uuid.UUID]():      "uuid",
	// civil is matched by path only and is not a dependency.
	"cloud.google.com/go/civil": "civil",
}

func pkgPath[T any]() string { return reflect.TypeFor[T]().PkgPath() }

var qualifier = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\.`)

// canonical rewrites the package qualifiers of a type expression that refer
// to known packages under another name. For example, with the import
// gouuid "github.com/google/uuid", "*gouuid.UUID" becomes "*uuid.UUID".
func canonical(typ string, imports map[string]string) string {
	if len(imports) == 0 {
		return typ
	}
	return qualifier.ReplaceAllStringFunc(typ, func(m string) string {
		name := strings.TrimSuffix(m, ".")
		if path, ok := imports[name]; ok {
			if c, ok := knownPackages[path]; ok {
				return c + "."
			}
		}
		return m
	})
}
