// Package field describes SQL column types for generated column enumerations.
//
// Generated code builds column definitions from constructors:
//
//	field.Integer().Def()          // INTEGER NOT NULL
//	field.String(255).Def().Null() // VARCHAR(255) NULL
//	field.Decimal(10, 2).Def()     // DECIMAL(10,2) NOT NULL
//
// The same constructor vocabulary is the value space of the `type` override
// accepted by the generator, see ParseColumnType.
package field

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// A Type is a column kind.
type Type uint8

// List of column kinds.
const (
	TypeInvalid Type = iota
	TypeString
	TypeChar
	TypeText
	TypeTinyInteger
	TypeSmallInteger
	TypeInteger
	TypeBigInteger
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeBoolean
	TypeDate
	TypeTime
	TypeDateTime
	TypeTimestamp
	TypeUUID
	TypeBinary
	TypeJSON
	endTypes
)

// constructors holds the constructor name of each kind, indexed by Type.
var constructors = [...]string{
	TypeInvalid:      "invalid",
	TypeString:       "String",
	TypeChar:         "Char",
	TypeText:         "Text",
	TypeTinyInteger:  "TinyInteger",
	TypeSmallInteger: "SmallInteger",
	TypeInteger:      "Integer",
	TypeBigInteger:   "BigInteger",
	TypeFloat:        "Float",
	TypeDouble:       "Double",
	TypeDecimal:      "Decimal",
	TypeBoolean:      "Boolean",
	TypeDate:         "Date",
	TypeTime:         "Time",
	TypeDateTime:     "DateTime",
	TypeTimestamp:    "Timestamp",
	TypeUUID:         "UUID",
	TypeBinary:       "Binary",
	TypeJSON:         "JSON",
}

// maxArgs holds the number of integer arguments each constructor accepts.
var maxArgs = [...]int{
	TypeString:  1,
	TypeChar:    1,
	TypeBinary:  1,
	TypeDecimal: 2,
	endTypes:    0,
}

// String returns the constructor name of the kind.
func (t Type) String() string {
	if t < endTypes {
		return constructors[t]
	}
	return constructors[TypeInvalid]
}

// Valid reports if the given type is a known kind.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Integer reports if the kind is an integer kind.
func (t Type) Integer() bool {
	return t >= TypeTinyInteger && t <= TypeBigInteger
}

// Numeric reports if the kind is a numeric kind.
func (t Type) Numeric() bool {
	return t >= TypeTinyInteger && t <= TypeDecimal
}

// Sized reports if the kind accepts a length argument.
func (t Type) Sized() bool {
	return t == TypeString || t == TypeChar || t == TypeBinary
}

// TypeOf returns the kind with the given constructor name.
func TypeOf(name string) (Type, bool) {
	for t := TypeInvalid + 1; t < endTypes; t++ {
		if constructors[t] == name {
			return t, true
		}
	}
	return TypeInvalid, false
}

// ColumnType is a column kind with its optional length or precision.
// A zero Size, Precision or Scale means the database default.
type ColumnType struct {
	Type      Type `json:"type" msgpack:"type"`
	Size      int  `json:"size,omitempty" msgpack:"size,omitempty"`
	Precision int  `json:"precision,omitempty" msgpack:"precision,omitempty"`
	Scale     int  `json:"scale,omitempty" msgpack:"scale,omitempty"`
}

// Args returns the constructor arguments of the column type.
func (c ColumnType) Args() []int {
	switch {
	case c.Type == TypeDecimal && (c.Precision != 0 || c.Scale != 0):
		return []int{c.Precision, c.Scale}
	case c.Type.Sized() && c.Size != 0:
		return []int{c.Size}
	default:
		return nil
	}
}

// String returns the constructor call of the column type, for example
// "String(255)" or "Integer()".
func (c ColumnType) String() string {
	args := c.Args()
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = strconv.Itoa(a)
	}
	return c.Type.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Def returns a non-null column definition of this type.
func (c ColumnType) Def() ColumnDef {
	return ColumnDef{Type: c}
}

// ColumnDef is the definition of a single column.
type ColumnDef struct {
	Type     ColumnType
	Nullable bool
}

// Null returns a copy of the definition that accepts NULL.
func (d ColumnDef) Null() ColumnDef {
	d.Nullable = true
	return d
}

// String formats the definition, for example "String(255) NULL".
func (d ColumnDef) String() string {
	if d.Nullable {
		return d.Type.String() + " NULL"
	}
	return d.Type.String() + " NOT NULL"
}

// String returns a variable length string column. An optional size sets its
// maximum length.
func String(size ...int) ColumnType { return sized(TypeString, size) }

// Char returns a fixed length string column.
func Char(size ...int) ColumnType { return sized(TypeChar, size) }

// Binary returns a binary column.
func Binary(size ...int) ColumnType { return sized(TypeBinary, size) }

// Text returns an unbounded text column.
func Text() ColumnType { return ColumnType{Type: TypeText} }

// TinyInteger returns an 8-bit integer column.
func TinyInteger() ColumnType { return ColumnType{Type: TypeTinyInteger} }

// SmallInteger returns a 16-bit integer column.
func SmallInteger() ColumnType { return ColumnType{Type: TypeSmallInteger} }

// Integer returns an integer column.
func Integer() ColumnType { return ColumnType{Type: TypeInteger} }

// BigInteger returns a big integer column.
func BigInteger() ColumnType { return ColumnType{Type: TypeBigInteger} }

// Float returns a single precision floating point column.
func Float() ColumnType { return ColumnType{Type: TypeFloat} }

// Double returns a double precision floating point column.
func Double() ColumnType { return ColumnType{Type: TypeDouble} }

// Decimal returns a fixed point column with the given precision and scale.
func Decimal(precisionScale ...int) ColumnType {
	c := ColumnType{Type: TypeDecimal}
	if len(precisionScale) > 0 {
		c.Precision = precisionScale[0]
	}
	if len(precisionScale) > 1 {
		c.Scale = precisionScale[1]
	}
	return c
}

// Boolean returns a boolean column.
func Boolean() ColumnType { return ColumnType{Type: TypeBoolean} }

// Date returns a date column.
func Date() ColumnType { return ColumnType{Type: TypeDate} }

// Time returns a time of day column.
func Time() ColumnType { return ColumnType{Type: TypeTime} }

// DateTime returns a date and time column without time zone.
func DateTime() ColumnType { return ColumnType{Type: TypeDateTime} }

// Timestamp returns a timestamp column.
func Timestamp() ColumnType { return ColumnType{Type: TypeTimestamp} }

// UUID returns a UUID column.
func UUID() ColumnType { return ColumnType{Type: TypeUUID} }

// JSON returns a JSON column.
func JSON() ColumnType { return ColumnType{Type: TypeJSON} }

func sized(t Type, size []int) ColumnType {
	c := ColumnType{Type: t}
	if len(size) > 0 {
		c.Size = size[0]
	}
	return c
}

// ErrInvalidColumnType is returned by ParseColumnType for literals that are
// not a constructor call of this package.
var ErrInvalidColumnType = errors.New("field: invalid column type")

// ParseColumnType parses a constructor literal such as "String(255)",
// "Decimal(10, 2)", "Integer()" or "Integer". Arguments must be
// non-negative integer literals.
func ParseColumnType(lit string) (ColumnType, error) {
	expr, err := parser.ParseExpr(strings.TrimSpace(lit))
	if err != nil {
		return ColumnType{}, fmt.Errorf("%w %q: %v", ErrInvalidColumnType, lit, err)
	}
	var (
		name string
		args []ast.Expr
	)
	switch x := expr.(type) {
	case *ast.Ident:
		name = x.Name
	case *ast.CallExpr:
		id, ok := x.Fun.(*ast.Ident)
		if !ok || x.Ellipsis.IsValid() {
			return ColumnType{}, fmt.Errorf("%w %q: expect a constructor call", ErrInvalidColumnType, lit)
		}
		name, args = id.Name, x.Args
	default:
		return ColumnType{}, fmt.Errorf("%w %q: expect a constructor call", ErrInvalidColumnType, lit)
	}
	t, ok := TypeOf(name)
	if !ok {
		return ColumnType{}, fmt.Errorf("%w %q: unknown constructor %s", ErrInvalidColumnType, lit, name)
	}
	if n := maxArgs[t]; len(args) > n {
		return ColumnType{}, fmt.Errorf("%w %q: %s accepts at most %d arguments", ErrInvalidColumnType, lit, name, n)
	}
	ints := make([]int, 0, len(args))
	for _, a := range args {
		bl, ok := a.(*ast.BasicLit)
		if !ok || bl.Kind != token.INT {
			return ColumnType{}, fmt.Errorf("%w %q: arguments must be integer literals", ErrInvalidColumnType, lit)
		}
		v, err := strconv.ParseInt(bl.Value, 0, 32)
		if err != nil {
			return ColumnType{}, fmt.Errorf("%w %q: %v", ErrInvalidColumnType, lit, err)
		}
		ints = append(ints, int(v))
	}
	if t == TypeDecimal {
		return Decimal(ints...), nil
	}
	if t.Sized() {
		return sized(t, ints), nil
	}
	return ColumnType{Type: t}, nil
}

// MustParseColumnType is like ParseColumnType but panics if the literal
// cannot be parsed.
func MustParseColumnType(lit string) ColumnType {
	c, err := ParseColumnType(lit)
	if err != nil {
		panic(err)
	}
	return c
}
