package gen

import (
	"errors"
	"fmt"
	"go/token"
	"maps"

	"github.com/syssam/autocolumn/compiler/load"
	"github.com/syssam/autocolumn/schema/field"
)

// Descriptor is the schema of a single record: its optional entity
// identity, its columns in declaration order and its optional primary key.
// A descriptor is assembled once per record and discarded after emission.
type Descriptor struct {
	Record     string
	Package    string
	Shape      load.Shape
	Entity     *Entity
	Columns    []*Column
	PrimaryKey *PrimaryKey
	// Imports resolves the package qualifiers of the declared field types.
	Imports map[string]string
	// Skipped holds the malformed annotations that were ignored.
	Skipped []*AnnotationError
}

// Entity is the table identity of a record.
type Entity struct {
	TableName string
}

// Column is the column of a single record field.
type Column struct {
	// Field is the declared field name.
	Field string
	// Ident is the generated column identifier, for example "ResetPasswordToken".
	Ident string
	// Name is the SQL column name, for example "reset_password_token".
	Name string
	// GoType is the declared type expression of the field.
	GoType   string
	Type     ColumnType
	Nullable bool
}

// Def returns the column definition.
func (c *Column) Def() field.ColumnDef {
	def := c.Type.ColumnType().Def()
	if c.Nullable {
		return def.Null()
	}
	return def
}

// PrimaryKey is the ordered primary key of a record.
type PrimaryKey struct {
	Columns       []*Column
	AutoIncrement bool
}

// Column returns the column with the given identifier, or nil.
func (d *Descriptor) Column(ident string) *Column {
	for _, c := range d.Columns {
		if c.Ident == ident {
			return c
		}
	}
	return nil
}

// Assemble builds the descriptor of a record with a default configuration
// and the given options.
func Assemble(r *load.Record, opts ...Option) (*Descriptor, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return c.Assemble(r)
}

// Assemble builds the descriptor of a record. Fields are folded in declared
// order and assembly stops at the first failing field. The record is not
// modified.
func (c *Config) Assemble(r *load.Record) (*Descriptor, error) {
	if r == nil {
		return nil, errors.New("autocolumn: nil record")
	}
	if err := checkNames(r); err != nil {
		return nil, err
	}
	d := &Descriptor{Record: r.Name, Package: r.Package, Shape: r.Shape}
	var ro *RecordOverrides
	switch r.Shape {
	case load.ShapeModule:
		o, err := ParseModuleRecord(r)
		if err != nil {
			return nil, err
		}
		ro = o
	case load.ShapeAugment, 0:
		d.Shape = load.ShapeAugment
		ro = ParseRecord(r)
	default:
		return nil, fmt.Errorf("autocolumn: record %s: unknown shape %v", r.Name, r.Shape)
	}
	d.Skipped = append(d.Skipped, ro.Skipped...)
	if ro.TableName != nil {
		d.Entity = &Entity{TableName: *ro.TableName}
	}
	imports := c.imports(r)
	d.Imports = imports
	var (
		keys   []*Column
		idents = make(map[string]string, len(r.Fields))
	)
	for _, f := range r.Fields {
		fo := ParseField(r, f)
		d.Skipped = append(d.Skipped, fo.Skipped...)
		typ, nullable, err := Infer(canonical(f.Type, imports), fo, c.Wrappers)
		if err != nil {
			return nil, withField(err, r.Name, f.Name)
		}
		col := &Column{
			Field:    f.Name,
			Ident:    ident(c.Naming, f.Name),
			Name:     snake(f.Name),
			GoType:   f.Type,
			Type:     typ,
			Nullable: nullable,
		}
		if prev, ok := idents[col.Ident]; ok {
			return nil, &DuplicateColumnError{Record: r.Name, Column: col.Ident, Fields: [2]string{prev, f.Name}}
		}
		idents[col.Ident] = f.Name
		d.Columns = append(d.Columns, col)
		if fo.PrimaryKey && d.Shape == load.ShapeAugment {
			keys = append(keys, col)
		}
	}
	if d.Shape == load.ShapeModule {
		pk, err := d.resolveKeys(r, ro.PrimaryKeys)
		if err != nil {
			return nil, err
		}
		d.PrimaryKey = pk
	} else if len(keys) > 0 {
		d.PrimaryKey = &PrimaryKey{Columns: keys, AutoIncrement: len(keys) == 1}
	}
	return d, nil
}

// checkNames reports the first name of r that cannot be used in generated
// code. Field names may be keywords since they are always exported or
// prefixed before use.
func checkNames(r *load.Record) error {
	if !token.IsIdentifier(r.Name) {
		return &NameError{Record: r.Name, Name: r.Name, Reason: "record name is not a Go identifier"}
	}
	if r.Package != "" && !token.IsIdentifier(r.Package) {
		return &NameError{Record: r.Name, Name: r.Package, Reason: "package name is not a Go identifier"}
	}
	if r.Shape == load.ShapeModule {
		if pkg := snake(r.Name); !token.IsIdentifier(pkg) {
			return &NameError{Record: r.Name, Name: pkg, Reason: "module package name is a Go keyword"}
		}
	}
	for _, f := range r.Fields {
		if !token.IsIdentifier(f.Name) && !token.IsKeyword(f.Name) {
			return &NameError{Record: r.Name, Field: f.Name, Name: f.Name, Reason: "field name is not a Go identifier"}
		}
	}
	return nil
}

// resolveKeys resolves the primary key list of a module record. A key names
// a field either by its declared name or by its column identifier.
func (d *Descriptor) resolveKeys(r *load.Record, names []string) (*PrimaryKey, error) {
	pk := &PrimaryKey{AutoIncrement: true}
	seen := make(map[*Column]bool, len(names))
	for _, name := range names {
		col := d.lookup(name)
		if col == nil {
			return nil, &AnnotationError{Record: r.Name, Key: keyPrimaryKey, Message: fmt.Sprintf("unknown key field %q", name)}
		}
		if seen[col] {
			return nil, &AnnotationError{Record: r.Name, Key: keyPrimaryKey, Message: fmt.Sprintf("key field %q is listed twice", name)}
		}
		seen[col] = true
		pk.Columns = append(pk.Columns, col)
	}
	return pk, nil
}

func (d *Descriptor) lookup(name string) *Column {
	for _, c := range d.Columns {
		if c.Field == name || c.Ident == name {
			return c
		}
	}
	// Raw identifiers are often written in the other case convention
	// ("id" for a field named "ID").
	for _, c := range d.Columns {
		if c.Name == snake(name) {
			return c
		}
	}
	return nil
}

// imports returns the import map used to resolve the field types of r.
func (c *Config) imports(r *load.Record) map[string]string {
	if len(c.Imports) == 0 {
		return r.Imports
	}
	m := maps.Clone(c.Imports)
	maps.Copy(m, r.Imports)
	return m
}

// withField names the record and the field on an inference error.
func withField(err error, record, field string) error {
	switch e := err.(type) {
	case *UnsupportedTypeError:
		e.Record, e.Field = record, field
	case *AnnotationError:
		e.Record, e.Field = record, field
	}
	return err
}
