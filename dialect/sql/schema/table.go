// Package schema converts generated record descriptors into SQL tables.
// Tables are rendered as DDL or atlas HCL, verified against a live database,
// stored in snapshots and diffed against them to detect schema drift.
package schema

import (
	"github.com/syssam/autocolumn/compiler/gen"
	"github.com/syssam/autocolumn/schema/field"
)

// Table is the SQL table of a record that carries an entity identity.
type Table struct {
	Name string `msgpack:"name"`
	// Record is the name of the record the table was generated from.
	Record  string    `msgpack:"record"`
	Columns []*Column `msgpack:"columns"`
	// PrimaryKey holds the names of the key columns, in key order.
	PrimaryKey    []string `msgpack:"primary_key,omitempty"`
	AutoIncrement bool     `msgpack:"auto_increment,omitempty"`
}

// Column is a single table column.
type Column struct {
	Name     string           `msgpack:"name"`
	Type     field.ColumnType `msgpack:"type"`
	Nullable bool             `msgpack:"nullable,omitempty"`
}

// NewTable returns a new table with the given name.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// AddColumn appends a column to the table.
func (t *Table) AddColumn(c *Column) *Table {
	t.Columns = append(t.Columns, c)
	return t
}

// SetPrimaryKey sets the key columns of the table.
func (t *Table) SetPrimaryKey(autoIncrement bool, names ...string) *Table {
	t.PrimaryKey = names
	t.AutoIncrement = autoIncrement
	return t
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// increment returns the column generated by the database, if any. Only a
// single integer key column is incremented.
func (t *Table) increment() *Column {
	if !t.AutoIncrement || len(t.PrimaryKey) != 1 {
		return nil
	}
	c := t.Column(t.PrimaryKey[0])
	if c == nil || !c.Type.Type.Integer() {
		return nil
	}
	return c
}

// FromDescriptor returns the table of a record descriptor. Records without
// an entity identity have no table, and FromDescriptor returns nil for them.
func FromDescriptor(d *gen.Descriptor) *Table {
	if d == nil || d.Entity == nil {
		return nil
	}
	t := NewTable(d.Entity.TableName)
	t.Record = d.Record
	for _, c := range d.Columns {
		def := c.Def()
		t.AddColumn(&Column{Name: c.Name, Type: def.Type, Nullable: def.Nullable})
	}
	if pk := d.PrimaryKey; pk != nil {
		names := make([]string, len(pk.Columns))
		for i, c := range pk.Columns {
			names[i] = c.Name
		}
		t.SetPrimaryKey(pk.AutoIncrement, names...)
	}
	return t
}

// FromDescriptors returns the tables of the given descriptors, skipping the
// records without an entity identity.
func FromDescriptors(ds []*gen.Descriptor) []*Table {
	tables := make([]*Table, 0, len(ds))
	for _, d := range ds {
		if t := FromDescriptor(d); t != nil {
			tables = append(tables, t)
		}
	}
	return tables
}
