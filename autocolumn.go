// Package autocolumn is the runtime contract implemented by code that the
// autocolumn generator emits.
//
// A generated unit provides an entity identity (table name), a column
// enumeration whose members describe their SQL type and nullability, and,
// when the record has keys, a primary-key enumeration with its auto-increment
// policy. Full modules additionally carry a relation stub and a lifecycle
// hook stub:
//
//	//autocolumn:derive table_name:users
//	type User struct {
//		ID   uint64  `autocolumn:"primary_key"`
//		Name *string `autocolumn:"type:String(255);nullable"`
//	}
//
// generates UserColumn, UserEntity and UserPrimaryKey, each satisfying the
// matching interface below.
package autocolumn

import (
	"context"
	"fmt"

	"github.com/syssam/autocolumn/schema/field"
)

// EntityName is implemented by the marker type identifying a table.
type EntityName interface {
	TableName() string
}

// ColumnTrait is implemented by generated column enumerations.
type ColumnTrait interface {
	fmt.Stringer
	// Name returns the SQL column name.
	Name() string
	// Def returns the column definition: SQL type and nullability.
	Def() field.ColumnDef
}

// PrimaryKeyTrait is implemented by generated primary-key enumerations.
type PrimaryKeyTrait interface {
	fmt.Stringer
	// AutoIncrement reports whether the key is generated by the database.
	AutoIncrement() bool
}

// RelationDef describes a relation between two tables.
type RelationDef struct {
	From    string
	To      string
	Columns []string
	Refs    []string
}

// RelationTrait is implemented by generated relation enumerations.
type RelationTrait interface {
	Def() RelationDef
}

// ActiveModelBehavior holds the lifecycle hooks of a model.
type ActiveModelBehavior interface {
	BeforeSave(ctx context.Context, insert bool) error
	AfterSave(ctx context.Context, insert bool) error
	BeforeDelete(ctx context.Context) error
	AfterDelete(ctx context.Context) error
}

// NopBehavior implements ActiveModelBehavior with no-op hooks.
// Embed it and declare the hooks that need custom behavior.
type NopBehavior struct{}

// BeforeSave implements ActiveModelBehavior.
func (NopBehavior) BeforeSave(context.Context, bool) error { return nil }

// AfterSave implements ActiveModelBehavior.
func (NopBehavior) AfterSave(context.Context, bool) error { return nil }

// BeforeDelete implements ActiveModelBehavior.
func (NopBehavior) BeforeDelete(context.Context) error { return nil }

// AfterDelete implements ActiveModelBehavior.
func (NopBehavior) AfterDelete(context.Context) error { return nil }

var _ ActiveModelBehavior = NopBehavior{}
