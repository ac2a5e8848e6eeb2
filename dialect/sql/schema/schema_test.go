package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/autocolumn/compiler/gen"
	"github.com/syssam/autocolumn/compiler/load"
	"github.com/syssam/autocolumn/schema/field"
)

func ann(key string, v *load.Literal) *load.Annotation {
	return &load.Annotation{Namespace: load.Namespace, Key: key, Value: v}
}

func fooDescriptor(t *testing.T) *gen.Descriptor {
	t.Helper()
	d, err := gen.Assemble(&load.Record{
		Name:        "Foo",
		Shape:       load.ShapeAugment,
		Package:     "models",
		Annotations: []*load.Annotation{ann("table_name", load.StringLit("foo"))},
		Fields: []*load.Field{
			{Name: "id", Type: "uint64", Annotations: []*load.Annotation{ann("primary_key", nil)}},
			{Name: "name", Type: "*string", Annotations: []*load.Annotation{ann("type", load.StringLit("String(255)")), ann("nullable", nil)}},
		},
	})
	require.NoError(t, err)
	return d
}

func sessionDescriptor(t *testing.T) *gen.Descriptor {
	t.Helper()
	d, err := gen.Assemble(&load.Record{
		Name:    "Session",
		Shape:   load.ShapeModule,
		Package: "models",
		Imports: map[string]string{"uuid": "github.com/google/uuid", "sql": "database/sql", "time": "time"},
		Annotations: []*load.Annotation{
			ann("table_name", load.StringLit("sessions")),
			ann("primary_key", load.ListLit("user_id", "Token")),
		},
		Fields: []*load.Field{
			{Name: "UserID", Type: "uuid.UUID"},
			{Name: "Token", Type: "string", Annotations: []*load.Annotation{ann("type", load.StringLit("Char(64)"))}},
			{Name: "ExpiresAt", Type: "sql.Null[time.Time]"},
		},
	})
	require.NoError(t, err)
	return d
}

func TestFromDescriptor(t *testing.T) {
	foo := FromDescriptor(fooDescriptor(t))
	require.NotNil(t, foo)
	assert.Equal(t, "foo", foo.Name)
	assert.Equal(t, "Foo", foo.Record)
	assert.Equal(t, []*Column{
		{Name: "id", Type: field.Integer()},
		{Name: "name", Type: field.String(255), Nullable: true},
	}, foo.Columns)
	assert.Equal(t, []string{"id"}, foo.PrimaryKey)
	assert.True(t, foo.AutoIncrement)
	assert.Same(t, foo.Columns[0], foo.increment())

	sess := FromDescriptor(sessionDescriptor(t))
	require.NotNil(t, sess)
	assert.Equal(t, "sessions", sess.Name)
	assert.Equal(t, []string{"user_id", "token"}, sess.PrimaryKey)
	assert.Equal(t, field.UUID(), sess.Column("user_id").Type)
	assert.Equal(t, field.Char(64), sess.Column("token").Type)
	assert.True(t, sess.Column("expires_at").Nullable)
	assert.Nil(t, sess.increment(), "composite keys are never incremented")
	assert.Nil(t, sess.Column("missing"))
}

func TestFromDescriptors(t *testing.T) {
	d := fooDescriptor(t)
	bare := *d
	bare.Entity = nil
	tables := FromDescriptors([]*gen.Descriptor{d, &bare, sessionDescriptor(t)})
	require.Len(t, tables, 2)
	assert.Equal(t, "foo", tables[0].Name)
	assert.Equal(t, "sessions", tables[1].Name)
	assert.Nil(t, FromDescriptor(nil))
}

func TestTable_Increment(t *testing.T) {
	tbl := NewTable("t").
		AddColumn(&Column{Name: "code", Type: field.String(8)}).
		SetPrimaryKey(true, "code")
	assert.Nil(t, tbl.increment(), "string keys are never incremented")

	tbl = NewTable("t").
		AddColumn(&Column{Name: "id", Type: field.BigInteger()}).
		SetPrimaryKey(false, "id")
	assert.Nil(t, tbl.increment())

	tbl.AutoIncrement = true
	assert.Equal(t, "id", tbl.increment().Name)
}
