package schema

import (
	"context"
	"strings"
	"testing"

	atlas "ariga.io/atlas/sql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/autocolumn/dialect"
	"github.com/syssam/autocolumn/schema/field"
)

func TestAtlas(t *testing.T) {
	tables := []*Table{FromDescriptor(fooDescriptor(t)), FromDescriptor(sessionDescriptor(t))}

	tests := []struct {
		dialect string
		schema  string
		idType  string
		uuid    atlas.Type
	}{
		{"sqlite", "main", "integer", &atlas.StringType{T: "text"}},
		{dialect.MySQL, "autocolumn", "int", &atlas.StringType{T: "char", Size: 36}},
		{"postgresql", "public", "integer", &atlas.UUIDType{T: "uuid"}},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			s, err := Atlas(tt.dialect, "", tables)
			require.NoError(t, err)
			assert.Equal(t, tt.schema, s.Name)
			require.Len(t, s.Tables, 2)

			foo, ok := s.Table("foo")
			require.True(t, ok)
			id, ok := foo.Column("id")
			require.True(t, ok)
			assert.Equal(t, &atlas.IntegerType{T: tt.idType}, id.Type.Type)
			assert.False(t, id.Type.Null)
			assert.Len(t, id.Attrs, 1)
			name, ok := foo.Column("name")
			require.True(t, ok)
			assert.True(t, name.Type.Null)
			require.NotNil(t, foo.PrimaryKey)
			assert.Len(t, foo.PrimaryKey.Parts, 1)

			sess, ok := s.Table("sessions")
			require.True(t, ok)
			uid, ok := sess.Column("user_id")
			require.True(t, ok)
			assert.Equal(t, tt.uuid, uid.Type.Type)
			assert.Empty(t, uid.Attrs)
			assert.Len(t, sess.PrimaryKey.Parts, 2)
		})
	}

	t.Run("named schema", func(t *testing.T) {
		s, err := Atlas(dialect.Postgres, "app", tables)
		require.NoError(t, err)
		assert.Equal(t, "app", s.Name)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := Atlas("oracle", "", tables)
		require.Error(t, err)

		bad := NewTable("bad").AddColumn(&Column{Name: "x", Type: field.ColumnType{}})
		_, err = Atlas(dialect.SQLite, "", []*Table{bad})
		require.ErrorContains(t, err, `column "x"`)

		bad = NewTable("bad").AddColumn(&Column{Name: "x", Type: field.Text()}).SetPrimaryKey(false, "y")
		_, err = Atlas(dialect.SQLite, "", []*Table{bad})
		require.ErrorContains(t, err, `unknown key column "y"`)
	})
}

func TestAtlasType(t *testing.T) {
	size := 16
	tests := []struct {
		name    string
		dialect string
		typ     field.ColumnType
		want    atlas.Type
	}{
		{"string default size", dialect.MySQL, field.String(), &atlas.StringType{T: "varchar", Size: 255}},
		{"char", dialect.Postgres, field.Char(2), &atlas.StringType{T: "char", Size: 2}},
		{"tiny postgres", dialect.Postgres, field.TinyInteger(), &atlas.IntegerType{T: "smallint"}},
		{"tiny mysql", dialect.MySQL, field.TinyInteger(), &atlas.IntegerType{T: "tinyint"}},
		{"double postgres", dialect.Postgres, field.Double(), &atlas.FloatType{T: "double precision"}},
		{"decimal default precision", dialect.MySQL, field.Decimal(), &atlas.DecimalType{T: "decimal", Precision: 10}},
		{"numeric", dialect.Postgres, field.Decimal(12, 2), &atlas.DecimalType{T: "numeric", Precision: 12, Scale: 2}},
		{"timestamp postgres", dialect.Postgres, field.Timestamp(), &atlas.TimeType{T: "timestamp with time zone"}},
		{"datetime sqlite", dialect.SQLite, field.DateTime(), &atlas.TimeType{T: "datetime"}},
		{"varbinary", dialect.MySQL, field.Binary(16), &atlas.BinaryType{T: "varbinary", Size: &size}},
		{"blob", dialect.SQLite, field.Binary(16), &atlas.BinaryType{T: "blob"}},
		{"jsonb", dialect.Postgres, field.JSON(), &atlas.JSONType{T: "jsonb"}},
		{"bool", dialect.SQLite, field.Boolean(), &atlas.BoolType{T: "bool"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := atlasType(tt.dialect, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDDL(t *testing.T) {
	tables := []*Table{FromDescriptor(fooDescriptor(t)), FromDescriptor(sessionDescriptor(t))}

	tests := []struct {
		dialect string
		want    [][]string
	}{
		{dialect.SQLite, [][]string{
			{"CREATE TABLE `foo`", "AUTOINCREMENT"},
			{"CREATE TABLE `sessions`", "PRIMARY KEY (`user_id`, `token`)"},
		}},
		{dialect.MySQL, [][]string{
			{"CREATE TABLE `foo`", "AUTO_INCREMENT"},
			{"CREATE TABLE `sessions`", "PRIMARY KEY (`user_id`, `token`)"},
		}},
		{dialect.Postgres, [][]string{
			{`CREATE TABLE "foo"`, "GENERATED BY DEFAULT AS IDENTITY"},
			{`CREATE TABLE "sessions"`, `PRIMARY KEY ("user_id", "token")`},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			ddl, err := DDL(context.Background(), tt.dialect, tables)
			require.NoError(t, err)
			require.Len(t, ddl, len(tt.want))
			for i, parts := range tt.want {
				for _, p := range parts {
					assert.Contains(t, ddl[i], p)
				}
				head, _, _ := strings.Cut(ddl[i], "(")
				assert.NotContains(t, head, ".", "table names are not schema qualified")
			}
		})
	}

	stmts, err := Plan(context.Background(), dialect.SQLite, tables)
	require.NoError(t, err)
	assert.Equal(t, "foo", stmts[0].Table)
	assert.Equal(t, "sessions", stmts[1].Table)

	_, err = DDL(context.Background(), "oracle", tables)
	require.Error(t, err)
}

func TestMarshalHCL(t *testing.T) {
	tables := []*Table{FromDescriptor(fooDescriptor(t))}
	for _, d := range dialect.Dialects {
		t.Run(d, func(t *testing.T) {
			b, err := MarshalHCL(d, "app", tables)
			require.NoError(t, err)
			hcl := string(b)
			assert.Contains(t, hcl, `table "foo" {`)
			assert.Contains(t, hcl, `column "id" {`)
			assert.Contains(t, hcl, `schema "app"`)
		})
	}
}
