package gen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/autocolumn/compiler/load"
)

func TestModule(t *testing.T) {
	c := MustNewConfig(WithPackage("github.com/acme/models"))
	d, err := c.Assemble(sessionRecord())
	require.NoError(t, err)
	m, err := c.Module(d)
	require.NoError(t, err)
	assert.Equal(t, "session", m.Package)

	t.Run("schema", func(t *testing.T) {
		src := fmt.Sprintf("%#v", m.Schema)
		for _, s := range []string{
			"// " + DefaultHeader,
			"// Package session holds the model and the schema of the sessions table.",
			"package session",
			`"github.com/google/uuid"`,
			`"database/sql"`,
			"type Model struct {",
			"UserID",
			"uuid.UUID",
			`db:"user_id"`,
			"sql.Null[time.Time]",
			`db:"expires_at"`,
			"type Entity struct{}",
			"func (Entity) TableName() string {",
			`return "sessions"`,
			"type Column int",
			"ColumnUserId Column = iota",
			"[...]field.ColumnDef{field.UUID().Def(), field.Char(64).Def(), field.DateTime().Def().Null()}",
			"func (c Column) String() string {",
			`return "Column(" + strconv.Itoa(int(c)) + ")"`,
			"return columnIdents[c]",
			"func Columns() []Column {",
			"type PrimaryKey int",
			"PrimaryKeyUserId PrimaryKey = iota",
			"var primaryKeyColumns = [...]Column{ColumnUserId, ColumnToken}",
			"func (PrimaryKey) AutoIncrement() bool {\n\treturn true\n}",
			"func PrimaryKeys() []PrimaryKey {",
			"= PrimaryKey(0)",
		} {
			assert.Contains(t, src, s)
		}
		assert.NotContains(t, src, "type Relation")
	})

	t.Run("scaffold", func(t *testing.T) {
		src := fmt.Sprintf("%#v", m.Scaffold)
		for _, s := range []string{
			"// " + ScaffoldHeader,
			"package session",
			"type Relation int",
			"func (r Relation) Def() autocolumn.RelationDef {",
			`panic(autocolumn.NewUndefinedRelationError("sessions", int(r)))`,
			"func Relations() []Relation {\n\treturn nil\n}",
			"type Behavior struct {\n\tautocolumn.NopBehavior\n}",
			"autocolumn.RelationTrait",
			"= Relation(0)",
			"autocolumn.ActiveModelBehavior",
			"= Behavior{}",
		} {
			assert.Contains(t, src, s)
		}
		assert.NotContains(t, src, "DO NOT EDIT")
	})
}

func TestModule_ModelFields(t *testing.T) {
	r := &load.Record{
		Name:        "AuditLog",
		Shape:       load.ShapeModule,
		Annotations: []*load.Annotation{value("table_name", load.StringLit("audit_logs")), value("primary_key", load.ListLit("id"))},
		Fields: []*load.Field{
			{Name: "id", Type: "int64"},
			{Name: "amount", Type: "big.Int"},
			{Name: "at", Type: "*time.Time"},
		},
	}
	c := MustNewConfig()
	d, err := c.Assemble(r)
	require.NoError(t, err)
	m, err := c.Module(d)
	require.NoError(t, err)
	assert.Equal(t, "audit_log", m.Package)
	src := fmt.Sprintf("%#v", m.Schema)

	assert.Contains(t, src, "package audit_log")
	assert.Contains(t, src, `"math/big"`)
	assert.Contains(t, src, "big.Int")
	assert.Contains(t, src, "*time.Time")
	assert.Contains(t, src, "field.BigInteger().Def()")
}

func TestModule_Errors(t *testing.T) {
	c := MustNewConfig()
	_, err := c.Module(nil)
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))

	d, err := c.Assemble(fooRecord())
	require.NoError(t, err)
	_, err = c.Module(d)
	require.Error(t, err)

	r := sessionRecord()
	r.Fields[0].Type = "uuid.UUID"
	r.Imports = nil
	d, err = c.Assemble(r)
	require.NoError(t, err)
	d.Columns[0].GoType = "gouuid.UUID"
	_, err = c.Module(d)
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	assert.Contains(t, err.Error(), `unknown package "gouuid"`)
}

func TestGoType(t *testing.T) {
	imports := map[string]string{"uuid": "github.com/google/uuid", "models": "github.com/acme/models"}
	tests := []struct {
		expr     string
		expected string
	}{
		{"string", "string"},
		{"*string", "*string"},
		{"uuid.UUID", "uuid.UUID"},
		{"[]byte", "[]byte"},
		{"[16]byte", "[16]byte"},
		{"map[string]any", "map[string]any"},
		{"map[string]interface{}", "map[string]interface{}"},
		{"sql.Null[time.Time]", "sql.Null[time.Time]"},
		{"models.Pair[int, string]", "models.Pair[int, string]"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			code, err := goType(tt.expr, imports)
			require.NoError(t, err)
			assert.Contains(t, fmt.Sprintf("%#v", code), tt.expected)
		})
	}

	for _, expr := range []string{"func()", "chan int", "x.y.Z", "[n]byte", "interface{ M() }"} {
		t.Run(expr, func(t *testing.T) {
			_, err := goType(expr, imports)
			assert.Error(t, err)
		})
	}
}
