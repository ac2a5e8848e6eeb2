package load

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDir(t *testing.T) {
	records, err := ParseDir("testdata/users")
	require.NoError(t, err)
	require.Len(t, records, 2)

	user := records[0]
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, ShapeAugment, user.Shape)
	assert.Equal(t, "users", user.Package)
	assert.Contains(t, user.Pos, filepath.Join("testdata", "users", "users.go"))
	assert.Equal(t, map[string]string{
		"sql":  "database/sql",
		"time": "time",
		"uuid": "github.com/google/uuid",
	}, user.Imports)
	require.Len(t, user.Annotations, 1)
	assert.Equal(t, "table_name:users", user.Annotations[0].String())

	names := make([]string, len(user.Fields))
	types := make([]string, len(user.Fields))
	for i, f := range user.Fields {
		names[i], types[i] = f.Name, f.Type
	}
	assert.Equal(t, []string{
		"ID", "Email", "ResetPasswordToken", "SignInCount", "ConfirmedAt",
		"TrustLevel", "ExternalID", "Pin", "CreatedAt", "UpdatedAt",
	}, names)
	assert.Equal(t, []string{
		"uint64", "string", "*string", "uint64", "sql.Null[time.Time]",
		"*uint16", "uuid.UUID", "*string", "time.Time", "time.Time",
	}, types)

	id := user.Fields[0]
	require.Len(t, id.Annotations, 2)
	assert.Equal(t, &Annotation{Namespace: Namespace, Key: "primary_key"}, id.Annotations[0])
	assert.True(t, id.Annotations[0].Flag())
	assert.Equal(t, &Annotation{Namespace: "json", Key: "json", Value: StringLit("id")}, id.Annotations[1])

	pin := user.Fields[7]
	require.Len(t, pin.Annotations, 2)
	assert.Equal(t, "type:Char(6)", pin.Annotations[0].String())
	assert.Equal(t, "nullable", pin.Annotations[1].String())

	session := records[1]
	assert.Equal(t, "Session", session.Name)
	assert.Equal(t, ShapeModule, session.Shape)
	require.Len(t, session.Annotations, 2)
	assert.Equal(t, StringLit("sessions"), session.Annotations[0].Value)
	assert.Equal(t, StringLit("[id]"), session.Annotations[1].Value)
	require.Len(t, session.Fields, 3)
	assert.Equal(t, "type:String(64)", session.Fields[2].Annotations[0].String())
}

func TestParseDir_UnknownDirective(t *testing.T) {
	_, err := ParseDir("testdata/invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown directive "//autocolumn:model"`)
	assert.Contains(t, err.Error(), "type Thing")
}

func TestParseDir_Missing(t *testing.T) {
	_, err := ParseDir("testdata/missing")
	require.Error(t, err)
}

func TestParseFile(t *testing.T) {
	src := `package p

// Doc on the declaration group.
//
//autocolumn:derive
type T struct {
	A, B int
	embedded
	C *bool ` + "`autocolumn:\"\"`" + `
}
`
	records, err := ParseFile("p.go", src)
	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]
	assert.Empty(t, r.Annotations)
	assert.Empty(t, r.Imports)
	require.Len(t, r.Fields, 3)
	assert.Equal(t, "A", r.Fields[0].Name)
	assert.Equal(t, "B", r.Fields[1].Name)
	assert.Equal(t, "C", r.Fields[2].Name)
	assert.Equal(t, "*bool", r.Fields[2].Type)
	assert.Empty(t, r.Fields[2].Annotations)
	assert.Equal(t, "p.go:6:6", r.Pos)

	_, err = ParseFile("p.go", "package")
	require.Error(t, err)
}

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"Empty", "", nil},
		{"Flag", "primary_key", []string{"primary_key"}},
		{"Colon", "type:String(255)", []string{"type:String(255)"}},
		{"Equal", "type = String(255)", []string{"type:String(255)"}},
		{"Multiple", "primary_key; nullable;", []string{"primary_key", "nullable"}},
		{"DoubleQuoted", `table_name="a;b"`, []string{"table_name:a;b"}},
		{"SingleQuoted", `table_name:'users'`, []string{"table_name:users"}},
		{"Namespaced", "sql.size:10", []string{"sql.size:10"}},
		{"EmptyValue", "type:", []string{"type:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntries(tt.input)
			require.NoError(t, err)
			var entries []string
			for _, a := range got {
				entries = append(entries, a.String())
			}
			assert.Equal(t, tt.want, entries)
		})
	}
}

func TestParseEntries_Invalid(t *testing.T) {
	for _, input := range []string{":value", `type:"unterminated\"`} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseEntries(input)
			require.Error(t, err)
		})
	}
}

func TestImportName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"time", "time"},
		{"database/sql", "sql"},
		{"github.com/google/uuid", "uuid"},
		{"gopkg.in/yaml.v3", "yaml"},
		{"github.com/vmihailenco/msgpack/v5", "msgpack"},
		{"github.com/go-sql-driver/mysql", "mysql"},
		{"github.com/go-openapi/inflect", "inflect"},
		{"github.com/DATA-DOG/go-sqlmock", "sqlmock"},
		{"cloud.google.com/go/civil", "civil"},
		{"example.com/my-pkg", "mypkg"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ImportName(tt.path))
		})
	}
}

func TestParseShape(t *testing.T) {
	for input, want := range map[string]Shape{
		"":       ShapeAugment,
		"derive": ShapeAugment,
		"Module": ShapeModule,
		"table":  ShapeModule,
	} {
		got, err := ParseShape(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseShape("entity")
	require.Error(t, err)
	assert.Equal(t, "module", ShapeModule.String())
	assert.Equal(t, "Shape(9)", Shape(9).String())
}
