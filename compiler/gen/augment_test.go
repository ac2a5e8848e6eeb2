package gen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/autocolumn/compiler/load"
)

func TestAugment(t *testing.T) {
	c := MustNewConfig()
	d, err := c.Assemble(fooRecord())
	require.NoError(t, err)
	f, err := c.Augment(d)
	require.NoError(t, err)
	src := fmt.Sprintf("%#v", f)

	for _, s := range []string{
		"// " + DefaultHeader,
		"package models",
		`"github.com/syssam/autocolumn/schema/field"`,
		`"strconv"`,
		"type FooColumn int",
		"FooColumnId FooColumn = iota",
		"FooColumnName\n",
		`[...]string{"Id", "Name"}`,
		`[...]string{"id", "name"}`,
		"[...]field.ColumnDef{field.Integer().Def(), field.String(255).Def().Null()}",
		"func (c FooColumn) String() string {",
		`return "FooColumn(" + strconv.Itoa(int(c)) + ")"`,
		"return fooColumnIdents[c]",
		"func (c FooColumn) Name() string {",
		"return fooColumnNames[c]",
		"func (c FooColumn) Def() field.ColumnDef {",
		"func FooColumns() []FooColumn {",
		"return []FooColumn{FooColumnId, FooColumnName}",
		"type FooEntity struct{}",
		"func (FooEntity) TableName() string {",
		`return "foo"`,
		"func (FooColumn) Entity() FooEntity {",
		"type FooPrimaryKey int",
		"FooPrimaryKeyId FooPrimaryKey = iota",
		"var fooPrimaryKeyColumns = [...]FooColumn{FooColumnId}",
		"func (k FooPrimaryKey) Column() FooColumn {",
		"func (FooPrimaryKey) AutoIncrement() bool {\n\treturn true\n}",
		"func FooPrimaryKeys() []FooPrimaryKey {",
		"autocolumn.ColumnTrait",
		"= FooColumn(0)",
		"autocolumn.EntityName",
		"= FooEntity{}",
		"autocolumn.PrimaryKeyTrait",
		"= FooPrimaryKey(0)",
	} {
		assert.Contains(t, src, s)
	}
}

func TestAugment_Optional(t *testing.T) {
	t.Run("no entity and no key", func(t *testing.T) {
		r := &load.Record{Name: "Point", Package: "geo", Fields: []*load.Field{
			{Name: "X", Type: "float64"},
			{Name: "Y", Type: "*float32"},
		}}
		c := MustNewConfig()
		d, err := c.Assemble(r)
		require.NoError(t, err)
		f, err := c.Augment(d)
		require.NoError(t, err)
		src := fmt.Sprintf("%#v", f)

		assert.Contains(t, src, "package geo")
		assert.Contains(t, src, "field.Double().Def(), field.Float().Def().Null()")
		assert.NotContains(t, src, "PointEntity")
		assert.NotContains(t, src, "PointPrimaryKey")
		assert.NotContains(t, src, "autocolumn.EntityName")
	})

	t.Run("composite key", func(t *testing.T) {
		r := &load.Record{Name: "Membership", Package: "models", Fields: []*load.Field{
			{Name: "UserID", Type: "int64", Annotations: []*load.Annotation{flag("primary_key")}},
			{Name: "GroupID", Type: "int64", Annotations: []*load.Annotation{flag("primary_key")}},
		}}
		c := MustNewConfig()
		d, err := c.Assemble(r)
		require.NoError(t, err)
		f, err := c.Augment(d)
		require.NoError(t, err)
		src := fmt.Sprintf("%#v", f)

		assert.Contains(t, src, "func (MembershipPrimaryKey) AutoIncrement() bool {\n\treturn false\n}")
		assert.Contains(t, src, "[...]MembershipColumn{MembershipColumnUserId, MembershipColumnGroupId}")
	})

	t.Run("without assertions", func(t *testing.T) {
		c := MustNewConfig(WithoutFeatures(FeatureAssertions.Name), WithHeader(""))
		d, err := c.Assemble(fooRecord())
		require.NoError(t, err)
		f, err := c.Augment(d)
		require.NoError(t, err)
		src := fmt.Sprintf("%#v", f)

		assert.NotContains(t, src, "autocolumn.ColumnTrait")
		assert.NotContains(t, src, DefaultHeader)
	})
}

func TestAugment_Errors(t *testing.T) {
	c := MustNewConfig()
	_, err := c.Augment(nil)
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))

	d, err := c.Assemble(sessionRecord())
	require.NoError(t, err)
	_, err = c.Augment(d)
	require.Error(t, err)

	r := fooRecord()
	r.Package = ""
	d, err = c.Assemble(r)
	require.NoError(t, err)
	_, err = c.Augment(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing package name")
}
