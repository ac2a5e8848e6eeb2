package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/autocolumn/schema/field"
)

func usersTable() *Table {
	return NewTable("users").
		AddColumn(&Column{Name: "id", Type: field.BigInteger()}).
		AddColumn(&Column{Name: "name", Type: field.String(255)}).
		AddColumn(&Column{Name: "bio", Type: field.Text(), Nullable: true}).
		SetPrimaryKey(true, "id")
}

func messages(errs []*ValidationError) []string {
	var m []string
	for _, e := range errs {
		m = append(m, e.Error())
	}
	return m
}

func TestValidateDiff(t *testing.T) {
	tests := []struct {
		name     string
		desired  func(*Table)
		opts     []ValidateOption
		errors   []string
		warnings []string
		changes  []string
	}{
		{
			name:    "unchanged",
			desired: func(*Table) {},
		},
		{
			name:    "drop column",
			desired: func(t *Table) { t.Columns = t.Columns[:2] },
			errors:  []string{"users.bio: column will be dropped"},
		},
		{
			name:     "drop column allowed",
			desired:  func(t *Table) { t.Columns = t.Columns[:2] },
			opts:     []ValidateOption{AllowDropColumn()},
			warnings: []string{"users.bio: column will be dropped"},
		},
		{
			name:    "add nullable column",
			desired: func(t *Table) { t.AddColumn(&Column{Name: "age", Type: field.Integer(), Nullable: true}) },
			changes: []string{"users.age: column will be added"},
		},
		{
			name:     "add not null column",
			desired:  func(t *Table) { t.AddColumn(&Column{Name: "age", Type: field.Integer()}) },
			warnings: []string{"users.age: new NOT NULL column may fail if table has data"},
		},
		{
			name:     "change type",
			desired:  func(t *Table) { t.Columns[2].Type = field.JSON() },
			warnings: []string{"users.bio: column type changing from Text() to JSON()"},
		},
		{
			name:    "grow size",
			desired: func(t *Table) { t.Columns[1].Type = field.String(512) },
			changes: []string{"users.name: column type changing from String(255) to String(512)"},
		},
		{
			name:     "shrink size",
			desired:  func(t *Table) { t.Columns[1].Type = field.String(64) },
			warnings: []string{"users.name: column type changing from String(255) to String(64) may truncate data"},
		},
		{
			name:    "null to not null",
			desired: func(t *Table) { t.Columns[2].Nullable = false },
			errors:  []string{"users.bio: column changing from NULL to NOT NULL may fail if column has NULL values"},
		},
		{
			name:     "null to not null allowed",
			desired:  func(t *Table) { t.Columns[2].Nullable = false },
			opts:     []ValidateOption{AllowNullToNotNull()},
			warnings: []string{"users.bio: column changing from NULL to NOT NULL may fail if column has NULL values"},
		},
		{
			name:    "not null to null",
			desired: func(t *Table) { t.Columns[1].Nullable = true },
			changes: []string{"users.name: column changing from NOT NULL to NULL"},
		},
		{
			name:    "primary key",
			desired: func(t *Table) { t.PrimaryKey = []string{"id", "name"} },
			errors:  []string{"users: primary key changing from [id] to [id name]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desired := usersTable()
			tt.desired(desired)
			r := ValidateDiff([]*Table{usersTable()}, []*Table{desired}, tt.opts...)
			assert.Equal(t, tt.errors, messages(r.Errors))
			assert.Equal(t, tt.warnings, messages(r.Warnings))
			assert.Equal(t, tt.changes, messages(r.Changes))
			assert.Equal(t, tt.errors != nil || tt.warnings != nil || tt.changes != nil, r.HasChanges())
		})
	}
}

func TestValidateDiff_Tables(t *testing.T) {
	posts := NewTable("posts").AddColumn(&Column{Name: "id", Type: field.Integer()}).SetPrimaryKey(true, "id")

	r := ValidateDiff([]*Table{usersTable()}, []*Table{posts})
	assert.Equal(t, []string{"users: table will be dropped"}, messages(r.Errors))
	assert.Equal(t, []string{"posts: table will be created"}, messages(r.Changes))
	assert.True(t, r.HasBreakingChanges())
	assert.Contains(t, r.String(), "users: table will be dropped [BREAKING]")
	assert.Contains(t, r.String(), "Changes:\n  - posts: table will be created")

	r = ValidateDiff([]*Table{usersTable()}, nil, AllowDropTable())
	assert.False(t, r.HasErrors())
	assert.True(t, r.HasWarnings())
	assert.True(t, r.HasBreakingChanges())

	r = ValidateDiff(nil, nil)
	assert.Equal(t, "No issues found", r.String())
}

func TestValidateSchema(t *testing.T) {
	users := usersTable()
	users.Record = "User"
	dup := usersTable()
	dup.Record = "Account"
	keyless := NewTable("logs").
		AddColumn(&Column{Name: "line", Type: field.Text()}).
		AddColumn(&Column{Name: "line", Type: field.Text()})
	badKey := NewTable("tags").AddColumn(&Column{Name: "id", Type: field.Integer()}).SetPrimaryKey(false, "tag_id")

	r := ValidateSchema([]*Table{users, dup, keyless, badKey})
	require.True(t, r.HasErrors())
	assert.Equal(t, []string{
		"users: duplicate table name (records User and Account)",
		"logs.line: duplicate column name",
		`tags: primary key references non-existent column "tag_id"`,
	}, messages(r.Errors))
	assert.Equal(t, []string{"logs: table has no primary key"}, messages(r.Warnings))
	assert.False(t, ValidateSchema([]*Table{usersTable()}).HasChanges())
}
