package schema

import (
	"context"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/autocolumn/dialect"
	"github.com/syssam/autocolumn/schema/field"
)

// defaultSchema is the schema name used when none is given.
var defaultSchema = map[string]string{
	dialect.SQLite:   "main",
	dialect.MySQL:    "autocolumn",
	dialect.Postgres: "public",
}

// Statement is a single DDL statement of a table.
type Statement struct {
	Table string
	SQL   string
}

// Atlas converts the tables into an atlas schema of the given dialect. An
// empty schema name selects the dialect default ("main" for SQLite, "public"
// for PostgreSQL).
func Atlas(name, schemaName string, tables []*Table) (*atlas.Schema, error) {
	name, err := dialect.Normalize(name)
	if err != nil {
		return nil, err
	}
	if schemaName == "" {
		schemaName = defaultSchema[name]
	}
	s := atlas.New(schemaName)
	for _, t := range tables {
		at, err := atlasTable(name, t)
		if err != nil {
			return nil, err
		}
		s.AddTables(at)
	}
	return s, nil
}

func atlasTable(name string, t *Table) (*atlas.Table, error) {
	at := atlas.NewTable(t.Name)
	inc := t.increment()
	for _, c := range t.Columns {
		typ, err := atlasType(name, c.Type)
		if err != nil {
			return nil, fmt.Errorf("schema: table %q column %q: %w", t.Name, c.Name, err)
		}
		ac := atlas.NewColumn(c.Name).SetType(typ).SetNull(c.Nullable)
		if c == inc {
			switch name {
			case dialect.SQLite:
				ac.AddAttrs(&sqlite.AutoIncrement{})
			case dialect.MySQL:
				ac.AddAttrs(&mysql.AutoIncrement{})
			case dialect.Postgres:
				ac.AddAttrs(&postgres.Identity{Generation: "BY DEFAULT"})
			}
		}
		at.AddColumns(ac)
	}
	if len(t.PrimaryKey) > 0 {
		parts := make([]*atlas.Column, len(t.PrimaryKey))
		for i, n := range t.PrimaryKey {
			c, ok := at.Column(n)
			if !ok {
				return nil, fmt.Errorf("schema: table %q: unknown key column %q", t.Name, n)
			}
			parts[i] = c
		}
		at.SetPrimaryKey(atlas.NewPrimaryKey(parts...))
	}
	return at, nil
}

// atlasType maps a column type to the atlas type of the dialect.
func atlasType(name string, ct field.ColumnType) (atlas.Type, error) {
	var (
		isSQLite = name == dialect.SQLite
		isPG     = name == dialect.Postgres
		size     = ct.Size
	)
	switch ct.Type {
	case field.TypeString:
		if isSQLite {
			return &atlas.StringType{T: "text"}, nil
		}
		if size == 0 {
			size = 255
		}
		return &atlas.StringType{T: "varchar", Size: size}, nil
	case field.TypeChar:
		if isSQLite {
			return &atlas.StringType{T: "text"}, nil
		}
		if size == 0 {
			size = 1
		}
		return &atlas.StringType{T: "char", Size: size}, nil
	case field.TypeText:
		return &atlas.StringType{T: "text"}, nil
	case field.TypeTinyInteger, field.TypeSmallInteger, field.TypeInteger, field.TypeBigInteger:
		if isSQLite {
			return &atlas.IntegerType{T: "integer"}, nil
		}
		return &atlas.IntegerType{T: integerTypes[ct.Type][btoi(isPG)]}, nil
	case field.TypeFloat:
		if isSQLite || isPG {
			return &atlas.FloatType{T: "real"}, nil
		}
		return &atlas.FloatType{T: "float"}, nil
	case field.TypeDouble:
		switch {
		case isSQLite:
			return &atlas.FloatType{T: "real"}, nil
		case isPG:
			return &atlas.FloatType{T: "double precision"}, nil
		}
		return &atlas.FloatType{T: "double"}, nil
	case field.TypeDecimal:
		p, s := ct.Precision, ct.Scale
		if p == 0 {
			p = 10
		}
		if isPG {
			return &atlas.DecimalType{T: "numeric", Precision: p, Scale: s}, nil
		}
		return &atlas.DecimalType{T: "decimal", Precision: p, Scale: s}, nil
	case field.TypeBoolean:
		if isPG {
			return &atlas.BoolType{T: "boolean"}, nil
		}
		return &atlas.BoolType{T: "bool"}, nil
	case field.TypeDate:
		return &atlas.TimeType{T: "date"}, nil
	case field.TypeTime:
		return &atlas.TimeType{T: "time"}, nil
	case field.TypeDateTime:
		if isPG {
			return &atlas.TimeType{T: "timestamp"}, nil
		}
		return &atlas.TimeType{T: "datetime"}, nil
	case field.TypeTimestamp:
		switch {
		case isSQLite:
			return &atlas.TimeType{T: "datetime"}, nil
		case isPG:
			return &atlas.TimeType{T: "timestamp with time zone"}, nil
		}
		return &atlas.TimeType{T: "timestamp"}, nil
	case field.TypeUUID:
		switch {
		case isSQLite:
			return &atlas.StringType{T: "text"}, nil
		case isPG:
			return &atlas.UUIDType{T: "uuid"}, nil
		}
		return &atlas.StringType{T: "char", Size: 36}, nil
	case field.TypeBinary:
		switch {
		case isPG:
			return &atlas.BinaryType{T: "bytea"}, nil
		case !isSQLite && size > 0:
			return &atlas.BinaryType{T: "varbinary", Size: &size}, nil
		}
		return &atlas.BinaryType{T: "blob"}, nil
	case field.TypeJSON:
		if isPG {
			return &atlas.JSONType{T: "jsonb"}, nil
		}
		return &atlas.JSONType{T: "json"}, nil
	default:
		return nil, fmt.Errorf("unsupported column type %s", ct)
	}
}

// integerTypes holds the MySQL and PostgreSQL names of the integer kinds.
var integerTypes = map[field.Type][2]string{
	field.TypeTinyInteger:  {"tinyint", "smallint"},
	field.TypeSmallInteger: {"smallint", "smallint"},
	field.TypeInteger:      {"int", "integer"},
	field.TypeBigInteger:   {"bigint", "bigint"},
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

func planner(name string) migrate.PlanApplier {
	switch name {
	case dialect.MySQL:
		return mysql.DefaultPlan
	case dialect.Postgres:
		return postgres.DefaultPlan
	default:
		return sqlite.DefaultPlan
	}
}

// Plan returns the CREATE TABLE statements of the tables in the given
// dialect, in table order. Table names are not schema qualified.
func Plan(ctx context.Context, name string, tables []*Table) ([]*Statement, error) {
	s, err := Atlas(name, "", tables)
	if err != nil {
		return nil, err
	}
	name, _ = dialect.Normalize(name)
	pl := planner(name)
	unqualified := func(o *migrate.PlanOptions) { o.SchemaQualifier = new(string) }
	var stmts []*Statement
	for _, t := range s.Tables {
		plan, err := pl.PlanChanges(ctx, "create_"+t.Name, []atlas.Change{&atlas.AddTable{T: t}}, unqualified)
		if err != nil {
			return nil, fmt.Errorf("schema: plan table %q: %w", t.Name, err)
		}
		for _, c := range plan.Changes {
			stmts = append(stmts, &Statement{Table: t.Name, SQL: c.Cmd})
		}
	}
	return stmts, nil
}

// DDL returns the CREATE TABLE statements of the tables in the given dialect.
func DDL(ctx context.Context, name string, tables []*Table) ([]string, error) {
	stmts, err := Plan(ctx, name, tables)
	if err != nil {
		return nil, err
	}
	ddl := make([]string, len(stmts))
	for i, s := range stmts {
		ddl[i] = s.SQL
	}
	return ddl, nil
}

// MarshalHCL returns the atlas HCL document of the tables in the given
// dialect.
func MarshalHCL(name, schemaName string, tables []*Table) ([]byte, error) {
	s, err := Atlas(name, schemaName, tables)
	if err != nil {
		return nil, err
	}
	name, _ = dialect.Normalize(name)
	switch name {
	case dialect.MySQL:
		return mysql.MarshalHCL.MarshalSpec(s)
	case dialect.Postgres:
		return postgres.MarshalHCL.MarshalSpec(s)
	default:
		return sqlite.MarshalHCL.MarshalSpec(s)
	}
}
