package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/autocolumn/schema/field"
)

// Import paths referenced by generated code.
const (
	runtimePkg = "github.com/syssam/autocolumn"
	fieldPkg   = "github.com/syssam/autocolumn/schema/field"
)

// typeNames holds the names of the generated declarations. The augment
// shape prefixes them with the record name, the module shape does not.
type typeNames struct {
	column      string // Column enum type.
	columns     string // Function returning all columns.
	entity      string // Entity identity type.
	primaryKey  string // Primary key enum type.
	primaryKeys string // Function returning all keys.
	private     string // Prefix of unexported tables.
}

func prefixedNames(record string) typeNames {
	return typeNames{
		column:      record + "Column",
		columns:     record + "Columns",
		entity:      record + "Entity",
		primaryKey:  record + "PrimaryKey",
		primaryKeys: record + "PrimaryKeys",
		private:     lowerFirst(record),
	}
}

var moduleNames = typeNames{
	column:      "Column",
	columns:     "Columns",
	entity:      "Entity",
	primaryKey:  "PrimaryKey",
	primaryKeys: "PrimaryKeys",
	private:     "",
}

// unexported returns the name of an unexported package-level table.
func (n typeNames) unexported(name string) string {
	if n.private == "" {
		return lowerFirst(name)
	}
	return n.private + name
}

// newFile creates a new Jennifer file with the given header comment.
func newFile(pkgPath, pkgName, header string) *jen.File {
	var f *jen.File
	if pkgPath != "" {
		f = jen.NewFilePathName(pkgPath, pkgName)
	} else {
		f = jen.NewFile(pkgName)
	}
	if header != "" {
		f.HeaderComment(header)
	}
	return f
}

// columnDef returns the constructor chain of a column definition, for
// example field.String(255).Def().Null().
func columnDef(col *Column) jen.Code {
	ct := col.Type.ColumnType()
	s := columnType(ct).Dot("Def").Call()
	if col.Nullable {
		s = s.Dot("Null").Call()
	}
	return s
}

func columnType(ct field.ColumnType) *jen.Statement {
	args := make([]jen.Code, 0, 2)
	for _, a := range ct.Args() {
		args = append(args, jen.Lit(a))
	}
	return jen.Qual(fieldPkg, ct.Type.String()).Call(args...)
}

// genColumns emits the column enumeration of a descriptor.
func genColumns(f *jen.File, d *Descriptor, n typeNames) {
	var (
		consts = make([]jen.Code, 0, len(d.Columns))
		all    = make([]jen.Code, 0, len(d.Columns))
		idents = make([]jen.Code, 0, len(d.Columns))
		names  = make([]jen.Code, 0, len(d.Columns))
		defs   = make([]jen.Code, 0, len(d.Columns))
		identT = n.unexported("ColumnIdents")
		nameT  = n.unexported("ColumnNames")
		defT   = n.unexported("ColumnDefs")
	)
	for i, col := range d.Columns {
		id := n.column + col.Ident
		if i == 0 {
			consts = append(consts, jen.Id(id).Id(n.column).Op("=").Iota())
		} else {
			consts = append(consts, jen.Id(id))
		}
		all = append(all, jen.Id(id))
		idents = append(idents, jen.Lit(col.Ident))
		names = append(names, jen.Lit(col.Name))
		defs = append(defs, columnDef(col))
	}
	f.Commentf("%s enumerates the columns of %s, in field declaration order.", n.column, d.Record)
	f.Type().Id(n.column).Int()
	f.Line()
	f.Const().Defs(consts...)
	f.Line()
	f.Var().Defs(
		jen.Id(identT).Op("=").Index(jen.Op("...")).String().Values(idents...),
		jen.Id(nameT).Op("=").Index(jen.Op("...")).String().Values(names...),
		jen.Id(defT).Op("=").Index(jen.Op("...")).Qual(fieldPkg, "ColumnDef").Values(defs...),
	)
	f.Line()
	genEnumString(f, n.column, "c", jen.Return(jen.Id(identT).Index(jen.Id("c"))), identT)
	f.Comment("Name returns the SQL name of the column.")
	f.Func().Params(jen.Id("c").Id(n.column)).Id("Name").Params().String().Block(
		jen.Return(jen.Id(nameT).Index(jen.Id("c"))),
	)
	f.Line()
	f.Comment("Def returns the column definition.")
	f.Func().Params(jen.Id("c").Id(n.column)).Id("Def").Params().Qual(fieldPkg, "ColumnDef").Block(
		jen.Return(jen.Id(defT).Index(jen.Id("c"))),
	)
	f.Line()
	f.Commentf("%s returns the columns of %s.", n.columns, d.Record)
	f.Func().Id(n.columns).Params().Index().Id(n.column).Block(
		jen.Return(jen.Index().Id(n.column).Values(all...)),
	)
}

// genEnumString emits a String method returning ret for valid values of an
// int enum, and "Type(n)" for others.
func genEnumString(f *jen.File, typ, recv string, ret jen.Code, table string) {
	f.Comment("String implements the fmt.Stringer interface.")
	f.Func().Params(jen.Id(recv).Id(typ)).Id("String").Params().String().Block(
		jen.If(jen.Id(recv).Op("<").Lit(0).Op("||").Int().Call(jen.Id(recv)).Op(">=").Len(jen.Id(table))).Block(
			jen.Return(jen.Lit(typ+"(").Op("+").Qual("strconv", "Itoa").Call(jen.Int().Call(jen.Id(recv))).Op("+").Lit(")")),
		),
		ret,
	)
	f.Line()
}

// genEntity emits the entity identity of a descriptor.
func genEntity(f *jen.File, d *Descriptor, n typeNames) {
	f.Commentf("%s is the entity identity of the %s table.", n.entity, d.Entity.TableName)
	f.Type().Id(n.entity).Struct()
	f.Line()
	f.Comment("TableName returns the name of the table.")
	f.Func().Params(jen.Id(n.entity)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(d.Entity.TableName)),
	)
	f.Line()
	f.Comment("Entity returns the entity owning the column.")
	f.Func().Params(jen.Id(n.column)).Id("Entity").Params().Id(n.entity).Block(
		jen.Return(jen.Id(n.entity).Values()),
	)
	f.Line()
}

// genPrimaryKey emits the primary key enumeration of a descriptor.
func genPrimaryKey(f *jen.File, d *Descriptor, n typeNames) {
	pk := d.PrimaryKey
	var (
		consts  = make([]jen.Code, 0, len(pk.Columns))
		all     = make([]jen.Code, 0, len(pk.Columns))
		columns = make([]jen.Code, 0, len(pk.Columns))
		colT    = n.unexported("PrimaryKeyColumns")
	)
	for i, col := range pk.Columns {
		id := n.primaryKey + col.Ident
		if i == 0 {
			consts = append(consts, jen.Id(id).Id(n.primaryKey).Op("=").Iota())
		} else {
			consts = append(consts, jen.Id(id))
		}
		all = append(all, jen.Id(id))
		columns = append(columns, jen.Id(n.column+col.Ident))
	}
	f.Commentf("%s enumerates the primary key columns of %s.", n.primaryKey, d.Record)
	f.Type().Id(n.primaryKey).Int()
	f.Line()
	f.Const().Defs(consts...)
	f.Line()
	f.Var().Id(colT).Op("=").Index(jen.Op("...")).Id(n.column).Values(columns...)
	f.Line()
	genEnumString(f, n.primaryKey, "k", jen.Return(jen.Id("k").Dot("Column").Call().Dot("String").Call()), colT)
	f.Comment("Column returns the column of the key.")
	f.Func().Params(jen.Id("k").Id(n.primaryKey)).Id("Column").Params().Id(n.column).Block(
		jen.Return(jen.Id(colT).Index(jen.Id("k"))),
	)
	f.Line()
	f.Comment("AutoIncrement reports if the key values are generated by the database.")
	f.Func().Params(jen.Id(n.primaryKey)).Id("AutoIncrement").Params().Bool().Block(
		jen.Return(jen.Lit(pk.AutoIncrement)),
	)
	f.Line()
	f.Commentf("%s returns the primary key columns of %s.", n.primaryKeys, d.Record)
	f.Func().Id(n.primaryKeys).Params().Index().Id(n.primaryKey).Block(
		jen.Return(jen.Index().Id(n.primaryKey).Values(all...)),
	)
}

// genAssertions emits compile-time assertions of the runtime contract.
func genAssertions(f *jen.File, d *Descriptor, n typeNames, extra ...jen.Code) {
	defs := []jen.Code{
		jen.Id("_").Qual(runtimePkg, "ColumnTrait").Op("=").Id(n.column).Call(jen.Lit(0)),
	}
	if d.Entity != nil {
		defs = append(defs, jen.Id("_").Qual(runtimePkg, "EntityName").Op("=").Id(n.entity).Values())
	}
	if d.PrimaryKey != nil {
		defs = append(defs, jen.Id("_").Qual(runtimePkg, "PrimaryKeyTrait").Op("=").Id(n.primaryKey).Call(jen.Lit(0)))
	}
	f.Line()
	f.Var().Defs(append(defs, extra...)...)
}

// goType converts a declared type expression into Jennifer code, resolving
// package qualifiers through imports.
func goType(expr string, imports map[string]string) (jen.Code, error) {
	x, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", expr, err)
	}
	return typeCode(x, imports)
}

func typeCode(x ast.Expr, imports map[string]string) (*jen.Statement, error) {
	switch x := x.(type) {
	case *ast.Ident:
		return jen.Id(x.Name), nil
	case *ast.SelectorExpr:
		pkg, ok := x.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("unexpected qualifier in %T", x.X)
		}
		path, ok := imports[pkg.Name]
		if !ok {
			path, ok = knownPath(pkg.Name)
		}
		if !ok {
			return nil, fmt.Errorf("unknown package %q", pkg.Name)
		}
		return jen.Qual(path, x.Sel.Name), nil
	case *ast.StarExpr:
		elem, err := typeCode(x.X, imports)
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(elem), nil
	case *ast.ArrayType:
		elem, err := typeCode(x.Elt, imports)
		if err != nil {
			return nil, err
		}
		if x.Len == nil {
			return jen.Index().Add(elem), nil
		}
		n, ok := x.Len.(*ast.BasicLit)
		if !ok {
			return nil, fmt.Errorf("unsupported array length %T", x.Len)
		}
		size, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid array length %s: %w", n.Value, err)
		}
		return jen.Index(jen.Lit(int(size))).Add(elem), nil
	case *ast.MapType:
		key, err := typeCode(x.Key, imports)
		if err != nil {
			return nil, err
		}
		val, err := typeCode(x.Value, imports)
		if err != nil {
			return nil, err
		}
		return jen.Map(key).Add(val), nil
	case *ast.IndexExpr:
		base, err := typeCode(x.X, imports)
		if err != nil {
			return nil, err
		}
		arg, err := typeCode(x.Index, imports)
		if err != nil {
			return nil, err
		}
		return base.Types(arg), nil
	case *ast.IndexListExpr:
		base, err := typeCode(x.X, imports)
		if err != nil {
			return nil, err
		}
		args := make([]jen.Code, 0, len(x.Indices))
		for _, i := range x.Indices {
			arg, err := typeCode(i, imports)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return base.Types(args...), nil
	case *ast.InterfaceType:
		if x.Methods != nil && len(x.Methods.List) > 0 {
			return nil, fmt.Errorf("unsupported interface type")
		}
		return jen.Interface(), nil
	default:
		return nil, fmt.Errorf("unsupported type expression %T", x)
	}
}

// knownPath returns the import path of a known package by its canonical
// name.
func knownPath(name string) (string, bool) {
	for path, n := range knownPackages {
		if n == name {
			return path, true
		}
	}
	return "", false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
