package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/autocolumn/compiler/load"
)

// ModuleFiles are the rendered files of a module package.
type ModuleFiles struct {
	// Package is the package name, which is also its directory name.
	Package string
	// Schema holds the model and its schema. It is regenerated on every run.
	Schema *jen.File
	// Scaffold holds the relation and lifecycle stubs. It is written once
	// and then left to be extended by hand.
	Scaffold *jen.File
}

// ScaffoldHeader is the header comment of scaffold files.
const ScaffoldHeader = "Code scaffolded by autocolumn. This file is written once and can be edited."

// Module renders the package of a module record. The package is named after
// the record and holds unprefixed declarations:
//
//	type Model struct{ ... }
//	type Entity struct{}
//	type Column int
//	type PrimaryKey int
//	type Relation int
//	type Behavior struct{ autocolumn.NopBehavior }
func (c *Config) Module(d *Descriptor) (*ModuleFiles, error) {
	if d == nil || d.Shape != load.ShapeModule {
		return nil, NewGenerationError(recordName(d), "", "module requires a module descriptor", nil)
	}
	if d.Entity == nil || d.PrimaryKey == nil {
		return nil, NewGenerationError(d.Record, "", "module records require a table name and a primary key", nil)
	}
	pkg := snake(d.Record)
	schema, err := c.moduleSchema(d, pkg)
	if err != nil {
		return nil, err
	}
	return &ModuleFiles{
		Package:  pkg,
		Schema:   schema,
		Scaffold: c.moduleScaffold(d, pkg),
	}, nil
}

func (c *Config) moduleSchema(d *Descriptor, pkg string) (*jen.File, error) {
	f := newFile(c.modulePath(pkg), pkg, c.Header)
	f.PackageComment("Package " + pkg + " holds the model and the schema of the " + d.Entity.TableName + " table.")
	fields := make([]jen.Code, 0, len(d.Columns))
	for _, col := range d.Columns {
		typ, err := goType(col.GoType, d.Imports)
		if err != nil {
			return nil, NewGenerationError(d.Record, "", "field "+col.Field, err)
		}
		fields = append(fields, jen.Id(exported(col.Field)).Add(typ).Tag(map[string]string{"db": col.Name}))
	}
	f.Commentf("Model is a row of the %s table.", d.Entity.TableName)
	f.Type().Id("Model").Struct(fields...)
	f.Line()
	genEntity(f, d, moduleNames)
	genColumns(f, d, moduleNames)
	f.Line()
	genPrimaryKey(f, d, moduleNames)
	if c.FeatureEnabled(FeatureAssertions.Name) {
		genAssertions(f, d, moduleNames)
	}
	return f, nil
}

func (c *Config) moduleScaffold(d *Descriptor, pkg string) *jen.File {
	f := newFile(c.modulePath(pkg), pkg, ScaffoldHeader)
	f.Commentf("Relation enumerates the relations of the %s table.", d.Entity.TableName)
	f.Type().Id("Relation").Int()
	f.Line()
	f.Comment("Def returns the definition of the relation. Declare relations and")
	f.Comment("return their definitions here.")
	f.Func().Params(jen.Id("r").Id("Relation")).Id("Def").Params().Qual(runtimePkg, "RelationDef").Block(
		jen.Panic(jen.Qual(runtimePkg, "NewUndefinedRelationError").Call(jen.Lit(d.Entity.TableName), jen.Int().Call(jen.Id("r")))),
	)
	f.Line()
	f.Commentf("Relations returns the relations of the %s table.", d.Entity.TableName)
	f.Func().Id("Relations").Params().Index().Id("Relation").Block(
		jen.Return(jen.Nil()),
	)
	f.Line()
	f.Comment("Behavior holds the lifecycle hooks of Model. Override the hooks of")
	f.Comment("NopBehavior to customize them.")
	f.Type().Id("Behavior").Struct(jen.Qual(runtimePkg, "NopBehavior"))
	if c.FeatureEnabled(FeatureAssertions.Name) {
		f.Line()
		f.Var().Defs(
			jen.Id("_").Qual(runtimePkg, "RelationTrait").Op("=").Id("Relation").Call(jen.Lit(0)),
			jen.Id("_").Qual(runtimePkg, "ActiveModelBehavior").Op("=").Id("Behavior").Values(),
		)
	}
	return f
}

// modulePath returns the import path of a module package, if the target
// package path is known.
func (c *Config) modulePath(pkg string) string {
	if c.Package == "" {
		return ""
	}
	return c.Package + "/" + pkg
}
