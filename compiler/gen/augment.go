package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/autocolumn/compiler/load"
)

// Augment renders the schema of an augment record. The file belongs to the
// record's own package and its declarations are prefixed by the record
// name, so several records can share a package:
//
//	type UserColumn int
//	const (
//		UserColumnId UserColumn = iota
//		UserColumnEmail
//	)
//	type UserEntity struct{}
//	type UserPrimaryKey int
func (c *Config) Augment(d *Descriptor) (*jen.File, error) {
	if d == nil || d.Shape != load.ShapeAugment {
		return nil, NewGenerationError(recordName(d), "", "augment requires an augment descriptor", nil)
	}
	if d.Package == "" {
		return nil, NewGenerationError(d.Record, "", "missing package name", nil)
	}
	n := prefixedNames(d.Record)
	f := newFile("", d.Package, c.Header)
	genColumns(f, d, n)
	f.Line()
	if d.Entity != nil {
		genEntity(f, d, n)
	}
	if d.PrimaryKey != nil {
		genPrimaryKey(f, d, n)
	}
	if c.FeatureEnabled(FeatureAssertions.Name) {
		genAssertions(f, d, n)
	}
	return f, nil
}

func recordName(d *Descriptor) string {
	if d == nil {
		return ""
	}
	return d.Record
}
