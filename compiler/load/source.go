package load

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Directive verbs. A struct type whose doc comment contains one of them is
// a record:
//
//	//autocolumn:derive table_name:users
//	type User struct { ... }
//
//	//autocolumn:table table_name:users; primary_key:id
//	type User struct { ... }
const (
	verbDerive = "derive"
	verbTable  = "table"
)

// ParseFile parses the Go source file at filename and returns its records in
// declaration order. If src != nil, it is used instead of the file content.
func ParseFile(filename string, src any) ([]*Record, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("load: parse %s: %w", filename, err)
	}
	return FileRecords(fset, f)
}

// ParseDir parses all non-test Go files of dir. Records are returned
// ordered by file name, then by declaration order.
func ParseDir(dir string) ([]*Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load: read dir: %w", err)
	}
	var records []*Record
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}
		rs, err := ParseFile(filepath.Join(dir, name), nil)
		if err != nil {
			return nil, err
		}
		records = append(records, rs...)
	}
	return records, nil
}

// FileRecords extracts the records of a parsed file. The file must have been
// parsed with parser.ParseComments.
func FileRecords(fset *token.FileSet, f *ast.File) ([]*Record, error) {
	imports := fileImports(f)
	dir := sourceDir(fset.Position(f.Package).Filename)
	var records []*Record
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			verb, entries, ok, err := directive(doc)
			if err != nil {
				return nil, fmt.Errorf("load: %s: type %s: %w", fset.Position(ts.Pos()), ts.Name.Name, err)
			}
			if !ok {
				continue
			}
			r := &Record{
				Name:        ts.Name.Name,
				Pos:         fset.Position(ts.Pos()).String(),
				Shape:       ShapeAugment,
				Package:     f.Name.Name,
				Dir:         dir,
				Imports:     imports,
				Annotations: entries,
			}
			if verb == verbTable {
				r.Shape = ShapeModule
			}
			for _, fd := range st.Fields.List {
				fields, err := structFields(fset, fd)
				if err != nil {
					return nil, fmt.Errorf("load: record %s: %w", r.Name, err)
				}
				r.Fields = append(r.Fields, fields...)
			}
			records = append(records, r)
		}
	}
	return records, nil
}

// sourceDir returns the absolute directory of a source file, or "" for
// sources without a file name.
func sourceDir(filename string) string {
	if filename == "" {
		return ""
	}
	dir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return filepath.Dir(filename)
	}
	return dir
}

// directive returns the verb and the entries of the autocolumn directive of
// a doc comment. Directive lines are matched on the raw comment list, since
// ast.CommentGroup.Text drops them.
func directive(doc *ast.CommentGroup) (string, []*Annotation, bool, error) {
	if doc == nil {
		return "", nil, false, nil
	}
	prefix := "//" + Namespace + ":"
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, prefix) {
			continue
		}
		verb, rest, _ := strings.Cut(strings.TrimPrefix(c.Text, prefix), " ")
		switch verb {
		case verbDerive, verbTable:
		default:
			return "", nil, false, fmt.Errorf("unknown directive %q", prefix+verb)
		}
		entries, err := ParseEntries(rest)
		if err != nil {
			return "", nil, false, err
		}
		return verb, entries, true, nil
	}
	return "", nil, false, nil
}

func structFields(fset *token.FileSet, fd *ast.Field) ([]*Field, error) {
	// Embedded fields carry no column of their own.
	if len(fd.Names) == 0 {
		return nil, nil
	}
	var annotations []*Annotation
	if fd.Tag != nil {
		tag, err := strconv.Unquote(fd.Tag.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid struct tag %s: %w", fd.Tag.Value, err)
		}
		v, ok := reflect.StructTag(tag).Lookup(Namespace)
		if ok && strings.TrimSpace(v) == "-" {
			return nil, nil
		}
		if annotations, err = ParseEntries(v); err != nil {
			return nil, fmt.Errorf("field %s: %w", fd.Names[0].Name, err)
		}
		annotations = append(annotations, foreignTags(tag)...)
	}
	typ := types.ExprString(fd.Type)
	fields := make([]*Field, 0, len(fd.Names))
	for _, name := range fd.Names {
		fields = append(fields, &Field{
			Name:        name.Name,
			Type:        typ,
			Pos:         fset.Position(name.Pos()).String(),
			Annotations: annotations,
		})
	}
	return fields, nil
}

var tagKey = regexp.MustCompile(`(?:^|\s)([A-Za-z_][\w.-]*):"`)

// foreignTags reports the struct tags of other namespaces (json, db) as
// annotations keyed by their tag name.
func foreignTags(tag string) []*Annotation {
	var annotations []*Annotation
	for _, m := range tagKey.FindAllStringSubmatch(tag, -1) {
		if m[1] == Namespace {
			continue
		}
		v, _ := reflect.StructTag(tag).Lookup(m[1])
		annotations = append(annotations, &Annotation{Namespace: m[1], Key: m[1], Value: StringLit(v)})
	}
	return annotations
}

// ParseEntries parses a ';' separated list of annotation entries. An entry
// is either a flag ("primary_key") or a key/value pair separated by ':' or
// '=' ("type:String(255)", `table_name="users"`). Quoted values are
// unquoted; single quotes are accepted as well.
func ParseEntries(s string) ([]*Annotation, error) {
	var annotations []*Annotation
	for _, entry := range splitEntries(s) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		i := strings.IndexAny(entry, ":=")
		if i < 0 {
			annotations = append(annotations, newAnnotation(entry, nil))
			continue
		}
		key, value := strings.TrimSpace(entry[:i]), strings.TrimSpace(entry[i+1:])
		if key == "" {
			return nil, fmt.Errorf("missing key in entry %q", entry)
		}
		v, err := unquote(value)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", entry, err)
		}
		annotations = append(annotations, newAnnotation(key, StringLit(v)))
	}
	return annotations, nil
}

// splitEntries splits s on ';' outside of quotes.
func splitEntries(s string) []string {
	var (
		parts []string
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
		case r == '"' || r == '\'' || r == '`':
			quote = r
		case r == ';':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func unquote(v string) (string, error) {
	if len(v) < 2 {
		return v, nil
	}
	switch q := v[0]; {
	case q == '\'' && v[len(v)-1] == '\'':
		return v[1 : len(v)-1], nil
	case (q == '"' || q == '`') && v[len(v)-1] == q:
		return strconv.Unquote(v)
	default:
		return v, nil
	}
}

// fileImports maps the local names of the file imports to their paths.
func fileImports(f *ast.File) map[string]string {
	imports := make(map[string]string, len(f.Imports))
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := ImportName(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = p
	}
	return imports
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// ImportName guesses the package name of an import path: the last path
// element, skipping major version suffixes and dropping ".vN" and "go-"
// decorations.
func ImportName(importPath string) string {
	elems := strings.Split(importPath, "/")
	name := elems[len(elems)-1]
	if majorVersion.MatchString(name) && len(elems) > 1 {
		name = elems[len(elems)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	if name == "" {
		return path.Base(importPath)
	}
	return strings.ReplaceAll(name, "-", "")
}
