package load

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/tools/go/packages"
)

// Packages loads the Go packages matching the given patterns and returns the
// records declared in their files. Only syntax is loaded; record packages do
// not need to type-check, since the code generated for them is usually
// missing on the first run.
func Packages(ctx context.Context, patterns []string, buildFlags ...string) ([]*Record, error) {
	cfg := &packages.Config{
		Context:    ctx,
		BuildFlags: buildFlags,
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load: loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("load: no packages matched %v", patterns)
	}
	var records []*Record
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 && len(pkg.Syntax) == 0 {
			errs := make([]error, 0, len(pkg.Errors))
			for _, e := range pkg.Errors {
				errs = append(errs, e)
			}
			return nil, fmt.Errorf("load: package %s: %w", pkg.PkgPath, errors.Join(errs...))
		}
		for _, f := range pkg.Syntax {
			rs, err := FileRecords(pkg.Fset, f)
			if err != nil {
				return nil, err
			}
			records = append(records, rs...)
		}
	}
	return records, nil
}
