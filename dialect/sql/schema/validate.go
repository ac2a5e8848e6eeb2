package schema

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates if this is a breaking change.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
	// Changes are the differences that are safe to apply.
	Changes []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasChanges returns true if the schemas differ at all.
func (r *ValidationResult) HasChanges() bool {
	return len(r.Errors)+len(r.Warnings)+len(r.Changes) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			if w.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Changes) > 0 {
		sb.WriteString("Changes:\n")
		for _, c := range r.Changes {
			sb.WriteString("  - ")
			sb.WriteString(c.Error())
			sb.WriteString("\n")
		}
	}
	if !r.HasChanges() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateOption configures schema validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowDropColumn    bool
	allowDropTable     bool
	allowNullToNotNull bool
}

// AllowDropColumn allows dropping columns without error.
func AllowDropColumn() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropColumn = true
	}
}

// AllowDropTable allows dropping tables without error.
func AllowDropTable() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropTable = true
	}
}

// AllowNullToNotNull allows changing nullable columns to not null.
func AllowNullToNotNull() ValidateOption {
	return func(c *validateConfig) {
		c.allowNullToNotNull = true
	}
}

func (r *ValidationResult) breaking(allow bool, err *ValidationError) {
	err.Breaking = true
	if allow {
		r.Warnings = append(r.Warnings, err)
	} else {
		r.Errors = append(r.Errors, err)
	}
}

// ValidateDiff validates the difference between the current (snapshot) and
// desired (generated) tables. Breaking changes are reported as errors unless
// allowed by an option, potentially dangerous ones as warnings and all other
// differences as changes.
//
// Example:
//
//	snap, _ := schema.ReadSnapshot(path)
//	result := schema.ValidateDiff(snap.Tables, tables)
//	if result.HasBreakingChanges() {
//	    log.Fatal("Breaking changes detected:", result)
//	}
func ValidateDiff(current, desired []*Table, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	result := &ValidationResult{}
	currentMap := make(map[string]*Table, len(current))
	for _, t := range current {
		currentMap[t.Name] = t
	}
	desiredMap := make(map[string]*Table, len(desired))
	for _, t := range desired {
		desiredMap[t.Name] = t
	}

	// Dropped tables, in snapshot order.
	for _, t := range current {
		if _, ok := desiredMap[t.Name]; !ok {
			result.breaking(cfg.allowDropTable, &ValidationError{
				Table:   t.Name,
				Message: "table will be dropped",
			})
		}
	}

	for _, t := range desired {
		cur, ok := currentMap[t.Name]
		if !ok {
			result.Changes = append(result.Changes, &ValidationError{
				Table:   t.Name,
				Message: "table will be created",
			})
			continue
		}
		validateTableDiff(cur, t, cfg, result)
	}

	return result
}

func validateTableDiff(current, desired *Table, cfg *validateConfig, result *ValidationResult) {
	// Dropped columns
	for _, c := range current.Columns {
		if desired.Column(c.Name) == nil {
			result.breaking(cfg.allowDropColumn, &ValidationError{
				Table:   current.Name,
				Column:  c.Name,
				Message: "column will be dropped",
			})
		}
	}

	for _, desiredCol := range desired.Columns {
		currentCol := current.Column(desiredCol.Name)
		if currentCol == nil {
			if !desiredCol.Nullable {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   current.Name,
					Column:  desiredCol.Name,
					Message: "new NOT NULL column may fail if table has data",
				})
			} else {
				result.Changes = append(result.Changes, &ValidationError{
					Table:   current.Name,
					Column:  desiredCol.Name,
					Message: "column will be added",
				})
			}
			continue
		}

		switch ct, dt := currentCol.Type, desiredCol.Type; {
		case ct.Type != dt.Type:
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: fmt.Sprintf("column type changing from %s to %s", ct, dt),
			})
		case ct.Size > 0 && (dt.Size == 0 || dt.Size > ct.Size):
			result.Changes = append(result.Changes, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: fmt.Sprintf("column type changing from %s to %s", ct, dt),
			})
		case dt.Size > 0 && (ct.Size == 0 || dt.Size < ct.Size):
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: fmt.Sprintf("column type changing from %s to %s may truncate data", ct, dt),
			})
		case ct != dt:
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: fmt.Sprintf("column type changing from %s to %s", ct, dt),
			})
		}

		switch {
		case currentCol.Nullable && !desiredCol.Nullable:
			result.breaking(cfg.allowNullToNotNull, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: "column changing from NULL to NOT NULL may fail if column has NULL values",
			})
		case !currentCol.Nullable && desiredCol.Nullable:
			result.Changes = append(result.Changes, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: "column changing from NOT NULL to NULL",
			})
		}
	}

	if !slices.Equal(current.PrimaryKey, desired.PrimaryKey) {
		result.Errors = append(result.Errors, &ValidationError{
			Table:    current.Name,
			Message:  fmt.Sprintf("primary key changing from %v to %v", current.PrimaryKey, desired.PrimaryKey),
			Breaking: true,
		})
	}
}

// ValidateTable validates a single table definition.
func ValidateTable(t *Table) *ValidationResult {
	result := &ValidationResult{}

	if len(t.PrimaryKey) == 0 {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.Name,
			Message: "table has no primary key",
		})
	}

	colNames := make(map[string]bool)
	for _, c := range t.Columns {
		if colNames[c.Name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		colNames[c.Name] = true
	}

	for _, name := range t.PrimaryKey {
		if !colNames[name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("primary key references non-existent column %q", name),
			})
		}
	}

	return result
}

// ValidateSchema validates all tables in a schema. Two records mapped to the
// same table name are reported as a duplicate table.
func ValidateSchema(tables []*Table) *ValidationResult {
	result := &ValidationResult{}

	records := make(map[string]string)
	for _, t := range tables {
		if prev, ok := records[t.Name]; ok {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("duplicate table name (records %s and %s)", prev, t.Record),
			})
		}
		records[t.Name] = t.Record

		tableResult := ValidateTable(t)
		result.Errors = append(result.Errors, tableResult.Errors...)
		result.Warnings = append(result.Warnings, tableResult.Warnings...)
	}

	return result
}
