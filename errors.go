package autocolumn

import (
	"errors"
	"fmt"
)

// ErrUndefinedRelation is returned when a relation that has no definition is
// resolved. Generated relation stubs have no members until they are
// extended by hand.
var ErrUndefinedRelation = errors.New("autocolumn: undefined relation")

// UndefinedRelationError reports a relation lookup on a stub enumeration.
type UndefinedRelationError struct {
	table    string
	relation int
}

// Error returns the error string.
func (e *UndefinedRelationError) Error() string {
	return fmt.Sprintf("autocolumn: relation %d of %s is not defined", e.relation, e.table)
}

// Is reports whether the target error matches UndefinedRelationError.
// This allows errors.Is(err, ErrUndefinedRelation) to return true.
func (e *UndefinedRelationError) Is(err error) bool {
	return err == ErrUndefinedRelation
}

// Table returns the table owning the relation.
func (e *UndefinedRelationError) Table() string {
	return e.table
}

// Relation returns the ordinal of the relation.
func (e *UndefinedRelationError) Relation() int {
	return e.relation
}

// NewUndefinedRelationError returns a new UndefinedRelationError.
func NewUndefinedRelationError(table string, relation int) *UndefinedRelationError {
	return &UndefinedRelationError{table: table, relation: relation}
}

// IsUndefinedRelation returns true if the error is an UndefinedRelationError.
func IsUndefinedRelation(err error) bool {
	if err == nil {
		return false
	}
	var e *UndefinedRelationError
	return errors.As(err, &e) || errors.Is(err, ErrUndefinedRelation)
}
