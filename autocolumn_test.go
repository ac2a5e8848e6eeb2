package autocolumn_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/autocolumn"
)

type auditBehavior struct {
	autocolumn.NopBehavior
	saved bool
}

func (b *auditBehavior) BeforeSave(context.Context, bool) error {
	b.saved = true
	return nil
}

func TestNopBehavior(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var b autocolumn.NopBehavior
	assert.NoError(t, b.BeforeSave(ctx, true))
	assert.NoError(t, b.AfterSave(ctx, false))
	assert.NoError(t, b.BeforeDelete(ctx))
	assert.NoError(t, b.AfterDelete(ctx))
}

func TestNopBehavior_Override(t *testing.T) {
	t.Parallel()

	b := &auditBehavior{}
	var hooks autocolumn.ActiveModelBehavior = b
	require.NoError(t, hooks.BeforeSave(context.Background(), true))
	assert.True(t, b.saved)
	assert.NoError(t, hooks.AfterDelete(context.Background()))
}

func TestUndefinedRelationError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := autocolumn.NewUndefinedRelationError("users", 2)
		assert.Equal(t, "autocolumn: relation 2 of users is not defined", err.Error())
		assert.Equal(t, "users", err.Table())
		assert.Equal(t, 2, err.Relation())
	})

	t.Run("Is", func(t *testing.T) {
		err := autocolumn.NewUndefinedRelationError("users", 0)
		assert.True(t, errors.Is(err, autocolumn.ErrUndefinedRelation))
	})

	t.Run("IsUndefinedRelation", func(t *testing.T) {
		err := autocolumn.NewUndefinedRelationError("posts", 1)
		assert.True(t, autocolumn.IsUndefinedRelation(err))
		assert.True(t, autocolumn.IsUndefinedRelation(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, autocolumn.IsUndefinedRelation(autocolumn.ErrUndefinedRelation))
		assert.False(t, autocolumn.IsUndefinedRelation(errors.New("other error")))
		assert.False(t, autocolumn.IsUndefinedRelation(nil))
	})
}
