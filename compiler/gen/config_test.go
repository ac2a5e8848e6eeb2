package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamingString(t *testing.T) {
	assert.Equal(t, "plain", NamingPlain.String())
	assert.Equal(t, "go", NamingGo.String())
}

func TestConfigFeatureEnabled(t *testing.T) {
	t.Run("returns true for enabled feature", func(t *testing.T) {
		c := &Config{Features: []Feature{FeatureSnapshot}}

		assert.True(t, c.FeatureEnabled(FeatureSnapshot.Name))
	})

	t.Run("returns true for default feature", func(t *testing.T) {
		c := &Config{}

		assert.True(t, c.FeatureEnabled(FeatureAssertions.Name))
		assert.False(t, c.FeatureEnabled(FeatureSnapshot.Name))
	})

	t.Run("returns false for disabled default feature", func(t *testing.T) {
		c := &Config{DisabledFeatures: []string{FeatureAssertions.Name}}

		assert.False(t, c.FeatureEnabled(FeatureAssertions.Name))
	})

	t.Run("returns false for unknown feature", func(t *testing.T) {
		c := &Config{}

		assert.False(t, c.FeatureEnabled("nonexistent"))
	})
}

func TestFeatureByName(t *testing.T) {
	for _, f := range AllFeatures {
		t.Run(f.Name, func(t *testing.T) {
			got, ok := FeatureByName(f.Name)
			require.True(t, ok)
			assert.Equal(t, f.Name, got.Name)
			assert.Equal(t, f.Stage, got.Stage)
		})
	}
	_, ok := FeatureByName("privacy")
	assert.False(t, ok)
}

func TestConfigCleanup(t *testing.T) {
	t.Run("removes snapshot of disabled feature", func(t *testing.T) {
		dir := t.TempDir()
		c := MustNewConfig(WithTarget(dir))
		path := c.SnapshotPath()
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "user_autocolumn.go"), []byte("package x"), 0o644))

		require.NoError(t, c.cleanup())
		assert.NoFileExists(t, path)
		assert.DirExists(t, dir)
	})

	t.Run("removes empty directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "snapshots")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		c := MustNewConfig(WithTarget(t.TempDir()))
		c.Snapshot = filepath.Join(dir, "schema.snapshot")
		require.NoError(t, os.WriteFile(c.Snapshot, []byte("x"), 0o644))

		require.NoError(t, c.cleanup())
		assert.NoDirExists(t, dir)
	})

	t.Run("keeps snapshot of enabled feature", func(t *testing.T) {
		dir := t.TempDir()
		c := MustNewConfig(WithTarget(dir), WithSnapshot(filepath.Join(dir, "schema.snapshot")))
		require.NoError(t, os.WriteFile(c.SnapshotPath(), []byte("x"), 0o644))

		require.NoError(t, c.cleanup())
		assert.FileExists(t, c.SnapshotPath())
	})

	t.Run("missing snapshot is not an error", func(t *testing.T) {
		c := MustNewConfig(WithTarget(t.TempDir()))
		assert.NoError(t, c.cleanup())
	})
}
