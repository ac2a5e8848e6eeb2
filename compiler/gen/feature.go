package gen

import (
	"os"
	"path/filepath"
)

var (
	// FeatureSnapshot stores a msgpack snapshot of the generated descriptors
	// next to the generated code. The `check` command diffs the current records
	// against it to detect column changes that were not regenerated.
	FeatureSnapshot = Feature{
		Name:        "schema/snapshot",
		Stage:       Beta,
		Default:     false,
		Description: "Stores a snapshot of the generated descriptors to detect schema drift",
		cleanup: func(c *Config) error {
			return remove(filepath.Dir(c.SnapshotPath()), filepath.Base(c.SnapshotPath()))
		},
	}

	// FeatureAssertions emits compile-time assertions that the generated types
	// implement the runtime contract, for example:
	//
	//	var _ autocolumn.ColumnTrait = UserColumn(0)
	FeatureAssertions = Feature{
		Name:        "assertions",
		Stage:       Stable,
		Default:     true,
		Description: "Emits compile-time interface assertions for the generated types",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureSnapshot,
		FeatureAssertions,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development.
	Experimental

	// Alpha features are complete but their output may still change.
	Alpha

	// Beta features are documented, and no breaking-changes are expected for them.
	Beta

	// Stable features are Beta features that were in use for a while.
	Stable
)

// A Feature of the autocolumn codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// cleanup used to cleanup all changes when a feature-flag is removed.
	// e.g. delete files from previous codegen runs.
	cleanup func(*Config) error
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// FeatureEnabled reports if the given feature name is enabled, either
// explicitly or by default.
func (c *Config) FeatureEnabled(name string) bool {
	for _, f := range c.Features {
		if f.Name == name {
			return true
		}
	}
	f, ok := FeatureByName(name)
	return ok && f.Default && !c.disabled(name)
}

func (c *Config) disabled(name string) bool {
	for _, n := range c.DisabledFeatures {
		if n == name {
			return true
		}
	}
	return false
}

// cleanup runs the cleanup of every disabled feature.
func (c *Config) cleanup() error {
	for _, f := range AllFeatures {
		if f.cleanup == nil || c.FeatureEnabled(f.Name) {
			continue
		}
		if err := f.cleanup(c); err != nil {
			return err
		}
	}
	return nil
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
