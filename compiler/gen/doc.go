// Package gen derives schema descriptors from loaded records and generates
// the Go code wiring them into the autocolumn runtime contract.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	load.Record (struct directive, struct tags, or YAML)
//	        ↓
//	   ParseRecord / ParseModuleRecord / ParseField (annotations)
//	        ↓
//	   Infer (column type and nullability per field)
//	        ↓
//	   Assemble (Descriptor)
//	        ↓
//	   Augment / Module (*jen.File)
//	        ↓
//	   Writer (goimports, parallel writes)
//
// # Shapes
//
// Augment records keep their declaration and receive prefixed companion
// types (UserColumn, UserEntity, UserPrimaryKey) in the same package.
// Module records are rendered into a package of their own, holding a Model
// struct, unprefixed Entity, Column and PrimaryKey types, and a scaffold
// file with the Relation and Behavior stubs that is never overwritten.
//
// # Type Inference
//
// A field type is resolved in this order:
//
//   - An explicit type annotation, such as `autocolumn:"type:String(255)"`,
//     is used as written. The field is nullable only with the nullable flag.
//   - A pointer or a generic wrapper (sql.Null[T] by default) makes the
//     field nullable and T is inferred.
//   - T is looked up in a closed table of primitives. Any other type is an
//     UnsupportedTypeError.
//
// # Error Handling
//
// The package uses structured error types with matching sentinels:
//
//   - UnsupportedTypeError: a field type with no column mapping
//   - AnnotationError: a missing or malformed annotation
//   - DuplicateColumnError: two fields mapping to the same column
//   - ConfigError: configuration errors
//   - GenerationError: rendering and writing errors
//
// Example error handling:
//
//	if _, err := gen.Generate(ctx, records, gen.WithTarget(dir)); err != nil {
//		if errors.Is(err, gen.ErrUnsupportedType) {
//			// Add a type annotation to the field.
//		}
//	}
package gen
