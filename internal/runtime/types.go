package runtime

import "fmt"

// Type is the type domain T of spec.md §3: Int, U64, Struct, FunctionType,
// Infer. Every Type exposes Cast, used at assignment, argument binding and
// return (spec.md §3).
type Type interface {
	// Name returns the type's display name, e.g. "int", "u64".
	Name() string
	// Cast converts v to this type, or returns an error if it cannot.
	Cast(v Value) (Value, error)
}

// IntType is the generic signed 64-bit integer type.
type IntType struct{}

func (IntType) Name() string { return "int" }

func (IntType) Cast(v Value) (Value, error) {
	switch vv := v.(type) {
	case Int:
		return vv, nil
	case U64:
		return Int(vv), nil
	default:
		return nil, fmt.Errorf("cannot cast %s to int", v.Type())
	}
}

// U64Type is the distinguished unsigned 64-bit integer type. Construction is
// modular (spec.md §3: "modular on construction").
type U64Type struct{}

func (U64Type) Name() string { return "u64" }

func (U64Type) Cast(v Value) (Value, error) {
	switch vv := v.(type) {
	case Int:
		return U64(uint64(vv)), nil
	case U64:
		return vv, nil
	default:
		return nil, fmt.Errorf("cannot cast %s to u64", v.Type())
	}
}

// StructField is one (name, type) entry of a StructType, in declaration
// order.
type StructField struct {
	Name string
	Type Type
}

// StructType describes the shape of a struct value: an ordered sequence of
// (name, type) fields, each name unique (spec.md §3 invariant 5).
type StructType struct {
	Fields []StructField
}

func (s *StructType) Name() string { return "struct" }

func (s *StructType) Cast(v Value) (Value, error) {
	sv, ok := v.(*Struct)
	if !ok {
		return nil, fmt.Errorf("cannot cast %s to struct", v.Type())
	}
	// spec.md §3 invariant 5: a field name appears at most once.
	seen := make(map[string]struct{}, len(sv.Fields))
	for _, f := range sv.Fields {
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("duplicate struct field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return sv, nil
}

// FunctionType is the type of a function value: an ordered sequence of
// argument types plus a return type (which may be NoReturnType).
type FunctionType struct {
	Args   []Type
	Return Type
}

func (f *FunctionType) Name() string { return "function" }

func (f *FunctionType) Cast(v Value) (Value, error) {
	fv, ok := v.(*Function)
	if !ok {
		return nil, fmt.Errorf("cannot cast %s to function", v.Type())
	}
	return fv, nil
}

// NoReturnType is the type of statements/functions that produce no
// observable value.
type NoReturnType struct{}

func (NoReturnType) Name() string { return "noreturn" }

func (NoReturnType) Cast(v Value) (Value, error) {
	if _, ok := v.(NoReturn); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot cast %s to noreturn", v.Type())
}

// NativeType is the type of a host-implemented Native callable or a
// TypeValue. It never appears in source-level type position.
type NativeType struct{}

func (NativeType) Name() string { return "native" }

func (NativeType) Cast(v Value) (Value, error) {
	switch v.(type) {
	case *Native, *TypeValue:
		return v, nil
	default:
		return nil, fmt.Errorf("cannot cast %s to native", v.Type())
	}
}

// InferType is the `Infer` placeholder (spec.md §3). It must never survive
// past declaration resolution; its Cast always fails.
type InferType struct{}

func (InferType) Name() string { return "infer" }

func (InferType) Cast(Value) (Value, error) {
	return nil, fmt.Errorf("type inference is not implemented: Infer type used where a concrete type is required")
}
