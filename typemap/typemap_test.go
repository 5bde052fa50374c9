package typemap

import (
	"errors"
	"testing"
)

func TestResolvePrimitives(t *testing.T) {
	r := NewResolver(nil, nil, nil)

	tests := []struct {
		typeText string
		want     Kind
	}{
		{"void", KindVoid},
		{"int", KindSint32},
		{"int32_t", KindSint32},
		{"uint64_t", KindUint64},
		{"uintptr_t", KindUintptr},
		{"size_t", KindSize},
		{"bool", KindBool},
		{"float", KindFloat},
		{"double", KindDouble},
		{"char", KindSint8},
		{"const int32_t", KindSint32},
	}
	for _, tt := range tests {
		t.Run(tt.typeText, func(t *testing.T) {
			got, err := r.Resolve(tt.typeText)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.typeText, err)
			}
			if got.Kind != tt.want {
				t.Errorf("Resolve(%q).Kind = %d, want %d", tt.typeText, got.Kind, tt.want)
			}
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	// Resolving an already-resolved primitive name returns it unchanged,
	// no matter how often it is done.
	r := NewResolver(map[string]string{"serial_t": "uint32_t"}, nil, nil)

	first, err := r.Resolve("serial_t")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	second, err := r.Resolve("uint32_t")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if first.Kind != KindUint32 || second.Kind != KindUint32 {
		t.Errorf("alias and primitive disagree: %d vs %d", first.Kind, second.Kind)
	}
}

func TestResolveAliasChain(t *testing.T) {
	typedefs := map[string]string{
		"level3": "level2",
		"level2": "level1",
		"level1": "int64_t",
	}
	r := NewResolver(typedefs, nil, nil)

	got, err := r.Resolve("level3")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Kind != KindSint64 {
		t.Errorf("chained alias resolved to %d, want KindSint64", got.Kind)
	}
}

func TestResolveCycleFails(t *testing.T) {
	r := NewResolver(map[string]string{"A": "B", "B": "A"}, nil, nil)

	if _, err := r.Resolve("A"); !errors.Is(err, ErrCycle) {
		t.Errorf("Resolve(A) error = %v, want ErrCycle", err)
	}
	if _, err := r.Semantic("A"); !errors.Is(err, ErrCycle) {
		t.Errorf("Semantic(A) error = %v, want ErrCycle", err)
	}
}

func TestResolveSelfPointerCycleFails(t *testing.T) {
	r := NewResolver(map[string]string{"A": "A*"}, nil, nil)

	if _, err := r.Resolve("A"); !errors.Is(err, ErrCycle) {
		t.Errorf("Resolve(A) error = %v, want ErrCycle", err)
	}
}

func TestCharPointerIsString(t *testing.T) {
	typedefs := map[string]string{
		"str_t":  "char*",
		"text_t": "str_t",
	}
	r := NewResolver(typedefs, nil, nil)

	for _, typeText := range []string{"char*", "const char*", "str_t", "text_t"} {
		got, err := r.Resolve(typeText)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", typeText, err)
		}
		if got.Kind != KindString {
			t.Errorf("Resolve(%q).Kind = %d, want KindString", typeText, got.Kind)
		}

		sem, err := r.Semantic(typeText)
		if err != nil {
			t.Fatalf("Semantic(%q) error: %v", typeText, err)
		}
		if sem != SemString {
			t.Errorf("Semantic(%q) = %d, want SemString", typeText, sem)
		}
	}
}

func TestPointerForms(t *testing.T) {
	r := NewResolver(map[string]string{"handle_t": "void*"}, nil, nil)

	single, err := r.Resolve("int32_t*")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if single.Kind != KindPointer || single.Elem == nil || single.Elem.Kind != KindSint32 {
		t.Errorf("int32_t* = %+v, want pointer to sint32", single)
	}

	// A double pointer is pointer-to-(resolved single-pointer base).
	double, err := r.Resolve("int32_t**")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if double.Kind != KindPointer || double.Elem == nil || double.Elem.Kind != KindPointer {
		t.Errorf("int32_t** = %+v, want pointer to pointer", double)
	}
	if double.Elem.Elem == nil || double.Elem.Elem.Kind != KindSint32 {
		t.Errorf("int32_t** inner = %+v, want sint32", double.Elem)
	}

	charDouble, err := r.Resolve("char**")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if charDouble.Kind != KindPointer || charDouble.Elem.Kind != KindString {
		t.Errorf("char** = %+v, want pointer to string", charDouble)
	}

	aliased, err := r.Resolve("handle_t")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if aliased.Kind != KindPointer {
		t.Errorf("handle_t = %+v, want pointer", aliased)
	}
}

func TestEnumsResolveToInt32(t *testing.T) {
	r := NewResolver(nil, []string{"Color", "EconfStatus"}, nil)

	got, err := r.Resolve("Color")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Kind != KindSint32 {
		t.Errorf("enum resolved to %d, want KindSint32", got.Kind)
	}

	sem, err := r.Semantic("EconfStatus")
	if err != nil {
		t.Fatalf("Semantic error: %v", err)
	}
	if sem != SemInt {
		t.Errorf("enum semantic = %d, want SemInt", sem)
	}
}

func TestUnknownPrimitiveFallsBack(t *testing.T) {
	r := NewResolver(nil, nil, nil)

	got, err := r.Resolve("SomeVendorType")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Kind != KindOpaque {
		t.Errorf("unknown type = %d, want KindOpaque", got.Kind)
	}

	sem, err := r.Semantic("SomeVendorType")
	if err != nil {
		t.Fatalf("Semantic error: %v", err)
	}
	if sem != SemAny {
		t.Errorf("unknown semantic = %d, want SemAny", sem)
	}
}

func TestExtraPrimitives(t *testing.T) {
	extra := map[string]string{
		"win_handle_t": "uintptr_t",
		"bogus_t":      "not_a_primitive",
	}
	r := NewResolver(nil, nil, extra)

	got, err := r.Resolve("win_handle_t")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Kind != KindUintptr {
		t.Errorf("extra primitive = %d, want KindUintptr", got.Kind)
	}

	// Entries naming an unknown primitive are ignored, not honored.
	bogus, err := r.Resolve("bogus_t")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if bogus.Kind != KindOpaque {
		t.Errorf("bogus extra = %d, want KindOpaque", bogus.Kind)
	}
}

func TestSemanticProjection(t *testing.T) {
	typedefs := map[string]string{"serial_t": "uint32_t"}
	r := NewResolver(typedefs, nil, nil)

	tests := []struct {
		typeText string
		want     Semantic
	}{
		{"int", SemInt},
		{"serial_t", SemInt},
		{"size_t", SemInt},
		{"float", SemFloat},
		{"double", SemFloat},
		{"bool", SemBool},
		{"char*", SemString},
		{"void*", SemAny},
		{"CInterfaceInstance*", SemAny},
		{"void", SemAny},
	}
	for _, tt := range tests {
		t.Run(tt.typeText, func(t *testing.T) {
			got, err := r.Semantic(tt.typeText)
			if err != nil {
				t.Fatalf("Semantic(%q) error: %v", tt.typeText, err)
			}
			if got != tt.want {
				t.Errorf("Semantic(%q) = %d, want %d", tt.typeText, got, tt.want)
			}
		})
	}
}
