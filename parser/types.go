package parser

// EnumValue is one enumerator. Value holds the right-hand expression exactly
// as written, or "" when the member had no explicit value; unvalued members
// are assigned their zero-based position within the enum at generation time.
type EnumValue struct {
	Name  string
	Value string
}

type Enum struct {
	Name   string
	Values []EnumValue
}

// Struct keeps its field block as raw declaration lines. Fields are
// documented in the output, never materialized as a memory layout. An
// opaque struct comes from a `typedef struct tag *Name;` handle declaration
// and carries no fields.
type Struct struct {
	Name     string
	Fields   []string
	IsOpaque bool
}

// Typedef is a single `typedef <base> <alias>;` entry. Base is the type
// text as written, possibly itself an alias or a pointer form.
type Typedef struct {
	Alias string
	Base  string
}

// Param is one function parameter. Name is inferred from token shape and
// falls back to "arg"; Raw preserves the original declaration fragment for
// documentation.
type Param struct {
	Type string
	Name string
	Raw  string
}

type Function struct {
	Name       string
	ReturnType string
	Params     []Param
	IsVariadic bool
}

// Header is everything extracted from one input. TypedefMap is the alias →
// base-type mapping consulted during resolution; when the same alias is
// declared twice the last declaration wins.
type Header struct {
	Enums      []Enum
	Structs    []Struct
	Typedefs   []Typedef
	Functions  []Function
	TypedefMap map[string]string
}

// EnumNames returns the declared enum names in declaration order.
func (h *Header) EnumNames() []string {
	names := make([]string, 0, len(h.Enums))
	for _, e := range h.Enums {
		names = append(names, e.Name)
	}
	return names
}
