// Package typemap resolves C type text through typedef chains and projects
// the result two ways: a call-ABI descriptor for the foreign call site and a
// semantic type for generated signatures and documentation.
package typemap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle reports a typedef alias chain that loops back on itself.
// Resolution cannot terminate, so the whole run is aborted.
var ErrCycle = errors.New("typedef cycle")

// maxDepth bounds pointer recursion so self-referential pointer typedefs
// (`typedef A* A;`) are rejected instead of recursing forever.
const maxDepth = 32

// Kind is the call-ABI classification of a resolved type.
type Kind int

const (
	KindVoid Kind = iota
	KindPointer
	KindString
	KindSint8
	KindUint8
	KindSint16
	KindUint16
	KindSint32
	KindUint32
	KindSint64
	KindUint64
	KindUintptr
	KindBool
	KindSize
	KindFloat
	KindDouble

	// KindOpaque is the explicit fallback for primitives outside the fixed
	// table: a pointer-sized value passed through untyped. Unknown types
	// degrade here instead of failing the run.
	KindOpaque
)

// ABIType describes a type at the foreign call site. Elem is set for
// KindPointer when the pointee was resolved through the pointer rules.
type ABIType struct {
	Kind Kind
	Elem *ABIType
}

// Semantic is the user-facing classification used in generated wrapper
// signatures.
type Semantic int

const (
	SemAny Semantic = iota
	SemString
	SemInt
	SemFloat
	SemBool
)

// primitives is the fixed table from C primitive names to ABI kinds.
// Pointer-suffixed names appear directly so an alias chain that lands on
// "char*" or "void*" classifies without re-entering the pointer rules.
var primitives = map[string]Kind{
	"void":           KindVoid,
	"void*":          KindPointer,
	"char":           KindSint8,
	"char*":          KindString,
	"signed char":    KindSint8,
	"unsigned char":  KindUint8,
	"short":          KindSint16,
	"unsigned short": KindUint16,
	"int":            KindSint32,
	"unsigned int":   KindUint32,
	"unsigned":       KindUint32,
	"long":           KindSint64,
	"unsigned long":  KindUint64,
	"int8_t":         KindSint8,
	"uint8_t":        KindUint8,
	"int16_t":        KindSint16,
	"uint16_t":       KindUint16,
	"int32_t":        KindSint32,
	"uint32_t":       KindUint32,
	"int64_t":        KindSint64,
	"uint64_t":       KindUint64,
	"uintptr_t":      KindUintptr,
	"bool":           KindBool,
	"_Bool":          KindBool,
	"size_t":         KindSize,
	"float":          KindFloat,
	"double":         KindDouble,
}

// integerKinds classify as integers in the semantic projection.
var integerKinds = map[Kind]bool{
	KindSint8:   true,
	KindUint8:   true,
	KindSint16:  true,
	KindUint16:  true,
	KindSint32:  true,
	KindUint32:  true,
	KindSint64:  true,
	KindUint64:  true,
	KindUintptr: true,
	KindSize:    true,
}

// Resolver chases type text through the typedef map built during
// extraction. It holds no mutable state after construction.
type Resolver struct {
	typedefs map[string]string
	enums    map[string]bool
	extra    map[string]Kind
}

// NewResolver builds a resolver over the typedef map and the set of
// declared enum names. The extra map extends the primitive table with
// additional name → primitive-name entries (from the options file); entries
// naming an unknown primitive are ignored.
func NewResolver(typedefs map[string]string, enumNames []string, extra map[string]string) *Resolver {
	r := &Resolver{
		typedefs: typedefs,
		enums:    make(map[string]bool, len(enumNames)),
		extra:    make(map[string]Kind, len(extra)),
	}
	if r.typedefs == nil {
		r.typedefs = map[string]string{}
	}
	for _, name := range enumNames {
		r.enums[name] = true
	}
	for name, prim := range extra {
		if k, ok := primitives[prim]; ok {
			r.extra[name] = k
		}
	}
	return r
}

// Resolve maps C type text to its call-ABI descriptor, chasing typedef
// aliases and unwrapping up to two pointer levels. Unknown primitives
// degrade to KindOpaque; a typedef cycle is an error.
func (r *Resolver) Resolve(typeText string) (ABIType, error) {
	return r.resolve(typeText, 0)
}

func (r *Resolver) resolve(typeText string, depth int) (ABIType, error) {
	if depth > maxDepth {
		return ABIType{}, fmt.Errorf("%w: resolving %q", ErrCycle, typeText)
	}

	t := stripConst(typeText)

	// One pointer level is stripped per pass, so a double pointer resolves
	// to pointer-to-(resolved single-pointer base).
	if strings.HasSuffix(t, "*") {
		base := strings.TrimSpace(strings.TrimSuffix(t, "*"))
		if base == "char" {
			return ABIType{Kind: KindString}, nil
		}
		elem, err := r.resolve(r.aliasOr(base), depth+1)
		if err != nil {
			return ABIType{}, err
		}
		return ABIType{Kind: KindPointer, Elem: &elem}, nil
	}

	name, err := r.chase(t)
	if err != nil {
		return ABIType{}, err
	}

	// Chasing can land on a pointer-suffixed base; classify it through the
	// pointer rules rather than the name table.
	if strings.HasSuffix(name, "*") && name != stripConst(typeText) {
		return r.resolve(name, depth+1)
	}

	if r.enums[name] {
		return ABIType{Kind: KindSint32}, nil
	}
	if k, ok := r.extra[name]; ok {
		return ABIType{Kind: k}, nil
	}
	if k, ok := primitives[name]; ok {
		return ABIType{Kind: k}, nil
	}
	return ABIType{Kind: KindOpaque}, nil
}

// Semantic maps C type text to its user-facing classification. It chases
// the same resolution rule as Resolve, independently.
func (r *Resolver) Semantic(typeText string) (Semantic, error) {
	t := stripConst(typeText)

	if strings.HasSuffix(t, "*") {
		base := strings.TrimSpace(strings.TrimSuffix(t, "*"))
		if base == "char" {
			return SemString, nil
		}
		return SemAny, nil
	}

	name, err := r.chase(t)
	if err != nil {
		return SemAny, err
	}
	if strings.HasSuffix(name, "*") {
		if strings.TrimSpace(strings.TrimSuffix(name, "*")) == "char" {
			return SemString, nil
		}
		return SemAny, nil
	}
	if r.enums[name] {
		return SemInt, nil
	}

	k, ok := r.extra[name]
	if !ok {
		k, ok = primitives[name]
	}
	if !ok {
		return SemAny, nil
	}
	switch {
	case integerKinds[k]:
		return SemInt, nil
	case k == KindFloat || k == KindDouble:
		return SemFloat, nil
	case k == KindBool:
		return SemBool, nil
	case k == KindString:
		return SemString, nil
	default:
		return SemAny, nil
	}
}

// chase repeatedly substitutes an alias with its typedef entry until the
// name is no longer aliased. A name revisited along the way is a cycle.
func (r *Resolver) chase(name string) (string, error) {
	seen := make(map[string]bool)
	for {
		base, ok := r.typedefs[name]
		if !ok {
			return name, nil
		}
		if seen[name] {
			return "", fmt.Errorf("%w: %q resolves back to itself", ErrCycle, name)
		}
		seen[name] = true
		name = strings.TrimSpace(base)
	}
}

// aliasOr performs a single typedef substitution, returning the name
// unchanged when it is not an alias.
func (r *Resolver) aliasOr(name string) string {
	if base, ok := r.typedefs[name]; ok {
		return strings.TrimSpace(base)
	}
	return name
}

func stripConst(t string) string {
	t = strings.TrimSpace(t)
	t = strings.TrimPrefix(t, "const ")
	return strings.TrimSpace(t)
}
