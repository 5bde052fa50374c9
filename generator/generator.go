// Package generator assembles the output binding module from extracted
// declarations: library loader, enum mirrors, struct documentation, typedef
// mirrors, per-function ABI preps, and one forwarding wrapper per function.
package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/seanjh/cbind/parser"
	"github.com/seanjh/cbind/typemap"
)

// Import paths used by the generated code, not by this package.
const (
	ffiPkg  = "github.com/jupiterrider/ffi"
	unixPkg = "golang.org/x/sys/unix"
)

type Generator struct {
	pkg string
	lib string
	hdr *parser.Header
	res *typemap.Resolver
}

func New(packageName, libName string, hdr *parser.Header, res *typemap.Resolver) *Generator {
	return &Generator{
		pkg: packageName,
		lib: libName,
		hdr: hdr,
		res: res,
	}
}

// Generate renders the complete binding file. Output order is fixed:
// loader, enum mirrors, struct docs, typedef mirrors, ABI preps, wrappers.
// A header with no declarations still yields a valid, loadable module.
func (g *Generator) Generate() (string, error) {
	f := jen.NewFile(g.pkg)
	f.HeaderComment("Code generated by cbind. DO NOT EDIT.")

	g.genLoader(f)
	g.genEnums(f)
	g.genStructs(f)
	g.genTypedefs(f)

	if err := g.genPreps(f); err != nil {
		return "", err
	}
	for _, fn := range g.hdr.Functions {
		if err := g.genWrapper(f, fn); err != nil {
			return "", fmt.Errorf("generating wrapper for %s: %w", fn.Name, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering output: %w", err)
	}
	return buf.String(), nil
}

func (g *Generator) genLoader(f *jen.File) {
	f.Var().Id("lib").Qual(ffiPkg, "Lib")

	f.Comment("Load opens the native library and binds every declared function.\nAn empty path searches the current directory.")
	f.Func().Id("Load").Params(jen.Id("path").String()).Error().Block(
		jen.If(jen.Id("path").Op("==").Lit("")).Block(
			jen.Id("path").Op("=").Lit("."),
		),
		jen.Var().Id("err").Error(),
		jen.List(jen.Id("lib"), jen.Id("err")).Op("=").Qual(ffiPkg, "Load").Call(jen.Id("libraryPath").Call(jen.Id("path"))),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(
			jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("failed to load library: %w"), jen.Id("err"))),
		),
		jen.Return(jen.Id("loadFuncs").Call()),
	)

	f.Func().Id("libraryPath").Params(jen.Id("base").String()).String().Block(
		jen.Var().Id("filename").String(),
		jen.Switch(jen.Qual("runtime", "GOOS")).Block(
			jen.Case(jen.Lit("linux"), jen.Lit("freebsd")).Block(
				jen.Id("filename").Op("=").Lit("lib"+g.lib+".so"),
			),
			jen.Case(jen.Lit("darwin")).Block(
				jen.Id("filename").Op("=").Lit("lib"+g.lib+".dylib"),
			),
			jen.Case(jen.Lit("windows")).Block(
				jen.Id("filename").Op("=").Lit(g.lib+".dll"),
			),
			jen.Default().Block(
				jen.Id("filename").Op("=").Lit("lib"+g.lib+".so"),
			),
		),
		jen.Return(jen.Qual("path/filepath", "Join").Call(jen.Id("base"), jen.Id("filename"))),
	)
}

func (g *Generator) genEnums(f *jen.File) {
	for _, e := range g.hdr.Enums {
		name := goName(e.Name)
		f.Commentf("%s mirrors the C enum %s.", name, e.Name)
		f.Type().Id(name).Int32()

		values := e.Values
		f.Const().DefsFunc(func(grp *jen.Group) {
			for i, v := range values {
				if v.Value != "" {
					// Explicit values pass through unevaluated, so
					// expressions like bit shifts survive verbatim.
					grp.Id(goName(v.Name)).Id(name).Op("=").Id(v.Value)
				} else {
					grp.Id(goName(v.Name)).Id(name).Op("=").Lit(i)
				}
			}
		})
	}
}

func (g *Generator) genStructs(f *jen.File) {
	for _, s := range g.hdr.Structs {
		if s.IsOpaque {
			f.Commentf("%s is an opaque handle to the C struct %s.", goName(s.Name), s.Name)
			f.Type().Id(goName(s.Name)).Uintptr()
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "struct %s fields (documented only, no Go layout is declared):", s.Name)
		for _, field := range s.Fields {
			fmt.Fprintf(&b, "\n\t%s", field)
		}
		f.Comment(b.String())
	}
}

// genTypedefs emits an opaque mirror for typedefs whose alias matches the
// recognized pointer/callback patterns; everything else is documented as a
// comment with no executable mirror.
func (g *Generator) genTypedefs(f *jen.File) {
	for _, td := range g.hdr.Typedefs {
		if mirrorable(td) {
			f.Commentf("%s mirrors `typedef %s %s` as a pointer-sized value.", goName(td.Alias), td.Base, td.Alias)
			f.Type().Id(goName(td.Alias)).Uintptr()
			continue
		}
		f.Commentf("typedef %s %s: no mirror emitted; uses of the alias resolve to its base type.", td.Base, td.Alias)
	}
}

func mirrorable(td parser.Typedef) bool {
	return strings.Contains(td.Base, "*") ||
		strings.Contains(td.Alias, "Callback") ||
		strings.Contains(td.Alias, "FFI") ||
		strings.HasSuffix(td.Alias, "Ptr") ||
		strings.HasSuffix(td.Alias, "Handle")
}

// genPreps declares one ffi.Fun per function and the loadFuncs binder that
// preps each one with its return and argument descriptors.
func (g *Generator) genPreps(f *jen.File) error {
	if len(g.hdr.Functions) > 0 {
		f.Var().DefsFunc(func(grp *jen.Group) {
			for _, fn := range g.hdr.Functions {
				grp.Id(funcVar(fn.Name)).Qual(ffiPkg, "Fun")
			}
		})
	}

	var stmts []jen.Code
	if len(g.hdr.Functions) > 0 {
		stmts = append(stmts, jen.Var().Id("err").Error())
	}

	for _, fn := range g.hdr.Functions {
		ret, err := g.res.Resolve(fn.ReturnType)
		if err != nil {
			return fmt.Errorf("%s: return type %q: %w", fn.Name, fn.ReturnType, err)
		}

		args := []jen.Code{jen.Lit(fn.Name), abiExpr(ret)}
		for _, p := range fn.Params {
			a, err := g.res.Resolve(p.Type)
			if err != nil {
				return fmt.Errorf("%s: parameter %q: %w", fn.Name, p.Raw, err)
			}
			args = append(args, abiExpr(a))
		}

		stmts = append(stmts, jen.If(
			jen.List(jen.Id(funcVar(fn.Name)), jen.Id("err")).Op("=").Id("lib").Dot("Prep").Call(args...),
			jen.Id("err").Op("!=").Nil(),
		).Block(
			jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit(fn.Name+": %w"), jen.Id("err"))),
		))
	}
	stmts = append(stmts, jen.Return(jen.Nil()))

	f.Func().Id("loadFuncs").Params().Error().Block(stmts...)
	return nil
}

func (g *Generator) genWrapper(f *jen.File, fn parser.Function) error {
	wName := goName(fn.Name)

	retABI, err := g.res.Resolve(fn.ReturnType)
	if err != nil {
		return err
	}
	retSem, err := g.res.Semantic(fn.ReturnType)
	if err != nil {
		return err
	}
	hasReturn := retABI.Kind != typemap.KindVoid

	rawNames := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		rawNames[i] = p.Name
	}
	names := uniqueParamNames(rawNames)

	var (
		params   []jen.Code
		body     []jen.Code
		callArgs []jen.Code
	)

	if hasReturn {
		callArgs = append(callArgs, nil) // placeholder, filled below
	} else {
		callArgs = append(callArgs, jen.Nil())
	}

	for i, p := range fn.Params {
		abi, err := g.res.Resolve(p.Type)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", p.Raw, err)
		}
		sem, err := g.res.Semantic(p.Type)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", p.Raw, err)
		}

		name := names[i]
		params = append(params, jen.Id(name).Add(semType(sem)))

		switch sem {
		case typemap.SemString:
			body = append(body, jen.List(jen.Id(name+"Ptr"), jen.Id("_")).Op(":=").Qual(unixPkg, "BytePtrFromString").Call(jen.Id(name)))
			callArgs = append(callArgs, unsafeAddr(name+"Ptr"))

		case typemap.SemInt, typemap.SemFloat:
			wt := widthType(abi.Kind)
			body = append(body, jen.Id(name+"C").Op(":=").Id(wt).Call(jen.Id(name)))
			callArgs = append(callArgs, unsafeAddr(name+"C"))

		case typemap.SemBool:
			body = append(body, jen.Var().Id(name+"C").Uint8())
			body = append(body, jen.If(jen.Id(name)).Block(jen.Id(name+"C").Op("=").Lit(1)))
			callArgs = append(callArgs, unsafeAddr(name+"C"))

		default: // SemAny: pointer-sized value passed through as-is
			callArgs = append(callArgs, unsafeAddr(name))
		}
	}

	used := make(map[string]bool, len(names)*3)
	for _, n := range names {
		used[n] = true
		used[n+"C"] = true
		used[n+"Ptr"] = true
	}

	retDecl, retExpr, retName := returnPlan(retABI, used)
	if hasReturn {
		body = append(body, retDecl)
		callArgs[0] = unsafeAddr(retName)
	}

	body = append(body, jen.Id(funcVar(fn.Name)).Dot("Call").Call(callArgs...))

	if hasReturn {
		body = append(body, retExpr...)
	}

	f.Comment(wrapperDoc(wName, fn, names))
	decl := f.Func().Id(wName).Params(params...)
	if hasReturn {
		decl.Add(semType(retSem))
	}
	decl.Block(body...)

	return nil
}

// returnPlan chooses the local holding the raw call result and the
// statements converting it to the wrapper's semantic return value. Results
// narrower than a machine word come back widened, so they land in an
// ffi.Arg first (strings in a raw byte pointer). The local's name is picked
// against the used set so it never collides with a parameter or one of its
// conversion locals.
func returnPlan(abi typemap.ABIType, used map[string]bool) (jen.Code, []jen.Code, string) {
	switch abi.Kind {
	case typemap.KindString:
		name := freeLocal("retPtr", used)
		decl := jen.Var().Id(name).Op("*").Byte()
		conv := []jen.Code{
			jen.If(jen.Id(name).Op("==").Nil()).Block(jen.Return(jen.Lit(""))),
			jen.Return(jen.Qual(unixPkg, "BytePtrToString").Call(jen.Id(name))),
		}
		return decl, conv, name

	case typemap.KindBool:
		name := freeLocal("ret", used)
		decl := jen.Var().Id(name).Qual(ffiPkg, "Arg")
		return decl, []jen.Code{jen.Return(jen.Id(name).Dot("Bool").Call())}, name

	case typemap.KindSint8, typemap.KindUint8, typemap.KindSint16,
		typemap.KindUint16, typemap.KindSint32, typemap.KindUint32:
		name := freeLocal("ret", used)
		decl := jen.Var().Id(name).Qual(ffiPkg, "Arg")
		conv := jen.Return(jen.Id("int").Call(jen.Id(widthType(abi.Kind)).Call(jen.Id(name))))
		return decl, []jen.Code{conv}, name

	case typemap.KindSint64:
		name := freeLocal("ret", used)
		decl := jen.Var().Id(name).Int64()
		return decl, []jen.Code{jen.Return(jen.Id("int").Call(jen.Id(name)))}, name

	case typemap.KindUint64, typemap.KindUintptr, typemap.KindSize:
		name := freeLocal("ret", used)
		decl := jen.Var().Id(name).Uint64()
		return decl, []jen.Code{jen.Return(jen.Id("int").Call(jen.Id(name)))}, name

	case typemap.KindFloat:
		name := freeLocal("ret", used)
		decl := jen.Var().Id(name).Float32()
		return decl, []jen.Code{jen.Return(jen.Id("float64").Call(jen.Id(name)))}, name

	case typemap.KindDouble:
		name := freeLocal("ret", used)
		decl := jen.Var().Id(name).Float64()
		return decl, []jen.Code{jen.Return(jen.Id(name))}, name

	default: // pointers, opaque fallbacks
		name := freeLocal("ret", used)
		decl := jen.Var().Id(name).Uintptr()
		return decl, []jen.Code{jen.Return(jen.Id(name))}, name
	}
}

// freeLocal picks a wrapper-body local name that is not taken by a
// parameter or conversion local, numbering positionally on collision.
func freeLocal(base string, used map[string]bool) string {
	n := base
	for k := 2; used[n]; k++ {
		n = fmt.Sprintf("%s%d", base, k)
	}
	return n
}

func wrapperDoc(wName string, fn parser.Function, names []string) string {
	var doc strings.Builder
	fmt.Fprintf(&doc, "%s calls the C function %s.", wName, fn.Name)
	if len(fn.Params) > 0 {
		doc.WriteString("\n\nParameters:")
		for i, p := range fn.Params {
			fmt.Fprintf(&doc, "\n\t%s: %s", names[i], p.Raw)
		}
	}
	if fn.IsVariadic {
		doc.WriteString("\n\nThe C function is variadic; only the fixed arguments are bound.")
	}
	return doc.String()
}

func unsafeAddr(name string) jen.Code {
	return jen.Qual("unsafe", "Pointer").Call(jen.Op("&").Id(name))
}

func abiExpr(t typemap.ABIType) jen.Code {
	return jen.Op("&").Qual(ffiPkg, ffiTypeName(t.Kind))
}

func ffiTypeName(k typemap.Kind) string {
	switch k {
	case typemap.KindVoid:
		return "TypeVoid"
	case typemap.KindSint8:
		return "TypeSint8"
	case typemap.KindUint8, typemap.KindBool:
		return "TypeUint8"
	case typemap.KindSint16:
		return "TypeSint16"
	case typemap.KindUint16:
		return "TypeUint16"
	case typemap.KindSint32:
		return "TypeSint32"
	case typemap.KindUint32:
		return "TypeUint32"
	case typemap.KindSint64:
		return "TypeSint64"
	case typemap.KindUint64, typemap.KindUintptr, typemap.KindSize:
		return "TypeUint64"
	case typemap.KindFloat:
		return "TypeFloat"
	case typemap.KindDouble:
		return "TypeDouble"
	default:
		return "TypePointer"
	}
}

// widthType is the Go type matching an ABI kind's exact width, used for
// argument conversion locals.
func widthType(k typemap.Kind) string {
	switch k {
	case typemap.KindSint8:
		return "int8"
	case typemap.KindUint8, typemap.KindBool:
		return "uint8"
	case typemap.KindSint16:
		return "int16"
	case typemap.KindUint16:
		return "uint16"
	case typemap.KindSint32:
		return "int32"
	case typemap.KindUint32:
		return "uint32"
	case typemap.KindSint64:
		return "int64"
	case typemap.KindUint64, typemap.KindUintptr, typemap.KindSize:
		return "uint64"
	case typemap.KindFloat:
		return "float32"
	case typemap.KindDouble:
		return "float64"
	default:
		return "uintptr"
	}
}

func semType(s typemap.Semantic) *jen.Statement {
	switch s {
	case typemap.SemString:
		return jen.String()
	case typemap.SemInt:
		return jen.Int()
	case typemap.SemFloat:
		return jen.Float64()
	case typemap.SemBool:
		return jen.Bool()
	default:
		return jen.Uintptr()
	}
}
