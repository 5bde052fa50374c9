package generator

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// acronyms are name parts kept fully uppercase in generated identifiers.
var acronyms = map[string]bool{
	"id":   true,
	"url":  true,
	"api":  true,
	"http": true,
	"json": true,
	"xml":  true,
	"sql":  true,
	"io":   true,
	"ip":   true,
	"tcp":  true,
	"udp":  true,
	"ffi":  true,
}

// reservedWords are Go keywords and predeclared identifiers that cannot be
// used as parameter names in generated code.
var reservedWords = map[string]bool{
	"break": true, "default": true, "func": true, "interface": true,
	"select": true, "case": true, "defer": true, "go": true, "map": true,
	"struct": true, "chan": true, "else": true, "goto": true,
	"package": true, "switch": true, "const": true, "fallthrough": true,
	"if": true, "range": true, "type": true, "continue": true, "for": true,
	"import": true, "return": true, "var": true, "true": true,
	"false": true, "iota": true, "nil": true, "append": true, "cap": true,
	"close": true, "complex": true, "copy": true, "delete": true,
	"imag": true, "len": true, "make": true, "new": true, "panic": true,
	"print": true, "println": true, "real": true, "recover": true,
	"string": true, "int": true, "uint": true, "uintptr": true,
	"byte": true, "rune": true, "bool": true, "error": true, "any": true,
}

// goName converts a C identifier to an exported Go name, uppercasing
// whole-part acronyms (get_url_id → GetURLID).
func goName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		if acronyms[strings.ToLower(part)] {
			b.WriteString(strings.ToUpper(part))
			continue
		}
		b.WriteString(strcase.ToCamel(part))
	}
	return b.String()
}

func lowerCamel(name string) string {
	n := goName(name)
	if n == "" {
		return n
	}
	return strings.ToLower(n[:1]) + n[1:]
}

func funcVar(cName string) string {
	return lowerCamel(cName) + "Func"
}

// paramName turns an inferred C parameter name into a usable Go identifier.
// Inference is heuristic and can produce multi-token or empty names; the
// last token wins and reserved words get a trailing underscore.
func paramName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		name = fields[len(fields)-1]
	}
	n := lowerCamel(name)
	if n == "" {
		n = "arg"
	}
	if reservedWords[n] {
		n += "_"
	}
	return n
}

// uniqueParamNames sanitizes every inferred name and disambiguates
// duplicates positionally, so fallback names like "arg" stay legal when
// they repeat.
func uniqueParamNames(names []string) []string {
	used := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		n := paramName(name)
		for k := 2; used[n]; k++ {
			n = fmt.Sprintf("%s%d", paramName(name), k)
		}
		out[i] = n
		used[n] = true
	}
	return out
}
