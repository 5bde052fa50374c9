package parser

import "strings"

// parser walks the token stream and collects the four supported declaration
// shapes. Anything that does not match a shape is skipped, never reported;
// the input is not required to be complete or even valid C.
type parser struct {
	src  string
	toks []Token
	pos  int
	hdr  *Header
}

// Parse extracts enum, struct, typedef, and function declarations from raw
// header text.
func Parse(content string) (*Header, error) {
	p := &parser{
		src:  content,
		toks: lex(content),
		hdr:  &Header{TypedefMap: make(map[string]string)},
	}
	p.run()
	return p.hdr, nil
}

func (p *parser) cur() Token {
	return p.toks[p.pos]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) run() {
	for p.cur().Kind != EOF {
		// `extern "C"` linkage blocks are transparent: the braces are
		// consumed and the declarations inside parsed normally.
		if p.cur().is("extern") && p.toks[p.pos+1].Kind == StrLit {
			p.next()
			p.next()
			if p.cur().is("{") {
				p.next()
			}
			continue
		}
		if p.cur().is("{") || p.cur().is("}") {
			p.next()
			continue
		}
		if p.cur().is("typedef") {
			p.parseTypedef()
			continue
		}
		if p.cur().is("enum") && p.parseBareEnum() {
			continue
		}
		if !p.parseFunction() {
			p.skipStatement()
		}
	}
}

// skipStatement advances past the current declaration: everything up to and
// including the next semicolon at brace depth zero. A brace block closing
// back to depth zero also ends the statement, so an inline function body
// does not swallow the declaration that follows it.
func (p *parser) skipStatement() {
	depth := 0
	for p.cur().Kind != EOF {
		switch {
		case p.cur().is("{"):
			depth++
		case p.cur().is("}"):
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				p.next()
				p.eatSemi()
				return
			}
		case p.cur().is(";") && depth == 0:
			p.next()
			return
		}
		p.next()
	}
}

func (p *parser) eatSemi() {
	if p.cur().is(";") {
		p.next()
	}
}

func (p *parser) addTypedef(alias, base string) {
	p.hdr.Typedefs = append(p.hdr.Typedefs, Typedef{Alias: alias, Base: base})
	p.hdr.TypedefMap[alias] = base
}

func (p *parser) parseTypedef() {
	p.next() // typedef

	switch {
	case p.cur().is("enum"):
		p.parseEnumTypedef()
	case p.cur().is("struct"):
		p.parseStructTypedef()
	default:
		p.parsePlainTypedef()
	}
}

// parseEnumTypedef handles `typedef enum [tag] { items } Name;`.
func (p *parser) parseEnumTypedef() {
	p.next() // enum
	if p.cur().Kind == Ident {
		p.next() // optional tag
	}
	if !p.cur().is("{") {
		p.skipStatement()
		return
	}
	p.next()

	values, ok := p.enumItems()
	if !ok {
		return
	}

	if p.cur().Kind != Ident {
		p.skipStatement()
		return
	}
	name := p.next().Lit
	p.eatSemi()

	p.hdr.Enums = append(p.hdr.Enums, Enum{Name: name, Values: values})
}

// parseBareEnum handles `enum Name { items };`. A leading `enum` that
// belongs to another declaration, such as a return type, does not match;
// the position is restored and false returned so the function matcher can
// try it.
func (p *parser) parseBareEnum() bool {
	start := p.pos
	p.next() // enum
	if p.cur().Kind != Ident {
		p.pos = start
		return false
	}
	name := p.next().Lit
	if !p.cur().is("{") {
		p.pos = start
		return false
	}
	p.next()

	values, ok := p.enumItems()
	if !ok {
		return true
	}
	p.eatSemi()

	p.hdr.Enums = append(p.hdr.Enums, Enum{Name: name, Values: values})
	return true
}

// enumItems parses the member list after an opening brace, consuming the
// closing brace. ok is false when the list is malformed; the statement has
// already been skipped in that case.
func (p *parser) enumItems() ([]EnumValue, bool) {
	var values []EnumValue
	for !p.cur().is("}") && p.cur().Kind != EOF {
		if p.cur().Kind != Ident {
			p.skipStatement()
			return nil, false
		}
		name := p.next().Lit

		value := ""
		if p.cur().is("=") {
			p.next()
			start := p.cur().Off
			end := start
			for !p.cur().is(",") && !p.cur().is("}") && p.cur().Kind != EOF {
				end = p.cur().Off + len(p.cur().Lit)
				p.next()
			}
			value = strings.TrimSpace(p.src[start:end])
		}
		values = append(values, EnumValue{Name: name, Value: value})

		if p.cur().is(",") {
			p.next()
		}
	}
	if !p.cur().is("}") {
		return nil, false
	}
	p.next()
	return values, true
}

// parseStructTypedef handles three shapes: a full struct block
// `typedef struct [tag] { fields } Name;`, an opaque handle
// `typedef struct tag *Name;`, and a plain alias `typedef struct tag Name;`.
func (p *parser) parseStructTypedef() {
	p.next() // struct
	tag := ""
	if p.cur().Kind == Ident {
		tag = p.next().Lit
	}

	switch {
	case p.cur().is("{"):
		open := p.next()
		depth := 1
		closeOff := open.Off + 1
		for depth > 0 && p.cur().Kind != EOF {
			if p.cur().is("{") {
				depth++
			}
			if p.cur().is("}") {
				depth--
				closeOff = p.cur().Off
			}
			p.next()
		}
		body := p.src[open.Off+1 : closeOff]

		if p.cur().Kind != Ident {
			p.skipStatement()
			return
		}
		name := p.next().Lit
		p.eatSemi()
		p.hdr.Structs = append(p.hdr.Structs, Struct{Name: name, Fields: fieldLines(body)})

	case p.cur().is("*"):
		for p.cur().is("*") {
			p.next()
		}
		if p.cur().Kind != Ident {
			p.skipStatement()
			return
		}
		name := p.next().Lit
		p.eatSemi()
		p.hdr.Structs = append(p.hdr.Structs, Struct{Name: name, IsOpaque: true})

	case p.cur().Kind == Ident && tag != "":
		name := p.next().Lit
		p.eatSemi()
		p.addTypedef(name, tag)

	default:
		p.skipStatement()
	}
}

// parsePlainTypedef handles `typedef <base> [*...] <alias>;` and the
// function-pointer shape `typedef <ret> (*<alias>)(<params>);`.
func (p *parser) parsePlainTypedef() {
	var parts []Token
	for p.cur().Kind == Ident || p.cur().is("*") {
		parts = append(parts, p.cur())
		p.next()
	}

	if p.cur().is("(") && len(parts) > 0 {
		p.parseCallbackTypedef(parts)
		return
	}

	if !p.cur().is(";") || len(parts) < 2 || parts[len(parts)-1].Kind != Ident {
		p.skipStatement()
		return
	}
	p.next() // ;

	alias := parts[len(parts)-1].Lit
	base := joinType(parts[:len(parts)-1])
	p.addTypedef(alias, base)
}

func (p *parser) parseCallbackTypedef(ret []Token) {
	p.next() // (
	if !p.cur().is("*") {
		p.skipStatement()
		return
	}
	p.next()
	if p.cur().Kind != Ident {
		p.skipStatement()
		return
	}
	name := p.next().Lit
	if !p.cur().is(")") {
		p.skipStatement()
		return
	}
	p.next()
	if !p.cur().is("(") {
		p.skipStatement()
		return
	}
	open := p.next()
	depth := 1
	closeOff := open.Off + 1
	for depth > 0 && p.cur().Kind != EOF {
		if p.cur().is("(") {
			depth++
		}
		if p.cur().is(")") {
			depth--
			closeOff = p.cur().Off
		}
		p.next()
	}
	p.eatSemi()

	params := strings.Join(strings.Fields(p.src[open.Off+1:closeOff]), " ")
	base := joinType(ret) + " (*)(" + params + ")"
	p.addTypedef(name, base)
}

// parseFunction tries to match `<ret> <name>(<params>);` at the current
// position. On mismatch the position is restored and false returned so the
// caller can skip the statement instead.
func (p *parser) parseFunction() bool {
	start := p.pos

	var parts []Token
	for p.cur().Kind == Ident || p.cur().is("*") {
		parts = append(parts, p.cur())
		p.next()
	}
	if !p.cur().is("(") || len(parts) < 2 || parts[len(parts)-1].Kind != Ident {
		p.pos = start
		return false
	}

	name := parts[len(parts)-1].Lit
	retParts := parts[:len(parts)-1]
	for len(retParts) > 0 && isLinkage(retParts[0].Lit) {
		retParts = retParts[1:]
	}
	if len(retParts) == 0 {
		p.pos = start
		return false
	}

	open := p.next() // (
	depth := 1
	closeOff := open.Off + 1
	for depth > 0 && p.cur().Kind != EOF {
		if p.cur().is("(") {
			depth++
		}
		if p.cur().is(")") {
			depth--
			closeOff = p.cur().Off
		}
		p.next()
	}
	if !p.cur().is(";") {
		p.pos = start
		return false
	}
	p.next()

	fn := Function{Name: name, ReturnType: joinType(retParts)}
	fn.Params, fn.IsVariadic = inferParams(p.src[open.Off+1 : closeOff])
	p.hdr.Functions = append(p.hdr.Functions, fn)
	return true
}

func isLinkage(lit string) bool {
	return lit == "extern" || lit == "static" || lit == "inline"
}

// joinType renders a token run back into type text, attaching pointer
// markers directly to the preceding token: [const char *] → "const char*".
func joinType(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		if t.is("*") {
			b.WriteString("*")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Lit)
	}
	return b.String()
}

// fieldLines splits a struct body into its raw field declarations, dropping
// blank lines and comment continuations. Fields stay as text; they are
// reproduced in the output for documentation only.
func fieldLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "/*") {
			continue
		}
		if !strings.Contains(line, ";") {
			continue
		}
		out = append(out, strings.TrimSpace(strings.TrimSuffix(line, ";")))
	}
	return out
}

func inferParams(s string) ([]Param, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "void" {
		return nil, false
	}

	var params []Param
	variadic := false
	for _, part := range strings.Split(s, ",") {
		part = strings.Join(strings.Fields(part), " ")
		if part == "" {
			continue
		}
		if part == "..." {
			variadic = true
			continue
		}
		params = append(params, inferParam(part))
	}
	return params, variadic
}

// inferParam guesses the type and name of one parameter from token position.
// Best-effort: declarations are assumed to be well-formed `type name` or
// `type *name` pairs, and anything else falls back to the generic name
// "arg".
func inferParam(raw string) Param {
	fields := strings.Fields(raw)

	// String parameters are pinned to the dedicated string-pointer type.
	if strings.HasPrefix(raw, "const char") {
		name := strings.Trim(fields[len(fields)-1], "*")
		if name == "" || name == "char" || name == "const" {
			name = "arg"
		}
		return Param{Type: "const char*", Name: name, Raw: raw}
	}

	if star := strings.Index(raw, "*"); star != -1 {
		if sp := strings.LastIndex(raw[:star], " "); sp > 0 {
			name := strings.ReplaceAll(strings.TrimSpace(raw[sp+1:]), "*", "")
			return Param{Type: strings.TrimSpace(raw[:sp]), Name: name, Raw: raw}
		}
		base := strings.TrimSpace(raw[:star])
		typ := base + strings.Repeat("*", strings.Count(raw, "*"))
		return Param{Type: typ, Name: "arg", Raw: raw}
	}

	if len(fields) >= 2 {
		return Param{Type: fields[len(fields)-2], Name: fields[len(fields)-1], Raw: raw}
	}
	return Param{Type: raw, Name: "arg", Raw: raw}
}
