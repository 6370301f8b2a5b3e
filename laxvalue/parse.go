package laxvalue

import (
	"strings"
	"unicode/utf8"

	"github.com/lattice-substrate/json-lax/laxfloat"
	"github.com/lattice-substrate/json-lax/laxtoken"
)

// Limits for denial-of-service protection.
const (
	// DefaultMaxDepth is the maximum nesting depth for objects and arrays.
	DefaultMaxDepth = 1000

	// DefaultMaxInputSize is the maximum input size in bytes (64 MiB).
	DefaultMaxInputSize = 64 * 1024 * 1024
)

// Options controls parser behavior.
type Options struct {
	MaxDepth     int // 0 means DefaultMaxDepth
	MaxInputSize int // 0 means DefaultMaxInputSize
}

func (o *Options) maxDepth() int {
	if o != nil && o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

func (o *Options) maxInputSize() int {
	if o != nil && o.MaxInputSize > 0 {
		return o.MaxInputSize
	}
	return DefaultMaxInputSize
}

// parser holds the state for parsing.
type parser struct {
	cur      *laxtoken.Cursor
	depth    int
	maxDepth int
}

// Parse tokenizes and parses data. It reports false for any malformed input;
// no partial value is ever returned.
//
// Only the first value is read. Tokens left over after it are ignored.
func Parse(data []byte) (*Value, bool) {
	return ParseWithOptions(data, nil)
}

// ParseWithOptions is like Parse but accepts configuration options. Input
// larger than MaxInputSize or nested deeper than MaxDepth fails.
func ParseWithOptions(data []byte, opts *Options) (*Value, bool) {
	if len(data) > opts.maxInputSize() {
		return nil, false
	}
	return ParseTokens(laxtoken.Tokenize(data), opts)
}

// ParseTokens parses a value from an already tokenized queue.
func ParseTokens(toks []laxtoken.Token, opts *Options) (*Value, bool) {
	p := &parser{
		cur:      laxtoken.NewCursor(toks),
		maxDepth: opts.maxDepth(),
	}
	first, ok := p.cur.Next()
	if !ok {
		return nil, false
	}
	v, ok := p.parseValue(first)
	if !ok {
		return nil, false
	}
	return &v, true
}

func (p *parser) pushDepth() bool {
	p.depth++
	return p.depth <= p.maxDepth
}

func (p *parser) popDepth() {
	p.depth--
}

// parseValue dispatches on the already consumed first token of a value.
func (p *parser) parseValue(first laxtoken.Token) (Value, bool) {
	switch first.Kind {
	case laxtoken.BeginArray:
		return p.parseArray()
	case laxtoken.BeginObject:
		return p.parseObject()
	case laxtoken.QuoteMark:
		return p.parseString()
	case laxtoken.Literal:
		return p.parseLiteral(first.Byte)
	default:
		return Value{}, false
	}
}

func (p *parser) parseArray() (Value, bool) {
	if !p.pushDepth() {
		return Value{}, false
	}
	defer p.popDepth()

	elems := []Value{}
	for {
		tok, ok := p.cur.Next()
		if !ok {
			return Value{}, false
		}
		switch tok.Kind {
		case laxtoken.BeginArray, laxtoken.BeginObject, laxtoken.Literal, laxtoken.QuoteMark:
			elem, ok := p.parseValue(tok)
			if !ok {
				return Value{}, false
			}
			elems = append(elems, elem)
		case laxtoken.EndValue:
			// Separators are not checked for placement.
		case laxtoken.EndArray:
			p.cur.SkipIf(laxtoken.EndValue)
			return Value{Kind: KindArray, Elems: elems}, true
		default:
			return Value{}, false
		}
	}
}

func (p *parser) parseObject() (Value, bool) {
	if !p.pushDepth() {
		return Value{}, false
	}
	defer p.popDepth()

	members := make(map[string]Value)
	for {
		tok, ok := p.cur.Next()
		if !ok {
			return Value{}, false
		}
		switch tok.Kind {
		case laxtoken.EndObject:
			return Value{Kind: KindObject, Members: members}, true
		case laxtoken.QuoteMark:
		default:
			return Value{}, false
		}

		key, ok := p.readQuoted()
		if !ok {
			return Value{}, false
		}
		if tok, ok := p.cur.Next(); !ok || tok.Kind != laxtoken.EndKey {
			return Value{}, false
		}
		first, ok := p.cur.Next()
		if !ok {
			return Value{}, false
		}
		val, ok := p.parseValue(first)
		if !ok {
			return Value{}, false
		}
		p.cur.SkipIf(laxtoken.EndValue)

		if _, exists := members[key]; exists {
			return Value{}, false
		}
		members[key] = val
	}
}

func (p *parser) parseString() (Value, bool) {
	s, ok := p.readQuoted()
	if !ok {
		return Value{}, false
	}
	return Value{Kind: KindString, Str: s}, true
}

// readQuoted collects quoted content up to the closing quote mark. The bytes
// must be valid UTF-8.
func (p *parser) readQuoted() (string, bool) {
	var buf []byte
	for {
		tok, ok := p.cur.Next()
		if !ok {
			return "", false
		}
		switch tok.Kind {
		case laxtoken.Quoted:
			buf = append(buf, tok.Byte)
		case laxtoken.QuoteMark:
			if !utf8.Valid(buf) {
				return "", false
			}
			return string(buf), true
		default:
			return "", false
		}
	}
}

// parseLiteral reads a run of bare bytes starting with first and interprets
// it as true, false or null (any case) or as a number.
func (p *parser) parseLiteral(first byte) (Value, bool) {
	buf := []byte{first}
	for {
		tok, ok := p.cur.Peek()
		if !ok || tok.Kind != laxtoken.Literal {
			break
		}
		buf = append(buf, tok.Byte)
		p.cur.Next()
	}
	if !utf8.Valid(buf) {
		return Value{}, false
	}

	lit := strings.ToLower(string(buf))
	switch lit {
	case "true":
		return Boolean(true), true
	case "false":
		return Boolean(false), true
	case "null":
		return Null(), true
	}
	f, ok := laxfloat.Parse(lit)
	if !ok {
		return Value{}, false
	}
	return Number(f), true
}
