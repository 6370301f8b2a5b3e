// Package laxtoken turns a JSON byte buffer into a flat queue of byte-sized
// tokens.
//
// The tokenizer is a single left-to-right pass with two flags: whether the
// current byte is inside a quoted string, and whether the previous byte was
// an escape introducer. It never backtracks and does no grammar checking;
// structural validation is the parser's job.
//
// A bad escape (unknown escape byte, truncated or non-hex \u digits, input
// ending mid-escape) emits a TerminalError token and stops. Tokens produced
// before the failure are still returned.
package laxtoken

import "fmt"

// Kind identifies the type of a token.
type Kind uint8

const (
	BeginObject Kind = iota
	EndObject
	BeginArray
	EndArray
	EndKey   // ':'
	EndValue // ','
	QuoteMark
	Quoted  // content byte inside a quoted string
	Literal // bare content byte outside quotes
	TerminalError
)

var kindNames = [...]string{
	BeginObject:   "BeginObject",
	EndObject:     "EndObject",
	BeginArray:    "BeginArray",
	EndArray:      "EndArray",
	EndKey:        "EndKey",
	EndValue:      "EndValue",
	QuoteMark:     "QuoteMark",
	Quoted:        "Quoted",
	Literal:       "Literal",
	TerminalError: "TerminalError",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token is one classified unit. Byte is meaningful only for Quoted and
// Literal tokens.
type Token struct {
	Kind Kind
	Byte byte
}

func (t Token) String() string {
	if t.Kind == Quoted || t.Kind == Literal {
		return fmt.Sprintf("%s(0x%02X)", t.Kind, t.Byte)
	}
	return t.Kind.String()
}

// tokenizer holds the scan state.
type tokenizer struct {
	data    []byte
	pos     int
	out     []Token
	inQuote bool
}

// Tokenize scans data into a token queue. The returned slice is never
// mutated afterwards.
func Tokenize(data []byte) []Token {
	t := &tokenizer{
		data: data,
		out:  make([]Token, 0, len(data)),
	}
	for t.pos < len(t.data) {
		b := t.data[t.pos]
		t.pos++
		if b == '\\' {
			if !t.escape() {
				t.out = append(t.out, Token{Kind: TerminalError})
				break
			}
			continue
		}
		if t.inQuote {
			t.quoted(b)
		} else {
			t.bare(b)
		}
	}
	return t.out
}

func (t *tokenizer) quoted(b byte) {
	if b == '"' {
		t.inQuote = false
		t.out = append(t.out, Token{Kind: QuoteMark})
		return
	}
	t.out = append(t.out, Token{Kind: Quoted, Byte: b})
}

func (t *tokenizer) bare(b byte) {
	switch b {
	case ' ', '\t', '\n', '\r':
	case '{':
		t.out = append(t.out, Token{Kind: BeginObject})
	case '}':
		t.out = append(t.out, Token{Kind: EndObject})
	case '[':
		t.out = append(t.out, Token{Kind: BeginArray})
	case ']':
		t.out = append(t.out, Token{Kind: EndArray})
	case ':':
		t.out = append(t.out, Token{Kind: EndKey})
	case ',':
		t.out = append(t.out, Token{Kind: EndValue})
	case '"':
		t.inQuote = true
		t.out = append(t.out, Token{Kind: QuoteMark})
	default:
		t.out = append(t.out, Token{Kind: Literal, Byte: b})
	}
}

// content emits a content byte of the kind the current quote state calls for.
func (t *tokenizer) content(b byte) {
	k := Literal
	if t.inQuote {
		k = Quoted
	}
	t.out = append(t.out, Token{Kind: k, Byte: b})
}

// escape handles the bytes following '\'. It reports false when the escape
// is malformed or the input ends inside it.
func (t *tokenizer) escape() bool {
	if t.pos >= len(t.data) {
		return false
	}
	b := t.data[t.pos]
	t.pos++

	switch b {
	case '"', '\\', '/':
		t.content(b)
	case 'b':
		t.content('\b')
	case 'f':
		t.content('\f')
	case 'n':
		t.content('\n')
	case 'r':
		t.content('\r')
	case 't':
		t.content('\t')
	case 'u':
		u, ok := t.readHex4()
		if !ok {
			return false
		}
		// The code unit is emitted as raw big-endian bytes, not UTF-8. A zero
		// high byte is dropped: \u0041 must decode to "A", which outranks
		// always writing two bytes. Keep it that way; \u0000 yields a single
		// NUL and \u4e2d yields 0x4e 0x2d.
		if hi := byte(u >> 8); hi != 0 {
			t.content(hi)
		}
		t.content(byte(u))
	default:
		return false
	}
	return true
}

// readHex4 reads exactly 4 hex digits, case-insensitive.
func (t *tokenizer) readHex4() (uint16, bool) {
	if t.pos+4 > len(t.data) {
		return 0, false
	}
	var u uint16
	for _, c := range t.data[t.pos : t.pos+4] {
		d, ok := hexValue(c)
		if !ok {
			return 0, false
		}
		u = u<<4 | uint16(d)
	}
	t.pos += 4
	return u, true
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
