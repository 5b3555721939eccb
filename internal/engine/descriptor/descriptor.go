// Package descriptor decodes the parameter portion of a Dalvik method
// descriptor into an ordered list of type tokens.
package descriptor

import "strings"

type Kind int

const (
	KindPrimitive Kind = iota
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Token is one decoded parameter type. Value is the display form used in
// overload lists: the friendly name for primitives, the dotted class name for
// object references and the raw bracket notation for arrays.
type Token struct {
	Kind  Kind
	Value string
}

func (t Token) String() string { return t.Value }

func Primitive(name string) Token { return Token{Kind: KindPrimitive, Value: name} }
func ObjectRef(name string) Token { return Token{Kind: KindObject, Value: name} }
func ArrayRef(raw string) Token   { return Token{Kind: KindArray, Value: raw} }

var primitives = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// PrimitiveName returns the friendly name for a one-letter primitive code.
func PrimitiveName(code byte) (string, bool) {
	name, ok := primitives[code]
	return name, ok
}

// Decode splits raw into tokens. ';' only terminates object references; every
// other token may follow its predecessor directly. Unknown characters are
// skipped, so Decode never fails.
func Decode(raw string) []Token {
	tokens := make([]Token, 0, 4)
	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c == 'L':
			name, next, _ := objectName(raw, i+1)
			tokens = append(tokens, ObjectRef(Dotted(name)))
			i = next
		case c == '[':
			j := i
			for j < len(raw) && raw[j] == '[' {
				j++
			}
			if j >= len(raw) {
				// dangling brackets with no element code
				return tokens
			}
			if raw[j] == 'L' {
				name, next, terminated := objectName(raw, j+1)
				token := raw[i:j+1] + Dotted(name)
				if terminated {
					token += ";"
				}
				tokens = append(tokens, ArrayRef(token))
				i = next
				continue
			}
			// Primitive element codes stay in their one-letter form.
			tokens = append(tokens, ArrayRef(raw[i:j+1]))
			i = j + 1
		default:
			if name, ok := primitives[c]; ok {
				tokens = append(tokens, Primitive(name))
			}
			i++
		}
	}
	return tokens
}

// objectName returns the class path starting at start and the index just past
// its terminating ';'. A missing terminator consumes the rest of raw.
func objectName(raw string, start int) (name string, next int, terminated bool) {
	end := strings.IndexByte(raw[start:], ';')
	if end < 0 {
		return raw[start:], len(raw), false
	}
	return raw[start : start+end], start + end + 1, true
}

// Dotted converts a slash-separated class path to its dotted form.
func Dotted(path string) string {
	return strings.ReplaceAll(path, "/", ".")
}

// ClassName converts an "L<path>;" class descriptor to a dotted class name.
func ClassName(desc string) string {
	desc = strings.TrimSuffix(strings.TrimPrefix(desc, "L"), ";")
	return Dotted(desc)
}

// Display renders tokens as the quoted, comma-separated list expected by a
// Frida overload() call.
func Display(tokens []Token) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(t.Value)
		b.WriteByte('\'')
	}
	return b.String()
}
