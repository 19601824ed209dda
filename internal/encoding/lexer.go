package encoding

import "strconv"

// contextKind identifies the nesting scope the lexer is inside.
type contextKind int

const (
	contextRoot contextKind = iota
	contextArray
	contextObject
)

// context is one node of the nesting chain. parent is nil only for the root,
// which is never popped.
type context struct {
	kind   contextKind
	parent *context

	// inToken marks that the next flushed token is a value, not a name.
	// Arrays hold only values, so array contexts keep it set for their
	// whole lifetime; object contexts set it at ':' and clear it at ','.
	inToken bool
}

// Lexer converts raw JSON text, fed in chunks of any size, into TokenSink
// events. All state survives between Feed calls, so a token may split at an
// arbitrary byte boundary. A Lexer handles one document and is not safe for
// concurrent use.
//
// Escape sequences are not decoded: a backslash inside a quoted string passes
// through untouched and an escaped quote terminates the string early. Writers
// in this package escape on output anyway; values are validated against
// quotes and backslashes before they reach a document.
type Lexer struct {
	sink      TokenSink
	ctx       *context
	buf       []byte
	quoteOpen bool
}

// NewLexer returns a lexer delivering events to sink.
func NewLexer(sink TokenSink) *Lexer {
	return &Lexer{
		sink: sink,
		ctx:  &context{kind: contextRoot},
	}
}

// Feed consumes the next chunk of the document.
func (l *Lexer) Feed(chunk string) {
	for i := 0; i < len(chunk); i++ {
		l.consume(chunk[i])
	}
}

func (l *Lexer) consume(c byte) {
	switch c {
	case '"':
		if l.quoteOpen {
			l.buf = append(l.buf, '"')
			l.quoteOpen = false
		} else {
			l.buf = append(l.buf[:0], '"')
			l.quoteOpen = true
		}
	case '{':
		if l.quoteOpen {
			l.buf = append(l.buf, c)
			return
		}
		l.pushObject()
		l.sink.OnStartObject()
	case '}':
		if l.quoteOpen {
			l.buf = append(l.buf, c)
			return
		}
		l.flushValue()
		l.pop()
		l.sink.OnEndObject()
	case '[':
		if l.quoteOpen {
			l.buf = append(l.buf, c)
			return
		}
		l.pushArray()
		l.sink.OnStartArray()
	case ']':
		if l.quoteOpen {
			l.buf = append(l.buf, c)
			return
		}
		l.flushValue()
		l.pop()
		l.sink.OnEndArray()
	case ':':
		if l.quoteOpen {
			l.buf = append(l.buf, c)
			return
		}
		l.flushName()
		l.ctx.inToken = true
	case ',':
		if l.quoteOpen {
			l.buf = append(l.buf, c)
			return
		}
		l.flushValue()
		if l.ctx.kind == contextObject {
			l.ctx.inToken = false
		}
	case ' ', '\n', '\t', '\r':
		// Interior string whitespace survives only because the quote
		// state is checked first; formatting whitespace is dropped.
		if l.quoteOpen {
			l.buf = append(l.buf, c)
		}
	default:
		if l.quoteOpen || l.ctx.inToken {
			l.buf = append(l.buf, c)
		}
	}
}

// flushName emits the accumulator as a property name.
func (l *Lexer) flushName() {
	if len(l.buf) == 0 {
		return
	}
	l.sink.OnName(stripQuotes(string(l.buf)))
	l.buf = l.buf[:0]
}

// flushValue emits the accumulator as a scalar value. Quoted literals are
// always strings regardless of content; bare tokens try bool, null, integer
// and float in that order. A bare token parsing as none of those is dropped
// without an event.
func (l *Lexer) flushValue() {
	if len(l.buf) == 0 {
		return
	}
	raw := string(l.buf)
	l.buf = l.buf[:0]

	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		l.sink.OnString(raw[1 : len(raw)-1])
		return
	}
	switch raw {
	case "true":
		l.sink.OnBool(true)
		return
	case "false":
		l.sink.OnBool(false)
		return
	case "null":
		l.sink.OnNull()
		return
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		l.sink.OnInt(n)
		return
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		l.sink.OnFloat(f)
	}
}

func (l *Lexer) pushObject() {
	l.ctx = &context{kind: contextObject, parent: l.ctx}
}

func (l *Lexer) pushArray() {
	l.ctx = &context{kind: contextArray, parent: l.ctx, inToken: true}
}

// pop returns to the enclosing context. Popping at the root is a no-op so a
// stray trailing bracket cannot leave the lexer without a context.
func (l *Lexer) pop() {
	if l.ctx.parent != nil {
		l.ctx = l.ctx.parent
	}
}

// depth reports the current nesting depth, zero at the root.
func (l *Lexer) depth() int {
	n := 0
	for ctx := l.ctx; ctx.parent != nil; ctx = ctx.parent {
		n++
	}
	return n
}

func stripQuotes(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	return raw
}
