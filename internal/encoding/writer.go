package encoding

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/hksynth/hksynth-cli/internal/models"
)

// Writer streams a Document to an io.Writer one sample at a time, never
// materializing the full serialized text. Keys are emitted in sorted order so
// a given document always renders to the same bytes.
type Writer struct {
	w io.Writer
}

// NewWriter returns a writer targeting w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Marshal renders a document as a single JSON string.
func Marshal(doc models.Document) (string, error) {
	var sb strings.Builder
	if err := NewWriter(&sb).WriteDocument(doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// MarshalProperties renders one property map on its own, in the same
// deterministic form it would take inside a document.
func MarshalProperties(props models.Properties) (string, error) {
	var sb strings.Builder
	if err := NewWriter(&sb).writeProps(props); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Quote renders s as a JSON string literal with the writer's escaping.
func Quote(s string) string {
	var sb strings.Builder
	_ = NewWriter(&sb).writeQuoted(s)
	return sb.String()
}

// WriteDocument serializes the whole document.
func (wr *Writer) WriteDocument(doc models.Document) error {
	if err := wr.writeRaw("{"); err != nil {
		return err
	}
	names := doc.TypeNames()
	sort.Strings(names)
	for i, name := range names {
		if i > 0 {
			if err := wr.writeRaw(","); err != nil {
				return err
			}
		}
		if err := wr.writeQuoted(name); err != nil {
			return err
		}
		if err := wr.writeRaw(":["); err != nil {
			return err
		}
		for j, props := range doc[name] {
			if j > 0 {
				if err := wr.writeRaw(","); err != nil {
					return err
				}
			}
			if err := wr.writeProps(props); err != nil {
				return err
			}
		}
		if err := wr.writeRaw("]"); err != nil {
			return err
		}
	}
	return wr.writeRaw("}")
}

func (wr *Writer) writeProps(p models.Properties) error {
	if err := wr.writeRaw("{"); err != nil {
		return err
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			if err := wr.writeRaw(","); err != nil {
				return err
			}
		}
		if err := wr.writeQuoted(k); err != nil {
			return err
		}
		if err := wr.writeRaw(":"); err != nil {
			return err
		}
		if err := wr.writeValue(p[k]); err != nil {
			return err
		}
	}
	return wr.writeRaw("}")
}

func (wr *Writer) writeValue(v any) error {
	switch t := v.(type) {
	case nil:
		return wr.writeRaw("null")
	case string:
		return wr.writeQuoted(t)
	case bool:
		return wr.writeRaw(strconv.FormatBool(t))
	case int:
		return wr.writeRaw(strconv.Itoa(t))
	case int64:
		return wr.writeRaw(strconv.FormatInt(t, 10))
	case float64:
		return wr.writeRaw(strconv.FormatFloat(t, 'f', -1, 64))
	case map[string]any:
		return wr.writeProps(t)
	case []any:
		if err := wr.writeRaw("["); err != nil {
			return err
		}
		for i, item := range t {
			if i > 0 {
				if err := wr.writeRaw(","); err != nil {
					return err
				}
			}
			if err := wr.writeValue(item); err != nil {
				return err
			}
		}
		return wr.writeRaw("]")
	case []models.Properties:
		if err := wr.writeRaw("["); err != nil {
			return err
		}
		for i, item := range t {
			if i > 0 {
				if err := wr.writeRaw(","); err != nil {
					return err
				}
			}
			if err := wr.writeProps(item); err != nil {
				return err
			}
		}
		return wr.writeRaw("]")
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
}

// writeQuoted emits s as a JSON string literal, escaping quotes, backslashes
// and control characters. The paired lexer does not decode escapes, so
// callers validate values at the generation boundary; escaping here keeps the
// output parseable by stricter readers.
func (wr *Writer) writeQuoted(s string) error {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			buf = append(buf, '\\', '"')
		case c == '\\':
			buf = append(buf, '\\', '\\')
		case c == '\n':
			buf = append(buf, '\\', 'n')
		case c == '\t':
			buf = append(buf, '\\', 't')
		case c == '\r':
			buf = append(buf, '\\', 'r')
		case c < 0x20:
			buf = append(buf, fmt.Sprintf(`\u%04x`, c)...)
		default:
			buf = append(buf, c)
		}
	}
	buf = append(buf, '"')
	_, err := wr.w.Write(buf)
	return err
}

func (wr *Writer) writeRaw(s string) error {
	_, err := io.WriteString(wr.w, s)
	return err
}
