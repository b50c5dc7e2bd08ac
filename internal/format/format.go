// Package format serializes arbitrary values into the dump formats the
// CLI exposes. Format names are forgiving: common abbreviations and
// misspellings resolve to their canonical encoder.
package format

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned when a format name resolves to no
// known encoder.
var ErrUnsupportedFormat = errors.New("unsupported output format")

const (
	JSON = "json"
	YAML = "yaml"
	XML  = "xml"
	Text = "text"
)

var aliases = map[string]string{
	"json": JSON,
	"js":   JSON,
	"jsn":  JSON,

	"yaml": YAML,
	"yml":  YAML,
	"ym":   YAML,
	"yl":   YAML,
	"y":    YAML,

	"xml":  XML,
	"xm":   XML,
	"x":    XML,
	"html": XML,
	"htm":  XML,
	"ml":   XML,

	"text":  Text,
	"txt":   Text,
	"plain": Text,
}

// Resolve maps a user-supplied format name onto its canonical form.
func Resolve(kind string) (string, error) {
	canonical, ok := aliases[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}
	return canonical, nil
}

// Options control serializer behavior shared across formats.
type Options struct {
	// Pretty indents JSON and XML output. YAML is always indented.
	Pretty bool
	// Indent overrides the default two-space indent when Pretty is set.
	Indent string
}

func (o Options) indent() string {
	if o.Indent == "" {
		return "  "
	}
	return o.Indent
}

// Bytes serializes v into the named format. The format name goes
// through Resolve first, so aliases work here too.
func Bytes(v any, kind string, opt Options) ([]byte, error) {
	canonical, err := Resolve(kind)
	if err != nil {
		return nil, err
	}

	switch canonical {
	case JSON:
		if opt.Pretty {
			return json.MarshalIndent(v, "", opt.indent())
		}
		return json.Marshal(v)
	case YAML:
		return yaml.Marshal(v)
	case XML:
		if opt.Pretty {
			return xml.MarshalIndent(v, "", opt.indent())
		}
		return xml.Marshal(v)
	case Text:
		switch s := v.(type) {
		case string:
			return []byte(s), nil
		case []byte:
			return s, nil
		case fmt.Stringer:
			return []byte(s.String()), nil
		default:
			return []byte(fmt.Sprintf("%+v", v)), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
}

// Known lists the canonical format names.
func Known() []string {
	return []string{JSON, YAML, XML, Text}
}
