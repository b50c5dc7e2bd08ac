package format

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type sample struct {
	ASN  uint32 `json:"asn" yaml:"asn" xml:"asn"`
	Name string `json:"name" yaml:"name" xml:"name"`
}

func TestResolve_Aliases(t *testing.T) {
	cases := map[string]string{
		"json": JSON, "JS": JSON, "jsn": JSON,
		"yaml": YAML, "yml": YAML, "y": YAML, " YML ": YAML,
		"xml": XML, "x": XML, "html": XML,
		"text": Text, "txt": Text,
	}
	for in, want := range cases {
		got, err := Resolve(in)
		if err != nil {
			t.Errorf("Resolve(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolve_Unsupported(t *testing.T) {
	for _, in := range []string{"toml", "csv", ""} {
		if _, err := Resolve(in); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Resolve(%q) err = %v, want ErrUnsupportedFormat", in, err)
		}
	}
}

func TestBytes_JSONRoundTrip(t *testing.T) {
	in := sample{ASN: 210083, Name: "Privex Inc."}

	flat, err := Bytes(in, "json", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(flat), "\n") {
		t.Errorf("flat JSON should be single-line: %q", flat)
	}

	pretty, err := Bytes(in, "js", Options{Pretty: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(pretty), "\n  ") {
		t.Errorf("pretty JSON should be indented: %q", pretty)
	}

	var out sample
	if err := json.Unmarshal(pretty, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestBytes_YAMLRoundTrip(t *testing.T) {
	in := sample{ASN: 13335, Name: "Cloudflare"}
	b, err := Bytes(in, "yml", Options{})
	if err != nil {
		t.Fatal(err)
	}
	var out sample
	if err := yaml.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestBytes_XML(t *testing.T) {
	b, err := Bytes(sample{ASN: 6500, Name: "Example Net"}, "xml", Options{Pretty: true})
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if !strings.Contains(s, "<asn>6500</asn>") || !strings.Contains(s, "<name>Example Net</name>") {
		t.Errorf("unexpected XML: %s", s)
	}
}

func TestBytes_Text(t *testing.T) {
	b, err := Bytes("router bgp 210083\n", "txt", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "router bgp 210083\n" {
		t.Errorf("text passthrough mangled: %q", b)
	}
}

func TestBytes_Unsupported(t *testing.T) {
	if _, err := Bytes(sample{}, "protobuf", Options{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}
