package neigh

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrUnknownTemplate is returned when the requested OS has no entry in
// the template map.
var ErrUnknownTemplate = errors.New("unknown OS template")

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// RenderConfig carries the per-run rendering options. Empty peer
// template/session/policy names suppress the matching directives
// entirely; that is a supported configuration, not an error.
type RenderConfig struct {
	OS           string
	TemplateMap  map[string]string
	PeerTemplate string
	PeerSession  string
	PeerPolicyV4 string
	PeerPolicyV6 string
	LockVersion  bool

	UseMaxPrefixes  bool
	MaxPrefixConfig string
}

// neighborContext is what a template sees: the record plus the run options.
type neighborContext struct {
	Record
	PeerTemplate    string
	PeerSession     string
	PeerPolicyV4    string
	PeerPolicyV6    string
	LockVersion     bool
	UseMaxPrefixes  bool
	MaxPrefixConfig string
}

// Description is the neighbor description line: peer name and exchange,
// or just the exchange when the peer row has no name.
func (c neighborContext) Description() string {
	if c.PeerName == "" {
		return c.IXName
	}
	return c.PeerName + " - " + c.IXName
}

// Render fills the OS template once per record and concatenates the
// results in input order. Rendering is pure: identical inputs produce
// byte-identical output.
func Render(records []Record, rc RenderConfig) (string, error) {
	tpl, err := lookup(rc)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, rec := range records {
		ctx := neighborContext{
			Record:          rec,
			PeerTemplate:    rc.PeerTemplate,
			PeerSession:     rc.PeerSession,
			PeerPolicyV4:    rc.PeerPolicyV4,
			PeerPolicyV6:    rc.PeerPolicyV6,
			LockVersion:     rc.LockVersion,
			UseMaxPrefixes:  rc.UseMaxPrefixes,
			MaxPrefixConfig: rc.MaxPrefixConfig,
		}
		if err := tpl.Execute(&b, ctx); err != nil {
			// Discard anything buffered so far: no partial configs.
			return "", fmt.Errorf("rendering neighbor AS%d at %s: %w", rec.PeerASN, rec.IXName, err)
		}
	}
	return b.String(), nil
}

func lookup(rc RenderConfig) (*template.Template, error) {
	name := rc.OS
	if !strings.HasSuffix(name, ".tmpl") {
		mapped, ok := rc.TemplateMap[rc.OS]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, rc.OS)
		}
		name = mapped
	}
	tpl := templates.Lookup(name)
	if tpl == nil {
		return nil, fmt.Errorf("%w: %q maps to missing template %q", ErrUnknownTemplate, rc.OS, name)
	}
	return tpl, nil
}

// Known lists the OS names the template map can currently render, for
// help text and error messages.
func Known(templateMap map[string]string) []string {
	var names []string
	for os, file := range templateMap {
		if templates.Lookup(file) != nil {
			names = append(names, os)
		}
	}
	return names
}
