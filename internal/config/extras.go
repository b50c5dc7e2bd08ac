package config

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed extras/*.yaml extras/*.env
var extras embed.FS

// exampleFiles maps gen-config type names (and their aliases) onto the
// embedded example files.
var exampleFiles = map[string]string{
	"docker":      "example.dk-config.yaml",
	"dk":          "example.dk-config.yaml",
	"compose":     "example.dk-config.yaml",
	"env":         "example.env",
	"environment": "example.env",
	"dotenv":      "example.env",
	"config":      "example.yaml",
	"yaml":        "example.yaml",
	"yml":         "example.yaml",
	"example":     "example.yaml",
}

// Example returns the embedded example config for the given type name.
func Example(kind string) ([]byte, error) {
	name, ok := exampleFiles[kind]
	if !ok {
		return nil, fmt.Errorf("unknown example config type %q (choices: %v)", kind, ExampleKinds())
	}
	data, err := extras.ReadFile("extras/" + name)
	if err != nil {
		return nil, fmt.Errorf("reading embedded example %s: %w", name, err)
	}
	return data, nil
}

// ExampleKinds lists the accepted gen-config type names, sorted.
func ExampleKinds() []string {
	kinds := make([]string, 0, len(exampleFiles))
	for k := range exampleFiles {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
