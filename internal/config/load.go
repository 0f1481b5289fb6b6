package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

const schemaDefinition = "#Config"

// Load reads a configuration file and overlays it on Default().
// The format is chosen by extension: .yaml/.yml or .cue.
//
// Load does not call Validate; callers apply overrides first and validate last.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".cue":
		return ParseCUE(data, path)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .cue)", ext)
	}
}

// ParseYAML decodes YAML over Default(). Unknown keys are rejected.
// An empty document yields Default().
func ParseYAML(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return cfg, nil
}

// ParseCUE unifies a CUE document with the embedded #Config schema and decodes
// the result. Schema violations are reported as a *ConfigurationError.
func ParseCUE(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath(schemaDefinition))
	if !def.Exists() {
		return Config{}, fmt.Errorf("config schema is missing %s", schemaDefinition)
	}

	doc := ctx.CompileBytes(data, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return Config{}, fmt.Errorf("failed to parse CUE: %w", err)
	}

	value := def.Unify(doc)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return Config{}, cueConfigurationError(err)
	}

	cfg := Default()
	if err := value.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode CUE config: %w", err)
	}
	return cfg, nil
}

// cueConfigurationError converts CUE validation errors into field problems.
func cueConfigurationError(err error) *ConfigurationError {
	ce := &ConfigurationError{}
	for _, e := range cueerrors.Errors(err) {
		path := e.Path()
		if len(path) > 0 && path[0] == schemaDefinition {
			path = path[1:]
		}
		field := strings.Join(path, ".")
		if field == "" {
			field = "(root)"
		}
		format, args := e.Msg()
		ce.add(field, format, args...)
	}
	if len(ce.Problems) == 0 {
		ce.add("(root)", "%v", err)
	}
	return ce
}
