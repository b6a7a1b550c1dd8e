package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
)

//go:embed schema.json
var schemaBytes []byte

// Load reads a snapshot file, validates it against the embedded schema,
// and builds the descriptor graph. YAML and JSON are both accepted;
// JSON is a YAML subset so one decoder covers both.
func Load(path string) ([]*metadata.Assembly, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(base)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return LoadFromReader(file)
}

// LoadFromReader decodes, schema-validates, and builds a snapshot from
// an io.Reader.
func LoadFromReader(r io.Reader) ([]*metadata.Assembly, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return Build(doc)
}

// validateSchema checks the raw document against the embedded JSON
// Schema before any descriptors are built, so structural errors surface
// with instance locations instead of nil-pointer surprises later.
func validateSchema(raw []byte) error {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("snapshot-schema.json", bytes.NewReader(schemaBytes)); err != nil {
		return fmt.Errorf("failed to add snapshot schema resource: %w", err)
	}
	schema, err := compiler.Compile("snapshot-schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile snapshot schema: %w", err)
	}

	// The validator wants json.Unmarshal-shaped values, so route the
	// document through a YAML-to-JSON conversion first.
	jsonRaw, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	var instance any
	if err := json.Unmarshal(jsonRaw, &instance); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return formatSchemaError(verr)
		}
		return fmt.Errorf("snapshot validation failed: %w", err)
	}
	return nil
}

// formatSchemaError flattens a validation error tree into one readable
// message.
func formatSchemaError(err *jsonschema.ValidationError) error {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return fmt.Errorf("snapshot validation failed")
	}
	return fmt.Errorf("snapshot validation failed:\n  - %s", strings.Join(messages, "\n  - "))
}
