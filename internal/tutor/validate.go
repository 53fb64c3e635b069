package tutor

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

//go:embed content.schema.json
var contentSchemaJSON []byte

const contentSchemaURL = "schema://homeworkhelper/content.json"

// SupportedContentMajor is the content pack major version this build reads.
const SupportedContentMajor = "v1"

// ContentError reports an invalid content pack.
type ContentError struct {
	// Path locates the offending entry, e.g. "subjects.english.3".
	// Empty when the problem concerns the whole document.
	Path string
	Err  error
}

func (e *ContentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid content: %v", e.Err)
	}
	return fmt.Sprintf("invalid content at %s: %v", e.Path, e.Err)
}

func (e *ContentError) Unwrap() error { return e.Err }

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// contentSchema compiles the embedded JSON Schema once.
func contentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(contentSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse content schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(contentSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(contentSchemaURL)
	})
	return compiledSchema, schemaErr
}

// validateContent checks a decoded YAML document against the content schema.
func validateContent(doc any) error {
	schema, err := contentSchema()
	if err != nil {
		return &ContentError{Err: fmt.Errorf("compile schema: %w", err)}
	}
	if err := schema.Validate(doc); err != nil {
		return &ContentError{Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

// checkVersion rejects packs written for another major version.
func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return &ContentError{Path: "version", Err: fmt.Errorf("%q is not a semantic version", v)}
	}
	if major := semver.Major(v); major != SupportedContentMajor {
		return &ContentError{Path: "version", Err: fmt.Errorf("unsupported major version %s (want %s)", major, SupportedContentMajor)}
	}
	return nil
}
