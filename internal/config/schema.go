package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// serverSchema is the JSON schema every decoded server entry must satisfy.
// The TOML is decoded into plain Go values first; gojsonschema validates the
// resulting document so structural errors carry field paths.
const serverSchema = `{
	"type": "object",
	"properties": {
		"servers": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "command"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"command": {"type": "string", "minLength": 1},
					"args": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

func (c *Config) validate() error {
	if err := c.validateSchema(); err != nil {
		return err
	}
	if err := c.validateDistinct(); err != nil {
		return err
	}
	return nil
}

// validateSchema checks the decoded config against serverSchema.
func (c *Config) validateSchema() error {
	doc := map[string]any{
		"servers": serverDocuments(c.Servers),
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(serverSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		descs := make([]string, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			descs = append(descs, fmt.Sprintf("%s: %s", resultErr.Field(), resultErr.Description()))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(descs, "; "))
	}

	return nil
}

func (c *Config) validateDistinct() error {
	seen := map[string]struct{}{}

	for _, entry := range c.Servers {
		name := strings.TrimSpace(entry.Name)
		if _, exists := seen[name]; exists {
			return fmt.Errorf("duplicate server name '%s'", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// serverDocuments converts entries to schema-checkable documents.
func serverDocuments(entries []ServerEntry) []map[string]any {
	docs := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		doc := map[string]any{
			"name":        e.Name,
			"description": e.Description,
			"command":     e.Command,
		}
		if e.Args != nil {
			doc["args"] = e.Args
		}
		docs = append(docs, doc)
	}
	return docs
}
