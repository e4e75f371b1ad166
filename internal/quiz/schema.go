package quiz

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const categorySchemaURL = "schema://trigo/category.json"

// categorySchema describes one <category>.json file. Unknown properties
// are allowed so newer bank files still load.
const categorySchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "categoryId", "difficulty", "promptLatex", "choicesLatex", "correctIndex"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "categoryId": {"type": "string", "minLength": 1},
      "difficulty": {"enum": ["EASY", "MEDIUM", "HARD"]},
      "promptLatex": {"type": "string"},
      "choicesLatex": {
        "type": "array",
        "minItems": 1,
        "items": {"type": "string"}
      },
      "correctIndex": {"type": "integer", "minimum": 0}
    }
  }
}`

const manifestSchemaURL = "schema://trigo/manifest.json"

const manifestSchema = `{
  "type": "object",
  "required": ["version", "categories"],
  "properties": {
    "version": {"type": "string"},
    "categories": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string"}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema struct {
		category *jsonschema.Schema
		manifest *jsonschema.Schema
	}
	schemaErr error
)

// schemas compiles both bank schemas once per process.
func schemas() (category, manifest *jsonschema.Schema, err error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		for url, src := range map[string]string{
			categorySchemaURL: categorySchema,
			manifestSchemaURL: manifestSchema,
		} {
			doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
			if err != nil {
				schemaErr = fmt.Errorf("parse schema %s: %w", url, err)
				return
			}
			if err := c.AddResource(url, doc); err != nil {
				schemaErr = fmt.Errorf("add resource %s: %w", url, err)
				return
			}
		}
		if compiledSchema.category, schemaErr = c.Compile(categorySchemaURL); schemaErr != nil {
			return
		}
		compiledSchema.manifest, schemaErr = c.Compile(manifestSchemaURL)
	})
	return compiledSchema.category, compiledSchema.manifest, schemaErr
}
