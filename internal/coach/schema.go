package coach

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "schema://coach/"

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

// compileSchemas loads every embedded schema into one compiler so that
// relative $ref values resolve between them.
func compileSchemas() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		entries, err := schemaFS.ReadDir("schemas")
		if err != nil {
			schemasErr = err
			return
		}
		c := jsonschema.NewCompiler()
		for _, e := range entries {
			raw, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
			if err != nil {
				schemasErr = err
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				schemasErr = fmt.Errorf("parse schema %s: %w", e.Name(), err)
				return
			}
			if err := c.AddResource(schemaBase+e.Name(), doc); err != nil {
				schemasErr = fmt.Errorf("add schema %s: %w", e.Name(), err)
				return
			}
		}
		compiled := make(map[string]*jsonschema.Schema, len(entries))
		for _, e := range entries {
			s, err := c.Compile(schemaBase + e.Name())
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", e.Name(), err)
				return
			}
			compiled[e.Name()] = s
		}
		schemas = compiled
	})
	return schemas, schemasErr
}

func validateAgainst(name string, raw json.RawMessage) error {
	all, err := compileSchemas()
	if err != nil {
		return err
	}
	s, ok := all[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// DecodeProfile validates raw against the profile schema and decodes it.
// Any failure is a *ShapeError for op.
func DecodeProfile(op string, raw json.RawMessage) (*Profile, error) {
	if err := validateAgainst("profile.json", raw); err != nil {
		return nil, &ShapeError{Op: op, Body: raw, Err: err}
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ShapeError{Op: op, Body: raw, Err: err}
	}
	return &p, nil
}

// DecodePlanResult validates raw against the plan result schema and
// decodes it. Any failure is a *ShapeError for op.
func DecodePlanResult(op string, raw json.RawMessage) (*PlanResult, error) {
	if err := validateAgainst("plan_result.json", raw); err != nil {
		return nil, &ShapeError{Op: op, Body: raw, Err: err}
	}
	var r PlanResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, &ShapeError{Op: op, Body: raw, Err: err}
	}
	return &r, nil
}
