package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

// BuildContractJSONSchema returns the JSON schema (draft 2020-12 subset) of the
// contract record as a generic map. It is derived from the entity types so it
// cannot drift from the record. Nothing is required: missing keys are
// defaulted by Coerce, so the schema only describes types.
func BuildContractJSONSchema() map[string]any {
	schema := schemaFor(reflect.TypeOf(entity.ContractRecord{}))
	props := schema["properties"].(map[string]any)
	props["type_specific"] = typeSpecificSchema()
	return schema
}

func typeSpecificSchema() map[string]any {
	props := map[string]any{}
	for _, ct := range entity.VariantOrder {
		s := schemaFor(reflect.TypeOf(entity.NewEmptyVariant(ct, 0)))
		s["type"] = []any{"object", "null"}
		props[entity.VariantSlotKey(ct)] = s
	}
	return map[string]any{
		"type":       []any{"object", "null"},
		"properties": props,
	}
}

func schemaFor(t reflect.Type) map[string]any {
	switch t.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Int, reflect.Int32, reflect.Int64:
		return map[string]any{"type": "integer"}
	case reflect.Slice:
		return map[string]any{"type": "array", "items": schemaFor(t.Elem())}
	case reflect.Struct:
		props := map[string]any{}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.Split(f.Tag.Get("json"), ",")[0]
			if !f.IsExported() || name == "" || name == "-" {
				continue
			}
			props[name] = schemaFor(f.Type)
		}
		return map[string]any{"type": "object", "properties": props}
	}
	return map[string]any{}
}

// CompileSchema compiles a schema map for repeated validation.
func CompileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("contract.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("contract.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// SchemaDrift lists the places where tree disagrees with schema, one
// "location: message" entry per leaf violation. Nil means the tree conforms.
func SchemaDrift(schema *jsonschema.Schema, tree any) []string {
	err := schema.Validate(tree)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return out
}
