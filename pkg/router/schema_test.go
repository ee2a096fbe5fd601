package router

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// Test structs used in the tests
type SimpleStruct struct {
	String  string  `json:"string"`
	Int     int     `json:"int"`
	Bool    bool    `json:"bool"`
	Float   float64 `json:"float"`
	Pointer *string `json:"pointer,omitempty"`
}

type StructWithTags struct {
	Required    string `json:"required"`
	Optional    string `json:"optional,omitempty"`
	WithDoc     string `json:"withDoc" doc:"This is documentation"`
	WithExample int64  `json:"withExample" example:"42"`
	WithEnum    string `json:"withEnum" enum:"value1,value2,value3"`
	Ignored     string `json:"-"`
	unexported  string
}

type StructWithCollections struct {
	StringArray []string                `json:"stringArray"`
	ObjArray    []SimpleStruct          `json:"objArray"`
	IntMap      map[string]int          `json:"intMap"`
	Created     time.Time               `json:"created"`
	Raw         json.RawMessage         `json:"raw"`
	Nested      struct{ A string }      `json:"nested"`
	ObjMap      map[string]SimpleStruct `json:"objMap"`
}

type CircularStruct struct {
	Name     string           `json:"name"`
	Self     *CircularStruct  `json:"self,omitempty"`
	Children []CircularStruct `json:"children"`
}

// wrapped documents itself as T, like a tri-state optional
type wrapped[T any] struct {
	Value T
	Set   bool
}

func (wrapped[T]) SchemaType() any {
	var v T
	return v
}

type StructWithWrapped struct {
	Name   wrapped[*string] `json:"name,omitzero" doc:"New name"`
	Count  wrapped[int]     `json:"count,omitzero"`
	Status wrapped[string]  `json:"status,omitzero" enum:"on,off"`
}

func TestParseJsonTag(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		jsonTag      string
		fieldName    string
		wantName     string
		wantRequired bool
	}{
		"empty tag uses field name and required": {
			jsonTag:      "",
			fieldName:    "FieldName",
			wantName:     "FieldName",
			wantRequired: true,
		},
		"simple tag": {
			jsonTag:      "propertyName",
			fieldName:    "FieldName",
			wantName:     "propertyName",
			wantRequired: true,
		},
		"omitempty": {
			jsonTag:      "propertyName,omitempty",
			fieldName:    "FieldName",
			wantName:     "propertyName",
			wantRequired: false,
		},
		"omitzero": {
			jsonTag:      "propertyName,omitzero",
			fieldName:    "FieldName",
			wantName:     "propertyName",
			wantRequired: false,
		},
		"other options": {
			jsonTag:      "propertyName,string",
			fieldName:    "FieldName",
			wantName:     "propertyName",
			wantRequired: true,
		},
		"empty name in tag": {
			jsonTag:      ",omitempty",
			fieldName:    "FieldName",
			wantName:     "FieldName",
			wantRequired: false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			gotName, gotRequired := parseJsonTag(tc.jsonTag, tc.fieldName)
			assert.Equal(t, tc.wantName, gotName)
			assert.Equal(t, tc.wantRequired, gotRequired)
		})
	}
}

func TestSchemaGeneration(t *testing.T) {
	t.Parallel()

	simpleSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"string":  map[string]any{"type": "string"},
			"int":     map[string]any{"type": "integer"},
			"bool":    map[string]any{"type": "boolean"},
			"float":   map[string]any{"type": "number"},
			"pointer": map[string]any{"type": "string", "nullable": true},
		},
		"required": []string{"string", "int", "bool", "float"},
	}

	tests := map[string]struct {
		value          any
		wantRef        map[string]any
		wantComponents map[string]any
	}{
		"basic type is inlined": {
			value:          "text",
			wantRef:        map[string]any{"type": "string"},
			wantComponents: map[string]any{},
		},
		"top level pointer is dereferenced": {
			value:   &SimpleStruct{},
			wantRef: map[string]any{"$ref": "#/components/schemas/SimpleStruct"},
			wantComponents: map[string]any{
				"SimpleStruct": simpleSchema,
			},
		},
		"slice of named struct": {
			value: []SimpleStruct{},
			wantRef: map[string]any{
				"type":  "array",
				"items": map[string]any{"$ref": "#/components/schemas/SimpleStruct"},
			},
			wantComponents: map[string]any{
				"SimpleStruct": simpleSchema,
			},
		},
		"struct tags": {
			value:   StructWithTags{},
			wantRef: map[string]any{"$ref": "#/components/schemas/StructWithTags"},
			wantComponents: map[string]any{
				"StructWithTags": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"required":    map[string]any{"type": "string"},
						"optional":    map[string]any{"type": "string"},
						"withDoc":     map[string]any{"type": "string", "description": "This is documentation"},
						"withExample": map[string]any{"type": "integer", "format": "int64", "example": int64(42)},
						"withEnum":    map[string]any{"type": "string", "enum": []string{"value1", "value2", "value3"}},
					},
					"required": []string{"required", "withDoc", "withExample", "withEnum"},
				},
			},
		},
		"collections and special types": {
			value:   StructWithCollections{},
			wantRef: map[string]any{"$ref": "#/components/schemas/StructWithCollections"},
			wantComponents: map[string]any{
				"SimpleStruct": simpleSchema,
				"StructWithCollections": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"stringArray": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"objArray":    map[string]any{"type": "array", "items": map[string]any{"$ref": "#/components/schemas/SimpleStruct"}},
						"intMap":      map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "integer"}},
						"created":     map[string]any{"type": "string", "format": "date-time"},
						"raw":         map[string]any{"type": "object"},
						"nested": map[string]any{
							"type":       "object",
							"properties": map[string]any{"A": map[string]any{"type": "string"}},
							"required":   []string{"A"},
						},
						"objMap": map[string]any{"type": "object", "additionalProperties": map[string]any{"$ref": "#/components/schemas/SimpleStruct"}},
					},
					"required": []string{"stringArray", "objArray", "intMap", "created", "raw", "nested", "objMap"},
				},
			},
		},
		"circular reference": {
			value:   CircularStruct{},
			wantRef: map[string]any{"$ref": "#/components/schemas/CircularStruct"},
			wantComponents: map[string]any{
				"CircularStruct": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
						"self": map[string]any{
							"allOf":    []any{map[string]any{"$ref": "#/components/schemas/CircularStruct"}},
							"nullable": true,
						},
						"children": map[string]any{
							"type":  "array",
							"items": map[string]any{"$ref": "#/components/schemas/CircularStruct"},
						},
					},
					"required": []string{"name", "children"},
				},
			},
		},
		"schema typer": {
			value:   StructWithWrapped{},
			wantRef: map[string]any{"$ref": "#/components/schemas/StructWithWrapped"},
			wantComponents: map[string]any{
				"StructWithWrapped": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":   map[string]any{"type": "string", "nullable": true, "description": "New name"},
						"count":  map[string]any{"type": "integer"},
						"status": map[string]any{"type": "string", "enum": []string{"on", "off"}},
					},
				},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			g := newSchemaGenerator()
			gotRef := g.ref(tc.value)

			if diff := cmp.Diff(tc.wantRef, gotRef); diff != "" {
				t.Errorf("ref mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantComponents, g.components); diff != "" {
				t.Errorf("components mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParamSchema(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[string]any{"type": "string"}, paramSchema(nil))
	assert.Equal(t, map[string]any{"type": "integer", "format": "int64"}, paramSchema(int64(0)))
	assert.Equal(t, map[string]any{"type": "boolean"}, paramSchema(true))
	assert.Panics(t, func() { paramSchema(struct{}{}) })
}

func TestExampleValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(6), exampleValue("integer", "6"))
	assert.Equal(t, 1.5, exampleValue("number", "1.5"))
	assert.Equal(t, true, exampleValue("boolean", "true"))
	assert.Equal(t, "abc", exampleValue("integer", "abc"))
	assert.Equal(t, "6", exampleValue("string", "6"))
}
