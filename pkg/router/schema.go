package router

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// SchemaTyper lets a wrapper type document itself as another type.
// The returned value is only inspected for its type.
type SchemaTyper interface {
	SchemaType() any
}

var (
	schemaTyperType = reflect.TypeOf((*SchemaTyper)(nil)).Elem()
	timeType        = reflect.TypeOf(time.Time{})
	rawMessageType  = reflect.TypeOf(json.RawMessage{})
)

// schemaGenerator converts Go types to OpenAPI schemas. Named structs are
// stored once under components and referenced from everywhere else.
type schemaGenerator struct {
	components map[string]any
}

func newSchemaGenerator() *schemaGenerator {
	return &schemaGenerator{
		components: make(map[string]any),
	}
}

// ref returns the schema of the value's type, registering named structs.
// A top level pointer documents the type it points to.
func (g *schemaGenerator) ref(v any) map[string]any {
	if v == nil {
		return nil
	}

	typ := reflect.TypeOf(v)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return g.schemaFor(typ)
}

func (g *schemaGenerator) schemaFor(typ reflect.Type) map[string]any {
	if typ.Kind() != reflect.Pointer && typ.Implements(schemaTyperType) {
		inner := reflect.Zero(typ).Interface().(SchemaTyper).SchemaType()
		if inner == nil {
			return map[string]any{}
		}
		return g.schemaFor(reflect.TypeOf(inner))
	}

	switch typ {
	case timeType:
		return map[string]any{"type": "string", "format": "date-time"}
	case rawMessageType:
		return map[string]any{"type": "object"}
	}

	if schema := basicTypeSchema(typ.Kind()); schema != nil {
		return schema
	}

	switch typ.Kind() {
	case reflect.Pointer:
		return nullable(g.schemaFor(typ.Elem()))
	case reflect.Struct:
		if typ.Name() == "" {
			return g.processStruct(typ)
		}
		return g.namedStruct(typ)
	case reflect.Slice, reflect.Array:
		return map[string]any{
			"type":  "array",
			"items": g.schemaFor(typ.Elem()),
		}
	case reflect.Map:
		return map[string]any{
			"type":                 "object",
			"additionalProperties": g.schemaFor(typ.Elem()),
		}
	default:
		return map[string]any{"type": "object"}
	}
}

// namedStruct registers typ under components and returns a reference to it
func (g *schemaGenerator) namedStruct(typ reflect.Type) map[string]any {
	name := typ.Name()
	if _, exists := g.components[name]; !exists {
		// placeholder so self references terminate
		g.components[name] = map[string]any{}
		g.components[name] = g.processStruct(typ)
	}
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

// processStruct converts a struct type to an object schema
func (g *schemaGenerator) processStruct(typ reflect.Type) map[string]any {
	properties := make(map[string]any)
	required := []string{}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		// skip unexported fields
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, isRequired := parseJsonTag(jsonTag, field.Name)
		if isRequired {
			required = append(required, name)
		}

		fieldSchema := g.schemaFor(field.Type)
		addFieldMetadata(fieldSchema, field)
		properties[name] = fieldSchema
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// parseJsonTag extracts name and required status from a json tag
func parseJsonTag(jsonTag, fieldName string) (string, bool) {
	if jsonTag == "" {
		return fieldName, true
	}

	parts := strings.Split(jsonTag, ",")
	name := parts[0]
	if name == "" {
		name = fieldName
	}

	opts := parts[1:]
	return name, !slices.Contains(opts, "omitempty") && !slices.Contains(opts, "omitzero")
}

// nullable marks schema as accepting null. References can't carry
// siblings in OpenAPI 3.0, so they are wrapped in allOf.
func nullable(schema map[string]any) map[string]any {
	if _, isRef := schema["$ref"]; isRef {
		return map[string]any{
			"allOf":    []any{schema},
			"nullable": true,
		}
	}
	schema["nullable"] = true
	return schema
}

// addFieldMetadata adds documentation from struct tags to a schema
func addFieldMetadata(schema map[string]any, field reflect.StructField) {
	if _, isRef := schema["$ref"]; isRef {
		return
	}

	if docTag := field.Tag.Get("doc"); docTag != "" {
		schema["description"] = docTag
	}

	if exampleTag := field.Tag.Get("example"); exampleTag != "" {
		schema["example"] = exampleValue(schema["type"], exampleTag)
	}

	if enumTag := field.Tag.Get("enum"); enumTag != "" {
		schema["enum"] = strings.Split(enumTag, ",")
	}
}

// exampleValue converts an example tag to the schema's JSON type
func exampleValue(schemaType any, tag string) any {
	switch schemaType {
	case "integer":
		if n, err := strconv.ParseInt(tag, 10, 64); err == nil {
			return n
		}
	case "number":
		if f, err := strconv.ParseFloat(tag, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(tag); err == nil {
			return b
		}
	}
	return tag
}

// basicTypeSchema creates a schema for a basic Go type
func basicTypeSchema(kind reflect.Kind) map[string]any {
	switch kind {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return map[string]any{"type": "integer"}
	case reflect.Int64, reflect.Uint64:
		return map[string]any{"type": "integer", "format": "int64"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.String:
		return map[string]any{"type": "string"}
	default:
		return nil
	}
}

// paramSchema describes a path parameter from an example value
func paramSchema(example any) map[string]any {
	if example == nil {
		return map[string]any{"type": "string"}
	}
	if schema := basicTypeSchema(reflect.TypeOf(example).Kind()); schema != nil {
		return schema
	}
	panic(fmt.Sprintf("router: unsupported path parameter type %T", example))
}
