package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const openAPIVersion = "3.0.3"

// OpenAPI generates an OpenAPI document for the registered routes
func (dr *DocRouter) OpenAPI() map[string]any {
	g := newSchemaGenerator()

	doc := map[string]any{
		"openapi": openAPIVersion,
		"info": map[string]any{
			"title":       dr.title,
			"description": dr.description,
			"version":     dr.version,
		},
		"paths": g.generatePaths(dr.routes),
		"components": map[string]any{
			"schemas": g.components,
		},
	}

	if len(dr.tags) > 0 {
		tags := make([]any, 0, len(dr.tags))
		for _, tag := range dr.tags {
			tags = append(tags, map[string]any{
				"name":        tag.Name,
				"description": tag.Description,
			})
		}
		doc["tags"] = tags
	}

	return doc
}

// OpenAPIJSON returns the indented JSON encoding of OpenAPI
func (dr *DocRouter) OpenAPIJSON() ([]byte, error) {
	data, err := json.MarshalIndent(dr.OpenAPI(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}
	return data, nil
}

// OpenAPIHandler serves the OpenAPI document as JSON
func (dr *DocRouter) OpenAPIHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := dr.OpenAPIJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
}

// extractPathParams gets path parameters from a URL path
func extractPathParams(path string) []string {
	var params []string

	for _, part := range strings.Split(path, "/") {
		if part == "{$}" {
			continue
		}
		if len(part) > 2 && part[0] == '{' && part[len(part)-1] == '}' {
			// {name...} wildcards are documented by their name
			params = append(params, strings.TrimSuffix(part[1:len(part)-1], "..."))
		}
	}

	return params
}

// docPath strips the {$} end anchor, which OpenAPI has no notation for
func docPath(path string) string {
	return strings.TrimSuffix(path, "{$}")
}

// operationID derives a stable identifier such as get_getTodos_id
func operationID(method, path string) string {
	clean := strings.NewReplacer("/", "_", "{", "", "}", "", "...", "").Replace(path)
	return strings.ToLower(method) + strings.TrimSuffix(clean, "_")
}

// generatePaths creates the paths section of the document
func (g *schemaGenerator) generatePaths(routes []RouteInfo) map[string]any {
	paths := map[string]any{}

	for _, route := range routes {
		path := docPath(route.Path)
		if _, exists := paths[path]; !exists {
			paths[path] = map[string]any{}
		}
		pathItem := paths[path].(map[string]any)
		method := strings.ToLower(route.Method)

		operation := map[string]any{
			"summary":     route.Name,
			"description": route.Description,
			"operationId": operationID(route.Method, path),
			"responses":   g.generateResponses(route),
		}

		if len(route.Tags) > 0 {
			operation["tags"] = route.Tags
		}

		if params := extractPathParams(path); len(params) > 0 {
			parameters := make([]any, 0, len(params))
			for _, param := range params {
				parameters = append(parameters, map[string]any{
					"name":        param,
					"in":          "path",
					"required":    true,
					"schema":      paramSchema(route.PathParams[param]),
					"description": fmt.Sprintf("%s parameter", param),
				})
			}
			operation["parameters"] = parameters
		}

		if route.RequestType != nil && (method == "post" || method == "put" || method == "patch") {
			operation["requestBody"] = map[string]any{
				"description": fmt.Sprintf("request body for %s", route.Name),
				"required":    true,
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": g.ref(route.RequestType),
					},
				},
			}
		}

		pathItem[method] = operation
	}

	return paths
}

// generateResponses creates response documentation
func (g *schemaGenerator) generateResponses(route RouteInfo) map[string]any {
	responses := map[string]any{}

	for code, resp := range route.Responses {
		content := map[string]any{}

		if resp.Schema != nil {
			content["schema"] = g.ref(resp.Schema)
		}

		if len(resp.Examples) > 0 {
			examples := map[string]any{}
			for _, example := range resp.Examples {
				examples[example.Name] = map[string]any{
					"value": exampleJSON(example.Value),
				}
			}
			content["examples"] = examples
		}

		response := map[string]any{
			"description": resp.Description,
		}
		if len(content) > 0 {
			response["content"] = map[string]any{
				"application/json": content,
			}
		}

		responses[statusKey(code)] = response
	}

	return responses
}

// exampleJSON decodes an example so it is embedded as JSON rather than as a
// string. Invalid JSON is kept verbatim.
func exampleJSON(value string) any {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		return value
	}
	return v
}
