// package router provides a router wrapper that captures documentation data
package router

import (
	"net/http"
	"strconv"
)

// Middleware wraps a handler
type Middleware func(http.Handler) http.Handler

// RouteResponse represents a documented response for a specific HTTP status code
type RouteResponse struct {
	StatusCode  int       // HTTP status code (e.g., 200, 404)
	Description string    // Description of the response
	Schema      any       // Response schema/type (optional)
	Examples    []Example // Example responses (optional)
}

// Example represents an example response for documentation
type Example struct {
	Name  string // Name of the example, unique per response
	Value string // Example value as a JSON string
}

// RouteInfo stores documentation for a route
type RouteInfo struct {
	Method      string                // HTTP method (GET, POST, etc.)
	Path        string                // URL path, with {param} placeholders
	Name        string                // Friendly name for the endpoint
	Description string                // Description of what the endpoint does
	RequestType any                   // Example request type (for schema generation)
	PathParams  map[string]any        // Path parameter name to example type
	Responses   map[int]RouteResponse // Documented responses by status code
	Tags        []string              // Tags for grouping endpoints
}

// Pattern returns the ServeMux pattern of the route
func (ri RouteInfo) Pattern() string {
	return ri.Method + " " + ri.Path
}

// RouteConfig is a builder for route configuration
type RouteConfig struct {
	router  *DocRouter
	handler http.Handler
	info    RouteInfo
}

// DocRouter wraps http.ServeMux to add documentation capabilities
type DocRouter struct {
	title       string
	description string
	version     string

	mux         *http.ServeMux
	handler     http.Handler
	middlewares []Middleware
	routes      []RouteInfo
	tags        []Tag
}

// Tag describes a group of operations in the generated document
type Tag struct {
	Name        string
	Description string
}

// NewDocRouter creates a new documented router
func NewDocRouter(title, description, version string) *DocRouter {
	mux := http.NewServeMux()
	return &DocRouter{
		title:       title,
		description: description,
		version:     version,
		mux:         mux,
		handler:     mux,
	}
}

// WithTag documents a tag used by routes
func (dr *DocRouter) WithTag(name, description string) *DocRouter {
	dr.tags = append(dr.tags, Tag{Name: name, Description: description})
	return dr
}

// Route starts a route configuration chain
func (dr *DocRouter) Route(method, path string, handler http.HandlerFunc) *RouteConfig {
	return &RouteConfig{
		router:  dr,
		handler: handler,
		info: RouteInfo{
			Method:     method,
			Path:       path,
			PathParams: map[string]any{},
			Responses:  map[int]RouteResponse{},
		},
	}
}

// WithName adds a name to the route
func (rc *RouteConfig) WithName(name string) *RouteConfig {
	rc.info.Name = name
	return rc
}

// WithDescription adds a description to the route
func (rc *RouteConfig) WithDescription(description string) *RouteConfig {
	rc.info.Description = description
	return rc
}

// WithRequest adds a request type to the route
func (rc *RouteConfig) WithRequest(requestType any) *RouteConfig {
	rc.info.RequestType = requestType
	return rc
}

// WithPathParam documents the type of a {name} path segment.
// Undocumented path parameters are described as strings.
func (rc *RouteConfig) WithPathParam(name string, example any) *RouteConfig {
	rc.info.PathParams[name] = example
	return rc
}

// WithResponse documents the success response of the route
func (rc *RouteConfig) WithResponse(statusCode int, description string, schema any, examples ...Example) *RouteConfig {
	rc.info.Responses[statusCode] = RouteResponse{
		StatusCode:  statusCode,
		Description: description,
		Schema:      schema,
		Examples:    examples,
	}
	return rc
}

// WithErrorResponse adds an error response to the route
func (rc *RouteConfig) WithErrorResponse(statusCode int, description string, schema any, examples ...Example) *RouteConfig {
	return rc.WithResponse(statusCode, description, schema, examples...)
}

// WithTags adds tags to the route
func (rc *RouteConfig) WithTags(tags ...string) *RouteConfig {
	rc.info.Tags = tags
	return rc
}

// Register finalizes the route configuration and registers it with the router
func (rc *RouteConfig) Register() {
	if len(rc.info.Responses) == 0 {
		rc.info.Responses[http.StatusOK] = RouteResponse{
			StatusCode:  http.StatusOK,
			Description: "successful operation",
		}
	}

	rc.router.mux.Handle(rc.info.Pattern(), rc.handler)
	rc.router.routes = append(rc.router.routes, rc.info)
}

// Handle registers an undocumented handler, such as a metrics endpoint
func (dr *DocRouter) Handle(pattern string, handler http.Handler) {
	dr.mux.Handle(pattern, handler)
}

// GetRoutes returns all documented routes
func (dr *DocRouter) GetRoutes() []RouteInfo {
	return dr.routes
}

// Use appends middlewares around the whole router. The first middleware
// added is the outermost one. The mux sets r.Pattern on the request it
// receives, so a middleware whose request reaches the mux unchanged can
// read it after calling next.
func (dr *DocRouter) Use(middleware ...Middleware) {
	dr.middlewares = append(dr.middlewares, middleware...)

	var handler http.Handler = dr.mux
	for i := len(dr.middlewares) - 1; i >= 0; i-- {
		handler = dr.middlewares[i](handler)
	}
	dr.handler = handler
}

// ServeHTTP makes DocRouter implement the http.Handler interface
func (dr *DocRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dr.handler.ServeHTTP(w, r)
}

func statusKey(code int) string {
	return strconv.Itoa(code)
}
