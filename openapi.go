package pint

import (
	"maps"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// defaultTitle and defaultVersion fill the info section when the router
// was built without WithTitle/WithVersion.
const (
	defaultTitle   = "OpenApi Rest Documentation"
	defaultVersion = "1.0"
)

// Document is the top-level OpenAPI 3.0 document.
type Document struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       Info                `json:"info" yaml:"info"`
	Servers    []Server            `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components Components          `json:"components,omitempty" yaml:"components,omitempty"`
}

// Info holds API metadata.
type Info struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string   `json:"version" yaml:"version"`
	Contact     *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`
}

// Contact is the contact block of the info section.
type Contact struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Server describes a server the API is available on.
type Server struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Components maps component section names (schemas, requestBodies, ...) to
// named component objects. It is copied from the base schema document.
type Components map[string]map[string]any

// PathItem maps HTTP methods to operations.
type PathItem map[string]Operation

// Operation describes a single API operation on a path.
type Operation struct {
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	OperationID string              `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
	Deprecated  bool                `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	In          string `json:"in" yaml:"in"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Schema      any    `json:"schema" yaml:"schema"`
}

// RequestBody describes the request body.
type RequestBody struct {
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Content     map[string]Media `json:"content" yaml:"content"`
}

// Media is a media type object: "schema" plus any metadata declared on the
// expectation (example, examples, ...).
type Media map[string]any

// Response describes a single response.
type Response struct {
	Description string           `json:"description" yaml:"description"`
	Content     map[string]Media `json:"content,omitempty" yaml:"content,omitempty"`
	Headers     map[string]any   `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Spec generates the full OpenAPI 3.0 document from registered routes.
// Components are copied from the base schema document, so $ref objects
// emitted for reference validators resolve within the document. Schemas
// of validators created from inline fragments are published under
// components.schemas as well.
func (r *Router) Spec() Document {
	doc := Document{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       r.title,
			Description: r.description,
			Version:     r.version,
		},
		Servers: r.servers,
		Paths:   make(map[string]PathItem),
	}

	if doc.Info.Title == "" {
		doc.Info.Title = defaultTitle
	}
	if doc.Info.Version == "" {
		doc.Info.Version = defaultVersion
	}
	if r.contact != (Contact{}) {
		c := r.contact
		doc.Info.Contact = &c
	}

	if r.baseDoc != nil {
		doc.Components = r.baseDoc.Components()
	}

	r.vmu.Lock()
	inline := make(map[string]*Validator)
	for name, v := range r.validators {
		if !isRefSchema(v.doc) {
			inline[name] = v
		}
	}
	r.vmu.Unlock()

	if len(inline) > 0 {
		if doc.Components == nil {
			doc.Components = Components{}
		}
		// The schemas section aliases the base document; clone before
		// inserting inline entries.
		schemas := maps.Clone(doc.Components["schemas"])
		if schemas == nil {
			schemas = make(map[string]any, len(inline))
		}
		for name, v := range inline {
			if _, ok := schemas[name]; !ok {
				schemas[name] = v.Schema()
			}
		}
		doc.Components["schemas"] = schemas
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.routes {
		ri := &r.routes[i]
		path := toOpenAPIPath(ri.pattern)
		method := strings.ToLower(ri.method)

		op := buildOperation(ri)

		if doc.Paths[path] == nil {
			doc.Paths[path] = make(PathItem)
		}
		doc.Paths[path][method] = op
	}

	return doc
}

// buildOperation creates an Operation from a routeInfo.
func buildOperation(ri *routeInfo) Operation {
	op := Operation{
		Summary:     ri.summary,
		Description: ri.desc,
		Tags:        ri.tags,
		Deprecated:  ri.deprecated,
		OperationID: ri.operationID,
		Parameters:  buildParameters(ri),
		RequestBody: buildRequestBody(ri),
		Responses:   buildResponses(ri),
	}

	if op.OperationID == "" {
		op.OperationID = defaultOperationID(ri.method, ri.pattern)
	}

	return op
}

// buildParameters layers parameters from three sources: {name} segments
// in the route pattern, param-tagged fields on the request type, and the
// explicitly documented ones. Later sources replace earlier parameters
// with the same name and location.
func buildParameters(ri *routeInfo) []Parameter {
	params := pathParameters(ri.pattern)

	for _, p := range extractParameters(ri.reqType) {
		params = upsertParameter(params, p)
	}

	for _, p := range ri.params {
		param := Parameter{
			Name:        p.Name,
			In:          p.In,
			Description: p.Description,
			Required:    p.Required || p.In == "path",
			Deprecated:  p.Deprecated,
			Schema:      p.Schema,
		}
		if param.Schema == nil {
			param.Schema = map[string]any{"type": "string"}
		}
		params = upsertParameter(params, param)
	}

	return params
}

// upsertParameter replaces an existing parameter with the same name and
// location, or appends.
func upsertParameter(params []Parameter, p Parameter) []Parameter {
	for i, prev := range params {
		if prev.Name == p.Name && prev.In == p.In {
			params[i] = p
			return params
		}
	}
	return append(params, p)
}

// extractParameters builds parameters from param-tagged fields.
func extractParameters(t reflect.Type) []Parameter {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var params []Parameter
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		for _, tagName := range paramTags {
			val := f.Tag.Get(tagName)
			if val == "" {
				continue
			}

			p := Parameter{
				Name:        val,
				In:          tagName,
				Description: f.Tag.Get("doc"),
				Required:    tagName == "path",
				Schema:      typeToSchema(f.Type),
			}
			params = append(params, p)
		}
	}

	return params
}

// buildRequestBody prefers declared expectations; without any, it falls
// back to the schema derived from the request type's Body.
func buildRequestBody(ri *routeInfo) *RequestBody {
	if len(ri.expectations) > 0 {
		content := make(map[string]Media, len(ri.expectations))
		for _, exp := range ri.expectations {
			media := Media{}
			if exp.Validator != nil {
				media["schema"] = exp.Validator.DocSchema()
			}
			maps.Copy(media, exp.Doc)
			content[exp.ContentType] = media
		}
		return &RequestBody{Content: content}
	}

	if ri.reqType == nil || ri.reqType == reflect.TypeFor[Void]() {
		return nil
	}

	bodyType := requestBodyType(ri.reqType, ri.method)
	if bodyType == nil {
		return nil
	}

	schema := typeToSchema(bodyType)
	return &RequestBody{
		Required: true,
		Content: map[string]Media{
			ContentTypeJSON: {"schema": schema},
		},
	}
}

// requestBodyType returns the reflect type serving as the request body,
// or nil if the request has none.
func requestBodyType(t reflect.Type, method string) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	if bodyField, ok := t.FieldByName("Body"); ok {
		return bodyField.Type
	}

	// No param tags → entire struct is body (only for POST/PUT/PATCH).
	if !hasParamTags(t) && !hasRawRequest(t) &&
		(method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch) {
		return t
	}

	return nil
}

// buildResponses combines documented responses with the one derived from
// the response type. A documented response for the route's default status
// wins over the derived one.
func buildResponses(ri *routeInfo) map[string]Response {
	responses := make(map[string]Response)

	for _, rd := range ri.responses {
		resp := Response{
			Description: rd.Description,
			Headers:     rd.Headers,
		}
		if resp.Description == "" {
			resp.Description = "Success"
		}

		var schema any
		switch {
		case rd.Validator != nil:
			schema = rd.Validator.DocSchema()
		case rd.Schema != nil:
			schema = rd.Schema
		}
		if schema != nil {
			ct := rd.ContentType
			if ct == "" {
				ct = ContentTypeJSON
			}
			resp.Content = map[string]Media{ct: {"schema": schema}}
		}

		responses[statusToString(rd.Code)] = resp
	}

	status := ri.status
	if status == 0 {
		status = http.StatusOK
	}

	if _, ok := responses[statusToString(status)]; ok {
		return responses
	}

	switch {
	case ri.respType == nil:
		responses[statusToString(status)] = Response{Description: "Success"}

	case ri.respType == reflect.TypeFor[Void]():
		if status == http.StatusOK {
			status = http.StatusNoContent
		}
		responses[statusToString(status)] = Response{Description: "No content"}

	default:
		schema := typeToSchema(ri.respType)
		responses[statusToString(status)] = Response{
			Description: "Success",
			Content: map[string]Media{
				ContentTypeJSON: {"schema": schema},
			},
		}
	}

	return responses
}

// pathParameters extracts {name} segments from a Go 1.22 route pattern.
// Go patterns carry no type information, so path params document as strings.
func pathParameters(pattern string) []Parameter {
	var params []Parameter
	rest := pattern
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			return params
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return params
		}

		name := strings.TrimSuffix(rest[start+1:start+end], "...")
		if name != "" && name != "$" {
			params = append(params, Parameter{
				Name:     name,
				In:       "path",
				Required: true,
				Schema:   map[string]any{"type": "string"},
			})
		}
		rest = rest[start+end+1:]
	}
}

// defaultOperationID derives an operationId from the method and pattern,
// e.g. GET /users/{id} → get_users_id.
func defaultOperationID(method, pattern string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))

	for part := range strings.SplitSeq(pattern, "/") {
		part = strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}")
		part = strings.TrimSuffix(part, "...")
		if part == "" || part == "$" {
			continue
		}
		b.WriteByte('_')
		b.WriteString(part)
	}

	if b.Len() == len(strings.ToLower(method)) {
		b.WriteString("_root")
	}
	return b.String()
}

// toOpenAPIPath converts a Go 1.22 pattern like "/users/{id}" to
// an OpenAPI path. Strips wildcard suffixes.
func toOpenAPIPath(pattern string) string {
	// Go's mux patterns can include {name...} for wildcards.
	// OpenAPI uses {name} without the ellipsis.
	result := strings.ReplaceAll(pattern, "...", "")
	return strings.TrimSuffix(result, "{$}")
}

// statusToString converts an HTTP status code to its string representation.
func statusToString(code int) string {
	return strconv.Itoa(code)
}

// isRefSchema reports whether a doc schema is a bare $ref object, meaning
// its target already lives in the base document's components.
func isRefSchema(s any) bool {
	m, ok := s.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m["$ref"]
	return ok
}
