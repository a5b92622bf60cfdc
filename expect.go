package pint

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
)

// ContentTypeJSON is the default expectation content type.
const ContentTypeJSON = "application/json"

// Expectation declares one acceptable request body for a route: the
// validator to run, the content type it applies to, and optional media
// type metadata (example, examples, ...) for the OpenAPI document.
type Expectation struct {
	Validator   *Validator
	ContentType string         // defaults to application/json
	Doc         map[string]any // extra media type object properties
}

// Expect declares one or more expected request bodies for a route.
// Repeated Expect options accumulate; declaring the same content type
// again replaces the earlier expectation.
func Expect(exps ...Expectation) RouteOption {
	return func(ri *routeInfo) {
		for _, exp := range exps {
			ri.addExpectation(normalizeExpectation(exp))
		}
	}
}

// ExpectJSON declares an application/json request body checked by v.
func ExpectJSON(v *Validator) RouteOption {
	return Expect(Expectation{Validator: v})
}

// WithoutValidation documents the route's expectations without enforcing
// them at request time.
func WithoutValidation() RouteOption {
	return func(ri *routeInfo) {
		ri.noValidate = true
	}
}

func normalizeExpectation(exp Expectation) Expectation {
	if exp.ContentType == "" {
		exp.ContentType = ContentTypeJSON
	}
	return exp
}

// addExpectation appends an expectation, replacing any earlier one for the
// same content type in place so declaration order is preserved.
func (ri *routeInfo) addExpectation(exp Expectation) {
	for i, prev := range ri.expectations {
		if prev.ContentType == exp.ContentType {
			ri.expectations[i] = exp
			return
		}
	}
	ri.expectations = append(ri.expectations, exp)
}

// isJSONMedia reports whether a media type carries JSON: application/json
// itself or any +json structured suffix.
func isJSONMedia(mediaType string) bool {
	return mediaType == ContentTypeJSON || strings.HasSuffix(mediaType, "+json")
}

// validationGate wraps a route handler with expectation enforcement. It
// runs once per request, before param binding and body decoding:
//
//  1. the request's media type selects an expectation by exact match
//     (415 when none matches),
//  2. for JSON expectations the buffered body is parsed (400 on parse
//     failure) and checked against the validator (400 with violation
//     paths on mismatch),
//  3. for non-JSON expectations only the content type is checked; body
//     bytes are not inspected.
//
// On success the body is restored and the handler proceeds; the handler
// re-reads the body itself, so gate and handler share no parsed state.
func validationGate(expectations []Expectation, next http.Handler, writeErr errorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exp, err := matchExpectation(expectations, r.Header.Get("Content-Type"))
		if err != nil {
			writeErr(w, r, err)
			return
		}

		if !isJSONMedia(exp.ContentType) || exp.Validator == nil {
			// Content type match is the whole contract for non-JSON
			// bodies and for expectations declared without a schema;
			// the handler owns the bytes.
			next.ServeHTTP(w, r)
			return
		}

		body, err := bufferBody(r)
		if err != nil {
			writeErr(w, r, Error(http.StatusBadRequest, err.Error()))
			return
		}

		var value any
		if err := json.Unmarshal(body, &value); err != nil {
			writeErr(w, r, &MalformedJSONError{Err: err})
			return
		}

		if err := exp.Validator.Validate(value); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) && len(ve.Violations) > 0 {
				v := ve.Violations[0]
				slog.Error("request body validation failed",
					"method", r.Method,
					"path", r.URL.Path,
					"schema", exp.Validator.Name(),
					"pointer", v.Path,
					"msg", v.Message,
				)
			}
			writeErr(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// matchExpectation selects the expectation whose content type exactly
// matches the request's media type. A missing Content-Type header counts
// as application/json when a JSON expectation is declared.
func matchExpectation(expectations []Expectation, contentType string) (Expectation, error) {
	mediaType := ""
	if contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			mediaType = parsed
		} else {
			mediaType = contentType
		}
	}
	if mediaType == "" {
		mediaType = ContentTypeJSON
	}

	for _, exp := range expectations {
		if exp.ContentType == mediaType {
			return exp, nil
		}
	}

	accepted := make([]string, len(expectations))
	for i, exp := range expectations {
		accepted[i] = exp.ContentType
	}
	return Expectation{}, &UnsupportedMediaTypeError{ContentType: contentType, Accepted: accepted}
}

// bufferBody reads the remaining request body and replaces it with a
// rewound copy, so the wrapped handler can re-read it.
func bufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
