package pint

import (
	"encoding/json"
	"net/http"
)

// CookieSetter is optionally implemented by response types to set cookies.
type CookieSetter interface {
	Cookies() []*http.Cookie
}

// HeaderSetter is optionally implemented by response types to set response headers.
type HeaderSetter interface {
	SetHeaders(h http.Header)
}

// Redirect is returned from a handler to issue an HTTP redirect.
type Redirect struct {
	URL    string
	Status int
}

// encodeResponse writes the response to the http.ResponseWriter.
// It handles Redirect, CookieSetter, HeaderSetter, StatusCoder, and
// negotiated encoding.
func encodeResponse(w http.ResponseWriter, r *http.Request, resp any, defaultStatus int, codecs *codecRegistry) {
	// Redirect response.
	if rd, ok := resp.(*Redirect); ok {
		status := rd.Status
		if status == 0 {
			status = http.StatusFound
		}
		http.Redirect(w, r, rd.URL, status)
		return
	}

	// Apply cookies and headers before writing status.
	if cs, ok := resp.(CookieSetter); ok {
		for _, c := range cs.Cookies() {
			http.SetCookie(w, c)
		}
	}
	if hs, ok := resp.(HeaderSetter); ok {
		hs.SetHeaders(w.Header())
	}

	status := defaultStatus

	// Let the response override the status dynamically.
	if sc, ok := resp.(StatusCoder); ok {
		status = sc.StatusCode()
	}

	// Negotiate response encoder from Accept header.
	enc, ok := codecs.negotiate(r.Header.Get("Accept"))
	if !ok {
		enc = codecs.encoders[0]
	}

	w.Header().Set("Content-Type", enc.ContentType())
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	enc.Encode(w, resp)
}

// writeErrorResponse writes an error as a structured JSON ErrorResponse.
// Validation failures carry one entry per schema violation.
func writeErrorResponse(w http.ResponseWriter, _ *http.Request, err error) {
	status := ErrorStatus(err)

	payload := &ErrorResponse{
		Message: err.Error(),
		Errors:  errorDetails(err),
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(payload)
}
