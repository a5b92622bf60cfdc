// Command pintd demonstrates the github.com/pintkit/pint framework:
// JSON Schema request validation wired into routing, with the
// OpenAPI 3.0 document generated from the same schemas.
//
// Run:
//
//	go run ./cmd/pintd
//
// Generate the OpenAPI spec:
//
//	go run ./cmd/pintd -spec                       — print to stdout
//	go run ./cmd/pintd -spec -o openapi.json       — write to file
//	go run ./cmd/pintd -spec -yaml                 — print YAML instead
//
// Then explore:
//
//	GET  http://localhost:8080/openapi.json        — OpenAPI spec
//	GET  http://localhost:8080/docs                — interactive docs
//	GET  http://localhost:8080/v1/health           — health check
//	GET  http://localhost:8080/v1/notes            — list notes
//	POST http://localhost:8080/v1/notes            — create note (validated)
//	GET  http://localhost:8080/v1/notes/{id}       — get note
//	PUT  http://localhost:8080/v1/notes/{id}       — update note (validated)
//	DELETE http://localhost:8080/v1/notes/{id}     — delete note
//	POST http://localhost:8080/v1/import           — bulk import (validated)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/pintkit/pint"
)

func main() {
	specFlag := flag.Bool("spec", false, "Print the OpenAPI spec to stdout and exit")
	yamlFlag := flag.Bool("yaml", false, "Emit the spec as YAML (requires -spec)")
	outFlag := flag.String("o", "", "Output file for the spec (requires -spec)")
	flag.Parse()

	r, err := newRouter()
	if err != nil {
		slog.Error("router setup failed", "err", err)
		os.Exit(1)
	}

	if *specFlag {
		if err := writeSpec(r, *outFlag, *yamlFlag); err != nil {
			slog.Error("spec generation failed", "err", err)
			os.Exit(1)
		}
		return
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting server", "addr", ":8080", "spec", "http://localhost:8080/openapi.json")

	if err := r.ListenAndServe(ctx, ":8080"); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
	}

	slog.Info("server stopped")
}

// baseSchema holds the reusable component schemas. In a real deployment
// this would typically live in a schema.json file next to the binary and
// be loaded with pint.LoadSchemaFile.
const baseSchema = `{
  "components": {
    "schemas": {
      "Note": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string", "minLength": 1, "description": "Note title"},
          "body": {"type": "string", "description": "Note body text"},
          "tags": {"type": "array", "items": {"type": "string"}},
          "pinned": {"type": "boolean", "default": false}
        },
        "additionalProperties": false
      },
      "NoteImport": {
        "type": "object",
        "required": ["notes"],
        "properties": {
          "notes": {
            "type": "array",
            "minItems": 1,
            "items": {"$ref": "#/components/schemas/Note"}
          }
        }
      }
    }
  }
}`

func newRouter() (*pint.Router, error) {
	doc, err := pint.ParseSchema([]byte(baseSchema))
	if err != nil {
		return nil, err
	}

	r := pint.New(
		pint.WithTitle("Notes API"),
		pint.WithVersion("1.0.0"),
		pint.WithAPIDescription("A small note-taking API demonstrating schema-validated requests."),
		pint.WithContact("API Team", "https://example.com", "api@example.com"),
		pint.WithBaseSchema(doc),
	)

	// Global middleware.
	r.Use(pint.Recovery())
	r.Use(pint.RequestID())
	r.Use(pint.Logger(slog.Default()))
	r.Use(pint.CORS())

	// Validators backed by the base schema components.
	noteValidator, err := r.CreateRefValidator("Note")
	if err != nil {
		return nil, err
	}
	importValidator, err := r.CreateRefValidator("NoteImport")
	if err != nil {
		return nil, err
	}

	// An ad-hoc inline validator, referencing the base schema by pointer.
	patchValidator, err := r.CreateValidator("NotePatch", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":  map[string]any{"type": "string", "minLength": 1},
			"body":   map[string]any{"type": "string"},
			"pinned": map[string]any{"type": "boolean"},
		},
		"additionalProperties": false,
	})
	if err != nil {
		return nil, err
	}

	r.ServeSpec("/openapi.json")
	r.ServeSpecYAML("/openapi.yaml")
	r.ServeDocs("/docs", pint.WithDocsTitle("Notes API Docs"))

	v1 := r.Group("/v1", pint.WithGroupTags("v1"))

	pint.Get(v1, "/health", handleHealth,
		pint.WithSummary("Health check"),
		pint.WithTags("ops"),
	)

	pint.Get(v1, "/notes", handleListNotes,
		pint.WithSummary("List notes"),
		pint.WithDescription("Returns all notes, optionally filtered by tag."),
		pint.WithTags("notes"),
	)
	pint.Post(v1, "/notes", handleCreateNote,
		pint.WithStatus(http.StatusCreated),
		pint.WithSummary("Create note"),
		pint.WithTags("notes"),
		pint.ExpectJSON(noteValidator),
	)
	pint.Get(v1, "/notes/{id}", handleGetNote,
		pint.WithSummary("Get note by ID"),
		pint.WithTags("notes"),
	)
	pint.Put(v1, "/notes/{id}", handleUpdateNote,
		pint.WithSummary("Update note"),
		pint.WithTags("notes"),
		pint.ExpectJSON(patchValidator),
	)
	pint.Delete(v1, "/notes/{id}", handleDeleteNote,
		pint.WithSummary("Delete note"),
		pint.WithTags("notes"),
	)

	pint.Post(v1, "/import", handleImport,
		pint.WithStatus(http.StatusAccepted),
		pint.WithSummary("Bulk import notes"),
		pint.WithDescription("Accepts a batch of notes in one request."),
		pint.WithTags("notes"),
		pint.Expect(pint.Expectation{Validator: importValidator}),
		pint.WithBodyLimit(1<<20),
	)

	return r, nil
}

func writeSpec(r *pint.Router, outFile string, asYAML bool) error {
	w := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile) //nolint:gosec // user-provided CLI flag
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				slog.Error("failed to close output file", "err", err)
			}
		}()
		w = f
	}
	if asYAML {
		return r.WriteSpecYAML(w)
	}
	return r.WriteSpec(w)
}

// ---------------------------------------------------------------------------
// In-memory store
// ---------------------------------------------------------------------------

var store = &noteStore{
	notes: map[string]*Note{
		"1": {ID: "1", Title: "Welcome", Body: "Try POST /v1/notes with a JSON body.", CreatedAt: time.Now()},
	},
	nextID: 2,
}

type noteStore struct {
	mu     sync.RWMutex
	notes  map[string]*Note
	nextID int
}

func (s *noteStore) list(tag string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		if tag != "" && !hasTag(n.Tags, tag) {
			continue
		}
		out = append(out, *n)
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (s *noteStore) get(id string) (*Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok {
		return nil, false
	}
	cp := *n
	return &cp, true
}

func (s *noteStore) create(title, body string, tags []string, pinned bool) *Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(title, body, tags, pinned)
}

func (s *noteStore) createLocked(title, body string, tags []string, pinned bool) *Note {
	n := &Note{
		ID:        fmt.Sprintf("%d", s.nextID),
		Title:     title,
		Body:      body,
		Tags:      tags,
		Pinned:    pinned,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.notes[n.ID] = n
	cp := *n
	return &cp
}

func (s *noteStore) update(id, title, body string, pinned *bool) (*Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return nil, false
	}
	if title != "" {
		n.Title = title
	}
	if body != "" {
		n.Body = body
	}
	if pinned != nil {
		n.Pinned = *pinned
	}
	cp := *n
	return &cp, true
}

func (s *noteStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return false
	}
	delete(s.notes, id)
	return true
}

// ---------------------------------------------------------------------------
// Domain types
// ---------------------------------------------------------------------------

// Note is the core domain entity.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
}

// ---------------------------------------------------------------------------
// Request / Response types
// ---------------------------------------------------------------------------

type HealthResp struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type ListNotesReq struct {
	Tag string `query:"tag" doc:"Filter by tag" default:""`
}

type ListNotesResp struct {
	Notes []Note `json:"notes"`
	Total int    `json:"total"`
}

type CreateNoteReq struct {
	Body struct {
		Title  string   `json:"title"`
		Body   string   `json:"body"`
		Tags   []string `json:"tags"`
		Pinned bool     `json:"pinned"`
	}
}

type NoteByIDReq struct {
	ID string `path:"id" doc:"Note ID"`
}

type UpdateNoteReq struct {
	ID   string `path:"id" doc:"Note ID"`
	Body struct {
		Title  string `json:"title"`
		Body   string `json:"body"`
		Pinned *bool  `json:"pinned"`
	}
}

type ImportReq struct {
	Body struct {
		Notes []struct {
			Title  string   `json:"title"`
			Body   string   `json:"body"`
			Tags   []string `json:"tags"`
			Pinned bool     `json:"pinned"`
		} `json:"notes"`
	}
}

type ImportResp struct {
	Imported int `json:"imported"`
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func handleHealth(_ context.Context, _ *pint.Void) (*HealthResp, error) {
	return &HealthResp{Status: "ok", Time: time.Now()}, nil
}

func handleListNotes(_ context.Context, req *ListNotesReq) (*ListNotesResp, error) {
	notes := store.list(req.Tag)
	return &ListNotesResp{Notes: notes, Total: len(notes)}, nil
}

func handleCreateNote(_ context.Context, req *CreateNoteReq) (*Note, error) {
	// The request body has already passed schema validation, so title
	// is guaranteed present and non-empty here.
	return store.create(req.Body.Title, req.Body.Body, req.Body.Tags, req.Body.Pinned), nil
}

func handleGetNote(_ context.Context, req *NoteByIDReq) (*Note, error) {
	n, ok := store.get(req.ID)
	if !ok {
		return nil, pint.Errorf(http.StatusNotFound, "note %s not found", req.ID)
	}
	return n, nil
}

func handleUpdateNote(_ context.Context, req *UpdateNoteReq) (*Note, error) {
	n, ok := store.update(req.ID, req.Body.Title, req.Body.Body, req.Body.Pinned)
	if !ok {
		return nil, pint.Errorf(http.StatusNotFound, "note %s not found", req.ID)
	}
	return n, nil
}

func handleDeleteNote(_ context.Context, req *NoteByIDReq) (*pint.Void, error) {
	if !store.delete(req.ID) {
		return nil, pint.Errorf(http.StatusNotFound, "note %s not found", req.ID)
	}
	return &pint.Void{}, nil
}

func handleImport(_ context.Context, req *ImportReq) (*ImportResp, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, n := range req.Body.Notes {
		store.createLocked(n.Title, n.Body, n.Tags, n.Pinned)
	}
	return &ImportResp{Imported: len(req.Body.Notes)}, nil
}
