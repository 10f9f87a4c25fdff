package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/jayteemoney/ticket/internal/draft"
	"github.com/jayteemoney/ticket/internal/internaltypes"
	"github.com/jayteemoney/ticket/internal/store"
	"github.com/jayteemoney/ticket/internal/upload"
	"github.com/jayteemoney/ticket/internal/wizard"
)

//go:embed templates/*.html static/*
var fs embed.FS

// formOverhead is the room left for text fields on top of the photo itself.
const formOverhead = 1 << 20

type Server struct {
	Drafts   store.Persister
	Uploader upload.Uploader
	// Photos seals the staged photo URL carried by the details form. Without it
	// a photo is only kept once committed.
	Photos *store.PhotoSeal

	MaxUploadBytes int64
}

type tierView struct {
	Type     draft.TicketType
	Price    string
	Selected bool
}

type tmplData struct {
	Title  string
	Step   wizard.Step
	Event  draft.Event
	Notice string

	// selection
	Tiers      []tierView
	Counts     []int
	Selected   draft.TicketType
	Count      int
	CanAdvance bool

	// details
	Details    *wizard.Details
	Errors     wizard.FieldErrors
	PhotoToken string

	// confirmation
	Summary wizard.Summary
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.FileServer(http.FS(fs)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /{$}", s.handleSelection)
	mux.HandleFunc("POST /{$}", s.handleSelectionPost)
	mux.HandleFunc("GET /details", s.handleDetails)
	mux.HandleFunc("POST /details", s.handleDetailsPost)
	mux.HandleFunc("GET /confirmation", s.handleConfirmation)

	return logging(mux)
}

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// flow loads the visitor's draft and wires persistence into every commit.
// Unreadable stored drafts are logged, cleared and replaced by the default draft.
func (s *Server) flow(w http.ResponseWriter, r *http.Request) (*wizard.Flow, error) {
	d, err := s.Drafts.Load(r)
	if err != nil {
		if !errors.Is(err, internaltypes.ErrCorrupt) {
			return nil, err
		}
		log.Printf("draft: %v; starting from defaults", err)
		if err := s.Drafts.Clear(w, r); err != nil {
			log.Printf("draft: clear unreadable draft: %v", err)
		}
	}
	f := wizard.NewFlow(d)
	f.Subscribe(func(d draft.Draft) error {
		return s.Drafts.Save(w, r, d)
	})
	return f, nil
}

func writeErr(w http.ResponseWriter, err error, code int) {
	if code >= http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	http.Error(w, err.Error(), code)
}

func (s *Server) render(w http.ResponseWriter, name string, code int, data tmplData) {
	t, err := template.ParseFS(fs,
		"templates/base.html",
		name,
	)
	if err != nil {
		writeErr(w, err, http.StatusInternalServerError)
		return
	}
	data.Event = draft.Techember
	if data.Title == "" {
		data.Title = data.Step.Title()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
