// Package store persists the Reservation Draft between requests.
//
// The default backend keeps the draft with the visitor in an encrypted cookie.
// Keyed backends (memory, postgres, redis) keep it on the server and hand the
// visitor an opaque id instead.
package store

import (
	"context"
	"net/http"
	"time"

	"github.com/jayteemoney/ticket/internal/draft"
)

// Persister loads and saves the draft belonging to the visitor making a request.
//
// Load returns draft.Default() when the visitor has no draft. When stored
// content cannot be decoded it also returns draft.Default(), together with an
// error wrapping internaltypes.ErrCorrupt.
type Persister interface {
	Load(r *http.Request) (draft.Draft, error)
	Save(w http.ResponseWriter, r *http.Request, d draft.Draft) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Store is a server-side draft backend keyed by visitor id. Missing drafts are
// reported as internaltypes.ErrNotFound.
type Store interface {
	Load(ctx context.Context, id string) (draft.Draft, error)
	Save(ctx context.Context, id string, d draft.Draft) error
	Delete(ctx context.Context, id string) error
}

// Pruner is implemented by backends that need stale drafts removed on a schedule.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

const cookieMaxAge = 365 * 24 * time.Hour

func setCookie(w http.ResponseWriter, r *http.Request, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure || r.TLS != nil,
		MaxAge:   int(cookieMaxAge.Seconds()),
	})
}

func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// dropRequestCookie removes name from the cookies carried by r.
func dropRequestCookie(r *http.Request, name string) {
	kept := r.Cookies()
	r.Header.Del("Cookie")
	for _, c := range kept {
		if c.Name != name {
			r.AddCookie(c)
		}
	}
}
