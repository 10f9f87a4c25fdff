package store

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/jayteemoney/ticket/internal/draft"
	"github.com/jayteemoney/ticket/internal/internaltypes"
)

const VisitorCookieName = "ticketwiz_visitor"

// VisitorStore adapts a keyed Store to a Persister. The visitor is identified by
// a signed cookie holding a random id, minted on the first save.
type VisitorStore struct {
	sc      *securecookie.SecureCookie
	backend Store
	secure  bool
	newID   func() string
}

func NewVisitorStore(hashKey, blockKey []byte, backend Store, secure bool) *VisitorStore {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(cookieMaxAge.Seconds()))
	return &VisitorStore{sc: sc, backend: backend, secure: secure, newID: uuid.NewString}
}

// VisitorID reports the id carried by the request, if any.
func (v *VisitorStore) VisitorID(r *http.Request) (string, bool) {
	c, err := r.Cookie(VisitorCookieName)
	if err != nil {
		return "", false
	}
	var id string
	if err := v.sc.Decode(VisitorCookieName, c.Value, &id); err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (v *VisitorStore) Load(r *http.Request) (draft.Draft, error) {
	id, ok := v.VisitorID(r)
	if !ok {
		return draft.Default(), nil
	}
	d, err := v.backend.Load(r.Context(), id)
	switch {
	case err == nil:
		return d, nil
	case errors.Is(err, internaltypes.ErrNotFound):
		return draft.Default(), nil
	default:
		return draft.Default(), err
	}
}

func (v *VisitorStore) Save(w http.ResponseWriter, r *http.Request, d draft.Draft) error {
	id, ok := v.VisitorID(r)
	if !ok {
		id = v.newID()
		encoded, err := v.sc.Encode(VisitorCookieName, id)
		if err != nil {
			return fmt.Errorf("encode visitor cookie: %w", err)
		}
		setCookie(w, r, VisitorCookieName, encoded, v.secure)
		// later saves in the same request must reuse this id
		r.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: encoded})
	}
	return v.backend.Save(r.Context(), id, d)
}

func (v *VisitorStore) Clear(w http.ResponseWriter, r *http.Request) error {
	id, ok := v.VisitorID(r)
	if !ok {
		return nil
	}
	expireCookie(w, VisitorCookieName)
	// a save later in this request must mint a new id instead of reviving this one
	dropRequestCookie(r, VisitorCookieName)
	if err := v.backend.Delete(r.Context(), id); err != nil && !errors.Is(err, internaltypes.ErrNotFound) {
		return err
	}
	return nil
}
