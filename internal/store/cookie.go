package store

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"

	"github.com/jayteemoney/ticket/internal/draft"
	"github.com/jayteemoney/ticket/internal/internaltypes"
)

// CookieName is the cookie holding the visitor's draft.
const CookieName = "ticketForm"

// CookieStore keeps the whole draft, JSON encoded, signed and encrypted, in a
// cookie. Drafts larger than securecookie's 4096 byte limit fail to save.
type CookieStore struct {
	sc     *securecookie.SecureCookie
	secure bool
}

func NewCookieStore(hashKey, blockKey []byte, secure bool) *CookieStore {
	sc := securecookie.New(hashKey, blockKey)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(int(cookieMaxAge.Seconds()))
	return &CookieStore{sc: sc, secure: secure}
}

func (s *CookieStore) Load(r *http.Request) (draft.Draft, error) {
	c, err := r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return draft.Default(), nil
	}
	if err != nil {
		return draft.Default(), err
	}
	var d draft.Draft
	if err := s.sc.Decode(CookieName, c.Value, &d); err != nil {
		return draft.Default(), fmt.Errorf("%w: %v", internaltypes.ErrCorrupt, err)
	}
	return d, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, d draft.Draft) error {
	encoded, err := s.sc.Encode(CookieName, d)
	if err != nil {
		return fmt.Errorf("encode draft cookie: %w", err)
	}
	setCookie(w, r, CookieName, encoded, s.secure)
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	expireCookie(w, CookieName)
	return nil
}
