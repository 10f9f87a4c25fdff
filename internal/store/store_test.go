package store

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayteemoney/ticket/internal/draft"
	"github.com/jayteemoney/ticket/internal/internaltypes"
)

var (
	testHashKey  = []byte("0123456789abcdef0123456789abcdef")
	testBlockKey = []byte("fedcba9876543210fedcba9876543210")
)

func sample() draft.Draft {
	return draft.Draft{
		FullName:       "Ada Lovelace",
		Email:          "ada@example.com",
		TicketType:     draft.TicketVIP,
		TicketCount:    4,
		SpecialRequest: "wheelchair access",
		ProfileImage:   "https://img.example/ada.png",
	}
}

// carry copies the cookies set on rec onto a fresh request, like a browser would.
func carry(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		req.AddCookie(c)
	}
	return req
}

func TestCookieStoreRoundTrip(t *testing.T) {
	s := NewCookieStore(testHashKey, testBlockKey, false)
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), sample()))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotContains(t, cookies[0].Value, "Ada", "draft must not be readable in the cookie")

	got, err := s.Load(carry(rec))
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestCookieStoreMissing(t *testing.T) {
	s := NewCookieStore(testHashKey, testBlockKey, false)
	got, err := s.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, draft.Default(), got)
}

func TestCookieStoreCorrupt(t *testing.T) {
	s := NewCookieStore(testHashKey, testBlockKey, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-valid-cookie"})

	got, err := s.Load(req)
	assert.ErrorIs(t, err, internaltypes.ErrCorrupt)
	assert.Equal(t, draft.Default(), got)
}

func TestCookieStoreRejectsForeignKeys(t *testing.T) {
	rec := httptest.NewRecorder()
	other := NewCookieStore([]byte("another-hash-key-another-hash-ke"), testBlockKey, false)
	require.NoError(t, other.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), sample()))

	s := NewCookieStore(testHashKey, testBlockKey, false)
	_, err := s.Load(carry(rec))
	assert.ErrorIs(t, err, internaltypes.ErrCorrupt)
}

func TestCookieStoreTooLarge(t *testing.T) {
	s := NewCookieStore(testHashKey, testBlockKey, false)
	d := sample()
	d.SpecialRequest = strings.Repeat("x", 5000)
	err := s.Save(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), d)
	assert.Error(t, err)
}

func TestCookieStoreClear(t *testing.T) {
	s := NewCookieStore(testHashKey, testBlockKey, false)
	rec := httptest.NewRecorder()
	require.NoError(t, s.Clear(rec, httptest.NewRequest(http.MethodPost, "/", nil)))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestCookieSecureFlag(t *testing.T) {
	s := NewCookieStore(testHashKey, testBlockKey, true)
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), sample()))
	assert.True(t, rec.Result().Cookies()[0].Secure)
}

func TestVisitorStoreRoundTrip(t *testing.T) {
	mem := NewMemory()
	v := NewVisitorStore(testHashKey, testBlockKey, mem, false)
	v.newID = func() string { return "visitor-1" }

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, v.Save(rec, req, sample()))
	require.NoError(t, v.Save(rec, req, sample()), "second save in the same request")
	assert.Equal(t, 1, mem.Len())

	next := carry(rec)
	id, ok := v.VisitorID(next)
	require.True(t, ok)
	assert.Equal(t, "visitor-1", id)

	got, err := v.Load(next)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestVisitorStoreUnknownVisitor(t *testing.T) {
	v := NewVisitorStore(testHashKey, testBlockKey, NewMemory(), false)

	got, err := v.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, draft.Default(), got)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: "tampered"})
	got, err = v.Load(req)
	require.NoError(t, err)
	assert.Equal(t, draft.Default(), got)
}

func TestVisitorStoreExpiredDraft(t *testing.T) {
	mem := NewMemory()
	v := NewVisitorStore(testHashKey, testBlockKey, mem, false)
	rec := httptest.NewRecorder()
	require.NoError(t, v.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), sample()))

	next := carry(rec)
	id, _ := v.VisitorID(next)
	require.NoError(t, mem.Delete(next.Context(), id))

	got, err := v.Load(next)
	require.NoError(t, err)
	assert.Equal(t, draft.Default(), got)
}

func TestVisitorStoreClear(t *testing.T) {
	mem := NewMemory()
	v := NewVisitorStore(testHashKey, testBlockKey, mem, false)
	rec := httptest.NewRecorder()
	require.NoError(t, v.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), sample()))

	clearRec := httptest.NewRecorder()
	require.NoError(t, v.Clear(clearRec, carry(rec)))
	assert.Equal(t, 0, mem.Len())
	assert.Equal(t, -1, clearRec.Result().Cookies()[0].MaxAge)
}

func TestVisitorStoreSaveAfterClearMintsNewID(t *testing.T) {
	mem := NewMemory()
	v := NewVisitorStore(testHashKey, testBlockKey, mem, false)
	ids := []string{"visitor-1", "visitor-2"}
	v.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	rec := httptest.NewRecorder()
	require.NoError(t, v.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), sample()))

	req := carry(rec)
	req.AddCookie(&http.Cookie{Name: "other", Value: "kept"})
	rec = httptest.NewRecorder()
	require.NoError(t, v.Clear(rec, req))
	_, ok := v.VisitorID(req)
	assert.False(t, ok, "cleared id must not be reused in the same request")

	require.NoError(t, v.Save(rec, req, draft.Default()))
	c, err := req.Cookie("other")
	require.NoError(t, err)
	assert.Equal(t, "kept", c.Value)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Equal(t, VisitorCookieName, cookies[1].Name)
	assert.Positive(t, cookies[1].MaxAge)

	next := carry(rec)
	id, ok := v.VisitorID(next)
	require.True(t, ok)
	assert.Equal(t, "visitor-2", id)
	got, err := v.Load(next)
	require.NoError(t, err)
	assert.Equal(t, draft.Default(), got)
	assert.Equal(t, 1, mem.Len())
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	_, err := m.Load(ctx, "nobody")
	assert.ErrorIs(t, err, internaltypes.ErrNotFound)

	require.NoError(t, m.Save(ctx, "a", sample()))
	got, err := m.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, sample(), got)

	require.NoError(t, m.Delete(ctx, "a"))
	assert.ErrorIs(t, m.Delete(ctx, "a"), internaltypes.ErrNotFound)

	m.drafts["bad"] = []byte("{")
	got, err = m.Load(ctx, "bad")
	assert.ErrorIs(t, err, internaltypes.ErrCorrupt)
	assert.Equal(t, draft.Default(), got)
}
