package store

import (
	"fmt"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/jayteemoney/ticket/internal/internaltypes"
)

const photoSealName = "profile_image"

// PhotoSeal signs and encrypts a staged photo URL so it can ride along in a
// form field between requests without the client being able to change it.
type PhotoSeal struct {
	sc *securecookie.SecureCookie
}

func NewPhotoSeal(hashKey, blockKey []byte) *PhotoSeal {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int((24 * time.Hour).Seconds()))
	return &PhotoSeal{sc: sc}
}

func (p *PhotoSeal) Seal(url string) (string, error) {
	token, err := p.sc.Encode(photoSealName, url)
	if err != nil {
		return "", fmt.Errorf("seal photo: %w", err)
	}
	return token, nil
}

// Open returns the URL inside token. Tokens that were not produced by Seal with
// the same keys fail with an error wrapping internaltypes.ErrCorrupt.
func (p *PhotoSeal) Open(token string) (string, error) {
	var url string
	if err := p.sc.Decode(photoSealName, token, &url); err != nil {
		return "", fmt.Errorf("%w: photo token: %v", internaltypes.ErrCorrupt, err)
	}
	return url, nil
}
