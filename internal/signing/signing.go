package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidSignature is returned for tampered, expired or future-dated links
var ErrInvalidSignature = errors.New("invalid signature")

// Signature authorizes a one-click action on a listing
type Signature struct {
	Nonce string `json:"nonce"`
	TS    int64  `json:"ts"` // unix milliseconds at signing
	Sig   string `json:"sig"`
}

// Signer produces and checks HMAC-SHA256 signatures over "<id>:<nonce>:<ts>"
type Signer struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewSigner creates a signer; signatures older than maxAge are rejected
func NewSigner(secret string, maxAge time.Duration) *Signer {
	return &Signer{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// WithClock returns a copy of the signer reading time from now
func (s *Signer) WithClock(now func() time.Time) *Signer {
	cp := *s
	cp.now = now
	return &cp
}

// MaxAge returns how long a signature stays valid
func (s *Signer) MaxAge() time.Duration {
	return s.maxAge
}

func (s *Signer) mac(listingID int64, nonce string, ts int64) string {
	h := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(h, "%d:%s:%d", listingID, nonce, ts)
	return hex.EncodeToString(h.Sum(nil))
}

// Sign signs listingID with a fresh nonce and the current time
func (s *Signer) Sign(listingID int64) Signature {
	nonce := uuid.NewString()
	ts := s.now().UnixMilli()
	return Signature{Nonce: nonce, TS: ts, Sig: s.mac(listingID, nonce, ts)}
}

// Verify checks sig in constant time and enforces the age window
func (s *Signer) Verify(listingID int64, sig Signature) error {
	if sig.Nonce == "" || sig.Sig == "" {
		return ErrInvalidSignature
	}

	expected := s.mac(listingID, sig.Nonce, sig.TS)
	if !hmac.Equal([]byte(strings.ToLower(sig.Sig)), []byte(expected)) {
		return ErrInvalidSignature
	}

	age := s.now().UnixMilli() - sig.TS
	if age < 0 {
		return fmt.Errorf("%w: timestamp in the future", ErrInvalidSignature)
	}
	if age > s.maxAge.Milliseconds() {
		return fmt.Errorf("%w: expired", ErrInvalidSignature)
	}
	return nil
}

// UnavailableURL builds the one-click "mark as unavailable" link for a listing
func (s *Signer) UnavailableURL(baseURL string, listingID int64) string {
	sig := s.Sign(listingID)

	q := url.Values{}
	q.Set("nonce", sig.Nonce)
	q.Set("ts", strconv.FormatInt(sig.TS, 10))
	q.Set("sig", sig.Sig)

	return fmt.Sprintf("%s/api/listings/%d/unavailable?%s", strings.TrimRight(baseURL, "/"), listingID, q.Encode())
}
