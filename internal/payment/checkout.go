// Package payment implements the stub checkout used for token purchases.
//
// No payment provider is contacted. A checkout is a fernet token that binds a
// pending ledger row to its buyer, token count and price; confirming the
// checkout is the stand-in for a provider callback.
package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for checkout tokens that are forged, tampered with or expired.
var ErrInvalidToken = errors.New("invalid checkout token")

// Claims is the content sealed into a checkout token.
type Claims struct {
	TransactionID string    `json:"tid"`
	UserID        string    `json:"uid"`
	PackageID     string    `json:"pkg"`
	Tokens        int64     `json:"tok"`
	Amount        float64   `json:"amt"`
	ExpiresAt     time.Time `json:"exp"`
}

// Sealer issues and verifies checkout tokens.
type Sealer struct {
	key *fernet.Key
	ttl time.Duration
	now func() time.Time
}

// NewSealer creates a Sealer from a base64 fernet key.
// An empty key generates a fresh one, which invalidates outstanding checkouts on restart.
func NewSealer(encodedKey string, ttl time.Duration) (*Sealer, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("checkout ttl must be positive, got %s", ttl)
	}

	var key *fernet.Key
	if encodedKey == "" {
		key = new(fernet.Key)
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate checkout key: %w", err)
		}
	} else {
		var err error
		key, err = fernet.DecodeKey(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode checkout key: %w", err)
		}
	}

	return &Sealer{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source used for expiry.
func (s *Sealer) WithClock(now func() time.Time) *Sealer {
	s.now = now
	return s
}

// TTL returns how long a checkout token stays valid.
func (s *Sealer) TTL() time.Duration {
	return s.ttl
}

// Seal stamps the expiry onto c and returns the encrypted token.
func (s *Sealer) Seal(c Claims) (string, Claims, error) {
	c.ExpiresAt = s.now().UTC().Add(s.ttl).Truncate(time.Second)

	msg, err := json.Marshal(c)
	if err != nil {
		return "", Claims{}, fmt.Errorf("failed to encode checkout claims: %w", err)
	}

	tok, err := fernet.EncryptAndSign(msg, s.key)
	if err != nil {
		return "", Claims{}, fmt.Errorf("failed to seal checkout token: %w", err)
	}
	return string(tok), c, nil
}

// Open verifies a token and returns its claims.
func (s *Sealer) Open(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	// fernet's ttl uses the wall clock; the claims expiry below follows s.now.
	msg := fernet.VerifyAndDecrypt([]byte(token), s.ttl, []*fernet.Key{s.key})
	if msg == nil {
		return Claims{}, ErrInvalidToken
	}

	var c Claims
	if err := json.Unmarshal(msg, &c); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if !s.now().Before(c.ExpiresAt) {
		return Claims{}, ErrInvalidToken
	}

	return c, nil
}

// NewPaymentRef returns the reference recorded on a confirmed stub purchase.
func NewPaymentRef() string {
	return "stub_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
