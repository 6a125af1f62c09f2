package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/response"
)

const (
	// HeaderAPIKey carries the shared admin key.
	HeaderAPIKey = "X-API-Key"
	// HeaderTimeToken carries a fernet token generated from the admin key.
	HeaderTimeToken = "X-Time-Token"

	timeTokenTTL = 5 * time.Minute
)

// APIKeyMiddleware protects admin routes with the shared key and a short-lived time token.
// Callers send the key in X-API-Key and a token from GenerateTimeToken in X-Time-Token.
// An empty apiKey rejects every request with 500.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	var key *fernet.Key
	if apiKey != "" {
		key = timeTokenKey(apiKey)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == nil {
				response.RespondError(w, http.StatusInternalServerError, "unauthorized", "Authentication not loaded")
				return
			}

			provided := r.Header.Get(HeaderAPIKey)
			if provided == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			token := r.Header.Get(HeaderTimeToken)
			if token == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
				return
			}
			if fernet.VerifyAndDecrypt([]byte(token), timeTokenTTL, []*fernet.Key{key}) == nil {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GenerateTimeToken returns a time token accepted by APIKeyMiddleware for the next few minutes.
func GenerateTimeToken(apiKey string) string {
	msg := []byte(strconv.FormatInt(time.Now().Unix(), 10))
	tok, err := fernet.EncryptAndSign(msg, timeTokenKey(apiKey))
	if err != nil {
		return ""
	}
	return string(tok)
}

func timeTokenKey(apiKey string) *fernet.Key {
	sum := sha256.Sum256([]byte(apiKey))
	k := fernet.Key(sum)
	return &k
}
