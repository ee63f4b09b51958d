package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA‑256 hashing for refresh tokens
    "encoding/hex"  // hex encoding and decoding functions
    "time"          // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed session credential along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp.  Session tokens are short‑lived and carried in an HTTP-only
// cookie; they are the only server-side-stateless credential in the system.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Identity is the payload recovered from a valid session token.
type Identity struct {
    UserID uint64 // subject of the token
    Role   string // role claim (client or admin)
}

// RefreshToken represents a long‑lived token used to obtain new session
// tokens.  The Raw field contains the raw token string returned to the
// client.  In the database only a SHA‑256 hash of the raw string is stored.
type RefreshToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a user.  The claims are
// the subject (sub), role, expiration (exp) and issued-at (iat).  TTL is
// given in minutes.
func NewSessionToken(secret string, userID uint64, role string, ttlMin int) (SessionToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// VerifySessionToken validates a raw session token and extracts its
// identity.  It returns ok=false for every failure mode (empty token,
// malformed token, wrong signing method, bad signature, expired claims)
// so callers treat all of them uniformly as "unauthenticated" and never
// branch on the reason.
func VerifySessionToken(secret, raw string) (Identity, bool) {
    if raw == "" {
        return Identity{}, false
    }
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but HMAC; an attacker must not
        // be able to downgrade the signing method.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, jwt.ErrTokenSignatureInvalid
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return Identity{}, false
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Identity{}, false
    }
    sub, ok := claims["sub"].(float64) // numeric claims decode as float64
    if !ok || sub <= 0 {
        return Identity{}, false
    }
    role, ok := claims["role"].(string)
    if !ok || role == "" {
        return Identity{}, false
    }
    return Identity{UserID: uint64(sub), Role: role}, true
}

// NewRefreshToken returns a cryptographically secure random token (raw) and
// its expiration time.  The ttlDays parameter controls how many days the
// refresh token is valid.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    raw, err := randomHex(48) // 48 bytes -> 96 hex chars
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// HashRefreshRaw returns the SHA‑256 hash of the raw refresh token as a hex
// string.  Storing only the hash prevents attackers from using stolen
// database rows to refresh sessions.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
