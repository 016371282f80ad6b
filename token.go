package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	joinRateWindow = 60 * time.Second
	maxJoinsPerIP  = 10
)

// ErrBadToken means a socket presented a missing, expired or foreign token
var ErrBadToken = errors.New("invalid join token")

// TokenIssuer signs the tokens that bind a WebSocket to a joined player.
// Tokens carry the game session id so ones from an earlier run are refused.
type TokenIssuer struct {
	secret    []byte
	ttl       time.Duration
	sessionID string

	// join attempts per IP
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewTokenIssuer creates an issuer. An empty secret gets a random one, which
// is fine because tokens are only valid for this process's session anyway.
func NewTokenIssuer(cfg AuthConfig, sessionID string) (*TokenIssuer, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
	}
	return &TokenIssuer{
		secret:    secret,
		ttl:       cfg.TokenTTL,
		sessionID: sessionID,
		rateMap:   make(map[string]*rateEntry),
	}, nil
}

// Issue signs a token for a player id
func (t *TokenIssuer) Issue(id EntityID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"pid": int64(id),
		"sid": t.sessionID,
		"exp": now.Add(t.ttl).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate checks a token and returns the player id it was issued for
func (t *TokenIssuer) Validate(tokenStr string) (EntityID, error) {
	if tokenStr == "" {
		return 0, ErrBadToken
	}
	token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrBadToken
	}
	if sid, _ := claims["sid"].(string); sid != t.sessionID {
		return 0, fmt.Errorf("%w: session mismatch", ErrBadToken)
	}
	pid, ok := claims["pid"].(float64)
	if !ok || pid <= 0 {
		return 0, fmt.Errorf("%w: bad player claim", ErrBadToken)
	}
	return EntityID(pid), nil
}

// AllowJoin rate-limits join attempts per IP
func (t *TokenIssuer) AllowJoin(ip string) bool {
	t.rateMu.Lock()
	defer t.rateMu.Unlock()

	now := time.Now()
	entry, ok := t.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		t.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(joinRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxJoinsPerIP
}
