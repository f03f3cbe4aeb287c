// Package token issues and verifies the signed claims used by the API:
// hour-long session tokens and short-lived transaction tokens that drive the
// QR points flow. Tokens are stateless and cannot be revoked before expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Capability string

const (
	CapabilityManagePoints Capability = "manage-points"
	CapabilityView         Capability = "view"
)

const (
	audienceSession     = "session"
	audienceTransaction = "transaction"
)

var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("invalid token")
)

// SessionClaims identify the caller of ordinary authenticated requests.
type SessionClaims struct {
	AccountID string `json:"userId"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TransactionClaims carry a point snapshot of one user for the QR flow.
type TransactionClaims struct {
	AccountID  string     `json:"userId"`
	Points     int64      `json:"points"`
	Generation int64      `json:"generationCount"`
	Capability Capability `json:"access"`
	jwt.RegisteredClaims
}

type Service struct {
	secret         []byte
	sessionTTL     time.Duration
	transactionTTL time.Duration
	now            func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for both signing and verification.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(secret string, sessionTTL, transactionTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		secret:         []byte(secret),
		sessionTTL:     sessionTTL,
		transactionTTL: transactionTTL,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) SessionTTL() time.Duration { return s.sessionTTL }

// IssueSession signs {accountId, role} for the session lifetime.
func (s *Service) IssueSession(accountID, role string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.sessionTTL)

	claims := SessionClaims{
		AccountID:        accountID,
		Role:             role,
		RegisteredClaims: s.registered(audienceSession, accountID, now, exp),
	}

	signed, err := s.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// IssueTransaction signs a point snapshot for the transaction lifetime.
func (s *Service) IssueTransaction(accountID string, points, generation int64, capability Capability) (string, error) {
	now := s.now()

	claims := TransactionClaims{
		AccountID:        accountID,
		Points:           points,
		Generation:       generation,
		Capability:       capability,
		RegisteredClaims: s.registered(audienceTransaction, accountID, now, now.Add(s.transactionTTL)),
	}

	return s.sign(claims)
}

func (s *Service) VerifySession(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := s.parse(tokenStr, claims, audienceSession); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) VerifyTransaction(tokenStr string) (*TransactionClaims, error) {
	claims := &TransactionClaims{}
	if err := s.parse(tokenStr, claims, audienceTransaction); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) registered(audience, subject string, now, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
}

func (s *Service) sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// parse maps every jwt failure onto ErrExpired or ErrMalformed so callers
// can tell the two apart without knowing the jwt library.
func (s *Service) parse(tokenStr string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpired
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !token.Valid {
		return ErrMalformed
	}
	return nil
}
