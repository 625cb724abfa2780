// Package auth provides JWT issuance/verification and password hashing.
//
// TOKEN MODEL:
// Sessions are stateless. A login produces a signed JWT carrying everything
// the server needs on later requests — the user ID in the standard "sub"
// claim and the email in a custom claim — so no session table exists and
// nothing is looked up to verify a token. Validity is entirely signature
// plus expiry; there is no revocation list, refresh, or rotation.
//
// Tokens are symmetrically signed (HS256) with a server-held secret. The
// secret, the issuer string, and the lifetime all arrive via TokenConfig —
// passed by value into the constructor, never read from globals.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid is returned by Verify for any token that should not be
// trusted — bad signature, wrong issuer, expired, or simply malformed.
// Callers get one error kind on purpose: the 401 response is the same
// regardless of why the token failed.
var ErrTokenInvalid = errors.New("auth: invalid token")

// ErrTokenMalformed is returned by Subject and Email when the token cannot
// be parsed or verified at all. Those accessors are only meant for tokens
// that already passed Verify.
var ErrTokenMalformed = errors.New("auth: malformed token")

// TokenConfig is the signing configuration for a TokenService.
type TokenConfig struct {
	Secret string        // HMAC key, at least 16 characters
	Issuer string        // "iss" claim, rejected on mismatch at verify time
	Expiry time.Duration // token lifetime from issuance
}

// TokenService issues and verifies the session tokens.
type TokenService struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// claims embeds the registered JWT claims and adds the email claim the
// HTTP boundary uses as the authenticated principal.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewTokenService validates the config and builds a TokenService.
// The secret should be random data, e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("auth: JWT issuer must not be empty")
	}
	if cfg.Expiry <= 0 {
		return nil, errors.New("auth: JWT expiry must be positive")
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		expiry: cfg.Expiry,
	}, nil
}

// Issue creates and signs a token for the given user.
//
// sub = userID, email = email, iss/iat/exp from config and the clock.
// Aside from reading the clock this is a pure computation — no I/O.
func (s *TokenService) Issue(userID, email string) (string, error) {
	return s.issueWithExpiry(userID, email, s.expiry)
}

// IssueWithExpiry creates a token with a custom lifetime. A negative
// duration produces an already-expired token — the tests use that to
// exercise expiry handling without sleeping.
func (s *TokenService) IssueWithExpiry(userID, email string, d time.Duration) (string, error) {
	return s.issueWithExpiry(userID, email, d)
}

func (s *TokenService) issueWithExpiry(userID, email string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature, issuer, and expiry of a token string.
// Returns nil for a valid token and ErrTokenInvalid for everything else —
// it never panics on garbage input.
//
// jwt.WithValidMethods pins the algorithm to HS256 so a token claiming
// alg=none (or an RSA public-key confusion) is rejected outright.
func (s *TokenService) Verify(tokenStr string) error {
	_, err := s.parse(tokenStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return nil
}

// Subject returns the user ID stored in the token's "sub" claim.
// Fails with ErrTokenMalformed if the token cannot be parsed and verified;
// callers are expected to Verify before trusting the result.
func (s *TokenService) Subject(tokenStr string) (string, error) {
	c, err := s.parse(tokenStr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	return c.Subject, nil
}

// Email returns the email claim. Same failure contract as Subject.
func (s *TokenService) Email(tokenStr string) (string, error) {
	c, err := s.parse(tokenStr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	return c.Email, nil
}

// ExpiresIn reports the configured token lifetime. Handlers use it to fill
// the expiresIn field of auth responses.
func (s *TokenService) ExpiresIn() time.Duration {
	return s.expiry
}

func (s *TokenService) parse(tokenStr string) (*claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if c.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return c, nil
}
