package service

import (
	"errors"
	"strconv"
	"time"

	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the signed session payload.
type TokenClaims struct {
	UserID uint       `json:"user_id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HS256 session tokens.
type JWTService struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
	now       func() time.Time
}

func NewJWTService(secretKey string, ttl time.Duration, issuer string) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		issuer:    issuer,
		now:       time.Now,
	}
}

// TTL is the token lifetime, also used as the cookie max-age.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue signs claims with a fixed expiry. Registered claims passed in are replaced.
func (s *JWTService) Issue(claims TokenClaims) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return signed, expiresAt, nil
}

// Verify returns the claims of a valid token. Any failure is ErrInvalidToken,
// except an elapsed expiry which is ErrTokenExpired.
func (s *JWTService) Verify(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrInvalidToken
	}

	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) {
			return s.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.WrapError(apperrors.ErrTokenExpired, err)
		}
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	if claims.UserID == 0 || claims.Email == "" || !claims.Role.Valid() {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
