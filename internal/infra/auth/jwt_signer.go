package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"warden/config"
	"warden/internal/domain/service"
	"warden/internal/errors"
)

const jtiLength = 21

// tokenClaims carries the token kind next to the registered claims.
type tokenClaims struct {
	jwt.RegisteredClaims
	Type service.TokenKind `json:"type"`
}

// jwtSigner is a concrete implementation of the TokenSigner interface using HS256 JWTs.
type jwtSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// JWTSignerOption customizes a jwtSigner.
type JWTSignerOption func(*jwtSigner)

// WithClock replaces the wall clock used for issuance and expiry checks.
func WithClock(now func() time.Time) JWTSignerOption {
	return func(s *jwtSigner) {
		if now != nil {
			s.now = now
		}
	}
}

// NewJWTSigner is the constructor for jwtSigner.
// The signing secret comes from secretKey.signing and is fixed for the process lifetime.
func NewJWTSigner(cfg *config.Config, opts ...JWTSignerOption) (service.TokenSigner, error) {
	if len(cfg.SecretKey.Signing) < config.MinSigningKeyLength {
		return nil, errors.Errorf("jwt signing secret must be at least %d bytes", config.MinSigningKeyLength)
	}

	s := &jwtSigner{
		secret: []byte(cfg.SecretKey.Signing),
		now:    time.Now,
	}
	if cfg.Auth != nil {
		s.issuer = cfg.Auth.Issuer
	}
	for _, opt := range opts {
		opt(s)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}
	s.parser = jwt.NewParser(parserOpts...)

	return s, nil
}

// Issue creates a token of the given kind for subjectID expiring ttl after the issuance second.
func (s *jwtSigner) Issue(kind service.TokenKind, subjectID uuid.UUID, ttl time.Duration) (string, error) {
	if !knownKind(kind) {
		return "", errors.Errorf("unknown token kind %q", kind)
	}
	if ttl <= 0 {
		return "", errors.Errorf("token ttl must be positive, got %s", ttl)
	}

	jti, err := gonanoid.New(jtiLength)
	if err != nil {
		return "", errors.Wrap(err, "generate token id")
	}

	// NumericDate has second precision, so expiry is anchored on the truncated issuance time.
	issuedAt := s.now().Truncate(time.Second)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			ID:        jti,
		},
		Type: kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return signed, nil
}

// Verify checks signature, algorithm, expiry and kind and returns the typed claims.
func (s *jwtSigner) Verify(kind service.TokenKind, tokenString string) (*service.Claims, error) {
	claims := &tokenClaims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.Wrap(service.ErrTokenExpired, err.Error())
		case errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, errors.Wrap(service.ErrTokenSignature, err.Error())
		default:
			return nil, errors.Wrap(service.ErrTokenMalformed, err.Error())
		}
	}

	if claims.Type != kind {
		return nil, errors.Wrapf(service.ErrTokenKind, "want %s token, got %q", kind, claims.Type)
	}

	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(service.ErrTokenMalformed, "subject is not a valid id")
	}

	return &service.Claims{
		SubjectID: subjectID,
		Kind:      claims.Type,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func knownKind(kind service.TokenKind) bool {
	return kind == service.TokenKindAccess || kind == service.TokenKindRefresh
}
