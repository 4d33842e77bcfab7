package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sunnyside/storefront/internal/constants"
	"github.com/sunnyside/storefront/internal/errors"
	"github.com/sunnyside/storefront/internal/otel"
)

type jwtToken struct{}

func AttachToContext(c context.Context, t *jwt.Token) context.Context {
	return context.WithValue(c, jwtToken{}, t)
}

func FromContext(c context.Context) (*jwt.Token, error) {
	t, ok := c.Value(jwtToken{}).(*jwt.Token)
	if !ok {
		return nil, errors.ErrEmptyAuth
	}
	return t, nil
}

// UserIdFromContext resolves the authenticated user id from the jwt
// previously attached by the auth middleware.
func UserIdFromContext(c context.Context) (uuid.UUID, error) {
	t, err := FromContext(c)
	if err != nil {
		return uuid.Nil, err
	}
	subject, err := t.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed getting subject with error=%w", err)
	}
	if subject == "" {
		return uuid.Nil, errors.ErrEmptySubject
	}
	userId, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed parsing subject=%s with error=%w", subject, err)
	}
	return userId, nil
}

func Sign(c context.Context, userId uuid.UUID, secretKey string) (string, error) {
	_, span := otel.Tracer.Start(c, "token Sign")
	defer span.End()

	now := time.Now()
	t := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{constants.AUDIENCE_USER},
			Issuer:    constants.APP_USER_SERVICE,
			Subject:   userId.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	)
	signed, err := t.SignedString([]byte(secretKey))
	if err != nil {
		err = fmt.Errorf("failed signing token with error=%w", err)
		otel.RecordError(err, span)
		return "", err
	}
	return signed, nil
}

func Verify(c context.Context, tokenString string, secretKey string) (*jwt.Token, error) {
	c, span := otel.Tracer.Start(c, "token Verify")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "token Verify").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing claims").Logger()
	logger.Trace().Msg("parsing claims")
	t, err := jwt.ParseWithClaims(tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithAudience(constants.AUDIENCE_USER),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.APP_USER_SERVICE),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing claims with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("parsed claims")

	if !t.Valid {
		err = fmt.Errorf("failed validating token with error=%w", errors.ErrTokenInvalid)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	return t, nil
}
