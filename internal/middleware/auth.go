package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sunnyside/storefront/internal/constants"
	inErrors "github.com/sunnyside/storefront/internal/errors"
	inHttp "github.com/sunnyside/storefront/internal/http"
	"github.com/sunnyside/storefront/internal/token"
)

func Auth(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(constants.KEY_TAG, "middleware Auth").
				Logger()
			c := logger.WithContext(r.Context())

			authorization := r.Header.Get("Authorization")
			if authorization == "" {
				logger.Error().Err(inErrors.ErrEmptyAuth).Msg(inErrors.ErrEmptyAuth.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrEmptyAuth.Error(),
				})
				return
			}

			tokenString := strings.TrimPrefix(authorization, "Bearer ")
			jwtToken, err := token.Verify(c, tokenString, secretKey)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrTokenInvalid.Error(),
				})
				return
			}

			c = token.AttachToContext(c, jwtToken)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
