package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sunnyside/storefront/internal/config"
	"github.com/sunnyside/storefront/internal/constants"
	inErrors "github.com/sunnyside/storefront/internal/errors"
	inOtel "github.com/sunnyside/storefront/internal/otel"
	"github.com/sunnyside/storefront/internal/token"
	"github.com/sunnyside/storefront/user/internal/otel"
	"github.com/sunnyside/storefront/user/internal/repository"
	"github.com/sunnyside/storefront/user/pkg/request"
)

type UserService struct {
	queries *repository.Queries
	config  config.Application
}

func NewUserService(queries *repository.Queries, config config.Application) UserService {
	return UserService{queries: queries, config: config}
}

func (svc UserService) Login(c context.Context, param request.Login) (string, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserService Login").
		Str(constants.KEY_EMAIL, param.Email).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding user by email").Logger()
	logger.Info().Msg("finding user by email")
	user, err := svc.queries.FindUserByEmail(c, param.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Error().
				Err(inErrors.ErrUserNotFound).
				Msg(inErrors.ErrUserNotFound.Error())
			return "", inErrors.ErrUserNotFound
		}
		err = fmt.Errorf("failed finding user by email with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Msg("found user by email")

	logger = logger.With().Str(constants.KEY_PROCESS, "verifying password").Logger()
	logger.Info().Msg("verifying password")
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(param.Password))
	if err != nil {
		logger.Error().
			Err(inErrors.ErrPasswordMismatch).
			Msg(inErrors.ErrPasswordMismatch.Error())
		return "", inErrors.ErrPasswordMismatch
	}
	logger.Info().Msg("verified password")

	logger = logger.With().Str(constants.KEY_PROCESS, "signing token").Logger()
	logger.Info().Msg("signing token")
	signedToken, err := token.Sign(c, user.ID, svc.config.SecretKey)
	if err != nil {
		err = fmt.Errorf("failed signing token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Msg("signed token")

	return signedToken, nil
}

func (svc UserService) Register(
	c context.Context,
	param request.Register,
) (repository.User, error) {
	c, span := otel.Tracer.Start(c, "UserService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserService Register").
		Str(constants.KEY_EMAIL, param.Email).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "hashing password").Logger()
	logger.Info().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.User{}, err
	}
	logger.Info().Msg("hashed password")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting user to database").Logger()
	logger.Info().Msg("inserting user to database")
	user, err := svc.queries.InsertUser(c, repository.InsertUserParams{
		Username: param.Username,
		Email:    param.Email,
		Password: string(hashed),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting user to database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.User{}, err
	}
	logger = logger.With().Str(constants.KEY_USER_ID, user.ID.String()).Logger()
	logger.Info().Msg("inserted user to database")

	return user, nil
}
