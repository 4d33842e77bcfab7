package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/sunnyside/storefront/cart/pkg/store"
	"github.com/sunnyside/storefront/internal/config"
	"github.com/sunnyside/storefront/internal/constants"
	"github.com/sunnyside/storefront/internal/log"
	"github.com/sunnyside/storefront/internal/middleware"
	inOtel "github.com/sunnyside/storefront/internal/otel"
	"github.com/sunnyside/storefront/storefront/internal/controller"
	"github.com/sunnyside/storefront/storefront/internal/otel"
	"github.com/sunnyside/storefront/storefront/internal/session"
)

func RunStorefrontService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunStorefrontService")
	defer span.End()

	cfg := config.Get(c, constants.APP_STOREFRONT_SERVICE)

	logger := log.Get(filepath.Join("/var/log/", constants.APP_STOREFRONT_SERVICE+".log"), cfg.Application.Env).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_STOREFRONT_SERVICE).
		Str(constants.KEY_TAG, "main RunStorefrontService").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.APP_STOREFRONT_SERVICE, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		err = inOtel.ShutdownOtel(c, shutdownFuncs)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().
		Str(constants.KEY_PROCESS, "initializing store client").
		Str(constants.KEY_STORE_BASE_URL, cfg.Store.BaseURL).
		Logger()
	logger.Info().Msg("initializing store client")
	storeClient := store.NewClient(cfg.Store.BaseURL)
	registry := session.NewRegistry(storeClient)
	logger.Info().Msg("initialized store client")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Use(
		otelmux.Middleware(constants.APP_STOREFRONT_SERVICE),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(constants.KEY_PROCESS, "attaching controllers").Logger()
	logger.Info().Msg("attaching controllers")
	menuRouter := router.PathPrefix("/menu").Subrouter()
	controller.AttachMenuController(menuRouter, storeClient)
	cartRouter := router.PathPrefix("/cart").Subrouter()
	cartRouter.Use(middleware.Auth(cfg.Application.SecretKey))
	controller.AttachCartController(cartRouter, registry, storeClient)
	logger.Info().Msg("attached controllers")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger = logger.With().Str(constants.KEY_PROCESS, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)

		logger = logger.With().Str(constants.KEY_PROCESS, "shutdown server").Logger()
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())

			c = logger.WithContext(c)
			if err := inOtel.ShutdownOtel(c, shutdownFuncs); err != nil {
				err = fmt.Errorf("failed shutting down otel with error=%w", err)
				inOtel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
			}
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(constants.KEY_PROCESS, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")

	logger = logger.With().Str(constants.KEY_PROCESS, "shutting down http server").Logger()
	logger.Info().Msg("shutting down http server")
	err = httpServer.Shutdown(c)
	if err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
