package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/sunnyside/storefront/cart/pkg/store"
	"github.com/sunnyside/storefront/internal/constants"
	inErrors "github.com/sunnyside/storefront/internal/errors"
	inHttp "github.com/sunnyside/storefront/internal/http"
	inOtel "github.com/sunnyside/storefront/internal/otel"
	"github.com/sunnyside/storefront/storefront/internal/otel"
)

type MenuController struct {
	store store.Store
}

func AttachMenuController(router *mux.Router, store store.Store) {
	controller := MenuController{store: store}

	router.HandleFunc("", controller.GetMenu).Methods(http.MethodGet)
	router.HandleFunc("/{menuItemId}", controller.GetMenuItem).Methods(http.MethodGet)
}

func (t MenuController) GetMenu(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController GetMenu")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "MenuController GetMenu").
		Str(constants.KEY_PROCESS, "fetching menu").
		Logger()

	logger.Info().Msg("fetching menu")
	c = logger.WithContext(c)
	items, err := t.store.FetchMenuItems(c)
	if err != nil {
		err = fmt.Errorf("failed fetching menu with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadGateway,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("fetched menu")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "fetched menu",
		"data":       items,
	})
}

func (t MenuController) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController GetMenuItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "MenuController GetMenuItem").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating menuItemId").Logger()
	logger.Info().Msg("validating menuItemId")
	menuItemId, err := uuid.Parse(mux.Vars(r)["menuItemId"])
	if err != nil {
		err = fmt.Errorf("failed validating menuItemId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_MENU_ITEM_ID, menuItemId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding menu item").Logger()
	logger.Info().Msg("finding menu item")
	c = logger.WithContext(c)
	item, err := t.store.FindMenuItem(c, menuItemId)
	if err != nil {
		statusCode := http.StatusBadGateway
		if errors.Is(err, inErrors.ErrMenuItemNotFound) {
			statusCode = http.StatusNotFound
		}
		err = fmt.Errorf("failed finding menuItemId=%s with error=%w", menuItemId.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found menu item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found menu item",
		"data":       item,
	})
}
