package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/sunnyside/storefront/internal/constants"
	inErrors "github.com/sunnyside/storefront/internal/errors"
	inHttp "github.com/sunnyside/storefront/internal/http"
	inOtel "github.com/sunnyside/storefront/internal/otel"
	inValidate "github.com/sunnyside/storefront/internal/validate"
	"github.com/sunnyside/storefront/store/internal/otel"
	"github.com/sunnyside/storefront/store/internal/service"
	"github.com/sunnyside/storefront/store/pkg/request"
)

type StoreController struct {
	service *service.StoreService
}

func AttachStoreController(mux *mux.Router, service *service.StoreService) {
	controller := StoreController{service: service}

	mux.HandleFunc("/cart-items", controller.FindCartItems).Methods(http.MethodGet)
	mux.HandleFunc("/cart-items", controller.InsertCartItem).Methods(http.MethodPost)
	mux.HandleFunc("/cart-items/{cartItemId}", controller.UpdateCartItemQuantity).
		Methods(http.MethodPatch)
	mux.HandleFunc("/cart-items/{cartItemId}", controller.DeleteCartItem).
		Methods(http.MethodDelete)
	mux.HandleFunc("/orders", controller.InsertOrder).Methods(http.MethodPost)
	mux.HandleFunc("/orders", controller.FindOrders).Methods(http.MethodGet)
	mux.HandleFunc("/menu-items", controller.FindMenuItems).Methods(http.MethodGet)
	mux.HandleFunc("/menu-items/{menuItemId}", controller.FindMenuItemById).
		Methods(http.MethodGet)
}

func (t StoreController) FindCartItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "StoreController FindCartItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreController FindCartItems").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating userId").Logger()
	logger.Info().Msg("validating userId")
	userId, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		err = fmt.Errorf("failed validating userId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()

	menuItemId := uuid.Nil
	if raw := r.URL.Query().Get("menuItemId"); raw != "" {
		menuItemId, err = uuid.Parse(raw)
		if err != nil {
			err = fmt.Errorf("failed validating menuItemId=%s with error=%w", raw, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusBadRequest,
				"message":    err.Error(),
			})
			return
		}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart items").Logger()
	logger.Info().Msg("finding cart items")
	c = logger.WithContext(c)
	items, err := t.service.FindCartItems(c, userId, menuItemId)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Int(constants.KEY_LINE_ITEMS_COUNT, len(items)).Msg("found cart items")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found cart items",
		"data":       items,
	})
}

func (t StoreController) InsertCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "StoreController InsertCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreController InsertCartItem").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.CartItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := inValidate.New()
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting cart item").Logger()
	logger.Info().Msg("inserting cart item")
	c = logger.WithContext(c)
	item, err := t.service.InsertCartItem(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("inserted cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "inserted cart item",
		"data":       item,
	})
}

func (t StoreController) UpdateCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "StoreController UpdateCartItemQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreController UpdateCartItemQuantity").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating cartItemId").Logger()
	logger.Info().Msg("validating cartItemId")
	cartItemId, err := uuid.Parse(mux.Vars(r)["cartItemId"])
	if err != nil {
		err = fmt.Errorf("failed validating cartItemId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_LINE_ITEM_ID, cartItemId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.UpdateCartItemQuantity{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	validate := inValidate.New()
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating cart item").Logger()
	logger.Info().Msg("updating cart item")
	c = logger.WithContext(c)
	item, err := t.service.UpdateCartItemQuantity(c, cartItemId, reqBody)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrLineItemNotFound) {
			statusCode = http.StatusNotFound
		}
		err = fmt.Errorf("failed updating cartItemId=%s with error=%w", cartItemId.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("updated cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated cart item",
		"data":       item,
	})
}

func (t StoreController) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "StoreController DeleteCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreController DeleteCartItem").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating cartItemId").Logger()
	logger.Info().Msg("validating cartItemId")
	cartItemId, err := uuid.Parse(mux.Vars(r)["cartItemId"])
	if err != nil {
		err = fmt.Errorf("failed validating cartItemId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_LINE_ITEM_ID, cartItemId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting cart item").Logger()
	logger.Info().Msg("deleting cart item")
	c = logger.WithContext(c)
	item, err := t.service.DeleteCartItem(c, cartItemId)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrLineItemNotFound) {
			statusCode = http.StatusNotFound
		}
		err = fmt.Errorf("failed deleting cartItemId=%s with error=%w", cartItemId.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("deleted cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "deleted cart item",
		"data":       item,
	})
}

func (t StoreController) InsertOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "StoreController InsertOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreController InsertOrder").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Order{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := inValidate.New()
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	c = logger.WithContext(c)
	order, err := t.service.InsertOrder(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("inserted order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "inserted order",
		"data":       order,
	})
}

func (t StoreController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "StoreController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreController FindOrders").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating userId").Logger()
	logger.Info().Msg("validating userId")
	userId, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		err = fmt.Errorf("failed validating userId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	c = logger.WithContext(c)
	orders, err := t.service.FindOrders(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found orders")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found orders",
		"data":       orders,
	})
}

func (t StoreController) FindMenuItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "StoreController FindMenuItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreController FindMenuItems").
		Str(constants.KEY_PROCESS, "finding menu items").
		Logger()

	logger.Info().Msg("finding menu items")
	c = logger.WithContext(c)
	items, err := t.service.FindMenuItems(c)
	if err != nil {
		err = fmt.Errorf("failed finding menu items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found menu items")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found menu items",
		"data":       items,
	})
}

func (t StoreController) FindMenuItemById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "StoreController FindMenuItemById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreController FindMenuItemById").
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
	item, err := t.service.FindMenuItemById(c, menuItemId)
	if err != nil {
		statusCode := http.StatusInternalServerError
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
