package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/sunnyside/storefront/cart/pkg/store"
	"github.com/sunnyside/storefront/internal/constants"
	inErrors "github.com/sunnyside/storefront/internal/errors"
	inHttp "github.com/sunnyside/storefront/internal/http"
	inOtel "github.com/sunnyside/storefront/internal/otel"
	"github.com/sunnyside/storefront/internal/token"
	"github.com/sunnyside/storefront/storefront/internal/otel"
	"github.com/sunnyside/storefront/storefront/internal/session"
	"github.com/sunnyside/storefront/storefront/pkg/request"
)

type CartController struct {
	registry *session.Registry
	store    store.Store
}

func AttachCartController(router *mux.Router, registry *session.Registry, store store.Store) {
	controller := CartController{registry: registry, store: store}

	router.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	router.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	router.HandleFunc("/items", controller.AddToCart).Methods(http.MethodPost)
	router.HandleFunc("/items/{itemId}", controller.UpdateQuantity).Methods(http.MethodPatch)
	router.HandleFunc("/items/{itemId}", controller.RemoveFromCart).Methods(http.MethodDelete)
	router.HandleFunc("/checkout", controller.Checkout).Methods(http.MethodPost)
}

func statusCodeFromError(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, inErrors.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrMenuItemNotFound),
		errors.Is(err, inErrors.ErrLineItemNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (t CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController GetCart").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	userId, err := token.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "refreshing cart").Logger()
	logger.Info().Msg("refreshing cart")
	c = logger.WithContext(c)
	engine := t.registry.Engine(c, userId)
	engine.Refresh(c)
	snapshot := engine.Snapshot()
	logger.Info().
		Int32(constants.KEY_LINE_ITEMS_COUNT, snapshot.Count).
		Msg("refreshed cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found cart",
		"data":       snapshot,
	})
}

func (t CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddToCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController AddToCart").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.AddCartItem{}
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
	validate := validator.New(validator.WithRequiredStructEnabled())
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

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	userId, err := token.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_MENU_ITEM_ID, reqBody.MenuItemID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding menu item").Logger()
	logger.Info().Msg("finding menu item")
	c = logger.WithContext(c)
	menuItem, err := t.store.FindMenuItem(c, reqBody.MenuItemID)
	if err != nil {
		err = fmt.Errorf(
			"failed finding menuItemId=%s with error=%w",
			reqBody.MenuItemID.String(),
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found menu item")

	logger = logger.With().Str(constants.KEY_PROCESS, "adding menu item to cart").Logger()
	logger.Info().Msg("adding menu item to cart")
	engine := t.registry.Engine(c, userId)
	if err := engine.AddToCart(c, menuItem); err != nil {
		err = fmt.Errorf("failed adding menu item to cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("added menu item to cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "added menu item to cart",
		"data":       engine.Snapshot(),
	})
}

func (t CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController UpdateQuantity").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating itemId").Logger()
	logger.Info().Msg("validating itemId")
	itemId, err := uuid.Parse(mux.Vars(r)["itemId"])
	if err != nil {
		err = fmt.Errorf("failed validating itemId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_LINE_ITEM_ID, itemId.String()).Logger()

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

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	userId, err := token.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "updating quantity").Logger()
	logger.Info().Int32(constants.KEY_LINE_ITEM_QUANTITY, reqBody.Quantity).Msg("updating quantity")
	c = logger.WithContext(c)
	engine := t.registry.Engine(c, userId)
	if err := engine.UpdateQuantity(c, itemId, reqBody.Quantity); err != nil {
		err = fmt.Errorf("failed updating quantity with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("updated quantity")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated quantity",
		"data":       engine.Snapshot(),
	})
}

func (t CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveFromCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController RemoveFromCart").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating itemId").Logger()
	logger.Info().Msg("validating itemId")
	itemId, err := uuid.Parse(mux.Vars(r)["itemId"])
	if err != nil {
		err = fmt.Errorf("failed validating itemId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_LINE_ITEM_ID, itemId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	userId, err := token.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "removing cart item").Logger()
	logger.Info().Msg("removing cart item")
	c = logger.WithContext(c)
	engine := t.registry.Engine(c, userId)
	if err := engine.RemoveFromCart(c, itemId); err != nil {
		err = fmt.Errorf("failed removing cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("removed cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "removed cart item",
		"data":       engine.Snapshot(),
	})
}

// ClearCart empties the user's cart. Best-effort: a partial failure
// still answers 200, the snapshot's error field carries what went
// wrong and which items survived.
func (t CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController ClearCart").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	userId, err := token.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	engine := t.registry.Engine(c, userId)
	if err := engine.ClearCart(c); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("cleared cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cleared cart",
		"data":       engine.Snapshot(),
	})
}

func (t CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController Checkout").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	userId, err := token.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "checking out cart").Logger()
	logger.Info().Msg("checking out cart")
	c = logger.WithContext(c)
	engine := t.registry.Engine(c, userId)
	order, err := engine.Checkout(c)
	if err != nil {
		err = fmt.Errorf("failed checking out cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		body := map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeFromError(err),
			"message":    err.Error(),
		}
		if order.ID != uuid.Nil {
			// the order was created, only the cleanup failed
			body["data"] = order
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, body)
		return
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, order.ID.String()).Logger()
	logger.Info().Msg("checked out cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "checked out cart",
		"data":       order,
	})
}
