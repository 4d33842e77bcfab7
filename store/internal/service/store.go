package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sunnyside/storefront/cart/pkg/model"
	"github.com/sunnyside/storefront/internal/constants"
	inErrors "github.com/sunnyside/storefront/internal/errors"
	inOtel "github.com/sunnyside/storefront/internal/otel"
	"github.com/sunnyside/storefront/store/internal/cache"
	"github.com/sunnyside/storefront/store/internal/otel"
	"github.com/sunnyside/storefront/store/internal/repository"
	"github.com/sunnyside/storefront/store/pkg/request"
)

type StoreService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewStoreService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) StoreService {
	return StoreService{pool: pool, queries: queries, cache: cache}
}

// FindCartItems lists a user's cart rows, optionally narrowed to one
// menu item. The unfiltered list is cached per user and invalidated on
// every mutation.
func (svc StoreService) FindCartItems(
	c context.Context,
	userId uuid.UUID,
	menuItemId uuid.UUID,
) ([]model.LineItem, error) {
	c, span := otel.Tracer.Start(c, "StoreService FindCartItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreService FindCartItems").
		Str(constants.KEY_USER_ID, userId.String()).
		Logger()

	if menuItemId != uuid.Nil {
		logger = logger.With().
			Str(constants.KEY_PROCESS, "finding cart items by menu item").
			Str(constants.KEY_MENU_ITEM_ID, menuItemId.String()).
			Logger()
		logger.Trace().Msg("finding cart items in database")
		rows, err := svc.queries.FindCartItemsByUserAndMenuItem(
			c,
			repository.FindCartItemsByUserAndMenuItemParams{UserID: userId, MenuItemID: menuItemId},
		)
		if err != nil {
			err = fmt.Errorf("failed finding cart items with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Info().Int(constants.KEY_LINE_ITEMS_COUNT, len(rows)).Msg("found cart items")
		return mapCartItems(rows), nil
	}

	cacheKey := cache.KEY_CART_ITEMS + userId.String()
	logger = logger.With().
		Str(constants.KEY_PROCESS, "finding cart items in cache").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()
	logger.Trace().Msg("finding cart items in cache")
	jsonCache, err := svc.cache.Get(c, cacheKey).Result()
	if err == nil && jsonCache != "" {
		items := []model.LineItem{}
		if err := json.Unmarshal([]byte(jsonCache), &items); err == nil {
			logger.Debug().Int(constants.KEY_LINE_ITEMS_COUNT, len(items)).Msg("found cart items in cache")
			return items, nil
		}
	}
	logger.Info().Msg("cart items not in cache")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart items in database").Logger()
	logger.Trace().Msg("finding cart items in database")
	span.AddEvent("finding cart items in database")
	rows, err := svc.queries.FindCartItemsByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("found cart items in database")
	items := mapCartItems(rows)
	logger.Info().Int(constants.KEY_LINE_ITEMS_COUNT, len(items)).Msg("found cart items in database")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting cart items to cache").Logger()
	logger.Trace().Msg("inserting cart items to cache")
	payload, err := json.Marshal(items)
	if err == nil {
		if err := svc.cache.Set(c, cacheKey, payload, 0).Err(); err != nil {
			err = fmt.Errorf("failed inserting cart items to cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
		}
	}
	logger.Info().Msg("inserted cart items to cache")

	return items, nil
}

func (svc StoreService) InsertCartItem(
	c context.Context,
	param request.CartItem,
) (model.LineItem, error) {
	c, span := otel.Tracer.Start(c, "StoreService InsertCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreService InsertCartItem").
		Str(constants.KEY_USER_ID, param.UserID.String()).
		Str(constants.KEY_MENU_ITEM_ID, param.MenuItemID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting cart item to database").Logger()
	logger.Trace().Msg("inserting cart item to database")
	span.AddEvent("inserting cart item to database")
	row, err := svc.queries.InsertCartItem(c, repository.InsertCartItemParams{
		UserID:     param.UserID,
		MenuItemID: param.MenuItemID,
		Name:       param.Name,
		Price:      repository.Numeric(param.Price),
		Quantity:   param.Quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.LineItem{}, err
	}
	span.AddEvent("inserted cart item to database")
	logger = logger.With().Str(constants.KEY_LINE_ITEM_ID, row.ID.String()).Logger()
	logger.Info().Msg("inserted cart item to database")

	svc.invalidateCartItems(c, param.UserID)
	return row.LineItem(), nil
}

func (svc StoreService) UpdateCartItemQuantity(
	c context.Context,
	id uuid.UUID,
	param request.UpdateCartItemQuantity,
) (model.LineItem, error) {
	c, span := otel.Tracer.Start(c, "StoreService UpdateCartItemQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreService UpdateCartItemQuantity").
		Str(constants.KEY_LINE_ITEM_ID, id.String()).
		Int32(constants.KEY_LINE_ITEM_QUANTITY, param.Quantity).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "updating cart item in database").Logger()
	logger.Trace().Msg("updating cart item in database")
	span.AddEvent("updating cart item in database")
	row, err := svc.queries.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
		ID:       id,
		Quantity: param.Quantity,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Info().Msg("cart item not found")
			return model.LineItem{}, inErrors.ErrLineItemNotFound
		}
		err = fmt.Errorf("failed updating cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.LineItem{}, err
	}
	span.AddEvent("updated cart item in database")
	logger.Info().Msg("updated cart item in database")

	svc.invalidateCartItems(c, row.UserID)
	return row.LineItem(), nil
}

func (svc StoreService) DeleteCartItem(c context.Context, id uuid.UUID) (model.LineItem, error) {
	c, span := otel.Tracer.Start(c, "StoreService DeleteCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreService DeleteCartItem").
		Str(constants.KEY_LINE_ITEM_ID, id.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting cart item in database").Logger()
	logger.Trace().Msg("deleting cart item in database")
	span.AddEvent("deleting cart item in database")
	row, err := svc.queries.DeleteCartItem(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Info().Msg("cart item not found")
			return model.LineItem{}, inErrors.ErrLineItemNotFound
		}
		err = fmt.Errorf("failed deleting cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.LineItem{}, err
	}
	span.AddEvent("deleted cart item in database")
	logger.Info().Msg("deleted cart item in database")

	svc.invalidateCartItems(c, row.UserID)
	return row.LineItem(), nil
}

func (svc StoreService) InsertOrder(
	c context.Context,
	param request.Order,
) (model.Order, error) {
	c, span := otel.Tracer.Start(c, "StoreService InsertOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreService InsertOrder").
		Str(constants.KEY_USER_ID, param.UserID.String()).
		Str(constants.KEY_ORDER_TOTAL, param.TotalAmount.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "marshaling order items").Logger()
	logger.Trace().Msg("marshaling order items")
	items, err := json.Marshal(param.Items)
	if err != nil {
		err = fmt.Errorf("failed marshaling order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting order to database").Logger()
	logger.Trace().Msg("inserting order to database")
	span.AddEvent("inserting order to database")
	row, err := svc.queries.InsertOrder(c, repository.InsertOrderParams{
		UserID:      param.UserID,
		Items:       items,
		TotalAmount: repository.Numeric(param.TotalAmount),
		Status:      string(param.Status),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}
	span.AddEvent("inserted order to database")
	logger = logger.With().Str(constants.KEY_ORDER_ID, row.ID.String()).Logger()
	logger.Info().Msg("inserted order to database")

	return row.Order()
}

func (svc StoreService) FindOrders(c context.Context, userId uuid.UUID) ([]model.Order, error) {
	c, span := otel.Tracer.Start(c, "StoreService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreService FindOrders").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_PROCESS, "finding orders in database").
		Logger()

	logger.Trace().Msg("finding orders in database")
	rows, err := svc.queries.FindOrdersByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	orders := []model.Order{}
	for _, row := range rows {
		order, err := row.Order()
		if err != nil {
			err = fmt.Errorf("failed mapping orderId=%s with error=%w", row.ID.String(), err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		orders = append(orders, order)
	}
	logger.Info().Msg("found orders in database")
	return orders, nil
}

func (svc StoreService) FindMenuItems(c context.Context) ([]model.MenuItem, error) {
	c, span := otel.Tracer.Start(c, "StoreService FindMenuItems")
	defer span.End()

	cacheKey := cache.KEY_MENU_ITEMS
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreService FindMenuItems").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding menu items in cache").Logger()
	logger.Trace().Msg("finding menu items in cache")
	jsonCache, err := svc.cache.Get(c, cacheKey).Result()
	if err == nil && jsonCache != "" {
		items := []model.MenuItem{}
		if err := json.Unmarshal([]byte(jsonCache), &items); err == nil {
			logger.Debug().Msg("found menu items in cache")
			return items, nil
		}
	}
	logger.Info().Msg("menu items not in cache")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding menu items in database").Logger()
	logger.Trace().Msg("finding menu items in database")
	span.AddEvent("finding menu items in database")
	rows, err := svc.queries.FindMenuItems(c)
	if err != nil {
		err = fmt.Errorf("failed finding menu items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("found menu items in database")
	items := make([]model.MenuItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.MenuItem())
	}
	logger.Info().Msg("found menu items in database")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting menu items to cache").Logger()
	logger.Trace().Msg("inserting menu items to cache")
	payload, err := json.Marshal(items)
	if err == nil {
		if err := svc.cache.Set(c, cacheKey, payload, 0).Err(); err != nil {
			err = fmt.Errorf("failed inserting menu items to cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
		}
	}
	logger.Info().Msg("inserted menu items to cache")

	return items, nil
}

func (svc StoreService) FindMenuItemById(
	c context.Context,
	id uuid.UUID,
) (model.MenuItem, error) {
	c, span := otel.Tracer.Start(c, "StoreService FindMenuItemById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreService FindMenuItemById").
		Str(constants.KEY_MENU_ITEM_ID, id.String()).
		Str(constants.KEY_PROCESS, "finding menu item in database").
		Logger()

	logger.Trace().Msg("finding menu item in database")
	row, err := svc.queries.FindMenuItemById(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Info().Msg("menu item not found")
			return model.MenuItem{}, inErrors.ErrMenuItemNotFound
		}
		err = fmt.Errorf("failed finding menu item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.MenuItem{}, err
	}
	logger.Info().Msg("found menu item in database")
	return row.MenuItem(), nil
}

func (svc StoreService) invalidateCartItems(c context.Context, userId uuid.UUID) {
	cacheKey := cache.KEY_CART_ITEMS + userId.String()
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "StoreService invalidateCartItems").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger.Trace().Msg("removing cart items from cache")
	err := svc.cache.Del(c, cacheKey).Err()
	if err != nil {
		err = fmt.Errorf("failed removing cart items from cache with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Debug().Msg("removed cart items from cache")
}

func mapCartItems(rows []repository.CartItem) []model.LineItem {
	items := make([]model.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.LineItem())
	}
	return items
}
