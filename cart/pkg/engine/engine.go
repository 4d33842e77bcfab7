package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sunnyside/storefront/cart/internal/otel"
	"github.com/sunnyside/storefront/cart/pkg/model"
	"github.com/sunnyside/storefront/cart/pkg/store"
	"github.com/sunnyside/storefront/internal/constants"
	inErrors "github.com/sunnyside/storefront/internal/errors"
	inOtel "github.com/sunnyside/storefront/internal/otel"
)

// Identity is what the identity source exposes: the resolved user id
// (uuid.Nil for anonymous visitors) and whether resolution finished.
type Identity struct {
	UserID uuid.UUID
	Ready  bool
}

// Engine mirrors one user's remote cart and layers derived aggregates
// and a checkout transaction on top of it. The remote store stays
// authoritative: every mutation is followed by a refresh, so the local
// snapshot lags the store by at most one round trip.
//
// Operations are serialized per engine. Nothing guards against
// concurrent mutations from other sessions on the same account: two
// near-simultaneous adds of the same menu item from different sessions
// can both miss the existing row and create a duplicate line item.
type Engine struct {
	mu      sync.Mutex
	store   store.Store
	userId  uuid.UUID
	items   []model.LineItem
	loading bool
	lastErr error
}

func New(s store.Store) *Engine {
	// loading starts true and stays true until the identity source
	// reports ready, mirroring a page that has not resolved its user yet
	return &Engine{store: s, loading: true}
}

// Snapshot returns the current items plus recomputed aggregates.
// Consumers get a copy; all changes go through the engine's operations.
func (e *Engine) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	count, total := model.Aggregate(e.items)
	snapshot := model.Snapshot{
		Items:       slices.Clone(e.items),
		Count:       count,
		TotalAmount: total,
		IsLoading:   e.loading,
	}
	if snapshot.Items == nil {
		snapshot.Items = []model.LineItem{}
	}
	if e.lastErr != nil {
		snapshot.Error = e.lastErr.Error()
	}
	return snapshot
}

// SetIdentity reacts to the identity source becoming ready or the
// resolved user changing. Anonymous users get an empty cart and no
// store call; a resolved user triggers the initial load, the only path
// that toggles IsLoading.
func (e *Engine) SetIdentity(c context.Context, id Identity) {
	c, span := otel.Tracer.Start(c, "Engine SetIdentity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Engine SetIdentity").
		Str(constants.KEY_USER_ID, id.UserID.String()).
		Logger()

	if !id.Ready {
		logger.Info().Msg("identity source not ready, skipping load")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.userId = id.UserID
	if id.UserID == uuid.Nil {
		logger.Info().Msg("anonymous user, resetting cart without store call")
		e.items = []model.LineItem{}
		e.loading = false
		e.lastErr = nil
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initial load").Logger()
	logger.Info().Msg("loading cart from store")
	e.loading = true
	items, err := e.store.FetchLineItems(c, id.UserID)
	e.loading = false
	if err != nil {
		// keep the previous items; the store stays authoritative and a
		// later refresh will reconcile
		err = fmt.Errorf("failed loading cart with error=%w", err)
		e.lastErr = err
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	e.items = items
	e.lastErr = nil
	logger.Info().Int(constants.KEY_LINE_ITEMS_COUNT, len(items)).Msg("loaded cart from store")
}

// Refresh re-fetches the current user's line items and replaces the
// snapshot. Best-effort: failures are recorded and logged, never
// returned.
func (e *Engine) Refresh(c context.Context) {
	c, span := otel.Tracer.Start(c, "Engine Refresh")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.refreshLocked(c)
}

func (e *Engine) refreshLocked(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Engine refresh").
		Str(constants.KEY_USER_ID, e.userId.String()).
		Logger()

	if e.userId == uuid.Nil {
		return
	}

	items, err := e.store.FetchLineItems(c, e.userId)
	if err != nil {
		err = fmt.Errorf("failed refreshing cart with error=%w", err)
		e.lastErr = err
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	e.items = items
	e.lastErr = nil
	logger.Info().Int(constants.KEY_LINE_ITEMS_COUNT, len(items)).Msg("refreshed cart")
}

// AddToCart adds one unit of a menu item. An existing line item for
// the same menu item gets its quantity incremented instead of a second
// row being created. Foreground: failures are recorded and returned.
func (e *Engine) AddToCart(c context.Context, menuItem model.MenuItem) error {
	c, span := otel.Tracer.Start(c, "Engine AddToCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Engine AddToCart").
		Str(constants.KEY_MENU_ITEM_ID, menuItem.ID.String()).
		Logger()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.userId == uuid.Nil {
		logger.Error().
			Err(inErrors.ErrUnauthenticated).
			Msg(inErrors.ErrUnauthenticated.Error())
		return inErrors.ErrUnauthenticated
	}
	logger = logger.With().Str(constants.KEY_USER_ID, e.userId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding existing line item").Logger()
	logger.Info().Msg("finding existing line item")
	existing, err := e.store.FindLineItem(c, e.userId, menuItem.ID)
	if err != nil {
		err = fmt.Errorf("failed finding existing line item with error=%w", err)
		e.lastErr = err
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if existing != nil {
		logger = logger.With().
			Str(constants.KEY_PROCESS, "incrementing quantity").
			Str(constants.KEY_LINE_ITEM_ID, existing.ID.String()).
			Logger()
		logger.Info().
			Int32(constants.KEY_LINE_ITEM_QUANTITY, existing.Quantity+1).
			Msg("incrementing line item quantity")
		err = e.store.UpdateLineItemQuantity(c, existing.ID, existing.Quantity+1)
		if err != nil {
			err = fmt.Errorf("failed incrementing line item quantity with error=%w", err)
			e.lastErr = err
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger.Info().Msg("incremented line item quantity")
	} else {
		logger = logger.With().Str(constants.KEY_PROCESS, "creating line item").Logger()
		logger.Info().Msg("creating line item")
		_, err = e.store.CreateLineItem(c, model.LineItem{
			UserID:     e.userId,
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   1,
		})
		if err != nil {
			err = fmt.Errorf("failed creating line item with error=%w", err)
			e.lastErr = err
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger.Info().Msg("created line item")
	}

	e.refreshLocked(c)
	return nil
}

// UpdateQuantity sets a line item's quantity, clamped at zero. Zero is
// equivalent to removing the item.
func (e *Engine) UpdateQuantity(c context.Context, itemId uuid.UUID, quantity int32) error {
	c, span := otel.Tracer.Start(c, "Engine UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Engine UpdateQuantity").
		Str(constants.KEY_LINE_ITEM_ID, itemId.String()).
		Int32(constants.KEY_LINE_ITEM_QUANTITY, quantity).
		Logger()

	if quantity < 0 {
		quantity = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity == 0 {
		return e.removeLocked(c, itemId)
	}

	logger.Info().Msg("updating line item quantity")
	err := e.store.UpdateLineItemQuantity(c, itemId, quantity)
	if err != nil {
		err = fmt.Errorf("failed updating line item quantity with error=%w", err)
		e.lastErr = err
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("updated line item quantity")

	e.refreshLocked(c)
	return nil
}

// RemoveFromCart deletes a line item by id.
func (e *Engine) RemoveFromCart(c context.Context, itemId uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "Engine RemoveFromCart")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeLocked(c, itemId)
}

func (e *Engine) removeLocked(c context.Context, itemId uuid.UUID) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Engine removeFromCart").
		Str(constants.KEY_LINE_ITEM_ID, itemId.String()).
		Logger()

	logger.Info().Msg("deleting line item")
	err := e.store.DeleteLineItem(c, itemId)
	if err != nil {
		err = fmt.Errorf("failed deleting line item with error=%w", err)
		e.lastErr = err
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted line item")

	e.refreshLocked(c)
	return nil
}

// ClearCart deletes every line item of the current user, one delete
// per item; the store exposes no bulk delete. The loop aborts on the
// first failure: already-deleted items stay deleted, the rest stay in
// the cart, no rollback. The error is recorded and returned so callers
// pick their own policy (checkout re-raises, the UI treats a manual
// clear as best-effort).
func (e *Engine) ClearCart(c context.Context) error {
	c, span := otel.Tracer.Start(c, "Engine ClearCart")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clearLocked(c)
}

func (e *Engine) clearLocked(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Engine clearCart").
		Str(constants.KEY_USER_ID, e.userId.String()).
		Logger()

	if e.userId == uuid.Nil {
		return nil
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "fetching line items").Logger()
	logger.Info().Msg("fetching line items to clear")
	items, err := e.store.FetchLineItems(c, e.userId)
	if err != nil {
		err = fmt.Errorf("failed fetching line items to clear with error=%w", err)
		e.lastErr = err
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int(constants.KEY_LINE_ITEMS_COUNT, len(items)).Msg("fetched line items to clear")

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting line items").Logger()
	for _, item := range items {
		err = e.store.DeleteLineItem(c, item.ID)
		if err != nil {
			err = fmt.Errorf(
				"failed deleting lineItemId=%s while clearing cart with error=%w",
				item.ID.String(),
				err,
			)
			e.lastErr = err
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
	}
	logger.Info().Msg("deleted all line items")

	e.refreshLocked(c)
	return nil
}

// Checkout snapshots the cart into an order record, creates it in the
// store, then clears the cart. The two steps are not transactional: a
// clear failure after the order was created leaves the order in place
// and the cart partially full, and the returned order is the created
// one alongside the error.
func (e *Engine) Checkout(c context.Context) (model.Order, error) {
	c, span := otel.Tracer.Start(c, "Engine Checkout")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Engine Checkout").
		Str(constants.KEY_USER_ID, e.userId.String()).
		Logger()

	if e.userId == uuid.Nil {
		logger.Error().
			Err(inErrors.ErrUnauthenticated).
			Msg(inErrors.ErrUnauthenticated.Error())
		return model.Order{}, inErrors.ErrUnauthenticated
	}
	if len(e.items) == 0 {
		logger.Error().Err(inErrors.ErrEmptyCart).Msg(inErrors.ErrEmptyCart.Error())
		return model.Order{}, inErrors.ErrEmptyCart
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "building order").Logger()
	logger.Info().Msg("building order from cart snapshot")
	orderItems := make([]model.OrderItem, len(e.items))
	for i, item := range e.items {
		orderItems[i] = item.OrderItem()
	}
	_, total := model.Aggregate(e.items)
	order := model.Order{
		UserID:      e.userId,
		Items:       orderItems,
		TotalAmount: total,
		Status:      model.OrderStatusPending,
		CreatedAt:   time.Now(),
	}
	logger = logger.With().
		Int(constants.KEY_LINE_ITEMS_COUNT, len(orderItems)).
		Str(constants.KEY_ORDER_TOTAL, total.String()).
		Logger()
	logger.Info().Msg("built order from cart snapshot")

	logger = logger.With().Str(constants.KEY_PROCESS, "creating order").Logger()
	logger.Info().Msg("creating order in store")
	created, err := e.store.CreateOrder(c, order)
	if err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		e.lastErr = err
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, created.ID.String()).Logger()
	logger.Info().Msg("created order in store")

	logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()
	logger.Info().Msg("clearing cart after checkout")
	err = e.clearLocked(c)
	if err != nil {
		// the order exists but the cart was not fully emptied; there is
		// no compensating action, the caller has to surface it
		err = fmt.Errorf("order created but failed clearing cart with error=%w", err)
		e.lastErr = err
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return created, err
	}
	logger.Info().Msg("cleared cart after checkout")

	return created, nil
}
