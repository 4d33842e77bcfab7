package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunnyside/storefront/cart/pkg/model"
	inErrors "github.com/sunnyside/storefront/internal/errors"
)

// fakeStore is an in-memory remote cart store that counts calls and
// can be told to fail at specific points.
type fakeStore struct {
	mu     sync.Mutex
	items  []model.LineItem
	orders []model.Order
	menu   []model.MenuItem

	fetchCalls  int
	findCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
	orderCalls  int

	fetchErr         error
	createErr        error
	updateErr        error
	orderErr         error
	deleteErrOnCall  int // 1-based delete call number that fails, 0 = never
	deleteErr        error
	failFetchAfterN  int // fetch calls that succeed before fetchErr kicks in
}

func (f *fakeStore) FetchLineItems(_ context.Context, userId uuid.UUID) ([]model.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil && f.fetchCalls > f.failFetchAfterN {
		return nil, f.fetchErr
	}
	items := []model.LineItem{}
	for _, item := range f.items {
		if item.UserID == userId {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeStore) FindLineItem(
	_ context.Context,
	userId, menuItemId uuid.UUID,
) (*model.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	for _, item := range f.items {
		if item.UserID == userId && item.MenuItemID == menuItemId {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateLineItem(
	_ context.Context,
	item model.LineItem,
) (model.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return model.LineItem{}, f.createErr
	}
	item.ID = uuid.New()
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeStore) UpdateLineItemQuantity(
	_ context.Context,
	id uuid.UUID,
	quantity int32,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	for i, item := range f.items {
		if item.ID == id {
			f.items[i].Quantity = quantity
			return nil
		}
	}
	return errors.New("line item not found")
}

func (f *fakeStore) DeleteLineItem(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErrOnCall != 0 && f.deleteCalls >= f.deleteErrOnCall {
		return f.deleteErr
	}
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	// deleting a missing id is success
	return nil
}

func (f *fakeStore) CreateOrder(_ context.Context, order model.Order) (model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderCalls++
	if f.orderErr != nil {
		return model.Order{}, f.orderErr
	}
	order.ID = uuid.New()
	f.orders = append(f.orders, order)
	return order, nil
}

func (f *fakeStore) FetchMenuItems(_ context.Context) ([]model.MenuItem, error) {
	return f.menu, nil
}

func (f *fakeStore) FindMenuItem(_ context.Context, id uuid.UUID) (model.MenuItem, error) {
	for _, item := range f.menu {
		if item.ID == id {
			return item, nil
		}
	}
	return model.MenuItem{}, inErrors.ErrMenuItemNotFound
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls + f.findCalls + f.createCalls + f.updateCalls + f.deleteCalls + f.orderCalls
}

func menuItem(name string, price int64) model.MenuItem {
	return model.MenuItem{ID: uuid.New(), Name: name, Price: decimal.NewFromInt(price)}
}

func readyEngine(t *testing.T, store *fakeStore) (*Engine, uuid.UUID) {
	t.Helper()
	userId := uuid.New()
	e := New(store)
	e.SetIdentity(context.Background(), Identity{UserID: userId, Ready: true})
	require.Empty(t, e.Snapshot().Error)
	return e, userId
}

func TestAddToCartAnonymousRejectsWithoutStoreCall(t *testing.T) {
	store := &fakeStore{}
	e := New(store)
	e.SetIdentity(context.Background(), Identity{UserID: uuid.Nil, Ready: true})
	callsBefore := store.totalCalls()

	err := e.AddToCart(context.Background(), menuItem("pancakes", 50))

	assert.ErrorIs(t, err, inErrors.ErrUnauthenticated)
	assert.Equal(t, callsBefore, store.totalCalls())
	snapshot := e.Snapshot()
	assert.Empty(t, snapshot.Items)
	assert.False(t, snapshot.IsLoading)
}

func TestAddToCartBeforeIdentityReadySkipsLoad(t *testing.T) {
	store := &fakeStore{}
	e := New(store)
	e.SetIdentity(context.Background(), Identity{UserID: uuid.New(), Ready: false})

	assert.Zero(t, store.fetchCalls)
	assert.True(t, e.Snapshot().IsLoading)
}

func TestAddToCartRepeatedMenuItemIncrementsQuantity(t *testing.T) {
	store := &fakeStore{}
	e, _ := readyEngine(t, store)
	item := menuItem("eggs benedict", 50)

	require.NoError(t, e.AddToCart(context.Background(), item))
	require.NoError(t, e.AddToCart(context.Background(), item))

	snapshot := e.Snapshot()
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, int32(2), snapshot.Items[0].Quantity)
	assert.Equal(t, int32(2), snapshot.Count)
	assert.True(t, decimal.NewFromInt(100).Equal(snapshot.TotalAmount))
	assert.Equal(t, 1, store.createCalls)
	assert.Equal(t, 1, store.updateCalls)
}

func TestAddToCartManyCallsKeepSingleLineItem(t *testing.T) {
	store := &fakeStore{}
	e, userId := readyEngine(t, store)
	item := menuItem("french toast", 35)

	const calls = 5
	for i := 0; i < calls; i++ {
		require.NoError(t, e.AddToCart(context.Background(), item))
	}

	snapshot := e.Snapshot()
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, userId, snapshot.Items[0].UserID)
	assert.Equal(t, item.ID, snapshot.Items[0].MenuItemID)
	assert.Equal(t, int32(calls), snapshot.Items[0].Quantity)
}

func TestAggregatesRecomputedAfterEveryMutation(t *testing.T) {
	store := &fakeStore{}
	e, _ := readyEngine(t, store)
	waffles := menuItem("waffles", 40)
	coffee := menuItem("coffee", 10)

	require.NoError(t, e.AddToCart(context.Background(), waffles))
	require.NoError(t, e.AddToCart(context.Background(), coffee))
	require.NoError(t, e.AddToCart(context.Background(), coffee))

	snapshot := e.Snapshot()
	assert.Equal(t, int32(3), snapshot.Count)
	assert.True(t, decimal.NewFromInt(60).Equal(snapshot.TotalAmount))

	var coffeeId uuid.UUID
	for _, item := range snapshot.Items {
		if item.MenuItemID == coffee.ID {
			coffeeId = item.ID
		}
	}
	require.NoError(t, e.UpdateQuantity(context.Background(), coffeeId, 5))

	snapshot = e.Snapshot()
	assert.Equal(t, int32(6), snapshot.Count)
	assert.True(t, decimal.NewFromInt(90).Equal(snapshot.TotalAmount))
}

func TestUpdateQuantityZeroBehavesLikeRemove(t *testing.T) {
	tests := []struct {
		name     string
		mutation func(e *Engine, itemId uuid.UUID) error
	}{
		{
			name: "update quantity to zero",
			mutation: func(e *Engine, itemId uuid.UUID) error {
				return e.UpdateQuantity(context.Background(), itemId, 0)
			},
		},
		{
			name: "update quantity to negative clamps to zero",
			mutation: func(e *Engine, itemId uuid.UUID) error {
				return e.UpdateQuantity(context.Background(), itemId, -3)
			},
		},
		{
			name: "remove from cart",
			mutation: func(e *Engine, itemId uuid.UUID) error {
				return e.RemoveFromCart(context.Background(), itemId)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			e, _ := readyEngine(t, store)
			require.NoError(t, e.AddToCart(context.Background(), menuItem("omelette", 45)))
			itemId := e.Snapshot().Items[0].ID

			require.NoError(t, tt.mutation(e, itemId))

			snapshot := e.Snapshot()
			assert.Empty(t, snapshot.Items)
			assert.Zero(t, snapshot.Count)
			assert.True(t, snapshot.TotalAmount.IsZero())
		})
	}
}

func TestCheckoutEmptyCartRejectsWithoutStoreCall(t *testing.T) {
	store := &fakeStore{}
	e, _ := readyEngine(t, store)
	callsBefore := store.totalCalls()

	_, err := e.Checkout(context.Background())

	assert.ErrorIs(t, err, inErrors.ErrEmptyCart)
	assert.Equal(t, callsBefore, store.totalCalls())
}

func TestCheckoutAnonymousRejects(t *testing.T) {
	store := &fakeStore{}
	e := New(store)
	e.SetIdentity(context.Background(), Identity{UserID: uuid.Nil, Ready: true})

	_, err := e.Checkout(context.Background())

	assert.ErrorIs(t, err, inErrors.ErrUnauthenticated)
	assert.Zero(t, store.orderCalls)
}

func TestCheckoutCreatesOneOrderAndEmptiesCart(t *testing.T) {
	store := &fakeStore{}
	e, userId := readyEngine(t, store)
	require.NoError(t, e.AddToCart(context.Background(), menuItem("pancakes", 50)))
	require.NoError(t, e.AddToCart(context.Background(), menuItem("orange juice", 15)))
	expectedTotal := e.Snapshot().TotalAmount

	order, err := e.Checkout(context.Background())

	require.NoError(t, err)
	require.Len(t, store.orders, 1)
	assert.Equal(t, userId, order.UserID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
	assert.True(t, expectedTotal.Equal(order.TotalAmount))
	assert.False(t, order.CreatedAt.IsZero())
	assert.Empty(t, e.Snapshot().Items)
}

func TestCheckoutOrderSnapshotIsDetachedFromCart(t *testing.T) {
	store := &fakeStore{}
	e, _ := readyEngine(t, store)
	item := menuItem("breakfast burrito", 55)
	require.NoError(t, e.AddToCart(context.Background(), item))
	require.NoError(t, e.AddToCart(context.Background(), item))

	order, err := e.Checkout(context.Background())

	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, item.ID, order.Items[0].MenuItemID)
	assert.Equal(t, int32(2), order.Items[0].Quantity)
	// the snapshot survives the cart rows being deleted
	assert.Empty(t, store.items)
	assert.Len(t, store.orders[0].Items, 1)
}

func TestCheckoutClearFailureKeepsOrderAndReturnsError(t *testing.T) {
	store := &fakeStore{}
	e, _ := readyEngine(t, store)
	require.NoError(t, e.AddToCart(context.Background(), menuItem("granola bowl", 30)))

	store.deleteErrOnCall = 1
	store.deleteErr = errors.New("store unavailable")

	_, err := e.Checkout(context.Background())

	require.Error(t, err)
	assert.Len(t, store.orders, 1)
	assert.Len(t, store.items, 1)
	assert.NotEmpty(t, e.Snapshot().Error)
}

func TestClearCartIssuesOneDeletePerItem(t *testing.T) {
	store := &fakeStore{}
	e, _ := readyEngine(t, store)
	for _, name := range []string{"bacon", "toast", "latte"} {
		require.NoError(t, e.AddToCart(context.Background(), menuItem(name, 20)))
	}
	store.deleteCalls = 0

	require.NoError(t, e.ClearCart(context.Background()))

	assert.Equal(t, 3, store.deleteCalls)
	assert.Empty(t, e.Snapshot().Items)
}

func TestClearCartAbortsOnFirstFailureWithoutRollback(t *testing.T) {
	store := &fakeStore{}
	e, _ := readyEngine(t, store)
	for _, name := range []string{"bacon", "toast", "latte"} {
		require.NoError(t, e.AddToCart(context.Background(), menuItem(name, 20)))
	}
	store.deleteCalls = 0
	store.deleteErrOnCall = 2
	store.deleteErr = errors.New("store unavailable")

	err := e.ClearCart(context.Background())

	require.Error(t, err)
	assert.Equal(t, 2, store.deleteCalls)
	// first delete landed, the rest were never attempted
	assert.Len(t, store.items, 2)
	assert.NotEmpty(t, e.Snapshot().Error)
}

func TestClearCartWithoutUserIsNoOp(t *testing.T) {
	store := &fakeStore{}
	e := New(store)
	e.SetIdentity(context.Background(), Identity{UserID: uuid.Nil, Ready: true})

	require.NoError(t, e.ClearCart(context.Background()))
	assert.Zero(t, store.deleteCalls)
}

func TestSetIdentityLoadsCartForResolvedUser(t *testing.T) {
	userId := uuid.New()
	store := &fakeStore{items: []model.LineItem{
		{
			ID:         uuid.New(),
			UserID:     userId,
			MenuItemID: uuid.New(),
			Name:       "pancakes",
			Price:      decimal.NewFromInt(50),
			Quantity:   2,
		},
	}}
	e := New(store)

	e.SetIdentity(context.Background(), Identity{UserID: userId, Ready: true})

	snapshot := e.Snapshot()
	assert.False(t, snapshot.IsLoading)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, int32(2), snapshot.Count)
	assert.True(t, decimal.NewFromInt(100).Equal(snapshot.TotalAmount))
}

func TestSetIdentityLoadFailureClearsLoadingAndRecordsError(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("store unavailable")}
	e := New(store)

	e.SetIdentity(context.Background(), Identity{UserID: uuid.New(), Ready: true})

	snapshot := e.Snapshot()
	assert.False(t, snapshot.IsLoading)
	assert.NotEmpty(t, snapshot.Error)
	assert.Empty(t, snapshot.Items)
}

func TestRefreshFailureIsRecordedNotRaised(t *testing.T) {
	store := &fakeStore{}
	e, _ := readyEngine(t, store)
	require.NoError(t, e.AddToCart(context.Background(), menuItem("pancakes", 50)))

	store.fetchErr = errors.New("store unavailable")
	store.failFetchAfterN = store.fetchCalls

	e.Refresh(context.Background())

	snapshot := e.Snapshot()
	assert.NotEmpty(t, snapshot.Error)
	// previous items survive a failed refresh
	require.Len(t, snapshot.Items, 1)
}

func TestRefreshWithoutUserIsSilentNoOp(t *testing.T) {
	store := &fakeStore{}
	e := New(store)
	e.SetIdentity(context.Background(), Identity{UserID: uuid.Nil, Ready: true})

	e.Refresh(context.Background())

	assert.Zero(t, store.fetchCalls)
	assert.Empty(t, e.Snapshot().Error)
}
