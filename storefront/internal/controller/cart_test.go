package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunnyside/storefront/cart/pkg/model"
	"github.com/sunnyside/storefront/cart/pkg/store"
	"github.com/sunnyside/storefront/internal/middleware"
	"github.com/sunnyside/storefront/internal/token"
	"github.com/sunnyside/storefront/storefront/internal/session"
)

const testSecretKey = "test-secret"

// storeBackend is an in-memory stand-in for the store service speaking
// its REST dialect.
type storeBackend struct {
	mu     sync.Mutex
	items  map[uuid.UUID]model.LineItem
	orders []model.Order
	menu   map[uuid.UUID]model.MenuItem
}

func newStoreBackend(menu ...model.MenuItem) *storeBackend {
	b := &storeBackend{
		items: map[uuid.UUID]model.LineItem{},
		menu:  map[uuid.UUID]model.MenuItem{},
	}
	for _, item := range menu {
		b.menu[item.ID] = item
	}
	return b
}

func (b *storeBackend) respond(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     http.StatusText(statusCode),
		"statusCode": statusCode,
		"message":    http.StatusText(statusCode),
		"data":       data,
	})
}

func (b *storeBackend) router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/cart-items", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		userId, _ := uuid.Parse(r.URL.Query().Get("userId"))
		menuItemId, _ := uuid.Parse(r.URL.Query().Get("menuItemId"))
		items := []model.LineItem{}
		for _, item := range b.items {
			if item.UserID != userId {
				continue
			}
			if menuItemId != uuid.Nil && item.MenuItemID != menuItemId {
				continue
			}
			items = append(items, item)
		}
		b.respond(w, http.StatusOK, items)
	}).Methods(http.MethodGet)
	router.HandleFunc("/cart-items", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		item := model.LineItem{}
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			b.respond(w, http.StatusBadRequest, nil)
			return
		}
		item.ID = uuid.New()
		b.items[item.ID] = item
		b.respond(w, http.StatusCreated, item)
	}).Methods(http.MethodPost)
	router.HandleFunc("/cart-items/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id, _ := uuid.Parse(mux.Vars(r)["id"])
		item, ok := b.items[id]
		if !ok {
			b.respond(w, http.StatusNotFound, nil)
			return
		}
		body := map[string]int32{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			b.respond(w, http.StatusBadRequest, nil)
			return
		}
		item.Quantity = body["quantity"]
		b.items[id] = item
		b.respond(w, http.StatusOK, item)
	}).Methods(http.MethodPatch)
	router.HandleFunc("/cart-items/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id, _ := uuid.Parse(mux.Vars(r)["id"])
		item, ok := b.items[id]
		if !ok {
			b.respond(w, http.StatusNotFound, nil)
			return
		}
		delete(b.items, id)
		b.respond(w, http.StatusOK, item)
	}).Methods(http.MethodDelete)
	router.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		order := model.Order{}
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			b.respond(w, http.StatusBadRequest, nil)
			return
		}
		order.ID = uuid.New()
		b.orders = append(b.orders, order)
		b.respond(w, http.StatusCreated, order)
	}).Methods(http.MethodPost)
	router.HandleFunc("/menu-items", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		items := []model.MenuItem{}
		for _, item := range b.menu {
			items = append(items, item)
		}
		b.respond(w, http.StatusOK, items)
	}).Methods(http.MethodGet)
	router.HandleFunc("/menu-items/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id, _ := uuid.Parse(mux.Vars(r)["id"])
		item, ok := b.menu[id]
		if !ok {
			b.respond(w, http.StatusNotFound, nil)
			return
		}
		b.respond(w, http.StatusOK, item)
	}).Methods(http.MethodGet)
	return router
}

type testEnv struct {
	backend *storeBackend
	server  *httptest.Server
	router  *mux.Router
	userId  uuid.UUID
	token   string
}

func newTestEnv(t *testing.T, menu ...model.MenuItem) *testEnv {
	t.Helper()

	backend := newStoreBackend(menu...)
	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)

	client := store.NewClient(server.URL)
	registry := session.NewRegistry(client)

	router := mux.NewRouter()
	menuRouter := router.PathPrefix("/menu").Subrouter()
	AttachMenuController(menuRouter, client)
	cartRouter := router.PathPrefix("/cart").Subrouter()
	cartRouter.Use(middleware.Auth(testSecretKey))
	AttachCartController(cartRouter, registry, client)

	userId := uuid.New()
	signedToken, err := token.Sign(context.Background(), userId, testSecretKey)
	require.NoError(t, err)

	return &testEnv{
		backend: backend,
		server:  server,
		router:  router,
		userId:  userId,
		token:   signedToken,
	}
}

func (env *testEnv) do(
	t *testing.T,
	method, path string,
	body interface{},
) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+env.token)
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeSnapshot(t *testing.T, recorder *httptest.ResponseRecorder) model.Snapshot {
	t.Helper()
	envelope := struct {
		Data model.Snapshot `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCartRoutesRejectMissingToken(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAddToCartThenGetCart(t *testing.T) {
	pancakes := model.MenuItem{ID: uuid.New(), Name: "pancakes", Price: decimal.NewFromInt(50)}
	env := newTestEnv(t, pancakes)

	recorder := env.do(t, http.MethodPost, "/cart/items", map[string]string{
		"menu_item_id": pancakes.ID.String(),
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	snapshot := decodeSnapshot(t, env.do(t, http.MethodGet, "/cart", nil))
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, int32(1), snapshot.Count)
	assert.True(t, decimal.NewFromInt(50).Equal(snapshot.TotalAmount))
}

func TestAddToCartUnknownMenuItemIs404(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/cart/items", map[string]string{
		"menu_item_id": uuid.NewString(),
	})

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddSameMenuItemTwiceIncrementsQuantity(t *testing.T) {
	coffee := model.MenuItem{ID: uuid.New(), Name: "coffee", Price: decimal.NewFromInt(10)}
	env := newTestEnv(t, coffee)
	body := map[string]string{"menu_item_id": coffee.ID.String()}

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/cart/items", body).Code)
	recorder := env.do(t, http.MethodPost, "/cart/items", body)
	require.Equal(t, http.StatusOK, recorder.Code)

	snapshot := decodeSnapshot(t, recorder)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, int32(2), snapshot.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(20).Equal(snapshot.TotalAmount))
}

func TestUpdateQuantityToZeroRemovesItem(t *testing.T) {
	waffles := model.MenuItem{ID: uuid.New(), Name: "waffles", Price: decimal.NewFromInt(40)}
	env := newTestEnv(t, waffles)
	body := map[string]string{"menu_item_id": waffles.ID.String()}
	snapshot := decodeSnapshot(t, env.do(t, http.MethodPost, "/cart/items", body))
	require.Len(t, snapshot.Items, 1)
	itemId := snapshot.Items[0].ID

	recorder := env.do(
		t,
		http.MethodPatch,
		fmt.Sprintf("/cart/items/%s", itemId),
		map[string]int32{"quantity": 0},
	)
	require.Equal(t, http.StatusOK, recorder.Code)

	snapshot = decodeSnapshot(t, recorder)
	assert.Empty(t, snapshot.Items)
}

func TestRemoveFromCart(t *testing.T) {
	toast := model.MenuItem{ID: uuid.New(), Name: "toast", Price: decimal.NewFromInt(8)}
	env := newTestEnv(t, toast)
	body := map[string]string{"menu_item_id": toast.ID.String()}
	snapshot := decodeSnapshot(t, env.do(t, http.MethodPost, "/cart/items", body))
	require.Len(t, snapshot.Items, 1)

	recorder := env.do(
		t,
		http.MethodDelete,
		fmt.Sprintf("/cart/items/%s", snapshot.Items[0].ID),
		nil,
	)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, decodeSnapshot(t, recorder).Items)
}

func TestClearCartEmptiesEverything(t *testing.T) {
	bacon := model.MenuItem{ID: uuid.New(), Name: "bacon", Price: decimal.NewFromInt(4)}
	juice := model.MenuItem{ID: uuid.New(), Name: "juice", Price: decimal.NewFromInt(5)}
	env := newTestEnv(t, bacon, juice)
	env.do(t, http.MethodPost, "/cart/items", map[string]string{"menu_item_id": bacon.ID.String()})
	env.do(t, http.MethodPost, "/cart/items", map[string]string{"menu_item_id": juice.ID.String()})

	recorder := env.do(t, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	snapshot := decodeSnapshot(t, recorder)
	assert.Empty(t, snapshot.Items)
	assert.Zero(t, snapshot.Count)
}

func TestCheckoutCreatesOrderAndEmptiesCart(t *testing.T) {
	burrito := model.MenuItem{ID: uuid.New(), Name: "burrito", Price: decimal.NewFromInt(10)}
	env := newTestEnv(t, burrito)
	body := map[string]string{"menu_item_id": burrito.ID.String()}
	env.do(t, http.MethodPost, "/cart/items", body)
	env.do(t, http.MethodPost, "/cart/items", body)

	recorder := env.do(t, http.MethodPost, "/cart/checkout", nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	envelope := struct {
		Data model.Order `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, env.userId, envelope.Data.UserID)
	assert.Equal(t, model.OrderStatusPending, envelope.Data.Status)
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, int32(2), envelope.Data.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(20).Equal(envelope.Data.TotalAmount))

	env.backend.mu.Lock()
	remaining := len(env.backend.items)
	orders := len(env.backend.orders)
	env.backend.mu.Unlock()
	assert.Zero(t, remaining)
	assert.Equal(t, 1, orders)

	snapshot := decodeSnapshot(t, env.do(t, http.MethodGet, "/cart", nil))
	assert.Empty(t, snapshot.Items)
}

func TestCheckoutEmptyCartIsRejected(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/cart/checkout", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetMenuIsPublic(t *testing.T) {
	granola := model.MenuItem{ID: uuid.New(), Name: "granola", Price: decimal.NewFromInt(7)}
	env := newTestEnv(t, granola)

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	envelope := struct {
		Data []model.MenuItem `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "granola", envelope.Data[0].Name)
}
