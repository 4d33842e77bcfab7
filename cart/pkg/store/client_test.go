package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunnyside/storefront/cart/pkg/model"
	inErrors "github.com/sunnyside/storefront/internal/errors"
)

func writeEnvelope(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     http.StatusText(statusCode),
		"statusCode": statusCode,
		"message":    http.StatusText(statusCode),
		"data":       data,
	})
}

func TestFetchLineItemsDecodesEnvelope(t *testing.T) {
	userId := uuid.New()
	item := model.LineItem{
		ID:         uuid.New(),
		UserID:     userId,
		MenuItemID: uuid.New(),
		Name:       "pancakes",
		Price:      decimal.NewFromInt(50),
		Quantity:   2,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart-items", r.URL.Path)
		assert.Equal(t, userId.String(), r.URL.Query().Get("userId"))
		writeEnvelope(w, http.StatusOK, []model.LineItem{item})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	items, err := client.FetchLineItems(context.Background(), userId)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
	assert.Equal(t, int32(2), items[0].Quantity)
	assert.True(t, decimal.NewFromInt(50).Equal(items[0].Price))
}

func TestFindLineItemReturnsNilWhenNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("userId"))
		assert.NotEmpty(t, r.URL.Query().Get("menuItemId"))
		writeEnvelope(w, http.StatusOK, []model.LineItem{})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	item, err := client.FindLineItem(context.Background(), uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestFindLineItemReturnsFirstMatch(t *testing.T) {
	lineItemId := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []model.LineItem{
			{ID: lineItemId, Quantity: 3},
			{ID: uuid.New(), Quantity: 1},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	item, err := client.FindLineItem(context.Background(), uuid.New(), uuid.New())

	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, lineItemId, item.ID)
	assert.Equal(t, int32(3), item.Quantity)
}

func TestCreateLineItemPostsBodyAndDecodesCreated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart-items", r.URL.Path)

		received := model.LineItem{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.Equal(t, int32(1), received.Quantity)

		received.ID = uuid.New()
		writeEnvelope(w, http.StatusCreated, received)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	created, err := client.CreateLineItem(context.Background(), model.LineItem{
		UserID:     uuid.New(),
		MenuItemID: uuid.New(),
		Name:       "waffles",
		Price:      decimal.NewFromInt(40),
		Quantity:   1,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "waffles", created.Name)
}

func TestUpdateLineItemQuantityPatchesQuantityOnly(t *testing.T) {
	lineItemId := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/cart-items/"+lineItemId.String(), r.URL.Path)

		body := map[string]int32{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int32(4), body["quantity"])
		writeEnvelope(w, http.StatusOK, nil)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.UpdateLineItemQuantity(context.Background(), lineItemId, 4)

	require.NoError(t, err)
}

func TestDeleteLineItemTreatsNotFoundAsSuccess(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
	}{
		{name: "deleted", statusCode: http.StatusOK, wantErr: false},
		{name: "already gone", statusCode: http.StatusNotFound, wantErr: false},
		{name: "store failure", statusCode: http.StatusInternalServerError, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, http.MethodDelete, r.Method)
					writeEnvelope(w, tt.statusCode, nil)
				}),
			)
			defer server.Close()

			client := NewClient(server.URL)
			err := client.DeleteLineItem(context.Background(), uuid.New())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateOrderDecodesCreatedOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		received := model.Order{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		received.ID = uuid.New()
		writeEnvelope(w, http.StatusCreated, received)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	created, err := client.CreateOrder(context.Background(), model.Order{
		UserID: uuid.New(),
		Items: []model.OrderItem{
			{MenuItemID: uuid.New(), Name: "pancakes", Price: decimal.NewFromInt(50), Quantity: 2},
		},
		TotalAmount: decimal.NewFromInt(100),
		Status:      model.OrderStatusPending,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, model.OrderStatusPending, created.Status)
	assert.True(t, decimal.NewFromInt(100).Equal(created.TotalAmount))
}

func TestFindMenuItemMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, nil)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FindMenuItem(context.Background(), uuid.New())

	assert.ErrorIs(t, err, inErrors.ErrMenuItemNotFound)
}

func TestFetchMenuItemsNonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, nil)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchMenuItems(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code=500")
}
