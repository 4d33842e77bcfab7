package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sunnyside/storefront/cart/internal/otel"
	"github.com/sunnyside/storefront/cart/pkg/model"
	"github.com/sunnyside/storefront/internal/constants"
	inErrors "github.com/sunnyside/storefront/internal/errors"
	inHttp "github.com/sunnyside/storefront/internal/http"
	"github.com/sunnyside/storefront/internal/log"
	inOtel "github.com/sunnyside/storefront/internal/otel"
)

// Client talks to the store service's REST resources over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, client: otelhttp.DefaultClient}
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func (s *Client) do(
	c context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
) (*http.Response, envelope, error) {
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, envelope{}, fmt.Errorf("failed marshaling request body with error=%w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(c, method, u, reader)
	if err != nil {
		return nil, envelope{}, fmt.Errorf("failed creating request to %s with error=%w", u, err)
	}
	if body != nil {
		req.Header.Add(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	}
	if requestId := log.RequestIDFromContext(c); requestId != "" {
		req.Header.Add(inHttp.KEY_HEADER_REQUEST_ID, requestId)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, envelope{}, fmt.Errorf("failed requesting %s %s with error=%w", method, u, err)
	}
	defer resp.Body.Close()

	env := envelope{}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		return resp, envelope{}, fmt.Errorf("failed decoding response of %s %s with error=%w", method, u, err)
	}
	return resp, env, nil
}

func (s *Client) FetchLineItems(c context.Context, userId uuid.UUID) ([]model.LineItem, error) {
	c, span := otel.Tracer.Start(c, "Client FetchLineItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client FetchLineItems").
		Str(constants.KEY_USER_ID, userId.String()).
		Logger()

	query := url.Values{"userId": []string{userId.String()}}
	resp, env, err := s.do(c, http.MethodGet, "/cart-items", query, nil)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("store returned status code=%d with message=%s", resp.StatusCode, env.Message)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	items := []model.LineItem{}
	if err := json.Unmarshal(env.Data, &items); err != nil {
		err = fmt.Errorf("failed unmarshaling line items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return items, nil
}

func (s *Client) FindLineItem(
	c context.Context,
	userId, menuItemId uuid.UUID,
) (*model.LineItem, error) {
	c, span := otel.Tracer.Start(c, "Client FindLineItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client FindLineItem").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_MENU_ITEM_ID, menuItemId.String()).
		Logger()

	query := url.Values{
		"userId":     []string{userId.String()},
		"menuItemId": []string{menuItemId.String()},
	}
	resp, env, err := s.do(c, http.MethodGet, "/cart-items", query, nil)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("store returned status code=%d with message=%s", resp.StatusCode, env.Message)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	items := []model.LineItem{}
	if err := json.Unmarshal(env.Data, &items); err != nil {
		err = fmt.Errorf("failed unmarshaling line items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *Client) CreateLineItem(
	c context.Context,
	item model.LineItem,
) (model.LineItem, error) {
	c, span := otel.Tracer.Start(c, "Client CreateLineItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client CreateLineItem").
		Str(constants.KEY_USER_ID, item.UserID.String()).
		Str(constants.KEY_MENU_ITEM_ID, item.MenuItemID.String()).
		Logger()

	resp, env, err := s.do(c, http.MethodPost, "/cart-items", nil, item)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.LineItem{}, err
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("store returned status code=%d with message=%s", resp.StatusCode, env.Message)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.LineItem{}, err
	}

	created := model.LineItem{}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		err = fmt.Errorf("failed unmarshaling created line item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.LineItem{}, err
	}
	return created, nil
}

func (s *Client) UpdateLineItemQuantity(
	c context.Context,
	id uuid.UUID,
	quantity int32,
) error {
	c, span := otel.Tracer.Start(c, "Client UpdateLineItemQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client UpdateLineItemQuantity").
		Str(constants.KEY_LINE_ITEM_ID, id.String()).
		Int32(constants.KEY_LINE_ITEM_QUANTITY, quantity).
		Logger()

	body := map[string]int32{"quantity": quantity}
	resp, env, err := s.do(c, http.MethodPatch, "/cart-items/"+id.String(), nil, body)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("store returned status code=%d with message=%s", resp.StatusCode, env.Message)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (s *Client) DeleteLineItem(c context.Context, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "Client DeleteLineItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client DeleteLineItem").
		Str(constants.KEY_LINE_ITEM_ID, id.String()).
		Logger()

	resp, env, err := s.do(c, http.MethodDelete, "/cart-items/"+id.String(), nil, nil)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	// deleting a missing id counts as success
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		err = fmt.Errorf("store returned status code=%d with message=%s", resp.StatusCode, env.Message)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (s *Client) CreateOrder(c context.Context, order model.Order) (model.Order, error) {
	c, span := otel.Tracer.Start(c, "Client CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client CreateOrder").
		Str(constants.KEY_USER_ID, order.UserID.String()).
		Logger()

	resp, env, err := s.do(c, http.MethodPost, "/orders", nil, order)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("store returned status code=%d with message=%s", resp.StatusCode, env.Message)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}

	created := model.Order{}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		err = fmt.Errorf("failed unmarshaling created order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.Order{}, err
	}
	return created, nil
}

func (s *Client) FetchMenuItems(c context.Context) ([]model.MenuItem, error) {
	c, span := otel.Tracer.Start(c, "Client FetchMenuItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client FetchMenuItems").
		Logger()

	resp, env, err := s.do(c, http.MethodGet, "/menu-items", nil, nil)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("store returned status code=%d with message=%s", resp.StatusCode, env.Message)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	items := []model.MenuItem{}
	if err := json.Unmarshal(env.Data, &items); err != nil {
		err = fmt.Errorf("failed unmarshaling menu items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return items, nil
}

func (s *Client) FindMenuItem(c context.Context, id uuid.UUID) (model.MenuItem, error) {
	c, span := otel.Tracer.Start(c, "Client FindMenuItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client FindMenuItem").
		Str(constants.KEY_MENU_ITEM_ID, id.String()).
		Logger()

	resp, env, err := s.do(c, http.MethodGet, "/menu-items/"+id.String(), nil, nil)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.MenuItem{}, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return model.MenuItem{}, inErrors.ErrMenuItemNotFound
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("store returned status code=%d with message=%s", resp.StatusCode, env.Message)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.MenuItem{}, err
	}

	item := model.MenuItem{}
	if err := json.Unmarshal(env.Data, &item); err != nil {
		err = fmt.Errorf("failed unmarshaling menu item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return model.MenuItem{}, err
	}
	return item, nil
}
