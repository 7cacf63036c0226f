//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/storefront-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type placedOrder struct {
	Message     string `json:"message"`
	OrderID     int64  `json:"order_id"`
	TotalAmount string `json:"total_amount"`
}

type orderDetail struct {
	Order struct {
		OrderID int64  `json:"order_id"`
		UserID  int64  `json:"user_id"`
		Status  string `json:"status"`
	} `json:"order"`
	Items []struct {
		ProductID int64  `json:"product_id"`
		Quantity  int64  `json:"quantity"`
		Subtotal  string `json:"subtotal"`
	} `json:"items"`
}

type product struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"product_name"`
	Price     string `json:"price"`
}

type registered struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type problemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail"`
	Extensions map[string]any `json:"extensions"`
}

type apiError struct {
	status int
	reason string
	title  string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s (status %d, reason %q)", e.title, e.status, e.reason)
}

func TestStorefrontWebContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")

	pact.AddInteraction().
		Given(pacttest.StateProductInStock).
		UponReceiving("a request to place an order for two shirts").
		WithRequest("POST", "/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleOrderPayload(2))
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message":      matchers.Like("order placed"),
				"order_id":     matchers.Like(pacttest.ExistingOrderID),
				"total_amount": matchers.S("170000.00"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductLowStock).
		UponReceiving("a request to place an order exceeding stock").
		WithRequest("POST", "/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleOrderPayload(3))
		}).
		WillRespondWith(http.StatusConflict, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/conflict"),
				"status": matchers.Like(http.StatusConflict),
				"extensions": matchers.Map{
					"reason": matchers.S("insufficient_stock"),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request for an existing order").
		WithRequest("GET", fmt.Sprintf("/orders/%d", pacttest.ExistingOrderID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"order": matchers.Map{
					"order_id": matchers.Like(pacttest.ExistingOrderID),
					"user_id":  matchers.Like(pacttest.CustomerID),
					"status":   matchers.Term("pending", "pending|processing|shipped|delivered|cancelled"),
				},
				"items": matchers.EachLike(matchers.Map{
					"product_id": matchers.Like(pacttest.ExistingProductID),
					"quantity":   matchers.Like(2),
					"subtotal":   matchers.Like("170000.00"),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", fmt.Sprintf("/orders/%d", pacttest.MissingOrderID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for products in a price band, most expensive first").
		WithRequest("GET", "/products", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("min_price", matchers.S("100000"))
			b.Query("max_price", matchers.S("200000"))
			b.Query("sort_by", matchers.S("price"))
			b.Query("order", matchers.S("DESC"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(matchers.Map{
				"product_id":   matchers.Like(int64(2)),
				"product_name": matchers.Like(pacttest.ProductName),
				"price":        matchers.Term("150000.00", "^\\d+\\.\\d{2}$"),
			}, 2))
		})

	pact.AddInteraction().
		Given(pacttest.StateUsersBaseline).
		UponReceiving("a request to register a customer").
		WithRequest("POST", "/register", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"username": pacttest.Username, "password": pacttest.Password})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"user_id":  matchers.Like(int64(1)),
				"username": matchers.S(pacttest.Username),
				"role":     matchers.S("customer"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var placed placedOrder
		if err := client.do(ctx, http.MethodPost, "/orders", pacttest.ExampleOrderPayload(2), &placed); err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if placed.OrderID == 0 || placed.TotalAmount != "170000.00" {
			return fmt.Errorf("unexpected placement %+v", placed)
		}

		err := client.do(ctx, http.MethodPost, "/orders", pacttest.ExampleOrderPayload(3), nil)
		if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusConflict || apiErr.reason != "insufficient_stock" {
			return fmt.Errorf("expected insufficient stock conflict, got %v", err)
		}

		var detail orderDetail
		if err := client.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", pacttest.ExistingOrderID), nil, &detail); err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if len(detail.Items) == 0 || detail.Order.OrderID != pacttest.ExistingOrderID {
			return fmt.Errorf("unexpected order detail %+v", detail)
		}

		err = client.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", pacttest.MissingOrderID), nil, nil)
		if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %v", err)
		}

		var products []product
		if err := client.do(ctx, http.MethodGet, "/products?min_price=100000&max_price=200000&sort_by=price&order=DESC", nil, &products); err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if len(products) < 2 {
			return fmt.Errorf("expected at least two products, got %d", len(products))
		}

		var user registered
		if err := client.do(ctx, http.MethodPost, "/register", map[string]any{"username": pacttest.Username, "password": pacttest.Password}, &user); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		if user.Role != "customer" {
			return fmt.Errorf("expected customer role, got %q", user.Role)
		}
		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *storefrontClient) do(ctx context.Context, method, path string, body any, out any) error {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	reason, _ := problem.Extensions["reason"].(string)
	return apiError{status: status, reason: reason, title: problem.Title}
}
