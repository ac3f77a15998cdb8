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

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	pacttest "github.com/Iron-Mark/MSiazon-MarketWebsite/test/pact"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	ImageURL string  `json:"imageUrl"`
}

type order struct {
	ID     int64   `json:"id"`
	Total  float64 `json:"total"`
	Status string  `json:"status"`
}

type apiError struct {
	status  int
	message string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.message, e.status)
}

func TestStorefrontContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	productMatcher := matchers.Map{
		"id":       matchers.Like(pacttest.ExistingProductID),
		"name":     matchers.Like("Strawberry Macaroon"),
		"price":    matchers.Like(2.5),
		"image":    matchers.Like("strawberry.jpg"),
		"imageUrl": matchers.Like("https://macaroon-assets.s3.us-east-1.amazonaws.com/strawberry.jpg"),
	}
	orderMatcher := matchers.Map{
		"id":        matchers.Like(pacttest.ExistingOrderID),
		"name":      matchers.Like("Mika Santos"),
		"address":   matchers.Like("12 Ube Street, Quezon City"),
		"total":     matchers.Like(8.5),
		"status":    matchers.Like("pending"),
		"createdAt": matchers.Like("2026-03-01T12:00:00Z"),
		"orderItems": matchers.ArrayMinLike(matchers.Map{
			"productName":  matchers.Like("Ube Macaroon"),
			"productPrice": matchers.Like(2.75),
			"quantity":     matchers.Like(2),
		}, 1),
	}
	failure := func(message string) matchers.Map {
		return matchers.Map{
			"success": matchers.Like(false),
			"message": matchers.S(message),
		}
	}

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for the product catalog").
		WithRequest("GET", "/api/products").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"data":    matchers.ArrayMinLike(productMatcher, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for an existing product").
		WithRequest("GET", fmt.Sprintf("/api/products/%d", pacttest.ExistingProductID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"data":    productMatcher,
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", fmt.Sprintf("/api/products/%d", pacttest.MissingProductID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(failure("Product not found"))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a checkout").
		WithRequest("POST", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleCheckout())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"data":    orderMatcher,
				"message": matchers.S("Order created successfully"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a status update for an existing order").
		WithRequest("PUT", fmt.Sprintf("/api/orders/%d/status", pacttest.ExistingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"status": "shipped"})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"data":    orderMatcher,
				"message": matchers.S("Order status updated successfully"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", fmt.Sprintf("/api/orders/%d", pacttest.MissingOrderID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(failure("Order not found"))
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var products []product
		if err := client.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if len(products) == 0 {
			return fmt.Errorf("expected a seeded catalog")
		}

		var single product
		if err := client.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", pacttest.ExistingProductID), nil, &single); err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if single.ImageURL == "" {
			return fmt.Errorf("expected an image url on product %d", single.ID)
		}
		if err := expectStatus(client.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", pacttest.MissingProductID), nil, nil), http.StatusNotFound); err != nil {
			return err
		}

		var created order
		if err := client.do(ctx, http.MethodPost, "/api/orders", pacttest.ExampleCheckout(), &created); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if created.ID == 0 || created.Total <= 0 {
			return fmt.Errorf("unexpected created order %+v", created)
		}

		var updated order
		if err := client.do(ctx, http.MethodPut, fmt.Sprintf("/api/orders/%d/status", pacttest.ExistingOrderID), map[string]any{"status": "shipped"}, &updated); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return expectStatus(client.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", pacttest.MissingOrderID), nil, nil), http.StatusNotFound)
	})
	require.NoError(t, err)
}

func expectStatus(err error, status int) error {
	apiErr, ok := err.(apiError)
	if !ok {
		return fmt.Errorf("expected status %d, got %v", status, err)
	}
	if apiErr.status != status {
		return fmt.Errorf("expected status %d, got %d", status, apiErr.status)
	}
	return nil
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

// do sends body as JSON when non-nil and decodes the envelope data into out.
func (c *storefrontClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
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

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest || !env.Success {
		return apiError{status: res.StatusCode, message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
