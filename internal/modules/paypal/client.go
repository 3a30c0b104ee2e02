package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/config"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/checkout"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/donors"
)

// APIError is returned for any non-success PayPal response.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("paypal %s: status %d: %s", e.Op, e.StatusCode, truncate(e.Body, 200))
	}
	return fmt.Sprintf("paypal %s failed", e.Op)
}

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	maxRetries   int
	logger       *slog.Logger

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewClient(cfg config.PayPal, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.APIBaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: timeout},
		maxRetries:   retries,
		logger:       logger,
	}
}

func (c *Client) Name() string { return "paypal" }

func (c *Client) CreateOrder(ctx context.Context, req checkout.CreateOrderRequest) (checkout.CreateOrderResponse, error) {
	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"reference_id": req.ItemID,
			"amount": map[string]any{
				"currency_code": req.Currency,
				"value":         fmt.Sprintf("%.2f", req.Fee),
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return checkout.CreateOrderResponse{}, err
	}

	resp, err := c.doAuthed(ctx, http.MethodPost, "/v2/checkout/orders", body)
	if err != nil {
		return checkout.CreateOrderResponse{}, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return checkout.CreateOrderResponse{}, &APIError{Op: "create order", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return checkout.CreateOrderResponse{}, fmt.Errorf("paypal create order: decode: %w", err)
	}
	c.logger.InfoContext(ctx, "paypal order created", "order_id", out.ID, "status", out.Status)
	return checkout.CreateOrderResponse{ID: out.ID, Status: out.Status}, nil
}

// orderPayload mirrors the slice of the v2 orders response the capture flow
// needs: status, payer identity, and the first purchase unit's amount and
// shipping address.
type orderPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		Name struct {
			GivenName string `json:"given_name"`
			Surname   string `json:"surname"`
		} `json:"name"`
		EmailAddress string `json:"email_address"`
		Phone        struct {
			PhoneNumber struct {
				NationalNumber string `json:"national_number"`
			} `json:"phone_number"`
		} `json:"phone"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Amount struct {
			Value string `json:"value"`
		} `json:"amount"`
		Shipping struct {
			Address struct {
				AddressLine1 string `json:"address_line_1"`
				AddressLine2 string `json:"address_line_2"`
				AdminArea2   string `json:"admin_area_2"`
				AdminArea1   string `json:"admin_area_1"`
				PostalCode   string `json:"postal_code"`
				CountryCode  string `json:"country_code"`
			} `json:"address"`
		} `json:"shipping"`
	} `json:"purchase_units"`
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (checkout.OrderDetails, error) {
	if orderID == "" {
		return checkout.OrderDetails{}, &APIError{Op: "get order"}
	}

	resp, err := c.doAuthed(ctx, http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return checkout.OrderDetails{}, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return checkout.OrderDetails{}, &APIError{Op: "get order", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var p orderPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return checkout.OrderDetails{}, fmt.Errorf("paypal get order: decode: %w", err)
	}

	details := checkout.OrderDetails{
		ID:     p.ID,
		Status: p.Status,
		Payer: checkout.Payer{
			GivenName: p.Payer.Name.GivenName,
			Surname:   p.Payer.Name.Surname,
			Email:     p.Payer.EmailAddress,
			Phone:     p.Payer.Phone.PhoneNumber.NationalNumber,
		},
		Raw: raw,
	}
	if len(p.PurchaseUnits) > 0 {
		u := p.PurchaseUnits[0]
		if v, err := strconv.ParseFloat(u.Amount.Value, 64); err == nil {
			details.Amount = v
		}
		details.Shipping = donors.Address{
			Street:    u.Shipping.Address.AddressLine1,
			Apartment: u.Shipping.Address.AddressLine2,
			City:      u.Shipping.Address.AdminArea2,
			State:     u.Shipping.Address.AdminArea1,
			ZipCode:   u.Shipping.Address.PostalCode,
		}
	}
	return details, nil
}

func (c *Client) doAuthed(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			// exponential backoff before a retry
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
			}
		}

		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.logger.WarnContext(ctx, "paypal request failed, retrying",
				"path", path, "attempt", attempt+1, "err", err)
			continue
		}
		// 4xx responses are final; only server errors are worth retrying
		if resp.StatusCode >= 500 && attempt < c.maxRetries-1 {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = &APIError{Op: method + " " + path, StatusCode: resp.StatusCode, Body: string(b)}
			c.logger.WarnContext(ctx, "paypal server error, retrying",
				"path", path, "attempt", attempt+1, "status", resp.StatusCode)
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("paypal request: %w", lastErr)
}

// accessToken returns a cached OAuth token, refreshing it when it is within
// five minutes of expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(5*time.Minute).Before(c.tokenExp) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en_US")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Op: "token", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("paypal token: decode: %w", err)
	}
	if out.AccessToken == "" {
		return "", &APIError{Op: "token", StatusCode: resp.StatusCode, Body: "no access token in response"}
	}
	if out.ExpiresIn <= 0 {
		out.ExpiresIn = 3600
	}

	c.token = out.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	c.logger.InfoContext(ctx, "paypal access token refreshed")
	return c.token, nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
