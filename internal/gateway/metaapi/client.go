package metaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/projexfx/signal-trader/internal/gateway"
)

// MetaApi cloud endpoints. The provisioning API manages account lifecycle,
// the client API exposes the terminal RPC surface.
const (
	DefaultProvisioningURL = "https://mt-provisioning-api-v1.agiliumtrade.agiliumtrade.ai"
	DefaultClientURL       = "https://mt-client-api-v1.agiliumtrade.agiliumtrade.ai"
)

// Config holds the configuration for the MetaApi gateway client.
type Config struct {
	APIKey          string
	AccountID       string
	ProvisioningURL string
	ClientURL       string
	HTTPTimeout     time.Duration
	PollInterval    time.Duration
	DeployTimeout   time.Duration
	SyncTimeout     time.Duration
}

// Client talks to the MetaApi cloud bridge over REST. It implements
// gateway.Gateway.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	retryConfig RetryConfig
}

var _ gateway.Gateway = (*Client)(nil)

// NewClient creates a MetaApi gateway client. Zero config fields fall back
// to the cloud defaults.
func NewClient(cfg Config) *Client {
	if cfg.ProvisioningURL == "" {
		cfg.ProvisioningURL = DefaultProvisioningURL
	}
	if cfg.ClientURL == "" {
		cfg.ClientURL = DefaultClientURL
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.DeployTimeout == 0 {
		cfg.DeployTimeout = 5 * time.Minute
	}
	if cfg.SyncTimeout == 0 {
		cfg.SyncTimeout = 5 * time.Minute
	}
	return &Client{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: cfg.HTTPTimeout},
		retryConfig: DefaultRetryConfig(),
	}
}

// accountState mirrors the provisioning API's account document.
type accountState struct {
	ID               string `json:"_id"`
	State            string `json:"state"`
	ConnectionStatus string `json:"connectionStatus"`
}

func (s accountState) deployed() bool {
	return s.State == "DEPLOYING" || s.State == "DEPLOYED"
}

// Connect deploys the account if it is not already deployed, waits for the
// broker connection, and waits for terminal synchronization. Each step
// blocks until it completes, fails, or the context is cancelled.
func (c *Client) Connect(ctx context.Context) error {
	state, err := c.getAccountState(ctx)
	if err != nil {
		return fmt.Errorf("fetch account state: %w", err)
	}

	if !state.deployed() {
		if err := c.deploy(ctx); err != nil {
			return fmt.Errorf("deploy account: %w", err)
		}
	}

	if err := c.waitConnected(ctx); err != nil {
		return fmt.Errorf("wait for broker connection: %w", err)
	}

	if err := c.waitSynchronized(ctx); err != nil {
		return fmt.Errorf("wait for terminal synchronization: %w", err)
	}

	return nil
}

// Disconnect is a no-op for the REST bridge; the account stays deployed so
// the next command does not pay the deploy cost again.
func (c *Client) Disconnect() error {
	return nil
}

// AccountInformation fetches login, balance and currency for the connected
// account.
func (c *Client) AccountInformation(ctx context.Context) (*gateway.AccountInformation, error) {
	var payload struct {
		Login    int64   `json:"login"`
		Balance  float64 `json:"balance"`
		Currency string  `json:"currency"`
	}
	url := fmt.Sprintf("%s/users/current/accounts/%s/account-information", c.cfg.ClientURL, c.cfg.AccountID)
	if err := c.call(ctx, http.MethodGet, url, nil, &payload); err != nil {
		return nil, err
	}
	return &gateway.AccountInformation{
		Login:    payload.Login,
		Balance:  payload.Balance,
		Currency: payload.Currency,
	}, nil
}

// SymbolPrice fetches the current bid/ask quote for a symbol.
func (c *Client) SymbolPrice(ctx context.Context, symbol string) (*gateway.SymbolPrice, error) {
	var payload struct {
		Bid float64 `json:"bid"`
		Ask float64 `json:"ask"`
	}
	url := fmt.Sprintf("%s/users/current/accounts/%s/symbols/%s/current-price", c.cfg.ClientURL, c.cfg.AccountID, symbol)
	if err := c.call(ctx, http.MethodGet, url, nil, &payload); err != nil {
		return nil, err
	}
	return &gateway.SymbolPrice{Bid: payload.Bid, Ask: payload.Ask}, nil
}

func (c *Client) getAccountState(ctx context.Context) (accountState, error) {
	var state accountState
	url := fmt.Sprintf("%s/users/current/accounts/%s", c.cfg.ProvisioningURL, c.cfg.AccountID)
	err := c.call(ctx, http.MethodGet, url, nil, &state)
	return state, err
}

func (c *Client) deploy(ctx context.Context) error {
	url := fmt.Sprintf("%s/users/current/accounts/%s/deploy", c.cfg.ProvisioningURL, c.cfg.AccountID)
	return c.call(ctx, http.MethodPost, url, nil, nil)
}

// waitConnected polls the provisioning API until the account reports a
// live broker connection.
func (c *Client) waitConnected(ctx context.Context) error {
	return c.poll(ctx, c.cfg.DeployTimeout, func(ctx context.Context) (bool, error) {
		state, err := c.getAccountState(ctx)
		if err != nil {
			return false, err
		}
		return state.State == "DEPLOYED" && state.ConnectionStatus == "CONNECTED", nil
	})
}

// waitSynchronized polls the client API until the terminal state has been
// synchronized and account information is served.
func (c *Client) waitSynchronized(ctx context.Context) error {
	return c.poll(ctx, c.cfg.SyncTimeout, func(ctx context.Context) (bool, error) {
		if _, err := c.AccountInformation(ctx); err != nil {
			// The client API answers 404 until synchronization finishes.
			if apiErr, ok := err.(*APIError); ok && apiErr.Status == http.StatusNotFound {
				return false, nil
			}
			return false, err
		}
		return true, nil
	})
}

func (c *Client) poll(ctx context.Context, timeout time.Duration, ready func(context.Context) (bool, error)) error {
	deadline := time.Now().Add(timeout)
	for {
		ok, err := ready(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out after %s", timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.PollInterval):
		}
	}
}

// call performs one authenticated REST request with the retry policy and
// decodes the JSON response into out when provided.
func (c *Client) call(ctx context.Context, method, url string, body, out any) error {
	return c.retry(ctx, func() error {
		var reader io.Reader
		if body != nil {
			encoded, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("encode request: %w", err)
			}
			reader = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return err
		}
		req.Header.Set("auth-token", c.cfg.APIKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := &APIError{Status: resp.StatusCode}
			data, _ := io.ReadAll(resp.Body)
			if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil || apiErr.Message == "" {
				apiErr.Message = string(data)
			}
			apiErr.Status = resp.StatusCode
			return apiErr
		}

		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
}
