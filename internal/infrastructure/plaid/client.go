// Package plaid provides a thin client for the Plaid API operations used by
// the backend: link token creation, public token exchange, account listing,
// and recurring transaction detection.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	sandboxHost    = "https://sandbox.plaid.com"
	productionHost = "https://production.plaid.com"
	defaultTimeout = 30 * time.Second

	linkTokenPath = "/link/token/create"
	exchangePath  = "/item/public_token/exchange"
	accountsPath  = "/accounts/get"
	recurringPath = "/transactions/recurring/get"

	clientName = "Bract"
)

// Client handles communication with the Plaid API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new Plaid API client. The environment selector accepts
// sandbox, development, and production; Plaid only runs Sandbox and
// Production hosts, so development maps to sandbox.
func NewClient(clientID, secret, environment string) *Client {
	host := sandboxHost
	if environment == "production" {
		host = productionHost
	}

	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    host,
		clientID:   clientID,
		secret:     secret,
	}
}

// LinkTokenResult is the short-lived session token handed to the Link UI.
type LinkTokenResult struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
}

// ExchangeResult is the durable credential for a linked bank connection. The
// access token cannot be re-derived, so callers must persist it immediately.
type ExchangeResult struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// Account is an account summary from /accounts/get.
type Account struct {
	AccountID    string  `json:"account_id"`
	Name         string  `json:"name"`
	OfficialName *string `json:"official_name"`
	Type         string  `json:"type"`
	Subtype      *string `json:"subtype"`
	Mask         *string `json:"mask"`
}

// TransactionStream is one detected recurring pattern of transactions.
// Amounts stay json.Number so the payload re-serializes without
// floating-point drift.
type TransactionStream struct {
	StreamID                string                  `json:"stream_id"`
	AccountID               string                  `json:"account_id"`
	Description             string                  `json:"description"`
	MerchantName            string                  `json:"merchant_name"`
	Category                []string                `json:"category,omitempty"`
	PersonalFinanceCategory PersonalFinanceCategory `json:"personal_finance_category"`
	FirstDate               string                  `json:"first_date"`
	LastDate                string                  `json:"last_date"`
	Frequency               string                  `json:"frequency"`
	AverageAmount           StreamAmount            `json:"average_amount"`
	LastAmount              StreamAmount            `json:"last_amount"`
	IsActive                bool                    `json:"is_active"`
	Status                  string                  `json:"status"`
}

// PersonalFinanceCategory is Plaid's category assignment for a stream.
type PersonalFinanceCategory struct {
	Primary  string `json:"primary"`
	Detailed string `json:"detailed"`
}

// StreamAmount is a monetary amount as returned on a stream.
type StreamAmount struct {
	Amount          json.Number `json:"amount"`
	IsoCurrencyCode string      `json:"iso_currency_code"`
}

// RecurringStreams is the recurring transaction detection result. Outflow
// streams have already passed the subscription filter; inflow streams are
// returned as-is.
type RecurringStreams struct {
	OutflowStreams []TransactionStream `json:"outflow_streams"`
	InflowStreams  []TransactionStream `json:"inflow_streams"`
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenCreateRequest struct {
	ClientID     string        `json:"client_id"`
	Secret       string        `json:"secret"`
	ClientName   string        `json:"client_name"`
	Language     string        `json:"language"`
	CountryCodes []string      `json:"country_codes"`
	User         linkTokenUser `json:"user"`
	Products     []string      `json:"products"`
}

type exchangeRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	PublicToken string `json:"public_token"`
}

type accountsGetRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	AccessToken string `json:"access_token"`
}

type accountsGetResponse struct {
	Accounts []Account `json:"accounts"`
}

type recurringGetRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	AccessToken string `json:"access_token"`
}

// apiError is the error envelope Plaid returns on non-200 responses.
type apiError struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// CreateLinkToken requests a link session token scoped to the transactions
// product for a US/English Link flow.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (*LinkTokenResult, error) {
	request := linkTokenCreateRequest{
		ClientID:     c.clientID,
		Secret:       c.secret,
		ClientName:   clientName,
		Language:     "en",
		CountryCodes: []string{"US"},
		User:         linkTokenUser{ClientUserID: userID},
		Products:     []string{"transactions"},
	}

	var result LinkTokenResult
	if err := c.post(ctx, linkTokenPath, request, &result); err != nil {
		return nil, err
	}

	result.Expiration = normalizeExpiration(result.Expiration)
	return &result, nil
}

// ExchangePublicToken performs the one-shot public token exchange.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	request := exchangeRequest{
		ClientID:    c.clientID,
		Secret:      c.secret,
		PublicToken: publicToken,
	}

	var result ExchangeResult
	if err := c.post(ctx, exchangePath, request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAccounts fetches all accounts reachable through an access token.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	request := accountsGetRequest{
		ClientID:    c.clientID,
		Secret:      c.secret,
		AccessToken: accessToken,
	}

	var response accountsGetResponse
	if err := c.post(ctx, accountsPath, request, &response); err != nil {
		return nil, err
	}
	return response.Accounts, nil
}

// GetRecurringStreams fetches recurring transaction detection results and
// runs outflow streams through the subscription filter. Inflow streams
// (salary and the like) pass through unfiltered.
func (c *Client) GetRecurringStreams(ctx context.Context, accessToken string) (*RecurringStreams, error) {
	request := recurringGetRequest{
		ClientID:    c.clientID,
		Secret:      c.secret,
		AccessToken: accessToken,
	}

	var streams RecurringStreams
	if err := c.post(ctx, recurringPath, request, &streams); err != nil {
		return nil, err
	}

	streams.OutflowStreams = FilterSubscriptionStreams(streams.OutflowStreams)
	return &streams, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp apiError
		if err := json.Unmarshal(respBody, &errResp); err != nil || errResp.ErrorCode == "" {
			return fmt.Errorf("plaid request failed with status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("plaid error (status %d): %s - %s", resp.StatusCode, errResp.ErrorCode, errResp.ErrorMessage)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// normalizeExpiration re-formats the link token expiration as RFC 3339
// regardless of the precision the API used. Unparseable values pass through
// untouched.
func normalizeExpiration(raw string) string {
	if raw == "" {
		return raw
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return raw
	}
	return t.UTC().Format(time.RFC3339)
}
