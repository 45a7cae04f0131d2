package lambda

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"bract/internal/infrastructure/plaid"
	"bract/internal/models"
)

// LinkHandler serves the bank linking flow: link token creation, public
// token exchange, and the account and subscription reads backed by it.
type LinkHandler struct {
	client        plaid.ClientInterface
	institutions  models.InstitutionRepository
	accounts      models.AccountRepository
	allowedOrigin string
}

func NewLinkHandler(client plaid.ClientInterface, institutions models.InstitutionRepository, accounts models.AccountRepository, allowedOrigin string) *LinkHandler {
	return &LinkHandler{
		client:        client,
		institutions:  institutions,
		accounts:      accounts,
		allowedOrigin: allowedOrigin,
	}
}

// HandleCreateLinkToken issues a short-lived link token for the caller.
func (h *LinkHandler) HandleCreateLinkToken(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return preflightResponse(h.allowedOrigin), nil
	}

	userID := callerID(request)
	if userID == "" {
		return errorResponse(http.StatusBadRequest, "User ID is required", h.allowedOrigin), nil
	}

	token, err := h.client.CreateLinkToken(ctx, userID)
	if err != nil {
		log.Printf("failed to create link token for user %s: %v", userID, err)
		return errorResponse(http.StatusInternalServerError, err.Error(), h.allowedOrigin), nil
	}

	return jsonResponse(http.StatusOK, token, h.allowedOrigin), nil
}

type exchangeTokenRequest struct {
	PublicToken     string `json:"public_token"`
	InstitutionID   string `json:"institution_id"`
	InstitutionName string `json:"institution_name"`
}

// HandleExchangeToken trades a public token for a durable access token and
// persists the institution and its accounts. The institution record is
// written before the account fetch so the access token survives a partial
// failure.
func (h *LinkHandler) HandleExchangeToken(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return preflightResponse(h.allowedOrigin), nil
	}

	userID := callerID(request)
	if userID == "" {
		return errorResponse(http.StatusBadRequest, "User ID is required", h.allowedOrigin), nil
	}

	var body exchangeTokenRequest
	if err := json.Unmarshal([]byte(request.Body), &body); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request body", h.allowedOrigin), nil
	}
	if body.PublicToken == "" || body.InstitutionID == "" || body.InstitutionName == "" {
		return errorResponse(http.StatusBadRequest, "Missing required fields", h.allowedOrigin), nil
	}

	exchange, err := h.client.ExchangePublicToken(ctx, body.PublicToken)
	if err != nil {
		log.Printf("failed to exchange public token for user %s: %v", userID, err)
		return errorResponse(http.StatusInternalServerError, err.Error(), h.allowedOrigin), nil
	}

	now := time.Now().UTC()
	institution := &models.Institution{
		UserID:          userID,
		ItemID:          exchange.ItemID,
		AccessToken:     exchange.AccessToken,
		InstitutionID:   body.InstitutionID,
		InstitutionName: body.InstitutionName,
		Status:          models.InstitutionStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := h.institutions.Put(ctx, institution); err != nil {
		log.Printf("failed to store institution for user %s: %v", userID, err)
		return errorResponse(http.StatusInternalServerError, err.Error(), h.allowedOrigin), nil
	}

	accounts, err := h.client.GetAccounts(ctx, exchange.AccessToken)
	if err != nil {
		log.Printf("failed to fetch accounts for user %s: %v", userID, err)
		return errorResponse(http.StatusInternalServerError, err.Error(), h.allowedOrigin), nil
	}

	for _, account := range accounts {
		record := &models.Account{
			UserID:       userID,
			AccountID:    account.AccountID,
			ItemID:       exchange.ItemID,
			Name:         account.Name,
			OfficialName: account.OfficialName,
			Type:         account.Type,
			Subtype:      account.Subtype,
			Mask:         account.Mask,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := h.accounts.Put(ctx, record); err != nil {
			log.Printf("failed to store account %s for user %s: %v", account.AccountID, userID, err)
			return errorResponse(http.StatusInternalServerError, err.Error(), h.allowedOrigin), nil
		}
	}

	return jsonResponse(http.StatusOK, map[string]string{
		"message": "Successfully linked account",
		"item_id": exchange.ItemID,
	}, h.allowedOrigin), nil
}

type accountResponse struct {
	AccountID    string  `json:"account_id"`
	Name         string  `json:"name"`
	OfficialName *string `json:"official_name"`
	Type         string  `json:"type"`
	Subtype      *string `json:"subtype"`
	Mask         *string `json:"mask"`
}

// HandleGetAccounts returns the caller's stored accounts.
func (h *LinkHandler) HandleGetAccounts(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return preflightResponse(h.allowedOrigin), nil
	}

	userID := callerID(request)
	if userID == "" {
		return errorResponse(http.StatusBadRequest, "User ID is required", h.allowedOrigin), nil
	}

	accounts, err := h.accounts.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("failed to list accounts for user %s: %v", userID, err)
		return errorResponse(http.StatusInternalServerError, err.Error(), h.allowedOrigin), nil
	}

	response := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, accountResponse{
			AccountID:    account.AccountID,
			Name:         account.Name,
			OfficialName: account.OfficialName,
			Type:         account.Type,
			Subtype:      account.Subtype,
			Mask:         account.Mask,
		})
	}

	return jsonResponse(http.StatusOK, map[string]any{"accounts": response}, h.allowedOrigin), nil
}

// HandleGetSubscriptions fetches live recurring streams for the caller's
// first linked institution.
func (h *LinkHandler) HandleGetSubscriptions(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return preflightResponse(h.allowedOrigin), nil
	}

	userID := callerID(request)
	if userID == "" {
		return errorResponse(http.StatusBadRequest, "User ID is required", h.allowedOrigin), nil
	}

	institutions, err := h.institutions.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("failed to list institutions for user %s: %v", userID, err)
		return errorResponse(http.StatusInternalServerError, err.Error(), h.allowedOrigin), nil
	}
	if len(institutions) == 0 {
		return errorResponse(http.StatusNotFound, "No linked institutions found for user", h.allowedOrigin), nil
	}

	// One institution per user covers the current product. Extending this to
	// merge streams across institutions only needs a loop here.
	streams, err := h.client.GetRecurringStreams(ctx, institutions[0].AccessToken)
	if err != nil {
		log.Printf("failed to fetch recurring streams for user %s: %v", userID, err)
		return errorResponse(http.StatusInternalServerError, err.Error(), h.allowedOrigin), nil
	}

	return jsonResponse(http.StatusOK, streams, h.allowedOrigin), nil
}
