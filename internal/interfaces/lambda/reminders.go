package lambda

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"bract/internal/models"
)

// ReminderHandler serves reminder preference reads and writes.
type ReminderHandler struct {
	reminders     models.ReminderRepository
	allowedOrigin string
}

func NewReminderHandler(reminders models.ReminderRepository, allowedOrigin string) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, allowedOrigin: allowedOrigin}
}

type amountResponse struct {
	Amount          float64 `json:"amount"`
	IsoCurrencyCode string  `json:"iso_currency_code"`
}

type reminderResponse struct {
	UserID             string          `json:"user_id"`
	StreamID           string          `json:"stream_id"`
	ReminderDaysBefore int             `json:"reminder_days_before"`
	DeliveryMethod     string          `json:"delivery_method"`
	MerchantName       string          `json:"merchant_name,omitempty"`
	LastAmount         *amountResponse `json:"last_amount,omitempty"`
	Frequency          string          `json:"frequency,omitempty"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

// HandleGetReminders returns the caller's reminder preferences. Stored
// amounts are exact decimals; they are rendered as floats only here, at the
// JSON edge.
func (h *ReminderHandler) HandleGetReminders(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return preflightResponse(h.allowedOrigin), nil
	}

	userID := callerID(request)
	if userID == "" {
		return errorResponse(http.StatusBadRequest, "User ID is required", h.allowedOrigin), nil
	}

	preferences, err := h.reminders.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("failed to list reminders for user %s: %v", userID, err)
		return errorResponse(http.StatusInternalServerError, err.Error(), h.allowedOrigin), nil
	}

	response := make([]reminderResponse, 0, len(preferences))
	for _, preference := range preferences {
		item := reminderResponse{
			UserID:             preference.UserID,
			StreamID:           preference.StreamID,
			ReminderDaysBefore: preference.ReminderDaysBefore,
			DeliveryMethod:     preference.DeliveryMethod,
			MerchantName:       preference.MerchantName,
			Frequency:          preference.Frequency,
			CreatedAt:          preference.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:          preference.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if !preference.LastAmount.IsZero() {
			item.LastAmount = &amountResponse{
				Amount:          preference.LastAmount.Amount.InexactFloat64(),
				IsoCurrencyCode: preference.LastAmount.Currency,
			}
		}
		response = append(response, item)
	}

	return jsonResponse(http.StatusOK, map[string]any{"reminders": response}, h.allowedOrigin), nil
}

type setReminderRequest struct {
	StreamID           string `json:"stream_id"`
	ReminderDaysBefore *int   `json:"reminder_days_before"`
	DeliveryMethod     string `json:"delivery_method"`
}

// HandleSetReminder creates or updates the reminder settings for one stream.
// Updates preserve created_at and any synced subscription details.
func (h *ReminderHandler) HandleSetReminder(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return preflightResponse(h.allowedOrigin), nil
	}

	userID := callerID(request)
	if userID == "" {
		return errorResponse(http.StatusBadRequest, "User ID is required", h.allowedOrigin), nil
	}

	var body setReminderRequest
	if err := json.Unmarshal([]byte(request.Body), &body); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request body", h.allowedOrigin), nil
	}
	if body.StreamID == "" {
		return errorResponse(http.StatusBadRequest, "stream_id is required", h.allowedOrigin), nil
	}

	days := models.DefaultReminderDaysBefore
	if body.ReminderDaysBefore != nil {
		days = *body.ReminderDaysBefore
	}
	method := body.DeliveryMethod
	if method == "" {
		method = models.DefaultDeliveryMethod
	}

	existing, err := h.reminders.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("failed to list reminders for user %s: %v", userID, err)
		return errorResponse(http.StatusInternalServerError, err.Error(), h.allowedOrigin), nil
	}

	now := time.Now().UTC()
	found := false
	for _, preference := range existing {
		if preference.StreamID == body.StreamID {
			found = true
			break
		}
	}

	if found {
		fields := map[string]any{
			"reminder_days_before": days,
			"delivery_method":      method,
			"updated_at":           now,
		}
		err = h.reminders.UpdateFields(ctx, userID, body.StreamID, fields)
	} else {
		err = h.reminders.Put(ctx, &models.ReminderPreference{
			UserID:             userID,
			StreamID:           body.StreamID,
			ReminderDaysBefore: days,
			DeliveryMethod:     method,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	if err != nil {
		log.Printf("failed to store reminder for user %s: %v", userID, err)
		return errorResponse(http.StatusInternalServerError, err.Error(), h.allowedOrigin), nil
	}

	return jsonResponse(http.StatusOK, map[string]string{"message": "Reminder set"}, h.allowedOrigin), nil
}
