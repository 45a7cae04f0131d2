package lambda

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"bract/internal/domain/notification"
	"bract/internal/domain/subscription"
)

// JobHandler exposes the scheduled jobs as Lambda entrypoints. EventBridge
// invokes them on a schedule; the proxy response shape keeps them callable
// through the gateway for manual runs.
type JobHandler struct {
	sync     *subscription.SyncService
	dispatch *notification.DispatchService
}

func NewJobHandler(sync *subscription.SyncService, dispatch *notification.DispatchService) *JobHandler {
	return &JobHandler{sync: sync, dispatch: dispatch}
}

// HandleSyncSubscriptions runs the subscription sync across all users and
// returns the run summary.
func (h *JobHandler) HandleSyncSubscriptions(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	summary := h.sync.Run(ctx)
	log.Printf("subscription sync complete: %d users, %d synced, %d new, %d errors",
		summary.TotalUsersProcessed, summary.TotalSubscriptionsSynced, summary.TotalNewSubscriptions, len(summary.Errors))
	return summaryResponse(summary), nil
}

// HandleSendReminders runs the reminder dispatch across all users and
// returns the run summary.
func (h *JobHandler) HandleSendReminders(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	summary := h.dispatch.Run(ctx)
	log.Printf("reminder dispatch complete: %d users, %d emails, %d errors",
		summary.TotalUsersProcessed, summary.TotalEmailsSent, len(summary.Errors))
	return summaryResponse(summary), nil
}

// summaryResponse skips the CORS headers; job invocations come from the
// scheduler, not a browser.
func summaryResponse(summary any) events.APIGatewayProxyResponse {
	encoded, err := json.Marshal(summary)
	if err != nil {
		log.Printf("failed to encode job summary: %v", err)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error": "Internal server error"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(encoded),
	}
}
