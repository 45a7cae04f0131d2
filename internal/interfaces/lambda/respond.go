// Package lambda contains the API Gateway proxy handlers. Authentication
// happens upstream in the gateway's Cognito authorizer; handlers trust the
// subject claim it forwards.
package lambda

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

func corsHeaders(origin string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":      origin,
		"Access-Control-Allow-Credentials": "true",
		"Access-Control-Allow-Methods":     "GET,POST,OPTIONS",
		"Access-Control-Allow-Headers":     "Content-Type,Authorization,X-Amz-Date,X-Api-Key,X-Amz-Security-Token",
	}
}

func jsonResponse(status int, body any, origin string) events.APIGatewayProxyResponse {
	headers := corsHeaders(origin)
	headers["Content-Type"] = "application/json"

	encoded, err := json.Marshal(body)
	if err != nil {
		log.Printf("failed to encode response body: %v", err)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    headers,
			Body:       `{"error": "Internal server error"}`,
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(encoded),
	}
}

func errorResponse(status int, message, origin string) events.APIGatewayProxyResponse {
	return jsonResponse(status, map[string]string{"error": message}, origin)
}

func preflightResponse(origin string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders(origin),
		Body:       "",
	}
}

// callerID extracts the authenticated user from the Cognito authorizer
// claims attached by API Gateway.
func callerID(request events.APIGatewayProxyRequest) string {
	claims, ok := request.RequestContext.Authorizer["claims"].(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}
