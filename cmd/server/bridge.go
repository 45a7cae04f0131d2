package main

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

type proxyHandler func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// bridge adapts an API Gateway proxy handler to net/http for local
// development. The gateway's Cognito authorizer does not exist locally, so
// the caller identity comes from the X-User-ID header instead.
func bridge(handler proxyHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		headers := make(map[string]string, len(r.Header))
		for name := range r.Header {
			headers[name] = r.Header.Get(name)
		}

		query := make(map[string]string)
		for name := range r.URL.Query() {
			query[name] = r.URL.Query().Get(name)
		}

		request := events.APIGatewayProxyRequest{
			HTTPMethod:            r.Method,
			Path:                  r.URL.Path,
			Headers:               headers,
			QueryStringParameters: query,
			Body:                  string(body),
		}
		if userID := r.Header.Get("X-User-ID"); userID != "" {
			request.RequestContext.Authorizer = map[string]interface{}{
				"claims": map[string]interface{}{"sub": userID},
			}
		}

		response, err := handler(r.Context(), request)
		if err != nil {
			log.Printf("handler error: %v", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		for name, value := range response.Headers {
			w.Header().Set(name, value)
		}
		w.WriteHeader(response.StatusCode)
		if response.Body != "" {
			if _, err := w.Write([]byte(response.Body)); err != nil {
				log.Printf("failed to write response: %v", err)
			}
		}
	}
}

// methods dispatches by HTTP method so GET and POST on the same path reach
// different handlers.
func methods(handlers map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler(w, r)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
