// Package apigw adapts API Gateway proxy events to the operation dispatcher.
package apigw

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jacentio/shelf/dispatch"
	"github.com/jacentio/shelf/internal/httperr"
	"github.com/jacentio/shelf/library"
)

// Handler serves API Gateway proxy requests.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
}

// NewHandler creates a new proxy handler.
func NewHandler(d *dispatch.Dispatcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dispatcher: d,
		logger:     logger,
	}
}

// Handle dispatches one proxy event. Operation failures are returned as
// error responses, never as a Lambda error.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := RequestID(ctx, event)
	log := h.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", event.HTTPMethod),
		zap.String("resource", event.Resource),
	)

	body, err := decodeBody(event)
	if err != nil {
		return h.fail(log, requestID, err), nil
	}

	out, err := h.dispatcher.Dispatch(ctx, dispatch.Context{
		Method:          event.HTTPMethod,
		Resource:        event.Resource,
		PathParameters:  event.PathParameters,
		QueryParameters: event.QueryStringParameters,
		Body:            body,
		RequestID:       requestID,
	})
	if err != nil {
		return h.fail(log, requestID, err), nil
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return h.fail(log, requestID, err), nil
	}
	log.Info("operation completed")
	return response(200, payload, requestID), nil
}

func (h *Handler) fail(log *zap.Logger, requestID string, err error) events.APIGatewayProxyResponse {
	status := httperr.Status(err)
	log.Error("operation failed", zap.Int("status", status), zap.Error(err))
	return response(status, httperr.Body(err, requestID), requestID)
}

// RequestID returns the Lambda invocation id, falling back to the API
// Gateway request id and then to a fresh UUID.
func RequestID(ctx context.Context, event events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	if event.RequestContext.RequestID != "" {
		return event.RequestContext.RequestID
	}
	return uuid.NewString()
}

func decodeBody(event events.APIGatewayProxyRequest) (string, error) {
	if !event.IsBase64Encoded {
		return event.Body, nil
	}
	b, err := base64.StdEncoding.DecodeString(event.Body)
	if err != nil {
		return "", library.NewArgumentError("Malformed request body: %v", err)
	}
	return string(b), nil
}

func response(status int, body []byte, requestID string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"X-Request-ID": requestID,
		},
		Body: string(body),
	}
}
