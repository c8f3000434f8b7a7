package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/leoman8109754gmailcom/mcm-cleaning/cmd/mainconfig"
	appconfig "github.com/leoman8109754gmailcom/mcm-cleaning/internal/config"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/contact"
	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	sender, err := mainconfig.NewEmailSender(context.Background(), cfg, nil, logger)
	if err != nil {
		logger.Error("failed to build email sender", "error", err)
		os.Exit(1)
	}
	relay := contact.NewRelay(cfg.Contact(), sender, nil, logger)

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, relay, evt)
	})
}

func handle(ctx context.Context, relay *contact.Relay, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if path == "/health" || path == "/_health" {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok"}, nil
	}

	var body []byte
	if method == http.MethodPost {
		decoded, err := decodeBody(evt)
		if err != nil {
			return respond(contact.Response{
				StatusCode: http.StatusBadRequest,
				Body:       contact.ErrorBody{Error: contact.MsgInvalidJSON},
			}), nil
		}
		body = decoded
	}

	return respond(relay.Handle(ctx, method, body)), nil
}

func respond(resp contact.Response) events.APIGatewayV2HTTPResponse {
	out := events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Body:       string(resp.JSON()),
		Headers:    map[string]string{"content-type": "application/json"},
	}
	if resp.StatusCode == http.StatusMethodNotAllowed {
		out.Headers["allow"] = http.MethodPost
	}
	return out
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}
