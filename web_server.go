package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/sirupsen/logrus"

	"sms-splitter/smpp/segment"
)

// newWebApp builds the HTTP API around gateway.
func newWebApp(gateway *Gateway) *iris.Application {
	app := iris.New()
	app.Logger().SetLevel("disable")
	app.UseRouter(corsMiddleware)

	api := app.Party("/api/v1/sms")
	api.Post("/send", gateway.webSendSMS)
	api.Get("/health", gateway.webHealthCheck)

	return app
}

// corsMiddleware allows any origin and answers preflight requests directly.
func corsMiddleware(ctx iris.Context) {
	ctx.Header("Access-Control-Allow-Origin", "*")
	if ctx.Method() == http.MethodOptions {
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		ctx.Header("Access-Control-Max-Age", "3600")
		ctx.StatusCode(http.StatusNoContent)
		return
	}
	ctx.Next()
}

func (gateway *Gateway) webSendSMS(ctx iris.Context) {
	var req SMSRequest
	if err := ctx.ReadJSON(&req); err != nil {
		logf := LoggingFormat{Type: LogType.Web, Level: logrus.InfoLevel, Message: "malformed request body", Error: err}
		logf.AddField("client_ip", ctx.RemoteAddr())
		logf.Print()

		gateway.Stats.Reject("malformed")
		writeError(ctx, http.StatusBadRequest, "Malformed JSON request body")
		return
	}

	report, err := gateway.ProcessSMS(req, ctx.RemoteAddr())
	if err != nil {
		status, message := errorStatus(err)
		writeError(ctx, status, message)
		return
	}

	ctx.StatusCode(http.StatusOK)
	ctx.JSON(report)
}

func (gateway *Gateway) webHealthCheck(ctx iris.Context) {
	ctx.StatusCode(http.StatusOK)
	ctx.JSON(HealthResponse{
		Status:  "UP",
		Service: gateway.ServiceName,
		Version: gateway.ServiceVersion,
	})
}

// errorStatus maps a segmentation error to its HTTP status and client message.
// Internal failures never expose their detail.
func errorStatus(err error) (int, string) {
	var validation *segment.ValidationError
	var unsupported *segment.UnsupportedCharacterError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Reason
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, unsupported.Error()
	default:
		return http.StatusInternalServerError, "An unexpected error occurred while processing the message"
	}
}

func writeError(ctx iris.Context, status int, message string) {
	ctx.StatusCode(status)
	ctx.JSON(ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
	})
}
