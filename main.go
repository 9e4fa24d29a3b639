package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		logf := LoggingFormat{Type: LogType.Startup, Level: logrus.FatalLevel, Message: "invalid configuration", Error: err}
		logf.Print()
		os.Exit(1)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway, err := NewGateway(ctx, cfg)
	if err != nil {
		logf := LoggingFormat{Type: LogType.Startup, Level: logrus.FatalLevel, Message: "failed to create gateway", Error: err}
		logf.Print()
		os.Exit(1)
	}
	defer gateway.Close()

	if cfg.MetricsListen != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(NewMetricExporter(uuid.New().String(), gateway))

		exporter := &PrometheusExporter{Path: "/metrics", Listen: cfg.MetricsListen, Registry: registry}
		go func() {
			if err := exporter.Start(); err != nil {
				logf := LoggingFormat{Type: LogType.Metrics, Level: logrus.ErrorLevel, Message: "metrics exporter stopped", Error: err}
				logf.Print()
			}
		}()
	}

	listener, err := newListener(cfg.WebListen, cfg.ProxyProtocol)
	if err != nil {
		logf := LoggingFormat{Type: LogType.Startup, Level: logrus.FatalLevel, Message: "failed to listen", Error: err}
		logf.AddField("listen", cfg.WebListen)
		logf.Print()
		os.Exit(1)
	}

	app := newWebApp(gateway)
	go func() {
		<-ctx.Done()
		logf := LoggingFormat{Type: LogType.Shutdown, Level: logrus.InfoLevel, Message: "shutting down"}
		logf.Print()
		_ = app.Shutdown(context.Background())
	}()

	logf := LoggingFormat{Type: LogType.Startup, Level: logrus.InfoLevel, Message: "web server listening"}
	logf.AddField("listen", cfg.WebListen)
	logf.AddField("proxy_protocol", cfg.ProxyProtocol)
	logf.Print()

	if err := app.Run(iris.Listener(listener), iris.WithoutServerError(iris.ErrServerClosed)); err != nil {
		logf = LoggingFormat{Type: LogType.Web, Level: logrus.ErrorLevel, Message: "web server stopped", Error: err}
		logf.Print()
	}
}
