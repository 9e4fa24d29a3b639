package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// LogType groups log lines by the part of the service that wrote them.
var LogType = struct {
	Startup  string
	Web      string
	Segment  string
	Records  string
	Handoff  string
	Metrics  string
	Shutdown string
}{
	Startup:  "startup",
	Web:      "web",
	Segment:  "segment",
	Records:  "records",
	Handoff:  "handoff",
	Metrics:  "metrics",
	Shutdown: "shutdown",
}

// LoggingFormat is one structured log line.
type LoggingFormat struct {
	Type    string
	Level   logrus.Level
	Message string
	Error   error
	fields  logrus.Fields
}

func (l *LoggingFormat) AddField(key string, value interface{}) {
	if l.fields == nil {
		l.fields = logrus.Fields{}
	}
	l.fields[key] = value
}

func (l *LoggingFormat) entry() *logrus.Entry {
	e := log.WithField("type", l.Type)
	if len(l.fields) > 0 {
		e = e.WithFields(l.fields)
	}
	if l.Error != nil {
		e = e.WithError(l.Error)
	}
	return e
}

// Print writes the line. The zero Level (panic) is treated as unset and
// logged at info.
func (l *LoggingFormat) Print() {
	level := l.Level
	if level == logrus.PanicLevel {
		level = logrus.InfoLevel
	}
	l.entry().Log(level, l.Message)
}

// ToError turns the line into an error without logging it.
func (l *LoggingFormat) ToError() error {
	if l.Error != nil {
		return fmt.Errorf("%s: %s: %w", l.Type, l.Message, l.Error)
	}
	return errors.New(l.Type + ": " + l.Message)
}

func setupLogging(cfg Config) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(cfg.LogLevel)
	if cfg.LokiURL != "" {
		log.AddHook(NewLokiHook(cfg.LokiURL, cfg.LokiUsername, cfg.LokiPassword))
	}
}

// LokiHook ships log entries to Loki's push API from a background goroutine.
// Entries are dropped when the buffer is full so a slow Loki never stalls the
// caller.
type LokiHook struct {
	PushURL  string
	Username string
	Password string
	Labels   map[string]string
	client   *http.Client
	streams  chan LokiStream
}

const lokiBuffer = 1024

var errLokiBufferFull = errors.New("loki buffer full, entry dropped")

// LokiPushData is the body of a Loki push request.
type LokiPushData struct {
	Streams []LokiStream `json:"streams"`
}

// LokiStream is a set of log lines sharing the same labels.
type LokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"` // [unix nano timestamp, line]
}

func NewLokiHook(pushURL, username, password string) *LokiHook {
	h := &LokiHook{
		PushURL:  pushURL,
		Username: username,
		Password: password,
		Labels:   map[string]string{"job": "sms-splitter"},
		client:   &http.Client{Timeout: 5 * time.Second},
		streams:  make(chan LokiStream, lokiBuffer),
	}
	go h.run()
	return h
}

func (h *LokiHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *LokiHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}

	labels := make(map[string]string, len(h.Labels)+1)
	for k, v := range h.Labels {
		labels[k] = v
	}
	labels["level"] = entry.Level.String()

	stream := LokiStream{
		Stream: labels,
		Values: [][2]string{{strconv.FormatInt(entry.Time.UnixNano(), 10), line}},
	}
	select {
	case h.streams <- stream:
		return nil
	default:
		return errLokiBufferFull
	}
}

// run pushes queued streams one request at a time. Push errors cannot be
// logged through the hooked logger, so they go to stderr.
func (h *LokiHook) run() {
	for stream := range h.streams {
		if err := h.push(LokiPushData{Streams: []LokiStream{stream}}); err != nil {
			fmt.Fprintf(os.Stderr, "loki push failed: %v\n", err)
		}
	}
}

func (h *LokiHook) push(payload LokiPushData) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling json: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, h.PushURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.Username != "" && h.Password != "" {
		req.SetBasicAuth(h.Username, h.Password)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request to Loki: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received unexpected response status: %d", resp.StatusCode)
	}
	return nil
}
