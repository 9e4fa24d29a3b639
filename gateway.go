package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sms-splitter/smpp/segment"
)

// Gateway owns the segmentation engine and the optional side channels fed by
// every processed message.
type Gateway struct {
	Engine  *segment.Engine
	Refs    *segment.RefCounter
	Stats   *SegmentStats
	Records *RecordWriter
	Handoff *HandoffWorker

	ServiceName    string
	ServiceVersion string

	closers []func()
}

// NewGateway wires the engine and, when configured, the record store and the
// handoff publisher. Background workers stop when ctx is cancelled.
func NewGateway(ctx context.Context, cfg Config) (*Gateway, error) {
	logf := LoggingFormat{Type: LogType.Startup}

	refs := segment.NewRefCounter(cfg.ReferenceSeed)
	gateway := &Gateway{
		Engine:         segment.NewEngine(refs),
		Refs:           refs,
		Stats:          NewSegmentStats(),
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
	}

	if cfg.DB.Enabled() {
		db, err := NewDB(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to open record database: %w", err)
		}
		gateway.closers = append(gateway.closers, db.Close)

		gateway.Records = NewRecordWriter(db, 256)
		go gateway.Records.Run(ctx)

		logf.Level = logrus.InfoLevel
		logf.Message = "segment records enabled"
		logf.AddField("db_host", cfg.DB.Host)
		logf.Print()
	}

	if cfg.AMQPURL != "" {
		client := NewAMQPClient(cfg.AMQPURL, []string{cfg.AMQPQueue})
		gateway.closers = append(gateway.closers, func() { _ = client.Close() })

		gateway.Handoff = NewHandoffWorker(client, cfg.AMQPQueue, 256)
		go gateway.Handoff.Run(ctx)

		logf = LoggingFormat{Type: LogType.Startup, Level: logrus.InfoLevel, Message: "handoff publishing enabled"}
		logf.AddField("queue", cfg.AMQPQueue)
		logf.Print()
	}

	return gateway, nil
}

// Close releases the database pool and the AMQP connection.
func (gateway *Gateway) Close() {
	for i := len(gateway.closers) - 1; i >= 0; i-- {
		gateway.closers[i]()
	}
}

// ProcessSMS validates the request, segments the message and fans the result
// out to the record and handoff workers.
func (gateway *Gateway) ProcessSMS(req SMSRequest, sourceIP string) (segment.Report, error) {
	logID := uuid.New().String()
	logf := LoggingFormat{Type: LogType.Segment}
	logf.AddField("logID", logID)

	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		gateway.Stats.Reject("empty")
		return segment.Report{}, &segment.ValidationError{Reason: "Message cannot be blank", Err: segment.ErrEmptyMessage}
	}
	message := *req.Message

	res, err := gateway.Engine.Segment(message)
	if err != nil {
		gateway.Stats.Reject(rejectReason(err))
		logf.Error = err
		if segment.IsValidation(err) {
			logf.Level = logrus.InfoLevel
			logf.Message = "message rejected"
		} else {
			logf.Level = logrus.ErrorLevel
			logf.Message = "segmentation failed"
		}
		logf.Print()
		return segment.Report{}, err
	}

	gateway.Stats.Observe(res)

	logf.Level = logrus.InfoLevel
	logf.Message = "message segmented"
	logf.AddField("encoding", res.Encoding.String())
	logf.AddField("parts", len(res.Segments))
	logf.AddField("units", res.TotalUnits)
	if res.Concatenated {
		logf.AddField("reference", res.Reference)
	}
	logf.Print()

	if log.IsLevelEnabled(logrus.DebugLevel) {
		for _, seg := range res.Segments {
			part := LoggingFormat{Type: LogType.Segment, Level: logrus.DebugLevel, Message: seg.Text}
			part.AddField("logID", logID)
			part.AddField("part", fmt.Sprintf("%d/%d", seg.Index, seg.Count))
			part.AddField("units", seg.Units)
			part.Print()
		}
	}

	if gateway.Records != nil {
		gateway.Records.Enqueue(NewSegmentRecord(logID, req.PhoneNumber, sourceIP, message, res, time.Now()))
	}

	if gateway.Handoff != nil && req.PhoneNumber != "" {
		job, err := NewHandoffJob(logID, req.PhoneNumber, res)
		if err != nil {
			// the report is still valid; only the wire encoding failed
			logf = LoggingFormat{Type: LogType.Handoff, Level: logrus.ErrorLevel, Message: "failed to build handoff job", Error: err}
			logf.AddField("logID", logID)
			logf.Print()
		} else {
			gateway.Handoff.Enqueue(job)
		}
	}

	return segment.BuildReport(message, res), nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, segment.ErrEmptyMessage):
		return "empty"
	case errors.Is(err, segment.ErrTooManySegments):
		return "too_long"
	case errors.Is(err, segment.ErrUnsupportedCharacter):
		return "unsupported_character"
	default:
		return "internal"
	}
}
