package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"sms-splitter/smpp/coding"
	"sms-splitter/smpp/pdu"
	"sms-splitter/smpp/segment"
)

// HandoffJob is what the external sending gateway consumes: every segment
// already encoded for short_message, with its concatenation UDH.
type HandoffJob struct {
	LogID      string           `json:"logID"`
	To         string           `json:"to"`
	Encoding   string           `json:"encoding"`
	DataCoding byte             `json:"dataCoding"`
	Reference  *uint8           `json:"reference,omitempty"`
	Segments   []HandoffSegment `json:"segments"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// HandoffSegment is one part of a HandoffJob. UDH is empty for single-part
// messages; []byte fields are base64 in JSON. Packed is only set for GSM7.
type HandoffSegment struct {
	Sequence int    `json:"sequence"`
	Total    int    `json:"total"`
	UDH      []byte `json:"udh,omitempty"`
	Payload  []byte `json:"payload"`
	Packed   []byte `json:"packed,omitempty"`
	Text     string `json:"text"`
	Units    int    `json:"units"`
}

// NewHandoffJob encodes every segment of res.
func NewHandoffJob(logID, to string, res *segment.Result) (*HandoffJob, error) {
	job := &HandoffJob{
		LogID:      logID,
		To:         to,
		Encoding:   res.Encoding.String(),
		DataCoding: byte(res.Encoding.DataCoding()),
		Segments:   make([]HandoffSegment, 0, len(res.Segments)),
		CreatedAt:  time.Now().UTC(),
	}
	if res.Concatenated {
		ref := res.Reference
		job.Reference = &ref
	}

	for _, seg := range res.Segments {
		payload, err := pdu.Payload(seg.Text, res.Encoding)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", seg.Index, err)
		}
		hs := HandoffSegment{
			Sequence: seg.Index,
			Total:    seg.Count,
			Payload:  payload,
			Text:     seg.Text,
			Units:    seg.Units,
		}
		if seg.Header != nil {
			hs.UDH = seg.Header.Bytes()
		}
		if res.Encoding == coding.GSM7 {
			if hs.Packed, err = pdu.PackGSM7(seg.Text); err != nil {
				return nil, fmt.Errorf("segment %d: %w", seg.Index, err)
			}
		}
		job.Segments = append(job.Segments, hs)
	}
	return job, nil
}

// Publisher delivers a serialized job to a queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// HandoffWorker publishes jobs from a single goroutine so requests never wait
// on the broker.
type HandoffWorker struct {
	publisher Publisher
	queue     string
	jobs      chan *HandoffJob
}

func NewHandoffWorker(publisher Publisher, queue string, buffer int) *HandoffWorker {
	return &HandoffWorker{
		publisher: publisher,
		queue:     queue,
		jobs:      make(chan *HandoffJob, buffer),
	}
}

// Enqueue hands a job to the worker. It drops the job when the buffer is full.
func (w *HandoffWorker) Enqueue(job *HandoffJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		logf := LoggingFormat{Type: LogType.Handoff, Level: logrus.WarnLevel, Message: "handoff buffer full, dropping job"}
		logf.AddField("logID", job.LogID)
		logf.Print()
		return false
	}
}

// Run publishes jobs until ctx is done.
func (w *HandoffWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.jobs:
			w.publish(ctx, job)
		}
	}
}

func (w *HandoffWorker) publish(ctx context.Context, job *HandoffJob) {
	logf := LoggingFormat{Type: LogType.Handoff}
	logf.AddField("logID", job.LogID)
	logf.AddField("queue", w.queue)

	body, err := json.Marshal(job)
	if err != nil {
		logf.Level = logrus.ErrorLevel
		logf.Message = "failed to marshal handoff job"
		logf.Error = err
		logf.Print()
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := w.publisher.Publish(publishCtx, w.queue, body); err != nil {
		logf.Level = logrus.ErrorLevel
		logf.Message = "failed to publish handoff job"
		logf.Error = err
		logf.Print()
		return
	}

	logf.Level = logrus.DebugLevel
	logf.Message = "handoff job published"
	logf.AddField("segments", len(job.Segments))
	logf.Print()
}
