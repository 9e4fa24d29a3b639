package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"sms-splitter/smpp/segment"
)

// SegmentRecord is the audit row kept for every segmented message. The
// message itself is only stored redacted.
type SegmentRecord struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	LogID             string    `gorm:"index;not null" json:"log_id"`
	To                string    `json:"to_number,omitempty"`
	Encoding          string    `json:"encoding"` // "gsm7" or "ucs2"
	TotalSegments     int       `json:"total_segments"`
	TotalUnits        int       `json:"total_units"`
	TotalCharacters   int       `json:"total_characters"`
	Reference         *uint8    `json:"reference,omitempty"` // nil for single-part messages
	Preview           string    `json:"preview"`
	SourceIP          string    `json:"source_ip,omitempty"`
	ReceivedTimestamp time.Time `gorm:"index" json:"received_timestamp"`
}

// NewSegmentRecord summarises one segmentation result.
func NewSegmentRecord(logID, to, sourceIP, message string, res *segment.Result, received time.Time) *SegmentRecord {
	report := segment.BuildReport(message, res)
	record := &SegmentRecord{
		LogID:             logID,
		To:                to,
		Encoding:          res.Encoding.String(),
		TotalSegments:     report.TotalParts,
		TotalUnits:        res.TotalUnits,
		TotalCharacters:   report.TotalCharacters,
		Preview:           PartiallyRedactMessage(message),
		SourceIP:          sourceIP,
		ReceivedTimestamp: received,
	}
	if res.Concatenated {
		ref := res.Reference
		record.Reference = &ref
	}
	return record
}

// PartiallyRedactMessage redacts part of the message for privacy.
func PartiallyRedactMessage(message string) string {
	if len(message) <= 10 {
		return "**********" // Fully redacted for short messages.
	}
	// keep the first 5 bytes, backed off to a rune boundary
	cut := 5
	for cut > 0 && !isRuneStart(message[cut]) {
		cut--
	}
	return message[:cut] + "*****"
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// RecordStore persists segment records.
type RecordStore interface {
	InsertSegmentRecord(ctx context.Context, record *SegmentRecord) error
}

// RecordWriter drains records into a store from a single goroutine so that
// requests never wait on the database.
type RecordWriter struct {
	store   RecordStore
	records chan *SegmentRecord
}

func NewRecordWriter(store RecordStore, buffer int) *RecordWriter {
	return &RecordWriter{
		store:   store,
		records: make(chan *SegmentRecord, buffer),
	}
}

// Enqueue hands a record to the writer. It drops the record when the buffer is
// full.
func (w *RecordWriter) Enqueue(record *SegmentRecord) bool {
	select {
	case w.records <- record:
		return true
	default:
		logf := LoggingFormat{Type: LogType.Records, Level: logrus.WarnLevel, Message: "record buffer full, dropping record"}
		logf.AddField("logID", record.LogID)
		logf.Print()
		return false
	}
}

// Run writes records until ctx is done.
func (w *RecordWriter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case record := <-w.records:
			w.write(ctx, record)
		}
	}
}

func (w *RecordWriter) write(ctx context.Context, record *SegmentRecord) {
	logf := LoggingFormat{Type: LogType.Records}
	logf.AddField("logID", record.LogID)

	insertCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := w.store.InsertSegmentRecord(insertCtx, record); err != nil {
		logf.Level = logrus.ErrorLevel
		logf.Message = "InsertError"
		logf.Error = err
		logf.Print()
		return
	}

	logf.Level = logrus.DebugLevel
	logf.Message = "InsertSuccess"
	logf.Print()
}
