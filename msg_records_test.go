package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sms-splitter/smpp/segment"
)

type fakeRecordStore struct {
	mu      sync.Mutex
	records []*SegmentRecord
	err     error
}

func (s *fakeRecordStore) InsertSegmentRecord(_ context.Context, record *SegmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *fakeRecordStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func TestPartiallyRedactMessage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "**********"},
		{"short", "**********"},
		{"exactly10!", "**********"},
		{"Hello, world", "Hello*****"},
		{"Привет, мир", "Пр*****"}, // byte 5 is inside 'и'
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PartiallyRedactMessage(tt.in), tt.in)
	}
}

func TestNewSegmentRecord(t *testing.T) {
	engine := segment.NewEngine(segment.NewRefCounter(9))
	received := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	res, err := engine.Segment("Hello there")
	require.NoError(t, err)
	record := NewSegmentRecord("log-1", "+1555", "10.0.0.2", "Hello there", res, received)
	assert.Equal(t, "gsm7", record.Encoding)
	assert.Equal(t, 1, record.TotalSegments)
	assert.Equal(t, 11, record.TotalUnits)
	assert.Equal(t, 11, record.TotalCharacters)
	assert.Nil(t, record.Reference)
	assert.Equal(t, received, record.ReceivedTimestamp)

	msg := strings.Repeat("Ж", 71)
	res, err = engine.Segment(msg)
	require.NoError(t, err)
	record = NewSegmentRecord("log-2", "", "", msg, res, received)
	assert.Equal(t, "ucs2", record.Encoding)
	assert.Equal(t, 2, record.TotalSegments)
	require.NotNil(t, record.Reference)
	assert.Equal(t, uint8(9), *record.Reference)
}

func TestRecordWriterRun(t *testing.T) {
	store := &fakeRecordStore{}
	writer := NewRecordWriter(store, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go writer.Run(ctx)

	for i := 0; i < 3; i++ {
		require.True(t, writer.Enqueue(&SegmentRecord{LogID: "id"}))
	}
	assert.Eventually(t, func() bool { return store.count() == 3 }, time.Second, 10*time.Millisecond)
}

func TestRecordWriterStoreError(t *testing.T) {
	store := &fakeRecordStore{err: errors.New("connection refused")}
	writer := NewRecordWriter(store, 1)

	writer.write(context.Background(), &SegmentRecord{LogID: "id"})
	assert.Equal(t, 0, store.count())
}

func TestRecordWriterDropsWhenFull(t *testing.T) {
	writer := NewRecordWriter(&fakeRecordStore{}, 1)

	assert.True(t, writer.Enqueue(&SegmentRecord{LogID: "a"}))
	assert.False(t, writer.Enqueue(&SegmentRecord{LogID: "b"}))
}
