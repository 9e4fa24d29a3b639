package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sms-splitter/smpp/segment"
)

func strPtr(s string) *string { return &s }

func TestProcessSMSFeedsSideChannels(t *testing.T) {
	gateway := newTestGateway(t)
	gateway.Records = NewRecordWriter(&fakeRecordStore{}, 4)
	gateway.Handoff = NewHandoffWorker(&fakePublisher{}, "sms_segments", 4)

	msg := strings.Repeat("x", 200)
	report, err := gateway.ProcessSMS(SMSRequest{Message: &msg, PhoneNumber: "+15551234567"}, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalParts)

	require.Len(t, gateway.Records.records, 1)
	record := <-gateway.Records.records
	assert.Equal(t, "+15551234567", record.To)
	assert.Equal(t, "10.0.0.1", record.SourceIP)
	assert.Equal(t, 2, record.TotalSegments)
	assert.Equal(t, "xxxxx*****", record.Preview)
	require.NotNil(t, record.Reference)

	require.Len(t, gateway.Handoff.jobs, 1)
	job := <-gateway.Handoff.jobs
	assert.Equal(t, record.LogID, job.LogID)
	assert.Equal(t, *record.Reference, *job.Reference)
	assert.Len(t, job.Segments, 2)
}

func TestProcessSMSWithoutPhoneSkipsHandoff(t *testing.T) {
	gateway := newTestGateway(t)
	gateway.Handoff = NewHandoffWorker(&fakePublisher{}, "sms_segments", 4)

	_, err := gateway.ProcessSMS(SMSRequest{Message: strPtr("hi")}, "")
	require.NoError(t, err)
	assert.Len(t, gateway.Handoff.jobs, 0)
}

func TestProcessSMSRejections(t *testing.T) {
	gateway := newTestGateway(t)

	_, err := gateway.ProcessSMS(SMSRequest{}, "")
	assert.True(t, errors.Is(err, segment.ErrEmptyMessage))

	_, err = gateway.ProcessSMS(SMSRequest{Message: strPtr("  ")}, "")
	assert.True(t, segment.IsValidation(err))

	_, err = gateway.ProcessSMS(SMSRequest{Message: strPtr(strings.Repeat("€", 77*255))}, "")
	assert.True(t, errors.Is(err, segment.ErrTooManySegments))

	_, err = gateway.ProcessSMS(SMSRequest{Message: strPtr("\xc3")}, "")
	assert.True(t, errors.Is(err, segment.ErrUnsupportedCharacter))

	assert.Equal(t, map[string]uint64{"empty": 2, "too_long": 1, "unsupported_character": 1}, gateway.Stats.Rejected())
}

func TestRejectReason(t *testing.T) {
	assert.Equal(t, "empty", rejectReason(&segment.ValidationError{Err: segment.ErrEmptyMessage}))
	assert.Equal(t, "too_long", rejectReason(&segment.ValidationError{Err: segment.ErrTooManySegments}))
	assert.Equal(t, "unsupported_character", rejectReason(&segment.UnsupportedCharacterError{}))
	assert.Equal(t, "internal", rejectReason(&segment.InternalEncodingError{}))
}

func TestGatewayReferencesAdvance(t *testing.T) {
	gateway := newTestGateway(t)
	gateway.Refs.Reset(254)
	gateway.Records = NewRecordWriter(&fakeRecordStore{}, 4)

	long := strings.Repeat("y", 161)
	for _, want := range []uint8{254, 255, 0} {
		_, err := gateway.ProcessSMS(SMSRequest{Message: &long}, "")
		require.NoError(t, err)
		record := <-gateway.Records.records
		require.NotNil(t, record.Reference)
		assert.Equal(t, want, *record.Reference)
	}
}
