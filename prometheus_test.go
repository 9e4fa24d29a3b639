package main

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatherValues flattens a registry into "name{label=value,...}" -> value.
func gatherValues(t *testing.T, registry *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "instance_id" {
					continue
				}
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			key := mf.GetName() + "{" + strings.Join(labels, ",") + "}"
			if m.GetCounter() != nil {
				out[key] = m.GetCounter().GetValue()
			} else {
				out[key] = m.GetGauge().GetValue()
			}
		}
	}
	return out
}

func TestMetricExporter(t *testing.T) {
	gateway := newTestGateway(t)

	_, err := gateway.ProcessSMS(SMSRequest{Message: strPtr(strings.Repeat("a", 161))}, "")
	require.NoError(t, err)
	_, err = gateway.ProcessSMS(SMSRequest{Message: strPtr("Привет")}, "")
	require.NoError(t, err)
	_, err = gateway.ProcessSMS(SMSRequest{Message: strPtr("")}, "")
	require.Error(t, err)

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(NewMetricExporter("test", gateway)))

	values := gatherValues(t, registry)
	assert.Equal(t, 1.0, values["messages_segmented{encoding=gsm7}"])
	assert.Equal(t, 1.0, values["messages_segmented{encoding=ucs2}"])
	assert.Equal(t, 2.0, values["segments_produced{encoding=gsm7}"])
	assert.Equal(t, 1.0, values["segments_produced{encoding=ucs2}"])
	assert.Equal(t, 1.0, values["messages_rejected{reason=empty}"])
	assert.Equal(t, 1.0, values["server_status{service=web}"])
	assert.Equal(t, 0.0, values["server_status{service=records}"])
	assert.Equal(t, 0.0, values["server_status{service=handoff}"])
}
