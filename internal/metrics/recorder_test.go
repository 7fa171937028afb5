package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_AllMethodsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome("success")
	r.IncDocResult(DocBuilt)
	r.SetRenderConcurrency(4)
}

func TestPrometheusRecorder_RegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveBuildDuration(250 * time.Millisecond)
	r.IncBuildOutcome("success")
	r.IncDocResult(DocBuilt)
	r.IncDocResult(DocBuilt)
	r.IncDocResult(DocFailed)
	r.SetRenderConcurrency(8)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	require.True(t, names["pagepress_build_duration_seconds"])
	require.True(t, names["pagepress_build_outcomes_total"])
	require.True(t, names["pagepress_documents_total"])
	require.True(t, names["pagepress_render_concurrency"])
}

func TestPrometheusRecorder_NilReceiverSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome("failed")
	r.IncDocResult(DocSkipped)
	r.SetRenderConcurrency(1)
}
