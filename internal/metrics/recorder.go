// Package metrics provides observability hooks for build metrics.
//
// Components receive a Recorder through dependency injection; the default
// NoopRecorder makes metrics collection optional without nil checks at call
// sites. The Prometheus implementation is wired by the preview daemon.
package metrics

import "time"

// DocResult enumerates per-document outcome categories for counters.
type DocResult string

const (
	DocBuilt   DocResult = "built"
	DocSkipped DocResult = "skipped"
	DocFailed  DocResult = "failed"
)

// Recorder defines observability hooks for build and document metrics.
// Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|partial|failed
	IncDocResult(result DocResult)
	SetRenderConcurrency(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
func (NoopRecorder) IncDocResult(DocResult)             {}
func (NoopRecorder) SetRenderConcurrency(int)           {}
