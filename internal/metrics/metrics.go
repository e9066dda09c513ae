// Package metrics defines the minimal metrics surface used by the
// conversion engine, decoupled from any particular vendor. The core
// depends only on Backend; concrete backends live in subpackages.
package metrics

import "sync"

// Metric names emitted by the engine.
const (
	// RecordsTotal counts processed records; label "kind" is one of
	// seen, parsed, parse_failed, smiles_ok, smiles_failed.
	RecordsTotal = "sdf_records_total"
	// RunDurationSeconds observes the wall time of one conversion run.
	RunDurationSeconds = "sdf_run_duration_seconds"
)

// Labels tag a metric sample.
type Labels map[string]string

// Backend receives metric samples.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	Flush() error
}

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs the process-wide backend. Pass nil to restore the
// no-op default.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		backend = nopBackend{}
		return
	}
	backend = b
}

// IncCounter forwards to the installed backend.
func IncCounter(name string, delta float64, labels Labels) {
	current().IncCounter(name, delta, labels)
}

// ObserveHistogram forwards to the installed backend.
func ObserveHistogram(name string, value float64, labels Labels) {
	current().ObserveHistogram(name, value, labels)
}

// Flush forwards to the installed backend.
func Flush() error {
	return current().Flush()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }
