package xmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultNamespace = "semdemo"
	DefaultSubsystem = "semaphore"
)

// Options is the configurable options for creating a Prometheus registry
type Options struct {
	// Namespace is the global default namespace for metrics.  If not supplied, DefaultNamespace is used.
	Namespace string `json:"namespace"`

	// Subsystem is the global default subsystem for metrics.  If not supplied, DefaultSubsystem is used.
	Subsystem string `json:"subsystem"`

	// Pedantic indicates whether the registry is created via NewPedanticRegistry().  By default, this is false.  Set
	// to true for testing or development.
	Pedantic bool `json:"pedantic"`

	// DisableGoCollector controls whether the Go Collector is registered with the Registry.  By default this is false,
	// meaning that a GoCollector is registered.
	DisableGoCollector bool `json:"disableGoCollector"`

	// DisableProcessCollector controls whether the Process Collector is registered with the Registry.
	DisableProcessCollector bool `json:"disableProcessCollector"`

	// Buckets are the histogram buckets used for ad hoc histograms.  If unset, prometheus.DefBuckets is used.
	Buckets []float64 `json:"buckets"`
}

func (o *Options) namespace() string {
	if o != nil && len(o.Namespace) > 0 {
		return o.Namespace
	}

	return DefaultNamespace
}

func (o *Options) subsystem() string {
	if o != nil && len(o.Subsystem) > 0 {
		return o.Subsystem
	}

	return DefaultSubsystem
}

func (o *Options) buckets() []float64 {
	if o != nil && len(o.Buckets) > 0 {
		return o.Buckets
	}

	return prometheus.DefBuckets
}

func (o *Options) registry() *prometheus.Registry {
	var pr *prometheus.Registry

	if o != nil && o.Pedantic {
		pr = prometheus.NewPedanticRegistry()
	} else {
		pr = prometheus.NewRegistry()
	}

	if o == nil || !o.DisableGoCollector {
		pr.MustRegister(prometheus.NewGoCollector())
	}

	if o == nil || !o.DisableProcessCollector {
		pr.MustRegister(prometheus.NewProcessCollector(
			prometheus.ProcessCollectorOpts{
				Namespace: o.namespace(),
			},
		))
	}

	return pr
}
