// Package metrics exposes Prometheus instrumentation for the boot sequence.
//
// A nil *Recorder is valid and records nothing, so components accept one
// unconditionally and pay no cost when metrics are disabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Iron-Ham/folio/internal/event"
)

// Recorder holds the folio collectors registered on one registry.
type Recorder struct {
	registry *prometheus.Registry

	resources        *prometheus.CounterVec
	resourceDuration *prometheus.HistogramVec
	progress         prometheus.Gauge
	criticalPath     prometheus.Gauge
	registryRejects  prometheus.Counter
	phases           *prometheus.CounterVec
	stages           *prometheus.CounterVec
	transitionReject prometheus.Counter
	routes           *prometheus.CounterVec
	online           prometheus.Gauge
}

// NewRecorder registers the folio collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		resources: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_preload_resources_total",
				Help: "Settled preload resources by kind, criticality and outcome",
			},
			[]string{"kind", "critical", "status"}, // status: "loaded", "failed"
		),
		resourceDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "folio_preload_resource_duration_seconds",
				Help: "Time from dispatch to settlement of a preload resource",
				Buckets: []float64{
					0.01, // local files and signals
					0.05,
					0.1,
					0.25,
					0.5,
					1,
					2.5,
					5,
					10, // default per-resource timeout
				},
			},
			[]string{"kind"},
		),
		progress: f.NewGauge(prometheus.GaugeOpts{
			Name: "folio_preload_progress_percent",
			Help: "Aggregate preload progress, 0-100",
		}),
		criticalPath: f.NewGauge(prometheus.GaugeOpts{
			Name: "folio_preload_critical_path_seconds",
			Help: "Time from Start until every critical resource settled",
		}),
		registryRejects: f.NewCounter(prometheus.CounterOpts{
			Name: "folio_preload_late_registrations_rejected_total",
			Help: "Registrations refused because the critical path had completed",
		}),
		phases: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_splash_phase_entries_total",
				Help: "Splash phase entries by phase",
			},
			[]string{"phase"},
		),
		stages: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_transition_stage_entries_total",
				Help: "Fog transition stage entries by stage",
			},
			[]string{"stage"},
		),
		transitionReject: f.NewCounter(prometheus.CounterOpts{
			Name: "folio_transition_rejected_total",
			Help: "Transition triggers rejected because one was already active",
		}),
		routes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_route_changes_total",
				Help: "Route changes by destination",
			},
			[]string{"route"},
		),
		online: f.NewGauge(prometheus.GaugeOpts{
			Name: "folio_network_online",
			Help: "1 when the last reachability probe succeeded",
		}),
	}
}

// Registry returns the registry the collectors are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ResourceSettled records one preload settlement.
func (r *Recorder) ResourceSettled(kind string, critical, failed bool, d time.Duration) {
	if r == nil {
		return
	}
	status := "loaded"
	if failed {
		status = "failed"
	}
	crit := "false"
	if critical {
		crit = "true"
	}
	r.resources.WithLabelValues(kind, crit, status).Inc()
	r.resourceDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// Progress records the aggregate preload percentage.
func (r *Recorder) Progress(percent int) {
	if r == nil {
		return
	}
	r.progress.Set(float64(percent))
}

// CriticalPathSettled records how long the critical path took.
func (r *Recorder) CriticalPathSettled(d time.Duration) {
	if r == nil {
		return
	}
	r.criticalPath.Set(d.Seconds())
}

// RegistrationRejected counts a late registration refused by a closed registry.
func (r *Recorder) RegistrationRejected() {
	if r == nil {
		return
	}
	r.registryRejects.Inc()
}

// TransitionRejected counts a trigger refused while a transition was active.
func (r *Recorder) TransitionRejected() {
	if r == nil {
		return
	}
	r.transitionReject.Inc()
}

// Attach subscribes the recorder to the splash, transition, route and
// network events on bus. It returns the subscription ids.
func (r *Recorder) Attach(bus *event.Bus) []string {
	if r == nil || bus == nil {
		return nil
	}
	return []string{
		bus.Subscribe(event.TypePhaseChanged, func(e event.Event) {
			if pe, ok := e.(event.PhaseChangeEvent); ok {
				r.phases.WithLabelValues(pe.To).Inc()
			}
		}),
		bus.Subscribe(event.TypeTransitionStage, func(e event.Event) {
			if te, ok := e.(event.TransitionStageEvent); ok {
				r.stages.WithLabelValues(te.To).Inc()
			}
		}),
		bus.Subscribe(event.TypeRouteChanged, func(e event.Event) {
			if re, ok := e.(event.RouteChangeEvent); ok {
				r.routes.WithLabelValues(re.To).Inc()
			}
		}),
		bus.Subscribe(event.TypeNetworkChanged, func(e event.Event) {
			if ne, ok := e.(event.NetworkChangeEvent); ok {
				if ne.Online {
					r.online.Set(1)
				} else {
					r.online.Set(0)
				}
			}
		}),
	}
}
