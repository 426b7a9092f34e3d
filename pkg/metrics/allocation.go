package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Approval outcomes.
const (
	OutcomeApproved     = "approved"
	OutcomeNoFreeSlot   = "no_free_slot"
	OutcomeNotPending   = "not_pending"
	OutcomeIntegrity    = "integrity"
	OutcomeInfraFailure = "error"
)

// AllocationMetrics records slot-request transitions and their side effects.
type AllocationMetrics struct {
	approvals     *prometheus.CounterVec
	rejections    prometheus.Counter
	approvalTime  prometheus.Histogram
	notifications *prometheus.CounterVec
}

// NewAllocationMetrics registers the allocation metrics on reg. A nil
// registerer yields a no-op recorder.
func NewAllocationMetrics(reg prometheus.Registerer) *AllocationMetrics {
	if reg == nil {
		return &AllocationMetrics{}
	}
	approvals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_request_approvals_total",
		Help: "Approval attempts by outcome.",
	}, []string{"outcome"})
	rejections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "slot_request_rejections_total",
		Help: "Requests moved to denied.",
	})
	approvalTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "slot_request_approval_duration_seconds",
		Help:    "Duration of the approval transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_request_notifications_total",
		Help: "Approval emails by delivery status.",
	}, []string{"status"})
	reg.MustRegister(approvals, rejections, approvalTime, notifications)
	return &AllocationMetrics{
		approvals:     approvals,
		rejections:    rejections,
		approvalTime:  approvalTime,
		notifications: notifications,
	}
}

// ObserveApproval counts one approval attempt and its duration.
func (m *AllocationMetrics) ObserveApproval(outcome string, duration time.Duration) {
	if m == nil || m.approvals == nil {
		return
	}
	m.approvals.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.approvalTime.Observe(duration.Seconds())
}

func (m *AllocationMetrics) IncRejection() {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.Inc()
}

func (m *AllocationMetrics) IncNotification(status string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
