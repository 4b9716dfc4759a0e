package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	job := "customer_inactivity_job"
	m.ObserveDuration(job, 250*time.Millisecond)
	m.IncSuccess(job)
	m.IncFailure(job)
	m.AddUpdated(job, 3)
	m.AddUpdated(job, 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	for name, want := range map[string]float64{
		"furnistore_cron_job_success_total":     1,
		"furnistore_cron_job_failure_total":     1,
		"furnistore_cron_records_updated_total": 3,
	} {
		got, err := fetchCounterValue(mfs, name, "job", job)
		if err != nil {
			t.Fatalf("fetch %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("expected %s=%v, got %v", name, want, got)
		}
	}

	if got, err := fetchHistogramSum(mfs, "furnistore_cron_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestNilRegistererDropsObservations(t *testing.T) {
	m := NewCronJobMetrics(nil)
	m.IncSuccess("job")
	m.AddUpdated("job", 2)

	var nilMetrics *CronJobMetrics
	nilMetrics.IncFailure("job")

	NewHTTPMetrics(nil).Observe("GET", "/x", 200, time.Millisecond)
}

func TestHTTPMetricsLabelsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/v1/furniture/{id}", 200, 10*time.Millisecond)
	m.Observe("GET", "/api/v1/furniture/{id}", 200, 20*time.Millisecond)
	m.Observe("POST", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	mf := findMetricFamily(mfs, "furnistore_http_requests_total")
	if mf == nil {
		t.Fatal("requests counter not exported")
	}
	var found bool
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), "route", "/api/v1/furniture/{id}") && matchesLabel(metric.GetLabel(), "status", "200") {
			found = true
			if metric.GetCounter().GetValue() != 2 {
				t.Fatalf("expected 2 requests, got %v", metric.GetCounter().GetValue())
			}
		}
	}
	if !found {
		t.Fatal("route label missing")
	}
	if _, err := fetchCounterValue(mfs, "furnistore_http_requests_total", "route", "unknown"); err != nil {
		t.Fatalf("expected empty route to be labelled unknown: %v", err)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

func TestEventMetricsCountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEventMetrics(reg)
	m.ObservePublish("order_created", "published")
	m.ObservePublish("order_created", "published")
	m.ObserveAnalytics("order_payment_applied", "duplicate")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "furnistore_outbox_events_total", "event_type", "order_created"); err != nil || got != 2 {
		t.Fatalf("expected 2 published events, got %v (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "furnistore_analytics_events_total", "result", "duplicate"); err != nil || got != 1 {
		t.Fatalf("expected 1 duplicate, got %v (%v)", got, err)
	}

	NewEventMetrics(nil).ObservePublish("x", "retry")
	var nilMetrics *EventMetrics
	nilMetrics.ObserveAnalytics("x", "failed")
}

func TestNewServerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewEventMetrics(reg).ObservePublish("order_created", "published")

	srv := NewServer(":0", reg)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "furnistore_outbox_events_total") {
		t.Fatal("expected outbox counter in exposition")
	}
}
