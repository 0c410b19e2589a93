package metrics

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Delivery failure reasons.
const (
	FailureHTTP       = "http"       // webhook answered with an error status
	FailureConnection = "connection" // request never produced a response
)

// Registry accumulates processing counters. All methods are safe for
// concurrent use.
type Registry struct {
	mu         sync.Mutex
	received   float64
	classified map[string]float64 // by notification kind
	delivered  float64
	failures   map[string]float64 // by failure reason
	errors     float64
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		classified: make(map[string]float64),
		failures:   make(map[string]float64),
	}
}

// IncReceived counts one inbound notification event.
func (r *Registry) IncReceived() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received++
}

// IncClassified counts one classification result for the given kind.
func (r *Registry) IncClassified(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classified[kind]++
}

// IncDelivered counts one successfully delivered card.
func (r *Registry) IncDelivered() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered++
}

// IncDeliveryFailure counts one failed delivery attempt by reason.
func (r *Registry) IncDeliveryFailure(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[reason]++
}

// IncProcessingError counts one notification that failed before delivery.
func (r *Registry) IncProcessingError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors++
}

// Gather returns the current counters as metric families. Labeled
// families appear only once at least one of their children has been
// observed; the text encoder rejects empty families.
func (r *Registry) Gather() []*dto.MetricFamily {
	r.mu.Lock()
	defer r.mu.Unlock()

	fams := []*dto.MetricFamily{
		counterFamily("cardrelay_events_received_total",
			"Inbound notification events received.",
			[]sample{{value: r.received}}),
	}
	if len(r.classified) > 0 {
		fams = append(fams, counterFamily("cardrelay_events_classified_total",
			"Classification results by notification kind.",
			labeledSamples("kind", r.classified)))
	}
	fams = append(fams, counterFamily("cardrelay_cards_delivered_total",
		"Cards delivered to the webhook.",
		[]sample{{value: r.delivered}}))
	if len(r.failures) > 0 {
		fams = append(fams, counterFamily("cardrelay_delivery_failures_total",
			"Failed delivery attempts by reason.",
			labeledSamples("reason", r.failures)))
	}
	fams = append(fams, counterFamily("cardrelay_processing_errors_total",
		"Notifications that failed before delivery.",
		[]sample{{value: r.errors}}))
	return fams
}

// WriteText encodes the current counters to w in the Prometheus text
// exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range r.Gather() {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// ServeHTTP exposes the counters for scraping.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	if err := r.WriteText(w); err != nil {
		slog.Error("metrics: write exposition", "err", err)
	}
}

// sample is one metric child: an optional label pair plus its value.
type sample struct {
	labelName  string
	labelValue string
	value      float64
}

func labeledSamples(label string, values map[string]float64) []sample {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]sample, 0, len(keys))
	for _, k := range keys {
		out = append(out, sample{labelName: label, labelValue: k, value: values[k]})
	}
	return out
}

func counterFamily(name, help string, samples []sample) *dto.MetricFamily {
	mf := &dto.MetricFamily{
		Name: strPtr(name),
		Help: strPtr(help),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, s := range samples {
		m := &dto.Metric{Counter: &dto.Counter{Value: f64Ptr(s.value)}}
		if s.labelName != "" {
			m.Label = []*dto.LabelPair{{
				Name:  strPtr(s.labelName),
				Value: strPtr(s.labelValue),
			}}
		}
		mf.Metric = append(mf.Metric, m)
	}
	return mf
}

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }
