package metrics

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/ports"
)

// Request outcomes.
const (
	OutcomeList     = "list"
	OutcomeEmpty    = "empty"
	OutcomeGreeting = "greeting"
	OutcomeError    = "error"
)

// Recorder owns a private registry so several instances (tests, CLI runs)
// never collide on the global one.
type Recorder struct {
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec
	listItems         prometheus.Histogram
	budgetUtilization prometheus.Histogram
	corrections       prometheus.Counter
	fillUpUnits       prometheus.Counter
	catalogProducts   prometheus.Gauge
	catalogRefreshes  *prometheus.CounterVec
}

var _ ports.Metrics = (*Recorder)(nil)

// New registers every collector under the given metric prefix.
func New(prefix string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of handled queries by archetype and outcome",
			},
			[]string{"archetype", "outcome"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		listItems: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_list_items",
				Help:    "Number of line items per shopping list",
				Buckets: prometheus.LinearBuckets(0, 4, 6),
			},
		),
		budgetUtilization: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_budget_utilization_ratio",
				Help:    "Share of the budget spent by budgeted lists",
				Buckets: []float64{0.5, 0.75, 0.9, 0.95, 0.98, 1},
			},
		),
		corrections: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_budget_corrections_total",
				Help: "Total number of lists that needed over-budget correction",
			},
		),
		fillUpUnits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_fill_up_units_total",
				Help: "Total units added by the budget fill-up pass",
			},
		),
		catalogProducts: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_catalog_products",
				Help: "Number of products in the served catalog",
			},
		),
		catalogRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_catalog_refreshes_total",
				Help: "Total number of catalog refresh attempts by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveRequest counts one handled query.
func (r *Recorder) ObserveRequest(archetype, outcome string) {
	if archetype == "" {
		archetype = "none"
	}
	r.requests.With(prometheus.Labels{"archetype": archetype, "outcome": outcome}).Inc()
}

// ObserveStage records how long a pipeline stage took.
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration) {
	r.stageDuration.With(prometheus.Labels{"stage": stage}).Observe(elapsed.Seconds())
}

// ObserveList records the shape of a built list.
func (r *Recorder) ObserveList(list domain.ShoppingList, corrected bool, fillUpUnits int) {
	r.listItems.Observe(float64(list.ItemCount))
	if list.Budget != nil && *list.Budget > 0 {
		r.budgetUtilization.Observe(list.TotalCost / *list.Budget)
	}
	if corrected {
		r.corrections.Inc()
	}
	if fillUpUnits > 0 {
		r.fillUpUnits.Add(float64(fillUpUnits))
	}
}

// ObserveCatalog records a refresh attempt and the resulting catalog size.
func (r *Recorder) ObserveCatalog(size int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.catalogRefreshes.With(prometheus.Labels{"result": result}).Inc()
	r.catalogProducts.Set(float64(size))
}

// Handler exposes the registry over HTTP.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Dump writes every metric family in the text exposition format.
func (r *Recorder) Dump(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	return writeFamilies(expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain)), families)
}

func writeFamilies(enc expfmt.Encoder, families []*dto.MetricFamily) error {
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
