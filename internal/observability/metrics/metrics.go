package metrics

import "github.com/prometheus/client_golang/prometheus"

const defaultNamespace = "advisor"

// AdvisorMetrics exposes counters/histograms for the chat advisor.
type AdvisorMetrics struct {
	requestsTotal *prometheus.CounterVec
	symptomHits   *prometheus.CounterVec
	mentionsTotal *prometheus.CounterVec
	llmLatency    *prometheus.HistogramVec
}

func NewAdvisorMetrics(reg prometheus.Registerer, namespace string) *AdvisorMetrics {
	if namespace == "" {
		namespace = defaultNamespace
	}
	m := &AdvisorMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total advisor requests by endpoint and prompt strategy",
		}, []string{"endpoint", "strategy"}),
		symptomHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "symptom_hits_total",
			Help:      "Symptom terms detected by match strategy",
		}, []string{"strategy"}),
		mentionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "product_mentions_total",
			Help:      "Product mentions detected by strategy",
		}, []string{"strategy"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "llm_latency_seconds",
			Help:      "Latency of language model completions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.symptomHits, m.mentionsTotal, m.llmLatency)
	return m
}

func (m *AdvisorMetrics) ObserveRequest(endpoint, strategy string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(endpoint, strategy).Inc()
}

func (m *AdvisorMetrics) ObserveSymptomHit(strategy string) {
	if m == nil {
		return
	}
	m.symptomHits.WithLabelValues(strategy).Inc()
}

func (m *AdvisorMetrics) ObserveMention(strategy string) {
	if m == nil {
		return
	}
	m.mentionsTotal.WithLabelValues(strategy).Inc()
}

func (m *AdvisorMetrics) ObserveLLM(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(outcome).Observe(seconds)
}

// LearningMetrics tracks the learning pipeline.
type LearningMetrics struct {
	suggestionsTotal *prometheus.CounterVec
	reviewsTotal     *prometheus.CounterVec
	relationsTotal   prometheus.Counter
	jobsTotal        *prometheus.CounterVec
	jobLatency       prometheus.Histogram
}

func NewLearningMetrics(reg prometheus.Registerer, namespace string) *LearningMetrics {
	if namespace == "" {
		namespace = defaultNamespace
	}
	m := &LearningMetrics{
		suggestionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "learning",
			Name:      "analyses_total",
			Help:      "Conversation analyses by result",
		}, []string{"result"}),
		reviewsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "learning",
			Name:      "reviews_total",
			Help:      "Settled suggestions by review mode",
		}, []string{"mode"}),
		relationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "learning",
			Name:      "relations_written_total",
			Help:      "Symptom to product relations written by promotions",
		}),
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "learning",
			Name:      "jobs_total",
			Help:      "Learning jobs consumed by outcome",
		}, []string{"outcome"}),
		jobLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "learning",
			Name:      "job_duration_seconds",
			Help:      "Time spent analyzing one learning job",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.suggestionsTotal, m.reviewsTotal, m.relationsTotal, m.jobsTotal, m.jobLatency)
	return m
}

func (m *LearningMetrics) ObserveSuggestion(result string) {
	if m == nil {
		return
	}
	m.suggestionsTotal.WithLabelValues(result).Inc()
}

func (m *LearningMetrics) ObservePromotion(mode string, relations int) {
	if m == nil {
		return
	}
	m.reviewsTotal.WithLabelValues(mode).Inc()
	if relations > 0 {
		m.relationsTotal.Add(float64(relations))
	}
}

func (m *LearningMetrics) ObserveJob(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(outcome).Inc()
	m.jobLatency.Observe(seconds)
}
