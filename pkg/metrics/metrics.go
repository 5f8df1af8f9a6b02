// Package metrics 校验结果的 Prometheus 指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tpm-common-validation/pkg/validator/schema"
)

// 结果标签取值
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

// PrometheusObserver 将每次校验记录为 Prometheus 指标，实现 validator.Observer
//
// 指标：
//   - <ns>_validations_total{entity,result}
//   - <ns>_validation_field_errors_total{entity,field}，只统计顶层字段
//   - <ns>_validation_duration_seconds{entity}
type PrometheusObserver struct {
	validations *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewPrometheusObserver 创建并注册指标
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	o := &PrometheusObserver{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of validations by entity and result",
			},
			[]string{"entity", "result"},
		),
		fieldErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_field_errors_total",
				Help:      "Total number of failed top-level fields by entity",
			},
			[]string{"entity", "field"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of schema validations",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"entity"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{o.validations, o.fieldErrors, o.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return o, nil
}

// Observe 记录一次校验
func (o *PrometheusObserver) Observe(entity string, result schema.Result, elapsed time.Duration) {
	state := ResultValid
	if !result.Valid {
		state = ResultInvalid
	}
	o.validations.WithLabelValues(entity, state).Inc()

	for field := range result.Errors {
		o.fieldErrors.WithLabelValues(entity, field).Inc()
	}

	o.duration.WithLabelValues(entity).Observe(elapsed.Seconds())
}
