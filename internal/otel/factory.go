package otel

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// MetricFactory creates instruments on the global meter under a name prefix.
// Packages call it from init(); the instruments follow the meter provider
// installed later by Init.
type MetricFactory struct {
	meter  metric.Meter
	prefix string
}

func NewFactory(meterName, prefix string) *MetricFactory {
	return &MetricFactory{
		meter:  otel.Meter(meterName),
		prefix: prefix,
	}
}

func (f *MetricFactory) name(suffix string) string {
	if f.prefix == "" {
		return suffix
	}
	return f.prefix + "." + suffix
}

func (f *MetricFactory) Int64Counter(target *metric.Int64Counter, name string, options ...metric.Int64CounterOption) {
	counter, err := f.meter.Int64Counter(f.name(name), options...)
	must(err, f.name(name))
	*target = counter
}

func (f *MetricFactory) Int64UpDownCounter(target *metric.Int64UpDownCounter, name string, options ...metric.Int64UpDownCounterOption) {
	counter, err := f.meter.Int64UpDownCounter(f.name(name), options...)
	must(err, f.name(name))
	*target = counter
}

func (f *MetricFactory) Float64Histogram(target *metric.Float64Histogram, name string, options ...metric.Float64HistogramOption) {
	histogram, err := f.meter.Float64Histogram(f.name(name), options...)
	must(err, f.name(name))
	*target = histogram
}

// instrument names are static, a failure is a programming error
func must(err error, name string) {
	if err != nil {
		panic(fmt.Sprintf("failed to create instrument %s: %v", name, err))
	}
}
