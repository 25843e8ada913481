// Package otel records intersection controller events as OpenTelemetry
// metrics: arrival, blocked, admission and departure counters, a resident
// up-down counter, and an admission wait histogram.
package otel
