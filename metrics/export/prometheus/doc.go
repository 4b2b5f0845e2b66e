// Package prometheus renders authcore counters in Prometheus text
// exposition format.
//
// [NewExporter] accepts an [authcore.Engine] and exposes an [http.Handler]
// that serves all counters. Names are prefixed authcore_*_total.
//
// The package never registers in a global Prometheus registry — callers
// mount the Handler where they want it.
package prometheus
