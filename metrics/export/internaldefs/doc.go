// Package internaldefs exposes stable metric name definitions shared by
// exporter implementations.
//
// Counter definitions live here so that the Prometheus and OTel exporters
// publish identical metric names. Changes to definitions in this package
// affect all exporters simultaneously.
package internaldefs
