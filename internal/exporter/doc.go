// Package exporter serializes a trade group for download.
//
// Two formats are supported: CSV with a UTF-8 BOM so Excel opens it
// correctly, and native XLSX. Both emit the same columns in the same
// order, and both render a missing or unparseable numeric field as an
// empty cell rather than a zero, so a degraded value stays visibly
// degraded in the export.
package exporter
