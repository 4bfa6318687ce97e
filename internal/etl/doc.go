// Package etl extracts payment-schedule data from trees of semi-structured
// Excel reports and normalizes it into the long-form Payments Table.
//
// The pipeline per file is: recover the report date from the path
// (ExtractDate), locate the labeled total row and its two header rows on
// the RESUMEN sheet (ParseReportFile), and coerce each cell into a
// numeric amount (CoerceMoney). The Loader applies this to every workbook
// under one or more roots and reshapes the resulting wide records into
// one row per (date, bank, currency).
//
// Per-file failures are skips, never errors: report folders routinely
// contain lock files, drafts and unrelated workbooks, and a load must
// degrade gracefully instead of aborting over one bad file.
package etl
