// Package batch runs equilibrium queries over many compositions in parallel.
//
// A Runner splits its input into contiguous shards (twice as many as
// workers) and processes them on an errgroup bounded to the worker count.
// All workers share one read-only solver; each writes only its own output
// rows, so results come back in input order.
//
// Errors:
//
//	AbortOnError cancels the batch at the first failing query and returns
//	that error. SkipOnError records the error in the row, fills the row with
//	missing values (NaN, or false for labels) and carries on.
//
// Observability:
//
//	Every query is counted and timed on an optional Metrics set; failures
//	and batch summaries go to a zap logger (no-op by default).
package batch
