// Package ingest provides pipeline orchestration for multi-source episode
// ingestion.
//
// The Pipeline type manages the ingestion workflow for raw sources, including:
//   - Normalizing raw sources into TEI fragments concurrently
//   - Computing per-source weights from series configuration
//   - Resolving conflicts in favor of the highest-weighted source
//   - Persisting the canonical episode and its audit trail atomically
//
// Normalization is performed concurrently using a worker pool; the first
// failure cancels the remaining work and fails the whole ingestion, leaving
// storage untouched.
package ingest
