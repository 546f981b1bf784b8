// Package verify provides an offline audit scanner over persisted canonical
// records.
//
// The auditor walks every canonical episode and source document in batches
// and re-checks the invariants the ingestion pipeline is supposed to have
// enforced at write time: source weights within [0, 1], header presence,
// extractable provenance with sound priority ordering, and ingestion-job
// references. Violations are collected into a report; nothing is mutated.
package verify
