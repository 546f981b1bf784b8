package tei

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/poiesic/canonica/core"
)

// ProvenanceKey is the fixed header-payload key provenance is embedded under.
const ProvenanceKey = "canonica_provenance"

var (
	// ErrProvenanceMissing indicates a header payload without an embedded
	// provenance entry.
	ErrProvenanceMissing = errors.New("provenance missing from header payload")

	// ErrProvenanceMalformed indicates an embedded provenance entry that does
	// not decode into a provenance payload.
	ErrProvenanceMalformed = errors.New("malformed provenance payload")
)

// MergeProvenance returns a copy of a header payload with the provenance
// payload embedded under ProvenanceKey. The input map is not mutated; an
// existing entry under the key is replaced.
func MergeProvenance(payload map[string]any, provenance core.ProvenancePayload) (map[string]any, error) {
	entry, err := provenanceToMap(provenance)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		merged[k] = v
	}
	merged[ProvenanceKey] = entry
	return merged, nil
}

// ExtractProvenance recovers the provenance payload embedded in a header
// payload map. The payload round-trips losslessly, including the order of
// source priorities and reviewer identities.
func ExtractProvenance(payload map[string]any) (core.ProvenancePayload, error) {
	entry, ok := payload[ProvenanceKey]
	if !ok {
		return core.ProvenancePayload{}, ErrProvenanceMissing
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return core.ProvenancePayload{}, fmt.Errorf("%w: %w", ErrProvenanceMalformed, err)
	}
	var provenance core.ProvenancePayload
	if err := json.Unmarshal(raw, &provenance); err != nil {
		return core.ProvenancePayload{}, fmt.Errorf("%w: %w", ErrProvenanceMalformed, err)
	}
	return provenance, nil
}

// provenanceToMap converts a provenance payload into the JSON-shaped map
// stored inside header payloads, so MUS and JSON serialization see plain
// maps throughout.
func provenanceToMap(provenance core.ProvenancePayload) (map[string]any, error) {
	raw, err := json.Marshal(provenance)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvenanceMalformed, err)
	}
	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvenanceMalformed, err)
	}
	return entry, nil
}
