package verify

import "errors"

var (
	// ErrScanFailed wraps storage failures encountered mid-audit. Integrity
	// violations are never errors; they are collected into the report.
	ErrScanFailed = errors.New("audit scan failed")
)
