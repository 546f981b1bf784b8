package ingest

import "errors"

var (
	// ErrUnitOfWorkFactoryRequired is returned when a unit of work factory is not provided.
	ErrUnitOfWorkFactoryRequired = errors.New("unit of work factory required")

	// ErrNormalizerRequired is returned when a source normalizer is not provided.
	ErrNormalizerRequired = errors.New("source normalizer required")

	// ErrWeightingStrategyRequired is returned when a weighting strategy is not provided.
	ErrWeightingStrategyRequired = errors.New("weighting strategy required")

	// ErrResolverRequired is returned when a conflict resolver is not provided.
	ErrResolverRequired = errors.New("conflict resolver required")

	// ErrSeriesProfileRequired is returned when ingestion is attempted without a series profile.
	ErrSeriesProfileRequired = errors.New("series profile required")

	// ErrEmptySourceSet indicates that ingestion was attempted with no raw sources.
	ErrEmptySourceSet = errors.New("at least one raw source is required")

	// ErrSeriesMismatch indicates that the request names a different series
	// than the profile it was submitted against.
	ErrSeriesMismatch = errors.New("request series slug does not match profile")

	// ErrNormalization indicates that a raw source could not be normalized.
	ErrNormalization = errors.New("source normalization failed")

	// ErrConfiguration indicates a malformed weighting configuration on the
	// series profile.
	ErrConfiguration = errors.New("invalid weighting configuration")

	// ErrInvalidScore indicates a score override outside [0, 1].
	ErrInvalidScore = errors.New("score must be within [0, 1]")

	// ErrZeroTimestamp indicates a missing capture timestamp for provenance.
	ErrZeroTimestamp = errors.New("capture timestamp required")
)
