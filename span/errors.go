package span

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrConfiguration is returned when no positive bar length is available.
	// Ingestion is refused and nothing changes.
	ErrConfiguration = errors.NewKind("bar length unavailable: %s")

	// ErrMalformedInput is returned for values that cannot be ingested.
	ErrMalformedInput = errors.NewKind("malformed input: %s")

	// ErrValidationRejected marks a finished span that was reclaimed without
	// being emitted. It is only reported to the log and to sinks.
	ErrValidationRejected = errors.NewKind("span %s rejected: %s")
)
