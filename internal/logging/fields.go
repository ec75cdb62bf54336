package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldTitle is the standardized structured logging key for anime titles.
	FieldTitle = "title"
	// FieldNormalizedTitle is the standardized structured logging key for cache keys.
	FieldNormalizedTitle = "normalized_title"
	// FieldRunID is the standardized structured logging key for sync run correlation IDs.
	FieldRunID = "run_id"
	// FieldOutcome is the standardized structured logging key for resolution outcomes.
	FieldOutcome = "outcome"
	// FieldUpdater is the standardized structured logging key for field-updater kinds.
	FieldUpdater = "updater"
	// FieldPageID is the standardized structured logging key for destination record identifiers.
	FieldPageID = "page_id"
)
