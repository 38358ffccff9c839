package dispatch

import (
	"calsync/internal/constants"
	"calsync/pkg/models"
)

// SchemaClass is the handling path for an envelope. Classification is total:
// every schema_version string maps to exactly one class, and unknown versions
// route through legacy handling so future schema bumps never break the
// subscriber.
type SchemaClass int

const (
	SchemaUnknown SchemaClass = iota
	SchemaLegacyV1
	SchemaLegacyV15
	SchemaEnhancedV2
)

func (c SchemaClass) String() string {
	switch c {
	case SchemaEnhancedV2:
		return "v2"
	case SchemaLegacyV15:
		return "v1.5"
	case SchemaLegacyV1:
		return "v1"
	default:
		return "unknown"
	}
}

// Classify reads only the schema_version tag; no payload field is touched
// before classification.
func Classify(e *models.Envelope) SchemaClass {
	switch e.SchemaVersion {
	case constants.SchemaVersionEnhanced:
		return SchemaEnhancedV2
	case constants.SchemaVersionLegacyV15:
		return SchemaLegacyV15
	case constants.SchemaVersionLegacyV1, "":
		return SchemaLegacyV1
	default:
		return SchemaUnknown
	}
}
