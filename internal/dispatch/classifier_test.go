package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"calsync/pkg/models"
)

func TestClassify_EnhancedSchema(t *testing.T) {
	e := &models.Envelope{SchemaVersion: "2.0"}
	assert.Equal(t, SchemaEnhancedV2, Classify(e))
}

func TestClassify_LegacyV15(t *testing.T) {
	e := &models.Envelope{SchemaVersion: "1.5"}
	assert.Equal(t, SchemaLegacyV15, Classify(e))
}

func TestClassify_LegacyV1(t *testing.T) {
	e := &models.Envelope{SchemaVersion: "1.0"}
	assert.Equal(t, SchemaLegacyV1, Classify(e))
}

func TestClassify_MissingVersionFallsBackToLegacy(t *testing.T) {
	e := &models.Envelope{}
	assert.Equal(t, SchemaLegacyV1, Classify(e))
}

func TestClassify_UnknownVersion(t *testing.T) {
	for _, version := range []string{"3.0", "2.1", "garbage", "2"} {
		e := &models.Envelope{SchemaVersion: version}
		assert.Equal(t, SchemaUnknown, Classify(e), "version %q", version)
	}
}

func TestClassify_IsTotal(t *testing.T) {
	// Every input maps to exactly one of the four classes; none may panic.
	versions := []string{"", "1.0", "1.5", "2.0", "99", "v2", "2.0.1"}
	for _, version := range versions {
		class := Classify(&models.Envelope{SchemaVersion: version})
		assert.Contains(t, []SchemaClass{
			SchemaUnknown, SchemaLegacyV1, SchemaLegacyV15, SchemaEnhancedV2,
		}, class)
	}
}

func TestSchemaClass_String(t *testing.T) {
	assert.Equal(t, "v2", SchemaEnhancedV2.String())
	assert.Equal(t, "v1.5", SchemaLegacyV15.String())
	assert.Equal(t, "v1", SchemaLegacyV1.String())
	assert.Equal(t, "unknown", SchemaUnknown.String())
}
