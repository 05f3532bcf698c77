package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legacyvault/internal/will/models"
	dErrors "legacyvault/pkg/domain-errors"
)

// Every closed enumeration must map every member; a value added to an All*
// list without a matching case fails here.

func TestRelationshipMappingsAreTotal(t *testing.T) {
	for _, r := range models.AllRelationships() {
		category, err := r.Category()
		require.NoError(t, err, "relationship %q has no category", r)
		assert.NotEmpty(t, category)

		parsed, err := models.ParseRelationship(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	_, err := models.Relationship("cousin").Category()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestForcedHeirs(t *testing.T) {
	var heirs []models.Relationship
	for _, r := range models.AllRelationships() {
		if r.IsForcedHeir() {
			heirs = append(heirs, r)
		}
	}
	assert.Equal(t, []models.Relationship{models.RelationshipSpouse, models.RelationshipChild}, heirs)
}

func TestWillTypeStorageRoundTrip(t *testing.T) {
	seen := map[models.StorageType]bool{}
	for _, wt := range models.AllWillTypes() {
		st := wt.StorageType()
		require.NotEmpty(t, st, "will type %q has no storage type", wt)
		assert.False(t, seen[st], "storage type %q mapped twice", st)
		seen[st] = true

		back, err := models.WillTypeFromStorage(st)
		require.NoError(t, err)
		assert.Equal(t, wt, back)
	}

	_, err := models.WillTypeFromStorage("oral")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestParseWillTypeRejectsUnknown(t *testing.T) {
	_, err := models.ParseWillType("oral")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, models.PriorityHigh.Rank(), models.PriorityMedium.Rank())
	assert.Less(t, models.PriorityMedium.Rank(), models.PriorityLow.Rank())
	assert.Less(t, models.PriorityLow.Rank(), models.Priority("unknown").Rank())
}

func TestShareRelatedIssueCodes(t *testing.T) {
	assert.True(t, models.IssueOverAllocation.IsShareRelated())
	assert.True(t, models.IssueUnderAllocation.IsShareRelated())
	assert.False(t, models.IssueAgeRequirement.IsShareRelated())
}

func TestPreferencesValidate(t *testing.T) {
	for _, d := range models.AllDetailLevels() {
		for _, l := range models.AllLanguageStyles() {
			assert.NoError(t, models.Preferences{DetailLevel: d, LanguageStyle: l}.Validate())
		}
	}
	assert.NoError(t, models.Preferences{}.Validate())

	err := models.Preferences{DetailLevel: "exhaustive"}.Validate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	err = models.Preferences{LanguageStyle: "poetic"}.Validate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	normalized := models.Preferences{}.Normalize()
	assert.Equal(t, models.DetailDetailed, normalized.DetailLevel)
	assert.Equal(t, models.StyleFormal, normalized.LanguageStyle)
}
