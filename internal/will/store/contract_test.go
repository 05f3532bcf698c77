package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"legacyvault/internal/will/models"
	"legacyvault/internal/will/ports"
	id "legacyvault/pkg/domain"
	"legacyvault/pkg/platform/sentinel"
)

func newRecord(owner id.UserID, version int, updated time.Time) models.WillRecord {
	data := models.WillUserData{}.
		WithPersonal(models.PersonalInfo{FullName: "Jan Novak", DateOfBirth: time.Date(1970, 5, 10, 0, 0, 0, 0, time.UTC)}).
		WithBeneficiary(models.Beneficiary{ID: "b1", Name: "Jana", Relationship: models.RelationshipSpouse, Share: models.PercentageShare(100, "")})
	return models.WillRecord{
		ID:           id.NewWillID(),
		OwnerID:      owner,
		Version:      version,
		Status:       models.StatusDraft,
		Jurisdiction: "SK",
		Language:     "sk",
		WillType:     models.WillTypeHolographic,
		Preferences:  models.DefaultPreferences(),
		Data:         data,
		Validation: models.ValidationResult{
			CompletenessScore:     40,
			MissingRequiredFields: []string{"executors"},
		},
		Suggestions: []models.Suggestion{},
		Disclaimer:  "Not legal advice.",
		CreatedAt:   updated,
		UpdatedAt:   updated,
	}
}

func newContent(willID id.WillID, version int, text string) models.StoredContent {
	return models.StoredContent{
		WillID:   willID,
		Version:  version,
		Content:  models.Content{Text: text, HTML: "<p>" + text + "</p>"},
		Metadata: models.Metadata{Version: version, WordCount: 1, PageCount: 1, Checksum: "sha256:abc", GeneratorVersion: "test"},
	}
}

// recordContract exercises the RecordStore behaviour every adapter shares.
func recordContract(s *suite.Suite, records ports.RecordStore) {
	ctx := context.Background()
	owner := id.UserID(uuid.New())
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	s.Run("save and find round-trip", func() {
		rec := newRecord(owner, 1, now)
		s.Require().NoError(records.Save(ctx, rec))

		found, err := records.FindByID(ctx, rec.ID)
		s.Require().NoError(err)
		s.Equal(rec.ID, found.ID)
		s.Equal(rec.OwnerID, found.OwnerID)
		s.Equal(rec.WillType, found.WillType)
		s.Equal(rec.Data.Personal.FullName, found.Data.Personal.FullName)
		s.Equal(rec.Validation.MissingRequiredFields, found.Validation.MissingRequiredFields)
		s.True(rec.UpdatedAt.Equal(found.UpdatedAt))
	})

	s.Run("save replaces the record", func() {
		rec := newRecord(owner, 1, now)
		s.Require().NoError(records.Save(ctx, rec))
		rec.Version = 2
		rec.Status = models.StatusComplete
		s.Require().NoError(records.Save(ctx, rec))

		found, err := records.FindByID(ctx, rec.ID)
		s.Require().NoError(err)
		s.Equal(2, found.Version)
		s.Equal(models.StatusComplete, found.Status)
	})

	s.Run("missing record is not found", func() {
		_, err := records.FindByID(ctx, id.NewWillID())
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.ErrorIs(records.Delete(ctx, id.NewWillID()), sentinel.ErrNotFound)
		s.ErrorIs(records.MarkDeleting(ctx, id.NewWillID()), sentinel.ErrNotFound)
	})

	s.Run("list includes deleting records of the owner only", func() {
		other := id.UserID(uuid.New())
		mine := id.UserID(uuid.New())
		a := newRecord(mine, 1, now)
		b := newRecord(mine, 1, now)
		s.Require().NoError(records.Save(ctx, a))
		s.Require().NoError(records.Save(ctx, b))
		s.Require().NoError(records.Save(ctx, newRecord(other, 1, now)))
		s.Require().NoError(records.MarkDeleting(ctx, b.ID))

		list, err := records.ListByOwner(ctx, mine)
		s.Require().NoError(err)
		s.Len(list, 2)
		statuses := map[id.WillID]models.WillStatus{}
		for _, r := range list {
			statuses[r.ID] = r.Status
		}
		s.Equal(models.StatusDeleting, statuses[b.ID])
		s.Equal(models.StatusDraft, statuses[a.ID])
	})

	s.Run("delete removes the record", func() {
		rec := newRecord(owner, 1, now)
		s.Require().NoError(records.Save(ctx, rec))
		s.Require().NoError(records.Delete(ctx, rec.ID))
		_, err := records.FindByID(ctx, rec.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

// contentContract exercises the ContentStore behaviour every adapter shares.
func contentContract(s *suite.Suite, contents ports.ContentStore) {
	ctx := context.Background()

	s.Run("versions are kept independently", func() {
		willID := id.NewWillID()
		for _, v := range []int{2, 1, 3} {
			s.Require().NoError(contents.Put(ctx, newContent(willID, v, "text")))
		}
		s.Require().NoError(contents.Put(ctx, newContent(willID, 2, "rewritten")))

		versions, err := contents.Versions(ctx, willID)
		s.Require().NoError(err)
		s.Equal([]int{1, 2, 3}, versions)

		got, err := contents.Get(ctx, willID, 2)
		s.Require().NoError(err)
		s.Equal("rewritten", got.Content.Text)
		s.Equal("sha256:abc", got.Metadata.Checksum)
	})

	s.Run("missing version is not found", func() {
		_, err := contents.Get(ctx, id.NewWillID(), 1)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("deletes are idempotent", func() {
		willID := id.NewWillID()
		s.Require().NoError(contents.Put(ctx, newContent(willID, 1, "one")))
		s.Require().NoError(contents.Put(ctx, newContent(willID, 2, "two")))

		s.Require().NoError(contents.DeleteVersion(ctx, willID, 2))
		s.Require().NoError(contents.DeleteVersion(ctx, willID, 2))
		versions, err := contents.Versions(ctx, willID)
		s.Require().NoError(err)
		s.Equal([]int{1}, versions)

		s.Require().NoError(contents.DeleteAll(ctx, willID))
		s.Require().NoError(contents.DeleteAll(ctx, willID))
		versions, err = contents.Versions(ctx, willID)
		s.Require().NoError(err)
		s.Empty(versions)
	})
}

func newOwner() id.UserID {
	return id.UserID(uuid.New())
}
