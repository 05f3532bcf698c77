package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"legacyvault/internal/audit"
	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/will/generator"
	"legacyvault/internal/will/metrics"
	"legacyvault/internal/will/models"
	"legacyvault/internal/will/ports"
	"legacyvault/internal/will/ports/mocks"
	"legacyvault/internal/will/service"
	"legacyvault/internal/will/store"
	id "legacyvault/pkg/domain"
	dErrors "legacyvault/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	registry *jurisdiction.Registry
	gen      *generator.Generator

	store   *store.MemoryStore
	audits  *audit.InMemoryStore
	metrics *metrics.Metrics
	now     time.Time
	svc     *service.Service
	owner   id.UserID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupSuite() {
	var err error
	s.registry, err = jurisdiction.LoadDefault()
	s.Require().NoError(err)
	catalog, err := generator.LoadCatalog()
	s.Require().NoError(err)
	s.gen = generator.New(catalog)
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewMemoryStore()
	s.audits = audit.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s.owner = id.UserID(uuid.New())
	s.svc = s.newService(s.store.Records(), s.store.Contents(), s.store, service.WithAuditPublisher(audit.NewPublisher(s.audits)))
}

func (s *ServiceSuite) newService(records ports.RecordStore, contents ports.ContentStore, tx ports.TxRunner, opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		service.WithMetrics(s.metrics),
		service.WithClock(func() time.Time { return s.now }),
	}
	svc, err := service.New(records, contents, tx, s.registry, s.gen, append(base, opts...)...)
	s.Require().NoError(err)
	return svc
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func completeWill() models.WillUserData {
	return models.WillUserData{}.
		WithPersonal(models.PersonalInfo{
			FullName:      "Jan Novak",
			DateOfBirth:   date(1970, time.May, 10),
			PlaceOfBirth:  "Bratislava",
			Citizenship:   "SK",
			MaritalStatus: models.MaritalMarried,
			Address:       models.Address{Street: "Hlavna 1", City: "Bratislava", PostalCode: "81101", Country: "SK"},
		}).
		WithFamily(models.FamilyInfo{
			Spouse:   &models.FamilyMember{Name: "Jana Novakova", Relationship: models.RelationshipSpouse},
			Children: []models.FamilyMember{{Name: "Petr Novak", Relationship: models.RelationshipChild, DateOfBirth: date(1998, time.March, 1)}},
		}).
		WithAsset(models.Asset{ID: "house", Type: models.AssetRealEstate, Description: "Family house", OwnershipPercentage: 100,
			EstimatedValue: models.Money{Amount: 250000, Currency: "EUR"}}).
		WithBeneficiary(models.Beneficiary{ID: "b1", Name: "Jana Novakova", Relationship: models.RelationshipSpouse, Share: models.PercentageShare(50, "")}).
		WithBeneficiary(models.Beneficiary{ID: "b2", Name: "Petr Novak", Relationship: models.RelationshipChild, Share: models.PercentageShare(50, "")}).
		WithExecutor(models.ExecutorAppointment{ID: "e1", Role: models.ExecutorPrimary, Name: "Karel Horak"}).
		WithExecutor(models.ExecutorAppointment{ID: "e2", Role: models.ExecutorAlternate, Name: "Marie Horakova"})
}

func (s *ServiceSuite) create(data models.WillUserData) *models.GeneratedWill {
	will, err := s.svc.CreateWill(context.Background(), s.owner, &models.CreateWillRequest{
		Jurisdiction: "SK",
		Data:         data,
	})
	s.Require().NoError(err)
	return will
}

func (s *ServiceSuite) auditActions() []string {
	events, err := s.audits.ListByUser(context.Background(), s.owner)
	s.Require().NoError(err)
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Action
	}
	return out
}

func (s *ServiceSuite) TestCreateWill() {
	s.Run("complete will is stored as version 1", func() {
		will := s.create(completeWill())

		s.Equal(1, will.Version)
		s.Equal(models.StatusComplete, will.Status)
		s.Equal(id.JurisdictionCode("SK"), will.Jurisdiction)
		s.True(will.Validation.IsValid)
		s.NotEmpty(will.Content.Text)
		s.NotEmpty(will.Metadata.Checksum)
		s.Equal(generator.Version, will.Metadata.GeneratorVersion)
		s.Equal(s.now, will.CreatedAt)

		stored, err := s.svc.GetWill(context.Background(), s.owner, will.ID)
		s.Require().NoError(err)
		s.Equal(will.Content, stored.Content)
		s.Equal(will.Validation, stored.Validation)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Operations.WithLabelValues("create", "ok")))
	})

	s.Run("minor testator yields a stored draft", func() {
		data := completeWill().WithPersonal(models.PersonalInfo{
			FullName:    "Young Testator",
			DateOfBirth: s.now.AddDate(-16, 0, 0),
			Address:     models.Address{City: "Kosice"},
		})
		will := s.create(data)

		s.False(will.Validation.IsValid)
		s.True(will.Validation.HasIssue(models.IssueAgeRequirement))
		s.Equal(models.StatusDraft, will.Status)
		s.NotEmpty(will.Content.Text)

		stored, err := s.svc.GetWill(context.Background(), s.owner, will.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusDraft, stored.Status)
		s.GreaterOrEqual(testutil.ToFloat64(s.metrics.ValidationErrors.WithLabelValues(string(models.IssueAgeRequirement))), 1.0)
	})

	s.Run("emits an audit event", func() {
		s.Contains(s.auditActions(), string(audit.EventWillCreated))
	})
}

func (s *ServiceSuite) TestCreateWillConfigurationErrors() {
	ctx := context.Background()
	cases := []struct {
		name string
		req  models.CreateWillRequest
		code dErrors.Code
	}{
		{"missing jurisdiction", models.CreateWillRequest{}, dErrors.CodeValidation},
		{"unsupported jurisdiction", models.CreateWillRequest{Jurisdiction: "XX"}, dErrors.CodeNotFound},
		{"malformed jurisdiction", models.CreateWillRequest{Jurisdiction: "Slovakia"}, dErrors.CodeInvalidInput},
		{"unsupported language", models.CreateWillRequest{Jurisdiction: "SK", Language: "ja"}, dErrors.CodeConfiguration},
		{"unknown will type", models.CreateWillRequest{Jurisdiction: "SK", WillType: "oral"}, dErrors.CodeConfiguration},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			req := tc.req
			req.Data = completeWill()
			_, err := s.svc.CreateWill(ctx, s.owner, &req)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, tc.code), "got %v", err)
		})
	}

	wills, err := s.svc.ListWills(ctx, s.owner)
	s.Require().NoError(err)
	s.Empty(wills, "failed creations must not persist anything")
}

func (s *ServiceSuite) TestCreateWillRequiresCaller() {
	_, err := s.svc.CreateWill(context.Background(), id.UserID{}, &models.CreateWillRequest{Jurisdiction: "SK"})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestMissingRequestIsABadRequest() {
	ctx := context.Background()

	s.NotPanics(func() {
		_, err := s.svc.CreateWill(ctx, s.owner, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	will := s.create(completeWill())
	s.NotPanics(func() {
		_, err := s.svc.UpdateWill(ctx, s.owner, will.ID, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	current, err := s.svc.GetWill(ctx, s.owner, will.ID)
	s.Require().NoError(err)
	s.Equal(1, current.Version)
}

func (s *ServiceSuite) TestRegenerateIsIdempotent() {
	ctx := context.Background()
	first := s.create(completeWill())

	second, err := s.svc.RegenerateWill(ctx, s.owner, first.ID)
	s.Require().NoError(err)

	s.Equal(2, second.Version)
	s.Equal(first.Content.Text, second.Content.Text)
	s.Equal(first.Metadata.Checksum, second.Metadata.Checksum)
	s.Equal(first.Validation, second.Validation)
	s.Equal(first.CreatedAt, second.CreatedAt)

	for _, v := range []int{1, 2} {
		content, err := s.svc.GetWillVersion(ctx, s.owner, first.ID, v)
		s.Require().NoError(err)
		s.Equal(v, content.Version)
	}
	s.Contains(s.auditActions(), string(audit.EventWillRegenerated))
}

func (s *ServiceSuite) TestFailedRegenerationKeepsPreviousVersion() {
	ctx := context.Background()
	original := s.create(completeWill())

	ctrl := gomock.NewController(s.T())
	failing := mocks.NewMockRecordStore(ctrl)
	failing.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	tx := mocks.NewMockTxRunner(ctrl)
	// Split-store runner: content writes are not rolled back.
	tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, ports.Stores) error) error {
			return fn(ctx, ports.Stores{Records: failing, Contents: s.store.Contents()})
		})

	svc := s.newService(s.store.Records(), s.store.Contents(), tx)
	_, err := svc.RegenerateWill(ctx, s.owner, original.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	versions, err := s.store.Contents().Versions(ctx, original.ID)
	s.Require().NoError(err)
	s.Equal([]int{1}, versions, "content of the unsaved version is removed")

	current, err := s.svc.GetWill(ctx, s.owner, original.ID)
	s.Require().NoError(err)
	s.Equal(1, current.Version)
	s.Equal(original.Content, current.Content)
}

func (s *ServiceSuite) TestUpdateWill() {
	ctx := context.Background()
	original := s.create(completeWill())

	s.Run("rejects empty update", func() {
		_, err := s.svc.UpdateWill(ctx, s.owner, original.ID, &models.UpdateWillRequest{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("applies data and keeps jurisdiction", func() {
		s.now = s.now.Add(time.Hour)
		edited := completeWill().RemoveExecutor("e2")
		updated, err := s.svc.UpdateWill(ctx, s.owner, original.ID, &models.UpdateWillRequest{Data: &edited})
		s.Require().NoError(err)

		s.Equal(2, updated.Version)
		s.Equal(original.Jurisdiction, updated.Jurisdiction)
		s.Equal(original.CreatedAt, updated.CreatedAt)
		s.Equal(s.now, updated.UpdatedAt)
		s.False(updated.Data.HasExecutorRole(models.ExecutorAlternate))
		s.Contains(original.Content.Text, "Marie Horakova")
		s.NotContains(updated.Content.Text, "Marie Horakova")
	})

	s.Run("unsupported language leaves will untouched", func() {
		lang := "ja"
		_, err := s.svc.UpdateWill(ctx, s.owner, original.ID, &models.UpdateWillRequest{Language: &lang})
		s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))

		current, err := s.svc.GetWill(ctx, s.owner, original.ID)
		s.Require().NoError(err)
		s.Equal(2, current.Version)
	})

	s.Contains(s.auditActions(), string(audit.EventWillUpdated))
}

func (s *ServiceSuite) TestGetWillVersionBounds() {
	ctx := context.Background()
	will := s.create(completeWill())

	_, err := s.svc.GetWillVersion(ctx, s.owner, will.ID, 0)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = s.svc.GetWillVersion(ctx, s.owner, will.ID, 2)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestForeignOwnerSeesNothing() {
	ctx := context.Background()
	will := s.create(completeWill())
	stranger := id.UserID(uuid.New())

	_, err := s.svc.GetWill(ctx, stranger, will.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.svc.RegenerateWill(ctx, stranger, will.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.svc.DeleteWill(ctx, stranger, will.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	wills, err := s.svc.ListWills(ctx, stranger)
	s.Require().NoError(err)
	s.Empty(wills)

	_, err = s.svc.GetWill(ctx, s.owner, will.ID)
	s.NoError(err, "owner still sees the will")
}

func (s *ServiceSuite) TestListWillsMostRecentFirst() {
	ctx := context.Background()
	a := s.create(completeWill())
	s.now = s.now.Add(time.Minute)
	b := s.create(completeWill())
	s.now = s.now.Add(time.Minute)
	_, err := s.svc.RegenerateWill(ctx, s.owner, a.ID)
	s.Require().NoError(err)

	wills, err := s.svc.ListWills(ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(wills, 2)
	s.Equal(a.ID, wills[0].ID)
	s.Equal(2, wills[0].Version)
	s.Equal(b.ID, wills[1].ID)
}

func (s *ServiceSuite) TestDeleteWill() {
	ctx := context.Background()
	will := s.create(completeWill())
	_, err := s.svc.RegenerateWill(ctx, s.owner, will.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeleteWill(ctx, s.owner, will.ID))

	_, err = s.svc.GetWill(ctx, s.owner, will.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	versions, err := s.store.Contents().Versions(ctx, will.ID)
	s.Require().NoError(err)
	s.Empty(versions)
	s.Contains(s.auditActions(), string(audit.EventWillDeleted))

	err = s.svc.DeleteWill(ctx, s.owner, will.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestInterruptedDeleteIsHiddenAndResumable() {
	ctx := context.Background()
	will := s.create(completeWill())
	s.Require().NoError(s.store.Records().MarkDeleting(ctx, will.ID))

	_, err := s.svc.GetWill(ctx, s.owner, will.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	wills, err := s.svc.ListWills(ctx, s.owner)
	s.Require().NoError(err)
	s.Empty(wills)

	s.Require().NoError(s.svc.DeleteWill(ctx, s.owner, will.ID))
	_, err = s.store.Records().FindByID(ctx, will.ID)
	s.Error(err)
	versions, err := s.store.Contents().Versions(ctx, will.ID)
	s.Require().NoError(err)
	s.Empty(versions)
}

func (s *ServiceSuite) TestVerifyIntegrity() {
	ctx := context.Background()
	will := s.create(completeWill())
	_, err := s.svc.RegenerateWill(ctx, s.owner, will.ID)
	s.Require().NoError(err)

	s.Run("untouched content verifies", func() {
		report, err := s.svc.VerifyIntegrity(ctx, s.owner, will.ID)
		s.Require().NoError(err)
		s.True(report.Valid)
		s.Equal(2, report.CurrentVersion)
		s.Len(report.Versions, 2)
	})

	s.Run("tampered version is reported", func() {
		content, err := s.store.Contents().Get(ctx, will.ID, 1)
		s.Require().NoError(err)
		content.Content.Text += "\nI also leave my boat to the notary."
		s.Require().NoError(s.store.Contents().Put(ctx, content))

		report, err := s.svc.VerifyIntegrity(ctx, s.owner, will.ID)
		s.Require().NoError(err)
		s.False(report.Valid)
		s.Require().Len(report.Versions, 2)
		s.False(report.Versions[0].Valid)
		s.True(report.Versions[1].Valid)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.IntegrityFailures))
		s.Contains(s.auditActions(), string(audit.EventIntegrityFailed))
	})

	s.Run("missing current version is reported", func() {
		s.Require().NoError(s.store.Contents().DeleteVersion(ctx, will.ID, 2))
		report, err := s.svc.VerifyIntegrity(ctx, s.owner, will.ID)
		s.Require().NoError(err)
		s.False(report.Valid)
	})
}

func (s *ServiceSuite) TestAuditFailureDoesNotFailOperation() {
	ctrl := gomock.NewController(s.T())
	publisher := mocks.NewMockAuditPort(ctrl)
	var emitted audit.Event
	publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e audit.Event) error {
			emitted = e
			return errors.New("queue full")
		})

	svc := s.newService(s.store.Records(), s.store.Contents(), s.store, service.WithAuditPublisher(publisher))
	will, err := svc.CreateWill(context.Background(), s.owner, &models.CreateWillRequest{Jurisdiction: "SK", Data: completeWill()})
	s.Require().NoError(err)

	s.Equal(string(audit.EventWillCreated), emitted.Action)
	s.Equal(s.owner, emitted.UserID)
	s.Equal(will.ID.String(), emitted.WillID)
	s.Equal(1, emitted.Version)
	s.Equal(string(models.StatusComplete), emitted.Status)
}

func (s *ServiceSuite) TestCancelledContextIsATimeout() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.svc.CreateWill(ctx, s.owner, &models.CreateWillRequest{Jurisdiction: "SK", Data: completeWill()})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Operations.WithLabelValues("create", "error")))
}

func TestNewRequiresDependencies(t *testing.T) {
	mem := store.NewMemoryStore()
	_, err := service.New(nil, mem.Contents(), mem, nil, nil)
	if err == nil {
		t.Fatal("expected error for missing record store")
	}
}
