package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"legacyvault/internal/audit"
	"legacyvault/internal/will/generator"
	"legacyvault/internal/will/models"
	"legacyvault/internal/will/ports"
	id "legacyvault/pkg/domain"
	dErrors "legacyvault/pkg/domain-errors"
	"legacyvault/pkg/platform/sentinel"
)

func willIDAttr(willID id.WillID) attribute.KeyValue {
	return attribute.String("will_id", willID.String())
}

// CreateWill runs the pipeline on new data and stores version 1. A will that
// fails validation is stored as a draft.
func (s *Service) CreateWill(ctx context.Context, owner id.UserID, req *models.CreateWillRequest) (_ *models.GeneratedWill, err error) {
	ctx, span := s.startSpan(ctx, "will.create", id.WillID{})
	defer func() { s.finish(span, "create", err) }()

	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "create request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	code, err := id.ParseJurisdictionCode(req.Jurisdiction)
	if err != nil {
		return nil, err
	}

	now := s.now(ctx)
	res, err := s.runPipeline(ctx, pipelineInput{
		code:     code,
		language: req.Language,
		willType: req.WillType,
		data:     req.Data,
		prefs:    req.Preferences,
	}, now)
	if err != nil {
		return nil, err
	}

	will := snapshot(res, s.newID(), owner, 1, req.Data, now, now)
	span.SetAttributes(willIDAttr(will.ID))
	if err := s.persist(ctx, will); err != nil {
		return nil, err
	}
	s.recordOutcome(will)
	s.logAudit(ctx, audit.EventWillCreated, auditEvent(will))
	return &will, nil
}

// RegenerateWill re-runs the pipeline on the stored inputs and stores the next
// version. On failure the previous version stays current.
func (s *Service) RegenerateWill(ctx context.Context, owner id.UserID, willID id.WillID) (_ *models.GeneratedWill, err error) {
	ctx, span := s.startSpan(ctx, "will.regenerate", willID)
	defer func() { s.finish(span, "regenerate", err) }()

	rec, err := s.loadOwned(ctx, owner, willID, false)
	if err != nil {
		return nil, err
	}
	will, err := s.rerun(ctx, rec, pipelineInput{
		code:     rec.Jurisdiction,
		language: rec.Language,
		willType: string(rec.WillType),
		data:     rec.Data,
		prefs:    rec.Preferences,
	})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.EventWillRegenerated, auditEvent(will))
	return &will, nil
}

// UpdateWill applies the edits in req to the stored inputs and regenerates.
func (s *Service) UpdateWill(ctx context.Context, owner id.UserID, willID id.WillID, req *models.UpdateWillRequest) (_ *models.GeneratedWill, err error) {
	ctx, span := s.startSpan(ctx, "will.update", willID)
	defer func() { s.finish(span, "update", err) }()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "update request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rec, err := s.loadOwned(ctx, owner, willID, false)
	if err != nil {
		return nil, err
	}

	in := pipelineInput{
		code:     rec.Jurisdiction,
		language: rec.Language,
		willType: string(rec.WillType),
		data:     rec.Data,
		prefs:    rec.Preferences,
	}
	if req.Language != nil {
		in.language = *req.Language
	}
	if req.WillType != nil {
		in.willType = *req.WillType
	}
	if req.Data != nil {
		in.data = req.Data.Clone()
	}
	if req.Preferences != nil {
		in.prefs = *req.Preferences
	}

	will, err := s.rerun(ctx, rec, in)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.EventWillUpdated, auditEvent(will))
	return &will, nil
}

// rerun renders in as the version after rec and persists it.
func (s *Service) rerun(ctx context.Context, rec models.WillRecord, in pipelineInput) (models.GeneratedWill, error) {
	now := s.now(ctx)
	res, err := s.runPipeline(ctx, in, now)
	if err != nil {
		return models.GeneratedWill{}, err
	}
	will := snapshot(res, rec.ID, rec.OwnerID, rec.Version+1, in.data, rec.CreatedAt, now)
	if err := s.persist(ctx, will); err != nil {
		return models.GeneratedWill{}, err
	}
	s.recordOutcome(will)
	return will, nil
}

// persist writes the content for the new version before the record that
// points at it. If the record write fails the new content is removed again,
// so a reader never sees a record without its content.
func (s *Service) persist(ctx context.Context, will models.GeneratedWill) error {
	rec, content := will.Split()
	start := time.Now()
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st ports.Stores) error {
		if err := st.Contents.Put(ctx, content); err != nil {
			return fmt.Errorf("store content: %w", err)
		}
		if err := st.Records.Save(ctx, rec); err != nil {
			if cerr := st.Contents.DeleteVersion(ctx, rec.ID, rec.Version); cerr != nil && s.logger != nil {
				s.logger.WarnContext(ctx, "failed to remove content of unsaved version",
					"will_id", rec.ID.String(),
					"version", rec.Version,
					"error", cerr,
				)
			}
			return fmt.Errorf("store record: %w", err)
		}
		return nil
	})
	s.metrics.ObserveStage("persist", time.Since(start))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeTimeout) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist will")
	}
	return nil
}

func (s *Service) recordOutcome(will models.GeneratedWill) {
	s.metrics.ObserveCompleteness(will.Validation.CompletenessScore)
	for _, issue := range will.Validation.Errors {
		s.metrics.IncrementValidationError(string(issue.Code))
	}
}

// GetWill returns the current version of a will.
func (s *Service) GetWill(ctx context.Context, owner id.UserID, willID id.WillID) (_ *models.GeneratedWill, err error) {
	ctx, span := s.startSpan(ctx, "will.get", willID)
	defer func() { s.finish(span, "get", err) }()

	rec, err := s.loadOwned(ctx, owner, willID, false)
	if err != nil {
		return nil, err
	}
	content, err := s.contents.Get(ctx, rec.ID, rec.Version)
	if err != nil {
		// The record is written after its content, so a miss here means the
		// stores disagree.
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load will content")
	}
	will := models.Assemble(rec, content)
	return &will, nil
}

// GetWillVersion returns the stored rendering of one version.
func (s *Service) GetWillVersion(ctx context.Context, owner id.UserID, willID id.WillID, version int) (_ *models.StoredContent, err error) {
	ctx, span := s.startSpan(ctx, "will.get_version", willID)
	defer func() { s.finish(span, "get_version", err) }()

	if version < 1 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "version must be positive")
	}
	rec, err := s.loadOwned(ctx, owner, willID, false)
	if err != nil {
		return nil, err
	}
	if version > rec.Version {
		return nil, dErrors.New(dErrors.CodeNotFound, "will version not found")
	}
	content, err := s.contents.Get(ctx, rec.ID, version)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "will version not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load will content")
	}
	return &content, nil
}

// ListWills returns summaries of the caller's wills, most recently updated
// first.
func (s *Service) ListWills(ctx context.Context, owner id.UserID) (_ []models.Summary, err error) {
	ctx, span := s.startSpan(ctx, "will.list", id.WillID{})
	defer func() { s.finish(span, "list", err) }()

	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	records, err := s.records.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list wills")
	}
	out := make([]models.Summary, 0, len(records))
	for _, rec := range records {
		if rec.OwnerID != owner || rec.Status == models.StatusDeleting {
			continue
		}
		out = append(out, rec.Summarize())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// DeleteWill removes the record and every stored version. The record is first
// marked deleting in its own write so that an interrupted delete is hidden
// from reads and a repeated call finishes it.
func (s *Service) DeleteWill(ctx context.Context, owner id.UserID, willID id.WillID) (err error) {
	ctx, span := s.startSpan(ctx, "will.delete", willID)
	defer func() { s.finish(span, "delete", err) }()

	rec, err := s.loadOwned(ctx, owner, willID, true)
	if err != nil {
		return err
	}
	if rec.Status != models.StatusDeleting {
		err := s.tx.RunInTx(ctx, func(ctx context.Context, st ports.Stores) error {
			return st.Records.MarkDeleting(ctx, rec.ID)
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark will for deletion")
		}
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context, st ports.Stores) error {
		if err := st.Contents.DeleteAll(ctx, rec.ID); err != nil {
			return fmt.Errorf("delete content: %w", err)
		}
		if err := st.Records.Delete(ctx, rec.ID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return fmt.Errorf("delete record: %w", err)
		}
		return nil
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete will")
	}
	s.logAudit(ctx, audit.EventWillDeleted, audit.Event{
		UserID:  owner,
		WillID:  rec.ID.String(),
		Version: rec.Version,
	})
	return nil
}

// VerifyIntegrity recomputes the checksum of every stored version.
func (s *Service) VerifyIntegrity(ctx context.Context, owner id.UserID, willID id.WillID) (_ *models.IntegrityReport, err error) {
	ctx, span := s.startSpan(ctx, "will.verify", willID)
	defer func() { s.finish(span, "verify", err) }()

	rec, err := s.loadOwned(ctx, owner, willID, false)
	if err != nil {
		return nil, err
	}
	versions, err := s.contents.Versions(ctx, rec.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list will versions")
	}

	report := &models.IntegrityReport{WillID: rec.ID, CurrentVersion: rec.Version, Valid: true}
	currentSeen := false
	for _, v := range versions {
		content, err := s.contents.Get(ctx, rec.ID, v)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load will content")
		}
		valid := generator.VerifyChecksum(content.Content.Text, content.Metadata.Checksum)
		report.Versions = append(report.Versions, models.VersionIntegrity{
			Version:  v,
			Checksum: content.Metadata.Checksum,
			Valid:    valid,
		})
		if !valid {
			report.Valid = false
			s.metrics.IncrementIntegrityFailure()
		}
		if v == rec.Version {
			currentSeen = true
		}
	}
	if !currentSeen {
		report.Valid = false
	}

	event, reason := audit.EventIntegrityVerified, ""
	if !report.Valid {
		event, reason = audit.EventIntegrityFailed, "checksum mismatch or missing current version"
	}
	s.logAudit(ctx, event, audit.Event{
		UserID:  owner,
		WillID:  rec.ID.String(),
		Version: rec.Version,
		Reason:  reason,
	})
	return report, nil
}

// loadOwned fetches a record the caller owns. Records of other owners are
// reported as missing. Records marked deleting are visible only when
// allowDeleting is set.
func (s *Service) loadOwned(ctx context.Context, owner id.UserID, willID id.WillID, allowDeleting bool) (models.WillRecord, error) {
	if owner.IsNil() {
		return models.WillRecord{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	if willID.IsNil() {
		return models.WillRecord{}, dErrors.New(dErrors.CodeInvalidInput, "will_id is required")
	}
	rec, err := s.records.FindByID(ctx, willID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.WillRecord{}, dErrors.New(dErrors.CodeNotFound, "will not found")
		}
		return models.WillRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load will")
	}
	if rec.OwnerID != owner {
		return models.WillRecord{}, dErrors.New(dErrors.CodeNotFound, "will not found")
	}
	if rec.Status == models.StatusDeleting && !allowDeleting {
		return models.WillRecord{}, dErrors.New(dErrors.CodeNotFound, "will not found")
	}
	return rec, nil
}

func auditEvent(will models.GeneratedWill) audit.Event {
	return audit.Event{
		UserID:  will.OwnerID,
		WillID:  will.ID.String(),
		Version: will.Version,
		Status:  string(will.Status),
	}
}
