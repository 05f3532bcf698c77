package models

import (
	"fmt"

	dErrors "legacyvault/pkg/domain-errors"
)

// Relationship is the testator's relationship to a beneficiary, executor or
// guardian. The set is closed; every mapping below is a total switch so a new
// value fails the enum tests instead of falling through to a default.
type Relationship string

const (
	RelationshipSpouse     Relationship = "spouse"
	RelationshipChild      Relationship = "child"
	RelationshipParent     Relationship = "parent"
	RelationshipSibling    Relationship = "sibling"
	RelationshipGrandchild Relationship = "grandchild"
	RelationshipFriend     Relationship = "friend"
	RelationshipCharity    Relationship = "charity"
	RelationshipOther      Relationship = "other"
)

// AllRelationships lists every relationship in declaration order.
func AllRelationships() []Relationship {
	return []Relationship{
		RelationshipSpouse, RelationshipChild, RelationshipParent, RelationshipSibling,
		RelationshipGrandchild, RelationshipFriend, RelationshipCharity, RelationshipOther,
	}
}

// ParseRelationship validates external input.
func ParseRelationship(s string) (Relationship, error) {
	for _, r := range AllRelationships() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown relationship: %q", s))
}

// BeneficiaryCategory groups beneficiaries the way inheritance-tax tables do.
type BeneficiaryCategory string

const (
	CategoryImmediateFamily BeneficiaryCategory = "immediate_family"
	CategoryExtendedFamily  BeneficiaryCategory = "extended_family"
	CategoryUnrelated       BeneficiaryCategory = "unrelated"
	CategoryCharitable      BeneficiaryCategory = "charitable"
)

// Category maps a relationship onto its tax category.
func (r Relationship) Category() (BeneficiaryCategory, error) {
	switch r {
	case RelationshipSpouse, RelationshipChild, RelationshipParent, RelationshipGrandchild:
		return CategoryImmediateFamily, nil
	case RelationshipSibling:
		return CategoryExtendedFamily, nil
	case RelationshipFriend, RelationshipOther:
		return CategoryUnrelated, nil
	case RelationshipCharity:
		return CategoryCharitable, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown relationship: %q", r))
}

// IsForcedHeir reports whether the relationship is protected by forced
// heirship rules where a jurisdiction applies them.
func (r Relationship) IsForcedHeir() bool {
	switch r {
	case RelationshipSpouse, RelationshipChild:
		return true
	case RelationshipParent, RelationshipSibling, RelationshipGrandchild,
		RelationshipFriend, RelationshipCharity, RelationshipOther:
		return false
	}
	return false
}

// ShareKind tags the variant carried by a Share.
type ShareKind string

const (
	ShareKindPercentage     ShareKind = "percentage"
	ShareKindFixedAmount    ShareKind = "fixed_amount"
	ShareKindSpecificAssets ShareKind = "specific_assets"
	ShareKindRemainder      ShareKind = "remainder"
)

// AllShareKinds lists every share kind in declaration order.
func AllShareKinds() []ShareKind {
	return []ShareKind{ShareKindPercentage, ShareKindFixedAmount, ShareKindSpecificAssets, ShareKindRemainder}
}

// AssetType classifies estate assets.
type AssetType string

const (
	AssetRealEstate       AssetType = "real_estate"
	AssetBankAccount      AssetType = "bank_account"
	AssetInvestment       AssetType = "investment"
	AssetVehicle          AssetType = "vehicle"
	AssetBusiness         AssetType = "business"
	AssetPersonalProperty AssetType = "personal_property"
	AssetDigital          AssetType = "digital_asset"
	AssetOther            AssetType = "other"
)

// AllAssetTypes lists every asset type in declaration order.
func AllAssetTypes() []AssetType {
	return []AssetType{
		AssetRealEstate, AssetBankAccount, AssetInvestment, AssetVehicle,
		AssetBusiness, AssetPersonalProperty, AssetDigital, AssetOther,
	}
}

// ExecutorRole distinguishes primary, alternate and co-executors.
type ExecutorRole string

const (
	ExecutorPrimary   ExecutorRole = "primary"
	ExecutorAlternate ExecutorRole = "alternate"
	ExecutorCo        ExecutorRole = "co_executor"
)

// AllExecutorRoles lists every executor role in declaration order.
func AllExecutorRoles() []ExecutorRole {
	return []ExecutorRole{ExecutorPrimary, ExecutorAlternate, ExecutorCo}
}

// MaritalStatus of the testator.
type MaritalStatus string

const (
	MaritalSingle      MaritalStatus = "single"
	MaritalMarried     MaritalStatus = "married"
	MaritalDivorced    MaritalStatus = "divorced"
	MaritalWidowed     MaritalStatus = "widowed"
	MaritalPartnership MaritalStatus = "partnership"
)

// AllMaritalStatuses lists every marital status in declaration order.
func AllMaritalStatuses() []MaritalStatus {
	return []MaritalStatus{MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed, MaritalPartnership}
}

// InstructionCategory classifies special instructions.
type InstructionCategory string

const (
	InstructionFuneral            InstructionCategory = "funeral"
	InstructionBurial             InstructionCategory = "burial"
	InstructionOrganDonation      InstructionCategory = "organ_donation"
	InstructionPetCare            InstructionCategory = "pet_care"
	InstructionDigitalAssets      InstructionCategory = "digital_assets"
	InstructionBusinessSuccession InstructionCategory = "business_succession"
	InstructionCharitableGiving   InstructionCategory = "charitable_giving"
	InstructionPersonalMessage    InstructionCategory = "personal_message"
	InstructionOther              InstructionCategory = "other"
)

// AllInstructionCategories lists every instruction category in declaration order.
func AllInstructionCategories() []InstructionCategory {
	return []InstructionCategory{
		InstructionFuneral, InstructionBurial, InstructionOrganDonation, InstructionPetCare,
		InstructionDigitalAssets, InstructionBusinessSuccession, InstructionCharitableGiving,
		InstructionPersonalMessage, InstructionOther,
	}
}

// Priority orders special instructions and suggestions.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns 0 for high, 1 for medium and 2 for low. Lower ranks sort first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// WillType is the legal form of the will.
type WillType string

const (
	WillTypeHolographic WillType = "holographic"
	WillTypeWitnessed   WillType = "witnessed"
	WillTypeNotarial    WillType = "notarial"
)

// AllWillTypes lists every will type in declaration order.
func AllWillTypes() []WillType {
	return []WillType{WillTypeHolographic, WillTypeWitnessed, WillTypeNotarial}
}

// ParseWillType validates external input.
func ParseWillType(s string) (WillType, error) {
	for _, wt := range AllWillTypes() {
		if string(wt) == s {
			return wt, nil
		}
	}
	return "", dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("unknown will type: %q", s))
}

// StorageType is the will-type column value used by persistence adapters.
// It is kept separate from WillType so the wire vocabulary can change without
// a data migration.
type StorageType string

const (
	StorageHandwritten StorageType = "handwritten"
	StorageAllograph   StorageType = "allograph"
	StorageNotarial    StorageType = "notarial_deed"
)

// StorageType maps the will type onto its persisted form.
func (w WillType) StorageType() StorageType {
	switch w {
	case WillTypeHolographic:
		return StorageHandwritten
	case WillTypeWitnessed:
		return StorageAllograph
	case WillTypeNotarial:
		return StorageNotarial
	}
	return ""
}

// WillTypeFromStorage is the inverse of WillType.StorageType.
func WillTypeFromStorage(s StorageType) (WillType, error) {
	switch s {
	case StorageHandwritten:
		return WillTypeHolographic, nil
	case StorageAllograph:
		return WillTypeWitnessed, nil
	case StorageNotarial:
		return WillTypeNotarial, nil
	}
	return "", dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("unknown stored will type: %q", s))
}

// DetailLevel controls how much asset detail the generated document carries.
type DetailLevel string

const (
	DetailBasic         DetailLevel = "basic"
	DetailDetailed      DetailLevel = "detailed"
	DetailComprehensive DetailLevel = "comprehensive"
)

// LanguageStyle selects the register of the opening declaration.
type LanguageStyle string

const (
	StyleFormal      LanguageStyle = "formal"
	StyleSimplified  LanguageStyle = "simplified"
	StyleTraditional LanguageStyle = "traditional"
)

// AllDetailLevels lists every detail level in declaration order.
func AllDetailLevels() []DetailLevel {
	return []DetailLevel{DetailBasic, DetailDetailed, DetailComprehensive}
}

// ParseDetailLevel validates external input.
func ParseDetailLevel(s string) (DetailLevel, error) {
	for _, d := range AllDetailLevels() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown detail level: %q", s))
}

// AllLanguageStyles lists every language style in declaration order.
func AllLanguageStyles() []LanguageStyle {
	return []LanguageStyle{StyleFormal, StyleSimplified, StyleTraditional}
}

// ParseLanguageStyle validates external input.
func ParseLanguageStyle(s string) (LanguageStyle, error) {
	for _, l := range AllLanguageStyles() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown language style: %q", s))
}

// WillStatus tracks a stored will through its lifecycle.
type WillStatus string

const (
	// StatusDraft is a will whose last validation reported errors.
	StatusDraft WillStatus = "draft"
	// StatusComplete is a will whose last validation passed.
	StatusComplete WillStatus = "complete"
	// StatusDeleting marks a record whose content removal has started but not
	// finished. Reads treat it as gone; a repeated delete finishes the job.
	StatusDeleting WillStatus = "deleting"
)
