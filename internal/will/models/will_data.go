package models

import (
	"math"
	"strings"
	"time"
)

// WillUserData is the structured will-in-progress supplied by the wizard.
//
// Values are treated as immutable snapshots: every With*/Remove* operation
// returns a deep copy with the change applied and leaves the receiver intact,
// so undo/redo stacks and concurrent sessions never share backing arrays.
type WillUserData struct {
	Personal            PersonalInfo              `json:"personal"`
	Family              FamilyInfo                `json:"family"`
	Assets              []Asset                   `json:"assets"`
	NoAssetsDeclared    bool                      `json:"no_assets_declared,omitempty"`
	Beneficiaries       []Beneficiary             `json:"beneficiaries"`
	Executors           []ExecutorAppointment     `json:"executors"`
	Guardianships       []GuardianshipAppointment `json:"guardianships,omitempty"`
	SpecialInstructions []SpecialInstruction      `json:"special_instructions,omitempty"`
	Witnesses           []Witness                 `json:"witnesses,omitempty"`
}

// Clone returns a deep copy.
func (d WillUserData) Clone() WillUserData {
	out := d
	out.Family = d.Family.clone()
	out.Assets = cloneSlice(d.Assets)
	out.Beneficiaries = make([]Beneficiary, len(d.Beneficiaries))
	for i, b := range d.Beneficiaries {
		out.Beneficiaries[i] = b.clone()
	}
	if d.Beneficiaries == nil {
		out.Beneficiaries = nil
	}
	out.Executors = make([]ExecutorAppointment, len(d.Executors))
	for i, e := range d.Executors {
		e.Powers = cloneSlice(e.Powers)
		e.Restrictions = cloneSlice(e.Restrictions)
		out.Executors[i] = e
	}
	if d.Executors == nil {
		out.Executors = nil
	}
	out.Guardianships = make([]GuardianshipAppointment, len(d.Guardianships))
	for i, g := range d.Guardianships {
		if g.Alternate != nil {
			alt := *g.Alternate
			g.Alternate = &alt
		}
		out.Guardianships[i] = g
	}
	if d.Guardianships == nil {
		out.Guardianships = nil
	}
	out.SpecialInstructions = cloneSlice(d.SpecialInstructions)
	out.Witnesses = cloneSlice(d.Witnesses)
	return out
}

// WithPersonal replaces the testator's personal information.
func (d WillUserData) WithPersonal(p PersonalInfo) WillUserData {
	out := d.Clone()
	out.Personal = p
	return out
}

// WithFamily replaces the family picture.
func (d WillUserData) WithFamily(f FamilyInfo) WillUserData {
	out := d.Clone()
	out.Family = f.clone()
	return out
}

// WithBeneficiary adds b, or replaces the beneficiary with the same ID.
func (d WillUserData) WithBeneficiary(b Beneficiary) WillUserData {
	out := d.Clone()
	out.Beneficiaries = upsert(out.Beneficiaries, b.clone(), func(x Beneficiary) string { return x.ID })
	return out
}

// RemoveBeneficiary drops the beneficiary with the given ID.
func (d WillUserData) RemoveBeneficiary(id string) WillUserData {
	out := d.Clone()
	out.Beneficiaries = remove(out.Beneficiaries, id, func(x Beneficiary) string { return x.ID })
	return out
}

// WithAsset adds a, or replaces the asset with the same ID. Declaring an asset
// clears a previous "no assets" acknowledgment.
func (d WillUserData) WithAsset(a Asset) WillUserData {
	out := d.Clone()
	out.Assets = upsert(out.Assets, a, func(x Asset) string { return x.ID })
	out.NoAssetsDeclared = false
	return out
}

// RemoveAsset drops the asset with the given ID. Shares that reference it are
// left alone; the validator reports them as dangling.
func (d WillUserData) RemoveAsset(id string) WillUserData {
	out := d.Clone()
	out.Assets = remove(out.Assets, id, func(x Asset) string { return x.ID })
	return out
}

// DeclareNoAssets records the explicit acknowledgment that no assets are listed.
func (d WillUserData) DeclareNoAssets() WillUserData {
	out := d.Clone()
	out.NoAssetsDeclared = true
	return out
}

// WithExecutor adds e, or replaces the executor with the same ID.
func (d WillUserData) WithExecutor(e ExecutorAppointment) WillUserData {
	out := d.Clone()
	e.Powers = cloneSlice(e.Powers)
	e.Restrictions = cloneSlice(e.Restrictions)
	out.Executors = upsert(out.Executors, e, func(x ExecutorAppointment) string { return x.ID })
	return out
}

// RemoveExecutor drops the executor with the given ID.
func (d WillUserData) RemoveExecutor(id string) WillUserData {
	out := d.Clone()
	out.Executors = remove(out.Executors, id, func(x ExecutorAppointment) string { return x.ID })
	return out
}

// WithGuardianship adds g, or replaces the appointment with the same ID.
func (d WillUserData) WithGuardianship(g GuardianshipAppointment) WillUserData {
	out := d.Clone()
	if g.Alternate != nil {
		alt := *g.Alternate
		g.Alternate = &alt
	}
	out.Guardianships = upsert(out.Guardianships, g, func(x GuardianshipAppointment) string { return x.ID })
	return out
}

// RemoveGuardianship drops the appointment with the given ID.
func (d WillUserData) RemoveGuardianship(id string) WillUserData {
	out := d.Clone()
	out.Guardianships = remove(out.Guardianships, id, func(x GuardianshipAppointment) string { return x.ID })
	return out
}

// WithInstruction adds s, or replaces the instruction with the same ID.
func (d WillUserData) WithInstruction(s SpecialInstruction) WillUserData {
	out := d.Clone()
	out.SpecialInstructions = upsert(out.SpecialInstructions, s, func(x SpecialInstruction) string { return x.ID })
	return out
}

// RemoveInstruction drops the instruction with the given ID.
func (d WillUserData) RemoveInstruction(id string) WillUserData {
	out := d.Clone()
	out.SpecialInstructions = remove(out.SpecialInstructions, id, func(x SpecialInstruction) string { return x.ID })
	return out
}

// WithWitness appends a witness to the execution record.
func (d WillUserData) WithWitness(w Witness) WillUserData {
	out := d.Clone()
	out.Witnesses = append(out.Witnesses, w)
	return out
}

// FindAsset looks up an asset by ID.
func (d WillUserData) FindAsset(id string) (Asset, bool) {
	for _, a := range d.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// FindBeneficiary looks up a beneficiary by ID.
func (d WillUserData) FindBeneficiary(id string) (Beneficiary, bool) {
	for _, b := range d.Beneficiaries {
		if b.ID == id {
			return b, true
		}
	}
	return Beneficiary{}, false
}

// HasRemainderBeneficiary reports whether any beneficiary takes the residue.
func (d WillUserData) HasRemainderBeneficiary() bool {
	for _, b := range d.Beneficiaries {
		if b.Share.Kind == ShareKindRemainder {
			return true
		}
	}
	return false
}

// PrimaryExecutors returns the executors appointed as primary.
func (d WillUserData) PrimaryExecutors() []ExecutorAppointment {
	var out []ExecutorAppointment
	for _, e := range d.Executors {
		if e.Role == ExecutorPrimary {
			out = append(out, e)
		}
	}
	return out
}

// HasExecutorRole reports whether an executor with role is appointed.
func (d WillUserData) HasExecutorRole(role ExecutorRole) bool {
	for _, e := range d.Executors {
		if e.Role == role {
			return true
		}
	}
	return false
}

// HasInstruction reports whether an instruction of category exists.
func (d WillUserData) HasInstruction(category InstructionCategory) bool {
	for _, s := range d.SpecialInstructions {
		if s.Category == category {
			return true
		}
	}
	return false
}

// HasAssetType reports whether an asset of type t is declared.
func (d WillUserData) HasAssetType(t AssetType) bool {
	for _, a := range d.Assets {
		if a.Type == t {
			return true
		}
	}
	return false
}

// MinorChildren lists children below ageOfMajority at asOf: children from the
// family data plus child beneficiaries not already listed there (matched by name).
func (d WillUserData) MinorChildren(asOf time.Time, ageOfMajority int) []FamilyMember {
	var out []FamilyMember
	seen := map[string]bool{}
	for _, c := range d.Family.Children {
		seen[normalizeName(c.Name)] = true
		if c.IsMinorAt(asOf, ageOfMajority) {
			out = append(out, c)
		}
	}
	for _, b := range d.Beneficiaries {
		if b.Relationship != RelationshipChild || seen[normalizeName(b.Name)] {
			continue
		}
		m := FamilyMember{Name: b.Name, Relationship: RelationshipChild, DateOfBirth: b.DateOfBirth}
		if !b.DateOfBirth.IsZero() && m.IsMinorAt(asOf, ageOfMajority) {
			seen[normalizeName(b.Name)] = true
			out = append(out, m)
		}
	}
	return out
}

// IsBeneficiaryName reports whether name matches a beneficiary, ignoring case
// and surrounding whitespace.
func (d WillUserData) IsBeneficiaryName(name string) bool {
	n := normalizeName(name)
	if n == "" {
		return false
	}
	for _, b := range d.Beneficiaries {
		if normalizeName(b.Name) == n {
			return true
		}
	}
	return false
}

// EstateValue sums the owned value of every asset whose currency matches.
func (d WillUserData) EstateValue(currency string) float64 {
	var total float64
	for _, a := range d.Assets {
		if strings.EqualFold(a.EstimatedValue.Currency, currency) {
			total += a.OwnedValue()
		}
	}
	return total
}

// ComputeTotalAllocatedShare sums percentage-typed shares drawing on the pool
// identified by assetID; an empty assetID means the residuary estate. The
// result is rounded to six decimal places so 33.3+33.3+33.4 compares equal to 100.
func ComputeTotalAllocatedShare(d WillUserData, assetID string) float64 {
	pool := ResiduaryPool
	if assetID != "" {
		pool = assetID
	}
	var total float64
	for _, b := range d.Beneficiaries {
		if b.Share.Kind == ShareKindPercentage && b.Share.Pool() == pool {
			total += b.Share.Percentage
		}
	}
	return RoundShare(total)
}

// RoundShare rounds a percentage to six decimal places.
func RoundShare(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// AgeAt returns completed years between dob and asOf.
func AgeAt(dob, asOf time.Time) int {
	if dob.IsZero() || asOf.Before(dob) {
		return 0
	}
	years := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		years--
	}
	return years
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// SameName compares person names ignoring case and whitespace differences.
func SameName(a, b string) bool {
	na := normalizeName(a)
	return na != "" && na == normalizeName(b)
}

func upsert[T any](items []T, item T, key func(T) string) []T {
	k := key(item)
	for i := range items {
		if key(items[i]) == k {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func remove[T any](items []T, id string, key func(T) string) []T {
	out := items[:0]
	for _, it := range items {
		if key(it) != id {
			out = append(out, it)
		}
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}
