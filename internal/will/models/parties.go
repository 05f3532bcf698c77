package models

import "time"

// Address is a postal address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// IsZero reports whether no address line has been supplied.
func (a Address) IsZero() bool {
	return a.Street == "" && a.City == "" && a.PostalCode == "" && a.Country == ""
}

// ContactInfo holds optional ways to reach a person.
type ContactInfo struct {
	Email   string   `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Address *Address `json:"address,omitempty"`
}

// PersonalInfo describes the testator. FullName and DateOfBirth are required
// for the document to be valid.
type PersonalInfo struct {
	FullName      string        `json:"full_name"`
	DateOfBirth   time.Time     `json:"date_of_birth"`
	PlaceOfBirth  string        `json:"place_of_birth,omitempty"`
	NationalID    string        `json:"national_id,omitempty"`
	Citizenship   string        `json:"citizenship,omitempty"`
	Address       Address       `json:"address"`
	MaritalStatus MaritalStatus `json:"marital_status,omitempty"`
	Profession    string        `json:"profession,omitempty"`
}

// FamilyMember is a relative known to the testator. Minor is an explicit flag
// used when the date of birth is unknown.
type FamilyMember struct {
	Name         string       `json:"name"`
	Relationship Relationship `json:"relationship"`
	DateOfBirth  time.Time    `json:"date_of_birth,omitempty"`
	Minor        bool         `json:"minor,omitempty"`
}

// IsMinorAt reports whether the family member is below ageOfMajority at asOf.
func (m FamilyMember) IsMinorAt(asOf time.Time, ageOfMajority int) bool {
	if m.DateOfBirth.IsZero() {
		return m.Minor
	}
	return AgeAt(m.DateOfBirth, asOf) < ageOfMajority
}

// FamilyInfo captures the family picture relevant to forced heirship and
// guardianship checks.
type FamilyInfo struct {
	Spouse   *FamilyMember  `json:"spouse,omitempty"`
	Children []FamilyMember `json:"children,omitempty"`
}

// Members returns the spouse (if any) followed by the children.
func (f FamilyInfo) Members() []FamilyMember {
	out := make([]FamilyMember, 0, len(f.Children)+1)
	if f.Spouse != nil {
		out = append(out, *f.Spouse)
	}
	return append(out, f.Children...)
}

func (f FamilyInfo) clone() FamilyInfo {
	out := FamilyInfo{Children: cloneSlice(f.Children)}
	if f.Spouse != nil {
		spouse := *f.Spouse
		out.Spouse = &spouse
	}
	return out
}

// Money is an amount in an ISO 4217 currency.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Asset is an item of the estate.
type Asset struct {
	ID                  string    `json:"id"`
	Type                AssetType `json:"type"`
	Description         string    `json:"description"`
	EstimatedValue      Money     `json:"estimated_value"`
	Location            string    `json:"location,omitempty"`
	OwnershipPercentage float64   `json:"ownership_percentage"`
	Encumbrance         string    `json:"encumbrance,omitempty"`
}

// OwnedValue is the estimated value scaled by the testator's ownership share.
func (a Asset) OwnedValue() float64 {
	return a.EstimatedValue.Amount * a.OwnershipPercentage / 100
}

// ExecutorAppointment names a person to administer the estate.
type ExecutorAppointment struct {
	ID           string       `json:"id"`
	Role         ExecutorRole `json:"role"`
	Name         string       `json:"name"`
	Relationship Relationship `json:"relationship"`
	Contact      ContactInfo  `json:"contact"`
	Professional bool         `json:"professional"`
	Compensation string       `json:"compensation,omitempty"`
	Powers       []string     `json:"powers,omitempty"`
	Restrictions []string     `json:"restrictions,omitempty"`
}

// Guardian is a person appointed to care for a minor child.
type Guardian struct {
	Name         string       `json:"name"`
	Relationship Relationship `json:"relationship"`
	Contact      ContactInfo  `json:"contact"`
}

// GuardianshipAppointment names guardians for one child.
type GuardianshipAppointment struct {
	ID                  string    `json:"id"`
	ChildName           string    `json:"child_name"`
	ChildDateOfBirth    time.Time `json:"child_date_of_birth,omitempty"`
	Primary             Guardian  `json:"primary_guardian"`
	Alternate           *Guardian `json:"alternate_guardian,omitempty"`
	SpecialInstructions string    `json:"special_instructions,omitempty"`
	FinancialProvisions string    `json:"financial_provisions,omitempty"`
	EducationWishes     string    `json:"education_wishes,omitempty"`
}

// HasPrimaryGuardian reports whether the appointment names a primary guardian.
func (g GuardianshipAppointment) HasPrimaryGuardian() bool {
	return g.Primary.Name != ""
}

// SpecialInstruction is a free-form wish attached to the will.
type SpecialInstruction struct {
	ID        string              `json:"id"`
	Category  InstructionCategory `json:"category"`
	Title     string              `json:"title"`
	Content   string              `json:"content"`
	Priority  Priority            `json:"priority"`
	Recipient string              `json:"recipient,omitempty"`
}

// Witness is a person recorded as attesting the signature.
type Witness struct {
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth,omitempty"`
	Address     *Address  `json:"address,omitempty"`
}
