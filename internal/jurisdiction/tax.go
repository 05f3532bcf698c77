package jurisdiction

import (
	"sort"

	"legacyvault/internal/will/models"
)

// TaxBracket taxes the part of an inheritance above Threshold at Rate for the
// listed relationships. Brackets for one relationship are progressive.
type TaxBracket struct {
	Relationships []models.Relationship
	Threshold     float64
	Rate          float64
}

func (b TaxBracket) applies(r models.Relationship) bool {
	for _, x := range b.Relationships {
		if x == r {
			return true
		}
	}
	return false
}

// TaxInfo summarises inheritance taxation. A relationship with no bracket is
// exempt.
type TaxInfo struct {
	InheritanceTax bool
	Currency       string
	Brackets       []TaxBracket
	Exemptions     []string
}

func (t TaxInfo) clone() TaxInfo {
	out := t
	out.Exemptions = append([]string(nil), t.Exemptions...)
	out.Brackets = make([]TaxBracket, len(t.Brackets))
	for i, b := range t.Brackets {
		b.Relationships = append([]models.Relationship(nil), b.Relationships...)
		out.Brackets[i] = b
	}
	return out
}

func (t TaxInfo) bracketsFor(r models.Relationship) []TaxBracket {
	var out []TaxBracket
	for _, b := range t.Brackets {
		if b.applies(r) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Threshold < out[j].Threshold })
	return out
}

// EstimateRate returns the marginal rate for an inheritance of amount received
// by a beneficiary with relationship r.
func (t TaxInfo) EstimateRate(r models.Relationship, amount float64) float64 {
	if !t.InheritanceTax {
		return 0
	}
	var rate float64
	for _, b := range t.bracketsFor(r) {
		if amount > b.Threshold {
			rate = b.Rate
		}
	}
	return rate
}

// EstimateTax returns the progressive tax due on amount for relationship r.
func (t TaxInfo) EstimateTax(r models.Relationship, amount float64) float64 {
	if !t.InheritanceTax {
		return 0
	}
	brackets := t.bracketsFor(r)
	var due float64
	for i, b := range brackets {
		if amount <= b.Threshold {
			break
		}
		upper := amount
		if i+1 < len(brackets) && brackets[i+1].Threshold < amount {
			upper = brackets[i+1].Threshold
		}
		due += (upper - b.Threshold) * b.Rate
	}
	return due
}
