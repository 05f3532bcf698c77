package generator

import (
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"legacyvault/internal/will/models"
)

// blank is printed where the testator still has to fill something in by hand.
const blank = "______________________"

type formatter struct {
	printer     *message.Printer
	dateFormat  string
	conjunction string
}

func newFormatter(book *phrasebook) formatter {
	return formatter{
		printer:     message.NewPrinter(book.tag),
		dateFormat:  book.dateFormat,
		conjunction: book.conjunction,
	}
}

// money renders an amount with the currency's standard number of decimals and
// the document language's digit grouping.
func (f formatter) money(m models.Money) string {
	unit, err := currency.ParseISO(m.Currency)
	if err != nil {
		return f.printer.Sprintf("%v %s", number.Decimal(m.Amount, number.Scale(2)), strings.ToUpper(m.Currency))
	}
	scale, _ := currency.Standard.Rounding(unit)
	return f.printer.Sprintf("%v %s", number.Decimal(m.Amount, number.Scale(scale)), unit)
}

func (f formatter) percent(v float64) string {
	return f.printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

func (f formatter) date(t time.Time) string {
	if t.IsZero() {
		return blank
	}
	return t.Format(f.dateFormat)
}

func (f formatter) address(a models.Address) string {
	if a.IsZero() {
		return blank
	}
	city := strings.TrimSpace(strings.Join(nonEmpty(a.PostalCode, a.City), " "))
	return strings.Join(nonEmpty(a.Street, city, a.Country), ", ")
}

// list joins items as "a, b and c" using the phrasebook conjunction.
func (f formatter) list(items []string) string {
	items = nonEmpty(items...)
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " " + f.conjunction + " " + items[len(items)-1]
}

func nonEmpty(items ...string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func orBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return blank
	}
	return s
}
