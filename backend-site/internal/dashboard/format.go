package dashboard

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders numbers the way the dashboards display them (pt-BR grouping)
type Formatter struct {
	p *message.Printer
}

func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{p: message.NewPrinter(tag)}
}

// BrazilianFormatter formats with "." grouping and "," decimals
func BrazilianFormatter() *Formatter {
	return NewFormatter(language.BrazilianPortuguese)
}

// Count formats an integer, e.g. 1.234
func (f *Formatter) Count(n int) string {
	return f.p.Sprintf("%d", n)
}

// Money formats whole reais, e.g. R$ 45.280
func (f *Formatter) Money(reais int) string {
	return "R$ " + f.p.Sprintf("%d", reais)
}

// MoneyCents formats reais with two decimals, e.g. R$ 2.450,00
func (f *Formatter) MoneyCents(reais float64) string {
	return "R$ " + f.p.Sprintf("%.2f", reais)
}

// Percent formats a whole percentage, e.g. 68%
func (f *Formatter) Percent(n int) string {
	return f.p.Sprintf("%d", n) + "%"
}

// Change formats a signed percentage change, e.g. +8,2%
func (f *Formatter) Change(pct float64) string {
	sign := "+"
	if pct < 0 {
		sign = "-"
		pct = -pct
	}
	if pct == float64(int(pct)) {
		return sign + f.p.Sprintf("%d", int(pct)) + "%"
	}
	return sign + f.p.Sprintf("%.1f", pct) + "%"
}
