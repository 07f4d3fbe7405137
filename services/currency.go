package services

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter renders amounts as a dollar prefix followed by the
// locale's digit grouping, with at most three fraction digits.
type CurrencyFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewCurrencyFormatter builds a formatter for a BCP 47 locale such as "en-US".
// Unparseable locales fall back to American English.
func NewCurrencyFormatter(locale string) *CurrencyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &CurrencyFormatter{
		printer: message.NewPrinter(tag),
		symbol:  "$",
	}
}

func (f *CurrencyFormatter) Format(amount float64) string {
	return f.symbol + f.printer.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(3)))
}
