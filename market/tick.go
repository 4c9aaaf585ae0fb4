package market

import "time"

// Cash is an amount in the account currency.
type Cash = float64

// OptionKind classifies an instrument's option side, if any.
type OptionKind string

const (
	KindNone OptionKind = ""
	KindCall OptionKind = "call"
	KindPut  OptionKind = "put"
)

// Tick is one timestamped close-price observation for one instrument.
// Kind and Strike carry their zero values for non-option rows.
type Tick struct {
	Time   time.Time
	Symbol string
	Price  float64
	Kind   OptionKind
	Strike float64
}

func (t Tick) IsOption() bool {
	return t.Kind == KindCall || t.Kind == KindPut
}

// Date returns the tick's calendar date as YYYY-MM-DD.
func (t Tick) Date() string {
	return t.Time.Format("2006-01-02")
}
