package payroll

import "fmt"

const (
	StrategyHourly = "Hourly"
	StrategyBonus  = "Bonus"
)

// SalaryStrategy is the behavior view of the flattened (kind, bonusPercent)
// pair stored on a work type. Strategies are stateless values; they are
// rebuilt from the stored fields on every use and never cached.
type SalaryStrategy interface {
	Calculate(rate, hours float64) float64
	Name() string
}

type Hourly struct{}

func (Hourly) Calculate(rate, hours float64) float64 { return rate * hours }

func (Hourly) Name() string { return "No bonus" }

type BonusPercent struct {
	Percent float64
}

func (b BonusPercent) Calculate(rate, hours float64) float64 {
	return rate * hours * (1 + b.Percent/100)
}

func (b BonusPercent) Name() string { return fmt.Sprintf("Bonus %.2f%%", b.Percent) }

// EncodeStrategy flattens a strategy into the two primitive fields the
// store and the interchange format carry.
func EncodeStrategy(s SalaryStrategy) (kind string, bonusPercent float64) {
	if b, ok := s.(BonusPercent); ok {
		return StrategyBonus, b.Percent
	}
	return StrategyHourly, 0
}

// DecodeStrategy rebuilds the behavior from stored fields. Any kind other
// than "Bonus" decodes to Hourly; unrecognized tags are a fallback, not an
// error.
func DecodeStrategy(kind string, bonusPercent float64) SalaryStrategy {
	if kind == StrategyBonus {
		return BonusPercent{Percent: bonusPercent}
	}
	return Hourly{}
}

// Strategy returns the work type's calculation behavior.
func (w WorkType) Strategy() SalaryStrategy {
	return DecodeStrategy(w.StrategyKind, w.BonusPercent)
}

// StrategyName is the display label for the stored strategy fields.
func (w WorkType) StrategyName() string {
	return w.Strategy().Name()
}

// WorkCost evaluates the cost of hours against a work type. A nil work
// type costs nothing.
func WorkCost(wt *WorkType, hours float64) float64 {
	if wt == nil {
		return 0
	}
	return wt.Strategy().Calculate(wt.HourlyRate, hours)
}
