package domain

import (
	"github.com/shopspring/decimal"
)

// EventRiskConfig holds annual hazard probabilities and their cost parameters
type EventRiskConfig struct {
	JobLossProb           float64         `json:"jobLossProb"`
	JobLossMaxOccurrences int             `json:"jobLossMaxOccurrences"`
	JobLossDurationMonths int             `json:"jobLossDurationMonths"`
	ReemploymentAgeLimit  int             `json:"reemploymentAgeLimit"`
	DisasterProb          float64         `json:"disasterProb"`
	DisasterDamageRatio   decimal.Decimal `json:"disasterDamageRatio"`
	InsuranceCoverage     decimal.Decimal `json:"insuranceCoverage"`
	CareProb              float64         `json:"careProb"`
	CareOnsetAge          int             `json:"careOnsetAge"`
	CareMonthlyCost       decimal.Decimal `json:"careMonthlyCost"`
	RentalRejectionProb   float64         `json:"rentalRejectionProb"`
	RentalRejectionCost   decimal.Decimal `json:"rentalRejectionCost"` // monthly surcharge
	DivorceProb           float64         `json:"divorceProb"`
	SpouseDeathProb       float64         `json:"spouseDeathProb"`
	RelocationProb        float64         `json:"relocationProb"`
	RelocationCost        decimal.Decimal `json:"relocationCost"`
}

// DefaultEventRiskConfig returns the baseline hazard assumptions
func DefaultEventRiskConfig() EventRiskConfig {
	return EventRiskConfig{
		JobLossProb:           0.02,
		JobLossMaxOccurrences: 2,
		JobLossDurationMonths: 6,
		ReemploymentAgeLimit:  60,
		DisasterProb:          0.005,
		DisasterDamageRatio:   decimal.NewFromFloat(0.3),
		InsuranceCoverage:     decimal.NewFromFloat(0.5),
		CareProb:              0.05,
		CareOnsetAge:          75,
		CareMonthlyCost:       decimal.NewFromInt(100_000),
		RentalRejectionProb:   0.03,
		RentalRejectionCost:   decimal.NewFromInt(30_000),
		DivorceProb:           0.008,
		SpouseDeathProb:       0.004,
		RelocationProb:        0.02,
		RelocationCost:        decimal.NewFromInt(800_000),
	}
}

// NoEvent marks an event that never occurs in a timeline
const NoEvent = -1

// HouseholdSplit identifies the kind of irreversible household transition
type HouseholdSplit int

const (
	SplitNone HouseholdSplit = iota
	SplitDivorce
	SplitSpouseDeath
)

func (s HouseholdSplit) String() string {
	switch s {
	case SplitDivorce:
		return "divorce"
	case SplitSpouseDeath:
		return "spouse_death"
	default:
		return "none"
	}
}

// EventTimeline is the pre-sampled set of life events for one run.
// Month values are offsets from the simulation start; NoEvent means absent.
type EventTimeline struct {
	JobLossMonths        []int           `json:"jobLossMonths,omitempty"` // every month without labour income
	DisasterMonth        int             `json:"disasterMonth"`
	DisasterNetDamage    decimal.Decimal `json:"disasterNetDamage"` // fraction of property value, net of insurance
	CareMonth            int             `json:"careMonth"`
	RentalRejectionMonth int             `json:"rentalRejectionMonth"`
	SplitMonth           int             `json:"splitMonth"`
	Split                HouseholdSplit  `json:"split"`
	RelocationMonth      int             `json:"relocationMonth"`

	CareMonthlyCost   decimal.Decimal `json:"careMonthlyCost"`
	RentalSurcharge   decimal.Decimal `json:"rentalSurcharge"`
	RelocationOneTime decimal.Decimal `json:"relocationOneTime"`
}

// EmptyTimeline returns a timeline with no events
func EmptyTimeline() EventTimeline {
	return EventTimeline{
		DisasterMonth:        NoEvent,
		CareMonth:            NoEvent,
		RentalRejectionMonth: NoEvent,
		SplitMonth:           NoEvent,
		RelocationMonth:      NoEvent,
	}
}

// Unemployed reports whether month falls inside a job-loss window
func (t EventTimeline) Unemployed(month int) bool {
	for _, m := range t.JobLossMonths {
		if m == month {
			return true
		}
	}
	return false
}

// InCare reports whether the care need has started by month
func (t EventTimeline) InCare(month int) bool {
	return t.CareMonth != NoEvent && month >= t.CareMonth
}

// CareCost is the monthly care cost at the given cumulative inflation
func (t EventTimeline) CareCost(inflation decimal.Decimal) decimal.Decimal {
	return t.CareMonthlyCost.Mul(inflation).Round(0)
}

// RentalRejectionCost is the monthly surcharge paid once landlords refuse the household
func (t EventTimeline) RentalRejectionCost(inflation decimal.Decimal) decimal.Decimal {
	return t.RentalSurcharge.Mul(inflation).Round(0)
}

// RelocationCost is the one-time cost of a relocation
func (t EventTimeline) RelocationCost(inflation decimal.Decimal) decimal.Decimal {
	return t.RelocationOneTime.Mul(inflation).Round(0)
}

// RentalRejected reports whether the rental-rejection surcharge applies at month
func (t EventTimeline) RentalRejected(month int) bool {
	return t.RentalRejectionMonth != NoEvent && month >= t.RentalRejectionMonth
}

// ForHousehold returns a copy with the hazards the household cannot face switched off
func (c EventRiskConfig) ForHousehold(h Household) EventRiskConfig {
	if !h.MayRelocate {
		c.RelocationProb = 0
	}
	return c
}
