// Package events pre-samples the life-event timeline of one simulation run.
package events

import (
	"math/rand"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one  = decimal.NewFromInt(1)
	zero = decimal.Zero
)

// Sample draws an event timeline for a run of totalMonths starting at the
// primary earner's startAge. Hazards are evaluated year by year in a fixed
// order (job loss, relocation, disaster, care, rental rejection, then divorce
// and spousal death), and a draw is consumed only while the hazard's window is
// open, so the same source state always yields the same timeline.
//
// When an event fires, its month within the year is derived from the same
// uniform draw, so no extra randomness is consumed.
func Sample(rng *rand.Rand, cfg domain.EventRiskConfig, startAge, totalMonths int, renter bool, pensionAge int) domain.EventTimeline {
	tl := domain.EmptyTimeline()
	tl.CareMonthlyCost = cfg.CareMonthlyCost
	tl.RentalSurcharge = cfg.RentalRejectionCost
	tl.RelocationOneTime = cfg.RelocationCost
	years := (totalMonths + 11) / 12

	jobLosses := 0
	jobLossFreeFrom := 0 // first year in which a new job loss may start

	for y := 0; y < years; y++ {
		age := startAge + y

		if age < cfg.ReemploymentAgeLimit && jobLosses < cfg.JobLossMaxOccurrences && y >= jobLossFreeFrom {
			if month, ok := occurs(rng, cfg.JobLossProb, y); ok {
				end := month + cfg.JobLossDurationMonths
				if end > totalMonths {
					end = totalMonths
				}
				for m := month; m < end; m++ {
					tl.JobLossMonths = append(tl.JobLossMonths, m)
				}
				jobLosses++
				jobLossFreeFrom = (end-1)/12 + 1
			}
		}

		if age < cfg.ReemploymentAgeLimit && tl.RelocationMonth == domain.NoEvent {
			if month, ok := occurs(rng, cfg.RelocationProb, y); ok {
				tl.RelocationMonth = month
			}
		}

		if !renter && tl.DisasterMonth == domain.NoEvent {
			if month, ok := occurs(rng, cfg.DisasterProb, y); ok {
				tl.DisasterMonth = month
				tl.DisasterNetDamage = cfg.DisasterDamageRatio.Mul(one.Sub(cfg.InsuranceCoverage))
			}
		}

		if age >= cfg.CareOnsetAge && tl.CareMonth == domain.NoEvent {
			if month, ok := occurs(rng, cfg.CareProb, y); ok {
				tl.CareMonth = month
			}
		}

		if renter && age >= pensionAge && tl.RentalRejectionMonth == domain.NoEvent {
			if month, ok := occurs(rng, cfg.RentalRejectionProb, y); ok {
				tl.RentalRejectionMonth = month
			}
		}

		// Divorce and spousal death share one pass: the first to fire ends
		// sampling of both for the rest of the run. Death is drawn only in a
		// year without a divorce, so its effective annual probability is
		// (1 - DivorceProb) * SpouseDeathProb.
		if age < pensionAge && tl.Split == domain.SplitNone {
			if month, ok := occurs(rng, cfg.DivorceProb, y); ok {
				tl.SplitMonth, tl.Split = month, domain.SplitDivorce
			} else if month, ok := occurs(rng, cfg.SpouseDeathProb, y); ok {
				tl.SplitMonth, tl.Split = month, domain.SplitSpouseDeath
			}
		}
	}

	trim(&tl, totalMonths)
	return tl
}

// occurs performs one Bernoulli draw for year y and returns the month offset
// of the occurrence
func occurs(rng *rand.Rand, prob float64, y int) (int, bool) {
	if prob <= 0 {
		return 0, false
	}
	u := rng.Float64()
	if u >= prob {
		return 0, false
	}
	within := int(u / prob * 12)
	if within > 11 {
		within = 11
	}
	return y*12 + within, true
}

// trim drops single events that fall past the end of a partial final year
func trim(tl *domain.EventTimeline, totalMonths int) {
	for _, m := range []*int{&tl.DisasterMonth, &tl.CareMonth, &tl.RentalRejectionMonth, &tl.RelocationMonth} {
		if *m >= totalMonths {
			*m = domain.NoEvent
		}
	}
	if tl.SplitMonth >= totalMonths {
		tl.SplitMonth, tl.Split = domain.NoEvent, domain.SplitNone
	}
	if tl.DisasterMonth == domain.NoEvent {
		tl.DisasterNetDamage = zero
	}
}
