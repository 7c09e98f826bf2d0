package events

import (
	"math/rand"
	"testing"

	"github.com/rgehrsitz/homesim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noHazards() domain.EventRiskConfig {
	cfg := domain.DefaultEventRiskConfig()
	cfg.JobLossProb = 0
	cfg.DisasterProb = 0
	cfg.CareProb = 0
	cfg.RentalRejectionProb = 0
	cfg.DivorceProb = 0
	cfg.SpouseDeathProb = 0
	cfg.RelocationProb = 0
	return cfg
}

func TestSample_CertainJobLoss(t *testing.T) {
	cfg := noHazards()
	cfg.JobLossProb = 1.0
	limit := cfg.JobLossMaxOccurrences * cfg.JobLossDurationMonths

	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		tl := Sample(rng, cfg, 37, 43*12, false, 65)

		require.NotEmpty(t, tl.JobLossMonths, "seed %d", seed)
		assert.LessOrEqual(t, len(tl.JobLossMonths), limit, "seed %d", seed)

		seen := map[int]bool{}
		for i, m := range tl.JobLossMonths {
			assert.False(t, seen[m], "job-loss windows must not overlap (seed %d)", seed)
			seen[m] = true
			if i > 0 {
				assert.Greater(t, m, tl.JobLossMonths[i-1])
			}
			assert.Less(t, 37+m/12, cfg.ReemploymentAgeLimit+1)
		}
	}
}

func TestSample_NoHazards(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tl := Sample(rng, noHazards(), 40, 40*12, true, 65)

	assert.Empty(t, tl.JobLossMonths)
	assert.Equal(t, domain.NoEvent, tl.DisasterMonth)
	assert.Equal(t, domain.NoEvent, tl.CareMonth)
	assert.Equal(t, domain.NoEvent, tl.RentalRejectionMonth)
	assert.Equal(t, domain.NoEvent, tl.SplitMonth)
	assert.Equal(t, domain.SplitNone, tl.Split)
	assert.Equal(t, domain.NoEvent, tl.RelocationMonth)
}

func TestSample_Windows(t *testing.T) {
	cfg := noHazards()
	cfg.CareProb = 1.0
	cfg.RentalRejectionProb = 1.0
	cfg.DisasterProb = 1.0

	t.Run("renter", func(t *testing.T) {
		tl := Sample(rand.New(rand.NewSource(3)), cfg, 40, 40*12, true, 65)
		assert.Equal(t, domain.NoEvent, tl.DisasterMonth, "renters face no disaster damage")
		require.NotEqual(t, domain.NoEvent, tl.RentalRejectionMonth)
		assert.GreaterOrEqual(t, 40+tl.RentalRejectionMonth/12, 65)
		require.NotEqual(t, domain.NoEvent, tl.CareMonth)
		assert.GreaterOrEqual(t, 40+tl.CareMonth/12, cfg.CareOnsetAge)
	})

	t.Run("owner", func(t *testing.T) {
		tl := Sample(rand.New(rand.NewSource(3)), cfg, 40, 40*12, false, 65)
		assert.Equal(t, domain.NoEvent, tl.RentalRejectionMonth, "owners are never refused a lease")
		require.NotEqual(t, domain.NoEvent, tl.DisasterMonth)
		assert.Less(t, tl.DisasterMonth, 12)
		// 0.3 damage with half covered by insurance
		assert.Equal(t, "0.15", tl.DisasterNetDamage.String())
	})
}

func TestSample_DivorceAndDeathExclusive(t *testing.T) {
	cfg := noHazards()
	cfg.DivorceProb = 1.0
	cfg.SpouseDeathProb = 1.0

	tl := Sample(rand.New(rand.NewSource(11)), cfg, 35, 45*12, false, 65)
	assert.Equal(t, domain.SplitDivorce, tl.Split, "divorce is evaluated first in each year")
	assert.Less(t, tl.SplitMonth, 12)

	cfg.DivorceProb = 0
	tl = Sample(rand.New(rand.NewSource(11)), cfg, 35, 45*12, false, 65)
	assert.Equal(t, domain.SplitSpouseDeath, tl.Split)

	tl = Sample(rand.New(rand.NewSource(11)), cfg, 66, 14*12, false, 65)
	assert.Equal(t, domain.SplitNone, tl.Split, "no split is sampled after pension age")
}

func TestSample_DeathDrawnOnlyWithoutDivorce(t *testing.T) {
	cfg := noHazards()
	cfg.DivorceProb = 0.5
	cfg.SpouseDeathProb = 1.0

	deaths := 0
	for seed := int64(1); seed <= 200; seed++ {
		// the year-0 divorce draw is the first value the source yields
		u := rand.New(rand.NewSource(seed)).Float64()
		tl := Sample(rand.New(rand.NewSource(seed)), cfg, 37, 43*12, false, 65)

		require.Less(t, tl.SplitMonth, 12, "seed %d", seed)
		if u < cfg.DivorceProb {
			assert.Equal(t, domain.SplitDivorce, tl.Split, "seed %d", seed)
			continue
		}
		assert.Equal(t, domain.SplitSpouseDeath, tl.Split, "seed %d", seed)
		deaths++
	}
	// (1 - 0.5) * 1.0 of the runs
	assert.InDelta(t, 100, deaths, 30)
}

func TestSample_Deterministic(t *testing.T) {
	cfg := domain.DefaultEventRiskConfig()
	cfg.JobLossProb = 0.2
	cfg.RelocationProb = 0.1

	a := Sample(rand.New(rand.NewSource(99)), cfg, 30, 50*12, true, 65)
	b := Sample(rand.New(rand.NewSource(99)), cfg, 30, 50*12, true, 65)
	assert.Equal(t, a, b)
}
