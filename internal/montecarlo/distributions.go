package montecarlo

import (
	"math"
	"math/rand"
)

// LogNormalParams returns the log-space location and scale of a log-normal
// gross return 1+r whose arithmetic mean is 1+mean and whose standard deviation
// is vol
func LogNormalParams(mean, vol float64) (mu, sigma float64) {
	gross := 1 + mean
	s2 := math.Log(1 + (vol*vol)/(gross*gross))
	return math.Log(gross) - s2/2, math.Sqrt(s2)
}

// LogNormalReturn draws one annual return with the given arithmetic mean and
// volatility. The result is always greater than -1.
func LogNormalReturn(rng *rand.Rand, mean, vol float64) float64 {
	mu, sigma := LogNormalParams(mean, vol)
	return math.Exp(mu+sigma*rng.NormFloat64()) - 1
}

// Correlate mixes an independent standard normal z2 into z1 so the result is a
// standard normal with correlation rho to z1 (the second row of a 2x2 Cholesky factor)
func Correlate(z1, z2, rho float64) float64 {
	return rho*z1 + math.Sqrt(1-rho*rho)*z2
}

// CorrelatedPair draws two normals with the given means and volatilities and
// correlation rho. It also returns the standard shock behind a so further
// variables can be correlated with it.
func CorrelatedPair(rng *rand.Rand, meanA, volA, meanB, volB, rho float64) (a, b, shockA float64) {
	z1 := rng.NormFloat64()
	z2 := rng.NormFloat64()
	return meanA + volA*z1, meanB + volB*Correlate(z1, z2, rho), z1
}
