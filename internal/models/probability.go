// ABOUTME: Probability is a settlement-probability estimate normalized to [0,1]
// ABOUTME: Accepts both fraction (0.7) and percentage (70) input conventions
package models

// Probability is a normalized settlement probability in [0,1]
type Probability float64

// NormalizeProbability converts a raw probability value (fraction or
// percentage) to [0,1]. Values above 1 are treated as percentages.
// Normalization is idempotent and clamps to the unit interval.
func NormalizeProbability(raw float64) Probability {
	p := raw
	if p > 1 {
		p = p / 100
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return Probability(p)
}

// Percent returns the probability expressed as 0-100
func (p Probability) Percent() float64 {
	return float64(p) * 100
}
