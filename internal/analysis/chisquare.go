package analysis

import (
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquare is Pearson's statistic for counts against a uniform expectation.
func ChiSquare(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}

	expected := float64(total) / float64(len(counts))
	obs := make([]float64, len(counts))
	exp := make([]float64, len(counts))
	for i, c := range counts {
		obs[i] = float64(c)
		exp[i] = expected
	}
	return stat.ChiSquare(obs, exp)
}

// ChiSquareQuantile is the p quantile of the chi-square distribution with df
// degrees of freedom.
func ChiSquareQuantile(df int, p float64) float64 {
	if df <= 0 {
		return 0
	}
	return distuv.ChiSquared{K: float64(df)}.Quantile(p)
}
