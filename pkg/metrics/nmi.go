// Package metrics scores a discovered partition against a reference one.
package metrics

import "math"

// NMI computes the symmetric normalized mutual information between two
// equal-length cluster assignments, as
//
//	NMI = 2 * I(a;b) / (H(a) + H(b))
//
// returning 0 when the assignments differ in length, are empty, or both
// reduce to a single cluster (H(a)+H(b) == 0).
func NMI(a, b []int32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	n := float64(len(a))

	countA := make(map[int32]int)
	countB := make(map[int32]int)
	joint := make(map[[2]int32]int)

	for i := range a {
		countA[a[i]]++
		countB[b[i]]++
		joint[[2]int32{a[i], b[i]}]++
	}

	hA := entropy(countA, n)
	hB := entropy(countB, n)

	if hA+hB == 0 {
		return 0
	}

	var mi float64
	for key, val := range joint {
		pXY := float64(val) / n
		pX := float64(countA[key[0]]) / n
		pY := float64(countB[key[1]]) / n
		mi += pXY * math.Log(pXY/(pX*pY))
	}

	return 2 * mi / (hA + hB)
}

func entropy(counts map[int32]int, n float64) float64 {
	var h float64
	for _, val := range counts {
		p := float64(val) / n
		h -= p * math.Log(p)
	}
	return h
}
