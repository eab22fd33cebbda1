// Package alloc keeps a set of integer sliders summing to a fixed total.
// Ship equipment strengths and equipment specifications both go through it.
package alloc

// Distribute sets arr[index] to newAmount (clamped to [0, total]) and rescales
// every other entry so the result sums to total while keeping the others'
// relative proportions as closely as integer rounding allows.
//
// Rounding is largest-remainder: each scaled value is floored, then the
// residual is handed out one unit at a time to the largest fractional parts,
// ties going to the earliest index. The arithmetic is exact integer math, so
// sum(result) == total always holds.
//
// Negative entries are treated as zero. An out-of-range index returns an
// unchanged copy of arr, and a single-entry arr always holds total.
func Distribute(arr []int, index, newAmount, total int) []int {
	n := len(arr)
	result := make([]int, n)
	for i, v := range arr {
		result[i] = max(v, 0)
	}
	if n == 0 || index < 0 || index >= n {
		return result
	}
	if total < 0 {
		total = 0
	}
	newAmount = clampInt(newAmount, 0, total)

	oldOther := 0
	for i, v := range result {
		if i != index {
			oldOther += v
		}
	}
	// A lone slot has to carry the whole total.
	if n == 1 {
		result[0] = total
		return result
	}
	newOther := total - newAmount
	result[index] = newAmount

	// All other sliders at zero: nothing to scale, split evenly instead.
	if oldOther == 0 {
		even := Even(n-1, newOther)
		j := 0
		for i := range result {
			if i == index {
				continue
			}
			result[i] = even[j]
			j++
		}
		return result
	}

	// scaled_i = v*newOther/oldOther; keep the floor and the remainder numerator.
	rem := make([]int, n)
	assigned := 0
	for i, v := range result {
		if i == index {
			rem[i] = -1
			continue
		}
		prod := v * newOther
		result[i] = prod / oldOther
		rem[i] = prod % oldOther
		assigned += result[i]
	}

	for residual := newOther - assigned; residual > 0; residual-- {
		best := -1
		for i, r := range rem {
			if i == index {
				continue
			}
			if best == -1 || r > rem[best] {
				best = i
			}
		}
		if best == -1 || rem[best] < 0 {
			break
		}
		result[best]++
		rem[best] = -1
	}
	return result
}

// Even splits total across n slots using integer division, giving the
// remainder to the first slots in order.
func Even(n, total int) []int {
	if n <= 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}
	out := make([]int, n)
	base, remainder := total/n, total%n
	for i := range out {
		out[i] = base
		if i < remainder {
			out[i]++
		}
	}
	return out
}

// Sum returns the total of vals.
func Sum(vals []int) int {
	s := 0
	for _, v := range vals {
		s += v
	}
	return s
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
