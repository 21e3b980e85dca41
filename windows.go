package scalebench

import "gonum.org/v1/gonum/floats"

// WindowSizes returns count geometrically spaced window sizes between min and max.
//
// The sequence mirrors a log-spaced grid truncated to integers:
//
//	size_i = ⌊exp(ln(min) + i·(ln(max) − ln(min))/(count − 1))⌋
//
// Duplicates produced by truncation are removed, so the result is strictly
// increasing and every element lies in [min, max]. The first and last grid points
// are pinned to min and max exactly.
//
// Degenerate inputs never panic, they only shrink the result:
//   - max < min, max < 1 or count < 1: empty
//   - min < 1: treated as 1
//   - count == 1 or min == max: [min]
func WindowSizes(min, max, count int) []int {
	if min < 1 {
		min = 1
	}
	if count < 1 || max < 1 || max < min {
		return nil
	}
	if count == 1 || min == max {
		return []int{min}
	}

	grid := floats.LogSpan(make([]float64, count), float64(min), float64(max))

	sizes := make([]int, 0, count)
	for i, g := range grid {
		var size int
		switch i {
		case 0:
			size = min
		case count - 1:
			size = max
		default:
			// Nudge before truncating so round-off (e.g. 4.9999999) lands on 5.
			size = int(g + 1e-9)
		}

		if size < min {
			size = min
		}
		if size > max {
			size = max
		}

		// Grid is monotone, so deduplication only needs the last element.
		if len(sizes) > 0 && size <= sizes[len(sizes)-1] {
			continue
		}
		sizes = append(sizes, size)
	}

	return sizes
}

// usableSizes drops sizes that leave fewer than two non-overlapping windows.
func usableSizes(sizes []int, n int) []int {
	usable := make([]int, 0, len(sizes))
	for _, size := range sizes {
		if size < 1 || n/size < 2 {
			continue
		}
		usable = append(usable, size)
	}
	return usable
}
