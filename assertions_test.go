package scalebench

import "testing"

// TestAssertions_RandomWalk exercises the helpers on Brownian motion.
func TestAssertions_RandomWalk(t *testing.T) {
	walk := RandomWalk(NewSource(31), 5000, 0)
	cfg := DefaultAssertionConfig()

	AssertHurst(t, walk, VarianceOfIncrements, 0.5, cfg)
	AssertGoodFit(t, walk, VarianceOfIncrements, cfg)
}

func TestAssertions_Persistence(t *testing.T) {
	cfg := DefaultAssertionConfig()

	persistent, err := FractionalBrownian(NewSource(32), 4096, 0.8)
	if err != nil {
		t.Fatalf("FractionalBrownian failed: %v", err)
	}
	AssertPersistent(t, persistent, VarianceOfIncrements, cfg)

	antiPersistent, err := FractionalBrownian(NewSource(33), 4096, 0.25)
	if err != nil {
		t.Fatalf("FractionalBrownian failed: %v", err)
	}
	AssertAntiPersistent(t, antiPersistent, VarianceOfIncrements, cfg)
}

func TestPrintAnalysis(t *testing.T) {
	noise, err := FractionalNoise(NewSource(34), 2048, 0.7)
	if err != nil {
		t.Fatalf("FractionalNoise failed: %v", err)
	}
	PrintAnalysis(t, noise)

	// Failing strategies are reported, not fatal.
	PrintAnalysis(t, noise[:10])
}
