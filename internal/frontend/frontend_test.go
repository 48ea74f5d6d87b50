package frontend

import "testing"

func TestHPCutoffProducesNonZeroCoeffs(t *testing.T) {
	c := HPCutoff(3000, 48000)
	if c.B0 == 0 {
		t.Error("B0 should be nonzero for a typical cutoff")
	}
	if c.A2 <= 0 {
		t.Errorf("A2 = r^2 should be positive, got %d", c.A2)
	}
}

func TestApplySilenceStaysZero(t *testing.T) {
	samples := make([]int16, 32)
	coeffs := HPCutoff(3000, 48000)
	states := make([]HighPassState, 1)
	Apply(samples, 1, 1, coeffs, states)
	for i, v := range samples {
		if v != 0 {
			t.Fatalf("sample %d = %d, want 0 for all-zero input", i, v)
		}
	}
}

func TestDCRejectSilenceStaysZero(t *testing.T) {
	samples := make([]int16, 32)
	states := make([]DCRejectState, 1)
	DCReject(samples, 1, 1, 3, 48000, states)
	for i, v := range samples {
		if v != 0 {
			t.Fatalf("sample %d = %d, want 0 for all-zero input", i, v)
		}
	}
}

func TestOverlapScalesInverselyWithRate(t *testing.T) {
	if got := Overlap(240, 48000); got != 240 {
		t.Errorf("Overlap(240,48000) = %d, want 240", got)
	}
	if got := Overlap(240, 24000); got != 120 {
		t.Errorf("Overlap(240,24000) = %d, want 120", got)
	}
}

func TestGainFadeReachesG2PastOverlap(t *testing.T) {
	samples := []int16{1000, 1000, 1000, 1000}
	GainFade(samples, 2, 0, 1<<15)
	if samples[3] != 1000 {
		t.Errorf("sample past overlap should equal input scaled by g2=1.0, got %d", samples[3])
	}
}

func TestStereoFadeZeroGainLeavesChannelsUnchanged(t *testing.T) {
	l := []int16{1000, 2000}
	r := []int16{500, 1500}
	StereoFade(l, r, 0, 0, 0)
	if l[0] != 1000 || r[0] != 500 {
		t.Errorf("zero gain should not alter samples, got l=%v r=%v", l, r)
	}
}
