package opuscore

import "testing"

func TestSoftClipBounded(t *testing.T) {
	n := 64
	samples := make([]float32, n)
	for i := range samples {
		// single sine-ish excursion peaking above 1
		samples[i] = 1.5
		if i%2 == 0 {
			samples[i] = -1.5
		}
	}
	mem := NewDeclipMemory(1)
	SoftClip(samples, n, 1, mem)
	for i, v := range samples {
		if v > 1+1.0/32768.0 || v < -(1+1.0/32768.0) {
			t.Fatalf("sample %d = %v exceeds +-1+eps after soft clip", i, v)
		}
	}
}

func TestSoftClipHardClipsTo2(t *testing.T) {
	samples := []float32{5, -5, 0.5}
	mem := NewDeclipMemory(1)
	SoftClip(samples, 3, 1, mem)
	if samples[0] > 2 || samples[1] < -2 {
		t.Fatalf("expected hard clip into [-2,2] before nonlinear pass, got %v", samples)
	}
}

func TestSoftClipPassthroughWhenWithinRange(t *testing.T) {
	samples := []float32{0.1, -0.2, 0.3, -0.1}
	orig := append([]float32(nil), samples...)
	mem := NewDeclipMemory(1)
	SoftClip(samples, 4, 1, mem)
	for i := range samples {
		if samples[i] != orig[i] {
			t.Errorf("sample %d changed from %v to %v though within [-1,1]", i, orig[i], samples[i])
		}
	}
}

func TestSoftClipStereoIndependentChannels(t *testing.T) {
	// interleaved L,R; only L exceeds 1
	samples := []float32{1.8, 0.2, -1.8, -0.2}
	mem := NewDeclipMemory(2)
	SoftClip(samples, 2, 2, mem)
	if samples[1] != 0.2 || samples[3] != -0.2 {
		t.Errorf("right channel should be untouched, got %v", samples)
	}
}
