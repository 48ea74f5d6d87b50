// frontend.go exposes the fixed-point pre-conditioning DSP (biquad
// high-pass, DC reject, cross-fades) as host-facing types and functions,
// delegating the arithmetic to internal/frontend.

package opuscore

import "github.com/opuscore/opuscore/internal/frontend"

// HighPassMemory holds the biquad high-pass filter's persistent state,
// two Q12 words per channel.
type HighPassMemory struct {
	states []frontend.HighPassState
}

// NewHighPassMemory returns zeroed high-pass state for the given channel
// count.
func NewHighPassMemory(channels int) *HighPassMemory {
	return &HighPassMemory{states: make([]frontend.HighPassState, channels)}
}

// HighPassFilter applies the biquad high-pass filter with the given
// cutoff to interleaved samples in-place. mem must have been created
// with the same channel count as samples is interleaved at.
func HighPassFilter(samples []int16, channels int, cutoffHz, fs int, mem *HighPassMemory) {
	coeffs := frontend.HPCutoff(cutoffHz, fs)
	frontend.Apply(samples, channels, channels, coeffs, mem.states)
}

// DCRejectMemory holds the two-stage DC-reject leaky integrator's
// persistent state, two Q-state words per channel.
type DCRejectMemory struct {
	states []frontend.DCRejectState
}

// NewDCRejectMemory returns zeroed DC-reject state for the given channel
// count.
func NewDCRejectMemory(channels int) *DCRejectMemory {
	return &DCRejectMemory{states: make([]frontend.DCRejectState, channels)}
}

// DCReject runs the two cascaded leaky integrators over interleaved
// samples in-place.
func DCReject(samples []int16, channels int, cutoffHz, fs int, mem *DCRejectMemory) {
	frontend.DCReject(samples, channels, channels, cutoffHz, fs, mem.states)
}

// FadeOverlap returns the cross-fade length at sample rate fs, scaled
// down from the reference 48 kHz overlap length overlap48.
func FadeOverlap(overlap48, fs int) int {
	return frontend.Overlap(overlap48, fs)
}

// StereoFade collapses a stereo pair toward mono across the overlap
// region, interpolating the side-channel attenuation from g1 to g2 (both
// Q15).
func StereoFade(l, r []int16, overlap int, g1, g2 int32) {
	frontend.StereoFade(l, r, overlap, g1, g2)
}

// GainFade scales interleaved samples uniformly from g1 to g2 (both Q15)
// across the overlap region.
func GainFade(samples []int16, overlap int, g1, g2 int32) {
	frontend.GainFade(samples, overlap, g1, g2)
}

// SmoothFade blends two input buffers sample-wise into out across the
// overlap region.
func SmoothFade(a, b, out []int16, overlap int) {
	frontend.SmoothFade(a, b, out, overlap)
}
