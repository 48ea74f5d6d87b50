// Package frontend implements the fixed-point pre-conditioning DSP that
// runs ahead of the SILK/CELT cores: the biquad high-pass filter, the
// two-stage DC-reject leaky integrator, and the three window-weighted
// cross-fade kernels (stereo fade, gain fade, smooth fade).
package frontend

import "github.com/opuscore/opuscore/internal/fixedmath"

const q15One = int32(1) << 15

// BiquadCoeffs holds the Q28 biquad coefficients computed by HPCutoff.
type BiquadCoeffs struct {
	B0, B1, B2 int32 // numerator, Q28
	A1, A2     int32 // denominator, Q28 (applied as y -= a*mem)
}

// HPCutoff computes the biquad high-pass coefficients for the given
// cutoff frequency and sample rate, per the reference hp_cutoff formula.
//
//	Fc  = (1.5*pi/1000 * cutoffHz) / (fs/1000), in Q19
//	r   = 1.0 - 0.92*Fc, in Q28
//	B   = r * [1, -2, 1]
//	A   = [-r*(2 - Fc^2), r^2], in Q28
// threeHalvesPiQ19 is 1.5*pi in Q19, folded to an integer constant at
// compile time so HPCutoff never touches floating point at call time.
const threeHalvesPiQ19 = int64(2470649) // round(1.5*pi * 2^19)

func HPCutoff(cutoffHz, fs int) BiquadCoeffs {
	fcQ19 := int32((threeHalvesPiQ19 * int64(cutoffHz)) / int64(fs))
	r := computeR(fcQ19)
	a1, a2 := computeA(r, fcQ19)

	return BiquadCoeffs{
		B0: r,
		B1: -2 * r,
		B2: r,
		A1: a1,
		A2: a2,
	}
}

// computeR returns r = 1.0 - 0.92*Fc in Q28, given Fc in Q19.
func computeR(fcQ19 int32) int32 {
	const oneQ28 = int64(1) << 28
	const ninetyTwoHundredthsQ15 = int64(30147) // round(0.92 * 2^15)
	// Fc is Q19; multiplying by a Q15 constant and shifting by 19+15-28=6
	// keeps the product in Q28.
	term := (ninetyTwoHundredthsQ15 * int64(fcQ19)) >> 6
	return int32(oneQ28 - term)
}

// computeA returns the denominator coefficients A1 = -r*(2-Fc^2), A2 = r^2,
// both in Q28, given Fc in Q19.
func computeA(r, fcQ19 int32) (int32, int32) {
	const twoQ19 = int64(2) << 19

	fc2Q19 := (int64(fcQ19) * int64(fcQ19)) >> 19
	twoMinusFc2 := twoQ19 - fc2Q19

	a1 := int32(-(int64(r) * twoMinusFc2) >> 19)
	a2 := int32((int64(r) * int64(r)) >> 28)

	return a1, a2
}

// HighPassState holds the two delay-line words the biquad needs per
// channel, kept in Q12 relative to the int16 sample scale.
type HighPassState struct {
	Mem [2]int32
}

// Apply runs the biquad high-pass filter over an interleaved channel
// slice in-place. state.Mem persists the two delay taps across calls.
func Apply(samples []int16, stride, channels int, coeffs BiquadCoeffs, states []HighPassState) {
	for c := 0; c < channels; c++ {
		st := &states[c]
		for i := c; i < len(samples); i += stride {
			x := int32(samples[i]) << 12
			out := mulQ28(coeffs.B0, x) + st.Mem[0]
			st.Mem[0] = st.Mem[1] + mulQ28(coeffs.B1, x) - mulQ28(coeffs.A1, out)
			st.Mem[1] = mulQ28(coeffs.B2, x) - mulQ28(coeffs.A2, out)
			samples[i] = int16(fixedmath.Saturate(fixedmath.Pshr32(out, 12), 32767))
		}
	}
}

// mulQ28 multiplies a Q28 coefficient by a native-scale sample, producing
// a result at the sample's native scale.
func mulQ28(coeff, x int32) int32 {
	return int32((int64(coeff) * int64(x)) >> 28)
}

// DCRejectState holds the two-stage leaky integrator memory per channel.
type DCRejectState struct {
	Mem [2]int32
}

// DCReject runs the two cascaded single-pole leaky integrators described
// in §4.3: shift = floor(log2(fs/(3*cutoff))); each stage computes
// y = x - mem; mem += (x - mem) >> shift. The final output is saturated
// to int16 after a Q15 right shift.
func DCReject(samples []int16, stride, channels int, cutoffHz, fs int, states []DCRejectState) {
	shift := 0
	denom := 3 * cutoffHz
	for (fs >> uint(shift)) > denom {
		shift++
	}
	if shift > 0 && (fs>>uint(shift)) < denom {
		shift--
	}

	for c := 0; c < channels; c++ {
		st := &states[c]
		for i := c; i < len(samples); i += stride {
			x := int32(samples[i]) << 15

			y1 := x - st.Mem[0]
			st.Mem[0] += y1 >> uint(shift)

			y2 := y1 - st.Mem[1]
			st.Mem[1] += y2 >> uint(shift)

			out := fixedmath.Pshr32(y2, 15)
			samples[i] = int16(fixedmath.Saturate(out, 32767))
		}
	}
}

// fadeWeight returns window[i*inc]^2 in Q15, approximating the raised
// cosine overlap window with a quadratic ramp — matching the window
// shape used by the reference gain/stereo/smooth fades.
func fadeWeight(i, overlap int) int32 {
	if overlap <= 0 {
		return q15One
	}
	frac := (int64(i) << 15) / int64(overlap)
	if frac > 32768 {
		frac = 32768
	}
	w := (frac * frac) >> 15
	return int32(w)
}

// Overlap returns the cross-fade length at sample rate fs, scaled down
// from the reference 48 kHz overlap length.
func Overlap(overlap48 int, fs int) int {
	return overlap48 / (48000 / fs)
}

// StereoFade collapses a stereo pair toward mono across the overlap
// region by attenuating the side channel: diff = (L-R)/2; L -= g*diff;
// R += g*diff, with g interpolated from g1 (prior) to g2 (current).
func StereoFade(l, r []int16, overlap int, g1, g2 int32) {
	n := len(l)
	if len(r) < n {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		var g int32
		if i < overlap {
			w := fadeWeight(i, overlap)
			g = int32((int64(w)*int64(g2) + int64(q15One-w)*int64(g1)) >> 15)
		} else {
			g = g2
		}
		diff := (int32(l[i]) - int32(r[i])) / 2
		adj := mulQ15(g, diff)
		l[i] = int16(fixedmath.Saturate(int32(l[i])-adj, 32767))
		r[i] = int16(fixedmath.Saturate(int32(r[i])+adj, 32767))
	}
}

// GainFade scales every interleaved sample uniformly from g1 to g2
// across the overlap region.
func GainFade(samples []int16, overlap int, g1, g2 int32) {
	for i := range samples {
		var g int32
		if i < overlap {
			w := fadeWeight(i, overlap)
			g = int32((int64(w)*int64(g2) + int64(q15One-w)*int64(g1)) >> 15)
		} else {
			g = g2
		}
		samples[i] = int16(fixedmath.Saturate(mulQ15(g, int32(samples[i])), 32767))
	}
}

// mulQ15 multiplies a Q15 gain by a full-range int32 sample, producing a
// result at the sample's native scale. Unlike SmulWB, g here is not
// restricted to the int16 range, so Q15ONE (32768) is representable.
func mulQ15(g, x int32) int32 {
	return int32((int64(g) * int64(x)) >> 15)
}

// SmoothFade blends two input buffers sample-wise into out, weighting a
// toward b across the overlap region.
func SmoothFade(a, b, out []int16, overlap int) {
	n := len(out)
	for i := 0; i < n; i++ {
		w := fadeWeight(i, overlap)
		blended := (int64(w)*int64(b[i]) + int64(q15One-w)*int64(a[i])) >> 15
		out[i] = int16(fixedmath.Saturate(int32(blended), 32767))
	}
}
