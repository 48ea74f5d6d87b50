// Package stereowidth implements the recursive inter-channel correlation
// and loudness-difference estimator used to decide how aggressively a
// stereo signal should be coded as mono, adapted in fixed point from the
// teacher's float64 computeStereoWidthForMode.
package stereowidth

import "github.com/opuscore/opuscore/internal/fixedmath"

const q15One = int32(1) << 15

// State is the persistent stereo-width estimator state, carried from
// frame to frame.
type State struct {
	XX            int32 // Q18
	XY            int32 // Q18
	YY            int32 // Q18
	SmoothedWidth int32 // Q15
	MaxFollower   int32 // Q15
}

// Compute estimates the stereo width of one frame of interleaved int16
// PCM and returns it in Q15, updating state in place. frameSize is the
// number of sample pairs; fs is the sample rate.
//
// Per four-sample block, XX/YY/XY are accumulated at Q10 (samples rounded
// to Q7 before squaring) and the frame sums are shifted up into the Q18
// running totals with a one-second IIR smoothing constant
// alpha = Q15ONE - 25*Q15ONE/max(50, frameRate). See DESIGN.md for the
// "ghetto order of ops" note: the arithmetic below preserves the exact
// integer evaluation order of the reference, not a reordered-for-clarity
// variant.
func Compute(pcm []int16, frameSize, fs int, state *State) int16 {
	frameRate := fs / frameSize
	if frameRate < 1 {
		frameRate = 1
	}

	shortAlpha := q15One - 25*q15One/int32(fixedmath.MaxInt(50, frameRate))

	var xx, xy, yy int64

	i := 0
	for ; i+4 <= frameSize; i += 4 {
		var blockXX, blockXY, blockYY int32
		for j := 0; j < 4; j++ {
			l := int32(pcm[2*(i+j)])
			r := int32(pcm[2*(i+j)+1])
			x := fixedmath.Pshr32(l, 8)
			y := fixedmath.Pshr32(r, 8)
			blockXX += (x * x) >> 4
			blockXY += (x * y) >> 4
			blockYY += (y * y) >> 4
		}
		xx += int64(blockXX)
		xy += int64(blockXY)
		yy += int64(blockYY)
	}
	// Remaining samples below a full 4-block, folded into the last block's
	// weight (a minor bias the reference accepts for simplicity).
	for ; i < frameSize; i++ {
		l := int32(pcm[2*i])
		r := int32(pcm[2*i+1])
		x := fixedmath.Pshr32(l, 8)
		y := fixedmath.Pshr32(r, 8)
		xx += int64((x * x) >> 4)
		xy += int64((x * y) >> 4)
		yy += int64((y * y) >> 4)
	}

	if xx > 1<<30 || xy > 1<<30 || yy > 1<<30 || xx < 0 || yy < 0 {
		// Guard against accumulator overflow/NaN-equivalent drift: this
		// frame contributes zero energy, so the update below decays the
		// running totals toward zero.
		xx, xy, yy = 0, 0, 0
	}

	state.XX += int32((int64(shortAlpha) * (xx<<8 - int64(state.XX))) >> 15)
	state.XY += int32((int64(shortAlpha) * (xy<<8 - int64(state.XY))) >> 15)
	state.YY += int32((int64(shortAlpha) * (yy<<8 - int64(state.YY))) >> 15)

	const threshold = int32(210) // round(0.0008 * 2^18)
	maxXXYY := fixedmath.MaxInt32(state.XX, state.YY)
	if maxXXYY <= threshold {
		return 0
	}

	sqrtXX := fixedmath.CeltSqrt(state.XX)
	sqrtYY := fixedmath.CeltSqrt(state.YY)
	qrrtXX := fixedmath.CeltSqrt(sqrtXX << 7)
	qrrtYY := fixedmath.CeltSqrt(sqrtYY << 7)

	prodQ18 := int64(sqrtXX) * int64(sqrtYY)
	xyClip := fixedmath.MinInt32(state.XY, int32(prodQ18))

	const eps = int64(1)
	corr := int32((int64(xyClip) << 15) / (eps + prodQ18))
	corr = fixedmath.ClampInt32(corr, -(q15One - 1), q15One-1)

	ldiffNum := fixedmath.Abs32(qrrtXX - qrrtYY)
	ldiffDen := eps + int64(qrrtXX) + int64(qrrtYY)
	ldiff := int32((int64(q15One) * int64(ldiffNum)) / ldiffDen)

	oneMinusCorrSq := q15One - int32(fixedmath.Mult16_16_Q15(int16(corr), int16(corr)))
	if oneMinusCorrSq < 0 {
		oneMinusCorrSq = 0
	}
	sqrtOneMinusCorrSq := fixedmath.CeltSqrt(oneMinusCorrSq << 15) // Q30 in, Q15 out

	width := int32((int64(sqrtOneMinusCorrSq) * int64(ldiff)) >> 15)

	state.SmoothedWidth += (width - state.SmoothedWidth) / int32(frameRate)

	decay := q15One * 2 / 100 / int32(frameRate)
	if decay < 1 {
		decay = 1
	}
	follower := state.MaxFollower - decay
	state.MaxFollower = fixedmath.MaxInt32(follower, state.SmoothedWidth)

	result := 20 * state.MaxFollower
	if result > q15One-1 {
		result = q15One - 1
	}
	return int16(result)
}
