// framesize.go exposes the transient-energy Viterbi frame-duration
// selector and the frame_size_select validation helper as the host-facing
// FrameSizerMemory type and OptimizeFrameSize/FrameSizeSelect functions.

package opuscore

import "github.com/opuscore/opuscore/internal/framesize"

// FrameSizerMemory carries up to 3 sub-frame energies (and their
// reciprocals) across calls to OptimizeFrameSize, seeding the next
// call's look-ahead buffering from the tail of the previous frame. A
// zero-value FrameSizerMemory starts with no carry-over.
type FrameSizerMemory struct {
	inner framesize.Memory
}

// DownmixFunc writes subframeLen samples of a downmixed signal into out,
// reading from pcm starting at sample offset, given the interleaved
// channel count. It mirrors the reference downmix callback: a generic
// callable rather than the boxed function-pointer-plus-flag idiom of the
// source (see SPEC_FULL.md).
type DownmixFunc func(pcm []int16, out []float64, subframeLen, offset, channels int)

// OptimizeFrameSize runs the transient-energy computation and 16-state
// Viterbi search to select the best frame duration for one encode call,
// returning LM in {0,1,2,3} (durations 2.5/5/10/20 ms). bitrate is in
// kbit/s and damps the transient boost between 32 and 64 kbit/s.
//
// downmix may be nil to use the default mono/average downmix. tonality is
// accepted for host API compatibility but does not influence the cost
// model described in §4.5 of the design, which is a pure energy-based
// metric.
func OptimizeFrameSize(pcm []int16, channels, fs, bitrateKbps int, tonality int, mem *FrameSizerMemory, downmix DownmixFunc) int {
	var fn func([]int16, []float64, int, int, int)
	if downmix != nil {
		fn = downmix
	}
	_ = tonality
	// The Viterbi cost model works in bits per 2.5 ms sub-frame.
	rate := bitrateKbps * 1000 / 400
	return framesize.ComputeAndOptimize(pcm, channels, fs, rate, &mem.inner, fn)
}

// FrameSizeVariant selects how FrameSizeSelect interprets its requested
// duration argument.
type FrameSizeVariant int

const (
	FrameSizeArg FrameSizeVariant = iota
	FrameSizeVariable
	FrameSize2_5ms
	FrameSize5ms
	FrameSize10ms
	FrameSize20ms
	FrameSize40ms
	FrameSize60ms
)

// FrameSizeSelect returns the sample count for the given requested
// duration and mode at sample rate fs, rejecting values larger than
// requested or durations not representable as fs/{400,200,100,50,25} or
// 3*fs/50.
func FrameSizeSelect(requested int, variant FrameSizeVariant, fs int) (int, error) {
	candidate := func(samples int) (int, error) {
		if samples > requested {
			return 0, ErrBadArg
		}
		return samples, nil
	}

	switch variant {
	case FrameSize2_5ms:
		return candidate(fs / 400)
	case FrameSize5ms:
		return candidate(fs / 200)
	case FrameSize10ms:
		return candidate(fs / 100)
	case FrameSize20ms:
		return candidate(fs / 50)
	case FrameSize40ms:
		return candidate(2 * fs / 50)
	case FrameSize60ms:
		return candidate(3 * fs / 50)
	case FrameSizeArg:
		return requested, nil
	case FrameSizeVariable:
		valid := map[int]bool{
			fs / 400: true, fs / 200: true, fs / 100: true,
			fs / 50: true, fs / 25: true, 3 * fs / 50: true,
		}
		if !valid[requested] {
			return 0, ErrBadArg
		}
		return requested, nil
	default:
		return 0, ErrBadArg
	}
}
