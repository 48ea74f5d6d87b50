// stereowidth.go exposes the stereo-width estimator as the host-facing
// StereoWidthState type and ComputeStereoWidth function.

package opuscore

import "github.com/opuscore/opuscore/internal/stereowidth"

// StereoWidthState is the persistent stereo-width estimator state:
// accumulated inter-channel energies (Q18) and the smoothed/peak-held
// width estimate (Q15).
type StereoWidthState struct {
	inner stereowidth.State
}

// ComputeStereoWidth estimates the stereo width of one frame of
// interleaved int16 PCM and returns it in Q15 ([0, Q15ONE]), updating
// state in place. pcm must hold frameSize*2 interleaved L/R samples.
func ComputeStereoWidth(pcm []int16, frameSize, fs int, state *StereoWidthState) int16 {
	return stereowidth.Compute(pcm, frameSize, fs, &state.inner)
}
