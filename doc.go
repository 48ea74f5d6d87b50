// Package opuscore implements the Opus packet-layer protocol and the
// signal-adaptive encoder front-end: TOC byte construction/parsing,
// multi-frame packet framing (including self-delimited and padded
// variants), and the fixed-point DSP primitives (biquad high-pass, DC
// reject, stereo width estimation, cross-fades, soft clipping) and
// Viterbi frame-duration selector that feed a SILK/CELT core.
//
// This package does not implement SILK, CELT, the range coder, Ogg
// container framing, or resampling — those are external collaborators
// that consume the fixed interfaces defined here (TOC bytes, parsed frame
// boundaries, the selected LM code, conditioned PCM).
//
// # Packet structure
//
// Every Opus packet starts with a TOC (Table of Contents) byte:
//   - Bits 7-3: configuration (mode + bandwidth + frame-duration period)
//   - Bit 2: stereo flag
//   - Bits 1-0: frame count code
//
// Use ParseTOC to extract these fields and ParsePacket to walk the frame
// boundaries within a packet.
package opuscore
