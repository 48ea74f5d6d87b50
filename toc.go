// toc.go implements TOC byte construction and parsing (spec §3, §4.2).

package opuscore

// Mode is the Opus coding mode encoded in the TOC configuration bits.
type Mode uint8

const (
	ModeSilkOnly Mode = iota
	ModeHybrid
	ModeCeltOnly
)

func (m Mode) String() string {
	switch m {
	case ModeSilkOnly:
		return "silk-only"
	case ModeHybrid:
		return "hybrid"
	case ModeCeltOnly:
		return "celt-only"
	default:
		return "unknown"
	}
}

// Bandwidth is the Opus audio bandwidth encoded in the TOC configuration
// bits. Relative ordering matters: GenTOC computes bandwidth offsets by
// subtraction.
type Bandwidth uint8

const (
	BandwidthNarrowband    Bandwidth = iota // 8 kHz sample rate
	BandwidthMediumband                     // 12 kHz sample rate
	BandwidthWideband                       // 16 kHz sample rate
	BandwidthSuperwideband                  // 24 kHz sample rate
	BandwidthFullband                       // 48 kHz sample rate
)

func (b Bandwidth) String() string {
	switch b {
	case BandwidthNarrowband:
		return "narrowband"
	case BandwidthMediumband:
		return "mediumband"
	case BandwidthWideband:
		return "wideband"
	case BandwidthSuperwideband:
		return "superwideband"
	case BandwidthFullband:
		return "fullband"
	default:
		return "unknown"
	}
}

// TOC is the decoded Table-of-Contents byte of an Opus packet.
type TOC struct {
	Byte      byte
	Mode      Mode
	Bandwidth Bandwidth
	Stereo    bool
	FrameCode uint8 // 0-3, the packet's frame-count code
}

// Channels returns 2 if the TOC's stereo flag is set, else 1.
func (t TOC) Channels() int {
	if t.Stereo {
		return 2
	}
	return 1
}

// period returns the raw 2-bit period field stored in TOC bits 3-4. For
// SILK-only and Hybrid configs this is (actual period - 2); for CELT-only
// it is the period directly. See the Open Question decision in DESIGN.md:
// NumSamplesPerFrame reads this field back literally, without re-adding
// the SILK/Hybrid encode-side offset.
func period(toc byte) int {
	return int((toc >> 3) & 0x3)
}

// GenTOC computes a TOC byte for the given mode, frame rate (frames per
// second), bandwidth and channel count, per spec §4.2.
//
// period is the number of left-shifts needed to raise framerateHz to at
// least 400.
func GenTOC(mode Mode, framerateHz int, bandwidth Bandwidth, channels int) byte {
	p := 0
	fr := framerateHz
	for fr < 400 {
		fr <<= 1
		p++
	}

	var b byte
	switch mode {
	case ModeSilkOnly:
		bw := int(bandwidth) - int(BandwidthNarrowband)
		b = byte(bw<<5) | byte((p-2)<<3)
	case ModeCeltOnly:
		bw := int(bandwidth) - int(BandwidthMediumband)
		if bw < 0 {
			bw = 0
		}
		b = 0x80 | byte(bw<<5) | byte(p<<3)
	case ModeHybrid:
		bw := int(bandwidth) - int(BandwidthSuperwideband)
		b = 0x60 | byte(bw<<4) | byte((p-2)<<3)
	}

	if channels == 2 {
		b |= 0x04
	}
	return b
}

// ParseTOC decodes a TOC byte into its constituent fields per spec §3.
func ParseTOC(b byte) TOC {
	toc := TOC{
		Byte:      b,
		Stereo:    b&0x04 != 0,
		FrameCode: b & 0x03,
	}

	switch {
	case b&0x80 != 0:
		toc.Mode = ModeCeltOnly
		bw := int((b >> 5) & 0x3)
		toc.Bandwidth = Bandwidth(int(BandwidthMediumband) + bw)
	case b&0x60 == 0x60:
		toc.Mode = ModeHybrid
		if b&0x10 != 0 {
			toc.Bandwidth = BandwidthFullband
		} else {
			toc.Bandwidth = BandwidthSuperwideband
		}
	default:
		toc.Mode = ModeSilkOnly
		toc.Bandwidth = Bandwidth((b >> 5) & 0x3)
	}

	return toc
}

// PacketMode returns the Opus mode encoded in a packet's TOC byte.
func PacketMode(packet []byte) (Mode, error) {
	if len(packet) < 1 {
		return 0, ErrBadArg
	}
	return ParseTOC(packet[0]).Mode, nil
}

// PacketBandwidth returns the Opus bandwidth encoded in a packet's TOC byte.
func PacketBandwidth(packet []byte) (Bandwidth, error) {
	if len(packet) < 1 {
		return 0, ErrBadArg
	}
	return ParseTOC(packet[0]).Bandwidth, nil
}

// PacketChannels returns the channel count (1 or 2) encoded in a packet's
// TOC byte.
func PacketChannels(packet []byte) (int, error) {
	if len(packet) < 1 {
		return 0, ErrBadArg
	}
	return ParseTOC(packet[0]).Channels(), nil
}

// numSamplesPerFrameFromTOC decodes the per-frame sample count for a TOC
// byte at sample rate fs, per spec §4.2. See DESIGN.md for the Open
// Question decision on how the period field is interpreted here.
func numSamplesPerFrameFromTOC(toc byte, fs int) int {
	p := period(toc)
	switch {
	case toc&0x80 != 0: // CELT-only
		if p == 3 {
			return fs * 60 / 1000
		}
		return (fs << uint(p)) / 100
	case toc&0x60 == 0x60: // Hybrid
		if toc&0x08 != 0 {
			return fs / 50
		}
		return fs / 100
	default: // SILK-only
		return (fs << uint(p)) / 400
	}
}

// NumSamplesPerFrame returns the number of samples in a single frame of
// packet at sample rate fs, decoded purely from the TOC byte.
func NumSamplesPerFrame(packet []byte, fs int) (int, error) {
	if len(packet) < 1 {
		return 0, ErrBadArg
	}
	return numSamplesPerFrameFromTOC(packet[0], fs), nil
}
