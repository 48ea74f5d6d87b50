// packet.go implements the multi-frame packet framing protocol: the
// length-prefix codec and the code 0/1/2/3 packet walker, adapted from
// the self-delimited framing logic in the teacher's multistream package.

package opuscore

// ParsedPacket is the ephemeral result of walking a packet's frame
// boundaries.
type ParsedPacket struct {
	TOC           byte
	Frames        [][]byte
	Sizes         []uint16
	PayloadOffset uint
	PacketOffset  uint
}

// EncodeSize writes the length prefix for n into out (which must have at
// least 2 bytes of capacity) and returns the number of bytes written (1
// or 2), per §3's length-field encoding.
func EncodeSize(n int, out []byte) int {
	if n < 252 {
		out[0] = byte(n)
		return 1
	}
	out[0] = byte(252 + (n & 3))
	out[1] = byte((n - int(out[0])) >> 2)
	return 2
}

// ParseSize is the mirror of EncodeSize: it reads a length prefix from
// the front of buf and returns (value, bytesConsumed), or (-1, -1) if
// buf is truncated.
func ParseSize(buf []byte) (int, int) {
	if len(buf) < 1 {
		return -1, -1
	}
	if buf[0] < 252 {
		return int(buf[0]), 1
	}
	if len(buf) < 2 {
		return -1, -1
	}
	return int(buf[0]) + 4*int(buf[1]), 2
}

// frameSizeSamplesAt48k returns the per-frame sample count for toc at the
// fixed 48 kHz rate used by the code-3 total-duration bound in §4.2.
func frameSizeSamplesAt48k(toc byte) int {
	return numSamplesPerFrameFromTOC(toc, 48000)
}

// NumFrames returns the number of audio frames encoded in packet's TOC
// and frame-count byte, without walking the full frame layout.
func NumFrames(packet []byte) (int, error) {
	if len(packet) < 1 {
		return 0, ErrInvalidPacket
	}
	switch packet[0] & 0x03 {
	case 0:
		return 1, nil
	case 1, 2:
		return 2, nil
	default:
		if len(packet) < 2 {
			return 0, ErrInvalidPacket
		}
		count := int(packet[1] & 0x3F)
		if count < 1 || count > 48 {
			return 0, ErrInvalidPacket
		}
		return count, nil
	}
}

// NumSamples returns the total decoded sample count across all frames of
// packet at sample rate fs, rejecting packets that would decode to more
// than 120 ms of audio.
func NumSamples(packet []byte, fs int) (int, error) {
	n, err := NumFrames(packet)
	if err != nil {
		return 0, err
	}
	perFrame, err := NumSamplesPerFrame(packet, fs)
	if err != nil {
		return 0, err
	}
	samples := n * perFrame
	if samples*25 > fs*3 {
		return 0, ErrInvalidPacket
	}
	return samples, nil
}

// ParsePacket walks the frame boundaries of data, dispatching on the TOC
// frame-count code, per §4.2. When selfDelimited is true, the last frame
// (and for CBR code 3, the common frame size) carries an explicit length
// prefix instead of being inferred from the remaining buffer length.
func ParsePacket(data []byte, selfDelimited bool) (ParsedPacket, error) {
	if len(data) < 1 {
		return ParsedPacket{}, ErrInvalidPacket
	}

	toc := data[0]
	cursor := uint(1)
	code := toc & 0x03

	var sizes []uint16
	var padLen int

	switch code {
	case 0:
		if selfDelimited {
			size, consumed := ParseSize(data[cursor:])
			if size < 0 {
				return ParsedPacket{}, ErrInvalidPacket
			}
			cursor += uint(consumed)
			sizes = []uint16{uint16(size)}
		} else {
			if len(data) < int(cursor) {
				return ParsedPacket{}, ErrInvalidPacket
			}
			sizes = []uint16{uint16(len(data) - int(cursor))}
		}

	case 1:
		if selfDelimited {
			size, consumed := ParseSize(data[cursor:])
			if size < 0 {
				return ParsedPacket{}, ErrInvalidPacket
			}
			cursor += uint(consumed)
			sizes = []uint16{uint16(size), uint16(size)}
		} else {
			remaining := len(data) - int(cursor)
			if remaining < 0 || remaining%2 != 0 {
				return ParsedPacket{}, ErrInvalidPacket
			}
			half := uint16(remaining / 2)
			sizes = []uint16{half, half}
		}

	case 2:
		size0, consumed := ParseSize(data[cursor:])
		if size0 < 0 {
			return ParsedPacket{}, ErrInvalidPacket
		}
		cursor += uint(consumed)
		if selfDelimited {
			size1, consumed1 := ParseSize(data[cursor:])
			if size1 < 0 {
				return ParsedPacket{}, ErrInvalidPacket
			}
			cursor += uint(consumed1)
			sizes = []uint16{uint16(size0), uint16(size1)}
		} else {
			remaining := len(data) - int(cursor) - size0
			if remaining < 0 {
				return ParsedPacket{}, ErrInvalidPacket
			}
			sizes = []uint16{uint16(size0), uint16(remaining)}
		}

	case 3:
		if len(data) < int(cursor)+1 {
			return ParsedPacket{}, ErrInvalidPacket
		}
		aux := data[cursor]
		cursor++
		count := int(aux & 0x3F)
		if count < 1 || count > 48 {
			return ParsedPacket{}, ErrInvalidPacket
		}
		if frameSizeSamplesAt48k(toc)*count > 5760 {
			return ParsedPacket{}, ErrInvalidPacket
		}
		hasPadding := aux&0x40 != 0
		vbr := aux&0x80 == 0 // VBR flag is the inverted bit 7 per §4.2

		if hasPadding {
			for {
				if len(data) < int(cursor)+1 {
					return ParsedPacket{}, ErrInvalidPacket
				}
				b := data[cursor]
				cursor++
				if b == 255 {
					padLen += 254
					continue
				}
				padLen += int(b)
				break
			}
		}

		if vbr {
			sizes = make([]uint16, count)
			total := 0
			for i := 0; i < count-1; i++ {
				size, consumed := ParseSize(data[cursor:])
				if size < 0 {
					return ParsedPacket{}, ErrInvalidPacket
				}
				cursor += uint(consumed)
				sizes[i] = uint16(size)
				total += size
			}
			if selfDelimited {
				size, consumed := ParseSize(data[cursor:])
				if size < 0 {
					return ParsedPacket{}, ErrInvalidPacket
				}
				cursor += uint(consumed)
				sizes[count-1] = uint16(size)
			} else {
				remaining := len(data) - int(cursor) - padLen - total
				if remaining < 0 {
					return ParsedPacket{}, ErrInvalidPacket
				}
				sizes[count-1] = uint16(remaining)
			}
		} else {
			// CBR code-3: one frame size applies to all frames.
			var common int
			if selfDelimited {
				size, consumed := ParseSize(data[cursor:])
				if size < 0 {
					return ParsedPacket{}, ErrInvalidPacket
				}
				cursor += uint(consumed)
				common = size
			} else {
				remaining := len(data) - int(cursor) - padLen
				if remaining < 0 || remaining%count != 0 {
					return ParsedPacket{}, ErrInvalidPacket
				}
				common = remaining / count
			}
			sizes = make([]uint16, count)
			for i := range sizes {
				sizes[i] = uint16(common)
			}
		}
	}

	payloadOffset := cursor
	frames := make([][]byte, len(sizes))
	for i, size := range sizes {
		end := int(cursor) + int(size)
		if end > len(data) {
			return ParsedPacket{}, ErrInvalidPacket
		}
		frames[i] = data[cursor:end]
		cursor = uint(end)
	}
	cursor += uint(padLen)

	if !selfDelimited {
		if len(sizes) > 0 && sizes[len(sizes)-1] > 1275 {
			return ParsedPacket{}, ErrInvalidPacket
		}
		if int(cursor) != len(data) {
			return ParsedPacket{}, ErrInvalidPacket
		}
	}
	if int(cursor) > len(data) {
		return ParsedPacket{}, ErrInvalidPacket
	}

	return ParsedPacket{
		TOC:           toc,
		Frames:        frames,
		Sizes:         sizes,
		PayloadOffset: payloadOffset,
		PacketOffset:  cursor,
	}, nil
}
