package opuscore

import "testing"

func TestEncodeParseSizeRoundTrip(t *testing.T) {
	for n := 0; n <= 1275; n++ {
		buf := make([]byte, 2)
		written := EncodeSize(n, buf)
		if written != 1 && written != 2 {
			t.Fatalf("EncodeSize(%d) wrote %d bytes, want 1 or 2", n, written)
		}
		got, consumed := ParseSize(buf[:written])
		if got != n || consumed != written {
			t.Fatalf("ParseSize(EncodeSize(%d)) = (%d,%d), want (%d,%d)", n, got, consumed, n, written)
		}
	}
}

func TestEncodeSizeScenario2(t *testing.T) {
	buf := make([]byte, 2)
	if n := EncodeSize(100, buf); n != 1 || buf[0] != 100 {
		t.Errorf("EncodeSize(100) = %d bytes %v, want 1 byte [100]", n, buf[:n])
	}
	if n := EncodeSize(1000, buf); n != 2 || buf[0] != 252 || buf[1] != 187 {
		t.Errorf("EncodeSize(1000) = %d bytes %v, want [252 187]", n, buf[:n])
	}
}

func TestParsePacketScenario3(t *testing.T) {
	data := []byte{0x04, 0xDE, 0xAD}
	p, err := ParsePacket(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Frames) != 1 || len(p.Frames[0]) != 2 {
		t.Fatalf("expected one 2-byte frame, got %v", p.Sizes)
	}
	if p.Frames[0][0] != 0xDE || p.Frames[0][1] != 0xAD {
		t.Errorf("frame payload mismatch: %v", p.Frames[0])
	}
	if p.PayloadOffset != 1 {
		t.Errorf("PayloadOffset = %d, want 1", p.PayloadOffset)
	}
	toc := ParseTOC(p.TOC)
	if !toc.Stereo || toc.FrameCode != 0 {
		t.Errorf("expected stereo + code 0 TOC, got %+v", toc)
	}
}

func TestParsePacketScenario4(t *testing.T) {
	data := []byte{0x05, 0xAA, 0xBB, 0xCC, 0xDD}
	p, err := ParsePacket(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Frames) != 2 || len(p.Frames[0]) != 2 || len(p.Frames[1]) != 2 {
		t.Fatalf("expected two 2-byte frames, got sizes %v", p.Sizes)
	}
}

func TestParsePacketScenario5(t *testing.T) {
	data := []byte{0x05, 0xAA, 0xBB, 0xCC}
	_, err := ParsePacket(data, false)
	if err != ErrInvalidPacket {
		t.Errorf("expected ErrInvalidPacket for odd CBR2 remainder, got %v", err)
	}
}

func TestParsePacketCode2VBR(t *testing.T) {
	// code 2: size0=2 (one byte prefix), then 2 remaining bytes for frame 1.
	data := []byte{0x02, 0x02, 0xAA, 0xBB, 0xCC, 0xDD}
	p, err := ParsePacket(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(p.Frames))
	}
	if len(p.Frames[0]) != 2 || len(p.Frames[1]) != 2 {
		t.Errorf("unexpected frame sizes: %v", p.Sizes)
	}
}

func TestParsePacketTooShort(t *testing.T) {
	if _, err := ParsePacket(nil, false); err != ErrInvalidPacket {
		t.Errorf("expected ErrInvalidPacket for empty packet, got %v", err)
	}
}

func TestParsePacketCode3Basic(t *testing.T) {
	// code 3, aux byte: count=2, no padding, VBR flag bit7 clear => VBR.
	// TOC 0x83 = CELT-only (bit7 set... wait need code bits 0-1 = 3).
	toc := byte(0x83) // CELT-only, mono, code 3
	aux := byte(0x02) // count=2, no padding, bit7=0 (VBR)
	data := []byte{toc, aux, 0x02, 0xAA, 0xBB, 0xCC, 0xDD} // size0=2, frame0=2 bytes, frame1=2 bytes (remainder)
	p, err := ParsePacket(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(p.Frames))
	}
}

func TestNumFramesCode0(t *testing.T) {
	n, err := NumFrames([]byte{0x00})
	if err != nil || n != 1 {
		t.Errorf("NumFrames(code0) = %d, %v; want 1, nil", n, err)
	}
}

func TestNumFramesCode3(t *testing.T) {
	n, err := NumFrames([]byte{0x83, 0x05})
	if err != nil || n != 5 {
		t.Errorf("NumFrames(code3, count=5) = %d, %v; want 5, nil", n, err)
	}
}

func TestNumSamplesScenario6(t *testing.T) {
	n, err := NumSamples([]byte{0x08, 0x00}, 48000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 240 {
		t.Errorf("NumSamples = %d, want 240", n)
	}
}

func TestNumSamplesRejectsOverLongPacket(t *testing.T) {
	// SILK-only, raw period field 3 (960 samples/frame at 48kHz), code 3
	// with count=8: 7680 samples total, well over the 120ms (5760) bound.
	toc := byte(0x1B)
	aux := byte(0x08)
	_, err := NumSamples([]byte{toc, aux}, 48000)
	if err != ErrInvalidPacket {
		t.Errorf("expected ErrInvalidPacket for >120ms packet, got %v", err)
	}
}
