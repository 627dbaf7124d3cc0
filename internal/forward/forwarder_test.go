package forward

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func encodeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewYCbCr(image.Rect(0, 0, width, height), image.YCbCrSubsampleRatio420)
	for i := range img.Y {
		img.Y[i] = byte(i)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return buf.Bytes()
}

func TestJPEGPayloaderFragments(t *testing.T) {
	data := encodeTestJPEG(t, 64, 48)
	p := &JPEGPayloader{}

	const mtu = 200
	payloads := p.Payload(mtu, data)
	if len(payloads) < 2 {
		t.Fatalf("expected multiple fragments at mtu %d, got %d", mtu, len(payloads))
	}

	for i, pl := range payloads {
		if len(pl) > mtu {
			t.Errorf("fragment %d is %d bytes, exceeds mtu %d", i, len(pl), mtu)
		}
		if len(pl) < jpegHeaderSize {
			t.Fatalf("fragment %d shorter than main header", i)
		}
	}

	first := payloads[0]
	if offset := int(first[1])<<16 | int(first[2])<<8 | int(first[3]); offset != 0 {
		t.Errorf("first fragment offset = %d, want 0", offset)
	}
	if first[4] != 1 {
		t.Errorf("type = %d, want 1 (4:2:0)", first[4])
	}
	if first[5] != jpegDynamicQ {
		t.Errorf("Q = %d, want %d", first[5], jpegDynamicQ)
	}
	if got := int(first[6]) * 8; got != 64 {
		t.Errorf("width = %d, want 64", got)
	}
	if got := int(first[7]) * 8; got != 48 {
		t.Errorf("height = %d, want 48", got)
	}

	// First fragment carries the quantization header with two 64-byte tables.
	quantLen := binary.BigEndian.Uint16(first[jpegHeaderSize+2:])
	if quantLen != 128 {
		t.Errorf("quantization data length = %d, want 128", quantLen)
	}

	// Later fragments carry no quantization header and contiguous offsets.
	wantOffset := len(first) - jpegHeaderSize - jpegQuantHeaderSize - int(quantLen)
	for i, pl := range payloads[1:] {
		offset := int(pl[1])<<16 | int(pl[2])<<8 | int(pl[3])
		if offset != wantOffset {
			t.Errorf("fragment %d offset = %d, want %d", i+1, offset, wantOffset)
		}
		wantOffset += len(pl) - jpegHeaderSize
	}
}

func TestJPEGPayloaderReassembles(t *testing.T) {
	data := encodeTestJPEG(t, 32, 32)
	img, err := parseJPEG(data)
	if err != nil {
		t.Fatalf("parseJPEG: %v", err)
	}

	p := &JPEGPayloader{}
	var scan []byte
	for i, pl := range p.Payload(150, data) {
		body := pl[jpegHeaderSize:]
		if i == 0 {
			quantLen := binary.BigEndian.Uint16(body[2:])
			body = body[jpegQuantHeaderSize+int(quantLen):]
		}
		scan = append(scan, body...)
	}

	if !bytes.Equal(scan, img.scan) {
		t.Errorf("reassembled scan differs: got %d bytes, want %d", len(scan), len(img.scan))
	}
}

func TestParseJPEGRejectsGarbage(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not jpeg", []byte{0x00, 0x01, 0x02, 0x03}},
		{"truncated", encodeTestJPEG(t, 16, 16)[:20]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseJPEG(tc.data); err == nil {
				t.Error("expected parse error, got nil")
			}
		})
	}
}

func TestParseJPEGExtractsGeometry(t *testing.T) {
	img, err := parseJPEG(encodeTestJPEG(t, 160, 120))
	if err != nil {
		t.Fatalf("parseJPEG: %v", err)
	}
	if img.width != 160 || img.height != 120 {
		t.Errorf("geometry = %dx%d, want 160x120", img.width, img.height)
	}
	if len(img.quantLuma) != 64 {
		t.Errorf("luma table length = %d, want 64", len(img.quantLuma))
	}
	if len(img.quantChrom) != 64 {
		t.Errorf("chroma table length = %d, want 64", len(img.quantChrom))
	}
}

func TestNewForwarderValidation(t *testing.T) {
	cases := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{Device: "0", Target: "127.0.0.1:5004", PayloadType: 96}, false},
		{"missing target", Config{Device: "0", PayloadType: 96}, true},
		{"payload type too low", Config{Device: "0", Target: "127.0.0.1:5004", PayloadType: 33}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewForwarder(tc.config, nil, discardLogger())
			if (err != nil) != tc.wantErr {
				t.Errorf("NewForwarder() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewForwarderDefaults(t *testing.T) {
	f, err := NewForwarder(Config{Device: "0", Target: "127.0.0.1:5004", PayloadType: 96}, nil, discardLogger())
	if err != nil {
		t.Fatalf("NewForwarder: %v", err)
	}
	if f.config.MTU != defaultMTU {
		t.Errorf("MTU = %d, want %d", f.config.MTU, defaultMTU)
	}
	if f.config.FPS != defaultFPS {
		t.Errorf("FPS = %d, want %d", f.config.FPS, defaultFPS)
	}
}
