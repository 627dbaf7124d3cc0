package capture

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

func TestYUYVToImage(t *testing.T) {
	// 2x2 frame: each pixel pair packed as Y0 Cb Y1 Cr
	data := []byte{
		16, 128, 32, 130, // row 0
		48, 132, 64, 134, // row 1
	}

	img, err := yuyvToImage(data, 2, 2, 4)
	if err != nil {
		t.Fatalf("yuyvToImage: %v", err)
	}

	if img.SubsampleRatio != image.YCbCrSubsampleRatio422 {
		t.Errorf("subsample ratio = %v, want 4:2:2", img.SubsampleRatio)
	}

	wantY := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 16}, {1, 0, 32},
		{0, 1, 48}, {1, 1, 64},
	}
	for _, w := range wantY {
		if got := img.Y[img.YOffset(w.x, w.y)]; got != w.want {
			t.Errorf("Y(%d,%d) = %d, want %d", w.x, w.y, got, w.want)
		}
	}

	if got := img.Cb[img.COffset(0, 0)]; got != 128 {
		t.Errorf("Cb(0,0) = %d, want 128", got)
	}
	if got := img.Cr[img.COffset(0, 0)]; got != 130 {
		t.Errorf("Cr(0,0) = %d, want 130", got)
	}
	if got := img.Cb[img.COffset(0, 1)]; got != 132 {
		t.Errorf("Cb(0,1) = %d, want 132", got)
	}
	if got := img.Cr[img.COffset(0, 1)]; got != 134 {
		t.Errorf("Cr(0,1) = %d, want 134", got)
	}
}

func TestYUYVToImagePaddedStride(t *testing.T) {
	// 2x2 frame with 2 bytes of row padding
	data := []byte{
		16, 128, 32, 130, 0, 0,
		48, 132, 64, 134, 0, 0,
	}

	img, err := yuyvToImage(data, 2, 2, 6)
	if err != nil {
		t.Fatalf("yuyvToImage: %v", err)
	}

	if got := img.Y[img.YOffset(0, 1)]; got != 48 {
		t.Errorf("Y(0,1) = %d, want 48", got)
	}
}

func TestYUYVToImageShortBuffer(t *testing.T) {
	if _, err := yuyvToImage(make([]byte, 7), 2, 2, 4); err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestYUYVToImageOddWidth(t *testing.T) {
	if _, err := yuyvToImage(make([]byte, 100), 3, 2, 6); err == nil {
		t.Error("expected error for odd width")
	}
}

func TestYUYVEncodesToJPEG(t *testing.T) {
	width, height := 16, 8
	data := make([]byte, width*2*height)
	for i := range data {
		data[i] = byte(i)
	}

	img, err := yuyvToImage(data, width, height, width*2)
	if err != nil {
		t.Fatalf("yuyvToImage: %v", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("jpeg.DecodeConfig: %v", err)
	}
	if cfg.Width != width || cfg.Height != height {
		t.Errorf("decoded size = %dx%d, want %dx%d", cfg.Width, cfg.Height, width, height)
	}
}
