package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"
)

// testImage builds a width×height gradient and encodes it in the given format.
func testImage(t *testing.T, width, height int, format string) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	default:
		t.Fatalf("unsupported test format %q", format)
	}
	if err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeDownsamples(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		maxWidth   int
		wantWidth  int
		wantHeight int
		wantResize bool
	}{
		{
			name:  "wider than ceiling is scaled down",
			width: 2800, height: 1400, maxWidth: 1400,
			wantWidth: 1400, wantHeight: 700, wantResize: true,
		},
		{
			name:  "height rounds to nearest pixel",
			width: 3000, height: 1000, maxWidth: 1400,
			wantWidth: 1400, wantHeight: 467, wantResize: true,
		},
		{
			name:  "at the ceiling is untouched",
			width: 1400, height: 900, maxWidth: 1400,
			wantWidth: 1400, wantHeight: 900, wantResize: false,
		},
		{
			name:  "smaller than ceiling is never upscaled",
			width: 640, height: 480, maxWidth: 1400,
			wantWidth: 640, wantHeight: 480, wantResize: false,
		},
		{
			name:  "portrait orientation preserved",
			width: 1600, height: 2400, maxWidth: 800,
			wantWidth: 800, wantHeight: 1200, wantResize: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testImage(t, tt.width, tt.height, "png")

			res, err := Encode(bytes.NewReader(src), Options{MaxWidth: tt.maxWidth})
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			if !res.Payload.Valid() {
				t.Error("Encode() produced an invalid payload")
			}
			if res.Source.Resized != tt.wantResize {
				t.Errorf("Source.Resized = %v, want %v", res.Source.Resized, tt.wantResize)
			}
			if res.Source.FinalWidth != tt.wantWidth || res.Source.FinalHeight != tt.wantHeight {
				t.Errorf("final dimensions = %dx%d, want %dx%d",
					res.Source.FinalWidth, res.Source.FinalHeight, tt.wantWidth, tt.wantHeight)
			}

			// The payload must agree with what the codec reported.
			img, err := Decode(res.Payload)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			b := img.Bounds()
			if b.Dx() != tt.wantWidth || b.Dy() != tt.wantHeight {
				t.Errorf("decoded payload = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantWidth, tt.wantHeight)
			}
			if b.Dx() > tt.maxWidth {
				t.Errorf("decoded width %d exceeds maxWidth %d", b.Dx(), tt.maxWidth)
			}
		})
	}
}

func TestEncodeAcceptsJPEGSource(t *testing.T) {
	src := testImage(t, 2000, 1000, "jpeg")

	res, err := Encode(bytes.NewReader(src), Options{MaxWidth: 500})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if res.Source.FinalWidth != 500 || res.Source.FinalHeight != 250 {
		t.Errorf("final dimensions = %dx%d, want 500x250", res.Source.FinalWidth, res.Source.FinalHeight)
	}
}

func TestEncodeDefaults(t *testing.T) {
	src := testImage(t, 100, 100, "png")

	res, err := Encode(bytes.NewReader(src), Options{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if res.Source.Resized {
		t.Error("100px source should not be resized under the default ceiling")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestEncodeFailureModes(t *testing.T) {
	tests := []struct {
		name    string
		src     io.Reader
		wantErr error
	}{
		{
			name:    "unreadable source",
			src:     failingReader{},
			wantErr: ErrUnreadableSource,
		},
		{
			name:    "undecodable content",
			src:     bytes.NewReader([]byte("definitely not an image")),
			wantErr: ErrUndecodable,
		},
		{
			name:    "empty source",
			src:     bytes.NewReader(nil),
			wantErr: ErrUndecodable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Encode(tt.src, Options{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Encode() error = %v, want %v", err, tt.wantErr)
			}
			if res.Payload != "" {
				t.Error("failed encode must not return a partial payload")
			}
		})
	}
}

func TestDecodeRejectsForeignStrings(t *testing.T) {
	for _, p := range []Payload{"", "http://example.com/a.jpg", "data:image/png;base64,AAAA"} {
		if _, err := Decode(p); err == nil {
			t.Errorf("Decode(%q) expected error", p)
		}
	}
}
