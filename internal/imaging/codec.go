// Package imaging is the client-side image codec for the ad composer. It
// decodes a user-supplied raster image, downsamples it to a maximum width
// while preserving aspect ratio, and re-encodes it as a compact JPEG data
// URL ready to travel inside an ad-creation request.
//
// Encode is a pure function over one file: the offscreen raster surface it
// renders into is scoped to the call and released when it returns. Decoders
// for the three accepted input formats (JPEG, PNG, WEBP) are registered via
// blank imports.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math"
	"strings"

	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

const (
	// DefaultMaxWidth is the downsampling ceiling applied before re-encoding.
	DefaultMaxWidth = 1400
	// DefaultQuality is the JPEG quality used for re-encoding (1-100).
	DefaultQuality = 85
)

// Codec failure modes. No partial payload is ever returned alongside one of
// these.
var (
	// ErrUnreadableSource means the source data could not be read at all.
	ErrUnreadableSource = errors.New("imaging: failed to read source data")
	// ErrUndecodable means the bytes were read but are not a decodable image.
	ErrUndecodable = errors.New("imaging: failed to decode image")
	// ErrEncodeFailed means the rendered surface could not be re-encoded.
	ErrEncodeFailed = errors.New("imaging: failed to encode image")
)

// Payload is a self-contained encoded image: a data:image/jpeg;base64,…
// string carrying its own bytes rather than referencing a file. Once a
// payload is appended to an ad's image list the list owns it outright.
type Payload string

const payloadPrefix = "data:image/jpeg;base64,"

// Options controls the downsampling and re-encoding.
type Options struct {
	// MaxWidth is the maximum output width in pixels. Zero means DefaultMaxWidth.
	MaxWidth int
	// Quality is the JPEG quality (1-100). Zero means DefaultQuality.
	Quality int
}

// Result is the output of a successful encode.
type Result struct {
	Payload Payload
	Source  SourceInfo
}

// SourceInfo describes the decoded source and what the codec did to it.
// Camera fields come from a best-effort EXIF probe; re-encoding always
// strips that metadata from the payload, which is the point — location
// data in a classifieds photo should never reach the server.
type SourceInfo struct {
	Width       int
	Height      int
	FinalWidth  int
	FinalHeight int
	Resized     bool

	CameraMake  string
	CameraModel string
	HadGPS      bool
}

// Encode reads one raster image from r, downsamples it to opts.MaxWidth if
// it is wider, and re-encodes it as a JPEG payload at opts.Quality. Images
// at or under the ceiling keep their dimensions — there is no upscaling.
func Encode(r io.Reader, opts Options) (Result, error) {
	maxWidth := opts.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	quality := opts.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnreadableSource, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	info := probeSource(data)

	bounds := img.Bounds()
	info.Width = bounds.Dx()
	info.Height = bounds.Dy()
	info.FinalWidth = info.Width
	info.FinalHeight = info.Height

	// Downscale only when the source exceeds the ceiling, preserving aspect
	// ratio: newHeight = round(height * maxWidth / width).
	out := img
	if info.Width > maxWidth {
		newWidth := maxWidth
		newHeight := int(math.Round(float64(info.Height) * float64(maxWidth) / float64(info.Width)))
		if newHeight < 1 {
			newHeight = 1
		}

		surface := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(surface, surface.Bounds(), img, bounds, draw.Over, nil)
		out = surface

		info.FinalWidth = newWidth
		info.FinalHeight = newHeight
		info.Resized = true
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	log.Debug().
		Str("format", format).
		Int("origWidth", info.Width).
		Int("origHeight", info.Height).
		Int("finalWidth", info.FinalWidth).
		Int("finalHeight", info.FinalHeight).
		Bool("resized", info.Resized).
		Bool("hadGPS", info.HadGPS).
		Int("inputSize", len(data)).
		Int("outputSize", buf.Len()).
		Msg("Image encoded")

	payload := Payload(payloadPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()))
	return Result{Payload: payload, Source: info}, nil
}

// Decode turns a payload back into pixels. Used by hosts that render
// previews, and by tests asserting the codec's dimension guarantees.
func Decode(p Payload) (image.Image, error) {
	s, ok := strings.CutPrefix(string(p), payloadPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: not a JPEG data URL", ErrUndecodable)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return img, nil
}

// Valid reports whether p looks like a payload produced by Encode.
func (p Payload) Valid() bool {
	return strings.HasPrefix(string(p), payloadPrefix) && len(p) > len(payloadPrefix)
}
