package imaging

import (
	"bytes"
	"strings"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// probeSource extracts camera make/model and a GPS-presence flag from the
// source bytes before re-encoding discards them. Strictly best-effort: many
// web images carry no EXIF at all, and a probe failure never fails the
// encode.
func probeSource(data []byte) SourceInfo {
	var info SourceInfo

	exif, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Msg("No EXIF metadata in source image")
		return info
	}

	info.CameraMake = strings.TrimSpace(exif.Make)
	info.CameraModel = strings.TrimSpace(exif.Model)

	gps := exif.GPS
	if gps.Latitude() != 0 || gps.Longitude() != 0 {
		info.HadGPS = true
	}

	return info
}
