package ffmpeg

import "math"

// Compression scales used by the supported encoders.
const (
	ScaleQScale = 31 // -q:v for frame and image extraction
	ScaleCRF    = 51 // x264/x265 CRF and NVENC -cq
	ScaleVP9CRF = 63 // libvpx-vp9 CRF
)

// CompressionFromQuality maps a 0-100 quality onto an encoder compression
// scale where 0 is best. Quality 100 yields 0 and quality 0 yields scaleMax.
// Halves round away from zero.
func CompressionFromQuality(quality int, scaleMax int) int {
	scale := float64(scaleMax)
	return int(math.Round(scale - float64(quality)*scale/100))
}
