package ffmpeg_test

import (
	"testing"

	"reframe/internal/ffmpeg"
)

func TestCompressionFromQualityEndpoints(t *testing.T) {
	for _, scale := range []int{ffmpeg.ScaleQScale, ffmpeg.ScaleCRF, ffmpeg.ScaleVP9CRF} {
		if got := ffmpeg.CompressionFromQuality(100, scale); got != 0 {
			t.Errorf("CompressionFromQuality(100, %d) = %d, want 0", scale, got)
		}
		if got := ffmpeg.CompressionFromQuality(0, scale); got != scale {
			t.Errorf("CompressionFromQuality(0, %d) = %d, want %d", scale, got, scale)
		}
	}
}

func TestCompressionFromQualityIsMonotonic(t *testing.T) {
	for _, scale := range []int{ffmpeg.ScaleQScale, ffmpeg.ScaleCRF, ffmpeg.ScaleVP9CRF} {
		previous := ffmpeg.CompressionFromQuality(0, scale)
		for quality := 1; quality <= 100; quality++ {
			current := ffmpeg.CompressionFromQuality(quality, scale)
			if current > previous {
				t.Fatalf("scale %d: quality %d gave %d, greater than %d at quality %d", scale, quality, current, previous, quality-1)
			}
			previous = current
		}
	}
}

func TestCompressionFromQualityValues(t *testing.T) {
	tests := []struct {
		quality int
		scale   int
		want    int
	}{
		{80, ffmpeg.ScaleCRF, 10},    // 51 - 40.8
		{80, ffmpeg.ScaleQScale, 6},  // 31 - 24.8
		{80, ffmpeg.ScaleVP9CRF, 13}, // 63 - 50.4
		{50, ffmpeg.ScaleQScale, 16}, // 15.5 rounds away from zero
		{90, ffmpeg.ScaleQScale, 3},  // 3.1
		{50, ffmpeg.ScaleCRF, 26},    // 25.5 rounds away from zero
	}
	for _, tt := range tests {
		if got := ffmpeg.CompressionFromQuality(tt.quality, tt.scale); got != tt.want {
			t.Errorf("CompressionFromQuality(%d, %d) = %d, want %d", tt.quality, tt.scale, got, tt.want)
		}
	}
}
