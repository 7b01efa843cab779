package ffmpeg

import (
	"fmt"
	"strings"
)

// VideoEncoder names an ffmpeg video encoder reframe knows how to tune.
type VideoEncoder string

const (
	EncoderLibx264   VideoEncoder = "libx264"
	EncoderLibx265   VideoEncoder = "libx265"
	EncoderLibvpxVP9 VideoEncoder = "libvpx-vp9"
	EncoderH264NVENC VideoEncoder = "h264_nvenc"
	EncoderHEVCNVENC VideoEncoder = "hevc_nvenc"
)

const defaultVideoCodec = EncoderLibx264

// VideoEncoders lists every supported encoder in display order.
var VideoEncoders = []VideoEncoder{
	EncoderLibx264,
	EncoderLibx265,
	EncoderLibvpxVP9,
	EncoderH264NVENC,
	EncoderHEVCNVENC,
}

// EncoderFamily groups encoders that share a quality and preset scheme.
type EncoderFamily int

const (
	FamilyUnknown EncoderFamily = iota
	// FamilyX26x covers libx264 and libx265: CRF on a 0-51 scale plus a named preset.
	FamilyX26x
	// FamilyVP9 covers libvpx-vp9: CRF on a 0-63 scale, no preset.
	FamilyVP9
	// FamilyNVENC covers the NVIDIA encoders: constrained quality on 0-51 plus p1..p7 presets.
	FamilyNVENC
)

func (f EncoderFamily) String() string {
	switch f {
	case FamilyX26x:
		return "x26x"
	case FamilyVP9:
		return "vp9"
	case FamilyNVENC:
		return "nvenc"
	default:
		return "unknown"
	}
}

// Family reports the encoder family. Unknown encoders map to FamilyUnknown.
func (e VideoEncoder) Family() EncoderFamily {
	switch e {
	case EncoderLibx264, EncoderLibx265:
		return FamilyX26x
	case EncoderLibvpxVP9:
		return FamilyVP9
	case EncoderH264NVENC, EncoderHEVCNVENC:
		return FamilyNVENC
	default:
		return FamilyUnknown
	}
}

// ParseVideoEncoder validates a configured encoder name.
func ParseVideoEncoder(value string) (VideoEncoder, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return defaultVideoCodec, nil
	}
	encoder := VideoEncoder(trimmed)
	if encoder.Family() == FamilyUnknown {
		return "", fmt.Errorf("unsupported video encoder %q", value)
	}
	return encoder, nil
}

// Preset is a software encoder speed preset.
type Preset string

const (
	PresetUltrafast Preset = "ultrafast"
	PresetSuperfast Preset = "superfast"
	PresetVeryfast  Preset = "veryfast"
	PresetFaster    Preset = "faster"
	PresetFast      Preset = "fast"
	PresetMedium    Preset = "medium"
	PresetSlow      Preset = "slow"
	PresetSlower    Preset = "slower"
	PresetVeryslow  Preset = "veryslow"
)

// Presets lists the presets from fastest to slowest.
var Presets = []Preset{
	PresetUltrafast,
	PresetSuperfast,
	PresetVeryfast,
	PresetFaster,
	PresetFast,
	PresetMedium,
	PresetSlow,
	PresetSlower,
	PresetVeryslow,
}

var nvencPresets = map[Preset]string{
	PresetUltrafast: "p1",
	PresetSuperfast: "p1",
	PresetVeryfast:  "p1",
	PresetFaster:    "p2",
	PresetFast:      "p3",
	PresetMedium:    "p4",
	PresetSlow:      "p5",
	PresetSlower:    "p6",
	PresetVeryslow:  "p7",
}

// ParsePreset validates a configured preset name.
func ParsePreset(value string) (Preset, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return PresetVeryfast, nil
	}
	preset := Preset(trimmed)
	if _, ok := nvencPresets[preset]; !ok {
		return "", fmt.Errorf("unsupported video preset %q", value)
	}
	return preset, nil
}

// PresetToken maps preset to the token the encoder expects. Software
// encoders take the name verbatim; NVENC uses p1..p7. The boolean is false
// when no mapping exists and the -preset flag should be left out.
func PresetToken(preset Preset, forNVENC bool) (string, bool) {
	if !forNVENC {
		return string(preset), true
	}
	token, ok := nvencPresets[preset]
	return token, ok
}
