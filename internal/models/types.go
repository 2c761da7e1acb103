package models

// ToolKind identifies one of the external command-line tools
type ToolKind string

// Tool kind constants
const (
	ToolFfmpeg   ToolKind = "ffmpeg"   // video encoder
	ToolMagick   ToolKind = "magick"   // image processing
	ToolExiftool ToolKind = "exiftool" // metadata
)

// ToolKinds lists every supported tool kind in display order
var ToolKinds = []ToolKind{ToolFfmpeg, ToolMagick, ToolExiftool}

// String returns the string representation of the tool kind
func (k ToolKind) String() string {
	return string(k)
}

// IsValid checks if the tool kind is a known value
func (k ToolKind) IsValid() bool {
	switch k {
	case ToolFfmpeg, ToolMagick, ToolExiftool:
		return true
	default:
		return false
	}
}

// SelfCheckArg returns the argument that makes the tool print its
// help or version and exit cleanly
func (k ToolKind) SelfCheckArg() string {
	switch k {
	case ToolFfmpeg:
		return "-h"
	case ToolMagick:
		return "-help"
	case ToolExiftool:
		return "-ver"
	default:
		return ""
	}
}

// Validity is the derived state of a tool path. It is never persisted.
type Validity string

// Validity constants
const (
	ValidityUnknown Validity = "unknown"
	ValidityValid   Validity = "valid"
	ValidityInvalid Validity = "invalid"
)

// String returns the string representation of the validity
func (v Validity) String() string {
	return string(v)
}

// NVENC preset names offered by the presentation layer
const (
	NvencPresetDefault    = "default"
	NvencPresetSlow       = "slow"
	NvencPresetMedium     = "medium"
	NvencPresetFast       = "fast"
	NvencPresetHP         = "hp"
	NvencPresetHQ         = "hq"
	NvencPresetBD         = "bd"
	NvencPresetLL         = "ll"
	NvencPresetLLHQ       = "llhq"
	NvencPresetLLHP       = "llhp"
	NvencPresetLossless   = "lossless"
	NvencPresetLosslessHP = "losslesshp"
)

// NvencPresets is the fixed set of choices for video_nvenc_preset.
// The core stores whatever string it is given.
var NvencPresets = []string{
	NvencPresetDefault, NvencPresetSlow, NvencPresetMedium, NvencPresetFast,
	NvencPresetHP, NvencPresetHQ, NvencPresetBD, NvencPresetLL,
	NvencPresetLLHQ, NvencPresetLLHP, NvencPresetLossless, NvencPresetLosslessHP,
	"p1", "p2", "p3", "p4", "p5", "p6", "p7",
}
