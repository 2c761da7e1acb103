package toolcheck

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/stwalsh4118/pie/internal/logger"
)

// HardwareAccel represents a hardware acceleration family for video encoding
type HardwareAccel string

// Hardware acceleration constants
const (
	HardwareAccelNVENC        HardwareAccel = "nvenc"
	HardwareAccelQSV          HardwareAccel = "qsv"
	HardwareAccelVAAPI        HardwareAccel = "vaapi"
	HardwareAccelVideoToolbox HardwareAccel = "videotoolbox"
)

// String returns the string representation of the acceleration family
func (h HardwareAccel) String() string {
	return string(h)
}

// HardwareEncoder is an ffmpeg encoder backed by hardware
type HardwareEncoder struct {
	Name  string        `json:"name"`
	Accel HardwareAccel `json:"accel"`
}

// ErrEncoderDetection indicates ffmpeg could not list its encoders
var ErrEncoderDetection = errors.New("failed to detect ffmpeg encoders")

var knownHardwareEncoders = map[string]HardwareAccel{
	"h264_nvenc":        HardwareAccelNVENC,
	"hevc_nvenc":        HardwareAccelNVENC,
	"h264_qsv":          HardwareAccelQSV,
	"hevc_qsv":          HardwareAccelQSV,
	"h264_vaapi":        HardwareAccelVAAPI,
	"hevc_vaapi":        HardwareAccelVAAPI,
	"h264_videotoolbox": HardwareAccelVideoToolbox,
	"hevc_videotoolbox": HardwareAccelVideoToolbox,
}

// DetectEncoders lists the hardware video encoders compiled into the ffmpeg
// at ffmpegPath. The call is bounded by the validator timeout.
func (v *Validator) DetectEncoders(ctx context.Context, ffmpegPath string) ([]HardwareEncoder, error) {
	if strings.TrimSpace(ffmpegPath) == "" {
		return nil, ErrEmptyPath
	}

	resolved, err := exec.LookPath(ffmpegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotExecutable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, resolved, "-hide_banner", "-encoders")
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Log.Warn().
				Str("path", ffmpegPath).
				Msg("FFmpeg encoder detection timed out")
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrEncoderDetection, err)
	}

	encoders := parseHardwareEncoders(string(output))

	names := make([]string, len(encoders))
	for i, e := range encoders {
		names[i] = e.Name
	}
	logger.Log.Info().
		Str("path", ffmpegPath).
		Strs("encoders", names).
		Msg("Detected hardware encoders")

	return encoders, nil
}

// parseHardwareEncoders extracts hardware encoders from `ffmpeg -encoders`
// output. Lines look like " V....D h264_nvenc   NVIDIA NVENC H.264 encoder".
func parseHardwareEncoders(output string) []HardwareEncoder {
	found := make(map[string]HardwareAccel)

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "V") {
			continue
		}
		if accel, ok := knownHardwareEncoders[fields[1]]; ok {
			found[fields[1]] = accel
		}
	}

	encoders := make([]HardwareEncoder, 0, len(found))
	for name, accel := range found {
		encoders = append(encoders, HardwareEncoder{Name: name, Accel: accel})
	}
	sort.Slice(encoders, func(i, j int) bool {
		return encoders[i].Name < encoders[j].Name
	})
	return encoders
}

// HasAccel reports whether any encoder belongs to the given family
func HasAccel(encoders []HardwareEncoder, accel HardwareAccel) bool {
	for _, e := range encoders {
		if e.Accel == accel {
			return true
		}
	}
	return false
}
