package models

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// FieldKind describes the value type of a settings field
type FieldKind int

// Field kinds
const (
	FieldString FieldKind = iota
	FieldBool
	FieldInt
)

// String returns the string representation of the field kind
func (k FieldKind) String() string {
	switch k {
	case FieldString:
		return "string"
	case FieldBool:
		return "bool"
	case FieldInt:
		return "int"
	default:
		return "unknown"
	}
}

var (
	errNilValue         = errors.New("value is null")
	errNegativeValue    = errors.New("value must be non-negative")
	errFractionalNumber = errors.New("value must be a whole number")
	errOutOfRange       = errors.New("value is out of range")
	errNotDecimal       = errors.New("value must be a decimal integer")
)

// Field describes one scalar setting that can be changed through the
// generic set-by-name surface. Tool paths and dirs_to_exclude are not
// fields; they have dedicated operations.
type Field struct {
	Name string
	Kind FieldKind

	str  func(*Settings) *string
	flag func(*Settings) *bool
	num  func(*Settings) *int
}

func stringField(name string, ref func(*Settings) *string) Field {
	return Field{Name: name, Kind: FieldString, str: ref}
}

func boolField(name string, ref func(*Settings) *bool) Field {
	return Field{Name: name, Kind: FieldBool, flag: ref}
}

func intField(name string, ref func(*Settings) *int) Field {
	return Field{Name: name, Kind: FieldInt, num: ref}
}

var fieldRegistry = map[string]Field{}

func init() {
	for _, f := range []Field{
		stringField("monitored_dir", func(s *Settings) *string { return &s.MonitoredDir }),
		stringField("output_dir", func(s *Settings) *string { return &s.OutputDir }),
		stringField("unknown_output_dir", func(s *Settings) *string { return &s.UnknownOutputDir }),

		boolField("skip_same_name_video", func(s *Settings) *bool { return &s.SkipSameNameVideo }),
		boolField("skip_same_name_raw", func(s *Settings) *bool { return &s.SkipSameNameRaw }),
		boolField("convert_unknown", func(s *Settings) *bool { return &s.ConvertUnknown }),
		boolField("overwrite_output_files", func(s *Settings) *bool { return &s.OverwriteOutputFiles }),
		boolField("auto_update_check", func(s *Settings) *bool { return &s.AutoUpdateCheck }),
		boolField("auto_show_log_window", func(s *Settings) *bool { return &s.AutoShowLogWindow }),

		intField("image_compression_quality", func(s *Settings) *int { return &s.ImageCompressionQuality }),
		intField("image_max_dimension", func(s *Settings) *int { return &s.ImageMaxDimension }),
		intField("video_max_dimension", func(s *Settings) *int { return &s.VideoMaxDimension }),
		intField("video_crf", func(s *Settings) *int { return &s.VideoCrf }),
		stringField("video_nvenc_preset", func(s *Settings) *string { return &s.VideoNvencPreset }),
		intField("video_audio_bitrate", func(s *Settings) *int { return &s.VideoAudioBitrate }),
		intField("indexing_workers", func(s *Settings) *int { return &s.IndexingWorkers }),
		intField("conversion_workers", func(s *Settings) *int { return &s.ConversionWorkers }),
		intField("gpu_workers", func(s *Settings) *int { return &s.GpuWorkers }),
		intField("gpu_count", func(s *Settings) *int { return &s.GpuCount }),

		stringField("image_extensions", func(s *Settings) *string { return &s.ImageExtensions }),
		stringField("image_raw_extensions", func(s *Settings) *string { return &s.ImageRawExtensions }),
		stringField("video_extensions", func(s *Settings) *string { return &s.VideoExtensions }),
		stringField("video_raw_extensions", func(s *Settings) *string { return &s.VideoRawExtensions }),
	} {
		fieldRegistry[f.Name] = f
	}
}

// LookupField returns the field registered under name
func LookupField(name string) (Field, bool) {
	f, ok := fieldRegistry[name]
	return f, ok
}

// FieldNames returns the names of all settable fields, sorted
func FieldNames() []string {
	names := make([]string, 0, len(fieldRegistry))
	for name := range fieldRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Coerce converts value to the field's Go type.
// Integers must be whole and non-negative; no clamping is applied.
func (f Field) Coerce(value any) (any, error) {
	if value == nil {
		return nil, errNilValue
	}

	switch f.Kind {
	case FieldString:
		return cast.ToStringE(value)
	case FieldBool:
		return cast.ToBoolE(value)
	case FieldInt:
		// Strings are read as base 10 only; cast would accept 010 as octal and 0x1F as hex
		switch v := value.(type) {
		case string:
			parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 0)
			if err != nil {
				if errors.Is(err, strconv.ErrRange) {
					return nil, errOutOfRange
				}
				return nil, fmt.Errorf("%w: %q", errNotDecimal, v)
			}
			value = parsed
		case float64:
			if err := checkWholeFloat(v); err != nil {
				return nil, err
			}
		case float32:
			if err := checkWholeFloat(float64(v)); err != nil {
				return nil, err
			}
		case uint:
			if uint64(v) > math.MaxInt {
				return nil, errOutOfRange
			}
		case uint64:
			if v > math.MaxInt {
				return nil, errOutOfRange
			}
		}
		n, err := cast.ToIntE(value)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, errNegativeValue
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %s", f.Kind)
	}
}

func checkWholeFloat(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return errFractionalNumber
	}
	if v >= math.MaxInt || v < math.MinInt {
		return errOutOfRange
	}
	return nil
}

// Set coerces value and assigns it on s
func (f Field) Set(s *Settings, value any) error {
	coerced, err := f.Coerce(value)
	if err != nil {
		return err
	}

	switch f.Kind {
	case FieldString:
		*f.str(s) = coerced.(string)
	case FieldBool:
		*f.flag(s) = coerced.(bool)
	case FieldInt:
		*f.num(s) = coerced.(int)
	}
	return nil
}

// Get returns the current value of the field on s
func (f Field) Get(s *Settings) any {
	switch f.Kind {
	case FieldString:
		return *f.str(s)
	case FieldBool:
		return *f.flag(s)
	case FieldInt:
		return *f.num(s)
	default:
		return nil
	}
}
