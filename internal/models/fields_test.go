package models

import (
	"errors"
	"math"
	"testing"
)

func TestLookupField(t *testing.T) {
	tests := []struct {
		name   string
		wantOK bool
		kind   FieldKind
	}{
		{"monitored_dir", true, FieldString},
		{"skip_same_name_raw", true, FieldBool},
		{"image_compression_quality", true, FieldInt},
		{"video_nvenc_preset", true, FieldString},
		{"video_raw_extensions", true, FieldString},
		{"path_ffmpeg", false, 0},
		{"dirs_to_exclude", false, 0},
		{"id", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := LookupField(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("LookupField(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if ok && f.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", f.Kind, tt.kind)
			}
		})
	}
}

func TestFieldNames(t *testing.T) {
	names := FieldNames()
	if len(names) != 23 {
		t.Errorf("len(FieldNames()) = %d, want 23", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("FieldNames() not sorted at %d: %s >= %s", i, names[i-1], names[i])
		}
	}
}

func TestField_Set(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		want    any
		wantErr bool
	}{
		{"int from int", "video_crf", 23, 23, false},
		{"int from json number", "image_compression_quality", float64(85), 85, false},
		{"int from string", "gpu_count", "2", 2, false},
		{"int from string with leading zero", "image_compression_quality", "010", 10, false},
		{"int from padded string", "video_crf", " 42 ", 42, false},
		{"int from hex string", "video_crf", "0x1F", nil, true},
		{"int from exponent string", "video_crf", "1e3", nil, true},
		{"int from json number too large", "image_max_dimension", float64(1e19), nil, true},
		{"int from string too large", "image_max_dimension", "99999999999999999999", nil, true},
		{"int zero", "gpu_workers", 0, 0, false},
		{"int negative", "indexing_workers", -1, nil, true},
		{"int fractional", "video_crf", 22.5, nil, true},
		{"int garbage", "video_crf", "fast", nil, true},
		{"int null", "video_crf", nil, nil, true},
		{"bool from bool", "convert_unknown", true, true, false},
		{"bool from string", "auto_update_check", "false", false, false},
		{"bool garbage", "auto_update_check", "maybe", nil, true},
		{"string", "output_dir", "/srv/out", "/srv/out", false},
		{"string empty", "monitored_dir", "", "", false},
		{"string from number", "video_nvenc_preset", 7, "7", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := LookupField(tt.field)
			if !ok {
				t.Fatalf("field %s not registered", tt.field)
			}

			s := DefaultSettings()
			before := f.Get(s)

			err := f.Set(s, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if got := f.Get(s); got != before {
					t.Errorf("value changed on error: %v -> %v", before, got)
				}
				return
			}
			if got := f.Get(s); got != tt.want {
				t.Errorf("Get() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestField_CoerceRangeErrors(t *testing.T) {
	f, _ := LookupField("video_max_dimension")

	for _, value := range []any{float64(1e19), "99999999999999999999", uint64(math.MaxUint64)} {
		_, err := f.Coerce(value)
		if !errors.Is(err, errOutOfRange) {
			t.Errorf("Coerce(%v) error = %v, want %v", value, err, errOutOfRange)
		}
	}

	_, err := f.Coerce("0x10")
	if !errors.Is(err, errNotDecimal) {
		t.Errorf("Coerce(0x10) error = %v, want %v", err, errNotDecimal)
	}
}

func TestField_SetTargetsOwnColumn(t *testing.T) {
	s := DefaultSettings()
	f, _ := LookupField("video_max_dimension")
	if err := f.Set(s, 3840); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if s.VideoMaxDimension != 3840 {
		t.Errorf("VideoMaxDimension = %d, want 3840", s.VideoMaxDimension)
	}
	if s.ImageMaxDimension != DefaultImageMaxDimension {
		t.Errorf("ImageMaxDimension = %d, want %d", s.ImageMaxDimension, DefaultImageMaxDimension)
	}
}
