package models

import (
	"time"
)

// SettingsID is the primary key of the singleton settings row
const SettingsID = 1

// Default values for a fresh installation
const (
	DefaultImageCompressionQuality = 50
	DefaultImageMaxDimension       = 1920
	DefaultVideoMaxDimension       = 1920
	DefaultVideoCrf                = 28
	DefaultVideoNvencPreset        = NvencPresetFast
	DefaultVideoAudioBitrate       = 128
	DefaultIndexingWorkers         = 2
	DefaultConversionWorkers       = 2
	DefaultGpuWorkers              = 1
	DefaultGpuCount                = 1

	DefaultPathFfmpeg   = "ffmpeg"
	DefaultPathMagick   = "magick"
	DefaultPathExiftool = "exiftool"

	DefaultImageExtensions    = "jpg, jpeg, png, gif, bmp, tif, tiff, heic, webp"
	DefaultImageRawExtensions = "crw, cr2, cr3, nef, nrw, arw, srf, sr2, dng, orf, raf, rw2, pef"
	DefaultVideoExtensions    = "mp4, mov, avi, mkv, m4v, 3gp, mts, m2ts, wmv, mpg, mpeg"
	DefaultVideoRawExtensions = "braw, r3d, crm"
)

// Settings represents the media processor configuration.
// There is exactly one row; DirsToExclude holds a JSON array literal.
// No gorm default tags here: gorm omits zero values of defaulted columns on insert.
type Settings struct {
	ID int `json:"id" gorm:"type:integer;primaryKey;column:id"`

	MonitoredDir     string `json:"monitored_dir" gorm:"type:text;not null;column:monitored_dir"`
	OutputDir        string `json:"output_dir" gorm:"type:text;not null;column:output_dir"`
	UnknownOutputDir string `json:"unknown_output_dir" gorm:"type:text;not null;column:unknown_output_dir"`
	DirsToExclude    string `json:"dirs_to_exclude" gorm:"type:text;not null;column:dirs_to_exclude"`

	SkipSameNameVideo    bool `json:"skip_same_name_video" gorm:"type:boolean;not null;column:skip_same_name_video"`
	SkipSameNameRaw      bool `json:"skip_same_name_raw" gorm:"type:boolean;not null;column:skip_same_name_raw"`
	ConvertUnknown       bool `json:"convert_unknown" gorm:"type:boolean;not null;column:convert_unknown"`
	OverwriteOutputFiles bool `json:"overwrite_output_files" gorm:"type:boolean;not null;column:overwrite_output_files"`
	AutoUpdateCheck      bool `json:"auto_update_check" gorm:"type:boolean;not null;column:auto_update_check"`
	AutoShowLogWindow    bool `json:"auto_show_log_window" gorm:"type:boolean;not null;column:auto_show_log_window"`

	ImageCompressionQuality int    `json:"image_compression_quality" gorm:"type:integer;not null;column:image_compression_quality"`
	ImageMaxDimension       int    `json:"image_max_dimension" gorm:"type:integer;not null;column:image_max_dimension"`
	VideoMaxDimension       int    `json:"video_max_dimension" gorm:"type:integer;not null;column:video_max_dimension"`
	VideoCrf                int    `json:"video_crf" gorm:"type:integer;not null;column:video_crf"`
	VideoNvencPreset        string `json:"video_nvenc_preset" gorm:"type:text;not null;column:video_nvenc_preset"`
	VideoAudioBitrate       int    `json:"video_audio_bitrate" gorm:"type:integer;not null;column:video_audio_bitrate"`
	IndexingWorkers         int    `json:"indexing_workers" gorm:"type:integer;not null;column:indexing_workers"`
	ConversionWorkers       int    `json:"conversion_workers" gorm:"type:integer;not null;column:conversion_workers"`
	GpuWorkers              int    `json:"gpu_workers" gorm:"type:integer;not null;column:gpu_workers"`
	GpuCount                int    `json:"gpu_count" gorm:"type:integer;not null;column:gpu_count"`

	PathFfmpeg   string `json:"path_ffmpeg" gorm:"type:text;not null;column:path_ffmpeg"`
	PathMagick   string `json:"path_magick" gorm:"type:text;not null;column:path_magick"`
	PathExiftool string `json:"path_exiftool" gorm:"type:text;not null;column:path_exiftool"`

	ImageExtensions    string `json:"image_extensions" gorm:"type:text;not null;column:image_extensions"`
	ImageRawExtensions string `json:"image_raw_extensions" gorm:"type:text;not null;column:image_raw_extensions"`
	VideoExtensions    string `json:"video_extensions" gorm:"type:text;not null;column:video_extensions"`
	VideoRawExtensions string `json:"video_raw_extensions" gorm:"type:text;not null;column:video_raw_extensions"`

	UpdatedAt time.Time `json:"updated_at" gorm:"type:datetime;column:updated_at"`
}

// TableName pins the table name used by the migrations
func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings returns settings with default values.
// UpdatedAt stays zero until the record is first saved.
func DefaultSettings() *Settings {
	return &Settings{
		ID:                      SettingsID,
		DirsToExclude:           emptyDirList,
		SkipSameNameVideo:       true,
		SkipSameNameRaw:         true,
		ConvertUnknown:          false,
		OverwriteOutputFiles:    false,
		AutoUpdateCheck:         true,
		AutoShowLogWindow:       true,
		ImageCompressionQuality: DefaultImageCompressionQuality,
		ImageMaxDimension:       DefaultImageMaxDimension,
		VideoMaxDimension:       DefaultVideoMaxDimension,
		VideoCrf:                DefaultVideoCrf,
		VideoNvencPreset:        DefaultVideoNvencPreset,
		VideoAudioBitrate:       DefaultVideoAudioBitrate,
		IndexingWorkers:         DefaultIndexingWorkers,
		ConversionWorkers:       DefaultConversionWorkers,
		GpuWorkers:              DefaultGpuWorkers,
		GpuCount:                DefaultGpuCount,
		PathFfmpeg:              DefaultPathFfmpeg,
		PathMagick:              DefaultPathMagick,
		PathExiftool:            DefaultPathExiftool,
		ImageExtensions:         DefaultImageExtensions,
		ImageRawExtensions:      DefaultImageRawExtensions,
		VideoExtensions:         DefaultVideoExtensions,
		VideoRawExtensions:      DefaultVideoRawExtensions,
	}
}

// Clone returns an independent copy of the settings
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// ToolPath returns the configured path for the given tool kind
func (s *Settings) ToolPath(kind ToolKind) (string, bool) {
	switch kind {
	case ToolFfmpeg:
		return s.PathFfmpeg, true
	case ToolMagick:
		return s.PathMagick, true
	case ToolExiftool:
		return s.PathExiftool, true
	default:
		return "", false
	}
}

// SetToolPath assigns the path for the given tool kind
func (s *Settings) SetToolPath(kind ToolKind, path string) bool {
	switch kind {
	case ToolFfmpeg:
		s.PathFfmpeg = path
	case ToolMagick:
		s.PathMagick = path
	case ToolExiftool:
		s.PathExiftool = path
	default:
		return false
	}
	return true
}

// ExcludedDirs decodes the dirs_to_exclude slot
func (s *Settings) ExcludedDirs() ([]string, error) {
	return DecodeDirs(s.DirsToExclude)
}

// SetExcludedDirs encodes dirs into the dirs_to_exclude slot
func (s *Settings) SetExcludedDirs(dirs []string) error {
	encoded, err := EncodeDirs(dirs)
	if err != nil {
		return err
	}
	s.DirsToExclude = encoded
	return nil
}
