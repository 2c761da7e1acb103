package preferences

import "errors"

// Preference service errors
var (
	// ErrStorageUnavailable indicates the store could not be read or written.
	// The in-memory settings stay authoritative for the running session.
	ErrStorageUnavailable = errors.New("settings storage unavailable")

	// ErrUnknownField indicates no settable field has the given name
	ErrUnknownField = errors.New("unknown settings field")

	// ErrInvalidValue indicates a value cannot be converted to the field type
	ErrInvalidValue = errors.New("invalid settings value")

	// ErrUnknownToolKind indicates the tool kind is not ffmpeg, magick or exiftool
	ErrUnknownToolKind = errors.New("unknown tool kind")

	// ErrEmptyEntry indicates a blank exclusion path
	ErrEmptyEntry = errors.New("exclusion path is empty")

	// ErrDuplicateEntry indicates the exclusion path is already in the list
	ErrDuplicateEntry = errors.New("exclusion path already present")

	// ErrEntryNotFound indicates the exclusion path is not in the list
	ErrEntryNotFound = errors.New("exclusion path not found")

	// ErrCorruptExclusions indicates the stored exclusion list is not a JSON string array
	ErrCorruptExclusions = errors.New("stored exclusion list is corrupt")

	// ErrShutdown indicates the service has been shut down
	ErrShutdown = errors.New("preferences service is shut down")
)

// IsStorageUnavailable checks if the error is a persistence failure
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// IsUnknownField checks if the error is an unknown field error
func IsUnknownField(err error) bool {
	return errors.Is(err, ErrUnknownField)
}

// IsInvalidValue checks if the error is an invalid value error
func IsInvalidValue(err error) bool {
	return errors.Is(err, ErrInvalidValue)
}

// IsDuplicateEntry checks if the error is a duplicate exclusion error
func IsDuplicateEntry(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

// IsEmptyEntry checks if the error is an empty exclusion error
func IsEmptyEntry(err error) bool {
	return errors.Is(err, ErrEmptyEntry)
}

// IsEntryNotFound checks if the error is a missing exclusion error
func IsEntryNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}

// IsUnknownToolKind checks if the error is an unknown tool kind error
func IsUnknownToolKind(err error) bool {
	return errors.Is(err, ErrUnknownToolKind)
}

// IsCorruptExclusions checks if the error is a corrupt exclusion list error
func IsCorruptExclusions(err error) bool {
	return errors.Is(err, ErrCorruptExclusions)
}

// IsShutdown checks if the error is a shut down service error
func IsShutdown(err error) bool {
	return errors.Is(err, ErrShutdown)
}
