package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

const emptyDirList = "[]"

// DecodeDirs parses the JSON array stored in dirs_to_exclude.
// An empty slot decodes to an empty list.
func DecodeDirs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}

	var dirs []string
	if err := json.Unmarshal([]byte(raw), &dirs); err != nil {
		return nil, fmt.Errorf("failed to decode excluded directories: %w", err)
	}
	if dirs == nil {
		dirs = []string{}
	}
	return dirs, nil
}

// EncodeDirs renders dirs as the JSON array stored in dirs_to_exclude
func EncodeDirs(dirs []string) (string, error) {
	if len(dirs) == 0 {
		return emptyDirList, nil
	}

	encoded, err := json.Marshal(dirs)
	if err != nil {
		return "", fmt.Errorf("failed to encode excluded directories: %w", err)
	}
	return string(encoded), nil
}
