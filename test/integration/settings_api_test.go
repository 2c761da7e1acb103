//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/pie/internal/api"
	"github.com/stwalsh4118/pie/internal/models"
	"github.com/stwalsh4118/pie/internal/preferences"
)

func getSettings(t *testing.T, inst *instance) api.SettingsResponse {
	t.Helper()

	w := inst.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.SettingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSettingsLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "pie.db")

	// Fresh store starts from defaults
	inst := startInstance(t, dbPath)
	resp := getSettings(t, inst)
	assert.Equal(t, models.DefaultGpuCount, resp.Settings.GpuCount)
	assert.Empty(t, resp.Exclusions)

	w := inst.do(t, http.MethodPatch, "/api/settings/fields/image_compression_quality", map[string]any{"value": 85})
	require.Equal(t, http.StatusOK, w.Code)
	w = inst.do(t, http.MethodPost, "/api/settings/exclusions", api.ExclusionRequest{Path: "/photos/inbox/.thumbs"})
	require.Equal(t, http.StatusCreated, w.Code)
	inst.stop(t)

	// A new process sees the committed values
	inst = startInstance(t, dbPath)
	resp = getSettings(t, inst)
	assert.Equal(t, 85, resp.Settings.ImageCompressionQuality)
	assert.Equal(t, []string{"/photos/inbox/.thumbs"}, resp.Exclusions)

	w = inst.do(t, http.MethodPost, "/api/settings/restore-defaults", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = getSettings(t, inst)
	assert.Equal(t, models.DefaultImageCompressionQuality, resp.Settings.ImageCompressionQuality)
	assert.Empty(t, resp.Exclusions)
	inst.stop(t)

	inst = startInstance(t, dbPath)
	resp = getSettings(t, inst)
	assert.Equal(t, models.DefaultImageCompressionQuality, resp.Settings.ImageCompressionQuality)
	inst.stop(t)
}

func TestToolPathValidation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pie.db")

	ffmpeg := writeTool(t, dir, "ffmpeg", `case "$1" in
-h) echo "usage: ffmpeg [options]"; exit 0 ;;
-hide_banner) echo " V....D h264_nvenc           NVIDIA NVENC H.264 encoder (codec h264)"; exit 0 ;;
*) exit 1 ;;
esac`)
	hangs := writeTool(t, dir, "hangs", "exec sleep 30")

	inst := startInstance(t, dbPath)

	w := inst.do(t, http.MethodPut, "/api/settings/tools/ffmpeg", api.ToolPathRequest{Path: ffmpeg})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result preferences.PathSetResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Accepted)
	assert.Equal(t, models.ValidityValid, result.Validity)

	// A probe that never exits is killed at the timeout and rejected
	w = inst.do(t, http.MethodPut, "/api/settings/tools/ffmpeg", api.ToolPathRequest{Path: hangs})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, ffmpeg, getSettings(t, inst).Settings.PathFfmpeg)

	w = inst.do(t, http.MethodGet, "/api/settings/tools/ffmpeg/encoders", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var encoders api.EncodersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &encoders))
	assert.True(t, encoders.Nvenc)
	inst.stop(t)

	inst = startInstance(t, dbPath)
	resp := getSettings(t, inst)
	assert.Equal(t, ffmpeg, resp.Settings.PathFfmpeg)
	assert.Equal(t, models.ValidityUnknown, resp.Validity[models.ToolFfmpeg])
}
