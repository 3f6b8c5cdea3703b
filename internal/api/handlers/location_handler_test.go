package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamarket/LocalMarketDiscovery/internal/adapters/providers/position"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
)

type permissionResponse struct {
	State         entities.PermissionState `json:"state"`
	ManualEntry   bool                     `json:"manual_entry"`
	PromptAllowed bool                     `json:"prompt_allowed"`
}

func TestGetPermission_Unsupported(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/location/permission")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp permissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, entities.PermissionUnsupported, resp.State)
	assert.True(t, resp.ManualEntry)
	assert.False(t, resp.PromptAllowed)
}

func TestGetPermission_Granted(t *testing.T) {
	env := newTestEnv(t, position.NewStaticSource(origin))

	rec := env.do(http.MethodGet, "/api/location/permission")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp permissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, entities.PermissionGranted, resp.State)
}

func TestResetPermission_ForgetsDenial(t *testing.T) {
	source := position.NewStaticSource(origin).WithPermission(entities.PermissionDenied)
	env := newTestEnv(t, source)

	// A denied fix attempt persists the denial.
	rec := env.do(http.MethodGet, "/api/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Even after the platform re-grants, the remembered denial wins.
	source.WithPermission(entities.PermissionGranted)
	rec = env.do(http.MethodGet, "/api/location/permission")
	var resp permissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, entities.PermissionDenied, resp.State)

	rec = env.do(http.MethodPost, "/api/location/permission/reset")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/location/permission")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, entities.PermissionGranted, resp.State)
}
