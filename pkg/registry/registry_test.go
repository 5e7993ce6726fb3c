package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippedRegistry(t *testing.T) {
	reg, err := LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	assert.Empty(t, reg.Missing("credit-risk.predict", "credit-risk.health-check", "credit-risk.render-band"))

	a, ok := reg.Find("credit-risk.predict")
	require.True(t, ok)
	assert.Equal(t, "predict-credit-risk", a.ID)
	assert.Contains(t, a.ErrorCodes, "PREDICTION_FAILED")
}

func TestValidate(t *testing.T) {
	valid := func() Activity {
		return Activity{ID: "a", DisplayName: "A", Category: "c", TaskType: "c.a", Timeout: "5s"}
	}

	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{"valid", func(r *ActivityRegistry) {}, ""},
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"missing task type", func(r *ActivityRegistry) { r.Activities[0].TaskType = "" }, "TaskType"},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, "invalid timeout"},
		{"bad status", func(r *ActivityRegistry) { r.Activities[0].ImplementationStatus = "done" }, "unknown status"},
		{"duplicate id", func(r *ActivityRegistry) {
			b := valid()
			b.TaskType = "c.b"
			r.Activities = append(r.Activities, b)
		}, "duplicate activity ID"},
		{"duplicate task type", func(r *ActivityRegistry) {
			b := valid()
			b.ID = "b"
			r.Activities = append(r.Activities, b)
		}, "bound to both"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{valid()}}
			tt.mutate(reg)
			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAddAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	reg := &ActivityRegistry{Version: "1.0.0"}

	require.NoError(t, reg.Add(Activity{ID: "a", DisplayName: "A", Category: "c", TaskType: "c.a"}))
	assert.Error(t, reg.Add(Activity{ID: "a", TaskType: "c.z"}))
	assert.Error(t, reg.Add(Activity{ID: "b", TaskType: "c.a"}))

	require.NoError(t, Save(reg, path))
	assert.NotEmpty(t, reg.LastUpdated)

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"c.missing"}, loaded.Missing("c.a", "c.missing"))
}
