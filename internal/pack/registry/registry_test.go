package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OpenVertical/vertical/internal/pack/model"
)

func TestRegistryGetPackByKey(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name   string
		key    string
		exists bool
	}{
		{name: "padrao pack", key: "padrao", exists: true},
		{name: "juridico pack", key: "juridico", exists: true},
		{name: "comercio pack", key: "comercio", exists: true},
		{name: "unknown pack", key: "nope", exists: false},
		{name: "empty key", key: "", exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pack, ok := reg.GetPackByKey(tt.key)
			assert.Equal(t, tt.exists, ok)
			if tt.exists {
				assert.NotNil(t, pack)
				assert.Equal(t, tt.key, pack.Metadata.Key)
			} else {
				assert.Nil(t, pack)
			}
		})
	}
}

func TestRegistryGetPackKeysSorted(t *testing.T) {
	reg := NewRegistry()

	keys := reg.GetPackKeys()
	assert.Equal(t, []string{"comercio", "juridico", "padrao"}, keys)
}

func TestRegistryLookupReturnsSamePack(t *testing.T) {
	reg := NewRegistry()

	first, ok := reg.GetPackByKey("juridico")
	assert.True(t, ok)
	second, ok := reg.GetPackByKey("juridico")
	assert.True(t, ok)
	assert.Same(t, first, second)
}

func TestRegistryPackSummaries(t *testing.T) {
	reg := NewRegistry()

	summaries := reg.GetAllPackSummaries()
	assert.Len(t, summaries, 3)

	byKey := make(map[string]model.PackSummary, len(summaries))
	for _, s := range summaries {
		byKey[s.Key] = s
	}

	juridico, ok := byKey["juridico"]
	assert.True(t, ok)
	assert.Equal(t, "1.2.0", juridico.Version)
	assert.Equal(t, 3, juridico.ServiceTypeCount)
	assert.Equal(t, 2, juridico.WorkflowCount)
	assert.Contains(t, juridico.Modules, model.ModuleONRCartorio)

	comercio, ok := byKey["comercio"]
	assert.True(t, ok)
	assert.Contains(t, comercio.Modules, model.ModulePDV)
	assert.Contains(t, comercio.Modules, model.ModuleStock)
}

func TestRegistryEveryPackDeclaresCoreModule(t *testing.T) {
	reg := NewRegistry()

	for _, key := range reg.GetPackKeys() {
		pack, ok := reg.GetPackByKey(key)
		assert.True(t, ok)
		assert.Contains(t, pack.Modules, model.ModuleCore, "pack %s must include the core module", key)
	}
}
