package alloc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeTempYAML(t, `
strategy: name-desc
seed: 42
limits:
  max_students: 50
  max_batches: 4
batches:
  - name: Morning
    capacity: 30
  - name: Evening
    capacity: 25
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, StrategyNameDesc, cfg.Strategy)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(42), *cfg.Seed)
	assert.Equal(t, Limits{MaxStudents: 50, MaxBatches: 4}, cfg.Limits)
	assert.Equal(t, []BatchConfig{{Name: "Morning", Capacity: 30}, {Name: "Evening", Capacity: 25}}, cfg.Batches)
	assert.Equal(t, 55, cfg.TotalCapacity())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_SeedUnsetIsNil(t *testing.T) {
	cfg, err := LoadConfig(writeTempYAML(t, "strategy: random\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Seed)
}

func TestLoadConfig_ZeroSeedIsDistinctFromUnset(t *testing.T) {
	cfg, err := LoadConfig(writeTempYAML(t, "seed: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(0), *cfg.Seed)
}

func TestLoadConfig_UnknownField_Rejected(t *testing.T) {
	_, err := LoadConfig(writeTempYAML(t, "strategy: score-desc\nbatchez: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing allocation profile")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading allocation profile")
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown strategy", Config{Strategy: "alphabetical"}, "unknown strategy"},
		{"negative max students", Config{Limits: Limits{MaxStudents: -1}}, "max_students"},
		{"negative max batches", Config{Limits: Limits{MaxBatches: -1}}, "max_batches"},
		{"empty batch name", Config{Batches: []BatchConfig{{Capacity: 3}}}, "name must not be empty"},
		{"zero capacity", Config{Batches: []BatchConfig{{Name: "A"}}}, "capacity must be > 0"},
		{"too many batches", Config{Limits: Limits{MaxBatches: 1}, Batches: []BatchConfig{{Name: "A", Capacity: 1}, {Name: "B", Capacity: 1}}}, "limit is 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfig_NewStore_AddsBatchesInOrder(t *testing.T) {
	cfg := &Config{
		Limits:  Limits{MaxStudents: 3},
		Batches: []BatchConfig{{Name: "A", Capacity: 2}, {Name: "B", Capacity: 1}},
	}

	s, err := cfg.NewStore()
	require.NoError(t, err)

	views := s.Batches()
	require.Len(t, views, 2)
	assert.Equal(t, "A", views[0].Name)
	assert.Equal(t, 2, views[0].Capacity)
	assert.Equal(t, "B", views[1].Name)
	assert.Equal(t, 3, s.Limits().MaxStudents)
	assert.Equal(t, DefaultMaxBatches, s.Limits().MaxBatches)
}

func TestConfig_Apply_InvalidBatch(t *testing.T) {
	cfg := &Config{Batches: []BatchConfig{{Name: "", Capacity: 2}}}
	_, err := cfg.NewStore()
	require.Error(t, err)
}
