package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPlan(t *testing.T) {
	t.Run("valid plan", func(t *testing.T) {
		path := writePlan(t, `
profile: standard
experiments:
  - concurrent_queries: 5
    votes_per_minute: 50
    duration_minutes: 1
  - concurrent_queries: 10
    votes_per_minute: 100
    duration_minutes: 2
`)
		plan, err := LoadPlan(path)
		require.NoError(t, err)
		assert.Equal(t, "standard", plan.Profile)
		require.Len(t, plan.Experiments, 2)
		assert.Equal(t, uint(10), plan.Experiments[1].ConcurrentQueries)
	})

	t.Run("rejects empty experiment list", func(t *testing.T) {
		path := writePlan(t, "profile: quick\n")
		_, err := LoadPlan(path)
		assert.Error(t, err)
	})

	t.Run("rejects invalid experiments", func(t *testing.T) {
		path := writePlan(t, `
experiments:
  - concurrent_queries: 0
    votes_per_minute: 50
    duration_minutes: 1
`)
		_, err := LoadPlan(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "experiment 1")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestProfileByName(t *testing.T) {
	quick, err := profileByName("quick")
	require.NoError(t, err)
	assert.Equal(t, "quick", quick.Name)

	std, err := profileByName("standard")
	require.NoError(t, err)
	assert.Equal(t, "standard", std.Name)

	def, err := profileByName("")
	require.NoError(t, err)
	assert.Equal(t, "quick", def.Name)

	_, err = profileByName("turbo")
	assert.Error(t, err)
}
