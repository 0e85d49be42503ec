package ensemble

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ensemble/testutil"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
algorithm: DP-Means
threshold: .inf
max_iterations: 5
convergence_test: 0.01
online_update: true
penalize_missing_features: false
block_size: 16
seed: 3
log_level: warn
`))
	require.NoError(t, err)

	assert.True(t, math.IsInf(*cfg.Threshold, 1))
	assert.Equal(t, 5, cfg.MaxIterations)

	c, err := New(testutil.VectorRegistry("pos"), cfg)
	require.NoError(t, err)

	dp, ok := c.(*DPMeans)
	require.True(t, ok)
	assert.Equal(t, 5, dp.opts.maxIterations)
	assert.Equal(t, 0.01, dp.opts.convergenceTest)
	assert.Equal(t, 16, dp.opts.blockSize)
	assert.False(t, dp.opts.penalizeMissing)
	assert.True(t, dp.online)
	require.NotNil(t, dp.opts.seed)
	assert.Equal(t, int64(3), *dp.opts.seed)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown algorithm", "algorithm: spectral", ErrUnknownAlgorithm},
		{"kmeans without k", "algorithm: kmeans", ErrInvalidK},
		{"threshold missing", "algorithm: threshold", ErrInvalidThreshold},
		{"threshold negative", "algorithm: dpmeans\nthreshold: -1", ErrInvalidThreshold},
		{"max iterations", "algorithm: kmeans\nk: 2\nmax_iterations: -1", ErrInvalidMaxIterations},
		{"convergence test", "algorithm: kmeans\nk: 2\nconvergence_test: -0.5", ErrInvalidConvergenceTest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ParseConfig([]byte("algorithm: kmeans\nk: 2\nlog_level: loud"))
	assert.ErrorContains(t, err, "log_level")

	_, err = ParseConfig([]byte("algorithm: [unclosed"))
	assert.ErrorContains(t, err, "parsing config YAML")

	// every problem is reported
	_, err = ParseConfig([]byte("algorithm: kmeans\nmax_iterations: -1"))
	assert.ErrorIs(t, err, ErrInvalidK)
	assert.ErrorIs(t, err, ErrInvalidMaxIterations)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ensemble.yaml")
	require.NoError(t, os.WriteFile(path, []byte("algorithm: kmeans\nk: 4\nseed: 1\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	c, err := New(testutil.VectorRegistry("pos"), cfg, WithMaxIterations(7))
	require.NoError(t, err)
	km, ok := c.(*KMeans)
	require.True(t, ok)
	assert.Equal(t, 4, km.K())
	assert.Equal(t, 7, km.opts.maxIterations)
	assert.Equal(t, "kmeans", c.Name())

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "config file not found")
}

func TestConfig_MarshalRoundTrip(t *testing.T) {
	threshold := 0.25
	online := false
	seed := int64(12)
	want := &Config{
		Algorithm:      "threshold",
		Threshold:      &threshold,
		FirstCandidate: true,
		OnlineUpdate:   &online,
		BlockSize:      8,
		Seed:           &seed,
		LogLevel:       "debug",
	}

	data, err := want.Marshal()
	require.NoError(t, err)

	got, err := ParseConfig(data)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	c, err := New(testutil.VectorRegistry("pos"), &Config{Algorithm: "kmeans"})
	assert.ErrorIs(t, err, ErrInvalidK)
	assert.Nil(t, c)

	threshold := 1.0
	c, err = New(nil, &Config{Algorithm: "threshold", Threshold: &threshold})
	assert.ErrorIs(t, err, ErrNilRegistry)
	assert.Nil(t, c)

	c, err = New(testutil.VectorRegistry("pos"), nil)
	assert.ErrorIs(t, err, ErrNilConfig)
	assert.Nil(t, c)
}
