package bfcc

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigUsesFlagValues(t *testing.T) {
	cfg, err := LoadConfig(3, true, false, false, true, false, true, "out.s")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.OptLevel)
	assert.True(t, cfg.PartialEval)
	assert.True(t, cfg.EmitLLVM)
	assert.Equal(t, "out.s", cfg.OutputPath)
}

func TestLoadConfigOutputFromEnvWhenFlagEmpty(t *testing.T) {
	t.Setenv("BFCC_OUTPUT", "env-out.ll")
	cfg, err := LoadConfig(1, false, false, false, false, false, false, "")
	require.NoError(t, err)
	assert.Equal(t, "env-out.ll", cfg.OutputPath)
}

func TestLoadConfigReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	require.NoError(t, os.WriteFile(".bfcc.env", []byte("BFCC_OUTPUT=from-file.s\n"), 0o644))

	cfg, err := LoadConfig(1, false, false, false, false, false, false, "")
	require.NoError(t, err)
	assert.Equal(t, "from-file.s", cfg.OutputPath)
}
