package utils_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/ginjaninja78/floorplan-filler/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempSibling(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "plan.pdf")

	a := utils.TempSibling(target, ".xlsx")
	b := utils.TempSibling(target, ".xlsx")

	assert.Equal(t, dir, filepath.Dir(a))
	assert.Regexp(t, regexp.MustCompile(`^plan_temp_[0-9a-f]{8}\.xlsx$`), filepath.Base(a))
	assert.NotEqual(t, a, b)
}

func TestGenerateOutputFileName(t *testing.T) {
	assert.Equal(t,
		filepath.Join("in", "vendas_plano.xlsx"),
		utils.GenerateOutputFileName(filepath.Join("in", "vendas.pdf"), "_plano", ".xlsx"))
}

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "new.pdf")
	dst := filepath.Join(dir, "plan.pdf")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	require.NoError(t, utils.ReplaceFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.False(t, utils.FileExists(src))
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.xlsx")
	assert.NoError(t, utils.RemoveIfExists(path))

	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.True(t, utils.FileExists(path))
	assert.NoError(t, utils.RemoveIfExists(path))
	assert.False(t, utils.FileExists(path))
	assert.False(t, utils.FileExists(filepath.Dir(path)), "directories are not files")
}
