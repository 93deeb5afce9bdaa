package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTmpFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseDiscoveryFileEmptyPath(t *testing.T) {
	f, err := ParseDiscoveryFile("")
	require.NoError(t, err)
	assert.Equal(t, DiscoveryFile{}, f)
}

func TestMergeDiscoveryOverridesOnlySetFields(t *testing.T) {
	base := Discovery{Inputs: []string{"a.csv"}}
	base.Ingest.MemLimitMB = 64
	base.Ingest.ThreadsNum = 4

	merged := MergeDiscovery(base, DiscoveryFile{MemLimitMB: 128})
	assert.Equal(t, 128, merged.Ingest.MemLimitMB)
	assert.Equal(t, 4, merged.Ingest.ThreadsNum)
	assert.Equal(t, []string{"a.csv"}, merged.Inputs)
}

func TestParseDiscoveryFileFromDisk(t *testing.T) {
	path := writeTmpFile(t, "mem_limit_mb: 256\nthreads_num: 8\ninputs:\n  - a.csv\n  - b.csv\n")
	f, err := ParseDiscoveryFile(path)
	require.NoError(t, err)
	assert.Equal(t, 256, f.MemLimitMB)
	assert.Equal(t, 8, f.ThreadsNum)
	assert.Equal(t, []string{"a.csv", "b.csv"}, f.Inputs)
}

func TestResolveVerificationRejectsArityMismatch(t *testing.T) {
	f := VerificationFile{
		INDs: []INDFile{
			{LHSIndices: []int{0, 1}, RHSIndices: []int{0}},
		},
	}
	_, err := ResolveVerification(f)
	require.Error(t, err)
}

func TestResolveVerificationBuildsINDs(t *testing.T) {
	f := VerificationFile{
		Inputs: []string{"a.csv", "b.csv"},
		INDs: []INDFile{
			{LHSTable: 0, RHSTable: 1, LHSIndices: []int{0}, RHSIndices: []int{2}},
		},
	}
	v, err := ResolveVerification(f)
	require.NoError(t, err)
	require.Len(t, v.INDs, 1)
	assert.Equal(t, 0, int(v.INDs[0].LHSTable))
	assert.Equal(t, 1, int(v.INDs[0].RHSTable))
}
