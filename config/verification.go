package config

import (
	"os"
	"strconv"

	"github.com/indspider/indspider/model"
	"github.com/indspider/indspider/verify"
	"gopkg.in/yaml.v2"
)

// INDFile names one candidate IND in a YAML verification config: column
// indices are given per-side, in the order the two index vectors pair up
// (spec §6 "ind specification").
type INDFile struct {
	LHSTable   int   `yaml:"lhs_table"`
	RHSTable   int   `yaml:"rhs_table"`
	LHSIndices []int `yaml:"lhs_indices"`
	RHSIndices []int `yaml:"rhs_indices"`
}

// VerificationFile is the YAML shape accepted via -config for an
// indverify run.
type VerificationFile struct {
	Inputs     []string  `yaml:"inputs"`
	EqualNulls bool      `yaml:"equal_nulls,omitempty"`
	INDs       []INDFile `yaml:"inds"`
}

// Verification is the fully resolved configuration for one verification run.
type Verification struct {
	Inputs  []string
	Verify  verify.Config
	INDs    []model.IND
	OutPath string
}

// ParseVerificationFile reads a YAML verification config from path.
func ParseVerificationFile(path string) (VerificationFile, error) {
	if path == "" {
		return VerificationFile{}, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return VerificationFile{}, model.NewIOError("read", path, err)
	}
	var f VerificationFile
	if err := yaml.Unmarshal(buf, &f); err != nil {
		return VerificationFile{}, model.NewConfigError("config", err.Error())
	}
	return f, nil
}

// ResolveVerification converts a parsed file into run-ready Verification,
// validating that every IND's index vectors line up (spec §4.8's own
// arity check runs again per-call; this is the earlier config-time check
// so a malformed file fails before any stream is opened).
func ResolveVerification(f VerificationFile) (Verification, error) {
	result := Verification{
		Inputs: f.Inputs,
		Verify: verify.Config{EqualNulls: f.EqualNulls},
	}
	for i, raw := range f.INDs {
		if len(raw.LHSIndices) != len(raw.RHSIndices) {
			return Verification{}, model.NewConfigError("inds", indexMismatchMessage(i))
		}
		result.INDs = append(result.INDs, model.IND{
			LHSTable:   model.TableId(raw.LHSTable),
			RHSTable:   model.TableId(raw.RHSTable),
			LHSIndices: toColumnIds(raw.LHSIndices),
			RHSIndices: toColumnIds(raw.RHSIndices),
		})
	}
	return result, nil
}

func toColumnIds(in []int) []model.ColumnId {
	out := make([]model.ColumnId, len(in))
	for i, v := range in {
		out[i] = model.ColumnId(v)
	}
	return out
}

func indexMismatchMessage(i int) string {
	return "ind[" + strconv.Itoa(i) + "]: lhs_indices and rhs_indices must have equal length"
}
