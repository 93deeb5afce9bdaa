// Package config binds the CLI-flag and YAML configuration surface onto
// the discovery (indspider) and verification (indverify) run parameters
// (spec §6), following the same "parse flags, optionally merge a YAML
// file on top" shape the teacher uses for its generator config.
package config

import (
	"os"

	"github.com/indspider/indspider/ingest"
	"github.com/indspider/indspider/model"
	"gopkg.in/yaml.v2"
)

// DiscoveryFile is the YAML shape accepted via -config for an indspider
// run; any field left unset keeps the CLI-flag-derived default.
type DiscoveryFile struct {
	MemLimitMB int      `yaml:"mem_limit_mb,omitempty"`
	ThreadsNum int      `yaml:"threads_num,omitempty"`
	TmpRoot    string   `yaml:"tmp_root,omitempty"`
	Inputs     []string `yaml:"inputs,omitempty"`
}

// Discovery is the fully resolved configuration for one discovery run.
type Discovery struct {
	Inputs  []string
	Ingest  ingest.Config
	OutPath string
	Debug   bool
}

// ParseDiscoveryFile reads a YAML discovery config from path; an empty
// path returns a zero DiscoveryFile, mirroring ParseGeneratorConfig's
// "no file means no overrides" behavior.
func ParseDiscoveryFile(path string) (DiscoveryFile, error) {
	if path == "" {
		return DiscoveryFile{}, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return DiscoveryFile{}, model.NewIOError("read", path, err)
	}
	var f DiscoveryFile
	if err := yaml.Unmarshal(buf, &f); err != nil {
		return DiscoveryFile{}, model.NewConfigError("config", err.Error())
	}
	return f, nil
}

// MergeDiscovery layers file on top of base, with non-zero file fields
// taking precedence, matching MergeGeneratorConfig's override semantics.
func MergeDiscovery(base Discovery, file DiscoveryFile) Discovery {
	result := base
	if file.MemLimitMB != 0 {
		result.Ingest.MemLimitMB = file.MemLimitMB
	}
	if file.ThreadsNum != 0 {
		result.Ingest.ThreadsNum = file.ThreadsNum
	}
	if file.TmpRoot != "" {
		result.Ingest.TmpRoot = file.TmpRoot
	}
	if len(file.Inputs) > 0 {
		result.Inputs = file.Inputs
	}
	return result
}
