package version

import (
	"encoding/json"
	"fmt"
	"runtime"

	"sigs.k8s.io/yaml"
)

// Populated at build time:
//
//	go build -ldflags "-X khetao.com/clikit/version.buildVersion=1.2.0"
var (
	buildVersion     = "unknown"
	buildGitRevision = "unknown"
	buildStatus      = "unknown"
	buildTag         = "unknown"
)

type BuildInfo struct {
	Version       string `json:"version"`
	GitRevision   string `json:"revision"`
	GolangVersion string `json:"golang_version"`
	BuildStatus   string `json:"status"`
	GitTag        string `json:"tag"`
}

// Info exports the build version information.
var Info BuildInfo

func (b BuildInfo) String() string {
	return fmt.Sprintf("%v-%v-%v",
		b.Version,
		b.GitRevision,
		b.BuildStatus)
}

func (b BuildInfo) LongForm() string {
	return fmt.Sprintf("%#v", b)
}

// WithVersion returns a copy of b reporting v as its version. An empty v
// leaves b unchanged.
func (b BuildInfo) WithVersion(v string) BuildInfo {
	if v != "" {
		b.Version = v
	}
	return b
}

// Render formats b as "short" (the version alone), "long", "yaml" or "json".
func (b BuildInfo) Render(format string) (string, error) {
	switch format {
	case "", "short":
		return b.Version, nil
	case "long":
		return b.LongForm(), nil
	case "yaml":
		out, err := yaml.Marshal(&b)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case "json":
		out, err := json.MarshalIndent(&b, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown version format %q, must be one of short, long, yaml or json", format)
	}
}

func init() {
	Info = BuildInfo{
		Version:       buildVersion,
		GitRevision:   buildGitRevision,
		GolangVersion: runtime.Version(),
		BuildStatus:   buildStatus,
		GitTag:        buildTag,
	}
}
