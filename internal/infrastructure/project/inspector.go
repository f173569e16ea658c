// Package project derives toolchain commands from workspace manifests.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/codriver-ai/codriver/internal/ports"
)

// manifestProbe maps a manifest file to the test invocation it implies.
// Probes are checked in order; the first manifest present wins.
type manifestProbe struct {
	file    string
	command string
}

var probes = []manifestProbe{
	{"package.json", "npm test"},
	{"go.mod", "go test ./..."},
	{"Cargo.toml", "cargo test"},
	{"pyproject.toml", "python -m pytest"},
	{"setup.py", "python -m pytest"},
	{"pom.xml", "mvn test"},
	{"build.gradle", "gradle test"},
	{"Makefile", "make test"},
}

// Inspector sniffs project manifests. It is advisory context for `test`
// steps, never decision-critical: when nothing matches, the step fails with
// a descriptive error upstream.
type Inspector struct{}

// NewInspector builds a manifest-based project inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// TestCommand implements ports.ProjectInspector.
func (i *Inspector) TestCommand(workdir string) (string, bool) {
	for _, probe := range probes {
		path := filepath.Join(workdir, probe.file)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if probe.file == "package.json" && !hasNpmTestScript(path) {
			continue
		}
		return probe.command, true
	}
	return "", false
}

// hasNpmTestScript checks that package.json actually declares a test script;
// `npm test` on the npm default stub exits non-zero.
func hasNpmTestScript(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var manifest struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return false
	}
	_, ok := manifest.Scripts["test"]
	return ok
}

var _ ports.ProjectInspector = (*Inspector)(nil)
