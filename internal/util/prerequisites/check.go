// Package prerequisites checks for client tools the generated artifacts
// rely on. vpcctl itself talks to the provider in-process; the tools are
// needed to use what it produces.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string
	// Required indicates if this tool is mandatory.
	Required bool
	// Description explains what the tool is used for.
	Description string
}

// ConnectTools are needed to run the generated connect scripts.
func ConnectTools() []Tool {
	return []Tool{
		{
			Name:        "ssh",
			Required:    false,
			Description: "Runs the connect_<bastion> scripts",
		},
	}
}

// GraphTools render DOT output into images.
func GraphTools() []Tool {
	return []Tool{
		{
			Name:        "dot",
			Required:    false,
			Description: "Graphviz renderer for `vpcctl graph` output",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Warnings describes every missing optional tool.
func (r *CheckResults) Warnings() []string {
	var out []string
	for _, tool := range r.Missing {
		if !tool.Required {
			out = append(out, fmt.Sprintf("%s not found in PATH (%s)", tool.Name, tool.Description))
		}
	}
	return out
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}
	for _, tool := range tools {
		result := CheckResult{Tool: tool}
		if path, err := lookPath(tool.Name); err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}
		results.Results = append(results.Results, result)
	}
	return results
}
