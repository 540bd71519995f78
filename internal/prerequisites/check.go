// Package prerequisites verifies the host tools this action depends on
// before any installation work starts.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool is a host binary the action invokes.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if the tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string
}

// DefaultTools returns the tools checked before setup. sudo is mandatory
// (binary install, service control, credential extraction all run
// privileged); kubectl only feeds the timeout diagnostics, which degrade
// without it.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "sudo",
			Required:    true,
			Description: "Required to install the binary, manage the service, and read the admin credential",
		},
		{
			Name:        "kubectl",
			Required:    false,
			Description: "Used for readiness diagnostics on timeout",
		},
	}
}

// CheckResult is the outcome for a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults aggregates the outcome of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// Error returns an error naming the missing required tools, or nil.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.Description))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available in PATH.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckDefault checks the default tool set.
func CheckDefault() *CheckResults {
	return Check(DefaultTools())
}
