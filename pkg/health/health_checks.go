package health

import (
	"fmt"

	"github.com/dd0wney/cluso-waternet/pkg/constraints"
)

// NetworkCheck reports a served network. A network without nodes is unhealthy.
func NetworkCheck(size func() (nodes, edges int)) CheckFunc {
	return func() Check {
		nodes, edges := size()
		check := Check{
			Name: "network",
			Details: map[string]any{
				"nodes": nodes,
				"edges": edges,
			},
		}

		if nodes == 0 {
			check.Status = StatusUnhealthy
			check.Message = "Network has no nodes"
		} else {
			check.Status = StatusHealthy
			check.Message = "Network loaded"
		}
		return check
	}
}

// ConstraintCheck reports constraint violations of the served network.
// Error violations make it unhealthy, any other violation degraded.
func ConstraintCheck(validate func() (*constraints.ValidationResult, error)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "constraints",
			Details: make(map[string]any),
		}

		result, err := validate()
		if err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}

		errs := len(result.GetViolationsBySeverity(constraints.Error))
		check.Details["errors"] = errs
		check.Details["violations"] = len(result.Violations)

		switch {
		case errs > 0:
			check.Status = StatusUnhealthy
			check.Message = fmt.Sprintf("%d constraint errors", errs)
		case !result.Valid:
			check.Status = StatusDegraded
			check.Message = fmt.Sprintf("%d constraint warnings", len(result.Violations))
		default:
			check.Status = StatusHealthy
			check.Message = "No violations"
		}
		return check
	}
}

// MemoryCheck reports heap usage relative to memory obtained from the OS
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()
		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}
		return check
	}
}
