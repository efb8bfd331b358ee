package ontology

import "sync"

// BuiltinVersion is the version tag of the builtin verification ontology.
const BuiltinVersion = "2.0.0"

var builtin = sync.OnceValue(func() *Ontology {
	return MustNew(BuiltinVersion, builtinNodes())
})

// Builtin returns the shared builtin verification ontology.
//
// Every call returns the same immutable value.
func Builtin() *Ontology { return builtin() }

// builtinNodes declares the verification catalogue, grouped by primary
// dimension. Correctness checks are the foundation every other group builds on.
func builtinNodes() []TaskNode {
	return []TaskNode{
		{
			ID:               "baseline_correctness_check",
			Description:      "Verify basic functional correctness - the system does what it claims",
			Dimensions:       []string{"correctness"},
			Dependencies:     nil,
			Mandatory:        true,
			RiskWeight:       2.0,
			MinValidators:    3,
			EstimatedMinutes: 45,
			RequiredSkills:   []string{"testing", "correctness"},
		},
		{
			ID:           "input_validation_test",
			Description:  "Test input boundary conditions and edge cases",
			Dimensions:   []string{"correctness", "security"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.5,
		},
		{
			ID:           "output_format_validation",
			Description:  "Verify output format matches specification",
			Dimensions:   []string{"correctness", "compatibility"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.2,
		},
		{
			ID:           "error_handling_test",
			Description:  "Test error conditions and exception handling",
			Dimensions:   []string{"correctness", "reliability"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.5,
		},
		{
			ID:               "throughput_benchmark",
			Description:      "Measure sustained request throughput (requests per second)",
			Dimensions:       []string{"performance"},
			Dependencies:     []string{"baseline_correctness_check"},
			RiskWeight:       1.5,
			MinValidators:    2,
			EstimatedMinutes: 30,
			RequiredSkills:   []string{"performance", "load_testing"},
		},
		{
			ID:           "latency_profile",
			Description:  "Measure response time distribution (p50, p95, p99)",
			Dimensions:   []string{"performance"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.5,
		},
		{
			ID:           "sustained_load_test",
			Description:  "Extended duration load testing for stability",
			Dimensions:   []string{"performance", "reliability"},
			Dependencies: []string{"throughput_benchmark", "latency_profile"},
			RiskWeight:   1.8,
		},
		{
			ID:           "resource_utilization_profile",
			Description:  "Measure CPU, memory, and I/O usage under load",
			Dimensions:   []string{"performance", "scalability"},
			Dependencies: []string{"throughput_benchmark"},
			RiskWeight:   1.3,
		},
		{
			ID:           "cold_start_test",
			Description:  "Measure initialization and warm-up time",
			Dimensions:   []string{"performance"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.0,
		},
		{
			ID:               "auth_boundary_test",
			Description:      "Verify authentication boundaries are enforced",
			Dimensions:       []string{"security"},
			Dependencies:     []string{"baseline_correctness_check"},
			RiskWeight:       2.0,
			MinValidators:    3,
			EstimatedMinutes: 60,
			RequiredSkills:   []string{"security", "auth"},
		},
		{
			ID:           "authorization_test",
			Description:  "Verify authorization rules are correctly enforced",
			Dimensions:   []string{"security"},
			Dependencies: []string{"auth_boundary_test"},
			RiskWeight:   2.0,
		},
		{
			ID:           "rate_limiting_test",
			Description:  "Verify rate limiting behavior under abuse",
			Dimensions:   []string{"security", "performance"},
			Dependencies: []string{"auth_boundary_test"},
			RiskWeight:   1.5,
		},
		{
			ID:               "injection_vulnerability_scan",
			Description:      "Test for SQL, command, and other injection vulnerabilities",
			Dimensions:       []string{"security"},
			Dependencies:     []string{"input_validation_test"},
			RiskWeight:       2.5,
			MinValidators:    3,
			EstimatedMinutes: 90,
			RequiredSkills:   []string{"security", "penetration_testing"},
		},
		{
			ID:           "data_exposure_test",
			Description:  "Check for unintended data exposure in responses",
			Dimensions:   []string{"security"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   2.0,
		},
		{
			ID:           "encryption_verification",
			Description:  "Verify data encryption at rest and in transit",
			Dimensions:   []string{"security"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   2.0,
		},
		{
			ID:           "failure_recovery_test",
			Description:  "Test behavior after failures and recovery",
			Dimensions:   []string{"reliability"},
			Dependencies: []string{"error_handling_test"},
			RiskWeight:   1.8,
		},
		{
			ID:           "graceful_degradation_test",
			Description:  "Verify system degrades gracefully under stress",
			Dimensions:   []string{"reliability", "performance"},
			Dependencies: []string{"sustained_load_test"},
			RiskWeight:   1.5,
		},
		{
			ID:           "idempotency_test",
			Description:  "Verify operations are safely repeatable",
			Dimensions:   []string{"reliability", "correctness"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.5,
		},
		{
			ID:           "timeout_handling_test",
			Description:  "Test timeout scenarios and handling",
			Dimensions:   []string{"reliability"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.3,
		},
		{
			ID:           "horizontal_scaling_test",
			Description:  "Verify performance scales with added instances",
			Dimensions:   []string{"scalability", "performance"},
			Dependencies: []string{"sustained_load_test"},
			RiskWeight:   1.5,
		},
		{
			ID:           "concurrent_user_test",
			Description:  "Test behavior under high concurrent user load",
			Dimensions:   []string{"scalability", "performance"},
			Dependencies: []string{"throughput_benchmark"},
			RiskWeight:   1.5,
		},
		{
			ID:           "data_volume_test",
			Description:  "Test behavior with large data volumes",
			Dimensions:   []string{"scalability", "performance"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.3,
		},
		{
			ID:           "determinism_test",
			Description:  "Verify outputs are deterministic given same inputs",
			Dimensions:   []string{"reproducibility", "correctness"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.5,
		},
		{
			ID:           "environment_parity_test",
			Description:  "Verify behavior is consistent across environments",
			Dimensions:   []string{"reproducibility"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.3,
		},
		{
			ID:           "build_reproducibility_test",
			Description:  "Verify build process produces identical artifacts",
			Dimensions:   []string{"reproducibility"},
			Dependencies: nil,
			RiskWeight:   1.2,
		},
		{
			ID:           "api_contract_test",
			Description:  "Verify API adheres to documented contract",
			Dimensions:   []string{"compatibility", "correctness"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.5,
		},
		{
			ID:           "backward_compatibility_test",
			Description:  "Verify backward compatibility with previous versions",
			Dimensions:   []string{"compatibility"},
			Dependencies: []string{"api_contract_test"},
			RiskWeight:   1.8,
		},
		{
			ID:           "integration_test",
			Description:  "Verify integration with external systems",
			Dimensions:   []string{"compatibility"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.5,
		},
		{
			ID:           "documentation_accuracy_check",
			Description:  "Verify documentation matches actual behavior",
			Dimensions:   []string{"documentation"},
			Dependencies: []string{"baseline_correctness_check"},
			RiskWeight:   1.0,
		},
		{
			ID:           "api_documentation_completeness",
			Description:  "Verify all API endpoints are documented",
			Dimensions:   []string{"documentation"},
			Dependencies: nil,
			RiskWeight:   1.0,
		},
		{
			ID:           "example_code_verification",
			Description:  "Verify example code in documentation works",
			Dimensions:   []string{"documentation", "correctness"},
			Dependencies: []string{"documentation_accuracy_check"},
			RiskWeight:   1.2,
		},
	}
}
