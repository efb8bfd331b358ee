package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigraph/internal/ontology"
	"verigraph/internal/trace"
)

const cyclicOntology = `version: "cyclic-1"
tasks:
  - id: A
    dimensions: [x]
    dependencies: [B]
  - id: B
    dimensions: [x]
    dependencies: [A]
`

const danglingOntology = `version: "dangling-1"
tasks:
  - id: A
    dimensions: [x]
    dependencies: [ghost]
`

type cliRun struct {
	code   int
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, args ...string) cliRun {
	t.Helper()
	var stdout, stderr bytes.Buffer
	res, err := Run(context.Background(), args, &stdout, &stderr)
	return cliRun{code: res.ExitCode, stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestRun_SelectText(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"performance": 0.8, "correctness": 0.3}}`)

	r := runCLI(t, "select", "-c", in)
	require.NoError(t, r.err)
	require.Equal(t, ExitSuccess, r.code)

	got := lines(r.stdout)
	assert.Len(t, got, 20)
	assert.Equal(t, "baseline_correctness_check", got[0])
	assert.Contains(t, got, "throughput_benchmark")
}

func TestRun_SelectIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"security": 0.6, "scalability": 0.9, "documentation": 0.2}}`)

	first := runCLI(t, "select", "-c", in, "--format", "json")
	require.NoError(t, first.err)
	for i := 0; i < 3; i++ {
		again := runCLI(t, "select", "-c", in, "--format", "json")
		require.NoError(t, again.err)
		if first.stdout != again.stdout {
			t.Fatalf("output differs between runs:\n%s\n---\n%s", first.stdout, again.stdout)
		}
	}
}

func TestRun_SelectJSON(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"security": 0.5}, "red_flags": ["unverifiable benchmark"]}`)

	r := runCLI(t, "select", "-c", in, "--format", "json")
	require.NoError(t, r.err)

	var out selectionOutput
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &out))
	assert.Equal(t, ontology.BuiltinVersion, out.OntologyVersion)
	assert.Equal(t, ontology.Builtin().Hash(), out.OntologyHash)
	assert.Len(t, out.Tasks, 8)
	assert.Equal(t, []string{"security"}, out.ActiveDimensions)
	assert.Empty(t, out.Truncated)
	assert.NotEmpty(t, out.TraceHash)
	assert.Equal(t, []string{"mandatory", "required as dependency of: auth_boundary_test"}, out.Reasons["baseline_correctness_check"])
}

func TestRun_SelectPlan(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"documentation": 0.1}}`)

	r := runCLI(t, "select", "-c", in, "--format", "plan")
	require.NoError(t, r.err)

	var out planOutput
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &out))
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "baseline_correctness_check", out.Tasks[0].ID)
	assert.Equal(t, 3, out.Tasks[0].MinValidators)
	assert.Equal(t, 45, out.TotalEstimatedMinutes)
}

func TestRun_SelectBatch(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "batch.json", `[
		{"dimensions": {"documentation": 0.1}},
		{"dimensions": {"reproducibility": 0.9}}
	]`)

	r := runCLI(t, "select", "-c", in)
	require.NoError(t, r.err)
	got := lines(r.stdout)
	assert.Equal(t, "# classification 0", got[0])
	assert.Equal(t, "baseline_correctness_check", got[1])
	assert.Equal(t, "# classification 1", got[2])
	assert.Contains(t, got, "build_reproducibility_test")

	r = runCLI(t, "select", "-c", in, "--trace", filepath.Join(dir, "t.json"))
	assert.Equal(t, ExitInvalidInvocation, r.code)
}

func TestRun_SelectNoMandatoryFlag(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"documentation": 0.1}}`)

	r := runCLI(t, "--no-mandatory", "select", "-c", in)
	require.NoError(t, r.err)
	assert.Empty(t, strings.TrimSpace(r.stdout))
}

func TestRun_TraceAndReplay(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"performance": 0.9, "security": 0.9}}`)
	tracePath := filepath.Join(dir, "trace.json")

	r := runCLI(t, "--max-tasks", "6", "select", "-c", in, "--trace", tracePath)
	require.NoError(t, r.err)
	assert.Len(t, lines(r.stdout), 6)

	// Replay uses the recorded settings, not the current flags.
	r = runCLI(t, "replay", "--trace", tracePath)
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "ok "), r.stdout)

	tr, err := trace.ReadFile(tracePath)
	require.NoError(t, err)
	tr.Selected = tr.Selected[:len(tr.Selected)-1]
	require.NoError(t, trace.WriteFile(tracePath, tr))

	r = runCLI(t, "replay", "--trace", tracePath)
	assert.Equal(t, ExitSelectionFailure, r.code)
}

func TestRun_ReplayAgainstOtherOntology(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"x": 1}}`)
	ont := writeFile(t, dir, "o.yaml", danglingOntology)
	tracePath := filepath.Join(dir, "trace.json")

	r := runCLI(t, "--ontology", ont, "select", "-c", in, "--trace", tracePath)
	require.NoError(t, r.err)

	r = runCLI(t, "replay", "--trace", tracePath)
	assert.Equal(t, ExitSelectionFailure, r.code)
}

func TestRun_TraceStore(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "traces")
	cfg := writeFile(t, dir, "verigraph.yaml", "trace:\n  dir: "+store+"\ncache:\n  size: 0\n")
	in := writeFile(t, dir, "c.json", `{"dimensions": {"reliability": 0.7}}`)

	r := runCLI(t, "--config", cfg, "select", "-c", in, "--format", "json")
	require.NoError(t, r.err)
	var out selectionOutput
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &out))

	_, err := os.Stat(filepath.Join(store, out.TraceHash+".json"))
	require.NoError(t, err)

	r = runCLI(t, "--config", cfg, "replay", "--hash", out.TraceHash)
	require.NoError(t, r.err)
	assert.Equal(t, "ok "+out.TraceHash+"\n", r.stdout)

	r = runCLI(t, "replay", "--hash", out.TraceHash)
	assert.Equal(t, ExitConfigError, r.code)
}

func TestRun_Explain(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"documentation": 0.1}}`)

	r := runCLI(t, "explain", "-c", in)
	require.NoError(t, r.err)
	assert.Equal(t, "baseline_correctness_check\n  - mandatory\n", r.stdout)

	r = runCLI(t, "explain", "-c", in, "--format", "json")
	require.NoError(t, r.err)
	var out explanationOutput
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &out))
	assert.Equal(t, []string{"baseline_correctness_check"}, out.Tasks)
}

func TestRun_Coverage(t *testing.T) {
	r := runCLI(t, "coverage",
		"--executed", "baseline_correctness_check",
		"--required", "baseline_correctness_check,cold_start_test")
	require.NoError(t, r.err)
	assert.Equal(t, "0.6667\n", r.stdout)

	r = runCLI(t, "coverage")
	require.NoError(t, r.err)
	assert.Equal(t, "1.0000\n", r.stdout)

	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"documentation": 0.1}}`)
	r = runCLI(t, "coverage", "-c", in, "--executed", "baseline_correctness_check")
	require.NoError(t, r.err)
	assert.Equal(t, "1.0000\n", r.stdout)

	r = runCLI(t, "coverage", "-c", in, "--required", "a")
	assert.Equal(t, ExitInvalidInvocation, r.code)
}

func TestRun_OntologyCommands(t *testing.T) {
	r := runCLI(t, "ontology", "hash")
	require.NoError(t, r.err)
	assert.Equal(t, ontology.BuiltinVersion+" "+ontology.Builtin().Hash()+"\n", r.stdout)

	r = runCLI(t, "ontology", "validate")
	require.NoError(t, r.err)
	assert.Equal(t, "ok 2.0.0 (31 tasks)\n", r.stdout)

	r = runCLI(t, "ontology", "show", "--match", "*_benchmark", "--format", "json")
	require.NoError(t, r.err)
	var doc ontology.File
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &doc))
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, "throughput_benchmark", doc.Tasks[0].ID)

	r = runCLI(t, "ontology", "show", "--dimension", "documentation")
	require.NoError(t, r.err)
	reparsed, err := ontology.Parse([]byte(r.stdout))
	require.NoError(t, err)
	assert.Equal(t, []string{"api_documentation_completeness", "documentation_accuracy_check", "example_code_verification"}, reparsed.AllIDs())

	r = runCLI(t, "ontology", "show", "--match", "[")
	assert.Equal(t, ExitInvalidInvocation, r.code)

	r = runCLI(t, "ontology")
	assert.Equal(t, ExitInvalidInvocation, r.code)
}

func TestRun_CyclicOntology(t *testing.T) {
	dir := t.TempDir()
	ont := writeFile(t, dir, "o.yaml", cyclicOntology)
	in := writeFile(t, dir, "c.json", `{"dimensions": {"x": 1}}`)

	r := runCLI(t, "--ontology", ont, "select", "-c", in)
	assert.Equal(t, ExitSelectionFailure, r.code)
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "unresolved tasks [A, B]")
	assert.Contains(t, r.stderr, "ontology cycle detected")

	r = runCLI(t, "--ontology", ont, "ontology", "validate")
	assert.Equal(t, ExitSelectionFailure, r.code)
}

func TestRun_StrictReferences(t *testing.T) {
	dir := t.TempDir()
	ont := writeFile(t, dir, "o.yaml", danglingOntology)
	in := writeFile(t, dir, "c.json", `{"dimensions": {"x": 1}}`)

	r := runCLI(t, "--ontology", ont, "select", "-c", in)
	require.NoError(t, r.err)
	assert.Equal(t, "A\n", r.stdout)

	r = runCLI(t, "--ontology", ont, "--strict-refs", "select", "-c", in)
	assert.Equal(t, ExitSelectionFailure, r.code)
}

func TestRun_Metrics(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"security": 0.5}}`)

	r := runCLI(t, "--metrics", "select", "-c", in)
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "verigraph_selections_total 1")
	assert.Contains(t, r.stderr, "verigraph_cache_misses_total 1")

	batch := writeFile(t, dir, "batch.json", `[{"dimensions": {"security": 0.5}}, {"dimensions": {"security": 0.5}}]`)
	r = runCLI(t, "--metrics", "select", "-c", batch)
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "verigraph_selections_total 2")
}

func TestRun_InvalidInvocation(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"security": 0.5}}`)
	outOfRange := writeFile(t, dir, "bad.json", `{"dimensions": {"security": 1.5}}`)
	unknownField := writeFile(t, dir, "unknown.json", `{"dimensions": {}, "confidence": 0.9}`)

	for name, args := range map[string][]string{
		"no command":         nil,
		"unknown command":    {"frobnicate"},
		"unknown flag":       {"select", "--nope"},
		"missing input":      {"select"},
		"missing file":       {"select", "-c", filepath.Join(dir, "absent.json")},
		"bad format":         {"select", "-c", in, "--format", "xml"},
		"out of range":       {"select", "-c", outOfRange},
		"unknown field":      {"select", "-c", unknownField},
		"positional args":    {"select", "-c", in, "extra"},
		"replay needs input": {"replay"},
	} {
		t.Run(name, func(t *testing.T) {
			r := runCLI(t, args...)
			if r.code != ExitInvalidInvocation {
				t.Fatalf("exit code = %d, want %d (err: %v)", r.code, ExitInvalidInvocation, r.err)
			}
		})
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"security": 0.5}}`)
	badCfg := writeFile(t, dir, "bad.yaml", "selection:\n  maxtasks: 3\n")
	badOnt := writeFile(t, dir, "bad-ontology.yaml", "version: v\ntasks: []\n")

	for name, args := range map[string][]string{
		"zero max tasks":      {"--max-tasks", "0", "select", "-c", in},
		"bad truncation":      {"--truncation", "random", "select", "-c", in},
		"unknown cfg field":   {"--config", badCfg, "select", "-c", in},
		"missing cfg":         {"--config", filepath.Join(dir, "absent.yaml"), "select", "-c", in},
		"missing ontology":    {"--ontology", filepath.Join(dir, "absent.yaml"), "select", "-c", in},
		"empty ontology":      {"--ontology", badOnt, "select", "-c", in},
		"cap below mandatory": {"--max-tasks", "1", "--ontology", writeFile(t, dir, "two.yaml", "version: v\ntasks:\n  - id: a\n    mandatory: true\n  - id: b\n    mandatory: true\n"), "select", "-c", in},
	} {
		t.Run(name, func(t *testing.T) {
			r := runCLI(t, args...)
			if r.code != ExitConfigError {
				t.Fatalf("exit code = %d, want %d (err: %v)", r.code, ExitConfigError, r.err)
			}
		})
	}
}

func TestRun_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "c.json", `{"dimensions": {"performance": 0.9}}`)
	t.Setenv("VERIGRAPH_MAX_TASKS", "3")

	r := runCLI(t, "select", "-c", in)
	require.NoError(t, r.err)
	assert.Len(t, lines(r.stdout), 3)

	// Flags win over the environment.
	r = runCLI(t, "--max-tasks", "4", "select", "-c", in)
	require.NoError(t, r.err)
	assert.Len(t, lines(r.stdout), 4)
}
