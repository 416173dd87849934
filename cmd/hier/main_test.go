package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hier.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runHier(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cfg := writeConfig(t, "[provider]\nfixture = \"jdk8\"\n")
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--color", "off", "--config", cfg}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, _, err := runHier(t, "resolve", "--runtime", "java.lang.Integer")
	require.NoError(t, err)
	assert.Contains(t, out, "runtime: 8 (1.8)")
	assert.Contains(t, out, "java/lang/Integer")
	assert.Contains(t, out, "public final (0x0011)")
	assert.Contains(t, out, "java.lang.Number")
	assert.Contains(t, out, "java.lang.Comparable")

	_, _, err = runHier(t, "resolve", "no.such.Type")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no.such.Type")
}

func TestQueryCommands(t *testing.T) {
	out, _, err := runHier(t, "common", "java.util.HashMap", "java.util.EnumMap")
	require.NoError(t, err)
	assert.Equal(t, "java.util.AbstractMap\n", out)

	out, _, err = runHier(t, "assignable", "java.lang.Number", "java.lang.Integer")
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Number <- java.lang.Integer: yes\n", out)

	out, _, err = runHier(t, "assignable", "java.lang.Integer", "java.lang.Number")
	require.NoError(t, err)
	assert.Contains(t, out, ": no")

	out, _, err = runHier(t, "interfaces", "java.util.ArrayList")
	require.NoError(t, err)
	assert.Equal(t, []string{"java.util.List", "java.util.RandomAccess", "java.lang.Cloneable", "java.io.Serializable"},
		strings.Fields(out))

	out, _, err = runHier(t, "interfaces", "--all", "java.util.ArrayList")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 6)
	assert.Contains(t, out, "java.lang.Iterable")
}

func TestInterfacesRunsOnlyRequestedQuery(t *testing.T) {
	_, errOut, err := runHier(t, "--trace-level", "phase", "interfaces", "--all", "java.util.ArrayList")
	require.NoError(t, err)
	assert.Contains(t, errOut, "→ all_interfaces")
	assert.NotContains(t, errOut, "→ interfaces")

	_, errOut, err = runHier(t, "--trace-level", "phase", "interfaces", "java.util.ArrayList")
	require.NoError(t, err)
	assert.Contains(t, errOut, "→ interfaces")
	assert.NotContains(t, errOut, "all_interfaces")
}

func TestGraphCommand(t *testing.T) {
	out, _, err := runHier(t, "graph", "java.lang.Integer")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph {\n"))
	assert.Contains(t, out, `  "java.lang.Integer" -> "java.lang.Number";`)
	assert.Contains(t, out, `  "java.lang.Integer" -> "java.lang.Comparable" [style=dashed];`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestWarmCommand(t *testing.T) {
	out, _, err := runHier(t, "warm", "--ui", "off", "-j", "2", "java.lang.String", "java.util.TreeMap")
	require.NoError(t, err)
	assert.Contains(t, out, "ok java.lang.String")
	assert.Contains(t, out, "ok java.util.TreeMap")
	assert.Contains(t, out, "classes cached")

	out, _, err = runHier(t, "warm", "--ui", "off", "--keep-going", "java.lang.String", "no.such.Type")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 classes failed")
	assert.Contains(t, out, "ok java.lang.String")
	assert.Contains(t, out, "error no.such.Type")

	out, _, err = runHier(t, "warm", "--ui", "off", "java.lang.String", "java.util.TreeMap", " java.lang.String")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "ok java.lang.String"), out)

	_, _, err = runHier(t, "warm", "--ui", "sometimes", "java.lang.String")
	require.Error(t, err)
}

func TestFixtureExportRoundTrip(t *testing.T) {
	dir := t.TempDir()

	tomlOut, _, err := runHier(t, "fixture", "export")
	require.NoError(t, err)
	assert.Contains(t, tomlOut, `runtime = "1.8"`)

	tomlPath := filepath.Join(dir, "copy.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlOut), 0o644))
	out, _, err := runHier(t, "--fixture", tomlPath, "common", "java.lang.Integer", "java.lang.Long")
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Number\n", out)

	mpPath := filepath.Join(dir, "copy.msgpack")
	_, _, err = runHier(t, "fixture", "export", "--format", "msgpack", "-o", mpPath)
	require.NoError(t, err)
	out, _, err = runHier(t, "--fixture", mpPath, "resolve", "java.lang.Thread$State")
	require.NoError(t, err)
	assert.Contains(t, out, "java/lang/Thread$State")

	_, _, err = runHier(t, "fixture", "export", "--format", "msgpack")
	require.Error(t, err)
}

func TestFixtureList(t *testing.T) {
	out, _, err := runHier(t, "fixture", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "jdk17"))
	assert.True(t, strings.HasPrefix(lines[1], "jdk8"))
}

func TestVersionJSON(t *testing.T) {
	out, _, err := runHier(t, "version", "--format", "json")
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.NotEmpty(t, payload["version"])
}

func TestTraceAndTimings(t *testing.T) {
	_, errOut, err := runHier(t, "--trace-level", "phase", "--timings", "common", "java.lang.Integer", "java.lang.Long")
	require.NoError(t, err)
	assert.Contains(t, errOut, "common_superclass")
	assert.Contains(t, errOut, "hier common")
	assert.Contains(t, errOut, "timings:")
	assert.Contains(t, errOut, "load fixture")
	assert.Contains(t, errOut, "cached classes")
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	_, _, err := runHier(t, "--cpuprofile", cpu, "--memprofile", mem, "resolve", "java.lang.Object")
	require.NoError(t, err)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}

func TestRingDumpOnFailure(t *testing.T) {
	_, errOut, err := runHier(t, "--trace-level", "detail", "--trace-mode", "ring", "resolve", "no.such.Type")
	require.Error(t, err)
	assert.Contains(t, errOut, "last events before failure")
	assert.Contains(t, errOut, "resolve.miss")
}

func TestFlagValidation(t *testing.T) {
	_, _, err := runHier(t, "--color", "rainbow", "version")
	require.Error(t, err)

	_, _, err = runHier(t, "--trace-level", "loud", "common", "a", "b")
	require.Error(t, err)

	_, _, err = runHier(t, "--fixture", "", "resolve", "java.lang.Object")
	require.Error(t, err)
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.False(t, shouldUseTUI(uiModeAuto, &bytes.Buffer{}))
	assert.True(t, shouldUseTUI(uiModeOn, &bytes.Buffer{}))
}

func TestUniqueIDs(t *testing.T) {
	got := uniqueIDs([]string{"java.lang.String", "int[]", "java.lang.String", " int[] ", "java.util.List"})
	assert.Equal(t, []string{"java.lang.String", "int[]", "java.util.List"}, got)
}
