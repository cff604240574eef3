package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JKrag/punnett-simulator/internal/platform/config"
	"github.com/JKrag/punnett-simulator/internal/platform/logger"
)

// runCLI runs the command line against a sqlite store and reports directory
// inside dir.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	base := []string{
		"--store", "sqlite",
		"--db", filepath.Join(dir, "punnett.db"),
		"--reports-dir", filepath.Join(dir, "reports"),
		"--color", "never",
	}
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append(base, args...), &stdout, &stderr)
	return stdout.String(), err
}

func TestPhenotypeCommand(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "phenotype", "bb'", "aa", "dd", "ss", "ll")
	require.NoError(t, err)
	assert.Contains(t, out, "Diluted Brown Solid with long hair")
}

func TestPhenotypeCommandRejectsForeignAllele(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "phenotype", "BB Aa DD ss LX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hair_length")
}

func TestGametesCommandJSON(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--json", "gametes", "BB Aa DD ss LL")
	require.NoError(t, err)

	var gametes []string
	require.NoError(t, json.Unmarshal([]byte(out), &gametes))
	assert.Equal(t, []string{"BADsL", "BaDsL"}, gametes)
}

func TestCrossCommandDefaults(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "cross")
	require.NoError(t, err)
	assert.Contains(t, out, "32 offspring")
}

func TestCrossCommandExplicitParents(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "cross", "--p1", "Bb Aa DD SS LL", "--p2", "Bb Aa DD SS LL", "--genotypes")
	require.NoError(t, err)
	assert.Contains(t, out, "ratio 9:3:3:1")
	assert.Contains(t, out, "Bb Aa DD SS LL")
}

func TestCrossCommandNeedsBothParents(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "cross", "--p1", "Bb Aa DD SS LL")
	require.Error(t, err)
}

func TestCrossCommandFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pair.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: mono\nparent1: Bb AA DD SS LL\nparent2: Bb AA DD SS LL\n"), 0o644))

	out, err := runCLI(t, dir, "square", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "bb AA DD SS LL")
}

func TestPairingCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "save", "--name", "litter", "--p1", "BB Aa DD ss LL", "--p2", "bb' aa Dd Ss Ll")
	require.NoError(t, err)
	id := regexp.MustCompile(`saved pairing (\S+)`).FindStringSubmatch(out)
	require.Len(t, id, 2, out)

	out, err = runCLI(t, dir, "pairings")
	require.NoError(t, err)
	assert.Contains(t, out, id[1])
	assert.Contains(t, out, "litter")

	out, err = runCLI(t, dir, "show", id[1])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "litter ("))

	out, err = runCLI(t, dir, "cross", "--pairing", id[1])
	require.NoError(t, err)
	assert.Contains(t, out, "32 offspring")

	_, err = runCLI(t, dir, "delete", id[1])
	require.NoError(t, err)

	_, err = runCLI(t, dir, "show", id[1])
	require.Error(t, err)
}

func TestReportCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "report", "--name", "first")
	require.NoError(t, err)
	assert.Contains(t, out, "written to")

	out, err = runCLI(t, dir, "reports")
	require.NoError(t, err)
	assert.Contains(t, out, "first")

	exportDir := filepath.Join(dir, "out")
	out, err = runCLI(t, dir, "export", "--latest", "--out", exportDir)
	require.NoError(t, err)
	assert.Contains(t, out, exportDir)
}

func TestReportShowCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "report", "--name", "first")
	require.NoError(t, err)
	id := regexp.MustCompile(`report (\S+) written`).FindStringSubmatch(out)
	require.Len(t, id, 2, out)

	out, err = runCLI(t, dir, "reports", "show", id[1])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "first ("+id[1]+")"), out)
	assert.Contains(t, out, "BB Aa DD ss LL x bb' aa Dd Ss Ll")
	assert.Contains(t, out, "%")

	_, err = runCLI(t, dir, "reports", "show", "../../x")
	require.ErrorContains(t, err, "invalid report id")

	_, err = runCLI(t, dir, "export", "--id", "../../x", "--out", filepath.Join(dir, "out"))
	require.ErrorContains(t, err, "invalid report id")
}

func TestShowWritesPairFile(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "save", "--name", "litter", "--p1", "BB Aa DD ss LL", "--p2", "bb' aa Dd Ss Ll")
	require.NoError(t, err)
	id := regexp.MustCompile(`saved pairing (\S+)`).FindStringSubmatch(out)
	require.Len(t, id, 2, out)

	out, err = runCLI(t, dir, "show", id[1], "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: litter")
	assert.Contains(t, out, "parent1: BB Aa DD ss LL")

	path := filepath.Join(dir, "litter.yaml")
	_, err = runCLI(t, dir, "show", id[1], "--out", path)
	require.NoError(t, err)

	out, err = runCLI(t, dir, "cross", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "32 offspring")
}

func TestPureCrossLeavesNoDatabase(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "cross", "--p1", "BB AA DD SS LL", "--p2", "bb aa dd ss ll")
	require.NoError(t, err)
	_, err = runCLI(t, dir, "square")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "punnett.db"))
	assert.True(t, os.IsNotExist(err), "pure crosses must not open the store")
}

func TestFlagsOverrideInvalidEnvironment(t *testing.T) {
	t.Setenv("PUNNETT_STORE", "bogus")
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"--store", "memory", "phenotype", "BB AA DD SS LL"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Black")

	err = run(context.Background(), []string{"phenotype", "BB AA DD SS LL"}, &stdout, &stderr)
	require.ErrorContains(t, err, `unsupported store "bogus"`)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	log, err := logger.New("error", "text", &bytes.Buffer{})
	require.NoError(t, err)

	a := &app{
		cfg: config.Config{
			Addr:       "127.0.0.1:0",
			Store:      "memory",
			ReportsDir: t.TempDir(),
		},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		log:    log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, a.serve(ctx))
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "breed")
	require.Error(t, err)
}
