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

	"github.com/robertftenbosch/tenbio/internal/abif"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFixtures(t *testing.T) (readPath, partsPath string) {
	t.Helper()
	dir := t.TempDir()
	readPath = filepath.Join(dir, "clone.fastq")
	seq := "ACGTACGTTTTAGGGG"
	require.NoError(t, os.WriteFile(readPath, []byte("@clone1\n"+seq+"\n+\n"+strings.Repeat("5", len(seq))+"\n"), 0o644))
	partsPath = filepath.Join(dir, "design.json")
	require.NoError(t, os.WriteFile(partsPath, []byte(`[
		{"name": "p1", "type": "promoter", "sequence": "ACGTACGT"},
		{"name": "g1", "type": "gene", "sequence": "TTTTGGGG"}]`), 0o644))
	return readPath, partsPath
}

func TestVerifyCommand(t *testing.T) {
	readPath, partsPath := writeFixtures(t)
	samPath := filepath.Join(t.TempDir(), "out.sam")

	out, err := run(t, "verify", readPath, "--parts", partsPath, "--sam", samPath)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Similarity: 93.8%")
	assert.Contains(t, out, "CIGAR:      11=1X4=")
	assert.Contains(t, out, "g1")

	sam, err := os.ReadFile(samPath)
	require.NoError(t, err)
	assert.Contains(t, string(sam), "@SQ\tSN:construct\tLN:16")
	assert.Contains(t, string(sam), "11=1X4=")
}

func TestVerifyCommandJSON(t *testing.T) {
	readPath, partsPath := writeFixtures(t)

	out, err := run(t, "verify", readPath, "-p", partsPath, "--json")
	require.NoError(t, err, out)

	var resp map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "clone1", resp["parse_result"]["read_name"])
	assert.Equal(t, 20.0, resp["parse_result"]["avg_quality"])
	assert.Equal(t, 93.8, resp["alignment"]["overall_similarity"])
}

func TestVerifyCommandErrors(t *testing.T) {
	readPath, partsPath := writeFixtures(t)

	_, err := run(t, "verify", readPath)
	require.Error(t, err)

	_, err = run(t, "verify", filepath.Join(t.TempDir(), "missing.fastq"), "--parts", partsPath)
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0o644))
	_, err = run(t, "verify", readPath, "--parts", empty)
	require.ErrorContains(t, err, "no parts")
}

func TestInspectCommand(t *testing.T) {
	readPath, _ := writeFixtures(t)

	out, err := run(t, "inspect", readPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Read:     clone1")
	assert.Contains(t, out, "Length:   16 bp")
	assert.Contains(t, out, "Category: Medium")
	assert.Contains(t, out, "Q20+:     100.0%")
	assert.NotContains(t, out, "Trace:")

	out, err = run(t, "inspect", readPath, "--json")
	require.NoError(t, err, out)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "fastq", report["format"])
}

func TestInspectCommandTrace(t *testing.T) {
	content := abif.NewBuilder().
		AddChars("PBAS", 2, "GATTACA").
		Add("PCON", 2, abif.TypeChar, 1, []byte{40, 40, 40, 40, 12, 12, 12}).
		AddPString("SMPL", 1, "well-C4").
		AddShorts("DATA", 9, []int16{100, 2500, 300}).
		Bytes()
	path := filepath.Join(t.TempDir(), "well.ab1")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	out, err := run(t, "inspect", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Read:     well-C4")
	assert.Contains(t, out, "Format:   ab1")
	assert.Contains(t, out, "Q20+:     57.1%")
	assert.Contains(t, out, "Trace:    4 tags, 1 channel of 3 points, peak signal 2,500")
}

func TestInspectCommandBadSettings(t *testing.T) {
	readPath, _ := writeFixtures(t)
	t.Setenv("SEQVERIFY_SCORING_MATCH", "-1")

	_, err := run(t, "inspect", readPath)
	require.ErrorContains(t, err, "scoring")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "seqverify v")
}
