package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensorann/blobstore"
	"github.com/hupe1980/tensorann/dataset"
)

// run executes the CLI against a local store in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args,
		"--config", filepath.Join(dir, "tensorann.yaml"),
		"--store", "local",
		"--root", filepath.Join(dir, "data"),
	))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "generate", "--n", "50", "--d", "4", "--data-seed", "1", "--compression", "zstd")
	require.NoError(t, err)
	assert.Equal(t, "wrote dimension_4/sample_50.bin (50 vectors, dimension 4)\n", out)

	store := dataset.NewStore(blobstore.NewLocalStore(filepath.Join(dir, "data")))
	current, err := store.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dimension_4/sample_50.bin", current)

	data, err := store.Load(context.Background(), current)
	require.NoError(t, err)
	assert.Len(t, data, 50)
}

func TestQueryCmd_GeneratesMissingDataset(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "query", "--json",
		"--n", "60", "--d", "5",
		"--kind", "top1", "--alpha", "0.9", "--beta", "0.8", "--theta", "0.2", "--seed", "3")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "dimension_5/sample_60.bin", res["dataset"])
	assert.Equal(t, "top1", res["kind"])
	assert.Equal(t, "point 0", res["query"])
	if res["found"] == true {
		assert.GreaterOrEqual(t, res["similarity"], 0.8)
	}

	names, err := blobstore.NewLocalStore(filepath.Join(dir, "data")).List(context.Background(), "dimension_5/")
	require.NoError(t, err)
	assert.Equal(t, []string{"dimension_5/sample_60.bin"}, names)
}

func TestQueryCmd_Current(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "generate", "--n", "40", "--d", "3", "--data-seed", "2")
	require.NoError(t, err)

	out, err := run(t, dir, "query", "--current", "--kind", "tensor", "--fast",
		"--alpha", "0.9", "--beta", "0.8", "--theta", "0.2", "--seed", "5", "--random-query")
	require.NoError(t, err)
	assert.Contains(t, out, "tensor index over dimension_3/sample_40.bin")
}

func TestQueryCmd_All(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "query", "--all", "--json",
		"--n", "50", "--d", "4",
		"--kind", "close", "--alpha", "0.9", "--beta", "0.8", "--theta", "0.2", "--seed", "1")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, float64(50), res["queries"])
	assert.Equal(t, 1.0, res["exact_hit_rate"])
	assert.LessOrEqual(t, res["hit_rate"], 1.0)
}

func TestQueryCmd_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "query", "--kind", "hnsw", "--n", "10", "--d", "2")
	assert.Error(t, err)

	_, err = run(t, dir, "query", "--beta", "0.95", "--n", "10", "--d", "2")
	assert.Error(t, err)

	_, err = run(t, dir, "query", "--query-index", "99", "--n", "10", "--d", "2",
		"--alpha", "0.9", "--beta", "0.8", "--theta", "0.2")
	assert.Error(t, err)
}

func TestBaselineCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "baseline", "--n", "30", "--d", "4", "--beta", "0.5", "--data-seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "best point 0, inner product 1.000000")
	assert.Contains(t, out, "first point above beta=0.5: 0, inner product 1.000000")
}

func TestUnknownStore(t *testing.T) {
	cmd := NewRootCmd("test")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"generate", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--store", "ftp"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
