package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmastore/m/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCommandsRoundTrip(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	dir := t.TempDir()
	db := []string{
		"--dsn", "file:" + filepath.Join(dir, "pharmastore.db") + "?_pragma=foreign_keys(1)",
		"--lock", filepath.Join(dir, "pharmastore.lock"),
	}
	withDB := func(args ...string) []string { return append(args, db...) }

	raw, err := json.Marshal(testutil.ScenarioDocument())
	require.NoError(t, err)
	source := filepath.Join(dir, "scenario.json")
	require.NoError(t, os.WriteFile(source, raw, 0o600))

	stdout, stderr, err := execute(t, withDB("import", "--name", "Branch B", "--file", source)...)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, `Imported store "Branch B" as id 1`)
	assert.Contains(t, stderr, "[6/6] Import complete")

	csvPath := filepath.Join(dir, "drugs.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,type,price,mrp,quantity,unitPerPackage,expiryDate\nCetirizine,Tablet,1,2,30,10,2026-05-01\n"), 0o600))
	stdout, _, err = execute(t, withDB("seed", "--store-id", "1", "--csv", csvPath)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Loaded 1 drugs into store 1")

	exported := filepath.Join(dir, "exported.json")
	_, _, err = execute(t, withDB("export", "--store-id", "1", "--out", exported, "--include-history")...)
	require.NoError(t, err)

	stdout, _, err = execute(t, "validate", "--file", exported, "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "valid: true")
	assert.Contains(t, stdout, "drugs: 2")

	stdout, _, err = execute(t, "preview", "--file", exported, "--output", "text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Branch B")

	_, _, err = execute(t, withDB("import", "--name", "Branch B", "--file", exported)...)
	assert.Error(t, err)

	stdout, _, err = execute(t, withDB("import", "--name", "Branch C", "--file", exported)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "drugs:       2")
}

func TestValidateCommandReportsErrors(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"store": {"name": "Main Street"}}`), 0o600))

	stdout, _, err := execute(t, "validate", "--file", path, "--output", "text")

	assert.ErrorIs(t, err, errInvalidDocument)
	assert.Contains(t, stdout, "error(s)")
	assert.Contains(t, stdout, "drugs: is required")
}
