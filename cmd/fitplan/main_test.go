package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/errs"
	"alcyxob/fitness-planner/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMemoryConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AI_API_KEY", "")
	t.Setenv("STORAGE_DRIVER", "")
	cfg := "storage:\n  driver: memory\nai:\n  base_url: http://127.0.0.1:1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o600))
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	s := &session{}
	defer s.close()
	cmd := rootCmd(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestDemoSave(t *testing.T) {
	dir := withMemoryConfig(t)

	out, err := run(t, dir, "demo", "--name", "Robin", "--save")
	require.NoError(t, err)
	var plan domain.FitnessPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "Robin", plan.UserName)
	assert.NotEmpty(t, plan.ID)
}

func TestPlansListEmpty(t *testing.T) {
	dir := withMemoryConfig(t)

	out, err := run(t, dir, "plans", "list")
	require.NoError(t, err)
	assert.Equal(t, "no saved plans\n", out)
}

func TestPlansShowMissing(t *testing.T) {
	dir := withMemoryConfig(t)

	_, err := run(t, dir, "plans", "show", "ghost")
	assert.ErrorIs(t, err, service.ErrPlanNotFound)
	_, err = run(t, dir, "plans", "show")
	assert.Error(t, err, "show needs an id")
}

func TestGenerateValidation(t *testing.T) {
	dir := withMemoryConfig(t)

	_, err := run(t, dir, "generate", "--name", "Sam", "--age", "8", "--weight", "70", "--height", "175", "--days", "Mon,Funday")
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	msg := describe(err)
	assert.Contains(t, msg, "age")
	assert.Contains(t, msg, "workoutDays")
}

func TestGenerateWithoutKey(t *testing.T) {
	dir := withMemoryConfig(t)

	_, err := run(t, dir, "generate", "--name", "Sam", "--age", "30", "--weight", "70", "--height", "175", "--days", "Mon,Thu")
	require.Error(t, err)
	assert.Equal(t, errs.KindMissingCredential, errs.KindOf(err))
	assert.Equal(t, "Please set your Gemini API key in Settings first.", describe(err))
}

func TestAPIKeyStatus(t *testing.T) {
	dir := withMemoryConfig(t)

	out, err := run(t, dir, "apikey", "status")
	require.NoError(t, err)
	assert.Equal(t, "API key source: none\n", out)

	out, err = run(t, dir, "apikey", "set", "abc")
	require.NoError(t, err)
	assert.Equal(t, "API key stored\n", out)
}

func TestPrintPlanTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printPlanTable(&buf, []domain.FitnessPlan{{ID: "p1", Goal: "Strength", Duration: "3 Days/Week", UserName: "Robin"}}))
	assert.Contains(t, buf.String(), "ID")
	assert.Contains(t, buf.String(), "p1")
	assert.Contains(t, buf.String(), "3 Days/Week")
}
