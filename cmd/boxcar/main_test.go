package main

import (
	"testing"
)

func TestProcessEmptyFolder(t *testing.T) {
	env := setupCLITestEnv(t)
	folder := t.TempDir()

	out, _, err := runCLI(t, []string{"process", folder}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Run ")
	requireContains(t, out, "Total")
}

func TestProcessMissingFolder(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"process", "/nonexistent/inbox"}, env.configPath); err == nil {
		t.Fatal("expected missing folder to fail")
	}
}

func TestExtractMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"extract", "/nonexistent/waybill.pdf"}, env.configPath); err == nil {
		t.Fatal("expected missing file to fail")
	}
}

func TestRootHelpListsCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--help"}, env.configPath)
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, name := range []string{"process", "extract", "log", "config", "status"} {
		requireContains(t, out, name)
	}
}
