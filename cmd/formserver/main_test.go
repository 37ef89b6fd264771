package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const legacyDocument = `fields:
  - id: e
    type: email
    label: Email
    name: email
    required: true
`

func TestMigrateLegacyDocument(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "login.yaml")
	out := filepath.Join(dir, "login.json")
	if err := os.WriteFile(in, []byte(legacyDocument), 0644); err != nil {
		t.Fatalf("Failed to write document: %s", err.Error())
	}

	cmd := MigrateCmd{Output: out}
	cmd.Args.File = in
	if err := cmd.Execute(nil); err != nil {
		t.Fatalf("Migration failed: %s", err.Error())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read output: %s", err.Error())
	}
	doc := make(map[string]interface{})
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Output is not JSON: %s", err.Error())
	}
	steps, ok := doc["steps"].([]interface{})
	if !ok || len(steps) != 1 {
		t.Fatalf("Output has no single step: %s", data)
	}
	if _, ok := doc["fields"]; ok {
		t.Fatalf("Output still has legacy fields: %s", data)
	}
}

func TestLintDocuments(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(good, []byte(legacyDocument), 0644)
	os.WriteFile(bad, []byte(`{"steps":[{"id":"s","title":"S","fields":[{"id":"a","type":"text","name":"x"},{"id":"a","type":"text","name":"y"}]}]}`), 0644)

	cmd := LintCmd{}
	cmd.Args.Files = []string{good}
	if err := cmd.Execute(nil); err != nil {
		t.Fatalf("Valid document rejected: %s", err.Error())
	}
	cmd.Args.Files = []string{good, bad}
	if err := cmd.Execute(nil); err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("Invalid document accepted: %v", err)
	}
}

func TestLogAction(t *testing.T) {
	msgs, err := logAction("acme", "login", map[string]string{"password": "secret", "email": "a@b.com"})
	if err != nil {
		t.Fatalf("Action failed: %s", err.Error())
	}
	if len(msgs) != 1 || strings.Contains(msgs[0], "secret") || !strings.Contains(msgs[0], "email, password") {
		t.Fatalf("Unexpected messages: %v", msgs)
	}
}
