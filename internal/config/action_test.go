package config

import (
	"os"
	"testing"

	"github.com/chxlky/trello-verify-action/internal/verify"
	"gopkg.in/yaml.v3"
)

type actionInput struct {
	Required bool   `yaml:"required"`
	Default  string `yaml:"default"`
}

type actionMetadata struct {
	Inputs map[string]actionInput `yaml:"inputs"`
	Runs   struct {
		Using string   `yaml:"using"`
		Args  []string `yaml:"args"`
	} `yaml:"runs"`
}

func TestActionMetadataMatchesConfig(t *testing.T) {
	data, err := os.ReadFile("../../action.yml")
	if err != nil {
		t.Fatalf("failed to read action.yml: %v", err)
	}
	var action actionMetadata
	if err := yaml.Unmarshal(data, &action); err != nil {
		t.Fatalf("failed to parse action.yml: %v", err)
	}

	d := verify.DefaultConfig()
	want := map[string]string{
		"trello_api_key":               "",
		"trello_api_token":             "",
		"github_token":                 "${{ github.token }}",
		"commit_verification_strategy": string(d.Commit),
		"title_verification_strategy":  string(d.Title),
		"noid_verification_strategy":   string(d.NoID),
	}
	if len(action.Inputs) != len(want) {
		t.Errorf("expected %d inputs, got %d", len(want), len(action.Inputs))
	}
	for name, def := range want {
		in, ok := action.Inputs[name]
		if !ok {
			t.Errorf("action.yml is missing input %q", name)
			continue
		}
		if in.Default != def {
			t.Errorf("input %q default = %q, want %q", name, in.Default, def)
		}
	}
	if !action.Inputs["trello_api_key"].Required || !action.Inputs["trello_api_token"].Required {
		t.Error("trello credentials should be required inputs")
	}

	bound := make(map[string]bool, len(keys))
	for _, k := range keys {
		bound[k] = true
	}
	for name := range action.Inputs {
		if !bound[name] {
			t.Errorf("input %q is not read by Load", name)
		}
	}

	if action.Runs.Using != "docker" || len(action.Runs.Args) != 1 || action.Runs.Args[0] != "verify" {
		t.Errorf("unexpected runs section %+v", action.Runs)
	}
}
