package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type sampleSection struct {
	Port    int    `json:"port"`
	Address string `json:"address"`
}

func TestSection(t *testing.T) {
	e := parseConfig([]byte(`{"echo_middleware": {"port": 9000}, "empty": null}`))
	if e != nil {
		t.Fatalf("parseConfig returned error: %v", e)
	}

	section := Section[sampleSection]("echo_middleware")
	if section == nil || section.Port != 9000 || section.Address != "" {
		t.Fatalf("unexpected section: %+v", section)
	}
	if Section[sampleSection]("missing") != nil {
		t.Fatal("missing section should be nil")
	}
	if Section[sampleSection]("empty") != nil {
		t.Fatal("null section should be nil")
	}
}

func TestParseConfigRejectsGarbage(t *testing.T) {
	if e := parseConfig([]byte(`{not json`)); e == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestInitializeConfigMissingFile(t *testing.T) {
	Cfg = map[string]json.RawMessage{"stale": []byte(`{}`)}
	InitializeConfig(filepath.Join(t.TempDir(), "absent.json"))
	if len(Cfg) != 0 {
		t.Fatalf("expected empty config, got %v", Cfg)
	}
}

func TestGetPackageName(t *testing.T) {
	if got := GetPackageName(); got != "config" {
		t.Fatalf("GetPackageName() = %q", got)
	}
}

func TestMissingEnvVars(t *testing.T) {
	t.Setenv("DIGIT_CAPTURE_TEST_SET", "value")
	t.Setenv("DIGIT_CAPTURE_TEST_BLANK", "  ")
	os.Unsetenv("DIGIT_CAPTURE_TEST_UNSET")

	missing := MissingEnvVars("DIGIT_CAPTURE_TEST_SET", "DIGIT_CAPTURE_TEST_BLANK", "DIGIT_CAPTURE_TEST_UNSET")
	if len(missing) != 2 || missing[0] != "DIGIT_CAPTURE_TEST_BLANK" || missing[1] != "DIGIT_CAPTURE_TEST_UNSET" {
		t.Fatalf("unexpected missing vars: %v", missing)
	}
}
