package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
	}{
		{"yaml", "plan.yaml", "profile:\n  capacity: 512\n  producers: 3\npayload_size: 48\n"},
		{"json", "plan.json", `{"profile":{"capacity":512,"producers":3},"payload_size":48}`},
		{"sniff json", "plan", `{"profile":{"capacity":512,"producers":3},"payload_size":48}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var plan Plan
			if err := ParseRequest([]byte(tt.data), tt.filename, &plan); err != nil {
				t.Fatalf("ParseRequest error: %v", err)
			}
			if plan.Profile.Capacity != 512 || plan.Profile.Producers != 3 || plan.PayloadSize != 48 {
				t.Errorf("plan = %+v", plan)
			}
		})
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	var plan Plan
	if err := ParseRequest([]byte("{not json"), "plan.json", &plan); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "burst.yaml")
	if err := os.WriteFile(path, []byte("profile:\n  timeout_ms: 5000\nduration_limit_ms: 100\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var plan Plan
	if err := LoadRequest(path, &plan); err != nil {
		t.Fatalf("LoadRequest error: %v", err)
	}
	if plan.Profile.TimeoutMS != 5000 || plan.DurationLimitMS != 100 {
		t.Errorf("plan = %+v", plan)
	}

	if err := LoadRequest(filepath.Join(t.TempDir(), "missing.yaml"), &plan); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPlan_Merge(t *testing.T) {
	base := DefaultProfile()
	plan := Plan{Profile: Profile{Capacity: 64, TimeoutMS: 20}}

	got := plan.Merge(base)
	if got.Capacity != 64 || got.TimeoutMS != 20 {
		t.Errorf("overrides not applied: %+v", got)
	}
	if got.Chunk != base.Chunk || got.Producers != base.Producers || got.Name != base.Name {
		t.Errorf("base fields lost: %+v", got)
	}
}
