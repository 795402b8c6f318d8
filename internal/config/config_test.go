package config

import "testing"

func TestParseFullSurface(t *testing.T) {
	raw := map[string]string{
		KeyTargetFileSizeBytes:       "134217728",
		KeyMinFileSizeBytes:          "100663296",
		KeyMaxFileSizeBytes:          "241591910",
		KeyMinInputFiles:             "5",
		KeyMaxFileGroupSizeBytes:     "1073741824",
		KeyMaxConcurrentActions:      "4",
		KeyPartialProgressEnabled:    "true",
		KeyPartialProgressMaxCommits: "10",
	}

	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Planning.TargetFileSize != 134217728 {
		t.Errorf("TargetFileSize = %d", p.Planning.TargetFileSize)
	}
	if p.Planning.MinInputFiles != 5 {
		t.Errorf("MinInputFiles = %d", p.Planning.MinInputFiles)
	}
	if !p.Rewrite.PartialProgressEnabled {
		t.Error("PartialProgressEnabled = false, want true")
	}
	if p.Rewrite.MaxCommits != 10 {
		t.Errorf("MaxCommits = %d", p.Rewrite.MaxCommits)
	}
}

func TestParseUnknownKeyRejected(t *testing.T) {
	_, err := Parse(map[string]string{"not-a-real-key": "1"})
	if err == nil {
		t.Fatal("want error for unknown key, got nil")
	}
	var verr *ValidationError
	if !asValidationError(err, &verr) {
		t.Fatalf("want *ValidationError, got %T: %v", err, err)
	}
	if verr.Key != "not-a-real-key" {
		t.Errorf("Key = %q", verr.Key)
	}
}

func TestParseMalformedIntRejected(t *testing.T) {
	_, err := Parse(map[string]string{KeyTargetFileSizeBytes: "not-a-number"})
	if err == nil {
		t.Fatal("want error, got nil")
	}
}

func TestParseMalformedBoolRejected(t *testing.T) {
	_, err := Parse(map[string]string{KeyPartialProgressEnabled: "maybe"})
	if err == nil {
		t.Fatal("want error, got nil")
	}
}

func TestParseEmptyMapLeavesZeroValues(t *testing.T) {
	p, err := Parse(map[string]string{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Planning.TargetFileSize != 0 || p.Rewrite.MaxConcurrentGroups != 0 {
		t.Errorf("want zero-valued Parsed, got %+v", p)
	}
}

func asValidationError(err error, out **ValidationError) bool {
	verr, ok := err.(*ValidationError)
	if !ok {
		return false
	}
	*out = verr
	return true
}
