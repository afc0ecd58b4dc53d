package version

import "testing"

func TestGetFullVersion(t *testing.T) {
	defer func(v, c, d string) { Version, GitCommit, BuildDate = v, c, d }(Version, GitCommit, BuildDate)

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"dev", "unknown", "unknown", "dev"},
		{"dev", "abc123", "2025-01-01", "dev"},
		{"1.2.0", "unknown", "unknown", "1.2.0"},
		{"1.2.0", "abc123", "unknown", "1.2.0 (abc123)"},
		{"1.2.0", "abc123", "2025-01-01", "1.2.0 (abc123, built 2025-01-01)"},
	}

	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := GetFullVersion(); got != tt.want {
			t.Errorf("GetFullVersion() = %q, want %q", got, tt.want)
		}
		if got := GetVersion(); got != tt.version {
			t.Errorf("GetVersion() = %q, want %q", got, tt.version)
		}
	}
}
