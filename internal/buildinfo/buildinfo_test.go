package buildinfo

import "testing"

func TestShort(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	tests := []struct {
		version, commit, want string
	}{
		{"v1.2.0", "abc123", "v1.2.0"},
		{"dev", "abc123", "abc123"},
		{"dev", "unknown", "dev"},
		{"", "", "dev"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := Short(); got != tt.want {
			t.Fatalf("Short() with %q/%q = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}

func TestLong(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	Version, Commit, Date = "v1.0.0", "abc123", "2024-05-01"
	if got, want := Long(), "v1.0.0 (commit abc123, built 2024-05-01)"; got != want {
		t.Fatalf("Long() = %q, want %q", got, want)
	}
}
