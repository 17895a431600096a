package version

import "testing"

func TestStringAddsPrefixOnce(t *testing.T) {
	tests := []struct {
		name  string
		stamp string
		want  string
	}{
		{"bare number", "1.0.0", "v1.0.0"},
		{"tag", "v1.0.0", "v1.0.0"},
		{"unstamped", "dev", "vdev"},
		{"snapshot", "0.6.12-snapshot", "v0.6.12-snapshot"},
		{"git describe", "v0.6.12-1-gabcdef", "v0.6.12-1-gabcdef"},
		{"dirty tree", "v0.6.12-dirty", "v0.6.12-dirty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := Version
			defer func() { Version = original }()

			Version = tt.stamp
			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
