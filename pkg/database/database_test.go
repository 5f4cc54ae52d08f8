package database

import (
	"testing"

	"projectgreen_backend/internal/config"
)

func TestShouldMigrate(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		force bool
		want  bool
	}{
		{"debug migrates", "debug", false, true},
		{"release skips", "release", false, false},
		{"release with force migrates", "release", true, true},
		{"debug with force migrates", "debug", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{ForceMigrate: tt.force}
			cfg.Server.Mode = tt.mode
			if got := shouldMigrate(cfg); got != tt.want {
				t.Errorf("shouldMigrate(mode=%s, force=%t) = %t, want %t", tt.mode, tt.force, got, tt.want)
			}
		})
	}
}
