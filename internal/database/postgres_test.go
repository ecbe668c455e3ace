package database

import "testing"

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"001_initial_schema.sql", 1},
		{"012_add_tags.sql", 12},
		{"notes.sql", 0},
		{"abc_def.sql", 0},
		{"README", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := migrationVersion(tt.name); got != tt.want {
				t.Errorf("migrationVersion(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}
