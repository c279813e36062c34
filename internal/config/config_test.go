package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: "courtdesk-test"
facility:
  courts: [1, 2, 3]
users:
  - name: "Admin User"
    email: "admin@example.com"
    password: "password"
    role: "admin"
  - name: "Staff User"
    email: "staff@example.com"
    password: "password"
    role: "staff"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "courtdesk-test" {
		t.Errorf("expected app name courtdesk-test, got %s", cfg.App.Name)
	}
	if len(cfg.Facility.Courts) != 3 {
		t.Errorf("expected 3 courts, got %d", len(cfg.Facility.Courts))
	}
	if cfg.API.Port != 8080 {
		t.Errorf("expected default api port 8080, got %d", cfg.API.Port)
	}
	if cfg.Exports.Path != "exports" {
		t.Errorf("expected default exports path, got %s", cfg.Exports.Path)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("COURTDESK_ADMIN_PASSWORD", "s3cret")

	yamlContent := `
facility:
  courts: [1]
users:
  - name: "Admin User"
    email: "admin@example.com"
    password: "${COURTDESK_ADMIN_PASSWORD}"
    role: "admin"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Users[0].Password != "s3cret" {
		t.Errorf("expected expanded password, got %s", cfg.Users[0].Password)
	}
}

func TestValidateConfig(t *testing.T) {
	adminUser := UserConfig{Name: "Admin", Email: "a@example.com", Password: "p", Role: "admin"}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Facility: FacilityConfig{Courts: []int{1, 2}},
				Users:    []UserConfig{adminUser},
			},
			wantErr: false,
		},
		{
			name: "no courts",
			cfg: Config{
				Users: []UserConfig{adminUser},
			},
			wantErr: true,
		},
		{
			name: "duplicate court",
			cfg: Config{
				Facility: FacilityConfig{Courts: []int{1, 1}},
				Users:    []UserConfig{adminUser},
			},
			wantErr: true,
		},
		{
			name: "no admin",
			cfg: Config{
				Facility: FacilityConfig{Courts: []int{1}},
				Users:    []UserConfig{{Name: "S", Email: "s@example.com", Password: "p", Role: "staff"}},
			},
			wantErr: true,
		},
		{
			name: "unknown role",
			cfg: Config{
				Facility: FacilityConfig{Courts: []int{1}},
				Users:    []UserConfig{{Name: "X", Email: "x@example.com", Password: "p", Role: "owner"}},
			},
			wantErr: true,
		},
		{
			name: "duplicate email",
			cfg: Config{
				Facility: FacilityConfig{Courts: []int{1}},
				Users:    []UserConfig{adminUser, adminUser},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
