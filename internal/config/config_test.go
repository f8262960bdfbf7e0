package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("expected default addr :3000, got %q", cfg.Addr)
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("expected default storage sqlite, got %q", cfg.Storage)
	}
	if cfg.UploadBackend != UploadLocal {
		t.Errorf("expected default uploads local, got %q", cfg.UploadBackend)
	}
	if cfg.AnnounceBackend != AnnounceNone {
		t.Errorf("expected default announce none, got %q", cfg.AnnounceBackend)
	}
}

func TestLoadFlagsWin(t *testing.T) {
	t.Setenv("ADDR", ":9999")

	cfg, err := Load([]string{"-addr", ":4000", "-storage", "memory"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":4000" {
		t.Errorf("flag must win over env, got %q", cfg.Addr)
	}
	if cfg.Storage != StorageMemory {
		t.Errorf("expected memory storage, got %q", cfg.Storage)
	}
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("ADDR", ":8088")
	t.Setenv("UPLOAD_DIR", "/tmp/photos")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8088" {
		t.Errorf("expected env addr, got %q", cfg.Addr)
	}
	if cfg.UploadDir != "/tmp/photos" {
		t.Errorf("expected env upload dir, got %q", cfg.UploadDir)
	}
}

func TestLoadRejectsUnknownBackends(t *testing.T) {
	if _, err := Load([]string{"-storage", "mongodb"}); err == nil {
		t.Error("expected error for unknown storage backend")
	}
	if _, err := Load([]string{"-uploads", "ftp"}); err == nil {
		t.Error("expected error for unknown upload backend")
	}
	if _, err := Load([]string{"-announce", "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown announce backend")
	}
}

func TestLoadRequiresBackendCredentials(t *testing.T) {
	if _, err := Load([]string{"-uploads", "dropbox"}); err == nil {
		t.Error("expected error for dropbox without refresh token")
	}

	t.Setenv("DROPBOX_REFRESH_TOKEN", "token")
	if _, err := Load([]string{"-uploads", "dropbox"}); err != nil {
		t.Errorf("expected dropbox config to validate, got %v", err)
	}

	if _, err := Load([]string{"-announce", "x"}); err == nil {
		t.Error("expected error for x announcements without token")
	}
}
