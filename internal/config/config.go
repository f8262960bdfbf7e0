// Package config merges command-line flags with environment variables,
// flags winning. A .env file in the working directory is loaded first so
// local development does not need exported variables.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Backend names.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"

	UploadLocal   = "local"
	UploadDropbox = "dropbox"
	UploadS3      = "s3"

	AnnounceNone = "none"
	AnnounceX    = "x"
)

// Config is the full server configuration.
type Config struct {
	Addr      string
	JWTSecret string

	Storage string
	DBPath  string

	UploadBackend string
	UploadDir     string

	DropboxClientID     string
	DropboxClientSecret string
	DropboxRefreshToken string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	AnnounceBackend string
	XBearerToken    string
}

// Load parses flags and environment variables into a validated Config.
func Load(args []string) (Config, error) {
	// Best effort: a missing .env file is fine.
	godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("findr", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", "", "listen address")
	fs.StringVar(&cfg.Storage, "storage", "", "item storage backend (sqlite or memory)")
	fs.StringVar(&cfg.DBPath, "db", "", "path to SQLite database file")
	fs.StringVar(&cfg.UploadBackend, "uploads", "", "photo backend (local, dropbox or s3)")
	fs.StringVar(&cfg.UploadDir, "upload-dir", "", "directory for local photo storage")
	fs.StringVar(&cfg.AnnounceBackend, "announce", "", "announcement backend (none or x)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables, then defaults.
	fallback(&cfg.Addr, "ADDR", ":3000")
	fallback(&cfg.Storage, "STORAGE_BACKEND", StorageSQLite)
	fallback(&cfg.DBPath, "DB_PATH", "findr.sqlite3")
	fallback(&cfg.UploadBackend, "UPLOAD_BACKEND", UploadLocal)
	fallback(&cfg.UploadDir, "UPLOAD_DIR", "uploads")
	fallback(&cfg.AnnounceBackend, "ANNOUNCE_BACKEND", AnnounceNone)
	fallback(&cfg.JWTSecret, "JWT_SECRET", "")

	// Secrets come from the environment only.
	cfg.DropboxClientID = os.Getenv("DROPBOX_CLIENT_ID")
	cfg.DropboxClientSecret = os.Getenv("DROPBOX_CLIENT_SECRET")
	cfg.DropboxRefreshToken = os.Getenv("DROPBOX_REFRESH_TOKEN")
	cfg.S3Bucket = os.Getenv("S3_BUCKET")
	cfg.S3Region = os.Getenv("S3_REGION")
	cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3AccessKey = os.Getenv("S3_ACCESS_KEY")
	cfg.S3SecretKey = os.Getenv("S3_SECRET_KEY")
	cfg.XBearerToken = os.Getenv("X_BEARER_TOKEN")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}

	switch c.UploadBackend {
	case UploadLocal:
	case UploadDropbox:
		if c.DropboxRefreshToken == "" {
			return fmt.Errorf("dropbox uploads require DROPBOX_REFRESH_TOKEN")
		}
	case UploadS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 uploads require S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown upload backend %q", c.UploadBackend)
	}

	switch c.AnnounceBackend {
	case AnnounceNone:
	case AnnounceX:
		if c.XBearerToken == "" {
			return fmt.Errorf("x announcements require X_BEARER_TOKEN")
		}
	default:
		return fmt.Errorf("unknown announce backend %q", c.AnnounceBackend)
	}

	return nil
}

// fallback sets *dst from the environment or a default if the flag left
// it empty.
func fallback(dst *string, env, def string) {
	if *dst != "" {
		return
	}
	if v := os.Getenv(env); v != "" {
		*dst = v
		return
	}
	*dst = def
}
