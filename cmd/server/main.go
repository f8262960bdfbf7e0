package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"findr/internal/announce"
	"findr/internal/api"
	"findr/internal/config"
	"findr/internal/db"
	"findr/internal/hunt"
	"findr/internal/store"
	"findr/internal/uploads"
	"findr/internal/web"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: findr <init|serve>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		cmdInit(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\nUsage: findr <init|serve>\n", os.Args[1])
		os.Exit(1)
	}
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", "findr.sqlite3", "path to SQLite database file")
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: database file %s already exists\n", *dbPath)
		os.Exit(1)
	}

	database, password, err := initDatabase(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	database.Close()

	fmt.Printf("Database created: %s\n", *dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	printAdminCredentials(password)
}

func cmdServe(args []string) {
	cfg, err := config.Load(args)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var (
		items  store.Items
		admins store.Admins
	)

	switch cfg.Storage {
	case config.StorageMemory:
		mem := store.NewMemory()
		password, err := seedMemoryAdmin(mem)
		if err != nil {
			log.Fatalf("Failed to create admin account: %v", err)
		}
		fmt.Println("In-memory storage: all items are lost on restart.")
		printAdminCredentials(password)
		items, admins = mem, mem

	case config.StorageSQLite:
		// Auto-init on first run.
		if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
			database, password, err := initDatabase(cfg.DBPath)
			if err != nil {
				log.Fatalf("Failed to initialize database: %v", err)
			}
			database.Close()
			fmt.Printf("Database created: %s\n", cfg.DBPath)
			fmt.Println()
			printAdminCredentials(password)
		}

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		sqlStore := store.NewSQLite(database)
		if cfg.JWTSecret == "" {
			secret, err := sqlStore.GetJWTSecret(context.Background())
			if err != nil {
				log.Fatalf("Failed to load JWT secret: %v", err)
			}
			cfg.JWTSecret = secret
		}
		items, admins = sqlStore, sqlStore
	}

	// Memory storage has no settings table to persist a secret in.
	if cfg.JWTSecret == "" {
		secret, err := generatePassword(32)
		if err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		cfg.JWTSecret = secret
		log.Println("JWT secret auto-generated (tokens will be invalidated on restart)")
	}

	photos, uploadsDir, err := photoSink(cfg)
	if err != nil {
		log.Fatalf("Failed to set up photo storage: %v", err)
	}

	svc := hunt.New(items, photos, announceSink(cfg))

	apiRouter := api.NewRouter(svc, admins, cfg.JWTSecret)
	webRouter, err := web.NewRouter(web.Config{
		Hunt:       svc,
		Admins:     admins,
		JWTSecret:  cfg.JWTSecret,
		UploadsDir: uploadsDir,
	})
	if err != nil {
		log.Fatalf("Failed to set up web router: %v", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	handler := api.LoggingMiddleware(mux)

	fmt.Printf("Server listening on %s\n", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// photoSink builds the configured upload backend. The second return value
// is the local directory to serve under /uploads/, empty for remote sinks.
func photoSink(cfg config.Config) (uploads.Sink, string, error) {
	switch cfg.UploadBackend {
	case config.UploadDropbox:
		return uploads.NewDropbox(&uploads.RefreshingToken{
			ClientID:     cfg.DropboxClientID,
			ClientSecret: cfg.DropboxClientSecret,
			RefreshToken: cfg.DropboxRefreshToken,
		}), "", nil

	case config.UploadS3:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sink, err := uploads.NewS3(ctx, uploads.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		return sink, "", err

	default:
		sink, err := uploads.NewDisk(cfg.UploadDir, "/uploads")
		return sink, cfg.UploadDir, err
	}
}

func announceSink(cfg config.Config) announce.Sink {
	if cfg.AnnounceBackend == config.AnnounceX {
		return announce.NewX(cfg.XBearerToken)
	}
	return announce.Noop{}
}

// initDatabase creates a new database, runs migrations, and creates the
// admin account.
func initDatabase(path string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}

	if err := db.Migrate(database); err != nil {
		return fail(fmt.Errorf("running migrations: %w", err))
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail(fmt.Errorf("hashing password: %w", err))
	}

	if _, err := store.NewSQLite(database).CreateAdmin(context.Background(), "admin", string(hash)); err != nil {
		return fail(fmt.Errorf("creating admin account: %w", err))
	}

	return database, password, nil
}

// seedMemoryAdmin creates the admin account for the in-memory backend and
// returns its generated password.
func seedMemoryAdmin(mem *store.Memory) (string, error) {
	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	if _, err := mem.CreateAdmin(context.Background(), "admin", string(hash)); err != nil {
		return "", fmt.Errorf("creating admin account: %w", err)
	}
	return password, nil
}

func printAdminCredentials(password string) {
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: admin\n")
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password — it cannot be recovered.")
	fmt.Println()
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
