// ABOUTME: Entry point for the orderd pizza ordering service
// ABOUTME: Subcommands: serve, init, bootstrap, health

package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/freshslice/orderd/internal/api"
	"github.com/freshslice/orderd/internal/auth"
	"github.com/freshslice/orderd/internal/config"
	"github.com/freshslice/orderd/internal/factory"
	"github.com/freshslice/orderd/internal/metrics"
	"github.com/freshslice/orderd/internal/session"
	"github.com/freshslice/orderd/internal/store"
	"github.com/freshslice/orderd/internal/token"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                _               _
  ___  _ __ __| | ___ _ __ __| |
 / _ \| '__/ _' |/ _ \ '__/ _' |
| (_) | | | (_| |  __/ | | (_| |
 \___/|_|  \__,_|\___|_|  \__,_|
`

const defaultTokenTTL = time.Hour

// getConfigPath returns the path to the orderd config file.
// Priority: ORDERD_CONFIG env var > XDG_CONFIG_HOME/orderd/orderd.yaml > ~/.config/orderd/orderd.yaml
func getConfigPath() string {
	if envPath := os.Getenv("ORDERD_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "orderd.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "orderd", "orderd.yaml")
}

// getDataPath returns the path to the orderd data directory.
// Priority: XDG_DATA_HOME/orderd > ~/.local/share/orderd
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "orderd")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: orderd <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                         Start the ordering service")
		fmt.Println("  init                          Create a new config file interactively")
		fmt.Println("  bootstrap --name NAME --email EMAIL --password PASS")
		fmt.Println("                                Create the initial admin user")
		fmt.Println("  health                        Check service health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "bootstrap":
		err = runBootstrap(ctx)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	if cfg.Factory.URL != "" {
		green.Print("    ▶ ")
		fmt.Printf("Factory:  %s\n", cfg.Factory.URL)
	}
	fmt.Println()

	logger.Info("starting orderd",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
	)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	ttl := cfg.Auth.TokenTTL
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	codec, err := token.NewCodec([]byte(cfg.Auth.JWTSecret), ttl)
	if err != nil {
		return fmt.Errorf("creating token codec: %w", err)
	}

	registry := session.NewStoreRegistry(st)
	gate := auth.NewGate(codec, registry)
	svc := auth.NewService(st, codec, registry)

	opts := []api.Option{}
	if cfg.Factory.URL != "" {
		timeout := cfg.Factory.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		opts = append(opts, api.WithFactory(factory.NewClient(cfg.Factory.URL, cfg.Factory.APIKey, timeout)))
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		collector.RegisterActiveSessions(func() (int, error) {
			return st.CountActiveSessions(context.Background())
		})
		opts = append(opts, api.WithMetrics(collector))
	}

	if cfg.RateLimit.Enabled {
		opts = append(opts, api.WithCredentialRateLimit(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst))
	}

	server := api.NewServer(svc, gate, st, opts...)

	mux := http.NewServeMux()
	mux.Handle("/", server.Routes())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	if collector != nil {
		metricsPath := cfg.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		mux.Handle(metricsPath, collector.Handler())
	}

	// Sweep expired sessions in the background so the table does not grow
	// without bound.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := st.DeleteExpiredSessions(ctx)
				if err != nil {
					logger.Warn("sweeping expired sessions failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Debug("swept expired sessions", "count", n)
				}
			}
		}
	}()

	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// runInit creates a config file interactively with sensible defaults.
func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("orderd configuration setup")
	fmt.Println("==========================")
	fmt.Println()

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists: %s", configPath)
	}

	dbPath := filepath.Join(getDataPath(), "orderd.db")

	httpAddr := prompt(reader, "HTTP listen address", "localhost:8080")
	dbPath = prompt(reader, "Database path", dbPath)
	factoryURL := prompt(reader, "Pizza factory URL (empty to disable)", "")
	factoryKey := ""
	if factoryURL != "" {
		factoryKey = prompt(reader, "Pizza factory API key", "")
	}

	secret, err := randomSecret()
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# orderd configuration\n# Generated by orderd init\n\n")
	fmt.Fprintf(&b, "server:\n  http_addr: %q\n\n", httpAddr)
	fmt.Fprintf(&b, "database:\n  path: %q\n\n", dbPath)
	fmt.Fprintf(&b, "auth:\n  jwt_secret: %q\n  token_ttl: \"1h\"\n\n", secret)
	if factoryURL != "" {
		fmt.Fprintf(&b, "factory:\n  url: %q\n  api_key: %q\n  timeout: \"30s\"\n\n", factoryURL, factoryKey)
	}
	fmt.Fprintf(&b, "metrics:\n  enabled: true\n  path: \"/metrics\"\n\n")
	fmt.Fprintf(&b, "rate_limit:\n  enabled: true\n  login_per_second: 1\n  login_burst: 5\n\n")
	fmt.Fprintf(&b, "logging:\n  level: \"info\"\n  format: \"text\"\n")

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Created config: %s\n", configPath)
	fmt.Println()
	fmt.Println("Next: orderd bootstrap --name \"Your Name\" --email you@example.com --password <password>")
	return nil
}

func prompt(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func randomSecret() (string, error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generating JWT secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(secretBytes), nil
}

// runBootstrap creates the initial admin user and prints a session token.
// Supports both "--flag value" and "--flag=value" formats.
func runBootstrap(ctx context.Context) error {
	var name, email, password string
	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--name" || arg == "--email" || arg == "--password":
			if i+1 >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			value := args[i+1]
			i++
			switch arg {
			case "--name":
				name = value
			case "--email":
				email = value
			case "--password":
				password = value
			}
		case strings.HasPrefix(arg, "--name="):
			name = strings.TrimPrefix(arg, "--name=")
		case strings.HasPrefix(arg, "--email="):
			email = strings.TrimPrefix(arg, "--email=")
		case strings.HasPrefix(arg, "--password="):
			password = strings.TrimPrefix(arg, "--password=")
		default:
			return fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("--name flag is required")
	}
	if email == "" {
		return fmt.Errorf("--email flag is required")
	}
	if password == "" {
		return fmt.Errorf("--password flag is required")
	}

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	setupLogger(cfg.Logging)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Database: %s\n", cfg.Database.Path)

	ttl := cfg.Auth.TokenTTL
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	codec, err := token.NewCodec([]byte(cfg.Auth.JWTSecret), ttl)
	if err != nil {
		return fmt.Errorf("creating token codec: %w", err)
	}

	svc := auth.NewService(st, codec, session.NewStoreRegistry(st))

	user, tok, err := svc.CreateUser(ctx, name, email, password, []store.Role{store.RoleAdmin})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	green.Printf("  ✓ Created admin: %s <%s>\n", user.Name, user.Email)
	fmt.Println()
	fmt.Println("Session token (valid for", ttl, "):")
	fmt.Println()
	color.New(color.FgCyan).Printf("  %s\n", tok)
	fmt.Println()
	return nil
}

func runHealth(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}
