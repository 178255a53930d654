package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/game2048/api"
	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/session"
	"github.com/wricardo/mcp-training/game2048/transport/mcp"
)

func writeConfigs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// replaceAction swaps the action of a subcommand so tests can inspect the
// parsed command without starting anything
func replaceAction(t *testing.T, app *cli.Command, name string, action cli.ActionFunc) {
	t.Helper()
	for _, c := range app.Commands {
		if c.Name == name {
			c.Action = action
			return
		}
	}
	t.Fatalf("No %s command", name)
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "2048 Game Server" {
		t.Errorf("Unexpected app name %s", AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	app := newApp()
	var got struct {
		port      int
		host      string
		configDir string
		staticDir string
		ttl       time.Duration
	}
	replaceAction(t, app, "serve", func(ctx context.Context, cmd *cli.Command) error {
		got.port = cmd.Int("port")
		got.host = cmd.String("host")
		got.configDir = cmd.String("config-dir")
		got.staticDir = cmd.String("static-dir")
		got.ttl = cmd.Duration("session-ttl")
		return nil
	})

	for _, env := range []string{"PORT", "HOST", "CONFIG_DIR", "STATIC_DIR", "SESSION_TTL", "LOG_LEVEL"} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	if err := app.Run(context.Background(), []string{"game2048", "serve"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got.port != defaultPort {
		t.Errorf("Expected default port %d, got %d", defaultPort, got.port)
	}
	if got.host != "localhost" {
		t.Errorf("Expected default host localhost, got %s", got.host)
	}
	if got.configDir != "configs" {
		t.Errorf("Expected default config dir configs, got %s", got.configDir)
	}
	if got.staticDir != api.DefaultStaticDir {
		t.Errorf("Expected default static dir %s, got %s", api.DefaultStaticDir, got.staticDir)
	}
	if got.ttl != defaultSessionTTL {
		t.Errorf("Expected default TTL %s, got %s", defaultSessionTTL, got.ttl)
	}
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("CONFIG_DIR", "/tmp/boards")
	t.Setenv("SESSION_TTL", "90m")

	app := newApp()
	var port int
	var configDir string
	var ttl time.Duration
	replaceAction(t, app, "serve", func(ctx context.Context, cmd *cli.Command) error {
		port = cmd.Int("port")
		configDir = cmd.String("config-dir")
		ttl = cmd.Duration("session-ttl")
		return nil
	})

	if err := app.Run(context.Background(), []string{"game2048", "serve"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if port != 9191 || configDir != "/tmp/boards" || ttl != 90*time.Minute {
		t.Errorf("Environment not applied: port=%d dir=%s ttl=%s", port, configDir, ttl)
	}
}

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := []struct {
		name    string
		level   string
		debug   bool
		want    zerolog.Level
		wantErr bool
	}{
		{"info", "info", false, zerolog.InfoLevel, false},
		{"upper case", "WARN", false, zerolog.WarnLevel, false},
		{"debug flag wins", "error", true, zerolog.DebugLevel, false},
		{"invalid", "loud", false, zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			err := setupLogging(tt.level, tt.debug)
			if (err != nil) != tt.wantErr {
				t.Fatalf("setupLogging() error = %v, wantErr %v", err, tt.wantErr)
			}
			if zerolog.GlobalLevel() != tt.want {
				t.Errorf("Expected level %s, got %s", tt.want, zerolog.GlobalLevel())
			}
		})
	}
}

func TestInitializeServices(t *testing.T) {
	dir := writeConfigs(t, map[string]string{
		"classic.json": `{"name":"classic","board_size":4,"win_tile":2048}`,
	})

	gameService, sessionManager, err := initializeServices(dir)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if gameService == nil || sessionManager == nil {
		t.Fatal("Expected services to be initialized")
	}

	configs, err := gameService.ListConfigs(context.Background())
	if err != nil || len(configs) != 1 {
		t.Errorf("Expected one config, got %d (%v)", len(configs), err)
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	if _, _, err := initializeServices("/non/existent/path"); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestSessionCleanupRoutine(t *testing.T) {
	manager := session.NewManager()
	if _, err := manager.Create("", engine.DefaultGameConfig()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, manager, time.Nanosecond, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for manager.Count() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if manager.Count() != 0 {
		t.Error("Expected expired session to be removed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Cleanup routine did not stop after cancel")
	}
}

func TestMCPHandler(t *testing.T) {
	mcpClient := mcp.NewClient("http://127.0.0.1:1")
	handler := newRootHandler(http.NotFoundHandler(), mcpClient)

	t.Run("rejects GET", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", rec.Code)
		}
	})

	t.Run("initialize", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %s", ct)
		}
		if !strings.Contains(rec.Body.String(), `"name":"2048"`) {
			t.Errorf("Expected server name in response, got %s", rec.Body.String())
		}
	})

	t.Run("tools/list", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)))

		for _, tool := range []string{"create_session", "move", "bulk_move", "game_instructions"} {
			if !strings.Contains(rec.Body.String(), `"name":"`+tool+`"`) {
				t.Errorf("Expected tool %s in list", tool)
			}
		}
	})

	t.Run("other paths reach the API", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected the wrapped handler to answer, got %d", rec.Code)
		}
	})
}

func TestExternalAPIAvailable(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer healthy.Close()

	if !externalAPIAvailable(context.Background(), healthy.URL) {
		t.Error("Expected healthy server to be detected")
	}

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	if externalAPIAvailable(context.Background(), closed.URL) {
		t.Error("Expected closed server to be unavailable")
	}
}

func TestStartInternalAPI(t *testing.T) {
	dir := writeConfigs(t, map[string]string{
		"classic.json": `{"name":"classic","board_size":4,"win_tile":2048}`,
	})
	gameService, _, err := initializeServices(dir)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	baseURL, err := startInternalAPI(ctx, gameService, t.TempDir())
	if err != nil {
		t.Fatalf("startInternalAPI failed: %v", err)
	}
	if !strings.HasPrefix(baseURL, "http://127.0.0.1:") {
		t.Errorf("Expected a loopback URL, got %s", baseURL)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !externalAPIAvailable(ctx, baseURL) {
		if time.Now().After(deadline) {
			t.Fatal("Internal API never became healthy")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPlayEngine(t *testing.T) {
	dir := writeConfigs(t, map[string]string{
		"classic.json": `{"name":"classic","board_size":4,"win_tile":2048}`,
		"tiny.yaml":    "name: tiny\nboard_size: 3\nwin_tile: 512\n",
	})

	tests := []struct {
		name     string
		args     []string
		wantSize int
		wantErr  bool
	}{
		{"default config", nil, 4, false},
		{"named config", []string{"--config", "tiny"}, 3, false},
		{"seeded", []string{"--config", "tiny", "--seed", "7"}, 3, false},
		{"unknown config", []string{"--config", "huge"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp()
			var eng *engine.GameEngine
			replaceAction(t, app, "play", func(ctx context.Context, cmd *cli.Command) error {
				var err error
				eng, err = playEngine(cmd)
				return err
			})

			args := append([]string{"game2048", "--config-dir", dir, "play"}, tt.args...)
			err := app.Run(context.Background(), args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if eng.GetSize() != tt.wantSize {
				t.Errorf("Expected size %d, got %d", tt.wantSize, eng.GetSize())
			}
		})
	}
}

func TestPlayEngine_SeedIsReproducible(t *testing.T) {
	dir := writeConfigs(t, map[string]string{
		"classic.json": `{"name":"classic","board_size":4,"win_tile":2048}`,
	})

	grids := make([]string, 2)
	for i := range grids {
		app := newApp()
		replaceAction(t, app, "play", func(ctx context.Context, cmd *cli.Command) error {
			eng, err := playEngine(cmd)
			if err != nil {
				return err
			}
			for _, dir := range []engine.Direction{engine.Left, engine.Up, engine.Right, engine.Down} {
				if _, err := eng.Move(dir); err != nil {
					return err
				}
			}
			grids[i] = engine.FormatGrid(eng.Snapshot().Grid)
			return nil
		})
		if err := app.Run(context.Background(), []string{"game2048", "--config-dir", dir, "play", "--seed", "42"}); err != nil {
			t.Fatal(err)
		}
	}

	if grids[0] != grids[1] {
		t.Errorf("Same seed produced different boards:\n%s\n%s", grids[0], grids[1])
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		want    []string
		wantErr bool
	}{
		{
			name: "all valid",
			files: map[string]string{
				"classic.json": `{"name":"classic","board_size":4,"win_tile":2048}`,
				"tiny.yml":     "name: tiny\nboard_size: 3\nwin_tile: 512\n",
			},
			want: []string{
				"✓ classic.json (config_id: classic) 4x4 to 2048",
				"✓ tiny.yml (config_id: tiny) 3x3 to 512",
				"2 config(s) checked, 0 invalid",
			},
		},
		{
			name: "bad win tile",
			files: map[string]string{
				"classic.json": `{"name":"classic","board_size":4,"win_tile":2048}`,
				"odd.json":     `{"name":"odd","board_size":4,"win_tile":1000}`,
			},
			want:    []string{"✗ odd.json:", "win_tile", "2 config(s) checked, 1 invalid"},
			wantErr: true,
		},
		{
			name: "broken yaml",
			files: map[string]string{
				"broken.yaml": "name: [unclosed\n",
			},
			want:    []string{"✗ broken.yaml:", "1 config(s) checked, 1 invalid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfigs(t, tt.files)

			var out bytes.Buffer
			app := newApp()
			app.Writer = &out

			err := app.Run(context.Background(), []string{"game2048", "--config-dir", dir, "validate"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			for _, line := range tt.want {
				if !strings.Contains(out.String(), line) {
					t.Errorf("Expected %q in output, got:\n%s", line, out.String())
				}
			}
		})
	}
}
