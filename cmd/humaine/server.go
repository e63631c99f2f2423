package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/GeorgeMakridis/humaine-chatbot/internal/api"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/config"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/insight"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/llm"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/metrics"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/persist"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/profile"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/prompt"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/storage"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the humaine server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running humaine server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show humaine system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "humaine.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "humaine version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	apiToken, err := config.EnsureAPIToken(&cfg)
	if err != nil {
		return fmt.Errorf("initializing API token: %w", err)
	}
	slog.Info("API bearer token available")

	// Refuse to start twice. The health endpoint is the source of truth; the
	// PID file only improves the error message.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("humaine is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("humaine is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	profiles := profile.NewStore()
	stored, err := db.LoadProfiles()
	if err != nil {
		return fmt.Errorf("loading stored profiles: %w", err)
	}
	loaded := profiles.LoadSnapshot(stored)
	slog.Info("profiles loaded", "count", loaded)

	saver := persist.NewSaver(profiles, db, time.Duration(cfg.Storage.SaveIntervalMS)*time.Millisecond)
	profiles.SetPersister(saver)

	learner := insight.NewLearner()
	updater, err := profile.NewUpdater(profiles, learner)
	if err != nil {
		return fmt.Errorf("building profile updater: %w", err)
	}

	var generator llm.Generator
	if cfg.LLM.APIKey == "" {
		printWarning("no LLM API key configured, responses come from the built-in mock")
		generator = llm.NewMock()
	} else {
		generator = llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	}

	deps := api.AppDeps{
		Profiles: profiles,
		Updater:  updater,
		Learner:  learner,
		Prompts:  prompt.NewManager(),
		LLM:      generator,
		Metrics:  metrics.NewCollector(),
		DB:       db,
		Saver:    saver,
		Token:    apiToken,
		Model:    cfg.LLM.Model,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(deps),
	}

	// MCP server over stdio, for agent hosts that spawn the process.
	mcpSrv := api.NewMCPServer(deps)
	stdioSrv := server.NewStdioServer(mcpSrv)
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		saver.Run(gctx)
		return nil
	})

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "humaine listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("humaine is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop humaine (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to humaine (PID %d)", pid)
	return nil
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}

	resp, err := healthClient.Get(serverURL + "/health")
	running := false
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			running = true
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	if cfg.LLM.APIKey == "" {
		printStatus("LLM", "mock (no API key configured)")
	} else {
		printStatus("LLM", "%s via %s", cfg.LLM.Model, cfg.LLM.BaseURL)
	}

	if running {
		client, err := newAPIClient()
		if err == nil {
			var stats struct {
				Loaded int   `json:"loaded_profiles"`
				Stored int   `json:"stored_profiles"`
				Bytes  int64 `json:"storage_bytes"`
			}
			if resp, err := client.get(ctx, "/profiles/stats"); err == nil {
				if decodeJSON(resp, &stats) == nil {
					printStatus("Profiles", "%d loaded, %d stored (%d bytes)", stats.Loaded, stats.Stored, stats.Bytes)
				}
			}

			var overview struct {
				Users          int `json:"users"`
				ActiveSessions int `json:"active_sessions"`
				TotalEvents    int `json:"total_events"`
			}
			if resp, err := client.get(ctx, "/metrics/overview"); err == nil {
				if decodeJSON(resp, &overview) == nil {
					printStatus("Activity", "%d users, %d active sessions, %d events", overview.Users, overview.ActiveSessions, overview.TotalEvents)
				}
			}
		}
	}

	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
