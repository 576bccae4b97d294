//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"

	"github.com/tubeshare/apiserver/config"
	"github.com/tubeshare/apiserver/internal/db"
	"github.com/tubeshare/apiserver/internal/server"
)

const (
	serverPort = 18080
)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	root, err := repoRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to locate repo root: %v\n", err)
		os.Exit(1)
	}

	setTestEnv()

	if err := dockerCompose(ctx, root, "up", "-d", "postgres"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start docker compose: %v\n", err)
		os.Exit(1)
	}

	cfg := config.LoadConfig()
	if err := waitForPostgres(ctx, cfg.Database); err != nil {
		fmt.Fprintf(os.Stderr, "postgres not ready: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	migrationsURL := "file://" + filepath.Join(root, "internal", "db", "migrations")
	if err := db.Migrate(migrationsURL, cfg.Database, db.Up); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	srv, err := server.New(ctx, cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}
	go func() {
		_ = srv.Start()
	}()

	baseURL := fmt.Sprintf("http://localhost:%d", serverPort)
	if err := waitForHealth(ctx, baseURL+"/healthz"); err != nil {
		fmt.Fprintf(os.Stderr, "server not healthy: %v\n", err)
		_ = srv.Shutdown(context.Background())
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	code := m.Run()

	_ = srv.Shutdown(context.Background())
	_ = dockerCompose(context.Background(), root, "down")
	os.Exit(code)
}

func TestSessionLifecycle(t *testing.T) {
	baseURL := fmt.Sprintf("http://localhost:%d", serverPort)
	username := fmt.Sprintf("alice_%d", time.Now().UnixNano())
	client := newClient(t)

	status, body := call(t, client, http.MethodPost, baseURL+"/auth/signUp", map[string]string{
		"username": username,
		"email":    username + "@x.com",
		"password": "pw1",
	})
	if status != http.StatusCreated {
		t.Fatalf("sign up status %d: %s", status, body)
	}

	status, body = call(t, client, http.MethodPost, baseURL+"/auth/signUp", map[string]string{
		"username": username,
		"email":    "other_" + username + "@x.com",
		"password": "pw2",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate sign up status %d: %s", status, body)
	}

	status, body = call(t, client, http.MethodPost, baseURL+"/auth/signIn", map[string]string{
		"username": username,
		"password": "pw1",
	})
	if status != http.StatusOK {
		t.Fatalf("sign in status %d: %s", status, body)
	}

	status, body = call(t, client, http.MethodGet, baseURL+"/me", nil)
	if status != http.StatusOK {
		t.Fatalf("me status %d: %s", status, body)
	}
	if !strings.Contains(body, username) || strings.Contains(strings.ToLower(body), "password") {
		t.Fatalf("unexpected me body: %s", body)
	}

	status, body = call(t, client, http.MethodPost, baseURL+"/auth/logout", nil)
	if status != http.StatusOK {
		t.Fatalf("logout status %d: %s", status, body)
	}

	status, _ = call(t, client, http.MethodGet, baseURL+"/me", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}

func TestCommentOwnership(t *testing.T) {
	baseURL := fmt.Sprintf("http://localhost:%d", serverPort)
	suffix := time.Now().UnixNano()
	alice := signedInClient(t, baseURL, fmt.Sprintf("alice_%d", suffix))
	bob := signedInClient(t, baseURL, fmt.Sprintf("bob_%d", suffix))

	status, body := call(t, alice, http.MethodPost, baseURL+"/api/video", map[string]string{
		"title":     "Cat video",
		"videoLink": "https://videos.example/cat.mp4",
	})
	if status != http.StatusCreated {
		t.Fatalf("create video status %d: %s", status, body)
	}
	var video struct {
		ID int `json:"id"`
	}
	mustDecode(t, body, &video)

	status, body = call(t, alice, http.MethodPost, baseURL+"/comment", map[string]any{
		"video":   video.ID,
		"message": "first!",
	})
	if status != http.StatusCreated {
		t.Fatalf("create comment status %d: %s", status, body)
	}
	var comment struct {
		ID int `json:"id"`
	}
	mustDecode(t, body, &comment)

	commentURL := fmt.Sprintf("%s/comment/%d", baseURL, comment.ID)
	status, body = call(t, bob, http.MethodPut, commentURL, map[string]string{"message": "hijacked"})
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 editing another user's comment, got %d: %s", status, body)
	}

	status, body = call(t, alice, http.MethodDelete, fmt.Sprintf("%s/api/video/%d", baseURL, video.ID), nil)
	if status != http.StatusOK {
		t.Fatalf("delete video status %d: %s", status, body)
	}

	status, _ = call(t, alice, http.MethodPut, commentURL, map[string]string{"message": "gone"})
	if status != http.StatusNotFound {
		t.Fatalf("expected comment to be removed with its video, got %d", status)
	}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func signedInClient(t *testing.T, baseURL, username string) *http.Client {
	t.Helper()
	client := newClient(t)
	status, body := call(t, client, http.MethodPost, baseURL+"/auth/signUp", map[string]string{
		"username": username,
		"email":    username + "@x.com",
		"password": "pw-" + username,
	})
	if status != http.StatusCreated {
		t.Fatalf("sign up %s status %d: %s", username, status, body)
	}
	status, body = call(t, client, http.MethodPost, baseURL+"/auth/signIn", map[string]string{
		"username": username,
		"password": "pw-" + username,
	})
	if status != http.StatusOK {
		t.Fatalf("sign in %s status %d: %s", username, status, body)
	}
	return client
}

func call(t *testing.T, client *http.Client, method, url string, payload any) (int, string) {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, strings.TrimSpace(string(body))
}

func mustDecode(t *testing.T, body string, dst any) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
}

func setTestEnv() {
	_ = os.Setenv("JWT_SECRET", "test-secret")
	_ = os.Setenv("SERVER_PORT", fmt.Sprintf("%d", serverPort))
	_ = os.Setenv("DB_HOST", "localhost")
	_ = os.Setenv("DB_PORT", "5432")
	_ = os.Setenv("DB_USER", "tubeshare")
	_ = os.Setenv("DB_PASSWORD", "tubeshare")
	_ = os.Setenv("DB_NAME", "tubeshare")
	_ = os.Setenv("DB_USE_SSL", "false")
	_ = os.Setenv("STORAGE_BACKEND", "none")
	_ = os.Setenv("MQ_BACKEND", "none")
	_ = os.Setenv("BCRYPT_COST", "4")
}

func waitForPostgres(ctx context.Context, cfg config.DatabaseConfig) error {
	conn, err := sql.Open("postgres", db.URL(cfg))
	if err != nil {
		return err
	}
	defer conn.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := conn.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("postgres ping timeout: %w", err)
		case <-ticker.C:
		}
	}
}

func waitForHealth(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			return fmt.Errorf("health check failed with status")
		case <-ticker.C:
		}
	}
}

func dockerCompose(ctx context.Context, root string, args ...string) error {
	composeFile := filepath.Join(root, "development", "docker-compose.yml")
	baseArgs := append([]string{"compose", "-f", composeFile}, args...)
	cmd := exec.CommandContext(ctx, "docker", baseArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}
