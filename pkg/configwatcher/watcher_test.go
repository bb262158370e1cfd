package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"study_quiz_backend/internal/config"
)

func TestWatchConfig_Reloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	write := func(tick string) {
		body := "jwt:\n  secret: dev\nstorage:\n  type: minio\nquiz:\n  tick_millis: " + tick + "\n"
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	write("1000")

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan *config.Config, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- WatchConfig(ctx, path, func(cfg *config.Config) { reloaded <- cfg })
	}()

	// 等待监听建立
	time.Sleep(200 * time.Millisecond)
	write("500")

	select {
	case cfg := <-reloaded:
		if cfg.Quiz.TickMillis != 500 {
			t.Fatalf("expected reloaded tick 500, got %d", cfg.Quiz.TickMillis)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("config was not reloaded")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("watch: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop")
	}
}
