// Command smoketest checks that a deployed instance serves its main pages.
package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mkeskinen/mimicry/internal/errors"
	"github.com/mkeskinen/mimicry/internal/logging"
)

// fetch retrieves the URL and verifies the response status and, when
// wantContent is non-empty, that the body contains it.
func fetch(ctx context.Context, client *http.Client, url string, wantContent string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetch", slog.String("url", url))
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status",
			slog.String("url", url),
			slog.Int("status", resp.StatusCode))
	}
	if wantContent == "" {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read body", slog.String("url", url))
	}
	if !strings.Contains(string(body), wantContent) {
		return errors.New("content not found",
			slog.String("url", url),
			slog.String("want", wantContent))
	}
	return nil
}

func testPages(ctx context.Context, baseURL string) error {
	timeout := 10 * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client := &http.Client{}

	if err := fetch(ctx, client, baseURL+"/api/healthy", `"status":"ok"`); err != nil {
		return errors.Wrap(err, "health check")
	}
	if err := fetch(ctx, client, baseURL+"/", "Mimicry"); err != nil {
		return errors.Wrap(err, "front page")
	}
	if err := fetch(ctx, client, baseURL+"/archive", "games"); err != nil {
		return errors.Wrap(err, "archive page")
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if err := testPages(ctx, url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing pages", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
