// Command jobctl is the terminal client for the job tracker API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"job-tracker-backend/config"
	"job-tracker-backend/internal/client/cli"
	"job-tracker-backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The first signal cancels the running command and ends the REPL; restoring
	// the default handler lets a second one kill a process still blocked on stdin.
	go func() {
		<-ctx.Done()
		stop()
	}()

	cfg := config.LoadClientConfig()
	logger.InitWriter(os.Stderr, cfg.LogLevel)
	logger.Log.Debug("jobctl starting", "api_url", cfg.APIURL, "session_file", cfg.SessionFile)

	cli.NewApp(cfg).Run(ctx)
}
