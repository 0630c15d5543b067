package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.design/x/mainthread"

	"github.com/abemedia/webshell/internal/app"
	"github.com/abemedia/webshell/internal/cli"
	// Exports WEBSHELL_PATH on import, before any flag parsing.
	_ "github.com/abemedia/webshell/internal/selfpath"
)

func main() {
	var err error
	mainthread.Init(func() {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = cli.NewCommand(app.Denoui, app.Run).ExecuteContext(ctx)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
