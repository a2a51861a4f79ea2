// Command surveyctl operates surveybase from the shell: database migrations,
// project runs and read-only views of rules and run history.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		stop()
		os.Exit(1)
	}
}
