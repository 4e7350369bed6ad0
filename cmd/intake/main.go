// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/intake/internal/cli"
	"github.com/ik5/intake/internal/config"
	"github.com/spf13/afero"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	fs := afero.NewOsFs()
	c := cli.New(fs, config.NewManager(fs))
	code := c.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
