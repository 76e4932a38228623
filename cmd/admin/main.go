// Command admin manages the V-Chartered store from a shell.
package main

import (
	"os"

	"github.com/duynhne/pkg/logger/zerolog"

	"github.com/duynhne/vchartered/config"
)

func main() {
	cfg := config.Load()
	zerolog.Setup(cfg.Logging.Level)

	a := &app{cfg: cfg, in: os.Stdin, out: os.Stdout}
	defer a.close()

	if err := newRootCmd(a).Execute(); err != nil {
		a.close()
		os.Exit(1)
	}
}
