package main

import (
	"fmt"
	"os"

	"github.com/Kris2339/MEO-PayDay/cmd/classify"
	"github.com/Kris2339/MEO-PayDay/cmd/market"
	"github.com/Kris2339/MEO-PayDay/cmd/root"
	"github.com/Kris2339/MEO-PayDay/cmd/serve"
	"github.com/Kris2339/MEO-PayDay/internal/config"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
)

func init() {
	config.LoadEnv()
	// Early logger honours LOG_LEVEL until the configuration is loaded
	root.Log = logging.NewLogrusAdapter(config.GetEnv("LOG_LEVEL", "info"), "text")

	root.Init()

	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(market.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
