package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ked-editor/ked/internal/app"
	"github.com/ked-editor/ked/internal/logger"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := logger.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, "ked:", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := app.New(flag.Args()).Run(); err != nil {
		logger.Error("fatal", "error", err)
		logger.Close()
		fmt.Fprintln(os.Stderr, "ked:", err)
		os.Exit(1)
	}
}
