package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/moviezone/moviezone/internal/config"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (discovered when empty)")
	writeConfig := flag.Bool("init", false, "Write a default config file and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("moviezoned %s\n", version)
		os.Exit(0)
	}

	if *writeConfig {
		path := *configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.WriteDefault(path); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		os.Exit(0)
	}

	if err := runServer(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
