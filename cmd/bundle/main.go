package main

import (
	"os"
	"time"

	"github.com/woozymasta/jsonfg-validator/internal/bundle"
	"github.com/woozymasta/jsonfg-validator/internal/config"
	"github.com/woozymasta/jsonfg-validator/internal/fetch"
	"github.com/woozymasta/jsonfg-validator/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file"`
	URL        string `short:"u" long:"url"    env:"BUNDLE_URL"  description:"Schema bundle archive URL"`
	Dir        string `short:"d" long:"dir"    env:"STORE_DIR"   description:"Schema store directory (default ~/.jsonfg-validator)"`

	Args struct {
		Command string `positional-arg-name:"command" description:"Bundle operation (sync)"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	if opts.Args.Command != "sync" {
		log.Fatal().Str("command", opts.Args.Command).Msg("Unknown bundle command, expected 'sync'")
	}

	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	url := opts.URL
	if url == "" {
		url = cfg.BundleURL
	}
	if url == "" {
		url = bundle.DefaultURL
	}

	dir := opts.Dir
	if dir == "" {
		dir = cfg.StoreDir
	}
	if dir == "" {
		var err error
		if dir, err = bundle.DefaultDir(); err != nil {
			log.Fatal().Err(err).Msg("Failed to locate schema store")
		}
	}

	client := fetch.NewClient(time.Duration(cfg.Timeout) * time.Second)
	if err := bundle.Sync(client, url, dir); err != nil {
		log.Fatal().Err(err).Msg("Failed to sync schema bundle")
	}
}
