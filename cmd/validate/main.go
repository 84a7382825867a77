package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/woozymasta/jsonfg-validator/internal/bundle"
	"github.com/woozymasta/jsonfg-validator/internal/config"
	"github.com/woozymasta/jsonfg-validator/internal/document"
	"github.com/woozymasta/jsonfg-validator/internal/ets"
	"github.com/woozymasta/jsonfg-validator/internal/fetch"
	"github.com/woozymasta/jsonfg-validator/internal/logger"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"    env:"CONFIG_FILE" description:"Path to configuration file"`
	StoreDir   string `short:"d" long:"store-dir" env:"STORE_DIR"   description:"Schema store directory (default ~/.jsonfg-validator)"`
	NoFail     bool   `short:"F" long:"no-fail-on-schema-validation" description:"Continue the test suite when schema validation fails"`

	Args struct {
		FileOrURL string `positional-arg-name:"file-or-url" description:"JSON-FG document to validate"`
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

	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	storeDir := opts.StoreDir
	if storeDir == "" {
		storeDir = cfg.StoreDir
	}
	if storeDir == "" {
		var err error
		if storeDir, err = bundle.DefaultDir(); err != nil {
			log.Fatal().Err(err).Msg("Failed to locate schema store")
		}
	}

	target := opts.Args.FileOrURL
	log.Info().Str("source", target).Msg("Opening document")

	var doc *document.Document
	var err error
	if strings.HasPrefix(target, "http") {
		client := fetch.NewClient(time.Duration(cfg.Timeout) * time.Second)
		doc, err = document.FromURL(client, target)
	} else {
		doc, err = document.Load(target)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse document")
	}

	log.Debug().Str("type", doc.Type).Msg("Detected JSON FG")

	suite := ets.NewSuite(doc, bundle.NewStore(storeDir))
	report, err := suite.Run(!opts.NoFail)
	if err != nil {
		log.Fatal().Err(err).Msg("Test suite aborted")
	}

	out, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode report")
	}

	fmt.Println(string(out))
}
