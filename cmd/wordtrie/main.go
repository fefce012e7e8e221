// Copyright 2025 The WordTrie Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordtrie completion server and CLI [DBG] application.

wordtrie answers prefix queries from a PATRICIA trie built over the bits of
each word. Suggestions come back in ascending key order. It can operate as a
MessagePack IPC server for integration with text editors, or as a CLI
application for testing and debugging.

# Usage

Start the server with a word list:

	wordtrie -data words.txt

Use a directory of chunk files and enable debug mode:

	wordtrie -data /path/to/chunks -d

Run in CLI mode for interactive testing:

	wordtrie -c -limit 10 -prmin 2

Convert a text word list into chunk files:

	wordtrie -data words.txt -build data/

# Configuration

Runtime configuration is read from a TOML file, created with defaults when
missing:

	[trie]
	unit_bits = 8

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true

	[dict]
	path = "data"
	max_words = 50000
	fold_case = false

Flags given on the command line win over the file.

# Command Line Flags

	-data string
	    Word list (.txt) or directory of dict_NNNN.bin chunks
	-config string
	    Path to a config.toml
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return in CLI mode
	-prmin int
	    Minimum prefix length for suggestions
	-prmax int
	    Maximum prefix length for suggestions
	-no-filter
	    Disable input filtering for debugging
	-words int
	    Maximum words to load (0 for all)
	-unit-bits int
	    Comparator unit width: 8, 16 or 32
	-fold
	    Match prefixes case-insensitively
	-build string
	    Write the loaded words as chunk files into this directory and exit
	-chunk int
	    Words per chunk for -build
	-rebuild-config
	    Rewrite the default config file and exit
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordtrie/internal/cli"
	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordtrie"
	gh      = "https://github.com/bastiangx/wordtrie"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// wordCollector keeps loaded words in order for -build.
type wordCollector struct {
	words []string
}

func (w *wordCollector) AddWord(word string) error {
	w.words = append(w.words, word)
	return nil
}

// main only manages the flow between config, dictionary, CLI and server.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", defaults.Dict.Path, "Word list (.txt) or directory of dict_NNNN.bin chunks")
	configPath := flag.String("config", "", "Path to a config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaults.CLI.DefaultMinLen, "Minimum prefix length for suggestions (1 < n <= prmax)")
	maxPrefix := flag.Int("prmax", defaults.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", defaults.CLI.DefaultNoFilter, "Disable input filtering (DBG only)")
	wordLimit := flag.Int("words", defaults.Dict.MaxWords, "Maximum number of words to load (use 0 for all words)")
	unitBits := flag.Int("unit-bits", defaults.Trie.UnitBits, "Comparator unit width: 8, 16 or 32")
	foldCase := flag.Bool("fold", defaults.Dict.FoldCase, "Match prefixes case-insensitively")
	buildDir := flag.String("build", "", "Write the loaded words as chunk files into this directory and exit")
	chunkSize := flag.Int("chunk", 10000, "Number of words per chunk for -build")
	rebuildConfig := flag.Bool("rebuild-config", false, "Rewrite the default config file and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *rebuildConfig {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote default config to %s\n", path)
		return
	}

	cfg, usedConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedConfig))

	// Explicit flags override the config file.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	override := func(name string, dst *int, val int) {
		if set[name] {
			*dst = val
		}
	}
	override("limit", &cfg.CLI.DefaultLimit, *limit)
	override("prmin", &cfg.CLI.DefaultMinLen, *minPrefix)
	override("prmax", &cfg.CLI.DefaultMaxLen, *maxPrefix)
	override("words", &cfg.Dict.MaxWords, *wordLimit)
	override("unit-bits", &cfg.Trie.UnitBits, *unitBits)
	if set["no-filter"] {
		cfg.CLI.DefaultNoFilter = *noFilter
		cfg.Server.EnableFilter = !*noFilter
	}
	if set["fold"] {
		cfg.Dict.FoldCase = *foldCase
	}
	if set["data"] {
		cfg.Dict.Path = *dataPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	resolvedData := utils.ResolveDataPath(AppName, cfg.Dict.Path)
	log.Debugf("Using data at: %s", resolvedData)

	if *buildDir != "" {
		collector := &wordCollector{}
		if _, err := dictionary.Load(resolvedData, collector, cfg.Dict.MaxWords); err != nil {
			log.Fatalf("Failed to read words: %v", err)
		}
		files, err := dictionary.WriteChunks(*buildDir, collector.words, *chunkSize)
		if err != nil {
			log.Fatalf("Failed to write chunks: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s words into %d chunk files in %s\n",
			utils.FormatWithCommas(len(collector.words)), files, *buildDir)
		return
	}

	completer := suggest.NewCompleterWithOptions(suggest.Options{
		UnitBits:     cfg.Trie.UnitBits,
		FoldCase:     cfg.Dict.FoldCase,
		HotCacheSize: cfg.Server.HotCacheSize,
	})

	loaded, err := dictionary.Load(resolvedData, completer, cfg.Dict.MaxWords)
	if err != nil {
		log.Warnf("Failed to load dictionary from %s: %v. Running with %d words...", resolvedData, err, completer.Size())
	}
	log.Debug("Completer init done", "read", loaded, "stored", completer.Size())

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.Debug("Input info:",
			"minPrefix", cfg.CLI.DefaultMinLen,
			"maxPrefix", cfg.CLI.DefaultMaxLen,
			"limit", cfg.CLI.DefaultLimit,
			"noFilter", cfg.CLI.DefaultNoFilter)

		inputHandler := cli.NewInputHandler(completer, os.Stdin, os.Stdout,
			cfg.CLI.DefaultMinLen, cfg.CLI.DefaultMaxLen, cfg.CLI.DefaultLimit, cfg.CLI.DefaultNoFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, &cfg.Server, os.Stdin, os.Stdout).
		WithConfigFile(cfg, config.GetActiveConfigPath(usedConfig))
	showStartupInfo(resolvedData, completer.Size())

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ wordtrie ] prefix completions from a PATRICIA trie")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo prints basic info about the init process to stderr.
func showStartupInfo(dataPath string, words int) {
	info := logger.NewWithConfig(os.Stderr, AppName, log.InfoLevel, false, false, log.TextFormatter)
	info.Infof("Version: %s", Version)
	info.Infof("Process ID: [ %d ]", os.Getpid())
	info.Infof("data: ( %s )", dataPath)
	info.Infof("words: %s", utils.FormatWithCommas(words))
	info.Info("status: ready")
}
