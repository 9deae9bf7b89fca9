// ABOUTME: CLI entrypoint for quire: compares content versions, snapshots drafts, and lists versions.
// ABOUTME: Wires config loading, the directory version source, and the diff engine with signal handling.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/2389-research/quire/config"
	"github.com/2389-research/quire/diff"
	"github.com/2389-research/quire/versions"
)

var version = "dev"

// cliConfig holds the top-level flags and the selected subcommand.
type cliConfig struct {
	configPath  string
	showVersion bool
	command     string
	args        []string
}

// diffConfig holds the flags of the diff subcommand.
type diffConfig struct {
	versionsDir string
	lang        string
	jsonOut     bool
	textDiff    bool
	context     int
	versionA    string
	versionB    string
}

func main() {
	loadDotEnv(".env")

	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cfg.showVersion {
		fmt.Printf("quire %s\n", version)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// parseFlags parses the top-level flags and returns the subcommand with its arguments.
func parseFlags(args []string, stderr io.Writer) (cliConfig, error) {
	var cfg cliConfig

	fs := flag.NewFlagSet("quire", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.configPath, "config", "", "Path to a YAML config file")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")
	fs.Usage = func() {
		printHelp(stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if fs.NArg() > 0 {
		cfg.command = fs.Arg(0)
		cfg.args = fs.Args()[1:]
	}
	return cfg, nil
}

// run dispatches to the subcommand. Returns an exit code.
func run(ctx context.Context, cfg cliConfig, stdout, stderr io.Writer) int {
	settings, err := config.Load(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	switch cfg.command {
	case "":
		printHelp(stderr, version)
		return 0
	case "diff":
		dc, err := parseDiffFlags(cfg.args, settings, stderr)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			return 2
		}
		return runDiff(ctx, dc, stdout, stderr)
	case "snapshot":
		sc, err := parseSnapshotFlags(cfg.args, settings, stderr)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			return 2
		}
		return runSnapshot(ctx, settings, sc, stdout, stderr)
	case "list":
		return runList(settings.Versions.Dir, cfg.args, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n", cfg.command)
		printHelp(stderr, version)
		return 2
	}
}

// parseDiffFlags parses "diff [flags] <versionA> <versionB>" with defaults from settings.
func parseDiffFlags(args []string, settings *config.Config, stderr io.Writer) (diffConfig, error) {
	dc := diffConfig{}

	fs := flag.NewFlagSet("quire diff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&dc.versionsDir, "dir", settings.Versions.Dir, "Directory of version documents")
	fs.StringVar(&dc.lang, "lang", settings.DefaultLanguage, "Language to compare")
	fs.BoolVar(&dc.jsonOut, "json", false, "Print the comparison as JSON")
	fs.BoolVar(&dc.textDiff, "text", false, "Print unified line diffs of changed content")
	fs.IntVar(&dc.context, "context", 3, "Context lines for -text")

	if err := fs.Parse(args); err != nil {
		return dc, err
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "usage: quire diff [-dir DIR] [-lang LANG] [-json] [-text] <versionA> <versionB>")
		return dc, errors.New("diff needs exactly two version ids")
	}
	dc.versionA = fs.Arg(0)
	dc.versionB = fs.Arg(1)
	return dc, nil
}

// runDiff compares two versions from the versions directory and prints the result.
func runDiff(ctx context.Context, dc diffConfig, stdout, stderr io.Writer) int {
	src := versions.Dir{Path: dc.versionsDir}
	res, err := diff.FetchAndCompare(ctx, src, dc.versionA, dc.versionB, dc.lang)
	if err != nil {
		log.Printf("component=cli action=diff_failed version_a=%s version_b=%s err=%v", dc.versionA, dc.versionB, err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if dc.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := printResult(stdout, res, dc.textDiff, dc.context); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runList prints the version IDs found in dir.
func runList(dir string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("quire list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&dir, "dir", dir, "Directory of version documents")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	ids, err := versions.Dir{Path: dir}.List()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	for _, id := range ids {
		fmt.Fprintln(stdout, id)
	}
	return 0
}
