package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"runbox/internal/catalog"
	"runbox/internal/config"
	"runbox/internal/model"
	"runbox/internal/report"
	"runbox/internal/tui"
	"runbox/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "runbox-dev",
		Repository: "runbox",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/runbox-dev/runbox/releases")
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: runbox [options]\n\n")
		fmt.Fprintf(os.Stderr, "runbox is a launcher for the programs on your PATH.\n")
		fmt.Fprintf(os.Stderr, "It scans PATH once in the background and completes command names as you type.\n")
		fmt.Fprintf(os.Stderr, "The chosen command line is printed on stdout, e.g. eval \"$(runbox)\".\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  runbox               # Start the launcher\n")
		fmt.Fprintf(os.Stderr, "  runbox -q gi         # Print programs starting with 'gi'\n")
		fmt.Fprintf(os.Stderr, "  runbox --report      # Print a scan report to stdout\n")
		fmt.Fprintf(os.Stderr, "  runbox -r -o r.txt   # Save the report to a file\n")
		fmt.Fprintf(os.Stderr, "  runbox --json        # Output catalog and report as JSON\n")
	}

	queryFlag := pflag.StringP("query", "q", "", "Print programs whose name starts with the given prefix")
	jsonFlag := pflag.BoolP("json", "j", false, "Output the catalog and scan report as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Print a scan report of every PATH directory")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	webFlag := pflag.BoolP("web", "w", false, "Serve the completion API over HTTP")
	pflag.String("addr", "127.0.0.1:8080", "Listen address for --web")
	pflag.StringP("policy", "p", string(model.PolicyExecutable), "Which files count as programs: executable or readable")
	configFlag := pflag.StringP("config", "c", "", "Read configuration from this file")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Log debug details to stderr (or the log file in launcher mode)")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("runbox version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: *configFlag,
		Flags:      pflag.CommandLine,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verboseFlag {
		cfg.LogLevel = "debug"
	}

	launcher := !*webFlag && !*reportFlag && !*jsonFlag && !pflag.Lookup("query").Changed

	logOut := io.Writer(os.Stderr)
	if launcher {
		// The launcher owns the terminal.
		f := openLogFile()
		if f != nil {
			defer f.Close()
			logOut = f
		} else {
			logOut = io.Discard
		}
	}
	logger := newLogger(logOut, cfg.LogLevel)

	cache := newCache(cfg, logger)
	cache.WarmUp()

	switch {
	case *webFlag:
		err = web.NewServer(cache, logger).ListenAndServe(cfg.Web.Addr)
	case *reportFlag:
		err = runReportMode(cache, *outputFlag, *verboseFlag)
	case *jsonFlag:
		err = runJsonMode(os.Stdout, cache)
	case !launcher:
		err = runQueryMode(os.Stdout, cache, *queryFlag)
	default:
		err = runTuiMode(cache, cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          config.AppName,
		ReportTimestamp: true,
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level, using warn", "level", level)
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// openLogFile opens the launcher's log file under the user cache directory.
// It returns nil when no log file can be created.
func openLogFile() *os.File {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil
	}
	dir = filepath.Join(dir, config.AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, config.AppName+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	return f
}

func newCache(cfg *config.Config, logger *log.Logger) *catalog.Cache {
	builder := catalog.NewBuilder(logger,
		catalog.WithPathVar(cfg.PathEnv),
		catalog.WithPolicy(cfg.Policy),
	)
	return catalog.New(builder.Build, logger)
}

func runQueryMode(w io.Writer, cache *catalog.Cache, prefix string) error {
	for _, name := range cache.Query(prefix) {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}
	return nil
}

func runJsonMode(w io.Writer, cache *catalog.Cache) error {
	out := struct {
		Catalog model.Catalog
		Report  model.ScanReport
		Version string
	}{
		Catalog: cache.Catalog(),
		Report:  cache.Report(),
		Version: model.Version,
	}
	if out.Catalog == nil {
		out.Catalog = model.Catalog{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}

func runReportMode(cache *catalog.Cache, outputFile string, verbose bool) error {
	text := report.Generate(cache.Report(), verbose)

	if outputFile == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing report to %s: %w", outputFile, err)
	}
	fmt.Printf("Report saved to %s\n", outputFile)
	return nil
}

func runTuiMode(cache *catalog.Cache, cfg *config.Config) error {
	m := tui.InitialModel(cache, tui.Options{
		StatusDelay: cfg.StatusDelay,
		Suggestions: cfg.Suggestions,
	})
	// Stdout carries the chosen command, so the UI draws on stderr.
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("launcher: %w", err)
	}

	if fm, ok := final.(tui.AppModel); ok && !fm.Aborted && fm.Chosen != "" {
		fmt.Println(fm.Chosen)
	}
	return nil
}
