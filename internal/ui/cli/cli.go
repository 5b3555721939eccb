package cli

import "flag"

const versionString = "1.0.0"
const defaultConfigPath = "./data/config/smalihook.toml"

type cliOptions struct {
	configPath string
	out        string
	mode       string
	watch      bool
	ui         bool
	verify     bool
	workers    int
	history    bool
	runs       int
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("smalihook", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.StringVar(&opts.out, "out", "", "Output directory for files/bundle mode")
	fs.StringVar(&opts.mode, "mode", "", "Output mode: stdout, files or bundle")
	fs.BoolVar(&opts.watch, "watch", false, "Regenerate scripts when smali files change")
	fs.BoolVar(&opts.ui, "ui", false, "Browse generated scripts in a terminal UI (implies -watch)")
	fs.BoolVar(&opts.verify, "verify", false, "Syntax check every generated script")
	fs.IntVar(&opts.workers, "workers", 0, "Number of concurrent unit workers (default: config or CPU count)")
	fs.BoolVar(&opts.history, "history", false, "Record runs in the local history database")
	fs.IntVar(&opts.runs, "runs", 0, "List the N most recent recorded runs and exit (requires history)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
