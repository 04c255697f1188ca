// Command clish is the interactive network-device shell built on the
// github.com/opencli/clish engine: it loads an XML command schema, then
// either drives an interactive session, runs a single command, or
// replays a batch file, per spec.md §6's CLI surface.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/opencli/clish"
	"github.com/rsteube/carapace"
	"github.com/spf13/cobra"
)

// Exit codes, spec.md §6.
const (
	exitOK          = 0
	exitUsageError  = 1
	exitScriptError = 2
	exitSystemError = 3
	exitSyntaxError = 4
)

type flags struct {
	interactive bool
	command     string
	batchFile   string
	pluginDir   string
	lockless    bool
	dryRun      bool
	quiet       bool
	stopOnError bool
	configFile  string
}

func main() {
	os.Exit(run())
}

func run() int {
	var f flags

	root := &cobra.Command{
		Use:   "clish",
		Short: "interactive network-device command shell",
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&f.interactive, "interactive", "i", false, "run an interactive session")
	pf.StringVarP(&f.command, "command", "c", "", "run a single command and exit")
	pf.StringVarP(&f.batchFile, "file", "f", "", "replay commands from a batch file")
	pf.StringVarP(&f.pluginDir, "plugin-dir", "x", "", "plugin search path")
	pf.BoolVar(&f.lockless, "lockless", false, "skip the advisory file lock")
	pf.BoolVar(&f.dryRun, "dry-run", false, "suppress non-permanent hooks")
	pf.BoolVarP(&f.quiet, "quiet", "q", false, "suppress informational output")
	pf.BoolVarP(&f.stopOnError, "stop-on-error", "e", false, "stop batch replay on the first error")
	pf.StringVar(&f.configFile, "config", "", "path to a YAML config file")

	carapace.Gen(root).FlagCompletion(carapace.ActionMap{
		"file":       carapace.ActionFiles(),
		"plugin-dir": carapace.ActionDirectories(),
		"config":     carapace.ActionFiles("yaml", "yml"),
	})

	root.AddCommand(newCompletionsCommand(root))

	exitCode := exitOK
	root.RunE = func(cmd *cobra.Command, args []string) error {
		code, err := dispatch(cmd.Context(), f)
		exitCode = code
		return err
	}

	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.ExecuteContext(context.Background()); err != nil {
		if exitCode == exitOK {
			exitCode = exitUsageError
		}
		fmt.Fprintln(os.Stderr, err)
	}

	return exitCode
}

// newCompletionsCommand adds a hidden "completions" sub-command that
// prints the root command's help; it does not emit a completion script
// itself. The file/dir completers for the outer binary's own flags
// (-f, -x, --config) are registered on root through carapace.Gen in run.
func newCompletionsCommand(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:    "completions",
		Short:  "print help for the clish command",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.Help()
		},
	}
}

func dispatch(ctx context.Context, f flags) (int, error) {
	cfg := clish.DefaultConfig()
	if f.configFile != "" {
		loaded, err := clish.LoadConfig(f.configFile)
		if err != nil {
			return exitUsageError, err
		}
		cfg = loaded
	}
	cfg.Lockless = cfg.Lockless || f.lockless
	cfg.DryRun = cfg.DryRun || f.dryRun
	cfg.Quiet = cfg.Quiet || f.quiet
	cfg.StopOnError = cfg.StopOnError || f.stopOnError

	if f.pluginDir != "" {
		cfg.PluginPath = f.pluginDir
	}

	registry, catalogue, root, err := loadSchema(f)
	if err != nil {
		return exitSystemError, err
	}

	sh := clish.NewShell(registry, catalogue, root, cfg)

	switch {
	case f.command != "":
		return runOne(ctx, sh, f.command)
	case f.batchFile != "":
		return runBatch(ctx, sh, f.batchFile, cfg.StopOnError)
	default:
		return runInteractive(ctx, sh, cfg.Quiet)
	}
}

func loadSchema(f flags) (*clish.Registry, *clish.Catalogue, *clish.View, error) {
	path := os.Getenv("CLISH_SCHEMA")
	if path == "" {
		path = "schema.xml"
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("clish: open schema %q: %w", path, err)
	}
	defer file.Close()

	registry, catalogue, err := clish.LoadSchema(file)
	if err != nil {
		return nil, nil, nil, err
	}

	root := catalogue.View("root")
	if root == nil {
		return nil, nil, nil, fmt.Errorf("clish: schema %q declares no %q view", path, "root")
	}

	return registry, catalogue, root, nil
}

func runOne(ctx context.Context, sh *clish.Shell, line string) (int, error) {
	result := sh.ExecuteLine(ctx, line)
	return exitForResult(result)
}

func runBatch(ctx context.Context, sh *clish.Shell, path string, stopOnError bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return exitSystemError, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	worst := exitOK

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		result := sh.ExecuteLine(ctx, line)
		code, _ := exitForResult(result)
		if code != exitOK {
			fmt.Fprintf(os.Stderr, "%s:%d: %s\n", path, lineNo, result.Err.Error())
			if code > worst {
				worst = code
			}
			if stopOnError {
				return worst, nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return exitSystemError, err
	}

	return worst, nil
}

func runInteractive(ctx context.Context, sh *clish.Shell, quiet bool) (int, error) {
	scanner := bufio.NewScanner(os.Stdin)
	worst := exitOK

	for {
		if !quiet {
			fmt.Print("clish> ")
		}
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if line == "exit" || line == "quit" {
			break
		}
		if line == "" {
			continue
		}

		result := sh.ExecuteLine(ctx, line)
		if code, _ := exitForResult(result); code != exitOK {
			fmt.Fprintln(os.Stderr, result.Err.Error())
			if code > worst {
				worst = code
			}
		} else if result.Action.Stdout != "" {
			fmt.Print(result.Action.Stdout)
		}
	}

	return worst, nil
}

func exitForResult(result clish.ExecuteResult) (int, error) {
	if result.Err == nil {
		return exitOK, nil
	}

	switch result.Err.Kind {
	case clish.KindUnknownCommand, clish.KindAmbiguousCommand, clish.KindPartialCommand:
		return exitSyntaxError, result.Err
	case clish.KindBadParameter:
		return exitSyntaxError, result.Err
	case clish.KindScriptError:
		return exitScriptError, result.Err
	case clish.KindSystemError:
		return exitSystemError, result.Err
	default:
		return exitUsageError, result.Err
	}
}
