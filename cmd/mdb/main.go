package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mdbase/mdb/internal/backend"
	"github.com/mdbase/mdb/internal/catalog"
	"github.com/mdbase/mdb/internal/color"
	"github.com/mdbase/mdb/internal/completion"
	"github.com/mdbase/mdb/internal/config"
	"github.com/mdbase/mdb/internal/create"
	"github.com/mdbase/mdb/internal/locator"
	"github.com/mdbase/mdb/internal/mcpserver"
	"github.com/mdbase/mdb/internal/mdbase"
	"github.com/mdbase/mdb/internal/prompt"
	"github.com/mdbase/mdb/internal/render"
	"github.com/mdbase/mdb/internal/workspace"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// separateFlags separates flag arguments from positional arguments.
// This allows flags to appear anywhere in the argument list, not just before
// positional args. Returns (flagArgs, positionalArgs).
func separateFlags(args []string) ([]string, []string) {
	var flagArgs []string
	var posArgs []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if len(arg) > 0 && arg[0] == '-' {
			flagArgs = append(flagArgs, arg)

			hasEquals := strings.ContainsRune(arg, '=')

			// If the flag doesn't contain =, the next argument may be its
			// value. Boolean flags never take one. Empty next arguments
			// count as values so completion can pass an empty prefix.
			if !hasEquals && i+1 < len(args) && (len(args[i+1]) == 0 || args[i+1][0] != '-') {
				isBoolFlag := arg == "-version" || arg == "--version" ||
					arg == "-help" || arg == "--help"

				if !isBoolFlag {
					i++
					flagArgs = append(flagArgs, args[i])
				}
			}
		} else {
			posArgs = append(posArgs, arg)
		}
	}

	return flagArgs, posArgs
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet(args[0], flag.ExitOnError)
	flags.SetOutput(stderr)

	var (
		showVersion    = flags.Bool("version", false, "Show version information")
		showHelp       = flags.Bool("help", false, "Show help information")
		serverPath     = flags.String("server", "", "Path to the mdbase-lsp executable (overrides config)")
		logLevel       = flags.String("log-level", "", "Backend log filter passed through MDBASE_LOG")
		rootPath       = flags.String("root", "", "Collection root to operate on")
		colorMode      = flags.String("color", "auto", "Control color output (auto, always, never)")
		completePrefix = flags.String("complete-types", "", "Print type names matching a prefix (used by shell completion)")
	)

	// Separate flags from positional arguments to support flags in any position
	flagArgs, posArgs := separateFlags(args[1:])

	if err := flags.Parse(flagArgs); err != nil {
		return err
	}

	if *showVersion {
		_, _ = fmt.Fprintf(stdout, "mdb version %s\n", version)
		return nil
	}

	completeTypes := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "complete-types" {
			completeTypes = true
		}
	})
	if completeTypes {
		workDir, err := os.Getwd()
		if err != nil {
			return err
		}
		completion.PrintTypeCompletions(stdout, workDir, *completePrefix)
		return nil
	}

	if *showHelp || len(posArgs) == 0 {
		printHelp(stdout, *colorMode)
		return nil
	}

	color.ConfigureProfile(*colorMode)

	subcommand := posArgs[0]
	switch subcommand {
	case "completion":
		if len(posArgs) < 2 {
			return fmt.Errorf("completion requires a shell argument (supported: %s)", strings.Join(completion.SupportedShells(), ", "))
		}
		return completion.Generate(stdout, posArgs[1])
	case "types":
		cfg, err := loadConfig(*serverPath, *logLevel)
		if err != nil {
			return err
		}
		root, err := chooseRoot(cfg, *rootPath)
		if err != nil {
			return err
		}
		printTypes(stdout, *colorMode, root)
		return nil
	case "new", "validate", "query", "mcp":
		cfg, err := loadConfig(*serverPath, *logLevel)
		if err != nil {
			return err
		}
		return runBackend(subcommand, posArgs[1:], cfg, *rootPath, *colorMode, stdout, stderr)
	default:
		return fmt.Errorf("unknown command %q (see 'mdb --help')", subcommand)
	}
}

// loadConfig reads the config file, creating a default one on first run, and
// applies command-line overrides on top.
func loadConfig(serverOverride, logOverride string) (config.Config, error) {
	cfg, err := config.LoadOrCreate(config.DefaultPath())
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if serverOverride != "" {
		cfg.ServerPath = serverOverride
	}
	if logOverride != "" {
		cfg.LogLevel = logOverride
	}
	return cfg, nil
}

// chooseRoot settles on one collection root. An explicit --root wins but
// must actually be a collection; otherwise discovery and the selection
// policy decide, prompting only when more than one root matches.
func chooseRoot(cfg config.Config, override string) (workspace.Root, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return workspace.Root{}, err
		}
		if _, err := os.Stat(filepath.Join(abs, workspace.MarkerFile)); err != nil {
			return workspace.Root{}, fmt.Errorf("%s is not a collection root (missing %s)", abs, workspace.MarkerFile)
		}
		return workspace.Root{Path: abs, Name: filepath.Base(abs)}, nil
	}

	workDir, err := os.Getwd()
	if err != nil {
		return workspace.Root{}, err
	}
	roots := workspace.Discover(workDir, cfg.Roots)
	return workspace.Choose(roots, workDir, prompt.Terminal{}.SelectRoot)
}

func runBackend(subcommand string, args []string, cfg config.Config, rootOverride, colorMode string, stdout, stderr io.Writer) error {
	root, err := chooseRoot(cfg, rootOverride)
	if err != nil {
		return err
	}

	installDir := ""
	if exe, err := os.Executable(); err == nil {
		installDir = filepath.Dir(exe)
	}
	loc, err := locator.Resolve(installDir, cfg.ServerPath, cfg.LogLevel)
	if err != nil {
		if errors.Is(err, locator.ErrNotFound) {
			return fmt.Errorf("%w (install it next to mdb, or set server_path in %s)", err, config.DefaultPath())
		}
		return err
	}

	// In mcp mode stdout carries the protocol stream; everything
	// human-facing moves to stderr.
	out := stdout
	if subcommand == "mcp" {
		out = stderr
	}
	renderer := render.New(out, stderr, colorMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		cancel()
	}()

	mgr := backend.NewManager(loc, stderr, renderer.BackendMessage)
	if err := mgr.Start(ctx, root.Path); err != nil {
		return fmt.Errorf("failed to start mdbase-lsp: %w", err)
	}
	defer mgr.Stop()

	switch subcommand {
	case "new":
		typeName := ""
		if len(args) > 0 {
			typeName = args[0]
		}
		flow := &create.Flow{Dispatcher: mgr, UI: prompt.Terminal{}, Reporter: renderer}
		if err := flow.Run(ctx, root, typeName); err != nil {
			if create.Cancelled(err) {
				return nil
			}
			return err
		}
		return nil
	case "validate":
		raw, err := mdbase.ValidateCollection(ctx, mgr)
		if err != nil {
			return err
		}
		return renderer.Validation(raw)
	case "query":
		if len(args) == 0 {
			return errors.New("query requires a query argument")
		}
		raw, err := mdbase.QueryCollection(ctx, mgr, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return renderer.Result(raw)
	case "mcp":
		return mcpserver.Run(version, mgr)
	}
	return nil
}

func printTypes(w io.Writer, colorMode string, root workspace.Root) {
	types := catalog.Scan(root.Path)
	if len(types) == 0 {
		_, _ = fmt.Fprintf(w, "no types defined in %s\n", filepath.Join(root.Path, catalog.TypesDir))
		return
	}

	nameStyle := lipgloss.NewStyle()
	descStyle := lipgloss.NewStyle()
	if color.ShouldUseColors(colorMode) {
		nameStyle = nameStyle.Bold(true).Foreground(lipgloss.Color("2"))
		descStyle = descStyle.Foreground(lipgloss.Color("8"))
	}

	for _, t := range types {
		line := nameStyle.Render(t.Name)
		if t.Description != "" {
			line += "  " + descStyle.Render(t.Description)
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func printHelp(w io.Writer, colorMode string) {
	useColors := color.ShouldUseColors(colorMode)

	// Initialize markdown renderer for the examples block
	var mdRenderer *glamour.TermRenderer
	if useColors {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(0),
		)
		if err == nil {
			mdRenderer = r
		}
	}

	renderMarkdown := func(text string) string {
		if mdRenderer == nil {
			return text
		}
		rendered, err := mdRenderer.Render(text)
		if err != nil {
			return text
		}
		return strings.TrimSpace(rendered)
	}

	// Styles for help text (with conditional colors)
	titleStyle := lipgloss.NewStyle().Bold(true).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).MarginTop(1)
	commandStyle := lipgloss.NewStyle()
	descStyle := lipgloss.NewStyle()

	if useColors {
		titleStyle = titleStyle.Foreground(lipgloss.Color("6"))     // Cyan
		sectionStyle = sectionStyle.Foreground(lipgloss.Color("3")) // Yellow
		commandStyle = commandStyle.Foreground(lipgloss.Color("2")) // Green
		descStyle = descStyle.Foreground(lipgloss.Color("7"))       // Light gray
	}

	title := titleStyle.Render("mdb - Editor-side client for mdbase collections")

	usage := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Usage:"),
		"  mdb [options] <command> [args]",
	)

	description := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Description:"),
		descStyle.Render("  mdb drives a local mdbase-lsp backend over a single JSON-RPC"),
		descStyle.Render("  connection. It finds the collection root, starts the backend, and"),
		descStyle.Render("  runs interactive document creation, validation, and queries"),
		descStyle.Render("  against it."),
	)

	commands := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Commands:"),
		"  "+commandStyle.Render("new [type]")+"         Create a document interactively",
		"  "+commandStyle.Render("types")+"              List document types in the collection",
		"  "+commandStyle.Render("validate")+"           Validate the collection",
		"  "+commandStyle.Render("query <expr>")+"       Run a query against the collection",
		"  "+commandStyle.Render("mcp")+"                Serve mdbase tools over MCP (stdio)",
		"  "+commandStyle.Render("completion <shell>")+" Generate shell completion (bash, zsh, fish)",
	)

	options := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Options:"),
		"  "+commandStyle.Render("--server <path>")+"      Path to the mdbase-lsp executable",
		"  "+commandStyle.Render("--log-level <level>")+"  Backend log filter (error, warn, info, debug, trace)",
		"  "+commandStyle.Render("--root <dir>")+"         Collection root to operate on",
		"  "+commandStyle.Render("--color <mode>")+"       Control color output: auto, always, never",
		"  "+commandStyle.Render("--version")+"            Show version information",
		"  "+commandStyle.Render("--help")+"               Show help information",
	)

	examples := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Examples:"),
		renderMarkdown("```\nmdb new note\nmdb query \"type = note\"\nmdb completion zsh > \"${fpath[1]}/_mdb\"\n```"),
	)

	help := lipgloss.JoinVertical(lipgloss.Left,
		title,
		usage,
		description,
		commands,
		options,
		examples,
		"",
	)

	_, _ = fmt.Fprintln(w, help)
}
