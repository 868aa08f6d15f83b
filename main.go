package main

import (
	"flag"
	"fmt"
	"io"
	"lcalc/config"
	"lcalc/library"
	"lcalc/parser"
	"lcalc/repl"
	"lcalc/session"
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/muesli/termenv"
	"github.com/posener/complete/v2/install"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
	"golang.org/x/term"
)

const (
	COMMAND_NAME = "lcalc"
	STDIN_NAME   = "<stdin>"

	ERROR_STATUS_CODE       = 1
	EVAL_ERROR_STATUS_CODE  = 2
	PARSE_ERROR_STATUS_CODE = 3

	PARSE_SUBCMD                 = "parse"
	EVAL_SUBCMD                  = "eval"
	REPL_SUBCMD                  = "repl"
	HELP_SUBCMD                  = "help"
	INSTALL_COMPLETIONS_SUBCMD   = "install-completions"
	UNINSTALL_COMPLETIONS_SUBCMD = "uninstall-completions"
)

var SUBCOMMANDS = []string{
	PARSE_SUBCMD, EVAL_SUBCMD, REPL_SUBCMD, HELP_SUBCMD,
	INSTALL_COMPLETIONS_SUBCMD, UNINSTALL_COMPLETIONS_SUBCMD,
}

const LCALC_CMD_HELP = `Usage: lcalc <command> [flags]

Commands:
  parse                  print the syntax tree of the module read from stdin
  eval                   evaluate the module read from stdin (default when stdin is not a terminal)
  repl                   start an interactive session (default when stdin is a terminal)
  help                   show this help
  install-completions    install shell completion for lcalc
  uninstall-completions  remove shell completion for lcalc

Every command accepts -config, -log-level and -color. Run 'lcalc help <command>' for its flags.
`

func main() {
	//handle completions
	completer.Complete(COMMAND_NAME)

	statusCode := _main(os.Args, os.Stdin, os.Stdout, os.Stderr)
	if statusCode != 0 {
		os.Exit(statusCode)
	}
}

func _main(args []string, in io.Reader, outW io.Writer, errW io.Writer) (statusCode int) {
	mainSubCommand := ""
	var mainSubCommandArgs []string

	if len(args) < 2 || strings.HasPrefix(args[1], "-") && args[1] != "-h" && args[1] != "--help" {
		//no subcommand specified
		mainSubCommand = EVAL_SUBCMD
		if isTerminal(in) {
			mainSubCommand = REPL_SUBCMD
		}
		mainSubCommandArgs = args[1:]
	} else {
		mainSubCommand = args[1]
		mainSubCommandArgs = args[2:]
	}

	//help <subcommand> prints the flags of the subcommand.
	if mainSubCommand == HELP_SUBCMD && len(mainSubCommandArgs) > 0 && slices.Contains(SUBCOMMANDS, mainSubCommandArgs[0]) {
		mainSubCommand = mainSubCommandArgs[0]
		mainSubCommandArgs = []string{"-h"}
	}

	if !slices.Contains(SUBCOMMANDS, mainSubCommand) && mainSubCommand != "-h" && mainSubCommand != "--help" {
		fmt.Fprintf(errW, "unknown command '%s'\n%s", mainSubCommand, LCALC_CMD_HELP)
		return ERROR_STATUS_CODE
	}

	switch mainSubCommand {
	case HELP_SUBCMD, "-h", "--help":
		fmt.Fprint(outW, LCALC_CMD_HELP)
		return
	case INSTALL_COMPLETIONS_SUBCMD:
		if err := install.Install(COMMAND_NAME); err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "installed")
		return
	case UNINSTALL_COMPLETIONS_SUBCMD:
		if err := install.Uninstall(COMMAND_NAME); err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "uninstalled")
		return
	}

	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)
	global := addGlobalFlags(flags)

	switch mainSubCommand {
	case PARSE_SUBCMD:
		var asJSON bool
		flags.BoolVar(&asJSON, "json", false, "print the tree as JSON")

		if err := flags.Parse(mainSubCommandArgs); err != nil {
			return flagStatus(err)
		}
		a, ok := global.setup(outW, errW)
		if !ok {
			return ERROR_STATUS_CODE
		}
		return runParse(a, in, asJSON)

	case EVAL_SUBCMD, REPL_SUBCMD:
		var noPrelude bool
		var libDirs []string
		maxSteps := -1

		flags.BoolVar(&noPrelude, "no-prelude", false, "do not load the bundled library")
		flags.Func("lib", "load the modules of `dir` after the prelude (repeatable)", func(dir string) error {
			libDirs = append(libDirs, dir)
			return nil
		})
		flags.Func("max-steps", "bound evaluations to `n` reductions, 0 for none (default from config)", func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid step count %q", s)
			}
			maxSteps = n
			return nil
		})

		if err := flags.Parse(mainSubCommandArgs); err != nil {
			return flagStatus(err)
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(errW, "unexpected argument '%s', the module is read from stdin\n", flags.Arg(0))
			return ERROR_STATUS_CODE
		}

		a, ok := global.setup(outW, errW)
		if !ok {
			return ERROR_STATUS_CODE
		}
		if noPrelude {
			a.cfg.Prelude = false
		}
		a.cfg.LibraryDirs = append(a.cfg.LibraryDirs, libDirs...)
		if maxSteps >= 0 {
			a.cfg.MaxSteps = maxSteps
		}

		if mainSubCommand == REPL_SUBCMD {
			return runREPL(a, in)
		}
		return runEval(a, in)
	}
	panic("unreachable")
}

func flagStatus(err error) int {
	if err == flag.ErrHelp {
		return 0
	}
	return ERROR_STATUS_CODE
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type globalFlags struct {
	configPath string
	logLevel   string
	color      string
}

func addGlobalFlags(flags *flag.FlagSet) *globalFlags {
	g := &globalFlags{}
	flags.StringVar(&g.configPath, "config", "", "read the configuration from `path` instead of the XDG config directory")
	flags.StringVar(&g.logLevel, "log-level", "", "log `level`: trace, debug, info, warn or error (default from config)")
	flags.StringVar(&g.color, "color", "", "colorize output: auto, always or never (default from config)")
	return g
}

// app is what every command runs with once flags and configuration are read.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	out    *termenv.Output
	errW   io.Writer
}

func (g *globalFlags) setup(outW, errW io.Writer) (*app, bool) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		fmt.Fprintln(errW, err)
		return nil, false
	}

	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.color != "" {
		cfg.Color = config.ColorMode(g.color)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(errW, err)
		return nil, false
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(errW, "invalid log level: %s\n", err)
		return nil, false
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: errW, NoColor: cfg.Color == config.ColorNever}).
		Level(level).
		With().Timestamp().Logger()

	return &app{
		cfg:    cfg,
		logger: logger,
		out:    newOutput(outW, cfg.Color),
		errW:   errW,
	}, true
}

func newOutput(w io.Writer, mode config.ColorMode) *termenv.Output {
	switch mode {
	case config.ColorNever:
		return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	case config.ColorAlways:
		return termenv.NewOutput(w, termenv.WithProfile(termenv.ANSI))
	default:
		return termenv.NewOutput(w)
	}
}

func (a *app) failure(err error) {
	fmt.Fprintln(a.errW, a.out.String(err.Error()).Foreground(a.out.Color("1")))
}

func (a *app) newSession(opts ...session.Option) *session.Session {
	opts = append([]session.Option{
		session.WithLogger(a.logger),
		session.WithMaxSteps(a.cfg.MaxSteps),
	}, opts...)
	return session.New(opts...)
}

func (a *app) loadLibrary(s *session.Session) error {
	if a.cfg.Prelude {
		if err := library.LoadPrelude(s); err != nil {
			return err
		}
	}
	for _, dir := range a.cfg.LibraryDirs {
		if err := library.LoadDir(s, osfs.New(dir), "."); err != nil {
			return fmt.Errorf("%s: %w", dir, err)
		}
	}
	return nil
}

func runParse(a *app, in io.Reader, asJSON bool) int {
	src, err := io.ReadAll(in)
	if err != nil {
		a.failure(err)
		return ERROR_STATUS_CODE
	}

	module, err := parser.Parse(STDIN_NAME, string(src))
	if err != nil {
		a.failure(err)
		return PARSE_ERROR_STATUS_CODE
	}

	if !asJSON {
		fmt.Fprint(a.out, module.String())
		return 0
	}

	data, err := json.MarshalIndent(module, "", "  ")
	if err != nil {
		a.failure(err)
		return ERROR_STATUS_CODE
	}
	fmt.Fprintln(a.out, string(data))
	return 0
}

func runEval(a *app, in io.Reader) int {
	src, err := io.ReadAll(in)
	if err != nil {
		a.failure(err)
		return ERROR_STATUS_CODE
	}

	s := a.newSession()
	if err := a.loadLibrary(s); err != nil {
		a.failure(err)
		return ERROR_STATUS_CODE
	}

	module, err := parser.Parse(STDIN_NAME, string(src))
	if err != nil {
		a.failure(err)
		return PARSE_ERROR_STATUS_CODE
	}

	val, err := s.Run(module)
	if err != nil {
		a.failure(err)
		return EVAL_ERROR_STATUS_CODE
	}
	fmt.Fprintln(a.out, a.out.String(val.Inspect()).Foreground(a.out.Color("2")))
	return 0
}

func runREPL(a *app, in io.Reader) int {
	hints := &repl.Hints{}
	s := a.newSession(session.WithOnAssign(hints.Add))
	if err := a.loadLibrary(s); err != nil {
		a.failure(err)
		return ERROR_STATUS_CODE
	}

	var reader repl.LineReader
	if isTerminal(in) {
		historyPath, err := a.cfg.HistoryPath()
		if err != nil {
			a.failure(err)
			return ERROR_STATUS_CODE
		}
		editor := repl.NewEditor(historyPath, hints, a.logger)
		defer editor.Close()
		reader = editor

		fmt.Fprintln(a.out, "Welcome to the lcalc REPL. Type :help for help.")
	} else {
		reader = repl.NewScannerReader(in, a.out)
	}

	if err := repl.New(s, reader, a.out).Run(); err != nil {
		return ERROR_STATUS_CODE
	}
	return 0
}
