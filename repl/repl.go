package repl

import (
	"errors"
	"fmt"
	"io"
	"lcalc/lexer"
	"lcalc/parser"
	"lcalc/session"
	"lcalc/token"
	"strings"

	"github.com/muesli/termenv"
	"github.com/peterh/liner"
)

const (
	PROMPT      = ">>> "
	CONT_PROMPT = "... "

	SOURCE_NAME = "<repl>"
)

// LineReader yields one line of user input per prompt. *liner.State
// satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type REPL struct {
	session *session.Session
	in      LineReader
	out     *termenv.Output
}

func New(s *session.Session, in LineReader, out *termenv.Output) *REPL {
	return &REPL{session: s, in: in, out: out}
}

// Run reads and evaluates input until it ends or is interrupted.
func (r *REPL) Run() error {
	for {
		input, err := r.read()
		switch {
		case errors.Is(err, io.EOF):
			r.notice("CTRL-D")
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			r.notice("CTRL-C")
			return nil
		case err != nil:
			r.error(err)
			return err
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		r.in.AppendHistory(strings.ReplaceAll(input, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := r.command(trimmed); quit {
				return nil
			}
			continue
		}

		r.eval(input)
	}
}

// read keeps prompting while parentheses are left open.
func (r *REPL) read() (string, error) {
	var sb strings.Builder
	prompt := PROMPT

	for {
		line, err := r.in.Prompt(prompt)
		if err != nil {
			// a half-typed expression is dropped
			return "", err
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)

		if openParens(sb.String()) <= 0 {
			return sb.String(), nil
		}
		prompt = CONT_PROMPT
	}
}

func openParens(src string) int {
	l := lexer.New(src)
	depth := 0
	for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		switch tok.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
	}
	return depth
}

func (r *REPL) eval(input string) {
	module, err := parser.Parse(SOURCE_NAME, input)
	if err != nil {
		r.error(err)
		return
	}

	val, err := r.session.Run(module)
	if err != nil {
		r.error(err)
		return
	}
	r.result(val.Inspect())
}

func (r *REPL) command(cmd string) (quit bool) {
	switch cmd {
	case ":q", ":quit":
		return true
	case ":names":
		names := r.session.Global().Names()
		if len(names) == 0 {
			r.notice("no names defined")
			return false
		}
		fmt.Fprintln(r.out, strings.Join(names, " "))
	case ":help":
		fmt.Fprint(r.out, help)
	default:
		r.notice(fmt.Sprintf("unknown command %s, type :help for help", cmd))
	}
	return false
}

const help = `Enter definitions like  name = \x body  and expressions like  name arg.
λ can be typed as \. Parentheses may span several lines.
Commands:
  :names   list the defined names
  :help    show this help
  :quit    leave (also CTRL-D)
`

func (r *REPL) result(s string) {
	fmt.Fprintln(r.out, r.out.String(s).Foreground(r.out.Color("2")))
}

func (r *REPL) error(err error) {
	fmt.Fprintln(r.out, r.out.String(err.Error()).Foreground(r.out.Color("1")))
}

func (r *REPL) notice(s string) {
	fmt.Fprintln(r.out, r.out.String(s).Foreground(r.out.Color("3")))
}
