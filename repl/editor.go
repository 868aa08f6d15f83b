package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// Hints collects the names offered for completion. The session reports
// each assignment to Add; local parameters are not worth completing since
// they are conventionally single letters.
type Hints struct {
	mu    sync.Mutex
	names []string
}

func (h *Hints) Add(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, found := slices.BinarySearch(h.names, name)
	if !found {
		h.names = slices.Insert(h.names, i, name)
	}
}

func (h *Hints) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.names)
}

// Complete completes the last word of line with the known names. Only the
// end of the line gets completed.
func (h *Hints) Complete(line string) []string {
	cut := 0
	if i := strings.LastIndexFunc(line, isWordBreak); i >= 0 {
		_, size := utf8.DecodeRuneInString(line[i:])
		cut = i + size
	}
	prefix, word := line[:cut], line[cut:]
	if word == "" {
		return nil
	}

	var completions []string
	for _, name := range h.Names() {
		if strings.HasPrefix(name, word) && name != word {
			completions = append(completions, prefix+name)
		}
	}
	return completions
}

func isWordBreak(r rune) bool {
	switch r {
	case '(', ')', '\\', 'λ', '=':
		return true
	}
	return unicode.IsSpace(r)
}

// Editor is an interactive line editor keeping its history in a file.
type Editor struct {
	*liner.State
	historyPath string
	logger      zerolog.Logger
}

func NewEditor(historyPath string, hints *Hints, logger zerolog.Logger) *Editor {
	e := &Editor{State: liner.NewLiner(), historyPath: historyPath, logger: logger}
	e.SetCtrlCAborts(true)
	e.SetCompleter(hints.Complete)

	f, err := os.Open(historyPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info().Msg("no previous history")
	case err != nil:
		logger.Warn().Err(err).Msg("failed to open history")
	default:
		defer f.Close()
		if _, err := e.ReadHistory(f); err != nil {
			logger.Warn().Err(err).Msg("failed to read history")
		}
	}
	return e
}

// Close saves the history and restores the terminal.
func (e *Editor) Close() error {
	if err := e.saveHistory(); err != nil {
		e.logger.Warn().Err(err).Str("path", e.historyPath).Msg("failed to save history")
	}
	return e.State.Close()
}

func (e *Editor) saveHistory() error {
	if err := os.MkdirAll(filepath.Dir(e.historyPath), 0o700); err != nil {
		return err
	}
	f, err := os.Create(e.historyPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = e.WriteHistory(f)
	return err
}

// ScannerReader reads lines from a plain stream, for when input is not a
// terminal.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	return &ScannerReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *ScannerReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *ScannerReader) AppendHistory(string) {}
