// Package library finds and loads modules of lambda definitions: the
// prelude bundled with the binary, and directories of user modules.
package library

import (
	"embed"
	"fmt"
	"io/fs"
	"lcalc/ast"
	"lcalc/parser"
	"lcalc/session"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/maruel/natural"
)

// Ext is the file extension of library modules.
const Ext = ".lc"

const preludeDir = "prelude"

//go:embed prelude/*.lc
var prelude embed.FS

// Source is the text of one module and where it came from.
type Source struct {
	Name string
	Text string
}

// Prelude returns the bundled modules in load order.
func Prelude() ([]Source, error) {
	entries, err := fs.ReadDir(prelude, preludeDir)
	if err != nil {
		return nil, err
	}

	var sources []Source
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}
		text, err := fs.ReadFile(prelude, path.Join(preludeDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{Name: path.Join(preludeDir, entry.Name()), Text: string(text)})
	}

	sortSources(sources)
	return sources, nil
}

// ReadDir returns the modules found directly in dir, in natural order of
// their file names: 2_x.lc comes before 10_y.lc.
func ReadDir(fsys billy.Filesystem, dir string) ([]Source, error) {
	// some filesystems list a missing directory as empty
	info, err := fsys.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read library directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to read library directory %s: not a directory", dir)
	}

	infos, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read library directory %s: %w", dir, err)
	}

	var sources []Source
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), Ext) {
			continue
		}
		name := fsys.Join(dir, info.Name())
		text, err := util.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read module %s: %w", name, err)
		}
		sources = append(sources, Source{Name: name, Text: string(text)})
	}

	sortSources(sources)
	return sources, nil
}

func sortSources(sources []Source) {
	sort.Slice(sources, func(i, j int) bool {
		return natural.Less(sources[i].Name, sources[j].Name)
	})
}

// Parse parses every source, stopping at the first broken one.
func Parse(sources []Source) ([]*ast.Module, error) {
	modules := make([]*ast.Module, 0, len(sources))
	for _, src := range sources {
		module, err := parser.Parse(src.Name, src.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse `%s` module: %w", src.Name, err)
		}
		modules = append(modules, module)
	}
	return modules, nil
}

// Load parses the sources and runs them into s, in order.
func Load(s *session.Session, sources []Source) error {
	modules, err := Parse(sources)
	if err != nil {
		return err
	}
	return s.Load(modules...)
}

func LoadPrelude(s *session.Session) error {
	sources, err := Prelude()
	if err != nil {
		return err
	}
	return Load(s, sources)
}

func LoadDir(s *session.Session, fsys billy.Filesystem, dir string) error {
	sources, err := ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	return Load(s, sources)
}
