package session

import (
	"fmt"
	"lcalc/ast"
	"lcalc/eval"
	"lcalc/value"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// LastResult names the binding holding the result of the last bare
// expression.
const LastResult = "_"

// UndefinedGlobalError reports a bare name missing from the global scope.
type UndefinedGlobalError struct {
	Name string
}

func (e *UndefinedGlobalError) Error() string {
	return fmt.Sprintf("variable `%s` is not defined", e.Name)
}

// Session runs modules against one global scope. It is not safe for
// concurrent use; independent sessions share nothing.
type Session struct {
	id        ulid.ULID
	global    *value.Global
	evaluator *eval.Evaluator
	logger    zerolog.Logger

	onAssign func(name string)
}

type Option func(*Session)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithMaxSteps bounds every evaluation to n beta-reductions; 0 means unbounded.
func WithMaxSteps(n int) Option {
	return func(s *Session) { s.evaluator.MaxSteps = n }
}

// WithOnAssign registers fn to be told about every name assigned in the
// scope, once the value is stored. LastResult is not reported.
func WithOnAssign(fn func(name string)) Option {
	return func(s *Session) { s.onAssign = fn }
}

func New(opts ...Option) *Session {
	s := &Session{
		id:        ulid.Make(),
		global:    value.NewGlobal(),
		evaluator: eval.New(0),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("session", s.id.String()).Logger()
	return s
}

func (s *Session) ID() ulid.ULID { return s.id }

func (s *Session) Global() *value.Global { return s.global }

// Load runs the modules in order and stops at the first failing one.
func (s *Session) Load(modules ...*ast.Module) error {
	for i, module := range modules {
		if _, err := s.Run(module); err != nil {
			return fmt.Errorf("failed to eval module `%s`: %w", moduleName(module, i), err)
		}
		s.logger.Info().Str("module", moduleName(module, i)).Int("names", s.global.Len()).Msg("module loaded")
	}
	return nil
}

func moduleName(module *ast.Module, i int) string {
	if module.Name != "" {
		return module.Name
	}
	return fmt.Sprintf("#%d", i)
}

// Run executes the statements of module in order and returns the result of
// the last one. A failing statement aborts the module but keeps what the
// statements before it stored.
func (s *Session) Run(module *ast.Module) (value.Value, error) {
	if len(module.Statements) == 0 {
		return nil, fmt.Errorf("module `%s` has no statements", moduleName(module, 0))
	}

	var result value.Value
	for _, stmt := range module.Statements {
		val, err := s.exec(stmt)
		if err != nil {
			s.logger.Debug().Err(err).Str("statement", stmt.String()).Msg("statement failed")
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (s *Session) exec(stmt ast.Statement) (value.Value, error) {
	switch st := stmt.(type) {
	case *ast.Assignment:
		// lazy: the value is only resolved, never evaluated
		val := eval.BindGlobal(value.FromAST(st.Expr), s.global)
		return s.set(st.Target, val), nil

	case *ast.BareExpression:
		// a bare name shows its value as defined, not a re-derivation of it
		if id, ok := st.Expr.(*ast.Identifier); ok {
			val, ok := s.global.Get(id.Name)
			if !ok {
				return nil, &UndefinedGlobalError{Name: id.Name}
			}
			return val, nil
		}

		val := eval.BindGlobal(value.FromAST(st.Expr), s.global)
		val, err := s.evaluator.Eval(val)
		if err != nil {
			return nil, err
		}
		s.logger.Debug().Int("steps", s.evaluator.Steps()).Msg("expression evaluated")
		return s.set(LastResult, val), nil
	}
	panic("unreachable: unknown statement type")
}

func (s *Session) set(name string, val value.Value) value.Value {
	stored := s.global.Set(name, val)
	s.logger.Debug().Str("name", name).Msg("binding stored")
	if s.onAssign != nil && name != LastResult {
		s.onAssign(name)
	}
	return stored
}
