package ast

import (
	json "github.com/goccy/go-json"
)

// JSON form used by `lcalc parse -json`. Every node carries a "type" tag.

func (m *Module) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name       string      `json:"name,omitempty"`
		Statements []Statement `json:"statements"`
	}{m.Name, m.Statements})
}

func (s *Assignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string     `json:"type"`
		Target string     `json:"target"`
		Expr   Expression `json:"expr"`
	}{"assignment", s.Target, s.Expr})
}

func (s *BareExpression) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string     `json:"type"`
		Expr Expression `json:"expr"`
	}{"expression", s.Expr})
}

func (e *Definition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string     `json:"type"`
		Parameter string     `json:"parameter"`
		Body      Expression `json:"body"`
	}{"definition", e.Parameter, e.Body})
}

func (e *Application) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string     `json:"type"`
		Target   Expression `json:"target"`
		Argument Expression `json:"argument"`
	}{"application", e.Target, e.Argument})
}

func (e *Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}{"identifier", e.Name})
}
