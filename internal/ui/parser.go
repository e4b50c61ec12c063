package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseCSS parses a small CSS subset: selectors are element types, .class or #id (comma lists
// allowed), bodies are "key: value;" declarations. At-rules are skipped. Later rules override
// earlier ones for the same property.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputString(content), false)
	var open []int
	depth := 0
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if errors.Is(p.Err(), io.EOF) {
				return sheet, nil
			}
			return nil, fmt.Errorf("ui: parse css: %w", p.Err())
		case css.BeginAtRuleGrammar:
			depth++
		case css.EndAtRuleGrammar:
			depth--
		case css.BeginRulesetGrammar:
			open = open[:0]
			if depth > 0 {
				continue
			}
			for _, sel := range splitSelectors(string(data) + joinValues(p.Values())) {
				open = append(open, len(sheet.Rules))
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: map[string]string{}})
			}
		case css.DeclarationGrammar:
			key := strings.ToLower(strings.TrimSpace(string(data)))
			val := strings.TrimSpace(joinValues(p.Values()))
			for _, i := range open {
				sheet.Rules[i].Props[key] = val
			}
		case css.EndRulesetGrammar:
			open = open[:0]
		}
	}
}

func joinValues(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	return b.String()
}

// splitSelectors keeps the simple selectors this engine can match.
func splitSelectors(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		sel := strings.TrimSpace(part)
		if sel == "" || strings.ContainsAny(sel, " >+~:[") {
			continue
		}
		out = append(out, sel)
	}
	return out
}
