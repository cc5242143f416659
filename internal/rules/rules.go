// Package rules evaluates campaign filter expressions written in CEL
// against ranked profiles.
package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"bombardier/internal/quality"
)

// Rule is a compiled boolean filter. The zero value and a Rule compiled
// from an empty expression accept everything.
type Rule struct {
	Expression string
	program    cel.Program
}

// Compile type-checks expr against the profile variables. The expression
// must evaluate to a bool.
func Compile(expr string) (*Rule, error) {
	if expr == "" {
		return &Rule{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("username", cel.StringType),
		cel.Variable("platform", cel.StringType),
		cel.Variable("overall", cel.DoubleType),
		cel.Variable("tier", cel.StringType),
		cel.Variable("recommendation", cel.StringType),
		cel.Variable("bot_score", cel.DoubleType),
		cel.Variable("components", cel.MapType(cel.StringType, cel.DoubleType)),
		cel.Variable("interests", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("compile %q: result is %s, want bool", expr, ast.OutputType())
	}
	p, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("error creating Program: %w", err)
	}
	return &Rule{Expression: expr, program: p}, nil
}

// Match reports whether p satisfies the rule.
func (r *Rule) Match(p quality.RankedProfile) (bool, error) {
	if r == nil || r.program == nil {
		return true, nil
	}
	bot := quality.DefaultBotScore
	if p.BotScore != nil {
		bot = *p.BotScore
	}
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	components := p.QualityScore.Components
	if components == nil {
		components = map[string]float64{}
	}
	out, _, err := r.program.Eval(map[string]any{
		"username":       p.Username,
		"platform":       p.Platform,
		"overall":        p.QualityScore.Overall,
		"tier":           p.QualityScore.Tier,
		"recommendation": p.QualityScore.Recommendation,
		"bot_score":      bot,
		"components":     components,
		"interests":      interests,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", r.Expression, err)
	}
	v, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: non-bool result %v", r.Expression, out.Value())
	}
	return v, nil
}
