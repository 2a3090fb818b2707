// Package formula compiles the expressions of computed fields into
// Semantic MediaWiki parser functions.
//
// A computed field holds one or more expressions separated by ';'. Each one is
// either "functionCall, p1=v1, p2=v2, ..." or a variable definition
// "$name <- functionCall, ...". Parameters starting with '?' become query
// printouts, parameters starting with '@' become template parameters and
// values starting with '$' become variable reads.
package formula

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
	"go.uber.org/zap"
)

// Policy decides what happens when a formula references an unknown symbol.
type Policy int

const (
	// Warn logs the unresolved reference and keeps compiling.
	Warn Policy = iota
	// Fail stops the compilation with schema.ErrUnresolvedReference.
	Fail
)

// ParsePolicy accepts "warn" and "fail".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "warn":
		return Warn, nil
	case "fail", "strict":
		return Fail, nil
	}
	return Warn, fmt.Errorf("unknown formula policy '%s'", s)
}

func (p Policy) String() string {
	if p == Fail {
		return "fail"
	}
	return "warn"
}

// Scope resolves the symbols referenced by formulas.
type Scope interface {
	HasProperty(name string) bool
	HasVariable(name string) bool
	DefineVariable(name string) error
}

// Compiler translates formulas in the context of a link property.
type Compiler struct {
	scope        Scope
	linkProperty string
	policy       Policy
	log          *zap.SugaredLogger
}

func New(scope Scope, linkProperty string, policy Policy, log *zap.SugaredLogger) *Compiler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Compiler{scope: scope, linkProperty: linkProperty, policy: policy, log: log}
}

const definitionArrow = " <- "

var (
	remainingVariable  = regexp.MustCompile(`\$([A-Za-z0-9_]+)`)
	remainingParameter = regexp.MustCompile(`@([A-Za-z0-9_]+)`)
)

// Compile translates the whole domain of a computed field.
// The domain is expected with '<' and '>' escaped as entities, and so is the result.
func (c *Compiler) Compile(domain string) (string, error) {
	if len(strings.TrimSpace(domain)) == 0 {
		return "", nil
	}

	// entities contain ';' and would break the split
	decoded := strings.NewReplacer("&lt;", "<", "&gt;", ">").Replace(domain)

	var formula string
	for _, e := range strings.Split(decoded, ";") {
		if len(strings.TrimSpace(e)) == 0 {
			continue
		}
		if name, expr, found := strings.Cut(e, definitionArrow); found {
			name = strings.TrimPrefix(strings.TrimSpace(name), "$")
			compiled, err := c.Expression(expr)
			if err != nil {
				return "", err
			}
			formula += "{{#vardefine: " + name + " | " + compiled + " }}"
			if err := c.scope.DefineVariable(name); err != nil {
				return "", err
			}
		} else {
			compiled, err := c.Expression(e)
			if err != nil {
				return "", err
			}
			formula += compiled
		}
		formula = strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(formula)
	}
	return formula, nil
}

// normalize turns a parameter value into the name of a property.
func (c *Compiler) normalize(value string) string {
	name := schema.NormalizeNames(value)
	if name != value {
		c.log.Infow("invalid character in property name, modified", "name", value, "normalized", name)
	}
	return schema.Capitalize(name)
}

// Expression translates a single "functionCall, p1=v1, ..." expression.
func (c *Compiler) Expression(expr string) (string, error) {
	parts := strings.Split(expr, ", ")
	formula := parts[0]

	for _, p := range parts[1:] {
		name, value, found := strings.Cut(p, "=")
		if !found {
			c.log.Warnw("formula parameter without value, ignored", "parameter", p)
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		var realValue, component string
		pieces := strings.Split(value, ".")
		if pieces[0] == c.linkProperty && len(pieces) > 1 {
			component = c.normalize(pieces[len(pieces)-1])
			realValue = c.linkProperty + "." + component
		} else {
			component = c.normalize(value)
			realValue = component
		}

		if variable, isVariable := strings.CutPrefix(component, "$"); isVariable {
			if !c.scope.HasVariable(variable) {
				if err := c.unresolved("variable", variable); err != nil {
					return "", err
				}
			}
			formula = replaceToken(formula, name, "{{#var: "+variable+"}}")
			continue
		}

		if !c.scope.HasProperty(component) {
			if err := c.unresolved("property", component); err != nil {
				return "", err
			}
		}
		switch {
		case strings.HasPrefix(name, "?"):
			formula = replaceToken(formula, name, "?"+realValue)
		case strings.HasPrefix(name, "@"):
			formula = replaceToken(formula, name, "{{{"+realValue+"|}}}")
		}
	}

	for _, m := range remainingVariable.FindAllStringSubmatch(formula, -1) {
		if !c.scope.HasVariable(m[1]) {
			if err := c.unresolved("variable", m[1]); err != nil {
				return "", err
			}
		}
	}
	formula = remainingVariable.ReplaceAllString(formula, "{{#var: $1}}")
	formula = remainingParameter.ReplaceAllString(formula, "{{{$1|}}}")

	return formula, nil
}

func (c *Compiler) unresolved(kind, name string) error {
	if c.policy == Fail {
		return fmt.Errorf("%w: %s '%s'", schema.ErrUnresolvedReference, kind, name)
	}
	c.log.Warnw("formula references an undefined "+kind, kind, name)
	return nil
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// replaceToken replaces the occurrences of tok not followed by an identifier character.
func replaceToken(s, tok, repl string) string {
	if len(tok) == 0 {
		return s
	}
	var b strings.Builder
	for {
		i := strings.Index(s, tok)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := i + len(tok)
		if end < len(s) && isIdentByte(s[end]) {
			b.WriteString(s[:end])
		} else {
			b.WriteString(s[:i])
			b.WriteString(repl)
		}
		s = s[end:]
	}
}
