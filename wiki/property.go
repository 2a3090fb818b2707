package wiki

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/shell"
)

// Property is a page of the Property namespace.
type Property struct {
	DocumentIdentity
	Type          schema.InputType
	SuperProperty string
	Domain        string
	Options       schema.Options
	Group         string // property group category, may be empty
}

func NewProperty(id int, name string, superProperty string, typ schema.InputType, domain string, options schema.Options, group string) *Property {
	return &Property{
		DocumentIdentity: DocumentIdentity{ID: id, Name: name},
		Type:             typ,
		SuperProperty:    superProperty,
		Domain:           domain,
		Options:          options,
		Group:            group,
	}
}

// constraints returns the annotations restricting the values of the property
// and whether the domain is a plain list of values.
func (p *Property) constraints() (string, bool) {
	if len(p.Domain) == 0 {
		return "", false
	}

	switch {
	case strings.Contains(p.Domain, "UNIQUE"):
		return "[[Has uniqueness constraint::true]]\n\n", false

	case p.Type == schema.TypeQuantity:
		return fmt.Sprintf("[[Display units::%s]]\n\n[[Corresponds to::1 %s]]\n\n", p.Domain, p.Domain), false

	case p.Type == schema.TypeNumber || p.Type == schema.TypeVector:
		c := schema.Constraints(p.Domain)
		min, minErr := strconv.ParseFloat(c["min"], 64)
		max, maxErr := strconv.ParseFloat(c["max"], 64)

		var s string
		if p.Options.Has(schema.OptPositive) || strings.Contains(p.Domain, "Positive") {
			s = "[[Allows value::&gt;0]]\n\n"
		} else if minErr == nil {
			s = fmt.Sprintf("[[Allows value::&gt;%s]]\n\n", formatNumber(min))
		}
		if maxErr == nil && (minErr != nil || max > min) {
			s += fmt.Sprintf("[[Allows value::&lt;%s]]\n\n", formatNumber(max))
		}
		return s, false

	case !p.Options.Has(schema.OptComputed) && strings.Contains(p.Domain, ","):
		var s string
		if !p.Options.Has(schema.OptDefined) {
			s = "[[Allows value::" + NA + "]]\n\n"
		}
		for _, v := range strings.Split(p.Domain, ",") {
			s += "[[Allows value::" + strings.TrimSpace(v) + "]]\n\n"
		}
		return s, true
	}

	return "", false
}

// typeLabel returns the datatype of the property on the platform.
func (p *Property) typeLabel(simpleList bool) string {
	switch {
	case p.Type == schema.TypeSubpage, p.Type == schema.TypeList && !simpleList,
		p.Type == schema.TypeTokens, p.Type == schema.TypeTree, p.Type == schema.TypeFile:
		return "Page"
	case simpleList, p.Type == schema.TypeRegex, p.Type == schema.TypeOption, p.Type == schema.TypeVector:
		return "Text"
	}
	return p.Type.Label()
}

// graph embeds a collapsible chart of the values taken by the property.
func (p *Property) graph(loc Localizer) string {
	var chart string
	switch {
	case p.Type == schema.TypeOption, p.Type == schema.TypeList, p.Type == schema.TypeNumber:
		_, chart = UnivariateChart(loc, p.Name, nil, p.Type, false, true)
	case p.Type == schema.TypeText && p.Options.Has(schema.OptExtended):
		_, chart = UnivariateChart(loc, p.Name, nil, p.Type, true, true)
	default:
		return ""
	}

	return fmt.Sprintf(`
&lt;div class="toccolours mw-collapsible mw-collapsed" style="width:800px; overflow:auto;"&gt;
    &lt;div style="font-weight:bold;line-height:1.6;"&gt;%s&lt;/div&gt;
    &lt;div class="mw-collapsible-content"&gt;
%s
    &lt;/div&gt;
&lt;/div&gt;`, loc.Get("PropDistribution"), chart)
}

func (p *Property) Render(env *Env) (string, error) {
	constraints, simpleList := p.constraints()

	var subProperty, sameAs string
	if len(p.SuperProperty) > 0 {
		if strings.Contains(p.SuperProperty, ":") {
			sameAs = "Equivalent to [[Imported from::" + p.SuperProperty + "]]"
		} else {
			subProperty = "Subproperty of [[Subproperty of::" + p.SuperProperty + "]]"
		}
	}

	var group string
	if len(p.Group) > 0 {
		group = "[[Category:" + p.Group + "]]"
	}

	return p.fill(env, shell.Property, map[string]string{
		"PNAME":        schema.NormalizeNames(p.Name),
		"TYPE":         p.typeLabel(simpleList),
		"GRAPH":        p.graph(env.Lang),
		"SAMEAS":       sameAs,
		"SUB-PROPERTY": subProperty,
		"CONSTRAINTS":  constraints,
		"PGROUP":       group,
	})
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
