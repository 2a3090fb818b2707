package schema

import (
	"fmt"
	"strings"
)

// InputType is the type of a schema record.
type InputType int

const (
	TypePage InputType = iota
	TypeText
	TypeList
	TypeNumber
	TypeVector
	TypeFile
	TypeTree
	TypeDate
	TypeBoolean
	TypeTokens
	TypeRegex
	TypeCoordinates
	TypeExternal
	TypeOption
	TypeRepeated
	TypeSubpage
	TypeRecord
	TypeQuantity
	TypeURL
	TypeEmail
	TypeTelephone
	TypeTemperature
	TypeLiteral
	TypeNexus
)

// typeEntry binds a type to the keyword used in schema files and
// to the datatype label of the wiki platform. Both parse to the type.
type typeEntry struct {
	typ     InputType
	keyword string
	label   string
}

var inputTypes = []typeEntry{
	{TypePage, "Page", "Page"},
	{TypeText, "Text", "Text"},
	{TypeList, "List", "List"},
	{TypeNumber, "Number", "Number"},
	{TypeVector, "Vector", "Vector"},
	{TypeFile, "File", "File"},
	{TypeTree, "Tree", "Hierarchy"},
	{TypeDate, "Date", "Date"},
	{TypeBoolean, "Boolean", "Boolean"},
	{TypeTokens, "Tokens", "Tokens"},
	{TypeRegex, "Regex", "Regex"},
	{TypeCoordinates, "Coordinates", "Geographic coordinates"},
	{TypeExternal, "External", "External identifier"},
	{TypeOption, "Option", "Option"},
	{TypeRepeated, "Repeated", "Repeated"},
	{TypeSubpage, "Subpage", "Subpage"},
	{TypeRecord, "Record", "Record"},
	{TypeQuantity, "Quantity", "Quantity"},
	{TypeURL, "URL", "URL"},
	{TypeEmail, "Email", "Email"},
	{TypeTelephone, "Telephone", "Telephone number"},
	{TypeTemperature, "Temperature", "Temperature"},
	{TypeLiteral, "Literal", "Constant"},
	{TypeNexus, "Nexus", "Nexus"},
}

var typeByName = map[string]InputType{}

// Option is a flag qualifying a schema record.
type Option int

const (
	OptMandatory Option = iota
	OptExclusive
	OptIdentifier
	OptMultiple
	OptSubpages
	OptExtended
	OptList
	OptComputed
	OptModule
	OptInteger
	OptPositive
	OptRestricted
	OptDefined
	OptHidden
	OptVector
)

var optionKeywords = []struct {
	opt     Option
	keyword string
}{
	{OptMandatory, "Mandatory"},
	{OptExclusive, "Exclusive"},
	{OptIdentifier, "Identifier"},
	{OptMultiple, "Multiple"},
	{OptSubpages, "Subpages"},
	{OptExtended, "Extended"},
	{OptList, "List"},
	{OptComputed, "Computed"},
	{OptModule, "Module"},
	{OptInteger, "Integer"},
	{OptPositive, "Positive"},
	{OptRestricted, "Restricted"},
	{OptDefined, "Defined"},
	{OptHidden, "Hidden"},
	{OptVector, "Vector"},
}

var optionByName = map[string]Option{}

func init() {
	for _, e := range inputTypes {
		typeByName[e.keyword] = e.typ
		typeByName[e.label] = e.typ
	}
	for _, e := range optionKeywords {
		optionByName[e.keyword] = e.opt
	}
}

// ParseInputType accepts either the schema keyword or the platform label of a type.
func ParseInputType(s string) (InputType, error) {
	t, ok := typeByName[strings.TrimSpace(s)]
	if !ok {
		return TypeText, fmt.Errorf("%w '%s'", ErrUnknownType, s)
	}
	return t, nil
}

// String returns the schema keyword of the type.
func (t InputType) String() string {
	if int(t) < 0 || int(t) >= len(inputTypes) {
		return fmt.Sprintf("InputType(%d)", int(t))
	}
	return inputTypes[t].keyword
}

// Label returns the datatype label used by the wiki platform.
func (t InputType) Label() string {
	if int(t) < 0 || int(t) >= len(inputTypes) {
		return t.String()
	}
	return inputTypes[t].label
}

// ParseOption parses a single option keyword.
func ParseOption(s string) (Option, error) {
	o, ok := optionByName[strings.TrimSpace(s)]
	if !ok {
		return OptMandatory, fmt.Errorf("%w '%s'", ErrUnknownOption, s)
	}
	return o, nil
}

func (o Option) String() string {
	if int(o) < 0 || int(o) >= len(optionKeywords) {
		return fmt.Sprintf("Option(%d)", int(o))
	}
	return optionKeywords[o].keyword
}

// Options is a set of Option flags.
type Options uint32

// OptionsOf builds a set from the given flags.
func OptionsOf(opts ...Option) Options {
	var set Options
	for _, o := range opts {
		set = set.With(o)
	}
	return set
}

// ParseOptions parses a comma-separated list of option keywords.
// Empty items are ignored.
func ParseOptions(s string) (Options, error) {
	var set Options
	for _, item := range strings.Split(s, ",") {
		if len(strings.TrimSpace(item)) == 0 {
			continue
		}
		o, err := ParseOption(item)
		if err != nil {
			return 0, err
		}
		set = set.With(o)
	}
	return set, nil
}

func (s Options) Has(o Option) bool {
	return s&(1<<uint(o)) != 0
}

func (s Options) With(o Option) Options {
	return s | 1<<uint(o)
}

func (s Options) Without(o Option) Options {
	return s &^ (1 << uint(o))
}

// List returns the flags in declaration order.
func (s Options) List() []Option {
	var list []Option
	for _, e := range optionKeywords {
		if s.Has(e.opt) {
			list = append(list, e.opt)
		}
	}
	return list
}

func (s Options) String() string {
	var names []string
	for _, o := range s.List() {
		names = append(names, o.String())
	}
	return strings.Join(names, ",")
}
