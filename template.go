package irc

import (
	"fmt"
	"strings"
)

// fieldMode selects how a template field's value is rendered into the line.
type fieldMode int

const (
	// fieldPlain renders a single token.
	fieldPlain fieldMode = iota
	// fieldComma joins a multi-valued field with commas.
	fieldComma
	// fieldSpace joins a multi-valued field with spaces.
	fieldSpace
	// fieldFlag renders the field's own name when the value is truthy,
	// nothing otherwise.
	fieldFlag
	// fieldNoSpace renders a single token and rejects values containing
	// a space, since they would corrupt the parameter boundaries.
	fieldNoSpace
	// fieldText renders the trailing free-text parameter, preceded by
	// the ':' separator. It may contain spaces and must come last.
	fieldText
)

var fieldModes = map[string]fieldMode{
	"":        fieldPlain,
	"comma":   fieldComma,
	"space":   fieldSpace,
	"bool":    fieldFlag,
	"nospace": fieldNoSpace,
	"text":    fieldText,
}

// templateField is one {name} placeholder in a template.
type templateField struct {
	name string
	mode fieldMode

	// dependsOn names another field that must be present before this one
	// may be used. A field with a dependency is not required for the
	// template to match.
	dependsOn string
}

// templateSegment is a run of literal text or a field reference within one
// space-delimited word of a template.
type templateSegment struct {
	literal string
	field   int // index into Template.fields, -1 for literal segments
}

// templateWord is one space-delimited unit of a template. A word that
// renders to the empty string is omitted from the line, which is how
// boolean flags and absent conditional fields disappear cleanly.
type templateWord []templateSegment

// Template describes how one command's named parameters map onto a single
// wire shape. Commands with several valid shapes register several
// templates; see Serializer for selection.
type Template struct {
	raw      string
	words    []templateWord
	fields   []templateField
	required int
}

// parseTemplate compiles a template string such as
//
//	JOIN {channel:comma} {key:comma}
//	WHO {mask} {o:bool}
//	PRIVMSG {target} {message:text}
//
// Placeholders are {name}, {name:modifier}, or {name:modifier?dependency}.
// Modifiers: comma, space, bool, nospace, text. A placeholder with a
// ?dependency suffix is optional and usable only when the named field is
// also present.
func parseTemplate(raw string) (*Template, error) {
	t := &Template{raw: raw}
	seen := map[string]bool{}

	for _, wordText := range strings.Fields(raw) {
		var word templateWord
		rest := wordText
		for rest != "" {
			open := strings.IndexByte(rest, '{')
			if open < 0 {
				word = append(word, templateSegment{literal: rest, field: -1})
				break
			}
			if open > 0 {
				word = append(word, templateSegment{literal: rest[:open], field: -1})
			}
			closing := strings.IndexByte(rest, '}')
			if closing < open {
				return nil, fmt.Errorf("invalid template %q: unbalanced braces", raw)
			}
			inner := rest[open+1 : closing]
			rest = rest[closing+1:]

			field, err := parseField(inner)
			if err != nil {
				return nil, fmt.Errorf("invalid template %q: %w", raw, err)
			}
			if seen[field.name] {
				return nil, fmt.Errorf("invalid template %q: duplicate field %q", raw, field.name)
			}
			seen[field.name] = true
			t.fields = append(t.fields, field)
			word = append(word, templateSegment{field: len(t.fields) - 1})
		}
		if len(word) > 0 {
			t.words = append(t.words, word)
		}
	}

	for _, f := range t.fields {
		if f.dependsOn == "" {
			t.required++
			continue
		}
		if !seen[f.dependsOn] {
			return nil, fmt.Errorf("invalid template %q: field %q depends on unknown field %q", raw, f.name, f.dependsOn)
		}
	}
	return t, nil
}

func parseField(inner string) (templateField, error) {
	spec, dep, _ := strings.Cut(inner, "?")
	name, modifier, _ := strings.Cut(spec, ":")
	if name == "" {
		return templateField{}, fmt.Errorf("empty field name")
	}
	mode, ok := fieldModes[modifier]
	if !ok {
		return templateField{}, fmt.Errorf("unknown modifier %q", modifier)
	}
	return templateField{name: name, mode: mode, dependsOn: dep}, nil
}

// match reports whether fields satisfies this template: every field without
// a dependency is present, and every present conditional field has its
// dependency present too. A key carrying a nil value counts as absent, so
// a nil required field fails validation instead of emitting a bare token.
// When a conditional dependency is the only thing missing, the reason
// describes it for a clearer ValidationError.
func (t *Template) match(fields Fields) (ok bool, reason string) {
	for _, f := range t.fields {
		if f.dependsOn == "" {
			if !fieldPresent(fields, f.name) {
				return false, fmt.Sprintf("missing field %q", f.name)
			}
			continue
		}
		if fieldPresent(fields, f.name) && !fieldPresent(fields, f.dependsOn) {
			return false, fmt.Sprintf("field %q requires field %q", f.name, f.dependsOn)
		}
	}
	return true, ""
}

func fieldPresent(fields Fields, name string) bool {
	value, ok := fields[name]
	return ok && value != nil
}

// render formats fields into a wire line. Multi-valued fields follow the
// broadcast rule: among sibling list fields, a length of 1 applies to all
// pairings, equal lengths pair element-wise, and any other combination of
// lengths is a ValidationError.
func (t *Template) render(command string, fields Fields) (string, error) {
	if err := t.checkBroadcast(command, fields); err != nil {
		return "", err
	}

	rendered := make([]string, 0, len(t.words))
	for _, word := range t.words {
		var b strings.Builder
		for _, seg := range word {
			if seg.field < 0 {
				b.WriteString(seg.literal)
				continue
			}
			f := t.fields[seg.field]
			value, present := fields[f.name]
			if !present || value == nil {
				continue
			}
			s, err := t.renderField(command, f, value)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		if w := b.String(); w != "" {
			rendered = append(rendered, w)
		}
	}
	return strings.Join(rendered, " "), nil
}

func (t *Template) renderField(command string, f templateField, value any) (string, error) {
	switch f.mode {
	case fieldFlag:
		if truthy(value) {
			return f.name, nil
		}
		return "", nil
	case fieldComma, fieldSpace:
		sep := ","
		if f.mode == fieldSpace {
			sep = " "
		}
		return strings.Join(stringValues(value), sep), nil
	case fieldText:
		items := stringValues(value)
		if len(items) != 1 {
			return "", &ValidationError{Command: command, Reason: fmt.Sprintf("field %q does not accept multiple values", f.name)}
		}
		return ":" + items[0], nil
	case fieldNoSpace, fieldPlain:
		items := stringValues(value)
		if len(items) != 1 {
			return "", &ValidationError{Command: command, Reason: fmt.Sprintf("field %q does not accept multiple values", f.name)}
		}
		if f.mode == fieldNoSpace && strings.Contains(items[0], " ") {
			return "", &ValidationError{Command: command, Reason: fmt.Sprintf("field %q cannot contain spaces", f.name)}
		}
		return items[0], nil
	}
	return "", &ValidationError{Command: command, Reason: fmt.Sprintf("field %q has unknown mode", f.name)}
}

// checkBroadcast validates list lengths across this template's multi-valued
// fields. A list of length 1 broadcasts against any sibling; longer lists
// must agree on a common length.
func (t *Template) checkBroadcast(command string, fields Fields) error {
	common := 0
	first := ""
	for _, f := range t.fields {
		if f.mode != fieldComma && f.mode != fieldSpace {
			continue
		}
		value, present := fields[f.name]
		if !present {
			continue
		}
		n := len(stringValues(value))
		if n <= 1 {
			continue
		}
		if common == 0 {
			common, first = n, f.name
			continue
		}
		if n != common {
			return &ValidationError{
				Command: command,
				Reason:  fmt.Sprintf("field %q has %d values but field %q has %d", f.name, n, first, common),
			}
		}
	}
	return nil
}

// stringValues normalizes a field value into its list of string elements.
// Scalars become a single-element list.
func stringValues(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{""}
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, len(v))
		for i, e := range v {
			out[i] = fmt.Sprint(e)
		}
		return out
	case []int:
		out := make([]string, len(v))
		for i, e := range v {
			out[i] = fmt.Sprint(e)
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

// truthy reports whether a boolean-flag field value should emit its token.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	default:
		return true
	}
}
