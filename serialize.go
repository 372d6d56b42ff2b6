package irc

import (
	"fmt"
	"strings"
)

// Serializer turns a command name plus named fields into one wire line.
//
// Each Serializer owns its template registry. Clients that need divergent
// command sets hold independent Serializer instances; there is no shared
// global registry.
type Serializer struct {
	templates map[string][]*Template
}

// NewSerializer returns an empty Serializer with no registered commands.
// Most callers want NewRFC2812Serializer.
func NewSerializer() *Serializer {
	return &Serializer{templates: make(map[string][]*Template)}
}

// Register adds a template for command. Template grammar is described at
// parseTemplate. Commands are case-insensitive and stored upper-cased.
//
// Templates for one command are kept ordered by descending required-field
// count. Between templates with the same count, the earlier registration
// is tried first.
func (s *Serializer) Register(command, template string) error {
	t, err := parseTemplate(template)
	if err != nil {
		return err
	}
	command = strings.ToUpper(strings.TrimSpace(command))
	if command == "" {
		return &ValidationError{Command: command, Reason: "empty command name"}
	}

	list := s.templates[command]
	at := len(list)
	for i, existing := range list {
		if existing.required < t.required {
			at = i
			break
		}
	}
	list = append(list, nil)
	copy(list[at+1:], list[at:])
	list[at] = t
	s.templates[command] = list
	return nil
}

// Serialize selects the best template for command and renders fields into
// a single line without the terminating CR-LF.
//
// Selection order is most required fields first; ties resolve by
// registration order. The first template whose required fields are all
// present, and whose conditional fields (when present) have their
// dependencies present, is rendered. A broadcast-rule violation during
// rendering is a ValidationError, not a reason to try the next template.
func (s *Serializer) Serialize(command string, fields Fields) (string, error) {
	command = strings.ToUpper(strings.TrimSpace(command))
	list, ok := s.templates[command]
	if !ok {
		return "", &ValidationError{Command: command, Reason: "no templates registered", err: ErrUnknownCommand}
	}

	var depReason string
	for _, t := range list {
		ok, reason := t.match(fields)
		if !ok {
			if depReason == "" && strings.Contains(reason, "requires") {
				depReason = reason
			}
			continue
		}
		return t.render(command, fields)
	}

	if depReason != "" {
		return "", &ValidationError{Command: command, Reason: depReason}
	}
	return "", &ValidationError{
		Command: command,
		Reason:  fmt.Sprintf("missing fields for every template, closest match %q", list[0].raw),
	}
}

// Commands returns the registered command names, for diagnostics.
func (s *Serializer) Commands() []string {
	out := make([]string, 0, len(s.templates))
	for cmd := range s.templates {
		out = append(out, cmd)
	}
	return out
}
