package irc

import (
	"context"
	"reflect"
	"strings"
	"unicode"
)

// Fields is the named-parameter mapping carried by every event delivery.
type Fields map[string]any

// EventKey is the reserved field name carrying the triggering event's
// canonical name in every delivery. Triggers may not supply it themselves;
// the bus overwrites it.
const EventKey = "__event__"

// Event is one delivery to a handler: the canonical event name plus the
// field mapping supplied by the trigger.
type Event struct {
	Name   string
	Fields Fields
}

// String returns the named field as a string, or "" when absent or not a
// string.
func (e Event) String(key string) string {
	s, _ := e.Fields[key].(string)
	return s
}

// Int returns the named field as an int, or 0 when absent or not an int.
func (e Event) Int(key string) int {
	n, _ := e.Fields[key].(int)
	return n
}

// Strings returns the named field as a string slice, or nil.
func (e Event) Strings(key string) []string {
	v, _ := e.Fields[key].([]string)
	return v
}

// handlerFunc is the normalized form every registered handler is bound to.
type handlerFunc func(ctx context.Context, e Event) error

var (
	eventType   = reflect.TypeOf(Event{})
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	fieldsType  = reflect.TypeOf(Fields{})
)

// bindHandler validates fn's shape and builds its invocation once, at
// registration. Accepted shapes:
//
//	func(Event)
//	func(Event) error
//	func(context.Context, Event)
//	func(context.Context, Event) error
//
// and the same four with a struct T in place of Event, where T's exported
// fields receive event fields by `irc:"name"` tag or by the
// lower_snake_case of the field name. A field of type Fields tagged
// `irc:"*"` collects the fields no other struct field claimed.
//
// Shape problems are a RegistrationError here, never at trigger time.
func bindHandler(event string, fn any) (handlerFunc, error) {
	if fn == nil {
		return nil, &RegistrationError{Event: event, Reason: "handler is nil"}
	}
	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func {
		return nil, &RegistrationError{Event: event, Reason: "handler is " + t.Kind().String() + ", not a function"}
	}
	if t.IsVariadic() {
		return nil, &RegistrationError{Event: event, Reason: "handler must not be variadic"}
	}

	switch t.NumOut() {
	case 0, 1:
		if t.NumOut() == 1 && t.Out(0) != errorType {
			return nil, &RegistrationError{Event: event, Reason: "handler may only return error"}
		}
	default:
		return nil, &RegistrationError{Event: event, Reason: "handler may only return error"}
	}
	returnsError := t.NumOut() == 1

	wantsContext := false
	argIndex := 0
	switch t.NumIn() {
	case 1:
	case 2:
		if t.In(0) != contextType {
			return nil, &RegistrationError{Event: event, Reason: "two-argument handler must take context.Context first"}
		}
		wantsContext = true
		argIndex = 1
	default:
		return nil, &RegistrationError{Event: event, Reason: "handler must take (Event) or (context.Context, Event)"}
	}

	v := reflect.ValueOf(fn)
	argType := t.In(argIndex)

	call := func(ctx context.Context, arg reflect.Value) error {
		in := make([]reflect.Value, 0, 2)
		if wantsContext {
			in = append(in, reflect.ValueOf(ctx))
		}
		in = append(in, arg)
		out := v.Call(in)
		if returnsError {
			if err, ok := out[0].Interface().(error); ok && err != nil {
				return err
			}
		}
		return nil
	}

	if argType == eventType {
		return func(ctx context.Context, e Event) error {
			return call(ctx, reflect.ValueOf(e))
		}, nil
	}

	if argType.Kind() != reflect.Struct {
		return nil, &RegistrationError{Event: event, Reason: "handler argument must be Event or a struct"}
	}
	binding, err := bindStruct(event, argType)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, e Event) error {
		return call(ctx, binding.build(e))
	}, nil
}

// structBinding is the precomputed field mapping for a struct-injected
// handler argument.
type structBinding struct {
	argType  reflect.Type
	fields   []boundField
	catchAll int // field index of the Fields catch-all, -1 when absent
}

type boundField struct {
	index int
	name  string
}

func bindStruct(event string, t reflect.Type) (*structBinding, error) {
	b := &structBinding{argType: t, catchAll: -1}
	claimed := map[string]bool{}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.TrimSpace(f.Tag.Get("irc"))
		if name == "-" {
			continue
		}
		if name == "*" {
			if b.catchAll >= 0 {
				return nil, &RegistrationError{Event: event, Reason: "duplicate catch-all field " + f.Name}
			}
			if f.Type != fieldsType {
				return nil, &RegistrationError{Event: event, Reason: "catch-all field " + f.Name + " must have type Fields"}
			}
			b.catchAll = i
			continue
		}
		if name == "" {
			name = snakeCase(f.Name)
		}
		if claimed[name] {
			return nil, &RegistrationError{Event: event, Reason: "field name " + name + " bound twice"}
		}
		claimed[name] = true
		b.fields = append(b.fields, boundField{index: i, name: name})
	}
	return b, nil
}

// build populates a new struct value from the event's fields. Values with
// an unassignable type are left at the field's zero value; the error
// surface for that belongs at registration, not delivery.
func (b *structBinding) build(e Event) reflect.Value {
	arg := reflect.New(b.argType).Elem()
	claimed := map[string]bool{}
	for _, f := range b.fields {
		claimed[f.name] = true
		value, ok := e.Fields[f.name]
		if !ok || value == nil {
			continue
		}
		fv := arg.Field(f.index)
		vv := reflect.ValueOf(value)
		switch {
		case vv.Type().AssignableTo(fv.Type()):
			fv.Set(vv)
		case vv.Type().ConvertibleTo(fv.Type()):
			fv.Set(vv.Convert(fv.Type()))
		}
	}
	if b.catchAll >= 0 {
		rest := Fields{}
		for k, v := range e.Fields {
			if !claimed[k] {
				rest[k] = v
			}
		}
		arg.Field(b.catchAll).Set(reflect.ValueOf(rest))
	}
	return arg
}

// snakeCase converts an exported Go field name to the lower_snake_case
// field naming used on the wire schemas, keeping acronym runs together:
// NewNick becomes new_nick, HGCode becomes hg_code.
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
