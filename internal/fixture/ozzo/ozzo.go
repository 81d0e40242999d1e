// Package ozzo is a miniature rule-based validation library used as adapter
// test input. Rules are plain values answering Validate(value) error, Errors
// is a field-keyed error map that is itself an error, and rule sets can be
// exposed as callables.
package ozzo

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// Errors is a field-keyed collection of validation failures.
type Errors map[string]error

func (es Errors) Error() string {
	if len(es) == 0 {
		return ""
	}
	keys := make([]string, 0, len(es))
	for k := range es {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", k, es[k].Error())
	}
	b.WriteString(".")
	return b.String()
}

// Rule validates one value.
type Rule interface {
	Validate(value any) error
}

// Validate applies rules to a value, stopping at the first failure.
func Validate(value any, rules ...Rule) error {
	for _, r := range rules {
		if err := r.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

// RuleFunc packages rules as a callable for APIs that take functions.
func RuleFunc(rules ...Rule) func(any) error {
	return func(value any) error {
		return Validate(value, rules...)
	}
}

type requiredRule struct{}

// Required fails on nil and zero values.
var Required Rule = requiredRule{}

func (requiredRule) Validate(value any) error {
	if value == nil {
		return errors.New("cannot be blank")
	}
	rv := reflect.ValueOf(value)
	if rv.IsZero() {
		return errors.New("cannot be blank")
	}
	return nil
}

type lengthRule struct {
	min, max int
}

// Length bounds the length of strings, slices and maps. Zero disables a
// bound.
func Length(min, max int) Rule { return lengthRule{min: min, max: max} }

func (r lengthRule) Validate(value any) error {
	rv := reflect.ValueOf(value)
	var n int
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		n = rv.Len()
	default:
		return errors.New("cannot get the length")
	}
	if r.min > 0 && n < r.min {
		return fmt.Errorf("the length must be no less than %d", r.min)
	}
	if r.max > 0 && n > r.max {
		return fmt.Errorf("the length must be no more than %d", r.max)
	}
	return nil
}

type inRule struct {
	values []any
}

// In restricts a value to a fixed set.
func In(values ...any) Rule { return inRule{values: values} }

func (r inRule) Validate(value any) error {
	for _, v := range r.values {
		if reflect.DeepEqual(v, value) {
			return nil
		}
	}
	return errors.New("must be a valid value")
}

type matchRule struct {
	re *regexp.Regexp
}

// Match requires strings to match a pattern.
func Match(re *regexp.Regexp) Rule { return matchRule{re: re} }

func (r matchRule) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("must be a string")
	}
	if !r.re.MatchString(s) {
		return errors.New("must be in a valid format")
	}
	return nil
}

// KeyRules binds rules to one map key.
type KeyRules struct {
	key      string
	rules    []Rule
	optional bool
}

// Key builds the rules for one map key.
func Key(name string, rules ...Rule) *KeyRules {
	return &KeyRules{key: name, rules: rules}
}

// Optional marks the key as allowed to be absent.
func (k *KeyRules) Optional() *KeyRules {
	k.optional = true
	return k
}

type mapRule struct {
	keys []*KeyRules
}

// Map validates a string-keyed map field by field, returning an Errors map.
func Map(keys ...*KeyRules) Rule { return mapRule{keys: keys} }

func (r mapRule) Validate(value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return errors.New("must be a map")
	}
	errs := Errors{}
	for _, k := range r.keys {
		v, present := m[k.key]
		if !present {
			if !k.optional {
				errs[k.key] = errors.New("cannot be blank")
			}
			continue
		}
		if err := Validate(v, k.rules...); err != nil {
			errs[k.key] = err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
