package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ValueKind tags the payload held by a Value.
type ValueKind int

// Property value kinds.
const (
	StringValue ValueKind = iota
	NumberValue
	NumbersValue
	StringsValue
	PairsValue
	StringListsValue
)

// Pair is one entry of an ordered string map.
type Pair struct {
	Key   string
	Value string
}

// Value is a property value. Construct it with the typed helpers below.
type Value struct {
	kind  ValueKind
	str   string
	num   float64
	nums  []float64
	strs  []string
	pairs []Pair
	lists [][]string
}

// String returns a string value.
func String(s string) Value { return Value{kind: StringValue, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: NumberValue, num: f} }

// Numbers returns an array-of-numbers value.
func Numbers(fs ...float64) Value { return Value{kind: NumbersValue, nums: fs} }

// Strings returns an array-of-strings value.
func Strings(ss []string) Value { return Value{kind: StringsValue, strs: ss} }

// Pairs returns a nested map value. Later pairs with a repeated key replace
// the earlier value but keep its position.
func Pairs(ps []Pair) Value {
	out := make([]Pair, 0, len(ps))
	pos := make(map[string]int, len(ps))
	for _, p := range ps {
		if i, ok := pos[p.Key]; ok {
			out[i].Value = p.Value
			continue
		}
		pos[p.Key] = len(out)
		out = append(out, p)
	}
	return Value{kind: PairsValue, pairs: out}
}

// StringLists returns an array of string arrays.
func StringLists(ls [][]string) Value { return Value{kind: StringListsValue, lists: ls} }

// Kind reports which payload the value carries.
func (v Value) Kind() ValueKind { return v.kind }

// Str returns the string payload.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload.
func (v Value) Num() float64 { return v.num }

// Nums returns the array-of-numbers payload.
func (v Value) Nums() []float64 { return v.nums }

// Strs returns the array-of-strings payload.
func (v Value) Strs() []string { return v.strs }

// PairList returns the nested map payload in insertion order.
func (v Value) PairList() []Pair { return v.pairs }

// Lists returns the array-of-string-arrays payload.
func (v Value) Lists() [][]string { return v.lists }

// Lookup finds key in a nested map value.
func (v Value) Lookup(key string) (string, bool) {
	for _, p := range v.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// MarshalJSON encodes the payload selected by the kind.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case StringValue:
		return marshal(v.str)
	case NumberValue:
		return marshal(v.num)
	case NumbersValue:
		return marshal(nonNil(v.nums))
	case StringsValue:
		return marshal(nonNil(v.strs))
	case PairsValue:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, p := range v.pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeMember(&buf, p.Key, p.Value); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case StringListsValue:
		return marshal(nonNil(v.lists))
	default:
		return nil, fmt.Errorf("unknown property kind %d", v.kind)
	}
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case StringValue:
		return v.str, nil
	case NumberValue:
		return v.num, nil
	case NumbersValue:
		return nonNil(v.nums), nil
	case StringsValue:
		return nonNil(v.strs), nil
	case PairsValue:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range v.pairs {
			node.Content = append(node.Content, stringNode(p.Key), stringNode(p.Value))
		}
		return node, nil
	case StringListsValue:
		return nonNil(v.lists), nil
	default:
		return nil, fmt.Errorf("unknown property kind %d", v.kind)
	}
}

// Properties is an insertion-ordered property bag.
type Properties struct {
	keys   []string
	values map[string]Value
}

// NewProperties returns an empty bag.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]Value)}
}

// Set stores v under key. Overwriting keeps the key's first position.
func (p *Properties) Set(key string, v Value) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key is set.
func (p *Properties) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Len returns the number of keys.
func (p *Properties) Len() int { return len(p.keys) }

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	return append([]string(nil), p.keys...)
}

// All iterates over key/value pairs in insertion order.
func (p *Properties) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range p.keys {
			if !yield(k, p.values[k]) {
				return
			}
		}
	}
}

// MarshalJSON writes the bag as an object in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, k, p.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the bag as a mapping node in insertion order.
func (p *Properties) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range p.keys {
		var val yaml.Node
		if err := val.Encode(p.values[k]); err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		node.Content = append(node.Content, stringNode(k), &val)
	}
	return node, nil
}

func writeMember(buf *bytes.Buffer, key string, v any) error {
	kb, err := marshal(key)
	if err != nil {
		return err
	}
	vb, err := marshal(v)
	if err != nil {
		return fmt.Errorf("property %s: %w", strconv.Quote(key), err)
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}

// marshal is json.Marshal without HTML escaping. The caller's encoder
// decides whether to escape.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
