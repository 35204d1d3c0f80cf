package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// member is one key of a JSON object with its undecoded value.
type member struct {
	Key   string
	Value json.RawMessage
}

// object is a JSON object that keeps its key order. Templates store
// advancements and stats as objects whose key order is the display order, so
// decoding into a map would lose it.
type object []member

func (o *object) set(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	*o = append(*o, member{Key: key, Value: raw})
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(m.Value) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(m.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. Repeated keys keep their first
// position and last value.
func (o *object) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}

	keys, err := objectKeys(trimmed)
	if err != nil {
		return err
	}
	values := make(map[string]json.RawMessage, len(keys))
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return err
	}

	out := make(object, 0, len(keys))
	for _, k := range keys {
		out = append(out, member{Key: k, Value: values[k]})
	}
	*o = out
	return nil
}

// objectKeys returns the distinct top-level keys of a JSON object in the
// order they appear.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	// Each frame records whether the next string in an object is a key.
	type frame struct {
		object    bool
		expectKey bool
	}
	stack := []frame{{object: true, expectKey: true}}
	seen := make(map[string]struct{})
	var keys []string

	// valueDone flips the enclosing object back to expecting a key.
	valueDone := func() {
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].expectKey = true
		}
	}

	for len(stack) > 0 {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				if n := len(stack); stack[n-1].object {
					stack[n-1].expectKey = false
				}
				stack = append(stack, frame{object: v == '{', expectKey: v == '{'})
			case '}', ']':
				stack = stack[:len(stack)-1]
				valueDone()
			}
		case string:
			top := &stack[len(stack)-1]
			if top.object && top.expectKey {
				top.expectKey = false
				if len(stack) == 1 {
					if _, dup := seen[v]; !dup {
						seen[v] = struct{}{}
						keys = append(keys, v)
					}
				}
				continue
			}
			valueDone()
		default:
			valueDone()
		}
	}
	return keys, nil
}

// stringMap is a flat string-to-string JSON object that keeps key order.
type stringMap struct {
	keys   []string
	values map[string]string
}

func newStringMap() *stringMap {
	return &stringMap{values: make(map[string]string)}
}

func (m *stringMap) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *stringMap) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

func (m *stringMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// MarshalJSON implements json.Marshaler.
func (m *stringMap) MarshalJSON() ([]byte, error) {
	o := make(object, 0, len(m.keys))
	for _, k := range m.keys {
		if err := o.set(k, m.values[k]); err != nil {
			return nil, err
		}
	}
	return o.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler. Non-string values are skipped.
func (m *stringMap) UnmarshalJSON(data []byte) error {
	var o object
	if err := o.UnmarshalJSON(data); err != nil {
		return err
	}
	m.keys = nil
	m.values = make(map[string]string, len(o))
	for _, mem := range o {
		var s string
		if err := json.Unmarshal(mem.Value, &s); err != nil {
			continue
		}
		m.Set(mem.Key, s)
	}
	return nil
}
