// Package protos implements lossless, field-level editing of the ONNX protobuf messages.
//
// Only the handful of fields needed to inspect and rewrite graph inputs are named here (see onnx.go).
// Every other field, known or unknown to this package, is carried as raw wire bytes and written back untouched,
// so a model survives Unmarshal/Marshal byte-for-byte unless one of its fields is explicitly modified.
package protos

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field is one encoded field of a Message.
type Field struct {
	Num  protowire.Number
	Type protowire.Type

	// tag holds the tag bytes as read, so non-canonical encodings are preserved.
	tag []byte

	// length holds the length prefix of a protowire.BytesType field as read, for the same reason.
	// It's reset when the payload is re-encoded.
	length []byte

	// value holds the encoded value following the tag. For protowire.BytesType it holds only the payload,
	// without the length prefix.
	value []byte

	// sub is the decoded payload of a BytesType field, once it's been accessed as a message.
	sub *Message
}

// Message is a decoded protobuf message: an ordered list of fields.
//
// Sub-messages are decoded lazily, on first access, and re-encoded only if they (or any of their
// descendants) were modified.
type Message struct {
	fields   []*Field
	modified bool
}

// NewMessage returns an empty message, to be populated with the Append* and Set* methods.
func NewMessage() *Message {
	return &Message{}
}

// Unmarshal decodes one level of a protobuf message. Nested messages are decoded when accessed.
func Unmarshal(b []byte) (*Message, error) {
	m := &Message{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "invalid protobuf field tag")
		}
		f := &Field{Num: num, Type: typ, tag: b[:n]}
		b = b[n:]
		if typ == protowire.BytesType {
			payload, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, errors.Wrapf(protowire.ParseError(n), "invalid length-delimited value for field #%d", num)
			}
			f.length = b[:n-len(payload)]
			f.value = payload
			b = b[n:]
		} else {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, errors.Wrapf(protowire.ParseError(n), "invalid value for field #%d", num)
			}
			f.value = b[:n]
			b = b[n:]
		}
		m.fields = append(m.fields, f)
	}
	return m, nil
}

// Marshal encodes the message. For a message that was not modified it returns exactly the bytes it was decoded from.
func (m *Message) Marshal() []byte {
	return m.appendTo(nil)
}

func (m *Message) appendTo(b []byte) []byte {
	for _, f := range m.fields {
		if f.tag != nil {
			b = append(b, f.tag...)
		} else {
			b = protowire.AppendTag(b, f.Num, f.Type)
		}
		if f.Type != protowire.BytesType {
			b = append(b, f.value...)
			continue
		}
		if f.sub != nil && f.sub.changed() {
			f.value = f.sub.Marshal()
			f.length = nil
		}
		if f.length != nil {
			b = append(b, f.length...)
			b = append(b, f.value...)
		} else {
			b = protowire.AppendBytes(b, f.value)
		}
	}
	return b
}

// changed reports whether m or any of its decoded sub-messages was modified.
func (m *Message) changed() bool {
	if m.modified {
		return true
	}
	for _, f := range m.fields {
		if f.sub != nil && f.sub.changed() {
			return true
		}
	}
	return false
}

// Len returns the number of encoded fields, counting each element of a repeated (unpacked) field.
func (m *Message) Len() int {
	return len(m.fields)
}

// Has returns whether at least one field with the given number is present.
func (m *Message) Has(num protowire.Number) bool {
	for _, f := range m.fields {
		if f.Num == num {
			return true
		}
	}
	return false
}

// last returns the last field with the given number, or nil. Protobuf semantics for singular scalar
// fields is "last one wins".
func (m *Message) last(num protowire.Number) *Field {
	for ii := len(m.fields) - 1; ii >= 0; ii-- {
		if m.fields[ii].Num == num {
			return m.fields[ii]
		}
	}
	return nil
}

func (f *Field) message() (*Message, error) {
	if f.Type != protowire.BytesType {
		return nil, errors.Errorf("field #%d has wire type %d, not a message", f.Num, f.Type)
	}
	if f.sub == nil {
		sub, err := Unmarshal(f.value)
		if err != nil {
			return nil, errors.WithMessagef(err, "decoding message in field #%d", f.Num)
		}
		f.sub = sub
	}
	return f.sub, nil
}

// Messages returns all sub-messages stored in the repeated field num, in order.
func (m *Message) Messages(num protowire.Number) ([]*Message, error) {
	var msgs []*Message
	for _, f := range m.fields {
		if f.Num != num {
			continue
		}
		sub, err := f.message()
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, sub)
	}
	return msgs, nil
}

// Message returns the sub-message in the singular field num, or nil if it's not set.
//
// Protobuf merges repeated occurrences of a singular message field. That is not supported here, and
// such a field is reported as an error instead, since editing only one of the occurrences would be wrong.
func (m *Message) Message(num protowire.Number) (*Message, error) {
	var found *Field
	for _, f := range m.fields {
		if f.Num != num {
			continue
		}
		if found != nil {
			return nil, errors.Errorf("singular message field #%d is set more than once, merging is not supported", num)
		}
		found = f
	}
	if found == nil {
		return nil, nil
	}
	return found.message()
}

// String returns the value of the string field num, or "" if it's not set.
func (m *Message) String(num protowire.Number) string {
	f := m.last(num)
	if f == nil || f.Type != protowire.BytesType {
		return ""
	}
	return string(f.value)
}

// Strings returns all values of the repeated string field num.
func (m *Message) Strings(num protowire.Number) []string {
	var values []string
	for _, f := range m.fields {
		if f.Num == num && f.Type == protowire.BytesType {
			values = append(values, string(f.value))
		}
	}
	return values
}

// Int64 returns the value of the varint field num, and whether it was set.
func (m *Message) Int64(num protowire.Number) (int64, bool) {
	f := m.last(num)
	if f == nil || f.Type != protowire.VarintType {
		return 0, false
	}
	v, n := protowire.ConsumeVarint(f.value)
	if n < 0 {
		return 0, false
	}
	return int64(v), true
}

// Int64s returns all values of the repeated varint field num, accepting both packed and unpacked encodings.
func (m *Message) Int64s(num protowire.Number) ([]int64, error) {
	var values []int64
	for _, f := range m.fields {
		if f.Num != num {
			continue
		}
		switch f.Type {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(f.value)
			if n < 0 {
				return nil, errors.Wrapf(protowire.ParseError(n), "field #%d", num)
			}
			values = append(values, int64(v))
		case protowire.BytesType:
			for b := f.value; len(b) > 0; {
				v, n := protowire.ConsumeVarint(b)
				if n < 0 {
					return nil, errors.Wrapf(protowire.ParseError(n), "packed field #%d", num)
				}
				values = append(values, int64(v))
				b = b[n:]
			}
		default:
			return nil, errors.Errorf("field #%d has wire type %d, not a varint", num, f.Type)
		}
	}
	return values, nil
}

// SetInt64 sets the singular varint field num to v. An existing field keeps its position; duplicates are removed.
// If the field is absent it's appended.
func (m *Message) SetInt64(num protowire.Number, v int64) {
	m.set(&Field{Num: num, Type: protowire.VarintType, value: protowire.AppendVarint(nil, uint64(v))})
}

// SetString sets the singular string field num to s, see SetInt64.
func (m *Message) SetString(num protowire.Number, s string) {
	m.set(&Field{Num: num, Type: protowire.BytesType, value: []byte(s)})
}

func (m *Message) set(nf *Field) {
	m.modified = true
	kept := m.fields[:0]
	replaced := false
	for _, f := range m.fields {
		if f.Num != nf.Num {
			kept = append(kept, f)
			continue
		}
		if !replaced {
			kept = append(kept, nf)
			replaced = true
		}
	}
	m.fields = kept
	if !replaced {
		m.fields = append(m.fields, nf)
	}
}

// Clear removes all occurrences of field num. It's a no-op if the field is not present.
func (m *Message) Clear(num protowire.Number) {
	if !m.Has(num) {
		return
	}
	m.modified = true
	kept := m.fields[:0]
	for _, f := range m.fields {
		if f.Num != num {
			kept = append(kept, f)
		}
	}
	m.fields = kept
}

// AppendMessage appends sub as a new element of the (repeated) message field num.
func (m *Message) AppendMessage(num protowire.Number, sub *Message) *Message {
	m.modified = true
	m.fields = append(m.fields, &Field{Num: num, Type: protowire.BytesType, value: sub.Marshal(), sub: sub})
	return m
}

// AppendString appends s as a new element of the (repeated) string field num.
func (m *Message) AppendString(num protowire.Number, s string) *Message {
	m.modified = true
	m.fields = append(m.fields, &Field{Num: num, Type: protowire.BytesType, value: []byte(s)})
	return m
}

// AppendInt64 appends v as a new (unpacked) element of the varint field num.
func (m *Message) AppendInt64(num protowire.Number, v int64) *Message {
	m.modified = true
	m.fields = append(m.fields, &Field{Num: num, Type: protowire.VarintType, value: protowire.AppendVarint(nil, uint64(v))})
	return m
}
