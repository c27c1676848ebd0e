package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// OptionKind tags how the client identified its choice.
type OptionKind int

const (
	OptionUnset OptionKind = iota
	OptionIndex
	OptionLiteral
)

// SelectedOption is either an index into the question's options or the
// literal option text. The zero value is unset.
type SelectedOption struct {
	Kind    OptionKind
	Index   int
	Literal string
}

func IndexOption(i int) SelectedOption { return SelectedOption{Kind: OptionIndex, Index: i} }

func LiteralOption(s string) SelectedOption { return SelectedOption{Kind: OptionLiteral, Literal: s} }

func (o SelectedOption) IsSet() bool { return o.Kind != OptionUnset }

// Resolve normalizes the selection to option text for q. Index selections
// outside the option list are rejected.
func (o SelectedOption) Resolve(q *Question) (string, error) {
	switch o.Kind {
	case OptionIndex:
		if o.Index < 0 || o.Index >= len(q.Options) {
			return "", fmt.Errorf("option index %d out of range", o.Index)
		}
		return q.Options[o.Index], nil
	case OptionLiteral:
		return o.Literal, nil
	default:
		return "", fmt.Errorf("no option selected")
	}
}

func (o SelectedOption) String() string {
	switch o.Kind {
	case OptionIndex:
		return strconv.Itoa(o.Index)
	case OptionLiteral:
		return o.Literal
	default:
		return ""
	}
}

func (o SelectedOption) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case OptionIndex:
		return json.Marshal(o.Index)
	case OptionLiteral:
		return json.Marshal(o.Literal)
	default:
		return []byte("null"), nil
	}
}

func (o *SelectedOption) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = SelectedOption{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = LiteralOption(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("selected option must be a string or an integer index")
	}
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return fmt.Errorf("selected option index must be an integer: %w", err)
	}
	*o = IndexOption(i)
	return nil
}

type storedOption struct {
	Kind    string `bson:"kind"`
	Index   int    `bson:"index,omitempty"`
	Literal string `bson:"literal,omitempty"`
}

func (o SelectedOption) MarshalBSONValue() (bsontype.Type, []byte, error) {
	so := storedOption{}
	switch o.Kind {
	case OptionIndex:
		so.Kind, so.Index = "index", o.Index
	case OptionLiteral:
		so.Kind, so.Literal = "literal", o.Literal
	default:
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(so)
}

func (o *SelectedOption) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bson.TypeNull {
		*o = SelectedOption{}
		return nil
	}
	var so storedOption
	raw := bson.RawValue{Type: t, Value: data}
	if err := raw.Unmarshal(&so); err != nil {
		return err
	}
	switch so.Kind {
	case "index":
		*o = IndexOption(so.Index)
	case "literal":
		*o = LiteralOption(so.Literal)
	default:
		*o = SelectedOption{}
	}
	return nil
}
