package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AttributeKind: тип значения характеристики
type AttributeKind uint8

const (
	KindNull AttributeKind = iota
	KindString
	KindNumber
	KindBool
	KindList
)

func (k AttributeKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "null"
	}
}

// AttributeValue: значение характеристики товара. Хранится в JSONB, поэтому может быть
// строкой, числом, логическим значением, списком или null.
type AttributeValue struct {
	kind AttributeKind
	str  string
	num  float64
	b    bool
	list []AttributeValue
}

func StringValue(s string) AttributeValue {
	return AttributeValue{kind: KindString, str: s}
}

func NumberValue(n float64) AttributeValue {
	return AttributeValue{kind: KindNumber, num: n}
}

func BoolValue(b bool) AttributeValue {
	return AttributeValue{kind: KindBool, b: b}
}

func ListValue(items ...AttributeValue) AttributeValue {
	return AttributeValue{kind: KindList, list: items}
}

// StringList: сокращение для списка строк (например, recycled_materials).
func StringList(items ...string) AttributeValue {
	list := make([]AttributeValue, 0, len(items))
	for _, s := range items {
		list = append(list, StringValue(s))
	}
	return AttributeValue{kind: KindList, list: list}
}

func NullValue() AttributeValue {
	return AttributeValue{}
}

func (v AttributeValue) Kind() AttributeKind { return v.kind }

func (v AttributeValue) Bool() (bool, bool) { return v.b, v.kind == KindBool }

func (v AttributeValue) Number() (float64, bool) { return v.num, v.kind == KindNumber }

func (v AttributeValue) Str() (string, bool) { return v.str, v.kind == KindString }

func (v AttributeValue) List() ([]AttributeValue, bool) { return v.list, v.kind == KindList }

// Raw возвращает значение как текст без дополнительной разметки:
// числа в кратчайшей десятичной записи, списки через запятую, null как пустую строку.
func (v AttributeValue) Raw() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		return v.Join(",")
	default:
		return ""
	}
}

// Join склеивает элементы списка через sep. Для не-списков возвращает Raw.
func (v AttributeValue) Join(sep string) string {
	if v.kind != KindList {
		return v.Raw()
	}

	parts := make([]string, 0, len(v.list))
	for _, item := range v.list {
		parts = append(parts, item.Raw())
	}
	return strings.Join(parts, sep)
}

// YesNo отображает логическое значение как Yes/No.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func (v AttributeValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	parsed, err := fromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromAny(raw any) (AttributeValue, error) {
	switch t := raw.(type) {
	case nil:
		return NullValue(), nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return AttributeValue{}, fmt.Errorf("attribute number %q: %w", t.String(), err)
		}
		return NumberValue(f), nil
	case []any:
		items := make([]AttributeValue, 0, len(t))
		for _, item := range t {
			parsed, err := fromAny(item)
			if err != nil {
				return AttributeValue{}, err
			}
			items = append(items, parsed)
		}
		return ListValue(items...), nil
	case map[string]any:
		// вложенные объекты в каталоге не встречаются, сохраняем их как JSON-текст
		b, err := json.Marshal(t)
		if err != nil {
			return AttributeValue{}, err
		}
		return StringValue(string(b)), nil
	default:
		return AttributeValue{}, fmt.Errorf("unsupported attribute value %T", raw)
	}
}

// Attribute: именованная характеристика (specification или eco data).
type Attribute struct {
	Name  string         `json:"name"`
	Value AttributeValue `json:"value"`
}

func NewAttribute(name string, value AttributeValue) Attribute {
	return Attribute{Name: name, Value: value}
}
