package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrValueMismatch is returned when a raw answer cannot be coerced into the
// value kind a question accepts.
var ErrValueMismatch = errors.New("answer does not match question type")

// ValueKind discriminates the Value union.
type ValueKind string

const (
	KindEmpty  ValueKind = "empty"
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
	KindList   ValueKind = "list"
	KindFile   ValueKind = "file"
)

// FileRef describes an uploaded file without its contents.
type FileRef struct {
	Name     string `json:"name" yaml:"name"`
	MIMEType string `json:"type" yaml:"type"`
	Size     int64  `json:"size" yaml:"size"`
}

// SizeMB reports the size in mebibytes (bytes / 1,048,576).
func (f FileRef) SizeMB() float64 {
	return float64(f.Size) / (1 << 20)
}

// Value is an answer scoped to a question's declared type. Only the field
// selected by Kind is meaningful.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []string
	File *FileRef
}

func EmptyValue() Value               { return Value{Kind: KindEmpty} }
func StringValue(s string) Value      { return Value{Kind: KindString, Str: s} }
func NumberValue(n float64) Value     { return Value{Kind: KindNumber, Num: n} }
func BoolValue(b bool) Value          { return Value{Kind: KindBool, Bool: b} }
func ListValue(items ...string) Value { return Value{Kind: KindList, List: append([]string{}, items...)} }
func FileValue(ref FileRef) Value     { return Value{Kind: KindFile, File: &ref} }

// IsEmpty reports whether the value counts as "no answer" for its kind. A
// false boolean is empty so a required checkbox must be ticked.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindString:
		return strings.TrimSpace(v.Str) == ""
	case KindNumber:
		return false
	case KindBool:
		return !v.Bool
	case KindList:
		return len(v.List) == 0
	case KindFile:
		return v.File == nil
	default:
		return true
	}
}

// Len is the rune count of a string or the item count of a list; other kinds
// report -1.
func (v Value) Len() int {
	switch v.Kind {
	case KindString:
		return utf8.RuneCountInString(v.Str)
	case KindList:
		return len(v.List)
	default:
		return -1
	}
}

// Raw converts the value into the plain Go value used in JSON payloads.
func (v Value) Raw() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindList:
		return append([]string{}, v.List...)
	case KindFile:
		if v.File == nil {
			return nil
		}
		return *v.File
	default:
		return nil
	}
}

// String renders the value for logs and plain-text summaries.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindList:
		return strings.Join(v.List, ", ")
	case KindFile:
		if v.File == nil {
			return ""
		}
		return fmt.Sprintf("%s (%s, %d bytes)", v.File.Name, v.File.MIMEType, v.File.Size)
	default:
		return ""
	}
}

// MarshalJSON emits the raw answer.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw())
}

// UnmarshalJSON infers the kind from the JSON shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := inferValue(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func inferValue(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return EmptyValue(), nil
	case string:
		return StringValue(typed), nil
	case float64:
		return NumberValue(typed), nil
	case bool:
		return BoolValue(typed), nil
	case []any:
		items, err := stringItems(typed)
		if err != nil {
			return Value{}, err
		}
		return ListValue(items...), nil
	case map[string]any:
		ref, err := fileRefFromMap(typed)
		if err != nil {
			return Value{}, err
		}
		return FileValue(ref), nil
	default:
		return Value{}, fmt.Errorf("survey: %w: unsupported %T", ErrValueMismatch, raw)
	}
}

// ValueFor coerces a raw answer (decoded JSON or form input) into the Value
// kind accepted by q. Nil and empty strings become the empty value.
func ValueFor(q Question, raw any) (Value, error) {
	return Coerce(q.ID, q.Type, q.MultiValued(), raw)
}

// Coerce is ValueFor for callers that only know the question id, its type and
// whether it is multi-valued.
func Coerce(id string, t QuestionType, multiValued bool, raw any) (Value, error) {
	if raw == nil {
		return EmptyValue(), nil
	}
	if v, ok := raw.(Value); ok {
		return v, nil
	}

	mismatch := func() (Value, error) {
		return Value{}, fmt.Errorf("survey: question %q (%s): %w: got %T", id, t, ErrValueMismatch, raw)
	}

	if multiValued {
		switch typed := raw.(type) {
		case []string:
			return ListValue(typed...), nil
		case []any:
			items, err := stringItems(typed)
			if err != nil {
				return mismatch()
			}
			return ListValue(items...), nil
		case string:
			if typed == "" {
				return ListValue(), nil
			}
			return ListValue(typed), nil
		default:
			return mismatch()
		}
	}

	switch t {
	case QuestionSingleChoice, QuestionText, QuestionTextarea, QuestionDate, QuestionDropdown:
		s, ok := raw.(string)
		if !ok {
			return mismatch()
		}
		if s == "" {
			return EmptyValue(), nil
		}
		return StringValue(s), nil
	case QuestionRating, QuestionNumber:
		switch typed := raw.(type) {
		case float64:
			return NumberValue(typed), nil
		case int:
			return NumberValue(float64(typed)), nil
		case int64:
			return NumberValue(float64(typed)), nil
		case json.Number:
			f, err := typed.Float64()
			if err != nil {
				return mismatch()
			}
			return NumberValue(f), nil
		case string:
			trimmed := strings.TrimSpace(typed)
			if trimmed == "" {
				return EmptyValue(), nil
			}
			f, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				return Value{}, fmt.Errorf("survey: question %q: %w: %q is not a number", id, ErrValueMismatch, typed)
			}
			return NumberValue(f), nil
		default:
			return mismatch()
		}
	case QuestionCheckbox:
		switch typed := raw.(type) {
		case bool:
			return BoolValue(typed), nil
		case string:
			switch strings.ToLower(strings.TrimSpace(typed)) {
			case "", "false", "off", "0", "no":
				return BoolValue(false), nil
			case "true", "on", "1", "yes":
				return BoolValue(true), nil
			}
			return mismatch()
		default:
			return mismatch()
		}
	case QuestionFileUpload:
		switch typed := raw.(type) {
		case FileRef:
			return FileValue(typed), nil
		case *FileRef:
			if typed == nil {
				return EmptyValue(), nil
			}
			return FileValue(*typed), nil
		case map[string]any:
			ref, err := fileRefFromMap(typed)
			if err != nil {
				return Value{}, fmt.Errorf("survey: question %q: %w", id, err)
			}
			return FileValue(ref), nil
		default:
			return mismatch()
		}
	case QuestionMultipleChoice:
		// always multi-valued
		return mismatch()
	default:
		return Value{}, fmt.Errorf("survey: question %q: %w: %q", id, ErrUnknownQuestionType, t)
	}
}

func stringItems(items []any) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("survey: %w: list item %T", ErrValueMismatch, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func fileRefFromMap(m map[string]any) (FileRef, error) {
	ref := FileRef{}
	name, _ := m["name"].(string)
	ref.Name = name
	mimeType, _ := m["type"].(string)
	ref.MIMEType = mimeType

	switch size := m["size"].(type) {
	case float64:
		ref.Size = int64(size)
	case int:
		ref.Size = int64(size)
	case int64:
		ref.Size = size
	case nil:
	default:
		return FileRef{}, fmt.Errorf("%w: file size %T", ErrValueMismatch, size)
	}
	if ref.Name == "" && ref.MIMEType == "" && ref.Size == 0 {
		return FileRef{}, fmt.Errorf("%w: file reference requires name, type or size", ErrValueMismatch)
	}
	return ref, nil
}
