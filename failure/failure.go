package failure

import "fmt"

// Kind discriminates the three failure families the helper can produce.
type Kind string

const (
	KindDecode    Kind = "decode"
	KindJSONParse Kind = "json_parse"
	KindShare     Kind = "share"
)

// Failure is the single error currency between the decoder, the invoker and
// the session controller. Implementations carry a rendered message only and
// never retain the fault that produced them.
type Failure interface {
	error
	Kind() Kind
	Message() string
}

// DecodeFailure covers transport and structural faults in the encoded argument.
type DecodeFailure struct {
	Reason string
}

func (e *DecodeFailure) Error() string   { return e.Reason }
func (e *DecodeFailure) Kind() Kind      { return KindDecode }
func (e *DecodeFailure) Message() string { return e.Reason }

// JSONParseFailure covers per-item schema violations inside ShareFilePaths.
type JSONParseFailure struct {
	Reason string
}

func (e *JSONParseFailure) Error() string   { return e.Reason }
func (e *JSONParseFailure) Kind() Kind      { return KindJSONParse }
func (e *JSONParseFailure) Message() string { return e.Reason }

// ShareFailure covers faults raised by the native share facility.
type ShareFailure struct {
	Reason string
}

func (e *ShareFailure) Error() string   { return e.Reason }
func (e *ShareFailure) Kind() Kind      { return KindShare }
func (e *ShareFailure) Message() string { return e.Reason }

// Decode-stage constructors. Messages are canonical and stable so the UI can
// show them verbatim.

func DecodeInvalidFormat() *DecodeFailure {
	return &DecodeFailure{Reason: "Invalid argument format"}
}

func DecodeBase64() *DecodeFailure {
	return &DecodeFailure{Reason: "Failed to decode base64 argument"}
}

func DecodeJSONParse() *DecodeFailure {
	return &DecodeFailure{Reason: "Failed to parse share payload"}
}

func WrapDecodeError(err error) *DecodeFailure {
	return &DecodeFailure{Reason: fmt.Sprintf("Failed to decode argument: %v", err)}
}

// Per-item constructors.

func MissingField(name string) *JSONParseFailure {
	return &JSONParseFailure{Reason: fmt.Sprintf("Missing required field: %s", name)}
}

func InvalidType(field, expected string) *JSONParseFailure {
	return &JSONParseFailure{Reason: fmt.Sprintf("Invalid type for %s, expected %s", field, expected)}
}

func WrapParseError(err error) *JSONParseFailure {
	return &JSONParseFailure{Reason: fmt.Sprintf("Failed to parse share item: %v", err)}
}

// Share-stage constructors.

func NoFilesToShare() *ShareFailure {
	return &ShareFailure{Reason: "No files to share"}
}

func WrapShareError(err error) *ShareFailure {
	return &ShareFailure{Reason: fmt.Sprintf("Share action failed: %v", err)}
}
