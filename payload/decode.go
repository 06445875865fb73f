// Package payload turns the shell's encoded launch argument into a validated
// list of shareable files. The pipeline is strictly ordered and short-circuits
// on the first fault: base64 transport decode, UTF-8 check, JSON parse, then
// per-item field validation. A single bad item aborts the whole decode.
package payload

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"github.com/quickshare/sharesheet-go/failure"
	"github.com/quickshare/sharesheet-go/types"
)

// PathsKey is the top-level JSON key carrying the share items.
const PathsKey = "ShareFilePaths"

// Decode parses raw into an ordered list of share files. The returned error,
// when non-nil, is always a failure.Failure; the list is nil on any failure.
// Duplicate ids are legal input and preserved.
func Decode(raw string) ([]types.ShareFile, error) {
	if raw == "" {
		return nil, failure.DecodeInvalidFormat()
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, failure.DecodeBase64()
	}

	if !utf8.Valid(data) {
		return nil, failure.WrapDecodeError(errInvalidUTF8)
	}

	var doc map[string]any
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, failure.DecodeJSONParse()
	}

	rawItems, ok := doc[PathsKey].([]any)
	if !ok || len(rawItems) == 0 {
		return nil, failure.DecodeJSONParse()
	}

	files := make([]types.ShareFile, 0, len(rawItems))
	for _, rawItem := range rawItems {
		item, ok := rawItem.(map[string]any)
		if !ok {
			return nil, failure.InvalidType(PathsKey+" item", "Map")
		}
		id, err := stringField(item, "Id")
		if err != nil {
			return nil, err
		}
		name, err := stringField(item, "Name")
		if err != nil {
			return nil, err
		}
		dir, err := stringField(item, "Path")
		if err != nil {
			return nil, err
		}
		files = append(files, types.ShareFile{ID: id, Name: name, Directory: dir})
	}
	return files, nil
}

// stringField extracts a required string field from one share item.
func stringField(item map[string]any, name string) (string, error) {
	v, ok := item[name]
	if !ok {
		return "", failure.MissingField(name)
	}
	s, ok := v.(string)
	if !ok {
		return "", failure.MissingField(name)
	}
	return s, nil
}

type utf8Error struct{}

func (utf8Error) Error() string { return "payload is not valid UTF-8 text" }

var errInvalidUTF8 = utf8Error{}
