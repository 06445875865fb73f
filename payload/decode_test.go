package payload

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/quickshare/sharesheet-go/failure"
)

func encode(doc string) string {
	return base64.StdEncoding.EncodeToString([]byte(doc))
}

func TestDecodeValidPayload(t *testing.T) {
	doc := `{"ShareFilePaths":[` +
		`{"Id":"a1","Name":"pic.jpg","Path":"C:\\tmp"},` +
		`{"Id":"b2","Name":"notes.txt","Path":"/home/user/docs"},` +
		`{"Id":"a1","Name":"pic.jpg","Path":"C:\\tmp"}]}`

	files, err := Decode(encode(doc))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(files))
	}
	if files[0].ID != "a1" || files[0].Name != "pic.jpg" || files[0].Directory != `C:\tmp` {
		t.Errorf("First entity mismatch: %+v", files[0])
	}
	if files[1].ID != "b2" || files[1].Name != "notes.txt" {
		t.Errorf("Second entity mismatch: %+v", files[1])
	}
	// duplicates are legal input and must be preserved in order
	if files[2] != files[0] {
		t.Errorf("Duplicate entity not preserved: %+v", files[2])
	}
}

func TestDecodeEndToEndEntity(t *testing.T) {
	doc := `{"ShareFilePaths":[{"Id":"a1","Name":"pic.jpg","Path":"C:\\tmp"}]}`
	files, err := Decode(encode(doc))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Expected 1 file, got %d", len(files))
	}
	if got := files[0].Extension(); got != "jpg" {
		t.Errorf("Extension = %q, want %q", got, "jpg")
	}
	if got := files[0].FullPath(); got != `C:\tmp\a1.jpg` {
		t.Errorf("FullPath = %q, want %q", got, `C:\tmp\a1.jpg`)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	_, err := Decode("")
	var df *failure.DecodeFailure
	if !errors.As(err, &df) {
		t.Fatalf("Expected DecodeFailure, got %T (%v)", err, err)
	}
	if !strings.Contains(df.Message(), "Invalid argument format") {
		t.Errorf("Unexpected message: %q", df.Message())
	}
}

func TestDecodeInvalidBase64(t *testing.T) {
	_, err := Decode("!!!not-base64!!!")
	var df *failure.DecodeFailure
	if !errors.As(err, &df) {
		t.Fatalf("Expected DecodeFailure, got %T (%v)", err, err)
	}
	if !strings.Contains(df.Message(), "base64") {
		t.Errorf("Unexpected message: %q", df.Message())
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := Decode(encode(`{"ShareFilePaths": [unterminated`))
	var df *failure.DecodeFailure
	if !errors.As(err, &df) {
		t.Fatalf("Expected DecodeFailure, got %T (%v)", err, err)
	}
}

func TestDecodeMissingPathsKey(t *testing.T) {
	_, err := Decode(encode(`{"Other": 1}`))
	var df *failure.DecodeFailure
	if !errors.As(err, &df) {
		t.Fatalf("Expected DecodeFailure, got %T (%v)", err, err)
	}
}

func TestDecodeEmptyPathsArray(t *testing.T) {
	_, err := Decode(encode(`{"ShareFilePaths": []}`))
	var df *failure.DecodeFailure
	if !errors.As(err, &df) {
		t.Fatalf("Expected DecodeFailure for empty array, got %T (%v)", err, err)
	}
}

func TestDecodeMissingFieldAbortsWholeBatch(t *testing.T) {
	doc := `{"ShareFilePaths":[` +
		`{"Id":"a1","Name":"good.jpg","Path":"/tmp"},` +
		`{"Id":"b2","Path":"/tmp"},` +
		`{"Id":"c3","Name":"alsogood.png","Path":"/tmp"}]}`

	files, err := Decode(encode(doc))
	var jf *failure.JSONParseFailure
	if !errors.As(err, &jf) {
		t.Fatalf("Expected JSONParseFailure, got %T (%v)", err, err)
	}
	if !strings.Contains(jf.Message(), "Name") {
		t.Errorf("Expected message to name the missing field, got %q", jf.Message())
	}
	if files != nil {
		t.Errorf("Expected no entities on failure, got %d", len(files))
	}
}

func TestDecodeWrongFieldType(t *testing.T) {
	doc := `{"ShareFilePaths":[{"Id":42,"Name":"x.txt","Path":"/tmp"}]}`
	_, err := Decode(encode(doc))
	var jf *failure.JSONParseFailure
	if !errors.As(err, &jf) {
		t.Fatalf("Expected JSONParseFailure, got %T (%v)", err, err)
	}
	if !strings.Contains(jf.Message(), "Id") {
		t.Errorf("Expected message to name the field, got %q", jf.Message())
	}
}

func TestDecodeNonObjectItem(t *testing.T) {
	doc := `{"ShareFilePaths":["just-a-string"]}`
	_, err := Decode(encode(doc))
	var jf *failure.JSONParseFailure
	if !errors.As(err, &jf) {
		t.Fatalf("Expected JSONParseFailure, got %T (%v)", err, err)
	}
	if !strings.Contains(jf.Message(), "Map") {
		t.Errorf("Expected invalid-type message, got %q", jf.Message())
	}
}

func TestDecodeTopLevelNotObject(t *testing.T) {
	_, err := Decode(encode(`[1,2,3]`))
	var df *failure.DecodeFailure
	if !errors.As(err, &df) {
		t.Fatalf("Expected DecodeFailure, got %T (%v)", err, err)
	}
}
