package todo

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestEncodeFormat(t *testing.T) {
	l := List{
		{ID: "1", Text: "Buy milk", IsCompleted: false},
		{ID: "2", Text: "Call mom", IsCompleted: true},
	}
	data, err := Encode(l)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := `[{"id":"1","text":"Buy milk","isCompleted":false},{"id":"2","text":"Call mom","isCompleted":true}]`
	if string(data) != want {
		t.Errorf("Encode:\n got %s\nwant %s", data, want)
	}
}

func TestEncodeNil(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Encode(nil): got %s, want []", data)
	}
}

func TestRoundTrip(t *testing.T) {
	lists := map[string]List{
		"empty":  {},
		"single": {{ID: "1718031234567", Text: "Buy milk"}},
		"mixed": {
			{ID: "b", Text: "second by id, first by order", IsCompleted: true},
			{ID: "a", Text: "  spaced  "},
			{ID: "c", Text: "quotes \" and <html> & ünïcödé"},
		},
	}

	for name, l := range lists {
		t.Run(name, func(t *testing.T) {
			data, err := Encode(l)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := Parse(data)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if !got.Equal(l) {
				t.Errorf("round trip: got %+v, want %+v", got, l)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr bool
	}{
		{"empty input", "", 0, false},
		{"whitespace input", "  \n", 0, false},
		{"empty array", "[]", 0, false},
		{"valid", `[{"id":"1","text":"a","isCompleted":false}]`, 1, false},
		{"extra fields ignored", `[{"id":"1","text":"a","isCompleted":true,"color":"red"}]`, 1, false},
		{"malformed json", `[{"id":`, 0, true},
		{"object instead of array", `{"tasks":[]}`, 0, true},
		{"null", `null`, 0, true},
		{"missing id", `[{"text":"a","isCompleted":false}]`, 0, true},
		{"empty id", `[{"id":"","text":"a","isCompleted":false}]`, 0, true},
		{"blank text", `[{"id":"1","text":"   ","isCompleted":false}]`, 0, true},
		{"string flag", `[{"id":"1","text":"a","isCompleted":"yes"}]`, 0, true},
		{"numeric id", `[{"id":1,"text":"a","isCompleted":false}]`, 0, true},
		{"duplicate ids", `[{"id":"1","text":"a","isCompleted":false},{"id":"1","text":"b","isCompleted":false}]`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Len() != tt.wantLen {
				t.Errorf("Len: got %d, want %d", got.Len(), tt.wantLen)
			}
			if !tt.wantErr && got == nil {
				t.Error("Parse should return a non-nil list")
			}
		})
	}
}

func TestValidateReportsPaths(t *testing.T) {
	err := Validate([]byte(`[{"id":"1","text":"ok","isCompleted":false},{"id":"2","text":"","isCompleted":false}]`))
	if err == nil {
		t.Fatal("expected error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if ve.Path != "[1].text" {
		t.Errorf("Path: got %q, want [1].text", ve.Path)
	}
}

func TestDecodeFallsBackToEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	got := Decode([]byte("not json"), logger)
	if got == nil || got.Len() != 0 {
		t.Errorf("Decode: got %+v, want empty list", got)
	}
	if !strings.Contains(buf.String(), "discarding unreadable task list") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
}

func TestDecodeAbsent(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	got := Decode(nil, logger)
	if got == nil || got.Len() != 0 {
		t.Errorf("Decode(nil): got %+v", got)
	}
	if buf.Len() != 0 {
		t.Errorf("absent value should not log, got %q", buf.String())
	}
}

func TestDecodeValid(t *testing.T) {
	got := Decode([]byte(`[{"id":"1","text":"a","isCompleted":true}]`), nil)
	want := List{{ID: "1", Text: "a", IsCompleted: true}}
	if !got.Equal(want) {
		t.Errorf("Decode: got %+v, want %+v", got, want)
	}
}
