package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "unreachable path",
			code:    CodeUnreachablePath,
			wantMsg: "Write to an unreachable path",
			wantCat: CategoryState,
		},
		{
			name:    "invalid path",
			code:    CodeInvalidPath,
			wantMsg: "Invalid path expression",
			wantCat: CategoryPath,
		},
		{
			name:    "config",
			code:    CodeConfig,
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "F999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "state.json")
	if err.Message != `file "state.json" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != err.Message {
		t.Errorf("uncoded Error() = %q, want bare message", err.Error())
	}
}

func TestFreeduxError_Error(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := New(CodeStateFile).WithPath("$.a").Wrap(cause)
	want := "F005: Could not load state file at $.a: unexpected EOF"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
}

func TestFreeduxError_IsMatchesCode(t *testing.T) {
	sentinel := New(CodeUnreachablePath)
	err := New(CodeUnreachablePath).WithPath("$.x")

	if !errors.Is(err, sentinel) {
		t.Error("expected errors with the same code to match")
	}
	if errors.Is(err, New(CodeTypeMismatch)) {
		t.Error("did not expect errors with different codes to match")
	}
	if errors.Is(Newf(CategoryCLI, "x"), Newf(CategoryCLI, "x")) {
		t.Error("uncoded errors should not match by code")
	}

	wrapped := errors.Join(errors.New("outer"), err)
	if !errors.Is(wrapped, sentinel) {
		t.Error("expected match through errors.Join")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeConfig) != nil {
		t.Error("FromError(nil) should be nil")
	}

	plain := errors.New("boom")
	fe := FromError(plain, CodeConfig)
	if fe.Code != CodeConfig || fe.Wrapped != plain {
		t.Errorf("FromError wrapped incorrectly: %+v", fe)
	}

	orig := New(CodeNoStore)
	if FromError(orig, CodeConfig) != orig {
		t.Error("FromError should return an existing FreeduxError unchanged")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeUnreachablePath).
		WithPath("$.a.b").
		WithSuggestion("Initialise $.a first").
		Wrap(errors.New("nil map"))

	formatted := err.Format()
	for _, want := range []string{
		"ERROR F001: Write to an unreachable path",
		"at $.a.b",
		"cause: nil map",
		"Hint: Initialise $.a first",
		"Learn more: https://freedux.dev/docs/errors/F001",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
	if strings.Contains(formatted, "\033[") {
		t.Error("Format() should not contain ANSI codes when colors are disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	got := New(CodeTypeMismatch).WithPath("$.count").FormatCompact()
	want := "F002: Value does not fit the target at $.count"
	if got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(New(CodeInvalidPath).WithPath("$[").Wrap(errors.New("bad")))
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["code"] != "F004" || got["category"] != "path" || got["path"] != "$[" || got["cause"] != "bad" {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	want := []string{"F001", "F002", "F003", "F004", "F005", "F006"}
	if strings.Join(codes, ",") != strings.Join(want, ",") {
		t.Errorf("GetAllCodes() = %v, want %v", codes, want)
	}
	if _, ok := GetTemplate("F001"); !ok {
		t.Error("expected F001 template")
	}
	if _, ok := GetTemplate("F999"); ok {
		t.Error("did not expect F999 template")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six seven" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, New(CodeNoStore))
	if !strings.Contains(buf.String(), "ERROR F003") {
		t.Errorf("PrintError output = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, errors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("PrintError plain output = %q", buf.String())
	}
}
