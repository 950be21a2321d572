package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"

	ferrors "github.com/vango-dev/freedux/internal/errors"
	"github.com/vango-dev/freedux/internal/statefile"
)

const sampleDoc = `{
  "todos": [{"title": "write", "done": false}],
  "settings": {"theme": "light"},
  "count": 1
}
`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return runWith(t, &cli{}, args...)
}

func runWith(t *testing.T, c *cli, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(c)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGet(t *testing.T) {
	file := writeDoc(t, "state.json", sampleDoc)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"get", file, "todos.0.title"}, "\"write\"\n"},
		{[]string{"get", file, "$.settings.theme"}, "\"light\"\n"},
		{[]string{"get", file, "settings", "--yaml"}, "theme: light\n"},
	}
	for _, tt := range tests {
		out, _, err := run(t, tt.args...)
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if out != tt.want {
			t.Errorf("%v: got %q, want %q", tt.args, out, tt.want)
		}
	}
}

func TestGetMissing(t *testing.T) {
	file := writeDoc(t, "state.json", sampleDoc)

	_, _, err := run(t, "get", file, "todos.3")
	if err == nil {
		t.Fatal("expected error for missing path")
	}
	if !strings.Contains(err.Error(), "no value at $.todos[3]") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGetInvalidPath(t *testing.T) {
	file := writeDoc(t, "state.json", sampleDoc)

	_, _, err := run(t, "get", file, "$..title")
	var fe *ferrors.FreeduxError
	if !errors.As(err, &fe) || fe.Code != ferrors.CodeInvalidPath {
		t.Fatalf("expected F004, got %v", err)
	}
}

func TestSet(t *testing.T) {
	file := writeDoc(t, "state.json", sampleDoc)

	out, errOut, err := run(t, "set", file, "todos.0.done", "true")
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	doc, err := statefile.Decode([]byte(out), statefile.JSON)
	if err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	want := map[string]any{
		"todos":    []any{map[string]any{"title": "write", "done": true}},
		"settings": map[string]any{"theme": "light"},
		"count":    int64(1),
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(errOut, "shared:    [count settings]") {
		t.Errorf("expected shared keys in report, got:\n%s", errOut)
	}
	if !strings.Contains(errOut, "rewritten: [todos]") {
		t.Errorf("expected rewritten keys in report, got:\n%s", errOut)
	}

	// The file is untouched without --write.
	data, _ := os.ReadFile(file)
	if string(data) != sampleDoc {
		t.Error("set without --write should not modify the file")
	}
}

func TestSetWriteYAML(t *testing.T) {
	file := writeDoc(t, "state.yaml", "settings:\n  theme: light\n")

	_, _, err := run(t, "set", file, "settings", "{theme: dark, size: 2}", "--yaml", "--write")
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	doc, err := statefile.Load(file)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	want := map[string]any{"settings": map[string]any{"theme": "dark", "size": int64(2)}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestSetNoop(t *testing.T) {
	file := writeDoc(t, "state.json", sampleDoc)

	_, errOut, err := run(t, "set", file, "settings.theme", `"light"`)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(errOut, "nothing changed") {
		t.Errorf("expected no-op report, got:\n%s", errOut)
	}
}

func TestSetUnreachable(t *testing.T) {
	file := writeDoc(t, "state.json", sampleDoc)

	_, errOut, err := run(t, "set", file, "count.deeper", "1")
	var fe *ferrors.FreeduxError
	if !errors.As(err, &fe) || fe.Code != ferrors.CodeUnreachablePath {
		t.Fatalf("expected F001, got %v", err)
	}
	if !strings.Contains(errOut, "write dropped") {
		t.Errorf("expected the store diagnostic on stderr, got:\n%s", errOut)
	}
}

func TestTopLevelSharing(t *testing.T) {
	settings := map[string]any{"theme": "light"}
	before := map[string]any{"settings": settings, "count": int64(1)}
	after := map[string]any{"settings": settings, "count": int64(2), "added": true}

	shared, rewritten := topLevelSharing(before, after)
	if diff := cmp.Diff([]string{"settings"}, shared); diff != "" {
		t.Errorf("shared mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"added", "count"}, rewritten); diff != "" {
		t.Errorf("rewritten mismatch (-want +got):\n%s", diff)
	}

	if s, r := topLevelSharing(nil, []any{1}); s != nil || r != nil {
		t.Errorf("non-map documents should report nothing, got %v %v", s, r)
	}
}

func TestVersionShort(t *testing.T) {
	out, _, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != version+"\n" {
		t.Errorf("got %q, want %q", out, version+"\n")
	}
}

// bucket is an in-memory statefile.ObjectStore.
type bucket map[string][]byte

func (b bucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := b[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (b bucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestObjectDocuments(t *testing.T) {
	objects := bucket{"states/app.json": []byte(sampleDoc)}
	c := &cli{objects: objects}

	out, _, err := runWith(t, c, "get", "s3://states/app.json", "settings.theme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != "\"light\"\n" {
		t.Errorf("get: got %q", out)
	}

	if _, _, err := runWith(t, c, "set", "s3://states/app.json", "count", "2", "--write"); err != nil {
		t.Fatalf("set: %v", err)
	}
	doc, err := statefile.Decode(objects["states/app.json"], statefile.JSON)
	if err != nil {
		t.Fatalf("stored object is not JSON: %v", err)
	}
	got := doc.(map[string]any)["count"]
	if got != int64(2) {
		t.Errorf("count = %v, want 2", got)
	}

	_, _, err = runWith(t, c, "get", "s3://states/missing.json", "count")
	var fe *ferrors.FreeduxError
	if !errors.As(err, &fe) || fe.Code != ferrors.CodeStateFile {
		t.Errorf("expected F005 for missing object, got %v", err)
	}
}
