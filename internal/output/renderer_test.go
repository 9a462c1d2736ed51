package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/braidcli/braid/internal/level"
	"github.com/braidcli/braid/internal/model"
)

func structured() model.Record {
	return model.Record{
		Time:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Source: "/var/log/api.log",
		Raw:    `{"v":0,"level":50,"name":"api","hostname":"web-1","pid":1234,"time":"2026-03-01T12:00:00.000Z","msg":"payment failed","req_id":"abc-123"}`,
		Level:  level.Error,
		Fields: map[string]any{
			"v": float64(0), "level": float64(50), "name": "api",
			"hostname": "web-1", "pid": float64(1234),
			"time": "2026-03-01T12:00:00.000Z", "msg": "payment failed",
			"req_id": "abc-123",
		},
	}
}

func passthrough() model.Record {
	return model.Record{Source: "app.log", Raw: "plain text line"}
}

func TestLongRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := New("long", &buf, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Render(structured()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"[2026-03-01T12:00:00.000Z]",
		"ERROR:",
		"api/1234 on web-1",
		"payment failed",
		"req_id=abc-123",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("long output missing %q:\n%s", want, out)
		}
	}
}

func TestLongRendererPassthrough(t *testing.T) {
	var buf bytes.Buffer
	r, _ := New("long", &buf, Options{})

	if err := r.Render(passthrough()); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "plain text line\n" {
		t.Errorf("expected passthrough verbatim, got %q", buf.String())
	}
}

func TestLongRendererMultilineExtra(t *testing.T) {
	rec := structured()
	rec.Fields["stack"] = "Error: boom\n    at handler"

	var buf bytes.Buffer
	r, _ := New("long", &buf, Options{})
	if err := r.Render(rec); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "    stack:\n") {
		t.Errorf("expected indented stack block:\n%s", out)
	}
	if strings.Contains(out, "stack=") {
		t.Errorf("multiline value must not render inline:\n%s", out)
	}
}

func TestShortRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := New("short", &buf, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Render(structured()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "12:00:00.000 ERROR api: payment failed") {
		t.Errorf("unexpected short output: %q", out)
	}
	if strings.Contains(out, "web-1") {
		t.Error("short mode must omit the hostname")
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := New("json", &buf, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Render(structured()); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, buf.String())
	}
	if got["msg"] != "payment failed" {
		t.Errorf("expected msg 'payment failed', got %v", got["msg"])
	}
	if got["level"] != float64(50) {
		t.Errorf("expected level 50, got %v", got["level"])
	}
}

func TestJSONRendererPassthrough(t *testing.T) {
	var buf bytes.Buffer
	r, _ := New("json", &buf, Options{})

	if err := r.Render(passthrough()); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "plain text line\n" {
		t.Errorf("expected raw line preserved, got %q", buf.String())
	}
}

func TestRawRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, _ := New("raw", &buf, Options{})

	rec := structured()
	if err := r.Render(rec); err != nil {
		t.Fatal(err)
	}
	if buf.String() != rec.Raw+"\n" {
		t.Errorf("raw mode must echo the input line, got %q", buf.String())
	}
}

func TestUnknownMode(t *testing.T) {
	if _, err := New("fancy", &bytes.Buffer{}, Options{}); err == nil {
		t.Error("expected error for unknown output mode")
	}
}

func TestNoColorByDefaultOptions(t *testing.T) {
	var buf bytes.Buffer
	r, _ := New("long", &buf, Options{Color: false})
	if err := r.Render(structured()); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected no ANSI escapes without color")
	}
}
