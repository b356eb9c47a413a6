package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/ByLCY/richtext/config"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/markup"
)

func TestRenderWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	sheet := filepath.Join(dir, "styles.rts")
	if err := os.WriteFile(sheet, []byte(`style name { fontFace: "Bold"; highlight: true }`), 0o644); err != nil {
		t.Fatal(err)
	}
	data := filepath.Join(dir, "data.json")
	if err := os.WriteFile(data, []byte(`{"user": {"name": "Ada"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Styles.Files = []string{sheet}

	j := job{
		Input:  "-",
		Output: filepath.Join(dir, "out", "preview.pdf"),
		Debug:  filepath.Join(dir, "out", "layout.json"),
		Width:  400,
		Align:  layout.AlignCenter,
		Syntax: markup.SyntaxHTML,
		Data:   data,
	}
	res, err := render(zaptest.NewLogger(t), cfg, j, strings.NewReader("Hello <name>${user.name}</name>\nsecond line"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(res.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(res.Lines))
	}
	if got := res.Lines[0].Text(); got != "Hello Ada" {
		t.Fatalf("placeholder not substituted: %q", got)
	}
	last := res.Lines[0].Tokens[len(res.Lines[0].Tokens)-1]
	if last.Style.FontFace() != "Bold" || !last.Style.Highlight() || last.TestTag != "name" {
		t.Fatalf("global style sheet not applied: %+v", last)
	}

	pdfData, err := os.ReadFile(j.Output)
	if err != nil {
		t.Fatalf("pdf not written: %v", err)
	}
	if !bytes.HasPrefix(pdfData, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}

	raw, err := os.ReadFile(j.Debug)
	if err != nil {
		t.Fatalf("debug json not written: %v", err)
	}
	var dumped layout.Result
	if err := json.Unmarshal(raw, &dumped); err != nil {
		t.Fatalf("debug json invalid: %v", err)
	}
	if dumped.Align != layout.AlignCenter || len(dumped.Lines) != 2 {
		t.Fatalf("unexpected debug layout: %+v", dumped)
	}
}

func TestRenderReportsParseErrors(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	j := job{Input: "-", Width: 300, Syntax: markup.SyntaxXML}
	_, err = render(zaptest.NewLogger(t), cfg, j, strings.NewReader("<bold>open"))
	if err == nil || !strings.Contains(err.Error(), "布局计算失败") {
		t.Fatalf("expected layout error, got %v", err)
	}
}

func TestRenderZeroWidthDoesNotWrap(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("word ", 60)
	j := job{Input: "-", Width: 0, Align: layout.AlignRight, Syntax: markup.SyntaxHTML}
	res, err := render(zaptest.NewLogger(t), cfg, j, strings.NewReader(text))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("width 0 should not wrap, got %d lines", len(res.Lines))
	}
	if res.Lines[0].X != 0 {
		t.Fatalf("single unbounded line should start at 0, got %v", res.Lines[0].X)
	}
}

func TestReadInputMissingFile(t *testing.T) {
	if _, err := readInput(filepath.Join(t.TempDir(), "nope.txt"), nil); err == nil {
		t.Fatal("expected error for missing input")
	}
}
