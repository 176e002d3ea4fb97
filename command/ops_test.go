package command

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-expo/expo"
)

type captureExporter struct {
	tokens   []string
	captchas []string
	missing  map[string]bool
}

func (c *captureExporter) Download(ctx context.Context, token string, captcha expo.CaptchaClient) (*expo.BadgeDocument, error) {
	c.tokens = append(c.tokens, token)
	captchaToken, err := captcha.Execute(ctx, expo.ActionBadgeView)
	if err != nil {
		return nil, err
	}
	c.captchas = append(c.captchas, captchaToken)
	if c.missing[token] {
		return nil, nil
	}
	return &expo.BadgeDocument{Filename: "Majdi B.pdf", ContentType: "application/pdf", PDF: []byte("%PDF-" + token)}, nil
}

func TestBatchCommand_WritesDocuments(t *testing.T) {
	exporter := &captureExporter{missing: map[string]bool{"gone": true}}
	loader := func(ctx context.Context) ([]BatchItem, error) {
		return []BatchItem{
			{Token: "a1", CaptchaToken: "cap-1"},
			{Token: "gone"},
			{Token: "a2", CaptchaToken: "cap-2"},
		}, nil
	}
	dir := t.TempDir()

	cmd := NewBadgeBatchCommand(exporter, loader, WithBatchOutputDir(dir))
	result, err := cmd.Run(context.Background(), "", "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Written) != 2 || len(result.Skipped) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if filepath.Base(result.Written[1]) != "Majdi B-2.pdf" {
		t.Fatalf("expected suffixed duplicate name, got %q", result.Written[1])
	}
	data, err := os.ReadFile(result.Written[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-a1" {
		t.Fatalf("unexpected content %q", data)
	}
	if exporter.captchas[0] != "cap-1" || exporter.captchas[2] != "cap-2" {
		t.Fatalf("expected per-item captcha tokens, got %v", exporter.captchas)
	}
}

func TestBatchCommand_RunHonorsLimits(t *testing.T) {
	exporter := &captureExporter{}
	loader := func(ctx context.Context) ([]BatchItem, error) {
		return []BatchItem{{Token: "a1"}, {Token: "a2"}, {Token: "a3"}}, nil
	}

	var slept int
	cmd := NewBadgeBatchCommand(exporter, loader, WithBatchLimits(BatchLimits{MaxItems: 2, MinInterval: time.Millisecond}))
	cmd.sleep = func(time.Duration) { slept++ }

	result, err := cmd.Run(context.Background(), "", t.TempDir())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(exporter.tokens) != 2 || len(result.Written) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(exporter.tokens))
	}
	if slept != 1 {
		t.Fatalf("expected one pause between items, got %d", slept)
	}
}

func TestBatchCommand_LoadsFromFile(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "tokens.json")
	content, _ := json.Marshal([]BatchItem{{Token: "f1", CaptchaToken: "cap"}})
	if err := os.WriteFile(from, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	exporter := &captureExporter{}
	cmd := NewBadgeBatchCommand(exporter, nil)
	if _, err := cmd.Run(context.Background(), from, filepath.Join(dir, "out")); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(exporter.tokens) != 1 || exporter.tokens[0] != "f1" {
		t.Fatalf("expected token from file, got %v", exporter.tokens)
	}
}

func TestBatchCommand_RequiresLoader(t *testing.T) {
	cmd := NewBadgeBatchCommand(&captureExporter{}, nil)
	if _, err := cmd.Run(context.Background(), "", t.TempDir()); err == nil {
		t.Fatalf("expected loader error")
	}
}

func TestBatchCommand_CLIOptions(t *testing.T) {
	cmd := NewBadgeBatchCommand(&captureExporter{}, nil)
	if got := cmd.CLIOptions().Path; len(got) != 1 || got[0] != "badges-export" {
		t.Fatalf("unexpected cli path %v", got)
	}
}
