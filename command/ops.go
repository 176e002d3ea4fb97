package command

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-expo/expo"
)

// BatchItem names a badge to export and the CAPTCHA token to present for it.
type BatchItem struct {
	Token        string `json:"token"`
	CaptchaToken string `json:"captchaToken,omitempty"`
}

// BatchLoader loads batch items from a source.
type BatchLoader func(ctx context.Context) ([]BatchItem, error)

// BatchExporter exports a single badge.
type BatchExporter interface {
	Download(ctx context.Context, token string, captcha expo.CaptchaClient) (*expo.BadgeDocument, error)
}

// BatchLimits bounds batch execution throughput.
type BatchLimits struct {
	MaxItems    int
	MinInterval time.Duration
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Written []string
	Skipped []string
}

// BatchCommand exports badges for a list of tokens into a directory.
type BatchCommand struct {
	exporter  BatchExporter
	loader    BatchLoader
	outDir    string
	cliConfig gcmd.CLIConfig
	limits    BatchLimits
	logger    expo.Logger
	sleep     func(time.Duration)
}

// BatchOption customizes batch commands.
type BatchOption func(*BatchCommand)

// WithBatchCLIConfig overrides CLI configuration.
func WithBatchCLIConfig(cfg gcmd.CLIConfig) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.cliConfig = cfg
	}
}

// WithBatchLimits overrides batch execution limits.
func WithBatchLimits(limits BatchLimits) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.limits = limits
	}
}

// WithBatchOutputDir sets the default output directory.
func WithBatchOutputDir(dir string) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.outDir = dir
	}
}

// WithBatchLogger sets the logger.
func WithBatchLogger(logger expo.Logger) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.logger = logger
	}
}

// NewBadgeBatchCommand creates the badges-export CLI command.
func NewBadgeBatchCommand(exporter BatchExporter, loader BatchLoader, opts ...BatchOption) *BatchCommand {
	cmd := &BatchCommand{
		exporter: exporter,
		loader:   loader,
		outDir:   ".",
		cliConfig: gcmd.CLIConfig{
			Path:        []string{"badges-export"},
			Description: "Export badge PDFs for a list of tokens",
			Group:       "badges",
		},
		logger: expo.NopLogger{},
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cmd)
		}
	}
	return cmd
}

// CLIHandler exposes the CLI handler.
func (c *BatchCommand) CLIHandler() any {
	return &batchCLI{cmd: c}
}

// CLIOptions returns CLI configuration.
func (c *BatchCommand) CLIOptions() gcmd.CLIConfig {
	if c == nil {
		return gcmd.CLIConfig{}
	}
	return c.cliConfig
}

// Run exports every loaded item into outDir, or the configured directory when outDir is blank.
func (c *BatchCommand) Run(ctx context.Context, from, outDir string) (BatchResult, error) {
	var result BatchResult
	if c == nil {
		return result, errors.New("batch command is nil", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	if c.exporter == nil {
		return result, errors.New("badge exporter is required", errors.CategoryValidation).
			WithTextCode("EXPORTER_REQUIRED")
	}
	if strings.TrimSpace(outDir) == "" {
		outDir = c.outDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, errors.Wrap(err, errors.CategoryExternal, "create output directory failed").
			WithTextCode("BATCH_OUTPUT_DIR")
	}

	items, err := c.loadItems(ctx, from)
	if err != nil {
		return result, err
	}

	for i, item := range items {
		if c.limits.MaxItems > 0 && i >= c.limits.MaxItems {
			break
		}
		if i > 0 && c.limits.MinInterval > 0 && c.sleep != nil {
			c.sleep(c.limits.MinInterval)
		}
		doc, err := c.exporter.Download(ctx, item.Token, expo.StaticCaptcha{Token: item.CaptchaToken})
		if err != nil {
			return result, err
		}
		if doc == nil {
			c.logger.Infof("badge %s: nothing to export", item.Token)
			result.Skipped = append(result.Skipped, item.Token)
			continue
		}
		target := filepath.Join(outDir, uniqueName(outDir, doc.Filename))
		if err := os.WriteFile(target, doc.PDF, 0o644); err != nil {
			return result, errors.Wrap(err, errors.CategoryExternal, "write badge failed").
				WithTextCode("BATCH_WRITE")
		}
		c.logger.Infof("badge %s written to %s", item.Token, target)
		result.Written = append(result.Written, target)
	}
	return result, nil
}

func (c *BatchCommand) loadItems(ctx context.Context, from string) ([]BatchItem, error) {
	if strings.TrimSpace(from) != "" {
		return loadBatchItemsFromFile(from)
	}
	if c.loader == nil {
		return nil, errors.New("batch loader not configured", errors.CategoryValidation).
			WithTextCode("LOADER_REQUIRED")
	}
	return c.loader(ctx)
}

type batchCLI struct {
	cmd  *BatchCommand
	From string `kong:"name='from',help='Path to a JSON list of badge tokens'"`
	Out  string `kong:"name='out',help='Directory to write badge PDFs into'"`
}

func (c *batchCLI) Run() error {
	if c == nil || c.cmd == nil {
		return errors.New("batch command is required", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	_, err := c.cmd.Run(context.Background(), c.From, c.Out)
	return err
}

func loadBatchItemsFromFile(path string) ([]BatchItem, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "read batch file failed").
			WithTextCode("BATCH_FILE_READ")
	}

	var items []BatchItem
	if err := json.Unmarshal(content, &items); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "batch file invalid JSON").
			WithTextCode("BATCH_FILE_INVALID")
	}
	return items, nil
}

// uniqueName suffixes name when a file with that name already exists in dir.
func uniqueName(dir, name string) string {
	if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i) + ext
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
	}
}
