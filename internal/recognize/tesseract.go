package recognize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Korixo/demolition-tracker/internal/common"
)

// TesseractConfig tunes the local OCR engine.
type TesseractConfig struct {
	Binary      string // binary name or absolute path; if empty -> "tesseract"
	Language    string // default "eng"
	TessdataDir string
	PSM         int    // e.g., 6 is good for uniform block of text
	OEM         int    // 1 = LSTM; leave 0 to use default
	WorkDir     string // scratch dir for image files; empty -> os.TempDir
}

// Tesseract recognizes notice text with a local tesseract binary.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseract(cfg TesseractConfig, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	return &Tesseract{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Recognize writes the image to a scratch file and runs
// `tesseract <file> stdout -l <lang>`, returning cleaned text.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (Result, error) {
	start := time.Now()

	path := filepath.Join(t.cfg.WorkDir, fmt.Sprintf("notice-%s.img", uuid.New()))
	if err := os.WriteFile(path, image, 0o600); err != nil {
		return Result{}, fmt.Errorf("%w: write scratch image: %v", common.ErrRecognition, err)
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			t.logger.Warn("scratch image cleanup failed", "path", path, "error", err)
		}
	}()

	args := []string{path, "stdout", "-l", t.cfg.Language}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}

	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, args...)
	if err != nil {
		return Result{}, fmt.Errorf("%w: tesseract: %v: %s", common.ErrRecognition, err, truncate(string(errb), 512))
	}

	text := CleanText(string(out))
	t.logger.Debug("tesseract recognize ok",
		"bytes_in", len(image),
		"text_len", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return Result{Text: text}, nil
}
