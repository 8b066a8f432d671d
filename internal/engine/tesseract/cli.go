package tesseract

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"ocrgate/internal/config"
	"ocrgate/internal/domain"
	"ocrgate/internal/engine"
	"ocrgate/internal/port"
)

// CLIProvider is the registry name of the command-line engine.
const CLIProvider = "tesseract-cli"

func init() {
	engine.RegisterProvider(CLIProvider, func(cfg *config.EngineConfig) (port.ExtractionEngine, error) {
		return NewCLIEngine(cfg), nil
	})
}

// CLIEngine implements OCR by running the tesseract binary and reading its
// TSV output, which carries per-word confidences.
type CLIEngine struct {
	binary    string
	languages []string
	timeout   time.Duration

	mu      sync.RWMutex
	ready   bool
	version string
}

// NewCLIEngine creates a CLIEngine. The binary defaults to "tesseract" in PATH.
func NewCLIEngine(cfg *config.EngineConfig) *CLIEngine {
	binary := cfg.BinaryPath
	if binary == "" {
		binary = "tesseract"
	}
	return &CLIEngine{
		binary:    binary,
		languages: languagesOrDefault(cfg.Languages),
		timeout:   cfg.Timeout,
	}
}

// Load checks that the binary runs and records its version.
func (e *CLIEngine) Load(ctx context.Context) error {
	if e.Ready() {
		return nil
	}

	start := time.Now()
	out, err := exec.CommandContext(ctx, e.binary, "--version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s --version: %v", domain.ErrEngineUnavailable, e.binary, err)
	}
	version := parseVersion(out)

	e.mu.Lock()
	e.ready = true
	e.version = version
	e.mu.Unlock()

	log.Info().Str("version", version).Dur("elapsed", time.Since(start)).Msg("tesseract.CLIEngine.Load: ready")
	return nil
}

func (e *CLIEngine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// Extract runs tesseract on imagePath. The engine is loaded on first use if
// Load has not been called.
func (e *CLIEngine) Extract(ctx context.Context, imagePath string) (*domain.ExtractionResult, error) {
	if !e.Ready() {
		if err := e.Load(ctx); err != nil {
			return nil, err
		}
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	// tesseract input.png stdout -l eng tsv
	cmd := exec.CommandContext(ctx, e.binary, imagePath, "stdout", "-l", strings.Join(e.languages, "+"), "tsv")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract command failed: %w, output: %s", err, strings.TrimSpace(stderr.String()))
	}

	text, words, err := ParseTSV(&stdout)
	if err != nil {
		return nil, fmt.Errorf("reading tesseract output: %w", err)
	}
	return buildResult(text, words, start), nil
}

func (e *CLIEngine) Info() domain.ModelInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return domain.ModelInfo{
		Name:        "Tesseract OCR",
		Provider:    CLIProvider,
		Available:   e.ready,
		Initialized: e.ready,
		Description: "LSTM text recognition via the tesseract command line",
		Version:     e.version,
		Languages:   e.languages,
	}
}

// tsv column indexes
const (
	colLevel = iota
	colPage
	colBlock
	colPar
	colLine
	colWord
	colLeft
	colTop
	colWidth
	colHeight
	colConf
	colText
)

// wordLevel is the TSV level of word rows.
const wordLevel = "5"

// ParseTSV reads tesseract TSV output. It returns the text rebuilt line by
// line and the recognized words with confidences scaled to [0, 1]. Words
// reported with a negative confidence are skipped.
func ParseTSV(r io.Reader) (string, []domain.Word, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		lines    []string
		current  []string
		lineID   string
		words    []domain.Word
		isHeader = true
	)
	flush := func() {
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for scanner.Scan() {
		row := scanner.Text()
		if isHeader {
			isHeader = false
			if strings.HasPrefix(row, "level") {
				continue
			}
		}
		cols := strings.Split(row, "\t")
		if len(cols) <= colText || cols[colLevel] != wordLevel {
			continue
		}
		word := strings.TrimSpace(cols[colText])
		if word == "" {
			continue
		}
		conf, err := strconv.ParseFloat(cols[colConf], 64)
		if err != nil || conf < 0 {
			continue
		}

		id := cols[colPage] + "." + cols[colBlock] + "." + cols[colPar] + "." + cols[colLine]
		if id != lineID {
			flush()
			lineID = id
		}
		current = append(current, word)
		words = append(words, domain.Word{Text: word, Confidence: domain.ClampConfidence(conf / 100)})
	}
	if err := scanner.Err(); err != nil {
		return "", nil, err
	}
	flush()

	return strings.Join(lines, "\n"), words, nil
}

// parseVersion extracts "5.3.0" from output like "tesseract 5.3.0\n leptonica-1.82.0".
func parseVersion(out []byte) string {
	first, _, _ := strings.Cut(string(out), "\n")
	fields := strings.Fields(first)
	if len(fields) >= 2 {
		return strings.TrimPrefix(fields[1], "v")
	}
	return strings.TrimSpace(first)
}
