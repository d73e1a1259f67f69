package narrative

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/usermanual/internal/logging"
)

// Progress is called after each chapter finishes, with the number of
// chapters done so far.
type Progress func(done, total int)

// Writer runs chapter prompts against a Generator.
type Writer struct {
	gen         Generator
	concurrency int
	timeout     time.Duration
	progress    Progress
	log         *zap.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithConcurrency bounds the number of chapters generated at once.
func WithConcurrency(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithChapterTimeout limits each generation call. Zero means no limit.
func WithChapterTimeout(d time.Duration) Option {
	return func(w *Writer) { w.timeout = d }
}

func WithProgress(p Progress) Option {
	return func(w *Writer) { w.progress = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(w *Writer) { w.log = logging.OrNop(l) }
}

// NewWriter returns a Writer that generates one chapter at a time unless
// configured otherwise.
func NewWriter(gen Generator, opts ...Option) *Writer {
	w := &Writer{gen: gen, concurrency: 1, log: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ChapterResult is the outcome of one chapter.
type ChapterResult struct {
	Index int
	Text  string
	Err   error
}

// Result is the assembled narrative.
type Result struct {
	Markdown string
	Chapters []ChapterResult
	Failed   int
}

// Write generates every prompt and joins the chapters in order. A chapter
// that fails is replaced by a visible error marker and the rest continue.
// The returned error is non-nil only when ctx ends first.
func (w *Writer) Write(ctx context.Context, prompts []string) (*Result, error) {
	results := make([]ChapterResult, len(prompts))

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, prompt := range prompts {
		g.Go(func() error {
			results[i] = w.chapter(gctx, i, prompt)

			mu.Lock()
			done++
			if w.progress != nil {
				w.progress(done, len(prompts))
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Chapters: results}
	var sb strings.Builder
	for _, r := range results {
		if r.Err != nil {
			res.Failed++
			sb.WriteString(fmt.Sprintf("\n\n> ⚠️ Error in chapter %d: %v", r.Index+1, r.Err))
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(r.Text)
	}
	res.Markdown = sb.String()

	w.log.Info("narrative written",
		zap.Int("chapters", len(prompts)),
		zap.Int("failed", res.Failed),
		zap.Int("bytes", len(res.Markdown)),
	)
	return res, nil
}

func (w *Writer) chapter(ctx context.Context, i int, prompt string) ChapterResult {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := w.gen.Generate(ctx, prompt)
	if err != nil {
		w.log.Warn("chapter failed", zap.Int("chapter", i+1), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return ChapterResult{Index: i, Err: err}
	}
	w.log.Debug("chapter done", zap.Int("chapter", i+1), zap.Duration("elapsed", time.Since(start)))
	return ChapterResult{Index: i, Text: text}
}
