package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// genai pulls in opencensus, which starts a stats worker at init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// fakeGen answers with a function of the prompt and tracks concurrency.
type fakeGen struct {
	fn       func(ctx context.Context, prompt string) (string, error)
	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	prompts  []string
}

func (f *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.fn(ctx, prompt)
}

func echo(_ context.Context, prompt string) (string, error) {
	return "text:" + prompt, nil
}

func TestChapters(t *testing.T) {
	cs := Chapters()
	require.Len(t, cs, 10)
	assert.True(t, strings.HasPrefix(cs[0].Heading, "# Deep Psychometric Analysis"))
	assert.Equal(t, "## 9. Who You Are at Your Best", cs[9].Heading)
	assert.Contains(t, cs[9].Lead, "max 250 words")
	for _, c := range cs[:9] {
		assert.Contains(t, c.Lead, "max 300 words")
	}

	cs[0].Heading = "changed"
	assert.NotEqual(t, "changed", Chapters()[0].Heading)
}

func TestBaseContext(t *testing.T) {
	base := BaseContext("German", "Q1 [x]: A: \"a\" | B: \"b\" | CHOSE: A (slightly)", "Rules: None")

	assert.True(t, strings.HasPrefix(base, "You are a world-class Psychometric Analyst. Write in German."))
	assert.Contains(t, base, `Never write "Kolbe", "Hogan", "HDS", "NEO-PI-R", "MBTI", "Myers-Briggs", "DISC", "StrengthsFinder", "CliftonStrengths", or "Enneagram" as product names.`)
	assert.Contains(t, base, "\n\nDATA:\nQ1 [x]")
	assert.True(t, strings.HasSuffix(base, "\n\nSCORES:\nRules: None"))
}

func TestBuildPrompts(t *testing.T) {
	prompts := BuildPrompts("English", "DATA-LINE", "SCORE-LINE")
	require.Len(t, prompts, 10)
	base := BaseContext("English", "DATA-LINE", "SCORE-LINE")
	for i, p := range prompts {
		assert.True(t, strings.HasPrefix(p, base), "chapter %d", i+1)
	}
	assert.True(t, strings.HasSuffix(prompts[0],
		"Write ONLY (max 300 words):\n\n# Deep Psychometric Analysis\n\n## 1. Executive Summary\n2 paragraphs: who this person is, their central paradox, what makes their combination unique. Bold and specific."))
	assert.True(t, strings.HasSuffix(prompts[1],
		"Write ONLY (max 300 words). No title/summary.\n\n## 2. Temperament: Openness & Conscientiousness\n\n1 focused paragraph per trait: score meaning, how they interact, \"close but not you\". No fluff."))
	for i, p := range prompts[1:] {
		c := Chapters()[i+1]
		assert.Contains(t, p, c.Heading+"\n\n"+c.Instruction, "chapter %d", i+2)
	}
	assert.NotContains(t, prompts[0], "Executive Summary\n\n")
}

func TestWrite_OrderedAssembly(t *testing.T) {
	gen := &fakeGen{fn: func(_ context.Context, prompt string) (string, error) {
		// Later chapters finish first.
		n := len(prompt)
		time.Sleep(time.Duration(10-n) * time.Millisecond)
		return fmt.Sprintf("chapter-%d", n), nil
	}}
	w := NewWriter(gen, WithConcurrency(4))

	res, err := w.Write(context.Background(), []string{"a", "bb", "ccc", "dddd", "eeeee"})
	require.NoError(t, err)
	assert.Equal(t, "chapter-1\n\nchapter-2\n\nchapter-3\n\nchapter-4\n\nchapter-5", res.Markdown)
	assert.Zero(t, res.Failed)
	assert.LessOrEqual(t, gen.peak.Load(), int32(4))
}

func TestWrite_ErrorMarkers(t *testing.T) {
	gen := &fakeGen{fn: func(_ context.Context, prompt string) (string, error) {
		if prompt == "two" || prompt == "one" {
			return "", errors.New("quota exceeded")
		}
		return strings.ToUpper(prompt), nil
	}}

	res, err := NewWriter(gen).Write(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t,
		"\n\n> ⚠️ Error in chapter 1: quota exceeded\n\n> ⚠️ Error in chapter 2: quota exceeded\n\nTHREE",
		res.Markdown)
	require.Len(t, res.Chapters, 3)
	assert.Error(t, res.Chapters[0].Err)
	assert.Equal(t, "THREE", res.Chapters[2].Text)
}

func TestWrite_SequentialByDefault(t *testing.T) {
	gen := &fakeGen{fn: func(context.Context, string) (string, error) {
		time.Sleep(2 * time.Millisecond)
		return "ok", nil
	}}
	_, err := NewWriter(gen).Write(context.Background(), BuildPrompts("English", "", ""))
	require.NoError(t, err)
	assert.Equal(t, int32(1), gen.peak.Load())
	assert.Len(t, gen.prompts, 10)
}

func TestWrite_ChapterTimeout(t *testing.T) {
	gen := &fakeGen{fn: func(ctx context.Context, prompt string) (string, error) {
		if prompt == "slow" {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "fast", nil
	}}
	w := NewWriter(gen, WithChapterTimeout(20*time.Millisecond), WithConcurrency(2))

	res, err := w.Write(context.Background(), []string{"slow", "quick"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.ErrorIs(t, res.Chapters[0].Err, context.DeadlineExceeded)
	assert.Contains(t, res.Markdown, "Error in chapter 1: context deadline exceeded")
	assert.True(t, strings.HasSuffix(res.Markdown, "\n\nfast"))
}

func TestWrite_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &fakeGen{fn: func(ctx context.Context, _ string) (string, error) {
		cancel()
		<-ctx.Done()
		return "", ctx.Err()
	}}

	_, err := NewWriter(gen, WithConcurrency(3)).Write(ctx, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWrite_Progress(t *testing.T) {
	var calls []int
	var mu sync.Mutex
	w := NewWriter(&fakeGen{fn: echo}, WithConcurrency(3), WithProgress(func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 4, total)
		calls = append(calls, done)
	}))

	_, err := w.Write(context.Background(), []string{"a", "b", "c", "d"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, calls)
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.ErrorContains(t, err, "API key is required")
}

func TestNewGemini_DefaultModel(t *testing.T) {
	g, err := NewGemini(context.Background(), "test-key", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, g.Model())
}
