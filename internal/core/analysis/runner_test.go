package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cvlens/cvlens/internal/core/event"
	"github.com/cvlens/cvlens/internal/core/extract"
)

type extractorFunc func(ctx context.Context, path string) (string, error)

func (f extractorFunc) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

type analyzerFunc func(ctx context.Context, text, sourceName string) (*Report, error)

func (f analyzerFunc) Analyze(ctx context.Context, text, sourceName string) (*Report, error) {
	return f(ctx, text, sourceName)
}

func okExtractor(text string) extractorFunc {
	return func(context.Context, string) (string, error) { return text, nil }
}

func okAnalyzer() analyzerFunc {
	return func(context.Context, string, string) (*Report, error) {
		return &Report{
			OverallScore: 7.2,
			Strengths:    []string{"clear layout"},
			WeakPoints:   []string{"no metrics"},
		}, nil
	}
}

func TestRunnerHappyPath(t *testing.T) {
	t.Parallel()
	s := NewStore()
	if err := s.Create("a1", "resume.pdf"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Capture the record as each collaborator observes it, to check the
	// stage the runner advertises while that collaborator runs.
	var atExtract, atAnalyze *Job
	ex := extractorFunc(func(ctx context.Context, path string) (string, error) {
		atExtract, _ = s.Get("a1")
		if path != "/tmp/a1_resume.pdf" {
			t.Errorf("extractor got path %q", path)
		}
		return "plenty of extracted resume text", nil
	})
	an := analyzerFunc(func(ctx context.Context, text, name string) (*Report, error) {
		atAnalyze, _ = s.Get("a1")
		if text != "plenty of extracted resume text" {
			t.Errorf("analyzer got text %q", text)
		}
		return okAnalyzer()(ctx, text, name)
	})

	r := NewRunner(s, ex, an, event.NewBus(), 0)
	r.Run(context.Background(), "a1", "/tmp/a1_resume.pdf", "resume.pdf")

	if atExtract == nil || atExtract.Stage != StageExtracting || atExtract.Progress != 25 || atExtract.Step != 1 {
		t.Errorf("during extraction: %+v, want extracting/25/1", atExtract)
	}
	if atAnalyze == nil || atAnalyze.Stage != StageAnalyzing || atAnalyze.Progress != 50 || atAnalyze.Step != 2 {
		t.Errorf("during analysis: %+v, want analyzing/50/2", atAnalyze)
	}

	j, err := s.Get("a1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if j.Stage != StageComplete || j.Progress != 100 || j.Step != 4 {
		t.Fatalf("final record = %s/%d/%d, want complete/100/4", j.Stage, j.Progress, j.Step)
	}
	if j.ErrorMessage != "" {
		t.Errorf("ErrorMessage = %q, want empty", j.ErrorMessage)
	}
	if j.Result == nil {
		t.Fatal("Result missing after completion")
	}
	if j.Result.AnalysisID != "a1" || j.Result.Filename != "resume.pdf" {
		t.Errorf("report metadata = %q/%q, want a1/resume.pdf", j.Result.AnalysisID, j.Result.Filename)
	}
	if j.Result.AnalyzedAt.IsZero() {
		t.Error("AnalyzedAt not set")
	}
}

func TestRunnerExtractionFailure(t *testing.T) {
	t.Parallel()
	s := NewStore()
	if err := s.Create("a1", "scan.pdf"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	extErr := &extract.Error{Kind: extract.KindInsufficientText, Format: "pdf"}
	ex := extractorFunc(func(context.Context, string) (string, error) { return "", extErr })
	an := analyzerFunc(func(context.Context, string, string) (*Report, error) {
		t.Error("analyzer must not run after extraction failure")
		return nil, nil
	})

	r := NewRunner(s, ex, an, event.NewBus(), 0)
	r.Run(context.Background(), "a1", "/tmp/scan.pdf", "scan.pdf")

	j, _ := s.Get("a1")
	if j.Stage != StageFailed {
		t.Fatalf("Stage = %s, want failed", j.Stage)
	}
	if j.ErrorMessage != extErr.Error() {
		t.Errorf("ErrorMessage = %q, want %q", j.ErrorMessage, extErr.Error())
	}
	if !strings.Contains(j.ErrorMessage, "scanned image") {
		t.Errorf("ErrorMessage = %q, want a scanned-image hint", j.ErrorMessage)
	}
	if j.Result != nil {
		t.Errorf("Result = %+v, want nil for failed job", j.Result)
	}
}

func TestRunnerAnalysisFailure(t *testing.T) {
	t.Parallel()
	s := NewStore()
	if err := s.Create("a1", "resume.docx"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	an := analyzerFunc(func(context.Context, string, string) (*Report, error) {
		return nil, errors.New("model unavailable")
	})
	r := NewRunner(s, okExtractor("long enough resume text"), an, event.NewBus(), 0)
	r.Run(context.Background(), "a1", "/tmp/resume.docx", "resume.docx")

	j, _ := s.Get("a1")
	if j.Stage != StageFailed || j.ErrorMessage != "model unavailable" {
		t.Errorf("got %s/%q, want failed/model unavailable", j.Stage, j.ErrorMessage)
	}
	if j.Result != nil {
		t.Errorf("Result = %+v, want nil", j.Result)
	}
}

func TestRunnerPanicRecovered(t *testing.T) {
	t.Parallel()
	s := NewStore()
	if err := s.Create("a1", "resume.pdf"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	an := analyzerFunc(func(context.Context, string, string) (*Report, error) {
		panic("boom")
	})
	r := NewRunner(s, okExtractor("long enough resume text"), an, event.NewBus(), 0)
	r.Run(context.Background(), "a1", "/tmp/resume.pdf", "resume.pdf")

	j, _ := s.Get("a1")
	if j.Stage != StageFailed {
		t.Fatalf("Stage = %s, want failed after panic", j.Stage)
	}
	if !strings.Contains(j.ErrorMessage, "internal error") {
		t.Errorf("ErrorMessage = %q, want an internal error marker", j.ErrorMessage)
	}
}

// A subscriber blowing up on the completed event lands in the runner's
// recover, which must not demote the already-complete record.
func TestRunnerCompletedSubscriberPanic(t *testing.T) {
	t.Parallel()
	s := NewStore()
	if err := s.Create("a1", "resume.pdf"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	bus := event.NewBus()
	bus.Subscribe(event.EventAnalysisCompleted, func(context.Context, event.Event) error {
		panic("subscriber boom")
	})

	r := NewRunner(s, okExtractor("long enough resume text"), okAnalyzer(), bus, 0)
	r.Run(context.Background(), "a1", "/tmp/resume.pdf", "resume.pdf")

	j, _ := s.Get("a1")
	if j.Stage != StageComplete {
		t.Fatalf("Stage = %s (%s), want complete", j.Stage, j.ErrorMessage)
	}
	if j.Result == nil {
		t.Error("Result missing after subscriber panic")
	}
	if j.ErrorMessage != "" {
		t.Errorf("ErrorMessage = %q, want empty", j.ErrorMessage)
	}
}

func TestRunnerCanceledContext(t *testing.T) {
	t.Parallel()
	s := NewStore()
	if err := s.Create("a1", "resume.pdf"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := extractorFunc(func(context.Context, string) (string, error) {
		t.Error("extractor must not run after cancellation")
		return "", nil
	})
	r := NewRunner(s, ex, okAnalyzer(), event.NewBus(), 0)
	r.Run(ctx, "a1", "/tmp/resume.pdf", "resume.pdf")

	j, _ := s.Get("a1")
	if j.Stage != StageFailed {
		t.Fatalf("Stage = %s, want failed", j.Stage)
	}
	if j.ErrorMessage == "" {
		t.Error("ErrorMessage empty for canceled job")
	}
}

// Progress must never regress across the happy path, whatever the
// intermediate values are.
func TestRunnerProgressMonotonic(t *testing.T) {
	t.Parallel()
	s := NewStore()
	if err := s.Create("a1", "resume.pdf"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var observed []int
	record := func() {
		if j, err := s.Get("a1"); err == nil {
			observed = append(observed, j.Progress)
		}
	}
	ex := extractorFunc(func(context.Context, string) (string, error) {
		record()
		return "long enough resume text", nil
	})
	an := analyzerFunc(func(ctx context.Context, text, name string) (*Report, error) {
		record()
		return okAnalyzer()(ctx, text, name)
	})

	r := NewRunner(s, ex, an, event.NewBus(), 0)
	r.Run(context.Background(), "a1", "/tmp/resume.pdf", "resume.pdf")
	record()

	for i := 1; i < len(observed); i++ {
		if observed[i] < observed[i-1] {
			t.Fatalf("progress regressed: %v", observed)
		}
	}
	if len(observed) == 0 || observed[len(observed)-1] != 100 {
		t.Errorf("final progress = %v, want 100", observed)
	}
}
