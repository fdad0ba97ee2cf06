package analyze

import (
	"context"
	"testing"
)

func TestTemplateAnalyze(t *testing.T) {
	t.Parallel()
	var a Template

	for i := 0; i < 50; i++ {
		r, err := a.Analyze(context.Background(), "sample resume text", "resume.pdf")
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if r.OverallScore < 6.5 || r.OverallScore > 8.5 {
			t.Errorf("OverallScore = %v, want within [6.5, 8.5]", r.OverallScore)
		}
		assertCount(t, "Strengths", r.Strengths, 3, 5)
		assertCount(t, "WeakPoints", r.WeakPoints, 3, 4)
		assertCount(t, "MissingKeywords", r.MissingKeywords, 5, 8)
		assertCount(t, "Suggestions", r.Suggestions, 4, 6)
	}
}

func assertCount(t *testing.T, field string, items []string, min, max int) {
	t.Helper()
	if len(items) < min || len(items) > max {
		t.Errorf("%s has %d entries, want %d to %d", field, len(items), min, max)
	}
	seen := make(map[string]bool, len(items))
	for _, s := range items {
		if s == "" {
			t.Errorf("%s contains an empty entry", field)
		}
		if seen[s] {
			t.Errorf("%s contains duplicate entry %q", field, s)
		}
		seen[s] = true
	}
}

func TestTemplateScorePrecision(t *testing.T) {
	t.Parallel()
	var a Template
	for i := 0; i < 50; i++ {
		r, err := a.Analyze(context.Background(), "text", "f.pdf")
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		scaled := r.OverallScore * 10
		if scaled != float64(int(scaled)) {
			t.Errorf("OverallScore = %v, want one decimal place", r.OverallScore)
		}
	}
}

func TestSample(t *testing.T) {
	t.Parallel()
	pool := []string{"a", "b", "c", "d", "e"}
	for n := 0; n <= len(pool); n++ {
		got := sample(pool, n)
		if len(got) != n {
			t.Fatalf("sample(pool, %d) returned %d entries", n, len(got))
		}
		seen := make(map[string]bool)
		for _, s := range got {
			if seen[s] {
				t.Errorf("sample returned duplicate %q", s)
			}
			seen[s] = true
		}
	}
}
