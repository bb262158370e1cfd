package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"study_quiz_backend/internal/repository"
	"study_quiz_backend/internal/repository/testutil"
	"study_quiz_backend/internal/util"
)

type fakeChat struct {
	background string
	answer     string
}

func (c *fakeChat) Chat(ctx context.Context, prompt, background string, history []AIChatMessage) (string, error) {
	c.background = background
	return c.answer, nil
}

func (c *fakeChat) ChatStream(ctx context.Context, prompt, background string, history []AIChatMessage) (<-chan string, <-chan error) {
	c.background = background
	out := make(chan string, 2)
	errChan := make(chan error, 1)
	out <- "part1"
	out <- "part2"
	close(out)
	close(errChan)
	return out, errChan
}

func newDoubtFixture(t *testing.T) (*DoubtService, *fakeChat) {
	db := testutil.DB(t)
	testutil.SeedCourse(t, context.Background(), db, "c1", twoUnitStructure)
	courses := NewCourseService(repository.NewCourseRepository(db), repository.NewStudyProgressRepository(db))
	chat := &fakeChat{answer: "ok"}
	return NewDoubtService(courses, chat), chat
}

func TestDoubtService_MatchesUnits(t *testing.T) {
	svc, chat := newDoubtFixture(t)

	resp, err := svc.Ask(context.Background(), "c1", DoubtRequest{Question: "Why do closures capture variables?"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if resp.Source != "course_units" || len(resp.Units) != 2 {
		t.Fatalf("expected both units matched, got %+v", resp)
	}
	if !strings.Contains(chat.background, "[Unit] Functions") {
		t.Fatalf("background should include matched unit, got %q", chat.background)
	}

	resp, _ = svc.Ask(context.Background(), "c1", DoubtRequest{Question: "what is a goroutine"})
	if resp.Source != "llm" || chat.background != "" {
		t.Fatalf("unmatched question should go to the model without context, got %+v", resp)
	}
}

func TestDoubtService_UnitIndex(t *testing.T) {
	svc, chat := newDoubtFixture(t)
	idx := 1
	if _, err := svc.Ask(context.Background(), "c1", DoubtRequest{Question: "explain", UnitIndex: &idx}); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(chat.background, "Functions") || strings.Contains(chat.background, "Variables") {
		t.Fatalf("unexpected background %q", chat.background)
	}

	bad := 5
	if _, err := svc.Ask(context.Background(), "c1", DoubtRequest{Question: "x", UnitIndex: &bad}); !errors.Is(err, util.ErrUnitIndex) {
		t.Fatalf("expected ErrUnitIndex, got %v", err)
	}
	if _, err := svc.Ask(context.Background(), "missing", DoubtRequest{Question: "x"}); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestDoubtService_AskStream(t *testing.T) {
	svc, _ := newDoubtFixture(t)
	stream, source, errChan, err := svc.AskStream(context.Background(), "c1", DoubtRequest{Question: "types?"})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	var parts []string
	for p := range stream {
		parts = append(parts, p)
	}
	if err := <-errChan; err != nil {
		t.Fatalf("stream err: %v", err)
	}
	if source != "course_units" || strings.Join(parts, "") != "part1part2" {
		t.Fatalf("unexpected stream %s %v", source, parts)
	}
}
