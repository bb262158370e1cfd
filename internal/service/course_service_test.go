package service

import (
	"context"
	"errors"
	"testing"

	"study_quiz_backend/internal/repository"
	"study_quiz_backend/internal/repository/testutil"
	"study_quiz_backend/internal/util"
)

func TestNormalizeUnits_Shapes(t *testing.T) {
	cases := map[string]struct {
		raw    string
		titles []string
		topics [][]string
	}{
		"array of objects": {
			raw:    `[{"unit_title":"Intro","sub_topics":["A",{"title":"B"}]},{"title":"Next","subtopics":[{"name":"C"}]}]`,
			titles: []string{"Intro", "Next"},
			topics: [][]string{{"A", "B"}, {"C"}},
		},
		"wrapped": {
			raw:    `{"course_structure":[{"name":"Only"}]}`,
			titles: []string{"Only"},
			topics: [][]string{{}},
		},
		"strings and missing title": {
			raw:    `["Alpha", {"sub_topics":["x"," "]}]`,
			titles: []string{"Alpha", "Unit 2"},
			topics: [][]string{{}, {"x"}},
		},
		"null": {
			raw:    `null`,
			titles: []string{},
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			units, err := NormalizeUnits([]byte(c.raw))
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if len(units) != len(c.titles) {
				t.Fatalf("expected %d units, got %d", len(c.titles), len(units))
			}
			for i, u := range units {
				if u.Title != c.titles[i] {
					t.Fatalf("unit %d title %q, want %q", i, u.Title, c.titles[i])
				}
				if len(u.Subtopics) != len(c.topics[i]) {
					t.Fatalf("unit %d topics %v, want %v", i, u.Subtopics, c.topics[i])
				}
				for j := range u.Subtopics {
					if u.Subtopics[j] != c.topics[i][j] {
						t.Fatalf("unit %d topics %v, want %v", i, u.Subtopics, c.topics[i])
					}
				}
			}
		})
	}
}

func TestNormalizeUnits_Invalid(t *testing.T) {
	for _, raw := range []string{`{`, `42`, `{"foo":1}`} {
		if _, err := NormalizeUnits([]byte(raw)); !errors.Is(err, util.ErrInvalidStructure) {
			t.Fatalf("%s: expected ErrInvalidStructure, got %v", raw, err)
		}
	}
}

func TestCourseService_UpsertAndStudyDepth(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	svc := NewCourseService(repository.NewCourseRepository(db), repository.NewStudyProgressRepository(db))

	if _, err := svc.SetStudyDepth(ctx, "u1", "missing", 2); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
	if _, err := svc.Upsert(ctx, "c1", CourseUpsertRequest{Structure: []byte(`"nope"`)}); !errors.Is(err, util.ErrInvalidStructure) {
		t.Fatalf("invalid structure should be rejected, got %v", err)
	}

	view, err := svc.Upsert(ctx, "c1", CourseUpsertRequest{Title: "Go", Structure: []byte(`[{"unit_title":"Basics","sub_topics":["Syntax"]}]`)})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(view.Units) != 1 || view.Units[0].Subtopics[0] != "Syntax" {
		t.Fatalf("unexpected view %+v", view)
	}

	got, err := svc.Get(ctx, "c1")
	if err != nil || got.Title != "Go" {
		t.Fatalf("get: %+v %v", got, err)
	}

	d, err := svc.SetStudyDepth(ctx, "u1", "c1", 7)
	if err != nil || d != 3 {
		t.Fatalf("expected clamp to 3, got %d %v", d, err)
	}
	d, _ = svc.SetStudyDepth(ctx, "u1", "c1", -2)
	if d != 0 {
		t.Fatalf("expected clamp to 0, got %d", d)
	}
	if d, _ := svc.StudyDepth(ctx, "u1", "c1"); d != 0 {
		t.Fatalf("expected stored depth 0, got %d", d)
	}
}
