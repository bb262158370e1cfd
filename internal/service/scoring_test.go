package service

import "testing"

func TestScoreBounds(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for correct := 0; correct <= total; correct++ {
			s := Score(total, correct)
			if s < 0 || s > 100 {
				t.Fatalf("Score(%d,%d)=%d out of range", total, correct, s)
			}
		}
		if Score(total, total) != 100 {
			t.Fatalf("Score(%d,%d) should be 100", total, total)
		}
		if Score(total, 0) != 0 {
			t.Fatalf("Score(%d,0) should be 0", total)
		}
	}
}

func TestScoreRoundsAndClamps(t *testing.T) {
	cases := []struct {
		total, correct, want int
	}{
		{3, 2, 67},
		{3, 1, 33},
		{8, 1, 13}, // 12.5 向上取整
		{0, 0, 0},
		{10, 12, 100},
		{10, -1, 0},
	}
	for _, c := range cases {
		if got := Score(c.total, c.correct); got != c.want {
			t.Fatalf("Score(%d,%d)=%d, want %d", c.total, c.correct, got, c.want)
		}
	}
}

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		score int
		grade string
		stars int
	}{
		{100, "A+", 5},
		{90, "A+", 5},
		{89, "A", 4},
		{80, "A", 4},
		{79, "B", 3},
		{70, "B", 3},
		{69, "C", 2},
		{60, "C", 2},
		{59, "D", 1},
		{0, "D", 1},
	}
	for _, c := range cases {
		g := GradeFor(c.score)
		if g.Letter != c.grade || g.Stars != c.stars {
			t.Fatalf("GradeFor(%d)=%+v, want %s/%d", c.score, g, c.grade, c.stars)
		}
	}
}

func TestXPGainedExample(t *testing.T) {
	score := Score(10, 8)
	if score != 80 {
		t.Fatalf("expected score 80, got %d", score)
	}
	if xp := XPGained(score, 8); xp != 840 {
		t.Fatalf("expected 840 xp, got %d", xp)
	}
	// 同样的百分比，题目越多经验越多
	if XPGained(Score(20, 16), 16) <= XPGained(Score(10, 8), 8) {
		t.Fatalf("longer quiz at equal percentage should yield more xp")
	}
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp, level, next int
	}{
		{0, 0, 100},
		{99, 0, 100},
		{100, 1, 200},
		{840, 8, 900},
		{-5, 0, 100},
	}
	for _, c := range cases {
		level, next := LevelForXP(c.xp)
		if level != c.level || next != c.next {
			t.Fatalf("LevelForXP(%d)=(%d,%d), want (%d,%d)", c.xp, level, next, c.level, c.next)
		}
	}
}
