package parser

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	text := `Quiz instructions live up here and are not questions.

---START
1: What is 2+2?
A) 3
B) 4
C) 5
D) 6
Answer: B
Description: basic math

2. Which planet is closest to the sun?
A) Venus
B) Earth
C) Mercury
D) Mars
Answer: C
Description: Mercury orbits closest.`

	questions, skipped := Parse(text)
	if len(skipped) != 0 {
		t.Fatalf("Expected no skipped blocks, got %v", skipped)
	}
	if len(questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(questions))
	}

	q1 := questions[0]
	if q1.Text != "What is 2+2?" {
		t.Errorf("Expected prompt 'What is 2+2?', got '%s'", q1.Text)
	}
	if !reflect.DeepEqual(q1.Options, []string{"3", "4", "5", "6"}) {
		t.Errorf("Unexpected options: %v", q1.Options)
	}
	if q1.Answer != "B" {
		t.Errorf("Expected answer 'B', got '%s'", q1.Answer)
	}
	if q1.Explanation != "basic math" {
		t.Errorf("Expected explanation 'basic math', got '%s'", q1.Explanation)
	}

	q2 := questions[1]
	if q2.Text != "Which planet is closest to the sun?" {
		t.Errorf("Unexpected prompt: '%s'", q2.Text)
	}
	if q2.Answer != "C" {
		t.Errorf("Expected answer 'C', got '%s'", q2.Answer)
	}
}

func TestParse_NoMarker(t *testing.T) {
	text := `1: What is 2+2?
A) 3
B) 4
C) 5
D) 6
Answer: B
Description: basic math`

	questions, skipped := Parse(text)
	if questions != nil {
		t.Errorf("Expected no questions without start marker, got %d", len(questions))
	}
	if skipped != nil {
		t.Errorf("Expected no skip reports without start marker, got %v", skipped)
	}
}

func TestParse_Empty(t *testing.T) {
	if questions, _ := Parse(""); questions != nil {
		t.Errorf("Expected no questions for empty input, got %d", len(questions))
	}
}

func TestParse_NumberingStyles(t *testing.T) {
	// Colon, period, paren and bare-whitespace numbering all open a block, and
	// blocks may run together without blank lines.
	text := `---START
1: First?
A) a
B) b
C) c
D) d
Answer: A
Description: one
2. Second?
a) a
b) b
c) c
d) d
answer: b
description: two
3) Third?
A) a
B) b
C) c
D) d
ANSWER: c
Description: three
4 Fourth?
A) a
B) b
C) c
D) d
Answer: D
Description: four`

	questions, skipped := Parse(text)
	if len(skipped) != 0 {
		t.Fatalf("Expected no skipped blocks, got %v", skipped)
	}
	if len(questions) != 4 {
		t.Fatalf("Expected 4 questions, got %d", len(questions))
	}

	wantPrompts := []string{"First?", "Second?", "Third?", "Fourth?"}
	wantAnswers := []string{"A", "B", "C", "D"}
	for i, q := range questions {
		if q.Text != wantPrompts[i] {
			t.Errorf("Question %d: expected prompt '%s', got '%s'", i+1, wantPrompts[i], q.Text)
		}
		if q.Answer != wantAnswers[i] {
			t.Errorf("Question %d: expected answer '%s', got '%s'", i+1, wantAnswers[i], q.Answer)
		}
	}
}

func TestParse_MalformedBlocksAreSkipped(t *testing.T) {
	text := `---START
1: Too few options?
A) a
B) b
Answer: A
Description: nope

2: No answer line?
A) a
B) b
C) c
D) d
Description: nope

3: No description?
A) a
B) b
C) c
D) d
Answer: A

4: The good one?
A) a
B) b
C) c
D) d
Answer: A
Description: yes`

	questions, skipped := Parse(text)
	if len(questions) != 1 {
		t.Fatalf("Expected 1 valid question, got %d", len(questions))
	}
	if questions[0].Text != "The good one?" {
		t.Errorf("Wrong surviving question: '%s'", questions[0].Text)
	}
	if len(skipped) != 3 {
		t.Fatalf("Expected 3 skipped blocks, got %d", len(skipped))
	}
	wantBlocks := []int{1, 2, 3}
	for i, s := range skipped {
		if s.Block != wantBlocks[i] {
			t.Errorf("Skip %d: expected block %d, got %d", i, wantBlocks[i], s.Block)
		}
		if s.Reason == "" {
			t.Errorf("Skip %d: expected a reason", i)
		}
	}
}

func TestParse_AnswerLabelOutsideOptions(t *testing.T) {
	// A label that names no option position could never be matched by a
	// submitted answer, so the block is dropped.
	text := `---START
1: Bad label?
A) a
B) b
C) c
D) d
Answer: Z
Description: label past the options

2: Multi-letter label?
A) a
B) b
C) c
D) d
Answer: AB
Description: not a single label

3: Fine?
A) a
B) b
C) c
D) d
Answer: D
Description: ok`

	questions, skipped := Parse(text)
	if len(questions) != 1 {
		t.Fatalf("Expected 1 valid question, got %d", len(questions))
	}
	if questions[0].Answer != "D" {
		t.Errorf("Wrong surviving question, answer %s", questions[0].Answer)
	}
	if len(skipped) != 2 {
		t.Fatalf("Expected 2 skipped blocks, got %v", skipped)
	}
	for _, s := range skipped {
		if s.Reason == "" {
			t.Errorf("Block %d: expected a reason", s.Block)
		}
	}
}

func TestParse_ExtraOptionsTruncated(t *testing.T) {
	text := `---START
1: Pick one?
A) first
B) second
C) third
D) fourth
E) fifth
Answer: B
Description: more options than labels`

	questions, skipped := Parse(text)
	if len(skipped) != 0 {
		t.Fatalf("Expected no skipped blocks, got %v", skipped)
	}
	if len(questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(questions))
	}
	got := questions[0].Options
	want := []string{"first", "second", "third", "fourth"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected options truncated to %v, got %v", want, got)
	}
}

func TestParse_UnknownLinesIgnored(t *testing.T) {
	text := `---START
1: What is 2+2?
Hint: think fingers
A) 3
B) 4
C) 5
D) 6
Answer: B
Difficulty: easy
Description: basic math`

	questions, skipped := Parse(text)
	if len(skipped) != 0 {
		t.Fatalf("Expected no skipped blocks, got %v", skipped)
	}
	if len(questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(questions))
	}
	if len(questions[0].Options) != 4 {
		t.Errorf("Expected 4 options, got %d", len(questions[0].Options))
	}
	if questions[0].Explanation != "basic math" {
		t.Errorf("Expected explanation 'basic math', got '%s'", questions[0].Explanation)
	}
}

func TestParse_Deterministic(t *testing.T) {
	text := `---START
1: What is 2+2?
A) 3
B) 4
C) 5
D) 6
Answer: B
Description: basic math

2: Broken block
A) only option
Answer: A
Description: dropped`

	first, firstSkips := Parse(text)
	second, secondSkips := Parse(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Parse is not deterministic: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(firstSkips, secondSkips) {
		t.Errorf("Skip reports are not deterministic: %v vs %v", firstSkips, secondSkips)
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line  string
		tag   lineTag
		value string
	}{
		{"A) Paris", tagOption, "Paris"},
		{"b) Madrid", tagOption, "Madrid"},
		{"Answer: c", tagAnswer, "C"},
		{"ANSWER:  d ", tagAnswer, "D"},
		{"Description: because", tagDescription, "because"},
		{"description:   trimmed  ", tagDescription, "trimmed"},
		{"Hint: something else", tagUnknown, ""},
		{"just prose", tagUnknown, ""},
	}

	for _, tt := range tests {
		tag, value := classifyLine(tt.line)
		if tag != tt.tag {
			t.Errorf("classifyLine(%q): expected tag %d, got %d", tt.line, tt.tag, tag)
		}
		if value != tt.value {
			t.Errorf("classifyLine(%q): expected value %q, got %q", tt.line, tt.value, value)
		}
	}
}
