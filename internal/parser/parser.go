package parser

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/docquiz/docquiz/internal/models"
)

// StartMarker separates document preamble from the question list. Everything
// before it is ignored.
const StartMarker = "---START"

// BlockError reports one question block that failed validation and was
// skipped. It never aborts the rest of the parse.
type BlockError struct {
	Block  int    // 1-based position of the block in the source text
	Reason string // why the block was dropped
}

func (e BlockError) Error() string {
	return fmt.Sprintf("question block %d skipped: %s", e.Block, e.Reason)
}

var (
	// blockStartRe matches lines that open a new question block: an integer
	// followed by a colon, period, closing paren or whitespace. Tolerates the
	// numbering styles seen in real documents ("1:", "2.", "3) ", "4 ").
	blockStartRe = regexp.MustCompile(`^(\d+)([:.)]|\s)\s*`)
	// optionRe matches option lines: a single letter followed by a closing
	// paren, e.g. "A) Paris".
	optionRe = regexp.MustCompile(`^([A-Za-z])\)\s*`)
)

// lineTag classifies a single line within a question block.
type lineTag int

const (
	tagOption lineTag = iota
	tagAnswer
	tagDescription
	tagUnknown
)

// classifyLine tags one trimmed block line and extracts its payload: the
// option text, the answer label, or the description. Unknown lines are kept
// around so future annotations in the document don't break parsing.
func classifyLine(line string) (lineTag, string) {
	if m := optionRe.FindStringSubmatch(line); m != nil {
		return tagOption, strings.TrimSpace(line[len(m[0]):])
	}
	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "answer:") {
		return tagAnswer, strings.ToUpper(strings.TrimSpace(line[len("answer:"):]))
	}
	if strings.HasPrefix(lower, "description:") {
		return tagDescription, strings.TrimSpace(line[len("description:"):])
	}
	return tagUnknown, ""
}

// Parse turns a raw question document into validated questions. Text before
// the start marker is ignored; a missing marker yields no questions. Malformed
// blocks are dropped and reported, never fatal. Output is deterministic for a
// given input.
func Parse(raw string) ([]models.Question, []BlockError) {
	idx := strings.Index(raw, StartMarker)
	if idx == -1 {
		return nil, nil
	}
	raw = raw[idx+len(StartMarker):]

	var blocks [][]string
	var current []string

	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if blockStartRe.MatchString(line) {
			if current != nil {
				blocks = append(blocks, current)
			}
			current = []string{line}
			continue
		}
		// Lines before the first numbered line belong to no block.
		if current != nil && line != "" {
			current = append(current, line)
		}
	}
	if current != nil {
		blocks = append(blocks, current)
	}

	var questions []models.Question
	var skipped []BlockError
	for i, block := range blocks {
		q, reason := assembleBlock(block)
		if reason != "" {
			skipped = append(skipped, BlockError{Block: i + 1, Reason: reason})
			continue
		}
		questions = append(questions, q)
	}

	return questions, skipped
}

// assembleBlock builds one question from a block's tagged lines. The first
// line is the prompt with its numeric prefix stripped; the rest are classified
// by prefix, not position. Returns a non-empty reason when the block is
// invalid.
func assembleBlock(lines []string) (models.Question, string) {
	var q models.Question

	prompt := lines[0]
	if m := blockStartRe.FindStringSubmatch(prompt); m != nil {
		prompt = prompt[len(m[0]):]
	}
	q.Text = strings.TrimSpace(prompt)

	for _, line := range lines[1:] {
		tag, value := classifyLine(line)
		switch tag {
		case tagOption:
			q.Options = append(q.Options, value)
		case tagAnswer:
			q.Answer = value
		case tagDescription:
			q.Explanation = value
		}
	}

	switch {
	case q.Text == "":
		return models.Question{}, "empty prompt"
	case len(q.Options) < models.OptionCount:
		return models.Question{}, fmt.Sprintf("has %d options, need %d", len(q.Options), models.OptionCount)
	case q.Answer == "":
		return models.Question{}, "missing answer"
	case !validLabel(q.Answer):
		return models.Question{}, fmt.Sprintf("answer %q is not a label A-%s", q.Answer, models.OptionLabel(models.OptionCount-1))
	case q.Explanation == "":
		return models.Question{}, "missing description"
	}

	// Extra options are tolerated but only the first four keep stable labels.
	q.Options = q.Options[:models.OptionCount]

	return q, ""
}

// validLabel reports whether the answer names one of the labeled option
// positions. Anything else could never match a submitted answer.
func validLabel(label string) bool {
	if len(label) != 1 {
		return false
	}
	return label[0] >= 'A' && label[0] < 'A'+models.OptionCount
}
