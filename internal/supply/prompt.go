package supply

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/synaptrix4/skillatics-io/internal/models"
)

func topicInstruction(topic string) string {
	lower := strings.ToLower(strings.TrimSpace(topic))
	switch {
	case strings.Contains(lower, "general aptitude"):
		return "on various General Aptitude topics (like Quantitative Analysis, Logical Reasoning, Verbal Ability)"
	case strings.Contains(lower, "technical aptitude"):
		return "on various Technical Aptitude topics (like Computer Science, Programming, Data Structures, Algorithms, Operating Systems, Databases)"
	case lower == "" || lower == "mixed" || lower == "any" || lower == "mixed aptitude":
		return "on a mix of General Aptitude and Technical Computer Science topics"
	default:
		return fmt.Sprintf("on the topic %q", topic)
	}
}

func buildPrompt(topic string, difficulty, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice questions %s with a difficulty level of %d (on a scale of 1 to 5, where 5 is expert).\n\n",
		count, topicInstruction(topic), difficulty)
	b.WriteString("Return ONLY a raw JSON array. Do not wrap in markdown code blocks.\n\n")
	b.WriteString("Each object in the array must have:\n")
	b.WriteString("- \"text\": The question text (string)\n")
	b.WriteString("- \"options\": An array of 4 distinct string options\n")
	b.WriteString("- \"answer\": The correct option string (must be one of the options)\n")
	b.WriteString("- \"explanation\": A brief explanation of why the answer is correct (string)\n")
	return b.String()
}

// stripFences removes a markdown code fence wrapped around the payload.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

type generatedQuestion struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// parseQuestions decodes a model response and drops items that would not
// make a valid multiple-choice question.
func parseQuestions(text, topic string, difficulty, count int) ([]models.Question, error) {
	var raw []generatedQuestion
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("decode generated questions: %w", err)
	}

	out := make([]models.Question, 0, len(raw))
	for _, g := range raw {
		q := models.Question{
			Topic:       topic,
			Difficulty:  difficulty,
			Prompt:      strings.TrimSpace(g.Text),
			Options:     g.Options,
			Answer:      g.Answer,
			Explanation: g.Explanation,
			Source:      "generated",
		}
		if len(q.Options) < 2 || q.Answer == "" || q.Validate() != nil {
			continue
		}
		out = append(out, q)
		if len(out) == count {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("generated JSON contained no valid questions")
	}
	return out, nil
}
