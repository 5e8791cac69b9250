package question

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const choiceLetters = "abcde"

// AnswerIndex resolves a stored answer label to a choice index. Letters
// a–e are tried first, then a 1-based number. Anything else resolves to 0.
func AnswerIndex(answer string, choices int) int {
	norm := strings.ToLower(strings.TrimSpace(answer))
	if len(norm) == 1 {
		if idx := strings.IndexByte(choiceLetters, norm[0]); idx >= 0 && idx < choices {
			return idx
		}
	}
	if n, ok := leadingInt(norm); ok && n >= 1 && n <= choices {
		return n - 1
	}
	return 0
}

// leadingInt parses the run of digits at the start of s.
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseCorrectAnswers resolves a multi-answer label such as "ac" or "13"
// to choice indices. Letters are collected first; digits are only
// consulted when no letter matched. Out-of-range labels are ignored.
func ParseCorrectAnswers(answer string, choices int) []int {
	norm := strings.ToLower(strings.TrimSpace(answer))
	out := []int{}
	if norm == "" {
		return out
	}
	for _, r := range norm {
		if idx := strings.IndexRune(choiceLetters, r); idx >= 0 && idx < choices {
			out = append(out, idx)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, r := range norm {
		if r >= '1' && r <= '9' {
			if n := int(r - '0'); n <= choices {
				out = append(out, n-1)
			}
		}
	}
	return out
}

// Letter returns the display label for choice index i.
func Letter(i int) string {
	return string(rune('A' + i))
}

// Truth is a statement verdict. It is encoded as "1" or "0".
type Truth bool

// ParseTruth reads the verdict spellings found in card answers.
func ParseTruth(s string) Truth {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "y", "đúng", "dung", "đ":
		return true
	}
	return false
}

func (t Truth) String() string {
	if t {
		return "1"
	}
	return "0"
}

func (t Truth) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Truth) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*t = ParseTruth(x)
	case bool:
		*t = Truth(x)
	case float64:
		*t = x != 0
	default:
		return fmt.Errorf("invalid statement answer %s", b)
	}
	return nil
}
