// Package goldset loads the labelled evaluation set.
//
// The format is one JSON object per line with at least "question" and
// optionally "answer" (a substring expected in a correct response).
// Blank lines are skipped.
package goldset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

// Load reads a gold set from a JSONL file.
func Load(path string) ([]domain.EvalItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gold set: %w", err)
	}
	defer f.Close()

	var items []domain.EvalItem
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var item domain.EvalItem
		if err := json.Unmarshal([]byte(text), &item); err != nil {
			return nil, fmt.Errorf("%w: gold set line %d: %v", domain.ErrInvalidInput, line, err)
		}
		if strings.TrimSpace(item.Question) == "" {
			return nil, fmt.Errorf("%w: gold set line %d: missing question", domain.ErrInvalidInput, line)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gold set: %w", err)
	}

	return items, nil
}
