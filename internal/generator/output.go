package generator

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/saaquiz/internal/model"
)

// WriteQuestionSet encodes set as one indented JSON document
func WriteQuestionSet(w io.Writer, set *model.QuestionSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode question set: %w", err)
	}
	return nil
}

// SaveQuestionSet writes set to path; "-" writes to stdout
func SaveQuestionSet(path string, set *model.QuestionSet) (err error) {
	if path == "-" {
		return WriteQuestionSet(os.Stdout, set)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()

	return WriteQuestionSet(f, set)
}
