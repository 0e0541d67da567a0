package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/phuslu/log"
	"github.com/ppiankov/saaquiz/internal/model"
)

// LoadDomains reads the exam taxonomy file {"domain_list": [...]}
func LoadDomains(path string) ([]model.DomainItem, error) {
	var list model.DomainList
	if err := loadJSON(path, &list); err != nil {
		return nil, err
	}
	if err := model.Validate(&list); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	log.Info().Str("path", path).Int("items", len(list.Items)).Msg("loaded domain taxonomy")
	return list.Items, nil
}

// LoadScenarios reads a JSON array of scenario sentences.
// An empty path selects the built-in list.
func LoadScenarios(path string) ([]string, error) {
	if path == "" {
		return model.DefaultScenarios, nil
	}

	var scenarios []string
	if err := loadJSON(path, &scenarios); err != nil {
		return nil, err
	}

	out := scenarios[:0]
	for _, s := range scenarios {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, &LoadError{Path: path, Err: errors.New("no scenarios")}
	}
	return out, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &LoadError{Path: path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	return nil
}
