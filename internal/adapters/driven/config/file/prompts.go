package file

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed defaults/*.txt
var defaultsFS embed.FS

// placeholders is the number of %s verbs each prompt must contain.
var placeholders = map[string]int{
	driven.PromptGroundedAnswer: 1,
}

// PromptStore loads prompts from <dir>/<name>.txt, falling back to the
// embedded defaults. Defaults are written to disk on first use so users
// have something to edit.
type PromptStore struct {
	promptDir string
	mu        sync.RWMutex
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a prompt store rooted at promptDir.
// If promptDir is empty, defaults to ~/.dailybit/prompts. No I/O happens
// until the first Load.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for name.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[name] = prompt
	s.mu.Unlock()
	return prompt, nil
}

// resolve prefers the user's file when it is readable and well-formed.
func (s *PromptStore) resolve(name string) (string, error) {
	fallback, hasDefault := defaultPrompt(name)

	if s.initErr == nil {
		data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
		if err == nil {
			prompt := strings.TrimSpace(string(data))
			if want, ok := placeholders[name]; !ok || strings.Count(prompt, "%s") == want {
				return prompt, nil
			}
			if hasDefault {
				logger.Warn("prompt %s: expected %d %%s placeholder(s), using built-in default", name, placeholders[name])
				return fallback, nil
			}
		} else if !hasDefault {
			return "", fmt.Errorf("load prompt %q: %w", name, err)
		}
	}

	if !hasDefault {
		return "", fmt.Errorf("load prompt %q: %w", name, s.initErr)
	}
	return fallback, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the directory and any missing default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		logger.Warn("%v; using built-in prompts", s.initErr)
		return
	}

	entries, err := defaultsFS.ReadDir("defaults")
	if err != nil {
		s.initErr = err
		return
	}
	for _, e := range entries {
		path := filepath.Join(s.promptDir, e.Name())
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}
		content, err := defaultsFS.ReadFile("defaults/" + e.Name())
		if err != nil {
			s.initErr = err
			return
		}
		if err := os.WriteFile(path, content, 0600); err != nil {
			s.initErr = fmt.Errorf("create default prompt %s: %w", e.Name(), err)
			return
		}
	}
}

func defaultPrompt(name string) (string, bool) {
	data, err := defaultsFS.ReadFile("defaults/" + name + ".txt")
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
