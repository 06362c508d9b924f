// Package textfs persists generated and user-edited marketing texts as flat
// files, one directory per user. The layout is stable and human-readable:
//
//	<base>/<username>/company_intro.txt
//	<base>/<username>/brand_intro.txt
//	<base>/<username>/<purpose>/<name>.txt
package textfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bobmcallan/copyforge/internal/common"
	"github.com/bobmcallan/copyforge/internal/interfaces"
	"github.com/bobmcallan/copyforge/internal/models"
)

const (
	companyIntroFile = "company_intro.txt"
	brandIntroFile   = "brand_intro.txt"
)

// Store implements interfaces.TextStore over a base directory.
type Store struct {
	basePath string
	logger   *common.Logger
}

// NewStore creates the base directory if needed and returns a Store.
func NewStore(basePath string, logger *common.Logger) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create texts directory %s: %w", basePath, err)
	}
	return &Store{basePath: basePath, logger: logger}, nil
}

// sanitize makes a value safe for use as a path segment. Replaces
// separators and colons with _ and collapses ".." to prevent traversal.
func sanitize(value string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(strings.TrimSpace(value))
}

func (s *Store) userDir(username string) string {
	return filepath.Join(s.basePath, sanitize(username))
}

// writeFile writes content atomically: temp file in the target directory,
// then rename.
func writeFile(dir, name, content string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// SaveIntros persists both generated intros for a user.
func (s *Store) SaveIntros(_ context.Context, username, companyIntro, brandIntro string) error {
	dir := s.userDir(username)
	if err := writeFile(dir, companyIntroFile, companyIntro); err != nil {
		return err
	}
	return writeFile(dir, brandIntroFile, brandIntro)
}

// SaveAdditional persists one additional text under its purpose category.
func (s *Store) SaveAdditional(_ context.Context, username, purpose, name, content string) error {
	purpose = sanitize(strings.ToLower(strings.ReplaceAll(purpose, " ", "_")))
	name = sanitize(name)
	if purpose == "" || name == "" {
		return fmt.Errorf("purpose and name must not be empty")
	}
	dir := filepath.Join(s.userDir(username), purpose)
	return writeFile(dir, name+".txt", content)
}

// GetTexts loads the full text set for a user. A user with no stored texts
// gets empty intros and empty category lists, not an error.
func (s *Store) GetTexts(_ context.Context, username string) (*models.UserTexts, error) {
	dir := s.userDir(username)

	texts := &models.UserTexts{
		AdditionalFiles: make(map[string][]models.AdditionalText),
	}
	for _, purpose := range models.TextPurposes {
		texts.AdditionalFiles[purpose] = []models.AdditionalText{}
	}

	texts.CompanyIntro = readOptional(filepath.Join(dir, companyIntroFile))
	texts.BrandIntro = readOptional(filepath.Join(dir, brandIntroFile))

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return texts, nil
		}
		return nil, fmt.Errorf("failed to read texts directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		purpose := entry.Name()
		files, err := os.ReadDir(filepath.Join(dir, purpose))
		if err != nil {
			s.logger.Warn().Err(err).Str("purpose", purpose).Msg("Failed to read purpose directory")
			continue
		}
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".txt") {
				continue
			}
			content, err := os.ReadFile(filepath.Join(dir, purpose, file.Name()))
			if err != nil {
				s.logger.Warn().Err(err).Str("file", file.Name()).Msg("Failed to read additional text")
				continue
			}
			texts.AdditionalFiles[purpose] = append(texts.AdditionalFiles[purpose], models.AdditionalText{
				Name:    strings.TrimSuffix(file.Name(), ".txt"),
				Content: string(content),
			})
		}
	}

	for purpose := range texts.AdditionalFiles {
		sort.Slice(texts.AdditionalFiles[purpose], func(i, j int) bool {
			return texts.AdditionalFiles[purpose][i].Name < texts.AdditionalFiles[purpose][j].Name
		})
	}

	return texts, nil
}

// readOptional returns the file's content, or "" if it does not exist.
func readOptional(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

var _ interfaces.TextStore = (*Store)(nil)
