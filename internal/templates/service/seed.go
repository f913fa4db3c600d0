package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"lead_outreach_backend/internal/templates/domain"
	"lead_outreach_backend/internal/templates/repository"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Templates []seedTemplate `yaml:"templates"`
}

type seedTemplate struct {
	Name               string              `yaml:"name"`
	Category           string              `yaml:"category"`
	Body               string              `yaml:"body"`
	ExtraFields        []domain.ExtraField `yaml:"extra_fields"`
	SupportsAttachment bool                `yaml:"supports_attachment"`
}

// ParseSeed decodes a YAML template seed document.
func ParseSeed(r io.Reader) ([]repository.CreateParams, error) {
	var doc seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode template seed: %w", err)
	}

	out := make([]repository.CreateParams, 0, len(doc.Templates))
	for i, t := range doc.Templates {
		name := strings.TrimSpace(t.Name)
		if name == "" || strings.TrimSpace(t.Body) == "" {
			return nil, fmt.Errorf("template seed entry %d: name and body are required", i+1)
		}
		category := domain.CategoryCustom
		if t.Category != "" {
			category = domain.Category(t.Category)
		}
		if !category.Valid() {
			return nil, fmt.Errorf("template seed %q: unknown category %q", name, t.Category)
		}
		for _, f := range t.ExtraFields {
			if !extraFieldName.MatchString(f.Name) {
				return nil, fmt.Errorf("template seed %q: invalid extra field name %q", name, f.Name)
			}
		}
		out = append(out, repository.CreateParams{
			Name:               name,
			Category:           category,
			Body:               t.Body,
			ExtraFields:        t.ExtraFields,
			SupportsAttachment: t.SupportsAttachment,
		})
	}
	return out, nil
}

// SeedFromFile inserts the templates in path that do not exist yet. An empty
// path is a no-op.
func (s *Service) SeedFromFile(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open template seed: %w", err)
	}
	defer f.Close()

	items, err := ParseSeed(f)
	if err != nil {
		return err
	}
	inserted, err := s.repo.Seed(ctx, items)
	if err != nil {
		return fmt.Errorf("seed templates: %w", err)
	}
	s.log.Info("template seed applied", "file", path, "declared", len(items), "inserted", inserted)
	return nil
}
