// Package domain holds the template types and the placeholder personalizer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups templates in the picker.
type Category string

const (
	CategoryFormal   Category = "formale"
	CategoryCordial  Category = "cordiale"
	CategoryFollowUp Category = "follow_up"
	CategoryUrgent   Category = "urgenza"
	CategoryCustom   Category = "custom"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFormal, CategoryCordial, CategoryFollowUp, CategoryUrgent, CategoryCustom:
		return true
	}
	return false
}

// ExtraField describes a value the operator must fill in before the template renders.
type ExtraField struct {
	Name        string `json:"name" yaml:"name"`
	Label       string `json:"label" yaml:"label"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`
}

// Template is an operator-authored message skeleton.
type Template struct {
	ID                 uuid.UUID
	Name               string
	Category           Category
	Body               string
	ExtraFields        []ExtraField
	SupportsAttachment bool
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
