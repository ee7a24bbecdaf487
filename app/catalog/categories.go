package catalog

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// DefaultStyleClass is used for categories missing from the table.
const DefaultStyleClass = "bg-gray-100 text-gray-800"

type categoriesFile struct {
	Categories []CategoryInfo `yaml:"categories"`
}

// Categories is the fixed lookup table from category code to display data.
type Categories struct {
	list   []CategoryInfo
	byCode map[string]CategoryInfo
}

func NewCategories(list []CategoryInfo) (*Categories, error) {
	c := &Categories{
		list:   slices.Clone(list),
		byCode: make(map[string]CategoryInfo, len(list)),
	}

	for i, info := range list {
		if info.Code == "" {
			return nil, fmt.Errorf("category at index %d has no code", i)
		}
		if info.Code == AllCategories {
			return nil, fmt.Errorf("category code '%s' is reserved", AllCategories)
		}
		if _, ok := c.byCode[info.Code]; ok {
			return nil, fmt.Errorf("duplicate category code '%s'", info.Code)
		}
		if info.DisplayName == "" {
			c.list[i].DisplayName = info.Code
		}
		if info.StyleClass == "" {
			c.list[i].StyleClass = DefaultStyleClass
		}
		c.byCode[info.Code] = c.list[i]
	}

	return c, nil
}

// LoadCategories reads a category table from a YAML file.
func LoadCategories(path string) (*Categories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return parseCategories(data)
}

// DefaultCategories returns the category table shipped with the binary.
func DefaultCategories() (*Categories, error) {
	data, err := seedFS.ReadFile("seed/categories.yml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded categories: %w", err)
	}
	return parseCategories(data)
}

func parseCategories(data []byte) (*Categories, error) {
	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return NewCategories(file.Categories)
}

// Lookup returns display data for code. Unknown codes display as themselves.
func (c *Categories) Lookup(code string) CategoryInfo {
	if info, ok := c.byCode[code]; ok {
		return info
	}
	return CategoryInfo{Code: code, DisplayName: code, StyleClass: DefaultStyleClass}
}

func (c *Categories) Known(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

// Match finds the category whose code or display name equals name, ignoring
// case. Dashes in codes match spaces, so "Computer Vision" finds computer-vision.
func (c *Categories) Match(name string) (CategoryInfo, bool) {
	caser := cases.Fold()
	folded := caser.String(strings.TrimSpace(name))
	if folded == "" {
		return CategoryInfo{}, false
	}

	for _, info := range c.list {
		candidates := []string{info.Code, strings.ReplaceAll(info.Code, "-", " "), info.DisplayName}
		for _, candidate := range candidates {
			if caser.String(candidate) == folded {
				return info, true
			}
		}
	}

	return CategoryInfo{}, false
}

// All returns the table in declaration order.
func (c *Categories) All() []CategoryInfo {
	return slices.Clone(c.list)
}
