package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCategories(t *testing.T) {
	categories, err := DefaultCategories()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	all := categories.All()
	if len(all) != 4 {
		t.Fatalf("Expected 4 categories, got %d", len(all))
	}

	expected := map[string]string{
		"machine-learning": "Machine Learning",
		"nlp":              "Natural Language Processing",
		"computer-vision":  "Computer Vision",
		"programming":      "Programming",
	}
	for code, name := range expected {
		if !categories.Known(code) {
			t.Errorf("Expected category '%s' to be known", code)
		}
		if got := categories.Lookup(code).DisplayName; got != name {
			t.Errorf("Expected display name '%s' for '%s', got '%s'", name, code, got)
		}
	}

	if got := categories.Lookup("nlp").StyleClass; got != "bg-purple-100 text-purple-800" {
		t.Errorf("Expected purple style for nlp, got '%s'", got)
	}
}

func TestCategoriesLookupUnknown(t *testing.T) {
	categories, err := DefaultCategories()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	info := categories.Lookup("gardening")
	if info.DisplayName != "gardening" {
		t.Errorf("Expected unknown category to display as its code, got '%s'", info.DisplayName)
	}
	if info.StyleClass != DefaultStyleClass {
		t.Errorf("Expected default style class, got '%s'", info.StyleClass)
	}
	if categories.Known("gardening") {
		t.Error("Expected 'gardening' to be unknown")
	}
}

func TestNewCategoriesValidation(t *testing.T) {
	tests := []struct {
		name    string
		list    []CategoryInfo
		errPart string
	}{
		{name: "missing code", list: []CategoryInfo{{DisplayName: "X"}}, errPart: "has no code"},
		{name: "reserved code", list: []CategoryInfo{{Code: "all"}}, errPart: "reserved"},
		{name: "duplicate code", list: []CategoryInfo{{Code: "nlp"}, {Code: "nlp"}}, errPart: "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCategories(tt.list)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Expected error containing '%s', got: %v", tt.errPart, err)
			}
		})
	}
}

func TestLoadCategoriesFromFile(t *testing.T) {
	tempDir := t.TempDir()

	content := `
categories:
  - code: "go"
    name: "Go"
  - code: "rust"
    name: "Rust"
    style: "bg-red-100 text-red-800"
`
	path := filepath.Join(tempDir, "categories.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	categories, err := LoadCategories(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	all := categories.All()
	if len(all) != 2 || all[0].Code != "go" || all[1].Code != "rust" {
		t.Fatalf("Expected [go rust] in order, got %v", all)
	}
	if all[0].StyleClass != DefaultStyleClass {
		t.Errorf("Expected default style for 'go', got '%s'", all[0].StyleClass)
	}
	if all[1].StyleClass != "bg-red-100 text-red-800" {
		t.Errorf("Expected red style for 'rust', got '%s'", all[1].StyleClass)
	}
}

func TestCategoriesMatch(t *testing.T) {
	categories, err := DefaultCategories()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	tests := map[string]string{
		"machine-learning":            "machine-learning",
		"Machine Learning":            "machine-learning",
		"computer vision":             "computer-vision",
		"NLP":                         "nlp",
		"natural language processing": "nlp",
		" Programming ":               "programming",
	}

	for name, code := range tests {
		info, ok := categories.Match(name)
		if !ok {
			t.Errorf("Expected '%s' to match", name)
			continue
		}
		if info.Code != code {
			t.Errorf("Expected '%s' to match '%s', got '%s'", name, code, info.Code)
		}
	}

	for _, name := range []string{"", "cooking", "machine"} {
		if _, ok := categories.Match(name); ok {
			t.Errorf("Expected '%s' not to match", name)
		}
	}
}
