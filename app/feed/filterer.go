package feed

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

var validFilterFields = map[string]bool{
	"title":       true,
	"description": true,
	"content":     true,
	"link":        true,
	"categories":  true,
}

// Filterer decides which feed items are imported. An item is filtered when
// it contains any exclude term, or when a filter has includes and the item
// contains none of them.
type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

func (f *Filterer) Run(items []Item, filters []ConfigFilter) []Item {
	result := make([]Item, 0, len(items))
	if len(filters) == 0 {
		return append(result, items...)
	}

	caser := cases.Fold()
	for _, item := range items {
		item.IsFiltered, item.FilterReason = f.applyFilters(caser, item, filters)
		result = append(result, item)
	}

	return result
}

// Kept returns the items that passed filtering.
func (f *Filterer) Kept(items []Item) []Item {
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.IsFiltered {
			kept = append(kept, item)
		}
	}
	return kept
}

func (f *Filterer) applyFilters(caser cases.Caser, item Item, filters []ConfigFilter) (bool, string) {
	for _, filter := range filters {
		value := caser.String(fieldValue(item, filter.Field))

		for _, exclude := range filter.Excludes {
			if strings.Contains(value, caser.String(exclude)) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) == 0 {
			continue
		}

		matched := false
		for _, include := range filter.Includes {
			if strings.Contains(value, caser.String(include)) {
				matched = true
				break
			}
		}
		if !matched {
			return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
		}
	}

	return false, ""
}

func fieldValue(item Item, field string) string {
	switch field {
	case "title":
		return item.Title
	case "description":
		return item.Description
	case "content":
		return item.Content
	case "link":
		return item.Link
	case "categories":
		return strings.Join(item.Categories, " ")
	default:
		return ""
	}
}
