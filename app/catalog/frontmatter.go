package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// parseMarkdown reads a Markdown article. The front matter carries the
// metadata and the body becomes the article content.
func parseMarkdown(data []byte) (rawArticle, error) {
	frontMatter, format, body, err := splitFrontMatter(data)
	if err != nil {
		return rawArticle{}, err
	}

	values := map[string]interface{}{}
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(frontMatter, &values); err != nil {
			return rawArticle{}, fmt.Errorf("failed to parse YAML front matter: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(frontMatter, &values); err != nil {
			return rawArticle{}, fmt.Errorf("failed to parse TOML front matter: %w", err)
		}
	}

	id, err := intValue(values["id"])
	if err != nil {
		return rawArticle{}, fmt.Errorf("invalid id: %w", err)
	}

	raw := rawArticle{
		ID:       id,
		Title:    stringValue(values["title"]),
		Category: stringValue(values["category"]),
		Date:     dateValue(values["date"]),
		Excerpt:  stringValue(values["excerpt"]),
		Content:  strings.TrimSpace(body),
	}

	// Hugo-style front matter
	if raw.Category == "" {
		if list, ok := values["categories"].([]interface{}); ok && len(list) > 0 {
			raw.Category = stringValue(list[0])
		}
	}
	if raw.Excerpt == "" {
		raw.Excerpt = stringValue(values["summary"])
	}

	return raw, nil
}

func splitFrontMatter(data []byte) ([]byte, string, string, error) {
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var delimiter, format string
	switch {
	case strings.HasPrefix(text, "---\n"):
		delimiter, format = "---", "yaml"
	case strings.HasPrefix(text, "+++\n"):
		delimiter, format = "+++", "toml"
	default:
		return nil, "", "", fmt.Errorf("missing front matter")
	}

	rest := text[len(delimiter)+1:]
	if strings.HasPrefix(rest, delimiter) {
		return nil, format, strings.TrimPrefix(rest[len(delimiter):], "\n"), nil
	}

	end := strings.Index(rest, "\n"+delimiter)
	if end < 0 {
		return nil, "", "", fmt.Errorf("unterminated %s front matter", format)
	}

	body := rest[end+1+len(delimiter):]
	return []byte(rest[:end]), format, strings.TrimPrefix(body, "\n"), nil
}

func stringValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}

func intValue(v interface{}) (int, error) {
	switch value := v.(type) {
	case nil:
		return 0, nil
	case int:
		return value, nil
	case int64:
		return int(value), nil
	case uint64:
		return int(value), nil
	case float64:
		return int(value), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(value))
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// dateValue normalizes the date types produced by the YAML and TOML decoders.
func dateValue(v interface{}) string {
	switch value := v.(type) {
	case time.Time:
		return value.Format(DateLayout)
	case fmt.Stringer:
		return value.String()
	default:
		return stringValue(v)
	}
}
