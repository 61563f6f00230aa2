package store

import (
	"net/url"
	"path"
	"strings"
)

// MetaEntry is one display row of a cart line's configured values.
type MetaEntry struct {
	Label string
	Value string
	// URL flags entries that should render as a link to the stored file,
	// with Value holding the file's base name.
	URL string
}

// FormatMeta turns a cart line's value mapping into display rows: labels are
// title-cased field names, list values are comma joined, uploaded-file URLs
// become links showing the file name, and empty values are skipped.
func FormatMeta(values map[string]any, order []string) []MetaEntry {
	entries := make([]MetaEntry, 0, len(order))
	for _, key := range order {
		value, ok := values[key]
		if !ok {
			continue
		}

		text := metaValueString(value)
		if text == "" {
			continue
		}

		entry := MetaEntry{Label: labelFor(key), Value: text}
		if isHTTPURL(text) {
			entry.URL = text
			entry.Value = path.Base(text)
		}
		entries = append(entries, entry)
	}
	return entries
}

func metaValueString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// labelFor derives a display label from a field name: underscores and
// hyphens become spaces and each word is capitalized.
func labelFor(key string) string {
	replaced := strings.NewReplacer("_", " ", "-", " ").Replace(key)
	words := strings.Fields(replaced)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func isHTTPURL(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
