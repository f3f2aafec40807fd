package urlparams

import (
	"net/url"
	"sort"
	"strings"
)

// EncodeComponent escapes s for use as a fragment parameter key or value.
// Every reserved character, '+' included, is percent-encoded and spaces
// become %20, so Parse returns s unchanged apart from the surrounding
// whitespace it trims.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildShareLink replaces the fragment of base with the non-empty values,
// in key order. Values are encoded verbatim, but Parse trims surrounding
// whitespace, so only trimmed values round-trip exactly.
func BuildShareLink(base string, values map[string]string) string {
	base, _, _ = strings.Cut(strings.TrimSpace(base), "#")
	keys := make([]string, 0, len(values))
	for key, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return base
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, EncodeComponent(key)+"="+EncodeComponent(values[key]))
	}
	return base + "#" + strings.Join(pairs, "&")
}

// Strip removes every recognized parameter from the query and fragment of
// raw, keeping the remaining parameters in their original order.
func Strip(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	base, query, fragment := splitURL(raw)
	out := base
	if kept := stripParams(query, url.QueryUnescape); kept != "" {
		out += "?" + kept
	}
	if kept := stripParams(fragment, url.PathUnescape); kept != "" {
		out += "#" + kept
	}
	return out
}

func stripParams(raw string, decode func(string) (string, error)) string {
	if raw == "" {
		return ""
	}
	var kept []string
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		rawKey, _, _ := strings.Cut(pair, "=")
		if key, err := decode(rawKey); err == nil {
			if _, ok := recognized[key]; ok {
				continue
			}
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}
