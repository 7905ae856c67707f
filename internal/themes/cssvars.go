package themes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// SettingsToCSSVariables flattens a theme settings tree into CSS custom
// properties. Nested keys join with dashes and camelCase segments break on
// case boundaries, so {"layout": {"borderRadius": "4px"}} with prefix
// "--theme-" becomes "--theme-layout-border-radius: 4px".
func SettingsToCSSVariables(settings map[string]any, prefix string) map[string]string {
	out := make(map[string]string)
	flattenSettings(out, prefix, "", settings)
	return out
}

func flattenSettings(out map[string]string, prefix, path string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			segment := kebabCase(key)
			next := segment
			if path != "" {
				next = path + "-" + segment
			}
			flattenSettings(out, prefix, next, child)
		}
	case nil:
		return
	default:
		if path == "" {
			return
		}
		if text, ok := cssValue(v); ok {
			out[prefix+path] = text
		}
	}
}

func cssValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return "", false
		}
		return trimmed, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

// kebabCase lowercases a key, breaking camelCase boundaries and mapping
// dots, underscores, and spaces to dashes.
func kebabCase(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	prevDash := true
	for _, r := range key {
		switch {
		case r == '.' || r == '_' || r == ' ' || r == '-':
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		case unicode.IsUpper(r):
			if !prevDash {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		default:
			b.WriteRune(r)
			prevDash = false
		}
	}
	return strings.Trim(b.String(), "-")
}

// StyleSheet renders variables as a :root rule with keys in sorted order so
// output is stable across regenerations.
func StyleSheet(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// MergeVariables overlays later maps onto earlier ones.
func MergeVariables(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	return out
}
