package msbuild

import (
	"encoding/json"
	"regexp"
	"strings"
)

// headerPattern recognizes "Name:" / "Name =" property-header lines. Two or
// more identifier characters are required so Windows drive prefixes such as
// "C:\" are not mistaken for headers.
var headerPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]+\s*[:=]`)

// ParseProperties extracts the requested properties from raw query output.
// Modern SDKs answer -getProperty with a JSON document; older ones print
// "Name = value" lines or, for a single property, the bare value. Both
// shapes are tried, structured first. Blank values count as absent.
func ParseProperties(output string, names []string) PropertySet {
	if props := parseStructured(output, names); len(props) > 0 {
		return props
	}
	return parseLines(output, names)
}

func parseStructured(output string, names []string) PropertySet {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start < 0 || end <= start {
		return nil
	}

	span := []byte(output[start : end+1])

	var doc struct {
		Properties map[string]any `json:"Properties"`
	}
	source := map[string]any(nil)
	if err := json.Unmarshal(span, &doc); err == nil {
		source = doc.Properties
	}
	if len(source) == 0 {
		// Some SDK revisions emit the property object bare, without the
		// Properties wrapper.
		var bare map[string]any
		if err := json.Unmarshal(span, &bare); err != nil {
			return nil
		}
		source = bare
	}

	props := make(PropertySet)
	for _, name := range names {
		raw, ok := source[name]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			props[name] = value
		}
	}
	return props
}

func parseLines(output string, names []string) PropertySet {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	props := make(PropertySet)
	for _, name := range names {
		if value, ok := scanLines(lines, name); ok {
			props[name] = value
		}
	}

	// A bare single-line answer is the value itself when exactly one
	// property was asked for.
	if len(props) == 0 && len(names) == 1 && len(lines) == 1 && !headerPattern.MatchString(lines[0]) {
		props[names[0]] = lines[0]
	}
	return props
}

// scanLines finds the first line carrying a value for name. The character
// after the name must be whitespace, "=", or ":" so that one property name
// never matches as a prefix of a longer one (TargetFramework vs
// TargetFrameworks).
func scanLines(lines []string, name string) (string, bool) {
	lower := strings.ToLower(name)
	for i, line := range lines {
		if len(line) <= len(name) || !strings.HasPrefix(strings.ToLower(line), lower) {
			continue
		}
		rest := line[len(name):]
		if c := rest[0]; c != ' ' && c != '\t' && c != '=' && c != ':' {
			continue
		}

		value := strings.TrimLeft(rest, " \t")
		if value != "" && (value[0] == '=' || value[0] == ':') {
			value = value[1:]
		}
		if value = strings.TrimSpace(value); value != "" {
			return value, true
		}

		// Header with nothing after the separator: the value may sit on the
		// following line, unless that line is itself another header.
		if i+1 < len(lines) && !headerPattern.MatchString(lines[i+1]) {
			return lines[i+1], true
		}
	}
	return "", false
}
