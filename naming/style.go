package naming

import (
	"fmt"
	"strings"
)

// NameStyle selects the package separator used in class names.
type NameStyle int

const (
	// DotStyle names look like java.lang.String.
	DotStyle NameStyle = iota
	// SlashStyle names look like java/lang/String.
	SlashStyle
)

// String returns "dot" or "slash".
func (s NameStyle) String() string {
	switch s {
	case DotStyle:
		return "dot"
	case SlashStyle:
		return "slash"
	default:
		return fmt.Sprintf("NameStyle(%d)", int(s))
	}
}

// ParseNameStyle parses "dot" or "slash".
func ParseNameStyle(s string) (NameStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dot", "":
		return DotStyle, nil
	case "slash":
		return SlashStyle, nil
	default:
		return DotStyle, fmt.Errorf("naming: unknown name style %q", s)
	}
}

// Separator returns the package separator for the style.
func (s NameStyle) Separator() byte {
	if s == SlashStyle {
		return '/'
	}
	return '.'
}

// foreignSeparator is the separator a name in this style must never contain.
func (s NameStyle) foreignSeparator() string {
	if s == SlashStyle {
		return "."
	}
	return "/"
}

// toSlash converts a name in this style to slash style.
func (s NameStyle) toSlash(name string) string {
	if s == SlashStyle {
		return name
	}
	return strings.ReplaceAll(name, ".", "/")
}

// fromSlash converts a slash-style name to this style.
func (s NameStyle) fromSlash(name string) string {
	if s == SlashStyle {
		return name
	}
	return strings.ReplaceAll(name, "/", ".")
}

// ToSlashName converts a dot-style class name to slash style.
func ToSlashName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// ToDotName converts a slash-style class name to dot style.
func ToDotName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

// Normalize converts a name given in either style to this style.
func (s NameStyle) Normalize(name string) string {
	return s.fromSlash(ToSlashName(name))
}
