package graph

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleCaser = cases.Title(language.Und)
)

// splitWords breaks an id like "packet_length", "packetLength", or
// "packet-length" into its constituent words ahead of casing, so that any
// input convention produces consistent PascalCase/camelCase output.
func splitWords(id string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(id)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

// toPascalCase renders id as an exported Go identifier: PacketLength.
func toPascalCase(id string) string {
	var b strings.Builder
	for _, w := range splitWords(id) {
		b.WriteString(titleCaser.String(strings.ToLower(w)))
	}
	return b.String()
}

// toCamelCase renders id as an unexported Go identifier: packetLength.
func toCamelCase(id string) string {
	words := splitWords(id)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(titleCaser.String(strings.ToLower(w)))
	}
	return b.String()
}

// goKeywords holds the identifiers reserved by the language; fields or
// locals whose id collides with one get an underscore suffix.
var goKeywords = map[string]bool{
	"break": true, "default": true, "func": true, "interface": true,
	"select": true, "case": true, "defer": true, "go": true, "map": true,
	"struct": true, "chan": true, "else": true, "goto": true, "package": true,
	"switch": true, "const": true, "fallthrough": true, "if": true,
	"range": true, "type": true, "continue": true, "for": true, "import": true,
	"return": true, "var": true,
}

func safeIdent(id string) string {
	if goKeywords[id] {
		return id + "_"
	}
	return id
}
