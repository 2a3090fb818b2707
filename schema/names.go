package schema

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Characters that the wiki does not accept in page names, mapped to visually
// equivalent ones. Escaped entities come first so that they are caught before
// their single characters.
var nameReplacer = strings.NewReplacer(
	"&lt;", "‹", "&gt;", "›", "&#39;", "´",
	".", "·", "?", "？", "[", "⟮", "]", "⟯",
	"|", "❘", ":", "：", "<", "‹", ">", "›",
	"{", "⟮", "}", "⟯", "%", "﹪", "+", "＋",
	"(", "⟮", ")", "⟯", "*", "＊", "/", "⁄",
	"'", "´", "–", "-",
)

// isStandardNamespace reports names that must be left untouched.
func isStandardNamespace(name string) bool {
	return strings.HasPrefix(name, "MediaWiki:") || strings.HasPrefix(name, "Widget:")
}

// NormalizeNames replaces the characters that are invalid in page names.
// The result of a non-empty name is never empty and the function is idempotent.
func NormalizeNames(name string) string {
	if len(name) == 0 || isStandardNamespace(name) {
		return name
	}
	return nameReplacer.Replace(name)
}

// NormalizeIDs turns a name into a valid HTML id: spaces become underscores
// and anything but letters, digits, '-', '_', ':' and '.' becomes '-'.
func NormalizeIDs(name string) string {
	if len(name) == 0 || isStandardNamespace(name) {
		return name
	}
	var b strings.Builder
	for _, c := range name {
		switch {
		case c == ' ':
			b.WriteRune('_')
		case unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_' || c == ':' || c == '.':
			b.WriteRune(c)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

// Capitalize upper-cases the first character of s.
func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Accented vowels are kept as they are: their named entities are not valid XML.
var keptAccents = map[rune]bool{'à': true, 'è': true, 'é': true, 'ì': true, 'ò': true, 'ù': true}

// ConvertEntities escapes text for inclusion in the XML dump.
// Markup characters become entities and the Latin-1 range becomes numeric
// references, except the common accented vowels.
func ConvertEntities(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, c := range text {
		switch {
		case c == '&':
			b.WriteString("&amp;")
		case c == '<':
			b.WriteString("&lt;")
		case c == '>':
			b.WriteString("&gt;")
		case c == '"':
			b.WriteString("&quot;")
		case c == '\'':
			b.WriteString("&#39;")
		case c >= 160 && c <= 255 && !keptAccents[c]:
			b.WriteString("&#")
			b.WriteString(strconv.Itoa(int(c)))
			b.WriteByte(';')
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
