package property

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TagKey is the struct tag read by discovery.
const TagKey = "meta"

type tagInfo struct {
	name      string
	id        bool
	transient bool
}

func parseTag(f reflect.StructField) tagInfo {
	tag, ok := f.Tag.Lookup(TagKey)
	if !ok {
		return tagInfo{}
	}
	if tag == "-" {
		return tagInfo{transient: true}
	}
	parts := strings.Split(tag, ",")
	info := tagInfo{name: parts[0]}
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "id" {
			info.id = true
		}
	}
	return info
}

// lowerFirst turns a Go identifier into a property name: "FullName" -> "fullName",
// "ID" -> "id", "URLPath" -> "urlPath".
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n == 0 {
		return s
	}
	if n > 1 && n < len(runes) {
		n-- // keep the last upper rune as the start of the next word
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func isUpperStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
