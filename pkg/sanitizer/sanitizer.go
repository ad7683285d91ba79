package sanitizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepLettersDigits = regexp.MustCompile(`[^0-9\p{L}]+`)
	reSeatNumber        = regexp.MustCompile(`[^0-9\p{L}\-]+`)
	reTrimUnderscores   = regexp.MustCompile(`_+`)

	supportedRegions = []string{
		"IL",
		"US",
	}
)

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseUnderscores(s string) string {
	s = reTrimUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// TrimAndNormalize trims s and collapses every run of whitespace into a
// single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func SanitizeSeatNumber(input string) string {
	p := Pipeline{
		strings.TrimSpace,
		func(s string) string { return reSeatNumber.ReplaceAllString(s, "") },
		strings.ToUpper,
	}
	return p.Apply(input)
}

func SanitizeName(input string) string {
	return TrimAndNormalize(input)
}

func SanitizeText(input string) string {
	return TrimAndNormalize(input)
}

func SanitizeLabel(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reKeepLettersDigits.ReplaceAllString(s, "_") },
		collapseUnderscores,
	}
	return p.Apply(input)
}

// SanitizePhone formats phone as E.164 when it parses as a valid number in
// one of the supported regions. Anything else is returned trimmed so the
// validator can reject it.
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return phone
}

// SanitizeIDs trims, drops empty values and removes duplicates.
func SanitizeIDs(values []string) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strings.TrimSpace(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
