// Package filter decides whether a candidate image URL plausibly shows the
// product it was found for.
package filter

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// BlockedSubstrings mark thumbnails, icons, logos, banners, ads and social media
// references. Matching is case-insensitive and by plain substring.
var BlockedSubstrings = []string{
	"thumb", "icon", "small", "mini", "avatar",
	"logo", "banner", "ad", "promo",
	"facebook", "twitter", "instagram", "profile",
}

// TrustedDomains are retail and reference sites whose images are accepted
// without checking for brand or name tokens.
var TrustedDomains = []string{
	"fragrantica.com",
	"parfumo.net",
	"sephora.com",
	"nordstrom.com",
	"bloomingdales.com",
	"saksfifthavenue.com",
	"neimanmarcus.com",
	"harrods.com",
	"selfridges.com",
}

// IsRelevant reports whether rawURL is worth downloading as the image for brand/name.
// It has no side effects and never panics; anything unparseable is rejected.
func IsRelevant(rawURL, brand, name string) bool {
	if !strings.HasPrefix(rawURL, "http") {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}

	lower := strings.ToLower(rawURL)
	for _, blocked := range BlockedSubstrings {
		if strings.Contains(lower, blocked) {
			return false
		}
	}

	if isTrustedHost(parsed.Hostname()) {
		return true
	}

	if !strings.Contains(lower, strings.ToLower(brand)) {
		return false
	}
	for _, token := range NameTokens(name) {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// NameTokens returns the name lower-cased with spaces and hyphens removed, as a
// single token, when that leaves more than two characters.
func NameTokens(name string) []string {
	token := strings.ToLower(name)
	token = strings.Join(strings.Fields(token), "")
	token = strings.ReplaceAll(token, "-", "")
	if utf8.RuneCountInString(token) <= 2 {
		return nil
	}
	return []string{token}
}

func isTrustedHost(host string) bool {
	host = strings.ToLower(host)
	for _, domain := range TrustedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
