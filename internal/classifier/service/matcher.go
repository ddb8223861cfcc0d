package service

import (
	"regexp"
	"strings"

	"github.com/prateekro/trayme-guard/internal/classifier/domain"
)

// Matcher finds spans of text. *regexp.Regexp satisfies it.
type Matcher interface {
	MatchString(s string) bool
	FindAllStringIndex(s string, n int) [][]int
}

// Rule attributes the spans found by Matcher to a category.
type Rule struct {
	Category domain.Category
	Matcher  Matcher
}

// luhnMatcher keeps only the spans whose digits pass the Luhn checksum.
type luhnMatcher struct {
	re *regexp.Regexp
}

func (m luhnMatcher) MatchString(s string) bool {
	return len(m.FindAllStringIndex(s, 1)) > 0
}

func (m luhnMatcher) FindAllStringIndex(s string, n int) [][]int {
	var out [][]int
	for _, loc := range m.re.FindAllStringIndex(s, -1) {
		if !luhnValid(s[loc[0]:loc[1]]) {
			continue
		}
		out = append(out, loc)
		if n >= 0 && len(out) >= n {
			break
		}
	}
	return out
}

func luhnValid(candidate string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, candidate)
	if len(digits) < 13 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

const ipv4Octet = `(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])`

// DefaultRules returns the built-in rule table in evaluation order.
// It panics if a pattern fails to compile.
func DefaultRules() []Rule {
	return []Rule{
		{domain.APIKey, regexp.MustCompile(
			`(?i:\b(?:api[_-]?key|api[_-]?secret|apikey)["']?\s*[:=]\s*["']?[A-Za-z0-9_\-]{16,})|\bsk-[A-Za-z0-9_\-]{20,}`,
		)},
		{domain.Password, regexp.MustCompile(
			`(?i)\b(?:password|passwd|pwd|pass)["']?\s*[:=]\s*["']?[^\s"']{4,}`,
		)},
		{domain.CreditCard, luhnMatcher{re: regexp.MustCompile(
			`\b(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13}|6(?:011|5[0-9]{2})[0-9]{12}|[0-9]{4}[- ][0-9]{4}[- ][0-9]{4}[- ][0-9]{4})\b`,
		)}},
		{domain.NationalID, regexp.MustCompile(
			`\b[0-9]{3}-[0-9]{2}-[0-9]{4}\b`,
		)},
		{domain.PrivateKey, regexp.MustCompile(
			`(?s)-----BEGIN [A-Z ]*PRIVATE KEY-----(?:.*?-----END [A-Z ]*PRIVATE KEY-----)?`,
		)},
		{domain.CloudProviderKey, regexp.MustCompile(
			`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b|\bAIza[0-9A-Za-z_\-]{35}\b`,
		)},
		{domain.SignedToken, regexp.MustCompile(
			`\beyJ[A-Za-z0-9_\-]{5,}\.eyJ[A-Za-z0-9_\-]{5,}\.[A-Za-z0-9_\-]{10,}`,
		)},
		{domain.SourceHostingToken, regexp.MustCompile(
			`\b(?:gh[pousr]_[A-Za-z0-9]{36,255}|github_pat_[A-Za-z0-9_]{22,255}|glpat-[A-Za-z0-9_\-]{20,})\b`,
		)},
		{domain.ChatToken, regexp.MustCompile(
			`\bxox[baprs]-[A-Za-z0-9\-]{10,}|https://hooks\.slack\.com/services/[A-Za-z0-9/]+`,
		)},
		{domain.EmailCredential, regexp.MustCompile(
			`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}:[^\s@:/]*[^\s@:/0-9][^\s@:/]*`,
		)},
		{domain.DatabaseCredential, regexp.MustCompile(
			`(?i)\b(?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|rediss|amqps?|mssql|sqlserver)://[^\s:/@]+:[^\s@/]+@[^\s/]+`,
		)},
		{domain.IPAddress, regexp.MustCompile(
			`\b(?:` + ipv4Octet + `\.){3}` + ipv4Octet + `\b`,
		)},
		{domain.BearerToken, regexp.MustCompile(
			`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]{20,}=*`,
		)},
	}
}
