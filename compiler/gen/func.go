package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

// ruleset returns the inflection rules used by the Go naming convention.
func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HCL", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "LHS", "MAC",
		"MB", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// words splits an identifier into its lower-cased words. Words are
// separated by '_', '-' and spaces, and by case changes: "UserInfo",
// "HTTPCode" and "user_info" split into two words. A trailing lower-case
// letter after an acronym stays with it ("UserIDs" is "user", "ids").
func words(s string) []string {
	var (
		ws []string
		b  strings.Builder
		rs = []rune(s)
		j  int // start of the current word.
	)
	flush := func() {
		if b.Len() > 0 {
			ws = append(ws, b.String())
			b.Reset()
		}
	}
	for i, r := range rs {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if i > 0 && b.Len() > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				j != i-1 && i+1 < len(rs) && unicode.IsLower(rs[i+1]) && unicode.IsLetter(prev) {
				flush()
			}
		}
		if b.Len() == 0 {
			j = i
		}
		b.WriteRune(unicode.ToLower(r))
	}
	flush()
	return ws
}

// snake converts the given identifier into lower snake_case.
//
//	snake("UserInfo")   // user_info
//	snake("HTTPCode")   // http_code
//	snake("user-id")    // user_id
func snake(s string) string {
	return strings.Join(words(s), "_")
}

// pascal converts the given identifier into PascalCase, capitalizing only
// the first letter of every word.
//
//	pascal("reset_password_token") // ResetPasswordToken
//	pascal("id")                   // Id
//	pascal("UserID")               // UserId
func pascal(s string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// goPascal converts the given identifier into PascalCase, keeping Go
// initialisms upper-cased.
//
//	goPascal("user_id") // UserID
//	goPascal("api_url") // APIURL
func goPascal(s string) string {
	ws := words(s)
	for i, w := range ws {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			ws[i] = upper
		} else {
			ws[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(ws, "")
}

// ident returns the generated column identifier of a field under the
// given convention.
func ident(n Naming, name string) string {
	if n == NamingGo {
		return goPascal(name)
	}
	return pascal(name)
}

// exported returns the name as an exported Go identifier. Names that are
// already exported are returned as is.
func exported(name string) string {
	if r := []rune(name); len(r) > 0 && unicode.IsUpper(r[0]) {
		return name
	}
	return goPascal(name)
}
