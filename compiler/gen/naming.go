package gen

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/cardgraph/schema"
)

var (
	rules      = ruleset()
	acronyms   = make(map[string]struct{})
	upperCaser = cases.Upper(language.Und)

	// typeName matches a segment that is already a type name, e.g. a
	// pushed root name like WidgetV1_0_0.
	typeName  = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
	camelCase = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "MB", "QPS", "RAM",
		"RPC", "SLA", "SMTP", "SQL", "SSH", "SSO", "TCP", "TLS", "TTL", "UDP",
		"UI", "UID", "URI", "URL", "UTF8", "UUID", "VM", "XML", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// words splits s on every rune that cannot appear in a GraphQL name.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
}

func pascalWords(words []string) string {
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// pascal converts a name segment to PascalCase. Segments that already are
// type names are kept verbatim.
//
//	user_info => UserInfo
//	full-admin => FullAdmin
//	user_id => UserID
func pascal(s string) string {
	if typeName.MatchString(s) {
		return s
	}
	return pascalWords(words(s))
}

// camel converts a name to camelCase.
//
//	user_info => userInfo
//	full-admin => fullAdmin
//	user_id => userID
func camel(s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return ""
	}
	first := ws[0]
	if _, ok := acronyms[strings.ToUpper(first)]; !ok {
		first = strings.ToLower(first[:1]) + first[1:]
	} else {
		first = strings.ToLower(first)
	}
	return first + pascalWords(ws[1:])
}

// singular singularizes the last segment of a type path. "data" is kept
// as is, so [Widget, data] names WidgetData rather than WidgetDatum.
func singular(s string) string {
	if strings.EqualFold(s, "data") {
		return s
	}
	return rules.Singularize(s)
}

// fieldName returns the camelCase field name for a property key.
func fieldName(key string) string {
	if camelCase.MatchString(key) {
		return key
	}
	name := camel(key)
	switch {
	case name == "":
		return "_"
	case unicode.IsDigit(rune(name[0])):
		return "_" + name
	}
	return name
}

// lowerFirst lower cases the first letter of a type name, for root fields.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// pathName joins the name stack into a type name. The last segment is
// singularized.
func pathName(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i == len(path)-1 {
			seg = singular(seg)
		}
		b.WriteString(pascal(seg))
	}
	name := b.String()
	if name != "" && unicode.IsDigit(rune(name[0])) {
		name = "_" + name
	}
	return name
}

// entityName derives the type name of an entity from its slug and version.
//
//	widget, 1.0.0 => WidgetV1_0_0
//	support-thread, 2.1.0-beta => SupportThreadV2_1_0_beta
func entityName(slug, version string) string {
	return pascal(slug) + "V" + versionSuffix(version)
}

func versionSuffix(version string) string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return strings.Join(words(version), "_")
	}
	parts := []string{
		strconv.FormatUint(v.Major(), 10),
		strconv.FormatUint(v.Minor(), 10),
		strconv.FormatUint(v.Patch(), 10),
	}
	if pre := v.Prerelease(); pre != "" {
		parts = append(parts, words(pre)...)
	}
	return strings.Join(parts, "_")
}

// symbols maps enum literal characters to the tokens replacing them.
var symbols = map[rune]string{
	'+': "PLUS",
	'*': "STAR",
	'/': "SLASH",
	'&': "AND",
	'@': "AT",
	'#': "HASH",
	'%': "PERCENT",
	'$': "DOLLAR",
	'!': "BANG",
	'?': "QUESTION",
	'=': "EQUALS",
	'<': "LT",
	'>': "GT",
	':': "COLON",
}

// enumName legalizes an enum literal into an enum value identifier.
//
//	Open => OPEN
//	In Progress => IN_PROGRESS
//	30m => OPTION_30M
//	-1 => NEGATIVE_1
//	C++ => C_PLUS_PLUS
func enumName(v *schema.Fragment) string {
	var lit string
	switch v.Kind() {
	case schema.Null:
		return "OPTION_NULL"
	case schema.Bool:
		if v.Bool() {
			return "OPTION_TRUE"
		}
		return "OPTION_FALSE"
	case schema.String, schema.Number:
		lit = v.Text()
	default:
		lit = v.String()
	}
	var prefix string
	if len(lit) > 1 && (lit[0] == '-' || lit[0] == '+') && unicode.IsDigit(rune(lit[1])) {
		prefix = "POSITIVE_"
		if lit[0] == '-' {
			prefix = "NEGATIVE_"
		}
		lit = lit[1:]
	}
	var (
		tokens []string
		cur    strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range upperCaser.String(lit) {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			cur.WriteRune(r)
		case symbols[r] != "":
			flush()
			tokens = append(tokens, symbols[r])
		default:
			flush()
		}
	}
	flush()
	name := strings.Join(tokens, "_")
	switch {
	case name == "" && prefix == "":
		return "EMPTY"
	case prefix != "":
		return prefix + name
	case unicode.IsDigit(rune(name[0])):
		return "OPTION_" + name
	}
	return name
}
