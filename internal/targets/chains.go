package targets

import (
	"net/url"
	"regexp"
	"strings"
)

// chainNames is the maintainable blocklist of national chain names,
// matched against a normalized venue name.
var chainNames = []string{
	"mcdonald", "burger king", "wendy", "taco bell", "kfc", "pizza hut",
	"domino", "papa john", "little caesars", "subway", "chipotle",
	"panera", "starbucks", "dunkin", "five guys", "shake shack",
	"arbys", "dairy queen", "jimmy john", "jersey mike",
	"firehouse subs", "wingstop", "zaxby", "bojangles", "cook out",
	"qdoba", "moe's southwest grill", "panda express",
	"red robin", "buffalo wild wings", "hooters", "ihop", "denny",
	"waffle house", "checkers", "rally's", "raising cane", "culver",
	"whataburger", "hardee", "carl's jr", "schlotzsky", "potbelly",
	"pieology", "mod pizza", "blaze pizza", "tropical smoothie",
	"smoothie king", "cold stone", "auntie anne",
}

// chainDomains is matched as a suffix against a website's base domain.
var chainDomains = []string{
	"mcdonalds.com", "burgerking.com", "wendys.com", "tacobell.com", "kfc.com", "pizzahut.com",
	"dominos.com", "papajohns.com", "littlecaesars.com", "subway.com", "chipotle.com",
	"panerabread.com", "starbucks.com", "dunkindonuts.com", "fiveguys.com", "shakeshack.com",
	"arbys.com", "dairyqueen.com", "jimmyjohns.com", "jerseymikes.com", "firehousesubs.com",
	"wingstop.com", "zaxbys.com", "bojangles.com", "cookout.com", "qdoba.com", "moes.com",
	"pandaexpress.com", "redrobin.com", "buffalowildwings.com", "hooters.com", "ihop.com",
	"dennys.com", "wafflehouse.com", "checkers.com", "rallys.com", "raisingcanes.com",
	"culvers.com", "whataburger.com", "hardees.com", "carlsjr.com", "schlotzskys.com",
	"potbelly.com", "pieology.com", "modpizza.com", "blazepizza.com", "tropicalsmoothiecafe.com",
	"smoothieking.com", "coldstonecreamery.com", "auntieannes.com",
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)
var multiSpaceRe = regexp.MustCompile(`\s+`)

// normName lowercases, folds "&" to "and", and strips punctuation so
// blocklist entries match stylized venue names.
func normName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", "and")
	s = nonAlnumRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}

// IsChain reports whether a venue looks like a national chain, by name or
// by website base domain.
func IsChain(name, website string) bool {
	n := normName(name)
	for _, c := range chainNames {
		if strings.Contains(n, normName(c)) {
			return true
		}
	}
	h := baseDomain(hostOf(website))
	if h == "" {
		return false
	}
	for _, d := range chainDomains {
		if strings.HasSuffix(h, d) {
			return true
		}
	}
	return false
}

func hostOf(website string) string {
	u, err := url.Parse(strings.TrimSpace(website))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// baseDomain reduces a host to its last two labels.
func baseDomain(host string) string {
	parts := strings.Split(host, ".")
	var labels []string
	for _, p := range parts {
		if p != "" {
			labels = append(labels, p)
		}
	}
	if len(labels) <= 2 {
		return strings.Join(labels, ".")
	}
	return strings.Join(labels[len(labels)-2:], ".")
}
