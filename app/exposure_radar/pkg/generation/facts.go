package generation

import (
	"regexp"
	"strings"
)

// 兜底模板使用的默认值
const (
	defaultName     = "the target"
	defaultEmail    = "[target@company.com]"
	defaultOrg      = "their organization"
	defaultLocation = "their current location"
	defaultGreeting = "there"
)

var (
	nameRe  = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
	emailRe = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[a-z]{2,}`)
	// 连同后缀前的大写词一起提取，得到 "Acme Corp" 而不是 "Corp"
	orgRe   = regexp.MustCompile(`\b(?:[A-Z][\w&'-]*\s+){0,3}(?:Corp|Inc|Ltd|LLC|Group|Company|Technologies|Solutions|Bank|Capital|Partners)\b`)
	cityRe  = regexp.MustCompile(`\b(?:New York|London|Berlin|Singapore|Mumbai|Dubai|Tokyo|Paris|Sydney|Boston|Chicago)\b`)
)

// Facts 从原文中抽取的关键信息
type Facts struct {
	Name     string
	Email    string
	Org      string
	Location string

	Names     []string
	Orgs      []string
	Locations []string
}

// ExtractFacts 抽取姓名、邮箱、机构与城市，缺失的字段使用默认值
func ExtractFacts(text string) Facts {
	f := Facts{
		Names:     nameRe.FindAllString(text, -1),
		Orgs:      orgRe.FindAllString(text, -1),
		Locations: cityRe.FindAllString(text, -1),
	}
	f.Name = firstOr(f.Names, defaultName)
	f.Email = firstOr(emailRe.FindAllString(text, 1), defaultEmail)
	f.Org = firstOr(f.Orgs, defaultOrg)
	f.Location = firstOr(f.Locations, defaultLocation)
	return f
}

// FirstName 称呼用的名字，没有识别到姓名时返回 "there"
func (f Facts) FirstName() string {
	if len(f.Names) == 0 {
		return defaultGreeting
	}
	return strings.Fields(f.Names[0])[0]
}

func firstOr(values []string, def string) string {
	if len(values) == 0 {
		return def
	}
	return values[0]
}

func slug(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}
