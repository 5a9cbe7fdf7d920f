// Package pattern 基于正则与地名表的内置实体识别器，无需外部模型
package pattern

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/nlp"
)

var (
	gpeNames = []string{
		"New York", "Los Angeles", "San Francisco", "Hong Kong", "New Delhi", "Washington",
		"London", "Berlin", "Singapore", "Mumbai", "Dubai", "Tokyo", "Paris", "Sydney",
		"Boston", "Chicago", "Seattle", "Toronto", "Madrid", "Rome", "Amsterdam", "Zurich",
		"Beijing", "Shanghai", "Bangalore", "Moscow", "Istanbul", "Seoul", "Austin", "Miami",
		"United States", "United Kingdom", "USA", "UK", "Canada", "Germany", "France",
		"India", "China", "Japan", "Australia", "Spain", "Italy", "Brazil", "Mexico",
		"Russia", "Switzerland", "Netherlands", "Ireland", "Israel", "California", "Texas",
		"Florida",
	}
	locNames = []string{
		"Europe", "Asia", "Africa", "North America", "South America", "Middle East",
		"Silicon Valley", "the Alps", "Pacific", "Atlantic",
	}
	norpNames = []string{
		"American", "British", "Canadian", "German", "French", "Indian", "Chinese", "Japanese",
		"Australian", "Spanish", "Italian", "Russian", "Israeli", "Irish", "Mexican", "Brazilian",
		"Christian", "Muslim", "Jewish", "Hindu", "Buddhist", "Democrat", "Republican",
	}
	orgNames = []string{
		"Google", "Microsoft", "Amazon", "Apple", "Meta", "Facebook", "LinkedIn", "Netflix",
		"Tesla", "IBM", "Oracle", "Salesforce", "Goldman Sachs", "JPMorgan", "Deloitte",
		"Accenture", "NASA", "FBI", "United Nations", "Harvard", "Stanford", "MIT",
	}
	orgSuffixes = []string{
		"Corp", "Corporation", "Inc", "Ltd", "LLC", "Group", "Company", "Technologies",
		"Solutions", "Bank", "Capital", "Partners", "University", "Agency", "Labs", "Holdings",
	}
	facSuffixes = []string{
		"Airport", "Station", "Bridge", "Tower", "Hotel", "Stadium", "Hospital", "Museum",
	}
	months = []string{
		"January", "February", "March", "April", "May", "June", "July", "August",
		"September", "October", "November", "December",
	}
	weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	// 人名首词不应是这些常见句首词或称呼
	nonNameWords = map[string]bool{
		"The": true, "This": true, "That": true, "These": true, "Those": true, "In": true,
		"On": true, "At": true, "For": true, "From": true, "With": true, "Dear": true,
		"Hi": true, "Hello": true, "Our": true, "My": true, "His": true, "Her": true,
		"Their": true, "We": true, "It": true, "If": true, "When": true, "After": true,
		"Before": true, "Last": true, "Next": true, "Every": true, "Today": true,
	}
)

type rule struct {
	category model.Category
	re       *regexp.Regexp
}

// rules 按优先级排列，先命中的片段占位，后续规则中重叠的片段丢弃
var rules = []rule{
	{model.CategoryFac, regexp.MustCompile(`\b(?:[A-Z][a-z]+\s+){1,3}` + alternation(facSuffixes) + `\b`)},
	{model.CategoryOrg, regexp.MustCompile(`\b(?:[A-Z][A-Za-z0-9&'-]*\s+){1,3}` + alternation(orgSuffixes) + `\b`)},
	{model.CategoryOrg, regexp.MustCompile(`\b` + alternation(orgNames) + `\b`)},
	{model.CategoryGPE, regexp.MustCompile(`\b` + alternation(gpeNames) + `\b`)},
	{model.CategoryLoc, regexp.MustCompile(`\b` + alternation(locNames) + `\b`)},
	{model.CategoryNORP, regexp.MustCompile(`\b` + alternation(norpNames) + `s?\b`)},
	{model.CategoryDate, regexp.MustCompile(`\b` + alternation(months) + `(?:\s+\d{1,2}(?:st|nd|rd|th)?)?(?:,?\s+\d{4})?\b`)},
	{model.CategoryDate, regexp.MustCompile(`\b` + alternation(weekdays) + `\b`)},
	{model.CategoryDate, regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b|\b(?:19|20)\d{2}\b`)},
	{model.CategoryPerson, regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z]\.)?\s+[A-Z][a-z]+(?:-[A-Z][a-z]+)?\b`)},
}

// alternation 生成 (?:a|b|c)，长词优先避免前缀截断
func alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}

type span struct {
	start, end int
	category   model.Category
	text       string
}

// Categorizer 内置规则实体识别器
type Categorizer struct{}

// New 创建规则实体识别器
func New() *Categorizer {
	return &Categorizer{}
}

// Ensure Categorizer implements nlp.Categorizer
var _ nlp.Categorizer = (*Categorizer)(nil)

// Categorize implements nlp.Categorizer
func (c *Categorizer) Categorize(_ context.Context, text string) (*model.EntityMap, error) {
	var claimed []span
	for _, r := range rules {
		for _, loc := range r.re.FindAllStringIndex(text, -1) {
			s := span{start: loc[0], end: loc[1], category: r.category, text: text[loc[0]:loc[1]]}
			if r.category == model.CategoryPerson && !plausibleName(s.text) {
				continue
			}
			if overlaps(claimed, s) {
				continue
			}
			claimed = append(claimed, s)
		}
	}

	// 与 NER 模型一致，按文本位置输出
	sort.Slice(claimed, func(i, j int) bool { return claimed[i].start < claimed[j].start })

	entities := model.NewEntityMap()
	for _, s := range claimed {
		entities.Add(s.category, s.text)
	}
	return entities, nil
}

func overlaps(claimed []span, s span) bool {
	for _, c := range claimed {
		if s.start < c.end && c.start < s.end {
			return true
		}
	}
	return false
}

func plausibleName(text string) bool {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return false
	}
	if nonNameWords[fields[0]] {
		return false
	}
	for _, f := range fields {
		for _, m := range months {
			if f == m {
				return false
			}
		}
		for _, d := range weekdays {
			if f == d {
				return false
			}
		}
	}
	return true
}
