package model

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// Category 实体类别，封闭枚举，未知标签统一归入 OTHER
type Category string

const (
	CategoryPerson Category = "PERSON"
	CategoryGPE    Category = "GPE"
	CategoryOrg    Category = "ORG"
	CategoryDate   Category = "DATE"
	CategoryFac    Category = "FAC"
	CategoryNORP   Category = "NORP"
	CategoryLoc    Category = "LOC"
	CategoryOther  Category = "OTHER"
)

// Categories 全部已知类别
var Categories = []Category{
	CategoryPerson, CategoryGPE, CategoryOrg, CategoryDate,
	CategoryFac, CategoryNORP, CategoryLoc, CategoryOther,
}

// ParseCategory 把任意标签映射到已知类别
func ParseCategory(label string) Category {
	c := Category(strings.ToUpper(strings.TrimSpace(label)))
	if slices.Contains(Categories, c) {
		return c
	}
	return CategoryOther
}

// EntityMap 类别 -> 按出现顺序排列的匹配片段
// 类别顺序与片段顺序均保留，第一个匹配权重最高
type EntityMap struct {
	order []Category
	spans map[Category][]string
}

// NewEntityMap 创建空的实体表
func NewEntityMap() *EntityMap {
	return &EntityMap{spans: make(map[Category][]string)}
}

// Add 追加一个片段，空片段忽略
func (m *EntityMap) Add(c Category, span string) {
	if span == "" {
		return
	}
	if m.spans == nil {
		m.spans = make(map[Category][]string)
	}
	if _, ok := m.spans[c]; !ok {
		m.order = append(m.order, c)
	}
	m.spans[c] = append(m.spans[c], span)
}

// Categories 按首次出现顺序返回类别
func (m *EntityMap) Categories() []Category {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// Spans 返回类别下片段的副本
func (m *EntityMap) Spans(c Category) []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.spans[c])
}

// Has 类别是否存在
func (m *EntityMap) Has(c Category) bool {
	if m == nil {
		return false
	}
	_, ok := m.spans[c]
	return ok
}

// Len 类别数量
func (m *EntityMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Count 片段总数
func (m *EntityMap) Count() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, v := range m.spans {
		n += len(v)
	}
	return n
}

// MarshalJSON 输出为按类别顺序排列的 JSON 对象
func (m *EntityMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, c := range m.order {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(string(c))
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(m.spans[c])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Sentiment 情感分类结果
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
)
