package domain

import (
	"strconv"
	"strings"
)

// Predicate 单字段相等条件
type Predicate struct {
	Field string
	Value string
}

// Query 等值条件的合取；空 Query 匹配全部
type Query struct {
	preds []Predicate
}

// Eq 追加一个相等条件，返回新的 Query
func (q Query) Eq(field, value string) Query {
	out := make([]Predicate, len(q.preds), len(q.preds)+1)
	copy(out, q.preds)
	return Query{preds: append(out, Predicate{Field: field, Value: value})}
}

func (q Query) Predicates() []Predicate {
	return append([]Predicate(nil), q.preds...)
}

func (q Query) IsEmpty() bool { return len(q.preds) == 0 }

// String 按插入顺序输出，例如 {"firstName":"A","country":"BR"}
func (q Query) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range q.preds {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(p.Field))
		b.WriteByte(':')
		b.WriteString(strconv.Quote(p.Value))
	}
	b.WriteByte('}')
	return b.String()
}
