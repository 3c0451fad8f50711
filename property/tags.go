package property

import "strings"

type TagPair struct {
	Tag   string
	Value string
}

// ParseTags splits "Tag Value, Tag Value" lists as stored in the class and
// material tag properties.
func ParseTags(s string) []TagPair {
	res := make([]TagPair, 0)
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		p := TagPair{Tag: fields[0]}
		if len(fields) > 1 {
			p.Value = strings.Join(fields[1:], " ")
		}
		res = append(res, p)
	}
	return res
}

func (t ClassTags) Pairs() []TagPair    { return ParseTags(string(t)) }
func (t MaterialTags) Pairs() []TagPair { return ParseTags(string(t)) }
