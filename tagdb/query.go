package tagdb

import "sort"

// QueryMatchAll returns the data of every leaf matched by terms. Terms are
// walked in tag type order, the order the trie was built in.
func (db *Database) QueryMatchAll(terms []Term) []int32 {
	leaves := db.QueryMatchAllLeaves(terms)
	res := make([]int32, len(leaves))
	for i, l := range leaves {
		res[i] = l.Data
	}
	return res
}

func (db *Database) QueryMatchAllLeaves(terms []Term) []Leaf {
	out := make([]Leaf, 0)
	if len(db.nodes) == 0 {
		return out
	}
	sorted := append([]Term(nil), terms...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Type < sorted[j].Type })
	db.match(0, sorted, 0, false, &out)
	return out
}

// counted reports whether the leaves of n are already in out.
func (db *Database) match(n int, terms []Term, i int, counted bool, out *[]Leaf) {
	if i >= len(terms) {
		if !counted {
			*out = append(*out, db.nodes[n].leaves...)
		}
		db.collectBelow(n, out)
		return
	}

	matched := false
	for _, b := range db.nodes[n].branches {
		if !b.key.Matches(terms[i]) {
			continue
		}
		matched = true
		*out = append(*out, db.nodes[b.child].leaves...)
		db.match(b.child, terms, i+1, true, out)
	}

	if !matched && terms[i].Optional {
		db.match(n, terms, i+1, counted, out)
	}
}

func (db *Database) collectBelow(n int, out *[]Leaf) {
	for _, b := range db.nodes[n].branches {
		*out = append(*out, db.nodes[b.child].leaves...)
		db.collectBelow(b.child, out)
	}
}

// QueryOne returns every leaf under any branch keyed by tagType, anywhere in
// the trie, sorted ascending.
func (db *Database) QueryOne(tagType uint32) []int32 {
	leaves := make([]Leaf, 0)
	if len(db.nodes) > 0 {
		db.scan(0, tagType, &leaves)
	}
	res := make([]int32, len(leaves))
	for i, l := range leaves {
		res[i] = l.Data
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func (db *Database) scan(n int, tagType uint32, out *[]Leaf) {
	for _, b := range db.nodes[n].branches {
		if b.key.Type == tagType {
			*out = append(*out, db.nodes[b.child].leaves...)
			db.collectBelow(b.child, out)
		} else {
			db.scan(b.child, tagType, out)
		}
	}
}

// Walk visits every branch depth first with the key path leading to it.
func (db *Database) Walk(fn func(path []Key, leaves []Leaf)) {
	if len(db.nodes) == 0 {
		return
	}
	fn(nil, db.nodes[0].leaves)
	db.walk(0, nil, fn)
}

func (db *Database) walk(n int, path []Key, fn func(path []Key, leaves []Leaf)) {
	for _, b := range db.nodes[n].branches {
		p := append(append([]Key(nil), path...), b.key)
		fn(p, db.nodes[b.child].leaves)
		db.walk(b.child, p, fn)
	}
}
