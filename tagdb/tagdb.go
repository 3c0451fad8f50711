// Package tagdb implements the weighted tag trie used to pick sounds and
// speech by a set of (tag, value) criteria.
package tagdb

import (
	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

const (
	LEAF_SIZE = 8
	KEY_SIZE  = 12
	MAX_DEPTH = 64
)

type Leaf struct {
	Data   int32
	Weight float32
}

type branch struct {
	key   Key
	child int
}

type node struct {
	leaves   []Leaf
	branches []branch
}

// Database stores the trie as an arena; node 0 is the root. It is never
// modified after Read so it can be shared between goroutines.
type Database struct {
	nodes []node
}

func Read(r *stream.Reader) (*Database, error) {
	db := &Database{}
	if _, err := db.readNode(r, 0); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *Database) readNode(r *stream.Reader, depth int) (int, error) {
	if depth > MAX_DEPTH {
		return 0, errors.Errorf("tag database deeper than %d levels", MAX_DEPTH)
	}
	index := len(db.nodes)
	db.nodes = append(db.nodes, node{})

	leafCount, err := r.U32()
	if err != nil {
		return 0, errors.Wrapf(err, "node %d leaf count", index)
	}
	if err := checkCount(r, leafCount, LEAF_SIZE); err != nil {
		return 0, errors.Wrapf(err, "node %d leaves", index)
	}
	leaves := make([]Leaf, leafCount)
	for i := range leaves {
		if leaves[i].Data, err = r.I32(); err != nil {
			return 0, errors.Wrapf(err, "node %d leaf %d", index, i)
		}
		if leaves[i].Weight, err = r.F32(); err != nil {
			return 0, errors.Wrapf(err, "node %d leaf %d", index, i)
		}
	}

	branchCount, err := r.U32()
	if err != nil {
		return 0, errors.Wrapf(err, "node %d branch count", index)
	}
	if err := checkCount(r, branchCount, KEY_SIZE); err != nil {
		return 0, errors.Wrapf(err, "node %d branches", index)
	}
	branches := make([]branch, 0, branchCount)
	for i := uint32(0); i < branchCount; i++ {
		key, err := readKey(r)
		if err != nil {
			return 0, errors.Wrapf(err, "node %d branch %d key", index, i)
		}
		child, err := db.readNode(r, depth+1)
		if err != nil {
			return 0, err
		}
		branches = append(branches, branch{key: key, child: child})
	}

	db.nodes[index] = node{leaves: leaves, branches: branches}
	return index, nil
}

func readKey(r *stream.Reader) (Key, error) {
	t, err := r.U32()
	if err != nil {
		return Key{}, err
	}
	min, err := r.I32()
	if err != nil {
		return Key{}, err
	}
	max, err := r.I32()
	if err != nil {
		return Key{}, err
	}
	return NewKey(t, min, max), nil
}

// checkCount rejects counts that cannot fit into what is left of the stream.
func checkCount(r *stream.Reader, count uint32, minSize int64) error {
	left, err := r.Remaining()
	if err != nil {
		return err
	}
	if int64(count)*minSize > left {
		return errors.Errorf("count %d exceeds remaining %d bytes", count, left)
	}
	return nil
}

func (db *Database) NodeCount() int {
	return len(db.nodes)
}

// Tree is the pointer form of the trie, used to build fixtures and for dumps.
type Tree struct {
	Leaves   []Leaf       `json:",omitempty"`
	Branches []TreeBranch `json:",omitempty"`
}

type TreeBranch struct {
	Key  Key
	Tree *Tree
}

func (db *Database) Tree() *Tree {
	if len(db.nodes) == 0 {
		return &Tree{}
	}
	return db.tree(0)
}

func (db *Database) tree(n int) *Tree {
	t := &Tree{Leaves: append([]Leaf(nil), db.nodes[n].leaves...)}
	for _, b := range db.nodes[n].branches {
		t.Branches = append(t.Branches, TreeBranch{Key: b.key, Tree: db.tree(b.child)})
	}
	return t
}

func Encode(w *stream.Writer, t *Tree) {
	if t == nil {
		t = &Tree{}
	}
	w.U32(uint32(len(t.Leaves)))
	for _, l := range t.Leaves {
		w.I32(l.Data)
		w.F32(l.Weight)
	}
	w.U32(uint32(len(t.Branches)))
	for _, b := range t.Branches {
		w.U32(b.Key.Type)
		w.I32(b.Key.Min)
		w.I32(b.Key.Max)
		Encode(w, b.Tree)
	}
}
