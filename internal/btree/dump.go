package btree

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a depth-first rendering of the tree to w, indented by depth.
// Each leaf is one line listing its keys; each internal node is a header
// line followed, per separator, by a "key -> child" line and a recursive
// dump of that child.
func (t *Table) Dump(w io.Writer) error {
	root, err := t.RootPageNumber()
	if err != nil {
		return err
	}
	return t.dumpNode(w, root, 0)
}

func (t *Table) dumpNode(w io.Writer, pageNo uint32, depth int) error {
	pg, err := t.pager.Get(pageNo)
	if err != nil {
		return err
	}
	typ, err := loadNodeType(pg)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)

	if typ == typeLeaf {
		leaf := newLeafNode(pg, pageNo)
		keys := make([]string, leaf.NumCells())
		for i := range keys {
			keys[i] = fmt.Sprintf("%d", leaf.Key(i))
		}
		_, err := fmt.Fprintf(w, "%sleaf (page %d, %d cells): [%s]\n", indent, pageNo, leaf.NumCells(), strings.Join(keys, " "))
		return err
	}

	internal := newInternalNode(pg, pageNo)
	if _, err := fmt.Fprintf(w, "%sinternal (page %d, %d keys)\n", indent, pageNo, internal.NumKeys()); err != nil {
		return err
	}
	for i := 0; i < internal.NumKeys(); i++ {
		if _, err := fmt.Fprintf(w, "%s- key %d -> child %d\n", indent, internal.KeyAt(i), internal.ChildAt(i)); err != nil {
			return err
		}
		if err := t.dumpNode(w, internal.ChildAt(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}
