// Package btree implements the paged on-disk B+tree: the node codec, the
// table façade that resolves the root and drives descent, and the cursor
// that performs inserts, updates, and deletes.
package btree

import (
	"btreedb/internal/pager"
)

// metaPageNumber is always 0; it stores the current root page number.
const metaPageNumber = 0
const metaRootOffset = 0

// defaultRootPageNumber is where the very first leaf lives in a brand-new
// file.
const defaultRootPageNumber = 1

// Table holds the pager and resolves the current root via the metadata
// page. It is the single entry point for descent-based key search; all
// mutation happens through the Cursor it hands back.
type Table struct {
	pager *pager.Pager
}

// Open opens filename, creating it if necessary. A brand-new file is
// initialized with an empty leaf as its root.
func Open(filename string) (*Table, error) {
	pg, err := pager.Open(filename)
	if err != nil {
		return nil, err
	}
	t := &Table{pager: pg}
	if pg.NumPages() == 0 {
		if err := t.initializeEmpty(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) initializeEmpty() error {
	metaPage, err := t.pager.Get(metaPageNumber)
	if err != nil {
		return err
	}
	putLe32(metaPage.Data[metaRootOffset:metaRootOffset+pointerSize], defaultRootPageNumber)
	metaPage.Dirty = true

	rootPage, err := t.pager.Get(defaultRootPageNumber)
	if err != nil {
		return err
	}
	root := newLeafNode(rootPage, defaultRootPageNumber)
	root.InitLeaf()
	root.SetRoot(true)
	return nil
}

// RootPageNumber reads the current root page number from the metadata page.
func (t *Table) RootPageNumber() (uint32, error) {
	metaPage, err := t.pager.Get(metaPageNumber)
	if err != nil {
		return 0, err
	}
	return le32(metaPage.Data[metaRootOffset : metaRootOffset+pointerSize]), nil
}

// setRootPageNumber writes a new root page number into the metadata page.
func (t *Table) setRootPageNumber(n uint32) error {
	metaPage, err := t.pager.Get(metaPageNumber)
	if err != nil {
		return err
	}
	putLe32(metaPage.Data[metaRootOffset:metaRootOffset+pointerSize], n)
	metaPage.Dirty = true
	return nil
}

func (t *Table) loadLeaf(pageNo uint32) (*LeafNode, error) {
	pg, err := t.pager.Get(pageNo)
	if err != nil {
		return nil, err
	}
	return newLeafNode(pg, pageNo), nil
}

func (t *Table) loadInternal(pageNo uint32) (*InternalNode, error) {
	pg, err := t.pager.Get(pageNo)
	if err != nil {
		return nil, err
	}
	return newInternalNode(pg, pageNo), nil
}

func (t *Table) allocateLeaf() (*LeafNode, error) {
	pageNo, err := t.pager.Allocate()
	if err != nil {
		return nil, err
	}
	pg, err := t.pager.Get(pageNo)
	if err != nil {
		return nil, err
	}
	n := newLeafNode(pg, pageNo)
	n.InitLeaf()
	return n, nil
}

func (t *Table) allocateInternal() (*InternalNode, error) {
	pageNo, err := t.pager.Allocate()
	if err != nil {
		return nil, err
	}
	pg, err := t.pager.Get(pageNo)
	if err != nil {
		return nil, err
	}
	n := newInternalNode(pg, pageNo)
	n.InitInternal()
	return n, nil
}

// setNodeParent updates only the parent pointer of whichever node type
// lives at pageNo, without needing to know which type it is.
func (t *Table) setNodeParent(pageNo, parent uint32) error {
	pg, err := t.pager.Get(pageNo)
	if err != nil {
		return err
	}
	putLe32(pg.Data[parentOffset:parentOffset+pointerSize], parent)
	pg.Dirty = true
	return nil
}

// Find descends from the root to the unique leaf that would contain key,
// and returns a Cursor positioned at the smallest cell index i such that
// key(i) >= key.
func (t *Table) Find(key uint64) (*Cursor, error) {
	pageNo, err := t.RootPageNumber()
	if err != nil {
		return nil, err
	}
	for {
		pg, err := t.pager.Get(pageNo)
		if err != nil {
			return nil, err
		}
		typ, err := loadNodeType(pg)
		if err != nil {
			return nil, err
		}
		if typ == typeLeaf {
			leaf := newLeafNode(pg, pageNo)
			idx := leaf.Search(key)
			return &Cursor{table: t, page: pageNo, cell: idx, endOfTable: idx >= leaf.NumCells()}, nil
		}
		internal := newInternalNode(pg, pageNo)
		pageNo = internal.ChildAt(internal.FindKey(key))
	}
}

// Start returns a Cursor positioned at the first row in key order, if any.
func (t *Table) Start() (*Cursor, error) {
	return t.Find(0)
}

// Close flushes every dirty cached page and releases the file handle.
func (t *Table) Close() error {
	return t.pager.Close()
}
