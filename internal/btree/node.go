package btree

import (
	"encoding/binary"
	"sort"

	"btreedb/internal/pager"
	"btreedb/internal/row"

	"github.com/pkg/errors"
)

// ErrCorruptNode is returned when a page's node_type byte is not one of the
// two known tags, or when a parent does not list a child that points to it.
var ErrCorruptNode = errors.New("btree: corrupt node")

func le32(b []byte) uint32                 { return binary.LittleEndian.Uint32(b) }
func putLe32(b []byte, v uint32)            { binary.LittleEndian.PutUint32(b, v) }
func le64(b []byte) uint64                  { return binary.LittleEndian.Uint64(b) }
func putLe64(b []byte, v uint64)            { binary.LittleEndian.PutUint64(b, v) }

// splitNode is the common surface promote() needs from either a LeafNode or
// an InternalNode mid-split.
type splitNode interface {
	Page() uint32
	Parent() uint32
	SetParent(uint32)
	IsRoot() bool
	SetRoot(bool)
	FirstKey() uint64
}

// LeafNode is a read/write view over a page holding sorted (key, value)
// cells. It never owns the buffer; it borrows it for one operation.
type LeafNode struct {
	page   *pager.Page
	pageNo uint32
}

func newLeafNode(pg *pager.Page, pageNo uint32) *LeafNode {
	return &LeafNode{page: pg, pageNo: pageNo}
}

// InitLeaf writes a fresh leaf header: not root, zero cells, no next leaf.
func (n *LeafNode) InitLeaf() {
	n.page.Data[nodeTypeOffset] = byte(typeLeaf)
	n.SetRoot(false)
	n.SetParent(0)
	n.SetNumCells(0)
	n.SetNextLeaf(0)
	n.page.Dirty = true
}

func (n *LeafNode) Page() uint32 { return n.pageNo }

func (n *LeafNode) IsRoot() bool { return n.page.Data[isRootOffset] == 1 }
func (n *LeafNode) SetRoot(v bool) {
	if v {
		n.page.Data[isRootOffset] = 1
	} else {
		n.page.Data[isRootOffset] = 0
	}
	n.page.Dirty = true
}

func (n *LeafNode) Parent() uint32 {
	return le32(n.page.Data[parentOffset : parentOffset+pointerSize])
}
func (n *LeafNode) SetParent(p uint32) {
	putLe32(n.page.Data[parentOffset:parentOffset+pointerSize], p)
	n.page.Dirty = true
}

func (n *LeafNode) NumCells() int {
	return int(le32(n.page.Data[leafNumCellsOffset : leafNumCellsOffset+pointerSize]))
}
func (n *LeafNode) SetNumCells(c int) {
	putLe32(n.page.Data[leafNumCellsOffset:leafNumCellsOffset+pointerSize], uint32(c))
	n.page.Dirty = true
}

func (n *LeafNode) NextLeaf() uint32 {
	return le32(n.page.Data[leafNextLeafOffset : leafNextLeafOffset+pointerSize])
}
func (n *LeafNode) SetNextLeaf(p uint32) {
	putLe32(n.page.Data[leafNextLeafOffset:leafNextLeafOffset+pointerSize], p)
	n.page.Dirty = true
}

func (n *LeafNode) cellOffset(i int) int { return leafHeaderSize + i*leafCellSize }

// Cell returns the raw key+value bytes for cell i.
func (n *LeafNode) Cell(i int) []byte {
	off := n.cellOffset(i)
	return n.page.Data[off : off+leafCellSize]
}

func (n *LeafNode) Key(i int) uint64 {
	off := n.cellOffset(i)
	return le64(n.page.Data[off : off+leafKeySize])
}
func (n *LeafNode) SetKey(i int, k uint64) {
	off := n.cellOffset(i)
	putLe64(n.page.Data[off:off+leafKeySize], k)
	n.page.Dirty = true
}

// Value returns a mutable slice over cell i's row bytes.
func (n *LeafNode) Value(i int) []byte {
	off := n.cellOffset(i) + leafKeySize
	n.page.Dirty = true
	return n.page.Data[off : off+row.Size]
}

// FirstKey is the smallest key in the leaf; callers must ensure NumCells>0.
func (n *LeafNode) FirstKey() uint64 { return n.Key(0) }

// SetCell overwrites cell i's raw bytes wholesale.
func (n *LeafNode) SetCell(i int, raw []byte) {
	off := n.cellOffset(i)
	copy(n.page.Data[off:off+leafCellSize], raw)
	n.page.Dirty = true
}

// ShiftRight moves cells [from, NumCells) one slot to the right, making room
// to write a new cell at `from`.
func (n *LeafNode) ShiftRight(from int) {
	for i := n.NumCells(); i > from; i-- {
		copy(n.Cell(i), n.Cell(i-1))
	}
	n.page.Dirty = true
}

// ShiftLeft moves cells (from, NumCells) one slot to the left, overwriting
// the cell at `from`.
func (n *LeafNode) ShiftLeft(from int) {
	for i := from; i < n.NumCells()-1; i++ {
		copy(n.Cell(i), n.Cell(i+1))
	}
	n.page.Dirty = true
}

// Search returns the smallest index i with Key(i) >= key.
func (n *LeafNode) Search(key uint64) int {
	return sort.Search(n.NumCells(), func(i int) bool { return n.Key(i) >= key })
}

// InternalNode is a read/write view over a page routing descent among
// children: num_keys followed by (child, separator) pairs, where the
// separator at index i equals the first key of the subtree rooted at child
// i (leftmost-inclusive convention).
type InternalNode struct {
	page   *pager.Page
	pageNo uint32
}

func newInternalNode(pg *pager.Page, pageNo uint32) *InternalNode {
	return &InternalNode{page: pg, pageNo: pageNo}
}

// InitInternal writes a fresh internal header: not root, zero keys.
func (n *InternalNode) InitInternal() {
	n.page.Data[nodeTypeOffset] = byte(typeInternal)
	n.SetRoot(false)
	n.SetParent(0)
	n.SetNumKeys(0)
	n.page.Dirty = true
}

func (n *InternalNode) Page() uint32 { return n.pageNo }

func (n *InternalNode) IsRoot() bool { return n.page.Data[isRootOffset] == 1 }
func (n *InternalNode) SetRoot(v bool) {
	if v {
		n.page.Data[isRootOffset] = 1
	} else {
		n.page.Data[isRootOffset] = 0
	}
	n.page.Dirty = true
}

func (n *InternalNode) Parent() uint32 {
	return le32(n.page.Data[parentOffset : parentOffset+pointerSize])
}
func (n *InternalNode) SetParent(p uint32) {
	putLe32(n.page.Data[parentOffset:parentOffset+pointerSize], p)
	n.page.Dirty = true
}

func (n *InternalNode) NumKeys() int {
	return int(le32(n.page.Data[internalNumKeysOffset : internalNumKeysOffset+pointerSize]))
}
func (n *InternalNode) SetNumKeys(c int) {
	putLe32(n.page.Data[internalNumKeysOffset:internalNumKeysOffset+pointerSize], uint32(c))
	n.page.Dirty = true
}

func (n *InternalNode) cellOffset(i int) int { return internalHeaderSize + i*internalCellSize }

func (n *InternalNode) ChildAt(i int) uint32 {
	off := n.cellOffset(i)
	return le32(n.page.Data[off : off+internalChildSize])
}
func (n *InternalNode) SetChildAt(i int, child uint32) {
	off := n.cellOffset(i)
	putLe32(n.page.Data[off:off+internalChildSize], child)
	n.page.Dirty = true
}

func (n *InternalNode) KeyAt(i int) uint64 {
	off := n.cellOffset(i) + internalChildSize
	return le64(n.page.Data[off : off+internalKeySize])
}
func (n *InternalNode) SetKeyAt(i int, k uint64) {
	off := n.cellOffset(i) + internalChildSize
	putLe64(n.page.Data[off:off+internalKeySize], k)
	n.page.Dirty = true
}

// FirstKey is the separator of child 0; callers must ensure NumKeys>0.
func (n *InternalNode) FirstKey() uint64 { return n.KeyAt(0) }

func (n *InternalNode) cell(i int) []byte {
	off := n.cellOffset(i)
	return n.page.Data[off : off+internalCellSize]
}

// ShiftRight moves cells [from, NumKeys) one slot right.
func (n *InternalNode) ShiftRight(from int) {
	for i := n.NumKeys(); i > from; i-- {
		copy(n.cell(i), n.cell(i-1))
	}
	n.page.Dirty = true
}

// ShiftLeft moves cells (from, NumKeys) one slot left.
func (n *InternalNode) ShiftLeft(from int) {
	for i := from; i < n.NumKeys()-1; i++ {
		copy(n.cell(i), n.cell(i+1))
	}
	n.page.Dirty = true
}

// IndexOfChild returns the cell index whose child pointer equals page, or
// -1 if none does.
func (n *InternalNode) IndexOfChild(page uint32) int {
	for i := 0; i < n.NumKeys(); i++ {
		if n.ChildAt(i) == page {
			return i
		}
	}
	return -1
}

// FindKey returns the index of the child subtree that would contain key:
// the largest i with KeyAt(i) <= key, or 0 if key is smaller than every
// separator (the engine never returns the spec's "no such child" Option).
func (n *InternalNode) FindKey(key uint64) int {
	lo, hi := 0, n.NumKeys()
	for lo < hi {
		mid := (lo + hi) / 2
		if n.KeyAt(mid) > key {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo == 0 {
		return 0
	}
	return lo - 1
}

func loadNodeType(pg *pager.Page) (nodeType, error) {
	switch pg.Data[nodeTypeOffset] {
	case byte(typeLeaf):
		return typeLeaf, nil
	case byte(typeInternal):
		return typeInternal, nil
	default:
		return 0, ErrCorruptNode
	}
}
