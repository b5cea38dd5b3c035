// Package pager maps fixed-size pages to and from a single backing file and
// caches resident pages in memory until an explicit flush.
package pager

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

const (
	// PageSize is the fixed size, in bytes, of every page in the file.
	PageSize = 4096
	// MaxPages bounds how many pages a single database file may hold.
	MaxPages = 100000
)

// ErrTableFull is returned when a page number would exceed MaxPages.
var ErrTableFull = errors.New("pager: table full")

// ErrCorruptFile is returned when the backing file's length is not a
// multiple of PageSize.
var ErrCorruptFile = errors.New("pager: file length is not a multiple of the page size")

// IOError wraps an underlying I/O failure with the operation that caused it.
type IOError struct {
	Context string
	Cause   error
}

func (e *IOError) Error() string { return e.Context + ": " + e.Cause.Error() }
func (e *IOError) Unwrap() error { return e.Cause }

func ioErrorf(cause error, context string) error {
	return &IOError{Context: context, Cause: errors.WithStack(cause)}
}

// Page is one fixed-size resident page. Dirty marks that its in-memory
// contents have diverged from what is on disk.
type Page struct {
	Data  [PageSize]byte
	Dirty bool
}

// Pager owns the backing file, the slot table of resident pages, and the
// count of pages known to exist (whether or not they are currently cached).
type Pager struct {
	file     *os.File
	pages    []*Page
	numPages uint32
}

// Open opens or creates the file at path. An existing file's length must be
// a multiple of PageSize.
func Open(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, ioErrorf(err, "pager: open "+path)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ioErrorf(err, "pager: stat "+path)
	}
	size := fi.Size()
	if size%PageSize != 0 {
		f.Close()
		return nil, ErrCorruptFile
	}
	numPages := uint32(size / PageSize)
	return &Pager{
		file:     f,
		pages:    make([]*Page, numPages, numPages+16),
		numPages: numPages,
	}, nil
}

// NumPages reports how many pages currently exist in the file, whether
// cached or not.
func (p *Pager) NumPages() uint32 { return p.numPages }

// Get returns the cached buffer for pageNumber, loading it from disk on a
// cache miss. Requesting a page at or beyond NumPages extends the file: the
// slot is zero-initialized and NumPages grows to cover it.
func (p *Pager) Get(pageNumber uint32) (*Page, error) {
	if pageNumber >= MaxPages {
		return nil, ErrTableFull
	}
	if pageNumber >= p.numPages {
		p.growTo(pageNumber + 1)
	}
	if pg := p.pages[pageNumber]; pg != nil {
		return pg, nil
	}
	pg := &Page{}
	off := int64(pageNumber) * PageSize
	if _, err := p.file.Seek(off, io.SeekStart); err != nil {
		return nil, ioErrorf(err, "pager: seek page")
	}
	if _, err := io.ReadFull(p.file, pg.Data[:]); err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, ioErrorf(err, "pager: read page")
	}
	p.pages[pageNumber] = pg
	return pg, nil
}

func (p *Pager) growTo(n uint32) {
	for uint32(len(p.pages)) < n {
		p.pages = append(p.pages, nil)
	}
	p.numPages = n
}

// Allocate reserves the next page number. The slot itself is materialized
// lazily on the next Get.
func (p *Pager) Allocate() (uint32, error) {
	if p.numPages >= MaxPages {
		return 0, ErrTableFull
	}
	n := p.numPages
	p.growTo(n + 1)
	return n, nil
}

// Flush writes pageNumber back to disk if it is cached and dirty.
func (p *Pager) Flush(pageNumber uint32) error {
	if pageNumber >= uint32(len(p.pages)) {
		return nil
	}
	pg := p.pages[pageNumber]
	if pg == nil || !pg.Dirty {
		return nil
	}
	off := int64(pageNumber) * PageSize
	if _, err := p.file.Seek(off, io.SeekStart); err != nil {
		return ioErrorf(err, "pager: seek page")
	}
	if _, err := p.file.Write(pg.Data[:]); err != nil {
		return ioErrorf(err, "pager: write page")
	}
	pg.Dirty = false
	return nil
}

// Close flushes every cached dirty page, then releases the file handle.
// This is the only point at which writes are guaranteed to reach disk.
func (p *Pager) Close() error {
	for i := range p.pages {
		if err := p.Flush(uint32(i)); err != nil {
			return err
		}
	}
	if err := p.file.Sync(); err != nil {
		return ioErrorf(err, "pager: sync")
	}
	return p.file.Close()
}
