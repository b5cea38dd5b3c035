package pager

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.db")

	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	if p.NumPages() != 0 {
		t.Errorf("expected 0 pages, got %d", p.NumPages())
	}
}

func TestOpenRejectsCorruptLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.db")

	if err := os.WriteFile(path, make([]byte, 100), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Errorf("expected error opening a file whose length is not a multiple of PageSize")
	}
}

func TestAllocateAndFlush(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alloc.db")

	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	pgNum, err := p.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if pgNum != 0 {
		t.Errorf("expected first allocated page to be 0, got %d", pgNum)
	}

	pg, err := p.Get(pgNum)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	pg.Data[0] = 0xAB
	pg.Data[PageSize-1] = 0xCD
	pg.Dirty = true

	if err := p.Flush(pgNum); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if pg.Dirty {
		t.Errorf("expected page dirty=false after flush")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != PageSize {
		t.Fatalf("expected file length %d, got %d", PageSize, len(data))
	}
	if data[0] != 0xAB || data[PageSize-1] != 0xCD {
		t.Errorf("flushed content mismatch: first=0x%X last=0x%X", data[0], data[PageSize-1])
	}
}

func TestGetLoadsExistingPage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exist.db")

	buf := make([]byte, PageSize)
	for i := range buf {
		buf[i] = 0x01
	}
	if err := os.WriteFile(path, buf, 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	if p.NumPages() != 1 {
		t.Errorf("expected 1 page, got %d", p.NumPages())
	}
	pg, err := p.Get(0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if pg.Dirty {
		t.Errorf("expected loaded page dirty=false")
	}
	if pg.Data[0] != 0x01 || pg.Data[PageSize-1] != 0x01 {
		t.Errorf("unexpected loaded content")
	}
}

func TestGetExtendsFileOnMiss(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extend.db")

	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	pg, err := p.Get(2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.NumPages() != 3 {
		t.Errorf("expected NumPages=3 after Get(2), got %d", p.NumPages())
	}
	for _, b := range pg.Data {
		if b != 0 {
			t.Fatalf("expected zero-initialized page")
		}
	}
}

func TestCloseIsDurabilityBoundary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "close.db")

	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pgNum, err := p.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	pg, err := p.Get(pgNum)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	pg.Data[10] = 0x42
	pg.Dirty = true

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	pg2, err := reopened.Get(pgNum)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if pg2.Data[10] != 0x42 {
		t.Errorf("expected write to survive Close, got 0x%X", pg2.Data[10])
	}
}
