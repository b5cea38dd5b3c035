package main

import (
	"fmt"
	"os"
	"strings"

	"btreedb/internal/btree"
)

// MetaCommandResult reports how a leading-dot command was handled.
type MetaCommandResult int

const (
	MetaCommandSuccess MetaCommandResult = iota
	MetaCommandUnrecognizedCommand
)

// handleMetaCommand runs a leading-dot command against the open table.
// It returns MetaCommandUnrecognizedCommand for any line other than .exit
// and .btree.
func handleMetaCommand(line string, t *btree.Table) MetaCommandResult {
	trimmed := strings.TrimSpace(line)
	switch trimmed {
	case ".exit":
		t.Close()
		os.Exit(0)
		return MetaCommandSuccess
	case ".btree":
		if err := t.Dump(os.Stdout); err != nil {
			fmt.Println("dump error:", err)
		}
		return MetaCommandSuccess
	default:
		return MetaCommandUnrecognizedCommand
	}
}
