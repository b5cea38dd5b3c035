// Command btreedb is a REPL over a single-file embedded table backed by a
// paged on-disk B+tree.
package main

import (
	"bufio"
	"fmt"
	"os"

	"btreedb/internal/btree"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: btreedb <filename>")
		os.Exit(1)
	}

	t, err := btree.Open(os.Args[1])
	if err != nil {
		fmt.Println("open:", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		printPrompt()
		input, err := readInput(reader)
		if err != nil {
			t.Close()
			return
		}
		if input == "" {
			continue
		}

		if input[0] == '.' {
			if handleMetaCommand(input, t) == MetaCommandSuccess {
				continue
			}
			fmt.Printf("Unrecognized command '%s'.\n", input)
			continue
		}

		var stmt Statement
		switch prepareStatement(input, &stmt) {
		case PrepareSuccess:
			executeStatement(&stmt, t)
		case PrepareSyntaxError:
			fmt.Println("Syntax error. Could not parse statement.")
		case PrepareUnrecognizedStatement:
			fmt.Printf("Unrecognized keyword at start of '%s'.\n", input)
		}
	}
}
