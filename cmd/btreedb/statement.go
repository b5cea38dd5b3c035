package main

import (
	"fmt"
	"strconv"
	"strings"

	"btreedb/internal/btree"
	"btreedb/internal/row"
)

// StatementType identifies which of the five supported operations a
// parsed line represents.
type StatementType int

const (
	StatementInsert StatementType = iota
	StatementUpdate
	StatementSelect
	StatementSelectAll
	StatementDelete
)

// PrepareResult reports how parsing a line went.
type PrepareResult int

const (
	PrepareSuccess PrepareResult = iota
	PrepareUnrecognizedStatement
	PrepareSyntaxError
)

// Statement is a parsed, not-yet-executed command.
type Statement struct {
	Type  StatementType
	Key   uint64
	Row   row.Row
	Value row.Row
}

// prepareStatement parses one input line into a Statement.
//
//	insert <id> <name> <email>
//	update <id> <name> <email>
//	select <id>
//	select
//	delete <id>
func prepareStatement(input string, stmt *Statement) PrepareResult {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return PrepareUnrecognizedStatement
	}

	switch fields[0] {
	case "insert":
		if len(fields) != 4 {
			return PrepareSyntaxError
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return PrepareSyntaxError
		}
		stmt.Type = StatementInsert
		stmt.Key = id
		stmt.Row = row.Row{ID: id, Name: fields[2], Email: fields[3]}
		return PrepareSuccess

	case "update":
		if len(fields) != 4 {
			return PrepareSyntaxError
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return PrepareSyntaxError
		}
		stmt.Type = StatementUpdate
		stmt.Key = id
		stmt.Value = row.Row{ID: id, Name: fields[2], Email: fields[3]}
		return PrepareSuccess

	case "select":
		if len(fields) == 1 {
			stmt.Type = StatementSelectAll
			return PrepareSuccess
		}
		if len(fields) != 2 {
			return PrepareSyntaxError
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return PrepareSyntaxError
		}
		stmt.Type = StatementSelect
		stmt.Key = id
		return PrepareSuccess

	case "delete":
		if len(fields) != 2 {
			return PrepareSyntaxError
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return PrepareSyntaxError
		}
		stmt.Type = StatementDelete
		stmt.Key = id
		return PrepareSuccess
	}

	return PrepareUnrecognizedStatement
}

// executeStatement runs stmt against t, printing results or errors the
// way the REPL surfaces them to the user.
func executeStatement(stmt *Statement, t *btree.Table) {
	switch stmt.Type {
	case StatementInsert:
		executeInsert(stmt, t)
	case StatementUpdate:
		executeUpdate(stmt, t)
	case StatementSelect:
		executeSelect(stmt, t)
	case StatementSelectAll:
		executeSelectAll(t)
	case StatementDelete:
		executeDelete(stmt, t)
	}
}

func executeInsert(stmt *Statement, t *btree.Table) {
	cur, err := t.Find(stmt.Key)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	has, err := cur.HasCell()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if has {
		if k, _ := cur.Key(); k == stmt.Key {
			fmt.Println("error:", btree.ErrDuplicateKey)
			return
		}
	}
	buf := make([]byte, row.Size)
	if err := row.Serialize(stmt.Row, buf); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := cur.Insert(stmt.Key, buf); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Executed.")
}

func executeUpdate(stmt *Statement, t *btree.Table) {
	cur, err := t.Find(stmt.Key)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if !matchesKey(cur, stmt.Key) {
		fmt.Println("error:", btree.ErrNoData)
		return
	}
	buf := make([]byte, row.Size)
	if err := row.Serialize(stmt.Value, buf); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := cur.Update(buf); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Executed.")
}

func executeSelect(stmt *Statement, t *btree.Table) {
	cur, err := t.Find(stmt.Key)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if !matchesKey(cur, stmt.Key) {
		fmt.Println("error:", btree.ErrNoData)
		return
	}
	printRow(cur)
}

func executeSelectAll(t *btree.Table) {
	cur, err := t.Start()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for !cur.EndOfTable() {
		has, err := cur.HasCell()
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		if !has {
			break
		}
		printRow(cur)
		if err := cur.Advance(); err != nil {
			fmt.Println("error:", err)
			return
		}
	}
}

func executeDelete(stmt *Statement, t *btree.Table) {
	cur, err := t.Find(stmt.Key)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if !matchesKey(cur, stmt.Key) {
		fmt.Println("error:", btree.ErrNoData)
		return
	}
	if err := cur.Remove(); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Executed.")
}

func matchesKey(cur *btree.Cursor, key uint64) bool {
	has, err := cur.HasCell()
	if err != nil || !has {
		return false
	}
	k, err := cur.Key()
	return err == nil && k == key
}

func printRow(cur *btree.Cursor) {
	raw, err := cur.Value()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	r, err := row.Deserialize(raw)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("(%d, %s, %s)\n", r.ID, r.Name, r.Email)
}
