package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

func main() {
	wd, _ := os.Getwd()
	path := flag.String("db", filepath.Join(wd, "demo.db"), "SQLite file to create")
	flag.Parse()

	// 1. Connect to DB
	db, err := sql.Open("sqlite", *path)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// 2. Create the table the default query reads
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS your_table_name (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT,
		prefix TEXT,
		suffix TEXT
	)`)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Insert rows (if not exists). Row 1 has a NULL suffix.
	_, err = db.Exec(`INSERT OR IGNORE INTO your_table_name (id, name, kind, prefix, suffix) VALUES
		(1, 'integer', 'numeric', 'hello', NULL),
		(2, 'varchar', 'text', '''', ''''),
		(3, 'binary', 'blob', 'X''', '''')`)
	if err != nil {
		log.Printf("Failed to insert rows: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM your_table_name").Scan(&count); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Demo database %s has %d rows.\n", *path, count)
	fmt.Printf("Add ODBCDIAG_SOURCE_DEMO=sqlite:%s to .env and connect to DSN 'demo' with ODBCDIAG_BACKEND=bridge.\n", *path)
}
