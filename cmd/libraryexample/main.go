package main

import (
	"fmt"
	"os"
	"time"

	fqe "github.com/originalRecipe1/duckdb-fqe"
)

func main() {
	conn, err := fqe.Connect("fqe://localhost:8080?timeout=10", nil)
	if err != nil {
		fmt.Println("Error connecting:", err)
		os.Exit(1)
	}
	defer conn.Close()

	if !conn.WaitForReady(time.Minute) {
		fmt.Println("Server did not become ready")
		os.Exit(1)
	}

	version, err := conn.ServerVersion()
	if err == nil {
		fmt.Println("Server version:", version)
	}

	databases, err := conn.Databases()
	if err == nil {
		fmt.Println("Attached databases:", databases)
	}

	stmt, err := conn.CreateStatement()
	if err != nil {
		fmt.Println("Error creating statement:", err)
		os.Exit(1)
	}
	defer stmt.Close()

	rows, err := stmt.ExecuteQuery("SELECT 'Hello from DuckDB FQE!' AS message")
	if err != nil {
		fmt.Println("Error querying:", err)
		os.Exit(1)
	}
	defer rows.Close()

	for {
		ok, err := rows.Next()
		if err != nil || !ok {
			break
		}
		msg, err := rows.GetStringByName("message")
		if err != nil {
			fmt.Println("Error reading row:", err)
			os.Exit(1)
		}
		fmt.Println(msg)
	}

	// Scroll back over the snapshot.
	if ok, _ := rows.Last(); ok {
		msg, _ := rows.GetString(1)
		fmt.Println("Last row again:", msg)
	}
}
