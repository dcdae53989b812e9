package main

import (
	"database/sql"
	"fmt"
	"os"

	fqe "github.com/originalRecipe1/duckdb-fqe"
)

func main() {
	fqe.Register()

	db, err := sql.Open("fqe", "fqe://localhost:8080")
	if err != nil {
		fmt.Println("Error opening database:", err)
		os.Exit(1)
	}
	defer db.Close()

	rows, err := db.Query("SELECT 1 AS id, 'admin' AS name")
	if err != nil {
		fmt.Println("Error querying:", err)
		os.Exit(1)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			fmt.Println("Error scanning row:", err)
			os.Exit(1)
		}
		fmt.Println(id, name)
	}
}
