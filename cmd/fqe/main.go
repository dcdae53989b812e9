package main

import (
	"flag"
	"fmt"
	"os"

	fqe "github.com/originalRecipe1/duckdb-fqe"
)

func main() {
	dsn := flag.String("dsn", "fqe://localhost:8080", "connection descriptor")
	user := flag.String("user", "", "server user")
	password := flag.String("password", "", "server password")
	flag.Parse()

	overrides := map[string]string{}
	if *user != "" {
		overrides["user"] = *user
	}
	if *password != "" {
		overrides["password"] = *password
	}

	conn, err := fqe.Connect(*dsn, overrides)
	if err != nil {
		fmt.Println("Error connecting:", err)
		os.Exit(1)
	}
	defer conn.Close()

	fqe.RunRepl(conn)
}
