package fqe

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/olekukonko/tablewriter"
	"github.com/petar/GoLLRB/llrb"
)

// sqlKeywords seed the completion index before any table names are known.
var sqlKeywords = []string{
	"SELECT", "FROM", "WHERE", "JOIN", "ON", "GROUP BY", "ORDER BY",
	"LIMIT", "SHOW", "DESCRIBE", "EXPLAIN", "CREATE", "TABLE", "DROP",
	"INSERT", "INTO", "VALUES", "ATTACH", "DETACH", "DATABASES", "TABLES",
	"COUNT", "DISTINCT", "AND", "OR", "NOT", "NULL", "AS",
}

// completer serves readline tab completion from an ordered index, so a
// prefix lookup is one ascend from the pivot.
type completer struct {
	index *llrb.LLRB
}

func newCompleter() *completer {
	c := &completer{index: llrb.New()}
	for _, kw := range sqlKeywords {
		c.add(kw)
	}
	return c
}

// add normalizes to upper case so the ordered index keeps keyword and
// table-name entries in one comparable key space.
func (c *completer) add(word string) {
	c.index.ReplaceOrInsert(llrb.String(strings.ToUpper(word)))
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])
	if i := strings.LastIndexAny(prefix, " \t(,"); i != -1 {
		prefix = prefix[i+1:]
	}
	if prefix == "" {
		return nil, 0
	}

	upper := strings.ToUpper(prefix)
	var matches [][]rune
	c.index.AscendGreaterOrEqual(llrb.String(upper), func(i llrb.Item) bool {
		word := string(i.(llrb.String))
		if !strings.HasPrefix(word, upper) {
			return false
		}
		matches = append(matches, []rune(word[len(prefix):]))
		return true
	})

	return matches, len(prefix)
}

func renderRows(out io.Writer, rows *Rows) error {
	if rows.RowCount() == 0 {
		fmt.Fprintln(out, "(no results)")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader(rows.Columns())
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)

	width := len(rows.Columns())
	body := [][]string{}
	for {
		ok, err := rows.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		row := make([]string, width)
		for i := 1; i <= width; i++ {
			s, err := rows.GetString(i)
			if err != nil {
				return err
			}
			if rows.WasNull() {
				s = ""
			}
			row[i-1] = s
		}
		body = append(body, row)
	}

	table.AppendBulk(body)
	table.Render()

	if len(body) == 1 {
		fmt.Fprintln(out, "(1 result)")
	} else {
		fmt.Fprintf(out, "(%d results)\n", len(body))
	}

	return nil
}

func describeTable(conn *Conn, name string) {
	rows, err := conn.DescribeTable(name)
	if err != nil {
		fmt.Println("Error describing table:", err)
		return
	}
	defer rows.Close()

	fmt.Printf("Table \"%s\"\n", name)
	if err := renderRows(os.Stdout, rows); err != nil {
		fmt.Println("Error rendering description:", err)
	}
}

func listTables(conn *Conn, c *completer) {
	tables, err := conn.Tables("")
	if err != nil {
		fmt.Println("Error listing tables:", err)
		return
	}

	if len(tables) == 0 {
		fmt.Println("Did not find any relations.")
		return
	}

	fmt.Println("List of relations")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)

	body := [][]string{}
	for _, t := range tables {
		body = append(body, []string{t})
		c.add(t)
	}
	table.AppendBulk(body)
	table.Render()

	fmt.Println("")
}

// RunRepl drives an interactive session against the given connection.
func RunRepl(conn *Conn) {
	c := newCompleter()

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "fqe> ",
		HistoryFile:     "/tmp/fqe_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    c,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	fmt.Println("Connected to", conn.Descriptor().BaseURL())

repl:
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue repl
		} else if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Println("Error while reading line:", err)
			continue repl
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue repl
		case trimmed == "quit" || trimmed == "exit" || trimmed == "\\q":
			break repl
		case trimmed == "\\dt" || trimmed == "\\d":
			listTables(conn, c)
			continue repl
		case trimmed == "\\ping":
			if err := conn.Ping(); err != nil {
				fmt.Println("Server is not responding:", err)
			} else {
				fmt.Println("ok")
			}
			continue repl
		case strings.HasPrefix(trimmed, "\\d "):
			describeTable(conn, strings.TrimSpace(trimmed[len("\\d"):]))
			continue repl
		}

		stmt, err := conn.CreateStatement()
		if err != nil {
			fmt.Println("Error creating statement:", err)
			continue repl
		}

		hasRows, err := stmt.Execute(trimmed)
		if err != nil {
			fmt.Println("Error executing:", err)
			stmt.Close()
			continue repl
		}

		if hasRows {
			if err := renderRows(os.Stdout, stmt.ResultSet()); err != nil {
				fmt.Println("Error rendering results:", err)
			}
		} else {
			fmt.Println("ok")
		}

		stmt.Close()
	}
}
