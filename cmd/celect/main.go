// celect is the CLI collaborator (C9): a REPL plus breakdown and
// benchmark subcommands, grounded on the sv-cli/sqlvibe REPL shape
// (bufio.Scanner loop, dot-prefixed meta commands) and the teacher's
// color.Red/spew.Dump error- and debug-output style
// (manager/filter_vector_of_values.go, manager/load_slab_from_disk.go).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"celect/config"
	"celect/driver"
	"celect/value"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		os.Exit(repl())
	}

	switch args[0] {
	case "breakdown":
		os.Exit(runBreakdown(args[1:]))
	case "benchmark":
		os.Exit(runBenchmark(args[1:]))
	default:
		os.Exit(repl())
	}
}

func repl() int {
	d := driver.New(config.Default())
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("celect - columnar CSV query engine")
	fmt.Println("Type .help for commands, Ctrl-D to exit")

	for {
		fmt.Print("celect> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				color.Red("read error: %v", err)
				return 1
			}
			fmt.Println()
			return 0
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ".") {
			if !handleMeta(d, line) {
				return 0
			}
			continue
		}

		res, err := d.Execute(line)
		if err != nil {
			color.Red("error: %v", err)
			continue
		}
		printResult(res.Schema, res.Batches, res.MalformedRows)
	}
}

func handleMeta(d *driver.Driver, line string) bool {
	switch strings.ToLower(line) {
	case ".exit", ".quit":
		return false
	case ".help":
		fmt.Println(".help               show this message")
		fmt.Println(".breakdown <query>  run a query with phase timings and plan dumps")
		fmt.Println(".exit / .quit       exit (Ctrl-D also works)")
	default:
		if rest, ok := cutPrefix(line, ".breakdown "); ok {
			printBreakdown(d, rest)
			return true
		}
		fmt.Printf("unknown command: %s\n", line)
	}
	return true
}

func cutPrefix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

func runBreakdown(args []string) int {
	if len(args) == 0 {
		color.Red("usage: celect breakdown '<query>'")
		return 1
	}
	d := driver.New(config.Default())
	if !printBreakdown(d, strings.Join(args, " ")) {
		return 1
	}
	return 0
}

func printBreakdown(d *driver.Driver, query string) bool {
	bd, err := d.ExecuteBreakdown(query)
	if err != nil {
		color.Red("error: %v", err)
		return false
	}

	color.Cyan("query_id: %s", bd.QueryID)
	fmt.Printf("parse:    %v\n", bd.ParsedAt)
	fmt.Printf("bind:     %v\n", bd.BoundAt-bd.ParsedAt)
	fmt.Printf("optimize: %v\n", bd.OptimizedAt-bd.BoundAt)
	fmt.Printf("execute:  %v\n", bd.ExecutedAt-bd.OptimizedAt)
	fmt.Printf("total:    %v\n", bd.Elapsed)

	color.Yellow("raw plan:")
	spew.Dump(bd.RawPlan)
	color.Yellow("optimized plan:")
	spew.Dump(bd.OptimizedPlan)

	printResult(bd.Schema, bd.Batches, bd.MalformedRows)
	return true
}

func printResult(schema value.Schema, batches []*value.Batch, malformedRows int64) {
	names := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		names[i] = f.Name
	}
	fmt.Println(strings.Join(names, " | "))

	rows := 0
	for _, b := range batches {
		for _, row := range b.SelectionOrAll() {
			cells := make([]string, len(b.Columns))
			for ci := range b.Columns {
				cells[ci] = cellString(&b.Columns[ci], int(row))
			}
			fmt.Println(strings.Join(cells, " | "))
			rows++
		}
	}
	fmt.Printf("(%d row(s))\n", rows)
	if malformedRows > 0 {
		color.Yellow("dropped %d malformed row(s)", malformedRows)
	}
}

func cellString(col *value.Column, row int) string {
	if !col.IsValid(row) {
		return "NULL"
	}
	switch col.Type {
	case value.Int64:
		return fmt.Sprintf("%d", col.I64[row])
	case value.Float64:
		return fmt.Sprintf("%g", col.F64[row])
	case value.Bool:
		return fmt.Sprintf("%t", col.B[row] == 1)
	case value.Utf8:
		return string(col.Str(row))
	default:
		return "?"
	}
}

// benchmarkQueries mirrors spec.md §8's end-to-end scenarios, minus
// row-value assertions (benchmark only measures throughput).
var benchmarkQueries = []string{
	"SELECT name, age FROM '%s' WHERE age > 25",
	"SELECT name FROM '%s' WHERE active = true AND age > 30",
	"SELECT name FROM '%s' WHERE (age > 25 AND active = true) OR name = 'Bob'",
	"SELECT COUNT(*) FROM '%s'",
	"SELECT COUNT(name) FROM '%s' WHERE age < 25",
	"SELECT * FROM '%s' LIMIT 2 OFFSET 1",
}

func runBenchmark(args []string) int {
	rowCount := 100000
	path, cleanup, err := generateFixture(rowCount)
	if err != nil {
		color.Red("error: %v", err)
		return 1
	}
	defer cleanup()

	d := driver.New(config.Default())

	for _, tmpl := range benchmarkQueries {
		query := fmt.Sprintf(tmpl, path)
		start := time.Now()
		res, err := d.Execute(query)
		if err != nil {
			color.Red("error running %q: %v", query, err)
			return 1
		}
		elapsed := time.Since(start)

		rows := 0
		for _, b := range res.Batches {
			rows += b.LiveLen()
		}
		rowsPerSec := float64(rowCount) / elapsed.Seconds()
		fmt.Printf("%-70s  rows=%-6d took=%-12v  %.0f rows/sec\n", query, rows, elapsed, rowsPerSec)
	}
	return 0
}

func generateFixture(n int) (string, func(), error) {
	f, err := os.CreateTemp("", "celect-bench-*.csv")
	if err != nil {
		return "", nil, err
	}
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "id,name,age,active")
	names := []string{"Alice", "Bob", "Charlie", "Dana", "Eli"}
	for i := 0; i < n; i++ {
		name := names[i%len(names)]
		age := 18 + i%60
		active := i%2 == 0
		fmt.Fprintf(w, "%d,%s,%d,%t\n", i+1, name, age, active)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", nil, err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return "", nil, err
	}
	return path, func() { os.Remove(path) }, nil
}
