package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"smart-dustbin/internal/config"
	"smart-dustbin/internal/journal"
	"smart-dustbin/internal/quotes"
)

const usage = `Usage:
  quotes                 show a random, today's and the first sequential quotes
  quotes add <text>      add a quote to the collection
  quotes list            print every quote
  quotes seq [n]         print the next n sequential quotes (default 5)
  quotes journal [n]     print the last n commands heard from the bin (default 20)`

func main() {
	_ = godotenv.Load(".env")
	cfg := config.New()

	repo, err := quotes.NewFileRepository(cfg.QuotesFilePath)
	if err != nil {
		log.Fatalf("failed to open quotes file: %v", err)
	}
	store := quotes.NewStore(repo)

	args := os.Args[1:]
	if len(args) == 0 {
		showSummary(store)
		return
	}

	switch args[0] {
	case "add":
		text := strings.TrimSpace(strings.Join(args[1:], " "))
		added, err := store.Add(text)
		if err != nil {
			log.Fatalf("failed to add quote: %v", err)
		}
		if !added {
			fmt.Println("Quote already present.")
			return
		}
		fmt.Printf("Added. Total quotes: %d\n", store.Len())
	case "list":
		for i, q := range store.All() {
			fmt.Printf("%3d. %s\n", i+1, q)
		}
	case "seq":
		printSequential(store, countArg(args, 5))
	case "journal":
		printJournal(cfg.JournalFilePath, countArg(args, 20))
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func showSummary(store *quotes.Store) {
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("SMART ROBOTIC DUSTBIN - QUOTE GENERATOR")
	fmt.Println(strings.Repeat("=", 50))

	if q, err := store.GetRandom(); err == nil {
		fmt.Printf("\nRandom Quote:\n  %s\n", q)
	}
	if q, err := store.GetDaily(time.Now()); err == nil {
		fmt.Printf("\nDaily Quote:\n  %s\n", q)
	}
	fmt.Println("\nSequential Quotes (first 5):")
	printSequential(store, 5)
	fmt.Println("\nTotal Quotes Available:", store.Len())
}

// countArg parses the optional count following a subcommand.
func countArg(args []string, def int) int {
	if len(args) < 2 {
		return def
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		log.Fatalf("invalid count %q", args[1])
	}
	return n
}

func printJournal(path string, n int) {
	entries, err := journal.Recent(path, n)
	if err != nil {
		log.Fatalf("failed to read command journal: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No commands recorded.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  %-9s %q", e.Timestamp.Local().Format(time.DateTime), e.Command, e.Line)
		if e.Spoken != "" {
			fmt.Printf(" -> %q", e.Spoken)
		}
		fmt.Println()
	}
}

func printSequential(store *quotes.Store, n int) {
	for i := range n {
		q, err := store.GetSequential()
		if err != nil {
			log.Fatalf("failed to read quotes: %v", err)
		}
		fmt.Printf("  %d. %s\n", i+1, q)
	}
}
