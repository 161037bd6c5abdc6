// Command fetchlab-compare runs the same composite read scenarios through
// both fetch strategies, in process against one seeded store, and prints the
// measured cost of each side: logical fetch calls, serialized payload bytes,
// and wall time. It exists to make the eager-vs-field-selective trade-off
// visible without standing up the HTTP servers.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/c360/fetchlab/fetch"
	"github.com/c360/fetchlab/fetch/eager"
	"github.com/c360/fetchlab/fetch/fieldsel"
	"github.com/c360/fetchlab/gateway/graphql"
	"github.com/c360/fetchlab/relation"
	"github.com/c360/fetchlab/store"
)

// scenario pairs an eager-strategy composite read with the field-selective
// document that asks for the same view.
type scenario struct {
	name  string
	eager func(*eager.Strategy) (fetch.Stats, error)
	query string
}

var scenarios = []scenario{
	{
		name: "author with books",
		eager: func(st *eager.Strategy) (fetch.Stats, error) {
			_, stats, err := st.AuthorWithBooks(1)
			return stats, err
		},
		query: `{ author(id: 1) { name books { title price } } }`,
	},
	{
		name: "book with author",
		eager: func(st *eager.Strategy) (fetch.Stats, error) {
			_, stats, err := st.BookWithAuthor(3)
			return stats, err
		},
		query: `{ book(id: 3) { title author { name } } }`,
	},
	{
		name: "all books with authors",
		eager: func(st *eager.Strategy) (fetch.Stats, error) {
			_, stats, err := st.Books(true)
			return stats, err
		},
		query: `{ books { title price author { name } } }`,
	},
	{
		name: "customer order summary",
		eager: func(st *eager.Strategy) (fetch.Stats, error) {
			_, stats, err := st.CustomerWithOrders(1, true)
			return stats, err
		},
		query: `{ customer(id: 1) { name orders { totalAmount books { title } } } }`,
	},
	{
		name: "search with authors",
		eager: func(st *eager.Strategy) (fetch.Stats, error) {
			_, stats, err := st.SearchBooksWithAuthors("harry potter")
			return stats, err
		},
		query: `{ searchBooks(query: "harry potter") { title author { name } } }`,
	},
}

// measurement is one side's observed cost for a scenario.
type measurement struct {
	stats    fetch.Stats
	duration time.Duration
}

func main() {
	verbose := flag.Bool("verbose", false, "Log each request as it runs")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("comparison failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	s := store.NewSeeded()
	eagerStrategy := eager.New(s)
	executor := graphql.NewExecutor(fieldsel.New(s, relation.NewResolver(s)), nil, 10)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tEAGER CALLS\tEAGER BYTES\tSELECTIVE CALLS\tSELECTIVE BYTES\tBYTES SAVED")

	for _, sc := range scenarios {
		logger.Debug("running scenario", "name", sc.name)

		eagerSide, err := measureEager(eagerStrategy, sc)
		if err != nil {
			return fmt.Errorf("scenario %q (eager): %w", sc.name, err)
		}

		selectiveSide, err := measureSelective(executor, sc)
		if err != nil {
			return fmt.Errorf("scenario %q (field-selective): %w", sc.name, err)
		}

		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n",
			sc.name,
			eagerSide.stats.Calls, eagerSide.stats.Bytes,
			selectiveSide.stats.Calls, selectiveSide.stats.Bytes,
			savings(eagerSide.stats.Bytes, selectiveSide.stats.Bytes))

		logger.Debug("scenario complete",
			"name", sc.name,
			"eager_duration", eagerSide.duration,
			"selective_duration", selectiveSide.duration)
	}

	return w.Flush()
}

func measureEager(st *eager.Strategy, sc scenario) (measurement, error) {
	start := time.Now()
	stats, err := sc.eager(st)
	if err != nil {
		return measurement{}, err
	}
	return measurement{stats: stats, duration: time.Since(start)}, nil
}

func measureSelective(executor *graphql.Executor, sc scenario) (measurement, error) {
	start := time.Now()
	resp := executor.Execute(sc.query, nil, "")
	if len(resp.Errors) > 0 {
		return measurement{}, fmt.Errorf("document failed: %s", resp.Errors.Error())
	}
	return measurement{stats: resp.Stats, duration: time.Since(start)}, nil
}

// savings renders the byte reduction of the selective side as a percentage
// of the eager payload.
func savings(eagerBytes, selectiveBytes int) string {
	if eagerBytes == 0 {
		return "n/a"
	}
	pct := 100 * float64(eagerBytes-selectiveBytes) / float64(eagerBytes)
	return fmt.Sprintf("%.1f%%", pct)
}
