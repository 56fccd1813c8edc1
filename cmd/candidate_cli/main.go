// Command candidate_cli ranks a JSON file of candidates against a query and
// manages the candidates table the server syncs pools from.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/importer"
	"github.com/gcbaptista/candidate-search/internal/query"
	"github.com/gcbaptista/candidate-search/internal/search"
	"github.com/gcbaptista/candidate-search/internal/sqlstore"
	"github.com/gcbaptista/candidate-search/internal/terms"
	"github.com/gcbaptista/candidate-search/model"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return nil
	}
	switch args[0] {
	case "search":
		return runSearch(args[1:], out)
	case "import":
		return runImport(args[1:], out)
	case "remove":
		return runRemove(args[1:], out)
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, HeaderStyle.Render("candidate_cli"))
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  search -file candidates.json [-path data.items] [-limit 10] [-explain] <query>")
	fmt.Fprintln(out, "  import -file candidates.json -pool NAME [-driver postgres] -dsn DSN")
	fmt.Fprintln(out, "  remove -pool NAME -id CANDIDATE_ID [-driver postgres] -dsn DSN")
}

func readCandidates(file, path string) ([]model.Candidate, error) {
	if file == "" {
		return nil, fmt.Errorf("-file is required")
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return importer.ParseCandidates(raw, path)
}

func runSearch(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(out)
	file := fs.String("file", "", "JSON file holding the candidates")
	path := fs.String("path", "", "gjson path to the candidate array inside the file")
	limit := fs.Int("limit", 10, "Maximum candidates to print")
	explain := fs.Bool("explain", false, "Print the score breakdown of each candidate")
	termsFile := fs.String("terms", "", "YAML term dictionary replacing the built-in one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	raw := strings.Join(fs.Args(), " ")

	candidates, err := readCandidates(*file, *path)
	if err != nil {
		return err
	}

	dict := terms.Default()
	if *termsFile != "" {
		if dict, err = terms.LoadFile(*termsFile); err != nil {
			return err
		}
	}
	scorer := search.NewScorer(dict, config.FieldMapping{})

	start := time.Now()
	var ranked []search.ScoredCandidate
	mode := model.SearchModePassthrough
	if search.IsPassThrough(raw) {
		for _, c := range candidates {
			ranked = append(ranked, search.ScoredCandidate{Candidate: c})
		}
	} else {
		prepared := scorer.Prepare(raw)
		mode = search.Mode(prepared.Query, raw)
		ranked = scorer.RankPrepared(candidates, prepared, *explain)
	}
	took := time.Since(start)

	fmt.Fprintln(out, HeaderStyle.Render(fmt.Sprintf("%q", raw)))
	fmt.Fprintf(out, "%s %s\n", ModeStyle.Render(mode), DimStyle.Render(fmt.Sprintf("%d of %d candidates matched in %s", len(ranked), len(candidates), took.Round(time.Microsecond))))
	if mode != model.SearchModePassthrough {
		printParsed(out, query.Parse(raw))
	}

	for i, r := range ranked {
		if i == *limit {
			fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("... %d more", len(ranked)-*limit)))
			break
		}
		printCandidate(out, r, scorer.Fields())
	}
	return nil
}

func printParsed(out io.Writer, p query.ParsedQuery) {
	fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("job: %q  keywords: %v  location: %v", p.JobTitlePhrase, p.Keywords, p.LocationTerms)))
}

func printCandidate(out io.Writer, r search.ScoredCandidate, fields config.FieldMapping) {
	id, _ := r.Candidate.GetCandidateID()
	fmt.Fprintf(out, "%s  %s  %s\n",
		ScoreStyle.Render(fmt.Sprint(r.Score)),
		IDStyle.Render(id),
		DimStyle.Render(fmt.Sprintf("%s | %s, %s",
			r.Candidate.StringField(fields.JobField),
			r.Candidate.StringField(fields.LocationField),
			r.Candidate.StringField(fields.CountryField))),
	)
	if b := r.Breakdown; b != nil {
		fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("       job %d  location %d  bonus %d  penalty %d", b.JobPoints, b.LocationPoints, b.BonusPoints, b.PenaltyPoints)))
	}
}

func openStore(ctx context.Context, fs *flag.FlagSet, args []string) (*sqlstore.Store, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	driver := fs.Lookup("driver").Value.String()
	dsn := fs.Lookup("dsn").Value.String()
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return nil, fmt.Errorf("-dsn or DATABASE_URL is required")
	}
	store, err := sqlstore.Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func storeFlags(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.String("driver", sqlstore.DriverPostgres, "Database driver: postgres or sqlite")
	fs.String("dsn", "", "Database connection string (defaults to DATABASE_URL)")
	fs.String("pool", "", "Pool the candidates belong to")
	return fs
}

func runImport(args []string, out io.Writer) error {
	fs := storeFlags("import", out)
	file := fs.String("file", "", "JSON file holding the candidates")
	path := fs.String("path", "", "gjson path to the candidate array inside the file")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := openStore(ctx, fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	pool := fs.Lookup("pool").Value.String()
	if !config.ValidPoolName(pool) {
		return fmt.Errorf("invalid pool name %q", pool)
	}
	candidates, err := readCandidates(*file, *path)
	if err != nil {
		return err
	}
	if err := store.UpsertCandidates(ctx, pool, candidates); err != nil {
		return err
	}
	total, err := store.CountCandidates(ctx, pool)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("imported %d candidates", len(candidates)))+
		DimStyle.Render(fmt.Sprintf(" (pool %s now holds %d)", pool, total)))
	return nil
}

func runRemove(args []string, out io.Writer) error {
	fs := storeFlags("remove", out)
	id := fs.String("id", "", "Candidate ID to remove")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := openStore(ctx, fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	pool := fs.Lookup("pool").Value.String()
	removed, err := store.DeleteCandidate(ctx, pool, *id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("candidate %q not found in pool %q", *id, pool)
	}
	fmt.Fprintln(out, SuccessStyle.Render("removed "+*id))
	return nil
}
