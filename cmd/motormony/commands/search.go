package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-motormony/internal/config"
	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/recommend"
	"github.com/tbourn/go-motormony/internal/render"
	"github.com/tbourn/go-motormony/internal/results"
	"github.com/tbourn/go-motormony/internal/sysutil"
)

// searchOptions are the terminal search settings. Ranks are one-based
// positions in the displayed results; Compare entries are ranks or names.
type searchOptions struct {
	Query   string
	Sort    string
	Year    string
	View    string
	Pages   int
	Compare []string
	Explain int
	JSON    bool
	NoColor bool
}

var (
	searchOpts    searchOptions
	searchURL     string
	searchTopK    int
	searchTimeout time.Duration
)

var (
	errEmptyQuery     = errors.New("query must not be empty")
	errUnknownVehicle = errors.New("no such vehicle in the results")
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run one query and print the results",
	Long: `Send a query to the recommendation service and print the ranked vehicles.
Selections are applied in order: sort, year filter, view, extra pages, then
comparison picks, so --compare ranks refer to the final ordering.`,
	Example: `  motormony search "family suv with good mileage" --sort price-low --view table
  motormony search -q "electric hatchback" --year 2024 --compare 1,"Tata Nexon EV" --explain 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchOpts.Query, "query", "q", "", "query text (or pass it as the argument)")
	f.StringVar(&searchOpts.Sort, "sort", string(domain.SortScore), "score|price-low|price-high|name|year-new|year-old")
	f.StringVar(&searchOpts.Year, "year", "all", `model year to keep, or "all"`)
	f.StringVar(&searchOpts.View, "view", string(domain.ViewCards), "cards|table")
	f.IntVar(&searchOpts.Pages, "pages", 1, "pages of results to show")
	f.StringSliceVar(&searchOpts.Compare, "compare", nil, "ranks or names to add to the comparison set")
	f.IntVar(&searchOpts.Explain, "explain", 0, "rank to explain under the query's intent")
	f.BoolVar(&searchOpts.JSON, "json", false, "print the session snapshot as JSON")
	f.StringVar(&searchURL, "url", "", "recommendation endpoint (default RECOMMEND_URL)")
	f.IntVar(&searchTopK, "top-k", 0, "results to request (default RECOMMEND_TOP_K)")
	f.DurationVar(&searchTimeout, "timeout", 0, "request timeout (default RECOMMEND_TIMEOUT)")
	rootCmd.AddCommand(searchCmd)
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sysutil.SetupLogger(logLevel("warn"), true)

	opts := searchOpts
	opts.NoColor = noColor
	if len(args) == 1 {
		opts.Query = args[0]
	}

	rc := recommend.Config{URL: cfg.Recommend.URL, TopK: cfg.Recommend.TopK, Timeout: cfg.Recommend.Timeout}
	if searchURL != "" {
		rc.URL = searchURL
	}
	if searchTopK > 0 {
		rc.TopK = searchTopK
	}
	if searchTimeout > 0 {
		rc.Timeout = searchTimeout
	}
	return runSearch(cmd.Context(), cmd.OutOrStdout(), recommend.NewClient(rc), opts)
}

// runSearch drives a local session through one query and the requested
// selections, then prints it. A failed query is still printed before its
// error is returned.
func runSearch(ctx context.Context, w io.Writer, rec recommend.Recommender, opts searchOptions) error {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return errEmptyQuery
	}
	order, err := domain.ParseSortOrder(opts.Sort)
	if err != nil {
		return err
	}
	year, err := domain.ParseYearFilter(opts.Year)
	if err != nil {
		return err
	}
	view, err := domain.ParseViewMode(opts.View)
	if err != nil {
		return err
	}

	sess := results.NewSession()
	gen := sess.BeginQuery(query)
	log.Debug().Str("query", query).Uint64("generation", gen).Msg("search")
	resp, callErr := rec.Recommend(ctx, query)
	if callErr != nil {
		_ = sess.Fail(gen, callErr)
		if err := show(w, sess.Snapshot(), opts); err != nil {
			return err
		}
		return callErr
	}
	if err := sess.Complete(gen, resp.Results, resp.Suggestion); err != nil {
		return err
	}

	// The service's ranking is the default order; only an explicit choice
	// re-sorts it.
	if order != domain.DefaultSort {
		sess.SetSort(order)
	}
	sess.SetYear(year)
	sess.SetView(view)
	for i := 1; i < opts.Pages; i++ {
		if advanced, _ := sess.LoadMore(); !advanced {
			break
		}
	}
	for _, ref := range opts.Compare {
		v, err := pick(sess, ref)
		if err != nil {
			return fmt.Errorf("compare %q: %w", ref, err)
		}
		if err := sess.Compare(v); err != nil {
			return fmt.Errorf("compare %s: %w", v.Name, err)
		}
	}

	if err := show(w, sess.Snapshot(), opts); err != nil {
		return err
	}
	if opts.Explain > 0 {
		exp, err := sess.Explain(opts.Explain - 1)
		if err != nil {
			return fmt.Errorf("explain rank %d: %w", opts.Explain, err)
		}
		if opts.JSON {
			return writeJSON(w, exp)
		}
		return render.New(w, opts.NoColor).Explanation(exp)
	}
	return nil
}

// pick resolves a rank ("2") or a vehicle name against the working results.
func pick(sess *results.Session, ref string) (domain.Vehicle, error) {
	ref = strings.TrimSpace(ref)
	if rank, err := strconv.Atoi(ref); err == nil {
		return sess.Vehicle(rank - 1)
	}
	if v, ok := sess.Lookup(ref); ok {
		return v, nil
	}
	return domain.Vehicle{}, errUnknownVehicle
}

func show(w io.Writer, snap results.Snapshot, opts searchOptions) error {
	if opts.JSON {
		return writeJSON(w, snap)
	}
	return render.New(w, opts.NoColor).Snapshot(snap)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
