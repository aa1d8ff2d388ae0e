// Command poolctl is the Overs Pool command-line tool.
//
// Usage:
//
//	poolctl compute
//	poolctl compute --standings testdata/standings.json --picks data/picks-2025.json --json
//	poolctl standings
//	poolctl picks validate --file data/picks-2025.json
//	poolctl picks import --file data/picks-2025.json
//	poolctl picks list --season 2025
//	poolctl picks set --team "Utah Jazz" --pick Kevin=Over --pick Dave=Under
//	poolctl schema
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/overs-pool/internal/config"
	"github.com/albapepper/overs-pool/internal/db"
	"github.com/albapepper/overs-pool/internal/picks"
	"github.com/albapepper/overs-pool/internal/pool"
	"github.com/albapepper/overs-pool/internal/provider"
	"github.com/albapepper/overs-pool/internal/provider/espn"
	"github.com/albapepper/overs-pool/internal/tracker"
)

// Logs go to stderr so --json output stays clean on stdout.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "poolctl",
		Short:        "Overs Pool command-line tool",
		SilenceUsage: true,
	}

	root.AddCommand(computeCmd())
	root.AddCommand(standingsCmd())
	root.AddCommand(picksCmd())
	root.AddCommand(schemaCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// compute command
// --------------------------------------------------------------------------

func computeCmd() *cobra.Command {
	var (
		standingsFile string
		picksFile     string
		asJSON        bool
	)
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Score the pool against current (or saved) standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal(func(ctx context.Context, cfg *config.Config) error {
				if picksFile == "" {
					picksFile = cfg.PicksFile
				}
				t := tracker.New(tracker.Options{
					Standings:    standingsSource(cfg, standingsFile),
					Picks:        picks.FileSource{Path: picksFile},
					Participants: cfg.Participants,
					SeasonGames:  cfg.SeasonGames(),
					Season:       cfg.Season,
					Logger:       logger,
				})
				res, err := t.Snapshot(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&standingsFile, "standings", "", "Saved standings document (default: fetch live)")
	cmd.Flags().StringVar(&picksFile, "picks", "", "Picks file, YAML or JSON (default: POOL_PICKS_FILE)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}

// --------------------------------------------------------------------------
// standings command
// --------------------------------------------------------------------------

func standingsCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print normalized standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal(func(ctx context.Context, cfg *config.Config) error {
				standings, err := standingsSource(cfg, file).FetchStandings(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), standings)
				}
				return printStandings(cmd.OutOrStdout(), standings)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Saved standings document (default: fetch live)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

// --------------------------------------------------------------------------
// picks commands
// --------------------------------------------------------------------------

func picksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "picks",
		Short: "Manage the prediction sheet",
	}
	cmd.AddCommand(picksValidateCmd())
	cmd.AddCommand(picksImportCmd())
	cmd.AddCommand(picksListCmd())
	cmd.AddCommand(picksSetCmd())
	return cmd
}

func picksValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a picks file without touching the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := picks.LoadFile(file)
			if err != nil {
				return err
			}
			if err := book.Validate(); err != nil {
				return fmt.Errorf("%s is invalid:\n%w", file, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d teams, %d participants)\n",
				file, len(book.Predictions), len(book.Participants))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Picks file, YAML or JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func picksImportCmd() *cobra.Command {
	var (
		file   string
		season int
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a picks file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, dbPool *db.Pool) error {
				book, err := picks.LoadFile(file)
				if err != nil {
					return err
				}
				if season == 0 {
					season = book.Season
				}
				if season == 0 {
					season = cfg.Season
				}
				start := time.Now()
				result := picks.NewStore(dbPool.Pool, season, logger).Import(ctx, book)
				logger.Info("Picks import finished",
					"season", season,
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				if len(result.Errors) > 0 {
					for _, e := range result.Errors {
						logger.Error("import error", "error", e)
					}
					return fmt.Errorf("import failed with %d errors", len(result.Errors))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Picks file, YAML or JSON")
	cmd.Flags().IntVar(&season, "season", 0, "Season year (default: the file's season, then POOL_SEASON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func picksListCmd() *cobra.Command {
	var (
		season int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the prediction sheet stored in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, dbPool *db.Pool) error {
				if season == 0 {
					season = cfg.Season
				}
				book, err := picks.NewStore(dbPool.Pool, season, logger).Load(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), book)
				}
				return printBook(cmd.OutOrStdout(), book)
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season year (default: POOL_SEASON)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func picksSetCmd() *cobra.Command {
	var (
		season      int
		team        string
		line        float64
		assignments []string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one team's line or picks in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := parseAssignments(assignments)
			if err != nil {
				return err
			}
			var newLine *float64
			if cmd.Flags().Changed("line") {
				newLine = &line
			}
			return runDB(func(ctx context.Context, cfg *config.Config, dbPool *db.Pool) error {
				if season == 0 {
					season = cfg.Season
				}
				store := picks.NewStore(dbPool.Pool, season, logger)
				book, err := store.Load(ctx)
				if err != nil {
					return err
				}
				row, position, err := book.Edit(team, newLine, changes)
				if err != nil {
					return err
				}
				if err := store.Upsert(ctx, position, row); err != nil {
					return err
				}
				logger.Info("Pick row saved", "season", season, "team", row.Team, "line", row.Line, "row", position+1)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season year (default: POOL_SEASON)")
	cmd.Flags().StringVar(&team, "team", "", "Team name as it appears on the sheet")
	cmd.Flags().Float64Var(&line, "line", 0, "New win line (required for a team not yet on the sheet)")
	cmd.Flags().StringArrayVar(&assignments, "pick", nil, "Participant pick as Name=Over or Name=Under; repeatable")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

// parseAssignments turns Name=Over flags into a pick map.
func parseAssignments(args []string) (map[string]pool.Pick, error) {
	out := make(map[string]pool.Pick, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--pick %q: want Name=Over or Name=Under", arg)
		}
		pick, err := pool.ParsePick(value)
		if err != nil {
			return nil, fmt.Errorf("--pick %q: %w", arg, err)
		}
		out[name] = pick
	}
	return out, nil
}

// --------------------------------------------------------------------------
// schema command
// --------------------------------------------------------------------------

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the picks tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.HasDatabase() {
				return fmt.Errorf("DATABASE_URL is required")
			}
			conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer conn.Close(ctx)

			if err := db.EnsureSchema(ctx, conn); err != nil {
				return err
			}
			logger.Info("Schema ready", "table", config.PicksTable)
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func runLocal(fn func(ctx context.Context, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return fn(ctx, cfg)
}

func runDB(fn func(ctx context.Context, cfg *config.Config, dbPool *db.Pool) error) error {
	return runLocal(func(ctx context.Context, cfg *config.Config) error {
		if !cfg.HasDatabase() {
			return fmt.Errorf("DATABASE_URL is required")
		}
		dbPool, err := db.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer dbPool.Close()
		return fn(ctx, cfg, dbPool)
	})
}

// fileStandings replays a saved standings document.
type fileStandings struct {
	path string
}

func (f fileStandings) FetchStandings(ctx context.Context) ([]provider.Standing, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open standings: %w", err)
	}
	defer fh.Close()
	return espn.DecodeStandings(fh)
}

func standingsSource(cfg *config.Config, file string) tracker.StandingsSource {
	if file != "" {
		return fileStandings{path: file}
	}
	return espn.NewClient(cfg.StandingsURL, cfg.StandingsUserAgent, cfg.StandingsRequestsPerMinute, logger)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(w io.Writer, res pool.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Updated %s\n\n", res.UpdatedAt.Format(time.RFC3339))

	fmt.Fprintln(tw, "PLAYER\tCORRECT\tINCORRECT\tPCT")
	for _, row := range res.Leaderboard {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\n", row.Player, row.Correct, row.Incorrect, row.Pct*100)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "TEAM\tRECORD\tLINE\tPROJ\tOUTCOME\tNEED\tCLOSE")
	for _, t := range pool.SortByCloseness(res.Teams) {
		record := fmt.Sprintf("%d-%d", t.Wins, t.Losses)
		if !t.Matched {
			record = "n/a"
		}
		mark := ""
		if t.Close {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%s\t%d\t%s\n",
			t.Team, record, t.Line, t.ProjectedWins, t.ProjectedOutcome, t.WinsNeededForOver, mark)
	}
	return tw.Flush()
}

func printStandings(w io.Writer, standings []provider.Standing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEAM\tABBR\tW\tL\tGP")
	for _, s := range standings {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", s.FullName, s.Abbreviation, s.Wins, s.Losses, s.GamesPlayed())
	}
	return tw.Flush()
}

func printBook(w io.Writer, book picks.Book) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TEAM\tLINE\t%s\n", strings.ToUpper(strings.Join(book.Participants, "\t")))
	for _, pred := range book.Predictions {
		cells := make([]string, len(book.Participants))
		for i, p := range book.Participants {
			cells[i] = string(pred.Picks[p])
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%s\n", pred.Team, pred.Line, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
