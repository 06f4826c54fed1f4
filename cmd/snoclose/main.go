// Command snoclose expands named clusters of seed SNOMED concept codes
// into the complete code sets they subsume, using the transitive-closure
// and history reference tables, and writes the results as CSV, XLSX, and
// per-cluster text files.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/ehealthkit/snoclose/internal/closure"
	"github.com/ehealthkit/snoclose/internal/report"
	"github.com/ehealthkit/snoclose/internal/sctdb"
)

// CLI is the top-level command structure for snoclose.
type CLI struct {
	Debug     bool   `env:"SNOCLOSE_DEBUG" help:"Enable debug logging."`
	Config    string `short:"c" default:"clusters.yaml" env:"SNOCLOSE_CONFIG" help:"Cluster configuration file."`
	SubtypeDB string `required:"" env:"SNOCLOSE_SUBTYPE_DB" help:"SQLite database holding the SCTTC transitive closure table."`
	HistoryDB string `required:"" env:"SNOCLOSE_HISTORY_DB" help:"SQLite database holding the SCTHIST history table."`
	TermsDB   string `env:"SNOCLOSE_TERMS_DB" help:"Optional SQLite database holding the SCT descriptions table."`

	Build  BuildCmd  `cmd:"" default:"withargs" help:"Expand every configured cluster and write all output files."`
	Expand ExpandCmd `cmd:"" help:"Expand a single cluster and print its codes to stdout."`
}

// BuildCmd runs the full pipeline: load relations, expand every cluster,
// write the CSV, XLSX, and per-cluster txt outputs.
type BuildCmd struct {
	CSV     string `default:"snomed_hierarchical_clusters.csv" help:"Combined CSV output path."`
	XLSX    string `default:"snomed_hierarchical_clusters.xlsx" help:"Styled XLSX output path."`
	TxtDir  string `default:"clusters" help:"Directory for per-cluster txt files."`
	Workers int    `default:"1" help:"Number of clusters expanded concurrently."`
}

func (c *BuildCmd) Run(cli *CLI) error {
	start := time.Now()
	ctx := context.Background()

	clusters, err := loadClusterConfig(cli.Config)
	if err != nil {
		return fmt.Errorf("load cluster config: %w", err)
	}
	slog.Info("starting cluster build", "clusters", len(clusters))

	store, err := sctdb.BuildStore(ctx, cli.SubtypeDB, cli.HistoryDB, cli.TermsDB)
	if err != nil {
		return err
	}

	proc := closure.NewProcessor(store)
	run, err := proc.ProcessAll(ctx, clusters, c.Workers)
	if err != nil {
		return err
	}

	rows := run.AllRows()
	if err := report.WriteCSV(c.CSV, rows); err != nil {
		return err
	}
	if err := report.WriteXLSX(c.XLSX, rows); err != nil {
		return err
	}
	if err := report.WriteClusterTxt(c.TxtDir, rows); err != nil {
		return err
	}

	slog.Info("completed creating clusters",
		"clusters", run.Totals.Clusters,
		"skipped", run.Totals.Skipped,
		"total_codes", run.Totals.Codes,
		"elapsed", formatElapsed(time.Since(start)))
	return nil
}

// ExpandCmd expands one configured cluster and prints its sorted codes,
// one per line, for ad-hoc inspection and shell pipelines.
type ExpandCmd struct {
	Cluster string `arg:"" help:"Cluster id from the configuration file."`
}

func (c *ExpandCmd) Run(cli *CLI) error {
	ctx := context.Background()

	clusters, err := loadClusterConfig(cli.Config)
	if err != nil {
		return fmt.Errorf("load cluster config: %w", err)
	}
	spec, ok := findCluster(clusters, c.Cluster)
	if !ok {
		return fmt.Errorf("cluster %q is not configured", c.Cluster)
	}

	store, err := sctdb.BuildStore(ctx, cli.SubtypeDB, cli.HistoryDB, cli.TermsDB)
	if err != nil {
		return err
	}

	res := closure.NewProcessor(store).Process(spec)
	for _, row := range res.Rows {
		fmt.Println(row.Code)
	}
	return nil
}

func findCluster(clusters []closure.ClusterSpec, id string) (closure.ClusterSpec, bool) {
	for _, spec := range clusters {
		if spec.ID == id {
			return spec, true
		}
	}
	return closure.ClusterSpec{}, false
}

// formatElapsed renders a duration as "N minutes and M seconds" or
// "M seconds" for the final summary line.
func formatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	minutes := total / 60
	seconds := total % 60
	if minutes > 0 {
		return fmt.Sprintf("%d minutes and %d seconds", minutes, seconds)
	}
	return fmt.Sprintf("%d seconds", seconds)
}

func main() {
	// A .env alongside the binary can carry the database paths; flags and
	// real environment variables take precedence.
	_ = godotenv.Load()

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("snoclose"),
		kong.Description("Build SNOMED code clusters from the transitive closure and history tables."),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snoclose: %v\n", err)
		os.Exit(1)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	setupLogger(cli.Debug)

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
