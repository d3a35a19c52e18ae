package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"overshoot-detection-service/internal/adapters/cache"
	"overshoot-detection-service/internal/config"
	"overshoot-detection-service/internal/platform/obs"
	"overshoot-detection-service/internal/platform/source"
	"overshoot-detection-service/internal/services"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	sourceKind   string
	sitesPath    string
	timingPath   string
	delimiter    string
	encoding     string
	dsn          string
	halfWidth    float64
	maxNeighbors int
	percentile   float64
	workers      int
	cacheSize    int
	verbose      bool
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "overshoot",
	Short: "Detect LTE cells whose coverage reaches past their sector neighbors",
	Long: `overshoot loads a cell reference table and per-cell timing advance
histograms, finds each cell's closest neighbors inside its antenna sector and
reports cells whose typical serving distance exceeds the average distance to
those neighbors.

Configuration defaults come from the environment (SECTOR_HALF_WIDTH,
MAX_NEIGHBORS, PERCENTILE_THRESHOLD, HISTOGRAM_BINS, NEIGHBOR_WORKERS,
DATA_SOURCE, SITES_CSV, TIMING_CSV, CSV_DELIMITER, CSV_ENCODING, DB_PATH,
DATABASE_URL); flags override them.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVar(&sourceKind, "source", "", "data source: csv, sqlite or postgres")
	rootCmd.Flags().StringVar(&sitesPath, "sites", "", "site reference CSV (CELLNAME, LAT, LON, AZIMUTH, COMUNA)")
	rootCmd.Flags().StringVar(&timingPath, "timing", "", "timing advance CSV (Cell_Name, L_RA_TA_UE_Index0..N-1)")
	rootCmd.Flags().StringVar(&delimiter, "delimiter", "", `CSV field separator (single character or "tab")`)
	rootCmd.Flags().StringVar(&encoding, "encoding", "", "CSV encoding: utf-8, latin1 or windows-1252")
	rootCmd.Flags().StringVar(&dsn, "dsn", "", "database file (sqlite) or URL (postgres)")
	rootCmd.Flags().Float64Var(&halfWidth, "half-width", 0, "sector half width in degrees")
	rootCmd.Flags().IntVar(&maxNeighbors, "max-neighbors", 0, "closest sector neighbors kept per cell")
	rootCmd.Flags().Float64Var(&percentile, "percentile", 0, "share of timing samples (percent) the bucket must cover")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers for the neighbor search")
	rootCmd.Flags().IntVar(&cacheSize, "cache-size", 500_000, "maximum memoized pair distances")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print per-cell neighbors and buckets")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func run(cmd *cobra.Command) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("half-width") {
		cfg.SectorHalfWidth = halfWidth
	}
	if flags.Changed("max-neighbors") {
		cfg.MaxNeighbors = maxNeighbors
	}
	if flags.Changed("percentile") {
		cfg.PercentileThreshold = percentile
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings, err := sourceSettings(cmd, cfg.HistogramBins)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = obs.WithRequestID(ctx, uuid.NewString())

	src, err := source.Open(ctx, settings)
	if err != nil {
		return err
	}
	defer src.Close()

	report, sites, err := services.AnalyzeOvershooting(
		ctx, cfg, src.Sites, src.Histograms, cache.NewOtterDistanceCache(cacheSize),
	)
	if err != nil {
		return err
	}

	r := newRenderer(cmd.OutOrStdout(), noColor)
	if verbose {
		r.sites(sites, cfg.Buckets)
	}
	r.flags(report.Flags)
	r.summary(report)

	return nil
}

// sourceSettings starts from the environment and applies source flags.
func sourceSettings(cmd *cobra.Command, bins int) (source.Settings, error) {
	flags := cmd.Flags()

	kind := config.Get("DATA_SOURCE", source.KindCSV)
	if flags.Changed("source") {
		kind = sourceKind
	}

	s, err := source.SettingsForKind(kind, bins)
	if err != nil {
		return source.Settings{}, err
	}

	if flags.Changed("sites") {
		s.SitesPath = sitesPath
	}
	if flags.Changed("timing") {
		s.TimingPath = timingPath
	}
	if flags.Changed("delimiter") {
		d, err := source.ParseDelimiter(delimiter)
		if err != nil {
			return source.Settings{}, fmt.Errorf("--delimiter: %w", err)
		}
		s.CSV.Delimiter = d
	}
	if flags.Changed("encoding") {
		s.CSV.Encoding = encoding
	}
	if flags.Changed("dsn") {
		s.DSN = dsn
	}

	return s, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
