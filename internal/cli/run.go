package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/courtfirst/breachminer/internal/cache"
	"github.com/courtfirst/breachminer/internal/export"
	"github.com/courtfirst/breachminer/internal/fetch"
	"github.com/courtfirst/breachminer/internal/lexicon"
	"github.com/courtfirst/breachminer/internal/llm"
	"github.com/courtfirst/breachminer/internal/loader"
	"github.com/courtfirst/breachminer/internal/model"
	"github.com/courtfirst/breachminer/internal/pipeline"
)

var (
	outDir      string
	lexiconPath string
	runTimeout  time.Duration
	httpTimeout time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	cacheDir    string
	delay       time.Duration
	jitter      time.Duration
	noRobots    bool
	concurrency int
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmModel    string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <cases.csv>",
	Short: "Mine breach findings from a CSV of case references",
	Long: `Run executes the full pipeline over a case list:
- Load and validate the CSV (bad rows abort before anything is fetched)
- Resolve judgment text: local_text wins, otherwise a polite cached fetch
- Segment into paragraphs, flag outcome zones, mine breach phrases
- Export breach_candidates.json, breaches.json and fetch_log.json

Example:
  breachminer run data/cases.csv
  breachminer run data/cases.csv --out out --lexicon my-lexicon.yaml
  breachminer run data/cases.csv --concurrency 4 --delay 1s`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&outDir, "out", "out", "output directory for JSON artifacts")
	runCmd.Flags().StringVar(&lexiconPath, "lexicon", "", "YAML lexicon overriding the built-in phrase/negation/heading lists")
	runCmd.Flags().DurationVar(&runTimeout, "run-timeout", 30*time.Minute, "total timeout for the whole run")
	runCmd.Flags().DurationVar(&httpTimeout, "timeout", 30*time.Second, "timeout for individual fetches")
	runCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent (default: built-in BreachMiner agent)")
	runCmd.Flags().Int64Var(&maxBytes, "max-bytes", 4_000_000, "max response bytes to read per fetch")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch cache (force fresh fetches)")
	runCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "fetch cache directory (default: ~/.breachminer/cache)")
	runCmd.Flags().DurationVar(&delay, "delay", 700*time.Millisecond, "politeness delay before each fetch")
	runCmd.Flags().DurationVar(&jitter, "jitter", 600*time.Millisecond, "random extra delay added to --delay")
	runCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 1, "number of case workers (1 = strictly sequential)")
	runCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
	runCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	runCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	runCmd.Flags().BoolVar(&llmEnabled, "llm", false, "write an advisory LLM summary (never affects the JSON artifacts)")
	runCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runRun(cmd *cobra.Command, args []string) error {
	casesPath := args[0]

	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = httpTimeout
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	cfg.Politeness.Delay = delay
	cfg.Politeness.Jitter = jitter
	cfg.Politeness.RespectRobots = !noRobots
	cfg.Concurrency.Workers = concurrency
	cfg.Output.Dir = outDir
	cfg.Output.Verbose = verbose
	cfg.LexiconPath = lexiconPath

	if llmEnabled {
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	// Lexicon: built-in unless overridden.
	lex := lexicon.Default()
	if cfg.LexiconPath != "" {
		var err error
		lex, err = lexicon.Load(cfg.LexiconPath)
		if err != nil {
			return err
		}
	}

	// Load-time errors abort before any fetching.
	cases, err := loader.LoadCases(casesPath)
	if err != nil {
		return fmt.Errorf("load cases: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Cases:       %d\n", len(cases))
		fmt.Fprintf(os.Stderr, "Lexicon:     %d phrase groups\n", len(lex.Phrases))
		fmt.Fprintf(os.Stderr, "Workers:     %d\n", cfg.Concurrency.Workers)
		fmt.Fprintf(os.Stderr, "Cache:       %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	var store cache.Cache = cache.Nop{}
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	pipe := pipeline.New(lex, fetch.NewClient(cfg, store))

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	progress := func(r *pipeline.CaseResult) {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Case.CaseID, r.Err)
			return
		}
		fmt.Fprintf(os.Stderr, "✓ %s (%d paragraphs, %d in-zone, %d candidates)\n",
			r.Case.CaseID, r.Paragraphs, r.InZone, len(r.Candidates))
	}

	run := pipe.Run(ctx, cases, cfg.Concurrency.Workers, progress)

	writer := export.NewWriter(cfg.Output.Dir)
	exportErr := writer.WriteAll(run.Candidates)
	if exportErr != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", exportErr)
	}
	if err := writer.WriteFetchLog(run.FetchLog); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
	}

	groups := export.Group(run.Candidates)

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  Cases:       %d (%d failed)\n", run.Cases, len(run.Failures))
	fmt.Fprintf(os.Stderr, "  Candidates:  %d across %d tags\n", len(run.Candidates), len(groups))
	fmt.Fprintf(os.Stderr, "  Output:      %s\n", cfg.Output.Dir)

	if len(run.Failures) > 0 {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "  Failed cases:")
		for _, f := range run.Failures {
			fmt.Fprintf(os.Stderr, "    %s: %v\n", f.CaseID, f.Err)
		}
	}

	if llmEnabled {
		if err := writeSummary(ctx, cfg, groups, len(run.Failures)); err != nil {
			// Advisory output only; never fails the run.
			fmt.Fprintf(os.Stderr, "Warning: LLM summary failed: %v\n", err)
		}
	}

	return exportErr
}

// writeSummary generates the optional advisory summary next to the JSON
// artifacts.
func writeSummary(ctx context.Context, cfg *model.Config, groups []model.BreachGroup, failed int) error {
	summarizer, err := llm.NewSummarizer(cfg.LLM)
	if err != nil {
		return err
	}
	if summarizer == nil {
		return nil
	}

	summary, err := summarizer.Summarize(ctx, groups, failed)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.Output.Dir, "breach_summary.llm.md")
	if err := os.WriteFile(path, []byte(summary+"\n"), 0o644); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Wrote LLM summary: %s\n", path)
	return nil
}
