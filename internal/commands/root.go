package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scryfallprices/internal/cardlist"
	"scryfallprices/internal/config"
	"scryfallprices/internal/coordinator"
	"scryfallprices/internal/extract"
	"scryfallprices/internal/prices"
	"scryfallprices/internal/ratelimit"
	"scryfallprices/internal/resolve"
	"scryfallprices/internal/scryfall"
)

// NewRootCmd builds the scryfallprices command tree.
func NewRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "scryfallprices [path | json-list]",
		Short: "Fetches Scryfall prices for a list of cards and saves them per currency.",
		Long: `Fetches Scryfall prices for a list of cards and saves them per currency.

The card list is either a JSON array literal such as '["Mox Opal"]' or the
path to a file holding one. Without an argument it is read from stdin.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrices(cmd, configFile, args)
		},
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&configFile, "config", "", "config file (default ./config.yaml or $HOME/.scryfallprices/config.yaml)")
	persistent.String("log-level", "info", "log level: debug, info, warn or error")
	persistent.Duration("interval", ratelimit.DefaultScryfallPause, "pause after each successful Scryfall request")

	flags := rootCmd.Flags()
	flags.String("resume", "", "seed the price cache from a recovery file")
	flags.String("recovery-file", prices.DefaultRecoveryFile, "where partial prices are saved if fetching is interrupted")
	flags.Bool("manual", true, "ask for missing prices, opening the market page of each card")
	flags.String("manual-prices", "", "JSON file of card name to price used for missing prices instead of asking")
	flags.StringSlice("fields", []string{prices.FieldEUR, prices.FieldUSD}, "price fields to extract")

	rootCmd.AddCommand(newLookupCmd(&configFile))
	return rootCmd
}

// ExecuteContext runs the command line and exits non-zero on failure.
func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runPrices(cmd *cobra.Command, configFile string, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	input, err := cardListInput(cmd.Context(), in, out, args)
	if err != nil {
		return err
	}
	cards, err := cardlist.Parse(input)
	if err != nil {
		return err
	}

	client := scryfall.NewClient(cfg.ScryfallBaseURL, cfg.UserAgent, cfg.HTTPTimeout)
	defer client.Close()

	repo, err := newRepository(cfg, client)
	if err != nil {
		return err
	}

	resolver, err := newResolver(cfg, in, out)
	if err != nil {
		return err
	}

	fields := make([]coordinator.Field, 0, len(cfg.Fields))
	outputs := make([]string, 0, len(cfg.Fields))
	for _, field := range cfg.Fields {
		fields = append(fields, coordinator.Field{Name: field, Output: cfg.OutputFor(field)})
		outputs = append(outputs, cfg.OutputFor(field))
	}

	coord := coordinator.New(repo, extract.New(resolver), fields, out)
	if _, err := coord.Run(cmd.Context(), cards); err != nil {
		return err
	}
	if err := cmd.Context().Err(); err != nil {
		return fmt.Errorf("interrupted, partial prices saved on %s: %w", strings.Join(outputs, " and "), err)
	}

	fmt.Fprintf(out, "Prices saved on %s\n", strings.Join(outputs, " and "))
	return nil
}

// cardListInput returns the card list argument, prompting for it when absent.
func cardListInput(ctx context.Context, in *bufio.Reader, out io.Writer, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	fmt.Fprint(out, "Insert a path or a list of cards: ")

	type answer struct {
		line string
		err  error
	}
	answers := make(chan answer, 1)
	go func() {
		line, err := in.ReadString('\n')
		answers <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("card list not read: %w", ctx.Err())
	case a := <-answers:
		if a.err != nil && !(errors.Is(a.err, io.EOF) && a.line != "") {
			return "", fmt.Errorf("failed to read card list: %w", a.err)
		}
		return a.line, nil
	}
}

func newRepository(cfg *config.Config, source prices.Source) (*prices.Repository, error) {
	cache := prices.NewMemoryCache(nil)
	if cfg.ResumeFile != "" {
		loaded, err := prices.LoadCache(cfg.ResumeFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resume: %w", err)
		}
		cache = loaded
	}

	return prices.NewRepository(
		source,
		cache,
		newPacer(cfg),
		prices.FileCheckpoint{Path: cfg.RecoveryFile},
	), nil
}

// newPacer keeps Scryfall's request rate and the configured pause after
// every successful request.
func newPacer(cfg *config.Config) ratelimit.Pacer {
	limiter := ratelimit.New()
	limiter.SetPause(ratelimit.APIScryfall, cfg.RequestInterval)
	return limiter.For(ratelimit.APIScryfall)
}

func newResolver(cfg *config.Config, in io.Reader, out io.Writer) (resolve.Resolver, error) {
	switch {
	case cfg.ManualPricesFile != "":
		preset, err := resolve.LoadPreset(cfg.ManualPricesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load manual prices: %w", err)
		}
		return preset, nil
	case cfg.Manual:
		markets := resolve.Markets{
			CardmarketURL: cfg.CardmarketURL,
			TCGplayerURL:  cfg.TCGplayerURL,
		}
		return resolve.NewInteractive(in, out, resolve.OpenInBrowser, markets), nil
	default:
		return resolve.Noop{}, nil
	}
}
