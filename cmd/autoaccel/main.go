package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"autoaccel/cmd/autoaccel/config"
	"autoaccel/internal/auth"
	"autoaccel/internal/catalog"
	"autoaccel/internal/generation"
	"autoaccel/internal/logging"
	"autoaccel/internal/selection"
)

var (
	// Global flags
	verbose  bool
	endpoint string

	// generate flags
	genCategory string
	genBrand    string
	genModels   []string
	genFeatures []string
	genContext  string

	// Logger for one-shot commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "autoaccel",
	Short: "AI Auto Accelerate - car recommendations from your preferences",
	Long: `AI Auto Accelerate turns a few picks (brand, up to five models, up to
five features) into an AI-generated buying guide.

Run without arguments to start the interactive interface. Sign in with
Google, build a selection, and submit; the recommendation renders on a
dedicated screen.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Interactive mode logs to a file instead (it owns the terminal).
		if cmd.Use == "autoaccel" && cmd.CalledAs() == "autoaccel" {
			return nil
		}
		var err error
		logger, err = logging.NewCLI(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// loginCmd runs the browser sign-in flow without starting the TUI.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newAuthManager()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
		defer cancel()
		if err := mgr.SignIn(ctx); err != nil {
			return fmt.Errorf("sign-in failed: %w", err)
		}
		id := mgr.Current()
		fmt.Printf("Signed in as %s\n", id.DisplayName)
		return nil
	},
}

// logoutCmd clears the persisted token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newAuthManager()
		if err != nil {
			return err
		}
		if err := mgr.SignOut(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

// whoamiCmd prints the signed-in account.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newAuthManager()
		if err != nil {
			return err
		}
		id := mgr.Current()
		if id == nil {
			fmt.Println("Not signed in.")
			return nil
		}
		fmt.Println(id.DisplayName)
		if id.Email != "" {
			fmt.Println(id.Email)
		}
		return nil
	},
}

// generateCmd is the one-shot, non-interactive path through the same
// selection rules and decoder the TUI uses.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a recommendation from flags",
	Long: `Builds a selection from flags, submits it, and renders the
recommendation as markdown.

Example:
  autoaccel generate --brand Toyota --models Corolla --models Camry --features Bluetooth`,
	RunE: runGenerate,
}

// catalogCmd lists the static catalogs the selection form draws from.
var catalogCmd = &cobra.Command{
	Use:   "catalog [categories|brands|models|features]",
	Short: "List brand categories, brands, models, or features",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCatalog,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Generation endpoint URL (overrides config)")

	generateCmd.Flags().StringVar(&genCategory, "category", catalog.DefaultCategory, "Brand category")
	generateCmd.Flags().StringVar(&genBrand, "brand", "", "Car brand (required)")
	generateCmd.Flags().StringArrayVar(&genModels, "models", nil, "Model to include (repeatable, max 5)")
	generateCmd.Flags().StringArrayVar(&genFeatures, "features", nil, "Feature to include (repeatable, max 5)")
	generateCmd.Flags().StringVar(&genContext, "context", "", "Additional free-text context")
	_ = generateCmd.MarkFlagRequired("brand")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		// Corrupt config falls back to defaults; keep going.
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newAuthManager() (*auth.Manager, error) {
	mcfg, err := auth.DefaultManagerConfig()
	if err != nil {
		return nil, err
	}
	mcfg.Logger = logger
	return auth.NewManager(mcfg), nil
}

// buildGenerator picks the backend: a remote endpoint when configured,
// otherwise direct Gemini with the configured API key.
func buildGenerator(ctx context.Context, cfg config.Config, log *zap.Logger) (generation.Generator, error) {
	if cfg.Endpoint != "" {
		c := generation.DefaultClientConfig(cfg.Endpoint)
		c.Logger = log
		return generation.NewClientWithConfig(c), nil
	}
	if cfg.GeminiAPIKey != "" {
		model := cfg.GeminiModel
		if model == "" {
			model = generation.DefaultGeminiModel
		}
		return generation.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, model)
	}
	return nil, errors.New("no backend configured: set endpoint or gemini_api_key (see config file, or GEMINI_API_KEY)")
}

// runInteractive starts the full-screen UI. Logs go to a file because the
// program owns the terminal.
func runInteractive() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	fileLogger, closeLog, err := logging.NewFile(dir, cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	mcfg, err := auth.DefaultManagerConfig()
	if err != nil {
		return err
	}
	mcfg.Logger = fileLogger
	mgr := auth.NewManager(mcfg)

	gen, err := buildGenerator(context.Background(), cfg, fileLogger)
	if err != nil {
		return err
	}

	app := NewApp(cfg, mgr, gen, fileLogger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Live theme reload: edits to the config file on disk restyle the
	// running UI.
	if path, err := config.File(); err == nil {
		w, werr := config.NewWatcher(path, func(c config.Config) {
			p.Send(app.reloadConfig(c))
		}, fileLogger)
		if werr == nil {
			if err := w.Start(); err == nil {
				defer w.Stop()
			}
		}
	}

	_, err = p.Run()
	return err
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	state := selection.New()
	if err := state.SetBrandType(genCategory); err != nil {
		return err
	}
	if err := state.SelectBrand(genBrand); err != nil {
		return fmt.Errorf("brand %q: %w", genBrand, err)
	}
	for _, m := range genModels {
		if err := state.ToggleModel(m); err != nil {
			return fmt.Errorf("model %q: %w", m, err)
		}
	}
	for _, f := range genFeatures {
		if err := state.ToggleFeature(f); err != nil {
			return fmt.Errorf("feature %q: %w", f, err)
		}
	}
	state.SetAdditionalContext(genContext)
	if err := state.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	gen, err := buildGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("submitting selection",
		zap.String("brand", genBrand),
		zap.Int("models", len(genModels)),
		zap.Int("features", len(genFeatures)))

	raw, err := gen.Generate(ctx, state.Snapshot())
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if generation.Unrelated(raw) {
		fmt.Println(generation.Sentinel)
		return nil
	}
	resp, err := generation.Decode(raw)
	if err != nil {
		if errors.Is(err, generation.ErrNoData) {
			fmt.Println("No data available")
			return nil
		}
		return err
	}

	md := responseMarkdown(resp)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		fmt.Println(md)
		return nil
	}
	out, err := renderer.Render(md)
	if err != nil {
		fmt.Println(md)
		return nil
	}
	fmt.Print(out)
	return nil
}

// responseMarkdown flattens a decoded recommendation into markdown for the
// terminal renderer.
func responseMarkdown(r *generation.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", r.Brand, r.BrandOverview)

	if len(r.Models) > 0 {
		b.WriteString("## Models\n\n")
		for _, m := range r.Models {
			fmt.Fprintf(&b, "### %s\n\n%s\n\n**Price range:** %s\n\n", m.ModelName, m.Description, m.PriceRange)
		}
	}
	if len(r.Features) > 0 {
		b.WriteString("## Features\n\n")
		for _, f := range r.Features {
			fmt.Fprintf(&b, "### %s\n\n%s\n\n", f.FeatureName, f.Description)
		}
	}
	b.WriteString("## Buying Suggestions\n\n")
	fmt.Fprintf(&b, "%s\n\n%s\n", r.BuyingSuggestions.Suggestion, r.BuyingSuggestions.Advice)
	if r.AdditionalContext != "" {
		fmt.Fprintf(&b, "\n## Additional Context\n\n%s\n", r.AdditionalContext)
	}
	return b.String()
}

func runCatalog(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "categories":
		for _, c := range catalog.Categories() {
			fmt.Println(c)
		}
	case "brands":
		category := catalog.DefaultCategory
		if len(args) > 1 {
			category = args[1]
		}
		if !catalog.HasCategory(category) {
			return fmt.Errorf("unknown category %q", category)
		}
		for _, b := range catalog.Brands(category) {
			fmt.Println(b)
		}
	case "models":
		if len(args) < 2 {
			return errors.New("usage: autoaccel catalog models <brand>")
		}
		models := catalog.Models(args[1])
		if len(models) == 0 {
			return fmt.Errorf("unknown brand %q", args[1])
		}
		for _, m := range models {
			fmt.Println(m)
		}
	case "features":
		for _, f := range catalog.Features() {
			fmt.Println(f)
		}
	default:
		return fmt.Errorf("unknown catalog %q (want categories, brands, models, or features)", args[0])
	}
	return nil
}
