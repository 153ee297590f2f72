package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/agusespa/semsplit/internal/gitdiff"
	"github.com/agusespa/semsplit/internal/metrics"
	"github.com/agusespa/semsplit/internal/parser"
	"github.com/agusespa/semsplit/internal/semdiff"
	"github.com/agusespa/semsplit/internal/types"
	"github.com/agusespa/semsplit/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type app struct {
	configFile string
	verbose    bool
	repoDir    string

	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	service  *semdiff.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "semsplit",
		Short:   "Semantic diffs and patch segmentation for TypeScript and JavaScript",
		Version: version,
		Long: `semsplit compares two versions of a source file at declaration level and
splits unified diffs into small, reviewable fragments.

TypeScript, TSX and JavaScript are parsed; every other language falls back
to a line-based diff.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger == nil {
				return
			}
			if a.verbose {
				logMetrics(a.logger, a.registry)
			}
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.repoDir, "repo", "", "Git work tree used by --staged (defaults to the current directory)")

	rootCmd.AddCommand(a.diffCmd(), a.splitCmd(), a.languagesCmd())
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.cfg = config.Default()
	if a.configFile != "" {
		cfg, err := config.LoadConfig(a.configFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	logger, err := buildLogger(a.cfg.Log, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	a.registry = prometheus.NewRegistry()
	a.service = semdiff.NewService(
		semdiff.WithLogger(logger),
		semdiff.WithMetrics(metrics.NewMetrics(a.registry)),
	)
	return nil
}

// logMetrics writes every non-zero counter in g as one debug entry.
func logMetrics(logger *zap.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		logger.Debug("failed to gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := m.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			fields := []zap.Field{zap.String("name", mf.GetName()), zap.Float64("value", value)}
			for _, label := range m.GetLabel() {
				fields = append(fields, zap.String(label.GetName(), label.GetValue()))
			}
			logger.Debug("metric", fields...)
		}
	}
}

func buildLogger(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = cfg.Format

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func (a *app) diffCmd() *cobra.Command {
	var beforePath, afterPath, language, path string
	var staged bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Report declaration-level changes between two versions of a file",
		Example: `  semsplit diff --before old/user.ts --after new/user.ts
  semsplit diff --before a.py --after b.py --language py
  semsplit diff --staged --path src/user.ts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var before, after string
			var err error
			if staged {
				if path == "" {
					return fmt.Errorf("--staged needs --path")
				}
				before, after, err = a.stagedSources(cmd, path)
			} else {
				if beforePath == "" || afterPath == "" {
					return fmt.Errorf("--before and --after are required without --staged")
				}
				before, after, err = readSources(cmd, beforePath, afterPath)
				if path == "" {
					path = afterPath
				}
			}
			if err != nil {
				return err
			}

			resp, err := a.service.SemanticDiff(types.SemanticDiffRequest{
				Before:   before,
				After:    after,
				Language: a.resolveLanguage(language, path),
				FilePath: path,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&beforePath, "before", "", "File holding the old version")
	cmd.Flags().StringVar(&afterPath, "after", "", "File holding the new version")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language tag (defaults to the configured language, then the file extension)")
	cmd.Flags().StringVar(&path, "path", "", "Logical file path reported in errors (defaults to --after)")
	cmd.Flags().BoolVar(&staged, "staged", false, "Compare the HEAD and staged versions of --path")
	cmd.MarkFlagsMutuallyExclusive("staged", "before")
	cmd.MarkFlagsMutuallyExclusive("staged", "after")
	return cmd
}

func (a *app) splitCmd() *cobra.Command {
	var patchPath, language, strategy, beforePath, afterPath, path string
	var staged bool

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a unified diff into fragments",
		Long: `Splits a unified diff into one fragment per hunk. With --strategy symbol and
both --before and --after, hunks that fall inside the same declaration of
--path are merged into a single fragment. Use "-" to read the patch from stdin.

With --staged the patch comes from the git index, and --path alone is
enough for symbol alignment. Without --path every staged file is aligned
against its own HEAD and index versions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strategy == "" {
				strategy = a.cfg.Engine.DefaultStrategy
			}
			if path == "" {
				path = afterPath
			}
			lang := a.resolveLanguage(language, path)
			haveSources := beforePath != "" && afterPath != "" || staged && path != ""

			if staged && path == "" && types.Strategy(strategy) == types.StrategySymbol {
				resp, err := a.splitStagedFiles(cmd, language)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), resp)
			}

			var text string
			var err error
			if staged {
				var paths []string
				if path != "" {
					paths = append(paths, path)
				}
				text, err = a.repo().StagedDiff(cmd.Context(), paths...)
			} else {
				text, err = readInput(cmd, patchPath)
			}
			if err != nil {
				return err
			}

			if types.Strategy(strategy) != types.StrategySymbol || !haveSources {
				resp := a.service.SplitPatch(types.SplitPatchRequest{
					Patch:    text,
					Language: lang,
					Strategy: types.Strategy(strategy),
				})
				return writeJSON(cmd.OutOrStdout(), resp)
			}

			var before, after string
			if staged {
				before, after, err = a.stagedSources(cmd, path)
			} else {
				before, after, err = readSources(cmd, beforePath, afterPath)
			}
			if err != nil {
				return err
			}

			resp, err := a.service.SplitPatchBySymbol(types.SymbolSplitRequest{
				Patch:    text,
				Before:   before,
				After:    after,
				Language: lang,
				FilePath: path,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&patchPath, "patch", "p", "-", "Unified diff file, or - for stdin")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language tag (defaults to the configured language, then the file extension)")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "Segmentation strategy: hunk or symbol (defaults to engine.default_strategy)")
	cmd.Flags().StringVar(&beforePath, "before", "", "Old version of the file, enables symbol alignment")
	cmd.Flags().StringVar(&afterPath, "after", "", "New version of the file, enables symbol alignment")
	cmd.Flags().StringVar(&path, "path", "", "Path of the file inside the patch (defaults to --after)")
	cmd.Flags().BoolVar(&staged, "staged", false, "Split the staged changes instead of --patch")
	cmd.MarkFlagsMutuallyExclusive("staged", "patch")
	cmd.MarkFlagsMutuallyExclusive("staged", "before")
	cmd.MarkFlagsMutuallyExclusive("staged", "after")
	return cmd
}

func (a *app) languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the language tags with declaration-level support",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, lang := range parser.NewParserRegistry().SupportedLanguages() {
				fmt.Fprintln(cmd.OutOrStdout(), lang)
			}
		},
	}
}

func (a *app) resolveLanguage(flagValue, path string) string {
	if flagValue != "" {
		return flagValue
	}
	if a.cfg.Engine.Language != "" {
		return a.cfg.Engine.Language
	}
	return parser.LanguageForPath(path)
}

func (a *app) repo() *gitdiff.Repo {
	return gitdiff.NewRepo(a.repoDir)
}

func (a *app) stagedSources(cmd *cobra.Command, path string) (string, string, error) {
	repo := a.repo()
	before, err := repo.HeadVersion(cmd.Context(), path)
	if err != nil {
		return "", "", err
	}
	after, err := repo.StagedVersion(cmd.Context(), path)
	if err != nil {
		return "", "", err
	}
	return before, after, nil
}

// splitStagedFiles aligns each staged file's hunks with that file's
// declarations and concatenates the fragments in git's file order.
func (a *app) splitStagedFiles(cmd *cobra.Command, language string) (types.SplitPatchResponse, error) {
	repo := a.repo()
	files, err := repo.StagedFiles(cmd.Context())
	if err != nil {
		return types.SplitPatchResponse{}, err
	}
	if len(files) == 0 {
		return a.service.SplitPatch(types.SplitPatchRequest{Strategy: types.StrategySymbol}), nil
	}

	resp := types.SplitPatchResponse{Chunks: []string{}}
	for _, file := range files {
		text, err := repo.StagedDiff(cmd.Context(), file)
		if err != nil {
			return types.SplitPatchResponse{}, err
		}
		before, after, err := a.stagedSources(cmd, file)
		if err != nil {
			return types.SplitPatchResponse{}, err
		}

		part, err := a.service.SplitPatchBySymbol(types.SymbolSplitRequest{
			Patch:    text,
			Before:   before,
			After:    after,
			Language: a.resolveLanguage(language, file),
			FilePath: file,
		})
		if err != nil {
			return types.SplitPatchResponse{}, err
		}
		resp.Chunks = append(resp.Chunks, part.Chunks...)
		resp.Degraded = resp.Degraded || part.Degraded
	}
	return resp, nil
}

func readSources(cmd *cobra.Command, beforePath, afterPath string) (string, string, error) {
	before, err := readInput(cmd, beforePath)
	if err != nil {
		return "", "", err
	}
	after, err := readInput(cmd, afterPath)
	if err != nil {
		return "", "", err
	}
	return before, after, nil
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}
