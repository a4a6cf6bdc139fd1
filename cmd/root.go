package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayoubbkt/airecruitaipme/internal/agent"
	"github.com/ayoubbkt/airecruitaipme/internal/config"
	"github.com/ayoubbkt/airecruitaipme/internal/logger"
)

const (
	app = "cvanalyzer"
)

var (
	// Used for flags.
	cfgFile string
	envFile string

	v = config.NewViper()

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "cvanalyzer extracts, scores and annotates résumés against a job description",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cvanalyzer.yaml in current directory)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "a dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("tagger", "", "tagger backend: prose or vertex")
	rootCmd.PersistentFlags().String("embedder", "", "embedder backend: ngram, vertex, gemini or none")
	rootCmd.PersistentFlags().String("vocabulary", "", "YAML file overriding the built-in vocabularies")

	v.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	v.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("json"))
	v.BindPFlag("nlp.tagger", rootCmd.PersistentFlags().Lookup("tagger"))
	v.BindPFlag("nlp.embedder", rootCmd.PersistentFlags().Lookup("embedder"))
	v.BindPFlag("vocabulary_file", rootCmd.PersistentFlags().Lookup("vocabulary"))
}

// setup loads the configuration and builds the logger
func setup() (*config.Config, *zap.Logger, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.ApplyToEnv()

	// stdout is reserved for command output
	l := logger.New(rootCmd.ErrOrStderr(), cfg.Log.JSON, cfg.Log.Debug)
	return cfg, l, nil
}

// newAnalyzer builds the NLP service, the progress store and the
// analyzer. The returned cleanup releases all of them.
func newAnalyzer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*agent.Analyzer, func(), error) {
	svc, err := agent.NewService(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := agent.NewProgressStore(ctx, cfg)
	if err != nil {
		svc.Close()
		return nil, nil, err
	}

	analyzer, err := agent.FromConfig(cfg, svc, store, l)
	if err != nil {
		store.Close()
		svc.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			l.Warn("failed to close progress store", zap.Error(err))
		}
		if err := svc.Close(); err != nil {
			l.Warn("failed to close NLP service", zap.Error(err))
		}
		_ = l.Sync()
	}

	l.Info("pipeline ready",
		zap.String("tagger", cfg.NLP.Tagger),
		zap.String("embedder", cfg.NLP.Embedder),
		zap.String("progress", cfg.Progress.Backend),
	)
	return analyzer, cleanup, nil
}
