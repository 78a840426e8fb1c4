// Package cli implements qactl, the administration tool for a campus Q&A
// store. Commands operate directly on the configured storage backend.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/campus-qa/internal/adapters/storage"
	"github.com/jsamuelsen/campus-qa/internal/app"
	"github.com/jsamuelsen/campus-qa/internal/moderation"
	"github.com/jsamuelsen/campus-qa/internal/platform/config"
	"github.com/jsamuelsen/campus-qa/internal/platform/logging"
	"github.com/jsamuelsen/campus-qa/internal/ports"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Profile   string
	ConfigDir string
	Format    string // "json" | "text"

	openStore func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.CheckedBlobStore, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the qactl root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{openStore: storage.Open})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qactl",
		Short: "Administer a campus Q&A store",
		Long: `qactl inspects and maintains the content of a campus Q&A store.

It reads the same configuration as the service (configs/, .env and APP_
variables) and works on the configured storage backend. Stop the service
before wiping or editing the banned-word list of a file or sqlite store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Profile, "profile", "p", "local", "configuration profile")
	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "configs", "directory holding base.yaml and profile files")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newStatsCommand(opts))
	cmd.AddCommand(newWipeCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newBannedCommand(opts))
	cmd.AddCommand(newHashPasswordCommand())

	return cmd
}

// session is an opened backend with the store and word list loaded.
type session struct {
	blobs ports.CheckedBlobStore
	store *app.ContentStore
	words *app.BannedWords
}

func (s *session) Close() error {
	return s.blobs.Close()
}

func openSession(ctx context.Context, opts *RootOptions, errOut io.Writer) (*session, error) {
	cfg, err := config.LoadWithOptions(opts.Profile, config.Options{Dir: opts.ConfigDir})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   "warn",
		Format:  "text",
		Service: "qactl",
		Version: cfg.App.Version,
	}, errOut)

	blobs, err := opts.openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Store.Backend, err)
	}

	store := app.NewContentStore(app.ContentStoreConfig{Blobs: blobs, StrictReplies: cfg.Store.StrictReplies, Logger: logger})
	words := app.NewBannedWords(app.BannedWordsConfig{
		List:   moderation.NewWordList(moderation.DefaultWords...),
		Blobs:  blobs,
		Logger: logger,
	})

	if err := store.Init(ctx); err != nil {
		_ = blobs.Close()
		return nil, err
	}

	if err := words.Load(ctx); err != nil {
		_ = blobs.Close()
		return nil, err
	}

	return &session{blobs: blobs, store: store, words: words}, nil
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(*session) error) error {
	s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return fn(s)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
