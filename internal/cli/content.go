package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/campus-qa/internal/app"
	"github.com/jsamuelsen/campus-qa/internal/domain"
	"github.com/jsamuelsen/campus-qa/internal/ports"
)

// StatsResult is the output of stats.
type StatsResult struct {
	app.Stats

	BannedWords int `json:"bannedWords"`
}

func newStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(s *session) error {
				res := StatsResult{Stats: s.store.Stats(), BannedWords: len(s.words.Words())}

				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), res)
				}

				_, err := fmt.Fprintf(cmd.OutOrStdout(), "questions:    %d\nreplies:      %d\ntags:         %d\nbanned words: %d\n",
					res.Questions, res.Replies, res.Tags, res.BannedWords)

				return err
			})
		},
	}
}

// ErrNotConfirmed is returned by wipe without --yes.
var ErrNotConfirmed = errors.New("refusing to wipe without --yes")

func newWipeCommand(opts *RootOptions) *cobra.Command {
	var yes, purge bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all questions, replies and tags",
		Long: `Delete all questions, replies and tags. This cannot be undone.

The banned-word list is kept. With --purge the collection keys are deleted
from the backend instead of left as empty arrays, so the next start seeds
the default tags again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return ErrNotConfirmed
			}

			return withSession(cmd, opts, func(s *session) error {
				before := s.store.Stats()
				s.store.ClearAll(cmd.Context())

				if err := s.store.Flush(cmd.Context()); err != nil {
					return err
				}

				if purge {
					if err := purgeKeys(cmd.Context(), s.blobs, app.CollectionKeys); err != nil {
						return err
					}
				}

				_, err := fmt.Fprintf(cmd.OutOrStdout(), "wiped %d questions, %d replies, %d tags\n",
					before.Questions, before.Replies, before.Tags)

				return err
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	cmd.Flags().BoolVar(&purge, "purge", false, "delete the stored keys")

	return cmd
}

func purgeKeys(ctx context.Context, blobs ports.BlobStore, keys []string) error {
	var errs []error

	for _, key := range keys {
		if err := blobs.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("deleting %s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

// Export is the document written by export.
type Export struct {
	Questions   []domain.Question `json:"questions"`
	Replies     []domain.Reply    `json:"replies"`
	Tags        []string          `json:"tags"`
	BannedWords []string          `json:"bannedWords"`
}

func newExportCommand(opts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all content as one JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(s *session) error {
				doc := Export{
					Questions:   s.store.Questions(),
					Replies:     s.store.Replies(),
					Tags:        s.store.Tags(),
					BannedWords: s.words.Words(),
				}

				if output == "" || output == "-" {
					return writeJSON(cmd.OutOrStdout(), doc)
				}

				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}

				if err := writeJSON(f, doc); err != nil {
					_ = f.Close()
					return err
				}

				return f.Close()
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")

	return cmd
}
