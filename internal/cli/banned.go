package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newBannedCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banned",
		Short: "Manage the banned-word list",
		Long: `Manage the persisted banned-word list. Changes apply to content written
afterwards; stored questions and replies are not re-filtered.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the banned words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(s *session) error {
				words := s.words.Words()

				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), words)
				}

				_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(words, "\n"))

				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <word>...",
		Short: "Ban words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				for _, w := range args {
					report(cmd, w, s.words.Add(cmd.Context(), w), "added", "already banned")
				}

				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <word>...",
		Short: "Unban words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				for _, w := range args {
					report(cmd, w, s.words.Remove(cmd.Context(), w), "removed", "not banned")
				}

				return nil
			})
		},
	})

	return cmd
}

func report(cmd *cobra.Command, word string, changed bool, yes, no string) {
	status := no
	if changed {
		status = yes
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", word, status)
}

// ErrEmptyPassword is returned by hash-password for blank input.
var ErrEmptyPassword = errors.New("password must not be empty")

func newHashPasswordCommand() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for admin.password_hash",
		Long: `Print a bcrypt hash for admin.password_hash. Without an argument the
password is read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string

			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}

				password = strings.TrimRight(line, "\r\n")
			}

			if password == "" {
				return ErrEmptyPassword
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))

			return err
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	return cmd
}
