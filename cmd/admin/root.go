package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/duynhne/vchartered/config"
	"github.com/duynhne/vchartered/internal/core"
	logicv1 "github.com/duynhne/vchartered/internal/logic/v1"
)

type app struct {
	cfg   *config.Config
	store *core.Store
	in    io.Reader
	out   io.Writer
}

func (a *app) credentials() *logicv1.CredentialStore {
	return logicv1.NewCredentialStore(a.store.Users, a.store.Results, a.store.Activity)
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "vchartered-admin",
		Short:        "Administer the V-Chartered credential store",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.store != nil {
				return nil
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			st, err := core.Open(cmd.Context(), a.cfg.Database)
			if err != nil {
				return err
			}
			a.store = st
			return nil
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)

	root.AddCommand(newMigrateCmd(a), newUserCmd(a), newLeaderboardCmd(a), newHistoryCmd(a))
	return root
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Opening the store in PersistentPreRunE already migrated it.
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", a.cfg.Database.Driver)
			return nil
		},
	}
}

func newUserCmd(a *app) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage registered users",
	}

	var email, name string
	var passwordStdin bool
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}
			if err := a.credentials().Register(cmd.Context(), email, name, password); err != nil {
				if errors.Is(err, logicv1.ErrUserExists) {
					return fmt.Errorf("%s is already registered", email)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", email)
			return nil
		},
	}
	add.Flags().StringVar(&email, "email", "", "email address (login key)")
	add.Flags().StringVar(&name, "name", "", "display name")
	add.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = add.MarkFlagRequired("email")
	_ = add.MarkFlagRequired("name")

	user.AddCommand(add)
	return user
}

func newLeaderboardCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the highest scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.credentials().TopScores(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "EMAIL\tSUBJECT\tSCORE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", e.Email, e.Subject, e.Score)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of rows")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the results of one user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.credentials().History(cmd.Context(), email)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tSUBJECT\tSCORE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", e.Date.Format("2006-01-02"), e.Subject, e.Score)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if !fromStdin {
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return "", fmt.Errorf("read password: %w", err)
			}
			return string(b), nil
		}
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
