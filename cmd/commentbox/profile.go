package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// Profile holds the defaults saved by "commentbox profile set".
type Profile struct {
	ServerURL string `toml:"server_url"`
	Name      string `toml:"name,omitempty"`
}

func profilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "commentbox", "profile.toml"), nil
}

// loadProfile returns the saved profile, or an empty one when none exists.
func loadProfile() (Profile, error) {
	path, err := profilePath()
	if err != nil {
		return Profile{}, err
	}
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	return p, nil
}

func saveProfile(p Profile) error {
	path, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	return writeProfile(f, p)
}

// writeProfile encodes p to w and closes it. A failed close is reported
// since the profile may not have reached disk.
func writeProfile(w io.WriteCloser, p Profile) error {
	if err := toml.NewEncoder(w).Encode(p); err != nil {
		_ = w.Close()
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close profile: %w", err)
	}
	return nil
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the saved server URL and display name",
		// Profile subcommands are local file operations; skip building a client.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}

	setCmd := &cobra.Command{
		Use:   "set <server-url>",
		Short: "Save the default server URL and, optionally, display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("server URL must be an absolute http(s) URL, got %q", args[0])
			}

			p, err := loadProfile()
			if err != nil {
				return err
			}
			p.ServerURL = args[0]
			if cmd.Flags().Changed("name") {
				p.Name, _ = cmd.Flags().GetString("name")
			}
			if err := saveProfile(p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile saved (%s)\n", p.ServerURL)
			return nil
		},
	}
	setCmd.Flags().String("name", "", "default display name for posted comments")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			if p.ServerURL == "" && p.Name == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no profile saved")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "server\t%s\n", p.ServerURL)
			fmt.Fprintf(w, "name\t%s\n", p.Name)
			return w.Flush()
		},
	}

	cmd.AddCommand(setCmd, showCmd)
	return cmd
}
