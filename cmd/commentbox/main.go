// Command commentbox is a terminal client for a comment service. It drives the
// same widget the web host serves: list a thread, post to it, or print the
// widget's HTML.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/commentbox/internal/adapter/driven/commentapi"
)

const defaultServerURL = "http://localhost:8080"

// app carries the persistent flag values and the client built from them.
type app struct {
	serverURL  string
	jsonOutput bool
	debug      bool

	client *commentapi.Client
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// defaultServer picks the server URL from the saved profile, then
// COMMENTBOX_SERVER_URL, then the local default.
func defaultServer() string {
	if p, err := loadProfile(); err == nil && p.ServerURL != "" {
		return p.ServerURL
	}
	if s := os.Getenv("COMMENTBOX_SERVER_URL"); s != "" {
		return s
	}
	return defaultServerURL
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "commentbox <command>",
		Short:         "CLI client for a commentbox comment service",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelError
			if a.debug {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			c, err := commentapi.NewClient(a.serverURL, commentapi.DefaultTimeout)
			if err != nil {
				return fmt.Errorf("invalid --server: %w", err)
			}
			a.client = c
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.serverURL, "server", defaultServer(), "comment service base URL")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "output as JSON")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log widget activity to stderr")

	root.AddCommand(
		newListCmd(a),
		newPostCmd(a),
		newRenderCmd(a),
		newProfileCmd(),
	)

	return root
}
