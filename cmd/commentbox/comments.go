package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/commentbox/internal/widget"
)

// mount creates a widget for ref and loads its thread.
func (a *app) mount(cmd *cobra.Command, ref string) (*widget.Widget, error) {
	w, err := widget.New(a.client, ref, a.logger)
	if err != nil {
		return nil, err
	}
	if err := w.OnMount(cmd.Context()); err != nil {
		return nil, err
	}
	return w, nil
}

func (a *app) printState(out io.Writer, s widget.State) error {
	if a.jsonOutput {
		return printCommentsJSON(out, s.Comments)
	}
	return printCommentsTable(out, s.Comments, time.Now())
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <ref>",
		Short: "List the comments of a thread, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.mount(cmd, args[0])
			if err != nil {
				return err
			}
			return a.printState(cmd.OutOrStdout(), w.Snapshot())
		},
	}
}

func newPostCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post <ref> [markdown...]",
		Short: "Post a comment; the body is read from stdin when no words are given",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := strings.Join(args[1:], " ")
			if len(args) == 1 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read comment from stdin: %w", err)
				}
				body = string(data)
			}

			name, _ := cmd.Flags().GetString("name")
			if !cmd.Flags().Changed("name") {
				if p, err := loadProfile(); err == nil {
					name = p.Name
				}
			}

			w, err := widget.New(a.client, args[0], a.logger)
			if err != nil {
				return err
			}
			// Posting does not depend on the loaded thread; Submit refreshes it.
			if err := w.OnMount(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			w.UpdateDraftName(name)
			w.UpdateDraftComment(body)
			if err := w.Submit(cmd.Context()); err != nil {
				return err
			}
			return a.printState(cmd.OutOrStdout(), w.Snapshot())
		},
	}
	cmd.Flags().StringP("name", "n", "", "display name (defaults to the profile name)")
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render <ref>",
		Short: "Print the widget HTML for a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := widget.New(a.client, args[0], a.logger)
			if err != nil {
				return err
			}
			// A failed load renders as an inline notice.
			_ = w.OnMount(cmd.Context())

			if err := w.Render(widget.RenderOptions{}).Render(cmd.Context(), cmd.OutOrStdout()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout())
			return err
		},
	}
}
