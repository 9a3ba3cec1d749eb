package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ericfisherdev/commentbox/internal/domain/model"
	"github.com/ericfisherdev/commentbox/internal/widget"
)

const maxExcerpt = 60

type commentJSON struct {
	ID      int64  `json:"id,omitempty"`
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	Comment string `json:"comment"`
	Time    string `json:"time,omitempty"`
}

func printCommentsJSON(out io.Writer, comments []model.RemoteComment) error {
	list := make([]commentJSON, 0, len(comments))
	for _, c := range comments {
		list = append(list, commentJSON(c))
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal comments: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func printCommentsTable(out io.Writer, comments []model.RemoteComment, now time.Time) error {
	if len(comments) == 0 {
		_, err := fmt.Fprintln(out, "no comments")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tWHEN\tCOMMENT")
	for _, c := range comments {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, widget.RelativeTime(c.Time, now), excerpt(c.Comment))
	}
	return w.Flush()
}

// excerpt returns the first line of s, shortened to maxExcerpt runes.
func excerpt(s string) string {
	line, rest, _ := strings.Cut(strings.TrimSpace(s), "\n")
	r := []rune(line)
	if len(r) > maxExcerpt {
		return string(r[:maxExcerpt-1]) + "…"
	}
	if rest != "" {
		return line + " …"
	}
	return line
}
