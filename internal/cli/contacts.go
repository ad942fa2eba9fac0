package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/internal/config"
	"github.com/matzehuels/masonry/internal/contacts"
)

// contactsCommand creates the command listing stored contact submissions.
func (c *CLI) contactsCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List contact form submissions",
		Long: `List contact form submissions received by the API, newest first.

Submissions are only persisted with the mongo contact store; the memory
store lives inside the running server process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.config.Contacts.Store != config.StoreMongo {
				printInfo("Contacts are kept in memory by the running server")
				printDetail("Set contacts.store = %q in the config to persist them", config.StoreMongo)
				return nil
			}
			store, err := c.newContactStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open contact store: %w", err)
			}
			defer store.Close(context.WithoutCancel(cmd.Context()))
			return listContacts(cmd.Context(), store, cmd.OutOrStdout(), limit, asJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of contacts (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func listContacts(ctx context.Context, store contacts.Store, w io.Writer, limit int, asJSON bool) error {
	list, err := store.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(w, StyleDim.Render("No contacts yet"))
		return nil
	}

	rows := make([][]string, len(list))
	for i, ct := range list {
		rows[i] = []string{ct.ID, ct.ReceivedAt.Format("2006-01-02 15:04"), summarize(ct.Data)}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Received", "Data").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
	return nil
}

// summarize renders form fields as "key=value" pairs in key order.
func summarize(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, data[k])
	}
	return strings.Join(parts, " ")
}
