package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/readerstate/internal/app"
	"github.com/doeshing/readerstate/internal/application/state"
	"github.com/doeshing/readerstate/internal/domain"
	"github.com/doeshing/readerstate/internal/infrastructure/cli/helpers"
	"github.com/doeshing/readerstate/internal/pkg/filesystem"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recently opened documents",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryRecordCommand(container),
		newHistoryRemoveCommand(container),
		newHistoryClearCommand(container),
		newHistoryInitCommand(container),
		newHistorySetCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently opened documents, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored JSON record")
	return cmd
}

// newHistoryRecordCommand creates the 'history record' subcommand
func newHistoryRecordCommand(container *app.Container) *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "record <path>",
		Short: "Record that a document was opened",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordHistoryOpen(cmd.OutOrStdout(), container, args[0], pages)
		},
	}

	cmd.Flags().IntVar(&pages, "pages", -1, "Total pages (read from the document when omitted)")
	return cmd
}

// newHistoryRemoveCommand creates the 'history remove' subcommand
func newHistoryRemoveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an entry by id (a unique prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return removeHistoryEntry(cmd.OutOrStdout(), container, args[0])
		},
	}
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	var (
		yes bool
		all bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the document history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !helpers.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Clear document history?", yes) {
				fmt.Fprintln(cmd.OutOrStdout(), MsgCancelled)
				return nil
			}
			return clearHistory(cmd.OutOrStdout(), container, all)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&all, "all", false, "Also clear the open statistics log")
	return cmd
}

// newHistoryInitCommand creates the 'history init' subcommand
func newHistoryInitCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create pdf-history.json if it is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := helpers.GetStateService(container)
			if err != nil {
				return err
			}
			h := svc.InitHistory()
			fmt.Fprintf(cmd.OutOrStdout(), "History ready at %s (%d entries)\n", container.HistoryStore.Path(), len(h.Items))
			return nil
		},
	}
}

// newHistorySetCommand creates the 'history set' subcommand
func newHistorySetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set <file>",
		Short: "Replace the history with the items of a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return replaceHistory(cmd.OutOrStdout(), container, args[0])
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the most opened documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.OutOrStdout(), container, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryStatsLimit, "Max documents to show")
	return cmd
}

// listHistoryEntries lists recent history entries
func listHistoryEntries(out io.Writer, container *app.Container, limit int, asJSON bool) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}

	h := svc.GetHistory()
	if asJSON {
		h.Items = helpers.LimitEntries(h.Items, limit)
		return writeFormatted(out, h, FormatJSON)
	}
	if len(h.Items) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	current := now(svc)
	for _, item := range helpers.LimitEntries(h.Items, limit) {
		fmt.Fprintf(out, "%s | %s | %s | %s | %s\n",
			helpers.ShortID(item.ID),
			item.Name,
			helpers.FormatPages(item.TotalPages),
			helpers.FormatOpenTime(item.OpenedAt(), current),
			item.Path)
	}

	return nil
}

// recordHistoryOpen records a document open
func recordHistoryOpen(out io.Writer, container *app.Container, path string, pages int) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}

	var total *uint32
	if pages >= 0 {
		if uint64(pages) > math.MaxUint32 {
			return fmt.Errorf("--pages %d is out of range (max %d)", pages, uint32(math.MaxUint32))
		}
		n := uint32(pages)
		total = &n
	}

	entry, err := svc.OpenDocument(path, total)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", path, err)
	}

	fmt.Fprintf(out, "Recorded %s (%s, %s)\n", entry.Name, helpers.ShortID(entry.ID), helpers.FormatPages(entry.TotalPages))
	return nil
}

// removeHistoryEntry removes the entry whose id equals or uniquely starts with id
func removeHistoryEntry(out io.Writer, container *app.Container, id string) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}

	fullID, err := matchEntryID(svc.GetHistory(), id)
	if err != nil {
		return err
	}

	removed, err := svc.RemoveHistory(fullID)
	if err != nil {
		return fmt.Errorf("failed to remove history entry: %w", err)
	}
	if !removed {
		return fmt.Errorf("no history entry with id %s", id)
	}

	fmt.Fprintf(out, "Removed %s\n", fullID)
	return nil
}

// clearHistory clears the history file
func clearHistory(out io.Writer, container *app.Container, includeLog bool) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}

	if err := svc.ClearHistory(includeLog); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Fprintln(out, "History cleared.")
	return nil
}

// replaceHistory replaces the stored list with the one in path
func replaceHistory(out io.Writer, container *app.Container, path string) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filesystem.ExpandPath(path))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var h domain.History
	if err := json.Unmarshal(data, &h); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := svc.SetHistory(h); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	fmt.Fprintf(out, "History replaced (%d entries kept)\n", len(svc.GetHistory().Items))
	return nil
}

// showHistoryStats displays the most opened documents from the open log
func showHistoryStats(out io.Writer, container *app.Container, limit int) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}

	stats, total, err := svc.Stats(limit)
	if errors.Is(err, state.ErrNoOpenLog) {
		if container.OpenLogErr != nil {
			return fmt.Errorf("%w: %v", err, container.OpenLogErr)
		}
		return err
	}
	if err != nil {
		return err
	}

	if total == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	fmt.Fprintf(out, "Opens recorded: %s\n", helpers.FormatCount(total))
	fmt.Fprintln(out, "Top documents:")
	current := now(svc)
	for _, stat := range stats {
		fmt.Fprintf(out, "  %s (%s opens, last %s)\n    %s\n",
			stat.Name,
			helpers.FormatCount(stat.Opens),
			helpers.FormatOpenTime(stat.LastOpen, current),
			stat.Path)
	}

	return nil
}

// matchEntryID resolves an id or unique id prefix to a full entry id
func matchEntryID(h domain.History, id string) (string, error) {
	var matches []string
	for _, item := range h.Items {
		if item.ID == id {
			return id, nil
		}
		if strings.HasPrefix(item.ID, id) {
			matches = append(matches, item.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no history entry with id %s", id)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %s is ambiguous (%d entries)", id, len(matches))
	}
}

func now(svc *state.Service) time.Time {
	if svc.Clock != nil {
		return svc.Clock.Now()
	}
	return time.Now()
}
