package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/playperu/bracket/internal/client"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current bracket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			b := a.board()
			if err := b.Load(ctx); err != nil {
				// Results are still shown without the levels dataset.
				fmt.Fprintln(a.stderr, warnStyle.Render("warning: "+err.Error()))
			}
			d := client.NewTextDisplay(client.SlotsOf(b.Snapshot())...)
			b.ApplyToDisplay(d)
			return d.Render(a.stdout)
		},
	}
}

func newTeamsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "teams <category>",
		Short: "List the candidate teams of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			b := a.board()
			if err := b.Load(ctx); err != nil {
				return err
			}
			teams := b.Teams(args[0])
			if len(teams) == 0 {
				return fmt.Errorf("no teams for category %q (known: %s)", args[0], strings.Join(b.Categories(), ", "))
			}
			for _, t := range teams {
				fmt.Fprintln(a.stdout, t)
			}
			return nil
		},
	}
}

func newSaveCmd(a *app) *cobra.Command {
	var score, field string

	cmd := &cobra.Command{
		Use:   "save <category> <slot> <team>",
		Short: "Record a result in a slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			rec, err := a.board().Save(ctx, args[0], args[1], args[2], score, field, a.key)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("saved %s/%s: %s", args[0], args[1], rec.Team)
			if rec.Score != "" {
				line += " " + rec.Score
			}
			if rec.Field != "" {
				line += " @ " + rec.Field
			}
			fmt.Fprintln(a.stdout, okStyle.Render(line))
			return nil
		},
	}
	cmd.Flags().StringVar(&score, "score", "", "Score to record")
	cmd.Flags().StringVar(&field, "field", "", "Field or terrain the match was played on")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <category> <slot>",
		Short: "Remove the result of a slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			if err := a.board().Clear(ctx, args[0], args[1], a.key); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, okStyle.Render(fmt.Sprintf("cleared %s/%s", args[0], args[1])))
			return nil
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the bracket again on every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b := a.board()
			loadCtx, cancel := context.WithTimeout(ctx, a.timeout)
			err := b.Load(loadCtx)
			cancel()
			if err != nil {
				fmt.Fprintln(a.stderr, warnStyle.Render("warning: "+err.Error()))
			}

			d := client.NewTextDisplay(client.SlotsOf(b.Snapshot())...)
			b.ApplyToDisplay(d)
			if err := d.Render(a.stdout); err != nil {
				return err
			}

			err = b.Follow(ctx, func(ch client.Change) {
				d.Track(client.SlotsOf(b.Snapshot())...)
				b.ApplyToDisplay(d)
				fmt.Fprintf(a.stdout, "\n%s\n", warnStyle.Render(fmt.Sprintf("%s %s/%s", ch.Type, ch.Category, ch.Slot)))
				d.Render(a.stdout)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
