// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/lightbox/internal/models"
	"github.com/tomtom215/lightbox/internal/prioritize"
)

// newScanCmd creates the scan subcommand.
func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the library roots once",
		Long:  "Index every configured root, mark vanished files as deleted and print the report as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(cfg.Library.Roots) == 0 {
				return fmt.Errorf("no library roots configured: set MEDIA_ROOTS")
			}

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.scanner.Scan(ctx)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
}

// rankedFile is one line of rank output.
type rankedFile struct {
	Idx        int    `json:"idx"`
	ID         int64  `json:"id"`
	Path       string `json:"path,omitempty"`
	ViewCount  int    `json:"view_count"`
	LikeCount  int    `json:"like_count"`
	LastViewed string `json:"last_viewed,omitempty"`
}

// newRankCmd creates the rank subcommand.
func newRankCmd() *cobra.Command {
	var (
		algorithm       string
		excludeDisliked bool
		filter          models.MediaFilter
		limit           int
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print an order for the library",
		Long:  "Rank the live files matching the filter with a strategy and print the order as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			// Reject unknown strategies before touching the database.
			strategy, err := prioritize.ParseStrategy(algorithm)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if algorithm == "" {
				strategy = cfg.Prioritize.Strategy()
			}
			if !cmd.Flags().Changed("exclude-disliked") {
				excludeDisliked = cfg.Prioritize.ExcludeDisliked
			}

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return rank(ctx, cmd.OutOrStdout(), a, filter, strategy, excludeDisliked, limit)
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Ordering strategy (see 'lightbox strategies')")
	cmd.Flags().BoolVar(&excludeDisliked, "exclude-disliked", true, "Drop disliked files from the order")
	cmd.Flags().StringVarP(&filter.Folder, "folder", "f", "", "Restrict to a folder")
	cmd.Flags().BoolVarP(&filter.Recursive, "recursive", "r", false, "Include files below the folder")
	cmd.Flags().StringVarP(&filter.MediaType, "type", "t", "", "Restrict to image or video")
	cmd.Flags().StringVar(&filter.Tag, "tag", "", "Restrict to files carrying a tag")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of entries, 0 for all")

	return cmd
}

func rank(ctx context.Context, w io.Writer, a *app, filter models.MediaFilter, strategy prioritize.Strategy, excludeDisliked bool, limit int) error {
	candidates, err := a.db.GetCandidates(ctx, filter)
	if err != nil {
		return err
	}

	order, err := a.engine.Randomize(candidates, strategy, excludeDisliked)
	if err != nil {
		return err
	}
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	files, err := a.db.GetMediaFilesByID(ctx, prioritize.IDs(order))
	if err != nil {
		return err
	}

	out := make([]rankedFile, 0, len(order))
	for _, e := range order {
		line := rankedFile{Idx: e.Idx, ID: e.ID}
		if f, ok := files[e.ID]; ok {
			line.Path = f.Path
			line.ViewCount = f.ViewCount
			line.LikeCount = f.LikeCount
			if f.LastViewed != nil {
				line.LastViewed = f.LastViewed.UTC().Format(time.RFC3339)
			}
		}
		out = append(out, line)
	}
	return writeJSON(w, out)
}

// newStrategiesCmd creates the strategies subcommand.
func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the ordering strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDETERMINISTIC\tDESCRIPTION")
			for _, s := range prioritize.Strategies() {
				fmt.Fprintf(tw, "%s\t%t\t%s\n", s, s.Deterministic(), s.Description())
			}
			return tw.Flush()
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
