package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"filmlog/internal/lookupcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the title lookup cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show cached lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok, err := openCache(cmd, ctx)
			if err != nil || !ok {
				return err
			}
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "Lookup cache is empty (%s)\n", store.Path())
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				status := "live"
				if entry.Expired(store.TTL(), time.Now()) {
					status = "expired"
				}
				year := ""
				if entry.Year > 0 {
					year = strconv.Itoa(entry.Year)
				}
				rows = append(rows, []string{
					entry.Query,
					entry.Title,
					year,
					strconv.FormatInt(entry.TMDBID, 10),
					humanize.Time(entry.CachedAt),
					status,
				})
			}
			fmt.Fprintln(out, renderTable(cacheColumns, rows))
			return nil
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove TITLE",
		Short: "Forget the cached lookup for a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok, err := openCache(cmd, ctx)
			if err != nil || !ok {
				return err
			}
			title := strings.Join(args, " ")
			removed, err := store.Remove(cmd.Context(), title)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "No cached lookup for %q\n", title)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed cached lookup for %q\n", title)
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok, err := openCache(cmd, ctx)
			if err != nil || !ok {
				return err
			}
			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached lookups\n", n)
			return nil
		},
	}
}

// openCache returns the lookup cache, or ok=false after telling the user it
// is disabled.
func openCache(cmd *cobra.Command, ctx *commandContext) (*lookupcache.Store, bool, error) {
	store, err := ctx.lookupCache()
	if err != nil {
		return nil, false, fmt.Errorf("open lookup cache: %w", err)
	}
	if store == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Lookup cache is disabled (set lookup_cache.enabled = true in config.toml)")
		return nil, false, nil
	}
	return store, true, nil
}
