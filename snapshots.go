package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"Brackenhold/internal/config"
	"Brackenhold/internal/store"
	"Brackenhold/internal/worldfile"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List saved worlds, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch cfg.Storage.Kind {
		case config.StorageBolt:
			archive, err := store.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer archive.Close()
			snaps, err := archive.List()
			if err != nil {
				return err
			}
			for _, snap := range snaps {
				digest := snap.Digest
				if len(digest) > 16 {
					digest = digest[:16]
				}
				fmt.Fprintf(out, "%s  %8d bytes  %s\n", snap.Saved.Format(time.RFC3339), snap.Size, digest)
			}
			fmt.Fprintf(out, "%d snapshots in %s\n", len(snaps), archive.Path())
		default:
			dir := worldfile.NewDir(cfg.Storage.Path)
			names, err := dir.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(out, filepath.Join(dir.Path(), name))
			}
			fmt.Fprintf(out, "%d saves in %s\n", len(names), dir.Path())
		}
		return nil
	},
}
