package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/sortdedup/preview"
	"github.com/dendrascience/sortdedup/util"
	"github.com/dendrascience/sortdedup/version"
	"github.com/spf13/cobra"
)

// NewPreviewCmd creates and returns the preview subcommand for the sortdedup CLI.
// It mounts the planned output layout read-only without applying it.
func NewPreviewCmd() *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:   "preview MOUNTPOINT",
		Short: "Mount the planned output layout read-only",
		Long: `Plan a sort run and mount the resulting output tree at MOUNTPOINT.

Nothing is copied or moved: the mounted tree shows where every file would go,
and reading a file serves the bytes of its source. Press Ctrl-C to unmount.

MOUNTPOINT must not be inside, or contain, the input or output root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			return runPreview(cmd.Context(), cfg, args[0])
		},
	}

	flags.register(cmd)

	return cmd
}

func runPreview(ctx context.Context, cfg util.Config, mountpoint string) error {
	for _, root := range []string{cfg.Input, cfg.Output} {
		if pathsOverlap(mountpoint, root) {
			return fmt.Errorf("mountpoint %s overlaps %s", mountpoint, root)
		}
	}

	decisions, inconsistencies, err := util.PlanAll(ctx, cfg)
	if err != nil {
		return err
	}
	for _, inc := range inconsistencies {
		slog.Warn("group is not consistent, left out of the preview",
			"class", inc.ClassID, "files", len(inc.Members))
	}

	output, err := filepath.Abs(cfg.Output)
	if err != nil {
		return err
	}
	filesystem, err := preview.NewFS(output, decisions)
	if err != nil {
		return err
	}

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("sortdedup"),
		fuse.Subtype("sortdedup"),
		fuse.ReadOnly(),
	)
	if err != nil {
		return err
	}
	defer c.Close()

	go func() {
		<-ctx.Done()
		slog.Info("received interrupt signal, unmounting", "mountpoint", mountpoint)
		if err := fuse.Unmount(mountpoint); err != nil {
			slog.Error("unmount failed", "mountpoint", mountpoint, "error", err)
		}
	}()

	slog.Info("preview mounted",
		"version", version.GetVersion(),
		"mountpoint", mountpoint,
		"files", len(decisions),
		"output", output,
	)
	return fs.Serve(c, filesystem)
}

// pathsOverlap reports whether one path is the same as, or nested in, the other.
func pathsOverlap(path1, path2 string) bool {
	abs1, err := filepath.Abs(path1)
	if err != nil {
		return false
	}
	abs2, err := filepath.Abs(path2)
	if err != nil {
		return false
	}
	return util.IsWithin(abs1, abs2) || util.IsWithin(abs2, abs1)
}
