package cmd

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates and returns the seed subcommand for the sortdedup CLI.
// It generates a tree of small files with plenty of duplicates.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		poolSize   int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a test tree full of duplicate files",
		Long: `Generate test files for trying out sortdedup.

File contents are drawn from a small pool of UUID-based payloads, so most
files have several byte-identical copies spread over YYYY/MM folders. Copies
of one payload share a modification date, except for an occasional stray
copy that makes its group inconsistent. Some copies are named like
"name (1).jpg" to exercise canonical selection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := runSeed(outputPath, fileCount, poolSize)
			if err != nil {
				return err
			}
			printSeedStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 1000, "Number of files to generate")
	cmd.Flags().IntVar(&poolSize, "pool", 50, "Number of distinct payloads")

	cmd.MarkFlagRequired("output")

	return cmd
}

type payload struct {
	content []byte
	taken   time.Time
}

type seedStats struct {
	files   int
	dirs    int
	stray   int
	renamed int
}

var seedExtensions = []string{".jpg", ".jpeg", ".dng"}

func randInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}

func newPool(size int) []payload {
	baseTime := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	pool := make([]payload, size)
	for i := range pool {
		line := uuid.New().String() + "\n"
		pool[i] = payload{
			content: []byte(strings.Repeat(line, 1+i%8)),
			taken:   baseTime.AddDate(0, 0, int(randInt(3*365))),
		}
	}
	return pool
}

func runSeed(outputPath string, fileCount, poolSize int) (seedStats, error) {
	var stats seedStats
	if poolSize <= 0 {
		return stats, fmt.Errorf("pool size must be positive, got %d", poolSize)
	}
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return stats, fmt.Errorf("failed to create output directory: %w", err)
	}

	pool := newPool(poolSize)
	dirs := make(map[string]struct{})
	lastName := make(map[string]string)

	for stats.files < fileCount {
		p := pool[randInt(int64(len(pool)))]

		taken := p.taken
		// 2% stray copies carry a different date
		stray := randInt(100) < 2
		if stray {
			taken = taken.AddDate(0, 0, 1+int(randInt(30)))
		}

		dirPath := filepath.Join(outputPath,
			fmt.Sprintf("%04d", taken.Year()), fmt.Sprintf("%02d", taken.Month()))
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return stats, fmt.Errorf("failed to create directory %s: %w", dirPath, err)
		}
		dirs[dirPath] = struct{}{}

		ext := seedExtensions[randInt(int64(len(seedExtensions)))]
		filename := fmt.Sprintf("IMG_%08x%s", randInt(0xFFFFFFFF), ext)
		// 10% are "name (1)" style copies of the last file written here
		if prev, ok := lastName[dirPath]; ok && randInt(100) < 10 {
			filename = strings.TrimSuffix(prev, filepath.Ext(prev)) + " (1)" + filepath.Ext(prev)
		}
		filePath := filepath.Join(dirPath, filename)

		if _, err := os.Stat(filePath); err == nil {
			continue
		}
		if err := os.WriteFile(filePath, p.content, 0o644); err != nil {
			return stats, fmt.Errorf("failed to write file %s: %w", filePath, err)
		}
		if err := os.Chtimes(filePath, taken, taken); err != nil {
			return stats, err
		}
		if stray {
			stats.stray++
		}
		if strings.Contains(filename, " (1)") {
			stats.renamed++
		}
		lastName[dirPath] = filename
		stats.files++

		if stats.files%1000 == 0 {
			slog.Debug("seeding", "created", stats.files, "total", fileCount)
		}
	}
	stats.dirs = len(dirs)
	return stats, nil
}

func printSeedStats(w io.Writer, stats seedStats) {
	fmt.Fprintf(w, "Successfully created %d files\n", stats.files)
	fmt.Fprintf(w, "Files distributed across %d directories\n", stats.dirs)
	fmt.Fprintf(w, "Renamed copies: %d, stray dates: %d\n", stats.renamed, stats.stray)
}
