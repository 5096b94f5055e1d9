package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mboros1/fast-pdf-parser/internal/chunker"
	"github.com/mboros1/fast-pdf-parser/internal/extractor"
	"github.com/mboros1/fast-pdf-parser/internal/output"
)

var batchOutputDir string

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Chunk every PDF in a directory, reusing one worker pool",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "./out", "directory to write <stem>_chunks.json files to")
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputDir := args[0]

	var pdfFiles []string
	err := filepath.WalkDir(inputDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			pdfFiles = append(pdfFiles, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", inputDir, err)
	}
	if len(pdfFiles) == 0 {
		fmt.Printf("No PDF files found in %s\n", inputDir)
		return nil
	}
	fmt.Printf("Found %d PDF files to process\n", len(pdfFiles))

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	chunkOpts := chunker.ChunkOptions{
		MaxTokens:     opts.maxChunkSize,
		MinTokens:     opts.minChunkSize,
		OverlapTokens: opts.overlap,
		ThreadCount:   opts.threads,
	}
	c, err := chunker.NewChunker(chunkOpts, extractor.New())
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	defer c.Close()

	// Reuses the same dispatcher pool (owned by c) for every file,
	// matching spec.md §5's "thread pool may be reused across
	// documents." Result order across documents is not guaranteed by
	// the dispatcher layer; here files are simply processed in
	// directory-walk order and each writes its own named output.
	for i, path := range pdfFiles {
		fmt.Printf("Progress: %d/%d (%d%%)\n", i+1, len(pdfFiles), (100*(i+1))/len(pdfFiles))

		result, err := c.ChunkFile(path, opts.pageLimit)
		if err != nil || (result.Err != nil) {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, errOrResult(err, result))
			continue
		}

		docling := output.BuildDoclingOutput(result, path, filepath.Base(path))
		data, err := output.Marshal(docling)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error serializing %s: %v\n", path, err)
			continue
		}

		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		outPath := filepath.Join(batchOutputDir, stem+"_chunks.json")
		sink := &output.Sink{}
		if err := sink.WriteLocal(outPath, data); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outPath, err)
			continue
		}

		fmt.Printf("Saved %d chunks to %s\n", result.TotalChunks, outPath)
	}

	stats := c.Stats()
	fmt.Println("\nProcessing Statistics:")
	fmt.Printf("Documents processed: %d\n", stats.DocumentsProcessed)
	fmt.Printf("Pages processed: %d\n", stats.PagesProcessed)
	fmt.Printf("Average processing time: %.2f ms\n", stats.AverageProcessingTimeMs)
	fmt.Printf("Pages per second: %.2f\n", stats.PagesPerSecond)

	return nil
}

func errOrResult(err error, result chunker.ChunkingResult) error {
	if err != nil {
		return err
	}
	return result.Err
}
