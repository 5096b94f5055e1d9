package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mboros1/fast-pdf-parser/internal/analyze"
	"github.com/mboros1/fast-pdf-parser/internal/chunker"
	"github.com/mboros1/fast-pdf-parser/internal/extractor"
	"github.com/mboros1/fast-pdf-parser/internal/output"
)

const version = "0.1.0"

var opts struct {
	input        string
	outputPath   string
	maxChunkSize int
	minChunkSize int
	overlap      int
	pageLimit    int
	threads      int
	verbose      bool
	quiet        bool
	noAnalyze    bool
	s3Bucket     string
	s3Region     string
}

var rootCmd = &cobra.Command{
	Use:     "chunkpdf",
	Short:   "Convert a PDF into token-bounded, LLM-ready text chunks",
	Version: version,
	RunE:    runChunk,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "input PDF path (required)")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "output JSON path (default: <input-stem>_chunks.json)")
	flags.IntVar(&opts.maxChunkSize, "max-chunk-size", 512, "maximum tokens per chunk")
	flags.IntVar(&opts.minChunkSize, "min-chunk-size", 150, "minimum tokens per chunk")
	flags.IntVar(&opts.overlap, "overlap", 0, "overlap tokens carried between adjacent chunks")
	flags.IntVar(&opts.pageLimit, "page-limit", 0, "maximum pages to read (0 = unbounded)")
	flags.IntVar(&opts.threads, "threads", 0, "worker threads (0 = hardware default)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "quiet mode: emit a single result line")
	flags.BoolVar(&opts.noAnalyze, "no-analyze", false, "skip the chunk distribution analysis")
	flags.StringVar(&opts.s3Bucket, "s3-bucket", "", "optional S3 bucket to additionally upload output to")
	flags.StringVar(&opts.s3Region, "s3-region", "", "S3 region (defaults to us-east-1)")

	rootCmd.AddCommand(batchCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func runChunk(cmd *cobra.Command, args []string) error {
	if opts.input == "" {
		return fmt.Errorf("--input is required")
	}

	log := newLogger()
	outPath := opts.outputPath
	if outPath == "" {
		outPath = defaultOutputPath(opts.input)
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

	log.Debug("chunking", "input", opts.input, "output", outPath)
	result, err := c.ChunkFile(opts.input, opts.pageLimit)
	if err != nil {
		return fmt.Errorf("chunk_file: %w", err)
	}
	if result.Err != nil {
		return fmt.Errorf("chunk_file: %w", result.Err)
	}

	docling := output.BuildDoclingOutput(result, opts.input, filepath.Base(opts.input))
	data, err := output.Marshal(docling)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	sink := &output.Sink{S3Bucket: opts.s3Bucket, S3Region: opts.s3Region, S3Key: filepath.Base(outPath)}
	if err := sink.WriteLocal(outPath, data); err != nil {
		return err
	}
	if err := sink.WriteS3(cmd.Context(), data); err != nil {
		log.Warn("s3 upload failed", "error", err)
	}

	if opts.quiet {
		fmt.Printf("SUCCESS|%s|%d|%d|%.0f\n", opts.input, result.TotalPages, result.TotalChunks, result.ProcessingTimeMs)
		return nil
	}

	fmt.Printf("Created %d chunks from %d pages\n", result.TotalChunks, result.TotalPages)
	fmt.Printf("Total time: %.0fms\n", result.ProcessingTimeMs)
	fmt.Printf("Output: %s\n", outPath)

	if !opts.noAnalyze {
		dist := analyze.Analyze(result.Chunks)
		fmt.Print(analyze.Report(dist))
	}

	return nil
}

func defaultOutputPath(input string) string {
	dir := filepath.Dir(input)
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, stem+"_chunks.json")
}
