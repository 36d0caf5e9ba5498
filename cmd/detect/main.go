package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/disintegration/imaging"

	"github.com/anime-shed/ai-image-detector/internal/config"
	"github.com/anime-shed/ai-image-detector/internal/container"
	"github.com/anime-shed/ai-image-detector/internal/logger"
)

const sampleSize = 512

func main() {
	os.Exit(run())
}

func run() int {
	var (
		dirPath    = flag.String("dir", "", "Analyze every supported image in a directory")
		samplePath = flag.String("sample", "", "Write the gradient sample image to this path and analyze it")
		jsonOutput = flag.Bool("json", false, "Print raw JSON instead of the report")
		configPath = flag.String("write-config", "", "Write the effective detector config as YAML to this path")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  detect [flags] <image>...")
		fmt.Fprintln(os.Stderr, "  detect -dir <directory>")
		fmt.Fprintln(os.Stderr, "  detect -sample sample_test.png")
		fmt.Fprintln(os.Stderr, "  detect -write-config detector.yaml")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger.UseText(os.Stderr)
	if os.Getenv("LOG_LEVEL") == "" {
		logger.SetLevel("warn")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorColor("[-]"), err)
		return 1
	}
	c, err := container.NewContainer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorColor("[-]"), err)
		return 1
	}
	defer c.Close()

	if *configPath != "" {
		if err := c.WriteDetectorConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "%s writing detector config: %v\n", errorColor("[-]"), err)
			return 1
		}
		if !*jsonOutput {
			fmt.Printf("%s Wrote detector config: %s\n", lowColor("[+]"), *configPath)
		}
	}

	paths := flag.Args()
	if *samplePath != "" {
		if err := imaging.Save(sampleImage(sampleSize, sampleSize), *samplePath); err != nil {
			fmt.Fprintf(os.Stderr, "%s writing sample image: %v\n", errorColor("[-]"), err)
			return 1
		}
		if !*jsonOutput {
			fmt.Printf("%s Created sample image: %s\n", lowColor("[+]"), *samplePath)
		}
		paths = append(paths, *samplePath)
	}
	if *dirPath != "" {
		found, err := collectImages(*dirPath, c.Uploads())
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s reading directory: %v\n", errorColor("[-]"), err)
			return 1
		}
		if len(found) == 0 {
			fmt.Fprintf(os.Stderr, "%s no supported images in %s\n", warningColor("[!]"), *dirPath)
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		if *configPath != "" {
			return 0
		}
		flag.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	items := c.Service().AnalyzeFiles(ctx, paths)

	failed := 0
	for _, item := range items {
		if item.Error != "" {
			failed++
		}
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorColor("[-]"), err)
			return 1
		}
	} else {
		for _, item := range items {
			if item.Response == nil {
				writeError(os.Stderr, item)
				continue
			}
			writeReport(os.Stdout, item.Path, item.Response)
		}
		if *dirPath != "" || len(items) > 1 {
			writeSummary(os.Stdout, items)
		}
	}

	if failed > 0 {
		return 1
	}
	return 0
}
