// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/canonica"
	"github.com/poiesic/canonica/core"
	"github.com/poiesic/canonica/ingest"
	"github.com/poiesic/canonica/tei"
	"github.com/poiesic/canonica/verify"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	app := &cli.App{
		Name:  "canonica",
		Usage: "Multi-source podcast episode ingestion and conflict resolution",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:  "series",
				Usage: "Manage series profiles",
				Subcommands: []*cli.Command{
					{
						Name:   "create",
						Usage:  "Create a series profile from a YAML spec",
						Action: seriesCreateCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "file",
								Aliases:  []string{"f"},
								Usage:    "Path to the series profile YAML file",
								Required: true,
							},
						},
					},
					{
						Name:   "show",
						Usage:  "Print a series profile and its weighting configuration",
						Action: seriesShowCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "slug",
								Aliases:  []string{"s"},
								Usage:    "Slug of the series profile",
								Required: true,
							},
						},
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Ingest a manifest of raw sources as one canonical episode",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "series",
						Aliases:  []string{"s"},
						Usage:    "Slug of the series to ingest into",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "manifest",
						Aliases:  []string{"m"},
						Usage:    "Path to the ingestion manifest YAML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "requested-by",
						Usage: "Identity of the requesting operator",
					},
				},
			},
			{
				Name:  "episode",
				Usage: "Inspect persisted canonical episodes",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print a canonical episode and its provenance",
						Action: episodeShowCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "id",
								Usage:    "Episode UUID",
								Required: true,
							},
						},
					},
					{
						Name:   "list",
						Usage:  "List the canonical episodes of a series",
						Action: episodeListCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "series",
								Aliases:  []string{"s"},
								Usage:    "Slug of the series to list",
								Required: true,
							},
						},
					},
				},
			},
			{
				Name:   "verify",
				Usage:  "Audit persisted records against the durable invariants",
				Action: verifyCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to scan in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// seriesSpec is the YAML shape accepted by `series create`.
type seriesSpec struct {
	Slug        string         `yaml:"slug"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Weighting   *weightingSpec `yaml:"weighting"`
}

// weightingSpec overrides weighting coefficients. Pointer fields keep
// absent keys distinguishable from explicit zeros.
type weightingSpec struct {
	QualityCoefficient     *float64 `yaml:"quality_coefficient"`
	FreshnessCoefficient   *float64 `yaml:"freshness_coefficient"`
	ReliabilityCoefficient *float64 `yaml:"reliability_coefficient"`
}

// configuration converts the spec's weighting section into a series
// configuration map. Returns nil when no weighting was specified.
func (s *seriesSpec) configuration() map[string]any {
	if s.Weighting == nil {
		return nil
	}
	weighting := map[string]any{}
	if s.Weighting.QualityCoefficient != nil {
		weighting["quality_coefficient"] = *s.Weighting.QualityCoefficient
	}
	if s.Weighting.FreshnessCoefficient != nil {
		weighting["freshness_coefficient"] = *s.Weighting.FreshnessCoefficient
	}
	if s.Weighting.ReliabilityCoefficient != nil {
		weighting["reliability_coefficient"] = *s.Weighting.ReliabilityCoefficient
	}
	return map[string]any{ingest.WeightingConfigKey: weighting}
}

func loadSeriesSpec(path string) (*seriesSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read series spec: %w", err)
	}

	var spec seriesSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse series spec: %w", err)
	}
	if spec.Slug == "" {
		return nil, fmt.Errorf("series spec is missing a slug")
	}
	if spec.Title == "" {
		return nil, fmt.Errorf("series spec is missing a title")
	}

	return &spec, nil
}

// ingestManifest is the YAML shape accepted by `ingest`.
type ingestManifest struct {
	Sources []manifestSource `yaml:"sources"`
}

// manifestSource is one raw source in a manifest. Content comes either
// from the file key (a path resolved against the manifest's directory)
// or from the inline content key, never both.
type manifestSource struct {
	Type        string         `yaml:"type"`
	URI         string         `yaml:"uri"`
	File        string         `yaml:"file"`
	Content     string         `yaml:"content"`
	SubmittedBy string         `yaml:"submitted_by"`
	Metadata    map[string]any `yaml:"metadata"`
}

func loadManifestSources(path string) ([]ingest.RawSourceInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest ingestManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(manifest.Sources) == 0 {
		return nil, fmt.Errorf("manifest contains no sources")
	}

	baseDir := filepath.Dir(path)
	inputs := make([]ingest.RawSourceInput, 0, len(manifest.Sources))
	for i, source := range manifest.Sources {
		if source.URI == "" {
			return nil, fmt.Errorf("source %d is missing a uri", i)
		}
		if source.File != "" && source.Content != "" {
			return nil, fmt.Errorf("source %d sets both file and content", i)
		}

		content := source.Content
		if source.File != "" {
			filePath := source.File
			if !filepath.IsAbs(filePath) {
				filePath = filepath.Join(baseDir, filePath)
			}
			raw, err := os.ReadFile(filePath)
			if err != nil {
				return nil, fmt.Errorf("failed to read source %d content: %w", i, err)
			}
			content = string(raw)
		}
		if content == "" {
			return nil, fmt.Errorf("source %d has no content", i)
		}

		inputs = append(inputs, ingest.RawSourceInput{
			SourceType:  core.SourceType(source.Type),
			SourceURI:   source.URI,
			Content:     content,
			Metadata:    source.Metadata,
			SubmittedBy: source.SubmittedBy,
			OrderIndex:  i,
		})
	}

	return inputs, nil
}

func openArchive(c *cli.Context) (*canonica.Archive, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	archive, err := canonica.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return archive, nil
}

func seriesCreateCommand(c *cli.Context) error {
	ctx := context.Background()

	spec, err := loadSeriesSpec(c.String("file"))
	if err != nil {
		return err
	}

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	profile, err := archive.CreateSeries(ctx, spec.Slug, spec.Title, spec.Description, spec.configuration())
	if err != nil {
		return fmt.Errorf("failed to create series: %w", err)
	}

	fmt.Printf("Created series %s (%s)\n", profile.Slug, profile.Id)
	return nil
}

func seriesShowCommand(c *cli.Context) error {
	ctx := context.Background()

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	profile, err := archive.Series().GetSeriesProfileBySlug(ctx, c.String("slug"))
	if err != nil {
		return fmt.Errorf("failed to load series: %w", err)
	}

	weighting, err := ingest.ParseWeightingConfig(profile.Configuration)
	if err != nil {
		return fmt.Errorf("failed to parse weighting configuration: %w", err)
	}

	fmt.Printf("Slug:        %s\n", profile.Slug)
	fmt.Printf("Id:          %s\n", profile.Id)
	fmt.Printf("Title:       %s\n", profile.Title)
	if profile.Description != "" {
		fmt.Printf("Description: %s\n", profile.Description)
	}
	fmt.Printf("Created:     %s\n", profile.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Weighting:   quality=%.2f freshness=%.2f reliability=%.2f\n",
		weighting.QualityCoefficient, weighting.FreshnessCoefficient, weighting.ReliabilityCoefficient)
	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	sources, err := loadManifestSources(c.String("manifest"))
	if err != nil {
		return err
	}

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	seriesSlug := c.String("series")
	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Series: %s\n", seriesSlug)
	fmt.Fprintf(os.Stderr, "Sources: %d\n", len(sources))
	fmt.Fprintln(os.Stderr)

	episode, err := archive.IngestMultiSource(ctx, ingest.MultiSourceRequest{
		SeriesSlug:  seriesSlug,
		RequestedBy: c.String("requested-by"),
		RawSources:  sources,
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Episode: %s\n", episode.Id)
	fmt.Printf("Title:   %s\n", episode.Title)

	documents, err := archive.Sources().ListSourcesByEpisode(ctx, episode.Id)
	if err != nil {
		return fmt.Errorf("failed to list episode sources: %w", err)
	}
	if notes := resolutionNotes(documents); notes != "" {
		fmt.Printf("Notes:   %s\n", notes)
	}

	if err := printProvenance(ctx, archive, episode); err != nil {
		return err
	}
	return nil
}

// resolutionNotes recovers the resolver's notes from the audit summary
// stored on the episode's source documents. Every document of one job
// carries the same notes.
func resolutionNotes(documents []*core.SourceDocument) string {
	for _, document := range documents {
		summary, ok := document.Metadata["conflict_resolution"].(map[string]any)
		if !ok {
			continue
		}
		if notes, ok := summary["resolution_notes"].(string); ok {
			return notes
		}
	}
	return ""
}

func episodeShowCommand(c *cli.Context) error {
	ctx := context.Background()

	id, err := uuid.Parse(c.String("id"))
	if err != nil {
		return fmt.Errorf("invalid episode id: %w", err)
	}

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	episode, err := archive.Episodes().GetCanonicalEpisode(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load episode: %w", err)
	}

	fmt.Printf("Episode:  %s\n", episode.Id)
	fmt.Printf("Series:   %s\n", episode.SeriesProfileId)
	fmt.Printf("Title:    %s\n", episode.Title)
	fmt.Printf("Status:   %s\n", episode.Status)
	fmt.Printf("Approval: %s\n", episode.ApprovalState)
	fmt.Printf("Created:  %s\n", episode.CreatedAt.Format(time.RFC3339))
	if err := printProvenance(ctx, archive, episode); err != nil {
		return err
	}
	return nil
}

// printProvenance prints the source priority table recorded in the
// episode's TEI header.
func printProvenance(ctx context.Context, archive *canonica.Archive, episode *core.CanonicalEpisode) error {
	header, err := archive.Headers().GetTeiHeader(ctx, episode.TeiHeaderId)
	if err != nil {
		return fmt.Errorf("failed to load episode header: %w", err)
	}

	provenance, err := tei.ExtractProvenance(header.Payload)
	if err != nil {
		return fmt.Errorf("failed to extract provenance: %w", err)
	}

	fmt.Printf("Ingested: %s\n", provenance.IngestionTimestamp)
	fmt.Println("Sources:")
	for _, priority := range provenance.SourcePriorities {
		fmt.Printf("  %d. %-14s %.2f  %s\n",
			priority.Priority, priority.SourceType, priority.Weight, priority.SourceURI)
	}
	if len(provenance.ReviewerIdentities) > 0 {
		fmt.Printf("Reviewers: %s\n", strings.Join(provenance.ReviewerIdentities, ", "))
	}
	return nil
}

func episodeListCommand(c *cli.Context) error {
	ctx := context.Background()

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	profile, err := archive.Series().GetSeriesProfileBySlug(ctx, c.String("series"))
	if err != nil {
		return fmt.Errorf("failed to load series: %w", err)
	}

	episodes, err := archive.Episodes().ListEpisodesBySeries(ctx, profile.Id)
	if err != nil {
		return fmt.Errorf("failed to list episodes: %w", err)
	}

	for _, episode := range episodes {
		fmt.Printf("%s  %s  %s\n",
			episode.Id, episode.CreatedAt.Format(time.RFC3339), episode.Title)
	}
	fmt.Fprintf(os.Stderr, "%d episode(s)\n", len(episodes))
	return nil
}

func verifyCommand(c *cli.Context) error {
	ctx := context.Background()

	config := &verify.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	auditor := archive.NewAuditor(config, os.Stderr)
	report, err := auditor.Run(ctx)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	fmt.Printf("Episodes scanned: %d\n", report.EpisodesScanned)
	fmt.Printf("Sources scanned:  %d\n", report.SourcesScanned)
	fmt.Printf("Violations:       %d\n", len(report.Violations))
	fmt.Printf("Elapsed:          %s\n", report.Elapsed.Round(time.Millisecond))
	for _, violation := range report.Violations {
		fmt.Printf("  %s %s: %s: %s\n",
			violation.Entity, violation.Id, violation.Check, violation.Detail)
	}

	if !report.Clean() {
		return cli.Exit(fmt.Sprintf("audit found %d violation(s)", len(report.Violations)), 1)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
