package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/fwojciec/fidata"
	"github.com/fwojciec/fidata/extract"
	"github.com/fwojciec/fidata/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	JSON   bool

	Store     fidata.DatasetStore
	Runner    *extract.Runner
	Indexer   *sqlite.Indexer
	Publisher fidata.Publisher
	Asker     fidata.Asker

	Features fidata.FeatureService
	Issues   fidata.IssueService
	Releases fidata.ReleaseService
	Search   fidata.SearchService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DataDir string `name:"data-dir" short:"d" env:"FIDATA_DATA_DIR" default:"." help:"Directory holding the JSON datasets"`
	DB      string `name:"db" env:"FIDATA_DB" help:"SQLite index to browse instead of the JSON datasets"`
	JSON    bool   `name:"json" help:"Print results as JSON"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Extract     ExtractCmd     `cmd:"" help:"Extract datasets from feature matrices and release notes"`
	Consolidate ConsolidateCmd `cmd:"" help:"Consolidate issues into the defects dataset"`
	Features    FeaturesCmd    `cmd:"" help:"List features"`
	Compare     CompareCmd     `cmd:"" help:"Compare feature support"`
	Platforms   PlatformsCmd   `cmd:"" help:"List platforms of a feature matrix"`
	Versions    VersionsCmd    `cmd:"" help:"List feature matrix and release notes versions"`
	Issues      IssuesCmd      `cmd:"" help:"List issues"`
	Defect      DefectCmd      `cmd:"" help:"Show a defect across releases"`
	Releases    ReleasesCmd    `cmd:"" help:"List release notes"`
	Search      SearchCmd      `cmd:"" help:"Search issues, features and release notes"`
	Index       IndexCmd       `cmd:"" help:"Build the SQLite full-text index from the datasets"`
	Coverage    CoverageCmd    `cmd:"" help:"Compare versions covered by feature matrices and release notes"`
	Validate    ValidateCmd    `cmd:"" help:"Validate the defects dataset"`
	Serve       ServeCmd       `cmd:"" help:"Serve the data browser"`
	Publish     PublishCmd     `cmd:"" help:"Upload the datasets to an S3 bucket"`
	Ask         AskCmd         `cmd:"" help:"Ask a question about the issues of a release"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	What        string `arg:"" enum:"features,issues,releases,all" default:"all" help:"Datasets to extract (features, issues, releases, all)"`
	Input       string `short:"i" default:"." help:"Directory holding the PDF or text documents"`
	Concurrency int    `short:"c" default:"4" help:"Documents processed at once"`
}

// ConsolidateCmd is the "consolidate" subcommand.
type ConsolidateCmd struct{}

// FeaturesCmd is the "features" subcommand.
type FeaturesCmd struct {
	Version  string `help:"Feature matrix version"`
	Platform string `short:"p" help:"Only features the platform supports"`
	Category string `help:"Feature category"`
	Query    string `short:"q" help:"Feature name substring"`
	ListFlags `embed:""`
}

// CompareCmd is the "compare" subcommand.
type CompareCmd struct {
	Versions  CompareVersionsCmd  `cmd:"" help:"Compare a platform across two feature matrices"`
	Platforms ComparePlatformsCmd `cmd:"" help:"Compare two platforms within a feature matrix"`
}

// CompareVersionsCmd is the "compare versions" subcommand.
type CompareVersionsCmd struct {
	Platform string `arg:"" help:"Platform"`
	From     string `arg:"" help:"Older matrix version"`
	To       string `arg:"" help:"Newer matrix version"`
}

// ComparePlatformsCmd is the "compare platforms" subcommand.
type ComparePlatformsCmd struct {
	Version string `arg:"" help:"Matrix version"`
	A       string `arg:"" help:"First platform"`
	B       string `arg:"" help:"Second platform"`
}

// PlatformsCmd is the "platforms" subcommand.
type PlatformsCmd struct {
	Version string `arg:"" optional:"" help:"Matrix version (all matrices when omitted)"`
}

// VersionsCmd is the "versions" subcommand.
type VersionsCmd struct{}

// IssuesCmd is the "issues" subcommand.
type IssuesCmd struct {
	Status     string `help:"Issue status (closed, known, unknown)"`
	Technology string `short:"t" help:"Technology group"`
	Version    string `help:"Reported, fixed or found-in version"`
	Query      string `short:"q" help:"Text in ID, symptom, condition, workaround or technology"`
	ListFlags `embed:""`
}

// DefectCmd is the "defect" subcommand.
type DefectCmd struct {
	ID string `arg:"" help:"Issue ID (FI-nnnnnn)"`
}

// ReleasesCmd is the "releases" subcommand.
type ReleasesCmd struct {
	Version  string `help:"Release notes version"`
	Category string `help:"Note category (hardware, feature, cli, rfc, mib, deprecation)"`
	Query    string `short:"q" help:"Text in the note"`
	Limit    int    `short:"n" help:"Maximum notes to print"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query   []string `arg:"" help:"Search terms"`
	Kinds   []string `short:"k" help:"Restrict to kinds (feature, issue, release)"`
	Version string   `help:"Restrict to a version"`
	Limit   int      `short:"n" help:"Maximum results"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct{}

// CoverageCmd is the "coverage" subcommand.
type CoverageCmd struct {
	Input string `short:"i" help:"Compute from document file names in this directory instead of the datasets"`
	Base  bool   `help:"Compare X.Y.ZZ base versions only"`
}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct{}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"FIDATA_ADDR" default:"localhost:8080" help:"Listen address"`
}

// PublishCmd is the "publish" subcommand.
type PublishCmd struct {
	Bucket   string `env:"FIDATA_S3_BUCKET" required:"" help:"Destination bucket"`
	Prefix   string `env:"FIDATA_S3_PREFIX" help:"Key prefix"`
	Region   string `env:"FIDATA_S3_REGION" default:"us-east-1" help:"Bucket region"`
	Endpoint string `env:"FIDATA_S3_ENDPOINT" help:"S3-compatible endpoint URL (enables path-style addressing)"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Version  string `arg:"" help:"Release notes version"`
	Question string `arg:"" help:"Question about the release's issues"`
	APIKey   string `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
}

// ListFlags are the generic filter, sort and paging flags of list commands.
type ListFlags struct {
	Filter    string `help:"JSON filter, e.g. '{\"items\":[{\"columnField\":\"platform_count\",\"operatorValue\":\">\",\"value\":\"5\"}]}'"`
	SortField string `name:"sort" help:"Field to sort by"`
	Desc      bool   `help:"Sort descending"`
	Limit     int    `short:"n" help:"Maximum results"`
	Offset    int    `help:"Results to skip"`
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
