// Copyright 2026 The Quern Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command quern merges a project's RDF sources into named graphs and runs
// OWL reasoning and rule inference over the result.
package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cayleygraph/quad"
	"github.com/cheggaaa/pb"
	docopt "github.com/docopt/docopt-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quern/quern/config"
	"github.com/quern/quern/dataset"
	"github.com/quern/quern/export"
	"github.com/quern/quern/infer"
	"github.com/quern/quern/merge"
	"github.com/quern/quern/util/debuglog"
	"github.com/quern/quern/util/table"
)

var fmtr = message.NewPrinter(language.English)

const usage = `quern merges a project's RDF sources and infers new statements over them.

Usage:
  quern [-v] merge [-c=FILE -o=DIR -f=F... --provenance]
  quern [-v] infer [-c=FILE -o=DIR -f=F... --provenance --backend=NAME --no-cache --keep-unwanted --include-external]
  quern [-v] export [-c=FILE -o=DIR -f=F... --include-external]

Options:
  -c=FILE, --config=FILE    Project file to use. When omitted, quern searches
                            for ` + config.ProjectFileName + ` upward from the working directory.
  -o=DIR, --output=DIR      Override the project's output directory.
  -f=F, --format=F          Export format(s) [default: nquads]
  --provenance              Record per-file load metadata in a provenance graph.
  --backend=NAME            Override the project's inference backend.
  --no-cache                Ignore any cached combined-full artifact and recompute.
  --keep-unwanted           Keep unwanted triples in the inference output.
  --include-external        Include externally derivable inferences in the output.
  -v, --verbose             Enable debug logging.

Examples:
  # Merge the sources of the nearest project into output/merged.nq.
  quern merge

  # Run the full pipeline with two output formats.
  quern infer -f nquads -f jsonld

  # Re-export inference results from the cache in a different format.
  quern export -f jsonld
`

type options struct {
	Merge  bool `docopt:"merge"`
	Infer  bool `docopt:"infer"`
	Export bool `docopt:"export"`

	ConfigFile      string   `docopt:"--config"`
	OutputDir       string   `docopt:"--output"`
	Formats         []string `docopt:"--format"`
	Provenance      bool     `docopt:"--provenance"`
	Backend         string   `docopt:"--backend"`
	NoCache         bool     `docopt:"--no-cache"`
	KeepUnwanted    bool     `docopt:"--keep-unwanted"`
	IncludeExternal bool     `docopt:"--include-external"`
	Verbose         bool     `docopt:"--verbose"`
}

func parseArgs() *options {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		log.Fatalf("Error parsing command-line arguments: %v", err)
	}
	var options options
	err = opts.Bind(&options)
	if err != nil {
		log.Fatalf("Error binding command-line arguments: %v\nfrom: %+v", err, opts)
	}
	return &options
}

func main() {
	debuglog.Configure(debuglog.Options{})
	options := parseArgs()
	if options.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	ctx := context.Background()

	proj := loadProject(options)
	switch {
	case options.Merge:
		runMerge(proj, options)
	case options.Infer:
		runInfer(ctx, proj, options)
	case options.Export:
		runExport(proj, options)
	default:
		log.Fatalf("command not implemented")
	}
}

func loadProject(options *options) *config.Project {
	path := options.ConfigFile
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Unable to determine working directory: %v", err)
		}
		path, err = config.Discover(cwd)
		if err != nil {
			log.Fatalf("%v", err)
		}
		log.Debugf("Discovered project file %v", path)
	}
	proj, err := config.Load(path)
	if err != nil {
		log.Fatalf("Unable to load project: %v", err)
	}
	if options.OutputDir != "" {
		proj.OutputDir, err = filepath.Abs(options.OutputDir)
		if err != nil {
			log.Fatalf("Unable to resolve output directory: %v", err)
		}
	}
	if options.Backend != "" {
		proj.Backend = options.Backend
	}
	return proj
}

// doMerge loads the project sources with a progress bar and reports the
// per-file counts.
func doMerge(proj *config.Project, options *options) *merge.Result {
	sources := merge.Sources(proj)
	bar := pb.StartNew(len(sources))
	res, err := merge.Merge(proj, merge.Options{
		Provenance: options.Provenance,
		Progress:   func(done, total int) { bar.Set(done) },
	})
	bar.Finish()
	if err != nil {
		log.Fatalf("Merge failed: %v", err)
	}
	rows := [][]string{{"Source", "Role", "Triples"}}
	for _, src := range sources {
		id := merge.GraphID(proj, src.Path)
		count, ok := res.Counts[src.Path]
		if !ok {
			rows = append(rows, []string{src.Path, src.Category.String(), "skipped"})
			continue
		}
		rows = append(rows, []string{src.Path, res.Categories[id].String(), fmtr.Sprintf("%d", count)})
	}
	rows = append(rows, []string{"Total", "", fmtr.Sprintf("%d", res.Store.Len())})
	table.PrettyPrint(os.Stdout, rows, table.HeaderRow|table.FooterRow)
	return res
}

func runMerge(proj *config.Project, options *options) {
	res := doMerge(proj, options)
	v := dataset.NewView(res.Store, res.Store.GraphIDs())
	paths, err := export.Export(v, filepath.Join(proj.OutputDir, export.MergedStem), options.Formats)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	for _, p := range paths {
		fmtr.Printf("Wrote %v\n", p)
	}
}

func runInfer(ctx context.Context, proj *config.Project, options *options) {
	if !options.NoCache {
		if st, err := export.LoadCache(proj); err != nil {
			log.Fatalf("Unable to reload cache: %v", err)
		} else if st != nil {
			fmtr.Printf("Using cached %v (%d statements)\n", export.CachePath(proj), st.Len())
			exportFromCache(st, proj, options)
			return
		}
	}

	res := doMerge(proj, options)
	result, err := infer.Run(ctx, res.Store, res.Categories, res.ExternalIDs, proj, infer.Options{
		KeepUnwanted:              options.KeepUnwanted,
		IncludeExternalInferences: options.IncludeExternal,
		ExportFull:                true,
		Formats:                   options.Formats,
	})
	if err != nil {
		log.Fatalf("Inference failed: %v", err)
	}
	if !result.Converged {
		log.Warnf("Round cap reached; consider simplifying the project's rules")
	}

	rows := [][]string{
		{"Stage", "Triples"},
		{"merged sources", fmtr.Sprintf("%d", sumByCategory(res))},
		{"external noise floor", graphLen(res.Store, infer.GraphExternalInferences)},
		{"owl inferences", fmtr.Sprintf("%d", result.OWLCount)},
		{"rule inferences", fmtr.Sprintf("%d", result.RuleCount)},
		{"rounds", strconv.Itoa(result.Rounds)},
	}
	table.PrettyPrint(os.Stdout, rows, table.HeaderRow)
	for _, p := range result.Exported {
		fmtr.Printf("Wrote %v\n", p)
	}
}

// runExport re-serializes inference results from the combined-full cache
// without recomputing anything. A missing or stale cache is an error here,
// unlike on the infer path.
func runExport(proj *config.Project, options *options) {
	st, err := export.LoadCache(proj)
	if err != nil {
		log.Fatalf("Unable to reload cache: %v", err)
	}
	if st == nil {
		log.Fatalf("No fresh cache at %v; run `quern infer` first", export.CachePath(proj))
	}
	exportFromCache(st, proj, options)
}

// exportFromCache re-exports the inference artifacts from a still-fresh
// combined-full store without re-running the pipeline.
func exportFromCache(st *dataset.Store, proj *config.Project, options *options) {
	wanted := []quad.Value{infer.GraphOWLInferences, infer.GraphRuleInferences}
	if options.IncludeExternal {
		wanted = append(wanted, infer.GraphExternalInferences)
	}
	paths, err := export.Export(dataset.NewView(st, wanted),
		filepath.Join(proj.OutputDir, export.InferredWantedStem), options.Formats)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	for _, p := range paths {
		fmtr.Printf("Wrote %v\n", p)
	}
}

func sumByCategory(res *merge.Result) int {
	total := 0
	for _, n := range res.Counts {
		total += n
	}
	return total
}

func graphLen(st *dataset.Store, id quad.Value) string {
	if g, ok := st.Named(id); ok {
		return fmtr.Sprintf("%d", g.Len())
	}
	return "0"
}
