package main

import (
	"encoding/xml"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"evchargesim/internal/config"
	"evchargesim/internal/pipeline"
	"evchargesim/internal/population"
	"evchargesim/internal/report"
	"evchargesim/internal/xmlio"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "error:", r)
			os.Exit(1)
		}
	}()

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "tracer":
		cmdTracer(os.Args[2:])
	case "optimise":
		cmdOptimise(os.Args[2:])
	case "dryrun":
		cmdDryrun(os.Args[2:])
	case "peek":
		cmdPeek(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --config cfg.yaml --dir tests/data --outpath outputs")
	fmt.Println("  cli tracer --dir tests/data --output traces.trc")
	fmt.Println("  cli optimise --config cfg.yaml --trace-path traces.trc --outpath outputs")
	fmt.Println("  cli dryrun --config cfg.yaml --trace-path traces.trc --output specs.csv")
	fmt.Println("  cli peek --plans output_plans.xml --max 5")
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	dir := fs.String("dir", "tests/data", "MATSim output directory")
	networkName := fs.String("network", "output_network.xml", "Name of network file")
	populationName := fs.String("population", "output_plans.xml", "Name of plans file")
	eventsName := fs.String("events", "output_events.xml", "Name of events file")
	tracePath := fs.String("trace-path", "traces.trc", "Path to write the trace file")
	outpath := fs.String("outpath", "outputs", "Output directory path")
	jsonTraces := fs.Bool("json", false, "Write traces in human-readable JSON instead of gob")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	netDec, netClose := mustDecoder(filepath.Join(*dir, *networkName))
	defer netClose.Close()
	popDec, popClose := mustDecoder(filepath.Join(*dir, *populationName))
	defer popClose.Close()
	evDec, evClose := mustDecoder(filepath.Join(*dir, *eventsName))
	defer evClose.Close()

	fmt.Println("[1/5] Loading network, population, and events...")
	pop, err := pipeline.BuildTraces(netDec, popDec, evDec)
	if err != nil {
		panic(err)
	}
	fmt.Printf("[1/5] Completed building traces for %d agents\n", pop.Len())

	mustMkdirAll(*outpath)

	tracesFile := mustCreate(*tracePath)
	defer tracesFile.Close()
	fmt.Printf("[2/5] Writing traces to %s...\n", *tracePath)
	if err := pop.Serialise(tracesFile, *jsonTraces); err != nil {
		panic(err)
	}

	results := newResults(*outpath, cfg.Scale)
	runOptimisation(cfg, pop, results)
	fmt.Println(results.Summary.String())
}

func cmdTracer(args []string) {
	fs := flag.NewFlagSet("tracer", flag.ExitOnError)
	dir := fs.String("dir", "tests/data", "MATSim output directory")
	networkName := fs.String("network", "output_network.xml", "Name of network file")
	populationName := fs.String("population", "output_plans.xml", "Name of plans file")
	eventsName := fs.String("events", "output_events.xml", "Name of events file")
	output := fs.String("output", "traces.trc", "Path to write the trace file")
	jsonTraces := fs.Bool("json", false, "Write traces in human-readable JSON instead of gob")
	_ = fs.Parse(args)

	netDec, netClose := mustDecoder(filepath.Join(*dir, *networkName))
	defer netClose.Close()
	popDec, popClose := mustDecoder(filepath.Join(*dir, *populationName))
	defer popClose.Close()
	evDec, evClose := mustDecoder(filepath.Join(*dir, *eventsName))
	defer evClose.Close()

	pop, err := pipeline.BuildTraces(netDec, popDec, evDec)
	if err != nil {
		panic(err)
	}

	out := mustCreate(*output)
	defer out.Close()
	if err := pop.Serialise(out, *jsonTraces); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote traces for %d agents to %s\n", pop.Len(), *output)
}

func cmdOptimise(args []string) {
	fs := flag.NewFlagSet("optimise", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	tracePath := fs.String("trace-path", "traces.trc", "Path to the trace file")
	outpath := fs.String("outpath", "outputs", "Output directory path")
	jsonTraces := fs.Bool("json", false, "Traces are in human-readable JSON instead of gob")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	pop := mustDeserialiseTrace(*tracePath, *jsonTraces)

	mustMkdirAll(*outpath)
	results := newResults(*outpath, cfg.Scale)
	runOptimisation(cfg, pop, results)
	fmt.Println(results.Summary.String())
}

func cmdDryrun(args []string) {
	fs := flag.NewFlagSet("dryrun", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	tracePath := fs.String("trace-path", "traces.trc", "Path to the trace file")
	output := fs.String("output", "specs.csv", "Path to write the specs CSV")
	jsonTraces := fs.Bool("json", false, "Traces are in human-readable JSON instead of gob")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	pop := mustDeserialiseTrace(*tracePath, *jsonTraces)

	out := mustCreate(*output)
	defer out.Close()
	specsWriter, err := report.NewSpecsWriter(out)
	if err != nil {
		panic(err)
	}

	rng := config.NewSampler(cfg.Seed)
	for _, pid := range pop.Keys() {
		person, _ := pop.Get(pid)
		agentConfig := config.BuildAgentConfig(cfg, pid, person.Attributes, rng)
		if err := agentConfig.Validate(); err != nil {
			panic(fmt.Errorf("dryrun: %w", err))
		}
		if err := specsWriter.Write(agentConfig.ToRecord()); err != nil {
			panic(err)
		}
	}
	if err := specsWriter.Flush(); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote dry-run specs for %d agents to %s\n", pop.Len(), *output)
}

func cmdPeek(args []string) {
	fs := flag.NewFlagSet("peek", flag.ExitOnError)
	plans := fs.String("plans", "output_plans.xml", "Path to the plans XML file")
	max := fs.Int("max", 10, "Max distinct values recorded per attribute key")
	_ = fs.Parse(args)

	dec, closer, err := xmlio.NewDecoder(*plans)
	if err != nil {
		panic(err)
	}
	defer closer.Close()

	attrs, err := population.PeekAttributeValues(dec, *max)
	if err != nil {
		panic(err)
	}
	for _, key := range attrs.SortedKeys() {
		fmt.Printf("%s: %s\n", key, attrs[key].String())
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		cfg := config.Default()
		return &cfg
	}
	f, err := os.Open(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	cfg, err := config.Load(f)
	if err != nil {
		panic(err)
	}
	return cfg
}

func mustDecoder(path string) (*xml.Decoder, io.Closer) {
	dec, closer, err := xmlio.NewDecoder(path)
	if err != nil {
		panic(err)
	}
	return dec, closer
}

func mustDeserialiseTrace(path string, json bool) *population.Population {
	f, err := os.Open(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	pop, err := population.Deserialise(f, json)
	if err != nil {
		panic(err)
	}
	return pop
}

func mustMkdirAll(path string) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		panic(err)
	}
}

func mustCreate(path string) *os.File {
	if dir := filepath.Dir(path); dir != "." {
		mustMkdirAll(dir)
	}
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	return f
}

func newResults(outpath string, scale float64) *pipeline.Results {
	specsFile := mustCreate(filepath.Join(outpath, "specs.csv"))
	reportFile := mustCreate(filepath.Join(outpath, "report.csv"))
	eventsFile := mustCreate(filepath.Join(outpath, "events.csv"))

	specsWriter, err := report.NewSpecsWriter(specsFile)
	if err != nil {
		panic(err)
	}
	reportWriter, err := report.NewReportWriter(reportFile)
	if err != nil {
		panic(err)
	}
	eventsWriter, err := report.NewEventsWriter(eventsFile)
	if err != nil {
		panic(err)
	}

	return &pipeline.Results{
		Specs:   specsWriter,
		Report:  reportWriter,
		Events:  eventsWriter,
		Summary: report.NewSummary(scale),
	}
}

func runOptimisation(cfg *config.Config, pop *population.Population, results *pipeline.Results) {
	rng := config.NewSampler(cfg.Seed)
	for i, pid := range pop.Keys() {
		person, _ := pop.Get(pid)
		agentConfig, record, err := pipeline.OptimiseAgent(cfg, pid, person, rng)
		if err != nil {
			panic(fmt.Errorf("optimiser failed at %q: %w", pid, err))
		}
		if err := results.WriteAgent(agentConfig, record); err != nil {
			panic(err)
		}
		if (i+1)%100 == 0 {
			fmt.Printf("optimised %d/%d agents\n", i+1, pop.Len())
		}
	}
	if err := results.Specs.Flush(); err != nil {
		panic(err)
	}
	if err := results.Report.Flush(); err != nil {
		panic(err)
	}
	if err := results.Events.Flush(); err != nil {
		panic(err)
	}
	results.Summary.Finalise()
}
