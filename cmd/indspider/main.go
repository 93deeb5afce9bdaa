package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/indspider/indspider/config"
	"github.com/indspider/indspider/dataset"
	"github.com/indspider/indspider/ingest"
	"github.com/indspider/indspider/model"
	"github.com/indspider/indspider/spider"
	"github.com/indspider/indspider/timing"
	"github.com/indspider/indspider/util"
	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
)

var version string

type options struct {
	Config     string `long:"config" description:"YAML config file, merged on top of these flags" value-name:"file"`
	Comma      string `short:"d" long:"delimiter" description:"field delimiter for CSV inputs" default:","`
	MemLimitMB int    `long:"mem-limit-mb" description:"memory budget for in-memory domains, in megabytes" default:"256"`
	ThreadsNum int    `long:"threads" description:"worker threads for block ingestion" default:"4"`
	TmpRoot    string `long:"tmp-root" description:"parent directory for spilled partition files" default:"tmp"`
	Out        string `short:"o" long:"out" description:"write discovered UINDs as JSON to this file instead of stdout" value-name:"path"`
	LogLevel   string `long:"log-level" description:"override LOG_LEVEL (debug, info, warn, error)" value-name:"level"`
	Debug      bool   `long:"debug" description:"pretty-print the resolved configuration before running"`
	Help       bool   `long:"help" description:"Show this help"`
	Version    bool   `long:"version" description:"Show this version"`
}

func parseOptions(args []string) (options, []string) {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[option...] input.csv [input2.csv ...]"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	if len(rest) == 0 {
		fmt.Print("No input files are specified!\n\n")
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}
	return opts, rest
}

type uindOutput struct {
	Dependent  string `json:"dependent"`
	Referenced string `json:"referenced"`
}

type result struct {
	UINDs  []uindOutput  `json:"uinds"`
	Timing timing.Stages `json:"timing"`
}

func main() {
	opts, inputs := parseOptions(os.Args[1:])
	util.InitSlog(opts.LogLevel)

	disc := config.Discovery{Inputs: inputs}
	disc.Ingest = ingest.Config{MemLimitMB: opts.MemLimitMB, ThreadsNum: opts.ThreadsNum, TmpRoot: opts.TmpRoot}
	disc.OutPath = opts.Out
	disc.Debug = opts.Debug

	if opts.Config != "" {
		file, err := config.ParseDiscoveryFile(opts.Config)
		if err != nil {
			log.Fatal(err)
		}
		disc = config.MergeDiscovery(disc, file)
	}

	if opts.Debug {
		pp.Println(disc)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rec := timing.NewRecorder()

	mgr, err := ingest.NewDomainManager(disc.Ingest)
	if err != nil {
		log.Fatal(err)
	}
	defer mgr.Close()

	err = rec.Track("load", func() error {
		for i, path := range disc.Inputs {
			comma := rune(opts.Comma[0])
			stream, err := dataset.OpenCSVFile(path, comma)
			if err != nil {
				return err
			}
			if err := mgr.IngestTable(ctx, model.TableId(i), stream); err != nil {
				return err
			}
			slog.Info("ingested table", "index", i, "path", path, "columns", stream.NumberOfColumns())
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	miner := spider.NewMiner()
	miner.OnProgress = func(finished, total int) {
		slog.Debug("sweep progress", "finished", finished, "total", total)
	}

	var attrs []*spider.Attribute
	err = rec.Track("init", func() error {
		domains := mgr.Domains()
		reqs := make([]spider.MineRequest, len(domains))
		for i, d := range domains {
			reqs[i] = spider.MineRequest{Table: model.TableId(d.Table()), Column: model.ColumnId(d.Column()), Domain: d}
		}
		var err error
		attrs, err = miner.PrepareAttributes(reqs)
		return err
	})
	if err != nil {
		log.Fatal(err)
	}

	var uinds []model.UIND
	err = rec.Track("compute", func() error {
		var err error
		uinds, err = miner.Sweep(attrs)
		return err
	})
	if err != nil {
		log.Fatal(err)
	}

	out := util.TransformSlice(uinds, func(u model.UIND) uindOutput {
		return uindOutput{Dependent: u.Dependent.String(), Referenced: u.Referenced.String()}
	})
	res := result{UINDs: out, Timing: rec.Stages()}

	if err := writeResult(disc.OutPath, res); err != nil {
		log.Fatal(err)
	}
}

func writeResult(path string, res result) error {
	enc, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(enc))
		return nil
	}
	return os.WriteFile(path, enc, 0o644)
}
