package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/indspider/indspider/config"
	"github.com/indspider/indspider/dataset"
	"github.com/indspider/indspider/timing"
	"github.com/indspider/indspider/util"
	"github.com/indspider/indspider/verify"
	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"
)

var version string

type options struct {
	Config      string `long:"config" description:"YAML config naming the tables and candidate INDs to verify" value-name:"file" required:"true"`
	Comma       string `short:"d" long:"delimiter" description:"field delimiter for CSV inputs" default:","`
	EqualNulls  bool   `long:"equal-nulls" description:"set the verifier's equal-nulls knob (stored only; it does not change results)"`
	Out         string `short:"o" long:"out" description:"write the verification report as JSON to this file instead of stdout" value-name:"path"`
	Interactive bool   `long:"interactive" description:"ask for confirmation before overwriting an existing -out file"`
	LogLevel    string `long:"log-level" description:"override LOG_LEVEL (debug, info, warn, error)" value-name:"level"`
	Debug       bool   `long:"debug" description:"pretty-print the resolved configuration before running"`
	Help        bool   `long:"help" description:"Show this help"`
	Version     bool   `long:"version" description:"Show this version"`
}

func parseOptions(args []string) options {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "--config inds.yaml"
	_, err := parser.ParseArgs(args)
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
	return opts
}

type clusterOutput struct {
	Rows []int `json:"rows"`
}

type reportOutput struct {
	LHSTable            int             `json:"lhs_table"`
	RHSTable            int             `json:"rhs_table"`
	Holds               bool            `json:"holds"`
	Error               float64         `json:"error"`
	ViolatingRows       int             `json:"violating_rows"`
	ViolatingUniqueRows int             `json:"violating_unique_rows"`
	ViolatingClusters   []clusterOutput `json:"violating_clusters"`
}

type result struct {
	Reports []reportOutput `json:"reports"`
	Timing  timing.Stages  `json:"timing"`
}

func main() {
	opts := parseOptions(os.Args[1:])
	util.InitSlog(opts.LogLevel)

	file, err := config.ParseVerificationFile(opts.Config)
	if err != nil {
		log.Fatal(err)
	}
	if opts.EqualNulls {
		file.EqualNulls = true
	}

	run, err := config.ResolveVerification(file)
	if err != nil {
		log.Fatal(err)
	}
	run.OutPath = opts.Out

	if opts.Debug {
		pp.Println(run)
	}

	comma := rune(opts.Comma[0])
	streams := make([]dataset.Stream, len(run.Inputs))
	for i, path := range run.Inputs {
		s, err := dataset.OpenCSVFile(path, comma)
		if err != nil {
			log.Fatal(err)
		}
		streams[i] = s
	}

	ctx := context.Background()
	rec := timing.NewRecorder()

	var reports []reportOutput
	err = rec.Track("compute", func() error {
		for _, cand := range run.INDs {
			lhs := streams[cand.LHSTable]
			rhs := streams[cand.RHSTable]
			report, err := verify.Verify(ctx, run.Verify, lhs, rhs, cand)
			if err != nil {
				return err
			}
			clusters := make([]clusterOutput, len(report.ViolatingClusters))
			for i, c := range report.ViolatingClusters {
				clusters[i] = clusterOutput{Rows: c.Rows}
			}
			reports = append(reports, reportOutput{
				LHSTable:            int(cand.LHSTable),
				RHSTable:            int(cand.RHSTable),
				Holds:               report.Holds,
				Error:               report.Error,
				ViolatingRows:       report.ViolatingRows,
				ViolatingUniqueRows: report.ViolatingUniqueRows,
				ViolatingClusters:   clusters,
			})
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	if opts.Interactive && !confirmOverwrite(run.OutPath) {
		fmt.Println("aborted, nothing written")
		return
	}

	res := result{Reports: reports, Timing: rec.Stages()}
	if err := writeResult(run.OutPath, res); err != nil {
		log.Fatal(err)
	}
}

// confirmOverwrite asks the user before clobbering an existing -out file.
// It only prompts when out names an existing file and stdin is an
// interactive terminal; non-interactive runs (piped stdin, CI) proceed
// without asking, since there is nobody to answer.
func confirmOverwrite(out string) bool {
	if out == "" {
		return true
	}
	if _, err := os.Stat(out); os.IsNotExist(err) {
		return true
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return true
	}

	fmt.Printf("%s already exists, overwrite? [y/N] ", out)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
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
