// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/luzpaz/FEBio/fem"
	"github.com/luzpaz/FEBio/inp"
	"github.com/luzpaz/FEBio/out"

	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	alias       string
	verbose     bool
	erasePrev   bool
	metricsAddr string
	stage       int
	tidx        int
	vtag        int
	cell        int
	keys        []string

	rootCmd = &cobra.Command{
		Use:   "febio",
		Short: "Multiphasic (solid, fluid and solutes) finite element simulations",
	}

	runCmd = &cobra.Command{
		Use:   "run [simulation.yaml]",
		Short: "Runs all stages of a simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}

	resumeCmd = &cobra.Command{
		Use:   "resume [simulation.yaml]",
		Short: "Resumes a simulation from a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  resumeSimulation,
	}

	resultsCmd = &cobra.Command{
		Use:   "results [simulation.yaml]",
		Short: "Prints time series at the nodes of a vertex tag or at the integration points of a cell",
		Args:  cobra.ExactArgs(1),
		RunE:  printResults,
	}

	summaryCmd = &cobra.Command{
		Use:   "summary [simulation.yaml]",
		Short: "Prints output times, accepted time steps and residuals",
		Args:  cobra.ExactArgs(1),
		RunE:  printSummary,
	}

	modelsCmd = &cobra.Command{
		Use:   "models",
		Short: "Lists the available constitutive models and domain types",
		RunE:  listModels,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", true, "show messages")
	rootCmd.PersistentFlags().StringVar(&alias, "alias", "", "word to be appended to the simulation key")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics", "", "address to serve prometheus metrics; e.g. :9100")
	runCmd.Flags().BoolVar(&erasePrev, "erase", true, "erase previous results")
	resumeCmd.Flags().IntVar(&stage, "stage", 0, "index of stage of snapshot")
	resumeCmd.Flags().IntVar(&tidx, "tidx", 0, "output index of snapshot")
	resultsCmd.Flags().IntVar(&stage, "stage", 0, "index of stage")
	resultsCmd.Flags().IntVar(&vtag, "tag", 0, "vertex tag; e.g. -2")
	resultsCmd.Flags().IntVar(&cell, "cell", -1, "cell id")
	resultsCmd.Flags().StringSliceVar(&keys, "key", []string{"uz"}, "keys; e.g. uz,p,c0 or J,pa,ca0")
	rootCmd.AddCommand(runCmd, resumeCmd, resultsCmd, summaryCmd, modelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) (err error) {
	analysis, err := newAnalysis(args[0], erasePrev)
	if err != nil {
		return
	}
	defer analysis.Clean()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return analysis.Run(ctx)
}

func resumeSimulation(cmd *cobra.Command, args []string) (err error) {
	analysis, err := newAnalysis(args[0], false)
	if err != nil {
		return
	}
	defer analysis.Clean()
	err = analysis.ReadRestart(stage, tidx)
	if err != nil {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return analysis.Resume(ctx, stage)
}

func printResults(cmd *cobra.Command, args []string) (err error) {
	err = out.Start(args[0], alias, stage)
	if err != nil {
		return
	}
	defer out.Analysis.Clean()
	var loc out.Locator = out.Vtag(vtag)
	if cell >= 0 {
		loc = out.Ips{cell}
	}
	err = out.Define("res", loc)
	if err != nil {
		return
	}
	err = out.LoadResults(nil)
	if err != nil {
		return
	}
	for _, p := range out.Results["res"] {
		if p.Vid >= 0 {
			io.Pf("vertex %d @ %v\n", p.Vid, p.X)
		} else {
			io.Pf("ip %d @ %v\n", p.IpId, p.X)
		}
		io.Pf("%12s", "t")
		for _, key := range keys {
			io.Pf("%14s", key)
		}
		io.Pf("\n")
		for i, t := range out.Times {
			io.Pf("%12g", t)
			for _, key := range keys {
				if v, ok := p.Vals[key]; ok {
					io.Pf("%14.6e", v[i])
				} else {
					io.Pf("%14s", "-")
				}
			}
			io.Pf("\n")
		}
	}
	return
}

func printSummary(cmd *cobra.Command, args []string) (err error) {
	sim, err := inp.ReadSim(args[0], alias, false, 0)
	if err != nil {
		return
	}
	sum, err := fem.ReadSum(sim.DirOut, sim.Key, sim.EncType)
	if err != nil {
		return
	}
	io.Pf("output times = %v\n", sum.OutTimes)
	io.Pf("restarts     = %d\n", sum.Restarts)
	var t float64
	for i, dt := range sum.Steps {
		t += dt
		io.Pf("step %4d: t = %-10g dt = %-10g", i, t, dt)
		for _, r := range sum.Resids[i] {
			io.Pf(" %8.2e", r)
		}
		io.Pf("\n")
	}
	return
}

func listModels(cmd *cobra.Command, args []string) (err error) {
	reg := fem.NewRegistry()
	for _, kind := range []string{"solid", "perm", "diff", "osmotic", "solub", "supply", "react"} {
		names, e := reg.Mats.Names(kind)
		if e != nil {
			return e
		}
		io.Pf("%-8s %v\n", kind, names)
	}
	io.Pf("%-8s %v\n", "domain", reg.DomainTypes())
	return
}

// newAnalysis allocates the simulation and serves metrics if requested
func newAnalysis(fnamepath string, erase bool) (*fem.FEM, error) {
	if verbose {
		io.PfWhite("\nFEBio -- multiphasic finite element analyses\n\n")
		io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")
	}
	reg := prometheus.NewRegistry()
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				io.Pfred("metrics server stopped: %v\n", err)
			}
		}()
	}
	return fem.NewFEM(fnamepath, alias, erase, verbose, nil, reg)
}
