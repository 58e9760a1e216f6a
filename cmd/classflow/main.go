// Command classflow runs the analyses over a bundled sample program and
// reports their results. Analyses are selected by ID (constprop, livevars,
// deadcode, cha, pta, cspta), on the command line or through a yaml config
// file.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BarrensZeppelin/classflow/cfg"
	"github.com/BarrensZeppelin/classflow/cha"
	"github.com/BarrensZeppelin/classflow/constprop"
	"github.com/BarrensZeppelin/classflow/dataflow"
	"github.com/BarrensZeppelin/classflow/deadcode"
	"github.com/BarrensZeppelin/classflow/ir"
	"github.com/BarrensZeppelin/classflow/livevars"
	"github.com/BarrensZeppelin/classflow/pta"
	"github.com/BarrensZeppelin/classflow/pta/cs"
	"github.com/BarrensZeppelin/classflow/pta/cs/selector"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

type config struct {
	Analyses []string `yaml:"analyses"`
	Context  string   `yaml:"context"`
}

func main() {
	app := cli.NewApp()
	app.Name = "classflow"
	app.Usage = "whole-program static analysis over a class-based IR"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "yaml config `FILE` selecting analyses and options",
		},
		cli.StringSliceFlag{
			Name:  "analysis, a",
			Usage: "analysis `ID` to run (repeatable)",
		},
		cli.StringFlag{
			Name:  "context",
			Value: "ci",
			Usage: "context sensitivity for cspta: ci, <k>-call, <k>-obj or <k>-type",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "print debug messages",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.Bool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	conf := config{Context: c.String("context")}
	if path := c.String("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, &conf); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if ids := c.StringSlice("analysis"); len(ids) > 0 {
		conf.Analyses = ids
	}
	if c.IsSet("context") || conf.Context == "" {
		conf.Context = c.String("context")
	}
	if len(conf.Analyses) == 0 {
		conf.Analyses = []string{constprop.ID, deadcode.ID, cha.ID, pta.ID, cs.ID}
	}

	world := buildSampleWorld()
	for _, id := range conf.Analyses {
		log.Infof("Running %s", id)
		switch id {
		case constprop.ID:
			runConstProp(world)
		case livevars.ID:
			runLiveVars(world)
		case deadcode.ID:
			runDeadCode(world)
		case cha.ID:
			runCHA(world)
		case pta.ID:
			runPTA(world)
		case cs.ID:
			runCSPTA(world, conf.Context)
		default:
			return fmt.Errorf("unknown analysis ID %q", id)
		}
	}
	return nil
}

func forEachBody(w *ir.World, f func(*ir.Body)) {
	for _, class := range w.Hierarchy.Classes() {
		for _, m := range class.DeclaredMethods() {
			if m.Body() != nil {
				f(m.Body())
			}
		}
	}
}

func runConstProp(w *ir.World) {
	forEachBody(w, func(b *ir.Body) {
		g := cfg.New(b)
		res := dataflow.Solve[*constprop.Fact](g, constprop.Analysis{})
		fmt.Printf("%v:\n", b.Method())
		for _, s := range b.Stmts() {
			fmt.Printf("  [%d] %v: %v\n", s.Index(), s, res.OutFact(s))
		}
	})
}

func runLiveVars(w *ir.World) {
	forEachBody(w, func(b *ir.Body) {
		g := cfg.New(b)
		res := livevars.Solve(g)
		fmt.Printf("%v:\n", b.Method())
		for _, s := range b.Stmts() {
			fmt.Printf("  [%d] %v: %v\n", s.Index(), s, res.OutFact(s))
		}
	})
}

func runDeadCode(w *ir.World) {
	forEachBody(w, func(b *ir.Body) {
		g := cfg.New(b)
		constants := dataflow.Solve[*constprop.Fact](g, constprop.Analysis{})
		live := livevars.Solve(g)
		dead := deadcode.Detect(g, constants, live)
		fmt.Printf("%v: %d dead statements\n", b.Method(), len(dead))
		for _, s := range dead {
			fmt.Printf("  [%d] %v\n", s.Index(), s)
		}
	})
}

func runCHA(w *ir.World) {
	cg := cha.CallGraph(w)
	fmt.Printf("%d reachable methods, %d edges\n", len(cg.ReachableMethods()), cg.NumEdges())
	for _, m := range cg.ReachableMethods() {
		for _, e := range cg.OutEdgesOf(m) {
			fmt.Printf("  %v -[%v]-> %v\n", m, e.Kind, e.Callee)
		}
	}
}

func runPTA(w *ir.World) {
	res := pta.Analyze(pta.Config{World: w})
	fmt.Printf("%d reachable methods, %d PFG edges\n",
		len(res.CallGraph.ReachableMethods()), res.PFG.NumEdges())
	forEachBody(w, func(b *ir.Body) {
		for _, v := range b.Vars() {
			if pts := res.PointsTo(v); len(pts) > 0 {
				fmt.Printf("  pt(%v.%v) = %v\n", b.Method(), v, pts)
			}
		}
	})
}

func runCSPTA(w *ir.World, policy string) {
	sel, err := parseSelector(policy)
	if err != nil {
		log.Fatal(err)
	}
	res := cs.Analyze(cs.Config{World: w, Selector: sel})
	fmt.Printf("%d reachable (context, method) pairs, %d PFG edges\n",
		len(res.CallGraph.ReachableMethods()), res.PFG.NumEdges())
	forEachBody(w, func(b *ir.Body) {
		for _, v := range b.Vars() {
			for _, csv := range res.Manager.CSVarsOf(v) {
				if pts := res.PointsTo(csv.Context(), v); len(pts) > 0 {
					fmt.Printf("  pt(%v) = %v\n", csv, pts)
				}
			}
		}
	})
}

func parseSelector(policy string) (cs.ContextSelector, error) {
	if policy == "" || policy == "ci" {
		return selector.NewInsensitive(), nil
	}
	// Accept "2-obj" as well as "obj" (k defaults to 1).
	kstr, kind, found := strings.Cut(policy, "-")
	if !found {
		kstr, kind = "1", policy
	}
	k, err := strconv.Atoi(kstr)
	if err != nil || k < 1 {
		return nil, fmt.Errorf("unknown context policy %q", policy)
	}
	switch kind {
	case "call":
		return selector.NewKCallSite(k), nil
	case "obj":
		return selector.NewKObject(k), nil
	case "type":
		return selector.NewKType(k), nil
	}
	return nil, fmt.Errorf("unknown context policy %q", policy)
}
