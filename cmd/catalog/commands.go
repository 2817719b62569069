package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/capability-graph/pkg/algorithms"
	"github.com/dd0wney/capability-graph/pkg/constraints"
	"github.com/dd0wney/capability-graph/pkg/graphql"
	"github.com/dd0wney/capability-graph/pkg/health"
	"github.com/dd0wney/capability-graph/pkg/logging"
	"github.com/dd0wney/capability-graph/pkg/storage"
	"github.com/dd0wney/capability-graph/pkg/visualization"
)

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and check a capability catalog snapshot",
		Long: `catalog loads a capability graph snapshot (pillars, CoEs, platforms,
accelerators, ...), derives pillar associations and answers questions
about it from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipLoad(cmd) {
				return nil
			}
			return a.load()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.snapshotPath, "snapshot", "", "snapshot file (overrides snapshot.path)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		a.statsCmd(),
		a.showCmd(),
		a.searchCmd(),
		a.pillarsCmd(),
		a.capabilitiesCmd(),
		a.industryCmd(),
		a.platformsCmd(),
		a.relatedCmd(),
		a.pathCmd(),
		a.validateCmd(),
		a.healthCmd(),
		a.queryCmd(),
		a.deriveCmd(),
		a.exportCmd(),
		a.metricsCmd(),
	)
	return rootCmd
}

// skipLoad reports whether cmd runs without a snapshot (help and completion)
func skipLoad(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion":
			return true
		}
	}
	return false
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show node and edge counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			stats := a.graph.GetStatistics()

			title(w, "Catalog statistics")
			field(w, "Nodes", stats.TotalNodes)
			field(w, "Edges", stats.TotalEdges)
			field(w, "Avg connections", fmt.Sprintf("%.2f", stats.AvgConnections))
			header(w, "By type")
			for _, t := range storage.AllEntityTypes() {
				if n := stats.NodesByType[string(t)]; n > 0 {
					field(w, string(t), n)
				}
			}
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one entity with its relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			n, err := a.node("show", args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(w, n)
			}

			common := n.Common()
			title(w, n.Name())
			field(w, "ID", n.ID)
			field(w, "Type", n.Type)
			if common.Category != "" {
				field(w, "Category", common.Category)
			}
			if common.Description != "" {
				field(w, "Description", common.Description)
			}
			if len(common.Tags) > 0 {
				field(w, "Tags", strings.Join(common.Tags, ", "))
			}
			if pillars, ok := a.graph.GetPillarAssociation(n.ID); ok {
				field(w, "Pillars", strings.Join(pillars, ", "))
			}

			header(w, "Relationships")
			for _, e := range a.graph.GetEdges(n.ID) {
				fmt.Fprintf(w, "  %s -> %s\n", e.Type.Label(), a.displayName(e.To))
			}
			for _, e := range a.graph.GetReverseEdges(n.ID) {
				fmt.Fprintf(w, "  %s <- %s\n", e.Type.ReverseLabel(), a.displayName(e.From))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the entity as JSON")
	return cmd
}

// displayName renders "Name (id)", or just the id for a dangling reference
func (a *app) displayName(id string) string {
	if n, ok := a.graph.GetNode(id); ok && n.Name() != "" {
		return fmt.Sprintf("%s (%s)", n.Name(), id)
	}
	return id
}

func (a *app) searchCmd() *cobra.Command {
	var limit int
	var byType bool

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Ranked full-text search over names, descriptions and tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			q := strings.Join(args, " ")

			if byType {
				results := a.qb.SearchAll(q)
				title(w, fmt.Sprintf("%d results for %q", results.Total(), q))
				for _, t := range storage.AllEntityTypes() {
					if nodes := results.ByType(t); len(nodes) > 0 {
						header(w, string(t))
						nodeLines(w, nodes)
					}
				}
				return nil
			}

			hits := a.graph.SearchScored(q)
			if limit > 0 && len(hits) > limit {
				hits = hits[:limit]
			}
			title(w, fmt.Sprintf("%d results for %q", len(hits), q))
			for _, hit := range hits {
				fmt.Fprintf(w, "  %6.1f  ", hit.Score)
				nodeLine(w, hit.Node)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results (0 = all)")
	cmd.Flags().BoolVar(&byType, "by-type", false, "group results by entity type")
	return cmd
}

func (a *app) pillarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pillars",
		Short: "Summarize the entities associated with each pillar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			title(w, "Pillars")
			for _, s := range a.graph.GetPillarSummaries() {
				header(w, a.displayName(s.Pillar.ID))
				field(w, "Total", s.Total)
				if len(s.Counts) > 0 {
					field(w, "By type", counts(s.Counts))
				}
			}
			return nil
		},
	}
}

func (a *app) capabilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities PILLAR_ID",
		Short: "Roll up the CoEs, assets and technologies under a pillar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			caps, ok := a.qb.GetPillarCapabilities(args[0])
			if !ok {
				return fmt.Errorf("%s is not a pillar", args[0])
			}

			title(w, caps.Pillar.Name())
			header(w, fmt.Sprintf("CoEs (%d)", caps.Metrics.CoECount))
			nodeLines(w, caps.CoEs)
			header(w, fmt.Sprintf("IP assets (%d)", caps.Metrics.AssetCount))
			nodeLines(w, caps.IPAssets)
			header(w, fmt.Sprintf("Technologies (%d)", caps.Metrics.TechnologyCount))
			nodeLines(w, caps.Technologies)
			return nil
		},
	}
}

func (a *app) industryCmd() *cobra.Command {
	var stories int

	cmd := &cobra.Command{
		Use:   "industry [ID]",
		Short: "Summarize what the catalog offers an industry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				title(w, "Industries")
				for _, s := range a.qb.GetAllIndustrySummaries() {
					fmt.Fprintf(w, "  %s  case studies=%d solutions=%d\n",
						idStyle.Render(s.Industry.ID), s.Metrics.CaseStudies, s.Metrics.TotalSolutions)
				}
				return nil
			}

			caps, ok := a.qb.GetIndustryCapabilities(args[0])
			if !ok {
				return fmt.Errorf("%s is not an industry", args[0])
			}
			summary := caps.Summary
			title(w, summary.Industry.Name())
			field(w, "Case studies", summary.Metrics.CaseStudies)
			field(w, "CoEs", summary.Metrics.CoEs)
			field(w, "Solutions", summary.Metrics.TotalSolutions)
			names := make([]string, 0, len(summary.ImpactMetrics))
			for name := range summary.ImpactMetrics {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				field(w, name, summary.ImpactMetrics[name])
			}
			for _, group := range caps.CapabilitiesByPillar {
				header(w, group.Pillar.Name())
				nodeLines(w, append(append([]*storage.Node{}, group.CoEs...), group.Solutions...))
			}
			limit := stories
			if limit <= 0 {
				limit = a.cfg.Query.SuccessStoryLimit
			}
			header(w, "Success stories")
			nodeLines(w, a.qb.GetIndustrySuccessStories(args[0], limit))
			return nil
		},
	}
	cmd.Flags().IntVar(&stories, "stories", 0, "success stories to list (0 = config default)")
	return cmd
}

func (a *app) platformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "Platform maturity and the prototypes feeding into platforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			pm := a.qb.CalculatePlatformMetrics()

			title(w, fmt.Sprintf("Platforms (%d)", pm.TotalPlatforms))
			field(w, "By maturity", counts(pm.ByMaturityLevel))
			for _, p := range pm.ByPlatform {
				fmt.Fprintf(w, "  %s%s%s\n", idStyle.Render(p.ID), typeStyle.Render(p.MaturityLevel), p.Name)
			}

			header(w, "Innovation pipeline")
			for _, flow := range a.qb.GetInnovationPipeline() {
				targets := make([]string, len(flow.TargetPlatforms))
				for i, t := range flow.TargetPlatforms {
					targets[i] = t.ID
				}
				fmt.Fprintf(w, "  %s [%s] -> %s\n", flow.Prototype.ID, flow.ReadinessLevel, strings.Join(targets, ", "))
			}
			return nil
		},
	}
}

func (a *app) relatedCmd() *cobra.Command {
	var depth int
	var layout string

	cmd := &cobra.Command{
		Use:   "related ID",
		Short: "Print the neighbourhood of an entity as positioned JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.node("related", args[0]); err != nil {
				return err
			}
			d := depth
			if d <= 0 {
				d = a.cfg.Query.RelatedDepth
			}
			l, err := visualization.NewLayout(layout, nil)
			if err != nil {
				return err
			}

			sub := a.qb.GetRelatedEntities(args[0], d)
			viz, err := visualization.Build(sub, l, a.graph.GetPillarAssociation)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), viz)
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 0, "traversal depth (0 = config default)")
	cmd.Flags().StringVar(&layout, "layout", visualization.LayoutCircular, "circular or hierarchical")
	return cmd
}

func (a *app) pathCmd() *cobra.Command {
	var maxDepth int
	var shortest, weighted bool

	cmd := &cobra.Command{
		Use:   "path FROM TO",
		Short: "Find a directed path between two entities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			hops := maxDepth
			if hops <= 0 {
				hops = a.cfg.Query.PathMaxDepth
			}

			var ids []string
			var cost float64
			var ok bool
			switch {
			case weighted:
				ids, cost, ok = algorithms.WeightedShortestPath(a.graph, args[0], args[1])
			case shortest:
				ids, ok = algorithms.ShortestPath(a.graph, args[0], args[1])
			default:
				var nodes []*storage.Node
				nodes, ok = a.graph.GetPath(args[0], args[1], hops)
				for _, n := range nodes {
					ids = append(ids, n.ID)
				}
			}
			if !ok {
				return fmt.Errorf("no path from %s to %s", args[0], args[1])
			}

			names := make([]string, len(ids))
			for i, id := range ids {
				names[i] = a.displayName(id)
			}
			title(w, fmt.Sprintf("%d hops", len(ids)-1))
			fmt.Fprintln(w, "  "+strings.Join(names, " -> "))
			if weighted {
				field(w, "Cost", cost)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum hops (0 = config default)")
	cmd.Flags().BoolVar(&shortest, "shortest", false, "return a path with the fewest hops")
	cmd.Flags().BoolVar(&weighted, "weighted", false, "return the cheapest path by summed edge weight")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check structural consistency of the loaded graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			result := a.cfg.NewValidator(a.metrics).Validate(a.graph)
			result.Log(a.logger.With(logging.Component("validator")))

			if len(result.Violations) == 0 {
				fmt.Fprintln(w, successStyle.Render("No violations"))
				return nil
			}
			title(w, fmt.Sprintf("%d violations", len(result.Violations)))
			for _, v := range result.Violations {
				line := fmt.Sprintf("  [%s] %s", v.Severity, v.Message)
				switch v.Severity {
				case constraints.Error:
					fmt.Fprintln(w, errorStyle.Render(line))
				case constraints.Warning:
					fmt.Fprintln(w, warnStyle.Render(line))
				default:
					fmt.Fprintln(w, line)
				}
			}
			if strict && !result.Valid {
				return fmt.Errorf("graph has %d errors", len(result.Errors()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when errors are found")
	return cmd
}

func (a *app) healthCmd() *cobra.Command {
	var minCoverage float64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Summarize graph size, pillar coverage and consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			hc := health.NewHealthChecker()
			hc.RegisterCheck("graph", health.GraphCheck(a.graph))
			hc.RegisterCheck("pillar_coverage", health.CoverageCheck(a.graph, minCoverage))
			hc.RegisterCheck("consistency", health.ConsistencyCheck(a.cfg.NewValidator(a.metrics), a.graph))

			resp := hc.Check()
			if asJSON {
				if err := writeJSON(w, resp); err != nil {
					return err
				}
			} else {
				title(w, "Catalog health: "+string(resp.Status))
				for _, c := range resp.Checks {
					line := fmt.Sprintf("  %-16s %-10s %s", c.Name, c.Status, c.Message)
					switch c.Status {
					case health.StatusUnhealthy:
						fmt.Fprintln(w, errorStyle.Render(line))
					case health.StatusDegraded:
						fmt.Fprintln(w, warnStyle.Render(line))
					default:
						fmt.Fprintln(w, successStyle.Render(line))
					}
				}
			}
			if !resp.Healthy() {
				return fmt.Errorf("catalog is %s", resp.Status)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&minCoverage, "min-coverage", health.DefaultMinCoverage, "pillar coverage below which the catalog is degraded")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func (a *app) queryCmd() *cobra.Command {
	var vars []string
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "query GRAPHQL",
		Short: "Run a read-only GraphQL query against the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exec, err := graphql.NewExecutor(a.qb, maxDepth)
			if err != nil {
				return err
			}

			variables := make(map[string]any, len(vars))
			for _, kv := range vars {
				k, v, found := strings.Cut(kv, "=")
				if !found {
					return fmt.Errorf("variable %q is not key=value", kv)
				}
				variables[k] = v
			}

			result := exec.Execute(cmd.Context(), args[0], variables)
			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if result.HasErrors() {
				return fmt.Errorf("query failed: %s", result.Errors[0].Message)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&vars, "var", nil, "query variable as key=value (repeatable)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", graphql.DefaultMaxDepth, "maximum selection depth")
	return cmd
}

func (a *app) deriveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "derive",
		Short: "Recompute pillar associations and print coverage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			result := a.derive()

			title(w, "Pillar associations")
			field(w, "Entities", result.TotalEntities)
			field(w, "Associated", result.Associated)
			field(w, "Coverage", fmt.Sprintf("%d%%", result.CoveragePercent()))
			for _, pc := range result.ByPillar {
				field(w, pc.Name, pc.Count)
			}
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var compress, indent bool

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the loaded graph, with derived associations, to a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			snap, err := a.graph.ExportSnapshot(f, storage.SnapshotOptions{
				Compress: compress || a.cfg.Snapshot.Compress,
				Indent:   indent,
			})
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			a.logger.Info("snapshot exported",
				logging.Path(args[0]),
				logging.String("snapshot_id", snap.ID),
				logging.Int("nodes", len(snap.Nodes)),
				logging.Int("edges", len(snap.Edges)),
			)
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(
				fmt.Sprintf("Exported %d nodes and %d edges to %s", len(snap.Nodes), len(snap.Edges), args[0])))
			return nil
		},
	}
	cmd.Flags().BoolVar(&compress, "compress", false, "snappy-compress the snapshot")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent the JSON payload")
	return cmd
}

func (a *app) metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print the metrics recorded while loading, in Prometheus text format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.metrics == nil {
				return fmt.Errorf("metrics are disabled in the configuration")
			}
			return a.metrics.WriteText(cmd.OutOrStdout())
		},
	}
}
