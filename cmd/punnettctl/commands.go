package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JKrag/punnett-simulator/internal/cross"
	"github.com/JKrag/punnett-simulator/internal/genetics"
	"github.com/JKrag/punnett-simulator/internal/pairfile"
	"github.com/JKrag/punnett-simulator/pkg/punnett"
)

// withClient opens a client for the duration of fn.
func (a *app) withClient(ctx context.Context, fn func(*punnett.Client) error) error {
	client, err := a.newClient(ctx, nil)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

// parents resolves req to genotypes. Only a saved pairing opens the store.
func (a *app) parents(ctx context.Context, req punnett.ParentsRequest) (genetics.Genotype, genetics.Genotype, error) {
	if req.PairingID == "" {
		return req.Parent1, req.Parent2, nil
	}
	var p1, p2 genetics.Genotype
	err := a.withClient(ctx, func(c *punnett.Client) error {
		pairing, err := c.Pairing(ctx, req.PairingID)
		if err != nil {
			return err
		}
		p1, p2 = pairing.Parent1, pairing.Parent2
		return nil
	})
	return p1, p2, err
}

// genotypeArg accepts the genotype either quoted as one argument or as five
// locus groups.
func genotypeArg(args []string) (genetics.Genotype, error) {
	return genetics.ParseGenotype(strings.Join(args, " "))
}

func (a *app) phenotypeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "phenotype GENOTYPE",
		Short: "Show the coat a genotype expresses",
		Args:  cobra.RangeArgs(1, genetics.NumLoci),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := genotypeArg(args)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(g.Phenotype())
			}
			return a.renderer().Phenotype(g)
		},
	}
}

func (a *app) gametesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gametes GENOTYPE",
		Short: "List the distinct gametes a genotype produces",
		Args:  cobra.RangeArgs(1, genetics.NumLoci),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := genotypeArg(args)
			if err != nil {
				return err
			}
			gametes := cross.Gametes(g)
			if a.jsonOut {
				return a.printJSON(gametes)
			}
			return a.renderer().Gametes(g, gametes)
		},
	}
}

func (a *app) crossCommand() *cobra.Command {
	var (
		parents   parentFlags
		genotypes bool
	)
	cmd := &cobra.Command{
		Use:   "cross",
		Short: "Cross two parents and summarize the offspring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, _, err := parents.resolve()
			if err != nil {
				return err
			}
			p1, p2, err := a.parents(cmd.Context(), req)
			if err != nil {
				return err
			}
			res := cross.Cross(p1, p2)
			a.log.DebugContext(cmd.Context(), "cross computed", "parent1", p1.String(), "parent2", p2.String(), "total", res.TotalCount)
			if a.jsonOut {
				return a.printJSON(res)
			}
			r := a.renderer()
			if err := r.Result(res); err != nil {
				return err
			}
			if genotypes {
				return r.Genotypes(res)
			}
			return nil
		},
	}
	parents.register(cmd)
	cmd.Flags().BoolVar(&genotypes, "genotypes", false, "also list every offspring genotype")
	return cmd
}

func (a *app) squareCommand() *cobra.Command {
	var parents parentFlags
	cmd := &cobra.Command{
		Use:   "square",
		Short: "Print the Punnett square of two parents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, _, err := parents.resolve()
			if err != nil {
				return err
			}
			p1, p2, err := a.parents(cmd.Context(), req)
			if err != nil {
				return err
			}
			grid := cross.Square(p1, p2)
			if a.jsonOut {
				return a.printJSON(grid)
			}
			return a.renderer().Grid(grid)
		},
	}
	parents.register(cmd)
	return cmd
}

func (a *app) saveCommand() *cobra.Command {
	var (
		parents parentFlags
		name    string
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a pair of parents for later crosses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if parents.pairingID != "" {
				return fmt.Errorf("--pairing cannot be used with save")
			}
			req, fileName, err := parents.resolve()
			if err != nil {
				return err
			}
			if name == "" {
				name = fileName
			}
			return a.withClient(cmd.Context(), func(c *punnett.Client) error {
				pairing, err := c.SavePairing(cmd.Context(), punnett.SavePairingRequest{
					Name:    name,
					Parent1: req.Parent1,
					Parent2: req.Parent2,
				})
				if err != nil {
					return err
				}
				if a.jsonOut {
					return a.printJSON(pairing)
				}
				_, err = fmt.Fprintf(a.stdout, "saved pairing %s (%s)\n", pairing.ID, pairing.Name)
				return err
			})
		},
	}
	parents.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "pairing name")
	return cmd
}

func (a *app) pairingsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "pairings",
		Short: "List saved pairings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd.Context(), func(c *punnett.Client) error {
				pairings, err := c.Pairings(cmd.Context(), punnett.PairingsRequest{Limit: limit})
				if err != nil {
					return err
				}
				if a.jsonOut {
					return a.printJSON(pairings)
				}
				return a.renderer().Pairings(pairings)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum pairings to list (0 for all)")
	return cmd
}

func (a *app) showCommand() *cobra.Command {
	var (
		asYAML bool
		out    string
	)
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a saved pairing and its parents' phenotypes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd.Context(), func(c *punnett.Client) error {
				pairing, err := c.Pairing(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				pair := pairfile.Pair{Name: pairing.Name, Parent1: pairing.Parent1, Parent2: pairing.Parent2}
				if out != "" {
					if err := pairfile.Write(out, pair); err != nil {
						return err
					}
					_, err := fmt.Fprintf(a.stdout, "wrote pairing %s to %s\n", pairing.ID, out)
					return err
				}
				if asYAML {
					data, err := pairfile.Encode(pair)
					if err != nil {
						return err
					}
					_, err = a.stdout.Write(data)
					return err
				}
				if a.jsonOut {
					return a.printJSON(pairing)
				}
				if _, err := fmt.Fprintf(a.stdout, "%s (%s)\n", pairing.Name, pairing.ID); err != nil {
					return err
				}
				r := a.renderer()
				if err := r.Phenotype(pairing.Parent1); err != nil {
					return err
				}
				return r.Phenotype(pairing.Parent2)
			})
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the pairing as a pair file")
	cmd.Flags().StringVar(&out, "out", "", "write the pairing to a pair file usable with --file")
	cmd.MarkFlagsMutuallyExclusive("yaml", "out")
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved pairing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd.Context(), func(c *punnett.Client) error {
				if err := c.DeletePairing(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(a.stdout, "deleted pairing %s\n", args[0])
				return err
			})
		},
	}
}

func (a *app) reportCommand() *cobra.Command {
	var (
		parents parentFlags
		name    string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Cross two parents and write the result to the reports directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, fileName, err := parents.resolve()
			if err != nil {
				return err
			}
			if name == "" {
				name = fileName
			}
			return a.withClient(cmd.Context(), func(c *punnett.Client) error {
				summary, err := c.WriteReport(cmd.Context(), punnett.ReportRequest{ParentsRequest: req, Name: name})
				if err != nil {
					return err
				}
				if a.jsonOut {
					return a.printJSON(map[string]any{
						"report_id":   summary.ReportID,
						"directory":   summary.Directory,
						"total_count": summary.Result.TotalCount,
					})
				}
				_, err = fmt.Fprintf(a.stdout, "report %s written to %s\n", summary.ReportID, summary.Directory)
				return err
			})
		},
	}
	parents.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "report name")
	return cmd
}

func (a *app) reportsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List written reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd.Context(), func(c *punnett.Client) error {
				entries, err := c.Reports(cmd.Context(), punnett.ReportsRequest{Limit: limit})
				if err != nil {
					return err
				}
				if a.jsonOut {
					return a.printJSON(entries)
				}
				return a.renderer().Reports(entries)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum reports to list")
	cmd.AddCommand(a.reportShowCommand())
	return cmd
}

func (a *app) reportShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show the parents and phenotype counts of a written report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd.Context(), func(c *punnett.Client) error {
				detail, err := c.Report(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if a.jsonOut {
					return a.printJSON(map[string]any{
						"parents":    detail.Parents,
						"phenotypes": detail.Phenotypes,
					})
				}
				return a.renderer().Report(detail.Parents, detail.Phenotypes)
			})
		},
	}
}

func (a *app) exportCommand() *cobra.Command {
	var req punnett.ExportRequest
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy a report to another directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd.Context(), func(c *punnett.Client) error {
				summary, err := c.ExportReport(cmd.Context(), req)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.stdout, "exported report %s to %s\n", summary.ReportID, summary.Directory)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&req.ReportID, "id", "", "report id")
	cmd.Flags().BoolVar(&req.Latest, "latest", false, "export the newest report")
	cmd.Flags().StringVar(&req.OutDir, "out", "", "destination directory (default exports)")
	return cmd
}
