package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"vectoradmin/internal/export"
	"vectoradmin/internal/service"
)

// runWithApp builds the app for one command invocation and closes it after.
func runWithApp(profile *string, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), *profile)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

func newDetectCmd(profile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Probe the server and print its API version and capability matrix",
		Args:  cobra.NoArgs,
		RunE: runWithApp(profile, func(cmd *cobra.Command, a *app, _ []string) error {
			health := a.console.Health(cmd.Context())
			if health.Status != "healthy" {
				slog.Warn("server unhealthy", "issues", health.Issues)
			}
			return printJSON(cmd.OutOrStdout(), a.console.Capabilities(cmd.Context(), true))
		}),
	}
}

func newCollectionsCmd(profile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List collections with their record counts",
		Args:  cobra.NoArgs,
		RunE: runWithApp(profile, func(cmd *cobra.Command, a *app, _ []string) error {
			cols, err := a.console.ListCollections(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), cols)
		}),
	}
}

func newExportCmd(profile *string) *cobra.Command {
	var (
		out  string
		save bool
	)
	cmd := &cobra.Command{
		Use:   "export <collection>",
		Short: "Export every record of a collection as a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(profile, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			doc, err := a.console.Export(ctx, args[0], func(fetched int) {
				slog.Info("export progress", "collection", args[0], "fetched", fetched)
			})
			if err != nil {
				return err
			}

			if save {
				key, err := a.console.SaveExport(ctx, doc)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer func() {
					_ = f.Close()
				}()
				w = f
			}
			bw := bufio.NewWriter(w)
			if err := export.Encode(bw, doc); err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			slog.Info("export written", "collection", doc.Name, "records", doc.Data.Len())
			return nil
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&save, "save", false, "write to the configured export store instead of a file")
	return cmd
}

func newImportCmd(profile *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a collection from an export document (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(profile, func(cmd *cobra.Command, a *app, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer func() {
					_ = f.Close()
				}()
				r = f
			}
			doc, err := export.Decode(bufio.NewReader(r))
			if err != nil {
				return err
			}
			col, err := a.console.Import(cmd.Context(), doc, name)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), col)
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "collection name (default: the name stored in the document)")
	return cmd
}

func newMirrorCmd(profile *string) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "mirror <collection>",
		Short: "Copy a collection's embeddings into a Qdrant collection",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(profile, func(cmd *cobra.Command, a *app, args []string) error {
			if target == "" {
				target = args[0]
			}
			report, err := a.console.Mirror(cmd.Context(), args[0], target)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		}),
	}
	cmd.Flags().StringVar(&target, "to", "", "target Qdrant collection (default: same name)")
	return cmd
}

func newVisualizeCmd(profile *string) *cobra.Command {
	var req service.VisualizeRequest
	cmd := &cobra.Command{
		Use:   "visualize <collection>",
		Short: "Project a sample of embeddings to 2D and cluster them",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(profile, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := a.resolveID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			vis, err := a.console.Visualize(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), vis)
		}),
	}
	cmd.Flags().IntVar(&req.K, "k", 0, "number of k-means clusters (0 disables clustering)")
	cmd.Flags().IntVar(&req.Limit, "limit", service.DefaultVisualizeLimit, "maximum records to sample")
	return cmd
}
