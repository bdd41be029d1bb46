package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/export"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/rehydrate"
	"github.com/GriffinCanCode/pagebuilder/internal/infrastructure/config"
	"github.com/GriffinCanCode/pagebuilder/internal/infrastructure/server"
)

var (
	requestPath string
	outDir      string
	catalogDir  string
)

var rootCmd = &cobra.Command{
	Use:           "pagebuilder",
	Short:         "Page builder backend: project storage, block catalog and Next.js export",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		srv, err := server.NewServer(cfg)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runErr := srv.Run(ctx)
		if err := srv.Close(); err != nil && runErr == nil {
			runErr = err
		}
		return runErr
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Build a Next.js project archive from an export request file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := runExport(cmd.Context(), requestPath, outDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [snapshot.json]",
	Short: "Rehydrate a saved project snapshot and print its pages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.OutOrStdout(), args[0], catalogDir)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&requestPath, "request", "r", "", "Path to export request JSON")
	exportCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to write the archive into")
	_ = exportCmd.MarkFlagRequired("request")

	inspectCmd.Flags().StringVarP(&catalogDir, "catalog", "c", "", "Extra block catalog directory")

	rootCmd.AddCommand(serveCmd, exportCmd, inspectCmd)
}

// runExport builds the archive for the request at reqPath and writes it into dir
func runExport(ctx context.Context, reqPath, dir string) (string, error) {
	data, err := os.ReadFile(reqPath)
	if err != nil {
		return "", fmt.Errorf("read request: %w", err)
	}
	var req export.Request
	if err := sonic.Unmarshal(data, &req); err != nil {
		return "", fmt.Errorf("decode request: %w", err)
	}

	pipeline, err := export.NewPipeline(config.LoadOrDefault().Export.PageGlob, nil)
	if err != nil {
		return "", err
	}
	archive, err := pipeline.Run(ctx, req)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	// Project names are free text; keep the archive inside dir.
	out := filepath.Join(dir, filepath.Base(filepath.Clean("/"+archive.Filename)))
	if err := os.WriteFile(out, archive.Data, 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return out, nil
}

func runInspect(w io.Writer, snapshotPath, catalog string) error {
	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	blocks, err := server.LoadCatalog(catalog, zap.NewNop())
	if err != nil {
		return err
	}

	project := rehydrate.Rehydrate(data, blocks)
	fmt.Fprintf(w, "%d page(s), entry %s\n", len(project.Pages), project.EntryPageID)
	for _, page := range project.Pages {
		marker := " "
		if page.ID == project.EntryPageID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-24s /%-24s %d component(s)\n", marker, page.Name, page.Slug, len(page.Components))
	}
	return nil
}
