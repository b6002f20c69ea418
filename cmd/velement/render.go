package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/velement/internal/config"
	"github.com/vango-dev/velement/internal/errors"
	"github.com/vango-dev/velement/internal/preview"
	"github.com/vango-dev/velement/internal/publish"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		file     string
		output   string
		target   string
		s3Config publish.S3Config
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a page manifest to HTML",
		Long: `Mount every element of a page manifest, run pending renders and
print the document HTML. Shadow roots are written as declarative
<template shadowrootmode="open"> elements.

With --publish the HTML is uploaded to S3 instead, using credentials from
AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			m, err := config.Load(file)
			if err != nil {
				return err
			}
			html, err := renderPage(m, logger)
			if err != nil {
				return err
			}

			if target != "" {
				return publishPage(cmd.Context(), target, s3Config, html, logger)
			}
			if output == "" || output == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), html)
				return nil
			}
			return os.WriteFile(output, []byte(html+"\n"), 0o644)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", config.DefaultFileName, "Page manifest")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write HTML to a file instead of stdout")
	cmd.Flags().StringVar(&target, "publish", "", "Upload HTML to s3://bucket/key")
	cmd.Flags().StringVar(&s3Config.Region, "s3-region", "", "S3 region (default: $AWS_REGION)")
	cmd.Flags().StringVar(&s3Config.Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")
	cmd.MarkFlagsMutuallyExclusive("output", "publish")

	return cmd
}

// renderPage mounts m on a fresh loop owned by the calling goroutine and
// returns the settled document.
func renderPage(m *config.Manifest, logger *slog.Logger) (string, error) {
	p, err := preview.New(m, preview.WithLogger(logger))
	if err != nil {
		return "", err
	}

	var mountErr error
	p.Loop().Do(func() { mountErr = p.Mount() })
	if mountErr != nil {
		return "", mountErr
	}
	p.Loop().RunPending()
	return p.HTML(), nil
}

func publishPage(ctx context.Context, raw string, cfg publish.S3Config, html string, logger *slog.Logger) error {
	target, err := publish.ParseTarget(raw)
	if err != nil {
		return errors.New("E304").WithDetail(raw).Wrap(err)
	}
	p := publish.NewS3Publisher(publish.NewS3Client(cfg), target.Bucket)
	if err := p.Publish(ctx, target.Key, []byte(html+"\n")); err != nil {
		return errors.New("E304").WithDetail(target.String()).Wrap(err)
	}
	logger.Info("page published", "target", target.String(), "bytes", len(html)+1)
	return nil
}
