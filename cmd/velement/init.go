package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/velement/internal/config"
	"github.com/vango-dev/velement/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		templateName string
		title        string
		addr         string
		noLive       bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter page manifest",
		Long: `Write a starter page manifest into a directory (default: current).

Templates: ` + strings.Join(templates.List(), ", "),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			tmpl, err := templates.Get(templateName)
			if err != nil {
				return err
			}
			if err := tmpl.Create(dir, templates.Config{Title: title, Addr: addr, Live: !noLive}); err != nil {
				return err
			}

			path := filepath.Join(dir, config.DefaultFileName)
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n\n", path, tmpl.Description)
			fmt.Fprintf(cmd.OutOrStdout(), "  velement serve -f %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "minimal", "Starter template")
	cmd.Flags().StringVar(&title, "title", "", "Page title")
	cmd.Flags().StringVar(&addr, "addr", "", "Preview server address")
	cmd.Flags().BoolVar(&noLive, "no-live", false, "Disable the websocket live route")

	return cmd
}
