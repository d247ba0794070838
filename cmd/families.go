package main

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sells-group/directory-cli/internal/config"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/pipeline"
	"github.com/sells-group/directory-cli/internal/site"
)

var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "Print the host to site family table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderFamilies(cmd.OutOrStdout(), cfg.Sites)
	},
}

func init() {
	rootCmd.AddCommand(familiesCmd)
}

// renderFamilies prints the dispatch table a run would use, in dispatch order.
func renderFamilies(w io.Writer, sites config.SitesConfig) error {
	reg, err := site.NewRegistry(pipeline.SiteConfig(sites))
	if err != nil {
		return err
	}
	rc := reg.Config()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Family", "Hosts", "Discovery", "Extraction"})
	for _, f := range model.AllFamilies() {
		hosts := hostList(reg.HostsFor(f))
		var discovery, extraction string
		switch f {
		case model.FamilyDirectory:
			discovery = "advisor and team roots from the directory page"
			extraction = "JSON-LD, roster lines, profile page"
		case model.FamilyRoster:
			discovery = "links matching " + rc.RosterPattern
			extraction = "JSON-LD, DOM headings"
		case model.FamilyHub:
			discovery = "one-segment team roots under " + rc.HubPath
			extraction = "team, contact and root pages"
		default:
			hosts = "any other host"
			discovery = "seed plus team and contact links"
			extraction = "JSON-LD, loose headings"
		}
		t.AppendRow(table.Row{f, hosts, discovery, extraction})
	}
	t.Render()
	return nil
}

func hostList(hosts []string) string {
	if len(hosts) == 0 {
		return "-"
	}
	return strings.Join(hosts, "\n")
}
