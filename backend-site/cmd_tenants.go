package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/dto"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/tenant"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/theme"
	"github.com/OttoDev-System/intellicor-saas/pkg/config"
	"github.com/OttoDev-System/intellicor-saas/pkg/database"
)

var tenantsOutput string

var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "List the tenant registry",
	Long: `Loads the registry from the configured source (embedded seed, YAML file
or the organizations table) and prints every brokerage with its derived theme.`,
	RunE: runTenants,
}

func init() {
	tenantsCmd.Flags().StringVarP(&tenantsOutput, "output", "o", "table", "output format: table, yaml or json")
}

func runTenants(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := loadRegistry(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	rows := make([]*dto.TenantResponse, 0, reg.Len())
	for _, t := range reg.All() {
		rows = append(rows, dto.NewTenantResponse(t))
	}
	return printTenants(cmd.OutOrStdout(), tenantsOutput, rows)
}

func loadRegistry(ctx context.Context, cfg *config.Config) (*tenant.Registry, error) {
	if cfg.Tenancy.RegistrySource != tenant.SourcePostgres {
		return tenant.Load(ctx, cfg.Tenancy, nil)
	}

	db, err := database.NewPostgres(ctx, database.FromAppConfig(cfg.Database))
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return tenant.Load(ctx, cfg.Tenancy, db)
}

func printTenants(w io.Writer, format string, rows []*dto.TenantResponse) error {
	switch strings.ToLower(format) {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rows)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSUBDOMAIN\tNAME\tPRIMARY\tPRIMARY HSL\tCHATBOT\tREGISTRATION")
		for _, t := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%t\n",
				t.ID, t.Subdomain, t.Name, t.Theme.Primary, theme.HexToHSL(t.Theme.Primary),
				t.ChatbotEnabled, t.AllowRegistration)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
