// nidoctl es la CLI de operación de la migración de stores: inspección
// de flags, resolución de routing y kill switch sobre el archivo YAML.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/nido/internal/migrate"
	"github.com/dropDatabas3/nido/internal/migrate/flagsource"
	"github.com/dropDatabas3/nido/internal/store/pg"
)

func main() {
	var flagsFile string

	root := &cobra.Command{
		Use:   "nidoctl",
		Short: "Operación de la migración de stores de Nido",
	}
	root.PersistentFlags().StringVar(&flagsFile, "flags-file", envOr("NIDO_FLAGS_PATH", "flags.yaml"), "archivo YAML de flags (env NIDO_FLAGS_PATH)")

	flagsCmd := &cobra.Command{
		Use:   "flags",
		Short: "Inspección y edición de la config de flags",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Muestra la config de flags vigente",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := flagsource.LoadFile(flagsFile)
			if err != nil {
				return err
			}
			fmt.Printf("version: %s\n", doc.Version)
			for name, ep := range doc.Endpoints {
				fmt.Printf("%s:\n", name)
				if ep.Kill {
					fmt.Println("  kill: ON (todo primary_only)")
				}
				for _, t := range ep.Tiers {
					fmt.Printf("  %-12s %3d%%\n", t.Mode, t.Percent)
				}
				if len(ep.Allow) > 0 {
					fmt.Printf("  allow: %v\n", ep.Allow)
				}
				if len(ep.Deny) > 0 {
					fmt.Printf("  deny:  %v\n", ep.Deny)
				}
			}
			return nil
		},
	}

	var resolveEndpoint, resolveKey string
	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resuelve el modo para (endpoint, routing key)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if resolveEndpoint == "" {
				return fmt.Errorf("falta --endpoint")
			}
			doc, err := flagsource.LoadFile(flagsFile)
			if err != nil {
				return err
			}
			cfg, err := doc.ToConfig()
			if err != nil {
				return err
			}
			mgr := migrate.NewFlagManager(flagsource.NewStatic(cfg), migrate.FlagManagerOptions{})
			if err := mgr.Prime(cmd.Context()); err != nil {
				return err
			}
			mode := mgr.Resolve(resolveEndpoint, resolveKey)
			fmt.Printf("endpoint=%s key=%q bucket=%d → %s\n",
				resolveEndpoint, resolveKey, migrate.Bucket(resolveKey), mode)
			return nil
		},
	}
	resolveCmd.Flags().StringVar(&resolveEndpoint, "endpoint", "", "tag del endpoint (ej. /api/budget)")
	resolveCmd.Flags().StringVar(&resolveKey, "key", "", "routing key (ej. family id)")

	var killOff bool
	killCmd := &cobra.Command{
		Use:   "kill <endpoint>",
		Short: "Activa (o desactiva con --off) el kill switch de un endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := args[0]
			doc, err := flagsource.LoadFile(flagsFile)
			if err != nil {
				return err
			}
			ep, ok := doc.Endpoints[endpoint]
			if !ok {
				return fmt.Errorf("endpoint %q no existe en %s", endpoint, flagsFile)
			}
			ep.Kill = !killOff
			doc.Endpoints[endpoint] = ep
			if err := flagsource.SaveFile(flagsFile, doc); err != nil {
				return err
			}
			state := "ON"
			if killOff {
				state = "OFF"
			}
			fmt.Printf("kill switch %s para %s\n", state, endpoint)
			return nil
		},
	}
	killCmd.Flags().BoolVar(&killOff, "off", false, "desactiva el kill switch")

	flagsCmd.AddCommand(showCmd, resolveCmd, killCmd)

	var migrateDSN string
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el schema postgres embebido (idempotente)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if migrateDSN == "" {
				return fmt.Errorf("falta --dsn (o env NIDO_SECONDARY_DSN)")
			}
			pool, err := pg.Connect(cmd.Context(), migrateDSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := pg.ApplySchema(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Println("schema aplicado")
			return nil
		},
	}
	migrateCmd.Flags().StringVar(&migrateDSN, "dsn", os.Getenv("NIDO_SECONDARY_DSN"), "DSN postgres destino")

	root.AddCommand(flagsCmd, migrateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
