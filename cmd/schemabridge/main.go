// Package main implements the schemabridge admin binary. It performs
// namespace and table operations against a schema registry and can dump
// the reconstructed catalog listing.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/opencatalog/schemabridge/internal/catalog"
	"github.com/opencatalog/schemabridge/internal/config"
	"github.com/opencatalog/schemabridge/internal/location"
	"github.com/opencatalog/schemabridge/internal/registry"
	"github.com/opencatalog/schemabridge/pkg/types"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		op          string
		namespace   string
		owner       string
		table       string
		tableFile   string
		verbose     bool
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&op, "op", "", "Operation: create-namespace, drop-namespace, namespace-exists, create-table, drop-table, table-exists, snapshot")
	flag.StringVar(&namespace, "namespace", "", "Namespace (database) name")
	flag.StringVar(&owner, "owner", "", "Namespace owner (create-namespace)")
	flag.StringVar(&table, "table", "", "Table name")
	flag.StringVar(&tableFile, "table-file", "", "Path to table metadata JSON (create-table)")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "schemabridge - catalog bridge for a JSON schema registry\n\n")
		fmt.Fprintf(os.Stderr, "Usage: schemabridge -op <operation> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  schemabridge -op create-namespace -namespace sales -owner alice\n")
		fmt.Fprintf(os.Stderr, "  schemabridge -op create-table -table-file orders.json\n")
		fmt.Fprintf(os.Stderr, "  schemabridge -op snapshot\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  SCHEMABRIDGE_REGISTRY_HOST       Registry server host\n")
		fmt.Fprintf(os.Stderr, "  SCHEMABRIDGE_REGISTRY_PORT       Registry server port\n")
		fmt.Fprintf(os.Stderr, "  SCHEMABRIDGE_REGISTRY_NAMESPACE  Registry namespace\n")
		fmt.Fprintf(os.Stderr, "  SCHEMABRIDGE_DEFAULT_*           Table format hint defaults\n")
		fmt.Fprintf(os.Stderr, "  SCHEMABRIDGE_PROBE_*             S3 location probe settings\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("schemabridge %s (%s)\n", version, commit)
		os.Exit(0)
	}

	// A local .env is optional.
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.LoadFromFile(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "schemabridge: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	config.LoadFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "schemabridge: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schemabridge: failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(op, namespace, owner, table, tableFile, cfg, log); err != nil {
		log.Error("operation failed", zap.String("op", op), zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(op, namespace, owner, table, tableFile string, cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	dialer := &registry.Dialer{
		Host:      cfg.Registry.Host,
		Port:      cfg.Registry.Port,
		Namespace: cfg.Registry.Namespace,
		Timeout:   cfg.Registry.Timeout,
		Log:       log,
	}

	var probe *location.Probe
	if cfg.LocationProbe.Enabled {
		p, err := location.NewProbe(ctx, location.ProbeConfig{
			Region:       cfg.LocationProbe.Region,
			Endpoint:     cfg.LocationProbe.Endpoint,
			UsePathStyle: cfg.LocationProbe.UsePathStyle,
		}, log)
		if err != nil {
			return err
		}
		probe = p
	}

	namespaces := catalog.NewNamespaces(dialer, log)
	tables := catalog.NewTablesWithDefaults(dialer, probe, types.FormatHints{
		HasHeaderRow:    cfg.Defaults.HasHeaderRow,
		RecordDelimiter: cfg.Defaults.RecordDelimiter,
		FieldDelimiter:  cfg.Defaults.FieldDelimiter,
	}, log)
	builder := catalog.NewSnapshotBuilder(dialer, log)

	switch op {
	case "create-namespace":
		if namespace == "" {
			return fmt.Errorf("create-namespace requires -namespace")
		}
		return namespaces.Create(ctx, namespace, owner)

	case "drop-namespace":
		if namespace == "" {
			return fmt.Errorf("drop-namespace requires -namespace")
		}
		return namespaces.Drop(ctx, namespace)

	case "namespace-exists":
		if namespace == "" {
			return fmt.Errorf("namespace-exists requires -namespace")
		}
		fmt.Println(namespaces.Exists(ctx, namespace))
		return nil

	case "create-table":
		if tableFile == "" {
			return fmt.Errorf("create-table requires -table-file")
		}
		data, err := os.ReadFile(tableFile)
		if err != nil {
			return fmt.Errorf("failed to read table metadata: %w", err)
		}
		var meta types.TableMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("failed to parse table metadata: %w", err)
		}
		return tables.Create(ctx, meta)

	case "drop-table":
		if namespace == "" || table == "" {
			return fmt.Errorf("drop-table requires -namespace and -table")
		}
		return tables.Drop(ctx, namespace, table)

	case "table-exists":
		if namespace == "" || table == "" {
			return fmt.Errorf("table-exists requires -namespace and -table")
		}
		fmt.Println(tables.Exists(ctx, namespace, table))
		return nil

	case "snapshot":
		snapshot := builder.Build(ctx)
		out, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render snapshot: %w", err)
		}
		fmt.Println(string(out))
		return nil

	case "":
		flag.Usage()
		return fmt.Errorf("no operation given")

	default:
		return fmt.Errorf("unknown operation: %s", op)
	}
}
