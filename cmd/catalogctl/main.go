package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gearhouse/catalog/internal/api"
	"gearhouse/catalog/internal/db"
	"gearhouse/catalog/internal/logging"
	"gearhouse/catalog/internal/schema"
)

// catalogctl runs the destructive or operator-facing catalog tasks out of
// band: seeding, schema migrations and capability probes. It talks to the
// same database the server does, via the PG_* environment variables.
func main() {
	var (
		dryRun  = flag.Bool("dry-run", false, "seed: report the plan without writing")
		seedVal = flag.Int64("seed", 0, "seed: pin the random source (0 = clock)")
		change  = flag.String("change", "", "migrate/status: schema change id")
		table   = flag.String("table", "", "probe: table name")
		column  = flag.String("column", "", "probe: column name")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"usage: catalogctl [flags] seed|preview|migrate|status|probe\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	cmd := flag.Arg(0)

	if err := logging.Init("development"); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()

	if err := db.InitPostgres(); err != nil {
		log.Fatalf("connect postgres (sqlx): %v", err)
	}
	if _, err := db.InitPostgresORM(db.DSNFromEnv()); err != nil {
		log.Fatalf("connect postgres (gorm): %v", err)
	}

	deps, err := api.InitDependencies(nil)
	if err != nil {
		log.Fatalf("init dependencies: %v", err)
	}

	ctx := context.Background()

	switch cmd {
	case "seed":
		var seed *int64
		if *seedVal != 0 {
			seed = seedVal
		}
		report, err := deps.Services.Seeder.Seed(ctx, *dryRun, seed)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		printJSON(report)
		if !report.Ok {
			os.Exit(1)
		}

	case "preview":
		preview, err := deps.Services.Seeder.Preview(ctx)
		if err != nil {
			log.Fatalf("preview: %v", err)
		}
		printJSON(preview)

	case "migrate":
		ch := mustChange(*change)
		res := deps.Services.Migrator.Apply(ctx, ch)
		printJSON(res)
		if !res.Ok {
			os.Exit(1)
		}

	case "status":
		if *change != "" {
			ch := mustChange(*change)
			fmt.Printf("%s\tapplied=%v\n", ch.ID, deps.Services.Migrator.Status(ctx, ch))
			return
		}
		for _, ch := range schema.Changes() {
			fmt.Printf("%s\tapplied=%v\n", ch.ID, deps.Services.Migrator.Status(ctx, ch))
		}

	case "probe":
		if *table == "" || *column == "" {
			log.Fatal("probe requires -table and -column")
		}
		fmt.Printf("%s.%s\texists=%v\n", *table, *column,
			deps.Services.Probe.CapabilityExists(ctx, *table, *column))

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func mustChange(id string) schema.Change {
	if id == "" {
		log.Fatal("missing -change")
	}
	ch, ok := schema.ChangeByID(id)
	if !ok {
		log.Fatalf("unknown change %q (known: %v)", id, changeIDs())
	}
	return ch
}

func changeIDs() []string {
	var ids []string
	for _, ch := range schema.Changes() {
		ids = append(ids, ch.ID)
	}
	return ids
}

func printJSON(v interface{}) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
