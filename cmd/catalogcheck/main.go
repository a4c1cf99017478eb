package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/notebook-cafe/api/internal/menu"
)

// catalogcheck validates a menu catalog file without starting the server,
// so catalog edits can be checked in CI before deploy.
func main() {
	path := flag.String("file", "", "Path to a catalog YAML file (default: embedded catalog)")
	verbose := flag.Bool("v", false, "Print every item and its modifier groups")
	flag.Parse()

	if *path == "" {
		*path = os.Getenv("CATALOG_PATH")
	}

	var (
		catalog *menu.Catalog
		err     error
		source  = "embedded catalog"
	)
	if *path != "" {
		catalog, err = menu.LoadFile(*path)
		source = *path
	} else {
		catalog, err = menu.Default()
	}
	if err != nil {
		log.Fatalf("Catalog invalid: %v", err)
	}

	items := catalog.Items()
	fmt.Printf("OK: %s: %d items\n", source, len(items))

	if *verbose {
		for _, item := range items {
			groups := catalog.GroupsFor(item)
			fmt.Printf("  [%s] %s (%s) $%s, %d modifier groups\n",
				item.ID, item.Name, item.Section, item.Price.StringFixed(2), len(groups))
			for _, g := range groups {
				fmt.Printf("      - %s (%s, %d options)\n", g.Name, g.Type, len(g.Options))
			}
		}
	}
}
