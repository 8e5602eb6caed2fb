package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/config"
)

type CheckCatalogCommand struct{}

func (c *CheckCatalogCommand) Name() string {
	return "check-catalog"
}

func (c *CheckCatalogCommand) Description() string {
	return "Validate a catalog file against the schema and behavior registry"
}

func (c *CheckCatalogCommand) Run(args []string) error {
	fs := flag.NewFlagSet("check-catalog", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{config.ConfigPathCatalog}
	}

	PrintHeader("Checking catalogs")
	loader := catalog.NewLoader(catalog.NewDefaultRegistry())

	failed := 0
	for _, path := range paths {
		cat, err := loader.LoadCatalog(context.Background(), path)
		if err != nil {
			PrintError("%s: %v", path, err)
			failed++
			continue
		}
		PrintSuccess("%s: version %s, %d roles, %d events, %d items",
			path, cat.Version(), len(cat.Roles()), len(cat.Events()), len(cat.Items()))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d catalogs invalid", failed, len(paths))
	}
	return nil
}
