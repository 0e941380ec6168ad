// Command schemagen writes the JSON schema for the configuration file.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/quellcode/quellcode/pkg/config"
	"github.com/quellcode/quellcode/pkg/ui"
)

var outFile = flag.String("o", "schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	r := &jsonschema.Reflector{
		Namer: func(t reflect.Type) string {
			// Both config.Config and ui.Config exist.
			if t == reflect.TypeFor[ui.Config]() {
				return "UIConfig"
			}

			return t.Name()
		},
	}

	// Paths are relative to pkg/config, where go:generate runs.
	for pkg, path := range map[string]string{
		"github.com/quellcode/quellcode/pkg/config": "./",
		"github.com/quellcode/quellcode/pkg/keys":   "../keys",
		"github.com/quellcode/quellcode/pkg/ui":     "../ui",
	} {
		err := r.AddGoComments(pkg, path)
		if err != nil {
			log.Fatalf("add go comments for %s: %v", pkg, err)
		}
	}

	s := r.Reflect(config.New())

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Fatalf("marshal JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, append(data, '\n'), 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
