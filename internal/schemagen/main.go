// Command schemagen generates the JSON schema for the hamal configuration
// file. It is run via go:generate from pkg/config.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/macropower/hamal/pkg/config"
)

var outFile = flag.String("o", "schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	r := &jsonschema.Reflector{
		ExpandedStruct: false,
		DoNotReference: false,
	}

	err := r.AddGoComments("github.com/macropower/hamal", "../../pkg/config")
	if err != nil {
		log.Fatalf("add go comments: %v", err)
	}

	jss := r.Reflect(config.NewConfig())
	jss.ID = "https://github.com/macropower/hamal/pkg/config/config"

	jsData, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		log.Fatalf("marshal JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, append(jsData, '\n'), 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
