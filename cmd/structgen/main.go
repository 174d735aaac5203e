package main

import (
	"context"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/stoewer/go-strcase"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/krateoplatformops/structgen"
	"github.com/krateoplatformops/structgen/internal/tools/fetch"
	"github.com/krateoplatformops/structgen/internal/tools/openapi"
)

const toolName = "structgen"

func main() {
	envVarPrefix := strcase.UpperSnakeCase(toolName)

	app := kingpin.New(toolName, "Generate Go type declarations from a JSON schema document.")
	schemaSource := app.Arg("schema", "Path or URL of the schema document (JSON or YAML).").
		Required().String()
	rootName := app.Flag("root-name", "Type name for the document root. Leave empty for definitions-only documents.").
		Short('r').Envar(fmt.Sprintf("%s_ROOT_NAME", envVarPrefix)).String()
	pkgName := app.Flag("package", "Package clause of the generated file.").
		Short('p').Envar(fmt.Sprintf("%s_PACKAGE", envVarPrefix)).Default("types").String()
	output := app.Flag("output", "Write the generated file here instead of stdout.").
		Short('o').Envar(fmt.Sprintf("%s_OUTPUT", envVarPrefix)).String()
	fromOpenAPI := app.Flag("openapi", "Treat the input as an OpenAPI v3 document and generate from its component schemas.").
		Envar(fmt.Sprintf("%s_OPENAPI", envVarPrefix)).Bool()
	debug := app.Flag("debug", "Dump generation details to stderr.").
		Envar(fmt.Sprintf("%s_DEBUG", envVarPrefix)).Bool()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	data, err := fetch.Document(*schemaSource)
	app.FatalIfError(err, "fetching schema document")

	if *fromOpenAPI {
		data, err = openapi.ExtractDefinitions(data)
		app.FatalIfError(err, "extracting openapi component schemas")
	}

	opts := structgen.Options{
		RootName:     *rootName,
		Package:      *pkgName,
		SchemaGetter: structgen.BytesJsonSchemaGetter(data),
	}
	if *debug {
		fmt.Fprint(os.Stderr, spew.Sdump(opts))
	}

	res := structgen.Generate(context.Background(), opts)
	app.FatalIfError(res.Err, "generating declarations")

	if *debug {
		fmt.Fprintf(os.Stderr, "digest: %s\n", res.Digest)
	}

	if *output != "" {
		app.FatalIfError(os.WriteFile(*output, res.Source, 0o644), "writing %s", *output)
		return
	}
	os.Stdout.Write(res.Source)
}
