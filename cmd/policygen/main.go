// Command policygen renders storage and policy artifacts from a declarative
// table list: a CREATE TABLE script with the ownership foreign keys, and a
// policy config skeleton with one access-rule stub per data category. It is
// offline tooling; the runtime never imports it.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/template"

	"gopkg.in/yaml.v3"
)

type Column struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	PrimaryKey bool   `yaml:"pk"`
	NotNull    bool   `yaml:"not_null"`
	Unique     bool   `yaml:"unique"`
	References string `yaml:"references"` // "table(column)"
}

type Table struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"` // data category guarding this table's rows
	Columns  []Column `yaml:"columns"`
}

type Schema struct {
	Tables []Table `yaml:"tables"`
}

const schemaTemplate = `-- Generated by policygen. Do not edit.
{{range .Tables}}{{$table := .}}
CREATE TABLE {{.Name}} (
{{- range $i, $col := .Columns}}
    {{$col.Name}} {{$col.Type}}{{if $col.PrimaryKey}} PRIMARY KEY{{end}}{{if $col.NotNull}} NOT NULL{{end}}{{if $col.Unique}} UNIQUE{{end}}{{if not (last $i $table.Columns)}},{{else}}{{fkeys $table.Columns}}{{end}}
{{- end}}
);
{{end}}`

const policyTemplate = `# Generated by policygen. Fill in the allow sets per purpose.
data_categories:
{{- range .Tables}}{{if .Category}}
  {{.Category}}:
    access_policies:
      - purpose: sar_access
        allow: [{{ownerKind .}}, admin, dpo]
{{- end}}{{end}}
`

func main() {
	input := flag.String("schema", "tables.yml", "table list to render from")
	outDir := flag.String("out", ".", "directory for generated artifacts")
	flag.Parse()

	raw, err := os.ReadFile(*input)

	if err != nil {
		log.Fatalf("Failed to read schema %s: %v", *input, err)
	}

	var schema Schema

	if err := yaml.Unmarshal(raw, &schema); err != nil {
		log.Fatalf("Failed to parse schema %s: %v", *input, err)
	}

	funcs := template.FuncMap{
		"last": func(i int, columns []Column) bool {
			return i == len(columns)-1
		},
		"fkeys": renderForeignKeys,
		"ownerKind": func(table Table) string {
			// The users table is the identity root; everything else is
			// owned through a foreign key.
			if table.Name == "users" {
				return "self"
			}
			return "owner"
		},
	}

	if err := render("schema", schemaTemplate, funcs, schema, filepath.Join(*outDir, "generated_schema.sql")); err != nil {
		log.Fatalf("Failed to render schema: %v", err)
	}

	if err := render("policy", policyTemplate, funcs, schema, filepath.Join(*outDir, "generated_policy.yml")); err != nil {
		log.Fatalf("Failed to render policy skeleton: %v", err)
	}

	log.Printf("Generated: %s and %s",
		filepath.Join(*outDir, "generated_schema.sql"),
		filepath.Join(*outDir, "generated_policy.yml"))
}

func render(name, text string, funcs template.FuncMap, schema Schema, path string) error {
	tmpl, err := template.New(name).Funcs(funcs).Parse(text)

	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}

	out, err := os.Create(path)

	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	defer out.Close()

	if err := tmpl.Execute(out, schema); err != nil {
		return fmt.Errorf("execute %s template: %w", name, err)
	}

	return nil
}

// renderForeignKeys emits the FOREIGN KEY clauses appended after the last
// column of a table.
func renderForeignKeys(columns []Column) string {
	clauses := ""

	for _, col := range columns {
		if col.References != "" {
			clauses += fmt.Sprintf(",\n    FOREIGN KEY (%s) REFERENCES %s", col.Name, col.References)
		}
	}

	return clauses
}
