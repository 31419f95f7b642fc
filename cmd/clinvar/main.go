// Package main provides the clinvar CLI application.
// clinvar reconciles ClinVar variants and their disease annotations with
// the RGD PostgreSQL database.
package main

import "github.com/rat-genome-database/clinvar-pipeline/cmd"

func main() {
	cmd.Execute()
}
