/*
Copyright © 2026 Rat Genome Database, Medical College of Wisconsin

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/internal/ioannotate"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/terms"
	"github.com/spf13/cobra"
)

// getCheckTermsCmd returns the check-terms command.
func getCheckTermsCmd() *cobra.Command {
	var ontology string

	checkCmd := &cobra.Command{
		Use:   "check-terms",
		Short: "List names shared by several ontology terms",
		Long: `Check-terms builds the name index of an ontology and lists names
and synonyms that point to more than one term.

For every collision it shows both accessions with their annotation
counts and the way the collision is resolved:
  rank      the better ranked term keeps the name
  branches  terms are in separate branches, both keep the name

Examples:
  clinvar check-terms
  clinvar check-terms --ontology HP`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCheckTerms(cmd, ontology)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	checkCmd.Flags().StringVarP(
		&ontology, "ontology", "o", "RDO",
		"ontology to check (RDO or HP)",
	)

	return checkCmd
}

func runCheckTerms(cmd *cobra.Command, ontology string) error {
	ctx := context.Background()

	op, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	ontology = strings.ToUpper(ontology)
	annotator := ioannotate.New(cfg, op)
	dups, err := annotator.CheckTerms(ctx, ontology)
	if err != nil {
		return err
	}

	printDuplicates(cmd, dups)
	gn.Info("Found <em>%d</em> ambiguous names in %s", len(dups), ontology)
	return nil
}

func printDuplicates(cmd *cobra.Command, dups []terms.Duplicate) {
	out := cmd.OutOrStdout()
	for _, d := range dups {
		kind := "term"
		if d.Synonym {
			kind = "synonym"
		}
		fmt.Fprintf(out, "%s\t%s (%d)\t%s (%d)\t%s\t%s\n",
			d.Name, d.Acc1, d.Count1, d.Acc2, d.Count2, kind, d.Resolution)
	}
}
