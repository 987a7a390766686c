package cmd

import (
	"fmt"
	"os"

	"github.com/lukman83/boostgg-scrap/internal/importer"
	"github.com/lukman83/boostgg-scrap/internal/models"
)

// printBatchesTable prints extracted batches as indented option trees.
func printBatchesTable(batches []*models.Batch) {
	for i, b := range batches {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		price := b.Service.PricePerUnit.StringFixed(2)
		fmt.Fprintf(os.Stdout, " %d. %s  (%s, base %s)\n", i+1, b.Service.Name, b.Service.GameName, price)
		fmt.Fprintf(os.Stdout, "    %s\n", b.Service.URL)

		children := make(map[int64][]models.OptionRow)
		var roots []models.OptionRow
		for _, r := range b.Rows {
			if r.ParentOptionID == nil {
				roots = append(roots, r)
			} else {
				children[*r.ParentOptionID] = append(children[*r.ParentOptionID], r)
			}
		}
		for _, root := range roots {
			printOptionTree(root, children, 1)
		}

		for _, d := range b.Diagnostics {
			fmt.Fprintf(os.Stdout, "    ! %s\n", d)
		}
	}
}

func printOptionTree(row models.OptionRow, children map[int64][]models.OptionRow, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "    "
	}
	line := fmt.Sprintf("%s- [%s] %s", indent, row.OptionType, row.OptionLabel)
	if row.OptionValue != nil {
		line += fmt.Sprintf(" = %s", *row.OptionValue)
	}
	if !row.PriceModifier.IsZero() {
		line += fmt.Sprintf(" (+%s)", row.PriceModifier.StringFixed(2))
	}
	if row.MinValue != nil && row.MaxValue != nil {
		line += fmt.Sprintf(" [%d..%d]", *row.MinValue, *row.MaxValue)
	}
	fmt.Fprintln(os.Stdout, line)
	for _, child := range children[row.OptionID] {
		printOptionTree(child, children, depth+1)
	}
}

// printImportSummary prints per-service import results.
func printImportSummary(summary importer.Summary) {
	for _, res := range summary.Imported {
		status := "created"
		if res.Reused {
			status = "reused"
		}
		fmt.Fprintf(os.Stdout, " ok  %-40s storage id %-6d %3d options (%s)\n",
			truncate(res.ServiceName, 40), res.ServiceStorageID, res.OptionsImported, status)
		for _, d := range res.Diagnostics {
			fmt.Fprintf(os.Stdout, "     ! %s\n", d)
		}
	}
	for name, err := range summary.Failed {
		fmt.Fprintf(os.Stdout, " ERR %-40s %v\n", truncate(name, 40), err)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
