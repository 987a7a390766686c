// Package importer maps extracted batches into the relational store. Each
// service imports inside its own transaction: the service row plus its whole
// option tree land together or not at all, and one service's failure never
// touches another's committed rows.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/lukman83/boostgg-scrap/internal/models"
	"github.com/lukman83/boostgg-scrap/internal/platform"
	"github.com/lukman83/boostgg-scrap/internal/store"
)

// Result summarizes one service's import.
type Result struct {
	ServiceName      string
	ServiceStorageID int64
	OptionsImported  int
	Reused           bool
	Diagnostics      []string
}

// Summary aggregates a multi-service import run.
type Summary struct {
	Imported []Result
	Failed   map[string]error
}

// Importer persists batches. ReuseByName resolves services by
// (game_id, name) before inserting a fresh row.
type Importer struct {
	Store       store.Store
	ReuseByName bool
	Log         *log.Logger
}

// ImportBatch persists one service and its option tree. Extraction-scoped
// parent ids are remapped onto the storage ids assigned during this
// transaction; a child whose parent never got a storage id is kept with a
// null parent and a diagnostic rather than aborting the service.
func (im *Importer) ImportBatch(ctx context.Context, svc models.Service, rows []models.OptionRow) (Result, error) {
	res := Result{ServiceName: svc.Name}

	err := im.Store.WithinTx(ctx, func(tx store.Tx) error {
		serviceID, reused, err := im.resolveService(ctx, tx, svc)
		if err != nil {
			return err
		}
		res.ServiceStorageID = serviceID
		res.Reused = reused

		parents, children := partition(rows)

		// parents first so every child can resolve its storage parent
		idMap := make(map[int64]int64, len(parents))
		for _, p := range parents {
			p.ServiceID = serviceID
			p.ParentOptionID = nil
			storageID, err := tx.InsertOption(ctx, p)
			if err != nil {
				return err
			}
			idMap[p.OptionID] = storageID
			res.OptionsImported++
		}

		for _, c := range children {
			extractionParent := *c.ParentOptionID
			c.ServiceID = serviceID
			if storageParent, ok := idMap[extractionParent]; ok {
				c.ParentOptionID = &storageParent
			} else {
				c.ParentOptionID = nil
				d := fmt.Sprintf("option %q (id %d) references unknown parent %d, imported without parent",
					c.OptionName, c.OptionID, extractionParent)
				res.Diagnostics = append(res.Diagnostics, d)
				platform.ReportProgress(ctx, d)
			}
			storageID, err := tx.InsertOption(ctx, c)
			if err != nil {
				return err
			}
			idMap[c.OptionID] = storageID
			res.OptionsImported++
		}
		return nil
	})
	if err != nil {
		return Result{ServiceName: svc.Name}, fmt.Errorf("import service %q: %w", svc.Name, err)
	}

	if im.Log != nil {
		im.Log.Printf("imported service %q: storage id %d, %d options (reused=%v)",
			res.ServiceName, res.ServiceStorageID, res.OptionsImported, res.Reused)
	}
	return res, nil
}

// ImportAll runs ImportBatch per service, pairing each service with its rows
// by extraction service id, and continues past individual failures.
func (im *Importer) ImportAll(ctx context.Context, services []models.Service, rows []models.OptionRow) Summary {
	byService := make(map[int64][]models.OptionRow)
	for _, r := range rows {
		byService[r.ServiceID] = append(byService[r.ServiceID], r)
	}

	summary := Summary{Failed: make(map[string]error)}
	for _, svc := range services {
		if err := ctx.Err(); err != nil {
			summary.Failed[svc.Name] = err
			continue
		}
		res, err := im.ImportBatch(ctx, svc, byService[svc.ServiceID])
		if err != nil {
			if im.Log != nil {
				im.Log.Printf("skipping service %q: %v", svc.Name, err)
			}
			summary.Failed[svc.Name] = err
			continue
		}
		summary.Imported = append(summary.Imported, res)
	}
	return summary
}

func (im *Importer) resolveService(ctx context.Context, tx store.Tx, svc models.Service) (int64, bool, error) {
	if im.ReuseByName {
		id, err := tx.FindServiceByName(ctx, svc.GameID, svc.Name)
		if err == nil {
			return id, true, nil
		}
		if !errors.Is(err, store.ErrServiceNotFound) {
			return 0, false, err
		}
	}
	id, err := tx.InsertService(ctx, svc)
	if err != nil {
		return 0, false, err
	}
	return id, false, nil
}

// partition splits rows into sorted parents and children. Parents order by
// (display_order, option_id); children by (parent, display_order, option_id)
// so siblings keep their extraction order after import.
func partition(rows []models.OptionRow) (parents, children []models.OptionRow) {
	for _, r := range rows {
		if r.IsParent() {
			parents = append(parents, r)
		} else {
			children = append(children, r)
		}
	}
	sort.SliceStable(parents, func(i, j int) bool {
		if parents[i].DisplayOrder != parents[j].DisplayOrder {
			return parents[i].DisplayOrder < parents[j].DisplayOrder
		}
		return parents[i].OptionID < parents[j].OptionID
	})
	sort.SliceStable(children, func(i, j int) bool {
		pi, pj := *children[i].ParentOptionID, *children[j].ParentOptionID
		if pi != pj {
			return pi < pj
		}
		if children[i].DisplayOrder != children[j].DisplayOrder {
			return children[i].DisplayOrder < children[j].DisplayOrder
		}
		return children[i].OptionID < children[j].OptionID
	})
	return parents, children
}
