package recoverables

import (
	"fmt"

	"github.com/mvoronova/journeykeeper/internal/server/models"
)

// kindSpec is the per-kind adapter: which table holds the records and which
// columns project into the generic label/detail fields. Everything else
// (ownership check, live/deleted filter, grace window, restore, purge) is
// shared.
type kindSpec struct {
	table      string
	labelExpr  string
	detailExpr string
}

var kindSpecs = map[models.RecoverableKind]kindSpec{
	models.KindNote:             {table: "notes", labelExpr: "title", detailExpr: "content"},
	models.KindSavedItem:        {table: "saved_items", labelExpr: "title", detailExpr: "''"},
	models.KindTraitObservation: {table: "trait_observations", labelExpr: "trait", detailExpr: "observation"},
}

// specFor resolves the adapter for a kind. Kinds are validated at the
// service boundary; an unknown kind here is a programming error.
func specFor(kind models.RecoverableKind) (kindSpec, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return kindSpec{}, fmt.Errorf("unknown recoverable kind: %q", kind)
	}
	return spec, nil
}
