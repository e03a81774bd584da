package pipeline_test

import (
	"github.com/paulmach/orb"

	"github.com/rail-fusion/internal/dataset"
	"github.com/rail-fusion/internal/pipeline"
)

var cols = pipeline.DefaultColumns()

func line(x0, y0, x1, y1 float64) orb.LineString {
	return orb.LineString{{x0, y0}, {x1, y1}}
}

func shapesTable(rows ...map[string]any) *dataset.Table {
	t := dataset.New("shapes", "code_ligne", "libelle", "pk_debut_r", "pk_fin_r", dataset.GeometryColumn)
	for _, r := range rows {
		geom, _ := r["geometry"].(orb.Geometry)
		delete(r, "geometry")
		t.Append(r, geom)
	}
	return t
}

func speedsTable(rows ...map[string]any) *dataset.Table {
	t := dataset.New("speeds", "code_ligne", "lib_ligne", "v_max", "pkd", "pkf", dataset.GeometryColumn)
	for _, r := range rows {
		geom, _ := r["geometry"].(orb.Geometry)
		delete(r, "geometry")
		t.Append(r, geom)
	}
	return t
}

func stationsTable(rows ...map[string]any) *dataset.Table {
	t := dataset.New("stations", "code_uic", "libelle", "voyageurs", "fret", "code_ligne", dataset.GeometryColumn)
	for _, r := range rows {
		geom, _ := r["geometry"].(orb.Geometry)
		delete(r, "geometry")
		t.Append(r, geom)
	}
	return t
}

// ridershipTable builds a wide table for the given years; values maps
// "Total Voyageurs <year>" style columns to cells.
func ridershipTable(years []int, rows ...map[string]any) *dataset.Table {
	columns := []string{"Nom de la gare", "Code UIC", "Code postal", "Segmentation DRG"}
	for _, y := range years {
		columns = append(columns, cols.Ridership.TravelersColumn(y), cols.Ridership.TotalColumn(y))
	}
	t := dataset.New("ridership", columns...)
	for _, r := range rows {
		t.Append(r, nil)
	}
	return t
}

func communesTable(rows ...map[string]any) *dataset.Table {
	t := dataset.New("communes", "code_commune_INSEE", "nom_commune_postal", "code_postal",
		"code_departement", "nom_departement", "nom_region")
	for _, r := range rows {
		t.Append(r, nil)
	}
	return t
}

func populationTable(rows ...map[string]any) *dataset.Table {
	t := dataset.New("population", "Code Insee", "Population totale")
	for _, r := range rows {
		t.Append(r, nil)
	}
	return t
}

func i64(v int64) *int64 {
	return &v
}
