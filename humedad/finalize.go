// Package humedad merges the formula results and the specimen table decisions
// into a moisture-content test record.
package humedad

import (
	"go-geofal-humedad/formula"
	"go-geofal-humedad/models"
	"go-geofal-humedad/specimen"
)

// Evaluation is what the core derives from one record snapshot.
type Evaluation struct {
	Derived        formula.Derived   `json:"derivados"`
	Classification *specimen.Entry   `json:"clasificacion,omitempty"`
	Adequacy       specimen.Adequacy `json:"masa_adecuada"`
	MetodoA        bool              `json:"metodo_a"`
	MetodoB        bool              `json:"metodo_b"`
}

// Evaluate computes the derived values and the classification of rec without
// modifying it.
func Evaluate(rec *models.Humedad, table *specimen.Table) Evaluation {
	ev := Evaluation{
		Derived:  formula.Compute(rec.Raw()),
		Adequacy: specimen.Unknown,
	}
	entry, ok := table.Classify(rec.TamanoMaximoParticula)
	if !ok {
		return ev
	}
	ev.Classification = &entry
	ev.Adequacy = specimen.CheckAdequacy(entry, ev.Derived.NetSpecimenMass)
	ev.MetodoA = entry.Method == specimen.MethodA
	ev.MetodoB = entry.Method == specimen.MethodB
	return ev
}

// Finalize returns a copy of rec ready for the report generator, along with the
// evaluation it was built from. Operator-supplied derived values and an explicit
// SI/NO mass condition are kept as entered.
func Finalize(rec models.Humedad, table *specimen.Table) (models.Humedad, Evaluation) {
	ev := Evaluate(&rec, table)

	if rec.MasaAgua == nil {
		rec.MasaAgua = ev.Derived.WaterMass
	}
	if rec.MasaMuestraSeca == nil {
		rec.MasaMuestraSeca = ev.Derived.DrySpecimenMass
	}
	if rec.ContenidoHumedad == nil {
		rec.ContenidoHumedad = ev.Derived.MoistureContent
	}
	if rec.MasaMuestraNeta == nil {
		rec.MasaMuestraNeta = ev.Derived.NetSpecimenMass
	}

	rec.MetodoA = ev.MetodoA
	rec.MetodoB = ev.MetodoB

	if rec.CondicionMasaMenor != specimen.ConditionYes && rec.CondicionMasaMenor != specimen.ConditionNo {
		rec.CondicionMasaMenor = ev.Adequacy.Condition()
	}
	for _, c := range []*string{&rec.CondicionCapas, &rec.CondicionTemperatura, &rec.CondicionExcluido} {
		defaultString(c, specimen.ConditionUnset)
	}
	for _, e := range []*string{&rec.EquipoBalanza01, &rec.EquipoBalanza001, &rec.EquipoHorno} {
		defaultString(e, "-")
	}
	if rec.NumeroEnsayo == nil {
		n := 1
		rec.NumeroEnsayo = &n
	}

	fillGrid(rec.MetodoARows(), table.Rows(specimen.MethodA))
	fillGrid(rec.MetodoBRows(), table.Rows(specimen.MethodB))

	return rec, ev
}

// fillGrid writes the table rows into empty grid cells.
func fillGrid(rows []models.MetodoRow, entries []specimen.Entry) {
	for i, row := range rows {
		if i >= len(entries) {
			return
		}
		defaultString(row.Tamano, entries[i].ParticleSize)
		defaultString(row.Masa, entries[i].MassLabel())
		defaultString(row.Legibilidad, entries[i].LegibilityLabel())
	}
}

func defaultString(s *string, v string) {
	if *s == "" {
		*s = v
	}
}
