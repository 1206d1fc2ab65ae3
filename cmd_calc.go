package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go-geofal-humedad/formula"
	"go-geofal-humedad/humedad"
	"go-geofal-humedad/models"
	"go-geofal-humedad/specimen"
)

// massFlags maps calc flags to the record fields they fill.
var massFlags = []struct {
	name  string
	usage string
	field func(*models.Humedad) **float64
}{
	{"humeda", "container + wet specimen (g)", func(h *models.Humedad) **float64 { return &h.MasaRecipienteMuestraHumeda }},
	{"seca", "container + oven-dry specimen (g)", func(h *models.Humedad) **float64 { return &h.MasaRecipienteMuestraSeca }},
	{"constante", "container + specimen dried to constant mass (g)", func(h *models.Humedad) **float64 { return &h.MasaRecipienteMuestraSecaConstante }},
	{"recipiente", "container (g)", func(h *models.Humedad) **float64 { return &h.MasaRecipiente }},
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute moisture content from raw masses",
	Example: `  humedad calc --humeda 145 --constante 130 --recipiente 30 --tm "No. 4"
  humedad calc --constante 130 --recipiente 30 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var rec models.Humedad
		for _, f := range massFlags {
			if !cmd.Flags().Changed(f.name) {
				continue
			}
			v, err := cmd.Flags().GetFloat64(f.name)
			if err != nil {
				return err
			}
			*f.field(&rec) = formula.Float(v)
		}
		tm, err := cmd.Flags().GetString("tm")
		if err != nil {
			return err
		}
		rec.TamanoMaximoParticula = tm
		if err := formula.Validate(rec.Raw()); err != nil {
			return err
		}

		ev := humedad.Evaluate(&rec, specimen.Default())
		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ev)
		}
		return printEvaluation(cmd.OutOrStdout(), rec.TamanoMaximoParticula, ev)
	},
}

var tablaCmd = &cobra.Command{
	Use:   "tabla",
	Short: "Print the particle size / minimum mass table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METODO\tTAMANO\tMASA MINIMA\tLEGIBILIDAD")
		for _, e := range specimen.Default().Entries() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Method, e.ParticleSize, e.MassLabel(), e.LegibilityLabel())
		}
		return w.Flush()
	},
}

func init() {
	for _, f := range massFlags {
		calcCmd.Flags().Float64(f.name, 0, f.usage)
	}
	calcCmd.Flags().String("tm", "", `maximum particle size, e.g. "3/4 in" or "No. 4"`)
	calcCmd.Flags().Bool("json", false, "print the evaluation as JSON")
}

func printEvaluation(out io.Writer, tm string, ev humedad.Evaluation) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := []struct {
		label string
		value *float64
		unit  string
	}{
		{"Masa del agua", ev.Derived.WaterMass, "g"},
		{"Masa muestra seca", ev.Derived.DrySpecimenMass, "g"},
		{"Contenido de humedad", ev.Derived.MoistureContent, "%"},
		{"Masa muestra neta", ev.Derived.NetSpecimenMass, "g"},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.label, formatValue(r.value, r.unit))
	}

	switch {
	case ev.Classification == nil && tm != "":
		fmt.Fprintf(w, "Tamano maximo\t%s (no clasificado)\n", tm)
	case ev.Classification != nil:
		e := ev.Classification
		fmt.Fprintf(w, "Tamano maximo\t%s\n", e.ParticleSize)
		fmt.Fprintf(w, "Metodo\t%s\n", e.Method)
		fmt.Fprintf(w, "Masa minima\t%s\n", e.MassLabel())
		fmt.Fprintf(w, "Legibilidad\t%s\n", e.LegibilityLabel())
		fmt.Fprintf(w, "Masa menor que la minima\t%s\n", ev.Adequacy.Condition())
	}
	return w.Flush()
}

func formatValue(v *float64, unit string) string {
	if v == nil {
		return "—"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64) + " " + unit
}
