package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-calendar/internal/api"
)

// CalculationMethods lists all supported Al Adhan API calculation methods.
var CalculationMethods = []struct {
	ID   int
	Name string
}{
	{0, "Shia Ithna-Ashari (Jafari)"},
	{1, "University of Islamic Sciences, Karachi"},
	{2, "Islamic Society of North America (ISNA)"},
	{3, "Muslim World League (MWL)"},
	{4, "Umm Al-Qura University, Makkah"},
	{5, "Egyptian General Authority of Survey"},
	{7, "Institute of Geophysics, University of Tehran"},
	{8, "Gulf Region"},
	{9, "Kuwait"},
	{10, "Qatar"},
	{11, "Majlis Ugama Islam Singapura (Singapore)"},
	{12, "Union Organization Islamic de France"},
	{13, "Diyanet Isleri Baskanligi, Turkey (experimental)"},
	{14, "Spiritual Administration of Muslims of Russia"},
	{15, "Moonsighting Committee Worldwide"},
	{16, "Dubai (experimental)"},
	{17, "JAKIM (Malaysia)"},
	{18, "Tunisia"},
	{19, "Algeria"},
	{20, "KEMENAG (Indonesia)"},
	{21, "Morocco"},
	{22, "Comunidade Islamica de Lisboa (Portugal)"},
	{23, "Ministry of Awqaf, Jordan"},
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the table of all supported Al Adhan API calculation methods and Hijri calendar methods.",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Supported calculation methods:")
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  %-4s %s\n", "ID", "Name")
			fmt.Fprintf(w, "  %-4s %s\n", "──", "────")
			for _, m := range CalculationMethods {
				fmt.Fprintf(w, "  %-4d %s\n", m.ID, m.Name)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Use --method <ID> to select a calculation method.")
			fmt.Fprintln(w, "If omitted, the API picks a default based on your location.")
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Hijri calendar methods:")
			fmt.Fprintln(w)
			for _, m := range api.CalendarMethods {
				suffix := ""
				if m == api.DefaultCalendarMethod {
					suffix = " (default)"
				}
				fmt.Fprintf(w, "  %s%s\n", m, suffix)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Use --calendar-method <NAME> to select a Hijri calendar method.")
			return nil
		},
	}
}
