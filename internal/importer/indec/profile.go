package indec

// Profile describes the column layout of a monthly inflation export.
// Column names are matched case and accent insensitively.
type Profile struct {
	Name      string
	PeriodCol string
	RateCol   string
}

// profiles is the ordered list of layouts tried during auto-detection.
var profiles = []Profile{
	{
		Name:      "indec",
		PeriodCol: "periodo",
		RateCol:   "variacion mensual",
	},
	{
		Name:      "tasa",
		PeriodCol: "mes",
		RateCol:   "tasa",
	},
	{
		Name:      "ipc",
		PeriodCol: "fecha",
		RateCol:   "ipc mensual",
	},
}

func (p Profile) requiredCols() []string {
	return []string{p.PeriodCol, p.RateCol}
}
