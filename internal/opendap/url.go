package opendap

import "strings"

// DefaultBase is the CEFI portal OPeNDAP access base.
const DefaultBase = "http://psl.noaa.gov/thredds/dodsC/Projects/CEFI/regional_mom6/cefi_portal/"

// Coords identifies one dataset file in the CEFI data tree.
type Coords struct {
	Region          string
	Subdomain       string
	ExperimentType  string
	OutputFrequency string
	GridType        string
	ReleaseDate     string
	File            string
}

// Path returns the portal-relative path of the dataset.
func (c Coords) Path() string {
	return strings.Join([]string{
		c.Region,
		c.Subdomain,
		c.ExperimentType,
		c.OutputFrequency,
		c.GridType,
		c.ReleaseDate,
		c.File,
	}, "/")
}

// DataURL joins the dataset path onto the OPeNDAP base. An empty base
// falls back to DefaultBase.
func DataURL(base string, coords Coords) string {
	if base == "" {
		base = DefaultBase
	}

	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return base + coords.Path()
}
