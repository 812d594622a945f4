// Package opendap builds CEFI OPeNDAP data URLs and retrieves dataset
// metadata.
//
// Data URLs follow the portal layout
//
//	<base>/<region>/<subdomain>/<experiment_type>/<output_frequency>/<grid_type>/<release_date>/<file>
//
// on the THREDDS dodsC access base. Metadata comes from the DAS (Dataset
// Attribute Structure) document an OPeNDAP server publishes next to each
// dataset: appending ".das" to a data URL yields a text document of
// global and per-variable attributes, which this package parses.
package opendap
