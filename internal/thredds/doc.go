// Package thredds crawls THREDDS data server catalogs.
//
// A THREDDS catalog is an XML document listing datasets and references to
// sub-catalogs. The crawler walks a catalog tree recursively, visiting
// each catalog once, and collects the OPeNDAP access URLs of NetCDF
// datasets grouped by the catalog page they appear on. Subtrees that fail
// to fetch or parse are logged and skipped so one broken branch does not
// abort a crawl.
package thredds
