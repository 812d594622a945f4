// Package catalog loads and navigates the CEFI data tree.
//
// The data tree is a nested JSON document published by the NOAA PSL CEFI
// portal. Its levels, top to bottom, are region, subdomain,
// experiment_type, output_frequency, grid_type, release_date,
// variable_catagory, variable_name, variable_short_name,
// variable_file_name, and file_meta_data. Note that "catagory" is the
// spelling used by the published document and is preserved here.
//
// The catalog is fetched lazily on first use, cached, and refetched once
// the configured refresh interval has passed. All navigation is by child
// keys; user-supplied level names can be resolved against the available
// keys with case-insensitive partial and similarity matching.
package catalog
