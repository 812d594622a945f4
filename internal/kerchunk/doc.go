// Package kerchunk reads kerchunk reference indexes for CEFI datasets.
//
// A kerchunk index is a JSON document mapping zarr store keys to either
// inline values or byte ranges in remote NetCDF files. The CEFI portal
// publishes such indexes in public S3 and GCS buckets so a dataset can be
// opened as a virtual zarr store without touching the NetCDF files.
//
// This package fetches an index from an s3://, gs://, or https:// object
// link and extracts the dataset attributes embedded in its .zattrs and
// .zmetadata entries. S3 objects are read anonymously through minio-go;
// GCS objects are read through the public storage endpoint.
package kerchunk
