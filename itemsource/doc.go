// Package itemsource provides ready-made reportcache.ItemSource adapters:
// BunSource reads item metadata rows through a bun database handle, and
// ObjectSource enumerates objects in a MinIO/S3 bucket.
//
// Both adapters are read-only ports; mutations against the underlying
// collection happen elsewhere, and the mutating layer is responsible for
// calling the report service's invalidation hooks afterwards.
package itemsource
