// Package cache implements the disk-backed emoji store responsible for
// translating asset references into <root>/<collection>/<name>-<id>.png
// files. The Manager owns the dedup tracker and root configuration, writes
// entries with safe semantics (temp file + rename), and can rebuild its
// in-memory view of the cache by scanning the directory layout at startup.
// Ingestion layers depend on this package to cache referenced emoji at most
// once without duplicating filesystem logic.
package cache
