// Package asset runs the media generation pipeline: it finds vocabulary
// records missing an image or audio asset, fans the work out to the external
// providers under a bounded worker pool, persists the produced files, and
// records their public paths. A run never aborts on individual failures; the
// caller gets a full per-item report.
package asset
