// Package catalog collects the descriptors of every edge-list file under a
// directory.
//
// A [Catalog] is a pre-scanned collection: headers are probed once, up
// front, and the catalog is then a [source.Source] of descriptors that a
// pipeline can filter, ingest and measure without touching files it does not
// need.
//
//	p := catalog.NewProber(cache.NewNullCache(), nil, logger)
//	cat, err := p.Scan(ctx, "testdata/suitesparse", catalog.Options{})
//	small := cat.Filter(func(d formats.Descriptor) bool { return d.Entries < 40 })
//
// Probes run concurrently and are cached by path, size and modification
// time, so rescanning an unchanged tree reads no file contents.
package catalog
