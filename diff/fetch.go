// ABOUTME: Fetcher abstraction for loading versions and FetchAndCompare, which loads two concurrently.
// ABOUTME: Uses errgroup so a failed fetch cancels its sibling and no partial diff is returned.

package diff

import (
	"context"

	"github.com/2389-research/quire/content"
	"golang.org/x/sync/errgroup"
)

// Fetcher loads a version by ID. Implementations own any timeout policy;
// callers may also bound ctx.
type Fetcher interface {
	FetchVersion(ctx context.Context, id string) (*content.Version, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, id string) (*content.Version, error)

// FetchVersion calls f.
func (f FetcherFunc) FetchVersion(ctx context.Context, id string) (*content.Version, error) {
	return f(ctx, id)
}

// FetchAndCompare loads versions idA (old) and idB (new) concurrently and
// compares them in the given language. If either fetch fails the error is a
// *FetchError and no result is returned.
func FetchAndCompare(ctx context.Context, f Fetcher, idA, idB, language string) (*Result, error) {
	if idA == "" || idB == "" {
		return nil, ErrMissingVersionID
	}

	var va, vb *content.Version
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := fetchOne(gctx, f, idA)
		va = v
		return err
	})
	g.Go(func() error {
		v, err := fetchOne(gctx, f, idB)
		vb = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := CompareVersions(*va, *vb, language)
	return &res, nil
}

func fetchOne(ctx context.Context, f Fetcher, id string) (*content.Version, error) {
	v, err := f.FetchVersion(ctx, id)
	if err != nil {
		return nil, &FetchError{VersionID: id, Err: err}
	}
	if v == nil {
		return nil, &FetchError{VersionID: id, Err: ErrNilVersion}
	}
	return v, nil
}
