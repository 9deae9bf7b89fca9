// ABOUTME: Tests for concurrent version fetching and the request-tracking diff state holder.
// ABOUTME: Covers fetch failures, missing IDs, concurrent in-flight fetches, and stale-result discarding.

package diff_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/2389-research/quire/content"
	"github.com/2389-research/quire/diff"
)

var errBackend = errors.New("backend unavailable")

func mapFetcher(versions ...content.Version) diff.FetcherFunc {
	byID := make(map[string]content.Version)
	for _, v := range versions {
		byID[v.ID] = v
	}
	return func(ctx context.Context, id string) (*content.Version, error) {
		v, ok := byID[id]
		if !ok {
			return nil, errBackend
		}
		c := v.Clone()
		return &c, nil
	}
}

func fixtureVersions() (content.Version, content.Version) {
	a := version("v1", block("home", "hero", "en", "A", 1), block("home", "cta", "en", "Buy", 2))
	b := version("v2", block("home", "hero", "en", "B", 1))
	return a, b
}

func TestFetchAndCompare(t *testing.T) {
	a, b := fixtureVersions()
	res, err := diff.FetchAndCompare(context.Background(), mapFetcher(a, b), "v1", "v2", "en")
	if err != nil {
		t.Fatalf("FetchAndCompare: %v", err)
	}
	if res.TotalModified != 1 || res.TotalRemoved != 1 {
		t.Fatalf("totals = %+v", res)
	}
	if res.VersionA != "v1" || res.VersionB != "v2" {
		t.Fatalf("versions = %s %s", res.VersionA, res.VersionB)
	}
}

func TestFetchAndCompareFailure(t *testing.T) {
	a, _ := fixtureVersions()
	res, err := diff.FetchAndCompare(context.Background(), mapFetcher(a), "v1", "missing", "en")
	if res != nil {
		t.Fatal("expected no result on fetch failure")
	}
	var fe *diff.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T %v", err, err)
	}
	if fe.VersionID != "missing" {
		t.Errorf("version id = %q, want missing", fe.VersionID)
	}
	if !errors.Is(err, errBackend) {
		t.Error("expected FetchError to unwrap to the fetcher's error")
	}
}

func TestFetchAndCompareMissingID(t *testing.T) {
	_, err := diff.FetchAndCompare(context.Background(), mapFetcher(), "", "v2", "en")
	if !errors.Is(err, diff.ErrMissingVersionID) {
		t.Fatalf("err = %v, want ErrMissingVersionID", err)
	}
}

func TestFetchAndCompareNilVersion(t *testing.T) {
	f := diff.FetcherFunc(func(ctx context.Context, id string) (*content.Version, error) {
		return nil, nil
	})
	_, err := diff.FetchAndCompare(context.Background(), f, "a", "b", "en")
	if !errors.Is(err, diff.ErrNilVersion) {
		t.Fatalf("err = %v, want ErrNilVersion", err)
	}
}

func TestFetchAndCompareFetchesConcurrently(t *testing.T) {
	a, b := fixtureVersions()
	inner := mapFetcher(a, b)

	var started sync.WaitGroup
	started.Add(2)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	f := diff.FetcherFunc(func(ctx context.Context, id string) (*content.Version, error) {
		started.Done()
		select {
		case <-allStarted:
		case <-time.After(2 * time.Second):
			return nil, errors.New("fetches were not in flight together")
		}
		return inner(ctx, id)
	})

	if _, err := diff.FetchAndCompare(context.Background(), f, "v1", "v2", "en"); err != nil {
		t.Fatalf("FetchAndCompare: %v", err)
	}
}

func TestFetchAndCompareCancelsSiblingOnFailure(t *testing.T) {
	siblingCancelled := make(chan struct{})
	f := diff.FetcherFunc(func(ctx context.Context, id string) (*content.Version, error) {
		if id == "bad" {
			return nil, errBackend
		}
		select {
		case <-ctx.Done():
			close(siblingCancelled)
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
			return nil, errors.New("sibling was not cancelled")
		}
	})

	_, err := diff.FetchAndCompare(context.Background(), f, "bad", "slow", "en")
	if !errors.Is(err, errBackend) {
		t.Fatalf("err = %v, want backend error", err)
	}
	select {
	case <-siblingCancelled:
	default:
		t.Fatal("expected sibling fetch to observe cancellation")
	}
}

func TestTrackerResolvesRequest(t *testing.T) {
	a, b := fixtureVersions()
	var mu sync.Mutex
	var updates []diff.TrackerState
	tr := diff.NewTracker(mapFetcher(a, b), diff.WithTrackerOnUpdate(func(st diff.TrackerState) {
		mu.Lock()
		updates = append(updates, st)
		mu.Unlock()
	}))

	tr.Request(context.Background(), "v1", "v2", "en")
	tr.Wait()

	st := tr.State()
	if st.Loading {
		t.Fatal("expected loading to finish")
	}
	if st.Err != nil || st.Result == nil {
		t.Fatalf("state = %+v", st)
	}
	if st.Result.TotalModified != 1 {
		t.Fatalf("modified = %d, want 1", st.Result.TotalModified)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(updates) != 2 || !updates[0].Loading || updates[1].Loading {
		t.Fatalf("updates = %+v, want loading then loaded", updates)
	}
}

func TestTrackerReportsFetchError(t *testing.T) {
	a, _ := fixtureVersions()
	tr := diff.NewTracker(mapFetcher(a))

	tr.Request(context.Background(), "v1", "nope", "en")
	tr.Wait()

	st := tr.State()
	if st.Result != nil {
		t.Fatal("expected no result after failure")
	}
	if !errors.Is(st.Err, errBackend) {
		t.Fatalf("err = %v", st.Err)
	}
	if !strings.Contains(st.Message, "nope") {
		t.Fatalf("message %q should name the failing version", st.Message)
	}
}

func TestTrackerIgnoresUnsetIDs(t *testing.T) {
	a, b := fixtureVersions()
	tr := diff.NewTracker(mapFetcher(a, b))
	tr.Request(context.Background(), "v1", "v2", "en")
	tr.Wait()

	tr.Request(context.Background(), "", "v2", "en")
	tr.Request(context.Background(), "v1", "", "en")
	tr.Wait()

	st := tr.State()
	if st.Result == nil || st.VersionA != "v1" || st.Loading {
		t.Fatalf("expected last-known-good state to be kept, got %+v", st)
	}
}

func TestTrackerDiscardsStaleResults(t *testing.T) {
	a, b := fixtureVersions()
	c := version("v3", block("home", "hero", "en", "C", 1))
	inner := mapFetcher(a, b, c)

	release := make(chan struct{})
	f := diff.FetcherFunc(func(ctx context.Context, id string) (*content.Version, error) {
		if id == "v2" {
			// The first request's fetch ignores cancellation and resolves late.
			<-release
		}
		return inner(ctx, id)
	})

	tr := diff.NewTracker(f)
	tr.Request(context.Background(), "v1", "v2", "en")
	tr.Request(context.Background(), "v1", "v3", "en")

	deadline := time.Now().Add(2 * time.Second)
	for tr.State().Loading {
		if time.Now().After(deadline) {
			t.Fatal("second request never resolved")
		}
		time.Sleep(5 * time.Millisecond)
	}
	close(release)
	tr.Wait()

	st := tr.State()
	if st.VersionB != "v3" {
		t.Fatalf("version b = %q, want v3", st.VersionB)
	}
	if st.Result == nil || st.Result.VersionB != "v3" {
		t.Fatalf("stale result overwrote state: %+v", st.Result)
	}
}

func TestTrackerCloseDiscardsInFlight(t *testing.T) {
	a, b := fixtureVersions()
	inner := mapFetcher(a, b)
	release := make(chan struct{})
	f := diff.FetcherFunc(func(ctx context.Context, id string) (*content.Version, error) {
		<-release
		return inner(ctx, id)
	})

	tr := diff.NewTracker(f)
	tr.Request(context.Background(), "v1", "v2", "en")
	tr.Close()
	close(release)
	tr.Wait()

	st := tr.State()
	if st.Loading || st.Result != nil || st.Err != nil {
		t.Fatalf("closed tracker applied a result: %+v", st)
	}
}

func TestTrackerCloseNotifiesLoadingStopped(t *testing.T) {
	a, b := fixtureVersions()
	inner := mapFetcher(a, b)
	release := make(chan struct{})
	f := diff.FetcherFunc(func(ctx context.Context, id string) (*content.Version, error) {
		<-release
		return inner(ctx, id)
	})

	var mu sync.Mutex
	var updates []diff.TrackerState
	tr := diff.NewTracker(f, diff.WithTrackerOnUpdate(func(st diff.TrackerState) {
		mu.Lock()
		updates = append(updates, st)
		mu.Unlock()
	}))
	tr.Request(context.Background(), "v1", "v2", "en")
	tr.Close()
	close(release)
	tr.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(updates) != 2 {
		t.Fatalf("expected loading and closed updates, got %d: %+v", len(updates), updates)
	}
	if !updates[0].Loading || updates[1].Loading {
		t.Fatalf("updates = %+v, want loading then stopped", updates)
	}
}

func TestTrackerCloseOnIdleTrackerIsSilent(t *testing.T) {
	calls := 0
	tr := diff.NewTracker(mapFetcher(), diff.WithTrackerOnUpdate(func(diff.TrackerState) {
		calls++
	}))
	tr.Close()
	if calls != 0 {
		t.Fatalf("idle close notified %d times", calls)
	}
}

func TestTrackerReportsCancelledFetch(t *testing.T) {
	f := diff.FetcherFunc(func(ctx context.Context, id string) (*content.Version, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	tr := diff.NewTracker(f)
	tr.Request(ctx, "v1", "v2", "en")
	cancel()
	tr.Wait()

	st := tr.State()
	if !errors.Is(st.Err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", st.Err)
	}
	if st.Message != "Comparison was cancelled before both versions loaded." {
		t.Fatalf("message = %q", st.Message)
	}
}
