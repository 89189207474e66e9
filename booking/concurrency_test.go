package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxbook/trade"
)

// Fifty concurrent bookings on the same date must produce fifty
// distinct references covering sequences 1..50 exactly.
func TestConcurrentRecordsUniqueReferences(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	const n = 50
	refs := make(chan string, n)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := validInput()
			in.Trader = fmt.Sprintf("trader-%02d", i)
			tr, err := svc.Record(ctx, in, "jdoe")
			if err != nil {
				errs <- err
				return
			}
			refs <- tr.Reference
		}(i)
	}
	wg.Wait()
	close(refs)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent booking failed: %v", err)
	}

	seen := map[string]bool{}
	seqs := map[int]bool{}
	for ref := range refs {
		assert.False(t, seen[ref], "reference %s issued twice", ref)
		seen[ref] = true

		parts := strings.Split(ref, "-")
		require.Len(t, parts, 3)
		assert.Equal(t, "FX", parts[0])
		seq, err := strconv.Atoi(parts[2])
		require.NoError(t, err)
		seqs[seq] = true
	}
	require.Len(t, seen, n)

	for want := 1; want <= n; want++ {
		assert.True(t, seqs[want], "sequence %d missing from issued references", want)
	}
}

// Concurrent amendments of one trade must serialize: every attempt
// either lands (bumping the version) or conflicts, and the audit trail
// holds exactly one entry per landed amendment.
func TestConcurrentUpdatesSerialize(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	tr, err := svc.Record(ctx, validInput(), "jdoe")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	outcomes := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			notes := fmt.Sprintf("amendment %d", i)
			_, err := svc.Update(ctx, tr.ID, trade.Patch{Notes: &notes}, "ops")
			outcomes <- err
		}(i)
	}
	wg.Wait()
	close(outcomes)

	landed := 0
	for err := range outcomes {
		if err == nil {
			landed++
			continue
		}
		var conflict *trade.ConflictError
		require.ErrorAs(t, err, &conflict)
	}
	// Without a caller-supplied expected version the writes queue behind
	// the single writer and all land.
	assert.Equal(t, n, landed)

	final, err := svc.FindByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1+n), final.Version)

	history, err := svc.AuditHistory(ctx, tr.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1+n)
}
