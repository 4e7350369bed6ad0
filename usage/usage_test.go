// SPDX-License-Identifier: EPL-2.0

package usage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCost(t *testing.T) {
	tests := []struct {
		name    string
		in, out int
		wantUSD float64
		wantNTD float64
	}{
		{name: "zero", wantUSD: 0, wantNTD: 0},
		{name: "one million input", in: 1_000_000, wantUSD: 0.075, wantNTD: 2.4},
		{name: "one million output", out: 1_000_000, wantUSD: 0.3, wantNTD: 9.6},
		{name: "typical interview", in: 57_600, out: 4_000, wantUSD: 0.0055, wantNTD: 0.18},
		{name: "rounds usd to four places", in: 1_234, out: 567, wantUSD: 0.0003, wantNTD: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCost(tt.in, tt.out)
			assert.InDelta(t, tt.wantUSD, got.USD, 1e-9)
			assert.InDelta(t, tt.wantNTD, got.NTD, 1e-9)
		})
	}
}

func TestEstimateAudioTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateAudioTokens(0))
	assert.Equal(t, 0, EstimateAudioTokens(-3))
	assert.Equal(t, 32, EstimateAudioTokens(1))
	assert.Equal(t, 57_600, EstimateAudioTokens(1800))
	assert.Equal(t, 16, EstimateAudioTokens(0.5))
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1.0K"},
		{4_500, "4.5K"},
		{999_999, "1000.0K"},
		{1_000_000, "1.00M"},
		{1_234_567, "1.23M"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTokens(tt.in), "FormatTokens(%d)", tt.in)
	}
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "NT$0.00", FormatCost(0))
	assert.Equal(t, "NT$0.18", FormatCost(0.176))
	assert.Equal(t, "NT$12.50", FormatCost(12.5))
}

func TestNewRecord(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	r := NewRecord("a.mp3", 1_000_000, 1_000_000, 0, now)

	_, err := uuid.Parse(r.ID)
	require.NoError(t, err)
	assert.Equal(t, 2_000_000, r.TotalTokens)
	assert.InDelta(t, 0.375, r.CostUSD, 1e-9)
	assert.InDelta(t, 12.0, r.CostNTD, 1e-9)
	assert.Equal(t, now, r.Time)

	r = NewRecord("a.mp3", 10, 5, 20, now)
	assert.Equal(t, 20, r.TotalTokens, "reported total is kept")
}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "data", "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_AddHistoryTotals(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.UnixMilli(1_700_000_000_000)
	r1 := NewRecord("one.wav", 1_000, 200, 0, base)
	r2 := NewRecord("two.mp3", 3_000, 400, 0, base.Add(time.Minute))
	require.NoError(t, s.Add(ctx, r1))
	require.NoError(t, s.Add(ctx, r2))

	history, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, r1, history[0])
	assert.Equal(t, r2, history[1])

	totals, err := s.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Analyses)
	assert.EqualValues(t, 4_000, totals.InputTokens)
	assert.EqualValues(t, 600, totals.OutputTokens)
	assert.EqualValues(t, 4_600, totals.TotalTokens)
	assert.InDelta(t, r1.CostUSD+r2.CostUSD, totals.CostUSD, 1e-9)
	assert.InDelta(t, r1.CostNTD+r2.CostNTD, totals.CostNTD, 1e-9)
}

func TestStore_KeepsNewest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	s.Keep = 5

	for i := range 8 {
		require.NoError(t, s.Add(ctx, NewRecord(fmt.Sprintf("f%d", i), i, 0, 0, time.UnixMilli(int64(i)))))
	}

	history, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, "f3", history[0].File)
	assert.Equal(t, "f7", history[4].File)
}

func TestStore_DefaultKeepIsHundred(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for i := range DefaultKeep + 3 {
		require.NoError(t, s.Add(ctx, NewRecord("f", 1, 1, 0, time.UnixMilli(int64(i)))))
	}

	totals, err := s.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, totals.Analyses)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Add(ctx, NewRecord("f", 1, 1, 0, time.Now())))

	require.NoError(t, s.Clear(ctx))

	totals, err := s.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, Totals{}, totals)
}

func TestStore_InMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Add(ctx, NewRecord("f", 1, 1, 0, time.Now())))
	history, err := s.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestStore_Closed(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Add(ctx, Record{}), ErrClosed)
	_, err := s.History(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Totals(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Clear(ctx), ErrClosed)
	assert.NoError(t, s.Close())
}
