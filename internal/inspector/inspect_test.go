package inspector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/necropreneur/embedding-inspector/internal/cache"
	"github.com/necropreneur/embedding-inspector/internal/notify"
	"github.com/necropreneur/embedding-inspector/internal/store"
	"github.com/necropreneur/embedding-inspector/internal/vector"
)

func neighborLine(t *testing.T, report string) string {
	t.Helper()
	lines := strings.Split(report, "\n")
	for i, line := range lines {
		if line == "Similar embeddings:" {
			return lines[i+1]
		}
	}
	t.Fatalf("no similar-embeddings section in report:\n%s", report)
	return ""
}

func TestInspectTopNeighbors(t *testing.T) {
	tbl := testTable(t)
	tok := namingTokenizer(tbl.Rows())
	svc := newTestService(tbl, tok, emptyStore(), cache.NewNoOpCache(), new(notify.MockNotifier))

	report, err := svc.Inspect(context.Background(), "#0")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if !strings.Contains(report, `Embedding name: "tok0</w>"`) {
		t.Error("missing embedding name line")
	}
	if !strings.Contains(report, "Embedding ID: 0 (internal)") {
		t.Error("missing internal ID line")
	}
	if !strings.Contains(report, "Vector count: 1") || !strings.Contains(report, "Vector size: 4") {
		t.Error("missing shape lines")
	}

	pairs := strings.Split(neighborLine(t, report), "   ")
	if len(pairs) != MaxSimilar {
		t.Fatalf("got %d neighbor pairs, want %d", len(pairs), MaxSimilar)
	}

	// row 0 compared against itself ranks first
	if pairs[0] != "tok0</w>(0)" {
		t.Errorf("top neighbor = %q, want the row itself", pairs[0])
	}

	// similarity decreases with ID except row 9, a copy of row 5: the tie
	// resolves by ascending ID, so 5 comes before 9
	want := []int{0, 1, 2, 3, 4, 5, 9, 6, 7, 8}
	for i, id := range want {
		expect := fmt.Sprintf("tok%d</w>(%d)", id, id)
		if pairs[i] != expect {
			t.Errorf("pair[%d] = %q, want %q", i, pairs[i], expect)
		}
	}
}

func TestInspectLoadedDimensionMismatch(t *testing.T) {
	tbl := testTable(t)
	tok := namingTokenizer(tbl.Rows())

	rec := &store.Record{
		Name: "short",
		// first row matches the table dimension, second does not
		Vectors: []vector.Vector{{1, 0, 0, 0}, {1, 2}},
	}
	st := new(store.MockStore)
	st.On("Lookup", "short").Return(rec, true).Once()

	svc := newTestService(tbl, tok, st, cache.NewNoOpCache(), new(notify.MockNotifier))
	report, err := svc.Inspect(context.Background(), "short")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if !strings.Contains(report, "Embedding ID: ["+rec.Checksum()+"] (loaded)") {
		t.Error("missing loaded ID line")
	}
	if !strings.Contains(report, ErrDimensionMismatch.Error()) {
		t.Error("mismatched row should report incompatibility")
	}
	// the compatible row still renders its neighbors
	if !strings.Contains(report, "Similar embeddings:") {
		t.Error("compatible row lost its similarity section")
	}
	if !strings.Contains(report, "Vector size: mixed") {
		t.Error("ragged record should report mixed vector size")
	}
}

func TestInspectLoadedMetadata(t *testing.T) {
	tbl := testTable(t)
	tok := namingTokenizer(tbl.Rows())

	step := 1500
	rec := &store.Record{
		Name:             "styled",
		Vectors:          []vector.Vector{{0, 1, 0, 0}},
		Step:             &step,
		SourceCheckpoint: "v1-5-pruned",
	}
	st := new(store.MockStore)
	st.On("Lookup", "styled").Return(rec, true).Once()

	svc := newTestService(tbl, tok, st, cache.NewNoOpCache(), new(notify.MockNotifier))
	report, err := svc.Inspect(context.Background(), "styled")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !strings.Contains(report, "Step: 1500") {
		t.Error("missing step line")
	}
	if !strings.Contains(report, "Checkpoint: v1-5-pruned") {
		t.Error("missing checkpoint line")
	}
}

func TestInspectUsesCache(t *testing.T) {
	tbl := testTable(t)
	tok := namingTokenizer(tbl.Rows())

	row, _ := tbl.Row(0)
	key := cache.GenerateKey(tbl.Fingerprint(), row, MaxSimilar)
	cached := []cache.Neighbor{{ID: 7, Name: "cached</w>", Score: 0.5}}

	c := new(cache.MockCache)
	c.On("GetNeighbors", mock.Anything, key).Return(cached, nil).Once()

	svc := newTestService(tbl, tok, emptyStore(), c, new(notify.MockNotifier))
	report, err := svc.Inspect(context.Background(), "#0")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !strings.Contains(report, "cached</w>(7)") {
		t.Error("cached neighbors not used")
	}
	c.AssertExpectations(t)
	c.AssertNotCalled(t, "SetNeighbors", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInspectCacheFailureFallsBackToScan(t *testing.T) {
	tbl := testTable(t)
	tok := namingTokenizer(tbl.Rows())

	c := new(cache.MockCache)
	c.On("GetNeighbors", mock.Anything, mock.Anything).Return(nil, errors.New("redis down")).Once()
	c.On("SetNeighbors", mock.Anything, mock.Anything, mock.Anything, time.Minute).Return(errors.New("redis down")).Once()

	svc := newTestService(tbl, tok, emptyStore(), c, new(notify.MockNotifier))
	report, err := svc.Inspect(context.Background(), "#0")
	if err != nil {
		t.Fatalf("Inspect failed despite cache errors: %v", err)
	}
	if !strings.Contains(report, "tok0</w>(0)") {
		t.Error("scan results missing after cache failure")
	}
	c.AssertExpectations(t)
}

func TestInspectResolveError(t *testing.T) {
	tbl := testTable(t)
	tok := namingTokenizer(tbl.Rows())
	svc := newTestService(tbl, tok, emptyStore(), cache.NewNoOpCache(), new(notify.MockNotifier))

	if _, err := svc.Inspect(context.Background(), ""); !errors.Is(err, ErrResolution) {
		t.Errorf("err = %v, want ErrResolution", err)
	}
}

func TestFormatVector(t *testing.T) {
	tests := []struct {
		name string
		row  vector.Vector
		want string
	}{
		{"short row prints fully", vector.Vector{1, -0.5}, "[1.0000, -0.5000]"},
		{
			"long row truncates to three from each end",
			vector.Vector{1, 2, 3, 4, 5, 6, 7, 8},
			"[1.0000, 2.0000, 3.0000, ..., 6.0000, 7.0000, 8.0000]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatVector(tt.row); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
