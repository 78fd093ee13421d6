package inspector

import (
	"strings"
	"testing"

	"github.com/necropreneur/embedding-inspector/internal/cache"
	"github.com/necropreneur/embedding-inspector/internal/notify"
	"github.com/necropreneur/embedding-inspector/internal/store"
	"github.com/necropreneur/embedding-inspector/internal/vector"
)

func TestListLoaded(t *testing.T) {
	tbl := testTable(t)
	tok := namingTokenizer(tbl.Rows())

	step := 99
	records := []*store.Record{
		{
			Name:             "first",
			Vectors:          []vector.Vector{{1, 2, 3, 4}},
			Step:             &step,
			SourceCheckpoint: "sd-v1-5",
		},
		{
			Name:    "ragged",
			Vectors: []vector.Vector{{1, 2}, {3}},
		},
		{}, // unreadable record
		nil,
	}
	st := new(store.MockStore)
	st.On("List").Return(records).Once()

	svc := newTestService(tbl, tok, st, cache.NewNoOpCache(), new(notify.MockNotifier))
	report := svc.ListLoaded()
	lines := strings.Split(report, "\n")

	if lines[0] != "Loaded embeddings (4):" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "first") ||
		!strings.Contains(lines[2], "["+records[0].Checksum()+"]") ||
		!strings.Contains(lines[2], "Vectors: 1 x 4") ||
		!strings.Contains(lines[2], "Ckpt:sd-v1-5") {
		t.Errorf("first entry line = %q", lines[2])
	}
	if !strings.Contains(lines[3], "Vectors: 2 x mixed") {
		t.Errorf("ragged entry line = %q", lines[3])
	}
	if lines[4] != "!error!" || lines[5] != "!error!" {
		t.Errorf("unreadable records should render !error!, got %q / %q", lines[4], lines[5])
	}
	st.AssertExpectations(t)
}

func TestListLoadedEmpty(t *testing.T) {
	tbl := testTable(t)
	tok := namingTokenizer(tbl.Rows())
	st := new(store.MockStore)
	st.On("List").Return([]*store.Record{}).Once()

	svc := newTestService(tbl, tok, st, cache.NewNoOpCache(), new(notify.MockNotifier))
	report := svc.ListLoaded()
	if !strings.HasPrefix(report, "Loaded embeddings (0):") {
		t.Errorf("report = %q", report)
	}
}
