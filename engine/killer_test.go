package engine

import (
	"testing"

	"chess-search/rules"
)

func quiet(from, to rules.Square) rules.Move {
	return rules.Move{From: from, To: to, Piece: rules.Knight}
}

func TestInsertKillerKeepsTwoNewestFirst(t *testing.T) {
	var k KillerTable
	a, b, c := quiet(1, 18), quiet(6, 21), quiet(12, 28)

	k.InsertKiller(a, 3)
	k.InsertKiller(b, 3)
	k.InsertKiller(c, 3)
	got := k.Killers(3)
	if len(got) != 2 || got[0] != c || got[1] != b {
		t.Fatalf("killers at ply 3: got %v want [%v %v]", got, c, b)
	}
	if len(k.Killers(2)) != 0 {
		t.Fatalf("neighbouring ply was touched")
	}
}

func TestInsertKillerNoDuplicates(t *testing.T) {
	var k KillerTable
	a, b := quiet(1, 18), quiet(6, 21)

	k.InsertKiller(a, 0)
	k.InsertKiller(a, 0)
	if got := k.Killers(0); len(got) != 1 {
		t.Fatalf("duplicate insert stored %d killers", len(got))
	}

	k.InsertKiller(b, 0)
	k.InsertKiller(a, 0) // promote the older entry
	got := k.Killers(0)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("promotion: got %v want [%v %v]", got, a, b)
	}
}

func TestKillerTableBoundedUnderManyInserts(t *testing.T) {
	var k KillerTable
	for i := 0; i < 500; i++ {
		ply := i % 5
		k.InsertKiller(quiet(rules.Square(i%64), rules.Square((i*7)%64)), ply)
	}
	for ply := 0; ply < 5; ply++ {
		got := k.Killers(ply)
		if len(got) > 2 {
			t.Fatalf("ply %d holds %d killers", ply, len(got))
		}
		if len(got) == 2 && got[0] == got[1] {
			t.Fatalf("ply %d holds a duplicate killer", ply)
		}
	}
	k.ClearKillers()
	if len(k.Killers(0)) != 0 {
		t.Fatalf("ClearKillers left entries")
	}
}

func TestKillerOutOfRangePlyIgnored(t *testing.T) {
	var k KillerTable
	k.InsertKiller(quiet(1, 18), MaxPly+5)
	k.InsertKiller(quiet(1, 18), -1)
	if k.Killers(MaxPly+5) != nil {
		t.Fatalf("out of range ply returned killers")
	}
}

func TestHistoryAddAndAge(t *testing.T) {
	h := NewHistoryTable(100)
	m := quiet(1, 18)
	other := quiet(6, 21)

	h.Add(m, 3)
	h.Add(other, 4)
	if got := h.Score(m); got != 9 {
		t.Fatalf("depth 3 cutoff: got %d want 9", got)
	}
	h.Add(m, 0)
	if got := h.Score(m); got != 9 {
		t.Fatalf("depth 0 must not change history, got %d", got)
	}

	prev := h.Score(m)
	for i := 0; i < 50; i++ {
		h.Add(m, 5)
		cur := h.Score(m)
		if cur >= 100 {
			t.Fatalf("history reached the cap: %d", cur)
		}
		if cur < 0 {
			t.Fatalf("history went negative: %d", cur)
		}
		if cur < prev && h.Score(other) >= 16 {
			t.Fatalf("entry shrank without the table being halved")
		}
		prev = cur
	}
	if h.Score(other) >= 16 {
		t.Fatalf("ageing did not halve other entries: %d", h.Score(other))
	}

	h.Clear()
	if h.Max() != 0 {
		t.Fatalf("Clear left %d", h.Max())
	}
}

func TestHistorySingleHugeIncrementStaysBelowCap(t *testing.T) {
	h := NewHistoryTable(50)
	h.Add(quiet(1, 18), 20) // 400 in one step
	if got := h.Max(); got >= 50 {
		t.Fatalf("history %d not below cap", got)
	}
}
