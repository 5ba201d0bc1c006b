package reorder

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/board"
	"todo/internal/config"
	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/testutil"
)

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyJ     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	keyQ     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func newModel(t *testing.T, svc *testutil.FakeService) Model {
	t.Helper()
	b, err := board.Load(context.Background(), svc)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	p := output.NewPrinter(io.Discard, config.ThemeLight, true, time.UTC)
	return New(context.Background(), b, p)
}

func seed(svc *testutil.FakeService, titles ...string) []int {
	ids := make([]int, len(titles))
	for i, title := range titles {
		ids[i] = svc.AddTask(title).ID
	}
	return ids
}

// press feeds keys to m, running any returned command and feeding its
// message back, as the program loop would.
func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(k)
		m = next.(Model)
		if cmd == nil {
			continue
		}
		if msg, ok := cmd().(savedMsg); ok {
			next, _ = m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func TestCursorMovesWithoutPick(t *testing.T) {
	svc := testutil.NewFakeService()
	ids := seed(svc, "a", "b", "c")
	m := newModel(t, svc)

	m = press(t, m, keyDown, keyJ, keyDown)
	if m.Cursor() != 2 {
		t.Errorf("expected cursor clamped at 2, got %d", m.Cursor())
	}
	m = press(t, m, keyUp, keyUp, keyUp)
	if m.Cursor() != 0 {
		t.Errorf("expected cursor clamped at 0, got %d", m.Cursor())
	}
	if !reflect.DeepEqual(m.Order(), ids) {
		t.Errorf("order changed without a pick: %v", m.Order())
	}
}

func TestPickMoveDrop_SavesOneBatch(t *testing.T) {
	svc := testutil.NewFakeService()
	ids := seed(svc, "a", "b", "c", "d")
	m := newModel(t, svc)

	m = press(t, m, keySpace, keyDown, keyDown)
	if !m.Picked() {
		t.Fatal("expected task to be picked")
	}
	want := []int{ids[1], ids[2], ids[0], ids[3]}
	if !reflect.DeepEqual(m.Order(), want) {
		t.Fatalf("expected %v while dragging, got %v", want, m.Order())
	}
	if len(svc.Positions) != 0 {
		t.Fatal("expected nothing saved before the drop")
	}

	m = press(t, m, keySpace)
	if m.Picked() {
		t.Error("expected drop to release the task")
	}
	if len(svc.Positions) != 1 {
		t.Fatalf("expected one batch, got %d", len(svc.Positions))
	}
	wantPos := map[int]int{ids[1]: 0, ids[2]: 1, ids[0]: 2, ids[3]: 3}
	if !reflect.DeepEqual(svc.Positions[0], wantPos) {
		t.Errorf("expected %v, got %v", wantPos, svc.Positions[0])
	}
	if m.Saves() != 1 || m.Cursor() != 2 {
		t.Errorf("expected 1 save with cursor on moved task, got %d saves, cursor %d", m.Saves(), m.Cursor())
	}
}

func TestEnterDrops(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc, "a", "b")
	m := newModel(t, svc)

	m = press(t, m, keySpace, keyDown, keyEnter)
	if m.Picked() || len(svc.Positions) != 1 {
		t.Errorf("expected enter to drop and save, picked=%v batches=%d", m.Picked(), len(svc.Positions))
	}
}

func TestDropInPlace_DoesNotSave(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc, "a", "b")
	m := newModel(t, svc)

	m = press(t, m, keySpace, keyDown, keyUp, keySpace)
	if len(svc.Positions) != 0 {
		t.Errorf("expected no save for an unchanged order, got %d", len(svc.Positions))
	}
}

func TestEscRestoresOrder(t *testing.T) {
	svc := testutil.NewFakeService()
	ids := seed(svc, "a", "b", "c")
	m := newModel(t, svc)

	m = press(t, m, keySpace, keyDown, keyDown, keyEsc)
	if m.Picked() {
		t.Error("expected esc to cancel the pick")
	}
	if !reflect.DeepEqual(m.Order(), ids) {
		t.Errorf("expected original order %v, got %v", ids, m.Order())
	}
	if m.Cursor() != 0 {
		t.Errorf("expected cursor back on the picked task, got %d", m.Cursor())
	}
	if len(svc.Positions) != 0 {
		t.Error("expected nothing saved")
	}
}

func TestSaveFailure_RestoresOrder(t *testing.T) {
	svc := testutil.NewFakeService()
	ids := seed(svc, "a", "b")
	m := newModel(t, svc)
	svc.UpdatePositionsErr = errors.New("boom")

	m = press(t, m, keySpace, keyDown, keySpace)
	if !reflect.DeepEqual(m.Order(), ids) {
		t.Errorf("expected original order after failure, got %v", m.Order())
	}
	if m.Err() != nil {
		t.Errorf("expected a non-fatal failure, got %v", m.Err())
	}
	if !strings.Contains(m.View(), "error: boom") {
		t.Error("expected error in status line")
	}
}

func TestReloadFailure_KeepsDroppedOrder(t *testing.T) {
	svc := testutil.NewFakeService()
	ids := seed(svc, "a", "b")
	m := newModel(t, svc)
	svc.ReloadErr = errors.New("connection reset")

	m = press(t, m, keySpace, keyDown, keySpace)
	want := []int{ids[1], ids[0]}
	if !reflect.DeepEqual(m.Order(), want) {
		t.Errorf("expected the saved order %v, got %v", want, m.Order())
	}
	if m.Saves() != 1 || !m.Unconfirmed() {
		t.Errorf("expected 1 unconfirmed save, got %d saves, unconfirmed=%v", m.Saves(), m.Unconfirmed())
	}
	if m.Err() != nil {
		t.Errorf("expected a non-fatal failure, got %v", m.Err())
	}
	if !strings.Contains(m.Status(), "saved, but the task list could not be reloaded: connection reset") {
		t.Errorf("unexpected status %q", m.Status())
	}
	if m.Cursor() != 1 {
		t.Errorf("expected cursor on the moved task, got %d", m.Cursor())
	}

	svc.ReloadErr = nil
	m = press(t, m, keySpace, keyUp, keySpace)
	if m.Saves() != 2 || m.Unconfirmed() {
		t.Errorf("expected a confirmed second save, got %d saves, unconfirmed=%v", m.Saves(), m.Unconfirmed())
	}
	if !reflect.DeepEqual(m.Order(), ids) {
		t.Errorf("expected %v after the second drop, got %v", ids, m.Order())
	}
}

func TestSaveUnauthorized_Quits(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc, "a", "b")
	m := newModel(t, svc)
	svc.UpdatePositionsErr = service.ErrUnauthorized

	m = press(t, m, keySpace, keyDown)
	next, cmd := m.Update(keySpace)
	next, cmd = next.(Model).Update(cmd())
	m = next.(Model)

	if !errors.Is(m.Err(), service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", m.Err())
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestQuit(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newModel(t, svc)

	_, cmd := m.Update(keyQ)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestView(t *testing.T) {
	svc := testutil.NewFakeService()
	seed(svc, "Write report", "Gym")
	m := newModel(t, svc)

	v := m.View()
	if !strings.Contains(v, "> ") || !strings.Contains(v, "#1  Write report") {
		t.Errorf("expected cursor on first task, got:\n%s", v)
	}

	v = press(t, m, keySpace).View()
	if !strings.Contains(v, "* ") {
		t.Errorf("expected picked marker, got:\n%s", v)
	}
}

func TestView_Empty(t *testing.T) {
	m := newModel(t, testutil.NewFakeService())
	if !strings.Contains(m.View(), output.EmptyMessage) {
		t.Error("expected empty message")
	}
	// keys other than quit are ignored
	m = press(t, m, keySpace, keyDown)
	if m.Picked() {
		t.Error("expected nothing to pick")
	}
}
