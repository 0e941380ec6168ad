package uitest

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/x/exp/teatest"

	tea "github.com/charmbracelet/bubbletea"
)

// BubbleModel is satisfied by models whose Update returns their own
// concrete type.
type BubbleModel[T any] interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (T, tea.Cmd)
	View() string
}

// adapter lets a [BubbleModel] run as a [tea.Model].
type adapter[T BubbleModel[T]] struct {
	model T
}

func (a adapter[T]) Init() tea.Cmd {
	return a.model.Init()
}

//nolint:ireturn // Must satisfy [tea.Model].
func (a adapter[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.model.Update(msg)
	return adapter[T]{model: m}, cmd
}

func (a adapter[T]) View() string {
	return a.model.View()
}

// NewTestModel starts m in a test program of the given size.
func NewTestModel[T BubbleModel[T]](tb testing.TB, m T, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(
		tb, adapter[T]{model: m},
		teatest.WithInitialTermSize(size.Width, size.Height),
	)
}

// FinalModel waits for the program started by [NewTestModel] to exit and
// returns the model it ended with.
func FinalModel[T BubbleModel[T]](tb testing.TB, tm *teatest.TestModel, timeout time.Duration) T {
	tb.Helper()

	final := tm.FinalModel(tb, teatest.WithFinalTimeout(timeout))

	a, ok := final.(adapter[T])
	if !ok {
		tb.Fatalf("final model has type %T", final)
	}

	return a.model
}

// WithDuration sets how long [WaitFor] waits.
func WithDuration(d time.Duration) teatest.WaitForOption {
	return teatest.WithDuration(d)
}

// WaitFor blocks until condition holds for the output read so far.
func WaitFor(tb testing.TB, r io.Reader, condition func([]byte) bool, opts ...teatest.WaitForOption) {
	tb.Helper()
	teatest.WaitFor(tb, r, condition, opts...)
}

// WaitForCapture is [WaitFor], returning the output that satisfied
// condition.
func WaitForCapture(tb testing.TB, r io.Reader, condition func([]byte) bool, opts ...teatest.WaitForOption) string {
	tb.Helper()

	var captured []byte

	teatest.WaitFor(tb, r, func(b []byte) bool {
		if condition(b) {
			captured = append([]byte(nil), b...)
			return true
		}

		return false
	}, opts...)

	return string(captured)
}

// FinalOutput waits for the program to exit and returns everything it
// wrote.
func FinalOutput(tb testing.TB, tm *teatest.TestModel, timeout time.Duration) string {
	tb.Helper()

	b, err := io.ReadAll(tm.FinalOutput(tb, teatest.WithFinalTimeout(timeout)))
	if err != nil {
		tb.Fatal(err)
	}

	return string(b)
}
