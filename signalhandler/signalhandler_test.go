package signalhandler

import "testing"

func TestRunCleanupsReverseOrderOnce(t *testing.T) {
	var order []int
	OnShutdown(func() { order = append(order, 1) })
	OnShutdown(func() { order = append(order, 2) })

	RunCleanups()
	RunCleanups()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("order = %v, want [2 1]", order)
	}
}
