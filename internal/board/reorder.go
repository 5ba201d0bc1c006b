package board

import "todo/internal/service"

// IDs returns the ids of tasks in order.
func IDs(tasks []service.Task) []int {
	ids := make([]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

// Drop returns a new order with dragged dropped onto target.
// Dragging downwards lands after the target, dragging upwards lands before it.
// If either id is missing or they are equal, a copy of order is returned.
func Drop(order []int, dragged, target int) []int {
	from, to := indexOf(order, dragged), indexOf(order, target)
	out := make([]int, len(order))
	copy(out, order)
	if from < 0 || to < 0 || from == to {
		return out
	}

	// Remove dragged, then insert at the target's original index. Downwards the
	// target has shifted up by one, so that index is just after it.
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]int{dragged}, out[to:]...)...)
	return out
}

// MoveBy returns a new order with the item at index i moved by delta places,
// clamped to the list bounds, and the item's new index.
func MoveBy(order []int, i, delta int) ([]int, int) {
	out := make([]int, len(order))
	copy(out, order)
	if i < 0 || i >= len(out) {
		return out, i
	}
	j := i + delta
	if j < 0 {
		j = 0
	}
	if j > len(out)-1 {
		j = len(out) - 1
	}
	if i == j {
		return out, i
	}
	return Drop(out, out[i], out[j]), j
}

// Positions assigns each id its index as position.
func Positions(order []int) map[int]int {
	positions := make(map[int]int, len(order))
	for i, id := range order {
		positions[id] = i
	}
	return positions
}

func indexOf(order []int, id int) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}
