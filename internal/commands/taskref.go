package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// SubtaskRef identifies a subtask by its parent task and its own id.
type SubtaskRef struct {
	TaskID    int
	SubtaskID int
}

var (
	// ErrTaskRefRequired indicates no task id was provided.
	ErrTaskRefRequired = errors.New("task id required")

	// ErrSubtaskRefRequired indicates no subtask id was provided.
	ErrSubtaskRefRequired = errors.New("subtask id required")
)

// ParseTaskID parses a task id from the first arg.
// Accepted forms: "12" and "#12".
func ParseTaskID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}
	id, ok := parseID(args[0])
	if !ok {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, nil
}

// ParseSubtaskRef parses a subtask reference from args.
//
// Accepted forms:
//   - "12/3" or "#12/#3" (combined)
//   - "12 3" (separated)
func ParseSubtaskRef(args []string) (SubtaskRef, error) {
	if len(args) == 0 {
		return SubtaskRef{}, ErrTaskRefRequired
	}

	if task, sub, found := strings.Cut(args[0], "/"); found {
		taskID, ok1 := parseID(task)
		subID, ok2 := parseID(sub)
		if !ok1 || !ok2 {
			return SubtaskRef{}, fmt.Errorf("invalid subtask reference: %s", args[0])
		}
		return SubtaskRef{TaskID: taskID, SubtaskID: subID}, nil
	}

	taskID, err := ParseTaskID(args)
	if err != nil {
		return SubtaskRef{}, err
	}
	if len(args) < 2 {
		return SubtaskRef{}, ErrSubtaskRefRequired
	}
	subID, ok := parseID(args[1])
	if !ok {
		return SubtaskRef{}, fmt.Errorf("invalid subtask id: %s", args[1])
	}
	return SubtaskRef{TaskID: taskID, SubtaskID: subID}, nil
}

// parseID accepts a positive decimal id with an optional leading '#'.
func parseID(s string) (int, bool) {
	s = strings.TrimPrefix(s, "#")
	if !isAllDigits(s) {
		return 0, false
	}
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
