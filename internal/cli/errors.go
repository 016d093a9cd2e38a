package cli

import (
	"errors"
	"fmt"
)

var errRemoteUnsupported = errors.New("this command needs the local db; drop --remote")

type notOnBoardError struct {
	taskID string
	year   int
}

func (e notOnBoardError) Error() string {
	return fmt.Sprintf("task %s is not on the %d board (pass --year)", e.taskID, e.year)
}

func errNotOnBoard(taskID string, year int) error {
	return notOnBoardError{taskID: taskID, year: year}
}
