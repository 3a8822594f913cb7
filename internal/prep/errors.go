package prep

import "fmt"

// EmptyDatasetError indicates a preparation stage left no usable rows.
type EmptyDatasetError struct {
	Stage string
	Input int // rows entering the stage
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("empty dataset after %s (%d rows in)", e.Stage, e.Input)
}
