package shared

import "sync"

//Errors collect errors, supports parallel errors collecting.
type Errors struct {
	locker sync.Mutex
	errors []error
}

//NewErrors creates an errors collector
func NewErrors() *Errors {
	return &Errors{
		locker: sync.Mutex{},
		errors: make([]error, 0),
	}
}

//Append appends error, nil errors are discarded.
func (r *Errors) Append(err error) {
	if err == nil {
		return
	}
	r.locker.Lock()
	defer r.locker.Unlock()
	r.errors = append(r.errors, err)
}

//Count returns number of collected errors
func (r *Errors) Count() int {
	r.locker.Lock()
	defer r.locker.Unlock()
	return len(r.errors)
}

//Error returns first encounter error if any
func (r *Errors) Error() error {
	r.locker.Lock()
	defer r.locker.Unlock()

	for i := range r.errors {
		if r.errors[i] != nil {
			return r.errors[i]
		}
	}

	return nil
}
