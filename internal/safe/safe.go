// Package safe runs functions at goroutine and loop boundaries so that a
// panic in one unit of work becomes an error instead of a process crash.
package safe

import "fmt"

// Run executes fn and converts panics into returned errors tagged with scope.
func Run(scope string, fn func() error) (err error) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		err = fmt.Errorf("%s: panic recovered: %v", scope, recovered)
	}()

	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", scope, err)
	}

	return nil
}
