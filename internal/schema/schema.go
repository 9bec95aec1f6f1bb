// Package schema validates normalized records before they are sent out.
// Validation failures are returned as plain messages so parsers can drop a
// bad record and keep going instead of aborting the whole page.
package schema

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Checker struct {
	v *validator.Validate
}

func New() *Checker {
	return &Checker{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Check runs the struct tags of rec and returns one message per failed field.
// An empty slice means the record is valid.
func (c *Checker) Check(rec any) []string {
	err := c.v.Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q rule on value %v", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return msgs
}

// CheckAll validates recs in order and stops at the first invalid one,
// returning its index and messages. Index -1 means every record passed.
func CheckAll[T any](c *Checker, recs []T) (int, []string) {
	for i := range recs {
		if msgs := c.Check(recs[i]); len(msgs) > 0 {
			return i, msgs
		}
	}
	return -1, nil
}
