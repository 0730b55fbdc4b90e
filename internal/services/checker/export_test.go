package checker

import "time"

func (c *Checker) SetNow(now func() time.Time) {
	c.now = now
}
