package server

import "time"

func (s *Server) SetNow(now func() time.Time) {
	s.now = now
}
