package order

import "time"

// Test-only access for the external test package.
var RoundedPercent = roundedPercent

func (s *Service) SetNow(now func() time.Time) { s.now = now }
