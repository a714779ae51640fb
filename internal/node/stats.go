package node

// Stats are running totals since the loop started.
type Stats struct {
	Cycles               uint64
	FramesSent           uint64
	CyclesDropped        uint64
	SendFailures         uint64
	AccelSamples         uint64
	AccelFailures        uint64
	AccelStandbyFailures uint64
	RadioSleepFailures   uint64
	RadioWakeFailures    uint64
}

func (s *Stats) record(r CycleResult) {
	s.Cycles++
	if r.Dropped {
		s.CyclesDropped++
	}
	if r.SentBytes > 0 {
		s.FramesSent++
	}
	if r.SendErr != nil {
		s.SendFailures++
	}
	if r.AccelRead {
		s.AccelSamples++
	}
	if r.AccelErr != nil {
		s.AccelFailures++
	}
	if r.RadioErr != nil {
		s.RadioSleepFailures++
	}
}
