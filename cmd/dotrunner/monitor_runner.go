package main

import (
	"fmt"
	"strconv"
	"strings"

	"dotrunner/core"
	"dotrunner/internal/monitor"
)

// runWithMonitor opens the TUI debugger over device instead of running
// the normal scheduler; --break addresses are seeded as breakpoints
// before handing control to the monitor's own step/continue loop.
func runWithMonitor(device *core.Device, breakAddrs []string) error {
	m := monitor.New(monitor.Wrap(device))
	for _, raw := range breakAddrs {
		addr, err := parseBreakAddr(raw)
		if err != nil {
			return err
		}
		m = m.WithBreakpoint(addr)
	}
	return monitor.RunModel(m)
}

func parseBreakAddr(raw string) (uint16, error) {
	s := strings.TrimPrefix(strings.ToUpper(raw), "0X")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid breakpoint address %q: %w", raw, err)
	}
	return uint16(v), nil
}
