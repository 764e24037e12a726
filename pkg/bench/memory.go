package bench

import "syscall"

// PeakMemoryMB returns the process's peak resident set size in megabytes, as
// reported by getrusage(RUSAGE_SELF). On Linux Ru_maxrss is in kilobytes.
func PeakMemoryMB() float64 {
	var ru syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return float64(ru.Maxrss) / 1024.0
}
