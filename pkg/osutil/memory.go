package osutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/pbnjay/memory"
)

const (
	// This is the default value for cgroup's limit_in_bytes. This is not a
	// valid value and indicates that the memory is not restricted.
	// See https://unix.stackexchange.com/questions/420906/what-is-the-value-for-the-cgroups-limit-in-bytes-if-the-memory-is-not-restricted
	unrestrictedMemoryLimit = 9223372036854771712
)

var memoryLimitLocations = []string{
	"/sys/fs/cgroup/memory/memory.limit_in_bytes", // cgroup v1
	"/sys/fs/cgroup/memory.max",                   // cgroup v2, "max" when unrestricted
}

// GetTotalMemory returns the total available memory size. The call is
// container-aware.
func GetTotalMemory() uint64 {
	totalMemory := memory.TotalMemory()

	for _, location := range memoryLimitLocations {
		limit, ok := readMemoryLimit(location)
		if ok && limit > 0 && (totalMemory == 0 || limit < totalMemory) {
			return limit
		}
	}
	return totalMemory
}

func readMemoryLimit(location string) (uint64, bool) {
	contents, err := os.ReadFile(location)
	if err != nil {
		return 0, false
	}

	return parseMemoryLimit(string(contents))
}

func parseMemoryLimit(value string) (uint64, bool) {
	value = strings.TrimSpace(value)
	if value == "max" {
		return 0, false
	}

	limit, err := strconv.ParseUint(value, 10, 64)
	if err != nil || limit == unrestrictedMemoryLimit {
		return 0, false
	}
	return limit, true
}
