package utils

import (
	"fmt"
	"math"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// IsNan is true for NaN and for either infinity
func IsNan(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// AnyNan reports the first non-finite index in any of the arrays, or -1
func AnyNan(arrays ...[]float64) (index int) {
	for _, a := range arrays {
		for i, f := range a {
			if IsNan(f) {
				return i
			}
		}
	}
	return -1
}

func DefaultParallelDegree() int {
	return runtime.NumCPU()
}
